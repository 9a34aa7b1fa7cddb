package gnsseph

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCheckTimeRange(t *testing.T) {
	assert := assert.New(t)
	for d := -WEEK + 0.5; d < WEEK; d += 997.3 {
		r := CheckTime(d)
		assert.Greater(r, -HALF_WEEK, "d=%f", d)
		assert.LessOrEqual(r, HALF_WEEK, "d=%f", d)
		k := (d - r) / WEEK
		assert.InDelta(math.Round(k), k, 1e-12, "d=%f r=%f not congruent", d, r)
	}
}

func TestCheckTimeBoundaries(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want float64
	}{
		{"zero", 0, 0},
		{"inside", 1234.5, 1234.5},
		{"upper edge kept", HALF_WEEK, HALF_WEEK},
		{"lower edge folded", -HALF_WEEK, HALF_WEEK},
		{"just above", HALF_WEEK + 1, -HALF_WEEK + 1},
		{"just below", -HALF_WEEK - 1, HALF_WEEK - 1},
		{"rollover forward", 1800 - 597600, 9000},
		{"rollover backward", 597600 - 1800, -9000},
		{"two weeks", 2*WEEK + 10, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, CheckTime(tt.in), 1e-9)
		})
	}
}

func TestGTimeAddSub(t *testing.T) {
	assert := assert.New(t)
	g := GTime{Week: 2250, Sec: WEEK - 10}
	h := g.Add(25)
	assert.Equal(2251, h.Week)
	assert.InDelta(15.0, h.Sec, 1e-9)
	assert.InDelta(25.0, h.Sub(g), 1e-9)

	b := h.Add(-40)
	assert.Equal(2250, b.Week)
	assert.InDelta(WEEK-25, b.Sec, 1e-9)
}

func TestGTimeConversion(t *testing.T) {
	assert := assert.New(t)
	dt := time.Date(2023, 1, 1, 2, 0, 0, 0, time.UTC) // Sunday
	g := NewGTime(dt)
	assert.Equal(2243, g.Week)
	assert.InDelta(7200.0, g.Sec, 1e-9)
	assert.True(g.ToTime().Equal(dt))
}

func TestGTimeLess(t *testing.T) {
	a := GTime{Week: 2250, Sec: 100.2}
	b := GTime{Week: 2250, Sec: 100.4}
	c := GTime{Week: 2251, Sec: 0}
	assert.True(t, a.Less(b, false))
	assert.False(t, a.Less(b, true))
	assert.True(t, a.LessOrEqual(b, true))
	assert.True(t, b.Less(c, true))
	assert.False(t, c.LessOrEqual(a, false))
}
