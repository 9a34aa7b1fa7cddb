package gnsseph

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClockCorrAtToc(t *testing.T) {
	eph := testEphe()
	eph.Ecc = 0
	p := NewPropagator(GPSConstants())
	clk := p.ClockCorr(eph, eph.Toc, true)
	assert.Equal(t, eph.Af0-eph.Tgd, clk[0])
	assert.Equal(t, eph.Af1, clk[1])
	assert.Equal(t, 2*eph.Af2, clk[2])
}

func TestClockCorrRelativity(t *testing.T) {
	eph := testEphe()
	p := NewPropagator(GPSConstants())
	clk := p.ClockCorr(eph, eph.Toc, false)
	rel := clk[0] - (eph.Af0 - eph.Tgd)
	assert.NotZero(t, rel)
	assert.Less(t, rel, 5e-8) // |F e sqrtA| bounds the term
	assert.Greater(t, rel, -5e-8)
}

func TestClockCorrContinuous(t *testing.T) {
	eph := testEphe()
	p := NewPropagator(GPSConstants())
	prev := p.ClockCorr(eph, eph.Toc-10, false)[0]
	for dt := -9.0; dt <= 10; dt++ {
		cur := p.ClockCorr(eph, eph.Toc+dt, false)[0]
		assert.InDelta(t, prev, cur, 1e-10, "dt=%f", dt)
		prev = cur
	}
}

// Drift and drift rate must match the time derivatives of bias and drift
func TestClockCorrDerivatives(t *testing.T) {
	eph := testEphe()
	p := NewPropagator(GPSConstants())
	const h = 1.0
	for _, tow := range []float64{eph.Toc - 3600, eph.Toc + 600, eph.Toc + 5400} {
		clk := p.ClockCorr(eph, tow, true)
		c1 := p.ClockCorr(eph, tow+h, true)
		c0 := p.ClockCorr(eph, tow-h, true)
		assert.InDelta(t, (c1[0]-c0[0])/(2*h), clk[1], 1e-15, "tow=%f", tow)
		assert.InDelta(t, (c1[1]-c0[1])/(2*h), clk[2], 1e-18, "tow=%f", tow)
	}
}

func TestClockCorrWeekRollover(t *testing.T) {
	eph := testEphe()
	eph.Ecc = 0
	eph.Toe, eph.Toc = 597600, 597600
	p := NewPropagator(GPSConstants())
	clk := p.ClockCorr(eph, 1800, false) // dt = 9000 s
	dt := 9000.0
	assert.InDelta(t, eph.Af0+eph.Af1*dt+eph.Af2*dt*dt-eph.Tgd, clk[0], 1e-18)
	assert.Equal(t, 0.0, clk[2])
}

func TestClockCorrMatchesNavStates(t *testing.T) {
	eph := testEphe()
	p := NewPropagator(GalileoConstants())
	for _, tow := range []float64{eph.Toe - 7000, eph.Toe, eph.Toe + 4321} {
		assert.Equal(t, p.NavStates(eph, tow, true).Clk, p.ClockCorr(eph, tow, true))
		assert.Equal(t, p.NavStates(eph, tow, false).Clk, p.ClockCorr(eph, tow, false))
	}
}
