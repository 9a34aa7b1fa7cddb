package gnsseph

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSysVar(t *testing.T) {
	var s SysVar
	require.NoError(t, s.Set("G,E,C"))
	assert.Equal(t, "G,E,C", s.String())
	assert.True(t, s.Contains('E'))
	assert.False(t, s.Contains('J'))
	assert.Error(t, s.Set("G,R"))
}

func TestSatVar(t *testing.T) {
	var s SatVar
	require.NoError(t, s.Set("G01,E11,"))
	assert.Equal(t, SatVar{"G01", "E11"}, s)
	assert.Equal(t, "G01,E11", s.String())
}

func TestParamVar(t *testing.T) {
	var p ParamVar
	require.NoError(t, p.Set("toe=345600"))
	require.NoError(t, p.Set(" af0 = 1e-4"))
	assert.Equal(t, ParamVar{"toe": 345600, "af0": 1e-4}, p)
	assert.Equal(t, "af0=0.0001,toe=345600", p.String())

	assert.Error(t, p.Set("toe"))
	assert.Error(t, p.Set("toe=abc"))

	eph := testEphe()
	require.NoError(t, eph.UpdateParams(p))
	assert.Equal(t, 345600.0, eph.Toe)
	assert.Equal(t, 1e-4, eph.Af0)
}

func TestTimeStr(t *testing.T) {
	var ts TimeStr
	require.NoError(t, ts.UnmarshalText([]byte("2023/01/01 02:00:00")))
	assert.Equal(t, time.Date(2023, 1, 1, 2, 0, 0, 0, time.UTC), time.Time(ts))
	assert.Error(t, ts.UnmarshalText([]byte("2023-01-01T02:00:00")))
}

func TestSatVarInvalid(t *testing.T) {
	var s SatVar
	assert.Error(t, s.Set("G01,X05"))
	assert.Error(t, s.Set("G1"))
	assert.Error(t, s.Set("E00"))
}
