package gnsseph

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetParamToe(t *testing.T) {
	eph := testEphe()
	require.NoError(t, eph.SetParam("toe", 352800))
	assert.Equal(t, 352800.0, eph.Toe)

	v, err := eph.Param("TOE")
	require.NoError(t, err)
	assert.Equal(t, 352800.0, v)
}

func TestSetParamUnknownName(t *testing.T) {
	eph := testEphe()
	before := *eph
	err := eph.SetParam("toe_x", 1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidParameter))
	assert.Contains(t, err.Error(), "toe_x")
	assert.Equal(t, before, *eph)
}

func TestSetParamCaseInsensitive(t *testing.T) {
	eph := &KeplerEphe{}
	require.NoError(t, eph.SetParam("SqrtA", 5153.7))
	require.NoError(t, eph.SetParam("OMEGADOT", -8e-9))
	require.NoError(t, eph.SetParam("Health", 1))
	assert.Equal(t, 5153.7, eph.SqrtA)
	assert.Equal(t, -8e-9, eph.OmegaD)
	assert.Equal(t, 1, eph.Health)
	assert.False(t, eph.Healthy())
}

func TestParamNamesAreAllSettable(t *testing.T) {
	names := ParamNames()
	assert.Len(t, names, 25)
	eph := &KeplerEphe{}
	for i, name := range names {
		require.NoError(t, eph.SetParam(name, float64(i+1)), name)
	}
	for i, name := range names {
		v, err := eph.Param(name)
		require.NoError(t, err)
		assert.Equal(t, float64(i+1), v, name)
	}
}

func TestUpdateParamsNoPartialUpdate(t *testing.T) {
	eph := testEphe()
	before := *eph
	err := eph.UpdateParams(map[string]float64{"af0": 1.0, "toe": 0, "bogus": 2})
	assert.ErrorIs(t, err, ErrInvalidParameter)
	assert.Equal(t, before, *eph)

	require.NoError(t, eph.UpdateParams(map[string]float64{"af0": 1.0, "IODE": 7}))
	assert.Equal(t, 1.0, eph.Af0)
	assert.Equal(t, 7, eph.Iode)
}

func TestValidate(t *testing.T) {
	assert.NoError(t, testEphe().Validate())

	eph := testEphe()
	eph.Ecc = 1.0
	assert.ErrorIs(t, eph.Validate(), ErrInvalidEphemeris)

	eph = testEphe()
	eph.Ecc = -0.1
	assert.ErrorIs(t, eph.Validate(), ErrInvalidEphemeris)

	eph = testEphe()
	eph.SqrtA = 0
	assert.ErrorIs(t, eph.Validate(), ErrInvalidEphemeris)
}

func TestBuilderReturnsIndependentCopies(t *testing.T) {
	b := NewEpheBuilder("E11").Toe(1000).Iode(3)
	e1 := b.Build()
	e2 := b.Toe(2000).Build()
	assert.Equal(t, 1000.0, e1.Toe)
	assert.Equal(t, 2000.0, e2.Toe)
	assert.Equal(t, 3, e2.Iode)
	assert.Equal(t, SatType("E11"), e2.Sat)
}

func TestUraVariance(t *testing.T) {
	tests := []struct {
		sat  SatType
		ura  int
		want float64
	}{
		{"G01", 0, 2.4 * 2.4},
		{"G01", 14, 6144.0 * 6144.0},
		{"G01", 15, 6144.0 * 6144.0},
		{"E01", 40, 0.4 * 0.4},
		{"E01", 255, 500.0 * 500.0},
	}
	for _, tt := range tests {
		eph := &KeplerEphe{Sat: tt.sat, Ura: tt.ura}
		assert.InDelta(t, tt.want, eph.UraVariance(), 1e-9, "%s ura=%d", tt.sat, tt.ura)
	}
}

func TestEpheString(t *testing.T) {
	s := testEphe().String()
	assert.Contains(t, s, "### Nav. for G01")
	assert.Contains(t, s, "SqrtA: 5153.6553")
}
