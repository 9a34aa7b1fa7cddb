package gnsseph

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestPosLLHRoundTrip(t *testing.T) {
	for _, llh := range []PosLLH{
		{Lat: ToRad(35.73101206), Lon: ToRad(139.7396917), Hei: 80.33},
		{Lat: ToRad(-33.8688), Lon: ToRad(-151.2093), Hei: 10},
		{Lat: ToRad(89.9), Lon: 0, Hei: 2500},
	} {
		xyz := llh.ToXYZ()
		got := xyz.ToLLH()
		assert.InDelta(t, llh.Lat, got.Lat, 1e-9)
		assert.InDelta(t, llh.Lon, got.Lon, 1e-9)
		assert.InDelta(t, llh.Hei, got.Hei, 1e-4)
	}
}

func TestPosLLHSet(t *testing.T) {
	var llh PosLLH
	require.NoError(t, llh.Set("35.5 139.25 80.0"))
	assert.InDelta(t, ToRad(35.5), llh.Lat, 1e-15)
	assert.InDelta(t, ToRad(139.25), llh.Lon, 1e-15)
	assert.Equal(t, 80.0, llh.Hei)
	assert.Equal(t, "35.50000000 139.25000000 80.0000", llh.String())

	assert.Error(t, llh.Set("35.5 139.25"))
	assert.Error(t, llh.Set("35.5 east 80"))
}

func TestLookAngles(t *testing.T) {
	usr := (&PosLLH{Lat: ToRad(35), Lon: ToRad(139), Hei: 0}).ToXYZ()
	up := r3.Unit(usr.Vec())
	sat := FromVec(r3.Add(usr.Vec(), r3.Scale(2.0e7, up)))

	_, el := usr.LookAngles(sat)
	assert.InDelta(t, math.Pi/2, el, 1e-2) // geodetic vs. geocentric vertical
	assert.InDelta(t, 2.0e7, usr.Range(sat), 1e-6)
	assert.InDelta(t, 100.0, usr.RangeRate(sat, r3.Scale(100, up)), 1e-9)
	assert.InDelta(t, 0.0, usr.RangeRate(sat, r3.Vec{X: -up.Y, Y: up.X}), 1e-9)

	// Due east on the horizon
	az, el := usr.LookAngles(FromVec(r3.Add(usr.Vec(), r3.Scale(1000, r3.Vec{X: -math.Sin(ToRad(139)), Y: math.Cos(ToRad(139))}))))
	assert.InDelta(t, math.Pi/2, az, 1e-9)
	assert.InDelta(t, 0.0, el, 1e-6)

	// North of the user on the horizon plane
	north := PosENU{E: 0, N: 1000, U: 0}
	assert.InDelta(t, 0.0, north.Azimuth(), 1e-15)
	assert.InDelta(t, 0.0, north.Elevation(), 1e-15)
	east := PosENU{E: 1000, N: 0, U: 1000}
	assert.InDelta(t, math.Pi/2, east.Azimuth(), 1e-15)
	assert.InDelta(t, math.Pi/4, east.Elevation(), 1e-15)
}
