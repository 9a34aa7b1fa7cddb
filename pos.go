// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2026.10.18
//

package gnsseph

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

//-------------------------------------------------------------------
// PosLLH
//-------------------------------------------------------------------

type PosLLH struct {
	Lat float64
	Lon float64
	Hei float64
}

// Prime vertical radius of curvature [m] and first eccentricity squared of the ellipsoid at lat
func primeVertical(lat float64) (n, e2 float64) {
	e2 = Fe * (2 - Fe)
	sinLat := math.Sin(lat)
	return Re / math.Sqrt(1-e2*sinLat*sinLat), e2
}

func (llh *PosLLH) ToXYZ() PosXYZ {
	n, e2 := primeVertical(llh.Lat)
	sinLat, cosLat := math.Sincos(llh.Lat)
	sinLon, cosLon := math.Sincos(llh.Lon)
	return PosXYZ{
		X: (n + llh.Hei) * cosLat * cosLon,
		Y: (n + llh.Hei) * cosLat * sinLon,
		Z: (n*(1-e2) + llh.Hei) * sinLat,
	}
}

// Read from string "lat lon hei" (degrees, degrees, meters)
func (llh *PosLLH) Set(s string) error {
	var err error
	f := strings.Fields(s)
	if len(f) != 3 {
		return fmt.Errorf("three values are required (lat lon hei): %q", s)
	}
	llh.Lat, err = strconv.ParseFloat(f[0], 64)
	if err != nil {
		return err
	}
	llh.Lon, err = strconv.ParseFloat(f[1], 64)
	if err != nil {
		return err
	}
	llh.Hei, err = strconv.ParseFloat(f[2], 64)
	if err != nil {
		return err
	}
	llh.Lat = ToRad(llh.Lat)
	llh.Lon = ToRad(llh.Lon)
	return nil
}

// Convert to string
func (llh *PosLLH) String() string {
	return fmt.Sprintf("%.8f %.8f %.4f", ToDeg(llh.Lat), ToDeg(llh.Lon), llh.Hei)
}

//-------------------------------------------------------------------
// PosXYZ
//-------------------------------------------------------------------

type PosXYZ struct {
	X float64
	Y float64
	Z float64
}

func FromVec(v r3.Vec) PosXYZ {
	return PosXYZ{X: v.X, Y: v.Y, Z: v.Z}
}

func (pos PosXYZ) Vec() r3.Vec {
	return r3.Vec{X: pos.X, Y: pos.Y, Z: pos.Z}
}

// Bowring's closed form
func (pos *PosXYZ) ToLLH() PosLLH {
	if *pos == (PosXYZ{}) {
		return PosLLH{Hei: -Re}
	}
	b := Re * (1 - Fe)
	e2 := Fe * (2 - Fe)
	ep2 := (Re*Re - b*b) / (b * b) // Second eccentricity squared
	p := math.Hypot(pos.X, pos.Y)
	sinT, cosT := math.Sincos(math.Atan2(pos.Z*Re, p*b))
	lat := math.Atan2(pos.Z+ep2*b*sinT*sinT*sinT, p-e2*Re*cosT*cosT*cosT)
	n, _ := primeVertical(lat)
	return PosLLH{Lat: lat, Lon: math.Atan2(pos.Y, pos.X), Hei: p/math.Cos(lat) - n}
}

// ECEF to local east/north/up at llh
func enuRotation(llh PosLLH) *mat.Dense {
	sinLat, cosLat := math.Sincos(llh.Lat)
	sinLon, cosLon := math.Sincos(llh.Lon)
	return mat.NewDense(3, 3, []float64{
		-sinLon, cosLon, 0,
		-sinLat * cosLon, -sinLat * sinLon, cosLat,
		cosLat * cosLon, cosLat * sinLon, sinLat,
	})
}

// Position relative to base in base's ENU frame
func (pos *PosXYZ) ToENU(base PosXYZ) PosENU {
	d := r3.Sub(pos.Vec(), base.Vec())
	var enu mat.VecDense
	enu.MulVec(enuRotation(base.ToLLH()), mat.NewVecDense(3, []float64{d.X, d.Y, d.Z}))
	return PosENU{E: enu.AtVec(0), N: enu.AtVec(1), U: enu.AtVec(2)}
}

// Azimuth and elevation [rad] of sat seen from usr
func (usr *PosXYZ) LookAngles(sat PosXYZ) (az, el float64) {
	enu := sat.ToENU(*usr)
	return enu.Azimuth(), enu.Elevation()
}

// Geometric distance to the satellite [m]
func (usr *PosXYZ) Range(sat PosXYZ) float64 {
	return r3.Norm(r3.Sub(sat.Vec(), usr.Vec()))
}

// Line-of-sight range rate [m/s] of a satellite moving with satVel, for a static user
func (usr *PosXYZ) RangeRate(sat PosXYZ, satVel r3.Vec) float64 {
	los := r3.Unit(r3.Sub(sat.Vec(), usr.Vec()))
	return r3.Dot(los, satVel)
}

//-------------------------------------------------------------------
// PosENU
//-------------------------------------------------------------------

type PosENU struct {
	E float64
	N float64
	U float64
}

func (enu *PosENU) Elevation() float64 {
	return math.Atan2(enu.U, math.Hypot(enu.E, enu.N))
}

func (enu *PosENU) Azimuth() float64 {
	return math.Atan2(enu.E, enu.N)
}
