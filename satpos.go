// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2026.10.18
//

package gnsseph

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

// Satellite state at one time of week (ECEF)
type NavState struct {
	Clk [3]float64 // Clock bias [s], drift [s/s], drift rate [s/s^2]
	Pos r3.Vec     // Position [m]
	Vel r3.Vec     // Velocity [m/s]
	Acc r3.Vec     // Acceleration [m/s^2], zero unless requested
}

// Keplerian orbit and clock propagator.
// Holds no mutable state, so one value can be shared by any number of goroutines.
type Propagator struct {
	Const  Constants
	Kepler KeplerSolver
}

func NewPropagator(c Constants) *Propagator {
	return &Propagator{Const: c, Kepler: DefaultKeplerSolver()}
}

// Propagator using the constants of the satellite's system
func PropagatorFor(sat SatType) *Propagator {
	return NewPropagator(ConstantsFor(sat.Sys()))
}

// Corrected mean motion [rad/s] and mean anomaly [rad] at tk seconds from Toe
func (p *Propagator) meanAnomaly(eph *KeplerEphe, tk float64) (n, mk float64) {
	a := eph.SqrtA * eph.SqrtA
	n0 := math.Sqrt(p.Const.GM / (a * a * a))
	n = n0 + eph.DeltaN
	mk = normAngle(eph.M0 + n*tk)
	return
}

// Eccentric anomaly [rad] and corrected mean motion [rad/s] at tow
func (p *Propagator) EccAnomaly(eph *KeplerEphe, tow float64) (ek, n float64) {
	tk := CheckTime(tow - eph.Toe)
	n, mk := p.meanAnomaly(eph, tk)
	ek, _, _ = p.Kepler.Solve(mk, eph.Ecc)
	return
}

// Satellite clock correction, position, velocity and (optionally) acceleration at time of week tow [s].
// No bounds are checked on the elements; callers validate health and issue of data beforehand.
func (p *Propagator) NavStates(eph *KeplerEphe, tow float64, calcAccel bool) (st NavState) {
	gm := p.Const.GM
	omge := p.Const.OmegaE

	// Kepler equation
	tk := CheckTime(tow - eph.Toe) // Time from ephemeris epoch
	n, mk := p.meanAnomaly(eph, tk)
	ek, _, _ := p.Kepler.Solve(mk, eph.Ecc)

	a := eph.SqrtA * eph.SqrtA
	e := eph.Ecc
	cosE := math.Cos(ek)
	sinE := math.Sin(ek)
	den := 1.0 - e*cosE

	// True anomaly and argument of latitude
	vk := 2.0 * math.Atan2(math.Sqrt((1.0+e)/(1.0-e))*math.Tan(0.5*ek), 1.0)
	phik := normAngle(vk + eph.Omega)
	cos2P := math.Cos(2.0 * phik)
	sin2P := math.Sin(2.0 * phik)

	// Second harmonic corrections
	uk := phik + eph.Cus*sin2P + eph.Cuc*cos2P
	rk := a*den + eph.Crs*sin2P + eph.Crc*cos2P
	ik := eph.I0 + eph.Idot*tk + eph.Cis*sin2P + eph.Cic*cos2P

	// Longitude of ascending node. BeiDou GEO nodes are kept inertial and rotated into ECEF below.
	geo := eph.Sat.IsBeidouGEO()
	wDot := eph.OmegaD - omge
	if geo {
		wDot = eph.OmegaD
	}
	wk := normAngle(eph.Omega0 + tk*wDot - omge*eph.SysToe())
	cosU, sinU := math.Cos(uk), math.Sin(uk)
	cosI, sinI := math.Cos(ik), math.Sin(ik)
	cosW, sinW := math.Cos(wk), math.Sin(wk)

	// Rates
	eDot := n / den
	vDot := eDot * math.Sqrt(1.0-e*e) / den
	iDot := eph.Idot + 2.0*vDot*(eph.Cis*cos2P-eph.Cic*sin2P)
	uDot := vDot * (1.0 + 2.0*(eph.Cus*cos2P-eph.Cuc*sin2P))
	rDot := e*a*eDot*sinE + 2.0*vDot*(eph.Crs*cos2P-eph.Crc*sin2P)

	// Position and velocity in the orbital plane
	orb := mat.NewVecDense(2, []float64{rk * cosU, rk * sinU})
	dorb := mat.NewVecDense(2, []float64{
		rDot*cosU - rk*uDot*sinU,
		rDot*sinU + rk*uDot*cosU,
	})

	// Orbital plane to ECEF and its time derivative
	rot := mat.NewDense(3, 2, []float64{
		cosW, -cosI * sinW,
		sinW, cosI * cosW,
		0, sinI,
	})
	drot := mat.NewDense(3, 2, []float64{
		-wDot * sinW, -wDot*cosI*cosW + iDot*sinI*sinW,
		wDot * cosW, -wDot*cosI*sinW - iDot*sinI*cosW,
		0, iDot * cosI,
	})
	if DBG_ >= 4 {
		PrintA("orbital plane to ECEF ")
		PrintMat(rot)
	}

	var pos, vel, dv mat.VecDense
	pos.MulVec(rot, orb)
	vel.MulVec(rot, dorb)
	dv.MulVec(drot, orb)
	vel.AddVec(&vel, &dv)
	if geo {
		r, dr := geoRotation(omge, tk)
		var gp, gv, gd mat.VecDense
		gp.MulVec(r, &pos)
		gv.MulVec(r, &vel)
		gd.MulVec(dr, &pos)
		gv.AddVec(&gv, &gd)
		st.Pos = toVec(&gp)
		st.Vel = toVec(&gv)
	} else {
		st.Pos = toVec(&pos)
		st.Vel = toVec(&vel)
	}

	// Acceleration: central gravity, J2 and the rotating-frame terms
	if calcAccel {
		x, y, z := st.Pos.X, st.Pos.Y, st.Pos.Z
		f := -1.5 * p.Const.J2 * (gm / (rk * rk)) * SQ(p.Const.Re/rk)
		tmp1 := -gm / (rk * rk * rk)
		tmp2 := 5.0 * SQ(z/rk)
		tmp3 := omge * omge
		st.Acc = r3.Vec{
			X: tmp1*x + f*(1.0-tmp2)*(x/rk) + 2.0*st.Vel.Y*omge + x*tmp3,
			Y: tmp1*y + f*(1.0-tmp2)*(y/rk) - 2.0*st.Vel.X*omge + y*tmp3,
			Z: tmp1*z + f*(3.0-tmp2)*(z/rk),
		}
	}

	st.Clk = p.clockCorr(eph, tow, ek, n, calcAccel)
	return
}

// Satellite position [m] and clock bias [s] for a signal received at rcvt with pseudorange psr [m].
// The position is expressed in the ECEF frame at reception time (Sagnac effect included).
func (p *Propagator) SatPos(eph *KeplerEphe, rcvt GTime, psr float64) (xyz PosXYZ, dts float64) {
	tau := psr / C
	st := p.NavStates(eph, rcvt.Sec-tau, false)
	omk := p.Const.OmegaE * tau
	cosO, sinO := math.Cos(omk), math.Sin(omk)
	xyz.X = st.Pos.X*cosO + st.Pos.Y*sinO
	xyz.Y = -st.Pos.X*sinO + st.Pos.Y*cosO
	xyz.Z = st.Pos.Z
	dts = st.Clk[0]
	return
}

// Broadcast GEO frame to ECEF and its time derivative: -5 degrees about X, then earth rotation about Z
func geoRotation(omge, tk float64) (r, dr *mat.Dense) {
	sino, coso := math.Sincos(omge * tk)
	rx := mat.NewDense(3, 3, []float64{
		1, 0, 0,
		0, COS_5, SIN_5,
		0, -SIN_5, COS_5,
	})
	rz := mat.NewDense(3, 3, []float64{
		coso, sino, 0,
		-sino, coso, 0,
		0, 0, 1,
	})
	drz := mat.NewDense(3, 3, []float64{
		-omge * sino, omge * coso, 0,
		-omge * coso, -omge * sino, 0,
		0, 0, 0,
	})
	r = &mat.Dense{}
	r.Mul(rz, rx)
	dr = &mat.Dense{}
	dr.Mul(drz, rx)
	return
}

func toVec(v mat.Vector) r3.Vec {
	return r3.Vec{X: v.AtVec(0), Y: v.AtVec(1), Z: v.AtVec(2)}
}
