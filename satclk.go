// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2026.10.18
//

package gnsseph

import (
	"math"
)

// Clock bias [s], drift [s/s] and drift rate [s/s^2] at tow, group delay and relativistic effect included.
// The drift rate is left at zero unless calcAccel is set.
// The relativistic term F*e*sqrtA*sin(E) is included, so the bias at Toc equals Af0-Tgd only for a circular orbit.
func (p *Propagator) ClockCorr(eph *KeplerEphe, tow float64, calcAccel bool) [3]float64 {
	ek, n := p.EccAnomaly(eph, tow)
	return p.clockCorr(eph, tow, ek, n, calcAccel)
}

func (p *Propagator) clockCorr(eph *KeplerEphe, tow, ek, n float64, calcAccel bool) (clk [3]float64) {
	dt := CheckTime(tow - eph.Toc) // Time from clock epoch
	sinE := math.Sin(ek)
	cosE := math.Cos(ek)
	den := 1.0 - eph.Ecc*cosE
	fesqa := p.Const.F * eph.Ecc * eph.SqrtA // Relativistic time factor

	clk[0] = eph.Af0 + eph.Af1*dt + eph.Af2*dt*dt + fesqa*sinE - eph.Tgd
	clk[1] = eph.Af1 + 2.0*eph.Af2*dt + n*fesqa*cosE/den
	if calcAccel {
		clk[2] = 2.0*eph.Af2 - n*n*fesqa*sinE/(den*den*den)
	}
	return
}

// Satellite clock bias [s] for a signal received at rcvt with pseudorange psr [m]
func (p *Propagator) SatClk(eph *KeplerEphe, rcvt GTime, psr float64) float64 {
	return p.ClockCorr(eph, rcvt.Sec-psr/C, false)[0]
}
