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

const (
	RTOL_KEPLER     = 1e-15 // Convergence tolerance of the Kepler equation [rad]
	MAX_ITER_KEPLER = 10    // Maximum iterations of the Kepler equation
)

// Newton solver for the Kepler equation M = E - e*sin(E)
// - Zero values fall back to RTOL_KEPLER and MAX_ITER_KEPLER
type KeplerSolver struct {
	Tol     float64
	MaxIter int
}

func DefaultKeplerSolver() KeplerSolver {
	return KeplerSolver{Tol: RTOL_KEPLER, MaxIter: MAX_ITER_KEPLER}
}

// Solve for the eccentric anomaly, normalized to [0, 2*PI).
// When the iteration cap is hit the last estimate is returned with converged=false.
func (s KeplerSolver) Solve(m, e float64) (ek float64, iter int, converged bool) {
	tol, maxIter := s.Tol, s.MaxIter
	if tol <= 0 {
		tol = RTOL_KEPLER
	}
	if maxIter <= 0 {
		maxIter = MAX_ITER_KEPLER
	}

	ek = m
	for iter < maxIter {
		dE := (m - ek + e*math.Sin(ek)) / (1.0 - e*math.Cos(ek))
		ek += dE
		iter++
		if math.Abs(dE) < tol {
			converged = true
			break
		}
	}
	if !converged {
		PrintD(3, "kepler: iteration overflow e=%.6e M=%.15f E=%.15f\n", e, m, ek)
	}
	return normAngle(ek), iter, converged
}

// Wrap an angle into [0, 2*PI)
func normAngle(x float64) float64 {
	x = math.Mod(x, TWO_PI)
	if x < 0 {
		x += TWO_PI
	}
	if x >= TWO_PI {
		x = 0
	}
	return x
}
