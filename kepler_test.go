package gnsseph

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/floats/scalar"
)

func keplerResidual(m, e, ek float64) float64 {
	return math.Abs(math.Remainder(m-(ek-e*math.Sin(ek)), TWO_PI))
}

func TestKeplerSolveResidual(t *testing.T) {
	s := DefaultKeplerSolver()
	for e := 0.0; e <= 0.1+1e-12; e += 0.005 {
		for m := 0.0; m < TWO_PI; m += 0.01 {
			ek, iter, _ := s.Solve(m, e)
			if !assert.LessOrEqual(t, iter, MAX_ITER_KEPLER) {
				return
			}
			if !assert.Less(t, keplerResidual(m, e, ek), 1e-12, "e=%f M=%f", e, m) {
				return
			}
			assert.GreaterOrEqual(t, ek, 0.0)
			assert.Less(t, ek, TWO_PI)
		}
	}
}

func TestKeplerCircularOrbit(t *testing.T) {
	ek, iter, ok := DefaultKeplerSolver().Solve(1.25, 0)
	assert.True(t, ok)
	assert.Equal(t, 1, iter)
	assert.True(t, scalar.EqualWithinAbs(1.25, ek, 1e-15))
}

func TestKeplerNormalizesNegativeAnomaly(t *testing.T) {
	ek, _, _ := DefaultKeplerSolver().Solve(-0.5, 0.01)
	assert.Greater(t, ek, PI)
	assert.Less(t, keplerResidual(-0.5, 0.01, ek), 1e-12)
}

func TestKeplerIterationCap(t *testing.T) {
	s := KeplerSolver{Tol: 1e-15, MaxIter: 1}
	ek, iter, ok := s.Solve(1.0, 0.1)
	assert.False(t, ok)
	assert.Equal(t, 1, iter)
	assert.False(t, math.IsNaN(ek))
}

func TestKeplerZeroValueUsesDefaults(t *testing.T) {
	var s KeplerSolver
	e1, i1, ok1 := s.Solve(2.0, 0.02)
	e2, i2, ok2 := DefaultKeplerSolver().Solve(2.0, 0.02)
	assert.Equal(t, e2, e1)
	assert.Equal(t, i2, i1)
	assert.Equal(t, ok2, ok1)
}

// Eccentricities far outside the GNSS range must stay bounded and finite
func TestKeplerHighEccentricity(t *testing.T) {
	s := DefaultKeplerSolver()
	for _, e := range []float64{0.5, 0.9, 0.99, 0.999999} {
		for m := 0.0; m < TWO_PI; m += 0.05 {
			ek, iter, _ := s.Solve(m, e)
			assert.LessOrEqual(t, iter, MAX_ITER_KEPLER)
			assert.False(t, math.IsNaN(ek) || math.IsInf(ek, 0), "e=%f M=%f", e, m)
			assert.GreaterOrEqual(t, ek, 0.0)
			assert.Less(t, ek, TWO_PI)
		}
	}
}

func TestKeplerHighEccentricityMoreIterations(t *testing.T) {
	s := KeplerSolver{Tol: 1e-14, MaxIter: 100}
	for m := 0.05; m < TWO_PI; m += 0.1 {
		ek, _, _ := s.Solve(m, 0.9)
		assert.Less(t, keplerResidual(m, 0.9, ek), 1e-12, "M=%f", m)
	}
}
