package physics

import (
	"math"

	"github.com/san-kum/nbodysim/internal/dynamo"
	"gonum.org/v1/gonum/mat"
)

// Accelerations returns the N×3 softened gravitational acceleration of every
// body:
//
//	a_i = G * Σ_j (p_j - p_i) * m_j / (|p_j - p_i|² + S²)^1.5
//
// Entries whose softened squared distance is zero (coincident bodies with
// S = 0, and the diagonal) contribute nothing.
func Accelerations(s dynamo.State, g, softening float64) *mat.Dense {
	n := s.N()
	d := displacements(s.Pos)
	eps2 := softening * softening

	invR3 := mat.NewDense(n, n, nil)
	invR3.Apply(func(i, j int, _ float64) float64 {
		r2 := sq(d[0].At(i, j)) + sq(d[1].At(i, j)) + sq(d[2].At(i, j)) + eps2
		if r2 > 0 {
			return math.Pow(r2, -1.5)
		}
		return 0
	}, invR3)

	mass := mat.NewVecDense(n, s.Mass)
	acc := mat.NewDense(n, dynamo.Dim, nil)

	var weighted mat.Dense
	var col mat.VecDense
	for axis := 0; axis < dynamo.Dim; axis++ {
		weighted.MulElem(d[axis], invR3)
		col.MulVec(&weighted, mass)
		col.ScaleVec(g, &col)
		acc.SetCol(axis, col.RawVector().Data)
	}
	return acc
}

// Energy returns the kinetic and potential energy of s. The potential uses the
// unsoftened separation; coincident pairs contribute zero.
func Energy(s dynamo.State, g float64) (kinetic, potential float64) {
	n := s.N()
	for i := 0; i < n; i++ {
		v := s.Vel.RawRowView(i)
		kinetic += s.Mass[i] * (sq(v[0]) + sq(v[1]) + sq(v[2]))
	}
	kinetic /= 2

	d := displacements(s.Pos)
	rInv := mat.NewDense(n, n, nil)
	rInv.Apply(func(i, j int, _ float64) float64 {
		r := math.Sqrt(sq(d[0].At(i, j)) + sq(d[1].At(i, j)) + sq(d[2].At(i, j)))
		if r > 0 {
			return 1 / r
		}
		return 0
	}, rInv)

	mass := mat.NewVecDense(n, s.Mass)
	var mm mat.Dense
	mm.Outer(1, mass, mass)

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			potential -= mm.At(i, j) * rInv.At(i, j)
		}
	}
	potential *= g
	return kinetic, potential
}

// displacements returns the N×N matrices d[axis][i,j] = p_j[axis] - p_i[axis].
func displacements(pos *mat.Dense) [dynamo.Dim]*mat.Dense {
	n, _ := pos.Dims()
	var d [dynamo.Dim]*mat.Dense
	for axis := 0; axis < dynamo.Dim; axis++ {
		m := mat.NewDense(n, n, nil)
		m.Apply(func(i, j int, _ float64) float64 {
			return pos.At(j, axis) - pos.At(i, axis)
		}, m)
		d[axis] = m
	}
	return d
}

func sq(x float64) float64 { return x * x }
