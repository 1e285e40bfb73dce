package physics

import (
	"github.com/san-kum/nbodysim/internal/dynamo"
	"gonum.org/v1/gonum/mat"
)

// Momentum returns Σ m_i v_i.
func Momentum(s dynamo.State) [dynamo.Dim]float64 {
	var p mat.VecDense
	p.MulVec(s.Vel.T(), mat.NewVecDense(s.N(), s.Mass))
	return [dynamo.Dim]float64{p.AtVec(0), p.AtVec(1), p.AtVec(2)}
}

// AngularMomentum returns Σ m_i (p_i × v_i) about the origin.
func AngularMomentum(s dynamo.State) [dynamo.Dim]float64 {
	var L [dynamo.Dim]float64
	for i := 0; i < s.N(); i++ {
		x := s.Pos.RawRowView(i)
		v := s.Vel.RawRowView(i)
		m := s.Mass[i]
		L[0] += m * (x[1]*v[2] - x[2]*v[1])
		L[1] += m * (x[2]*v[0] - x[0]*v[2])
		L[2] += m * (x[0]*v[1] - x[1]*v[0])
	}
	return L
}

// COMVelocity returns the mass-weighted mean velocity Σ m_i v_i / Σ m_i.
func COMVelocity(s dynamo.State) [dynamo.Dim]float64 {
	p := Momentum(s)
	total := s.TotalMass()
	return [dynamo.Dim]float64{p[0] / total, p[1] / total, p[2] / total}
}

// ToCOMFrame returns a copy of s whose velocities are relative to the centre
// of mass. Positions are unchanged.
func ToCOMFrame(s dynamo.State) dynamo.State {
	out := s.Clone()
	vc := COMVelocity(s)
	n := out.N()
	for i := 0; i < n; i++ {
		row := out.Vel.RawRowView(i)
		for k := range vc {
			row[k] -= vc[k]
		}
	}
	return out
}
