package dynamo

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Result is the full output of a run. Index k of every history holds the
// record after k steps; index 0 is the initial condition.
type Result struct {
	States        []*mat.Dense // each N×6: x, y, z, vx, vy, vz
	Accelerations []*mat.Dense // each N×3
	Kinetic       []float64
	Potential     []float64
	Dt            float64

	Metrics     map[string]float64
	EnergyDrift float64
	StepsTaken  int
}

// NewResult allocates histories for steps+1 records of n bodies. All state
// and acceleration records share two backing buffers allocated up front.
func NewResult(steps, n int, dt float64) *Result {
	records := steps + 1
	r := &Result{
		States:        make([]*mat.Dense, records),
		Accelerations: make([]*mat.Dense, records),
		Kinetic:       make([]float64, records),
		Potential:     make([]float64, records),
		Dt:            dt,
		Metrics:       make(map[string]float64),
	}
	stateBuf := make([]float64, records*n*2*Dim)
	accBuf := make([]float64, records*n*Dim)
	for k := 0; k < records; k++ {
		r.States[k] = mat.NewDense(n, 2*Dim, stateBuf[k*n*2*Dim:(k+1)*n*2*Dim])
		r.Accelerations[k] = mat.NewDense(n, Dim, accBuf[k*n*Dim:(k+1)*n*Dim])
	}
	return r
}

// Record copies s, acc and the energies into slot k.
func (r *Result) Record(k int, s State, acc *mat.Dense, ke, pe float64) {
	n := s.N()
	dst := r.States[k]
	dst.Slice(0, n, 0, Dim).(*mat.Dense).Copy(s.Pos)
	dst.Slice(0, n, Dim, 2*Dim).(*mat.Dense).Copy(s.Vel)
	if acc != nil {
		r.Accelerations[k].Copy(acc)
	}
	r.Kinetic[k] = ke
	r.Potential[k] = pe
}

// Steps returns the number of integration steps held, one less than the record count.
func (r *Result) Steps() int { return len(r.States) - 1 }

// Bodies returns the body count.
func (r *Result) Bodies() int {
	if len(r.States) == 0 {
		return 0
	}
	n, _ := r.States[0].Dims()
	return n
}

// Time returns the simulated time of record k.
func (r *Result) Time(k int) float64 { return float64(k) * r.Dt }

// Energy returns the total energy of record k.
func (r *Result) Energy(k int) float64 { return r.Kinetic[k] + r.Potential[k] }

func (r *Result) Position(k, i int) [Dim]float64 {
	row := r.States[k].RawRowView(i)
	return [Dim]float64{row[0], row[1], row[2]}
}

func (r *Result) Velocity(k, i int) [Dim]float64 {
	row := r.States[k].RawRowView(i)
	return [Dim]float64{row[3], row[4], row[5]}
}

// StateAt rebuilds record k as a State with the given masses. The matrices
// are copies.
func (r *Result) StateAt(k int, mass []float64) (State, error) {
	n := r.Bodies()
	if len(mass) != n {
		return State{}, fmt.Errorf("%w: %d masses for %d bodies", ErrDimensionMismatch, len(mass), n)
	}
	rec := r.States[k]
	return State{
		Mass: append([]float64(nil), mass...),
		Pos:  mat.DenseCopyOf(rec.Slice(0, n, 0, Dim)),
		Vel:  mat.DenseCopyOf(rec.Slice(0, n, Dim, 2*Dim)),
	}, nil
}
