package dynamo

import (
	"errors"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestNewResult_Shape(t *testing.T) {
	r := NewResult(10, 4, 0.01)

	if len(r.States) != 11 || len(r.Accelerations) != 11 {
		t.Fatalf("got %d states and %d accelerations, want 11", len(r.States), len(r.Accelerations))
	}
	if len(r.Kinetic) != 11 || len(r.Potential) != 11 {
		t.Fatalf("energy histories have length %d/%d, want 11", len(r.Kinetic), len(r.Potential))
	}
	if rows, cols := r.States[5].Dims(); rows != 4 || cols != 6 {
		t.Errorf("state record is %dx%d, want 4x6", rows, cols)
	}
	if rows, cols := r.Accelerations[5].Dims(); rows != 4 || cols != 3 {
		t.Errorf("acceleration record is %dx%d, want 4x3", rows, cols)
	}
	if r.Steps() != 10 || r.Bodies() != 4 {
		t.Errorf("Steps()=%d Bodies()=%d, want 10 and 4", r.Steps(), r.Bodies())
	}
}

func TestResult_RecordCopies(t *testing.T) {
	s := twoBodies(t)
	acc := mat.NewDense(2, 3, []float64{1, 2, 3, 4, 5, 6})

	r := NewResult(2, 2, 0.5)
	r.Record(1, s, acc, 3, -7)

	s.Pos.Set(0, 0, 42)
	acc.Set(0, 0, 42)

	if got := r.Position(1, 0); got != [3]float64{-1, 0, 0} {
		t.Errorf("Position(1,0) = %v, record aliases the live state", got)
	}
	if got := r.Velocity(1, 1); got != [3]float64{0, -1, 0} {
		t.Errorf("Velocity(1,1) = %v", got)
	}
	if r.Accelerations[1].At(0, 0) != 1 {
		t.Error("acceleration record aliases the live matrix")
	}
	if r.Energy(1) != -4 {
		t.Errorf("Energy(1) = %v, want -4", r.Energy(1))
	}
	if r.Time(2) != 1.0 {
		t.Errorf("Time(2) = %v, want 1.0", r.Time(2))
	}
	if r.Position(0, 0) != [3]float64{} {
		t.Error("recording slot 1 touched slot 0")
	}
}

func TestResult_StateAt(t *testing.T) {
	s := twoBodies(t)
	r := NewResult(1, 2, 0.1)
	r.Record(0, s, nil, 0, 0)

	got, err := r.StateAt(0, s.Mass)
	if err != nil {
		t.Fatal(err)
	}
	if !mat.Equal(got.Pos, s.Pos) || !mat.Equal(got.Vel, s.Vel) {
		t.Error("StateAt does not reproduce the recorded state")
	}
	got.Pos.Set(0, 0, 42)
	if r.Position(0, 0)[0] != -1 {
		t.Error("StateAt aliases the record")
	}

	if _, err := r.StateAt(0, []float64{1}); !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("expected ErrDimensionMismatch, got %v", err)
	}
}
