// Package export writes and reads run histories as CSV and JSON.
package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/san-kum/nbodysim/internal/dynamo"
)

var (
	// TrajectoryHeader labels the step index t and body index.
	TrajectoryHeader = []string{"t", "index", "x", "y", "z", "vx", "vy", "vz"}
	EnergyHeader     = []string{"step", "t", "kinetic", "potential", "total"}
)

var ErrMalformed = errors.New("malformed csv")

func formatFloat(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }

// WriteTrajectory emits one row per (step, body) in step-major order.
func WriteTrajectory(w io.Writer, r *dynamo.Result) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(TrajectoryHeader); err != nil {
		return err
	}

	n := r.Bodies()
	row := make([]string, len(TrajectoryHeader))
	for k, st := range r.States {
		row[0] = strconv.Itoa(k)
		for i := 0; i < n; i++ {
			row[1] = strconv.Itoa(i)
			for j, v := range st.RawRowView(i) {
				row[2+j] = formatFloat(v)
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteTrajectoryFile writes the trajectory to path, creating parent
// directories as needed.
func WriteTrajectoryFile(path string, r *dynamo.Result) error {
	return writeFile(path, func(w io.Writer) error { return WriteTrajectory(w, r) })
}

// WriteEnergy emits one row per recorded step.
func WriteEnergy(w io.Writer, r *dynamo.Result) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(EnergyHeader); err != nil {
		return err
	}
	for k := range r.Kinetic {
		if err := cw.Write([]string{
			strconv.Itoa(k),
			formatFloat(r.Time(k)),
			formatFloat(r.Kinetic[k]),
			formatFloat(r.Potential[k]),
			formatFloat(r.Energy(k)),
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func WriteEnergyFile(path string, r *dynamo.Result) error {
	return writeFile(path, func(w io.Writer) error { return WriteEnergy(w, r) })
}

func writeFile(path string, write func(io.Writer) error) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ReadTrajectory rebuilds the state history written by WriteTrajectory.
// The file carries step indices only, so the caller supplies dt.
// Accelerations and energies are left zero.
func ReadTrajectory(r io.Reader, dt float64) (*dynamo.Result, error) {
	records, err := readRecords(r, TrajectoryHeader)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: no trajectory rows", ErrMalformed)
	}

	n := 0
	for _, rec := range records {
		if rec[0] != records[0][0] {
			break
		}
		n++
	}
	if len(records)%n != 0 {
		return nil, fmt.Errorf("%w: %d rows is not a multiple of %d bodies", ErrMalformed, len(records), n)
	}
	steps := len(records)/n - 1

	res := dynamo.NewResult(steps, n, dt)
	for idx, rec := range records {
		k, i := idx/n, idx%n
		if step, err := strconv.Atoi(rec[0]); err != nil || step != k {
			return nil, fmt.Errorf("%w: row %d: expected step %d, got %q", ErrMalformed, idx+2, k, rec[0])
		}
		if body, err := strconv.Atoi(rec[1]); err != nil || body != i {
			return nil, fmt.Errorf("%w: row %d: expected body %d, got %q", ErrMalformed, idx+2, i, rec[1])
		}
		row := res.States[k].RawRowView(i)
		for j := range row {
			if row[j], err = strconv.ParseFloat(rec[2+j], 64); err != nil {
				return nil, fmt.Errorf("%w: row %d: %v", ErrMalformed, idx+2, err)
			}
		}
	}
	res.StepsTaken = steps
	return res, nil
}

// ReadEnergy fills r.Kinetic and r.Potential from an energy CSV. The file
// must hold exactly one row per record of r.
func ReadEnergy(rd io.Reader, r *dynamo.Result) error {
	records, err := readRecords(rd, EnergyHeader)
	if err != nil {
		return err
	}
	if len(records) != len(r.Kinetic) {
		return fmt.Errorf("%w: %d energy rows for %d records", ErrMalformed, len(records), len(r.Kinetic))
	}
	for k, rec := range records {
		ke, err := strconv.ParseFloat(rec[2], 64)
		if err != nil {
			return fmt.Errorf("%w: row %d: %v", ErrMalformed, k+2, err)
		}
		pe, err := strconv.ParseFloat(rec[3], 64)
		if err != nil {
			return fmt.Errorf("%w: row %d: %v", ErrMalformed, k+2, err)
		}
		r.Kinetic[k] = ke
		r.Potential[k] = pe
	}
	return nil
}

func readRecords(r io.Reader, header []string) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(header)

	first, err := cr.Read()
	if err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("%w: empty file", ErrMalformed)
		}
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	for i := range header {
		if first[i] != header[i] {
			return nil, fmt.Errorf("%w: unexpected header %v", ErrMalformed, first)
		}
	}

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return records, nil
}
