package initial

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// ErrInvalidInitialConditions reports that a Spec matched no accepted form,
// or produced an invalid State, and a random state was generated instead.
var ErrInvalidInitialConditions = errors.New("initial: invalid initial conditions")

// Kind tags the variant held by a Spec.
type Kind int

const (
	KindUnknown Kind = iota
	KindCount
	KindTable
)

// String returns the lowercase kind name.
func (k Kind) String() string {
	switch k {
	case KindCount:
		return "count"
	case KindTable:
		return "table"
	default:
		return "unknown"
	}
}

// Spec selects how the initial state is produced.
type Spec struct {
	kind  Kind
	count int
	table [][]float64
}

// Count requests n random bodies. Negative counts use their absolute value;
// a count of 0 or 1 draws N uniformly from [2, MaxPoints).
func Count(n int) Spec {
	return Spec{kind: KindCount, count: n}
}

// FromTable requests a state built from explicit rows. Row widths select the
// layout:
//
//	7: mass, x, y, z, vx, vy, vz
//	6: x, y, z, vx, vy, vz        (random masses)
//	4: mass, x, y, z              (random velocities)
//	3: x, y, z                    (random masses and velocities)
//	1: mass                       (random positions and velocities)
func FromTable(rows [][]float64) Spec {
	return Spec{kind: KindTable, table: rows}
}

// Kind returns the variant tag.
func (s Spec) Kind() Kind { return s.kind }

// String summarizes the spec for logs, e.g. "count(5)" or "table(3x7)".
func (s Spec) String() string {
	switch s.kind {
	case KindCount:
		return fmt.Sprintf("count(%d)", s.count)
	case KindTable:
		if len(s.table) == 0 {
			return "table(empty)"
		}
		if w, ok := s.width(); ok {
			return fmt.Sprintf("table(%dx%d)", len(s.table), w)
		}
		return fmt.Sprintf("table(%d ragged rows)", len(s.table))
	default:
		return "unknown"
	}
}

// width returns the common row width, or false when rows are missing or ragged.
func (s Spec) width() (int, bool) {
	if len(s.table) == 0 {
		return 0, false
	}
	w := len(s.table[0])
	for _, row := range s.table[1:] {
		if len(row) != w {
			return 0, false
		}
	}
	return w, true
}

// ReadTable parses headerless numeric CSV rows. Rows may differ in width;
// Build decides whether the shape is usable. Blank cells around commas are trimmed.
func ReadTable(r io.Reader) ([][]float64, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.Comment = '#'
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read table: %w", err)
	}

	rows := make([][]float64, 0, len(records))
	for i, record := range records {
		row := make([]float64, 0, len(record))
		for j, field := range record {
			field = strings.TrimSpace(field)
			if field == "" {
				continue
			}
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("read table: row %d column %d: %w", i+1, j+1, err)
			}
			row = append(row, v)
		}
		if len(row) > 0 {
			rows = append(rows, row)
		}
	}
	return rows, nil
}

// LoadTable reads a table file with ReadTable.
func LoadTable(path string) ([][]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadTable(f)
}
