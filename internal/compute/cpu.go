package compute

import (
	"math"
	"runtime"
	"sync"

	"github.com/san-kum/nbodysim/internal/dynamo"
	"github.com/san-kum/nbodysim/internal/physics"
	"gonum.org/v1/gonum/mat"
)

// parallelThreshold is the body count below which goroutine fan-out costs
// more than it saves.
const parallelThreshold = 16

// CPUBackend computes each body's acceleration row on one of a fixed set of
// worker goroutines.
type CPUBackend struct {
	workers int
}

func NewCPUBackend(workers int) *CPUBackend {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &CPUBackend{workers: workers}
}

func (c *CPUBackend) Name() string { return "cpu" }

// Workers reports the goroutine count.
func (c *CPUBackend) Workers() int { return c.workers }

func (c *CPUBackend) Accelerations(s dynamo.State, g, softening float64) *mat.Dense {
	n := s.N()
	if n < parallelThreshold {
		return physics.Accelerations(s, g, softening)
	}

	pos := s.Pos.RawMatrix()
	out := mat.NewDense(n, dynamo.Dim, nil)
	acc := out.RawMatrix()
	eps2 := softening * softening

	var wg sync.WaitGroup
	chunkSize := (n + c.workers - 1) / c.workers

	for w := 0; w < c.workers; w++ {
		start := w * chunkSize
		end := min(start+chunkSize, n)
		if start >= end {
			break
		}

		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()

			// Rows are disjoint per worker so no locking is needed.
			for i := start; i < end; i++ {
				pi := pos.Data[i*pos.Stride : i*pos.Stride+dynamo.Dim]
				var ax, ay, az float64

				for j := 0; j < n; j++ {
					if i == j {
						continue
					}
					pj := pos.Data[j*pos.Stride : j*pos.Stride+dynamo.Dim]

					rx := pj[0] - pi[0]
					ry := pj[1] - pi[1]
					rz := pj[2] - pi[2]
					r2 := rx*rx + ry*ry + rz*rz + eps2
					if r2 == 0 {
						continue
					}

					f := s.Mass[j] * math.Pow(r2, -1.5)
					ax += f * rx
					ay += f * ry
					az += f * rz
				}

				row := acc.Data[i*acc.Stride : i*acc.Stride+dynamo.Dim]
				row[0], row[1], row[2] = g*ax, g*ay, g*az
			}
		}(start, end)
	}

	wg.Wait()
	return out
}
