package sim_test

import (
	"context"
	"io"
	"log/slog"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/nbodysim/internal/dynamo"
	"github.com/san-kum/nbodysim/internal/initial"
	"github.com/san-kum/nbodysim/internal/integrators"
	"github.com/san-kum/nbodysim/internal/physics"
	"github.com/san-kum/nbodysim/internal/sim"
)

func build(n int, seed int64, opts initial.Options) dynamo.State {
	opts.Seed = &seed
	opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	st, rep := initial.Build(initial.Count(n), opts)
	Expect(rep.Warning).NotTo(HaveOccurred())
	Expect(st.N()).To(Equal(n))
	return st
}

func momentumAt(r *dynamo.Result, masses []float64, k int) []float64 {
	n := r.Bodies()
	vel := r.States[k].Slice(0, n, dynamo.Dim, 2*dynamo.Dim)
	var p mat.VecDense
	p.MulVec(vel.T(), mat.NewVecDense(n, masses))
	return []float64{p.AtVec(0), p.AtVec(1), p.AtVec(2)}
}

var _ = Describe("Simulator", func() {
	var (
		s   *sim.Simulator
		ctx context.Context
	)

	BeforeEach(func() {
		s = sim.New(integrators.NewLeapfrog())
		ctx = context.Background()
	})

	Context("with a short run", func() {
		It("records ceil(tf/dt)+1 states", func() {
			st := build(3, 7, initial.Options{})
			r, err := s.Run(ctx, st, dynamo.Config{G: 1, Softening: 0.1, Dt: 0.01, Duration: 0.1})
			Expect(err).NotTo(HaveOccurred())

			Expect(r.States).To(HaveLen(11))
			Expect(r.Accelerations).To(HaveLen(11))
			Expect(r.Kinetic).To(HaveLen(11))
			Expect(r.Potential).To(HaveLen(11))
			rows, cols := r.States[0].Dims()
			Expect(rows).To(Equal(3))
			Expect(cols).To(Equal(6))
		})

		It("rounds a fractional step count up", func() {
			st := build(2, 7, initial.Options{})
			r, err := s.Run(ctx, st, dynamo.Config{G: 1, Softening: 0.1, Dt: 0.03, Duration: 0.1})
			Expect(err).NotTo(HaveOccurred())
			Expect(r.States).To(HaveLen(5))
		})
	})

	Context("with equal masses at rest", func() {
		It("conserves total momentum at every step", func() {
			st := build(4, 42, initial.Options{EqualMass: true, Scale: 1})
			r, err := s.Run(ctx, st, dynamo.Config{G: 1, Softening: 0.1, Dt: 0.01, Duration: 0.1})
			Expect(err).NotTo(HaveOccurred())

			for k := range r.States {
				p := momentumAt(r, st.Mass, k)
				Expect(floats.Norm(p, 2)).To(BeNumerically("<", 1e-6), "step %d", k)
			}
		})
	})

	Context("with the same seed", func() {
		It("reproduces the run exactly", func() {
			opts := initial.Options{InitVel: true}
			a := build(5, 123, opts)
			b := build(5, 123, opts)
			cfg := dynamo.Config{G: 1, Softening: 0.1, Dt: 0.01, Duration: 0.5}

			ra, err := s.Run(ctx, a, cfg)
			Expect(err).NotTo(HaveOccurred())
			rb, err := sim.New(integrators.NewLeapfrog()).Run(ctx, b, cfg)
			Expect(err).NotTo(HaveOccurred())

			Expect(ra.Kinetic).To(Equal(rb.Kinetic))
			Expect(ra.Potential).To(Equal(rb.Potential))
			last := len(ra.States) - 1
			Expect(mat.Equal(ra.States[last], rb.States[last])).To(BeTrue())
		})
	})

	Context("with initial velocities", func() {
		It("starts in the centre-of-mass frame", func() {
			st := build(6, 9, initial.Options{InitVel: true})
			p0 := physics.Momentum(st)
			Expect(floats.Norm(p0[:], 2)).To(BeNumerically(">", 1e-9))

			r, err := s.Run(ctx, st, dynamo.Config{G: 1, Softening: 0.1, Dt: 0.01, Duration: 0.02})
			Expect(err).NotTo(HaveOccurred())
			Expect(floats.Norm(momentumAt(r, st.Mass, 0), 2)).To(BeNumerically("<", 1e-9))
		})
	})

	Context("with the leapfrog integrator", func() {
		It("keeps energy drift small on a bound binary", func() {
			st, err := dynamo.NewState(
				[]float64{50, 50},
				[]float64{-1, 0, 0, 1, 0, 0},
				[]float64{0, 2.5, 0, 0, -2.5, 0},
			)
			Expect(err).NotTo(HaveOccurred())

			r, err := s.Run(ctx, st, dynamo.Config{G: 1, Softening: 0, Dt: 0.001, Duration: 1})
			Expect(err).NotTo(HaveOccurred())
			Expect(r.EnergyDrift).To(BeNumerically("<", 1e-3))
		})
	})

	Context("with an invalid configuration", func() {
		It("refuses to run", func() {
			st := build(2, 1, initial.Options{})
			_, err := s.Run(ctx, st, dynamo.Config{G: 1, Dt: 0, Duration: 1})
			Expect(err).To(MatchError(dynamo.ErrInvalidConfig))
		})
	})

	Context("when the context is cancelled", func() {
		It("returns the partial history", func() {
			st := build(3, 1, initial.Options{})
			c, cancel := context.WithCancel(ctx)
			cancel()
			r, err := s.Run(c, st, dynamo.DefaultConfig())
			Expect(err).To(MatchError(context.Canceled))
			Expect(r.StepsTaken).To(Equal(0))
		})
	})
})
