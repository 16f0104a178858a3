// Package render orchestrates rendering passes: it owns the scene
// hierarchy and drives parallel per-sample integration into a film.
package render

import (
	"context"
	"math/rand"
	"runtime"

	"go.uber.org/atomic"
	"golang.org/x/sync/errgroup"

	"github.com/lumen-render/lumen/pkg/core"
	"github.com/lumen-render/lumen/pkg/film"
	"github.com/lumen-render/lumen/pkg/geometry"
	"github.com/lumen-render/lumen/pkg/integrator"
)

// Stage owns the BVH, built once from the primitive list, and a reusable
// per-pass sample buffer.
type Stage struct {
	bvh     *geometry.BVH
	samples []film.Sample
	seed    *atomic.Int64
	workers int
}

// NewStage builds the hierarchy over the primitives. workers <= 0 selects
// one worker per CPU.
func NewStage(prims []geometry.Primitive, workers int) *Stage {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Stage{
		bvh:     geometry.Build(prims),
		seed:    atomic.NewInt64(rand.Int63()),
		workers: workers,
	}
}

// BVH exposes the hierarchy for direct queries.
func (s *Stage) BVH() *geometry.BVH {
	return s.bvh
}

// Workers returns the parallelism of the tracing phase.
func (s *Stage) Workers() int {
	return s.workers
}

// Trace runs one refinement pass: it asks the film for this pass's
// jittered sample points, integrates every sample in parallel, and then
// reports the results into the film sequentially so overlapping filter
// footprints never race. Cancelling the context abandons the pass without
// touching the film.
func (s *Stage) Trace(ctx context.Context, camera core.Camera, integ integrator.Integrator, f *film.Film) error {
	jitterRng := rand.New(rand.NewSource(s.seed.Inc()))
	s.samples = f.ComputeSamplePoints(jitterRng, s.samples)

	g, ctx := errgroup.WithContext(ctx)

	chunk := (len(s.samples) + s.workers - 1) / s.workers
	for start := 0; start < len(s.samples); start += chunk {
		end := start + chunk
		if end > len(s.samples) {
			end = len(s.samples)
		}
		part := s.samples[start:end]

		g.Go(func() error {
			// Each chunk owns an independently seeded generator; samples
			// never share PRNG state across workers.
			rng := rand.New(rand.NewSource(s.seed.Inc()))
			for i := range part {
				if i%256 == 0 {
					if err := ctx.Err(); err != nil {
						return err
					}
				}
				ray := camera.ComputeRay(part[i].S, part[i].T)
				part[i].Color = integ.Integrate(ray, s.bvh, rng)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	f.ReportSamples(s.samples)
	return nil
}
