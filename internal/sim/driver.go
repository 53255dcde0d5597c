// Package sim implements the simulation driver of spec.md §4.7: the
// strictly sequential, barrier-separated tick loop that orchestrates
// nutrient update, population dynamics, spatial rebuild, force/torque
// accumulation, integration, and frame emission. Control flow is
// grounded on 0x5844/physics-2d's PhysicsWorld.Step/PhysicsEngine.Run;
// the fork-join fan-out within each phase uses the errgroup-based
// forEachIndex/forEachRow helpers of parallel.go.
package sim

import (
	"context"
	"fmt"
	"math"
	"sync"

	"github.com/0x5844/colonysim/internal/config"
	"github.com/0x5844/colonysim/internal/forces"
	"github.com/0x5844/colonysim/internal/geom"
	"github.com/0x5844/colonysim/internal/integrate"
	"github.com/0x5844/colonysim/internal/nutrient"
	"github.com/0x5844/colonysim/internal/output"
	"github.com/0x5844/colonysim/internal/population"
	"github.com/0x5844/colonysim/internal/rng"
	"github.com/0x5844/colonysim/internal/spatial"
)

// DefaultCutoff is the neighbour cutoff distance and spatial grid bin
// side, per spec.md §4.1's default.
const DefaultCutoff = 4.0

// Driver owns one colony simulation: the particle population, the
// nutrient field, the spatial index, and the per-tick scratch arrays.
type Driver struct {
	params config.Params
	mod    forces.Moduli

	store *population.Store
	field *nutrient.Field
	grid  *spatial.Grid
	sink  *output.Sink

	rootSeed int64
	workers  int
	tick     int
	cutoff   float64

	velocities []geom.Vec2
	omegas     []float64

	// statsMu guards stats, a published snapshot safe to read from a
	// reporting goroutine while Tick mutates tick/store/field
	// concurrently. Published once per completed Tick.
	statsMu sync.Mutex
	stats   driverStats
}

type driverStats struct {
	tick              int
	population        int
	meanConcentration float64
}

// New constructs a Driver with a seeded initial cluster of
// params.InitialCount cells, per spec.md §3's start() lifecycle.
func New(params config.Params, sink *output.Sink, seed int64, workers int) *Driver {
	d := &Driver{
		params: params,
		mod: forces.Moduli{
			CellCell:          params.EmCellCell,
			EpsEps:            params.EmEpsEps,
			EpsCell:           params.EmEpsCell,
			Fallback:          params.RepulsionForce,
			ReferenceDiameter: params.Diameter,
		},
		store:    population.NewStore(),
		field:    nutrient.New(params.GridWidth, params.GridHeight, params.GridCellSize, params.GridCellSize, params.DiffusionRate, params.NutrientConsumptionRate, params.NutrientConcentration),
		grid:     spatial.New(DefaultCutoff),
		sink:     sink,
		rootSeed: seed,
		workers:  workers,
		cutoff:   DefaultCutoff,
	}
	d.seedColony()
	d.publishStats()
	return d
}

func (d *Driver) seedColony() {
	stream := rng.New(d.rootSeed, -1, 0)
	// Seeded cells start at half of params.Length (the configured maximum
	// length), not at the bare diameter, matching the original colony
	// initializer's "more realistic growth" starting point
	// (SimulationGrid.java's initialLength = ConfigParser.length / 2.0).
	initialLength := d.params.Length / 2
	// The nutrient field's origin is (0,0) and extends only into positive
	// coordinates, so the cluster is centered on the domain
	// (Gw*dx/2, Gh*dy/2), matching SimulationGrid.start()'s centering of
	// the initial cluster, rather than jittered around (0,0) where half
	// the spread would fall outside the field and never see nutrient.
	cx := float64(d.params.GridWidth) * d.params.GridCellSize / 2
	cy := float64(d.params.GridHeight) * d.params.GridCellSize / 2
	for i := 0; i < d.params.InitialCount; i++ {
		angle := stream.Uniform(0, 2*math.Pi)
		x := cx + stream.Uniform(-d.params.GridCellSize, d.params.GridCellSize)
		y := cy + stream.Uniform(-d.params.GridCellSize, d.params.GridCellSize)
		d.store.Add(population.Particle{
			ID:          population.NextCellID(),
			Kind:        population.KindCell,
			Position:    geom.New(x, y),
			Orientation: geom.New(1, 0).Rotate(angle),
			Diameter:    d.params.Diameter,
			Length:      initialLength,
			State:       population.StateGrowing,
		})
	}
}

// Tick advances the simulation by one delta_time step, per spec.md
// §4.7's seven phases. Returns the first fatal error (IOError on the
// sink); kernel-level degeneracies never surface here, per spec.md §7.
func (d *Driver) Tick(ctx context.Context) error {
	dynParams := population.DynamicsParams{
		GrowthRate:           d.params.GrowthRate,
		DivisionLength:       d.params.DivisionLength,
		EpsDiameter:          d.params.EpsDiameter,
		CellDensityThreshold: d.params.CellDensityThreshold,
		EpsDensityThreshold:  d.params.EpsDensityThreshold,
		SensingRadius:        d.params.LocalSensingRadius,
		EpsProductionRate:    d.params.EpsProductionRate,
		DeltaTime:            d.params.DeltaTime,
	}

	// 2. Nutrient field update, using the population as it stood at the
	// end of the previous tick.
	if err := d.updateNutrient(ctx); err != nil {
		return err
	}

	// 1 & 3. Collect current cells, run growth/division/secretion from an
	// immutable snapshot of the pre-growth population, then merge.
	if err := d.updatePopulation(ctx, dynParams); err != nil {
		return err
	}

	// 4. Refresh position arrays and rebuild the spatial index.
	xs, ys := d.store.Xs(), d.store.Ys()
	d.grid.Rebuild(xs, ys)

	n := d.store.Len()
	if cap(d.velocities) < n {
		d.velocities = make([]geom.Vec2, n)
		d.omegas = make([]float64, n)
	} else {
		d.velocities = d.velocities[:n]
		d.omegas = d.omegas[:n]
	}

	// 5. Parallel per-particle force/torque sum and velocity resolution.
	if err := d.computeMotion(ctx, xs, ys); err != nil {
		return err
	}

	// 6. Parallel integration.
	if err := d.integrate(ctx); err != nil {
		return err
	}

	// 7. Emit one frame.
	if d.sink != nil {
		if err := d.sink.WriteFrame(d.tick, d.store.Particles); err != nil {
			return fmt.Errorf("sim: emit frame: %w", err)
		}
	}

	d.tick++
	d.publishStats()
	return nil
}

// publishStats snapshots the driver's reportable state under statsMu so
// a concurrently running reporting goroutine never observes d.tick or
// d.store mid-mutation.
func (d *Driver) publishStats() {
	d.statsMu.Lock()
	d.stats = driverStats{
		tick:              d.tick,
		population:        d.store.Len(),
		meanConcentration: d.field.TotalMass() / float64(d.field.Gw*d.field.Gh),
	}
	d.statsMu.Unlock()
}

func (d *Driver) updateNutrient(ctx context.Context) error {
	d.field.ResetArea()
	for i := range d.store.Particles {
		p := &d.store.Particles[i]
		if p.Kind != population.KindCell {
			continue
		}
		d.field.AccumulateArea(p.Position.X, p.Position.Y, p.Area())
	}

	rows := d.field.InteriorRows()
	if err := forEachRow(ctx, rows, d.workers, func(row int) error {
		d.field.DiffuseRow(row, d.params.DeltaTime)
		return nil
	}); err != nil {
		return err
	}
	d.field.ApplyNoFluxBoundaries()
	d.field.Swap()
	return nil
}

func (d *Driver) updatePopulation(ctx context.Context, dynParams population.DynamicsParams) error {
	cellIdx := d.store.CellIndices()
	snapshot := append([]population.Particle(nil), d.store.Particles...)

	// Workers share a sensing grid built here from the current positions
	// for local density sensing; that grid is read-only for the remainder
	// of this phase (spec.md §5).
	sensingGrid := spatial.New(d.cutoff)
	sensingGrid.Rebuild(d.store.Xs(), d.store.Ys())

	err := forEachIndex(ctx, len(cellIdx), d.workers, func(w int) error {
		idx := cellIdx[w]
		stream := rng.New(d.rootSeed, d.tick, w)

		p := &d.store.Particles[idx]
		population.Grow(p, d.field, dynParams)

		// Secretion and division are independent per-cell decisions made
		// from the same pre-growth snapshot, not mutually exclusive: a
		// mother still eligible to secrete does so from its
		// pre-division position before dividing in the same tick.
		rhoC, rhoE := population.LocalDensities(snapshot, sensingGrid, p.Position, dynParams.SensingRadius)
		if population.SecretionEligible(rhoC, rhoE, dynParams) {
			population.TrySecrete(p, d.store, dynParams, stream)
		}

		if p.State == population.StateDividing {
			mother := snapshot[idx]
			mother.Length = p.Length
			population.Divide(idx, mother, d.store, stream)
		}
		return nil
	})
	if err != nil {
		return err
	}

	d.store.Merge()
	return nil
}

func (d *Driver) computeMotion(ctx context.Context, xs, ys []float64) error {
	n := d.store.Len()
	r2 := d.cutoff * d.cutoff

	return forEachIndex(ctx, n, d.workers, func(i int) error {
		stream := rng.New(d.rootSeed, d.tick, i)
		a := &d.store.Particles[i]

		var force geom.Vec2
		var torque float64

		d.grid.ForEachNeighborIndex(xs, ys, i, func(j int) {
			if j == i {
				return
			}
			b := &d.store.Particles[j]
			if a.Position.DistanceSquared(b.Position) > r2 {
				return
			}
			f, h, _, point := forces.Repulsion(a, b, d.mod)
			if h <= 0 {
				return
			}
			force = force.Add(f)
			if a.Kind == population.KindCell {
				torque += forces.RepulsiveTorque(a.Position, point, f)
			}
		})

		force = force.Add(forces.Motility(a, d.params.MotilityForce))
		force = force.Add(forces.Random(stream))

		eta := d.params.FrictionCell
		if a.Kind == population.KindEps {
			eta = d.params.FrictionEps
		}
		length := a.EffectiveLength()

		d.velocities[i] = integrate.LinearVelocity(force, eta, length)
		d.omegas[i] = integrate.AngularVelocity(torque, eta, length, integrate.MaxAngularVelocity)
		return nil
	})
}

func (d *Driver) integrate(ctx context.Context) error {
	n := d.store.Len()
	dt := d.params.DeltaTime
	return forEachIndex(ctx, n, d.workers, func(i int) error {
		p := &d.store.Particles[i]
		pos, orient := integrate.Step(p.Position, p.Orientation, d.velocities[i], d.omegas[i], dt)
		p.Position = pos
		p.Orientation = orient
		return nil
	})
}

// TickNumber exposes the current tick counter for stats reporting. Safe
// to call concurrently with Tick: it reads the published snapshot, not
// the live counter.
func (d *Driver) TickNumber() int {
	d.statsMu.Lock()
	defer d.statsMu.Unlock()
	return d.stats.tick
}

// Population returns the live particle count as of the last completed
// tick. Safe to call concurrently with Tick.
func (d *Driver) Population() int {
	d.statsMu.Lock()
	defer d.statsMu.Unlock()
	return d.stats.population
}

// MeanConcentration returns the mean nutrient concentration as of the
// last completed tick, for stats reporting. Safe to call concurrently
// with Tick.
func (d *Driver) MeanConcentration() float64 {
	d.statsMu.Lock()
	defer d.statsMu.Unlock()
	return d.stats.meanConcentration
}
