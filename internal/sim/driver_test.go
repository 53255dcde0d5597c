package sim

import (
	"context"
	"math"
	"testing"

	"github.com/0x5844/colonysim/internal/config"
	"github.com/0x5844/colonysim/internal/geom"
	"github.com/0x5844/colonysim/internal/nutrient"
	"github.com/0x5844/colonysim/internal/output"
	"github.com/0x5844/colonysim/internal/population"
)

func smallParams() config.Params {
	p := config.Defaults()
	p.InitialCount = 3
	p.GridWidth, p.GridHeight = 10, 10
	p.GridCellSize = 2
	p.NumTicks = 5
	return p
}

// A few ticks of a small colony must not error, and every orientation
// vector must stay unit-norm, per spec.md §4.4's renormalization
// invariant.
func TestDriverTicksWithoutErrorAndKeepsUnitOrientations(t *testing.T) {
	sink, err := output.New(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer sink.Close()

	population.ResetIDs(1, 10000)
	driver := New(smallParams(), sink, 1, 2)

	ctx := context.Background()
	for i := 0; i < 5; i++ {
		if err := driver.Tick(ctx); err != nil {
			t.Fatalf("tick %d failed: %v", i, err)
		}
	}

	if driver.TickNumber() != 5 {
		t.Fatalf("expected tick counter 5, got %d", driver.TickNumber())
	}
	if driver.Population() < smallParams().InitialCount {
		t.Fatalf("expected population to not shrink below initial count, got %d", driver.Population())
	}

	for _, p := range driver.store.Particles {
		n := p.Orientation.Norm()
		if math.Abs(n-1) > 1e-6 {
			t.Fatalf("expected unit-norm orientation, got norm %v for particle %+v", n, p)
		}
	}
}

// A mother that is both eligible to secrete and ready to divide in the
// same tick must do both: secretion and division are independent
// per-cell decisions, not an either/or branch.
func TestUpdatePopulationSecretesAndDividesSameTick(t *testing.T) {
	population.ResetIDs(1, 10000)
	d := &Driver{
		store:    population.NewStore(),
		field:    nutrient.New(5, 5, 1, 1, 1, 1, 0),
		rootSeed: 1,
		workers:  1,
		cutoff:   DefaultCutoff,
	}
	d.store.Add(population.Particle{
		ID:          population.NextCellID(),
		Kind:        population.KindCell,
		Position:    geom.New(0, 0),
		Orientation: geom.New(1, 0),
		Diameter:    1,
		Length:      5, // already at division_length
		State:       population.StateGrowing,
	})

	dynParams := population.DynamicsParams{
		GrowthRate:           0,
		DivisionLength:       5,
		EpsDiameter:          0.5,
		CellDensityThreshold: 0,    // any cell area satisfies rho_c >= theta_c
		EpsDensityThreshold:  1000, // never saturated by a single EPS
		SensingRadius:        10,
		EpsProductionRate:    10, // k_eps/10 == 1, Bernoulli always succeeds
		DeltaTime:            0.1,
	}

	if err := d.updatePopulation(context.Background(), dynParams); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if d.store.Len() != 3 {
		t.Fatalf("expected 2 daughters + 1 secreted EPS, got %d particles: %+v", d.store.Len(), d.store.Particles)
	}
	var cells, eps int
	for _, p := range d.store.Particles {
		switch p.Kind {
		case population.KindCell:
			cells++
		case population.KindEps:
			eps++
		}
	}
	if cells != 2 || eps != 1 {
		t.Fatalf("expected 2 cells and 1 eps, got %d cells and %d eps", cells, eps)
	}
}

func TestDriverSeedsInitialPopulation(t *testing.T) {
	sink, err := output.New(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer sink.Close()

	population.ResetIDs(1, 10000)
	params := smallParams()
	driver := New(params, sink, 7, 1)

	if driver.Population() != params.InitialCount {
		t.Fatalf("expected seeded population %d, got %d", params.InitialCount, driver.Population())
	}
	wantLength := params.Length / 2
	for _, p := range driver.store.Particles {
		if p.Length != wantLength {
			t.Fatalf("expected seeded cell length %v (params.Length/2), got %v", wantLength, p.Length)
		}
	}
}

// Seeded cells must land inside the nutrient field, centered on the domain
// rather than jittered around the origin corner, or MonodAt starves them
// from tick zero.
func TestDriverSeedsClusterInsideNutrientField(t *testing.T) {
	sink, err := output.New(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer sink.Close()

	population.ResetIDs(1, 10000)
	params := smallParams()
	driver := New(params, sink, 13, 1)

	for _, p := range driver.store.Particles {
		i, j := driver.field.NearestNode(p.Position.X, p.Position.Y)
		if !driver.field.InBounds(i, j) {
			t.Fatalf("expected seeded particle at %+v to map inside the nutrient field, got node (%d,%d)", p.Position, i, j)
		}
	}
}
