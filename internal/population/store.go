package population

import "sync"

// Store holds the live particle population as a flat, index-addressed
// slice fed directly to the spatial index and the force/integration
// phases. Within a phase each index is owned by a single worker and no
// locking is needed; the only synchronized access is the journal used to
// stage divisions and secretions produced by the parallel population
// phase (spec.md §5, §9).
type Store struct {
	Particles []Particle

	journalMu sync.Mutex
	removed   map[int]bool // indices into Particles staged for removal
	added     []Particle
}

// NewStore creates an empty population store.
func NewStore() *Store {
	return &Store{removed: make(map[int]bool)}
}

// Len returns the current particle count.
func (s *Store) Len() int { return len(s.Particles) }

// Xs and Ys return the position components as parallel slices, the shape
// the spatial index consumes directly. Allocated fresh each call since
// Particles changes membership every tick; callers own the result.
func (s *Store) Xs() []float64 {
	xs := make([]float64, len(s.Particles))
	for i, p := range s.Particles {
		xs[i] = p.Position.X
	}
	return xs
}

func (s *Store) Ys() []float64 {
	ys := make([]float64, len(s.Particles))
	for i, p := range s.Particles {
		ys[i] = p.Position.Y
	}
	return ys
}

// StageRemoval marks particle index i (a mother cell, at division) for
// removal after the current parallel phase's barrier. Safe to call
// concurrently from multiple workers.
func (s *Store) StageRemoval(i int) {
	s.journalMu.Lock()
	s.removed[i] = true
	s.journalMu.Unlock()
}

// StageAdd enqueues a newly created particle (a division daughter or a
// secreted EPS particle) to be appended after the current parallel
// phase's barrier. Safe to call concurrently from multiple workers.
func (s *Store) StageAdd(p Particle) {
	s.journalMu.Lock()
	s.added = append(s.added, p)
	s.journalMu.Unlock()
}

// Merge applies all staged removals and additions: the mother cells are
// dropped and the daughters/secretions are appended. The order in which
// staged particles appear is implementation-defined (spec.md §5) since
// they arrive from concurrent per-worker journals; this merge preserves
// the order workers happened to stage them in, which is not guaranteed
// stable across runs with different worker counts.
func (s *Store) Merge() {
	s.journalMu.Lock()
	removed, added := s.removed, s.added
	s.removed = make(map[int]bool)
	s.added = nil
	s.journalMu.Unlock()

	if len(removed) > 0 {
		kept := s.Particles[:0]
		for i, p := range s.Particles {
			if removed[i] {
				continue
			}
			kept = append(kept, p)
		}
		s.Particles = kept
	}
	s.Particles = append(s.Particles, added...)
}

// Add appends a particle directly, bypassing the journal. Used during
// initial colony construction (start()), before any parallel phase runs.
func (s *Store) Add(p Particle) {
	s.Particles = append(s.Particles, p)
}

// CellIndices returns a snapshot slice of indices into Particles that are
// cells, in current order. The snapshot is immutable with respect to
// growth (growth mutates Length in place, never membership), per
// spec.md §4.5's "immutable snapshot of the pre-growth population" rule.
func (s *Store) CellIndices() []int {
	idx := make([]int, 0, len(s.Particles))
	for i, p := range s.Particles {
		if p.Kind == KindCell {
			idx = append(idx, i)
		}
	}
	return idx
}
