// Package config loads the INI-style configuration record of spec.md
// §6.1 into an immutable Params struct threaded through every
// constructor, per spec.md §9's "no hidden globals" guidance. Parsing
// uses gopkg.in/ini.v1 rather than a hand-rolled scanner: no example in
// the retrieved pack parses INI, so this follows the project's
// out-of-pack dependency policy of reaching for the ecosystem's standard
// choice instead of rebuilding one on bufio/strings.
package config

import (
	"fmt"
	"log"

	"gopkg.in/ini.v1"
)

// Params is the fully-resolved parameter record: every key of spec.md
// §6.1, defaulted and type-checked.
type Params struct {
	Width, Height int

	InitialCount int

	Length            float64
	Diameter          float64
	EpsDiameter       float64
	GrowthRate        float64
	DivisionLength    float64
	DivisionRate      float64
	EpsProductionRate float64

	MotilityForce   float64
	RepulsionForce  float64
	EmEpsEps        float64
	EmEpsCell       float64
	EmCellCell      float64

	FrictionCell float64
	FrictionEps  float64

	NutrientConcentration   float64
	NutrientConsumptionRate float64
	DiffusionRate           float64

	CellDensityThreshold float64
	EpsDensityThreshold  float64
	LocalSensingRadius   float64

	GridWidth    int
	GridHeight   int
	GridCellSize float64

	DeltaTime float64
	NumTicks  int
}

// Defaults returns the table of defaults from spec.md §6.1.
func Defaults() Params {
	return Params{
		Width: 800, Height: 800,
		InitialCount: 1,
		Length: 5.0, Diameter: 1.0, EpsDiameter: 0.5,
		GrowthRate:        3.5,
		DivisionLength:    5.0,
		DivisionRate:      1.0,
		EpsProductionRate: 1.0,
		MotilityForce:     300.0,
		RepulsionForce:    100.0,
		EmEpsEps: 200, EmEpsCell: 200, EmCellCell: 200,
		FrictionCell: 200, FrictionEps: 200,
		NutrientConcentration:   3.0,
		NutrientConsumptionRate: 1.0,
		DiffusionRate:           300.0,
		CellDensityThreshold: 5.0, EpsDensityThreshold: 0.3,
		LocalSensingRadius: 2.0,
		GridWidth: 50, GridHeight: 50, GridCellSize: 10,
		DeltaTime: 0.1, NumTicks: 1000,
	}
}

// floatKeys enumerates every recognised float key with a pointer to the
// field it feeds, used for both defaulting and malformed-number
// detection.
func floatKeys(p *Params) map[string]*float64 {
	return map[string]*float64{
		"length":                     &p.Length,
		"diameter":                   &p.Diameter,
		"eps_diameter":               &p.EpsDiameter,
		"growth_rate":                &p.GrowthRate,
		"division_length":            &p.DivisionLength,
		"division_rate":              &p.DivisionRate,
		"eps_production_rate":        &p.EpsProductionRate,
		"motility_force":             &p.MotilityForce,
		"repulsion_force":            &p.RepulsionForce,
		"em_eps_eps":                 &p.EmEpsEps,
		"em_eps_cell":                &p.EmEpsCell,
		"em_cell_cell":               &p.EmCellCell,
		"friction_coefficient_cell":  &p.FrictionCell,
		"friction_coefficient_eps":   &p.FrictionEps,
		"nutrient_concentration":     &p.NutrientConcentration,
		"nutrient_consumption_rate":  &p.NutrientConsumptionRate,
		"diffusion_rate":             &p.DiffusionRate,
		"cell_density_threshold":     &p.CellDensityThreshold,
		"eps_density_threshold":      &p.EpsDensityThreshold,
		"local_sensing_radius":       &p.LocalSensingRadius,
		"grid_cell_size":             &p.GridCellSize,
		"delta_time":                 &p.DeltaTime,
	}
}

func intKeys(p *Params) map[string]*int {
	return map[string]*int{
		"width":         &p.Width,
		"height":        &p.Height,
		"initial_count": &p.InitialCount,
		"grid_width":    &p.GridWidth,
		"grid_height":   &p.GridHeight,
		"num_ticks":     &p.NumTicks,
	}
}

// Load reads path as an INI file and returns a fully-defaulted Params
// record. Missing keys fall back to defaults with a logged warning.
// Malformed numbers abort with a non-nil error, per spec.md §6.1 and §7.
func Load(path string) (Params, error) {
	p := Defaults()

	cfg, err := ini.LoadSources(ini.LoadOptions{IgnoreInlineComment: false}, path)
	if err != nil {
		return Params{}, fmt.Errorf("%w: %v", ErrConfigMissing, err)
	}
	sec := cfg.Section("") // ini.v1 merges un-sectioned keys into DEFAULT

	for key, target := range floatKeys(&p) {
		if err := readFloat(cfg, sec, key, target); err != nil {
			return Params{}, err
		}
	}
	for key, target := range intKeys(&p) {
		if err := readInt(cfg, sec, key, target); err != nil {
			return Params{}, err
		}
	}

	return p, nil
}

func readFloat(cfg *ini.File, sec *ini.Section, key string, target *float64) error {
	k := findKey(cfg, sec, key)
	if k == nil {
		log.Printf("config: missing key %q, using default %v", key, *target)
		return nil
	}
	v, err := k.Float64()
	if err != nil {
		return fmt.Errorf("%w: key %q: %v", ErrConfigParse, key, err)
	}
	*target = v
	return nil
}

func readInt(cfg *ini.File, sec *ini.Section, key string, target *int) error {
	k := findKey(cfg, sec, key)
	if k == nil {
		log.Printf("config: missing key %q, using default %v", key, *target)
		return nil
	}
	v, err := k.Int()
	if err != nil {
		return fmt.Errorf("%w: key %q: %v", ErrConfigParse, key, err)
	}
	*target = v
	return nil
}

// findKey looks the key up in the default section first, then in every
// other section, since spec.md §6.1 says section headers are ignored.
func findKey(cfg *ini.File, sec *ini.Section, key string) *ini.Key {
	if sec.HasKey(key) {
		return sec.Key(key)
	}
	for _, s := range cfg.Sections() {
		if s.HasKey(key) {
			return s.Key(key)
		}
	}
	return nil
}
