// Package config defines the YAML run configuration and its validation.
// A Run value is plain data; helper methods map it onto the domain inputs
// so the CLI stays thin. Invalid configuration is rejected here, before
// any generation runs.
package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/alexiusacademia/gorcf/internal/capacity"
	"github.com/alexiusacademia/gorcf/internal/catalog"
	"github.com/alexiusacademia/gorcf/internal/frame"
	"github.com/alexiusacademia/gorcf/internal/gb"
	"github.com/alexiusacademia/gorcf/internal/optimize"
	"github.com/alexiusacademia/gorcf/internal/verify"
)

var validate = validator.New()

// Run is the complete configuration of one optimization run. Keys absent
// from the YAML file keep the Default() values; flags may override loaded
// values before Validate.
type Run struct {
	Frame        Frame        `yaml:"frame"        validate:"required"`
	Catalog      Catalog      `yaml:"catalog"`
	GA           GA           `yaml:"ga"`
	Verification Verification `yaml:"verification"`
	Output       Output       `yaml:"output"`
}

// Frame is the geometry and loading of the plane frame.
type Frame struct {
	SpansM        []float64 `yaml:"spans_m"         validate:"required,min=1,dive,gt=0"`
	StoryHeightsM []float64 `yaml:"story_heights_m" validate:"required,min=1,dive,gt=0"`
	DeadLoadKNM   float64   `yaml:"dead_load_knm"   validate:"gt=0"`
	LiveLoadKNM   float64   `yaml:"live_load_knm"   validate:"gte=0"`
	SnowLoadKNM2  float64   `yaml:"snow_load_knm2"  validate:"gte=0"`
	FrameSpacingM float64   `yaml:"frame_spacing_m" validate:"gte=0"`
	Wind          *Wind     `yaml:"wind"`
}

// Wind enables lateral load. Terrain and shape factor fall back to the
// GB 50009 defaults (category B, μs 1.3) when omitted.
type Wind struct {
	BasicPressureKNM2 float64 `yaml:"basic_pressure_knm2" validate:"gt=0"`
	ShapeFactor       float64 `yaml:"shape_factor"        validate:"gte=0"`
	Terrain           string  `yaml:"terrain"             validate:"omitempty,oneof=A B C D"`
}

// Catalog bounds the section search space, all millimetres.
type Catalog struct {
	MinWidthMM  float64 `yaml:"min_width_mm"  validate:"gt=0"`
	MaxWidthMM  float64 `yaml:"max_width_mm"  validate:"gtefield=MinWidthMM"`
	MinHeightMM float64 `yaml:"min_height_mm" validate:"gt=0"`
	MaxHeightMM float64 `yaml:"max_height_mm" validate:"gtefield=MinHeightMM"`
	StepMM      float64 `yaml:"step_mm"       validate:"gt=0"`
}

// GA carries the search hyperparameters.
type GA struct {
	PopulationSize   int     `yaml:"population_size" validate:"gte=2"`
	Generations      int     `yaml:"generations"     validate:"gte=1"`
	CrossoverRate    float64 `yaml:"crossover_rate"  validate:"gte=0,lte=1"`
	MutationRate     float64 `yaml:"mutation_rate"   validate:"gte=0,lte=1"`
	PenaltyCoeff     float64 `yaml:"penalty_coeff"   validate:"gt=0"`
	PenaltyExp       float64 `yaml:"penalty_exp"     validate:"gt=0"`
	Elites           int     `yaml:"elites"          validate:"gte=0,ltfield=PopulationSize"`
	Seed             int64   `yaml:"seed"`
	Parallelism      int     `yaml:"parallelism"     validate:"gte=0"`
	DisableEarlyStop bool    `yaml:"disable_early_stop"`
}

// Verification selects the serviceability environment and the fixed rebar
// layout the checks assume.
type Verification struct {
	Exposure         string  `yaml:"exposure"           validate:"oneof=I II-a II-b"`
	BeamAsMM2        float64 `yaml:"beam_as_mm2"        validate:"gte=0"`
	ColumnAsMM2      float64 `yaml:"column_as_mm2"      validate:"gte=0"`
	BarDiaMM         float64 `yaml:"bar_dia_mm"         validate:"gte=0"`
	StirrupAreaMM2   float64 `yaml:"stirrup_area_mm2"   validate:"gte=0"`
	StirrupSpacingMM float64 `yaml:"stirrup_spacing_mm" validate:"gte=0"`
}

// Output names the artifact paths; empty means skip that artifact.
type Output struct {
	Workbook        string `yaml:"workbook"`
	EnvelopePlot    string `yaml:"envelope_plot"`
	ConvergencePlot string `yaml:"convergence_plot"`
}

// Default returns the example two-span three-story office frame. Load()
// starts from it, so a config file only has to state what differs.
func Default() Run {
	return Run{
		Frame: Frame{
			SpansM:        []float64{6.0, 6.0},
			StoryHeightsM: []float64{3.3, 3.3, 3.3},
			DeadLoadKNM:   20,
			LiveLoadKNM:   10,
		},
		Catalog: Catalog{
			MinWidthMM:  200,
			MaxWidthMM:  500,
			MinHeightMM: 300,
			MaxHeightMM: 800,
			StepMM:      50,
		},
		GA: GA{
			PopulationSize: 50,
			Generations:    100,
			CrossoverRate:  0.8,
			MutationRate:   0.35,
			PenaltyCoeff:   1.0,
			PenaltyExp:     2.0,
			Elites:         2,
		},
		Verification: Verification{
			Exposure:         string(verify.ExposureI),
			BeamAsMM2:        capacity.DefaultBeamAsMM2,
			ColumnAsMM2:      capacity.DefaultColumnAsMM2,
			BarDiaMM:         capacity.DefaultBarDiaMM,
			StirrupAreaMM2:   100.5,
			StirrupSpacingMM: 150,
		},
	}
}

// Validate runs the struct tags plus the checks tags cannot express.
func (r Run) Validate() error {
	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if (r.Frame.Wind != nil || r.Frame.SnowLoadKNM2 > 0) && r.Frame.FrameSpacingM <= 0 {
		return fmt.Errorf("invalid configuration: frame_spacing_m must be positive when wind or snow is applied")
	}
	return nil
}

// Grid maps the frame block onto the analysis grid.
func (r Run) Grid() frame.Grid {
	g := frame.Grid{
		SpansM:        r.Frame.SpansM,
		StoryHeightsM: r.Frame.StoryHeightsM,
		DeadLoadKNM:   r.Frame.DeadLoadKNM,
		LiveLoadKNM:   r.Frame.LiveLoadKNM,
		SnowLoadKNM2:  r.Frame.SnowLoadKNM2,
		FrameSpacingM: r.Frame.FrameSpacingM,
	}
	if r.Frame.Wind != nil {
		w := gb.DefaultWind(r.Frame.Wind.BasicPressureKNM2)
		if r.Frame.Wind.ShapeFactor > 0 {
			w.MuS = r.Frame.Wind.ShapeFactor
		}
		if r.Frame.Wind.Terrain != "" {
			w.Terrain = gb.TerrainCategory(r.Frame.Wind.Terrain)
		}
		g.Wind = &w
	}
	return g
}

// BuildCatalog constructs the section library from the configured bounds.
func (r Run) BuildCatalog() (*catalog.Catalog, error) {
	return catalog.New(
		r.Catalog.MinWidthMM, r.Catalog.MaxWidthMM,
		r.Catalog.MinHeightMM, r.Catalog.MaxHeightMM,
		r.Catalog.StepMM,
	)
}

// Material returns the design materials. The checks are written for
// C30/HRB400; other grades would need their own constant set first.
func (r Run) Material() gb.Material {
	return gb.C30HRB400()
}

// GAConfig maps the ga block onto the optimizer hyperparameters.
func (r Run) GAConfig() optimize.Config {
	return optimize.Config{
		PopulationSize:   r.GA.PopulationSize,
		Generations:      r.GA.Generations,
		CrossoverRate:    r.GA.CrossoverRate,
		MutationRate:     r.GA.MutationRate,
		PenaltyCoeff:     r.GA.PenaltyCoeff,
		PenaltyExp:       r.GA.PenaltyExp,
		Elites:           r.GA.Elites,
		Seed:             r.GA.Seed,
		DisableEarlyStop: r.GA.DisableEarlyStop,
	}
}

// VerifyParams maps the verification block onto the verifier inputs.
func (r Run) VerifyParams() verify.Params {
	return verify.Params{
		Material:    r.Material(),
		BeamAsMM2:   r.Verification.BeamAsMM2,
		ColumnAsMM2: r.Verification.ColumnAsMM2,
		BarDiaMM:    r.Verification.BarDiaMM,
		Stirrup: capacity.Stirrup{
			AreaMM2:   r.Verification.StirrupAreaMM2,
			SpacingMM: r.Verification.StirrupSpacingMM,
		},
		Exposure: verify.Exposure(r.Verification.Exposure),
	}
}
