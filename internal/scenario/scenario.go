package scenario

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"pet-dash/internal/petapi"
)

// Preset is a named disease parameterization selectable from the dashboard.
type Preset struct {
	Key         string    `yaml:"key"`
	Name        string    `yaml:"name"`
	DiseaseName string    `yaml:"disease_name"`
	R0          float64   `yaml:"r0"`
	BetaScale   float64   `yaml:"beta_scale"`
	Tau         float64   `yaml:"tau"`
	Kappa       float64   `yaml:"kappa"`
	Gamma       float64   `yaml:"gamma"`
	Chi         float64   `yaml:"chi"`
	Rho         float64   `yaml:"rho"`
	Nu          []float64 `yaml:"nu"`
}

// Catalog holds the available presets in display order.
type Catalog struct {
	Presets []Preset `yaml:"presets"`
}

//go:embed presets.yaml
var builtinPresets []byte

// Builtin returns the embedded preset catalog.
func Builtin() *Catalog {
	var c Catalog
	if err := yaml.Unmarshal(builtinPresets, &c); err != nil {
		panic(fmt.Sprintf("embedded presets corrupt: %v", err))
	}
	return &c
}

// Load reads a preset catalog from a YAML file, falling back to the
// builtin catalog when path is empty or missing.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Builtin(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Builtin(), nil
		}
		return nil, fmt.Errorf("read presets: %w", err)
	}
	var c Catalog
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse presets: %w", err)
	}
	if len(c.Presets) == 0 {
		return nil, fmt.Errorf("presets file %s defines no presets", path)
	}
	return &c, nil
}

// Get returns the preset with the given key.
func (c *Catalog) Get(key string) (Preset, bool) {
	for _, p := range c.Presets {
		if p.Key == key {
			return p, true
		}
	}
	return Preset{}, false
}

// Intervention defaults applied when the user has not configured
// vaccine/antiviral programs explicitly.
const (
	DefaultVaccineEffectiveness = 0.85
	DefaultVaccineAdherence     = 0.70
	DefaultVaccineStockpile     = 1000000
	DefaultVaccineWastage       = 0.10
	DefaultVaccineProRata       = "proportional"
	DefaultAntiviralEffect      = 0.75
	DefaultAntiviralStockpile   = 500000
	DefaultAntiviralWastage     = 0.05
	DefaultNPIEffectiveness     = 0.5
	DefaultNPIStartDay          = 5
	DefaultNPIDurationDays      = 30
)

// Parameters expands a preset into a full scenario payload with default
// intervention settings. Initial infections and NPIs come from the caller.
func (p Preset) Parameters(initial []petapi.InitialInfection, npis []petapi.NPI) petapi.ScenarioParameters {
	return petapi.ScenarioParameters{
		DiseaseName:           p.DiseaseName,
		R0:                    p.R0,
		BetaScale:             p.BetaScale,
		Tau:                   p.Tau,
		Kappa:                 p.Kappa,
		Gamma:                 p.Gamma,
		Chi:                   p.Chi,
		Rho:                   p.Rho,
		Nu:                    p.Nu,
		InitialInfected:       initial,
		NPIs:                  npis,
		VaccineEffectiveness:   DefaultVaccineEffectiveness,
		VaccineAdherence:       DefaultVaccineAdherence,
		VaccineStockpile:       DefaultVaccineStockpile,
		VaccineWastageFactor:   DefaultVaccineWastage,
		VaccineProRata:         DefaultVaccineProRata,
		AntiviralEffectiveness: DefaultAntiviralEffect,
		AntiviralStockpile:     DefaultAntiviralStockpile,
		AntiviralWastage:       DefaultAntiviralWastage,
	}
}

// AgeGroups lists the backend's five age bands in index order.
var AgeGroups = []string{
	"0-4 years",
	"5-24 years",
	"25-49 years",
	"50-64 years",
	"65+ years",
}

// AgeGroupIndex maps an age-band label to its backend index.
// Unknown labels map to the 25-49 band.
func AgeGroupIndex(label string) int {
	for i, g := range AgeGroups {
		if g == label {
			return i
		}
	}
	return 2
}
