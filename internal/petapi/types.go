// Payload types for the Pandemic Exercise Tool backend API
package petapi

import "encoding/json"

// InitialInfection seeds cases in one county at simulation start.
type InitialInfection struct {
	FIPS     string `json:"fips_id"`
	Cases    int    `json:"cases"`
	AgeGroup int    `json:"age_group"`
}

// NPI describes a non-pharmaceutical intervention applied during a run.
type NPI struct {
	Name          string  `json:"name"`
	Location      string  `json:"location"` // comma-separated FIPS codes, empty for statewide
	Effectiveness float64 `json:"effectiveness"`
	StartDay      int     `json:"start_day"`
	Duration      int     `json:"duration"`
}

// ScenarioParameters is the full scenario-creation payload. It is sent once
// on create and never mutated locally; validation is the backend's job.
type ScenarioParameters struct {
	DiseaseName string  `json:"disease_name"`
	R0          float64 `json:"R0"`
	BetaScale   float64 `json:"beta_scale"`
	Tau         float64 `json:"tau"`
	Kappa       float64 `json:"kappa"`
	Gamma       float64 `json:"gamma"`
	Chi         float64 `json:"chi"`
	Rho         float64 `json:"rho"`

	// Nu holds per-age-group death rates (5 age groups).
	Nu []float64 `json:"nu"`

	InitialInfected []InitialInfection `json:"initial_infected"`
	NPIs            []NPI              `json:"npis"`

	VaccineEffectiveness   float64 `json:"vaccine_effectiveness"`
	VaccineAdherence       float64 `json:"vaccine_adherence"`
	VaccineStockpile       int     `json:"vaccine_stockpile"`
	VaccineWastageFactor   float64 `json:"vaccine_wastage_factor"`
	VaccineProRata         string  `json:"vaccine_pro_rata"`
	AntiviralEffectiveness float64 `json:"antiviral_effectiveness"`
	AntiviralStockpile     int     `json:"antiviral_stockpile"`
	AntiviralWastage       float64 `json:"antiviral_wastage_factor"`
}

// scenarioWire mirrors ScenarioParameters on the wire. The backend stores
// initial_infected and npis as JSON-encoded strings, so they are flattened
// before posting.
type scenarioWire struct {
	DiseaseName string    `json:"disease_name"`
	R0          float64   `json:"R0"`
	BetaScale   float64   `json:"beta_scale"`
	Tau         float64   `json:"tau"`
	Kappa       float64   `json:"kappa"`
	Gamma       float64   `json:"gamma"`
	Chi         float64   `json:"chi"`
	Rho         float64   `json:"rho"`
	Nu          []float64 `json:"nu"`

	InitialInfected string `json:"initial_infected"`
	NPIs            string `json:"npis"`

	VaccineEffectiveness   float64 `json:"vaccine_effectiveness"`
	VaccineAdherence       float64 `json:"vaccine_adherence"`
	VaccineStockpile       int     `json:"vaccine_stockpile"`
	VaccineWastageFactor   float64 `json:"vaccine_wastage_factor"`
	VaccineProRata         string  `json:"vaccine_pro_rata"`
	AntiviralEffectiveness float64 `json:"antiviral_effectiveness"`
	AntiviralStockpile     int     `json:"antiviral_stockpile"`
	AntiviralWastage       float64 `json:"antiviral_wastage_factor"`
}

func (p ScenarioParameters) wire() (scenarioWire, error) {
	ii := p.InitialInfected
	if ii == nil {
		ii = []InitialInfection{}
	}
	npis := p.NPIs
	if npis == nil {
		npis = []NPI{}
	}
	iiJSON, err := json.Marshal(ii)
	if err != nil {
		return scenarioWire{}, err
	}
	npiJSON, err := json.Marshal(npis)
	if err != nil {
		return scenarioWire{}, err
	}
	return scenarioWire{
		DiseaseName:           p.DiseaseName,
		R0:                    p.R0,
		BetaScale:             p.BetaScale,
		Tau:                   p.Tau,
		Kappa:                 p.Kappa,
		Gamma:                 p.Gamma,
		Chi:                   p.Chi,
		Rho:                   p.Rho,
		Nu:                    p.Nu,
		InitialInfected:       string(iiJSON),
		NPIs:                  string(npiJSON),
		VaccineEffectiveness:   p.VaccineEffectiveness,
		VaccineAdherence:       p.VaccineAdherence,
		VaccineStockpile:       p.VaccineStockpile,
		VaccineWastageFactor:   p.VaccineWastageFactor,
		VaccineProRata:         p.VaccineProRata,
		AntiviralEffectiveness: p.AntiviralEffectiveness,
		AntiviralStockpile:     p.AntiviralStockpile,
		AntiviralWastage:       p.AntiviralWastage,
	}, nil
}

// CountyDay is one county's breakdown within a day output.
type CountyDay struct {
	FIPS            string  `json:"fips"`
	Infected        float64 `json:"infected"`
	Deceased        float64 `json:"deceased"`
	InfectedPercent float64 `json:"infectedPercent"`
	DeceasedPercent float64 `json:"deceasedPercent"`
}

// DayOutput is the per-day SEATIRD snapshot returned by the backend.
// Compartment totals are float64 because the backend integrates a
// continuous model; counts arrive fractional.
type DayOutput struct {
	Day               int         `json:"day"`
	TotalSusceptible  float64     `json:"totalSusceptible"`
	TotalExposed      float64     `json:"totalExposed"`
	TotalAsymptomatic float64     `json:"totalAsymptomaticCount"`
	TotalTreatable    float64     `json:"totalTreatableCount"`
	TotalInfected     float64     `json:"totalInfectedCount"`
	TotalRecovered    float64     `json:"totalRecoveredCount"`
	TotalDeceased     float64     `json:"totalDeceased"`
	Counties          []CountyDay `json:"counties"`
}
