package scenario

import (
	"os"
	"path/filepath"
	"testing"

	"pet-dash/internal/petapi"
)

func TestBuiltinCatalog(t *testing.T) {
	c := Builtin()
	if len(c.Presets) != 4 {
		t.Fatalf("expected 4 builtin presets, got %d", len(c.Presets))
	}
	p, ok := c.Get("fast_high_1918")
	if !ok {
		t.Fatal("fast_high_1918 preset missing")
	}
	if p.R0 != 2.5 || p.DiseaseName != "1918 Influenza" {
		t.Errorf("unexpected preset values: %+v", p)
	}
	if len(p.Nu) != 5 {
		t.Errorf("expected 5 age-group death rates, got %d", len(p.Nu))
	}
}

func TestLoad_FallsBackToBuiltin(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("load presets: %v", err)
	}
	if len(c.Presets) != 4 {
		t.Errorf("expected builtin catalog, got %d presets", len(c.Presets))
	}
}

func TestLoad_CustomCatalog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "presets.yaml")
	data := `
presets:
  - key: custom
    name: Custom Disease
    disease_name: X
    r0: 3.1
    nu: [0.1, 0.1, 0.1, 0.1, 0.1]
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
	c, err := Load(path)
	if err != nil {
		t.Fatalf("load presets: %v", err)
	}
	p, ok := c.Get("custom")
	if !ok || p.R0 != 3.1 {
		t.Fatalf("unexpected catalog: %+v", c.Presets)
	}
}

func TestPresetParameters_AppliesInterventionDefaults(t *testing.T) {
	p, _ := Builtin().Get("slow_mild_2009")
	initial := []petapi.InitialInfection{{FIPS: "48453", Cases: 50, AgeGroup: 2}}
	params := p.Parameters(initial, nil)
	if params.R0 != 1.2 || params.DiseaseName != "2009 H1N1" {
		t.Errorf("disease parameters not carried over: %+v", params)
	}
	if len(params.InitialInfected) != 1 || params.InitialInfected[0].FIPS != "48453" {
		t.Errorf("initial infections not carried over: %+v", params.InitialInfected)
	}
	if params.VaccineEffectiveness != DefaultVaccineEffectiveness {
		t.Errorf("vaccine defaults not applied: %+v", params)
	}
	if params.AntiviralStockpile != DefaultAntiviralStockpile {
		t.Errorf("antiviral defaults not applied: %+v", params)
	}
}

func TestAgeGroupIndex(t *testing.T) {
	cases := []struct {
		label string
		want  int
	}{
		{"0-4 years", 0},
		{"65+ years", 4},
		{"unknown", 2},
	}
	for _, c := range cases {
		if got := AgeGroupIndex(c.label); got != c.want {
			t.Errorf("AgeGroupIndex(%q) = %d, want %d", c.label, got, c.want)
		}
	}
}
