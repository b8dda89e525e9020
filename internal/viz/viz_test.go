package viz

import (
	"testing"

	"pet-dash/internal/counties"
	"pet-dash/internal/petapi"
)

func testHistory() []petapi.DayOutput {
	return []petapi.DayOutput{
		{
			Day: 0, TotalSusceptible: 29000000, TotalInfected: 100,
			Counties: []petapi.CountyDay{
				{FIPS: "48201", Infected: 80, Deceased: 0, InfectedPercent: 0.2, DeceasedPercent: 0},
				{FIPS: "48113", Infected: 20, Deceased: 0, InfectedPercent: 0.1, DeceasedPercent: 0},
			},
		},
		{
			Day: 1, TotalSusceptible: 28999000, TotalInfected: 900, TotalDeceased: 3,
			Counties: []petapi.CountyDay{
				{FIPS: "48201", Infected: 700, Deceased: 2, InfectedPercent: 1.5, DeceasedPercent: 0.0001},
				{FIPS: "48113", Infected: 200, Deceased: 1, InfectedPercent: 0.8, DeceasedPercent: 0.0001},
			},
		},
	}
}

func testRegistry(t *testing.T) *counties.Registry {
	t.Helper()
	r, err := counties.Load()
	if err != nil {
		t.Fatalf("load registry: %v", err)
	}
	return r
}

func TestChart_SeriesPerCompartment(t *testing.T) {
	data := Chart(testHistory(), nil)
	if len(data.Days) != 2 || data.Days[1] != 1 {
		t.Errorf("unexpected days: %v", data.Days)
	}
	if len(data.Series) != 7 {
		t.Fatalf("expected 7 SEATIRD series, got %d", len(data.Series))
	}
	var infected *Series
	for i := range data.Series {
		if data.Series[i].Name == "Infected" {
			infected = &data.Series[i]
		}
	}
	if infected == nil {
		t.Fatal("Infected series missing")
	}
	if infected.Values[0] != 100 || infected.Values[1] != 900 {
		t.Errorf("unexpected infected values: %v", infected.Values)
	}
}

func TestChart_NPIMarkersOnlyWithinRange(t *testing.T) {
	npis := []petapi.NPI{
		{Name: "school_closure", StartDay: 1},
		{Name: "late_npi", StartDay: 50},
	}
	data := Chart(testHistory(), npis)
	if len(data.Markers) != 1 {
		t.Fatalf("expected 1 marker, got %d", len(data.Markers))
	}
	if data.Markers[0].Label != "NPI: school_closure" {
		t.Errorf("unexpected marker: %+v", data.Markers[0])
	}
}

func TestMap_PercentAndCountViews(t *testing.T) {
	reg := testRegistry(t)
	history := testHistory()

	pm := Map(history, 1, ViewPercent, reg)
	if pm.Day != 1 || len(pm.Counties) != 2 {
		t.Fatalf("unexpected map data: %+v", pm)
	}
	if pm.Counties[0].Value != 1.5 {
		t.Errorf("percent view should use infectedPercent, got %v", pm.Counties[0].Value)
	}

	cm := Map(history, 1, ViewCount, reg)
	if cm.Counties[0].Value != 700 {
		t.Errorf("count view should use infected count, got %v", cm.Counties[0].Value)
	}
	if cm.Counties[0].Name != "Harris County" {
		t.Errorf("county name not resolved: %q", cm.Counties[0].Name)
	}
}

func TestMap_OutOfRangeDayIsEmpty(t *testing.T) {
	reg := testRegistry(t)
	m := Map(testHistory(), 5, ViewPercent, reg)
	if len(m.Counties) != 0 {
		t.Errorf("expected empty counties, got %d", len(m.Counties))
	}
	if len(m.GeoJSON) == 0 {
		t.Error("GeoJSON should still be present for empty maps")
	}
}

func TestTable_SortOrders(t *testing.T) {
	reg := testRegistry(t)
	history := testHistory()

	rows := Table(history, 1, ViewCount, "infected", "desc", reg)
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].County != "Harris County" {
		t.Errorf("desc sort by infected should put Harris first: %+v", rows)
	}
	if rows[0].Infected != "700" {
		t.Errorf("unexpected formatted count: %q", rows[0].Infected)
	}

	rows = Table(history, 1, ViewPercent, "county", "asc", reg)
	if rows[0].County != "Dallas County" {
		t.Errorf("asc sort by county should put Dallas first: %+v", rows)
	}
	if rows[0].Infected != "0.8%" {
		t.Errorf("unexpected formatted percent: %q", rows[0].Infected)
	}
}

func TestCommafy(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1204.2, "1,204"},
		{4731145, "4,731,145"},
	}
	for _, c := range cases {
		if got := commafy(c.in); got != c.want {
			t.Errorf("commafy(%v) = %q, want %q", c.in, got, c.want)
		}
	}
}
