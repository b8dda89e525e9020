// Shapes day outputs into chart, map, and table payloads for the dashboard
package viz

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"pet-dash/internal/counties"
	"pet-dash/internal/petapi"
)

// View selects between percentage and absolute-count rendering.
const (
	ViewPercent = "percent"
	ViewCount   = "count"
)

// Series is one epidemic-curve line.
type Series struct {
	Name   string    `json:"name"`
	Color  string    `json:"color"`
	Values []float64 `json:"values"`
}

// NPIMarker flags the start day of an intervention on the chart.
type NPIMarker struct {
	Day   int    `json:"day"`
	Label string `json:"label"`
}

// ChartData feeds the epidemic-curve chart.
type ChartData struct {
	Days    []int       `json:"days"`
	Series  []Series    `json:"series"`
	Markers []NPIMarker `json:"markers"`
}

// MapCounty is one county's choropleth value.
type MapCounty struct {
	FIPS  string  `json:"fips"`
	Name  string  `json:"name"`
	Value float64 `json:"value"`
	Hover string  `json:"hover"`
}

// MapData feeds the choropleth map for a single day.
type MapData struct {
	Day      int             `json:"day"`
	View     string          `json:"view"`
	Counties []MapCounty     `json:"counties"`
	GeoJSON  json.RawMessage `json:"geojson"`
}

// TableRow is one row of the county breakdown table.
type TableRow struct {
	County   string `json:"county"`
	FIPS     string `json:"fips"`
	Infected string `json:"infected"`
	Deceased string `json:"deceased"`

	infectedSort float64
	deceasedSort float64
}

// compartment display order and colors follow the SEATIRD model.
var compartments = []struct {
	name  string
	color string
	value func(d petapi.DayOutput) float64
}{
	{"Susceptible", "blue", func(d petapi.DayOutput) float64 { return d.TotalSusceptible }},
	{"Exposed", "orange", func(d petapi.DayOutput) float64 { return d.TotalExposed }},
	{"Asymptomatic", "gold", func(d petapi.DayOutput) float64 { return d.TotalAsymptomatic }},
	{"Treatable", "purple", func(d petapi.DayOutput) float64 { return d.TotalTreatable }},
	{"Infected", "red", func(d petapi.DayOutput) float64 { return d.TotalInfected }},
	{"Recovered", "green", func(d petapi.DayOutput) float64 { return d.TotalRecovered }},
	{"Deceased", "black", func(d petapi.DayOutput) float64 { return d.TotalDeceased }},
}

// Chart builds the epidemic-curve series over the full run history.
func Chart(history []petapi.DayOutput, npis []petapi.NPI) ChartData {
	data := ChartData{Days: make([]int, 0, len(history))}
	for _, d := range history {
		data.Days = append(data.Days, d.Day)
	}
	for _, c := range compartments {
		s := Series{Name: c.name, Color: c.color, Values: make([]float64, 0, len(history))}
		for _, d := range history {
			s.Values = append(s.Values, c.value(d))
		}
		data.Series = append(data.Series, s)
	}
	maxDay := 0
	if len(history) > 0 {
		maxDay = history[len(history)-1].Day
	}
	for _, npi := range npis {
		if npi.StartDay <= maxDay {
			data.Markers = append(data.Markers, NPIMarker{Day: npi.StartDay, Label: "NPI: " + npi.Name})
		}
	}
	return data
}

// Map builds choropleth values for one day of the history.
func Map(history []petapi.DayOutput, dayIdx int, view string, reg *counties.Registry) MapData {
	data := MapData{View: view, GeoJSON: reg.GeoJSON()}
	if dayIdx < 0 || dayIdx >= len(history) {
		return data
	}
	day := history[dayIdx]
	data.Day = day.Day
	for _, c := range day.Counties {
		name := reg.NameByFIPS(c.FIPS)
		var value float64
		var hover string
		if view == ViewCount {
			value = c.Infected
			hover = fmt.Sprintf("%s\nInfected: %s\nDeceased: %s",
				name, commafy(c.Infected), commafy(c.Deceased))
		} else {
			value = c.InfectedPercent
			hover = fmt.Sprintf("%s\nInfected: %.1f%%\nDeceased: %.1f%%",
				name, c.InfectedPercent, c.DeceasedPercent)
		}
		data.Counties = append(data.Counties, MapCounty{
			FIPS:  c.FIPS,
			Name:  name,
			Value: value,
			Hover: hover,
		})
	}
	return data
}

// Table builds the sortable county breakdown for one day.
// sortBy is one of county, infected, deceased; order is asc or desc.
func Table(history []petapi.DayOutput, dayIdx int, view, sortBy, order string, reg *counties.Registry) []TableRow {
	if dayIdx < 0 || dayIdx >= len(history) {
		return nil
	}
	day := history[dayIdx]
	rows := make([]TableRow, 0, len(day.Counties))
	for _, c := range day.Counties {
		row := TableRow{County: reg.NameByFIPS(c.FIPS), FIPS: c.FIPS}
		if view == ViewCount {
			row.Infected = commafy(c.Infected)
			row.Deceased = commafy(c.Deceased)
			row.infectedSort = c.Infected
			row.deceasedSort = c.Deceased
		} else {
			row.Infected = fmt.Sprintf("%.1f%%", c.InfectedPercent)
			row.Deceased = fmt.Sprintf("%.1f%%", c.DeceasedPercent)
			row.infectedSort = c.InfectedPercent
			row.deceasedSort = c.DeceasedPercent
		}
		rows = append(rows, row)
	}

	less := func(i, j int) bool {
		switch sortBy {
		case "infected":
			return rows[i].infectedSort < rows[j].infectedSort
		case "deceased":
			return rows[i].deceasedSort < rows[j].deceasedSort
		default:
			return rows[i].County < rows[j].County
		}
	}
	if order == "desc" {
		sort.SliceStable(rows, func(i, j int) bool { return less(j, i) })
	} else {
		sort.SliceStable(rows, less)
	}
	return rows
}

// commafy renders a count with thousands separators, dropping the
// fractional part the backend's integrator leaves behind.
func commafy(v float64) string {
	n := int64(v)
	s := strconv.FormatInt(n, 10)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var parts []string
	for len(s) > 3 {
		parts = append([]string{s[len(s)-3:]}, parts...)
		s = s[:len(s)-3]
	}
	parts = append([]string{s}, parts...)
	out := strings.Join(parts, ",")
	if neg {
		out = "-" + out
	}
	return out
}
