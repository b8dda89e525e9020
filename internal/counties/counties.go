// Texas county registry backing the map and table views
package counties

import (
	"embed"
	"encoding/json"
	"fmt"
	"sort"
)

// County identifies one Texas county by its FIPS code.
type County struct {
	Name       string `json:"name"`
	FIPS       string `json:"fips"`
	Population int    `json:"population"`
}

// Option is a label/value pair for dropdown rendering.
type Option struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

//go:embed data/texas_counties.json data/texas_mapping.json
var data embed.FS

// Registry provides county lookups and the GeoJSON used by the choropleth.
type Registry struct {
	counties []County
	byFIPS   map[string]County
	mapping  json.RawMessage
}

// Load builds a registry from the embedded data files.
func Load() (*Registry, error) {
	raw, err := data.ReadFile("data/texas_counties.json")
	if err != nil {
		return nil, fmt.Errorf("read county data: %w", err)
	}
	var list []County
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("parse county data: %w", err)
	}
	mapping, err := data.ReadFile("data/texas_mapping.json")
	if err != nil {
		return nil, fmt.Errorf("read county mapping: %w", err)
	}
	byFIPS := make(map[string]County, len(list))
	for _, c := range list {
		byFIPS[c.FIPS] = c
	}
	return &Registry{counties: list, byFIPS: byFIPS, mapping: mapping}, nil
}

// All returns every county sorted by name.
func (r *Registry) All() []County {
	out := make([]County, len(r.counties))
	copy(out, r.counties)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Get looks up a county by FIPS code.
func (r *Registry) Get(fips string) (County, bool) {
	c, ok := r.byFIPS[fips]
	return c, ok
}

// ValidFIPS reports whether fips is a plausible Texas county code. The
// embedded registry only carries the largest counties, so codes outside
// it are still accepted as long as they have the 48xxx shape. Texas
// county codes are odd numbered, 48001 through 48507.
func ValidFIPS(fips string) bool {
	if len(fips) != 5 || fips[:2] != "48" {
		return false
	}
	n := 0
	for _, r := range fips[2:] {
		if r < '0' || r > '9' {
			return false
		}
		n = n*10 + int(r-'0')
	}
	return n >= 1 && n <= 507 && n%2 == 1
}

// NameByFIPS resolves a county name, with a placeholder for unknown codes.
func (r *Registry) NameByFIPS(fips string) string {
	if c, ok := r.byFIPS[fips]; ok {
		return c.Name
	}
	return fmt.Sprintf("County %s", fips)
}

// Options returns dropdown options for county selection.
func (r *Registry) Options() []Option {
	all := r.All()
	opts := make([]Option, 0, len(all))
	for _, c := range all {
		opts = append(opts, Option{Label: c.Name, Value: c.FIPS})
	}
	return opts
}

// GeoJSON returns the raw FeatureCollection describing county boundaries.
func (r *Registry) GeoJSON() json.RawMessage {
	return r.mapping
}
