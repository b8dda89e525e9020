package dashboard

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"html/template"
	"net/http"
	"strconv"

	"pet-dash/internal/counties"
	"pet-dash/internal/petapi"
	"pet-dash/internal/scenario"
	"pet-dash/internal/session"
	"pet-dash/internal/viz"
)

//go:embed templates/index.html
var content embed.FS

// Server is the browser frontend: one embedded page plus JSON endpoints
// the page polls while a simulation runs.
type Server struct {
	Mgr     *session.Manager
	reg     *counties.Registry
	catalog *scenario.Catalog
	tpl     *template.Template
	mux     *http.ServeMux
}

// NewServer wires handlers for the dashboard.
func NewServer(mgr *session.Manager, reg *counties.Registry, catalog *scenario.Catalog) *Server {
	tpl := template.Must(template.New("index.html").ParseFS(content, "templates/index.html"))
	s := &Server{Mgr: mgr, reg: reg, catalog: catalog, tpl: tpl, mux: http.NewServeMux()}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("/", s.handleIndex)
	s.mux.HandleFunc("/api/state", s.handleState)
	s.mux.HandleFunc("/api/simulate", s.handleSimulate)
	s.mux.HandleFunc("/api/stop", s.handleStop)
	s.mux.HandleFunc("/api/reset", s.handleReset)
	s.mux.HandleFunc("/api/chart", s.handleChart)
	s.mux.HandleFunc("/api/map", s.handleMap)
	s.mux.HandleFunc("/api/table", s.handleTable)
	s.mux.HandleFunc("/api/counties", s.handleCounties)
	s.mux.HandleFunc("/api/presets", s.handlePresets)
}

// Handler exposes the route table for tests and embedding.
func (s *Server) Handler() http.Handler { return s.mux }

// Start serves until ctx is cancelled.
func (s *Server) Start(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.mux}
	go func() {
		<-ctx.Done()
		srv.Shutdown(context.Background())
	}()
	return srv.ListenAndServe()
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	data := struct {
		Presets  []scenario.Preset
		Counties []counties.Option
		State    session.Snapshot
	}{
		Presets:  s.catalog.Presets,
		Counties: s.reg.Options(),
		State:    s.Mgr.State(),
	}
	var buf bytes.Buffer
	if err := s.tpl.Execute(&buf, data); err != nil {
		http.Error(w, "render: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	buf.WriteTo(w)
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.Mgr.State())
}

// simulateRequest is the form payload posted by the page. A run is built
// from a named preset, from explicit parameters, or from a preset with
// individual fields overridden.
type simulateRequest struct {
	Preset       string          `json:"preset"`
	Parameters   *simulateParams `json:"parameters"`
	InitialCases []struct {
		FIPS     string `json:"fips"`
		Cases    int    `json:"cases"`
		AgeGroup string `json:"age_group"`
	} `json:"initial_cases"`
	NPIs []struct {
		Name          string  `json:"name"`
		Location      string  `json:"location"`
		Effectiveness float64 `json:"effectiveness"`
		StartDay      int     `json:"start_day"`
		Duration      int     `json:"duration"`
	} `json:"npis"`
}

// simulateParams carries user-entered epidemiological and intervention
// values. Every field is optional; nil fields keep the preset value.
type simulateParams struct {
	DiseaseName *string   `json:"disease_name"`
	R0          *float64  `json:"r0"`
	BetaScale   *float64  `json:"beta_scale"`
	Tau         *float64  `json:"tau"`
	Kappa       *float64  `json:"kappa"`
	Gamma       *float64  `json:"gamma"`
	Chi         *float64  `json:"chi"`
	Rho         *float64  `json:"rho"`
	Nu          []float64 `json:"nu"`

	VaccineEffectiveness   *float64 `json:"vaccine_effectiveness"`
	VaccineAdherence       *float64 `json:"vaccine_adherence"`
	VaccineStockpile       *int     `json:"vaccine_stockpile"`
	VaccineWastageFactor   *float64 `json:"vaccine_wastage_factor"`
	VaccineProRata         *string  `json:"vaccine_pro_rata"`
	AntiviralEffectiveness *float64 `json:"antiviral_effectiveness"`
	AntiviralStockpile     *int     `json:"antiviral_stockpile"`
	AntiviralWastage       *float64 `json:"antiviral_wastage_factor"`
}

func (p *simulateParams) apply(sp *petapi.ScenarioParameters) {
	if p.DiseaseName != nil {
		sp.DiseaseName = *p.DiseaseName
	}
	if p.R0 != nil {
		sp.R0 = *p.R0
	}
	if p.BetaScale != nil {
		sp.BetaScale = *p.BetaScale
	}
	if p.Tau != nil {
		sp.Tau = *p.Tau
	}
	if p.Kappa != nil {
		sp.Kappa = *p.Kappa
	}
	if p.Gamma != nil {
		sp.Gamma = *p.Gamma
	}
	if p.Chi != nil {
		sp.Chi = *p.Chi
	}
	if p.Rho != nil {
		sp.Rho = *p.Rho
	}
	if len(p.Nu) > 0 {
		sp.Nu = p.Nu
	}
	if p.VaccineEffectiveness != nil {
		sp.VaccineEffectiveness = *p.VaccineEffectiveness
	}
	if p.VaccineAdherence != nil {
		sp.VaccineAdherence = *p.VaccineAdherence
	}
	if p.VaccineStockpile != nil {
		sp.VaccineStockpile = *p.VaccineStockpile
	}
	if p.VaccineWastageFactor != nil {
		sp.VaccineWastageFactor = *p.VaccineWastageFactor
	}
	if p.VaccineProRata != nil {
		sp.VaccineProRata = *p.VaccineProRata
	}
	if p.AntiviralEffectiveness != nil {
		sp.AntiviralEffectiveness = *p.AntiviralEffectiveness
	}
	if p.AntiviralStockpile != nil {
		sp.AntiviralStockpile = *p.AntiviralStockpile
	}
	if p.AntiviralWastage != nil {
		sp.AntiviralWastage = *p.AntiviralWastage
	}
}

func (s *Server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "POST required", http.StatusMethodNotAllowed)
		return
	}
	var req simulateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	preset := scenario.Preset{Key: "custom", Name: "Custom"}
	if req.Preset != "" {
		var ok bool
		preset, ok = s.catalog.Get(req.Preset)
		if !ok {
			http.Error(w, "unknown preset: "+req.Preset, http.StatusBadRequest)
			return
		}
	} else if req.Parameters == nil {
		http.Error(w, "preset or parameters required", http.StatusBadRequest)
		return
	}
	if len(req.InitialCases) == 0 {
		http.Error(w, "at least one initial case location is required", http.StatusBadRequest)
		return
	}

	initial := make([]petapi.InitialInfection, 0, len(req.InitialCases))
	for _, c := range req.InitialCases {
		if _, ok := s.reg.Get(c.FIPS); !ok && !counties.ValidFIPS(c.FIPS) {
			http.Error(w, "unknown county FIPS: "+c.FIPS, http.StatusBadRequest)
			return
		}
		cases := c.Cases
		if cases <= 0 {
			cases = 1
		}
		initial = append(initial, petapi.InitialInfection{
			FIPS:     c.FIPS,
			Cases:    cases,
			AgeGroup: scenario.AgeGroupIndex(c.AgeGroup),
		})
	}

	var npis []petapi.NPI
	for _, n := range req.NPIs {
		npi := petapi.NPI{
			Name:          n.Name,
			Location:      n.Location,
			Effectiveness: n.Effectiveness,
			StartDay:      n.StartDay,
			Duration:      n.Duration,
		}
		if npi.Effectiveness <= 0 {
			npi.Effectiveness = scenario.DefaultNPIEffectiveness
		}
		if npi.StartDay <= 0 {
			npi.StartDay = scenario.DefaultNPIStartDay
		}
		if npi.Duration <= 0 {
			npi.Duration = scenario.DefaultNPIDurationDays
		}
		npis = append(npis, npi)
	}

	params := preset.Parameters(initial, npis)
	if req.Parameters != nil {
		req.Parameters.apply(&params)
	}
	if params.R0 <= 0 {
		http.Error(w, "r0 must be positive", http.StatusBadRequest)
		return
	}

	id, err := s.Mgr.Start(params)
	if err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]string{"session_id": id})
}

func (s *Server) handleStop(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "POST required", http.StatusMethodNotAllowed)
		return
	}
	if err := s.Mgr.Stop(); err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	writeJSON(w, map[string]string{"result": "stopped"})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "POST required", http.StatusMethodNotAllowed)
		return
	}
	if err := s.Mgr.Reset(r.Context()); err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	writeJSON(w, map[string]string{"result": "reset"})
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	history := s.Mgr.History()
	var npis []petapi.NPI
	if cur := s.Mgr.Current(); cur != nil {
		npis = cur.Params().NPIs
	}
	writeJSON(w, viz.Chart(history, npis))
}

func (s *Server) handleMap(w http.ResponseWriter, r *http.Request) {
	history := s.Mgr.History()
	writeJSON(w, viz.Map(history, dayIndex(r, len(history)), viewType(r), s.reg))
}

func (s *Server) handleTable(w http.ResponseWriter, r *http.Request) {
	history := s.Mgr.History()
	sortBy := r.URL.Query().Get("sort")
	if sortBy == "" {
		sortBy = "county"
	}
	order := r.URL.Query().Get("order")
	rows := viz.Table(history, dayIndex(r, len(history)), viewType(r), sortBy, order, s.reg)
	if rows == nil {
		rows = []viz.TableRow{}
	}
	writeJSON(w, rows)
}

func (s *Server) handleCounties(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.reg.Options())
}

func (s *Server) handlePresets(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.catalog.Presets)
}

// dayIndex parses the day query parameter, defaulting to the latest day.
func dayIndex(r *http.Request, historyLen int) int {
	if v := r.URL.Query().Get("day"); v != "" {
		if idx, err := strconv.Atoi(v); err == nil {
			return idx
		}
	}
	return historyLen - 1
}

func viewType(r *http.Request) string {
	if r.URL.Query().Get("view") == viz.ViewCount {
		return viz.ViewCount
	}
	return viz.ViewPercent
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
