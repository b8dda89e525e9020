package session

import (
	"fmt"
	"os"
	"strings"
	"sync/atomic"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
	"golang.org/x/term"

	"pet-dash/internal/counties"
	"pet-dash/internal/petapi"
	"pet-dash/internal/viz"
)

// teaProgram abstracts bubbletea.Program for testing.
type teaProgram interface {
	Send(tea.Msg)
}

// dayMsg carries one received day output.
type dayMsg struct{ petapi.DayOutput }

// logMsg carries a log line for the viewport.
type logMsg struct{ line string }

// statusMsg carries a session snapshot update.
type statusMsg struct{ Snapshot }

const (
	colorReset  = "\x1b[0m"
	colorGray   = "\x1b[90m"
	colorRed    = "\x1b[31m"
	colorGreen  = "\x1b[32m"
	colorYellow = "\x1b[33m"
	colorBlue   = "\x1b[34m"
	colorCyan   = "\x1b[36m"
)

var sparkRunes = []rune("▁▂▃▄▅▆▇█")

// TUIWriter renders day outputs in a terminal dashboard.
type TUIWriter struct {
	program    teaProgram
	done       chan struct{}
	sendSignal atomic.Bool
}

// NewTUIWriter starts a bubbletea program and returns a TUIWriter.
func NewTUIWriter(reg *counties.Registry) *TUIWriter {
	w := &TUIWriter{done: make(chan struct{})}
	w.sendSignal.Store(true)
	m := newTUIModel(reg)
	p := tea.NewProgram(m, tea.WithAltScreen())
	w.program = p
	go func() {
		_ = p.Start()
		close(w.done)
		if w.sendSignal.Load() {
			if proc, err := os.FindProcess(os.Getpid()); err == nil {
				_ = proc.Signal(os.Interrupt)
			}
		}
	}()
	return w
}

// WriteDay implements OutputWriter.
func (w *TUIWriter) WriteDay(d petapi.DayOutput) error {
	line := fmt.Sprintf("%sday=%d%s %ssus=%.0f%s %sexp=%.0f%s %sasym=%.0f%s %streat=%.0f%s %sinf=%.0f%s %srec=%.0f%s %sdec=%.0f%s",
		colorBlue, d.Day, colorReset,
		colorCyan, d.TotalSusceptible, colorReset,
		colorYellow, d.TotalExposed, colorReset,
		colorYellow, d.TotalAsymptomatic, colorReset,
		colorCyan, d.TotalTreatable, colorReset,
		colorRed, d.TotalInfected, colorReset,
		colorGreen, d.TotalRecovered, colorReset,
		colorGray, d.TotalDeceased, colorReset,
	)
	w.program.Send(logMsg{line: line})
	w.program.Send(dayMsg{d})
	return nil
}

// WriteDays outputs multiple day snapshots.
func (w *TUIWriter) WriteDays(days []petapi.DayOutput) error {
	for _, d := range days {
		_ = w.WriteDay(d)
	}
	return nil
}

// WriteStatus updates the session status line.
func (w *TUIWriter) WriteStatus(s Snapshot) {
	w.program.Send(statusMsg{s})
}

// Close shuts down the TUI program and waits for cleanup.
func (w *TUIWriter) Close() error {
	w.sendSignal.Store(false)
	if w.program != nil {
		w.program.Send(tea.Quit())
	}
	if w.done != nil {
		<-w.done
	}
	return nil
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	failStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	sparkStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

type tuiModel struct {
	reg        *counties.Registry
	table      table.Model
	vp         viewport.Model
	logs       []string
	history    []petapi.DayOutput
	snap       Snapshot
	view       string
	wrap       bool
	autoscroll bool
	width      int
	height     int
}

func newTUIModel(reg *counties.Registry) tuiModel {
	cols := []table.Column{
		{Title: "County", Width: 22},
		{Title: "FIPS", Width: 7},
		{Title: "Infected", Width: 12},
		{Title: "Deceased", Width: 12},
	}
	t := table.New(table.WithColumns(cols), table.WithHeight(8))
	vp := viewport.New(0, 0)
	width := 100
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		width = w
	}
	return tuiModel{
		reg:        reg,
		table:      t,
		vp:         vp,
		view:       viz.ViewPercent,
		autoscroll: true,
		width:      width,
	}
}

func (m tuiModel) Init() tea.Cmd { return nil }

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.vp.Width = msg.Width
		m.table.SetWidth(msg.Width)
		m.resize()
		m.refreshViewport()
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "v":
			if m.view == viz.ViewPercent {
				m.view = viz.ViewCount
			} else {
				m.view = viz.ViewPercent
			}
			m.refreshTable()
		case "w":
			m.wrap = !m.wrap
			m.refreshViewport()
		case "s":
			m.autoscroll = !m.autoscroll
			if m.autoscroll {
				m.vp.GotoBottom()
			}
		}
	case dayMsg:
		m.history = append(m.history, msg.DayOutput)
		m.refreshTable()
	case logMsg:
		m.logs = append(m.logs, msg.line)
		m.refreshViewport()
	case statusMsg:
		m.snap = msg.Snapshot
	}
	return m, nil
}

func (m *tuiModel) resize() {
	headerHeight := lipgloss.Height(m.renderHeader())
	tableHeight := m.table.Height() + 2
	vpHeight := m.height - headerHeight - tableHeight - 1
	if vpHeight < 3 {
		vpHeight = 3
	}
	m.vp.Height = vpHeight
}

func (m *tuiModel) refreshTable() {
	if len(m.history) == 0 {
		return
	}
	rows := viz.Table(m.history, len(m.history)-1, m.view, "infected", "desc", m.reg)
	tr := make([]table.Row, 0, len(rows))
	for _, r := range rows {
		tr = append(tr, table.Row{r.County, r.FIPS, r.Infected, r.Deceased})
	}
	m.table.SetRows(tr)
}

func (m *tuiModel) refreshViewport() {
	lines := m.logs
	if m.wrap && m.vp.Width > 0 {
		wrapped := make([]string, 0, len(lines))
		for _, l := range lines {
			wrapped = append(wrapped, wordwrap.String(l, m.vp.Width))
		}
		lines = wrapped
	}
	m.vp.SetContent(strings.Join(lines, "\n"))
	if m.autoscroll {
		m.vp.GotoBottom()
	}
}

// sparkline renders infected totals as a block-rune strip.
func (m *tuiModel) sparkline(width int) string {
	if len(m.history) == 0 || width <= 0 {
		return ""
	}
	vals := m.history
	if len(vals) > width {
		vals = vals[len(vals)-width:]
	}
	max := 0.0
	for _, d := range vals {
		if d.TotalInfected > max {
			max = d.TotalInfected
		}
	}
	if max == 0 {
		max = 1
	}
	var b strings.Builder
	for _, d := range vals {
		idx := int(d.TotalInfected / max * float64(len(sparkRunes)-1))
		b.WriteRune(sparkRunes[idx])
	}
	return b.String()
}

func (m *tuiModel) renderHeader() string {
	status := string(m.snap.Status)
	if status == "" {
		status = string(StatusIdle)
	}
	style := statusStyle
	if m.snap.Status == StatusFailed {
		style = failStyle
	}
	title := titleStyle.Render("Pandemic Exercise Tool")
	line := fmt.Sprintf("%s  %s  days=%d  view=%s", title, style.Render(status), len(m.history), m.view)
	if m.snap.DiseaseName != "" {
		line += "  disease=" + m.snap.DiseaseName
	}
	spark := sparkStyle.Render(m.sparkline(m.width - 2))
	help := helpStyle.Render("q quit · v view · w wrap · s scroll")
	return strings.Join([]string{line, spark, help}, "\n")
}

func (m tuiModel) View() string {
	return m.renderHeader() + "\n" + m.table.View() + "\n" + m.vp.View()
}
