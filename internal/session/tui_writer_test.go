package session

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"pet-dash/internal/counties"
	"pet-dash/internal/petapi"
)

type fakeProgram struct{ msgs []tea.Msg }

func (f *fakeProgram) Send(msg tea.Msg) { f.msgs = append(f.msgs, msg) }

func TestTUIWriterMessages(t *testing.T) {
	p := &fakeProgram{}
	w := &TUIWriter{program: p}
	d := petapi.DayOutput{Day: 1, TotalInfected: 500}
	if err := w.WriteDay(d); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, ok := p.msgs[0].(logMsg); !ok {
		t.Fatalf("expected logMsg, got %T", p.msgs[0])
	}
	if dm, ok := p.msgs[1].(dayMsg); !ok || dm.Day != 1 {
		t.Fatalf("expected dayMsg for day 1, got %T", p.msgs[1])
	}
	w.WriteStatus(Snapshot{Status: StatusRunning})
	if _, ok := p.msgs[2].(statusMsg); !ok {
		t.Fatalf("expected statusMsg, got %T", p.msgs[2])
	}
}

func TestTUIModel_TracksDaysAndView(t *testing.T) {
	reg, err := counties.Load()
	if err != nil {
		t.Fatal(err)
	}
	m := newTUIModel(reg)
	mi, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 30})
	m = mi.(tuiModel)

	d := petapi.DayOutput{
		Day:           0,
		TotalInfected: 100,
		Counties: []petapi.CountyDay{
			{FIPS: "48201", Infected: 80, InfectedPercent: 0.2},
		},
	}
	mi, _ = m.Update(dayMsg{d})
	m = mi.(tuiModel)
	if len(m.history) != 1 {
		t.Fatalf("expected 1 day in history, got %d", len(m.history))
	}
	if len(m.table.Rows()) != 1 {
		t.Fatalf("expected 1 table row, got %d", len(m.table.Rows()))
	}

	if m.view != "percent" {
		t.Fatalf("default view should be percent, got %s", m.view)
	}
	mi, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'v'}})
	m = mi.(tuiModel)
	if m.view != "count" {
		t.Errorf("v should toggle to count view, got %s", m.view)
	}
}

func TestSparkline_ScalesToMax(t *testing.T) {
	reg, err := counties.Load()
	if err != nil {
		t.Fatal(err)
	}
	m := newTUIModel(reg)
	m.history = makeDays(4) // infected 100..400
	s := m.sparkline(10)
	runes := []rune(s)
	if len(runes) != 4 {
		t.Fatalf("expected 4 spark runes, got %d", len(runes))
	}
	if runes[3] != sparkRunes[len(sparkRunes)-1] {
		t.Errorf("max value should render the tallest rune, got %q", string(runes[3]))
	}
}
