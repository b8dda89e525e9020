package session

import (
	"errors"
	"testing"

	"pet-dash/internal/petapi"
)

type failingWriter struct{ err error }

func (w *failingWriter) WriteDay(petapi.DayOutput) error { return w.err }

func TestMultiWriter_FansOut(t *testing.T) {
	a := &MockWriter{}
	b := &MockWriter{}
	mw := NewMultiWriter(a, b)

	if err := mw.WriteDay(petapi.DayOutput{Day: 1}); err != nil {
		t.Fatalf("WriteDay failed: %v", err)
	}
	if a.Len() != 1 || b.Len() != 1 {
		t.Errorf("expected both writers to receive the day, got %d/%d", a.Len(), b.Len())
	}
}

func TestMultiWriter_PropagatesError(t *testing.T) {
	boom := errors.New("boom")
	mw := NewMultiWriter(&failingWriter{err: boom}, &MockWriter{})
	if err := mw.WriteDay(petapi.DayOutput{}); !errors.Is(err, boom) {
		t.Errorf("expected boom, got %v", err)
	}
}

func TestMultiWriter_BatchUsesBatchMode(t *testing.T) {
	a := &MockWriter{} // no batch support
	mw := NewMultiWriter(a)
	if err := mw.WriteDays(makeDays(2)); err != nil {
		t.Fatalf("WriteDays failed: %v", err)
	}
	if a.Len() != 2 {
		t.Errorf("expected 2 days, got %d", a.Len())
	}
}
