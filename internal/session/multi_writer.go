package session

import "pet-dash/internal/petapi"

// MultiWriter fans day outputs out to several writers. The first error
// aborts the write.
type MultiWriter struct {
	writers []OutputWriter
}

// NewMultiWriter combines writers into one.
func NewMultiWriter(writers ...OutputWriter) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// WriteDay forwards a day snapshot to every writer.
func (m *MultiWriter) WriteDay(d petapi.DayOutput) error {
	for _, w := range m.writers {
		if err := w.WriteDay(d); err != nil {
			return err
		}
	}
	return nil
}

// WriteDays forwards a batch, using batch mode where a writer supports it.
func (m *MultiWriter) WriteDays(days []petapi.DayOutput) error {
	for _, w := range m.writers {
		if bw, ok := w.(batchOutputWriter); ok {
			if err := bw.WriteDays(days); err != nil {
				return err
			}
			continue
		}
		for _, d := range days {
			if err := w.WriteDay(d); err != nil {
				return err
			}
		}
	}
	return nil
}
