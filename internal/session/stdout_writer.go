// Writer implementation printing day outputs to STDOUT
package session

import (
	"encoding/json"
	"fmt"

	"pet-dash/internal/petapi"
)

// StdoutWriter prints day outputs to STDOUT as JSON lines.
type StdoutWriter struct{}

// WriteDay outputs a single day snapshot.
func (w *StdoutWriter) WriteDay(d petapi.DayOutput) error {
	data, _ := json.Marshal(d)
	fmt.Println(string(data))
	return nil
}

// WriteDays outputs multiple day snapshots.
func (w *StdoutWriter) WriteDays(days []petapi.DayOutput) error {
	for _, d := range days {
		_ = w.WriteDay(d)
	}
	return nil
}
