package session

import (
	"encoding/json"
	"io"
	"os"
	"time"

	"pet-dash/internal/petapi"
)

// ReplayLog replays day outputs from r to writer, pausing delay between
// days. A delay <= 0 replays as fast as the writer accepts.
func ReplayLog(r io.Reader, writer OutputWriter, delay time.Duration) error {
	dec := json.NewDecoder(r)
	first := true
	for {
		var d petapi.DayOutput
		if err := dec.Decode(&d); err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
		if !first && delay > 0 {
			time.Sleep(delay)
		}
		if err := writer.WriteDay(d); err != nil {
			return err
		}
		first = false
	}
}

// ReplayLogFile opens a JSONL export and replays its day outputs.
func ReplayLogFile(path string, writer OutputWriter, delay time.Duration) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return ReplayLog(f, writer, delay)
}
