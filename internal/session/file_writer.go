package session

import (
	"encoding/json"
	"os"

	"pet-dash/internal/petapi"
)

// FileWriter exports day outputs to a JSONL file for later replay.
type FileWriter struct {
	file *os.File
	enc  *json.Encoder
}

// NewFileWriter creates a FileWriter, truncating any existing file at path.
func NewFileWriter(path string) (*FileWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	return &FileWriter{file: f, enc: json.NewEncoder(f)}, nil
}

// WriteDay logs a single day snapshot.
func (f *FileWriter) WriteDay(d petapi.DayOutput) error {
	return f.enc.Encode(d)
}

// WriteDays logs multiple day snapshots.
func (f *FileWriter) WriteDays(days []petapi.DayOutput) error {
	for _, d := range days {
		if err := f.WriteDay(d); err != nil {
			return err
		}
	}
	return nil
}

// Close flushes and closes the underlying file.
func (f *FileWriter) Close() error {
	return f.file.Close()
}
