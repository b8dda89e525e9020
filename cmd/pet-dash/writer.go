package main

import (
	"os"

	"pet-dash/internal/session"
)

// newWriters sets up day-output writers based on flags and env vars. It
// returns the writer and a cleanup function to close any resources.
func newWriters(printOnly bool, logFile, sessionID, disease string) (session.OutputWriter, func(), error) {
	cleanup := func() {}

	writer, err := baseWriter(printOnly, sessionID, disease)
	if err != nil {
		return nil, nil, err
	}
	if logFile == "" {
		return writer, cleanup, nil
	}

	fw, err := session.NewFileWriter(logFile)
	if err != nil {
		return nil, nil, err
	}
	cleanup = func() { fw.Close() }
	return session.NewMultiWriter(writer, fw), cleanup, nil
}

// baseWriter chooses the underlying writer based on printOnly flag and env vars.
func baseWriter(printOnly bool, sessionID, disease string) (session.OutputWriter, error) {
	if printOnly || os.Getenv("GREPTIMEDB_ENDPOINT") == "" {
		return &session.StdoutWriter{}, nil
	}
	endpoint := os.Getenv("GREPTIMEDB_ENDPOINT")
	database := os.Getenv("GREPTIMEDB_DATABASE")
	if database == "" {
		database = "public"
	}
	return session.NewGreptimeWriter(endpoint, database, sessionID, disease)
}
