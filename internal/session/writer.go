package session

import "pet-dash/internal/petapi"

// OutputWriter consumes per-day SEATIRD snapshots as the poll loop
// receives them.
type OutputWriter interface {
	WriteDay(petapi.DayOutput) error
}

// Optional: writers can also support batch mode
type batchOutputWriter interface {
	WriteDays([]petapi.DayOutput) error
}
