package port

import "time"

type Sink interface {
	// Snapshot block: a timestamped table of latest prices
	WriteSnapshot(ts time.Time, lines []string) error
	// Normal newline (for logs)
	NewLine() error
}
