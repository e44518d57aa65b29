package proto

import (
	"context"
	"io"
	"time"
)

// Control drives a bitmap display.
type Control interface {
	// Realign re-synchronizes the row framing of the display firmware.
	Realign(ctx context.Context) error
	// Upload sends one frame of row codes.
	Upload(rows []string) error
	// Drain returns the bytes the display has sent back so far, without blocking.
	Drain() ([]byte, error)
	Close() error
}

// Port is the byte link between host and display.
type Port interface {
	io.ReadWriteCloser

	// Flush blocks until written data has been transmitted.
	Flush() error
	// ResetInputBuffer discards received data not yet read.
	ResetInputBuffer() error
	// SetReadTimeout bounds how long Read waits for data, zero makes it
	// return at once.
	SetReadTimeout(t time.Duration) error
}
