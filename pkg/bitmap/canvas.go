package bitmap

import (
	"github.com/pkg/errors"
)

const (
	DefaultWidth  = 300
	DefaultHeight = 512
)

var ErrSizeMismatch = errors.New("image size does not match canvas")

// Canvas describes the monochrome grid of the display.
type Canvas struct {
	Width  int
	Height int
	// Columns is the number of characters of each row code sent per upload.
	Columns int
}

func DefaultCanvas() Canvas {
	return Canvas{
		Width:   DefaultWidth,
		Height:  DefaultHeight,
		Columns: DefaultWidth,
	}
}

// RowBytes is the number of bytes a packed row occupies. There is always at
// least one byte beyond the whole bytes of the row.
func (c Canvas) RowBytes() int {
	return RowBytes(c.Width)
}

func (c Canvas) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return errors.Errorf("invalid canvas size %dx%d", c.Width, c.Height)
	}
	if c.Columns <= 0 {
		return errors.Errorf("invalid columns %d", c.Columns)
	}
	return nil
}

func RowBytes(width int) int {
	return width/8 + 1
}
