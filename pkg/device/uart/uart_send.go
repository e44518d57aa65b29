package uart

import (
	"time"

	"github.com/inhies/go-bytesize"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// pending reports whether the display has sent anything. It consumes at most
// one byte, which callers discard afterwards.
func (d *Display) pending() (bool, error) {
	var b [1]byte
	n, err := d.port.Read(b[:])
	if err != nil {
		return false, errors.Wrap(err, "poll serial")
	}
	return n > 0, nil
}

func (d *Display) write(bytes []byte) error {
	if _, err := d.port.Write(bytes); err != nil {
		return errors.Wrap(err, "write serial")
	}
	return nil
}

func (d *Display) sendBytes(bytes []byte) error {
	var sent int
	var cost time.Duration

	start := time.Now()
	if n, err := d.port.Write(bytes); err != nil {
		return errors.Wrap(err, "write serial")
	} else {
		sent = n
	}

	if err := d.port.Flush(); err != nil {
		return errors.Wrap(err, "flush serial")
	}
	cost = time.Since(start)

	ext := ""
	if len(bytes) <= 16 {
		ext = string(bytes)
	}

	d.logger.With(
		zap.Int("sent", sent),
		zap.String("size", bytesize.New(float64(sent)).String()),
		zap.String("cost", cost.String()),
		zap.String("data", ext),
	).Debug("transfer")

	return nil
}
