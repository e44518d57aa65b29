package uart

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"uartscreen/pkg/bitmap"
	"uartscreen/pkg/proto"
)

const (
	syncByte = 0xFF
	// realign attempts per canvas row
	realignFactor = 3
)

// New opens the serial link at 115200 8N1 and returns the display behind it.
func New(serial *proto.Serial, logger *zap.Logger, canvas bitmap.Canvas) (proto.Control, error) {
	if err := canvas.Validate(); err != nil {
		return nil, err
	}

	if err := serial.Open(proto.DefaultOptions()); err != nil {
		return nil, err
	}

	logger.With(
		zap.String("port", serial.Name()),
		zap.Int("baud", proto.DefaultOptions().BaudRate),
	).Info("serial opened")

	return Attach(serial, logger, canvas), nil
}

// Attach drives a display over an already open port.
func Attach(port proto.Port, logger *zap.Logger, canvas bitmap.Canvas) *Display {
	return &Display{
		port:        port,
		logger:      logger,
		canvas:      canvas,
		readTimeout: proto.DefaultOptions().ReadTimeout,
	}
}

type Display struct {
	port        proto.Port
	logger      *zap.Logger
	canvas      bitmap.Canvas
	readTimeout time.Duration
}

func (d *Display) Canvas() bitmap.Canvas {
	return d.canvas
}

// Realign writes filler rows, each ending with a sync byte, until the
// firmware answers, the attempts run out or ctx is done, then drops whatever
// it answered. Reads do not wait while probing.
func (d *Display) Realign(ctx context.Context) (err error) {
	if err := d.port.SetReadTimeout(0); err != nil {
		return errors.Wrap(err, "set poll timeout")
	}
	defer func() {
		if rerr := d.port.SetReadTimeout(d.readTimeout); rerr != nil && err == nil {
			err = errors.Wrap(rerr, "restore read timeout")
		}
	}()

	filler := make([]byte, d.canvas.RowBytes())
	filler[len(filler)-1] = syncByte

	limit := d.canvas.Height * realignFactor
	attempts := 0
	for ; attempts < limit; attempts++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		pending, err := d.pending()
		if err != nil {
			return err
		}
		if pending {
			break
		}
		if err := d.write(filler); err != nil {
			return err
		}
	}

	d.logger.With(zap.Int("attempts", attempts), zap.Int("limit", limit)).Debug("realigned")

	return d.port.ResetInputBuffer()
}

func (d *Display) Upload(rows []string) error {
	return d.sendBytes(bitmap.BuildPacket(rows, d.canvas.Height, d.canvas.Columns))
}

func (d *Display) Drain() ([]byte, error) {
	var out []byte
	buf := make([]byte, 256)
	for {
		n, err := d.port.Read(buf)
		if err != nil {
			return out, err
		}
		if n == 0 {
			return out, nil
		}
		out = append(out, buf[:n]...)
	}
}

func (d *Display) Close() error {
	return d.port.Close()
}
