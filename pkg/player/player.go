package player

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"uartscreen/pkg/proto"
)

const DefaultDelay = 10 * time.Millisecond

func New(dev proto.Control, logger *zap.Logger, opts ...Option) *Player {
	p := &Player{
		dev:     dev,
		logger:  logger,
		delay:   DefaultDelay,
		realign: true,
		now:     time.Now,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Player uploads frames to a display, looping animations until the context
// is cancelled.
type Player struct {
	dev     proto.Control
	logger  *zap.Logger
	delay   time.Duration
	realign bool
	loops   int
	now     func() time.Time
}

// Show uploads a single frame.
func (p *Player) Show(ctx context.Context, rows []string) error {
	if err := p.prepare(ctx); err != nil {
		return err
	}

	if err := p.dev.Upload(rows); err != nil {
		return errors.Wrap(err, "upload frame")
	}

	p.logger.With(zap.Int("rows", len(rows))).Info("sent all")
	return nil
}

// Play uploads frames in order, sleeping the delay after each one. After
// every pass it logs the achieved frame rate and whatever the display sent
// back. It returns the context error once cancelled, or nil after the
// configured number of loops.
func (p *Player) Play(ctx context.Context, frames [][]string) error {
	if len(frames) == 0 {
		return errors.New("no frames to play")
	}

	if err := p.prepare(ctx); err != nil {
		return err
	}

	p.logger.With(zap.Int("frames", len(frames)), zap.Duration("delay", p.delay)).Info("animation")

	var fps float64
	for pass := 1; ; pass++ {
		start := p.now()
		for i, rows := range frames {
			if err := p.dev.Upload(rows); err != nil {
				return errors.Wrapf(err, "upload frame %d", i)
			}
			if err := sleep(ctx, p.delay); err != nil {
				return err
			}
			p.logger.With(zap.Int("frame", i), zap.String("fps", formatFPS(fps))).Info("frame")
		}

		fps = FPS(len(frames), p.now().Sub(start))
		p.logger.With(zap.Int("pass", pass), zap.String("fps", formatFPS(fps))).Info("pass done")

		if err := p.drain(); err != nil {
			return err
		}

		if p.loops > 0 && pass >= p.loops {
			return nil
		}
	}
}

func (p *Player) prepare(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !p.realign {
		return nil
	}
	if err := p.dev.Realign(ctx); err != nil {
		return errors.Wrap(err, "realign")
	}
	return nil
}

func (p *Player) drain() error {
	data, err := p.dev.Drain()
	if err != nil {
		return errors.Wrap(err, "drain")
	}
	if len(data) > 0 {
		p.logger.With(zap.ByteString("data", data)).Info(">>")
	}
	return nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
