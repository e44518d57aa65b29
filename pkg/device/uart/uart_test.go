package uart

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"uartscreen/pkg/bitmap"
)

type fakePort struct {
	written  bytes.Buffer
	writes   int
	flushes  int
	resets   int
	closed   bool
	incoming []byte
	timeouts []time.Duration
	onWrite  func(n int)

	// answerAfter makes the port receive a byte after that many writes
	answerAfter int
}

func (p *fakePort) Read(b []byte) (int, error) {
	if p.answerAfter > 0 && p.writes >= p.answerAfter && len(p.incoming) == 0 {
		p.incoming = []byte{'!'}
		p.answerAfter = 0
	}
	n := copy(b, p.incoming)
	p.incoming = p.incoming[n:]
	return n, nil
}

func (p *fakePort) Write(b []byte) (int, error) {
	p.writes++
	if p.onWrite != nil {
		p.onWrite(p.writes)
	}
	return p.written.Write(b)
}

func (p *fakePort) Close() error {
	p.closed = true
	return nil
}

func (p *fakePort) Flush() error {
	p.flushes++
	return nil
}

func (p *fakePort) SetReadTimeout(t time.Duration) error {
	p.timeouts = append(p.timeouts, t)
	return nil
}

func (p *fakePort) ResetInputBuffer() error {
	p.resets++
	p.incoming = nil
	return nil
}

func TestUpload(t *testing.T) {
	port := &fakePort{}
	d := Attach(port, zaptest.NewLogger(t), bitmap.Canvas{Width: 8, Height: 2, Columns: 4})

	require.NoError(t, d.Upload([]string{"ABCD1234", "EF001122", "99999999"}))
	require.Equal(t, "#ABCD+EF00+", port.written.String())
	require.Equal(t, 1, port.writes)
	require.Equal(t, 1, port.flushes)
}

func TestRealignWithoutAnswer(t *testing.T) {
	port := &fakePort{}
	canvas := bitmap.Canvas{Width: 16, Height: 4, Columns: 16}
	d := Attach(port, zaptest.NewLogger(t), canvas)

	require.NoError(t, d.Realign(context.Background()))
	require.Equal(t, 12, port.writes)
	require.Equal(t, 1, port.resets)

	filler := []byte{0x00, 0x00, 0xFF}
	require.Equal(t, bytes.Repeat(filler, 12), port.written.Bytes())

	// reads never wait while probing, the usual timeout comes back after
	require.Equal(t, []time.Duration{0, 10 * time.Millisecond}, port.timeouts)
}

func TestRealignCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	port := &fakePort{}
	port.onWrite = func(n int) {
		if n == 5 {
			cancel()
		}
	}
	d := Attach(port, zaptest.NewLogger(t), bitmap.DefaultCanvas())

	err := d.Realign(ctx)
	require.True(t, errors.Is(err, context.Canceled))
	require.Equal(t, 5, port.writes)
	require.Equal(t, 0, port.resets)
	require.Equal(t, []time.Duration{0, 10 * time.Millisecond}, port.timeouts)
}

func TestRealignAlreadyCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	port := &fakePort{}
	d := Attach(port, zaptest.NewLogger(t), bitmap.DefaultCanvas())

	require.True(t, errors.Is(d.Realign(ctx), context.Canceled))
	require.Equal(t, 0, port.writes)
}

func TestRealignStopsOnAnswer(t *testing.T) {
	port := &fakePort{answerAfter: 3}
	d := Attach(port, zaptest.NewLogger(t), bitmap.Canvas{Width: 8, Height: 10, Columns: 8})

	require.NoError(t, d.Realign(context.Background()))
	require.Equal(t, 3, port.writes)
	require.Equal(t, 1, port.resets)
	require.Empty(t, port.incoming)
}

func TestRealignPendingInput(t *testing.T) {
	port := &fakePort{incoming: []byte("ready")}
	d := Attach(port, zaptest.NewLogger(t), bitmap.DefaultCanvas())

	require.NoError(t, d.Realign(context.Background()))
	require.Equal(t, 0, port.writes)
	require.Empty(t, port.incoming)
}

func TestDrain(t *testing.T) {
	port := &fakePort{incoming: bytes.Repeat([]byte("ok\n"), 200)}
	d := Attach(port, zaptest.NewLogger(t), bitmap.DefaultCanvas())

	out, err := d.Drain()
	require.NoError(t, err)
	require.Len(t, out, 600)

	out, err = d.Drain()
	require.NoError(t, err)
	require.Empty(t, out)

	require.NoError(t, d.Close())
	require.True(t, port.closed)
}
