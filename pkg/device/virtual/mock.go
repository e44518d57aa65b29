package virtual

import (
	"bytes"
	"context"
	"fmt"
	"image/png"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/xid"
	"github.com/spf13/afero"
	"go.uber.org/zap"

	"uartscreen/pkg/bitmap"
	"uartscreen/pkg/proto"
)

// New returns a display that dumps every upload packet, and a PNG preview
// decoded back from it, into a fresh session folder of fs.
func New(fs afero.Fs, logger *zap.Logger, canvas bitmap.Canvas) (proto.Control, error) {
	return newDumper(fs, logger, canvas)
}

func newDumper(fs afero.Fs, logger *zap.Logger, canvas bitmap.Canvas) (*Dumper, error) {
	if err := canvas.Validate(); err != nil {
		return nil, err
	}

	session := xid.New().String()
	if err := fs.MkdirAll(session, 0755); err != nil {
		return nil, errors.Wrap(err, "create dump session")
	}

	logger.With(zap.String("session", session)).Info("dumping uploads")

	return &Dumper{
		fs:      fs,
		l:       logger.With(zap.String("session", session)),
		canvas:  canvas,
		session: session,
	}, nil
}

type Dumper struct {
	fs      afero.Fs
	l       *zap.Logger
	canvas  bitmap.Canvas
	session string
	seq     int
}

func (d *Dumper) Session() string {
	return d.session
}

func (d *Dumper) Realign(_ context.Context) error {
	d.l.Info("realign")
	return nil
}

func (d *Dumper) Upload(rows []string) error {
	packet := bitmap.BuildPacket(rows, d.canvas.Height, d.canvas.Columns)
	name := fmt.Sprintf("%s/%06d", d.session, d.seq)
	d.seq++

	if err := afero.WriteFile(d.fs, name+".txt", packet, 0644); err != nil {
		return errors.Wrap(err, "write packet")
	}

	preview, err := d.preview(packet)
	if err != nil {
		return err
	}

	if err := afero.WriteFile(d.fs, name+".png", preview, 0644); err != nil {
		return errors.Wrap(err, "write preview")
	}

	d.l.With(zap.String("file", name), zap.Int("bytes", len(packet))).Debug("upload")
	return nil
}

// preview renders what the firmware would display for packet.
func (d *Dumper) preview(packet []byte) ([]byte, error) {
	rows, err := bitmap.ParsePacket(packet)
	if err != nil {
		return nil, err
	}

	// rows cut to the column count are completed with unset pixels
	full := 2 * d.canvas.RowBytes()
	for i, row := range rows {
		if len(row) < full {
			rows[i] = row + strings.Repeat("0", full-len(row))
		}
	}

	m, err := bitmap.Decode(rows, d.canvas.Width)
	if err != nil {
		return nil, errors.Wrap(err, "decode packet")
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, m); err != nil {
		return nil, errors.Wrap(err, "encode preview")
	}

	return buf.Bytes(), nil
}

func (d *Dumper) Drain() ([]byte, error) {
	return nil, nil
}

func (d *Dumper) Close() error {
	d.l.With(zap.Int("uploads", d.seq)).Info("close")
	return nil
}
