package source

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"image/gif"
	_ "image/jpeg"
	_ "image/png"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// Source is a decoded image file, one frame for still images and every
// composited frame for animations.
type Source struct {
	Name   string
	Format string
	Frames []image.Image
}

func (s *Source) Animated() bool {
	return len(s.Frames) > 1
}

func (s *Source) Size() image.Point {
	return s.Frames[0].Bounds().Size()
}

func NewLoader(fs afero.Fs, dl *Downloader, logger *zap.Logger) *Loader {
	return &Loader{fs: fs, dl: dl, log: logger}
}

// Loader opens images from a filesystem, or over http when the name is an
// http(s) URL.
type Loader struct {
	fs  afero.Fs
	dl  *Downloader
	log *zap.Logger
}

func (l *Loader) Open(name string) (*Source, error) {
	var bs []byte
	var err error

	if isURL(name) {
		bs, err = l.dl.Get(name)
	} else {
		bs, err = afero.ReadFile(l.fs, name)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", name)
	}

	src, err := Decode(bs)
	if err != nil {
		return nil, errors.Wrapf(err, "decode %s", name)
	}
	src.Name = name

	l.log.With(
		zap.String("file", name),
		zap.String("format", src.Format),
		zap.Int("frames", len(src.Frames)),
		zap.Int("w", src.Size().X),
		zap.Int("h", src.Size().Y),
	).Info("image loaded")

	return src, nil
}

func isURL(name string) bool {
	return strings.HasPrefix(name, "http://") || strings.HasPrefix(name, "https://")
}

func Decode(bs []byte) (*Source, error) {
	_, format, err := image.DecodeConfig(bytes.NewReader(bs))
	if err != nil {
		return nil, err
	}

	if format == "gif" {
		g, err := gif.DecodeAll(bytes.NewReader(bs))
		if err != nil {
			return nil, err
		}
		return &Source{Format: format, Frames: composite(g)}, nil
	}

	img, err := imaging.Decode(bytes.NewReader(bs), imaging.AutoOrientation(true))
	if err != nil {
		return nil, err
	}

	return &Source{Format: format, Frames: []image.Image{img}}, nil
}

// composite renders every GIF frame over the frames before it, following the
// disposal method of each frame.
func composite(g *gif.GIF) []image.Image {
	r := image.Rect(0, 0, g.Config.Width, g.Config.Height)
	if r.Empty() {
		r = g.Image[0].Bounds()
	}

	screen := imaging.New(r.Dx(), r.Dy(), color.Transparent)
	frames := make([]image.Image, 0, len(g.Image))

	for i, frame := range g.Image {
		var disposal byte
		if i < len(g.Disposal) {
			disposal = g.Disposal[i]
		}

		var previous *image.NRGBA
		if disposal == gif.DisposalPrevious {
			previous = imaging.Clone(screen)
		}

		draw.Draw(screen, frame.Bounds(), frame, frame.Bounds().Min, draw.Over)
		frames = append(frames, imaging.Clone(screen))

		switch disposal {
		case gif.DisposalBackground:
			draw.Draw(screen, frame.Bounds(), image.Transparent, image.Point{}, draw.Src)
		case gif.DisposalPrevious:
			screen = previous
		}
	}

	return frames
}
