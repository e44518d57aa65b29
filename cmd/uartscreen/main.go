package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/spf13/afero"
	flag "github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"uartscreen/pkg/bitmap"
	"uartscreen/pkg/device/remote"
	"uartscreen/pkg/device/uart"
	"uartscreen/pkg/device/virtual"
	"uartscreen/pkg/mixer"
	"uartscreen/pkg/player"
	"uartscreen/pkg/proto"
	"uartscreen/pkg/source"
)

const defaultImage = "image.png"

var width = flag.Int("width", bitmap.DefaultWidth, "canvas width in pixels")
var height = flag.Int("height", bitmap.DefaultHeight, "canvas height in pixels")
var columns = flag.Int("columns", 0, "characters of each row code sent per upload (0 = width)")
var realign = flag.Bool("realign", true, "realign the display framing before the first upload")
var fill = flag.Bool("fill", false, "crop to fill the canvas instead of stretching")
var dither = flag.Bool("dither", false, "dither instead of thresholding")
var invert = flag.Bool("invert", false, "invert the image")
var mirror = flag.Bool("mirror", false, "mirror the image horizontally")
var flip = flag.Bool("flip", false, "flip the image vertically")
var rotate = flag.Int("rotate", 0, "rotate counter-clockwise by 0, 90, 180 or 270 degrees")
var contrast = flag.Float32("contrast", 0, "contrast change in percent (-100, 100)")
var loops = flag.Int("loops", 0, "animation passes (0 = until interrupted)")
var dump = flag.String("dump", "", "write upload packets to this directory instead of a serial port")
var list = flag.Bool("list", false, "list serial ports and exit")
var debug = flag.Bool("debug", false, "set debug")

func usage() {
	fmt.Fprintf(os.Stderr, "usage: %s [flags] <port> [<image-file>] [<frame-delay-seconds>]\n\n", os.Args[0])
	flag.PrintDefaults()
}

func main() {
	flag.Usage = usage
	flag.Parse()

	logger, err := newLogger(*debug)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	if *list {
		if err := listPorts(); err != nil {
			logger.With(zap.Error(err)).Fatal("list ports failed")
		}
		return
	}

	if flag.NArg() < 1 && *dump == "" {
		usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, logger, afero.NewOsFs(), flag.Args()); err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Info("halting")
			return
		}
		logger.With(zap.Error(err)).Fatal("failed")
	}
}

type invocation struct {
	port  string
	image string
	delay time.Duration
}

func parseArgs(args []string) (*invocation, error) {
	inv := &invocation{image: defaultImage, delay: player.DefaultDelay}

	if len(args) > 3 {
		return nil, errors.Errorf("too many arguments: %s", strings.Join(args[3:], " "))
	}
	if len(args) >= 1 {
		inv.port = args[0]
	}
	if len(args) >= 2 {
		inv.image = args[1]
	}
	if len(args) >= 3 {
		secs, err := strconv.ParseFloat(args[2], 64)
		if err != nil {
			return nil, errors.Wrap(err, "frame delay")
		}
		if secs < 0 {
			return nil, errors.Errorf("negative frame delay %s", args[2])
		}
		inv.delay = time.Duration(secs * float64(time.Second))
	}

	return inv, nil
}

func canvasFromFlags() (bitmap.Canvas, error) {
	canvas := bitmap.Canvas{
		Width:   *width,
		Height:  *height,
		Columns: lo.Ternary(*columns > 0, *columns, *width),
	}
	return canvas, canvas.Validate()
}

func mixerFromFlags() (*mixer.Mixer, error) {
	if err := mixer.CheckRotate(*rotate); err != nil {
		return nil, err
	}

	var opts []mixer.Option
	if *mirror {
		opts = append(opts, mixer.WithMirror())
	}
	if *flip {
		opts = append(opts, mixer.WithFlip())
	}
	if *rotate != 0 {
		opts = append(opts, mixer.WithRotate(*rotate))
	}
	if *contrast != 0 {
		opts = append(opts, mixer.WithContrast(*contrast))
	}
	if *invert {
		opts = append(opts, mixer.WithInvert())
	}

	return mixer.New(opts...), nil
}

// openDevice picks the dump device when dumpDir is set, a remote display
// when the port looks like host:port, or the local serial port.
func openDevice(fs afero.Fs, dumpDir string, port string, canvas bitmap.Canvas, logger *zap.Logger) (proto.Control, error) {
	switch {
	case dumpDir != "":
		if err := fs.MkdirAll(dumpDir, 0755); err != nil {
			return nil, errors.Wrap(err, "create dump dir")
		}
		return virtual.New(afero.NewBasePathFs(fs, dumpDir), logger, canvas)
	case strings.Contains(port, ":"):
		return remote.New(port)
	default:
		return uart.New(proto.NewSerial(port), logger, canvas)
	}
}

func run(ctx context.Context, logger *zap.Logger, fs afero.Fs, args []string) error {
	inv, err := parseArgs(args)
	if err != nil {
		return err
	}

	canvas, err := canvasFromFlags()
	if err != nil {
		return err
	}

	mx, err := mixerFromFlags()
	if err != nil {
		return err
	}

	logger.With(
		zap.Int("w", canvas.Width),
		zap.Int("h", canvas.Height),
		zap.Int("columns", canvas.Columns),
		zap.Strings("effects", mx.Effects()),
	).Info("canvas")

	loader := source.NewLoader(fs, source.NewDownloader(os.Stderr, logger), logger)
	src, err := loader.Open(inv.image)
	if err != nil {
		return err
	}

	conv := source.NewConverter(canvas, mx, source.WithFill(*fill), source.WithDither(*dither))

	dev, err := openDevice(fs, *dump, inv.port, canvas, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := dev.Close(); err != nil {
			logger.With(zap.Error(err)).Info("close failed")
		}
	}()

	p := player.New(dev, logger,
		player.WithDelay(inv.delay),
		player.WithRealign(*realign),
		player.WithLoops(*loops),
	)

	if !src.Animated() {
		rows, err := conv.Encode(src.Frames[0])
		if err != nil {
			return err
		}
		return p.Show(ctx, rows)
	}

	logger.With(zap.Int("frames", len(src.Frames))).Info("animation frames")

	frames, err := conv.EncodeAll(src.Frames, os.Stderr)
	if err != nil {
		return err
	}

	return p.Play(ctx, frames)
}

func newLogger(debug bool) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.OutputPaths = []string{"stdout"}
	cfg.DisableStacktrace = true
	cfg.Level = zap.NewAtomicLevelAt(lo.Ternary(debug, zapcore.DebugLevel, zapcore.InfoLevel))
	return cfg.Build()
}

func listPorts() error {
	ports, err := proto.PortDetails()
	if err != nil {
		return err
	}

	if len(ports) == 0 {
		fmt.Println("no serial ports found")
		return nil
	}

	for _, p := range ports {
		if p.IsUSB {
			fmt.Printf("%s\tUSB %s:%s\t%s\t%s\n", p.Name, p.VID, p.PID, p.SerialNumber, p.Product)
		} else {
			fmt.Println(p.Name)
		}
	}
	return nil
}
