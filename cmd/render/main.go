package main

import (
	"net/http"

	"github.com/samber/lo"
	flag "github.com/spf13/pflag"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"uartscreen/pkg/bitmap"
	"uartscreen/pkg/device/remote"
	"uartscreen/pkg/device/uart"
	"uartscreen/pkg/proto"
)

var serial = flag.String("serial", "ttyACM0", "serial name")
var listen = flag.String("listen", ":9123", "listen addr")
var width = flag.Int("width", bitmap.DefaultWidth, "canvas width in pixels")
var height = flag.Int("height", bitmap.DefaultHeight, "canvas height in pixels")
var columns = flag.Int("columns", 0, "characters of each row code sent per upload (0 = width)")
var debug = flag.Bool("debug", false, "set debug")

func main() {
	flag.Parse()

	fx.New(
		fx.Provide(
			func() (*proto.Serial, *http.Server, bitmap.Canvas) {
				return proto.NewSerial(*serial),
					&http.Server{Addr: *listen},
					bitmap.Canvas{
						Width:   *width,
						Height:  *height,
						Columns: lo.Ternary(*columns > 0, *columns, *width),
					}
			},
			func() (*zap.Logger, error) {
				if *debug {
					return zap.NewDevelopment()
				}
				return zap.NewProduction()
			},
			uart.New,
		),
		fx.WithLogger(func(logger *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: logger}
		}),
		fx.Invoke(
			remote.Proxy,
		),
	).Run()
}
