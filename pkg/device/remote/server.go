package remote

import (
	"context"
	"net/http"
	"net/rpc"

	"github.com/pkg/errors"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"uartscreen/pkg/proto"
)

// Proxy serves dev over srv for the lifetime of the fx application.
func Proxy(dev proto.Control, srv *http.Server, logger *zap.Logger, lifecycle fx.Lifecycle) error {
	handler, err := Handler(dev, logger)
	if err != nil {
		return err
	}
	srv.Handler = handler

	lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != http.ErrServerClosed {
					logger.With(zap.Error(err)).Fatal("serve failed")
				}
			}()
			logger.With(zap.String("listen", srv.Addr)).Info("proxy started")
			return nil
		},
		OnStop: func(ctx context.Context) error {
			if err := srv.Shutdown(ctx); err != nil {
				return err
			}
			return dev.Close()
		},
	})

	return nil
}

// Handler exposes dev as an RPC service at rpc.DefaultRPCPath.
func Handler(dev proto.Control, logger *zap.Logger) (http.Handler, error) {
	server := rpc.NewServer()
	if err := server.Register(&Service{dev: dev, l: logger}); err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	mux.Handle(rpc.DefaultRPCPath, server)
	return mux, nil
}

type Service struct {
	dev proto.Control
	l   *zap.Logger
}

func (s *Service) Command(name string, ack *Ack) error {
	s.l.With(zap.String("command", name)).Debug("rpc")

	switch name {
	case "realign":
		if err := s.dev.Realign(context.Background()); err != nil {
			return err
		}
		ack.OK = true
		return nil
	}

	return errors.Errorf("unknown command %q", name)
}

func (s *Service) Upload(req *UploadRequest, ack *Ack) error {
	s.l.With(zap.Int("rows", len(req.Rows))).Debug("rpc upload")
	if err := s.dev.Upload(req.Rows); err != nil {
		return err
	}
	ack.OK = true
	return nil
}

func (s *Service) Drain(_ int, resp *DrainResponse) error {
	data, err := s.dev.Drain()
	if err != nil {
		return err
	}
	resp.Data = data
	return nil
}
