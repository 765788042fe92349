package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"storeadmin/internal/config"
	"storeadmin/internal/handler"
	"storeadmin/internal/middleware"
	"storeadmin/internal/validator"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

const shutdownTimeout = 10 * time.Second

type Server struct {
	e    *echo.Echo
	addr string
	log  *slog.Logger
}

// ミドルウェアとルートを登録したechoを作る
func New(cfg config.Config, log *slog.Logger, g handler.Guards, h Handlers) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = validator.New()

	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(middleware.RequestLogger(log))
	e.Use(middleware.WithLogger(log))
	e.Use(middleware.CORS(cfg.CORSOrigins))
	e.Use(echomw.BodyLimit("1M"))

	RegisterRoutes(e, g, h)

	addr := cfg.Port
	if addr != "" && addr[0] != ':' {
		addr = ":" + addr
	}

	return &Server{e: e, addr: addr, log: log}
}

// テスト用
func (s *Server) Handler() http.Handler {
	return s.e
}

// ctxがcancelされるまで動かし、その後graceful shutdownする
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("http listening", slog.String("addr", s.addr))
		if err := s.e.Start(s.addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.e.Shutdown(shutdownCtx); err != nil {
		return err
	}
	s.log.Info("http shutdown complete")
	return nil
}
