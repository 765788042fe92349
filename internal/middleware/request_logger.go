package middleware

import (
	"context"
	"log/slog"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

const CtxLoggerKey = "logger" // *slog.Logger（request_id付き）

// ハンドラ用のloggerをcontextに入れる。RequestIDの後に使う
func WithLogger(log *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			l := log
			if id := c.Response().Header().Get(echo.HeaderXRequestID); id != "" {
				l = log.With(slog.String("request_id", id))
			}
			c.Set(CtxLoggerKey, l)
			return next(c)
		}
	}
}

// 無ければslog.Default()
func LoggerFrom(c echo.Context) *slog.Logger {
	if l, ok := c.Get(CtxLoggerKey).(*slog.Logger); ok && l != nil {
		return l
	}
	return slog.Default()
}

// アクセスログをslogに出す
func RequestLogger(log *slog.Logger) echo.MiddlewareFunc {
	return echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			level := slog.LevelInfo
			if v.Status >= 500 || v.Error != nil {
				level = slog.LevelError
			}
			attrs := []slog.Attr{
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
				slog.String("request_id", v.RequestID),
			}
			if v.Error != nil {
				attrs = append(attrs, slog.String("err", v.Error.Error()))
			}
			log.LogAttrs(context.Background(), level, "request", attrs...)
			return nil
		},
	})
}
