package api

import (
	"cleaning-match-service/internal/platform/obs"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const requestIDHeader = "X-Request-ID"

// requestIDMiddleware reuses the caller's X-Request-ID or mints a UUID, echoes
// it back, and stores it in the request context for obs.Time.
func requestIDMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			id := req.Header.Get(requestIDHeader)
			if id == "" || len(id) > 128 {
				id = uuid.NewString()
			}

			c.Response().Header().Set(requestIDHeader, id)
			c.SetRequest(req.WithContext(obs.WithRequestID(req.Context(), id)))

			return next(c)
		}
	}
}

// loggingMiddleware logs end-to-end request duration and response size.
// Errors are rendered before logging so the final status is recorded.
func loggingMiddleware(logger *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			if err := next(c); err != nil {
				c.Error(err)
			}

			req := c.Request()
			res := c.Response()
			logger.Info("http request",
				zap.String("req_id", obs.RequestID(req.Context())),
				zap.String("method", req.Method),
				zap.String("path", req.URL.RequestURI()),
				zap.Int("status", res.Status),
				zap.Int64("bytes", res.Size),
				zap.Int64("dur_ms", time.Since(start).Milliseconds()),
			)
			return nil
		}
	}
}
