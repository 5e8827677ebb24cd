package middleware

import (
	"time"

	"github.com/labstack/echo/v4"

	"github.com/fslick/fundamentals-yf/pkg/logger"
)

// RequestLogging logs each request once it completes.
func RequestLogging(l *logger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			req := c.Request()
			fields := []logger.Field{
				logger.String("method", req.Method),
				logger.String("uri", req.RequestURI),
				logger.String("remote", c.RealIP()),
				logger.Int("status", c.Response().Status),
				logger.Duration("latency_ms", time.Since(start)),
			}
			if id := c.Response().Header().Get(echo.HeaderXRequestID); id != "" {
				fields = append(fields, logger.String("request_id", id))
			}
			l.Debug("http request", fields...)

			return nil
		}
	}
}
