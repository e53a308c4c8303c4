package middleware

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/lumastream/mediagate/common/logger"
)

// AccessLog emits one structured log line per request after the
// response completes. Byte counts reflect what was actually written,
// which for an aborted stream is less than the Content-Length header.
func AccessLog(log *logger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			req := c.Request()
			res := c.Response()

			fields := []any{
				"method", req.Method,
				"path", req.URL.Path,
				"status", res.Status,
				"bytes", res.Size,
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", res.Header().Get(echo.HeaderXRequestID),
			}
			if r := req.Header.Get("Range"); r != "" {
				fields = append(fields, "range", r)
			}

			if res.Status >= 500 {
				log.Warn("request completed", fields...)
			} else {
				log.Info("request completed", fields...)
			}

			return err
		}
	}
}
