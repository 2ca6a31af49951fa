package middleware

import (
	"bytes"
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
)

type ResponseCache interface {
	Key(ctx context.Context, path, rawQuery string) string
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, body []byte)
}

type captureWriter struct {
	http.ResponseWriter
	status int
	buf    bytes.Buffer
}

func (w *captureWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *captureWriter) Write(b []byte) (int, error) {
	w.buf.Write(b)
	return w.ResponseWriter.Write(b)
}

// CacheListing serves anonymous GET responses from cache and stores successful
// ones. Authenticated requests always bypass it. A nil cache disables it.
func CacheListing(cache ResponseCache) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		if cache == nil {
			return next
		}
		return func(c echo.Context) error {
			req := c.Request()
			if req.Method != http.MethodGet || req.Header.Get(echo.HeaderAuthorization) != "" {
				return next(c)
			}

			ctx := req.Context()
			key := cache.Key(ctx, req.URL.Path, req.URL.RawQuery)
			if body, ok := cache.Get(ctx, key); ok {
				c.Response().Header().Set("X-Cache", "HIT")
				return c.Blob(http.StatusOK, echo.MIMEApplicationJSONCharsetUTF8, body)
			}

			res := c.Response()
			w := &captureWriter{ResponseWriter: res.Writer, status: http.StatusOK}
			res.Writer = w
			res.Header().Set("X-Cache", "MISS")
			err := next(c)
			res.Writer = w.ResponseWriter

			if err == nil && w.status == http.StatusOK && w.buf.Len() > 0 {
				cache.Set(ctx, key, w.buf.Bytes())
			}
			return err
		}
	}
}
