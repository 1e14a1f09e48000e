// Package requestlogger logs one line per handled request.
package requestlogger

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/mileusna/useragent"
	"github.com/rs/zerolog"
)

const unknownBrowser = "unknown"

func Middleware(logger zerolog.Logger, pathFilters ...string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			for _, filter := range pathFilters {
				if filter == r.URL.Path {
					next.ServeHTTP(w, r)
					return
				}
			}

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			t1 := time.Now()
			defer func() {
				t2 := time.Now()

				bytesIn := r.ContentLength
				if bytesIn < 0 {
					bytesIn = 0
				}

				logger.Info().Timestamp().Fields(map[string]interface{}{
					"request_id": middleware.GetReqID(r.Context()),
					"request":    fmt.Sprintf("%s %s (response_code: %d)", r.Method, r.URL.Path, ww.Status()),
					"remote_ip":  r.RemoteAddr,
					"proto":      r.Proto,
					"browser":    browser(r.Header.Get("User-Agent")),
					"latency_ms": float64(t2.Sub(t1).Nanoseconds()) / 1000000.0,
					"bytes_in":   bytesIn,
					"bytes_out":  ww.BytesWritten(),
				}).Msg("incoming_request")
			}()

			next.ServeHTTP(ww, r)
		}

		return http.HandlerFunc(fn)
	}
}

// browser names the browser and operating system, "Chrome (Windows)".
func browser(userAgent string) string {
	ua := useragent.Parse(userAgent)
	if ua.Name == "" {
		return unknownBrowser
	}

	if ua.OS == "" {
		return ua.Name
	}

	return fmt.Sprintf("%s (%s)", ua.Name, ua.OS)
}
