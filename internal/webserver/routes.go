package webserver

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/klauspost/compress/gzhttp"
	"github.com/spboyer/modelpick/internal/webapi"
)

// newHandler builds the middleware chain: gzip, then CORS, then logging,
// then the API mux.
func newHandler(cfg Config) http.Handler {
	mux := http.NewServeMux()
	webapi.RegisterRoutes(mux, cfg.Recommender, cfg.Logger)

	var h http.Handler = mux
	h = logRequests(h, cfg.Logger)
	h = webapi.CORSMiddleware(h, cfg.AllowedOrigins...)
	return gzhttp.GzipHandler(h)
}

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func logRequests(next http.Handler, logger *slog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.Debug("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start))
	})
}
