package transport

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

// NewRouter registers the stake API routes and wraps them with request
// metrics and CORS.
func NewRouter(h *StakeHandler, metrics Metrics) http.Handler {
	r := mux.NewRouter()
	r.Use(observe(metrics))

	v1 := r.PathPrefix("/v1").Subrouter()
	v1.HandleFunc("/health", h.Health).Methods(http.MethodGet)
	v1.HandleFunc("/tip", h.Tip).Methods(http.MethodGet)
	v1.HandleFunc("/blocks/{hash}", h.Block).Methods(http.MethodGet)
	v1.HandleFunc("/checkpoints", h.Checkpoints).Methods(http.MethodGet)
	v1.HandleFunc("/kernel/probe", h.ProbeStake).Methods(http.MethodPost)

	return cors.Default().Handler(r)
}

type statusRecorder struct {
	http.ResponseWriter
	code int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.code = code
	r.ResponseWriter.WriteHeader(code)
}

func observe(metrics Metrics) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			started := time.Now()
			rec := &statusRecorder{ResponseWriter: w, code: http.StatusOK}
			next.ServeHTTP(rec, r)

			var route string
			if current := mux.CurrentRoute(r); current != nil {
				route, _ = current.GetPathTemplate()
			}
			metrics.Observe(route, rec.code, started)
		})
	}
}
