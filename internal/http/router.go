package httpapi

import (
	"net/http"

	"go.uber.org/zap"
)

// Router uses the standard http.ServeMux (no third-party routing
// dependency needed for this surface).
type Router struct {
	mux    *http.ServeMux
	logger *zap.Logger
}

func NewRouter(logger *zap.Logger) *Router {
	return &Router{
		mux:    http.NewServeMux(),
		logger: logger,
	}
}

func (r *Router) Handle(pattern string, h http.HandlerFunc) {
	r.mux.HandleFunc(pattern, h)
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

// RegisterSensorDataRoutes mounts the dashboard-facing API.
func (r *Router) RegisterSensorDataRoutes(h *SensorDataHandler) {
	r.Handle("/sensor-data", func(w http.ResponseWriter, req *http.Request) {
		switch req.Method {
		case http.MethodPost:
			h.Create(w, req)
		case http.MethodGet:
			h.List(w, req)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})

	r.Handle("/sensor-data/latest", getOnly(h.Latest))
	r.Handle("/sensor-data/live", getOnly(h.Live))
	r.Handle("/sensor-data/export", getOnly(h.Export))
}

func getOnly(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h(w, req)
	}
}
