package health

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server serves the console's health report and Prometheus metrics on
// localhost.
type Server struct {
	monitor *Monitor
	server  *http.Server
}

func NewServer(monitor *Monitor, port int) *Server {
	s := &Server{monitor: monitor}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.reportHandler(func(r Report) any { return r.Summary() }))
	mux.HandleFunc("/health/detailed", s.reportHandler(func(r Report) any { return r }))
	mux.Handle("/metrics", promhttp.Handler())

	s.server = &http.Server{
		Addr:              fmt.Sprintf("127.0.0.1:%d", port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Handler exposes the routes, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Start blocks serving until Stop is called.
func (s *Server) Start() error {
	return s.server.ListenAndServe()
}

func (s *Server) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// reportHandler writes view(report) as JSON with the report's status code.
func (s *Server) reportHandler(view func(Report) any) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		report := s.monitor.CheckHealth(req.Context())
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(report.HTTPStatus())
		_ = json.NewEncoder(w).Encode(view(report))
	}
}
