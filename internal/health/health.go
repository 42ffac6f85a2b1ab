// Package health provides local store health reporting for the console.
package health

import "net/http"

// SystemStatus represents the overall health state of the system.
type SystemStatus string

const (
	StatusHealthy  SystemStatus = "healthy"
	StatusDegraded SystemStatus = "degraded"
	StatusCritical SystemStatus = "critical"
)

// Report contains the full system health report.
type Report struct {
	Status        SystemStatus `json:"status"`
	StorageError  string       `json:"storage_error,omitempty"`
	Addresses     int          `json:"addresses"`
	Transactions  int          `json:"transactions"`
	AdminLoggedIn bool         `json:"admin_logged_in"`
	StoredKeys    []string     `json:"stored_keys,omitempty"`
}

// Summary is the short form served on /health.
func (r Report) Summary() map[string]string {
	return map[string]string{"status": string(r.Status)}
}

// HTTPStatus maps the report to a response code; only a store that cannot be
// reached is unavailable.
func (r Report) HTTPStatus() int {
	if r.Status == StatusCritical {
		return http.StatusServiceUnavailable
	}
	return http.StatusOK
}
