package api

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/linesmerrill/police-fir-api/models"
)

// HealthCheckHandler reports that the process is up. It does not touch the
// store.
func HealthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	b, _ := json.Marshal(models.HealthCheckResponse{
		Alive: true,
	})
	_, _ = io.WriteString(w, string(b))
}
