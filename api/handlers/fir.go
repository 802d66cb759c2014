package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/linesmerrill/police-fir-api/api"
	"github.com/linesmerrill/police-fir-api/config"
	"github.com/linesmerrill/police-fir-api/firs"
	"github.com/linesmerrill/police-fir-api/logging"
	"github.com/linesmerrill/police-fir-api/models"
)

// FIR exported for testing purposes
type FIR struct {
	Service *firs.Service
}

// CreateFIRHandler files a new FIR on behalf of the acting user
func (f FIR) CreateFIRHandler(w http.ResponseWriter, r *http.Request) {
	var req models.FIRRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	resp, err := f.Service.CreateFIR(ctx, req, api.UserFromContext(r.Context()))
	if err != nil {
		errorStatus("failed to create fir", w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

// FIRsHandler returns every FIR, newest first
func (f FIR) FIRsHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	resp, err := f.Service.GetAllFIRs(ctx)
	if err != nil {
		errorStatus("failed to get firs", w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// FIRsPaginatedHandler returns one page of FIRs matching the query filters
func (f FIR) FIRsPaginatedHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	params := firs.SearchParams{
		Filters: firs.Filters{
			Search:       q.Get("search"),
			Complainant:  q.Get("complainant"),
			Status:       q.Get("status"),
			Priority:     q.Get("priority"),
			IncidentType: q.Get("incidentType"),
			DateFilter:   q.Get("dateFilter"),
		},
		Page: queryInt(q.Get("page"), 0),
		Size: queryInt(q.Get("size"), 5),
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	resp, err := f.Service.Search(ctx, params)
	if err != nil {
		errorStatus("failed to search firs", w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// MyFIRsHandler returns the FIRs filed by the acting user
func (f FIR) MyFIRsHandler(w http.ResponseWriter, r *http.Request) {
	user := api.UserFromContext(r.Context())

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	resp, err := f.Service.ListByUser(ctx, user.ID)
	if err != nil {
		errorStatus("failed to get firs by user", w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// FIRByIDHandler returns a FIR by ID
func (f FIR) FIRByIDHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["fir_id"], 10, 64)
	if err != nil {
		config.ErrorStatus("failed to parse fir id", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	resp, err := f.Service.GetFIRByID(ctx, id)
	if err != nil {
		errorStatus("failed to get fir by ID", w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// FIRByNumberHandler returns a FIR by its FIR number
func (f FIR) FIRByNumberHandler(w http.ResponseWriter, r *http.Request) {
	number := mux.Vars(r)["fir_number"]
	logging.FromContext(r.Context()).Debugf("fir_number: %v", number)

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	resp, err := f.Service.GetFIRByNumber(ctx, number)
	if err != nil {
		errorStatus("failed to get fir by number", w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// FIRHistoryHandler returns the audit trail of a FIR, newest first
func (f FIR) FIRHistoryHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["fir_id"], 10, 64)
	if err != nil {
		config.ErrorStatus("failed to parse fir id", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	resp, err := f.Service.GetHistory(ctx, id)
	if err != nil {
		errorStatus("failed to get fir history", w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// FIRsByStatusHandler returns the FIRs in a status
func (f FIR) FIRsByStatusHandler(w http.ResponseWriter, r *http.Request) {
	status, ok := models.ParseFIRStatus(mux.Vars(r)["status"])
	if !ok {
		config.ErrorStatus("invalid status", http.StatusBadRequest, w, errors.Errorf("unknown status %q", mux.Vars(r)["status"]))
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	resp, err := f.Service.ListByStatus(ctx, status)
	if err != nil {
		errorStatus("failed to get firs by status", w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// FIRsByPriorityHandler returns the FIRs of a priority
func (f FIR) FIRsByPriorityHandler(w http.ResponseWriter, r *http.Request) {
	priority, ok := models.ParsePriority(mux.Vars(r)["priority"])
	if !ok {
		config.ErrorStatus("invalid priority", http.StatusBadRequest, w, errors.Errorf("unknown priority %q", mux.Vars(r)["priority"]))
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	resp, err := f.Service.ListByPriority(ctx, priority)
	if err != nil {
		errorStatus("failed to get firs by priority", w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// FIRsByOfficerHandler returns the FIRs assigned to an officer
func (f FIR) FIRsByOfficerHandler(w http.ResponseWriter, r *http.Request) {
	officerID, err := strconv.ParseInt(mux.Vars(r)["officer_id"], 10, 64)
	if err != nil {
		config.ErrorStatus("failed to parse officer id", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	resp, err := f.Service.ListByOfficer(ctx, officerID)
	if err != nil {
		errorStatus("failed to get firs by officer", w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// FIRsByStationHandler returns the FIRs assigned to a station
func (f FIR) FIRsByStationHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	resp, err := f.Service.ListByStation(ctx, mux.Vars(r)["station"])
	if err != nil {
		errorStatus("failed to get firs by station", w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// FIRsByComplainantEmailHandler returns the FIRs filed under an email
func (f FIR) FIRsByComplainantEmailHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	resp, err := f.Service.ListByComplainantEmail(ctx, mux.Vars(r)["email"])
	if err != nil {
		errorStatus("failed to get firs by email", w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// UpdateFIRStatusHandler applies a status update command to a FIR
func (f FIR) UpdateFIRStatusHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["fir_id"], 10, 64)
	if err != nil {
		config.ErrorStatus("failed to parse fir id", http.StatusBadRequest, w, err)
		return
	}

	var req models.UpdateFIRStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	resp, err := f.Service.UpdateFIRStatus(ctx, id, req, api.UserFromContext(r.Context()))
	if err != nil {
		errorStatus("failed to update fir", w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// DashboardStatsHandler returns the aggregate counts for the dashboard
func (f FIR) DashboardStatsHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	resp, err := f.Service.DashboardStats(ctx)
	if err != nil {
		errorStatus("failed to get dashboard stats", w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// errorStatus maps service errors onto http status codes
func errorStatus(message string, w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, firs.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, firs.ErrInvalidRequest):
		status = http.StatusBadRequest
	case errors.Is(err, firs.ErrInvalidTransition), errors.Is(err, firs.ErrNumberingExhausted):
		status = http.StatusConflict
	}
	config.ErrorStatus(message, status, w, err)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	b, err := json.Marshal(v)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(b)
}

func queryInt(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		zap.S().Warnf("invalid integer %q, using default of %v", raw, fallback)
		return fallback
	}
	return v
}
