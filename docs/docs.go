// Package docs Police FIR API.
//
// Documentation of the Police FIR API.
//
//     Schemes: https
//     BasePath: /
//     Version: 1.0.0
//
//     Consumes:
//     - application/json
//
//     Produces:
//     - application/json
//
// swagger:meta
package docs

import (
	"github.com/linesmerrill/police-fir-api/models"
)

// swagger:route GET /health health healthEndpointID
// Lists the healthchex of the web service api.
// responses:
//   200: healthResponse

// Shows the current health of the api. true means it is alive, false means it is not.
// swagger:response healthResponse
type healthResponseWrapper struct {
	// in:body
	Body models.HealthCheckResponse
}

// swagger:route POST /api/v1/fir fir createFIR
// Files a new FIR on behalf of the user in the X-User-ID header.
// responses:
//   201: firResponse
//   400: errorResponse
//   401: errorResponse
//   409: errorResponse

// swagger:parameters createFIR
type createFIRParamsWrapper struct {
	// in:body
	Body models.FIRRequest
}

// swagger:route GET /api/v1/fir/{fir_id} fir firByID
// Gets a single FIR by ID, with its history.
// responses:
//   200: firResponse
//   404: errorResponse

// swagger:route GET /api/v1/fir/number/{fir_number} fir firByNumber
// Gets a single FIR by its FIR number.
// responses:
//   200: firResponse
//   404: errorResponse

// swagger:route PATCH /api/v1/fir/{fir_id}/status fir updateFIRStatus
// Changes the status, remarks, action notes or assignment of a FIR.
// responses:
//   200: firResponse
//   400: errorResponse
//   404: errorResponse
//   409: errorResponse

// swagger:parameters updateFIRStatus
type updateFIRStatusParamsWrapper struct {
	// in:body
	Body models.UpdateFIRStatusRequest
}

// Shows a single FIR with its audit trail, newest entry first.
// swagger:response firResponse
type firResponseWrapper struct {
	// in:body
	Body models.FIRResponse
}

// swagger:route GET /api/v1/fir/{fir_id}/history fir firHistory
// Lists the audit trail of a FIR, newest entry first.
// responses:
//   200: historyResponse
//   404: errorResponse

// swagger:response historyResponse
type historyResponseWrapper struct {
	// in:body
	Body []models.FIRHistoryDTO
}

// swagger:route GET /api/v1/fir/paginated fir firsPaginated
// Searches FIRs with optional filters and returns one page.
// responses:
//   200: pagedResponse

// swagger:response pagedResponse
type pagedResponseWrapper struct {
	// in:body
	Body models.PagedResponse
}

// swagger:route GET /api/v1/fir/stats fir dashboardStats
// Counts FIRs by status, priority and incident type.
// responses:
//   200: statsResponse

// swagger:response statsResponse
type statsResponseWrapper struct {
	// in:body
	Body models.DashboardStats
}

// swagger:response errorResponse
type errorResponseWrapper struct {
	// in:body
	Body models.ErrorMessageResponse
}
