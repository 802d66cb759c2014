package firs

import (
	"strings"
	"time"

	"github.com/linesmerrill/police-fir-api/models"
	"github.com/linesmerrill/police-fir-api/query"
)

// Filters are the optional search inputs of the FIR listing. Blank values
// and the literal ALL place no constraint.
type Filters struct {
	Search       string
	Complainant  string
	Status       string
	Priority     string
	IncidentType string
	DateFilter   string
}

// searchFields are the fields a free text search is matched against
var searchFields = []string{"firNumber", "description", "location"}

// BuildFilter turns filters into a single conjunctive criterion plus the
// listing order. dateFilter is a YYYY-MM-DD calendar date interpreted in
// loc. Unknown statuses or priorities and unparsable dates are ignored
// rather than rejected.
func BuildFilter(f Filters, loc *time.Location) (query.Criterion, query.Sort) {
	if loc == nil {
		loc = time.UTC
	}
	var cs []query.Criterion

	if search := strings.TrimSpace(f.Search); search != "" {
		or := make([]query.Criterion, 0, len(searchFields))
		for _, field := range searchFields {
			or = append(or, query.ContainsFold(field, search))
		}
		cs = append(cs, query.Or(or...))
	}

	if complainant := strings.TrimSpace(f.Complainant); complainant != "" {
		cs = append(cs, query.ContainsFold("complainantName", complainant))
	}

	if !isAll(f.Status) {
		if st, ok := models.ParseFIRStatus(f.Status); ok {
			cs = append(cs, query.Eq("status", string(st)))
		}
	}

	if !isAll(f.Priority) {
		if p, ok := models.ParsePriority(f.Priority); ok {
			cs = append(cs, query.Eq("priority", string(p)))
		}
	}

	if !isAll(f.IncidentType) {
		cs = append(cs, query.Eq("incidentType", f.IncidentType))
	}

	if d := strings.TrimSpace(f.DateFilter); d != "" {
		if start, err := time.ParseInLocation("2006-01-02", d, loc); err == nil {
			cs = append(cs, query.Between("createdAt", start, start.AddDate(0, 0, 1)))
		}
	}

	return query.And(cs...), query.ByCreatedAtDesc
}

func isAll(v string) bool {
	v = strings.TrimSpace(v)
	return v == "" || strings.EqualFold(v, "ALL")
}
