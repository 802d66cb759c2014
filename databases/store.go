package databases

// go generate: mockery --name FIRStore

import (
	"context"

	"github.com/pkg/errors"

	"github.com/linesmerrill/police-fir-api/models"
	"github.com/linesmerrill/police-fir-api/query"
)

var (
	// ErrNotFound is returned when an id or FIR number does not resolve to a record
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when a write collides with a unique value, such as
	// an already used FIR number
	ErrConflict = errors.New("conflict")
)

// FIRStore is the transactional home of FIR records and their audit entries.
// Reads outside WithTransaction see committed data only.
type FIRStore interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context, tx FIRTx) error) error
	FindByID(ctx context.Context, id int64) (*models.FIR, error)
	FindByNumber(ctx context.Context, firNumber string) (*models.FIR, error)
	Find(ctx context.Context, criterion query.Criterion, sort query.Sort) ([]models.FIR, error)
	FindPage(ctx context.Context, criterion query.Criterion, sort query.Sort, page query.Pageable) ([]models.FIR, int64, error)
	Count(ctx context.Context, criterion query.Criterion) (int64, error)
	CountByIncidentType(ctx context.Context) (map[string]int64, error)
	History(ctx context.Context, firID int64) ([]models.FIRHistory, error)
	NextSequence(ctx context.Context, name string) (int64, error)
	SaveSnapshot(ctx context.Context, snapshot models.DashboardSnapshot) error
}

// FIRTx is the write side of a FIRStore transaction. Nothing written through
// it is visible to other callers until the transaction commits.
type FIRTx interface {
	FindByID(ctx context.Context, id int64) (*models.FIR, error)
	NextSequence(ctx context.Context, name string) (int64, error)
	InsertFIR(ctx context.Context, fir *models.FIR) error
	UpdateFIR(ctx context.Context, fir *models.FIR) error
	InsertHistory(ctx context.Context, entry *models.FIRHistory) error
}

// Sequence names for the numeric ids
const (
	firIDSequence     = "fir_id"
	historyIDSequence = "fir_history_id"
)
