// Package firs holds the case lifecycle of First Information Reports: filing
// with unique numbering, searching, status updates with their audit trail,
// and the dashboard aggregation.
package firs

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/linesmerrill/police-fir-api/config"
	"github.com/linesmerrill/police-fir-api/databases"
	"github.com/linesmerrill/police-fir-api/logging"
	"github.com/linesmerrill/police-fir-api/models"
	"github.com/linesmerrill/police-fir-api/query"
)

// Service runs FIR operations against a FIRStore
type Service struct {
	Store    databases.FIRStore
	Users    databases.UserDatabase
	Engine   Engine
	Prefix   string
	Location *time.Location
	// MaxNumberAttempts bounds how often a create re-assigns a number after
	// colliding with an existing one
	MaxNumberAttempts int
	Now               func() time.Time
}

// New builds a Service from the FIR settings in conf
func New(store databases.FIRStore, users databases.UserDatabase, conf *config.Config) *Service {
	s := &Service{
		Store:             store,
		Users:             users,
		Engine:            Engine{Policy: AnyTransition{}, AuditAssignments: conf.AuditAssignments},
		Prefix:            conf.NumberPrefix,
		Location:          conf.Location(),
		MaxNumberAttempts: conf.NumberRetries,
		Now:               time.Now,
	}
	if conf.StrictTransitions {
		s.Engine.Policy = StrictTransitions()
	}
	return s
}

// now is the system clock in UTC at millisecond precision, the resolution
// mongo keeps for dates
func (s *Service) now() time.Time {
	clock := s.Now
	if clock == nil {
		clock = time.Now
	}
	return clock().UTC().Truncate(time.Millisecond)
}

func (s *Service) attempts() int {
	if s.MaxNumberAttempts < 1 {
		return 1
	}
	return s.MaxNumberAttempts
}

// CreateFIR files a new FIR owned by user. The FIR number, the record and its
// CREATED audit entry become visible together or not at all.
func (s *Service) CreateFIR(ctx context.Context, req models.FIRRequest, user *models.User) (*models.FIRResponse, error) {
	if user == nil {
		return nil, errors.Wrap(ErrInvalidRequest, "a FIR must be filed by a user")
	}
	priority := models.PriorityMedium
	if strings.TrimSpace(string(req.Priority)) != "" {
		p, ok := models.ParsePriority(string(req.Priority))
		if !ok {
			return nil, errors.Wrapf(ErrInvalidRequest, "unknown priority %q", req.Priority)
		}
		priority = p
	}

	numberer := Numberer{Prefix: s.Prefix, Seq: s.Store}
	var created models.FIR
	for attempt := 1; ; attempt++ {
		now := s.now()
		// the counter advances outside the transaction so a collision is
		// never handed the same number twice
		number, err := numberer.Assign(ctx, now)
		if err != nil {
			return nil, err
		}
		fir := models.FIR{
			FIRNumber:        number,
			ComplainantName:  user.Name,
			ComplainantEmail: user.Email,
			IncidentType:     req.IncidentType,
			Description:      req.Description,
			DateTime:         req.DateTime,
			Priority:         priority,
			Location:         req.Location,
			Status:           models.StatusPending,
			ActionNotes:      []string{},
			EvidenceFiles:    append([]string{}, req.EvidenceFiles...),
			User:             user.Ref(),
			CreatedAt:        now,
			UpdatedAt:        now,
		}
		err = s.Store.WithTransaction(ctx, func(ctx context.Context, tx databases.FIRTx) error {
			f := fir
			if err := tx.InsertFIR(ctx, &f); err != nil {
				return err
			}
			if err := tx.InsertHistory(ctx, &models.FIRHistory{
				FIRID:       f.ID,
				ChangedBy:   user.Ref(),
				Action:      models.ActionCreated,
				Description: "FIR Filed by " + user.Name,
				Timestamp:   now,
			}); err != nil {
				return err
			}
			created = f
			return nil
		})
		if err == nil {
			break
		}
		if !errors.Is(err, databases.ErrConflict) {
			return nil, errors.Wrap(err, "failed to create fir")
		}
		numberConflicts.Inc()
		logging.FromContext(ctx).Warnw("fir number collision", "firNumber", number, "attempt", attempt)
		if attempt >= s.attempts() {
			return nil, errors.Wrapf(ErrNumberingExhausted, "after %d attempts: %v", attempt, err)
		}
	}

	casesCreated.Inc()
	auditEntries.WithLabelValues(models.ActionCreated).Inc()
	logging.FromContext(ctx).Infow("fir filed", "firId", created.ID, "firNumber", created.FIRNumber, "userId", user.ID)
	return s.toResponse(ctx, created)
}

// Update interprets cmd against the FIR with the given id and commits the
// resulting mutation together with its audit entries. actor may be nil for
// system initiated updates.
func (s *Service) Update(ctx context.Context, id int64, cmd models.UpdateFIRStatusRequest, actor *models.User) (*models.FIR, []models.FIRHistory, error) {
	var (
		updated models.FIR
		entries []models.FIRHistory
	)
	err := s.Store.WithTransaction(ctx, func(ctx context.Context, tx databases.FIRTx) error {
		current, err := tx.FindByID(ctx, id)
		if err != nil {
			return err
		}
		ch, err := s.Engine.Apply(*current, cmd, actor.Ref(), s.now())
		if err != nil {
			return err
		}
		if ch.Mutated {
			if err := tx.UpdateFIR(ctx, &ch.FIR); err != nil {
				return err
			}
		}
		for i := range ch.Entries {
			if err := tx.InsertHistory(ctx, &ch.Entries[i]); err != nil {
				return err
			}
		}
		updated, entries = ch.FIR, ch.Entries
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	recordAudit(entries)
	logging.FromContext(ctx).Infow("fir updated", "firId", id, "status", updated.Status, "auditEntries", len(entries))
	return &updated, entries, nil
}

// UpdateFIRStatus applies cmd and returns the refreshed projection
func (s *Service) UpdateFIRStatus(ctx context.Context, id int64, cmd models.UpdateFIRStatusRequest, actor *models.User) (*models.FIRResponse, error) {
	fir, _, err := s.Update(ctx, id, cmd, actor)
	if err != nil {
		return nil, err
	}
	return s.toResponse(ctx, *fir)
}

// GetFIRByID returns the FIR with the given id
func (s *Service) GetFIRByID(ctx context.Context, id int64) (*models.FIRResponse, error) {
	fir, err := s.Store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.toResponse(ctx, *fir)
}

// GetFIRByNumber returns the FIR with the given FIR number
func (s *Service) GetFIRByNumber(ctx context.Context, number string) (*models.FIRResponse, error) {
	fir, err := s.Store.FindByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	return s.toResponse(ctx, *fir)
}

// GetHistory returns the audit trail of a FIR, newest first
func (s *Service) GetHistory(ctx context.Context, id int64) ([]models.FIRHistoryDTO, error) {
	if _, err := s.Store.FindByID(ctx, id); err != nil {
		return nil, err
	}
	entries, err := s.Store.History(ctx, id)
	if err != nil {
		return nil, err
	}
	dtos := make([]models.FIRHistoryDTO, 0, len(entries))
	for _, e := range entries {
		dtos = append(dtos, e.DTO())
	}
	return dtos, nil
}

// GetAllFIRs lists every FIR, newest first
func (s *Service) GetAllFIRs(ctx context.Context) ([]models.FIRResponse, error) {
	return s.list(ctx, query.All())
}

// ListByStatus lists FIRs in the given status
func (s *Service) ListByStatus(ctx context.Context, status models.FIRStatus) ([]models.FIRResponse, error) {
	return s.list(ctx, query.Eq("status", string(status)))
}

// ListByPriority lists FIRs of the given priority
func (s *Service) ListByPriority(ctx context.Context, priority models.Priority) ([]models.FIRResponse, error) {
	return s.list(ctx, query.Eq("priority", string(priority)))
}

// ListByOfficer lists FIRs assigned to an officer id
func (s *Service) ListByOfficer(ctx context.Context, officerID int64) ([]models.FIRResponse, error) {
	return s.list(ctx, query.Eq("assignedOfficerId", officerID))
}

// ListByStation lists FIRs assigned to a station
func (s *Service) ListByStation(ctx context.Context, station string) ([]models.FIRResponse, error) {
	return s.list(ctx, query.Eq("assignedStation", station))
}

// ListByUser lists FIRs filed by a user
func (s *Service) ListByUser(ctx context.Context, userID int64) ([]models.FIRResponse, error) {
	return s.list(ctx, query.Eq("user._id", userID))
}

// ListByComplainantEmail lists FIRs whose complainant email matches exactly
func (s *Service) ListByComplainantEmail(ctx context.Context, email string) ([]models.FIRResponse, error) {
	return s.list(ctx, query.Eq("complainantEmail", email))
}

// SearchParams is a paged, filtered listing request
type SearchParams struct {
	Filters
	Page int
	Size int
}

// Search returns one page of FIRs matching params, newest first
func (s *Service) Search(ctx context.Context, params SearchParams) (*models.PagedResponse, error) {
	criterion, order := BuildFilter(params.Filters, s.Location)
	page := query.NewPageable(params.Page, params.Size)
	firs, total, err := s.Store.FindPage(ctx, criterion, order, page)
	if err != nil {
		return nil, err
	}
	content, err := s.toResponses(ctx, firs)
	if err != nil {
		return nil, err
	}
	meta := page.Meta(total)
	return &models.PagedResponse{
		Content:       content,
		Page:          meta.Page,
		Size:          meta.Size,
		TotalElements: meta.TotalElements,
		TotalPages:    meta.TotalPages,
		HasNext:       meta.HasNext,
		HasPrevious:   meta.HasPrevious,
		IsFirst:       meta.IsFirst,
		IsLast:        meta.IsLast,
	}, nil
}

func (s *Service) list(ctx context.Context, c query.Criterion) ([]models.FIRResponse, error) {
	firs, err := s.Store.Find(ctx, c, query.ByCreatedAtDesc)
	if err != nil {
		return nil, err
	}
	return s.toResponses(ctx, firs)
}

func (s *Service) toResponses(ctx context.Context, firs []models.FIR) ([]models.FIRResponse, error) {
	out := make([]models.FIRResponse, 0, len(firs))
	for _, f := range firs {
		r, err := s.toResponse(ctx, f)
		if err != nil {
			return nil, err
		}
		out = append(out, *r)
	}
	return out, nil
}

func (s *Service) toResponse(ctx context.Context, f models.FIR) (*models.FIRResponse, error) {
	entries, err := s.Store.History(ctx, f.ID)
	if err != nil {
		return nil, err
	}
	history := make([]models.FIRHistoryDTO, 0, len(entries))
	for _, e := range entries {
		history = append(history, e.DTO())
	}
	actionNotes := f.ActionNotes
	if actionNotes == nil {
		actionNotes = []string{}
	}
	evidence := f.EvidenceFiles
	if evidence == nil {
		evidence = []string{}
	}
	return &models.FIRResponse{
		ID:                f.ID,
		FIRNumber:         f.FIRNumber,
		ComplainantName:   f.ComplainantName,
		ComplainantEmail:  f.ComplainantEmail,
		IncidentType:      f.IncidentType,
		Description:       f.Description,
		DateTime:          f.DateTime,
		Priority:          f.Priority,
		Location:          f.Location,
		Status:            f.Status,
		AssignedStation:   f.AssignedStation,
		AssignedOfficer:   f.AssignedOfficer,
		AssignedOfficerID: f.AssignedOfficerID,
		Remarks:           f.Remarks,
		ActionNotes:       actionNotes,
		EvidenceFiles:     evidence,
		CreatedAt:         f.CreatedAt,
		UpdatedAt:         f.UpdatedAt,
		History:           history,
	}, nil
}
