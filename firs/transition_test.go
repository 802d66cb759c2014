package firs_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/linesmerrill/police-fir-api/firs"
	"github.com/linesmerrill/police-fir-api/models"
)

var filedAt = time.Date(2024, 4, 10, 8, 0, 0, 0, time.UTC)

func pendingFIR() models.FIR {
	return models.FIR{
		ID:          9,
		FIRNumber:   "FIR-2024-0009",
		Status:      models.StatusPending,
		ActionNotes: []string{},
		CreatedAt:   filedAt,
		UpdatedAt:   filedAt,
	}
}

func actions(entries []models.FIRHistory) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Action)
	}
	return out
}

func TestEngineApply_StatusAndRemarks(t *testing.T) {
	ch, err := firs.Engine{}.Apply(pendingFIR(), models.UpdateFIRStatusRequest{
		Status:  statusPtr(models.StatusApproved),
		Remarks: strPtr("verified"),
	}, officer.Ref(), filedAt.Add(time.Hour))

	assert.NoError(t, err)
	assert.True(t, ch.Mutated)
	assert.Equal(t, models.StatusApproved, ch.FIR.Status)
	assert.Equal(t, "verified", ch.FIR.Remarks)
	assert.Equal(t, []string{models.ActionStatusChange, models.ActionComment}, actions(ch.Entries))
	assert.Equal(t, "Status changed from PENDING to APPROVED", ch.Entries[0].Description)
	assert.Equal(t, "Added/Updated remark: verified", ch.Entries[1].Description)
	for _, e := range ch.Entries {
		assert.Equal(t, int64(9), e.FIRID)
		assert.Equal(t, officer.Ref(), e.ChangedBy)
	}
	assert.Equal(t, filedAt.Add(time.Hour), ch.FIR.UpdatedAt)
	assert.Equal(t, filedAt, ch.FIR.CreatedAt)
}

func TestEngineApply_SameStatusIsNoop(t *testing.T) {
	ch, err := firs.Engine{}.Apply(pendingFIR(), models.UpdateFIRStatusRequest{
		Status:  statusPtr(models.StatusPending),
		Remarks: strPtr(""),
	}, nil, filedAt.Add(time.Hour))

	assert.NoError(t, err)
	assert.False(t, ch.Mutated)
	assert.Empty(t, ch.Entries)
	assert.Equal(t, filedAt, ch.FIR.UpdatedAt)
}

func TestEngineApply_IsIdempotentForStatusAndRemarks(t *testing.T) {
	cmd := models.UpdateFIRStatusRequest{Status: statusPtr(models.StatusClosed), Remarks: strPtr("resolved")}
	first, err := firs.Engine{}.Apply(pendingFIR(), cmd, nil, filedAt.Add(time.Minute))
	assert.NoError(t, err)

	second, err := firs.Engine{}.Apply(first.FIR, cmd, nil, filedAt.Add(2*time.Minute))
	assert.NoError(t, err)
	assert.False(t, second.Mutated)
	assert.Empty(t, second.Entries)
	assert.Equal(t, first.FIR, second.FIR)
}

func TestEngineApply_ActionNotesAppend(t *testing.T) {
	current := pendingFIR()
	current.ActionNotes = []string{"visited scene"}

	ch, err := firs.Engine{}.Apply(current, models.UpdateFIRStatusRequest{ActionNote: strPtr("collected cctv")}, nil, filedAt.Add(time.Minute))
	assert.NoError(t, err)
	assert.Equal(t, []string{"visited scene", "collected cctv"}, ch.FIR.ActionNotes)
	assert.Equal(t, []string{"visited scene"}, current.ActionNotes)
	assert.Equal(t, []string{models.ActionNote}, actions(ch.Entries))
	assert.Equal(t, "Added action note", ch.Entries[0].Description)
	assert.Nil(t, ch.Entries[0].ChangedBy)
}

func TestEngineApply_AssignmentWithoutAudit(t *testing.T) {
	ch, err := firs.Engine{}.Apply(pendingFIR(), models.UpdateFIRStatusRequest{
		AssignedStation:   strPtr("Central"),
		AssignedOfficer:   strPtr("Inspector Rao"),
		AssignedOfficerID: int64Ptr(2),
	}, nil, filedAt.Add(time.Minute))

	assert.NoError(t, err)
	assert.True(t, ch.Mutated)
	assert.Empty(t, ch.Entries)
	assert.Equal(t, "Central", ch.FIR.AssignedStation)
	assert.Equal(t, "Inspector Rao", ch.FIR.AssignedOfficer)
	assert.Equal(t, int64(2), *ch.FIR.AssignedOfficerID)
	assert.Equal(t, filedAt.Add(time.Minute), ch.FIR.UpdatedAt)
}

func TestEngineApply_AssignmentAudited(t *testing.T) {
	e := firs.Engine{AuditAssignments: true}
	ch, err := e.Apply(pendingFIR(), models.UpdateFIRStatusRequest{
		AssignedStation:   strPtr("Central"),
		AssignedOfficerID: int64Ptr(2),
	}, admin.Ref(), filedAt.Add(time.Minute))

	assert.NoError(t, err)
	assert.Equal(t, []string{models.ActionAssignment}, actions(ch.Entries))
	assert.Equal(t, `Assignment changed: station "" to "Central", officer id none to 2`, ch.Entries[0].Description)

	again, err := e.Apply(ch.FIR, models.UpdateFIRStatusRequest{AssignedOfficerID: int64Ptr(2)}, admin.Ref(), filedAt.Add(2*time.Minute))
	assert.NoError(t, err)
	assert.False(t, again.Mutated)
	assert.Empty(t, again.Entries)
}

func TestEngineApply_UpdatedAtStrictlyAdvances(t *testing.T) {
	ch, err := firs.Engine{}.Apply(pendingFIR(), models.UpdateFIRStatusRequest{ActionNote: strPtr("note")}, nil, filedAt)
	assert.NoError(t, err)
	assert.Equal(t, filedAt.Add(time.Millisecond), ch.FIR.UpdatedAt)

	skewed, err := firs.Engine{}.Apply(ch.FIR, models.UpdateFIRStatusRequest{ActionNote: strPtr("note")}, nil, filedAt.Add(-time.Hour))
	assert.NoError(t, err)
	assert.True(t, skewed.FIR.UpdatedAt.After(ch.FIR.UpdatedAt))
}

func TestEngineApply_UnknownStatus(t *testing.T) {
	_, err := firs.Engine{}.Apply(pendingFIR(), models.UpdateFIRStatusRequest{Status: statusPtr("ARCHIVED")}, nil, filedAt)
	assert.True(t, errors.Is(err, firs.ErrInvalidRequest))
}

func TestEngineApply_StatusIsCaseInsensitive(t *testing.T) {
	ch, err := firs.Engine{}.Apply(pendingFIR(), models.UpdateFIRStatusRequest{Status: statusPtr("under_investigation")}, nil, filedAt.Add(time.Second))
	assert.NoError(t, err)
	assert.Equal(t, models.StatusUnderInvestigation, ch.FIR.Status)
}

func TestEngineApply_AnyTransitionReopensClosed(t *testing.T) {
	current := pendingFIR()
	current.Status = models.StatusClosed

	ch, err := firs.Engine{Policy: firs.AnyTransition{}}.Apply(current, models.UpdateFIRStatusRequest{Status: statusPtr(models.StatusInProgress)}, nil, filedAt.Add(time.Second))
	assert.NoError(t, err)
	assert.Equal(t, models.StatusInProgress, ch.FIR.Status)
}

func TestEngineApply_StrictTransitionsRejectLeavingTerminal(t *testing.T) {
	strict := firs.Engine{Policy: firs.StrictTransitions()}
	for _, terminal := range []models.FIRStatus{models.StatusClosed, models.StatusRejected} {
		current := pendingFIR()
		current.Status = terminal

		_, err := strict.Apply(current, models.UpdateFIRStatusRequest{Status: statusPtr(models.StatusPending)}, nil, filedAt.Add(time.Second))
		assert.True(t, errors.Is(err, firs.ErrInvalidTransition), terminal)

		// non status fields stay editable
		ch, err := strict.Apply(current, models.UpdateFIRStatusRequest{Status: statusPtr(terminal), Remarks: strPtr("archived")}, nil, filedAt.Add(time.Second))
		assert.NoError(t, err)
		assert.Equal(t, []string{models.ActionComment}, actions(ch.Entries))
	}

	ch, err := strict.Apply(pendingFIR(), models.UpdateFIRStatusRequest{Status: statusPtr(models.StatusRejected)}, nil, filedAt.Add(time.Second))
	assert.NoError(t, err)
	assert.Equal(t, models.StatusRejected, ch.FIR.Status)
}

func TestEngineApply_WhitespaceTextIsKept(t *testing.T) {
	ch, err := firs.Engine{}.Apply(pendingFIR(), models.UpdateFIRStatusRequest{
		Remarks:    strPtr("  "),
		ActionNote: strPtr(" "),
	}, nil, filedAt.Add(time.Hour))

	assert.NoError(t, err)
	assert.True(t, ch.Mutated)
	assert.Equal(t, "  ", ch.FIR.Remarks)
	assert.Equal(t, []string{" "}, ch.FIR.ActionNotes)
	assert.Equal(t, []string{models.ActionComment, models.ActionNote}, actions(ch.Entries))
}
