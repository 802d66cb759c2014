package firs

import (
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/linesmerrill/police-fir-api/models"
)

// TransitionPolicy decides whether a FIR may move between two statuses
type TransitionPolicy interface {
	Allow(from, to models.FIRStatus) bool
}

// AnyTransition permits every status change
type AnyTransition struct{}

// Allow always returns true
func (AnyTransition) Allow(from, to models.FIRStatus) bool { return true }

// TerminalStatuses forbids leaving any of the listed statuses
type TerminalStatuses []models.FIRStatus

// StrictTransitions treats CLOSED and REJECTED as final
func StrictTransitions() TerminalStatuses {
	return TerminalStatuses{models.StatusClosed, models.StatusRejected}
}

// Allow returns false when from is terminal
func (t TerminalStatuses) Allow(from, to models.FIRStatus) bool {
	for _, s := range t {
		if s == from {
			return false
		}
	}
	return true
}

// Engine interprets update commands against the current state of a FIR
type Engine struct {
	Policy TransitionPolicy
	// AuditAssignments records an ASSIGNMENT entry whenever the station or
	// officer assignment changes
	AuditAssignments bool
}

// Change is the outcome of applying an update command
type Change struct {
	FIR     models.FIR
	Mutated bool
	Entries []models.FIRHistory
}

// Apply computes the next state of current under cmd. It touches no store;
// entries carry no ids and are stamped with at and actor. current is not
// modified.
func (e Engine) Apply(current models.FIR, cmd models.UpdateFIRStatusRequest, actor *models.UserRef, at time.Time) (Change, error) {
	next := current.Clone()
	ch := Change{}
	entry := func(action, description string) {
		ch.Entries = append(ch.Entries, models.FIRHistory{
			FIRID:       current.ID,
			ChangedBy:   actor,
			Action:      action,
			Description: description,
			Timestamp:   at,
		})
	}

	if cmd.Status != nil {
		to, ok := models.ParseFIRStatus(string(*cmd.Status))
		if !ok {
			return Change{}, errors.Wrapf(ErrInvalidRequest, "unknown status %q", *cmd.Status)
		}
		if to != current.Status {
			if !e.policy().Allow(current.Status, to) {
				return Change{}, errors.Wrapf(ErrInvalidTransition, "%s to %s", current.Status, to)
			}
			next.Status = to
			ch.Mutated = true
			entry(models.ActionStatusChange, fmt.Sprintf("Status changed from %s to %s", current.Status, to))
		}
	}

	if cmd.Remarks != nil && *cmd.Remarks != "" && *cmd.Remarks != current.Remarks {
		next.Remarks = *cmd.Remarks
		ch.Mutated = true
		entry(models.ActionComment, "Added/Updated remark: "+*cmd.Remarks)
	}

	if cmd.ActionNote != nil && *cmd.ActionNote != "" {
		next.ActionNotes = append(next.ActionNotes, *cmd.ActionNote)
		ch.Mutated = true
		entry(models.ActionNote, "Added action note")
	}

	var assignments []string
	if cmd.AssignedStation != nil && *cmd.AssignedStation != current.AssignedStation {
		next.AssignedStation = *cmd.AssignedStation
		assignments = append(assignments, fmt.Sprintf("station %q to %q", current.AssignedStation, *cmd.AssignedStation))
	}
	if cmd.AssignedOfficer != nil && *cmd.AssignedOfficer != current.AssignedOfficer {
		next.AssignedOfficer = *cmd.AssignedOfficer
		assignments = append(assignments, fmt.Sprintf("officer %q to %q", current.AssignedOfficer, *cmd.AssignedOfficer))
	}
	if cmd.AssignedOfficerID != nil && !sameID(current.AssignedOfficerID, *cmd.AssignedOfficerID) {
		id := *cmd.AssignedOfficerID
		next.AssignedOfficerID = &id
		assignments = append(assignments, fmt.Sprintf("officer id %s to %d", formatID(current.AssignedOfficerID), id))
	}
	if len(assignments) > 0 {
		ch.Mutated = true
		if e.AuditAssignments {
			entry(models.ActionAssignment, "Assignment changed: "+strings.Join(assignments, ", "))
		}
	}

	if ch.Mutated {
		next.UpdatedAt = advance(current.UpdatedAt, at)
	}
	ch.FIR = next
	return ch, nil
}

func (e Engine) policy() TransitionPolicy {
	if e.Policy == nil {
		return AnyTransition{}
	}
	return e.Policy
}

func sameID(current *int64, id int64) bool {
	return current != nil && *current == id
}

func formatID(id *int64) string {
	if id == nil {
		return "none"
	}
	return fmt.Sprintf("%d", *id)
}

// advance returns at, or one millisecond past prev when the clock has not
// moved beyond it, so updatedAt strictly increases on every mutation
func advance(prev, at time.Time) time.Time {
	if at.After(prev) {
		return at
	}
	return prev.Add(time.Millisecond)
}
