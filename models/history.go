package models

import "time"

// Audit action kinds written to fir_history
const (
	ActionCreated      = "CREATED"
	ActionStatusChange = "STATUS_CHANGE"
	ActionComment      = "COMMENT"
	ActionNote         = "NOTE"
	ActionAssignment   = "ASSIGNMENT"
)

// SystemActor is the display name used when an entry has no acting user
const SystemActor = "System"

// FIRHistory holds one immutable audit entry for a FIR
type FIRHistory struct {
	ID          int64     `json:"id" bson:"_id"`
	FIRID       int64     `json:"firId" bson:"firId"`
	ChangedBy   *UserRef  `json:"changedBy,omitempty" bson:"changedBy,omitempty"`
	Action      string    `json:"action" bson:"action"`
	Description string    `json:"description" bson:"description"`
	Timestamp   time.Time `json:"timestamp" bson:"timestamp"`
}

// FIRHistoryDTO is the projection of an audit entry
type FIRHistoryDTO struct {
	ID          int64     `json:"id"`
	Action      string    `json:"action"`
	Description string    `json:"description"`
	OfficerName string    `json:"officerName"`
	Timestamp   time.Time `json:"timestamp"`
}

// DTO projects the entry, naming the System actor when nobody is attached
func (h FIRHistory) DTO() FIRHistoryDTO {
	name := SystemActor
	if h.ChangedBy != nil {
		name = h.ChangedBy.Name
	}
	return FIRHistoryDTO{
		ID:          h.ID,
		Action:      h.Action,
		Description: h.Description,
		OfficerName: name,
		Timestamp:   h.Timestamp,
	}
}
