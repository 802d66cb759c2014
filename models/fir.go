package models

import (
	"strings"
	"time"
)

// FIRStatus is the investigative state of a FIR
type FIRStatus string

// FIR statuses
const (
	StatusPending            FIRStatus = "PENDING"
	StatusApproved           FIRStatus = "APPROVED"
	StatusRejected           FIRStatus = "REJECTED"
	StatusUnderInvestigation FIRStatus = "UNDER_INVESTIGATION"
	StatusInProgress         FIRStatus = "IN_PROGRESS"
	StatusClosed             FIRStatus = "CLOSED"
)

// FIRStatuses lists every status in declaration order
var FIRStatuses = []FIRStatus{
	StatusPending,
	StatusApproved,
	StatusRejected,
	StatusUnderInvestigation,
	StatusInProgress,
	StatusClosed,
}

// ParseFIRStatus matches s against the known statuses, ignoring case and
// surrounding whitespace. ok is false for anything else.
func ParseFIRStatus(s string) (FIRStatus, bool) {
	v := FIRStatus(strings.ToUpper(strings.TrimSpace(s)))
	for _, st := range FIRStatuses {
		if st == v {
			return st, true
		}
	}
	return "", false
}

// Valid reports whether s is one of the enumerated statuses
func (s FIRStatus) Valid() bool {
	for _, st := range FIRStatuses {
		if st == s {
			return true
		}
	}
	return false
}

// Priority of a FIR
type Priority string

// FIR priorities
const (
	PriorityLow       Priority = "LOW"
	PriorityMedium    Priority = "MEDIUM"
	PriorityHigh      Priority = "HIGH"
	PriorityEmergency Priority = "EMERGENCY"
)

// Priorities lists every priority in declaration order
var Priorities = []Priority{
	PriorityLow,
	PriorityMedium,
	PriorityHigh,
	PriorityEmergency,
}

// ParsePriority matches s against the known priorities, ignoring case.
func ParsePriority(s string) (Priority, bool) {
	v := Priority(strings.ToUpper(strings.TrimSpace(s)))
	for _, p := range Priorities {
		if p == v {
			return p, true
		}
	}
	return "", false
}

// FIR holds the structure for the firs collection in mongo
type FIR struct {
	ID                int64     `json:"id" bson:"_id"`
	FIRNumber         string    `json:"firNumber" bson:"firNumber"`
	ComplainantName   string    `json:"complainantName" bson:"complainantName"`
	ComplainantEmail  string    `json:"complainantEmail" bson:"complainantEmail"`
	IncidentType      string    `json:"incidentType" bson:"incidentType"`
	Description       string    `json:"description" bson:"description"`
	DateTime          time.Time `json:"dateTime" bson:"dateTime"`
	Priority          Priority  `json:"priority" bson:"priority"`
	Location          string    `json:"location" bson:"location"`
	Status            FIRStatus `json:"status" bson:"status"`
	AssignedStation   string    `json:"assignedStation,omitempty" bson:"assignedStation,omitempty"`
	AssignedOfficer   string    `json:"assignedOfficer,omitempty" bson:"assignedOfficer,omitempty"`
	AssignedOfficerID *int64    `json:"assignedOfficerId,omitempty" bson:"assignedOfficerId,omitempty"`
	Remarks           string    `json:"remarks,omitempty" bson:"remarks,omitempty"`
	ActionNotes       []string  `json:"actionNotes" bson:"actionNotes"`
	EvidenceFiles     []string  `json:"evidenceFiles" bson:"evidenceFiles"`
	User              *UserRef  `json:"user,omitempty" bson:"user,omitempty"`
	CreatedAt         time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt" bson:"updatedAt"`
}

// Field returns the value stored under the bson field name. It backs the
// in-memory evaluation of query criteria.
func (f *FIR) Field(name string) interface{} {
	switch name {
	case "_id":
		return f.ID
	case "firNumber":
		return f.FIRNumber
	case "complainantName":
		return f.ComplainantName
	case "complainantEmail":
		return f.ComplainantEmail
	case "incidentType":
		return f.IncidentType
	case "description":
		return f.Description
	case "dateTime":
		return f.DateTime
	case "priority":
		return string(f.Priority)
	case "location":
		return f.Location
	case "status":
		return string(f.Status)
	case "assignedStation":
		return f.AssignedStation
	case "assignedOfficer":
		return f.AssignedOfficer
	case "assignedOfficerId":
		if f.AssignedOfficerID == nil {
			return nil
		}
		return *f.AssignedOfficerID
	case "remarks":
		return f.Remarks
	case "user._id":
		if f.User == nil {
			return nil
		}
		return f.User.ID
	case "createdAt":
		return f.CreatedAt
	case "updatedAt":
		return f.UpdatedAt
	}
	return nil
}

// Clone returns a deep copy so stored records never share slices with callers
func (f FIR) Clone() FIR {
	c := f
	c.ActionNotes = append([]string(nil), f.ActionNotes...)
	c.EvidenceFiles = append([]string(nil), f.EvidenceFiles...)
	if f.AssignedOfficerID != nil {
		id := *f.AssignedOfficerID
		c.AssignedOfficerID = &id
	}
	if f.User != nil {
		u := *f.User
		c.User = &u
	}
	return c
}

// FIRRequest is the body used to file a new FIR
type FIRRequest struct {
	IncidentType  string    `json:"incidentType"`
	Description   string    `json:"description"`
	DateTime      time.Time `json:"dateTime"`
	Priority      Priority  `json:"priority"`
	Location      string    `json:"location"`
	EvidenceFiles []string  `json:"evidenceFiles"`
}

// UpdateFIRStatusRequest carries an update command. A nil field leaves the
// corresponding FIR field untouched.
type UpdateFIRStatusRequest struct {
	Status            *FIRStatus `json:"status,omitempty"`
	Remarks           *string    `json:"remarks,omitempty"`
	ActionNote        *string    `json:"actionNote,omitempty"`
	AssignedStation   *string    `json:"assignedStation,omitempty"`
	AssignedOfficer   *string    `json:"assignedOfficer,omitempty"`
	AssignedOfficerID *int64     `json:"assignedOfficerId,omitempty"`
}

// FIRResponse is the projection of a FIR returned to callers
type FIRResponse struct {
	ID                int64           `json:"id"`
	FIRNumber         string          `json:"firNumber"`
	ComplainantName   string          `json:"complainantName"`
	ComplainantEmail  string          `json:"complainantEmail"`
	IncidentType      string          `json:"incidentType"`
	Description       string          `json:"description"`
	DateTime          time.Time       `json:"dateTime"`
	Priority          Priority        `json:"priority"`
	Location          string          `json:"location"`
	Status            FIRStatus       `json:"status"`
	AssignedStation   string          `json:"assignedStation"`
	AssignedOfficer   string          `json:"assignedOfficer"`
	AssignedOfficerID *int64          `json:"assignedOfficerId"`
	Remarks           string          `json:"remarks"`
	ActionNotes       []string        `json:"actionNotes"`
	EvidenceFiles     []string        `json:"evidenceFiles"`
	CreatedAt         time.Time       `json:"createdAt"`
	UpdatedAt         time.Time       `json:"updatedAt"`
	History           []FIRHistoryDTO `json:"history"`
}
