package models

import "time"

// DashboardStats holds the aggregate counts shown on the admin dashboard
type DashboardStats struct {
	TotalFirs              int64            `json:"totalFirs" bson:"totalFirs"`
	PendingFirs            int64            `json:"pendingFirs" bson:"pendingFirs"`
	ApprovedFirs           int64            `json:"approvedFirs" bson:"approvedFirs"`
	RejectedFirs           int64            `json:"rejectedFirs" bson:"rejectedFirs"`
	UnderInvestigationFirs int64            `json:"underInvestigationFirs" bson:"underInvestigationFirs"`
	InProgressFirs         int64            `json:"inProgressFirs" bson:"inProgressFirs"`
	ClosedFirs             int64            `json:"closedFirs" bson:"closedFirs"`
	EmergencyFirs          int64            `json:"emergencyFirs" bson:"emergencyFirs"`
	TotalUsers             int64            `json:"totalUsers" bson:"totalUsers"`
	PoliceOfficers         int64            `json:"policeOfficers" bson:"policeOfficers"`
	FirsByIncidentType     map[string]int64 `json:"firsByIncidentType" bson:"firsByIncidentType"`
	FirsByPriority         map[string]int64 `json:"firsByPriority" bson:"firsByPriority"`
	FirsByStatus           map[string]int64 `json:"firsByStatus" bson:"firsByStatus"`
}

// DashboardSnapshot is a point in time copy of the dashboard stats, written by
// the scheduler into the dashboard_snapshots collection
type DashboardSnapshot struct {
	TakenAt time.Time      `json:"takenAt" bson:"takenAt"`
	Stats   DashboardStats `json:"stats" bson:"stats"`
}
