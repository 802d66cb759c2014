package models

// Role of a user account
type Role string

// User roles. RolePolice is the officer role counted on the dashboard.
const (
	RoleCitizen Role = "CITIZEN"
	RolePolice  Role = "POLICE"
	RoleAdmin   Role = "ADMIN"
)

// User holds the structure for the user collection in mongo. Accounts are
// owned by the identity service; this API only reads them.
type User struct {
	ID      int64  `json:"id" bson:"_id"`
	Name    string `json:"name" bson:"name"`
	Email   string `json:"email" bson:"email"`
	Role    Role   `json:"role" bson:"role"`
	Station string `json:"station,omitempty" bson:"station,omitempty"`
}

// Ref returns the denormalised reference stored on firs and history entries
func (u *User) Ref() *UserRef {
	if u == nil {
		return nil
	}
	return &UserRef{ID: u.ID, Name: u.Name}
}

// UserRef points at a user and keeps the display name at write time
type UserRef struct {
	ID   int64  `json:"id" bson:"_id"`
	Name string `json:"name" bson:"name"`
}
