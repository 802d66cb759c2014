package testhelpers

import (
	"time"

	"github.com/linesmerrill/police-fir-api/databases"
	"github.com/linesmerrill/police-fir-api/firs"
	"github.com/linesmerrill/police-fir-api/models"
)

// Users seeded into every test service
var (
	Citizen = models.User{ID: 1, Name: "Asha Verma", Email: "asha@example.com", Role: models.RoleCitizen}
	Officer = models.User{ID: 2, Name: "Inspector Rao", Email: "rao@police.example.com", Role: models.RolePolice, Station: "Central"}
	Admin   = models.User{ID: 3, Name: "Admin", Email: "admin@police.example.com", Role: models.RoleAdmin}
)

// NewService returns a FIR service over empty in-memory stores seeded with
// Citizen, Officer and Admin
func NewService() (*firs.Service, *databases.MemoryFIRStore) {
	store := databases.NewMemoryFIRStore()
	return &firs.Service{
		Store:             store,
		Users:             databases.NewMemoryUserDatabase(Citizen, Officer, Admin),
		Prefix:            "FIR",
		Location:          time.UTC,
		MaxNumberAttempts: 5,
		Now:               time.Now,
	}, store
}
