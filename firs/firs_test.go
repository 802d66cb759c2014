package firs_test

import (
	"sync"
	"time"

	"github.com/linesmerrill/police-fir-api/databases"
	"github.com/linesmerrill/police-fir-api/firs"
	"github.com/linesmerrill/police-fir-api/models"
)

var (
	citizen = models.User{ID: 1, Name: "Asha Verma", Email: "asha@example.com", Role: models.RoleCitizen}
	officer = models.User{ID: 2, Name: "Inspector Rao", Email: "rao@police.example.com", Role: models.RolePolice, Station: "Central"}
	admin   = models.User{ID: 3, Name: "Admin", Email: "admin@police.example.com", Role: models.RoleAdmin}
)

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

func newTestService(start time.Time) (*firs.Service, *databases.MemoryFIRStore, *clock) {
	store := databases.NewMemoryFIRStore()
	c := &clock{now: start}
	s := &firs.Service{
		Store:             store,
		Users:             databases.NewMemoryUserDatabase(citizen, officer, admin),
		Prefix:            "FIR",
		Location:          time.UTC,
		MaxNumberAttempts: 5,
		Now:               c.Now,
	}
	return s, store, c
}

func strPtr(s string) *string { return &s }

func statusPtr(s models.FIRStatus) *models.FIRStatus { return &s }

func int64Ptr(i int64) *int64 { return &i }
