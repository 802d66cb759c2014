package handlers

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/linesmerrill/police-fir-api/api"
	"github.com/linesmerrill/police-fir-api/api/scheduler"
	"github.com/linesmerrill/police-fir-api/config"
	"github.com/linesmerrill/police-fir-api/databases"
	"github.com/linesmerrill/police-fir-api/firs"
)

// App stores the router and db connection, so it can be reused
type App struct {
	Router    *mux.Router
	Config    config.Config
	Service   *firs.Service
	Scheduler *scheduler.Scheduler
	client    databases.ClientHelper
	dbHelper  databases.DatabaseHelper
}

// New creates a new mux router and all the routes
func (a *App) New() *mux.Router {
	m := api.MiddlewareDB{DB: a.Service.Users}
	f := FIR{Service: a.Service}

	r := mux.NewRouter()
	r.Use(api.MetricsMiddleware, api.TimeoutMiddleware(a.Config.RequestTimeout))

	// healthchex
	r.HandleFunc("/health", api.HealthCheckHandler).Methods("GET")
	r.Handle("/metrics", api.MetricsHandler()).Methods("GET")

	apiCreate := r.PathPrefix("/api/v1").Subrouter()
	apiCreate.Use(m.Middleware)

	apiCreate.Handle("/fir", api.RequireUser(http.HandlerFunc(f.CreateFIRHandler))).Methods("POST")
	apiCreate.Handle("/fir", http.HandlerFunc(f.FIRsHandler)).Methods("GET")
	apiCreate.Handle("/fir/paginated", http.HandlerFunc(f.FIRsPaginatedHandler)).Methods("GET")
	apiCreate.Handle("/fir/my", api.RequireUser(http.HandlerFunc(f.MyFIRsHandler))).Methods("GET")
	apiCreate.Handle("/fir/stats", http.HandlerFunc(f.DashboardStatsHandler)).Methods("GET")
	apiCreate.Handle("/fir/number/{fir_number}", http.HandlerFunc(f.FIRByNumberHandler)).Methods("GET")
	apiCreate.Handle("/fir/status/{status}", http.HandlerFunc(f.FIRsByStatusHandler)).Methods("GET")
	apiCreate.Handle("/fir/priority/{priority}", http.HandlerFunc(f.FIRsByPriorityHandler)).Methods("GET")
	apiCreate.Handle("/fir/officer/{officer_id}", http.HandlerFunc(f.FIRsByOfficerHandler)).Methods("GET")
	apiCreate.Handle("/fir/station/{station}", http.HandlerFunc(f.FIRsByStationHandler)).Methods("GET")
	apiCreate.Handle("/fir/email/{email}", http.HandlerFunc(f.FIRsByComplainantEmailHandler)).Methods("GET")
	apiCreate.Handle("/fir/{fir_id:[0-9]+}/history", http.HandlerFunc(f.FIRHistoryHandler)).Methods("GET")
	apiCreate.Handle("/fir/{fir_id:[0-9]+}/status", http.HandlerFunc(f.UpdateFIRStatusHandler)).Methods("PATCH")
	apiCreate.Handle("/fir/{fir_id:[0-9]+}", http.HandlerFunc(f.FIRByIDHandler)).Methods("GET")

	return r
}

// Initialize is invoked by main to connect with the database and create a router
func (a *App) Initialize() error {
	api.SetQueryTimeout(a.Config.QueryTimeout)

	var (
		store databases.FIRStore
		users databases.UserDatabase
	)
	switch a.Config.StoreDriver {
	case "memory":
		zap.S().Warn("using the in-memory store, data is lost on restart")
		store = databases.NewMemoryFIRStore()
		users = databases.NewMemoryUserDatabase()
	case "", "mongo":
		client, err := databases.NewClient(&a.Config)
		if err != nil {
			// if we fail to create a new database client, then kill the pod
			zap.S().With(err).Error("failed to create new client")
			return err
		}
		a.client = client

		a.dbHelper = databases.NewDatabase(&a.Config, client)
		ctx, cancel := api.WithQueryTimeout(context.Background())
		defer cancel()
		err = client.Connect(ctx)
		if err != nil {
			// if we fail to connect to the database, then kill the pod
			zap.S().With(err).Error("failed to connect to database")
			return err
		}
		zap.S().Info("police-fir-api has connected to the database")

		if err = databases.EnsureFIRIndexes(ctx, a.dbHelper); err != nil {
			zap.S().With(err).Error("failed to ensure indexes")
			return err
		}
		store = databases.NewFIRDatabase(a.dbHelper)
		users = databases.NewUserDatabase(a.dbHelper)
	default:
		return errors.Errorf("unknown store driver %q", a.Config.StoreDriver)
	}

	a.Service = firs.New(store, users, &a.Config)

	a.Scheduler = scheduler.NewScheduler(a.Service, a.Config.StatsSnapshotSchedule)
	if err := a.Scheduler.Start(); err != nil {
		return err
	}

	// initialize api router
	a.initializeRoutes()
	return nil
}

// Close stops background jobs and disconnects from the database
func (a *App) Close(ctx context.Context) {
	if a.Scheduler != nil {
		a.Scheduler.Stop()
	}
	if a.client != nil {
		if err := a.client.Disconnect(ctx); err != nil {
			zap.S().Errorw("failed to disconnect from database", "error", err)
		}
	}
}

func (a *App) initializeRoutes() {
	a.Router = a.New()
}
