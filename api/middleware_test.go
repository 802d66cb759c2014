package api_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/linesmerrill/police-fir-api/api"
	"github.com/linesmerrill/police-fir-api/databases"
	"github.com/linesmerrill/police-fir-api/models"
)

func TestMiddlewareResolvesUser(t *testing.T) {
	m := api.MiddlewareDB{DB: databases.NewMemoryUserDatabase(models.User{ID: 7, Name: "Inspector Rao", Role: models.RolePolice})}

	tests := []struct {
		name   string
		header string
		want   *models.User
	}{
		{"known user", "7", &models.User{ID: 7, Name: "Inspector Rao", Role: models.RolePolice}},
		{"unknown user", "8", nil},
		{"malformed id", "seven", nil},
		{"no header", "", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got *models.User
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got = api.UserFromContext(r.Context())
			})
			req := httptest.NewRequest("GET", "/api/v1/fir", nil)
			if tt.header != "" {
				req.Header.Set(api.UserHeader, tt.header)
			}

			m.Middleware(next).ServeHTTP(httptest.NewRecorder(), req)

			assert.Equal(t, tt.want, got)
		})
	}
}

type brokenUsers struct{}

func (brokenUsers) FindByID(context.Context, int64) (*models.User, error) {
	return nil, errors.New("server selection timeout")
}

func (brokenUsers) Count(context.Context) (int64, error) { return 0, nil }

func (brokenUsers) CountByRole(context.Context, models.Role) (int64, error) { return 0, nil }

func TestMiddlewareFailsWhenUserStoreFails(t *testing.T) {
	m := api.MiddlewareDB{DB: brokenUsers{}}
	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true })

	req := httptest.NewRequest("PATCH", "/api/v1/fir/1/status", nil)
	req.Header.Set(api.UserHeader, "7")
	rr := httptest.NewRecorder()
	m.Middleware(next).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.False(t, called)
	assert.Contains(t, rr.Body.String(), "failed to resolve acting user")

	// no header never touches the store
	rr = httptest.NewRecorder()
	m.Middleware(next).ServeHTTP(rr, httptest.NewRequest("GET", "/api/v1/fir", nil))
	assert.True(t, called)
}

func TestRequireUser(t *testing.T) {
	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true })

	rr := httptest.NewRecorder()
	api.RequireUser(next).ServeHTTP(rr, httptest.NewRequest("GET", "/api/v1/fir/my", nil))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, `{"error": "unauthorized"}`, rr.Body.String())
	assert.False(t, called)

	req := httptest.NewRequest("GET", "/api/v1/fir/my", nil)
	req = req.WithContext(api.WithUser(req.Context(), &models.User{ID: 1}))
	rr = httptest.NewRecorder()
	api.RequireUser(next).ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, called)
}

func TestTimeoutMiddlewarePassesResponseThrough(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"ok": true}`))
	})

	rr := httptest.NewRecorder()
	api.TimeoutMiddleware(time.Second)(next).ServeHTTP(rr, httptest.NewRequest("POST", "/api/v1/fir", nil))

	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.Equal(t, `{"ok": true}`, rr.Body.String())
}

func TestTimeoutMiddlewareExpires(t *testing.T) {
	release := make(chan struct{})
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
		<-release
		w.Write([]byte("too late"))
	})

	rr := httptest.NewRecorder()
	api.TimeoutMiddleware(10*time.Millisecond)(next).ServeHTTP(rr, httptest.NewRequest("GET", "/api/v1/fir", nil))
	close(release)

	assert.Equal(t, http.StatusRequestTimeout, rr.Code)
	assert.Contains(t, rr.Body.String(), "Request timeout")
	assert.NotContains(t, rr.Body.String(), "too late")
}

func TestMetricsMiddlewareSetsRequestID(t *testing.T) {
	var id string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id = api.RequestIDFromContext(r.Context())
		w.WriteHeader(http.StatusTeapot)
	})

	rr := httptest.NewRecorder()
	api.MetricsMiddleware(next).ServeHTTP(rr, httptest.NewRequest("GET", "/api/v1/fir", nil))

	assert.Equal(t, http.StatusTeapot, rr.Code)
	assert.NotEmpty(t, id)
	assert.Equal(t, id, rr.Header().Get("X-Request-ID"))
}

func TestHealthCheckHandler(t *testing.T) {
	rr := httptest.NewRecorder()
	api.HealthCheckHandler(rr, httptest.NewRequest("GET", "/health", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, `{"alive":true}`, rr.Body.String())
}
