package api

import (
	"context"
	"time"

	"github.com/linesmerrill/police-fir-api/logging"
	"github.com/linesmerrill/police-fir-api/models"
)

// QueryTimeout is the default timeout for database queries
var QueryTimeout = 10 * time.Second

// SetQueryTimeout overrides QueryTimeout, ignoring non positive values
func SetQueryTimeout(d time.Duration) {
	if d > 0 {
		QueryTimeout = d
	}
}

// WithQueryTimeout creates a context with query timeout
func WithQueryTimeout(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return context.WithTimeout(parent, QueryTimeout)
}

type contextKey int

const userKey contextKey = iota

// WithUser stores the acting user on ctx
func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// UserFromContext returns the acting user, or nil when the request carries
// none
func UserFromContext(ctx context.Context) *models.User {
	u, _ := ctx.Value(userKey).(*models.User)
	return u
}

// WithRequestID stores the request id on ctx
func WithRequestID(ctx context.Context, id string) context.Context {
	return logging.WithRequestID(ctx, id)
}

// RequestIDFromContext returns the id assigned by MetricsMiddleware
func RequestIDFromContext(ctx context.Context) string {
	return logging.RequestID(ctx)
}
