package api

import (
	"net/http"
	"strconv"

	"github.com/pkg/errors"

	"github.com/linesmerrill/police-fir-api/config"
	"github.com/linesmerrill/police-fir-api/databases"
	"github.com/linesmerrill/police-fir-api/logging"
)

// UserHeader carries the id of the user the upstream gateway authenticated
const UserHeader = "X-User-ID"

// MiddlewareDB is a struct that holds the database
type MiddlewareDB struct {
	DB databases.UserDatabase
}

// Middleware resolves the acting user from UserHeader and stores it on the
// request context. A missing, malformed or unknown id leaves the request
// without a user; such requests act as the system. Any other lookup failure
// ends the request with a 500 so nothing is attributed to the wrong actor.
func (m MiddlewareDB) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		log := logging.FromContext(r.Context())
		raw := r.Header.Get(UserHeader)
		if raw == "" {
			next.ServeHTTP(w, r)
			return
		}
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			log.Warnw("ignoring malformed user id", "header", raw, "url", r.URL)
			next.ServeHTTP(w, r)
			return
		}

		ctx, cancel := WithQueryTimeout(r.Context())
		user, err := m.DB.FindByID(ctx, id)
		cancel()
		if err != nil {
			if !errors.Is(err, databases.ErrNotFound) {
				config.ErrorStatus("failed to resolve acting user", http.StatusInternalServerError, w, err)
				return
			}
			log.Warnw("acting user not found", "userId", id, "url", r.URL, "error", err)
			next.ServeHTTP(w, r)
			return
		}
		log.Debugf("User %d acting on %s", user.ID, r.URL.Path)
		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
	})
}

// RequireUser rejects requests that carry no acting user
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if UserFromContext(r.Context()) == nil {
			logging.FromContext(r.Context()).Errorw("unauthorized",
				"url", r.URL)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error": "unauthorized"}`))
			return
		}
		next.ServeHTTP(w, r)
	})
}
