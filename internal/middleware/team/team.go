package team

import (
	"context"
	"net/http"
	"strings"
)

const (
	HeaderTeamID   = "X-Team-ID"
	HeaderTeamName = "X-Team-Name"
	HeaderUserID   = "X-User-ID"
)

// Identity is the active team and user of a request.
type Identity struct {
	TeamID   string
	TeamName string
	UserID   string
}

type ctxKey struct{}

// Require reads the active team and user from the request headers. Requests
// without them are rejected.
func Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := Identity{
			TeamID:   strings.TrimSpace(r.Header.Get(HeaderTeamID)),
			TeamName: strings.TrimSpace(r.Header.Get(HeaderTeamName)),
			UserID:   strings.TrimSpace(r.Header.Get(HeaderUserID)),
		}
		if id.TeamID == "" || id.UserID == "" {
			http.Error(w, "missing active team or user", http.StatusBadRequest)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
	})
}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(ctxKey{}).(Identity)
	return id, ok
}
