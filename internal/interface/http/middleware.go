package http

import (
	"context"
	"errors"
	"net/http"
	"strings"

	domuser "example.com/storefront/internal/domain/user"
)

// session is the authenticated shopper or admin behind a request, decoded
// from the bearer token the identity provider issued.
type session struct {
	UserID   int64
	RoleCode domuser.RoleCode
	Email    string
	Name     string
}

func (s *session) isAdmin() bool {
	return s.RoleCode == domuser.RoleCodeAdmin
}

type sessionCtxKey struct{}

var (
	errUnauthenticated = errors.New("unauthenticated")
	errForbidden       = errors.New("forbidden")
)

// bearerToken pulls the token out of the Authorization header, or ""
// when the header is absent or uses another scheme.
func bearerToken(r *http.Request) string {
	const prefix = "Bearer "
	h := r.Header.Get("Authorization")
	if !strings.HasPrefix(h, prefix) {
		return ""
	}
	return strings.TrimSpace(h[len(prefix):])
}

func (a *API) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			respondError(w, http.StatusUnauthorized, errUnauthenticated)
			return
		}
		claims, err := a.tokenSvc.ParseToken(token)
		if err != nil {
			respondError(w, http.StatusUnauthorized, errUnauthenticated)
			return
		}
		ctx := context.WithValue(r.Context(), sessionCtxKey{}, &session{
			UserID:   claims.UserID,
			RoleCode: claims.RoleCode,
			Email:    claims.Email,
			Name:     claims.Name,
		})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// adminOnly guards the back-office routes. The storefront knows exactly
// two roles, USER and ADMIN, so there is no role matrix to consult.
func (a *API) adminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := sessionFrom(r.Context())
		switch {
		case sess == nil:
			respondError(w, http.StatusUnauthorized, errUnauthenticated)
		case !sess.isAdmin():
			respondError(w, http.StatusForbidden, errForbidden)
		default:
			next.ServeHTTP(w, r)
		}
	})
}

func sessionFrom(ctx context.Context) *session {
	sess, _ := ctx.Value(sessionCtxKey{}).(*session)
	return sess
}
