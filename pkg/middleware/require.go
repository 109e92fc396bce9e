package middleware

import (
	"net/http"

	"github.com/AliFrzngn/zcoil/pkg/response"
	"github.com/AliFrzngn/zcoil/pkg/xerrors"
)

// RequireRoles allows the request through only when the resolved identity
// holds one of the listed roles. Must run after Auth.
func RequireRoles(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := IdentityFrom(r.Context())
			if !ok {
				response.Error(w, http.StatusUnauthorized, xerrors.ErrUnauthorized.Error())
				return
			}
			if !identity.HasRole(roles...) {
				response.Error(w, http.StatusForbidden, xerrors.ErrForbidden.Error())
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequirePermission gates on a derived capability rather than a role name,
// so role-to-permission changes take effect without touching routes.
func RequirePermission(perm string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := IdentityFrom(r.Context())
			if !ok {
				response.Error(w, http.StatusUnauthorized, xerrors.ErrUnauthorized.Error())
				return
			}
			if !identity.HasPermission(perm) {
				response.Error(w, http.StatusForbidden, xerrors.ErrForbidden.Error())
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
