package middleware

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/AliFrzngn/zcoil/internal/domain"
	"github.com/AliFrzngn/zcoil/pkg/jwtutil"
	"github.com/AliFrzngn/zcoil/pkg/response"
	"github.com/AliFrzngn/zcoil/pkg/xerrors"
)

// UserGetter is the slice of the user store the auth middleware needs.
type UserGetter interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

// Auth validates the bearer token and resolves the live identity for every
// request. The token only proves who the caller is; role, activation and
// permissions are re-read from storage on each request, so a deactivated
// account is locked out immediately even while its token is unexpired.
type Auth struct {
	verifier *jwtutil.Verifier
	users    UserGetter
	logger   *zap.Logger
}

func NewAuth(verifier *jwtutil.Verifier, users UserGetter, logger *zap.Logger) *Auth {
	return &Auth{verifier: verifier, users: users, logger: logger}
}

// extractToken pulls the credential from the Authorization header, the
// access_token cookie, or the token query parameter, in that order.
func extractToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		parts := strings.SplitN(h, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
	}
	if c, err := r.Cookie("access_token"); err == nil && c.Value != "" {
		return c.Value
	}
	return r.URL.Query().Get("token")
}

func (a *Auth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := extractToken(r)
		if token == "" {
			response.Error(w, http.StatusUnauthorized, xerrors.ErrUnauthorized.Error())
			return
		}

		claims, err := a.verifier.ParseAndValidate(token)
		if err != nil {
			response.Error(w, http.StatusUnauthorized, err.Error())
			return
		}

		userID, err := strconv.ParseInt(claims.UserID(), 10, 64)
		if err != nil {
			response.Error(w, http.StatusUnauthorized, xerrors.ErrInvalidToken.Error())
			return
		}

		user, err := a.users.GetByID(r.Context(), userID)
		if err != nil {
			if errors.Is(err, xerrors.ErrUserNotFound) {
				response.Error(w, http.StatusUnauthorized, xerrors.ErrInvalidToken.Error())
				return
			}
			a.logger.Error("identity lookup failed", zap.Int64("user_id", userID), zap.Error(err))
			response.Error(w, http.StatusInternalServerError, xerrors.ErrInternalServer.Error())
			return
		}

		if !user.IsActive {
			response.Error(w, http.StatusForbidden, xerrors.ErrAccountDisabled.Error())
			return
		}

		identity, err := domain.ResolveIdentity(user)
		if err != nil {
			// Role drifted to an unknown value; fail closed.
			a.logger.Error("identity resolution failed",
				zap.Int64("user_id", userID), zap.String("role", user.Role), zap.Error(err))
			response.Error(w, http.StatusForbidden, xerrors.ErrForbidden.Error())
			return
		}

		ctx := WithIdentity(r.Context(), identity)
		ctx = WithToken(ctx, token)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
