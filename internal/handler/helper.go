package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/AliFrzngn/zcoil/pkg/response"
	"github.com/AliFrzngn/zcoil/pkg/xerrors"
)

// writeError maps domain errors onto HTTP statuses. Anything unmapped is a
// 500 with a generic message so internals never leak to clients.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, xerrors.ErrInvalidCredentials),
		errors.Is(err, xerrors.ErrUnauthorized),
		errors.Is(err, xerrors.ErrInvalidToken),
		errors.Is(err, xerrors.ErrExpiredToken):
		response.Error(w, http.StatusUnauthorized, err.Error())

	case errors.Is(err, xerrors.ErrAccountDisabled),
		errors.Is(err, xerrors.ErrForbidden),
		errors.Is(err, xerrors.ErrRestrictedField),
		errors.Is(err, xerrors.ErrSelfDeleteForbidden):
		response.Error(w, http.StatusForbidden, err.Error())

	case errors.Is(err, xerrors.ErrUserNotFound),
		errors.Is(err, xerrors.ErrNotFound):
		response.Error(w, http.StatusNotFound, err.Error())

	case errors.Is(err, xerrors.ErrEmailAlreadyInUse),
		errors.Is(err, xerrors.ErrUsernameTaken),
		errors.Is(err, xerrors.ErrSKUAlreadyExists),
		errors.Is(err, xerrors.ErrAlreadyVerified):
		response.Error(w, http.StatusConflict, err.Error())

	case errors.Is(err, xerrors.ErrInvalidRequest),
		errors.Is(err, xerrors.ErrInvalidEmailFormat),
		errors.Is(err, xerrors.ErrEmailRequired),
		errors.Is(err, xerrors.ErrUsernameRequired),
		errors.Is(err, xerrors.ErrUsernameLength),
		errors.Is(err, xerrors.ErrUsernameCharset),
		errors.Is(err, xerrors.ErrUsernameReserved),
		errors.Is(err, xerrors.ErrPasswordTooShort),
		errors.Is(err, xerrors.ErrPasswordTooLong),
		errors.Is(err, xerrors.ErrPasswordUppercase),
		errors.Is(err, xerrors.ErrPasswordLowercase),
		errors.Is(err, xerrors.ErrPasswordDigit),
		errors.Is(err, xerrors.ErrPasswordSpecialChar),
		errors.Is(err, xerrors.ErrPasswordTooCommon),
		errors.Is(err, xerrors.ErrPasswordSequential),
		errors.Is(err, xerrors.ErrUnknownRole),
		errors.Is(err, xerrors.ErrInvalidActionToken):
		response.Error(w, http.StatusBadRequest, err.Error())

	// Expired and unknown action tokens must be indistinguishable on the
	// wire; the distinct sentinel is for server-side logs only.
	case errors.Is(err, xerrors.ErrActionTokenExpired):
		response.Error(w, http.StatusBadRequest, xerrors.ErrInvalidActionToken.Error())

	default:
		response.Error(w, http.StatusInternalServerError, xerrors.ErrInternalServer.Error())
	}
}

func urlParamInt64(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, name), 10, 64)
}

func queryInt(r *http.Request, name string, fallback int) int {
	if v := r.URL.Query().Get(name); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func queryBool(r *http.Request, name string) *bool {
	if v := r.URL.Query().Get(name); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return &b
		}
	}
	return nil
}

func pagination(r *http.Request) (page, size int) {
	return queryInt(r, "page", 1), queryInt(r, "size", 10)
}

// listPayload is the standard paginated collection shape.
func listPayload(key string, items interface{}, total, page, size int) map[string]interface{} {
	return map[string]interface{}{
		key:     items,
		"total": total,
		"page":  page,
		"size":  size,
	}
}
