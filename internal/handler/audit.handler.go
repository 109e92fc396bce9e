package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/AliFrzngn/zcoil/internal/repository"
	"github.com/AliFrzngn/zcoil/pkg/middleware"
	"github.com/AliFrzngn/zcoil/pkg/response"
	"github.com/AliFrzngn/zcoil/pkg/xerrors"
)

type AuditHandler struct {
	store repository.AuditStore
}

func NewAuditHandler(store repository.AuditStore) *AuditHandler {
	return &AuditHandler{store: store}
}

// Me handles GET /api/v1/audit-logs/me: the caller's own trail, available
// to every authenticated user.
func (h *AuditHandler) Me(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		response.Error(w, http.StatusUnauthorized, xerrors.ErrUnauthorized.Error())
		return
	}

	page, size := pagination(r)
	entries, total, err := h.store.ListByUser(r.Context(), identity.UserID, page, size)
	if err != nil {
		writeError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, listPayload("audit_logs", entries, total, page, size))
}

// List handles GET /api/v1/audit-logs. Admin only.
func (h *AuditHandler) List(w http.ResponseWriter, r *http.Request) {
	page, size := pagination(r)
	entries, total, err := h.store.List(r.Context(), page, size)
	if err != nil {
		writeError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, listPayload("audit_logs", entries, total, page, size))
}

// ListByUser handles GET /api/v1/audit-logs/user/{user_id}. Admin only.
func (h *AuditHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "user_id")
	if userID == "" {
		response.Error(w, http.StatusBadRequest, "invalid user id")
		return
	}

	page, size := pagination(r)
	entries, total, err := h.store.ListByUser(r.Context(), userID, page, size)
	if err != nil {
		writeError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, listPayload("audit_logs", entries, total, page, size))
}
