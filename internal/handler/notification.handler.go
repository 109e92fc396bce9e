package handler

import (
	"encoding/json"
	"net/http"

	"github.com/AliFrzngn/zcoil/internal/domain"
	"github.com/AliFrzngn/zcoil/internal/usecase"
	"github.com/AliFrzngn/zcoil/pkg/middleware"
	"github.com/AliFrzngn/zcoil/pkg/response"
	"github.com/AliFrzngn/zcoil/pkg/xerrors"
)

type NotificationHandler struct {
	uc *usecase.NotificationUsecase
}

func NewNotificationHandler(uc *usecase.NotificationUsecase) *NotificationHandler {
	return &NotificationHandler{uc: uc}
}

func identityOr401(w http.ResponseWriter, r *http.Request) (*domain.ResolvedIdentity, bool) {
	identity, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		response.Error(w, http.StatusUnauthorized, xerrors.ErrUnauthorized.Error())
		return nil, false
	}
	return identity, true
}

type createNotificationRequest struct {
	UserID  int64  `json:"user_id"`
	Title   string `json:"title"`
	Message string `json:"message"`
	Type    string `json:"type"`
}

// Create handles POST /api/v1/notifications. Staff only.
func (h *NotificationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createNotificationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "invalid request")
		return
	}

	n, err := h.uc.Create(r.Context(), &domain.Notification{
		UserID:  req.UserID,
		Title:   req.Title,
		Message: req.Message,
		Type:    req.Type,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, map[string]interface{}{"notification": n})
}

// ListMine handles GET /api/v1/notifications.
func (h *NotificationHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityOr401(w, r)
	if !ok {
		return
	}

	page, size := pagination(r)
	unreadOnly := r.URL.Query().Get("unread_only") == "true"

	items, total, err := h.uc.ListMine(r.Context(), identity, unreadOnly, page, size)
	if err != nil {
		writeError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, listPayload("notifications", items, total, page, size))
}

// Get handles GET /api/v1/notifications/{id}.
func (h *NotificationHandler) Get(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityOr401(w, r)
	if !ok {
		return
	}

	id, err := urlParamInt64(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "invalid notification id")
		return
	}

	n, err := h.uc.Get(r.Context(), identity, id)
	if err != nil {
		writeError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, map[string]interface{}{"notification": n})
}

// MarkRead handles POST /api/v1/notifications/{id}/read.
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityOr401(w, r)
	if !ok {
		return
	}

	id, err := urlParamInt64(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "invalid notification id")
		return
	}

	n, err := h.uc.MarkRead(r.Context(), identity, id)
	if err != nil {
		writeError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, map[string]interface{}{"notification": n})
}

// MarkAllRead handles POST /api/v1/notifications/read-all.
func (h *NotificationHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityOr401(w, r)
	if !ok {
		return
	}

	count, err := h.uc.MarkAllRead(r.Context(), identity)
	if err != nil {
		writeError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, map[string]interface{}{"marked_read": count})
}

// UnreadCount handles GET /api/v1/notifications/unread-count.
func (h *NotificationHandler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityOr401(w, r)
	if !ok {
		return
	}

	count, err := h.uc.UnreadCount(r.Context(), identity)
	if err != nil {
		writeError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, map[string]interface{}{"unread_count": count})
}

// Delete handles DELETE /api/v1/notifications/{id}.
func (h *NotificationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityOr401(w, r)
	if !ok {
		return
	}

	id, err := urlParamInt64(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "invalid notification id")
		return
	}

	if err := h.uc.Delete(r.Context(), identity, id); err != nil {
		writeError(w, err)
		return
	}

	response.NoContent(w)
}
