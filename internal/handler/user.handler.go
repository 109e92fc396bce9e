package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/AliFrzngn/zcoil/internal/domain"
	"github.com/AliFrzngn/zcoil/internal/usecase"
	"github.com/AliFrzngn/zcoil/pkg/middleware"
	"github.com/AliFrzngn/zcoil/pkg/response"
	"github.com/AliFrzngn/zcoil/pkg/xerrors"
)

type UserHandler struct {
	uc *usecase.UserUsecase
}

func NewUserHandler(uc *usecase.UserUsecase) *UserHandler {
	return &UserHandler{uc: uc}
}

// List handles GET /api/v1/users. Admin and manager only, enforced by the
// router.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	page, size := pagination(r)
	f := domain.UserFilter{
		Email:      r.URL.Query().Get("email"),
		Username:   r.URL.Query().Get("username"),
		Role:       r.URL.Query().Get("role"),
		IsActive:   queryBool(r, "is_active"),
		IsVerified: queryBool(r, "is_verified"),
		Page:       page,
		Size:       size,
	}

	users, total, err := h.uc.List(r.Context(), f)
	if err != nil {
		writeError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, listPayload("users", users, total, page, size))
}

type createUserRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
	Bio      string `json:"bio"`
	Role     string `json:"role"`
}

// Create handles POST /api/v1/users. Admin only; the router gates the
// route and the usecase re-checks the actor's role.
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		response.Error(w, http.StatusUnauthorized, xerrors.ErrUnauthorized.Error())
		return
	}

	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "invalid request")
		return
	}

	user, err := h.uc.Create(r.Context(), identity, usecase.CreateUserInput{
		Email:    req.Email,
		Username: req.Username,
		Password: req.Password,
		FullName: req.FullName,
		Phone:    req.Phone,
		Bio:      req.Bio,
		Role:     req.Role,
	}, requestMeta(r))
	if err != nil {
		writeError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, map[string]interface{}{"user": user})
}

// Get handles GET /api/v1/users/{id}. Customers may only read their own
// profile; admins and managers may read anyone's.
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		response.Error(w, http.StatusUnauthorized, xerrors.ErrUnauthorized.Error())
		return
	}

	id, err := urlParamInt64(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "invalid user id")
		return
	}

	if !identity.HasRole(domain.RoleAdmin, domain.RoleManager) && !identity.Owns(strconv.FormatInt(id, 10)) {
		response.Error(w, http.StatusForbidden, xerrors.ErrForbidden.Error())
		return
	}

	user, err := h.uc.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, map[string]interface{}{"user": user})
}

type updateUserRequest struct {
	Email       *string `json:"email"`
	Username    *string `json:"username"`
	FullName    *string `json:"full_name"`
	Phone       *string `json:"phone"`
	AvatarURL   *string `json:"avatar_url"`
	Bio         *string `json:"bio"`
	Role        *string `json:"role"`
	IsActive    *bool   `json:"is_active"`
	IsVerified  *bool   `json:"is_verified"`
	IsSuperuser *bool   `json:"is_superuser"`
}

// Update handles PUT /api/v1/users/{id}. Ownership and restricted-field
// rules live in the usecase.
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		response.Error(w, http.StatusUnauthorized, xerrors.ErrUnauthorized.Error())
		return
	}

	id, err := urlParamInt64(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "invalid user id")
		return
	}

	var req updateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "invalid request")
		return
	}

	user, err := h.uc.Update(r.Context(), identity, id, domain.UserUpdate{
		Email:       req.Email,
		Username:    req.Username,
		FullName:    req.FullName,
		Phone:       req.Phone,
		AvatarURL:   req.AvatarURL,
		Bio:         req.Bio,
		Role:        req.Role,
		IsActive:    req.IsActive,
		IsVerified:  req.IsVerified,
		IsSuperuser: req.IsSuperuser,
	}, requestMeta(r))
	if err != nil {
		writeError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, map[string]interface{}{"user": user})
}

// Delete handles DELETE /api/v1/users/{id}. Admin only, and never oneself.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		response.Error(w, http.StatusUnauthorized, xerrors.ErrUnauthorized.Error())
		return
	}

	id, err := urlParamInt64(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "invalid user id")
		return
	}

	if err := h.uc.Delete(r.Context(), identity, id, requestMeta(r)); err != nil {
		writeError(w, err)
		return
	}

	response.NoContent(w)
}
