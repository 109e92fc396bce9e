package domain

import (
	"strconv"
	"time"
)

type User struct {
	ID              int64      `json:"id"`
	Email           string     `json:"email"`
	Username        string     `json:"username"`
	PasswordHash    string     `json:"-"`
	FullName        string     `json:"full_name,omitempty"`
	Phone           string     `json:"phone,omitempty"`
	AvatarURL       string     `json:"avatar_url,omitempty"`
	Bio             string     `json:"bio,omitempty"`
	Role            string     `json:"role"`
	IsActive        bool       `json:"is_active"`
	IsVerified      bool       `json:"is_verified"`
	IsSuperuser     bool       `json:"is_superuser"`
	LastLogin       *time.Time `json:"last_login,omitempty"`
	EmailVerifiedAt *time.Time `json:"email_verified_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// UserFilter narrows user listings.
type UserFilter struct {
	Email      string
	Username   string
	Role       string
	IsActive   *bool
	IsVerified *bool
	Page       int
	Size       int
}

// UserUpdate is a partial update; nil fields are left untouched.
type UserUpdate struct {
	Email       *string
	Username    *string
	FullName    *string
	Phone       *string
	AvatarURL   *string
	Bio         *string
	Role        *string
	IsActive    *bool
	IsVerified  *bool
	IsSuperuser *bool
}

// TouchesRestrictedFields reports whether the update modifies fields only
// admins may change.
func (u *UserUpdate) TouchesRestrictedFields() bool {
	return u.Role != nil || u.IsActive != nil || u.IsVerified != nil || u.IsSuperuser != nil
}

// ResolvedIdentity is the validated, freshly-permission-computed
// representation of the requester, produced once per request by the auth
// middleware and threaded explicitly to handlers. It is never cached across
// requests, so role and activation changes take effect on the next call.
type ResolvedIdentity struct {
	UserID      string   `json:"user_id"`
	Email       string   `json:"email"`
	Username    string   `json:"username"`
	Role        string   `json:"role"`
	IsActive    bool     `json:"is_active"`
	IsVerified  bool     `json:"is_verified"`
	Permissions []string `json:"permissions"`
}

// HasPermission reports whether the identity carries the capability.
func (ri *ResolvedIdentity) HasPermission(perm string) bool {
	for _, p := range ri.Permissions {
		if p == perm {
			return true
		}
	}
	return false
}

// HasRole reports whether the identity's role is in the allow-list.
func (ri *ResolvedIdentity) HasRole(roles ...string) bool {
	for _, r := range roles {
		if ri.Role == r {
			return true
		}
	}
	return false
}

// Owns compares the identity against a resource's owning-user id as strings.
func (ri *ResolvedIdentity) Owns(ownerID string) bool {
	return ri.UserID != "" && ri.UserID == ownerID
}

// ResolveIdentity builds the request-scoped identity snapshot for a live
// user, recomputing permissions from the current role.
func ResolveIdentity(u *User) (*ResolvedIdentity, error) {
	perms, err := DerivePermissions(u.Role)
	if err != nil {
		return nil, err
	}
	return &ResolvedIdentity{
		UserID:      strconv.FormatInt(u.ID, 10),
		Email:       u.Email,
		Username:    u.Username,
		Role:        u.Role,
		IsActive:    u.IsActive,
		IsVerified:  u.IsVerified,
		Permissions: perms,
	}, nil
}
