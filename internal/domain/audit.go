package domain

import "time"

// Audit actions recorded by the auth core.
const (
	AuditLogin                 = "login"
	AuditRegister              = "register"
	AuditEmailVerified         = "email_verified"
	AuditPasswordResetRequest  = "password_reset_request"
	AuditPasswordResetComplete = "password_reset_complete"
	AuditUserCreate            = "create"
	AuditUserUpdate            = "update"
	AuditUserDelete            = "delete"
)

type AuditLog struct {
	ID           string            `json:"id"`
	UserID       string            `json:"user_id,omitempty"`
	Action       string            `json:"action"`
	ResourceType string            `json:"resource_type"`
	ResourceID   string            `json:"resource_id,omitempty"`
	Details      string            `json:"details,omitempty"`
	Metadata     map[string]string `json:"metadata,omitempty"`
	IPAddress    string            `json:"ip_address,omitempty"`
	UserAgent    string            `json:"user_agent,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
}
