package router

import (
	"github.com/go-chi/chi/v5"

	"github.com/AliFrzngn/zcoil/internal/domain"
	"github.com/AliFrzngn/zcoil/internal/handler"
	"github.com/AliFrzngn/zcoil/pkg/middleware"
)

// NewUserRouter wires the auth endpoints, the user CRUD and the audit log
// views for the user service.
func NewUserRouter(
	authH *handler.AuthHandler,
	userH *handler.UserHandler,
	auditH *handler.AuditHandler,
	auth *middleware.Auth,
) chi.Router {
	r := newBase("user-service")

	r.Route("/api/v1/auth", func(r chi.Router) {
		// Public
		r.Post("/register", authH.Register)
		r.Post("/login", authH.Login)
		r.Post("/verify-email", authH.VerifyEmail)
		r.Post("/forgot-password", authH.ForgotPassword)
		r.Post("/reset-password", authH.ResetPassword)

		// Authenticated
		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware)
			r.Get("/me", authH.Me)
			r.Post("/refresh", authH.Refresh)
			r.Post("/resend-verification", authH.ResendVerification)
		})
	})

	r.Route("/api/v1/users", func(r chi.Router) {
		r.Use(auth.Middleware)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequirePermission("users:read"))
			r.Get("/", userH.List)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRoles(domain.RoleAdmin))
			r.Post("/", userH.Create)
		})

		// Single-profile reads are owner-or-staff; ownership and
		// restricted-field rules for updates are enforced in the usecase,
		// so a customer can reach their own profile here.
		r.Get("/{id}", userH.Get)
		r.Put("/{id}", userH.Update)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequirePermission("users:delete"))
			r.Delete("/{id}", userH.Delete)
		})
	})

	r.Route("/api/v1/audit-logs", func(r chi.Router) {
		r.Use(auth.Middleware)
		r.Get("/me", auditH.Me)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRoles(domain.RoleAdmin))
			r.Get("/", auditH.List)
			r.Get("/user/{user_id}", auditH.ListByUser)
		})
	})

	return r
}
