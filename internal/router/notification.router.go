package router

import (
	"github.com/go-chi/chi/v5"

	"github.com/AliFrzngn/zcoil/internal/handler"
	"github.com/AliFrzngn/zcoil/pkg/middleware"
)

// NewNotificationRouter wires the notification endpoints. Reading and
// managing one's own notifications only needs authentication; creating
// notifications for other users is a staff operation.
func NewNotificationRouter(notifH *handler.NotificationHandler, auth *middleware.Auth) chi.Router {
	r := newBase("notification-service")

	r.Route("/api/v1/notifications", func(r chi.Router) {
		r.Use(auth.Middleware)

		r.Get("/", notifH.ListMine)
		r.Get("/unread-count", notifH.UnreadCount)
		r.Post("/read-all", notifH.MarkAllRead)
		r.Get("/{id}", notifH.Get)
		r.Post("/{id}/read", notifH.MarkRead)
		r.Delete("/{id}", notifH.Delete)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequirePermission("notifications:write"))
			r.Post("/", notifH.Create)
		})
	})

	return r
}
