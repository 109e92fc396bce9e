package router

import (
	"github.com/go-chi/chi/v5"

	"github.com/AliFrzngn/zcoil/internal/handler"
	"github.com/AliFrzngn/zcoil/pkg/middleware"
)

// NewInventoryRouter wires the product endpoints for the inventory service.
func NewInventoryRouter(productH *handler.ProductHandler, auth *middleware.Auth) chi.Router {
	r := newBase("inventory-service")

	r.Route("/api/v1/products", func(r chi.Router) {
		r.Use(auth.Middleware)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequirePermission("inventory:read"))
			r.Get("/", productH.List)
			r.Get("/low-stock", productH.LowStock)
			r.Get("/{id}", productH.Get)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequirePermission("inventory:write"))
			r.Post("/", productH.Create)
			r.Put("/{id}", productH.Update)
			r.Patch("/{id}/quantity", productH.UpdateQuantity)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequirePermission("inventory:delete"))
			r.Delete("/{id}", productH.Delete)
		})

		// Own-or-staff rule enforced in the handler.
		r.Get("/customer/{customer_id}", productH.CustomerProducts)
	})

	return r
}
