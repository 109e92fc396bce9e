package router

import (
	"github.com/go-chi/chi/v5"

	"github.com/AliFrzngn/zcoil/internal/handler"
	"github.com/AliFrzngn/zcoil/pkg/middleware"
)

// NewCRMRouter wires the customer view endpoints for the CRM service.
func NewCRMRouter(crmH *handler.CRMHandler, auth *middleware.Auth) chi.Router {
	r := newBase("crm-service")

	r.Route("/api/v1/crm", func(r chi.Router) {
		r.Use(auth.Middleware)
		r.Use(middleware.RequirePermission("crm:read"))
		r.Get("/my-view", crmH.MyView)
		r.Get("/my-products", crmH.MyProducts)
		r.Get("/my-products/search", crmH.SearchMyProducts)
		r.Get("/my-products/{id}", crmH.MyProduct)
		r.Get("/my-stats", crmH.MyStats)
	})

	return r
}
