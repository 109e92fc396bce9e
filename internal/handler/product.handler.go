package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/AliFrzngn/zcoil/internal/domain"
	"github.com/AliFrzngn/zcoil/internal/usecase"
	"github.com/AliFrzngn/zcoil/pkg/middleware"
	"github.com/AliFrzngn/zcoil/pkg/response"
	"github.com/AliFrzngn/zcoil/pkg/xerrors"
)

type ProductHandler struct {
	uc *usecase.ProductUsecase
}

func NewProductHandler(uc *usecase.ProductUsecase) *ProductHandler {
	return &ProductHandler{uc: uc}
}

type productRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	SKU         string   `json:"sku"`
	Price       float64  `json:"price"`
	Cost        *float64 `json:"cost"`
	Quantity    int      `json:"quantity"`
	MinQuantity int      `json:"min_quantity"`
	MaxQuantity *int     `json:"max_quantity"`
	IsActive    *bool    `json:"is_active"`
	Category    string   `json:"category"`
	Brand       string   `json:"brand"`
	Weight      *float64 `json:"weight"`
	Dimensions  string   `json:"dimensions"`
	CustomerID  string   `json:"customer_id"`
}

func (req *productRequest) toDomain() *domain.Product {
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	return &domain.Product{
		Name:        req.Name,
		Description: req.Description,
		SKU:         req.SKU,
		Price:       req.Price,
		Cost:        req.Cost,
		Quantity:    req.Quantity,
		MinQuantity: req.MinQuantity,
		MaxQuantity: req.MaxQuantity,
		IsActive:    active,
		Category:    req.Category,
		Brand:       req.Brand,
		Weight:      req.Weight,
		Dimensions:  req.Dimensions,
		CustomerID:  req.CustomerID,
	}
}

// Create handles POST /api/v1/products.
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "invalid request")
		return
	}

	product, err := h.uc.Create(r.Context(), req.toDomain())
	if err != nil {
		writeError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, map[string]interface{}{"product": product})
}

// Get handles GET /api/v1/products/{id}.
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := urlParamInt64(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "invalid product id")
		return
	}

	product, err := h.uc.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, map[string]interface{}{"product": product})
}

// List handles GET /api/v1/products.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	page, size := pagination(r)
	q := r.URL.Query()
	f := domain.ProductFilter{
		Name:       q.Get("name"),
		SKU:        q.Get("sku"),
		Category:   q.Get("category"),
		Brand:      q.Get("brand"),
		CustomerID: q.Get("customer_id"),
		IsActive:   queryBool(r, "is_active"),
		Page:       page,
		Size:       size,
	}

	products, total, err := h.uc.List(r.Context(), f)
	if err != nil {
		writeError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, listPayload("products", products, total, page, size))
}

// LowStock handles GET /api/v1/products/low-stock.
func (h *ProductHandler) LowStock(w http.ResponseWriter, r *http.Request) {
	page, size := pagination(r)
	products, total, err := h.uc.LowStock(r.Context(), page, size)
	if err != nil {
		writeError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, listPayload("products", products, total, page, size))
}

// Update handles PUT /api/v1/products/{id}.
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := urlParamInt64(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "invalid product id")
		return
	}

	var req productRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "invalid request")
		return
	}

	product, err := h.uc.Update(r.Context(), id, req.toDomain())
	if err != nil {
		writeError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, map[string]interface{}{"product": product})
}

type quantityRequest struct {
	Quantity int `json:"quantity"`
}

// UpdateQuantity handles PATCH /api/v1/products/{id}/quantity.
func (h *ProductHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	id, err := urlParamInt64(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "invalid product id")
		return
	}

	var req quantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "invalid request")
		return
	}

	product, err := h.uc.UpdateQuantity(r.Context(), id, req.Quantity)
	if err != nil {
		writeError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, map[string]interface{}{"product": product})
}

// Delete handles DELETE /api/v1/products/{id}.
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := urlParamInt64(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "invalid product id")
		return
	}

	if err := h.uc.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}

	response.NoContent(w)
}

// CustomerProducts handles GET /api/v1/products/customer/{customer_id}.
// Customers may only fetch their own assignment; staff may fetch anyone's.
func (h *ProductHandler) CustomerProducts(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		response.Error(w, http.StatusUnauthorized, xerrors.ErrUnauthorized.Error())
		return
	}

	customerID := chi.URLParam(r, "customer_id")
	if !identity.HasRole(domain.RoleAdmin, domain.RoleManager) && !identity.Owns(customerID) {
		response.Error(w, http.StatusForbidden, xerrors.ErrForbidden.Error())
		return
	}

	products, err := h.uc.ListByCustomer(r.Context(), customerID)
	if err != nil {
		writeError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, map[string]interface{}{"products": products})
}
