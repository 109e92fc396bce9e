package handler

import (
	"net/http"

	"github.com/AliFrzngn/zcoil/internal/domain"
	"github.com/AliFrzngn/zcoil/internal/usecase"
	"github.com/AliFrzngn/zcoil/pkg/middleware"
	"github.com/AliFrzngn/zcoil/pkg/response"
	"github.com/AliFrzngn/zcoil/pkg/xerrors"
)

type CRMHandler struct {
	uc *usecase.CRMUsecase
}

func NewCRMHandler(uc *usecase.CRMUsecase) *CRMHandler {
	return &CRMHandler{uc: uc}
}

// callerContext pulls the resolved identity and the raw bearer token out of
// the request; the token is forwarded to the inventory service unchanged.
func callerContext(w http.ResponseWriter, r *http.Request) (*domain.ResolvedIdentity, string, bool) {
	identity, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		response.Error(w, http.StatusUnauthorized, xerrors.ErrUnauthorized.Error())
		return nil, "", false
	}
	token, ok := middleware.TokenFrom(r.Context())
	if !ok {
		response.Error(w, http.StatusUnauthorized, xerrors.ErrUnauthorized.Error())
		return nil, "", false
	}
	return identity, token, true
}

// MyView handles GET /api/v1/crm/my-view: the customer's profile plus
// their assigned products.
func (h *CRMHandler) MyView(w http.ResponseWriter, r *http.Request) {
	identity, token, ok := callerContext(w, r)
	if !ok {
		return
	}

	view, err := h.uc.MyView(r.Context(), identity, token)
	if err != nil {
		writeError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, view)
}

// MyProducts handles GET /api/v1/crm/my-products.
func (h *CRMHandler) MyProducts(w http.ResponseWriter, r *http.Request) {
	identity, token, ok := callerContext(w, r)
	if !ok {
		return
	}

	products, err := h.uc.MyProducts(r.Context(), identity, token)
	if err != nil {
		writeError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, map[string]interface{}{
		"products": products,
		"total":    len(products),
	})
}

// MyProduct handles GET /api/v1/crm/my-products/{id}.
func (h *CRMHandler) MyProduct(w http.ResponseWriter, r *http.Request) {
	identity, token, ok := callerContext(w, r)
	if !ok {
		return
	}

	id, err := urlParamInt64(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "invalid product id")
		return
	}

	product, err := h.uc.MyProduct(r.Context(), identity, token, id)
	if err != nil {
		writeError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, map[string]interface{}{"product": product})
}

// SearchMyProducts handles GET /api/v1/crm/my-products/search.
func (h *CRMHandler) SearchMyProducts(w http.ResponseWriter, r *http.Request) {
	identity, token, ok := callerContext(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	products, err := h.uc.SearchMyProducts(r.Context(), identity, token,
		q.Get("name"), q.Get("category"), q.Get("brand"))
	if err != nil {
		writeError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, map[string]interface{}{
		"products": products,
		"total":    len(products),
	})
}

// MyStats handles GET /api/v1/crm/my-stats.
func (h *CRMHandler) MyStats(w http.ResponseWriter, r *http.Request) {
	identity, token, ok := callerContext(w, r)
	if !ok {
		return
	}

	stats, err := h.uc.MyStats(r.Context(), identity, token)
	if err != nil {
		writeError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, map[string]interface{}{"stats": stats})
}
