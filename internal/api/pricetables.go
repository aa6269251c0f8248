package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/brasaerp/brasaerp/internal/rbac"
	"github.com/brasaerp/brasaerp/internal/store"
)

func (h *Handler) mountPriceTables(r chi.Router) {
	r.Use(h.requirePerm(rbac.PermCustomersManage))
	r.Get("/", h.handleListPriceTables)
	r.Post("/", h.handleAddPriceTable)
	r.Put("/{id}", h.handleUpdatePriceTable)
	r.Delete("/{id}", h.handleRemovePriceTable)
	r.Get("/price", h.handleResolvePrice)
}

type priceTableRequest struct {
	Name    string                                `json:"name" validate:"required"`
	Prices  map[store.ProductType]decimal.Decimal `json:"prices" validate:"required"`
	Default bool                                  `json:"default"`
	Method  store.PaymentMethod                   `json:"method"`
}

func (req priceTableRequest) toDomain() store.PriceTable {
	return store.PriceTable{
		Name:    req.Name,
		Prices:  req.Prices,
		Default: req.Default,
		Method:  req.Method,
	}
}

func (h *Handler) handleListPriceTables(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.store.PriceTables())
}

func (h *Handler) handleAddPriceTable(w http.ResponseWriter, r *http.Request) {
	var req priceTableRequest
	if !h.decode(w, r, &req) {
		return
	}
	t, err := h.store.AddPriceTable(actor(r), req.toDomain())
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

func (h *Handler) handleUpdatePriceTable(w http.ResponseWriter, r *http.Request) {
	var req priceTableRequest
	if !h.decode(w, r, &req) {
		return
	}
	t := req.toDomain()
	t.ID = chi.URLParam(r, "id")
	if err := h.store.UpdatePriceTable(actor(r), t); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleRemovePriceTable(w http.ResponseWriter, r *http.Request) {
	if err := h.store.RemovePriceTable(actor(r), chi.URLParam(r, "id")); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleResolvePrice answers the unit price a sale form should default
// to for a product, payment method and optional customer.
func (h *Handler) handleResolvePrice(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	p := store.ProductType(q.Get("product"))
	method := store.PaymentMethod(q.Get("method"))
	if !p.Valid() || !method.Valid() {
		writeError(w, http.StatusBadRequest, "product and method are required")
		return
	}
	price := h.store.GetPrice(p, method, q.Get("customer_id"))
	writeJSON(w, http.StatusOK, map[string]any{"product": p, "method": method, "unit_price": price})
}
