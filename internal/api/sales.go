package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/brasaerp/brasaerp/internal/rbac"
	"github.com/brasaerp/brasaerp/internal/store"
)

func (h *Handler) mountSales(r chi.Router) {
	r.Use(h.requirePerm(rbac.PermSalesManage))
	r.Get("/", h.handleListSales)
	r.Post("/", h.handleAddSale)
	r.Get("/{id}", h.handleGetSale)
	r.Put("/{id}", h.handleUpdateSale)
	r.Delete("/{id}", h.handleRemoveSale)
}

type saleItemRequest struct {
	Product   store.ProductType `json:"product" validate:"required"`
	Quantity  int               `json:"quantity" validate:"required,gt=0"`
	UnitPrice decimal.Decimal   `json:"unit_price"`
}

type saleRequest struct {
	Location     store.Location      `json:"location" validate:"required"`
	CustomerID   string              `json:"customer_id"`
	CustomerName string              `json:"customer_name"`
	Method       store.PaymentMethod `json:"method" validate:"required"`
	DueDate      *time.Time          `json:"due_date"`
	Items        []saleItemRequest   `json:"items" validate:"required,min=1,dive"`
}

func (req saleRequest) toDomain(h *Handler) store.Sale {
	sale := store.Sale{
		Location:     req.Location,
		CustomerID:   req.CustomerID,
		CustomerName: req.CustomerName,
		Method:       req.Method,
		DueDate:      req.DueDate,
	}
	for _, item := range req.Items {
		price := item.UnitPrice
		if price.IsZero() {
			price = h.store.GetPrice(item.Product, req.Method, req.CustomerID)
		}
		sale.Items = append(sale.Items, store.SaleItem{
			Product:   item.Product,
			Quantity:  item.Quantity,
			UnitPrice: price,
		})
	}
	return sale
}

func (h *Handler) handleListSales(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.store.Sales())
}

func (h *Handler) handleGetSale(w http.ResponseWriter, r *http.Request) {
	sale, err := h.store.Sale(chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sale)
}

func (h *Handler) handleAddSale(w http.ResponseWriter, r *http.Request) {
	var req saleRequest
	if !h.decode(w, r, &req) {
		return
	}
	sale, err := h.store.AddSale(actor(r), req.toDomain(h))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sale)
}

func (h *Handler) handleUpdateSale(w http.ResponseWriter, r *http.Request) {
	var req saleRequest
	if !h.decode(w, r, &req) {
		return
	}
	sale := req.toDomain(h)
	sale.ID = chi.URLParam(r, "id")
	if err := h.store.UpdateSale(actor(r), sale); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleRemoveSale(w http.ResponseWriter, r *http.Request) {
	if err := h.store.RemoveSale(actor(r), chi.URLParam(r, "id")); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
