package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/brasaerp/brasaerp/internal/rbac"
	"github.com/brasaerp/brasaerp/internal/store"
)

func (h *Handler) mountCustomers(r chi.Router) {
	r.Use(h.requirePerm(rbac.PermCustomersManage))
	r.Get("/", h.handleListCustomers)
	r.Post("/", h.handleAddCustomer)
	r.Put("/{id}", h.handleUpdateCustomer)
	r.Delete("/{id}", h.handleRemoveCustomer)
}

type customerRequest struct {
	Name            string          `json:"name" validate:"required"`
	Document        string          `json:"document"`
	Phone           string          `json:"phone"`
	Email           string          `json:"email" validate:"omitempty,email"`
	Address         string          `json:"address"`
	CreditLimit     decimal.Decimal `json:"credit_limit"`
	PaymentTermDays int             `json:"payment_term_days" validate:"gte=0"`
	PriceTableID    string          `json:"price_table_id"`
}

func (req customerRequest) toDomain() store.Customer {
	return store.Customer{
		Name:            req.Name,
		Document:        req.Document,
		Phone:           req.Phone,
		Email:           req.Email,
		Address:         req.Address,
		CreditLimit:     req.CreditLimit,
		PaymentTermDays: req.PaymentTermDays,
		PriceTableID:    req.PriceTableID,
	}
}

func (h *Handler) handleListCustomers(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.store.Customers())
}

func (h *Handler) handleAddCustomer(w http.ResponseWriter, r *http.Request) {
	var req customerRequest
	if !h.decode(w, r, &req) {
		return
	}
	c, err := h.store.AddCustomer(actor(r), req.toDomain())
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (h *Handler) handleUpdateCustomer(w http.ResponseWriter, r *http.Request) {
	var req customerRequest
	if !h.decode(w, r, &req) {
		return
	}
	c := req.toDomain()
	c.ID = chi.URLParam(r, "id")
	if err := h.store.UpdateCustomer(actor(r), c); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleRemoveCustomer(w http.ResponseWriter, r *http.Request) {
	if err := h.store.RemoveCustomer(actor(r), chi.URLParam(r, "id")); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
