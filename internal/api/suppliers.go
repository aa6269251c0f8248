package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/brasaerp/brasaerp/internal/rbac"
	"github.com/brasaerp/brasaerp/internal/store"
)

func (h *Handler) mountSuppliers(r chi.Router) {
	r.Use(h.requirePerm(rbac.PermPurchasesManage))
	r.Get("/", h.handleListSuppliers)
	r.Post("/", h.handleAddSupplier)
	r.Put("/{id}", h.handleUpdateSupplier)
	r.Delete("/{id}", h.handleRemoveSupplier)
	r.Get("/{id}/stats", h.handleSupplierStats)
	r.Get("/{id}/raw-balance", h.handleSupplierBalance)
}

type supplierRequest struct {
	Name     string `json:"name" validate:"required"`
	Document string `json:"document"`
	Phone    string `json:"phone"`
	Email    string `json:"email" validate:"omitempty,email"`
}

func (h *Handler) handleListSuppliers(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.store.Suppliers())
}

func (h *Handler) handleAddSupplier(w http.ResponseWriter, r *http.Request) {
	var req supplierRequest
	if !h.decode(w, r, &req) {
		return
	}
	sup, err := h.store.AddSupplier(actor(r), store.Supplier{
		Name: req.Name, Document: req.Document, Phone: req.Phone, Email: req.Email,
	})
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sup)
}

func (h *Handler) handleUpdateSupplier(w http.ResponseWriter, r *http.Request) {
	var req supplierRequest
	if !h.decode(w, r, &req) {
		return
	}
	err := h.store.UpdateSupplier(actor(r), store.Supplier{
		ID: chi.URLParam(r, "id"), Name: req.Name, Document: req.Document,
		Phone: req.Phone, Email: req.Email,
	})
	if err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleRemoveSupplier(w http.ResponseWriter, r *http.Request) {
	if err := h.store.RemoveSupplier(actor(r), chi.URLParam(r, "id")); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleSupplierStats(w http.ResponseWriter, r *http.Request) {
	stats := h.store.GetSupplierStats(chi.URLParam(r, "id"))
	writeJSON(w, http.StatusOK, map[string]any{
		"total_input_kg":   stats.TotalInputKg,
		"batch_count":      stats.BatchCount,
		"avg_loss_percent": stats.AvgLossPercent,
	})
}

func (h *Handler) handleSupplierBalance(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"raw_balance_kg": h.store.SupplierRawBalance(chi.URLParam(r, "id")),
	})
}
