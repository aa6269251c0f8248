package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/brasaerp/brasaerp/internal/rbac"
	"github.com/brasaerp/brasaerp/internal/store"
)

func (h *Handler) mountPurchases(r chi.Router) {
	r.Use(h.requirePerm(rbac.PermPurchasesManage))
	r.Get("/", h.handleListPurchases)
	r.Post("/", h.handleAddPurchase)
	r.Get("/{id}", h.handleGetPurchase)
	r.Put("/{id}", h.handleUpdatePurchase)
	r.Post("/{id}/status", h.handlePurchaseStatus)
	r.Delete("/{id}", h.handleRemovePurchase)
}

type purchaseItemRequest struct {
	Material   string          `json:"material" validate:"required"`
	QuantityKg float64         `json:"quantity_kg" validate:"required,gt=0"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
}

type purchaseRequest struct {
	SupplierID string                `json:"supplier_id" validate:"required"`
	Items      []purchaseItemRequest `json:"items" validate:"required,min=1,dive"`
}

func (req purchaseRequest) toDomain() store.PurchaseOrder {
	po := store.PurchaseOrder{SupplierID: req.SupplierID}
	for _, item := range req.Items {
		po.Items = append(po.Items, store.PurchaseOrderItem{
			Material:   item.Material,
			QuantityKg: item.QuantityKg,
			UnitPrice:  item.UnitPrice,
		})
	}
	return po
}

func (h *Handler) handleListPurchases(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.store.PurchaseOrders())
}

func (h *Handler) handleGetPurchase(w http.ResponseWriter, r *http.Request) {
	po, err := h.store.PurchaseOrder(chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, po)
}

func (h *Handler) handleAddPurchase(w http.ResponseWriter, r *http.Request) {
	var req purchaseRequest
	if !h.decode(w, r, &req) {
		return
	}
	po, err := h.store.AddPurchaseOrder(actor(r), req.toDomain())
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, po)
}

func (h *Handler) handleUpdatePurchase(w http.ResponseWriter, r *http.Request) {
	var req purchaseRequest
	if !h.decode(w, r, &req) {
		return
	}
	po := req.toDomain()
	po.ID = chi.URLParam(r, "id")
	if err := h.store.UpdatePurchaseOrder(actor(r), po); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type purchaseStatusRequest struct {
	Status store.PurchaseOrderStatus `json:"status" validate:"required"`
}

func (h *Handler) handlePurchaseStatus(w http.ResponseWriter, r *http.Request) {
	var req purchaseStatusRequest
	if !h.decode(w, r, &req) {
		return
	}
	if err := h.store.UpdatePurchaseOrderStatus(actor(r), chi.URLParam(r, "id"), req.Status); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleRemovePurchase(w http.ResponseWriter, r *http.Request) {
	if err := h.store.RemovePurchaseOrder(actor(r), chi.URLParam(r, "id")); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
