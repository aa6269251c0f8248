package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/brasaerp/brasaerp/internal/rbac"
	"github.com/brasaerp/brasaerp/internal/store"
)

func (h *Handler) mountShipments(r chi.Router) {
	r.Use(h.requirePerm(rbac.PermShipmentsManage))
	r.Get("/", h.handleListShipments)
	r.Post("/", h.handleAddShipment)
	r.Get("/{id}", h.handleGetShipment)
	r.Post("/{id}/status", h.handleShipmentStatus)
	r.Post("/{id}/receive", h.handleReceiveShipment)
	r.Delete("/{id}", h.handleRemoveShipment)
}

type shipmentRequest struct {
	Type     store.ShipmentType   `json:"type" validate:"required"`
	Date     *time.Time           `json:"date"`
	DriverID string               `json:"driver_id"`
	SaleIDs  []string             `json:"sale_ids"`
	From     store.Location       `json:"from"`
	To       store.Location       `json:"to"`
	Items    []store.TransferItem `json:"items"`
}

func (h *Handler) handleListShipments(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.store.Shipments())
}

func (h *Handler) handleGetShipment(w http.ResponseWriter, r *http.Request) {
	sh, err := h.store.Shipment(chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sh)
}

func (h *Handler) handleAddShipment(w http.ResponseWriter, r *http.Request) {
	var req shipmentRequest
	if !h.decode(w, r, &req) {
		return
	}
	sh := store.Shipment{
		Type:     req.Type,
		DriverID: req.DriverID,
		SaleIDs:  req.SaleIDs,
		From:     req.From,
		To:       req.To,
		Items:    req.Items,
	}
	if req.Date != nil {
		sh.Date = *req.Date
	}
	created, err := h.store.AddShipment(actor(r), sh)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

type shipmentStatusRequest struct {
	Status store.ShipmentStatus `json:"status" validate:"required"`
}

func (h *Handler) handleShipmentStatus(w http.ResponseWriter, r *http.Request) {
	var req shipmentStatusRequest
	if !h.decode(w, r, &req) {
		return
	}
	if err := h.store.UpdateShipmentStatus(actor(r), chi.URLParam(r, "id"), req.Status); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleReceiveShipment(w http.ResponseWriter, r *http.Request) {
	if err := h.store.ReceiveShipment(actor(r), chi.URLParam(r, "id")); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.store.StockLevels())
}

func (h *Handler) handleRemoveShipment(w http.ResponseWriter, r *http.Request) {
	if err := h.store.RemoveShipment(actor(r), chi.URLParam(r, "id")); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
