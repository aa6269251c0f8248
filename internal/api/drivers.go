package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/brasaerp/brasaerp/internal/rbac"
	"github.com/brasaerp/brasaerp/internal/store"
)

func (h *Handler) mountDrivers(r chi.Router) {
	r.Use(h.requirePerm(rbac.PermShipmentsManage))
	r.Get("/", h.handleListDrivers)
	r.Post("/", h.handleAddDriver)
	r.Put("/{id}", h.handleUpdateDriver)
	r.Delete("/{id}", h.handleRemoveDriver)
}

type driverRequest struct {
	Name         string `json:"name" validate:"required"`
	Plate        string `json:"plate" validate:"required"`
	VehicleModel string `json:"vehicle_model"`
}

func (h *Handler) handleListDrivers(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.store.Drivers())
}

func (h *Handler) handleAddDriver(w http.ResponseWriter, r *http.Request) {
	var req driverRequest
	if !h.decode(w, r, &req) {
		return
	}
	d, err := h.store.AddDriver(actor(r), store.Driver{
		Name: req.Name, Plate: req.Plate, VehicleModel: req.VehicleModel,
	})
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, d)
}

func (h *Handler) handleUpdateDriver(w http.ResponseWriter, r *http.Request) {
	var req driverRequest
	if !h.decode(w, r, &req) {
		return
	}
	err := h.store.UpdateDriver(actor(r), store.Driver{
		ID: chi.URLParam(r, "id"), Name: req.Name, Plate: req.Plate, VehicleModel: req.VehicleModel,
	})
	if err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleRemoveDriver(w http.ResponseWriter, r *http.Request) {
	if err := h.store.RemoveDriver(actor(r), chi.URLParam(r, "id")); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
