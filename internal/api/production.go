package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/brasaerp/brasaerp/internal/rbac"
	"github.com/brasaerp/brasaerp/internal/store"
)

func (h *Handler) mountProduction(r chi.Router) {
	r.Use(h.requirePerm(rbac.PermProductionManage))
	r.Get("/", h.handleListBatches)
	r.Post("/", h.handleAddBatch)
	r.Get("/{id}", h.handleGetBatch)
	r.Delete("/{id}", h.handleRemoveBatch)
}

type batchInputRequest struct {
	SupplierID string  `json:"supplier_id" validate:"required"`
	WeightKg   float64 `json:"weight_kg" validate:"gte=0"`
}

type batchOutputRequest struct {
	Product store.ProductType `json:"product" validate:"required"`
	Bags    int               `json:"bags" validate:"required,gt=0"`
}

type batchRequest struct {
	Inputs  []batchInputRequest  `json:"inputs" validate:"required,min=1,dive"`
	Outputs []batchOutputRequest `json:"outputs" validate:"required,min=1,dive"`
}

func (h *Handler) handleListBatches(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.store.ProductionBatches())
}

func (h *Handler) handleGetBatch(w http.ResponseWriter, r *http.Request) {
	batch, err := h.store.ProductionBatch(chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, batch)
}

func (h *Handler) handleAddBatch(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if !h.decode(w, r, &req) {
		return
	}
	batch := store.ProductionBatch{}
	for _, in := range req.Inputs {
		batch.Inputs = append(batch.Inputs, store.BatchInput{SupplierID: in.SupplierID, WeightKg: in.WeightKg})
	}
	for _, out := range req.Outputs {
		batch.Outputs = append(batch.Outputs, store.BatchOutput{Product: out.Product, Bags: out.Bags})
	}
	created, err := h.store.AddProductionBatch(actor(r), batch)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *Handler) handleRemoveBatch(w http.ResponseWriter, r *http.Request) {
	if err := h.store.RemoveProductionBatch(actor(r), chi.URLParam(r, "id")); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
