package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/brasaerp/brasaerp/internal/rbac"
	"github.com/brasaerp/brasaerp/internal/store"
)

func (h *Handler) mountInventory(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.requirePerm(rbac.PermInventoryView))
		r.Get("/", h.handleStockLevels)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.requirePerm(rbac.PermInventoryManage))
		r.Post("/transfers", h.handleTransfer)
	})
}

func (h *Handler) handleStockLevels(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.store.StockLevels())
}

type transferRequest struct {
	From     store.Location    `json:"from" validate:"required"`
	To       store.Location    `json:"to" validate:"required"`
	Product  store.ProductType `json:"product" validate:"required"`
	Quantity int               `json:"quantity" validate:"required,gt=0"`
}

func (h *Handler) handleTransfer(w http.ResponseWriter, r *http.Request) {
	var req transferRequest
	if !h.decode(w, r, &req) {
		return
	}
	if err := h.store.TransferStock(actor(r), req.From, req.To, req.Product, req.Quantity); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.store.StockLevels())
}
