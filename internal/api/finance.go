package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/brasaerp/brasaerp/internal/rbac"
	"github.com/brasaerp/brasaerp/internal/store"
)

func (h *Handler) mountFinance(r chi.Router) {
	r.Use(h.requirePerm(rbac.PermFinanceManage))
	r.Get("/", h.handleListTransactions)
	r.Post("/", h.handleAddTransaction)
	r.Put("/{id}", h.handleUpdateTransaction)
	r.Post("/{id}/settle", h.handleSettleTransaction)
	r.Delete("/{id}", h.handleRemoveTransaction)
}

type transactionRequest struct {
	Date        *time.Time              `json:"date"`
	DueDate     *time.Time              `json:"due_date"`
	Type        store.TransactionType   `json:"type" validate:"required"`
	Category    string                  `json:"category" validate:"required"`
	Description string                  `json:"description"`
	Amount      decimal.Decimal         `json:"amount"`
	Status      store.TransactionStatus `json:"status"`
	LinkedID    string                  `json:"linked_id"`
}

func (req transactionRequest) toDomain() store.Transaction {
	tx := store.Transaction{
		Type:        req.Type,
		Category:    req.Category,
		Description: req.Description,
		Amount:      req.Amount,
		Status:      req.Status,
		LinkedID:    req.LinkedID,
	}
	if req.Date != nil {
		tx.Date = *req.Date
	}
	if req.DueDate != nil {
		tx.DueDate = *req.DueDate
	}
	return tx
}

func (h *Handler) handleListTransactions(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.store.Transactions())
}

func (h *Handler) handleAddTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if !h.decode(w, r, &req) {
		return
	}
	tx, err := h.store.AddTransaction(actor(r), req.toDomain())
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, tx)
}

func (h *Handler) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if !h.decode(w, r, &req) {
		return
	}
	tx := req.toDomain()
	tx.ID = chi.URLParam(r, "id")
	if err := h.store.UpdateTransaction(actor(r), tx); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleSettleTransaction(w http.ResponseWriter, r *http.Request) {
	if err := h.store.SettleTransaction(actor(r), chi.URLParam(r, "id")); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleRemoveTransaction(w http.ResponseWriter, r *http.Request) {
	if err := h.store.RemoveTransaction(actor(r), chi.URLParam(r, "id")); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
