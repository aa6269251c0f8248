package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/brasaerp/brasaerp/internal/rbac"
	"github.com/brasaerp/brasaerp/internal/store"
)

const maxAuditPage = 200

func (h *Handler) mountAudit(r chi.Router) {
	r.Use(h.requirePerm(rbac.PermAuditView))
	r.Get("/", h.handleAuditLog)
}

func (h *Handler) handleAuditLog(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := store.AuditFilter{
		Action:   store.AuditAction(q.Get("action")),
		Resource: q.Get("resource"),
		Limit:    maxAuditPage,
	}
	if limitStr := q.Get("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit <= 0 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		filter.Limit = min(limit, maxAuditPage)
	}
	writeJSON(w, http.StatusOK, h.store.AuditLog(filter))
}
