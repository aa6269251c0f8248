package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) mountNotifications(r chi.Router) {
	r.Get("/", h.handleListNotifications)
	r.Post("/check", h.handleCheckNotifications)
	r.Post("/{id}/read", h.handleMarkNotificationRead)
	r.Post("/read-all", h.handleMarkAllNotificationsRead)
}

func (h *Handler) handleListNotifications(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.store.Notifications())
}

func (h *Handler) handleCheckNotifications(w http.ResponseWriter, _ *http.Request) {
	created := h.store.CheckNotifications()
	writeJSON(w, http.StatusOK, map[string]any{"created": len(created)})
}

func (h *Handler) handleMarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	if err := h.store.MarkNotificationRead(chi.URLParam(r, "id")); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleMarkAllNotificationsRead(w http.ResponseWriter, _ *http.Request) {
	h.store.MarkAllNotificationsRead()
	w.WriteHeader(http.StatusNoContent)
}
