package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/brasaerp/brasaerp/internal/rbac"
	"github.com/brasaerp/brasaerp/internal/store"
)

func (h *Handler) mountUsers(r chi.Router) {
	r.Use(h.requirePerm(rbac.PermUsersManage))
	r.Get("/", h.handleListUsers)
	r.Post("/", h.handleAddUser)
	r.Put("/{id}", h.handleUpdateUser)
	r.Delete("/{id}", h.handleRemoveUser)
}

type userRequest struct {
	Name        string     `json:"name" validate:"required"`
	Username    string     `json:"username" validate:"required"`
	Password    string     `json:"password"`
	Role        store.Role `json:"role" validate:"required"`
	Permissions []string   `json:"permissions"`
	CanPrint    bool       `json:"can_print"`
}

func (h *Handler) handleListUsers(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.store.Users())
}

func (h *Handler) handleAddUser(w http.ResponseWriter, r *http.Request) {
	var req userRequest
	if !h.decode(w, r, &req) {
		return
	}
	u, err := h.store.AddUser(actor(r), store.User{
		Name:        req.Name,
		Username:    req.Username,
		Role:        req.Role,
		Permissions: req.Permissions,
		CanPrint:    req.CanPrint,
	}, req.Password)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, u)
}

func (h *Handler) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	var req userRequest
	if !h.decode(w, r, &req) {
		return
	}
	err := h.store.UpdateUser(actor(r), store.User{
		ID:          chi.URLParam(r, "id"),
		Name:        req.Name,
		Username:    req.Username,
		Role:        req.Role,
		Permissions: req.Permissions,
		CanPrint:    req.CanPrint,
	})
	if err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleRemoveUser(w http.ResponseWriter, r *http.Request) {
	if err := h.store.RemoveUser(actor(r), chi.URLParam(r, "id")); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
