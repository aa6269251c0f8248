// Package api exposes every store action and selector as a JSON
// endpoint. Handlers hold no domain logic: they decode a request,
// invoke a store action and encode the result, exactly the contract
// UI pages have with the store.
package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/brasaerp/brasaerp/internal/rbac"
	"github.com/brasaerp/brasaerp/internal/shared"
	"github.com/brasaerp/brasaerp/internal/store"
)

// Handler wires the HTTP endpoints over the store.
type Handler struct {
	logger   *slog.Logger
	store    *store.Store
	sessions *shared.SessionManager
	validate *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, st *store.Store, sessions *shared.SessionManager) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		logger:   logger,
		store:    st,
		sessions: sessions,
		validate: validator.New(),
	}
}

// MountRoutes registers every area under the router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Route("/auth", h.mountAuth)
	r.Group(func(r chi.Router) {
		r.Use(h.requireUser)
		r.Route("/dashboard", h.mountDashboard)
		r.Route("/inventory", h.mountInventory)
		r.Route("/sales", h.mountSales)
		r.Route("/production", h.mountProduction)
		r.Route("/purchases", h.mountPurchases)
		r.Route("/suppliers", h.mountSuppliers)
		r.Route("/customers", h.mountCustomers)
		r.Route("/price-tables", h.mountPriceTables)
		r.Route("/shipments", h.mountShipments)
		r.Route("/drivers", h.mountDrivers)
		r.Route("/finance", h.mountFinance)
		r.Route("/users", h.mountUsers)
		r.Route("/audit", h.mountAudit)
		r.Route("/notifications", h.mountNotifications)
		r.Route("/exchange", h.mountExchange)
	})
}

type userContextKey struct{}

func contextWithUser(ctx context.Context, u store.User) context.Context {
	return context.WithValue(ctx, userContextKey{}, u)
}

func userFromContext(ctx context.Context) store.User {
	u, _ := ctx.Value(userContextKey{}).(store.User)
	return u
}

// requireUser resolves the session to a live user account and stashes
// it in the request context.
func (h *Handler) requireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := shared.SessionFromContext(r.Context())
		if sess == nil {
			writeError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		u, err := h.store.User(sess.UserID())
		if err != nil {
			writeError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		next.ServeHTTP(w, r.WithContext(contextWithUser(r.Context(), u)))
	})
}

// requirePerm gates a route group on one capability.
func (h *Handler) requirePerm(perm rbac.Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !rbac.Can(userFromContext(r.Context()), perm) {
				writeError(w, http.StatusForbidden, shared.UserSafeMessage(shared.ErrForbidden))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// actor names the authenticated user for audit entries.
func actor(r *http.Request) string {
	return userFromContext(r.Context()).Name
}
