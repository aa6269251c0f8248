package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) mountDashboard(r chi.Router) {
	r.Get("/", h.handleDashboard)
}

func (h *Handler) handleDashboard(w http.ResponseWriter, _ *http.Request) {
	stats := h.store.GetDashboardStats()
	writeJSON(w, http.StatusOK, map[string]any{
		"stock_by_location":   stats.StockByLocation,
		"month_sales_total":   stats.MonthSalesTotal,
		"month_sales_count":   stats.MonthSalesCount,
		"pending_receivables": stats.PendingReceivables,
		"month_production_kg": stats.MonthProductionKg,
		"unread_alerts":       stats.UnreadAlerts,
	})
}
