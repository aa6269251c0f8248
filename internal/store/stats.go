package store

import (
	"time"

	"github.com/shopspring/decimal"
)

// SupplierStats aggregates production history for one supplier.
type SupplierStats struct {
	TotalInputKg   float64
	BatchCount     int
	AvgLossPercent float64
}

// GetSupplierStats sums input weight and averages loss percentage
// across every batch with an input from the supplier. A supplier with
// no batches reports zeros.
func (s *Store) GetSupplierStats(supplierID string) SupplierStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	var stats SupplierStats
	var lossSum float64
	for _, batch := range s.st.Batches {
		var contributed float64
		for _, in := range batch.Inputs {
			if in.SupplierID == supplierID {
				contributed += in.WeightKg
			}
		}
		if contributed == 0 {
			continue
		}
		stats.TotalInputKg += contributed
		stats.BatchCount++
		lossSum += batch.LossPercent
	}
	if stats.BatchCount > 0 {
		stats.AvgLossPercent = lossSum / float64(stats.BatchCount)
	}
	return stats
}

// DashboardStats is the derived summary shown on the landing page.
type DashboardStats struct {
	StockByLocation    map[Location]int
	MonthSalesTotal    decimal.Decimal
	MonthSalesCount    int
	PendingReceivables decimal.Decimal
	MonthProductionKg  float64
	UnreadAlerts       int
}

// GetDashboardStats aggregates the current month's activity.
func (s *Store) GetDashboardStats() DashboardStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now().UTC()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	stats := DashboardStats{
		StockByLocation:    make(map[Location]int, len(Locations)),
		MonthSalesTotal:    decimal.Zero,
		PendingReceivables: decimal.Zero,
	}
	for _, loc := range Locations {
		var total int
		for _, p := range ProductTypes {
			total += s.st.Inventory.Qty(loc, p)
		}
		stats.StockByLocation[loc] = total
	}
	for _, sale := range s.st.Sales {
		if !sale.Date.Before(monthStart) {
			stats.MonthSalesTotal = stats.MonthSalesTotal.Add(sale.Total)
			stats.MonthSalesCount++
		}
	}
	for _, tx := range s.st.Transactions {
		if tx.Type == TransactionIncome &&
			(tx.Status == TransactionPending || tx.Status == TransactionOverdue) {
			stats.PendingReceivables = stats.PendingReceivables.Add(tx.Amount)
		}
	}
	for _, batch := range s.st.Batches {
		if !batch.Date.Before(monthStart) {
			stats.MonthProductionKg += batch.TotalOutputKg
		}
	}
	for _, n := range s.st.Notifications {
		if !n.Read {
			stats.UnreadAlerts++
		}
	}
	return stats
}
