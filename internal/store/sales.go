package store

import (
	"fmt"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/brasaerp/brasaerp/internal/shared"
)

func cloneSale(sale Sale) Sale {
	sale.Items = slices.Clone(sale.Items)
	if sale.DueDate != nil {
		due := *sale.DueDate
		sale.DueDate = &due
	}
	return sale
}

// AddSale appends the sale and debits inventory at its location for
// every line. The whole operation is all or nothing: the first line
// without sufficient stock rejects the sale and leaves the ledger
// untouched. A credit sale also books a pending receivable; a cash
// sale books a paid income entry.
func (s *Store) AddSale(actor string, sale Sale) (Sale, error) {
	if !sale.Location.Valid() {
		return Sale{}, shared.Invalid("location", "unknown location")
	}
	if !sale.Method.Valid() {
		return Sale{}, shared.Invalid("method", "unknown payment method")
	}
	if len(sale.Items) == 0 {
		return Sale{}, shared.Invalid("items", "sale requires at least one item")
	}
	total := decimal.Zero
	for i, item := range sale.Items {
		if !item.Product.Valid() {
			return Sale{}, shared.Invalid("items", "unknown product type")
		}
		if item.Quantity <= 0 {
			return Sale{}, shared.Invalid("items", "quantity must be positive")
		}
		if item.UnitPrice.IsNegative() {
			return Sale{}, shared.Invalid("items", "unit price cannot be negative")
		}
		sale.Items[i].Total = item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
		total = total.Add(sale.Items[i].Total)
	}
	sale.Total = total

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, item := range sale.Items {
		if s.st.Inventory.Qty(sale.Location, item.Product) < item.Quantity {
			return Sale{}, fmt.Errorf("%w: %d x %s at %s",
				ErrInsufficientStock, item.Quantity, item.Product, sale.Location)
		}
	}
	for _, item := range sale.Items {
		s.st.Inventory[sale.Location][item.Product] -= item.Quantity
	}
	sale.ID = s.newID()
	if sale.Date.IsZero() {
		sale.Date = s.now().UTC()
	}
	s.st.Sales = append(s.st.Sales, cloneSale(sale))
	s.bookSaleTransactionLocked(sale)
	s.commitLocked(actor, AuditCreate, "sale", sale.ID,
		fmt.Sprintf("%s sale of %d items at %s", sale.Method, len(sale.Items), sale.Location))
	return sale, nil
}

func (s *Store) bookSaleTransactionLocked(sale Sale) {
	tx := Transaction{
		ID:       s.newID(),
		Date:     sale.Date,
		DueDate:  sale.Date,
		Type:     TransactionIncome,
		Category: "sales",
		Amount:   sale.Total,
		Status:   TransactionPaid,
		LinkedID: sale.ID,
	}
	if sale.Method == PaymentCredit {
		tx.Status = TransactionPending
		if sale.DueDate != nil {
			tx.DueDate = *sale.DueDate
		}
	}
	if sale.CustomerName != "" {
		tx.Description = "sale to " + sale.CustomerName
	}
	s.st.Transactions = append(s.st.Transactions, tx)
}

// UpdateSale changes sale metadata (customer, payment terms). Items
// and location are fixed at creation; changing them means removing the
// sale, which restores its stock, and recording a new one.
func (s *Store) UpdateSale(actor string, sale Sale) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := slices.IndexFunc(s.st.Sales, func(x Sale) bool { return x.ID == sale.ID })
	if idx < 0 {
		return shared.ErrNotFound
	}
	current := s.st.Sales[idx]
	current.CustomerID = sale.CustomerID
	current.CustomerName = sale.CustomerName
	if sale.Method.Valid() {
		current.Method = sale.Method
	}
	if sale.DueDate != nil {
		due := *sale.DueDate
		current.DueDate = &due
	}
	s.st.Sales[idx] = current
	s.commitLocked(actor, AuditUpdate, "sale", sale.ID, "sale details updated")
	return nil
}

// RemoveSale deletes the sale and restores the debited quantities to
// its location. The linked financial entry is removed with it.
func (s *Store) RemoveSale(actor, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := slices.IndexFunc(s.st.Sales, func(x Sale) bool { return x.ID == id })
	if idx < 0 {
		return shared.ErrNotFound
	}
	sale := s.st.Sales[idx]
	for _, item := range sale.Items {
		s.creditLocked(sale.Location, item.Product, item.Quantity)
	}
	s.st.Sales = slices.Delete(s.st.Sales, idx, idx+1)
	s.st.Transactions = slices.DeleteFunc(s.st.Transactions, func(tx Transaction) bool {
		return tx.LinkedID == id
	})
	s.commitLocked(actor, AuditDelete, "sale", id, "sale removed, stock restored")
	return nil
}

// Sales returns a deep copy of the sales collection.
func (s *Store) Sales() []Sale {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Sale, 0, len(s.st.Sales))
	for _, sale := range s.st.Sales {
		out = append(out, cloneSale(sale))
	}
	return out
}

// Sale fetches one sale by ID.
func (s *Store) Sale(id string) (Sale, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := slices.IndexFunc(s.st.Sales, func(x Sale) bool { return x.ID == id })
	if idx < 0 {
		return Sale{}, shared.ErrNotFound
	}
	return cloneSale(s.st.Sales[idx]), nil
}
