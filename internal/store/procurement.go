package store

import (
	"fmt"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/brasaerp/brasaerp/internal/shared"
)

func clonePurchaseOrder(po PurchaseOrder) PurchaseOrder {
	po.Items = slices.Clone(po.Items)
	return po
}

// purchaseTransitions is the forward-only purchase order machine.
// Received and cancelled are terminal.
var purchaseTransitions = map[PurchaseOrderStatus][]PurchaseOrderStatus{
	PurchasePending:  {PurchaseApproved, PurchaseReceived, PurchaseCancelled},
	PurchaseApproved: {PurchaseReceived, PurchaseCancelled},
}

// AddPurchaseOrder records a raw-material order. New orders always
// start pending; material only counts toward the supplier balance
// once the order is received.
func (s *Store) AddPurchaseOrder(actor string, po PurchaseOrder) (PurchaseOrder, error) {
	if len(po.Items) == 0 {
		return PurchaseOrder{}, shared.Invalid("items", "purchase order requires at least one item")
	}
	total := decimal.Zero
	for i, item := range po.Items {
		if item.QuantityKg <= 0 {
			return PurchaseOrder{}, shared.Invalid("items", "quantity must be positive")
		}
		if item.UnitPrice.IsNegative() {
			return PurchaseOrder{}, shared.Invalid("items", "unit price cannot be negative")
		}
		po.Items[i].Total = item.UnitPrice.Mul(decimal.NewFromFloat(item.QuantityKg))
		total = total.Add(po.Items[i].Total)
	}
	po.Total = total
	s.mu.Lock()
	defer s.mu.Unlock()
	if slices.IndexFunc(s.st.Suppliers, func(x Supplier) bool { return x.ID == po.SupplierID }) < 0 {
		return PurchaseOrder{}, shared.Invalid("supplier_id", "unknown supplier")
	}
	po.ID = s.newID()
	po.Status = PurchasePending
	if po.Date.IsZero() {
		po.Date = s.now().UTC()
	}
	s.st.Purchases = append(s.st.Purchases, clonePurchaseOrder(po))
	s.commitLocked(actor, AuditCreate, "purchase_order", po.ID,
		fmt.Sprintf("%.0fkg raw material ordered", po.RawMaterialKg()))
	return po, nil
}

// UpdatePurchaseOrder rewrites the line items of a pending order.
func (s *Store) UpdatePurchaseOrder(actor string, po PurchaseOrder) error {
	if len(po.Items) == 0 {
		return shared.Invalid("items", "purchase order requires at least one item")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := slices.IndexFunc(s.st.Purchases, func(x PurchaseOrder) bool { return x.ID == po.ID })
	if idx < 0 {
		return shared.ErrNotFound
	}
	current := s.st.Purchases[idx]
	if current.Status != PurchasePending {
		return fmt.Errorf("%w: only pending orders can be edited", ErrInvalidTransition)
	}
	total := decimal.Zero
	for i, item := range po.Items {
		if item.QuantityKg <= 0 {
			return shared.Invalid("items", "quantity must be positive")
		}
		if item.UnitPrice.IsNegative() {
			return shared.Invalid("items", "unit price cannot be negative")
		}
		po.Items[i].Total = item.UnitPrice.Mul(decimal.NewFromFloat(item.QuantityKg))
		total = total.Add(po.Items[i].Total)
	}
	current.Items = slices.Clone(po.Items)
	current.Total = total
	s.st.Purchases[idx] = current
	s.commitLocked(actor, AuditUpdate, "purchase_order", po.ID, "order lines updated")
	return nil
}

// UpdatePurchaseOrderStatus advances the order through its machine.
// Receiving books a pending expense entry and makes the raw material
// available to production; cancelling has no inventory effect.
func (s *Store) UpdatePurchaseOrderStatus(actor, id string, next PurchaseOrderStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := slices.IndexFunc(s.st.Purchases, func(x PurchaseOrder) bool { return x.ID == id })
	if idx < 0 {
		return shared.ErrNotFound
	}
	current := s.st.Purchases[idx]
	if !slices.Contains(purchaseTransitions[current.Status], next) {
		return fmt.Errorf("%w: purchase order %s -> %s", ErrInvalidTransition, current.Status, next)
	}
	s.st.Purchases[idx].Status = next
	if next == PurchaseReceived {
		s.st.Transactions = append(s.st.Transactions, Transaction{
			ID:          s.newID(),
			Date:        s.now().UTC(),
			DueDate:     s.now().UTC(),
			Type:        TransactionExpense,
			Category:    "raw-material",
			Description: fmt.Sprintf("purchase order %s received", id),
			Amount:      current.Total,
			Status:      TransactionPending,
			LinkedID:    id,
		})
	}
	s.commitLocked(actor, AuditUpdate, "purchase_order", id, fmt.Sprintf("status %s", next))
	return nil
}

// RemovePurchaseOrder deletes the order. A received order can only be
// removed while its material is still unconsumed, otherwise supplier
// balances already spent by production would go negative.
func (s *Store) RemovePurchaseOrder(actor, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := slices.IndexFunc(s.st.Purchases, func(x PurchaseOrder) bool { return x.ID == id })
	if idx < 0 {
		return shared.ErrNotFound
	}
	po := s.st.Purchases[idx]
	if po.Status == PurchaseReceived {
		if s.supplierAvailableLocked(po.SupplierID) < po.RawMaterialKg() {
			return fmt.Errorf("%w: material already consumed by production", ErrInsufficientRawMaterial)
		}
	}
	s.st.Purchases = slices.Delete(s.st.Purchases, idx, idx+1)
	s.st.Transactions = slices.DeleteFunc(s.st.Transactions, func(tx Transaction) bool {
		return tx.LinkedID == id
	})
	s.commitLocked(actor, AuditDelete, "purchase_order", id, "purchase order removed")
	return nil
}

// PurchaseOrders returns a deep copy of the purchase collection.
func (s *Store) PurchaseOrders() []PurchaseOrder {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]PurchaseOrder, 0, len(s.st.Purchases))
	for _, po := range s.st.Purchases {
		out = append(out, clonePurchaseOrder(po))
	}
	return out
}

// PurchaseOrder fetches one order by ID.
func (s *Store) PurchaseOrder(id string) (PurchaseOrder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := slices.IndexFunc(s.st.Purchases, func(x PurchaseOrder) bool { return x.ID == id })
	if idx < 0 {
		return PurchaseOrder{}, shared.ErrNotFound
	}
	return clonePurchaseOrder(s.st.Purchases[idx]), nil
}

// supplierAvailableLocked is the received-minus-consumed raw material
// balance for a supplier.
func (s *Store) supplierAvailableLocked(supplierID string) float64 {
	var received float64
	for _, po := range s.st.Purchases {
		if po.SupplierID == supplierID && po.Status == PurchaseReceived {
			received += po.RawMaterialKg()
		}
	}
	var consumed float64
	for _, batch := range s.st.Batches {
		for _, in := range batch.Inputs {
			if in.SupplierID == supplierID {
				consumed += in.WeightKg
			}
		}
	}
	return received - consumed
}

// SupplierRawBalance reports the raw material currently available for
// production from a supplier.
func (s *Store) SupplierRawBalance(supplierID string) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.supplierAvailableLocked(supplierID)
}
