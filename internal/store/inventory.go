package store

import (
	"fmt"

	"github.com/brasaerp/brasaerp/internal/shared"
)

func (s *Store) creditLocked(loc Location, p ProductType, qty int) {
	if s.st.Inventory[loc] == nil {
		s.st.Inventory[loc] = make(map[ProductType]int)
	}
	s.st.Inventory[loc][p] += qty
}

// debitLocked rejects rather than clamps: a cell never goes negative.
func (s *Store) debitLocked(loc Location, p ProductType, qty int) error {
	if s.st.Inventory.Qty(loc, p) < qty {
		return fmt.Errorf("%w: %d x %s at %s", ErrInsufficientStock, qty, p, loc)
	}
	s.st.Inventory[loc][p] -= qty
	return nil
}

// TransferStock atomically moves qty of p between the two sites.
// Insufficient stock is an error, never a silent no-op, matching the
// rejection behavior of every other stock-debiting operation.
func (s *Store) TransferStock(actor string, from, to Location, p ProductType, qty int) error {
	if !from.Valid() || !to.Valid() {
		return shared.Invalid("location", "unknown location")
	}
	if from == to {
		return shared.Invalid("location", "source and destination must differ")
	}
	if !p.Valid() {
		return shared.Invalid("product", "unknown product type")
	}
	if qty <= 0 {
		return shared.Invalid("quantity", "quantity must be positive")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.debitLocked(from, p, qty); err != nil {
		return err
	}
	s.creditLocked(to, p, qty)
	s.commitLocked(actor, AuditUpdate, "inventory", "",
		fmt.Sprintf("transfer %d x %s from %s to %s", qty, p, from, to))
	return nil
}
