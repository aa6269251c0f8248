package store

import (
	"fmt"
	"slices"

	"github.com/brasaerp/brasaerp/internal/shared"
)

func cloneShipment(sh Shipment) Shipment {
	sh.SaleIDs = slices.Clone(sh.SaleIDs)
	sh.Items = slices.Clone(sh.Items)
	return sh
}

// AddShipment plans a transport event. Sale shipments reference the
// sales they deliver; transfer shipments carry product quantities
// between the two sites. Stock only moves when a transfer shipment is
// received.
func (s *Store) AddShipment(actor string, sh Shipment) (Shipment, error) {
	switch sh.Type {
	case ShipmentSale:
		if len(sh.SaleIDs) == 0 {
			return Shipment{}, shared.Invalid("sale_ids", "sale shipment requires at least one sale")
		}
	case ShipmentTransfer:
		if !sh.From.Valid() || !sh.To.Valid() {
			return Shipment{}, shared.Invalid("location", "unknown location")
		}
		if sh.From == sh.To {
			return Shipment{}, shared.Invalid("location", "source and destination must differ")
		}
		if len(sh.Items) == 0 {
			return Shipment{}, shared.Invalid("items", "transfer shipment requires at least one item")
		}
		for _, item := range sh.Items {
			if !item.Product.Valid() {
				return Shipment{}, shared.Invalid("items", "unknown product type")
			}
			if item.Quantity <= 0 {
				return Shipment{}, shared.Invalid("items", "quantity must be positive")
			}
		}
	default:
		return Shipment{}, shared.Invalid("type", "unknown shipment type")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if sh.DriverID != "" {
		if slices.IndexFunc(s.st.Drivers, func(x Driver) bool { return x.ID == sh.DriverID }) < 0 {
			return Shipment{}, shared.Invalid("driver_id", "unknown driver")
		}
	}
	for _, saleID := range sh.SaleIDs {
		if slices.IndexFunc(s.st.Sales, func(x Sale) bool { return x.ID == saleID }) < 0 {
			return Shipment{}, shared.Invalid("sale_ids", "unknown sale")
		}
	}
	sh.ID = s.newID()
	sh.Status = ShipmentPlanned
	if sh.Date.IsZero() {
		sh.Date = s.now().UTC()
	}
	s.st.Shipments = append(s.st.Shipments, cloneShipment(sh))
	s.commitLocked(actor, AuditCreate, "shipment", sh.ID, fmt.Sprintf("%s shipment planned", sh.Type))
	return sh, nil
}

// UpdateShipmentStatus advances the forward-only lifecycle. A transfer
// shipment cannot be marked delivered here: delivery of a transfer is
// coupled to the inventory move and happens through ReceiveShipment.
func (s *Store) UpdateShipmentStatus(actor, id string, next ShipmentStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := slices.IndexFunc(s.st.Shipments, func(x Shipment) bool { return x.ID == id })
	if idx < 0 {
		return shared.ErrNotFound
	}
	sh := s.st.Shipments[idx]
	valid := (sh.Status == ShipmentPlanned && next == ShipmentInTransit) ||
		(sh.Status == ShipmentInTransit && next == ShipmentDelivered)
	if !valid {
		return fmt.Errorf("%w: shipment %s -> %s", ErrInvalidTransition, sh.Status, next)
	}
	if sh.Type == ShipmentTransfer && next == ShipmentDelivered {
		return fmt.Errorf("%w: transfer shipments are delivered via receive", ErrInvalidTransition)
	}
	s.st.Shipments[idx].Status = next
	s.commitLocked(actor, AuditUpdate, "shipment", id, fmt.Sprintf("status %s", next))
	return nil
}

// ReceiveShipment delivers an in-transit transfer shipment, moving
// every carried quantity from source to destination exactly once. The
// status guard makes a second receive fail instead of double-applying
// the move. The whole move is all or nothing.
func (s *Store) ReceiveShipment(actor, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := slices.IndexFunc(s.st.Shipments, func(x Shipment) bool { return x.ID == id })
	if idx < 0 {
		return shared.ErrNotFound
	}
	sh := s.st.Shipments[idx]
	if sh.Type != ShipmentTransfer {
		return fmt.Errorf("%w: only transfer shipments are received", ErrInvalidTransition)
	}
	if sh.Status != ShipmentInTransit {
		return fmt.Errorf("%w: shipment is %s, not in transit", ErrInvalidTransition, sh.Status)
	}
	for _, item := range sh.Items {
		if s.st.Inventory.Qty(sh.From, item.Product) < item.Quantity {
			return fmt.Errorf("%w: %d x %s at %s",
				ErrInsufficientStock, item.Quantity, item.Product, sh.From)
		}
	}
	for _, item := range sh.Items {
		s.st.Inventory[sh.From][item.Product] -= item.Quantity
		s.creditLocked(sh.To, item.Product, item.Quantity)
	}
	s.st.Shipments[idx].Status = ShipmentDelivered
	s.commitLocked(actor, AuditUpdate, "shipment", id,
		fmt.Sprintf("transfer received, %d items moved %s -> %s", len(sh.Items), sh.From, sh.To))
	return nil
}

// RemoveShipment deletes a shipment that has not been delivered.
// Delivered shipments are immutable transport history.
func (s *Store) RemoveShipment(actor, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := slices.IndexFunc(s.st.Shipments, func(x Shipment) bool { return x.ID == id })
	if idx < 0 {
		return shared.ErrNotFound
	}
	if s.st.Shipments[idx].Status == ShipmentDelivered {
		return fmt.Errorf("%w: delivered shipments cannot be removed", ErrInvalidTransition)
	}
	s.st.Shipments = slices.Delete(s.st.Shipments, idx, idx+1)
	s.commitLocked(actor, AuditDelete, "shipment", id, "shipment removed")
	return nil
}

// Shipments returns a deep copy of the shipment collection.
func (s *Store) Shipments() []Shipment {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Shipment, 0, len(s.st.Shipments))
	for _, sh := range s.st.Shipments {
		out = append(out, cloneShipment(sh))
	}
	return out
}

// Shipment fetches one shipment by ID.
func (s *Store) Shipment(id string) (Shipment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := slices.IndexFunc(s.st.Shipments, func(x Shipment) bool { return x.ID == id })
	if idx < 0 {
		return Shipment{}, shared.ErrNotFound
	}
	return cloneShipment(s.st.Shipments[idx]), nil
}
