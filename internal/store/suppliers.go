package store

import (
	"slices"
	"strings"

	"github.com/brasaerp/brasaerp/internal/shared"
)

// AddSupplier registers a raw-material source.
func (s *Store) AddSupplier(actor string, sup Supplier) (Supplier, error) {
	sup.Name = strings.TrimSpace(sup.Name)
	if sup.Name == "" {
		return Supplier{}, shared.Invalid("name", "supplier name required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	sup.ID = s.newID()
	sup.CreatedAt = s.now().UTC()
	s.st.Suppliers = append(s.st.Suppliers, sup)
	s.commitLocked(actor, AuditCreate, "supplier", sup.ID, sup.Name)
	return sup, nil
}

// UpdateSupplier replaces the stored supplier with the same ID.
func (s *Store) UpdateSupplier(actor string, sup Supplier) error {
	sup.Name = strings.TrimSpace(sup.Name)
	if sup.Name == "" {
		return shared.Invalid("name", "supplier name required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := slices.IndexFunc(s.st.Suppliers, func(x Supplier) bool { return x.ID == sup.ID })
	if idx < 0 {
		return shared.ErrNotFound
	}
	sup.CreatedAt = s.st.Suppliers[idx].CreatedAt
	s.st.Suppliers[idx] = sup
	s.commitLocked(actor, AuditUpdate, "supplier", sup.ID, sup.Name)
	return nil
}

// RemoveSupplier deletes the supplier record. Batches and purchase
// orders keep their historical reference.
func (s *Store) RemoveSupplier(actor, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := slices.IndexFunc(s.st.Suppliers, func(x Supplier) bool { return x.ID == id })
	if idx < 0 {
		return shared.ErrNotFound
	}
	name := s.st.Suppliers[idx].Name
	s.st.Suppliers = slices.Delete(s.st.Suppliers, idx, idx+1)
	s.commitLocked(actor, AuditDelete, "supplier", id, name)
	return nil
}

// Suppliers returns a copy of the supplier collection.
func (s *Store) Suppliers() []Supplier {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.st.Suppliers)
}

// Supplier fetches one supplier by ID.
func (s *Store) Supplier(id string) (Supplier, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := slices.IndexFunc(s.st.Suppliers, func(x Supplier) bool { return x.ID == id })
	if idx < 0 {
		return Supplier{}, shared.ErrNotFound
	}
	return s.st.Suppliers[idx], nil
}
