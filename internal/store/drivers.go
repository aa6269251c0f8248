package store

import (
	"slices"
	"strings"

	"github.com/brasaerp/brasaerp/internal/shared"
)

// AddDriver registers a delivery driver.
func (s *Store) AddDriver(actor string, d Driver) (Driver, error) {
	d.Name = strings.TrimSpace(d.Name)
	if d.Name == "" {
		return Driver{}, shared.Invalid("name", "driver name required")
	}
	if strings.TrimSpace(d.Plate) == "" {
		return Driver{}, shared.Invalid("plate", "license plate required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	d.ID = s.newID()
	s.st.Drivers = append(s.st.Drivers, d)
	s.commitLocked(actor, AuditCreate, "driver", d.ID, d.Name)
	return d, nil
}

// UpdateDriver replaces the stored driver with the same ID.
func (s *Store) UpdateDriver(actor string, d Driver) error {
	if strings.TrimSpace(d.Name) == "" {
		return shared.Invalid("name", "driver name required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := slices.IndexFunc(s.st.Drivers, func(x Driver) bool { return x.ID == d.ID })
	if idx < 0 {
		return shared.ErrNotFound
	}
	s.st.Drivers[idx] = d
	s.commitLocked(actor, AuditUpdate, "driver", d.ID, d.Name)
	return nil
}

// RemoveDriver deletes the driver record.
func (s *Store) RemoveDriver(actor, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := slices.IndexFunc(s.st.Drivers, func(x Driver) bool { return x.ID == id })
	if idx < 0 {
		return shared.ErrNotFound
	}
	name := s.st.Drivers[idx].Name
	s.st.Drivers = slices.Delete(s.st.Drivers, idx, idx+1)
	s.commitLocked(actor, AuditDelete, "driver", id, name)
	return nil
}

// Drivers returns a copy of the driver collection.
func (s *Store) Drivers() []Driver {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.st.Drivers)
}
