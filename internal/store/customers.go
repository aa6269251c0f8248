package store

import (
	"maps"
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/brasaerp/brasaerp/internal/shared"
)

// AddCustomer registers a buyer.
func (s *Store) AddCustomer(actor string, c Customer) (Customer, error) {
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return Customer{}, shared.Invalid("name", "customer name required")
	}
	if c.CreditLimit.IsNegative() {
		return Customer{}, shared.Invalid("credit_limit", "credit limit cannot be negative")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.PriceTableID != "" && s.priceTableIndexLocked(c.PriceTableID) < 0 {
		return Customer{}, shared.Invalid("price_table_id", "unknown price table")
	}
	c.ID = s.newID()
	c.CreatedAt = s.now().UTC()
	s.st.Customers = append(s.st.Customers, c)
	s.commitLocked(actor, AuditCreate, "customer", c.ID, c.Name)
	return c, nil
}

// UpdateCustomer replaces the stored customer with the same ID.
func (s *Store) UpdateCustomer(actor string, c Customer) error {
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return shared.Invalid("name", "customer name required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.PriceTableID != "" && s.priceTableIndexLocked(c.PriceTableID) < 0 {
		return shared.Invalid("price_table_id", "unknown price table")
	}
	idx := slices.IndexFunc(s.st.Customers, func(x Customer) bool { return x.ID == c.ID })
	if idx < 0 {
		return shared.ErrNotFound
	}
	c.CreatedAt = s.st.Customers[idx].CreatedAt
	s.st.Customers[idx] = c
	s.commitLocked(actor, AuditUpdate, "customer", c.ID, c.Name)
	return nil
}

// RemoveCustomer deletes the customer record.
func (s *Store) RemoveCustomer(actor, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := slices.IndexFunc(s.st.Customers, func(x Customer) bool { return x.ID == id })
	if idx < 0 {
		return shared.ErrNotFound
	}
	name := s.st.Customers[idx].Name
	s.st.Customers = slices.Delete(s.st.Customers, idx, idx+1)
	s.commitLocked(actor, AuditDelete, "customer", id, name)
	return nil
}

// Customers returns a copy of the customer collection.
func (s *Store) Customers() []Customer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.st.Customers)
}

// Customer fetches one customer by ID.
func (s *Store) Customer(id string) (Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := slices.IndexFunc(s.st.Customers, func(x Customer) bool { return x.ID == id })
	if idx < 0 {
		return Customer{}, shared.ErrNotFound
	}
	return s.st.Customers[idx], nil
}

func (s *Store) priceTableIndexLocked(id string) int {
	return slices.IndexFunc(s.st.PriceTables, func(x PriceTable) bool { return x.ID == id })
}

func clonePriceTable(t PriceTable) PriceTable {
	t.Prices = maps.Clone(t.Prices)
	return t
}

// AddPriceTable registers a named set of per-product unit prices.
func (s *Store) AddPriceTable(actor string, t PriceTable) (PriceTable, error) {
	t.Name = strings.TrimSpace(t.Name)
	if t.Name == "" {
		return PriceTable{}, shared.Invalid("name", "price table name required")
	}
	if t.Default && !t.Method.Valid() {
		return PriceTable{}, shared.Invalid("method", "default table requires a payment method")
	}
	for p, price := range t.Prices {
		if !p.Valid() {
			return PriceTable{}, shared.Invalid("prices", "unknown product type")
		}
		if price.IsNegative() {
			return PriceTable{}, shared.Invalid("prices", "price cannot be negative")
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	t.ID = s.newID()
	t.CreatedAt = s.now().UTC()
	s.st.PriceTables = append(s.st.PriceTables, clonePriceTable(t))
	s.commitLocked(actor, AuditCreate, "price_table", t.ID, t.Name)
	return t, nil
}

// UpdatePriceTable replaces the stored table with the same ID.
func (s *Store) UpdatePriceTable(actor string, t PriceTable) error {
	t.Name = strings.TrimSpace(t.Name)
	if t.Name == "" {
		return shared.Invalid("name", "price table name required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.priceTableIndexLocked(t.ID)
	if idx < 0 {
		return shared.ErrNotFound
	}
	t.CreatedAt = s.st.PriceTables[idx].CreatedAt
	s.st.PriceTables[idx] = clonePriceTable(t)
	s.commitLocked(actor, AuditUpdate, "price_table", t.ID, t.Name)
	return nil
}

// RemovePriceTable deletes the table and detaches it from customers.
func (s *Store) RemovePriceTable(actor, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.priceTableIndexLocked(id)
	if idx < 0 {
		return shared.ErrNotFound
	}
	name := s.st.PriceTables[idx].Name
	s.st.PriceTables = slices.Delete(s.st.PriceTables, idx, idx+1)
	for i := range s.st.Customers {
		if s.st.Customers[i].PriceTableID == id {
			s.st.Customers[i].PriceTableID = ""
		}
	}
	s.commitLocked(actor, AuditDelete, "price_table", id, name)
	return nil
}

// PriceTables returns a deep copy of the price table collection.
func (s *Store) PriceTables() []PriceTable {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]PriceTable, 0, len(s.st.PriceTables))
	for _, t := range s.st.PriceTables {
		out = append(out, clonePriceTable(t))
	}
	return out
}

// GetPrice resolves the unit price for a product: the customer's
// assigned table when present, else the default table for the payment
// method, else zero ("no configured price").
func (s *Store) GetPrice(p ProductType, method PaymentMethod, customerID string) decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	if customerID != "" {
		idx := slices.IndexFunc(s.st.Customers, func(x Customer) bool { return x.ID == customerID })
		if idx >= 0 && s.st.Customers[idx].PriceTableID != "" {
			if ti := s.priceTableIndexLocked(s.st.Customers[idx].PriceTableID); ti >= 0 {
				if price, ok := s.st.PriceTables[ti].Prices[p]; ok {
					return price
				}
			}
		}
	}
	for _, t := range s.st.PriceTables {
		if t.Default && t.Method == method {
			if price, ok := t.Prices[p]; ok {
				return price
			}
		}
	}
	return decimal.Zero
}
