package store

import (
	"slices"

	"github.com/brasaerp/brasaerp/internal/shared"
)

// Export is a value-copied bundle of every collection plus the ledger,
// used by the spreadsheet interchange. User records carry their opaque
// password hashes so a restore keeps credentials working; plaintext is
// never part of an export.
type Export struct {
	Suppliers    []Supplier
	Purchases    []PurchaseOrder
	Batches      []ProductionBatch
	Customers    []Customer
	PriceTables  []PriceTable
	Sales        []Sale
	Drivers      []Driver
	Shipments    []Shipment
	Transactions []Transaction
	Users        []User
	Inventory    Inventory
}

// Export snapshots the full state for interchange.
func (s *Store) Export() Export {
	s.mu.Lock()
	defer s.mu.Unlock()
	ex := Export{
		Suppliers:    slices.Clone(s.st.Suppliers),
		Customers:    slices.Clone(s.st.Customers),
		Drivers:      slices.Clone(s.st.Drivers),
		Transactions: slices.Clone(s.st.Transactions),
		Inventory:    s.st.Inventory.Clone(),
	}
	for _, po := range s.st.Purchases {
		ex.Purchases = append(ex.Purchases, clonePurchaseOrder(po))
	}
	for _, b := range s.st.Batches {
		ex.Batches = append(ex.Batches, cloneBatch(b))
	}
	for _, t := range s.st.PriceTables {
		ex.PriceTables = append(ex.PriceTables, clonePriceTable(t))
	}
	for _, sale := range s.st.Sales {
		ex.Sales = append(ex.Sales, cloneSale(sale))
	}
	for _, sh := range s.st.Shipments {
		ex.Shipments = append(ex.Shipments, cloneShipment(sh))
	}
	for _, u := range s.st.Users {
		ex.Users = append(ex.Users, cloneUser(u))
	}
	return ex
}

// Replace swaps in a restored state wholesale. Validation happens up
// front; nothing mutates on failure. The audit log survives a restore
// (it is append-only local history, not part of the interchange) and
// session-scoped notifications are cleared.
func (s *Store) Replace(actor string, ex Export) error {
	inv := NewInventory()
	for loc, cells := range ex.Inventory {
		if !loc.Valid() {
			return shared.Invalid("inventory", "unknown location "+string(loc))
		}
		for p, q := range cells {
			if !p.Valid() {
				return shared.Invalid("inventory", "unknown product type "+string(p))
			}
			if q < 0 {
				return shared.Invalid("inventory", "negative quantity")
			}
			inv[loc][p] = q
		}
	}
	for _, u := range ex.Users {
		if u.Username == "" || u.PasswordHash == "" {
			return shared.Invalid("users", "user requires username and password hash")
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.Suppliers = ex.Suppliers
	s.st.Purchases = ex.Purchases
	s.st.Batches = ex.Batches
	s.st.Customers = ex.Customers
	s.st.PriceTables = ex.PriceTables
	s.st.Sales = ex.Sales
	s.st.Drivers = ex.Drivers
	s.st.Shipments = ex.Shipments
	s.st.Transactions = ex.Transactions
	s.st.Users = ex.Users
	s.st.Inventory = inv
	s.st.Notifications = nil
	s.commitLocked(actor, AuditUpdate, "store", "", "state restored from import")
	return nil
}
