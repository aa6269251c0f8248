package store

import (
	"crypto/rand"
	"encoding/hex"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// DefaultLowStockThreshold triggers a low-stock notification when an
// inventory cell drops below it.
const DefaultLowStockThreshold = 50

// state is the full application state. It is owned exclusively by the
// Store; values are copied in and out so no caller aliases it.
type state struct {
	Suppliers     []Supplier
	Purchases     []PurchaseOrder
	Batches       []ProductionBatch
	Customers     []Customer
	PriceTables   []PriceTable
	Sales         []Sale
	Drivers       []Driver
	Shipments     []Shipment
	Transactions  []Transaction
	Users         []User
	Audit         []AuditEntry
	Notifications []Notification
	Inventory     Inventory
}

// Store is the single source of truth for every collection and the
// two-location inventory ledger. All mutations funnel through it; each
// one validates, commits atomically under the lock, records an audit
// entry and then persists the snapshot.
type Store struct {
	mu       sync.Mutex
	path     string
	logger   *slog.Logger
	lowStock int
	now      func() time.Time
	newID    func() string
	st       state
}

// Config groups Store construction options.
type Config struct {
	// Path of the snapshot file. Empty disables persistence (tests).
	Path string
	// LowStockThreshold for notifications; zero selects the default.
	LowStockThreshold int
	Logger            *slog.Logger
}

// Open loads the snapshot at cfg.Path (or starts fresh when it does
// not exist) and returns a ready Store. A store with no users gets a
// seeded admin account whose generated password is logged once.
func Open(cfg Config) (*Store, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	threshold := cfg.LowStockThreshold
	if threshold <= 0 {
		threshold = DefaultLowStockThreshold
	}
	s := &Store{
		path:     cfg.Path,
		logger:   logger,
		lowStock: threshold,
		now:      time.Now,
		newID:    uuid.NewString,
	}
	st, err := loadSnapshot(cfg.Path)
	if err != nil {
		return nil, err
	}
	s.st = st
	if len(s.st.Users) == 0 {
		if err := s.seedAdmin(); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *Store) seedAdmin() error {
	raw := make([]byte, 12)
	if _, err := rand.Read(raw); err != nil {
		return err
	}
	password := hex.EncodeToString(raw)
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	s.st.Users = append(s.st.Users, User{
		ID:           s.newID(),
		Name:         "Administrator",
		Username:     "admin",
		PasswordHash: string(hash),
		Role:         RoleAdmin,
		CanPrint:     true,
	})
	s.logger.Info("seeded admin account",
		slog.String("username", "admin"),
		slog.String("password", password))
	s.persistLocked()
	return nil
}

// persistLocked serializes the snapshot after a committed mutation.
// Persistence is fire and forget: a write failure is logged, the
// in-memory state remains authoritative.
func (s *Store) persistLocked() {
	if s.path == "" {
		return
	}
	if err := writeSnapshot(s.path, &s.st); err != nil {
		s.logger.Warn("persist snapshot", slog.Any("error", err))
	}
}

// appendAuditLocked records a mutating action. Audit entries are
// append-only and never modified afterwards.
func (s *Store) appendAuditLocked(actor string, action AuditAction, resource, entityID, detail string) {
	s.st.Audit = append(s.st.Audit, AuditEntry{
		ID:       s.newID(),
		At:       s.now().UTC(),
		UserName: actor,
		Action:   action,
		Resource: resource,
		EntityID: entityID,
		Detail:   detail,
	})
}

// commitLocked pairs the audit record with snapshot persistence.
func (s *Store) commitLocked(actor string, action AuditAction, resource, entityID, detail string) {
	s.appendAuditLocked(actor, action, resource, entityID, detail)
	s.persistLocked()
}

// StockLevels returns a copy of the inventory ledger.
func (s *Store) StockLevels() Inventory {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.Inventory.Clone()
}
