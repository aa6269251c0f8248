package store

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// snapshotVersion identifies the current on-disk schema. Version 0
// (field absent) marks snapshots from before the inputs-list batch
// shape and the hashed-password user shape.
const snapshotVersion = 1

type snapshot struct {
	SchemaVersion int              `json:"schema_version"`
	Suppliers     []Supplier       `json:"suppliers"`
	Purchases     []PurchaseOrder  `json:"purchase_orders"`
	Batches       []batchRecord    `json:"production_batches"`
	Customers     []Customer       `json:"customers"`
	PriceTables   []PriceTable     `json:"price_tables"`
	Sales         []Sale           `json:"sales"`
	Drivers       []Driver         `json:"drivers"`
	Shipments     []Shipment       `json:"shipments"`
	Transactions  []Transaction    `json:"transactions"`
	Users         []userRecord     `json:"users"`
	Audit         []AuditEntry     `json:"audit_log"`
	Notifications []Notification   `json:"notifications"`
	Inventory     Inventory        `json:"inventory"`
}

// batchRecord reads both the current inputs-list shape and the legacy
// single-supplier shape. Legacy fields are never written back.
type batchRecord struct {
	ID            string        `json:"id"`
	Date          time.Time     `json:"date"`
	Inputs        []BatchInput  `json:"inputs,omitempty"`
	Outputs       []BatchOutput `json:"outputs"`
	TotalInputKg  float64       `json:"total_input_kg"`
	TotalOutputKg float64       `json:"total_output_kg"`
	LossPercent   float64       `json:"loss_percent"`

	LegacySupplierID string  `json:"supplierId,omitempty"`
	LegacyInputKg    float64 `json:"inputWeightKg,omitempty"`
}

func (r batchRecord) toDomain() ProductionBatch {
	batch := ProductionBatch{
		ID:            r.ID,
		Date:          r.Date,
		Inputs:        r.Inputs,
		Outputs:       r.Outputs,
		TotalInputKg:  r.TotalInputKg,
		TotalOutputKg: r.TotalOutputKg,
		LossPercent:   r.LossPercent,
	}
	if len(batch.Inputs) == 0 && r.LegacySupplierID != "" {
		batch.Inputs = []BatchInput{{SupplierID: r.LegacySupplierID, WeightKg: r.LegacyInputKg}}
	}
	if batch.TotalInputKg == 0 {
		for _, in := range batch.Inputs {
			batch.TotalInputKg += in.WeightKg
		}
	}
	if batch.TotalOutputKg == 0 {
		for _, out := range batch.Outputs {
			batch.TotalOutputKg += out.WeightKg()
		}
	}
	if batch.LossPercent == 0 && batch.TotalInputKg > 0 {
		batch.LossPercent = (batch.TotalInputKg - batch.TotalOutputKg) / batch.TotalInputKg * 100
	}
	return batch
}

func fromDomainBatch(b ProductionBatch) batchRecord {
	return batchRecord{
		ID:            b.ID,
		Date:          b.Date,
		Inputs:        b.Inputs,
		Outputs:       b.Outputs,
		TotalInputKg:  b.TotalInputKg,
		TotalOutputKg: b.TotalOutputKg,
		LossPercent:   b.LossPercent,
	}
}

// userRecord tolerates the legacy plaintext password column; a value
// found there is hashed on load and never written back.
type userRecord struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Username     string   `json:"username"`
	PasswordHash string   `json:"password_hash,omitempty"`
	Role         Role     `json:"role"`
	Permissions  []string `json:"permissions,omitempty"`
	CanPrint     bool     `json:"can_print,omitempty"`

	LegacyPassword string `json:"password,omitempty"`
}

func (r userRecord) toDomain() (User, error) {
	u := User{
		ID:           r.ID,
		Name:         r.Name,
		Username:     r.Username,
		PasswordHash: r.PasswordHash,
		Role:         r.Role,
		Permissions:  r.Permissions,
		CanPrint:     r.CanPrint,
	}
	if u.PasswordHash == "" && r.LegacyPassword != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(r.LegacyPassword), bcrypt.DefaultCost)
		if err != nil {
			return User{}, err
		}
		u.PasswordHash = string(hash)
	}
	return u, nil
}

func fromDomainUser(u User) userRecord {
	return userRecord{
		ID:           u.ID,
		Name:         u.Name,
		Username:     u.Username,
		PasswordHash: u.PasswordHash,
		Role:         u.Role,
		Permissions:  u.Permissions,
		CanPrint:     u.CanPrint,
	}
}

// loadSnapshot reads the blob at path. A missing file yields a fresh
// state; unknown fields are ignored and missing collections decode to
// empty ones so older snapshots keep loading.
func loadSnapshot(path string) (state, error) {
	st := state{Inventory: NewInventory()}
	if path == "" {
		return st, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return st, nil
		}
		return state{}, err
	}
	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return state{}, err
	}
	st.Suppliers = snap.Suppliers
	st.Purchases = snap.Purchases
	st.Customers = snap.Customers
	st.PriceTables = snap.PriceTables
	st.Sales = snap.Sales
	st.Drivers = snap.Drivers
	st.Shipments = snap.Shipments
	st.Transactions = snap.Transactions
	st.Audit = snap.Audit
	st.Notifications = snap.Notifications
	for _, rec := range snap.Batches {
		st.Batches = append(st.Batches, rec.toDomain())
	}
	for _, rec := range snap.Users {
		u, err := rec.toDomain()
		if err != nil {
			return state{}, err
		}
		st.Users = append(st.Users, u)
	}
	for loc, cells := range snap.Inventory {
		if !loc.Valid() {
			continue
		}
		for p, q := range cells {
			if p.Valid() && q >= 0 {
				st.Inventory[loc][p] = q
			}
		}
	}
	return st, nil
}

// writeSnapshot replaces the blob atomically: the new snapshot is
// written to a temp file in the same directory and renamed over the
// old one, so a crash leaves either the previous or the new snapshot.
func writeSnapshot(path string, st *state) error {
	snap := snapshot{
		SchemaVersion: snapshotVersion,
		Suppliers:     st.Suppliers,
		Purchases:     st.Purchases,
		Customers:     st.Customers,
		PriceTables:   st.PriceTables,
		Sales:         st.Sales,
		Drivers:       st.Drivers,
		Shipments:     st.Shipments,
		Transactions:  st.Transactions,
		Audit:         st.Audit,
		Notifications: st.Notifications,
		Inventory:     st.Inventory,
	}
	for _, b := range st.Batches {
		snap.Batches = append(snap.Batches, fromDomainBatch(b))
	}
	for _, u := range st.Users {
		snap.Users = append(snap.Users, fromDomainUser(u))
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".snapshot-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, path)
}
