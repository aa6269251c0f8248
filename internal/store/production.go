package store

import (
	"fmt"
	"slices"

	"github.com/brasaerp/brasaerp/internal/shared"
)

func cloneBatch(b ProductionBatch) ProductionBatch {
	b.Inputs = slices.Clone(b.Inputs)
	b.Outputs = slices.Clone(b.Outputs)
	return b
}

// AddProductionBatch records a production run: the blended inputs are
// checked against each supplier's received-minus-consumed raw balance,
// the packaged outputs are credited to Factory inventory, and the loss
// percentage is computed. Zero total input reports 0% loss.
func (s *Store) AddProductionBatch(actor string, batch ProductionBatch) (ProductionBatch, error) {
	if len(batch.Inputs) == 0 {
		return ProductionBatch{}, shared.Invalid("inputs", "batch requires at least one supplier input")
	}
	if len(batch.Outputs) == 0 {
		return ProductionBatch{}, shared.Invalid("outputs", "batch requires at least one output")
	}
	var totalIn float64
	perSupplier := make(map[string]float64)
	for _, in := range batch.Inputs {
		if in.SupplierID == "" {
			return ProductionBatch{}, shared.Invalid("inputs", "supplier required")
		}
		if in.WeightKg < 0 {
			return ProductionBatch{}, shared.Invalid("inputs", "input weight cannot be negative")
		}
		totalIn += in.WeightKg
		perSupplier[in.SupplierID] += in.WeightKg
	}
	var totalOut float64
	for _, out := range batch.Outputs {
		if !out.Product.Valid() {
			return ProductionBatch{}, shared.Invalid("outputs", "unknown product type")
		}
		if out.Bags <= 0 {
			return ProductionBatch{}, shared.Invalid("outputs", "bag count must be positive")
		}
		totalOut += out.WeightKg()
	}
	if totalOut > totalIn {
		return ProductionBatch{}, shared.Invalid("outputs", "output weight exceeds input weight")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for supplierID, weight := range perSupplier {
		if slices.IndexFunc(s.st.Suppliers, func(x Supplier) bool { return x.ID == supplierID }) < 0 {
			return ProductionBatch{}, shared.Invalid("inputs", "unknown supplier")
		}
		if available := s.supplierAvailableLocked(supplierID); available < weight {
			return ProductionBatch{}, fmt.Errorf("%w: need %.1fkg, supplier has %.1fkg",
				ErrInsufficientRawMaterial, weight, available)
		}
	}
	batch.ID = s.newID()
	if batch.Date.IsZero() {
		batch.Date = s.now().UTC()
	}
	batch.TotalInputKg = totalIn
	batch.TotalOutputKg = totalOut
	if totalIn > 0 {
		batch.LossPercent = (totalIn - totalOut) / totalIn * 100
	} else {
		batch.LossPercent = 0
	}
	for _, out := range batch.Outputs {
		s.creditLocked(LocationFactory, out.Product, out.Bags)
	}
	s.st.Batches = append(s.st.Batches, cloneBatch(batch))
	s.commitLocked(actor, AuditCreate, "production_batch", batch.ID,
		fmt.Sprintf("%.1fkg in, %.1fkg out, %.1f%% loss", totalIn, totalOut, batch.LossPercent))
	return batch, nil
}

// RemoveProductionBatch deletes the batch and reverses its Factory
// credits. If the produced bags were already sold or shipped the
// reversal is rejected rather than driving a cell negative.
func (s *Store) RemoveProductionBatch(actor, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := slices.IndexFunc(s.st.Batches, func(x ProductionBatch) bool { return x.ID == id })
	if idx < 0 {
		return shared.ErrNotFound
	}
	batch := s.st.Batches[idx]
	for _, out := range batch.Outputs {
		if s.st.Inventory.Qty(LocationFactory, out.Product) < out.Bags {
			return fmt.Errorf("%w: batch output already consumed", ErrInsufficientStock)
		}
	}
	for _, out := range batch.Outputs {
		s.st.Inventory[LocationFactory][out.Product] -= out.Bags
	}
	s.st.Batches = slices.Delete(s.st.Batches, idx, idx+1)
	s.commitLocked(actor, AuditDelete, "production_batch", id, "batch removed, outputs reversed")
	return nil
}

// ProductionBatches returns a deep copy of the batch collection.
func (s *Store) ProductionBatches() []ProductionBatch {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]ProductionBatch, 0, len(s.st.Batches))
	for _, b := range s.st.Batches {
		out = append(out, cloneBatch(b))
	}
	return out
}

// ProductionBatch fetches one batch by ID.
func (s *Store) ProductionBatch(id string) (ProductionBatch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := slices.IndexFunc(s.st.Batches, func(x ProductionBatch) bool { return x.ID == id })
	if idx < 0 {
		return ProductionBatch{}, shared.ErrNotFound
	}
	return cloneBatch(s.st.Batches[idx]), nil
}
