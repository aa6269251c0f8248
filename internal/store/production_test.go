package store

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// receivedSupplier sets up a supplier with rawKg of received material.
func receivedSupplier(t *testing.T, s *Store, rawKg float64) Supplier {
	t.Helper()
	sup, err := s.AddSupplier("tester", Supplier{Name: "Carvoaria Serra Azul"})
	require.NoError(t, err)
	po, err := s.AddPurchaseOrder("tester", PurchaseOrder{
		SupplierID: sup.ID,
		Items: []PurchaseOrderItem{{
			Material: "raw charcoal", QuantityKg: rawKg, UnitPrice: decimal.NewFromInt(2),
		}},
	})
	require.NoError(t, err)
	require.NoError(t, s.UpdatePurchaseOrderStatus("tester", po.ID, PurchaseReceived))
	return sup
}

func TestAddProductionBatchLoss(t *testing.T) {
	s := newTestStore(t)
	sup := receivedSupplier(t, s, 100)

	// 100kg in, 85kg out (5 x 5kg bags + 20 x 3kg bags) is a 15% loss.
	batch, err := s.AddProductionBatch("tester", ProductionBatch{
		Inputs: []BatchInput{{SupplierID: sup.ID, WeightKg: 100}},
		Outputs: []BatchOutput{
			{Product: Product5kg, Bags: 5},
			{Product: Product3kg, Bags: 20},
		},
	})
	require.NoError(t, err)
	require.Equal(t, 100.0, batch.TotalInputKg)
	require.Equal(t, 85.0, batch.TotalOutputKg)
	require.InDelta(t, 15.0, batch.LossPercent, 0.0001)

	inv := s.StockLevels()
	require.Equal(t, 5, inv.Qty(LocationFactory, Product5kg))
	require.Equal(t, 20, inv.Qty(LocationFactory, Product3kg))
}

func TestAddProductionBatchBlendsSuppliers(t *testing.T) {
	s := newTestStore(t)
	supA := receivedSupplier(t, s, 300)
	supB := receivedSupplier(t, s, 200)

	_, err := s.AddProductionBatch("tester", ProductionBatch{
		Inputs: []BatchInput{
			{SupplierID: supA.ID, WeightKg: 250},
			{SupplierID: supB.ID, WeightKg: 150},
		},
		Outputs: []BatchOutput{{Product: Product3kg, Bags: 100}},
	})
	require.NoError(t, err)
	require.Equal(t, 50.0, s.SupplierRawBalance(supA.ID))
	require.Equal(t, 50.0, s.SupplierRawBalance(supB.ID))
}

func TestAddProductionBatchRejectsOverdraw(t *testing.T) {
	s := newTestStore(t)
	sup := receivedSupplier(t, s, 100)

	_, err := s.AddProductionBatch("tester", ProductionBatch{
		Inputs:  []BatchInput{{SupplierID: sup.ID, WeightKg: 150}},
		Outputs: []BatchOutput{{Product: Product3kg, Bags: 10}},
	})
	require.ErrorIs(t, err, ErrInsufficientRawMaterial)
	require.Equal(t, 100.0, s.SupplierRawBalance(sup.ID))
	require.Equal(t, 0, s.StockLevels().Qty(LocationFactory, Product3kg))
}

func TestAddProductionBatchRejectsOutputOverInput(t *testing.T) {
	s := newTestStore(t)
	sup := receivedSupplier(t, s, 100)

	_, err := s.AddProductionBatch("tester", ProductionBatch{
		Inputs:  []BatchInput{{SupplierID: sup.ID, WeightKg: 100}},
		Outputs: []BatchOutput{{Product: Product5kg, Bags: 21}},
	})
	require.Error(t, err)
}

func TestAddProductionBatchPendingOrderDoesNotCount(t *testing.T) {
	s := newTestStore(t)
	sup, err := s.AddSupplier("tester", Supplier{Name: "Carvoaria Nova"})
	require.NoError(t, err)
	_, err = s.AddPurchaseOrder("tester", PurchaseOrder{
		SupplierID: sup.ID,
		Items: []PurchaseOrderItem{{
			Material: "raw charcoal", QuantityKg: 500, UnitPrice: decimal.NewFromInt(2),
		}},
	})
	require.NoError(t, err)

	_, err = s.AddProductionBatch("tester", ProductionBatch{
		Inputs:  []BatchInput{{SupplierID: sup.ID, WeightKg: 100}},
		Outputs: []BatchOutput{{Product: Product3kg, Bags: 10}},
	})
	require.ErrorIs(t, err, ErrInsufficientRawMaterial)
}

func TestRemoveProductionBatchReversesOutputs(t *testing.T) {
	s := newTestStore(t)
	sup := receivedSupplier(t, s, 100)

	batch, err := s.AddProductionBatch("tester", ProductionBatch{
		Inputs:  []BatchInput{{SupplierID: sup.ID, WeightKg: 100}},
		Outputs: []BatchOutput{{Product: Product3kg, Bags: 30}},
	})
	require.NoError(t, err)

	require.NoError(t, s.RemoveProductionBatch("tester", batch.ID))
	require.Equal(t, 0, s.StockLevels().Qty(LocationFactory, Product3kg))
	// The supplier's material is available again.
	require.Equal(t, 100.0, s.SupplierRawBalance(sup.ID))
}

func TestRemoveProductionBatchConsumedOutput(t *testing.T) {
	s := newTestStore(t)
	sup := receivedSupplier(t, s, 100)

	batch, err := s.AddProductionBatch("tester", ProductionBatch{
		Inputs:  []BatchInput{{SupplierID: sup.ID, WeightKg: 100}},
		Outputs: []BatchOutput{{Product: Product3kg, Bags: 30}},
	})
	require.NoError(t, err)
	_, err = s.AddSale("tester", Sale{
		Location: LocationFactory,
		Method:   PaymentCash,
		Items:    []SaleItem{{Product: Product3kg, Quantity: 10, UnitPrice: decimal.NewFromInt(15)}},
	})
	require.NoError(t, err)

	// 20 bags remain of the 30 produced; the reversal would go negative.
	err = s.RemoveProductionBatch("tester", batch.ID)
	require.ErrorIs(t, err, ErrInsufficientStock)
	require.Equal(t, 20, s.StockLevels().Qty(LocationFactory, Product3kg))
}

func TestSupplyChainEndToEnd(t *testing.T) {
	s := newTestStore(t)
	sup := receivedSupplier(t, s, 500)

	_, err := s.AddProductionBatch("tester", ProductionBatch{
		Inputs:  []BatchInput{{SupplierID: sup.ID, WeightKg: 500}},
		Outputs: []BatchOutput{{Product: Product3kg, Bags: 100}},
	})
	require.NoError(t, err)

	require.Equal(t, 100, s.StockLevels().Qty(LocationFactory, Product3kg))
	require.Equal(t, 0.0, s.SupplierRawBalance(sup.ID))

	stats := s.GetSupplierStats(sup.ID)
	require.Equal(t, 500.0, stats.TotalInputKg)
	require.Equal(t, 1, stats.BatchCount)
	require.InDelta(t, 40.0, stats.AvgLossPercent, 0.0001)
}
