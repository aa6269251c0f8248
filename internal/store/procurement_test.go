package store

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestPurchaseOrderLifecycle(t *testing.T) {
	s := newTestStore(t)
	sup, err := s.AddSupplier("tester", Supplier{Name: "Carvoaria do Vale"})
	require.NoError(t, err)

	po, err := s.AddPurchaseOrder("tester", PurchaseOrder{
		SupplierID: sup.ID,
		Status:     PurchaseReceived, // ignored, orders always start pending
		Items: []PurchaseOrderItem{
			{Material: "raw charcoal", QuantityKg: 300, UnitPrice: decimal.NewFromInt(2)},
			{Material: "raw charcoal", QuantityKg: 200, UnitPrice: decimal.NewFromInt(3)},
		},
	})
	require.NoError(t, err)
	require.Equal(t, PurchasePending, po.Status)
	require.Equal(t, 500.0, po.RawMaterialKg())
	require.True(t, po.Total.Equal(decimal.NewFromInt(1200)))

	// Pending material is not available to production yet.
	require.Equal(t, 0.0, s.SupplierRawBalance(sup.ID))

	require.NoError(t, s.UpdatePurchaseOrderStatus("tester", po.ID, PurchaseApproved))
	require.Equal(t, 0.0, s.SupplierRawBalance(sup.ID))

	require.NoError(t, s.UpdatePurchaseOrderStatus("tester", po.ID, PurchaseReceived))
	require.Equal(t, 500.0, s.SupplierRawBalance(sup.ID))

	// Receiving booked a pending expense for the order total.
	txs := s.Transactions()
	require.Len(t, txs, 1)
	require.Equal(t, TransactionExpense, txs[0].Type)
	require.Equal(t, TransactionPending, txs[0].Status)
	require.True(t, txs[0].Amount.Equal(decimal.NewFromInt(1200)))
	require.Equal(t, po.ID, txs[0].LinkedID)
}

func TestPurchaseOrderInvalidTransitions(t *testing.T) {
	s := newTestStore(t)
	sup, err := s.AddSupplier("tester", Supplier{Name: "Carvoaria do Vale"})
	require.NoError(t, err)
	po, err := s.AddPurchaseOrder("tester", PurchaseOrder{
		SupplierID: sup.ID,
		Items: []PurchaseOrderItem{
			{Material: "raw charcoal", QuantityKg: 100, UnitPrice: decimal.NewFromInt(2)},
		},
	})
	require.NoError(t, err)

	require.NoError(t, s.UpdatePurchaseOrderStatus("tester", po.ID, PurchaseCancelled))

	// Cancelled is terminal.
	for _, next := range []PurchaseOrderStatus{PurchasePending, PurchaseApproved, PurchaseReceived} {
		err := s.UpdatePurchaseOrderStatus("tester", po.ID, next)
		require.ErrorIs(t, err, ErrInvalidTransition)
	}
}

func TestUpdatePurchaseOrderPendingOnly(t *testing.T) {
	s := newTestStore(t)
	sup, err := s.AddSupplier("tester", Supplier{Name: "Carvoaria do Vale"})
	require.NoError(t, err)
	po, err := s.AddPurchaseOrder("tester", PurchaseOrder{
		SupplierID: sup.ID,
		Items: []PurchaseOrderItem{
			{Material: "raw charcoal", QuantityKg: 100, UnitPrice: decimal.NewFromInt(2)},
		},
	})
	require.NoError(t, err)

	po.Items[0].QuantityKg = 150
	require.NoError(t, s.UpdatePurchaseOrder("tester", po))
	got, err := s.PurchaseOrder(po.ID)
	require.NoError(t, err)
	require.Equal(t, 150.0, got.RawMaterialKg())
	require.True(t, got.Total.Equal(decimal.NewFromInt(300)))

	require.NoError(t, s.UpdatePurchaseOrderStatus("tester", po.ID, PurchaseReceived))
	err = s.UpdatePurchaseOrder("tester", po)
	require.ErrorIs(t, err, ErrInvalidTransition)
}

func TestRemovePurchaseOrderConsumedMaterial(t *testing.T) {
	s := newTestStore(t)
	sup := receivedSupplier(t, s, 200)

	_, err := s.AddProductionBatch("tester", ProductionBatch{
		Inputs:  []BatchInput{{SupplierID: sup.ID, WeightKg: 150}},
		Outputs: []BatchOutput{{Product: Product3kg, Bags: 40}},
	})
	require.NoError(t, err)

	pos := s.PurchaseOrders()
	require.Len(t, pos, 1)
	err = s.RemovePurchaseOrder("tester", pos[0].ID)
	require.ErrorIs(t, err, ErrInsufficientRawMaterial)
	require.Len(t, s.PurchaseOrders(), 1)
}

func TestRemovePurchaseOrderUnconsumed(t *testing.T) {
	s := newTestStore(t)
	sup := receivedSupplier(t, s, 200)

	pos := s.PurchaseOrders()
	require.Len(t, pos, 1)
	require.NoError(t, s.RemovePurchaseOrder("tester", pos[0].ID))
	require.Empty(t, s.PurchaseOrders())
	require.Equal(t, 0.0, s.SupplierRawBalance(sup.ID))
	// The booked expense is deleted with the order.
	require.Empty(t, s.Transactions())
}

func TestAddPurchaseOrderUnknownSupplier(t *testing.T) {
	s := newTestStore(t)
	_, err := s.AddPurchaseOrder("tester", PurchaseOrder{
		SupplierID: "missing",
		Items: []PurchaseOrderItem{
			{Material: "raw charcoal", QuantityKg: 100, UnitPrice: decimal.NewFromInt(2)},
		},
	})
	require.Error(t, err)
}
