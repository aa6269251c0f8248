package store

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestCheckNotificationsLowStock(t *testing.T) {
	s := newTestStore(t)

	created := s.CheckNotifications()
	// Every cell starts at zero, below the threshold.
	require.Len(t, created, len(Locations)*len(ProductTypes))

	// An unread notification suppresses the same condition.
	require.Empty(t, s.CheckNotifications())

	// Reading one lets its condition be flagged again.
	require.NoError(t, s.MarkNotificationRead(created[0].ID))
	again := s.CheckNotifications()
	require.Len(t, again, 1)
	require.Equal(t, created[0].Key, again[0].Key)
}

func TestCheckNotificationsStockRecovered(t *testing.T) {
	s, err := Open(Config{LowStockThreshold: 50})
	require.NoError(t, err)
	seedFactoryStock(t, s, Product3kg, 200)

	created := s.CheckNotifications()
	for _, n := range created {
		require.NotEqual(t, "low-stock:factory:3kg", n.Key)
	}
}

func TestCheckNotificationsOverdueReceivable(t *testing.T) {
	s := newTestStore(t)
	tx, err := s.AddTransaction("tester", Transaction{
		Type:     TransactionIncome,
		Category: "sales",
		Amount:   decimal.NewFromInt(450),
		DueDate:  time.Now().UTC().AddDate(0, 0, -3),
	})
	require.NoError(t, err)

	created := s.CheckNotifications()
	var found bool
	for _, n := range created {
		if n.Key == "overdue:"+tx.ID {
			found = true
			require.Equal(t, NotifyError, n.Type)
		}
	}
	require.True(t, found)

	// The entry itself moved to overdue.
	for _, got := range s.Transactions() {
		if got.ID == tx.ID {
			require.Equal(t, TransactionOverdue, got.Status)
		}
	}

	// Settling stops the flagging once the notification is read.
	s.MarkAllNotificationsRead()
	require.NoError(t, s.SettleTransaction("tester", tx.ID))
	for _, n := range s.CheckNotifications() {
		require.NotEqual(t, "overdue:"+tx.ID, n.Key)
	}
}

func TestCheckNotificationsStalePurchase(t *testing.T) {
	s := newTestStore(t)
	sup, err := s.AddSupplier("tester", Supplier{Name: "Carvoaria Velha"})
	require.NoError(t, err)
	po, err := s.AddPurchaseOrder("tester", PurchaseOrder{
		SupplierID: sup.ID,
		Date:       time.Now().UTC().AddDate(0, -2, 0),
		Items: []PurchaseOrderItem{
			{Material: "raw charcoal", QuantityKg: 100, UnitPrice: decimal.NewFromInt(2)},
		},
	})
	require.NoError(t, err)

	var found bool
	for _, n := range s.CheckNotifications() {
		if n.Key == "po-stale:"+po.ID {
			found = true
		}
	}
	require.True(t, found)
}

func TestNotificationsNewestFirst(t *testing.T) {
	s := newTestStore(t)
	s.CheckNotifications()
	list := s.Notifications()
	require.NotEmpty(t, list)
	for _, n := range list {
		require.True(t, strings.HasPrefix(n.Key, "low-stock:"))
	}

	s.MarkAllNotificationsRead()
	for _, n := range s.Notifications() {
		require.True(t, n.Read)
	}
}
