package store

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestAddSaleDebitsStock(t *testing.T) {
	s := newTestStore(t)
	seedFactoryStock(t, s, Product3kg, 100)

	sale, err := s.AddSale("tester", Sale{
		Location: LocationFactory,
		Method:   PaymentCash,
		Items: []SaleItem{
			{Product: Product3kg, Quantity: 20, UnitPrice: decimal.NewFromInt(15)},
		},
	})
	require.NoError(t, err)
	require.Equal(t, 80, s.StockLevels().Qty(LocationFactory, Product3kg))
	require.True(t, sale.Total.Equal(decimal.NewFromInt(300)))

	// A cash sale books a settled income entry.
	txs := s.Transactions()
	require.Len(t, txs, 2) // received purchase order expense + this sale
	var saleTx Transaction
	for _, tx := range txs {
		if tx.LinkedID == sale.ID {
			saleTx = tx
		}
	}
	require.Equal(t, TransactionIncome, saleTx.Type)
	require.Equal(t, TransactionPaid, saleTx.Status)
	require.True(t, saleTx.Amount.Equal(decimal.NewFromInt(300)))
}

func TestAddSaleRejectsInsufficientStock(t *testing.T) {
	s := newTestStore(t)
	seedFactoryStock(t, s, Product3kg, 100)
	seedFactoryStock(t, s, Product5kg, 5)

	before := s.StockLevels()
	_, err := s.AddSale("tester", Sale{
		Location: LocationFactory,
		Method:   PaymentCash,
		Items: []SaleItem{
			{Product: Product3kg, Quantity: 10, UnitPrice: decimal.NewFromInt(15)},
			{Product: Product5kg, Quantity: 6, UnitPrice: decimal.NewFromInt(25)},
		},
	})
	require.ErrorIs(t, err, ErrInsufficientStock)

	// The rejection is all or nothing: no line debited anything.
	require.Equal(t, before, s.StockLevels())
	require.Empty(t, s.Sales())
}

func TestAddSaleCreditBooksReceivable(t *testing.T) {
	s := newTestStore(t)
	seedFactoryStock(t, s, Product3kg, 50)
	due := time.Now().UTC().AddDate(0, 0, 28)

	sale, err := s.AddSale("tester", Sale{
		Location:     LocationFactory,
		Method:       PaymentCredit,
		CustomerName: "Churrascaria Gaucha",
		DueDate:      &due,
		Items: []SaleItem{
			{Product: Product3kg, Quantity: 10, UnitPrice: decimal.NewFromInt(15)},
		},
	})
	require.NoError(t, err)

	var saleTx Transaction
	for _, tx := range s.Transactions() {
		if tx.LinkedID == sale.ID {
			saleTx = tx
		}
	}
	require.Equal(t, TransactionPending, saleTx.Status)
	require.True(t, due.Equal(saleTx.DueDate))
}

func TestRemoveSaleRestoresStock(t *testing.T) {
	s := newTestStore(t)
	seedFactoryStock(t, s, Product3kg, 50)

	sale, err := s.AddSale("tester", Sale{
		Location: LocationFactory,
		Method:   PaymentCash,
		Items: []SaleItem{
			{Product: Product3kg, Quantity: 15, UnitPrice: decimal.NewFromInt(15)},
		},
	})
	require.NoError(t, err)
	require.Equal(t, 35, s.StockLevels().Qty(LocationFactory, Product3kg))

	require.NoError(t, s.RemoveSale("tester", sale.ID))
	require.Equal(t, 50, s.StockLevels().Qty(LocationFactory, Product3kg))

	// The linked financial entry goes with it.
	for _, tx := range s.Transactions() {
		require.NotEqual(t, sale.ID, tx.LinkedID)
	}
}

func TestUpdateSaleKeepsItemsAndLocation(t *testing.T) {
	s := newTestStore(t)
	seedFactoryStock(t, s, Product3kg, 50)

	sale, err := s.AddSale("tester", Sale{
		Location: LocationFactory,
		Method:   PaymentCash,
		Items: []SaleItem{
			{Product: Product3kg, Quantity: 5, UnitPrice: decimal.NewFromInt(15)},
		},
	})
	require.NoError(t, err)

	update := sale
	update.CustomerName = "Mercado Central"
	update.Location = LocationItaguai
	update.Items = []SaleItem{{Product: Product5kg, Quantity: 99}}
	require.NoError(t, s.UpdateSale("tester", update))

	got, err := s.Sale(sale.ID)
	require.NoError(t, err)
	require.Equal(t, "Mercado Central", got.CustomerName)
	require.Equal(t, LocationFactory, got.Location)
	require.Equal(t, sale.Items, got.Items)
}

func TestAddSaleValidation(t *testing.T) {
	s := newTestStore(t)
	seedFactoryStock(t, s, Product3kg, 50)

	cases := []struct {
		name string
		sale Sale
	}{
		{"no items", Sale{Location: LocationFactory, Method: PaymentCash}},
		{"bad location", Sale{Location: "warehouse", Method: PaymentCash,
			Items: []SaleItem{{Product: Product3kg, Quantity: 1}}}},
		{"bad method", Sale{Location: LocationFactory, Method: "barter",
			Items: []SaleItem{{Product: Product3kg, Quantity: 1}}}},
		{"zero quantity", Sale{Location: LocationFactory, Method: PaymentCash,
			Items: []SaleItem{{Product: Product3kg, Quantity: 0}}}},
		{"negative price", Sale{Location: LocationFactory, Method: PaymentCash,
			Items: []SaleItem{{Product: Product3kg, Quantity: 1, UnitPrice: decimal.NewFromInt(-1)}}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := s.AddSale("tester", tc.sale)
			require.Error(t, err)
		})
	}
}
