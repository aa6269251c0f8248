package store

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestTransferShipmentLifecycle(t *testing.T) {
	s := newTestStore(t)
	seedFactoryStock(t, s, Product3kg, 100)
	driver, err := s.AddDriver("tester", Driver{Name: "Jorge", Plate: "KWS2A18"})
	require.NoError(t, err)

	sh, err := s.AddShipment("tester", Shipment{
		Type:     ShipmentTransfer,
		DriverID: driver.ID,
		From:     LocationFactory,
		To:       LocationItaguai,
		Items:    []TransferItem{{Product: Product3kg, Quantity: 40}},
	})
	require.NoError(t, err)
	require.Equal(t, ShipmentPlanned, sh.Status)

	// Planning a transfer does not move stock.
	require.Equal(t, 100, s.StockLevels().Qty(LocationFactory, Product3kg))

	require.NoError(t, s.UpdateShipmentStatus("tester", sh.ID, ShipmentInTransit))
	require.Equal(t, 100, s.StockLevels().Qty(LocationFactory, Product3kg))

	require.NoError(t, s.ReceiveShipment("tester", sh.ID))
	inv := s.StockLevels()
	require.Equal(t, 60, inv.Qty(LocationFactory, Product3kg))
	require.Equal(t, 40, inv.Qty(LocationItaguai, Product3kg))

	got, err := s.Shipment(sh.ID)
	require.NoError(t, err)
	require.Equal(t, ShipmentDelivered, got.Status)
}

func TestReceiveShipmentOnlyOnce(t *testing.T) {
	s := newTestStore(t)
	seedFactoryStock(t, s, Product3kg, 100)

	sh, err := s.AddShipment("tester", Shipment{
		Type:  ShipmentTransfer,
		From:  LocationFactory,
		To:    LocationItaguai,
		Items: []TransferItem{{Product: Product3kg, Quantity: 40}},
	})
	require.NoError(t, err)
	require.NoError(t, s.UpdateShipmentStatus("tester", sh.ID, ShipmentInTransit))
	require.NoError(t, s.ReceiveShipment("tester", sh.ID))

	// A second receive is rejected and moves nothing.
	err = s.ReceiveShipment("tester", sh.ID)
	require.ErrorIs(t, err, ErrInvalidTransition)
	inv := s.StockLevels()
	require.Equal(t, 60, inv.Qty(LocationFactory, Product3kg))
	require.Equal(t, 40, inv.Qty(LocationItaguai, Product3kg))
}

func TestTransferShipmentNotDeliveredByStatusUpdate(t *testing.T) {
	s := newTestStore(t)
	seedFactoryStock(t, s, Product3kg, 100)

	sh, err := s.AddShipment("tester", Shipment{
		Type:  ShipmentTransfer,
		From:  LocationFactory,
		To:    LocationItaguai,
		Items: []TransferItem{{Product: Product3kg, Quantity: 40}},
	})
	require.NoError(t, err)
	require.NoError(t, s.UpdateShipmentStatus("tester", sh.ID, ShipmentInTransit))

	err = s.UpdateShipmentStatus("tester", sh.ID, ShipmentDelivered)
	require.ErrorIs(t, err, ErrInvalidTransition)
}

func TestReceiveShipmentInsufficientStock(t *testing.T) {
	s := newTestStore(t)
	seedFactoryStock(t, s, Product3kg, 50)

	sh, err := s.AddShipment("tester", Shipment{
		Type:  ShipmentTransfer,
		From:  LocationFactory,
		To:    LocationItaguai,
		Items: []TransferItem{{Product: Product3kg, Quantity: 40}},
	})
	require.NoError(t, err)
	require.NoError(t, s.UpdateShipmentStatus("tester", sh.ID, ShipmentInTransit))

	// The planned quantity was sold out from under the shipment.
	_, err = s.AddSale("tester", Sale{
		Location: LocationFactory,
		Method:   PaymentCash,
		Items:    []SaleItem{{Product: Product3kg, Quantity: 20, UnitPrice: decimal.NewFromInt(15)}},
	})
	require.NoError(t, err)

	err = s.ReceiveShipment("tester", sh.ID)
	require.ErrorIs(t, err, ErrInsufficientStock)
	require.Equal(t, 0, s.StockLevels().Qty(LocationItaguai, Product3kg))

	got, err := s.Shipment(sh.ID)
	require.NoError(t, err)
	require.Equal(t, ShipmentInTransit, got.Status)
}

func TestSaleShipmentLifecycle(t *testing.T) {
	s := newTestStore(t)
	seedFactoryStock(t, s, Product3kg, 50)
	sale, err := s.AddSale("tester", Sale{
		Location: LocationFactory,
		Method:   PaymentCash,
		Items:    []SaleItem{{Product: Product3kg, Quantity: 10, UnitPrice: decimal.NewFromInt(15)}},
	})
	require.NoError(t, err)

	sh, err := s.AddShipment("tester", Shipment{
		Type:    ShipmentSale,
		SaleIDs: []string{sale.ID},
	})
	require.NoError(t, err)
	require.NoError(t, s.UpdateShipmentStatus("tester", sh.ID, ShipmentInTransit))
	require.NoError(t, s.UpdateShipmentStatus("tester", sh.ID, ShipmentDelivered))

	// Sale shipments never touch inventory; the sale already debited it.
	require.Equal(t, 40, s.StockLevels().Qty(LocationFactory, Product3kg))

	// Delivered shipments are immutable history.
	err = s.RemoveShipment("tester", sh.ID)
	require.ErrorIs(t, err, ErrInvalidTransition)
}

func TestAddShipmentValidation(t *testing.T) {
	s := newTestStore(t)

	_, err := s.AddShipment("tester", Shipment{Type: ShipmentSale})
	require.Error(t, err)

	_, err = s.AddShipment("tester", Shipment{Type: ShipmentSale, SaleIDs: []string{"missing"}})
	require.Error(t, err)

	_, err = s.AddShipment("tester", Shipment{
		Type: ShipmentTransfer, From: LocationFactory, To: LocationFactory,
		Items: []TransferItem{{Product: Product3kg, Quantity: 1}},
	})
	require.Error(t, err)

	_, err = s.AddShipment("tester", Shipment{
		Type: ShipmentTransfer, From: LocationFactory, To: LocationItaguai,
	})
	require.Error(t, err)

	_, err = s.AddShipment("tester", Shipment{
		Type: ShipmentTransfer, From: LocationFactory, To: LocationItaguai,
		DriverID: "missing",
		Items:    []TransferItem{{Product: Product3kg, Quantity: 1}},
	})
	require.Error(t, err)
}

func TestRemovePlannedShipment(t *testing.T) {
	s := newTestStore(t)
	seedFactoryStock(t, s, Product3kg, 50)

	sh, err := s.AddShipment("tester", Shipment{
		Type:  ShipmentTransfer,
		From:  LocationFactory,
		To:    LocationItaguai,
		Items: []TransferItem{{Product: Product3kg, Quantity: 10}},
	})
	require.NoError(t, err)
	require.NoError(t, s.RemoveShipment("tester", sh.ID))
	require.Empty(t, s.Shipments())
	require.Equal(t, 50, s.StockLevels().Qty(LocationFactory, Product3kg))
}
