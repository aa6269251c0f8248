// Package exchange implements the spreadsheet interchange format: one
// sheet per collection plus a flattened Inventory sheet. It is the
// system's only external protocol besides the snapshot file.
package exchange

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/brasaerp/brasaerp/internal/store"
)

// Sheet names. The first block is required on import; the second is
// optional and treated as empty when absent, so files produced by
// older exports keep restoring.
const (
	SheetSales      = "Sales"
	SheetProduction = "Production"
	SheetPurchases  = "Purchases"
	SheetCustomers  = "Customers"
	SheetSuppliers  = "Suppliers"
	SheetFinancial  = "Financial"
	SheetUsers      = "Users"
	SheetInventory  = "Inventory"

	SheetDrivers     = "Drivers"
	SheetShipments   = "Shipments"
	SheetPriceTables = "PriceTables"
)

func jsonCell(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(data)
}

func timeCell(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func writeSheet(f *excelize.File, name string, header []any, rows [][]any) error {
	if _, err := f.NewSheet(name); err != nil {
		return err
	}
	if err := f.SetSheetRow(name, "A1", &header); err != nil {
		return err
	}
	for i, row := range rows {
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(name, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

// Write serializes the export bundle to an xlsx workbook.
func Write(ex store.Export) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	salesRows := make([][]any, 0, len(ex.Sales))
	for _, sale := range ex.Sales {
		due := ""
		if sale.DueDate != nil {
			due = timeCell(*sale.DueDate)
		}
		salesRows = append(salesRows, []any{
			sale.ID, timeCell(sale.Date), string(sale.Location), sale.CustomerID,
			sale.CustomerName, string(sale.Method), due, sale.Total.String(),
			jsonCell(sale.Items),
		})
	}
	if err := writeSheet(f, SheetSales,
		[]any{"id", "date", "location", "customer_id", "customer_name", "method", "due_date", "total", "items"},
		salesRows); err != nil {
		return nil, err
	}

	batchRows := make([][]any, 0, len(ex.Batches))
	for _, b := range ex.Batches {
		batchRows = append(batchRows, []any{
			b.ID, timeCell(b.Date), jsonCell(b.Inputs), jsonCell(b.Outputs),
			b.TotalInputKg, b.TotalOutputKg, b.LossPercent,
		})
	}
	if err := writeSheet(f, SheetProduction,
		[]any{"id", "date", "inputs", "outputs", "total_input_kg", "total_output_kg", "loss_percent"},
		batchRows); err != nil {
		return nil, err
	}

	purchaseRows := make([][]any, 0, len(ex.Purchases))
	for _, po := range ex.Purchases {
		purchaseRows = append(purchaseRows, []any{
			po.ID, po.SupplierID, timeCell(po.Date), string(po.Status),
			po.Total.String(), jsonCell(po.Items),
		})
	}
	if err := writeSheet(f, SheetPurchases,
		[]any{"id", "supplier_id", "date", "status", "total", "items"},
		purchaseRows); err != nil {
		return nil, err
	}

	customerRows := make([][]any, 0, len(ex.Customers))
	for _, c := range ex.Customers {
		customerRows = append(customerRows, []any{
			c.ID, c.Name, c.Document, c.Phone, c.Email, c.Address,
			c.CreditLimit.String(), c.PaymentTermDays, c.PriceTableID, timeCell(c.CreatedAt),
		})
	}
	if err := writeSheet(f, SheetCustomers,
		[]any{"id", "name", "document", "phone", "email", "address", "credit_limit", "payment_term_days", "price_table_id", "created_at"},
		customerRows); err != nil {
		return nil, err
	}

	supplierRows := make([][]any, 0, len(ex.Suppliers))
	for _, sup := range ex.Suppliers {
		supplierRows = append(supplierRows, []any{
			sup.ID, sup.Name, sup.Document, sup.Phone, sup.Email, timeCell(sup.CreatedAt),
		})
	}
	if err := writeSheet(f, SheetSuppliers,
		[]any{"id", "name", "document", "phone", "email", "created_at"},
		supplierRows); err != nil {
		return nil, err
	}

	txRows := make([][]any, 0, len(ex.Transactions))
	for _, tx := range ex.Transactions {
		txRows = append(txRows, []any{
			tx.ID, timeCell(tx.Date), timeCell(tx.DueDate), string(tx.Type),
			tx.Category, tx.Description, tx.Amount.String(), string(tx.Status), tx.LinkedID,
		})
	}
	if err := writeSheet(f, SheetFinancial,
		[]any{"id", "date", "due_date", "type", "category", "description", "amount", "status", "linked_id"},
		txRows); err != nil {
		return nil, err
	}

	userRows := make([][]any, 0, len(ex.Users))
	for _, u := range ex.Users {
		userRows = append(userRows, []any{
			u.ID, u.Name, u.Username, u.PasswordHash, string(u.Role),
			jsonCell(u.Permissions), u.CanPrint,
		})
	}
	if err := writeSheet(f, SheetUsers,
		[]any{"id", "name", "username", "password_hash", "role", "permissions", "can_print"},
		userRows); err != nil {
		return nil, err
	}

	var invRows [][]any
	for _, loc := range store.Locations {
		for _, p := range store.ProductTypes {
			invRows = append(invRows, []any{string(loc), string(p), ex.Inventory.Qty(loc, p)})
		}
	}
	if err := writeSheet(f, SheetInventory,
		[]any{"location", "product", "quantity"}, invRows); err != nil {
		return nil, err
	}

	driverRows := make([][]any, 0, len(ex.Drivers))
	for _, d := range ex.Drivers {
		driverRows = append(driverRows, []any{d.ID, d.Name, d.Plate, d.VehicleModel})
	}
	if err := writeSheet(f, SheetDrivers,
		[]any{"id", "name", "plate", "vehicle_model"}, driverRows); err != nil {
		return nil, err
	}

	shipmentRows := make([][]any, 0, len(ex.Shipments))
	for _, sh := range ex.Shipments {
		shipmentRows = append(shipmentRows, []any{
			sh.ID, string(sh.Type), timeCell(sh.Date), sh.DriverID, string(sh.Status),
			jsonCell(sh.SaleIDs), string(sh.From), string(sh.To), jsonCell(sh.Items),
		})
	}
	if err := writeSheet(f, SheetShipments,
		[]any{"id", "type", "date", "driver_id", "status", "sale_ids", "from", "to", "items"},
		shipmentRows); err != nil {
		return nil, err
	}

	tableRows := make([][]any, 0, len(ex.PriceTables))
	for _, t := range ex.PriceTables {
		tableRows = append(tableRows, []any{
			t.ID, t.Name, jsonCell(t.Prices), t.Default, string(t.Method), timeCell(t.CreatedAt),
		})
	}
	if err := writeSheet(f, SheetPriceTables,
		[]any{"id", "name", "prices", "default", "method", "created_at"},
		tableRows); err != nil {
		return nil, err
	}

	// Drop the workbook's default sheet.
	f.DeleteSheet("Sheet1")

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
