package exchange

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"golang.org/x/crypto/bcrypt"

	"github.com/brasaerp/brasaerp/internal/store"
)

// Read parses a workbook produced by Write (or the legacy exporter)
// back into an export bundle. Any malformed or missing required sheet
// aborts the whole import; the caller restores nothing on error.
func Read(data []byte) (store.Export, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return store.Export{}, fmt.Errorf("exchange: open workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	var ex store.Export

	rows, err := requireSheet(f, SheetSales)
	if err != nil {
		return store.Export{}, err
	}
	for i, row := range rows {
		sale := store.Sale{
			ID:           cell(row, 0),
			Location:     store.Location(cell(row, 2)),
			CustomerID:   cell(row, 3),
			CustomerName: cell(row, 4),
			Method:       store.PaymentMethod(cell(row, 5)),
		}
		if sale.Date, err = parseTime(cell(row, 1)); err != nil {
			return store.Export{}, rowErr(SheetSales, i, err)
		}
		if due := cell(row, 6); due != "" {
			t, err := parseTime(due)
			if err != nil {
				return store.Export{}, rowErr(SheetSales, i, err)
			}
			sale.DueDate = &t
		}
		if sale.Total, err = parseDecimal(cell(row, 7)); err != nil {
			return store.Export{}, rowErr(SheetSales, i, err)
		}
		if err := parseJSON(cell(row, 8), &sale.Items); err != nil {
			return store.Export{}, rowErr(SheetSales, i, err)
		}
		ex.Sales = append(ex.Sales, sale)
	}

	rows, err = requireSheet(f, SheetProduction)
	if err != nil {
		return store.Export{}, err
	}
	for i, row := range rows {
		b := store.ProductionBatch{ID: cell(row, 0)}
		if b.Date, err = parseTime(cell(row, 1)); err != nil {
			return store.Export{}, rowErr(SheetProduction, i, err)
		}
		if err := parseJSON(cell(row, 2), &b.Inputs); err != nil {
			return store.Export{}, rowErr(SheetProduction, i, err)
		}
		if err := parseJSON(cell(row, 3), &b.Outputs); err != nil {
			return store.Export{}, rowErr(SheetProduction, i, err)
		}
		if b.TotalInputKg, err = parseFloat(cell(row, 4)); err != nil {
			return store.Export{}, rowErr(SheetProduction, i, err)
		}
		if b.TotalOutputKg, err = parseFloat(cell(row, 5)); err != nil {
			return store.Export{}, rowErr(SheetProduction, i, err)
		}
		if b.LossPercent, err = parseFloat(cell(row, 6)); err != nil {
			return store.Export{}, rowErr(SheetProduction, i, err)
		}
		ex.Batches = append(ex.Batches, b)
	}

	rows, err = requireSheet(f, SheetPurchases)
	if err != nil {
		return store.Export{}, err
	}
	for i, row := range rows {
		po := store.PurchaseOrder{
			ID:         cell(row, 0),
			SupplierID: cell(row, 1),
			Status:     store.PurchaseOrderStatus(cell(row, 3)),
		}
		if po.Date, err = parseTime(cell(row, 2)); err != nil {
			return store.Export{}, rowErr(SheetPurchases, i, err)
		}
		if po.Total, err = parseDecimal(cell(row, 4)); err != nil {
			return store.Export{}, rowErr(SheetPurchases, i, err)
		}
		if err := parseJSON(cell(row, 5), &po.Items); err != nil {
			return store.Export{}, rowErr(SheetPurchases, i, err)
		}
		ex.Purchases = append(ex.Purchases, po)
	}

	rows, err = requireSheet(f, SheetCustomers)
	if err != nil {
		return store.Export{}, err
	}
	for i, row := range rows {
		c := store.Customer{
			ID:           cell(row, 0),
			Name:         cell(row, 1),
			Document:     cell(row, 2),
			Phone:        cell(row, 3),
			Email:        cell(row, 4),
			Address:      cell(row, 5),
			PriceTableID: cell(row, 8),
		}
		if c.CreditLimit, err = parseDecimal(cell(row, 6)); err != nil {
			return store.Export{}, rowErr(SheetCustomers, i, err)
		}
		if c.PaymentTermDays, err = parseInt(cell(row, 7)); err != nil {
			return store.Export{}, rowErr(SheetCustomers, i, err)
		}
		if c.CreatedAt, err = parseTime(cell(row, 9)); err != nil {
			return store.Export{}, rowErr(SheetCustomers, i, err)
		}
		ex.Customers = append(ex.Customers, c)
	}

	rows, err = requireSheet(f, SheetSuppliers)
	if err != nil {
		return store.Export{}, err
	}
	for i, row := range rows {
		sup := store.Supplier{
			ID:       cell(row, 0),
			Name:     cell(row, 1),
			Document: cell(row, 2),
			Phone:    cell(row, 3),
			Email:    cell(row, 4),
		}
		if sup.CreatedAt, err = parseTime(cell(row, 5)); err != nil {
			return store.Export{}, rowErr(SheetSuppliers, i, err)
		}
		ex.Suppliers = append(ex.Suppliers, sup)
	}

	rows, err = requireSheet(f, SheetFinancial)
	if err != nil {
		return store.Export{}, err
	}
	for i, row := range rows {
		tx := store.Transaction{
			ID:          cell(row, 0),
			Type:        store.TransactionType(cell(row, 3)),
			Category:    cell(row, 4),
			Description: cell(row, 5),
			Status:      store.TransactionStatus(cell(row, 7)),
			LinkedID:    cell(row, 8),
		}
		if tx.Date, err = parseTime(cell(row, 1)); err != nil {
			return store.Export{}, rowErr(SheetFinancial, i, err)
		}
		if tx.DueDate, err = parseTime(cell(row, 2)); err != nil {
			return store.Export{}, rowErr(SheetFinancial, i, err)
		}
		if tx.Amount, err = parseDecimal(cell(row, 6)); err != nil {
			return store.Export{}, rowErr(SheetFinancial, i, err)
		}
		ex.Transactions = append(ex.Transactions, tx)
	}

	rows, err = requireSheet(f, SheetUsers)
	if err != nil {
		return store.Export{}, err
	}
	// Legacy workbooks carried a plaintext "password" column where the
	// hash now lives. Detect it by header and hash on ingest; plaintext
	// is never stored.
	legacyPasswords := false
	if all, err := f.GetRows(SheetUsers); err == nil && len(all) > 0 {
		legacyPasswords = cell(all[0], 3) == "password"
	}
	for i, row := range rows {
		u := store.User{
			ID:       cell(row, 0),
			Name:     cell(row, 1),
			Username: cell(row, 2),
			Role:     store.Role(cell(row, 4)),
		}
		secret := cell(row, 3)
		if legacyPasswords && secret != "" {
			hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
			if err != nil {
				return store.Export{}, rowErr(SheetUsers, i, err)
			}
			u.PasswordHash = string(hash)
		} else {
			u.PasswordHash = secret
		}
		if err := parseJSON(cell(row, 5), &u.Permissions); err != nil {
			return store.Export{}, rowErr(SheetUsers, i, err)
		}
		if u.CanPrint, err = parseBool(cell(row, 6)); err != nil {
			return store.Export{}, rowErr(SheetUsers, i, err)
		}
		ex.Users = append(ex.Users, u)
	}

	rows, err = requireSheet(f, SheetInventory)
	if err != nil {
		return store.Export{}, err
	}
	ex.Inventory = store.NewInventory()
	for i, row := range rows {
		loc := store.Location(cell(row, 0))
		p := store.ProductType(cell(row, 1))
		qty, err := parseInt(cell(row, 2))
		if err != nil {
			return store.Export{}, rowErr(SheetInventory, i, err)
		}
		if !loc.Valid() || !p.Valid() {
			return store.Export{}, fmt.Errorf("exchange: %s row %d: unknown location or product", SheetInventory, i+2)
		}
		ex.Inventory[loc][p] = qty
	}

	for _, row := range optionalSheet(f, SheetDrivers) {
		ex.Drivers = append(ex.Drivers, store.Driver{
			ID:           cell(row, 0),
			Name:         cell(row, 1),
			Plate:        cell(row, 2),
			VehicleModel: cell(row, 3),
		})
	}

	for i, row := range optionalSheet(f, SheetShipments) {
		sh := store.Shipment{
			ID:       cell(row, 0),
			Type:     store.ShipmentType(cell(row, 1)),
			DriverID: cell(row, 3),
			Status:   store.ShipmentStatus(cell(row, 4)),
			From:     store.Location(cell(row, 6)),
			To:       store.Location(cell(row, 7)),
		}
		if sh.Date, err = parseTime(cell(row, 2)); err != nil {
			return store.Export{}, rowErr(SheetShipments, i, err)
		}
		if err := parseJSON(cell(row, 5), &sh.SaleIDs); err != nil {
			return store.Export{}, rowErr(SheetShipments, i, err)
		}
		if err := parseJSON(cell(row, 8), &sh.Items); err != nil {
			return store.Export{}, rowErr(SheetShipments, i, err)
		}
		ex.Shipments = append(ex.Shipments, sh)
	}

	for i, row := range optionalSheet(f, SheetPriceTables) {
		t := store.PriceTable{
			ID:     cell(row, 0),
			Name:   cell(row, 1),
			Method: store.PaymentMethod(cell(row, 4)),
		}
		if err := parseJSON(cell(row, 2), &t.Prices); err != nil {
			return store.Export{}, rowErr(SheetPriceTables, i, err)
		}
		if t.Default, err = parseBool(cell(row, 3)); err != nil {
			return store.Export{}, rowErr(SheetPriceTables, i, err)
		}
		if t.CreatedAt, err = parseTime(cell(row, 5)); err != nil {
			return store.Export{}, rowErr(SheetPriceTables, i, err)
		}
		ex.PriceTables = append(ex.PriceTables, t)
	}

	return ex, nil
}

func requireSheet(f *excelize.File, name string) ([][]string, error) {
	idx, err := f.GetSheetIndex(name)
	if err != nil || idx < 0 {
		return nil, fmt.Errorf("exchange: missing sheet %s", name)
	}
	rows, err := f.GetRows(name)
	if err != nil {
		return nil, fmt.Errorf("exchange: read sheet %s: %w", name, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[1:], nil
}

func optionalSheet(f *excelize.File, name string) [][]string {
	idx, err := f.GetSheetIndex(name)
	if err != nil || idx < 0 {
		return nil
	}
	rows, err := f.GetRows(name)
	if err != nil || len(rows) == 0 {
		return nil
	}
	return rows[1:]
}

func rowErr(sheet string, i int, err error) error {
	return fmt.Errorf("exchange: %s row %d: %w", sheet, i+2, err)
}

func cell(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func parseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339, s)
}

func parseDecimal(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}

func parseFloat(s string) (float64, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.ParseFloat(s, 64)
}

func parseInt(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}

func parseBool(s string) (bool, error) {
	if s == "" {
		return false, nil
	}
	return strconv.ParseBool(strings.ToLower(s))
}

func parseJSON[T any](s string, dst *T) error {
	if s == "" || s == "null" {
		return nil
	}
	return json.Unmarshal([]byte(s), dst)
}
