package store

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductType enumerates the charcoal SKUs handled by the company.
type ProductType string

const (
	// Product3kg is the 3kg packaged bag.
	Product3kg ProductType = "3kg"
	// Product5kg is the 5kg packaged bag.
	Product5kg ProductType = "5kg"
	// ProductPaulistao is the large restaurant-format bag.
	ProductPaulistao ProductType = "paulistao"
	// ProductBulk is loose charcoal sold by weight.
	ProductBulk ProductType = "bulk"
)

// ProductTypes lists every SKU in display order.
var ProductTypes = []ProductType{Product3kg, Product5kg, ProductPaulistao, ProductBulk}

// Valid reports whether p is a known SKU.
func (p ProductType) Valid() bool {
	for _, known := range ProductTypes {
		if p == known {
			return true
		}
	}
	return false
}

// UnitWeightKg returns the packaged weight of one unit of the SKU.
// Bulk is tracked per kilogram.
func (p ProductType) UnitWeightKg() float64 {
	switch p {
	case Product3kg:
		return 3
	case Product5kg:
		return 5
	case ProductPaulistao:
		return 10
	default:
		return 1
	}
}

// Location enumerates the two physical sites holding inventory.
type Location string

const (
	// LocationFactory is the production site.
	LocationFactory Location = "factory"
	// LocationItaguai is the distribution depot.
	LocationItaguai Location = "itaguai"
)

// Locations lists both sites.
var Locations = []Location{LocationFactory, LocationItaguai}

// Valid reports whether l is a known location.
func (l Location) Valid() bool {
	return l == LocationFactory || l == LocationItaguai
}

// Inventory maps location -> product -> on-hand quantity.
// Quantities never go negative; debits that would are rejected.
type Inventory map[Location]map[ProductType]int

// NewInventory returns a ledger with every cell present at zero.
func NewInventory() Inventory {
	inv := make(Inventory, len(Locations))
	for _, loc := range Locations {
		cells := make(map[ProductType]int, len(ProductTypes))
		for _, p := range ProductTypes {
			cells[p] = 0
		}
		inv[loc] = cells
	}
	return inv
}

// Qty returns the on-hand quantity for the cell, zero when absent.
func (inv Inventory) Qty(loc Location, p ProductType) int {
	return inv[loc][p]
}

// Clone deep-copies the ledger.
func (inv Inventory) Clone() Inventory {
	out := make(Inventory, len(inv))
	for loc, cells := range inv {
		copied := make(map[ProductType]int, len(cells))
		for p, q := range cells {
			copied[p] = q
		}
		out[loc] = copied
	}
	return out
}

// Supplier is a raw-material source referenced by purchase orders
// and production batches.
type Supplier struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Document  string    `json:"document,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Email     string    `json:"email,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// PurchaseOrderStatus is the purchase order lifecycle state.
type PurchaseOrderStatus string

const (
	PurchasePending   PurchaseOrderStatus = "pending"
	PurchaseApproved  PurchaseOrderStatus = "approved"
	PurchaseReceived  PurchaseOrderStatus = "received"
	PurchaseCancelled PurchaseOrderStatus = "cancelled"
)

// PurchaseOrderItem is one raw-material line on a purchase order.
type PurchaseOrderItem struct {
	Material   string          `json:"material"`
	QuantityKg float64         `json:"quantity_kg"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	Total      decimal.Decimal `json:"total"`
}

// PurchaseOrder records raw material bought from a supplier. Once
// received, its quantity becomes available to production batches.
type PurchaseOrder struct {
	ID         string              `json:"id"`
	SupplierID string              `json:"supplier_id"`
	Date       time.Time           `json:"date"`
	Status     PurchaseOrderStatus `json:"status"`
	Items      []PurchaseOrderItem `json:"items"`
	Total      decimal.Decimal     `json:"total"`
}

// RawMaterialKg sums the raw-material weight across line items.
func (po PurchaseOrder) RawMaterialKg() float64 {
	var total float64
	for _, item := range po.Items {
		total += item.QuantityKg
	}
	return total
}

// BatchInput is one (supplier, weight) pair feeding a production run.
type BatchInput struct {
	SupplierID string  `json:"supplier_id"`
	WeightKg   float64 `json:"weight_kg"`
}

// BatchOutput is the packaged result of a production run for one SKU.
type BatchOutput struct {
	Product ProductType `json:"product"`
	Bags    int         `json:"bags"`
}

// WeightKg returns the packaged weight of the output line.
func (o BatchOutput) WeightKg() float64 {
	return float64(o.Bags) * o.Product.UnitWeightKg()
}

// ProductionBatch records one production run: blended supplier inputs
// consumed and packaged outputs produced at the factory.
type ProductionBatch struct {
	ID            string        `json:"id"`
	Date          time.Time     `json:"date"`
	Inputs        []BatchInput  `json:"inputs"`
	Outputs       []BatchOutput `json:"outputs"`
	TotalInputKg  float64       `json:"total_input_kg"`
	TotalOutputKg float64       `json:"total_output_kg"`
	LossPercent   float64       `json:"loss_percent"`
}

// PaymentMethod distinguishes cash and credit sales.
type PaymentMethod string

const (
	PaymentCash   PaymentMethod = "cash"
	PaymentCredit PaymentMethod = "credit"
)

// Valid reports whether m is a known payment method.
func (m PaymentMethod) Valid() bool {
	return m == PaymentCash || m == PaymentCredit
}

// PriceTable names a set of per-product unit prices. A table may be
// the default for a payment method, used when the customer carries no
// table of their own.
type PriceTable struct {
	ID        string                          `json:"id"`
	Name      string                          `json:"name"`
	Prices    map[ProductType]decimal.Decimal `json:"prices"`
	Default   bool                            `json:"default,omitempty"`
	Method    PaymentMethod                   `json:"method,omitempty"`
	CreatedAt time.Time                       `json:"created_at"`
}

// Customer is a buyer with optional credit terms and price table.
type Customer struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Document        string          `json:"document,omitempty"`
	Phone           string          `json:"phone,omitempty"`
	Email           string          `json:"email,omitempty"`
	Address         string          `json:"address,omitempty"`
	CreditLimit     decimal.Decimal `json:"credit_limit"`
	PaymentTermDays int             `json:"payment_term_days,omitempty"`
	PriceTableID    string          `json:"price_table_id,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}

// SaleItem is one product line on a sale.
type SaleItem struct {
	Product   ProductType     `json:"product"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Total     decimal.Decimal `json:"total"`
}

// Sale debits inventory at its location when created.
type Sale struct {
	ID           string        `json:"id"`
	Date         time.Time     `json:"date"`
	Location     Location      `json:"location"`
	CustomerID   string        `json:"customer_id,omitempty"`
	CustomerName string        `json:"customer_name,omitempty"`
	Items        []SaleItem    `json:"items"`
	Total        decimal.Decimal `json:"total"`
	Method       PaymentMethod `json:"method"`
	DueDate      *time.Time    `json:"due_date,omitempty"`
}

// Driver operates a delivery vehicle.
type Driver struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Plate        string `json:"plate"`
	VehicleModel string `json:"vehicle_model,omitempty"`
}

// ShipmentType distinguishes customer deliveries from stock transfers.
type ShipmentType string

const (
	ShipmentSale     ShipmentType = "sale"
	ShipmentTransfer ShipmentType = "transfer"
)

// ShipmentStatus is the forward-only shipment lifecycle state.
type ShipmentStatus string

const (
	ShipmentPlanned   ShipmentStatus = "planned"
	ShipmentInTransit ShipmentStatus = "in_transit"
	ShipmentDelivered ShipmentStatus = "delivered"
)

// TransferItem is one carried product line on a transfer shipment.
type TransferItem struct {
	Product  ProductType `json:"product"`
	Quantity int         `json:"quantity"`
}

// Shipment is a transport event: either delivering sold goods
// (SaleIDs) or moving stock between the two sites (From/To/Items).
type Shipment struct {
	ID       string         `json:"id"`
	Type     ShipmentType   `json:"type"`
	Date     time.Time      `json:"date"`
	DriverID string         `json:"driver_id,omitempty"`
	Status   ShipmentStatus `json:"status"`
	SaleIDs  []string       `json:"sale_ids,omitempty"`
	From     Location       `json:"from,omitempty"`
	To       Location       `json:"to,omitempty"`
	Items    []TransferItem `json:"items,omitempty"`
}

// TransactionType distinguishes money in from money out.
type TransactionType string

const (
	TransactionIncome  TransactionType = "income"
	TransactionExpense TransactionType = "expense"
)

// TransactionStatus is the settlement state of a financial entry.
type TransactionStatus string

const (
	TransactionPending TransactionStatus = "pending"
	TransactionPaid    TransactionStatus = "paid"
	TransactionOverdue TransactionStatus = "overdue"
)

// Transaction is one financial ledger entry, optionally linked to the
// entity that originated it.
type Transaction struct {
	ID          string            `json:"id"`
	Date        time.Time         `json:"date"`
	DueDate     time.Time         `json:"due_date"`
	Type        TransactionType   `json:"type"`
	Category    string            `json:"category"`
	Description string            `json:"description,omitempty"`
	Amount      decimal.Decimal   `json:"amount"`
	Status      TransactionStatus `json:"status"`
	LinkedID    string            `json:"linked_id,omitempty"`
}

// Role is the coarse access level of a user account.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleFactory Role = "factory"
	RoleItaguai Role = "itaguai"
)

// User is an account able to sign in. Passwords are stored as bcrypt
// hashes only.
type User struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Username     string   `json:"username"`
	PasswordHash string   `json:"password_hash"`
	Role         Role     `json:"role"`
	Permissions  []string `json:"permissions,omitempty"`
	CanPrint     bool     `json:"can_print,omitempty"`
}

// AuditAction classifies an audit log entry.
type AuditAction string

const (
	AuditLogin  AuditAction = "login"
	AuditCreate AuditAction = "create"
	AuditUpdate AuditAction = "update"
	AuditDelete AuditAction = "delete"
)

// AuditEntry is an append-only record of one mutating action.
type AuditEntry struct {
	ID       string      `json:"id"`
	At       time.Time   `json:"at"`
	UserName string      `json:"user_name"`
	Action   AuditAction `json:"action"`
	Resource string      `json:"resource"`
	EntityID string      `json:"entity_id,omitempty"`
	Detail   string      `json:"detail,omitempty"`
}

// NotificationType classifies a notification.
type NotificationType string

const (
	NotifyInfo    NotificationType = "info"
	NotifyWarning NotificationType = "warning"
	NotifyError   NotificationType = "error"
	NotifySuccess NotificationType = "success"
)

// Notification is a derived alert (low stock, overdue receivable).
// Key identifies the underlying condition so an unread notification
// suppresses duplicates for the same condition.
type Notification struct {
	ID      string           `json:"id"`
	At      time.Time        `json:"at"`
	Type    NotificationType `json:"type"`
	Title   string           `json:"title"`
	Message string           `json:"message"`
	Read    bool             `json:"read"`
	Key     string           `json:"key,omitempty"`
}
