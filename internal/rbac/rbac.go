// Package rbac resolves user capabilities. All checks go through Can
// so the admin-implies-all rule lives in exactly one place.
package rbac

import (
	"slices"

	"github.com/brasaerp/brasaerp/internal/store"
)

// Permission names an atomic capability.
type Permission = string

const (
	PermSalesManage      Permission = "sales.manage"
	PermInventoryView    Permission = "inventory.view"
	PermInventoryManage  Permission = "inventory.manage"
	PermProductionManage Permission = "production.manage"
	PermPurchasesManage  Permission = "purchases.manage"
	PermCustomersManage  Permission = "customers.manage"
	PermShipmentsManage  Permission = "shipments.manage"
	PermFinanceManage    Permission = "finance.manage"
	PermUsersManage      Permission = "users.manage"
	PermAuditView        Permission = "audit.view"
	PermExchange         Permission = "exchange.run"
	PermPrint            Permission = "print"
)

// rolePermissions maps each role to its implicit grants. Admin is
// handled in Can, not here.
var rolePermissions = map[store.Role][]Permission{
	store.RoleFactory: {
		PermSalesManage, PermInventoryView, PermInventoryManage,
		PermProductionManage, PermShipmentsManage, PermCustomersManage,
	},
	store.RoleItaguai: {
		PermSalesManage, PermInventoryView, PermInventoryManage,
		PermShipmentsManage, PermCustomersManage,
	},
}

// Can reports whether the user holds the permission. Admins hold every
// permission; the print capability additionally requires the account
// flag.
func Can(u store.User, perm Permission) bool {
	if perm == PermPrint && !u.CanPrint && u.Role != store.RoleAdmin {
		return false
	}
	if u.Role == store.RoleAdmin {
		return true
	}
	if slices.Contains(u.Permissions, perm) {
		return true
	}
	return slices.Contains(rolePermissions[u.Role], perm)
}
