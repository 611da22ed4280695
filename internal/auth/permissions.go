package auth

// Roles carried on the user record. Superadmin is an explicit role checked
// once here at the access-control boundary, never a special-cased username.
const (
	RoleEmployee       = "employee"
	RoleHOD            = "hod"
	RoleHR             = "hr"
	RoleAccountManager = "account_manager"
	RoleStore          = "store"
	RolePurchase       = "purchase"
	RoleSuperAdmin     = "superadmin"
)

// Module and page identifiers of the permission matrix.
const (
	ModuleHR          = "hr"
	ModuleAssets      = "assets"
	ModuleSupplyChain = "supply_chain"
	ModuleTasks       = "tasks"

	PageEmployees      = "employees"
	PageLeaveRequests  = "leave_requests"
	PageAttendance     = "attendance"
	PageReports        = "reports"
	PageItems          = "items"
	PageToners         = "toners"
	PageRequests       = "requests"
	PagePurchaseOrders = "purchase_orders"
	PageBoard          = "board"
)

type Action string

const (
	ActionView   Action = "view"
	ActionEdit   Action = "edit"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

func (u *User) IsSuperAdmin() bool {
	return u.Role == RoleSuperAdmin
}

// Can evaluates the matrix deny-by-default: a user with no entry for the
// module or page gets false for every action.
func (u *User) Can(module, page string, action Action) bool {
	if u == nil {
		return false
	}
	if u.IsSuperAdmin() {
		return true
	}

	pages, ok := u.Permissions[module]
	if !ok {
		return false
	}
	actions, ok := pages[page]
	if !ok {
		return false
	}

	switch action {
	case ActionView:
		return actions.View
	case ActionEdit:
		return actions.Edit
	case ActionUpdate:
		return actions.Update
	case ActionDelete:
		return actions.Delete
	default:
		return false
	}
}

func (u *User) HasRole(roles ...string) bool {
	if u == nil {
		return false
	}
	if u.IsSuperAdmin() {
		return true
	}
	for _, r := range roles {
		if u.Role == r {
			return true
		}
	}
	return false
}
