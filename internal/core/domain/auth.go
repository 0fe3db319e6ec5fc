// internal/core/domain/auth.go
package domain

// Role is the caller's role as asserted by the identity provider.
type Role string

const (
	RoleAdmin       Role = "admin"
	RoleSalesPerson Role = "sales_person"
	RoleNone        Role = "none"
)

// CanRecordSales reports whether the role may create or edit sales.
func (r Role) CanRecordSales() bool {
	return r == RoleSalesPerson
}

// CanManageCatalog reports whether the role may create or update
// products and categories.
func (r Role) CanManageCatalog() bool {
	return r == RoleAdmin
}
