// internal/app/system/authz/matrix.go
package authz

import "github.com/dalemusser/influencehub/internal/domain/models"

// Resource is a kind of record the permission table knows about.
type Resource string

const (
	ResourceUser              Resource = "user"
	ResourceProfile           Resource = "profile"
	ResourceBilling           Resource = "billing"
	ResourceBrand             Resource = "brand"
	ResourceBankAccount       Resource = "bank_account"
	ResourcePOC               Resource = "poc"
	ResourceBillingConnection Resource = "billing_connection"
)

// Action is an operation on a Resource.
type Action string

const (
	ActionCreate  Action = "create"
	ActionRead    Action = "read"
	ActionReadAll Action = "read_all"
	ActionUpdate  Action = "update"
	ActionDelete  Action = "delete"
	ActionAdmin   Action = "admin"
)

type rule struct {
	resource Resource
	action   Action
}

const (
	admin      = models.RoleAdmin
	manager    = models.RoleManager
	finance    = models.RoleFinance
	opsManager = models.RoleOperationsManager
	intern     = models.RoleIntern
	dataOp     = models.RoleDataOperator
)

func roles(rs ...models.Role) map[models.Role]bool {
	m := make(map[models.Role]bool, len(rs))
	for _, r := range rs {
		m[r] = true
	}
	return m
}

var everyone = roles(models.AllRoles()...)

// table is the literal permission set. A missing entry means denied; roles do
// not inherit from each other.
var table = map[rule]map[models.Role]bool{
	{ResourceProfile, ActionCreate}:  roles(admin, manager, opsManager, intern, dataOp),
	{ResourceProfile, ActionRead}:    everyone,
	{ResourceProfile, ActionReadAll}: everyone,
	{ResourceProfile, ActionUpdate}:  roles(admin, manager),
	{ResourceProfile, ActionDelete}:  roles(admin),

	{ResourceBrand, ActionCreate}:  roles(admin, manager),
	{ResourceBrand, ActionRead}:    everyone,
	{ResourceBrand, ActionReadAll}: everyone,
	{ResourceBrand, ActionUpdate}:  roles(admin, manager),
	{ResourceBrand, ActionDelete}:  roles(admin),

	{ResourcePOC, ActionCreate}: roles(admin, manager),
	{ResourcePOC, ActionUpdate}: roles(admin, manager),
	{ResourcePOC, ActionDelete}: roles(admin, manager),

	{ResourceBilling, ActionCreate}:  roles(admin, finance, manager),
	{ResourceBilling, ActionRead}:    roles(admin, finance, manager),
	{ResourceBilling, ActionReadAll}: roles(admin, finance, manager),
	{ResourceBilling, ActionUpdate}:  roles(admin, finance),
	{ResourceBilling, ActionDelete}:  roles(admin, finance),
	{ResourceBilling, ActionAdmin}:   roles(admin, finance),

	{ResourceBankAccount, ActionCreate}: roles(admin, finance),
	{ResourceBankAccount, ActionRead}:   roles(admin, finance, manager),
	{ResourceBankAccount, ActionUpdate}: roles(admin, finance),
	{ResourceBankAccount, ActionDelete}: roles(admin, finance),
	{ResourceBankAccount, ActionAdmin}:  roles(admin, finance),

	{ResourceUser, ActionCreate}:  roles(admin),
	{ResourceUser, ActionReadAll}: roles(admin),
	{ResourceUser, ActionUpdate}:  roles(admin),
	{ResourceUser, ActionDelete}:  roles(admin),
	{ResourceUser, ActionAdmin}:   roles(admin),

	// Reading a link is wider than changing one; data operators are further
	// limited to their own entities by CanReadBillingLink.
	{ResourceBillingConnection, ActionRead}:    roles(admin, manager, intern, dataOp),
	{ResourceBillingConnection, ActionUpdate}:  roles(admin, manager),
	{ResourceBillingConnection, ActionReadAll}: roles(admin, manager),
}

// Can reports whether role may perform action on resource. Unknown roles,
// resources, and actions are denied.
func Can(role models.Role, resource Resource, action Action) bool {
	return table[rule{resource, action}][role]
}

// CanUpdateProfile adds the ownership exception: a data operator may edit
// profiles they created.
func CanUpdateProfile(role models.Role, ownerMatch bool) bool {
	if Can(role, ResourceProfile, ActionUpdate) {
		return true
	}
	return role == dataOp && ownerMatch
}

// CanReadUser allows every signed-in user to read their own account and
// admins to read anyone's.
func CanReadUser(role models.Role, self bool) bool {
	return self || Can(role, ResourceUser, ActionReadAll)
}

// CanReadBillingLink applies the ownership limit for data operators on top of
// the table entry.
func CanReadBillingLink(role models.Role, ownerMatch bool) bool {
	if !Can(role, ResourceBillingConnection, ActionRead) {
		return false
	}
	return role != dataOp || ownerMatch
}

// FullVisibility reports whether a caller sees restricted profile and brand
// fields (contacts, pricing, billing link, owner). Elevated roles always do;
// a data operator does for records they created.
func FullVisibility(role models.Role, ownerMatch bool) bool {
	switch role {
	case admin, manager, finance:
		return true
	case dataOp:
		return ownerMatch
	default:
		return false
	}
}

// FilterProfile returns the full profile or its public view depending on the
// caller's visibility.
func FilterProfile(p models.Profile, role models.Role, ownerMatch bool) any {
	if FullVisibility(role, ownerMatch) {
		return p
	}
	return p.Public()
}

// FilterBrand is FilterProfile for brands.
func FilterBrand(b models.Brand, role models.Role, ownerMatch bool) any {
	if FullVisibility(role, ownerMatch) {
		return b
	}
	return b.Public()
}
