// Package auth carries the authenticated caller through request handling
// and answers the two authorization questions the services ask.
package auth

type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleCustomer Role = "CUSTOMER"
)

// Principal is the authenticated caller. It is passed explicitly into every
// service operation.
type Principal struct {
	UserID int64
	Roles  []Role
}

func (p Principal) HasRole(r Role) bool {
	for _, have := range p.Roles {
		if have == r {
			return true
		}
	}
	return false
}

func (p Principal) IsAdmin() bool { return p.HasRole(RoleAdmin) }

// IsSelf reports whether the caller is the given user.
func IsSelf(p Principal, userID int64) bool {
	return p.UserID != 0 && p.UserID == userID
}

// IsSelfOrAdmin is the rule used by the non-order resources.
func IsSelfOrAdmin(p Principal, userID int64) bool {
	return IsSelf(p, userID) || p.IsAdmin()
}
