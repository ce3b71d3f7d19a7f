package model

// Role values as issued by the upstream authentication layer.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Principal is the authenticated actor making a request. It is resolved by
// an upstream gateway and consumed verbatim; this service never issues or
// verifies credentials.
type Principal struct {
	ID   int64  `json:"id"`
	Role string `json:"role"`
}

// IsAdmin reports whether the principal carries the admin role.
func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}
