package domain

import "errors"

// ErrInvalidPrincipal is returned when token claims do not describe a caller.
var ErrInvalidPrincipal = errors.New("invalid token payload")

// Principal is the authenticated caller for one request.
type Principal struct {
	UserID int64
	Role   Role
}

// NewPrincipal validates raw claims once at the trust boundary.
func NewPrincipal(userID int64, role string) (Principal, error) {
	parsed, err := ParseRole(role)
	if err != nil || userID <= 0 {
		return Principal{}, ErrInvalidPrincipal
	}
	return Principal{UserID: userID, Role: parsed}, nil
}

// Valid reports whether the principal carries a user id and a known role.
// The zero Principal is invalid.
func (p Principal) Valid() bool {
	return p.UserID > 0 && p.Role.Valid()
}
