package models

import "fmt"

// Role decides where an authorized user is routed.
type Role string

const (
	RoleBuyer  Role = "buyer"
	RoleSeller Role = "seller"
)

// ParseRole accepts "buyer" or "seller" (and the one-letter forms "b" / "s").
func ParseRole(s string) (Role, error) {
	switch s {
	case "buyer", "b":
		return RoleBuyer, nil
	case "seller", "s":
		return RoleSeller, nil
	}
	return "", userError(fmt.Sprintf("unknown role %q", s))
}

func (r Role) Valid() bool {
	return r == RoleBuyer || r == RoleSeller
}
