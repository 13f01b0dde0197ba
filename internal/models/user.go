package models

import (
	"fmt"
	"strings"
	"sync"
	"unicode"

	"github.com/dmitrijs2005/garage/internal/cryptox"
)

const (
	// DefaultPassword is the well-known initial credential. A user still
	// holding it must choose a new one before entering buyer or seller mode.
	DefaultPassword = "aaa"

	MaxIDLength = 64

	DefaultZoomLevel = 10
	MinZoomLevel     = 1
	MaxZoomLevel     = 20
)

// GeoPoint is the optional home position shown on the seller's map.
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// User is an account in the directory. ID is immutable once stored.
//
// The password hash is private: it can only be replaced through SetPassword
// and read through ValidatePassword or PasswordHash (for persistence).
// Use Clone to copy a User; a User must not be copied by value.
type User struct {
	ID        string
	FirstName string
	LastName  string
	Phone     string
	ZoomLevel int
	Home      *GeoPoint
	Role      Role

	mu           sync.RWMutex
	passwordHash string
}

// NewUser creates a user with the given id, role and initial password.
func NewUser(id, password string, role Role) (*User, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}
	if !role.Valid() {
		return nil, userError(fmt.Sprintf("unknown role %q", role))
	}
	if err := checkPasswordPolicy(password); err != nil {
		return nil, err
	}
	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return nil, err
	}
	return &User{ID: id, Role: role, ZoomLevel: DefaultZoomLevel, passwordHash: hash}, nil
}

// RestoreUser rebuilds a user from a stored password hash. Profile fields are
// filled in by the caller.
func RestoreUser(id, passwordHash string) (*User, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}
	if !cryptox.IsHash(passwordHash) {
		return nil, userError(fmt.Sprintf("user %q has no usable password hash", id))
	}
	return &User{ID: id, ZoomLevel: DefaultZoomLevel, passwordHash: passwordHash}, nil
}

// PasswordHash returns the stored PHC hash, for backends that persist users.
func (u *User) PasswordHash() string {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.passwordHash
}

// ValidatePassword reports whether candidate matches the current password.
func (u *User) ValidatePassword(candidate string) bool {
	return cryptox.VerifyPassword(candidate, u.PasswordHash())
}

// SetPassword replaces the password after checking the policy: not empty, not
// blank and different from the current one.
// On failure it returns a *UserError wrapping ErrInvalidPassword and the
// stored credential is untouched.
func (u *User) SetPassword(newValue string) error {
	if err := checkPasswordPolicy(newValue); err != nil {
		return err
	}
	if u.ValidatePassword(newValue) {
		return passwordError("the new password must differ from the current one")
	}

	hash, err := cryptox.HashPassword(newValue)
	if err != nil {
		return err
	}

	u.mu.Lock()
	u.passwordHash = hash
	u.mu.Unlock()
	return nil
}

// Validate checks the fields a backend relies on.
func (u *User) Validate() error {
	if err := validateID(u.ID); err != nil {
		return err
	}
	if !u.Role.Valid() {
		return userError(fmt.Sprintf("unknown role %q", u.Role))
	}
	if u.ZoomLevel < MinZoomLevel || u.ZoomLevel > MaxZoomLevel {
		return userError(fmt.Sprintf("zoom level must be between %d and %d", MinZoomLevel, MaxZoomLevel))
	}
	if u.PasswordHash() == "" {
		return passwordError("password is not set")
	}
	return nil
}

// Clone returns a deep copy that shares no state with u.
func (u *User) Clone() *User {
	c := &User{
		ID:           u.ID,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		Phone:        u.Phone,
		ZoomLevel:    u.ZoomLevel,
		Role:         u.Role,
		passwordHash: u.PasswordHash(),
	}
	if u.Home != nil {
		h := *u.Home
		c.Home = &h
	}
	return c
}

// DisplayName is "First Last", falling back to the id.
func (u *User) DisplayName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.ID
	}
	return name
}

func (u *User) IsSeller() bool { return u.Role == RoleSeller }

func validateID(id string) error {
	switch {
	case id == "":
		return userError("user id must not be empty")
	case len(id) > MaxIDLength:
		return userError(fmt.Sprintf("user id must be at most %d characters", MaxIDLength))
	case strings.IndexFunc(id, unicode.IsSpace) >= 0:
		return userError("user id must not contain spaces")
	}
	return nil
}

func checkPasswordPolicy(p string) error {
	switch {
	case p == "":
		return passwordError("the password must not be empty")
	case strings.TrimSpace(p) == "":
		return passwordError("the password must not be blank")
	}
	return nil
}
