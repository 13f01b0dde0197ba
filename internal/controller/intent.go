package controller

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/garage/internal/models"
)

// Intent is one operator request pulled from a view. Each controller handles
// the intents that make sense for it and reports the rest as unavailable.
type Intent interface {
	intent()
}

type (
	// SubmitCredentials is a login attempt.
	SubmitCredentials Credentials

	ListUsers struct{}
	ShowUser  struct{ ID string }
	AddUser   struct{ Form UserForm }
	// UpdateUser edits the user ID. An empty Password leaves the password
	// unchanged; a nil Role keeps the role.
	UpdateUser struct {
		ID       string
		Password string
		Role     *models.Role
		Patch    UserPatch
	}
	DeleteUser struct{ ID string }

	ListCategories struct{}
	AddCategory    struct{ Name string }
	RenameCategory struct{ From, To string }
	DeleteCategory struct{ Name string }

	ListSellers struct{}

	ShowProfile    struct{}
	EditProfile    struct{ Patch UserPatch }
	ChangePassword struct{ Current, New string }

	Quit struct{}
)

func (SubmitCredentials) intent() {}
func (ListUsers) intent()         {}
func (ShowUser) intent()          {}
func (AddUser) intent()           {}
func (UpdateUser) intent()        {}
func (DeleteUser) intent()        {}
func (ListCategories) intent()    {}
func (AddCategory) intent()       {}
func (RenameCategory) intent()    {}
func (DeleteCategory) intent()    {}
func (ListSellers) intent()       {}
func (ShowProfile) intent()       {}
func (EditProfile) intent()       {}
func (ChangePassword) intent()    {}
func (Quit) intent()              {}

// UserForm holds every field of a new user.
type UserForm struct {
	ID        string
	Password  string
	Role      models.Role
	FirstName string
	LastName  string
	Phone     string
	ZoomLevel int
	Home      *models.GeoPoint
}

// build creates the user. A zero ZoomLevel means the default.
func (f UserForm) build() (*models.User, error) {
	u, err := models.NewUser(strings.TrimSpace(f.ID), f.Password, f.Role)
	if err != nil {
		return nil, err
	}
	u.FirstName = strings.TrimSpace(f.FirstName)
	u.LastName = strings.TrimSpace(f.LastName)
	u.Phone = strings.TrimSpace(f.Phone)
	if f.ZoomLevel != 0 {
		u.ZoomLevel = f.ZoomLevel
	}
	if f.Home != nil {
		h := *f.Home
		u.Home = &h
	}
	return u, u.Validate()
}

// UserPatch changes profile fields. Nil fields are left alone; ClearHome
// removes the home position.
type UserPatch struct {
	FirstName *string
	LastName  *string
	Phone     *string
	ZoomLevel *int
	Home      *models.GeoPoint
	ClearHome bool
}

func (p UserPatch) apply(u *models.User) {
	if p.FirstName != nil {
		u.FirstName = strings.TrimSpace(*p.FirstName)
	}
	if p.LastName != nil {
		u.LastName = strings.TrimSpace(*p.LastName)
	}
	if p.Phone != nil {
		u.Phone = strings.TrimSpace(*p.Phone)
	}
	if p.ZoomLevel != nil {
		u.ZoomLevel = *p.ZoomLevel
	}
	switch {
	case p.ClearHome:
		u.Home = nil
	case p.Home != nil:
		h := *p.Home
		u.Home = &h
	}
}

func intentName(in Intent) string {
	name := fmt.Sprintf("%T", in)
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		name = name[i+1:]
	}
	return name
}
