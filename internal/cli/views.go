package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/dmitrijs2005/garage/internal/controller"
	"github.com/dmitrijs2005/garage/internal/models"
)

// AuthorizationView asks for a user id and password. An empty id or end of
// input cancels.
type AuthorizationView struct{ base }

func NewAuthorizationView(c *Console) *AuthorizationView {
	return &AuthorizationView{base{c}}
}

func (v *AuthorizationView) PromptCredentials(ctx context.Context) (controller.Credentials, error) {
	id, err := v.Ask(ctx, "User id (empty line to quit)")
	if err != nil {
		return controller.Credentials{}, err
	}
	if id == "" {
		return controller.Credentials{}, controller.ErrCancelled
	}
	pw, err := v.AskPassword(ctx, "Password")
	if err != nil {
		return controller.Credentials{}, err
	}
	return controller.Credentials{ID: id, Password: pw}, nil
}

// PasswordView asks for a replacement of the default password. Every line,
// including an empty one, is handed to the password policy; only end of
// input cancels.
type PasswordView struct {
	base
	warned bool
}

func NewPasswordView(c *Console) *PasswordView {
	return &PasswordView{base: base{c}}
}

func (v *PasswordView) PromptNewPassword(ctx context.Context) (string, error) {
	if !v.warned {
		v.Println("You are still using the default password. Choose a new one to continue.")
		v.warned = true
	}
	return v.AskPassword(ctx, "New password")
}

const adminUsage = `Commands:
  users                 list users
  user <id>             show one user
  adduser               add a user (prompts for the fields)
  edituser <id>         edit a user; empty answers keep the current value
  deluser <id>          delete a user
  categories            list categories
  addcat <name>         add a category
  rencat                rename a category (prompts for both names)
  delcat <name>         delete a category
  quit                  leave the admin session`

// AdminView is the administrator console.
type AdminView struct{ base }

func NewAdminView(c *Console) *AdminView {
	return &AdminView{base{c}}
}

func (v *AdminView) NextIntent(ctx context.Context) (controller.Intent, error) {
	return v.nextIntent(ctx, "admin", adminUsage, v.parse)
}

func (v *AdminView) parse(ctx context.Context, cmd string, args []string) (controller.Intent, bool, error) {
	switch cmd {
	case "users", "lu":
		return controller.ListUsers{}, true, nil
	case "user":
		id, err := v.argOrAsk(ctx, args, "User id")
		return controller.ShowUser{ID: id}, true, err
	case "adduser":
		f, err := v.userForm(ctx)
		return controller.AddUser{Form: f}, true, err
	case "edituser":
		id, err := v.argOrAsk(ctx, args, "User id")
		if err != nil {
			return nil, true, err
		}
		in, err := v.userUpdate(ctx, id)
		return in, true, err
	case "deluser":
		id, err := v.argOrAsk(ctx, args, "User id")
		return controller.DeleteUser{ID: id}, true, err
	case "categories", "lc":
		return controller.ListCategories{}, true, nil
	case "addcat":
		name, err := v.argOrAsk(ctx, args, "Category name")
		return controller.AddCategory{Name: name}, true, err
	case "rencat":
		from, err := v.Ask(ctx, "Current category name")
		if err != nil {
			return nil, true, err
		}
		to, err := v.Ask(ctx, "New category name")
		return controller.RenameCategory{From: from, To: to}, true, err
	case "delcat":
		name, err := v.argOrAsk(ctx, args, "Category name")
		return controller.DeleteCategory{Name: name}, true, err
	}
	return nil, false, nil
}

func (v *AdminView) userForm(ctx context.Context) (controller.UserForm, error) {
	var f controller.UserForm
	var err error

	if f.ID, err = v.Ask(ctx, "User id"); err != nil {
		return f, err
	}
	if f.Password, err = v.AskPassword(ctx, "Password"); err != nil {
		return f, err
	}
	role, err := v.Ask(ctx, "Role (buyer/seller)")
	if err != nil {
		return f, err
	}
	if f.Role, err = models.ParseRole(role); err != nil {
		return f, err
	}
	if f.FirstName, err = v.Ask(ctx, "First name"); err != nil {
		return f, err
	}
	if f.LastName, err = v.Ask(ctx, "Last name"); err != nil {
		return f, err
	}
	if f.Phone, err = v.Ask(ctx, "Phone"); err != nil {
		return f, err
	}
	zoom, err := v.optionalInt(ctx, fmt.Sprintf("Zoom level (%d-%d, empty for %d)", models.MinZoomLevel, models.MaxZoomLevel, models.DefaultZoomLevel))
	if err != nil {
		return f, err
	}
	if zoom != nil {
		f.ZoomLevel = *zoom
	}
	home, err := v.Ask(ctx, "Home position as lat,lng (empty for none)")
	if err != nil || home == "" {
		return f, err
	}
	f.Home, err = parseGeoPoint(home)
	return f, err
}

func (v *AdminView) userUpdate(ctx context.Context, id string) (controller.UpdateUser, error) {
	in := controller.UpdateUser{ID: id}
	var err error

	if in.Password, err = v.AskPassword(ctx, "New password (empty keeps the current one)"); err != nil {
		return in, err
	}
	role, err := v.Ask(ctx, "Role (buyer/seller, empty keeps)")
	if err != nil {
		return in, err
	}
	if role != "" {
		r, err := models.ParseRole(role)
		if err != nil {
			return in, err
		}
		in.Role = &r
	}
	in.Patch, err = profilePatch(ctx, v.Console)
	return in, err
}

func (v *AdminView) ShowUsers(_ context.Context, users []*models.User) {
	v.showUserTable("Users", users)
}

func (v *AdminView) ShowUser(_ context.Context, u *models.User) {
	v.showUserDetail(u)
}

// profilePatch asks for every profile field. An empty answer keeps the
// field; "-" clears a text field or the home position.
func profilePatch(ctx context.Context, c *Console) (controller.UserPatch, error) {
	var p controller.UserPatch

	for _, f := range []struct {
		prompt string
		dst    **string
	}{
		{"First name", &p.FirstName},
		{"Last name", &p.LastName},
		{"Phone", &p.Phone},
	} {
		s, err := c.Ask(ctx, f.prompt+" (empty keeps, - clears)")
		if err != nil {
			return p, err
		}
		switch s {
		case "":
		case "-":
			empty := ""
			*f.dst = &empty
		default:
			*f.dst = &s
		}
	}

	zoom, err := c.optionalInt(ctx, fmt.Sprintf("Zoom level (%d-%d, empty keeps)", models.MinZoomLevel, models.MaxZoomLevel))
	if err != nil {
		return p, err
	}
	p.ZoomLevel = zoom

	home, err := c.Ask(ctx, "Home position as lat,lng (empty keeps, - clears)")
	if err != nil {
		return p, err
	}
	switch home {
	case "":
	case "-":
		p.ClearHome = true
	default:
		if p.Home, err = parseGeoPoint(home); err != nil {
			return p, err
		}
	}
	return p, nil
}

func (c *Console) optionalInt(ctx context.Context, prompt string) (*int, error) {
	s, err := c.Ask(ctx, prompt)
	if err != nil || s == "" {
		return nil, err
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil, fmt.Errorf("%q is not a whole number", s)
	}
	return &n, nil
}

const buyerUsage = `Commands:
  categories   list categories
  sellers      list sellers and how to reach them
  quit         leave`

// BuyerView is the buyer console.
type BuyerView struct{ base }

func NewBuyerView(c *Console) *BuyerView {
	return &BuyerView{base{c}}
}

func (v *BuyerView) NextIntent(ctx context.Context) (controller.Intent, error) {
	return v.nextIntent(ctx, "buyer", buyerUsage, func(_ context.Context, cmd string, _ []string) (controller.Intent, bool, error) {
		switch cmd {
		case "categories", "lc":
			return controller.ListCategories{}, true, nil
		case "sellers", "ls":
			return controller.ListSellers{}, true, nil
		}
		return nil, false, nil
	})
}

func (v *BuyerView) ShowSellers(_ context.Context, sellers []*models.User) {
	v.showUserTable("Sellers", sellers)
}

const sellerUsage = `Commands:
  profile      show your profile
  edit         edit your profile; empty answers keep the current value
  passwd       change your password
  categories   list categories
  quit         leave`

// SellerView is the seller console.
type SellerView struct{ base }

func NewSellerView(c *Console) *SellerView {
	return &SellerView{base{c}}
}

func (v *SellerView) NextIntent(ctx context.Context) (controller.Intent, error) {
	return v.nextIntent(ctx, "seller", sellerUsage, v.parse)
}

func (v *SellerView) parse(ctx context.Context, cmd string, _ []string) (controller.Intent, bool, error) {
	switch cmd {
	case "profile", "p":
		return controller.ShowProfile{}, true, nil
	case "edit":
		p, err := profilePatch(ctx, v.Console)
		return controller.EditProfile{Patch: p}, true, err
	case "passwd":
		cur, err := v.AskPassword(ctx, "Current password")
		if err != nil {
			return nil, true, err
		}
		next, err := v.AskPassword(ctx, "New password")
		return controller.ChangePassword{Current: cur, New: next}, true, err
	case "categories", "lc":
		return controller.ListCategories{}, true, nil
	}
	return nil, false, nil
}

func (v *SellerView) ShowProfile(_ context.Context, u *models.User) {
	v.Println("Your profile:")
	v.showUserDetail(u)
}
