package controller

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/garage/internal/logging"
	"github.com/dmitrijs2005/garage/internal/models"
	"github.com/dmitrijs2005/garage/internal/storage"
)

// SellerController lets the signed-in seller maintain their own profile.
// Changes are written to storage before the session's copy is replaced.
type SellerController struct {
	lifecycle
	view SellerView
	user *models.User
}

var _ Controller = (*SellerController)(nil)

// NewSellerController binds the session to user, which is copied.
func NewSellerController(user *models.User, log logging.Logger) *SellerController {
	c := &SellerController{user: user.Clone()}
	if log != nil {
		log = log.With("user", user.ID)
	}
	c.init("seller", log, nil)
	return c
}

func (c *SellerController) BindView(v View) error {
	sv, ok := v.(SellerView)
	if !ok {
		return viewTypeError(c.name, "SellerView", v)
	}
	return c.bindView(func() { c.view = sv })
}

func (c *SellerController) Start(ctx context.Context) error {
	return c.start(ctx, c.setup, c.run)
}

// setup prefers the stored record over the one handed in, since another
// session may have changed it.
func (c *SellerController) setup(ctx context.Context) error {
	if err := c.store.Connect(ctx); err != nil {
		return err
	}
	stored, err := c.store.GetUser(ctx, c.user.ID)
	switch {
	case err == nil:
		c.mu.Lock()
		c.user = stored
		c.mu.Unlock()
	case !errors.Is(err, storage.ErrNotFound):
		return err
	}
	c.view.ShowProfile(ctx, c.user.Clone())
	return nil
}

func (c *SellerController) run(ctx context.Context) error {
	return c.serve(ctx, c.view.NextIntent, c.handle)
}

func (c *SellerController) handle(ctx context.Context, in Intent) (bool, error) {
	var err error
	switch in := in.(type) {
	case ShowProfile:
		c.view.ShowProfile(ctx, c.user.Clone())
	case EditProfile:
		err = c.editProfile(ctx, in.Patch)
	case ChangePassword:
		err = c.changePassword(ctx, in.Current, in.New)
	case ListCategories:
		var cats []models.Category
		if cats, err = c.store.ListCategories(ctx); err == nil {
			c.view.ShowCategories(ctx, cats)
		}
	case Quit:
		return true, nil
	default:
		c.view.ShowError(ctx, intentName(in)+" is not available to sellers")
	}
	if err != nil {
		c.log.Warn(ctx, "seller action failed", "action", intentName(in), "error", err)
		c.view.ShowError(ctx, describe(err))
	}
	return false, nil
}

func (c *SellerController) editProfile(ctx context.Context, p UserPatch) error {
	next := c.user.Clone()
	p.apply(next)
	if err := next.Validate(); err != nil {
		return err
	}
	if err := c.store.UpdateUser(ctx, next); err != nil {
		return err
	}
	c.user = next
	c.view.ShowMessage(ctx, "profile updated")
	c.view.ShowProfile(ctx, next.Clone())
	return nil
}

func (c *SellerController) changePassword(ctx context.Context, current, newValue string) error {
	if !c.user.ValidatePassword(current) {
		return errors.New("the current password does not match")
	}
	next := c.user.Clone()
	if err := next.SetPassword(newValue); err != nil {
		return err
	}
	if err := c.store.UpdateUser(ctx, next); err != nil {
		return err
	}
	c.user = next
	c.log.Info(ctx, "password changed")
	c.view.ShowMessage(ctx, "password changed")
	return nil
}

// User returns a copy of the session's user as last stored.
func (c *SellerController) User() *models.User {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.user.Clone()
}
