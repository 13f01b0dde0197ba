package controller

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/garage/internal/logging"
	"github.com/dmitrijs2005/garage/internal/models"
)

// AdminController maintains the user and category directory. Failed
// operations are reported to the view and the session carries on.
type AdminController struct {
	lifecycle
	view AdminView
}

var _ Controller = (*AdminController)(nil)

func NewAdminController(log logging.Logger) *AdminController {
	c := &AdminController{}
	c.init("admin", log, nil)
	return c
}

func (c *AdminController) BindView(v View) error {
	av, ok := v.(AdminView)
	if !ok {
		return viewTypeError(c.name, "AdminView", v)
	}
	return c.bindView(func() { c.view = av })
}

// Start connects storage and shows both lists.
func (c *AdminController) Start(ctx context.Context) error {
	return c.start(ctx, c.setup, c.run)
}

func (c *AdminController) setup(ctx context.Context) error {
	if err := c.store.Connect(ctx); err != nil {
		return err
	}
	users, err := c.store.ListUsers(ctx)
	if err != nil {
		return err
	}
	cats, err := c.store.ListCategories(ctx)
	if err != nil {
		return err
	}
	c.view.ShowUsers(ctx, users)
	c.view.ShowCategories(ctx, cats)
	return nil
}

func (c *AdminController) run(ctx context.Context) error {
	return c.serve(ctx, c.view.NextIntent, c.handle)
}

func (c *AdminController) handle(ctx context.Context, in Intent) (bool, error) {
	var err error

	switch in := in.(type) {
	case ListUsers:
		err = c.showUsers(ctx)
	case ShowUser:
		var u *models.User
		if u, err = c.store.GetUser(ctx, strings.TrimSpace(in.ID)); err == nil {
			c.view.ShowUser(ctx, u)
		}
	case AddUser:
		err = c.addUser(ctx, in.Form)
	case UpdateUser:
		err = c.updateUser(ctx, in)
	case DeleteUser:
		if err = c.store.DeleteUser(ctx, strings.TrimSpace(in.ID)); err == nil {
			c.report(ctx, fmt.Sprintf("user %q deleted", in.ID))
			err = c.showUsers(ctx)
		}

	case ListCategories:
		err = c.showCategories(ctx)
	case AddCategory:
		err = c.addCategory(ctx, in.Name)
	case RenameCategory:
		err = c.renameCategory(ctx, in.From, in.To)
	case DeleteCategory:
		if err = c.store.DeleteCategory(ctx, strings.TrimSpace(in.Name)); err == nil {
			c.report(ctx, fmt.Sprintf("category %q deleted", in.Name))
			err = c.showCategories(ctx)
		}

	case Quit:
		return true, nil
	default:
		c.view.ShowError(ctx, intentName(in)+" is not available to the administrator")
	}

	if err != nil {
		c.log.Warn(ctx, "admin action failed", "action", intentName(in), "error", err)
		c.view.ShowError(ctx, describe(err))
	}
	return false, nil
}

func (c *AdminController) report(ctx context.Context, msg string) {
	c.log.Info(ctx, msg)
	c.view.ShowMessage(ctx, msg)
}

func (c *AdminController) showUsers(ctx context.Context) error {
	users, err := c.store.ListUsers(ctx)
	if err != nil {
		return err
	}
	c.view.ShowUsers(ctx, users)
	return nil
}

func (c *AdminController) showCategories(ctx context.Context) error {
	cats, err := c.store.ListCategories(ctx)
	if err != nil {
		return err
	}
	c.view.ShowCategories(ctx, cats)
	return nil
}

func (c *AdminController) addUser(ctx context.Context, f UserForm) error {
	u, err := f.build()
	if err != nil {
		return err
	}
	if err := c.store.AddUser(ctx, u); err != nil {
		return err
	}
	c.report(ctx, fmt.Sprintf("user %q added", u.ID))
	return c.showUsers(ctx)
}

func (c *AdminController) updateUser(ctx context.Context, in UpdateUser) error {
	u, err := c.store.GetUser(ctx, strings.TrimSpace(in.ID))
	if err != nil {
		return err
	}

	in.Patch.apply(u)
	if in.Role != nil {
		u.Role = *in.Role
	}
	if in.Password != "" {
		if err := u.SetPassword(in.Password); err != nil {
			return err
		}
	}
	if err := u.Validate(); err != nil {
		return err
	}
	if err := c.store.UpdateUser(ctx, u); err != nil {
		return err
	}

	c.report(ctx, fmt.Sprintf("user %q updated", u.ID))
	c.view.ShowUser(ctx, u)
	return nil
}

func (c *AdminController) addCategory(ctx context.Context, name string) error {
	cat, err := models.NewCategory(name)
	if err != nil {
		return err
	}
	if err := c.store.AddCategory(ctx, cat); err != nil {
		return err
	}
	c.report(ctx, fmt.Sprintf("category %q added", cat.Name))
	return c.showCategories(ctx)
}

func (c *AdminController) renameCategory(ctx context.Context, from, to string) error {
	cat, err := models.NewCategory(to)
	if err != nil {
		return err
	}
	from = strings.TrimSpace(from)
	if err := c.store.UpdateCategory(ctx, from, cat); err != nil {
		return err
	}
	c.report(ctx, fmt.Sprintf("category %q renamed to %q", from, cat.Name))
	return c.showCategories(ctx)
}
