package controller

import (
	"context"

	"github.com/dmitrijs2005/garage/internal/logging"
	"github.com/dmitrijs2005/garage/internal/models"
)

// BuyerController lets a buyer browse categories and sellers.
type BuyerController struct {
	lifecycle
	view BuyerView
}

var _ Controller = (*BuyerController)(nil)

func NewBuyerController(log logging.Logger) *BuyerController {
	c := &BuyerController{}
	c.init("buyer", log, nil)
	return c
}

func (c *BuyerController) BindView(v View) error {
	bv, ok := v.(BuyerView)
	if !ok {
		return viewTypeError(c.name, "BuyerView", v)
	}
	return c.bindView(func() { c.view = bv })
}

func (c *BuyerController) Start(ctx context.Context) error {
	return c.start(ctx, c.setup, c.run)
}

func (c *BuyerController) setup(ctx context.Context) error {
	if err := c.store.Connect(ctx); err != nil {
		return err
	}
	return c.showCategories(ctx)
}

func (c *BuyerController) run(ctx context.Context) error {
	return c.serve(ctx, c.view.NextIntent, c.handle)
}

func (c *BuyerController) handle(ctx context.Context, in Intent) (bool, error) {
	var err error
	switch in.(type) {
	case ListCategories:
		err = c.showCategories(ctx)
	case ListSellers:
		err = c.showSellers(ctx)
	case Quit:
		return true, nil
	default:
		c.view.ShowError(ctx, intentName(in)+" is not available to buyers")
	}
	if err != nil {
		c.log.Warn(ctx, "buyer action failed", "action", intentName(in), "error", err)
		c.view.ShowError(ctx, describe(err))
	}
	return false, nil
}

func (c *BuyerController) showCategories(ctx context.Context) error {
	cats, err := c.store.ListCategories(ctx)
	if err != nil {
		return err
	}
	c.view.ShowCategories(ctx, cats)
	return nil
}

func (c *BuyerController) showSellers(ctx context.Context) error {
	users, err := c.store.ListUsers(ctx)
	if err != nil {
		return err
	}
	sellers := make([]*models.User, 0, len(users))
	for _, u := range users {
		if u.IsSeller() {
			sellers = append(sellers, u)
		}
	}
	c.view.ShowSellers(ctx, sellers)
	return nil
}
