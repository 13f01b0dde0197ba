package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/garage/internal/config"
	"github.com/dmitrijs2005/garage/internal/controller"
	"github.com/dmitrijs2005/garage/internal/logging"
	"github.com/dmitrijs2005/garage/internal/models"
	"github.com/dmitrijs2005/garage/internal/storage"
	"github.com/google/uuid"
)

// Views is the presentation surface, one view per controller variant.
type Views struct {
	Authorization controller.AuthorizationView
	Password      controller.PasswordView
	Admin         controller.AdminView
	Buyer         controller.BuyerView
	Seller        controller.SellerView
}

// session controllers add these to the Controller capability.
type sessionController interface {
	controller.Controller
	Err() error
	Cancel()
}

type App struct {
	cfg   *config.Config
	log   logging.Logger
	views Views

	open  func(kind storage.Kind, path string, log logging.Logger) (storage.Storage, error)
	newID func() string
}

func New(cfg *config.Config, log logging.Logger, views Views) *App {
	if log == nil {
		log = logging.Discard()
	}
	return &App{cfg: cfg, log: log, views: views, open: storage.Open, newID: uuid.NewString}
}

// Run executes one session. It returns ErrAuthorizationCancelled when the
// operator leaves the login gate, and any unrecovered error otherwise.
func (a *App) Run(ctx context.Context) error {
	sess := &Session{ID: a.newID()}
	log := a.log.With("session", sess.ID)

	if a.cfg.Admin {
		sess.Mode = ModeAdmin
		log.Info(ctx, "session started", "mode", sess.Mode.String())
		return a.runController(ctx, sess, log)
	}

	out, err := a.authorize(ctx, log)
	if err != nil {
		return err
	}
	sess.User = out.User
	sess.Mode = ModeSeller
	if out.BuyerMode {
		sess.Mode = ModeBuyer
	}
	log = log.With("user", sess.User.ID)
	log.Info(ctx, "session started", "mode", sess.Mode.String())

	if sess.Storage, err = a.openDurable(log); err != nil {
		return err
	}
	if err := sess.Storage.Connect(ctx); err != nil {
		return fmt.Errorf("open %s storage: %w", a.cfg.Backend, err)
	}
	defer sess.Storage.Disconnect(context.WithoutCancel(ctx))

	if err := a.enforcePasswordChange(ctx, sess, log); err != nil {
		return err
	}
	return a.runController(ctx, sess, log)
}

func (a *App) openDurable(log logging.Logger) (storage.Storage, error) {
	return a.open(a.cfg.Backend, a.cfg.DataPath, log)
}

func (a *App) openAuth(log logging.Logger) (storage.Storage, error) {
	if a.cfg.AuthBackend == config.AuthDurable {
		return a.openDurable(log)
	}
	return a.open(storage.KindMemory, "", log)
}

// authorize runs the login gate to completion.
func (a *App) authorize(ctx context.Context, log logging.Logger) (controller.Outcome, error) {
	store, err := a.openAuth(log)
	if err != nil {
		return controller.Outcome{}, err
	}

	c := controller.NewAuthorizationController(log)
	if err := a.drive(ctx, c, a.views.Authorization, store); err != nil {
		return controller.Outcome{}, err
	}

	out, err := c.Outcome()
	if err != nil {
		return controller.Outcome{}, err
	}
	if !out.Authorized {
		log.Info(ctx, "authorization cancelled", "attempts", c.Attempts())
		return controller.Outcome{}, ErrAuthorizationCancelled
	}
	return out, nil
}

// enforcePasswordChange holds the session until a user still on the default
// password has chosen another one, then records it in the durable store.
// Only the credential of an existing durable record is replaced; the rest of
// the record is left as stored.
func (a *App) enforcePasswordChange(ctx context.Context, sess *Session, log logging.Logger) error {
	u := sess.User
	if !u.ValidatePassword(models.DefaultPassword) {
		return nil
	}
	log.Info(ctx, "default password must be changed")

	stored, err := sess.Storage.GetUser(ctx, u.ID)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		stored = nil
	case err != nil:
		return fmt.Errorf("load user %q: %w", u.ID, err)
	}

	view := a.views.Password
	for {
		pw, err := view.PromptNewPassword(ctx)
		if errors.Is(err, controller.ErrCancelled) || ctx.Err() != nil {
			return fmt.Errorf("%w: default password was not changed", ErrAuthorizationCancelled)
		}
		if err != nil {
			return err
		}

		err = u.SetPassword(pw)
		if err == nil && stored != nil {
			err = stored.SetPassword(pw)
		}
		var ue *models.UserError
		if errors.As(err, &ue) {
			view.ShowError(ctx, ue.Reason)
			continue
		}
		if err != nil {
			return err
		}
		break
	}

	if stored != nil {
		err = sess.Storage.UpdateUser(ctx, stored)
		sess.User = stored
	} else {
		err = sess.Storage.AddUser(ctx, u)
	}
	if err != nil {
		return fmt.Errorf("save new password: %w", err)
	}

	log.Info(ctx, "default password changed")
	view.ShowMessage(ctx, "Password changed.")
	return nil
}

// runController builds the controller for the session's mode on a fresh
// storage connection and polls it to completion.
func (a *App) runController(ctx context.Context, sess *Session, log logging.Logger) error {
	var (
		c    sessionController
		view controller.View
	)
	switch sess.Mode {
	case ModeAdmin:
		c, view = controller.NewAdminController(log), a.views.Admin
	case ModeBuyer:
		c, view = controller.NewBuyerController(log), a.views.Buyer
	case ModeSeller:
		c, view = controller.NewSellerController(sess.User, log), a.views.Seller
	default:
		return fmt.Errorf("unknown session mode %s", sess.Mode)
	}

	store, err := a.openDurable(log)
	if err != nil {
		return err
	}
	if err := a.drive(ctx, c, view, store); err != nil {
		return err
	}
	log.Info(ctx, "session finished")
	return nil
}

// drive binds, starts and polls c. It returns the controller's failure, if
// any.
func (a *App) drive(ctx context.Context, c sessionController, view controller.View, store storage.Storage) error {
	if err := c.BindView(view); err != nil {
		return err
	}
	if err := c.BindStorage(store); err != nil {
		return err
	}
	if err := c.Start(ctx); err != nil {
		return err
	}
	waitReady(ctx, c, a.cfg.PollInterval)
	return c.Err()
}

type pollable interface {
	IsReady() bool
	Cancel()
}

// waitReady polls c every interval until it is terminal. When ctx ends, c is
// cancelled and polling continues until it has settled.
func waitReady(ctx context.Context, c pollable, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	done := ctx.Done()
	for !c.IsReady() {
		select {
		case <-ticker.C:
		case <-done:
			c.Cancel()
			done = nil
		}
	}
}
