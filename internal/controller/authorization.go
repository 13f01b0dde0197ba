package controller

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/garage/internal/logging"
	"github.com/dmitrijs2005/garage/internal/models"
	"github.com/dmitrijs2005/garage/internal/storage"
)

// AuthPhase is the position of an authorization run.
type AuthPhase int

const (
	PhaseStart AuthPhase = iota
	PhaseAwaitingCredentials
	PhaseValidating
	PhaseAuthorized
	PhaseCancelled
)

func (p AuthPhase) String() string {
	switch p {
	case PhaseStart:
		return "start"
	case PhaseAwaitingCredentials:
		return "awaiting credentials"
	case PhaseValidating:
		return "validating"
	case PhaseAuthorized:
		return "authorized"
	case PhaseCancelled:
		return "cancelled"
	}
	return fmt.Sprintf("AuthPhase(%d)", int(p))
}

const msgBadCredentials = "unknown user id or wrong password"

// Outcome is the result of a finished authorization run. User is nil unless
// Authorized.
type Outcome struct {
	User       *models.User
	Authorized bool
	BuyerMode  bool
}

// AuthorizationController asks for credentials until they match a stored
// user or the operator cancels. Failed attempts are retried without limit.
type AuthorizationController struct {
	lifecycle

	view     AuthorizationView
	phase    AuthPhase
	attempts int
	outcome  Outcome
}

var _ Controller = (*AuthorizationController)(nil)

func NewAuthorizationController(log logging.Logger) *AuthorizationController {
	a := &AuthorizationController{}
	a.init("authorization", log, a.onFinish)
	return a
}

func (a *AuthorizationController) BindView(v View) error {
	av, ok := v.(AuthorizationView)
	if !ok {
		return viewTypeError(a.name, "AuthorizationView", v)
	}
	return a.bindView(func() { a.view = av })
}

// Start connects storage and begins prompting. A connect failure is
// returned and leaves the controller Failed; it is not retried.
func (a *AuthorizationController) Start(ctx context.Context) error {
	return a.start(ctx, a.setup, a.run)
}

func (a *AuthorizationController) setup(ctx context.Context) error {
	return a.store.Connect(ctx)
}

func (a *AuthorizationController) run(ctx context.Context) error {
	return a.serve(ctx, a.next, a.handle)
}

func (a *AuthorizationController) next(ctx context.Context) (Intent, error) {
	a.mu.Lock()
	a.phase = PhaseAwaitingCredentials
	a.mu.Unlock()

	creds, err := a.view.PromptCredentials(ctx)
	if err != nil {
		return nil, err
	}
	return SubmitCredentials(creds), nil
}

func (a *AuthorizationController) handle(ctx context.Context, in Intent) (bool, error) {
	creds, ok := in.(SubmitCredentials)
	if !ok {
		a.view.ShowError(ctx, intentName(in)+" is not available before login")
		return false, nil
	}

	a.phase = PhaseValidating
	a.attempts++

	id := strings.TrimSpace(creds.ID)
	u, err := a.store.GetUser(ctx, id)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		a.log.Info(ctx, "login rejected", "user", id, "reason", "unknown user", "attempt", a.attempts)
		a.view.ShowError(ctx, msgBadCredentials)
		return false, nil
	case err != nil:
		return false, err
	case !u.ValidatePassword(creds.Password):
		a.log.Info(ctx, "login rejected", "user", id, "reason", "password mismatch", "attempt", a.attempts)
		a.view.ShowError(ctx, msgBadCredentials)
		return false, nil
	}

	a.outcome = Outcome{User: u, Authorized: true, BuyerMode: !u.IsSeller()}
	a.phase = PhaseAuthorized
	a.log.Info(ctx, "login accepted", "user", u.ID, "role", string(u.Role), "attempt", a.attempts)
	return true, nil
}

func (a *AuthorizationController) onFinish(st State) {
	if st == Completed {
		return
	}
	a.outcome = Outcome{}
	if st == Cancelled {
		a.phase = PhaseCancelled
	}
}

// Phase is the current position in the run; safe to call at any time.
func (a *AuthorizationController) Phase() AuthPhase {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.phase
}

// Attempts counts submitted credentials, rejected ones included.
func (a *AuthorizationController) Attempts() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.attempts
}

// Outcome returns the result once the controller is terminal, ErrNotTerminal
// before. A cancelled or failed run yields an unauthorized Outcome.
func (a *AuthorizationController) Outcome() (Outcome, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.State().Terminal() {
		return Outcome{}, ErrNotTerminal
	}
	return a.outcome, nil
}

// User is the resolved user, nil when the run did not authorize.
func (a *AuthorizationController) User() (*models.User, error) {
	o, err := a.Outcome()
	return o.User, err
}

func (a *AuthorizationController) IsAuthorized() (bool, error) {
	o, err := a.Outcome()
	return o.Authorized, err
}

func (a *AuthorizationController) IsBuyerMode() (bool, error) {
	o, err := a.Outcome()
	return o.BuyerMode, err
}
