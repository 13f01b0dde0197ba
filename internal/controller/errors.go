package controller

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/garage/internal/models"
)

var (
	// ErrControllerNotReady is returned by Start when a view or storage is missing.
	ErrControllerNotReady = errors.New("controller not ready")

	// ErrAlreadyStarted is returned when a started controller is started or
	// re-bound.
	ErrAlreadyStarted = errors.New("controller already started")

	// ErrNotTerminal is returned by outcome accessors before the controller
	// has finished.
	ErrNotTerminal = errors.New("controller has not finished")

	// ErrCancelled is returned by a view when the operator abandons input.
	ErrCancelled = errors.New("cancelled by operator")
)

// ViewTypeError reports a view that lacks the interface a controller needs.
// It is a wiring defect, not something to recover from at runtime.
type ViewTypeError struct {
	Controller string
	Want       string
	Got        string
}

func (e *ViewTypeError) Error() string {
	return fmt.Sprintf("%s controller: view %s does not implement %s", e.Controller, e.Got, e.Want)
}

func viewTypeError(controller, want string, got View) error {
	return &ViewTypeError{Controller: controller, Want: want, Got: fmt.Sprintf("%T", got)}
}

// isCancellation reports whether err ended a run because the operator or the
// run context stopped it. A context error only counts once ctx is done, so a
// backend's own timeout still fails the controller.
func isCancellation(ctx context.Context, err error) bool {
	if errors.Is(err, ErrCancelled) {
		return true
	}
	return ctx.Err() != nil && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded))
}

// describe turns a recoverable error into a line for the operator.
func describe(err error) string {
	var ue *models.UserError
	if errors.As(err, &ue) {
		return ue.Reason
	}
	return err.Error()
}
