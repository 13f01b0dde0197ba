// Package cli is the terminal presentation surface. It implements every
// controller view on top of a Console: line prompts, hidden password entry
// through golang.org/x/term, and a small command loop per session mode.
//
// All reads honour context cancellation, so a controller cancelled from a
// signal handler is not left waiting for a line that never comes. End of
// input is reported to controllers as controller.ErrCancelled.
package cli
