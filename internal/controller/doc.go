// Package controller drives a session: it binds a presentation surface (a
// view) to its own storage connection, runs the session asynchronously and
// exposes a non-blocking readiness check for the caller to poll.
//
// Every variant (authorization, admin, buyer, seller) implements Controller.
// Start performs synchronous setup, such as connecting storage, and then hands
// the session to a goroutine that pulls intents from the view one at a time
// and applies each under the controller's lock. The caller polls IsReady or
// blocks in Wait. A controller is single-use: once terminal it accepts no
// further input and its storage connection is closed.
package controller
