// Package app runs one garage session from start to exit.
//
// A normal run authorizes the operator, forces a change of the default
// password, and then hands the terminal to a buyer or seller session. With
// -admin the authorization gate is skipped and the administrator session
// starts directly. Every controller gets its own storage connection and is
// polled to completion.
package app
