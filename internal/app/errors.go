package app

import (
	"errors"
	"fmt"
	"io"
)

// ErrAuthorizationCancelled ends a run that never got past the login gate.
// It is reported as a plain message, without a diagnostic report.
var ErrAuthorizationCancelled = errors.New("authorization cancelled")

// Report writes err and its causal chain, numbered, to w.
//
//	Error: seller controller: storage: connect "garage.json": connection failed: ...
//	Caused by:
//	  1. storage: connect "garage.json": connection failed: ...
//	  2. connection failed
func Report(w io.Writer, err error) {
	fmt.Fprintf(w, "Error: %v\n", err)
	chain := causes(err)
	if len(chain) == 0 {
		return
	}
	fmt.Fprintln(w, "Caused by:")
	for i, c := range chain {
		fmt.Fprintf(w, "  %d. %v\n", i+1, c)
	}
}

// causes walks the wrap tree depth-first, including joined errors.
func causes(err error) []error {
	var out []error
	var walk func(error)
	walk = func(e error) {
		switch x := e.(type) {
		case interface{ Unwrap() []error }:
			for _, c := range x.Unwrap() {
				if c != nil {
					out = append(out, c)
					walk(c)
				}
			}
		case interface{ Unwrap() error }:
			if c := x.Unwrap(); c != nil {
				out = append(out, c)
				walk(c)
			}
		}
	}
	walk(err)
	return out
}

// Finish maps the result of Run to a process exit code, telling the
// operator what went wrong on w.
func Finish(w io.Writer, err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, ErrAuthorizationCancelled):
		fmt.Fprintln(w, err)
	default:
		Report(w, err)
	}
	return 1
}
