package controller

import "fmt"

// State is the lifecycle state shared by all controllers.
type State int32

const (
	Uninitialized State = iota
	Configured
	Running
	Completed
	Cancelled
	Failed
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Configured:
		return "configured"
	case Running:
		return "running"
	case Completed:
		return "completed"
	case Cancelled:
		return "cancelled"
	case Failed:
		return "failed"
	}
	return fmt.Sprintf("State(%d)", int32(s))
}

// Terminal reports whether s is one of Completed, Cancelled or Failed.
func (s State) Terminal() bool {
	return s == Completed || s == Cancelled || s == Failed
}
