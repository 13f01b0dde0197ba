package app

import (
	"fmt"

	"github.com/dmitrijs2005/garage/internal/models"
	"github.com/dmitrijs2005/garage/internal/storage"
)

// Mode is what a session does after startup.
type Mode int

const (
	ModeAdmin Mode = iota + 1
	ModeBuyer
	ModeSeller
)

func (m Mode) String() string {
	switch m {
	case ModeAdmin:
		return "admin"
	case ModeBuyer:
		return "buyer"
	case ModeSeller:
		return "seller"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// Session is the state of one run. It is created by Run and passed down
// explicitly; nothing about it is global.
type Session struct {
	ID   string
	Mode Mode
	// User is the authorized user; nil in admin mode.
	User *models.User
	// Storage is the orchestration's own durable connection, used to record
	// the rotated password. Controllers open their own.
	Storage storage.Storage
}
