package storage

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/garage/internal/logging"
	"github.com/dmitrijs2005/garage/internal/models"
)

// ConnState is the state of a connection handle.
type ConnState int

const (
	Disconnected ConnState = iota
	Connected
	Failed
)

func (s ConnState) String() string {
	switch s {
	case Disconnected:
		return "disconnected"
	case Connected:
		return "connected"
	case Failed:
		return "failed"
	}
	return fmt.Sprintf("ConnState(%d)", int(s))
}

// Users is the user half of the directory. Returned users are copies.
type Users interface {
	ListUsers(ctx context.Context) ([]*models.User, error)
	GetUser(ctx context.Context, id string) (*models.User, error)
	AddUser(ctx context.Context, u *models.User) error
	UpdateUser(ctx context.Context, u *models.User) error
	DeleteUser(ctx context.Context, id string) error
}

// Categories is the category half of the directory. UpdateCategory renames
// the category stored under name to c.Name.
type Categories interface {
	ListCategories(ctx context.Context) ([]models.Category, error)
	AddCategory(ctx context.Context, c models.Category) error
	UpdateCategory(ctx context.Context, name string, c models.Category) error
	DeleteCategory(ctx context.Context, name string) error
}

// Storage is a connection to one backend. Connect on a connected handle is a
// no-op; Disconnect always succeeds.
type Storage interface {
	Connect(ctx context.Context) error
	Disconnect(ctx context.Context)
	State() ConnState

	Users
	Categories
}

// Kind names a backend.
type Kind string

const (
	KindMemory Kind = "memory"
	KindFile   Kind = "file"
	KindSQLite Kind = "sqlite"
)

// ParseKind validates a backend name.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(s); k {
	case KindMemory, KindFile, KindSQLite:
		return k, nil
	}
	return "", fmt.Errorf("unknown storage backend %q", s)
}

// Durable reports whether the backend keeps data across process runs.
func (k Kind) Durable() bool { return k == KindFile || k == KindSQLite }

// Open returns a new, disconnected handle for the given backend. path is
// ignored by the memory backend, which always starts from DefaultSeed.
func Open(kind Kind, path string, log logging.Logger) (Storage, error) {
	if log == nil {
		log = logging.Discard()
	}
	log = log.With("backend", string(kind))

	switch kind {
	case KindMemory:
		return NewMemory(WithLogger(log)), nil
	case KindFile:
		return NewFile(path, log), nil
	case KindSQLite:
		return NewSQLite(path, log), nil
	}
	return nil, fmt.Errorf("unknown storage backend %q", kind)
}
