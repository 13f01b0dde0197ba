package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"

	"github.com/dmitrijs2005/garage/internal/filex"
	"github.com/dmitrijs2005/garage/internal/logging"
	"github.com/dmitrijs2005/garage/internal/models"
)

const snapshotVersion = 1

// snapshot is the on-disk format of the file backend.
type snapshot struct {
	Version    int               `json:"version"`
	Users      []userRecord      `json:"users"`
	Categories []models.Category `json:"categories"`
}

// File is the durable snapshot backend. The whole dataset is loaded on
// Connect and rewritten after every successful mutation. A mutation is
// applied to a copy first; the copy replaces the live data only once it has
// been flushed, so a failed write leaves both disk and memory unchanged.
type File struct {
	mu    sync.RWMutex
	state ConnState
	path  string
	data  *dataset
	log   logging.Logger
}

func NewFile(path string, log logging.Logger) *File {
	if log == nil {
		log = logging.Discard()
	}
	return &File{path: path, log: log.With("path", path)}
}

func (f *File) Connect(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state == Connected {
		return nil
	}

	ds, err := f.load()
	if err != nil {
		f.state = Failed
		f.log.Error(ctx, "snapshot load failed", "error", err)
		return opError("connect", f.path, ErrConnectionFailed, err)
	}

	f.data = ds
	f.state = Connected
	f.log.Debug(ctx, "storage connected", "users", len(ds.users), "categories", len(ds.categories))
	return nil
}

func (f *File) load() (*dataset, error) {
	raw, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return newDataset(), nil
	}
	if err != nil {
		return nil, err
	}

	var snap snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	if snap.Version != snapshotVersion {
		return nil, fmt.Errorf("unsupported snapshot version %d", snap.Version)
	}

	var d Dataset
	for _, r := range snap.Users {
		u, err := fromRecord(r)
		if err != nil {
			return nil, fmt.Errorf("decode user %q: %w", r.ID, err)
		}
		d.Users = append(d.Users, u)
	}
	d.Categories = snap.Categories
	return indexDataset(d)
}

func (f *File) flush(ds *dataset) error {
	exp := ds.export()
	snap := snapshot{Version: snapshotVersion, Categories: exp.Categories, Users: make([]userRecord, 0, len(exp.Users))}
	for _, u := range exp.Users {
		snap.Users = append(snap.Users, toRecord(u))
	}

	raw, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return err
	}
	return filex.WriteFileAtomic(f.path, raw, 0o600)
}

func (f *File) Disconnect(ctx context.Context) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state == Connected {
		f.log.Debug(ctx, "storage disconnected")
	}
	f.data = nil
	f.state = Disconnected
}

func (f *File) State() ConnState {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.state
}

func (f *File) read(op, key string, fn func(d *dataset) error) error {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.state != Connected {
		return opError(op, key, ErrNotConnected, nil)
	}
	return fn(f.data)
}

func (f *File) mutate(ctx context.Context, op, key string, fn func(d *dataset) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != Connected {
		return opError(op, key, ErrNotConnected, nil)
	}

	next := f.data.clone()
	if err := fn(next); err != nil {
		return err
	}
	if err := f.flush(next); err != nil {
		f.log.Error(ctx, "snapshot flush failed", "op", op, "error", err)
		return opError(op, key, ErrConnectionFailed, err)
	}
	f.data = next
	return nil
}

func (f *File) ListUsers(_ context.Context) (users []*models.User, err error) {
	err = f.read("list users", "", func(d *dataset) error {
		users = d.listUsers()
		return nil
	})
	return users, err
}

func (f *File) GetUser(_ context.Context, id string) (u *models.User, err error) {
	err = f.read("get user", id, func(d *dataset) error {
		u, err = d.getUser(id)
		return err
	})
	return u, err
}

func (f *File) AddUser(ctx context.Context, u *models.User) error {
	return f.mutate(ctx, "add user", u.ID, func(d *dataset) error { return d.addUser(u) })
}

func (f *File) UpdateUser(ctx context.Context, u *models.User) error {
	return f.mutate(ctx, "update user", u.ID, func(d *dataset) error { return d.updateUser(u) })
}

func (f *File) DeleteUser(ctx context.Context, id string) error {
	return f.mutate(ctx, "delete user", id, func(d *dataset) error { return d.deleteUser(id) })
}

func (f *File) ListCategories(_ context.Context) (cats []models.Category, err error) {
	err = f.read("list categories", "", func(d *dataset) error {
		cats = d.listCategories()
		return nil
	})
	return cats, err
}

func (f *File) AddCategory(ctx context.Context, c models.Category) error {
	return f.mutate(ctx, "add category", c.Name, func(d *dataset) error { return d.addCategory(c) })
}

func (f *File) UpdateCategory(ctx context.Context, name string, c models.Category) error {
	return f.mutate(ctx, "update category", name, func(d *dataset) error { return d.updateCategory(name, c) })
}

func (f *File) DeleteCategory(ctx context.Context, name string) error {
	return f.mutate(ctx, "delete category", name, func(d *dataset) error { return d.deleteCategory(name) })
}
