package storage

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/garage/internal/logging"
	"github.com/dmitrijs2005/garage/internal/models"
)

// Memory is the transient backend. Every Connect from a disconnected state
// starts over from the seed; nothing outlives Disconnect.
type Memory struct {
	mu    sync.RWMutex
	state ConnState
	data  *dataset
	seed  SeedFunc
	log   logging.Logger
}

type MemoryOption func(*Memory)

// WithSeed replaces DefaultSeed.
func WithSeed(seed SeedFunc) MemoryOption {
	return func(m *Memory) { m.seed = seed }
}

func WithLogger(log logging.Logger) MemoryOption {
	return func(m *Memory) { m.log = log }
}

func NewMemory(opts ...MemoryOption) *Memory {
	m := &Memory{seed: DefaultSeed, log: logging.Discard()}
	for _, o := range opts {
		o(m)
	}
	return m
}

func (m *Memory) Connect(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state == Connected {
		return nil
	}

	d, err := m.seed()
	if err != nil {
		m.state = Failed
		return opError("connect", "", ErrConnectionFailed, err)
	}
	ds, err := indexDataset(d)
	if err != nil {
		m.state = Failed
		return opError("connect", "", ErrConnectionFailed, err)
	}

	m.data = ds
	m.state = Connected
	m.log.Debug(ctx, "storage connected", "users", len(ds.users), "categories", len(ds.categories))
	return nil
}

func (m *Memory) Disconnect(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state == Connected {
		m.log.Debug(ctx, "storage disconnected")
	}
	m.data = nil
	m.state = Disconnected
}

func (m *Memory) State() ConnState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

func (m *Memory) read(op, key string, fn func(d *dataset) error) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.state != Connected {
		return opError(op, key, ErrNotConnected, nil)
	}
	return fn(m.data)
}

func (m *Memory) write(op, key string, fn func(d *dataset) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != Connected {
		return opError(op, key, ErrNotConnected, nil)
	}
	return fn(m.data)
}

func (m *Memory) ListUsers(_ context.Context) (users []*models.User, err error) {
	err = m.read("list users", "", func(d *dataset) error {
		users = d.listUsers()
		return nil
	})
	return users, err
}

func (m *Memory) GetUser(_ context.Context, id string) (u *models.User, err error) {
	err = m.read("get user", id, func(d *dataset) error {
		u, err = d.getUser(id)
		return err
	})
	return u, err
}

func (m *Memory) AddUser(_ context.Context, u *models.User) error {
	return m.write("add user", u.ID, func(d *dataset) error { return d.addUser(u) })
}

func (m *Memory) UpdateUser(_ context.Context, u *models.User) error {
	return m.write("update user", u.ID, func(d *dataset) error { return d.updateUser(u) })
}

func (m *Memory) DeleteUser(_ context.Context, id string) error {
	return m.write("delete user", id, func(d *dataset) error { return d.deleteUser(id) })
}

func (m *Memory) ListCategories(_ context.Context) (cats []models.Category, err error) {
	err = m.read("list categories", "", func(d *dataset) error {
		cats = d.listCategories()
		return nil
	})
	return cats, err
}

func (m *Memory) AddCategory(_ context.Context, c models.Category) error {
	return m.write("add category", c.Name, func(d *dataset) error { return d.addCategory(c) })
}

func (m *Memory) UpdateCategory(_ context.Context, name string, c models.Category) error {
	return m.write("update category", name, func(d *dataset) error { return d.updateCategory(name, c) })
}

func (m *Memory) DeleteCategory(_ context.Context, name string) error {
	return m.write("delete category", name, func(d *dataset) error { return d.deleteCategory(name) })
}
