package controller

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/garage/internal/models"
	"github.com/dmitrijs2005/garage/internal/storage"
	"github.com/stretchr/testify/require"
)

// scriptedView implements every view interface. Input is fed through
// unbuffered channels, so a send returns only once the controller asks for
// the next input, which means the previous one has been fully handled.
// Closing a channel is the operator cancelling.
type scriptedView struct {
	creds   chan Credentials
	intents chan Intent

	mu         sync.Mutex
	errors     []string
	messages   []string
	users      [][]*models.User
	shownUser  []*models.User
	categories [][]models.Category
	sellers    [][]*models.User
	profiles   []*models.User
}

func newScriptedView() *scriptedView {
	return &scriptedView{creds: make(chan Credentials), intents: make(chan Intent)}
}

func (v *scriptedView) PromptCredentials(ctx context.Context) (Credentials, error) {
	select {
	case c, ok := <-v.creds:
		if !ok {
			return Credentials{}, ErrCancelled
		}
		return c, nil
	case <-ctx.Done():
		return Credentials{}, ctx.Err()
	}
}

func (v *scriptedView) NextIntent(ctx context.Context) (Intent, error) {
	select {
	case in, ok := <-v.intents:
		if !ok {
			return nil, ErrCancelled
		}
		return in, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (v *scriptedView) ShowError(_ context.Context, msg string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.errors = append(v.errors, msg)
}

func (v *scriptedView) ShowMessage(_ context.Context, msg string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.messages = append(v.messages, msg)
}

func (v *scriptedView) ShowUsers(_ context.Context, users []*models.User) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.users = append(v.users, users)
}

func (v *scriptedView) ShowUser(_ context.Context, u *models.User) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.shownUser = append(v.shownUser, u)
}

func (v *scriptedView) ShowCategories(_ context.Context, cats []models.Category) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.categories = append(v.categories, cats)
}

func (v *scriptedView) ShowSellers(_ context.Context, sellers []*models.User) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.sellers = append(v.sellers, sellers)
}

func (v *scriptedView) ShowProfile(_ context.Context, u *models.User) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.profiles = append(v.profiles, u)
}

func (v *scriptedView) Errors() []string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]string(nil), v.errors...)
}

func (v *scriptedView) Messages() []string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]string(nil), v.messages...)
}

func (v *scriptedView) LastCategories() []string {
	v.mu.Lock()
	defer v.mu.Unlock()
	if len(v.categories) == 0 {
		return nil
	}
	out := []string{}
	for _, c := range v.categories[len(v.categories)-1] {
		out = append(out, c.Name)
	}
	return out
}

func (v *scriptedView) LastUsers() []string {
	v.mu.Lock()
	defer v.mu.Unlock()
	if len(v.users) == 0 {
		return nil
	}
	out := []string{}
	for _, u := range v.users[len(v.users)-1] {
		out = append(out, u.ID)
	}
	return out
}

// bareView has none of the variant-specific methods.
type bareView struct{}

func (bareView) ShowError(context.Context, string)   {}
func (bareView) ShowMessage(context.Context, string) {}

func (v *scriptedView) send(t *testing.T, in Intent) {
	t.Helper()
	select {
	case v.intents <- in:
	case <-time.After(5 * time.Second):
		t.Fatalf("controller did not ask for %s", intentName(in))
	}
}

func (v *scriptedView) submit(t *testing.T, id, password string) {
	t.Helper()
	select {
	case v.creds <- Credentials{ID: id, Password: password}:
	case <-time.After(5 * time.Second):
		t.Fatalf("controller did not prompt for credentials")
	}
}

type waiter interface {
	Wait(ctx context.Context) error
	State() State
}

func waitTerminal(t *testing.T, c waiter) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = c.Wait(ctx)
	require.True(t, c.State().Terminal(), "controller still %s", c.State())
}

func mustUser(t *testing.T, id, password string, role models.Role) *models.User {
	t.Helper()
	u, err := models.NewUser(id, password, role)
	require.NoError(t, err)
	return u
}

func seeded(users ...*models.User) *storage.Memory {
	return storage.NewMemory(storage.WithSeed(storage.SeedWith(storage.Dataset{Users: users})))
}

// fileWith writes users into a fresh snapshot file and returns its path.
func fileWith(t *testing.T, users ...*models.User) string {
	t.Helper()
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "garage.json")
	f := storage.NewFile(path, nil)
	require.NoError(t, f.Connect(ctx))
	for _, u := range users {
		require.NoError(t, f.AddUser(ctx, u))
	}
	f.Disconnect(ctx)
	return path
}
