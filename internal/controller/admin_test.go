package controller

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/garage/internal/models"
	"github.com/dmitrijs2005/garage/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startAdmin(t *testing.T, store storage.Storage) (*AdminController, *scriptedView) {
	t.Helper()
	v := newScriptedView()
	c := NewAdminController(nil)
	require.NoError(t, c.BindView(v))
	require.NoError(t, c.BindStorage(store))
	require.NoError(t, c.Start(context.Background()))
	t.Cleanup(c.Cancel)
	return c, v
}

func TestAdmin_StartShowsLists(t *testing.T) {
	_, v := startAdmin(t, storage.NewMemory())

	assert.Equal(t, []string{"admin", "alice", "bob", "carol"}, v.LastUsers())
	assert.Equal(t, []string{"Books", "Clothing", "Furniture"}, v.LastCategories())
}

func TestAdmin_CategoryScenario(t *testing.T) {
	c, v := startAdmin(t, storage.NewMemory(storage.WithSeed(storage.EmptySeed)))
	assert.Empty(t, v.LastCategories())

	v.send(t, AddCategory{Name: " Electronics "})
	v.send(t, ListCategories{})
	v.send(t, ShowUser{ID: "nobody"})
	assert.Equal(t, []string{"Electronics"}, v.LastCategories())

	v.send(t, DeleteCategory{Name: "Electronics"})
	v.send(t, ListCategories{})
	v.send(t, DeleteCategory{Name: "Electronics"})
	v.send(t, Quit{})
	waitTerminal(t, c)

	assert.Equal(t, Completed, c.State())
	assert.Empty(t, v.LastCategories())

	errs := v.Errors()
	require.Len(t, errs, 2)
	assert.Contains(t, errs[0], "not found")
	assert.Contains(t, errs[1], `delete category "Electronics": not found`)
	assert.Contains(t, v.Messages(), `category "Electronics" added`)
	assert.Contains(t, v.Messages(), `category "Electronics" deleted`)
}

func TestAdmin_CategoryErrorsAreInline(t *testing.T) {
	c, v := startAdmin(t, storage.NewMemory())

	v.send(t, AddCategory{Name: "  "})
	v.send(t, AddCategory{Name: "Books"})
	v.send(t, RenameCategory{From: "Books", To: "Clothing"})
	v.send(t, RenameCategory{From: "Toys", To: "Games"})
	v.send(t, RenameCategory{From: "Books", To: "Comics"})
	v.send(t, Quit{})
	waitTerminal(t, c)

	assert.Equal(t, Completed, c.State(), "errors must not end the session")
	errs := v.Errors()
	require.Len(t, errs, 4)
	assert.Contains(t, errs[0], "must not be empty")
	assert.Contains(t, errs[1], "duplicate key")
	assert.Contains(t, errs[2], "duplicate key")
	assert.Contains(t, errs[3], "not found")
	assert.Equal(t, []string{"Clothing", "Comics", "Furniture"}, v.LastCategories())
}

func TestAdmin_UserLifecycle(t *testing.T) {
	path := fileWith(t)
	c, v := startAdmin(t, storage.NewFile(path, nil))

	v.send(t, AddUser{Form: UserForm{ID: "dave", Password: "", Role: models.RoleBuyer}})
	v.send(t, AddUser{Form: UserForm{ID: "dave", Password: "d4ve", Role: models.RoleBuyer, FirstName: "Dave", ZoomLevel: 12}})
	v.send(t, AddUser{Form: UserForm{ID: "dave", Password: "other", Role: models.RoleBuyer}})
	v.send(t, AddUser{Form: UserForm{ID: "erin", Password: "pw", Role: models.RoleSeller, ZoomLevel: 40}})

	phone := "519-555-0199"
	seller := models.RoleSeller
	v.send(t, UpdateUser{ID: "dave", Role: &seller, Patch: UserPatch{Phone: &phone, Home: &models.GeoPoint{Lat: 43, Lng: -81}}})
	v.send(t, UpdateUser{ID: "dave", Password: "   "})
	v.send(t, UpdateUser{ID: "ghost"})
	v.send(t, ListUsers{})
	v.send(t, Quit{})
	waitTerminal(t, c)

	errs := v.Errors()
	require.Len(t, errs, 5)
	assert.Equal(t, "the password must not be empty", errs[0])
	assert.Contains(t, errs[1], "duplicate key")
	assert.Contains(t, errs[2], "zoom level")
	assert.Equal(t, "the password must not be blank", errs[3])
	assert.Contains(t, errs[4], "not found")
	assert.Equal(t, []string{"dave"}, v.LastUsers())

	ctx := context.Background()
	f := storage.NewFile(path, nil)
	require.NoError(t, f.Connect(ctx))
	defer f.Disconnect(ctx)

	dave, err := f.GetUser(ctx, "dave")
	require.NoError(t, err)
	assert.Equal(t, "Dave", dave.FirstName)
	assert.Equal(t, 12, dave.ZoomLevel)
	assert.Equal(t, models.RoleSeller, dave.Role)
	assert.Equal(t, phone, dave.Phone)
	require.NotNil(t, dave.Home)
	assert.True(t, dave.ValidatePassword("d4ve"), "an empty password field leaves the password unchanged")
}

func TestAdmin_UpdatePasswordAndDelete(t *testing.T) {
	c, v := startAdmin(t, storage.NewMemory())

	v.send(t, UpdateUser{ID: "bob", Password: models.DefaultPassword})
	v.send(t, UpdateUser{ID: "bob", Password: "b0b"})
	v.send(t, DeleteUser{ID: "carol"})
	v.send(t, DeleteUser{ID: "carol"})
	v.send(t, ListSellers{})
	v.send(t, Quit{})
	waitTerminal(t, c)

	errs := v.Errors()
	require.Len(t, errs, 3)
	assert.Contains(t, errs[0], "must differ")
	assert.Contains(t, errs[1], "not found")
	assert.Contains(t, errs[2], "ListSellers is not available")

	v.mu.Lock()
	defer v.mu.Unlock()
	require.NotEmpty(t, v.shownUser)
	last := v.shownUser[len(v.shownUser)-1]
	assert.Equal(t, "bob", last.ID)
	assert.True(t, last.ValidatePassword("b0b"))
	assert.Equal(t, []string{"admin", "alice", "bob"}, idsOf(v.users[len(v.users)-1]))
}

func idsOf(users []*models.User) []string {
	out := []string{}
	for _, u := range users {
		out = append(out, u.ID)
	}
	return out
}
