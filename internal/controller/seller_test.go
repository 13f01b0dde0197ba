package controller

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/garage/internal/models"
	"github.com/dmitrijs2005/garage/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startSeller(t *testing.T, user *models.User, store storage.Storage) (*SellerController, *scriptedView) {
	t.Helper()
	v := newScriptedView()
	c := NewSellerController(user, nil)
	require.NoError(t, c.BindView(v))
	require.NoError(t, c.BindStorage(store))
	require.NoError(t, c.Start(context.Background()))
	t.Cleanup(c.Cancel)
	return c, v
}

func TestSeller_EditsArePersisted(t *testing.T) {
	alice := mustUser(t, "alice", "s3cret!", models.RoleSeller)
	path := fileWith(t, alice)
	c, v := startSeller(t, alice, storage.NewFile(path, nil))

	phone, zoom, badZoom := "519-555-0101", 15, 99
	v.send(t, EditProfile{Patch: UserPatch{Phone: &phone, ZoomLevel: &zoom, Home: &models.GeoPoint{Lat: 42.98, Lng: -81.25}}})
	v.send(t, EditProfile{Patch: UserPatch{ZoomLevel: &badZoom}})
	v.send(t, ChangePassword{Current: "wrong", New: "n3w"})
	v.send(t, ChangePassword{Current: "s3cret!", New: ""})
	v.send(t, ChangePassword{Current: "s3cret!", New: "n3w"})
	v.send(t, DeleteUser{ID: "alice"})
	v.send(t, ShowProfile{})
	v.send(t, Quit{})
	waitTerminal(t, c)

	errs := v.Errors()
	require.Len(t, errs, 4)
	assert.Contains(t, errs[0], "zoom level")
	assert.Equal(t, "the current password does not match", errs[1])
	assert.Equal(t, "the password must not be empty", errs[2])
	assert.Equal(t, "DeleteUser is not available to sellers", errs[3])
	assert.Equal(t, []string{"profile updated", "password changed"}, v.Messages())

	got := c.User()
	assert.Equal(t, zoom, got.ZoomLevel)
	assert.True(t, got.ValidatePassword("n3w"))

	ctx := context.Background()
	f := storage.NewFile(path, nil)
	require.NoError(t, f.Connect(ctx))
	defer f.Disconnect(ctx)

	stored, err := f.GetUser(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, phone, stored.Phone)
	assert.Equal(t, zoom, stored.ZoomLevel)
	require.NotNil(t, stored.Home)
	assert.True(t, stored.ValidatePassword("n3w"))
}

func TestSeller_PrefersStoredRecord(t *testing.T) {
	stale := mustUser(t, "alice", "old", models.RoleSeller)
	fresh := stale.Clone()
	fresh.Phone = "519-555-0000"
	path := fileWith(t, fresh)

	c, v := startSeller(t, stale, storage.NewFile(path, nil))
	v.send(t, Quit{})
	waitTerminal(t, c)

	assert.Equal(t, "519-555-0000", c.User().Phone)
	v.mu.Lock()
	defer v.mu.Unlock()
	require.NotEmpty(t, v.profiles)
	assert.Equal(t, "519-555-0000", v.profiles[0].Phone)
}

func TestSeller_UnknownUserReportsUpdateFailure(t *testing.T) {
	alice := mustUser(t, "alice", "pw", models.RoleSeller)
	c, v := startSeller(t, alice, storage.NewMemory(storage.WithSeed(storage.EmptySeed)))

	phone := "1"
	v.send(t, EditProfile{Patch: UserPatch{Phone: &phone}})
	v.send(t, Quit{})
	waitTerminal(t, c)

	errs := v.Errors()
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "not found")
	assert.Empty(t, c.User().Phone, "a failed write leaves the session copy unchanged")
}
