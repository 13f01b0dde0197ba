package controller

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/garage/internal/models"
	"github.com/dmitrijs2005/garage/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startAuthorization(t *testing.T, store storage.Storage) (*AuthorizationController, *scriptedView) {
	t.Helper()
	v := newScriptedView()
	a := NewAuthorizationController(nil)
	require.NoError(t, a.BindView(v))
	require.NoError(t, a.BindStorage(store))
	require.NoError(t, a.Start(context.Background()))
	t.Cleanup(a.Cancel)
	return a, v
}

func awaitingAfter(t *testing.T, a *AuthorizationController, attempts int) {
	t.Helper()
	require.Eventually(t, func() bool {
		return a.Attempts() == attempts && a.Phase() == PhaseAwaitingCredentials
	}, 5*time.Second, 5*time.Millisecond)
	assert.False(t, a.IsReady())
}

func TestAuthorization_SellerScenario(t *testing.T) {
	store := seeded(mustUser(t, "alice", models.DefaultPassword, models.RoleSeller))
	a, v := startAuthorization(t, store)

	_, err := a.Outcome()
	require.ErrorIs(t, err, ErrNotTerminal)

	v.submit(t, "alice", "wrong")
	awaitingAfter(t, a, 1)
	assert.Equal(t, []string{msgBadCredentials}, v.Errors())

	v.submit(t, "alice", models.DefaultPassword)
	waitTerminal(t, a)

	assert.Equal(t, Completed, a.State())
	assert.Equal(t, PhaseAuthorized, a.Phase())
	assert.Equal(t, 2, a.Attempts())

	out, err := a.Outcome()
	require.NoError(t, err)
	assert.True(t, out.Authorized)
	assert.False(t, out.BuyerMode)
	require.NotNil(t, out.User)
	assert.Equal(t, "alice", out.User.ID)
	assert.True(t, out.User.ValidatePassword(models.DefaultPassword))

	buyer, err := a.IsBuyerMode()
	require.NoError(t, err)
	assert.False(t, buyer)

	assert.Equal(t, storage.Disconnected, store.State(), "storage is released on terminal")
}

func TestAuthorization_BuyerRouting(t *testing.T) {
	a, v := startAuthorization(t, storage.NewMemory())

	v.submit(t, " bob ", models.DefaultPassword)
	waitTerminal(t, a)

	u, err := a.User()
	require.NoError(t, err)
	assert.Equal(t, "bob", u.ID)
	buyer, err := a.IsBuyerMode()
	require.NoError(t, err)
	assert.True(t, buyer)
}

func TestAuthorization_NeverSucceedsOnMismatch(t *testing.T) {
	store := seeded(mustUser(t, "alice", "s3cret!", models.RoleSeller))
	a, v := startAuthorization(t, store)

	attempts := []Credentials{
		{"alice", ""},
		{"alice", "S3CRET!"},
		{"alice", "s3cret! "},
		{"nobody", "s3cret!"},
		{"", ""},
		{"ALICE", "s3cret!"},
	}
	for i, c := range attempts {
		v.submit(t, c.ID, c.Password)
		awaitingAfter(t, a, i+1)
	}
	assert.Len(t, v.Errors(), len(attempts))
}

func TestAuthorization_CancelAfterFailures(t *testing.T) {
	a, v := startAuthorization(t, storage.NewMemory())

	v.submit(t, "alice", "nope")
	awaitingAfter(t, a, 1)
	v.submit(t, "bob", "nope")
	awaitingAfter(t, a, 2)

	close(v.creds)
	waitTerminal(t, a)

	assert.Equal(t, Cancelled, a.State())
	assert.Equal(t, PhaseCancelled, a.Phase())
	ok, err := a.IsAuthorized()
	require.NoError(t, err)
	assert.False(t, ok)
	u, err := a.User()
	require.NoError(t, err)
	assert.Nil(t, u)
}

func TestAuthorization_ExternalCancel(t *testing.T) {
	store := storage.NewMemory()
	a, _ := startAuthorization(t, store)

	require.Eventually(t, func() bool { return a.Phase() == PhaseAwaitingCredentials }, 5*time.Second, 5*time.Millisecond)
	a.Cancel()
	waitTerminal(t, a)

	assert.Equal(t, Cancelled, a.State())
	out, err := a.Outcome()
	require.NoError(t, err)
	assert.False(t, out.Authorized)
	assert.Equal(t, storage.Disconnected, store.State())
}

func TestAuthorization_PollingReadsDoNotRace(t *testing.T) {
	a, v := startAuthorization(t, storage.NewMemory())

	done := make(chan struct{})
	go func() {
		defer close(done)
		for !a.IsReady() {
			_, _ = a.Outcome()
			_ = a.Phase()
			time.Sleep(time.Millisecond)
		}
	}()

	for range 3 {
		v.submit(t, "carol", "bad")
	}
	v.submit(t, "carol", models.DefaultPassword)

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("poller never saw the controller finish")
	}
	out, err := a.Outcome()
	require.NoError(t, err)
	assert.Equal(t, "carol", out.User.ID)
	assert.Equal(t, 4, a.Attempts())
}

func TestAuthPhase_String(t *testing.T) {
	assert.Equal(t, "awaiting credentials", PhaseAwaitingCredentials.String())
	assert.Equal(t, "AuthPhase(9)", AuthPhase(9).String())
}
