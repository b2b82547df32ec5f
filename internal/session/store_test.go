package session

import (
	"context"
	"testing"

	"github.com/2beens/fitbuddy/internal/keyval"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTestStore(kv keyval.Store) *Store {
	store := NewStore(kv, 0)
	// skip the real bcrypt hashing, keeps the tests fast
	store.HashFunc = func(secret string) (string, error) {
		return "hashed-" + secret, nil
	}
	return store
}

func TestStore_Login(t *testing.T) {
	ctx := context.Background()
	kv := keyval.NewTestStore()
	store := newTestStore(kv)

	ok, err := store.Login(ctx, "a@b.com", "secret")
	require.NoError(t, err)
	require.True(t, ok)

	user := store.CurrentUser()
	require.NotNil(t, user)
	assert.Equal(t, "1", user.ID)
	assert.Equal(t, "a@b.com", user.Email)
	assert.Equal(t, "a", user.Name)
	assert.Equal(t, 25, user.Age)
	assert.Equal(t, float64(70), user.Weight)
	assert.Equal(t, float64(175), user.Height)
	assert.Equal(t, GoalLoseWeight, user.Goal)

	assert.Len(t, store.Token(), tokenLength)
	assert.Contains(t, kv.AllValues(), tokenKey)
	assert.Contains(t, kv.AllValues(), userKey)
}

func TestStore_Login_emptyCredentials(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(keyval.NewTestStore())

	for _, params := range []struct{ email, password string }{
		{"", ""},
		{"a@b.com", ""},
		{"", "secret"},
	} {
		ok, err := store.Login(ctx, params.email, params.password)
		require.NoError(t, err)
		assert.False(t, ok)
	}

	assert.Nil(t, store.CurrentUser())
	assert.Empty(t, store.Token())
}

func TestStore_Register(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(keyval.NewTestStore())
	store.IDFunc = func() string { return "fresh-id" }

	ok, err := store.Register(ctx, UserProfile{
		Email:  "new@fitbuddy.app",
		Name:   "Newbie",
		Age:    30,
		Weight: 85,
		Height: 180,
		Goal:   GoalBuildMuscle,
	})
	require.NoError(t, err)
	require.True(t, ok)

	user := store.CurrentUser()
	require.NotNil(t, user)
	assert.Equal(t, "fresh-id", user.ID)
	assert.Equal(t, "new@fitbuddy.app", user.Email)
	assert.Equal(t, GoalBuildMuscle, user.Goal)
}

func TestStore_Restore_roundTrip(t *testing.T) {
	ctx := context.Background()
	kv := keyval.NewTestStore()

	store := newTestStore(kv)
	ok, err := store.Login(ctx, "serj@b.com", "secret")
	require.NoError(t, err)
	require.True(t, ok)
	token := store.Token()

	// a fresh store over the same kv picks the session up
	restored := newTestStore(kv)
	assert.True(t, restored.IsLoading())
	require.NoError(t, restored.Restore(ctx))
	assert.False(t, restored.IsLoading())

	user := restored.CurrentUser()
	require.NotNil(t, user)
	assert.Equal(t, "serj@b.com", user.Email)
	assert.Equal(t, token, restored.Token())
}

func TestStore_Restore_emptyStore(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(keyval.NewTestStore())

	require.NoError(t, store.Restore(ctx))
	assert.False(t, store.IsLoading())
	assert.Nil(t, store.CurrentUser())
	assert.Empty(t, store.Token())
}

func TestStore_Restore_malformedBlob(t *testing.T) {
	ctx := context.Background()
	kv := keyval.NewTestStore()
	require.NoError(t, kv.Set(ctx, tokenKey, "><-not-json"))
	require.NoError(t, kv.Set(ctx, userKey, "{}"))

	store := newTestStore(kv)
	require.NoError(t, store.Restore(ctx))
	assert.Nil(t, store.CurrentUser())
	assert.Empty(t, store.Token())
}

func TestStore_Logout(t *testing.T) {
	ctx := context.Background()
	kv := keyval.NewTestStore()
	store := newTestStore(kv)

	ok, err := store.Login(ctx, "a@b.com", "secret")
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, store.Logout(ctx))
	assert.Nil(t, store.CurrentUser())
	assert.Empty(t, store.Token())
	assert.NotContains(t, kv.AllValues(), tokenKey)
	assert.NotContains(t, kv.AllValues(), userKey)

	// logout is idempotent
	require.NoError(t, store.Logout(ctx))

	// restore after logout starts unauthenticated
	restored := newTestStore(kv)
	require.NoError(t, restored.Restore(ctx))
	assert.Nil(t, restored.CurrentUser())
}

func TestStore_UpdateProfile(t *testing.T) {
	ctx := context.Background()
	kv := keyval.NewTestStore()
	store := newTestStore(kv)

	ok, err := store.Login(ctx, "a@b.com", "secret")
	require.NoError(t, err)
	require.True(t, ok)

	newWeight := 68.5
	newGoal := GoalStayFit
	require.NoError(t, store.UpdateProfile(ctx, ProfileUpdate{
		Weight: &newWeight,
		Goal:   &newGoal,
	}))

	user := store.CurrentUser()
	require.NotNil(t, user)
	assert.Equal(t, 68.5, user.Weight)
	assert.Equal(t, GoalStayFit, user.Goal)
	// untouched fields stay
	assert.Equal(t, 25, user.Age)
	assert.Equal(t, "a@b.com", user.Email)

	// persisted too
	restored := newTestStore(kv)
	require.NoError(t, restored.Restore(ctx))
	require.NotNil(t, restored.CurrentUser())
	assert.Equal(t, 68.5, restored.CurrentUser().Weight)
}

func TestStore_UpdateProfile_notAuthenticated(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(keyval.NewTestStore())

	newName := "ghost"
	require.NoError(t, store.UpdateProfile(ctx, ProfileUpdate{Name: &newName}))
	assert.Nil(t, store.CurrentUser())
}

func TestStore_IsLogged(t *testing.T) {
	ctx := context.Background()
	kv := keyval.NewTestStore()
	store := newTestStore(kv)

	isLogged, err := store.IsLogged(ctx, "whatever")
	require.NoError(t, err)
	assert.False(t, isLogged)

	ok, err := store.Login(ctx, "a@b.com", "secret")
	require.NoError(t, err)
	require.True(t, ok)

	isLogged, err = store.IsLogged(ctx, store.Token())
	require.NoError(t, err)
	assert.True(t, isLogged)

	isLogged, err = store.IsLogged(ctx, "invalid-token")
	require.NoError(t, err)
	assert.False(t, isLogged)
}

func TestEmailLocalPart(t *testing.T) {
	assert.Equal(t, "a", emailLocalPart("a@b.com"))
	assert.Equal(t, "serj", emailLocalPart("serj@fitbuddy.app"))
	assert.Equal(t, "no-at-sign", emailLocalPart("no-at-sign"))
	assert.Equal(t, "", emailLocalPart("@b.com"))
}
