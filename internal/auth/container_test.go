package auth

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"shopfront/internal/kvstore"
	"shopfront/internal/storeapi"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// fakeAuthService scripts the remote auth endpoints. The block channel,
// when set, stalls Login until released, for racing operations against
// each other.
type fakeAuthService struct {
	mu         sync.Mutex
	loginErr   error
	userErr    error
	token      string
	user       storeapi.User
	block      chan struct{}
	loginCalls int
}

func (f *fakeAuthService) Login(ctx context.Context, creds storeapi.Credentials) (string, error) {
	f.mu.Lock()
	f.loginCalls++
	block := f.block
	token, err := f.token, f.loginErr
	f.mu.Unlock()
	if block != nil {
		<-block
	}
	if err != nil {
		return "", err
	}
	return token, nil
}

func (f *fakeAuthService) Register(ctx context.Context, reg storeapi.Registration) (storeapi.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.userErr != nil {
		return storeapi.User{}, f.userErr
	}
	u := f.user
	u.Username = reg.Username
	u.Email = reg.Email
	return u, nil
}

func (f *fakeAuthService) User(ctx context.Context, id int) (storeapi.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.userErr != nil {
		return storeapi.User{}, f.userErr
	}
	u := f.user
	u.ID = id
	return u, nil
}

func TestLoginSuccess(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemory()
	svc := &fakeAuthService{token: "jwt-token"}
	c := NewContainer(svc, store)

	err := c.Login(ctx, storeapi.Credentials{Username: "johnd", Password: "m38rmF$"})
	require.NoError(t, err)

	state := c.State()
	assert.True(t, state.IsAuthenticated)
	assert.Equal(t, "jwt-token", state.Token)
	assert.False(t, state.IsLoading)
	assert.Empty(t, state.Err)

	require.NotNil(t, state.User)
	assert.Equal(t, "johnd", state.User.Username)
	assert.Equal(t, "johnd@example.com", state.User.Email, "bare usernames get a synthetic email")

	// session persisted for the next start
	data, ok, err := store.Load(ctx, kvstore.KeySession)
	require.NoError(t, err)
	require.True(t, ok)
	var saved session
	require.NoError(t, json.Unmarshal(data, &saved))
	assert.Equal(t, "jwt-token", saved.Token)
}

func TestLoginFailure(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemory()
	svc := &fakeAuthService{loginErr: errors.New("401")}
	c := NewContainer(svc, store)

	err := c.Login(ctx, storeapi.Credentials{Username: "johnd", Password: "wrong"})
	require.Error(t, err)

	state := c.State()
	assert.False(t, state.IsAuthenticated)
	assert.Nil(t, state.User)
	assert.False(t, state.IsLoading)
	assert.Equal(t, "Login failed. Please check your credentials and try again.", state.Err)

	_, ok, err := store.Load(ctx, kvstore.KeySession)
	require.NoError(t, err)
	assert.False(t, ok, "failed login must not persist a session")
}

func TestRegisterThenLogin(t *testing.T) {
	ctx := context.Background()
	svc := &fakeAuthService{token: "fresh-token", user: storeapi.User{ID: 11}}
	c := NewContainer(svc, kvstore.NewMemory())

	err := c.Register(ctx, storeapi.Registration{
		Username: "newbie",
		Email:    "newbie@example.com",
		Password: "hunter2",
	})
	require.NoError(t, err)

	state := c.State()
	assert.True(t, state.IsAuthenticated)
	assert.Equal(t, "fresh-token", state.Token)
	assert.Equal(t, "newbie", state.User.Username)
	assert.Equal(t, 1, svc.loginCalls, "registration logs in with the new credentials")
}

func TestRegisterFailure(t *testing.T) {
	ctx := context.Background()
	svc := &fakeAuthService{userErr: errors.New("500")}
	c := NewContainer(svc, kvstore.NewMemory())

	err := c.Register(ctx, storeapi.Registration{Username: "newbie", Password: "x"})
	require.Error(t, err)

	state := c.State()
	assert.False(t, state.IsAuthenticated)
	assert.Equal(t, "Registration failed. Please try again.", state.Err)
}

func TestLogout(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemory()
	svc := &fakeAuthService{token: "jwt-token"}
	c := NewContainer(svc, store)

	require.NoError(t, c.Login(ctx, storeapi.Credentials{Username: "johnd", Password: "pw"}))
	c.Logout(ctx)

	state := c.State()
	assert.False(t, state.IsAuthenticated)
	assert.Nil(t, state.User)
	assert.Empty(t, state.Token)

	_, ok, err := store.Load(ctx, kvstore.KeySession)
	require.NoError(t, err)
	assert.False(t, ok, "logout clears the persisted session")
}

func TestBootstrapRestoresSession(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemory()
	saved := session{Token: "old-token", User: storeapi.User{ID: 7, Username: "johnd"}}
	data, err := json.Marshal(saved)
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, kvstore.KeySession, data))

	svc := &fakeAuthService{user: storeapi.User{Username: "johnd", Email: "john@fs.com"}}
	c := NewContainer(svc, store)
	c.Bootstrap(ctx)

	state := c.State()
	assert.True(t, state.IsAuthenticated)
	assert.Equal(t, "old-token", state.Token, "the persisted token survives verification")
	assert.Equal(t, 7, state.User.ID)
	assert.Equal(t, "john@fs.com", state.User.Email, "the profile is the refreshed one")
}

func TestBootstrapFailsClosed(t *testing.T) {
	ctx := context.Background()

	t.Run("no persisted session", func(t *testing.T) {
		c := NewContainer(&fakeAuthService{}, kvstore.NewMemory())
		c.Bootstrap(ctx)
		assert.False(t, c.State().IsAuthenticated)
	})

	t.Run("malformed blob", func(t *testing.T) {
		store := kvstore.NewMemory()
		require.NoError(t, store.Save(ctx, kvstore.KeySession, []byte("{broken")))
		c := NewContainer(&fakeAuthService{}, store)
		c.Bootstrap(ctx)

		assert.False(t, c.State().IsAuthenticated)
		_, ok, err := store.Load(ctx, kvstore.KeySession)
		require.NoError(t, err)
		assert.False(t, ok, "malformed session is cleared")
	})

	t.Run("verification fails", func(t *testing.T) {
		store := kvstore.NewMemory()
		saved := session{Token: "old-token", User: storeapi.User{ID: 7}}
		data, _ := json.Marshal(saved)
		require.NoError(t, store.Save(ctx, kvstore.KeySession, data))

		svc := &fakeAuthService{userErr: errors.New("network down")}
		c := NewContainer(svc, store)
		c.Bootstrap(ctx)

		assert.False(t, c.State().IsAuthenticated, "remote failure clears the session")
		_, ok, err := store.Load(ctx, kvstore.KeySession)
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestStaleLoginResultIsDropped(t *testing.T) {
	ctx := context.Background()
	release := make(chan struct{})
	svc := &fakeAuthService{token: "slow-token", block: release}
	c := NewContainer(svc, kvstore.NewMemory())

	done := make(chan error, 1)
	go func() {
		done <- c.Login(ctx, storeapi.Credentials{Username: "slow", Password: "pw"})
	}()

	// a logout supersedes the in-flight login before its result lands
	require.Eventually(t, func() bool { return c.State().IsLoading }, time.Second, time.Millisecond)
	c.Logout(ctx)
	close(release)
	require.NoError(t, <-done)

	state := c.State()
	assert.False(t, state.IsAuthenticated, "the slow login result must not resurrect the session")
	assert.Nil(t, state.User)
}

func TestClearError(t *testing.T) {
	ctx := context.Background()
	svc := &fakeAuthService{loginErr: errors.New("401")}
	c := NewContainer(svc, kvstore.NewMemory())

	_ = c.Login(ctx, storeapi.Credentials{Username: "johnd", Password: "wrong"})
	require.NotEmpty(t, c.State().Err)

	c.ClearError()
	assert.Empty(t, c.State().Err)
}
