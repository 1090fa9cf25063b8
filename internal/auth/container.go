package auth

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	"shopfront/internal/kvstore"
	"shopfront/internal/logging"
	"shopfront/internal/storeapi"
)

// User-facing failure messages. Remote errors are collapsed into these
// at the container boundary; the underlying error is still returned to
// the caller for control flow.
const (
	loginFailedMessage    = "Login failed. Please check your credentials and try again."
	registerFailedMessage = "Registration failed. Please try again."
	sessionExpiredMessage = "Your session has expired. Please sign in again."
)

// session is the persisted shape: token plus the user record, stored as
// one JSON blob under the session key.
type session struct {
	Token string        `json:"token"`
	User  storeapi.User `json:"user"`
}

// Container is the auth state container. Login/Register/Bootstrap call
// the remote service, transition state through the reducer, and persist
// the session on success.
//
// Each remote operation captures a generation number when it starts and
// applies its result only if no newer operation began in the meantime,
// so a stale response can never overwrite newer state.
type Container struct {
	mu      sync.Mutex
	state   State
	gen     uint64
	service storeapi.AuthService
	store   kvstore.Store
	log     *logging.Logger
}

// NewContainer creates an auth container. The state starts anonymous;
// call Bootstrap to rehydrate and verify a persisted session.
func NewContainer(service storeapi.AuthService, store kvstore.Store) *Container {
	return &Container{
		service: service,
		store:   store,
		log:     logging.Get(logging.CategoryAuth),
	}
}

// State returns a snapshot of the current auth state.
func (c *Container) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.state
	if s.User != nil {
		u := *s.User
		s.User = &u
	}
	return s
}

// begin records a new in-flight operation, applies the start action,
// and returns the generation to check results against.
func (c *Container) begin(a action) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	c.state = reduce(c.state, a)
	return c.gen
}

// finish applies a result action unless a newer operation superseded it.
func (c *Container) finish(gen uint64, a action) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		c.log.Debug("dropping stale result (gen %d, current %d)", gen, c.gen)
		return false
	}
	c.state = reduce(c.state, a)
	return true
}

// Login exchanges credentials for a token and enters the authenticated
// state. The demo API's login endpoint only returns a token, so the
// user record is synthesized from the credentials, mirroring what the
// storefront displays. On failure the state carries a friendly message
// and the error is returned so the caller can react.
func (c *Container) Login(ctx context.Context, creds storeapi.Credentials) error {
	gen := c.begin(loginStartAction{})

	token, err := c.service.Login(ctx, creds)
	if err != nil {
		c.log.Info("login failed for %q: %v", creds.Username, err)
		c.finish(gen, loginFailureAction{Message: loginFailedMessage})
		return err
	}

	user := synthesizeUser(creds)
	if c.finish(gen, loginSuccessAction{Token: token, User: user}) {
		c.persistSession(ctx, session{Token: token, User: user})
	}
	c.log.Info("login succeeded for %q", creds.Username)
	return nil
}

// Register creates an account and then immediately logs in with the
// same credentials to obtain a token.
func (c *Container) Register(ctx context.Context, reg storeapi.Registration) error {
	gen := c.begin(registerStartAction{})

	user, err := c.service.Register(ctx, reg)
	if err != nil {
		c.log.Info("registration failed for %q: %v", reg.Username, err)
		c.finish(gen, registerFailureAction{Message: registerFailedMessage})
		return err
	}

	token, err := c.service.Login(ctx, storeapi.Credentials{
		Username: reg.Username,
		Password: reg.Password,
	})
	if err != nil {
		c.log.Info("post-registration login failed for %q: %v", reg.Username, err)
		c.finish(gen, registerFailureAction{Message: registerFailedMessage})
		return err
	}

	if c.finish(gen, registerSuccessAction{Token: token, User: user}) {
		c.persistSession(ctx, session{Token: token, User: user})
	}
	c.log.Info("registration succeeded for %q", reg.Username)
	return nil
}

// Logout clears the persisted session and resets to anonymous. No
// remote call is made.
func (c *Container) Logout(ctx context.Context) {
	c.mu.Lock()
	c.gen++
	c.state = reduce(c.state, logoutAction{})
	c.mu.Unlock()

	if err := c.store.Delete(ctx, kvstore.KeySession); err != nil {
		c.log.Warn("failed to clear persisted session: %v", err)
	}
	c.log.Info("logged out")
}

// Bootstrap rehydrates a persisted session and verifies it against the
// remote service by re-fetching the user profile. Any doubt (missing
// data, malformed blob, remote failure) fails closed: the persisted
// session is cleared and the state stays anonymous.
func (c *Container) Bootstrap(ctx context.Context) {
	data, ok, err := c.store.Load(ctx, kvstore.KeySession)
	if err != nil {
		c.log.Warn("failed to load persisted session: %v", err)
		return
	}
	if !ok {
		return
	}

	var saved session
	if err := json.Unmarshal(data, &saved); err != nil || saved.Token == "" || saved.User.ID == 0 {
		c.log.Warn("discarding malformed persisted session")
		_ = c.store.Delete(ctx, kvstore.KeySession)
		return
	}

	gen := c.begin(loadUserStartAction{})

	user, err := c.service.User(ctx, saved.User.ID)
	if err != nil {
		c.log.Info("session verification failed: %v", err)
		_ = c.store.Delete(ctx, kvstore.KeySession)
		c.finish(gen, logoutAction{})
		return
	}

	c.mu.Lock()
	if gen == c.gen {
		// Token survives from the persisted session; the profile is the
		// refreshed one from the service.
		c.state = reduce(c.state, loginSuccessAction{Token: saved.Token, User: user})
	}
	c.mu.Unlock()
	c.log.Info("session restored for user %d", user.ID)
}

// ClearError clears the error field without touching the rest of the
// state.
func (c *Container) ClearError() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = reduce(c.state, clearErrorAction{})
}

func (c *Container) persistSession(ctx context.Context, s session) {
	data, err := json.Marshal(s)
	if err != nil {
		c.log.Error("failed to serialize session: %v", err)
		return
	}
	if err := c.store.Save(ctx, kvstore.KeySession, data); err != nil {
		c.log.Warn("failed to persist session: %v", err)
	}
}

// synthesizeUser builds a display user from login credentials. The demo
// API does not return the profile with the token, so the storefront
// shows a best-effort record until a real profile is loaded.
func synthesizeUser(creds storeapi.Credentials) storeapi.User {
	email := creds.Username
	if !strings.Contains(email, "@") {
		email = creds.Username + "@example.com"
	}
	firstname := creds.Username
	if i := strings.IndexByte(firstname, '@'); i > 0 {
		firstname = firstname[:i]
	}
	return storeapi.User{
		ID:       1,
		Email:    email,
		Username: creds.Username,
		Name:     storeapi.Name{Firstname: firstname, Lastname: "Doe"},
		Address: storeapi.Address{
			City:    "New York",
			Street:  "123 Main St",
			Number:  1,
			Zipcode: "10001",
			Geolocation: storeapi.Geolocation{
				Lat:  "40.7128",
				Long: "-74.0060",
			},
		},
		Phone: "555-123-4567",
	}
}
