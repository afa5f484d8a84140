package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/naveenspark/storefront/pkg/client"
	"github.com/naveenspark/storefront/pkg/domain"
)

var (
	// ErrSuperseded is reported when a login or refresh finished after a
	// newer login or logout had already changed the session.
	ErrSuperseded = errors.New("session changed while request was in flight")
)

const (
	loginFailed        = "Login failed"
	registrationFailed = "Registration failed"
)

// Phase is the session lifecycle stage.
type Phase int

const (
	PhaseUninitialized Phase = iota
	PhaseRehydrating
	PhaseAuthenticated
	PhaseAnonymous
)

func (p Phase) String() string {
	switch p {
	case PhaseUninitialized:
		return "uninitialized"
	case PhaseRehydrating:
		return "rehydrating"
	case PhaseAuthenticated:
		return "authenticated"
	case PhaseAnonymous:
		return "anonymous"
	}
	return fmt.Sprintf("phase(%d)", int(p))
}

// State is a read-only snapshot of the session.
type State struct {
	User    *domain.User // nil when anonymous; a copy, safe to keep
	Loading bool
	Phase   Phase
	Version uint64 // bumped on every observable change
}

// Authenticated returns true if a user is signed in.
func (s State) Authenticated() bool {
	return s.User != nil
}

// AuthResult is the outcome of Login and Register. Failures carry a message
// fit for inline display; they are never returned as Go errors.
type AuthResult struct {
	OK    bool
	User  *domain.User
	Error string
}

// Transport is the part of the API client the controller drives.
type Transport interface {
	SetToken(token string)
	ClearToken()
	Login(ctx context.Context, creds client.Credentials) (*client.LoginResponse, error)
	Register(ctx context.Context, reg client.Registration) (*domain.User, error)
	GetUser(ctx context.Context, id int64) (*domain.User, error)
}

// Controller owns the session: it is the only writer of the in-memory user,
// the persisted record, and the transport's bearer header.
type Controller struct {
	store    Store
	api      Transport
	log      *zap.Logger
	validate *validator.Validate
	now      func() time.Time

	mu      sync.Mutex
	token   string
	user    *domain.User
	loading bool
	phase   Phase
	version uint64
	epoch   uint64 // bumped by every login attempt and logout
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the controller logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Controller) { c.log = l }
}

// WithClock overrides time.Now, used for token expiry checks.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// NewController returns a controller in the loading state. Call Rehydrate
// once before making any access decision.
func NewController(store Store, api Transport, opts ...Option) *Controller {
	c := &Controller{
		store:    store,
		api:      api,
		log:      zap.NewNop(),
		validate: newValidator(),
		now:      time.Now,
		loading:  true,
		phase:    PhaseUninitialized,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns a snapshot of the session.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stateLocked()
}

func (c *Controller) stateLocked() State {
	s := State{Loading: c.loading, Phase: c.phase, Version: c.version}
	if c.user != nil {
		u := *c.user
		s.User = &u
	}
	return s
}

// Rehydrate restores the session from the store. It runs at most once; later
// calls return the current state. A partial, unparseable or expired record is
// discarded and the store cleared. Loading is false afterwards regardless.
func (c *Controller) Rehydrate() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.phase != PhaseUninitialized {
		return c.stateLocked()
	}
	c.phase = PhaseRehydrating

	c.rehydrateLocked()

	c.loading = false
	if c.user != nil {
		c.phase = PhaseAuthenticated
	} else {
		c.phase = PhaseAnonymous
	}
	c.version++
	return c.stateLocked()
}

func (c *Controller) rehydrateLocked() {
	rec, err := c.store.Read()
	if err != nil {
		c.log.Warn("session read failed", zap.Error(err))
		c.discardLocked("unreadable")
		return
	}
	if rec.Token == "" && len(rec.User) == 0 {
		return
	}
	if rec.Token == "" || len(rec.User) == 0 {
		c.discardLocked("partial")
		return
	}

	var u domain.User
	if err := json.Unmarshal(rec.User, &u); err != nil {
		c.log.Warn("stored user is malformed", zap.Error(err))
		c.discardLocked("malformed")
		return
	}
	if !u.Role.Valid() {
		c.discardLocked("unknown role")
		return
	}
	if tokenExpired(rec.Token, c.now()) {
		c.discardLocked("expired")
		return
	}

	u = u.Normalize()
	c.api.SetToken(rec.Token)
	c.token = rec.Token
	c.user = &u
	if err := c.store.Write(rec.Token, u); err != nil {
		c.log.Warn("rewrite normalized session failed", zap.Error(err))
	}
	c.log.Info("session restored", zap.Int64("user_id", u.ID), zap.String("role", string(u.Role)))
}

// discardLocked drops any session state, in memory and on disk.
func (c *Controller) discardLocked(reason string) {
	if err := c.store.Clear(); err != nil {
		c.log.Warn("session clear failed", zap.Error(err))
	}
	c.api.ClearToken()
	c.token = ""
	c.user = nil
	c.log.Info("session discarded", zap.String("reason", reason))
}

// installLocked makes tok/u the current session everywhere.
func (c *Controller) installLocked(tok string, u domain.User) {
	if err := c.store.Write(tok, u); err != nil {
		c.log.Warn("persist session failed", zap.Error(err))
	}
	c.api.SetToken(tok)
	c.token = tok
	c.user = &u
	c.loading = false
	c.phase = PhaseAuthenticated
	c.version++
}

// Login authenticates against the API. It never returns an error: failures
// are reported in the result. A response that arrives after a newer login or
// a logout is dropped.
func (c *Controller) Login(ctx context.Context, creds client.Credentials) AuthResult {
	if err := c.validate.Struct(creds); err != nil {
		return AuthResult{Error: validationMessage(err)}
	}

	c.mu.Lock()
	c.epoch++
	stamp := c.epoch
	c.mu.Unlock()

	resp, err := c.api.Login(ctx, creds)
	if err != nil {
		c.log.Info("login failed", zap.String("email", creds.Email), zap.Error(err))
		return AuthResult{Error: client.MessageOf(err, loginFailed)}
	}
	if resp.Token == "" {
		c.log.Warn("login response without token", zap.String("email", creds.Email))
		return AuthResult{Error: loginFailed}
	}
	if !resp.User.Role.Valid() {
		c.log.Warn("login response with unknown role", zap.String("email", creds.Email), zap.String("role", string(resp.User.Role)))
		return AuthResult{Error: loginFailed}
	}
	u := resp.User.Normalize()

	c.mu.Lock()
	defer c.mu.Unlock()
	if stamp != c.epoch {
		c.log.Info("stale login dropped", zap.String("email", creds.Email))
		return AuthResult{Error: ErrSuperseded.Error()}
	}
	c.installLocked(resp.Token, u)
	c.log.Info("logged in", zap.Int64("user_id", u.ID), zap.String("role", string(u.Role)))

	out := u
	return AuthResult{OK: true, User: &out}
}

// Register creates an account. The session is not touched.
func (c *Controller) Register(ctx context.Context, reg client.Registration) AuthResult {
	if err := c.validate.Struct(reg); err != nil {
		return AuthResult{Error: validationMessage(err)}
	}
	u, err := c.api.Register(ctx, reg)
	if err != nil {
		c.log.Info("registration failed", zap.String("email", reg.Email), zap.Error(err))
		return AuthResult{Error: client.MessageOf(err, registrationFailed)}
	}
	return AuthResult{OK: true, User: u}
}

// Logout clears the store, the bearer header and memory. Safe to call when
// already logged out.
func (c *Controller) Logout() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.epoch++
	wasIn := c.user != nil || c.token != ""
	if err := c.store.Clear(); err != nil {
		c.log.Warn("session clear failed", zap.Error(err))
	}
	c.api.ClearToken()
	c.token = ""
	c.user = nil

	if wasIn || c.loading || c.phase != PhaseAnonymous {
		c.loading = false
		c.phase = PhaseAnonymous
		c.version++
	}
	if wasIn {
		c.log.Info("logged out")
	}
}

// UpdateUser merges p into the current user and persists the result. It is a
// no-op when nobody is signed in. Role and ID cannot change.
func (c *Controller) UpdateUser(p domain.UserPatch) *domain.User {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.user == nil {
		return nil
	}
	merged := c.user.Apply(p)
	if merged != *c.user {
		c.installLocked(c.token, merged)
	} else if err := c.store.Write(c.token, merged); err != nil {
		c.log.Warn("persist session failed", zap.Error(err))
	}
	out := merged
	return &out
}

// RefreshUserFromServer replaces the local profile with the server copy.
// It returns nil, nil when nobody is signed in. Fetch errors are returned and
// the current session is kept as-is.
func (c *Controller) RefreshUserFromServer(ctx context.Context) (*domain.User, error) {
	c.mu.Lock()
	if c.user == nil {
		c.mu.Unlock()
		return nil, nil
	}
	id := c.user.ID
	stamp := c.epoch
	c.mu.Unlock()

	fresh, err := c.api.GetUser(ctx, id)
	if err != nil {
		c.log.Warn("refresh user failed", zap.Int64("user_id", id), zap.Error(err))
		return nil, fmt.Errorf("session.RefreshUserFromServer: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if stamp != c.epoch || c.user == nil || c.user.ID != id {
		return nil, fmt.Errorf("session.RefreshUserFromServer: %w", ErrSuperseded)
	}
	merged := c.user.Apply(domain.PatchFrom(*fresh))
	c.installLocked(c.token, merged)
	out := merged
	return &out, nil
}
