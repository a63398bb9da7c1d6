// Package provider is the storefront's auth provider client. It keeps the
// session in the local store, refreshes it before it expires and publishes
// auth state changes to subscribers.
package provider

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"time"

	"starmobiles/internal/client/localstore"
	"starmobiles/internal/client/relay"
	"starmobiles/internal/delivery/api/dto"
	"starmobiles/internal/util"

	"github.com/pkg/errors"
)

const (
	// KeyPrefix namespaces every local store key the provider owns.
	KeyPrefix = "sm-auth-"
	// SessionKey holds the persisted session.
	SessionKey = KeyPrefix + "token"

	// refreshMargin is how close to expiry a session is refreshed.
	refreshMargin = 60 * time.Second

	eventBuffer = 32
)

// Scope selects which sessions SignOut revokes.
type Scope string

const (
	ScopeLocal  Scope = "local"
	ScopeGlobal Scope = "global"
)

// Event is an auth state change.
type Event string

const (
	EventSignedIn       Event = "SIGNED_IN"
	EventSignedOut      Event = "SIGNED_OUT"
	EventTokenRefreshed Event = "TOKEN_REFRESHED"
)

// StateChange is delivered to subscribers. Seq increases with every change,
// so a subscriber can drop changes older than one it already acted on.
type StateChange struct {
	Seq     uint64
	Event   Event
	Session *dto.Session
}

// Listener receives state changes on the provider's dispatch goroutine.
type Listener func(StateChange)

// Error is a failed provider call. Message is safe to show.
type Error struct {
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return e.Message + ": " + e.cause.Error()
	}

	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

var errNoSession = &Error{Message: "Auth session missing"}

func fromRelay(err *relay.Error) *Error {
	return &Error{Message: err.Message, cause: err}
}

// Client is the provider. Close it to stop event delivery.
type Client struct {
	relay  *relay.Client
	local  localstore.Store
	logger *slog.Logger
	now    func() time.Time

	mu        sync.Mutex
	session   *dto.Session
	seq       uint64
	nextID    int
	listeners map[int]Listener
	refreshMu sync.Mutex
	emitMu    sync.Mutex // keeps queued changes in Seq order

	events    chan StateChange
	done      chan struct{}
	closeOnce sync.Once
}

// New restores a persisted session, if any, and starts event delivery.
func New(relayClient *relay.Client, local localstore.Store, logger *slog.Logger) *Client {
	c := &Client{
		relay:     relayClient,
		local:     local,
		logger:    logger,
		now:       time.Now,
		listeners: make(map[int]Listener),
		events:    make(chan StateChange, eventBuffer),
		done:      make(chan struct{}),
	}
	c.session = c.loadSession()

	go c.dispatch()

	return c
}

// OnAuthStateChange registers a listener and returns its unsubscribe func.
func (c *Client) OnAuthStateChange(fn Listener) (unsubscribe func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextID
	c.nextID++
	c.listeners[id] = fn

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.listeners, id)
	}
}

// Seq is the sequence number of the latest state change.
func (c *Client) Seq() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.seq
}

// Close stops event delivery. Pending changes are dropped.
func (c *Client) Close() {
	c.closeOnce.Do(func() { close(c.done) })
}

func (c *Client) dispatch() {
	for {
		select {
		case <-c.done:
			return
		case change := <-c.events:
			c.mu.Lock()
			listeners := make([]Listener, 0, len(c.listeners))
			for _, fn := range c.listeners {
				listeners = append(listeners, fn)
			}
			c.mu.Unlock()

			for _, fn := range listeners {
				fn(change)
			}
		}
	}
}

// setSession swaps the current session, persists it and queues the event.
// Callers must not hold c.mu.
func (c *Client) setSession(event Event, session *dto.Session) {
	c.emitMu.Lock()
	defer c.emitMu.Unlock()

	c.mu.Lock()
	c.session = session
	c.seq++
	change := StateChange{Seq: c.seq, Event: event, Session: session}
	c.mu.Unlock()

	c.persist(session)

	select {
	case c.events <- change:
	case <-c.done:
	}
}

// GetSession returns the current session, refreshing it first when it
// expires within a minute. A nil session with a nil error means signed out.
func (c *Client) GetSession(ctx context.Context) (*dto.Session, error) {
	c.mu.Lock()
	session := c.session
	c.mu.Unlock()

	if session == nil || !c.expiresSoon(session) {
		return session, nil
	}

	return c.RefreshSession(ctx)
}

// AccessToken is the bearer token of the current session, refreshed if needed.
func (c *Client) AccessToken(ctx context.Context) (string, bool) {
	session, err := c.GetSession(ctx)
	if err != nil || session == nil {
		return "", false
	}

	return session.AccessToken, true
}

func (c *Client) expiresSoon(session *dto.Session) bool {
	return time.Unix(session.ExpiresAt, 0).Sub(c.now()) < refreshMargin
}

// RefreshSession trades the refresh token for a new session. A rejected
// refresh token signs the user out.
func (c *Client) RefreshSession(ctx context.Context) (*dto.Session, error) {
	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()

	c.mu.Lock()
	session := c.session
	c.mu.Unlock()
	if session == nil {
		return nil, errNoSession
	}
	// Another caller refreshed while we waited.
	if !c.expiresSoon(session) {
		return session, nil
	}

	res := c.relay.RefreshToken(ctx, session.RefreshToken)
	if !res.IsOk() {
		if res.Err().Kind == relay.KindUnauthorized || res.Err().Kind == relay.KindNotFound {
			c.logger.Info("Refresh token rejected, signing out")
			c.setSession(EventSignedOut, nil)
		}

		return nil, fromRelay(res.Err())
	}

	refreshed := res.Value().Session
	c.setSession(EventTokenRefreshed, refreshed)

	return refreshed, nil
}

// SetSession adopts a session obtained elsewhere, e.g. from the relay login.
func (c *Client) SetSession(session *dto.Session) {
	c.setSession(EventSignedIn, session)
}

// Credentials sign in with a password. Email wins when both are set.
type Credentials struct {
	Email    string
	Phone    string
	Password string
}

// SignInWithPassword signs in and returns the relay's answer, which also
// carries the profile.
func (c *Client) SignInWithPassword(ctx context.Context, creds Credentials) (*dto.AuthResponse, error) {
	req := dto.LoginRequest{Email: strings.TrimSpace(creds.Email), Password: creds.Password}
	if req.Email == "" {
		req.Phone = util.NormalizePhone(creds.Phone)
	}

	res := c.relay.Login(ctx, req)
	if !res.IsOk() {
		return nil, fromRelay(res.Err())
	}
	c.setSession(EventSignedIn, res.Value().Session)

	return res.Value(), nil
}

// SignUp registers an account and signs it in.
func (c *Client) SignUp(ctx context.Context, req dto.SignupRequest) (*dto.AuthResponse, error) {
	if req.Phone != "" {
		req.Phone = util.NormalizePhone(req.Phone)
	}

	res := c.relay.Signup(ctx, req)
	if !res.IsOk() {
		return nil, fromRelay(res.Err())
	}
	c.setSession(EventSignedIn, res.Value().Session)

	return res.Value(), nil
}

// SignInWithOTP texts a one-time code to the phone.
func (c *Client) SignInWithOTP(ctx context.Context, phone string) error {
	res := c.relay.SendOTP(ctx, util.NormalizePhone(phone))
	if !res.IsOk() {
		return fromRelay(res.Err())
	}

	return nil
}

// VerifyOTP completes an OTP sign-in.
func (c *Client) VerifyOTP(ctx context.Context, phone, code string) (*dto.AuthResponse, error) {
	res := c.relay.VerifyOTP(ctx, dto.VerifyOTPRequest{Phone: util.NormalizePhone(phone), Token: strings.TrimSpace(code)})
	if !res.IsOk() {
		return nil, fromRelay(res.Err())
	}
	c.setSession(EventSignedIn, res.Value().Session)

	return res.Value(), nil
}

// ResetPasswordForEmail starts a password recovery.
func (c *Client) ResetPasswordForEmail(ctx context.Context, email string) error {
	res := c.relay.Recover(ctx, strings.TrimSpace(email))
	if !res.IsOk() {
		return fromRelay(res.Err())
	}

	return nil
}

// ConfirmRecovery sets a new password with the token from the recovery mail.
func (c *Client) ConfirmRecovery(ctx context.Context, token, password string) error {
	res := c.relay.RecoverConfirm(ctx, dto.RecoverConfirmRequest{Token: strings.TrimSpace(token), Password: password})
	if !res.IsOk() {
		return fromRelay(res.Err())
	}

	return nil
}

// UserAttributes are the user fields that can be updated.
type UserAttributes struct {
	CurrentPassword string
	Password        string
}

// UpdateUser changes the signed-in user's password.
func (c *Client) UpdateUser(ctx context.Context, attrs UserAttributes) error {
	token, ok := c.AccessToken(ctx)
	if !ok {
		return errNoSession
	}

	res := c.relay.UpdateUser(ctx, token, dto.UpdateUserRequest{CurrentPassword: attrs.CurrentPassword, Password: attrs.Password})
	if !res.IsOk() {
		return fromRelay(res.Err())
	}

	return nil
}

// GetUser resolves the current token to its user.
func (c *Client) GetUser(ctx context.Context) (*dto.User, error) {
	token, ok := c.AccessToken(ctx)
	if !ok {
		return nil, errNoSession
	}

	res := c.relay.GetUser(ctx, token)
	if !res.IsOk() {
		return nil, fromRelay(res.Err())
	}

	return res.Value(), nil
}

// SignOut forgets the session locally and revokes it on the relay. The
// local state is cleared even when the relay call fails.
func (c *Client) SignOut(ctx context.Context, scope Scope) error {
	c.mu.Lock()
	session := c.session
	c.mu.Unlock()
	if session == nil {
		return nil
	}

	c.setSession(EventSignedOut, nil)

	res := c.relay.Logout(ctx, session.AccessToken, dto.LogoutRequest{
		RefreshToken: session.RefreshToken,
		Scope:        string(scope),
	})
	if !res.IsOk() {
		return fromRelay(res.Err())
	}

	return nil
}

func (c *Client) loadSession() *dto.Session {
	raw, err := c.local.Get(SessionKey)
	if err != nil {
		if !errors.Is(err, localstore.ErrKeyNotFound) {
			c.logger.Warn("Failed to read persisted session", slog.Any("error", err))
		}

		return nil
	}

	var session dto.Session
	if err := json.Unmarshal(raw, &session); err != nil || session.AccessToken == "" || session.User == nil {
		c.logger.Warn("Discarding unreadable persisted session", slog.Any("error", err))
		_ = c.local.Delete(SessionKey)

		return nil
	}

	return &session
}

func (c *Client) persist(session *dto.Session) {
	var err error
	if session == nil {
		err = c.local.Delete(SessionKey)
	} else {
		var raw []byte
		if raw, err = json.Marshal(session); err == nil {
			err = c.local.Put(SessionKey, raw)
		}
	}
	if err != nil {
		c.logger.Warn("Failed to persist session", slog.Any("error", err))
	}
}
