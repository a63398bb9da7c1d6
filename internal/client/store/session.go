package store

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"starmobiles/internal/client/localstore"
	"starmobiles/internal/client/provider"
	"starmobiles/internal/client/relay"
	"starmobiles/internal/delivery/api/dto"

	"github.com/pkg/errors"
)

const (
	// ProfileKey is the local store key of the cached profile snapshot.
	ProfileKey = "starmobiles.profile"

	minPasswordLength = 6

	msgBusy            = "Please wait for the current request to finish"
	msgNotSignedIn     = "Not authenticated"
	msgPasswordTooWeak = "Password must be at least 6 characters"
)

// Phase is where the session's profile stands.
type Phase int

const (
	// PhaseAnonymous has no identity.
	PhaseAnonymous Phase = iota
	// PhaseProvisionalProfile shows a profile synthesized from the user or
	// the local cache until the relay confirms one.
	PhaseProvisionalProfile
	// PhaseConfirmedProfile holds the relay's profile for this session.
	PhaseConfirmedProfile
)

func (p Phase) String() string {
	switch p {
	case PhaseProvisionalProfile:
		return "provisional"
	case PhaseConfirmedProfile:
		return "confirmed"
	default:
		return "anonymous"
	}
}

// SessionState is a snapshot of the session store.
type SessionState struct {
	Phase     Phase
	User      *dto.User
	Session   *dto.Session
	Profile   *dto.Profile
	IsLoading bool
}

func (s SessionState) IsAuthenticated() bool {
	return s.User != nil && s.Session != nil
}

func (s SessionState) IsAdmin() bool {
	return s.Profile != nil && s.Profile.Role == "admin"
}

// AuthResult is the outcome of an auth operation.
type AuthResult struct {
	Success bool
	Message string
}

func failed(message string) AuthResult {
	return AuthResult{Message: message}
}

// SignupInput registers an account. At least one of Email and Phone.
type SignupInput struct {
	Name     string
	Email    string
	Phone    string
	Password string
}

// SessionStoreParams holds the session store's collaborators.
type SessionStoreParams struct {
	Provider *provider.Client
	Relay    *relay.Client
	Local    localstore.Store
	Logger   *slog.Logger
	// ProfileTimeout bounds each profile fetch.
	ProfileTimeout time.Duration
}

// SessionStore tracks who is signed in and with which profile. The profile
// moves Anonymous -> Provisional -> Confirmed; nothing moves it back from
// Confirmed except a new identity or a sign-out.
type SessionStore struct {
	subscribers[SessionState]

	provider       *provider.Client
	relay          *relay.Client
	local          localstore.Store
	logger         *slog.Logger
	profileTimeout time.Duration

	mu    sync.Mutex
	state SessionState
	// generation changes with every identity change; async profile results
	// carry the generation they started under.
	generation uint64
	// ignoreThrough is the provider sequence already reflected in state by
	// an explicit sign-in or sign-out.
	ignoreThrough uint64
	// reconfirmed marks the one re-confirmation a token refresh may trigger.
	reconfirmed bool
	closed      bool

	unsubscribe func()
	submitting  atomic.Bool
	background  sync.WaitGroup
}

// NewSessionStore builds the store and subscribes to provider events.
func NewSessionStore(params SessionStoreParams) *SessionStore {
	s := &SessionStore{
		provider:       params.Provider,
		relay:          params.Relay,
		local:          params.Local,
		logger:         params.Logger,
		profileTimeout: params.ProfileTimeout,
	}
	if s.profileTimeout <= 0 {
		s.profileTimeout = 5 * time.Second
	}
	s.unsubscribe = s.provider.OnAuthStateChange(s.handleAuthChange)

	return s
}

// State returns the current snapshot.
func (s *SessionStore) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state
}

// Authenticated implements TokenSource.
func (s *SessionStore) Authenticated() bool {
	return s.State().IsAuthenticated()
}

// AccessToken implements TokenSource. Without a session it returns at once.
func (s *SessionStore) AccessToken(ctx context.Context) (string, bool) {
	if !s.Authenticated() {
		return "", false
	}

	return s.provider.AccessToken(ctx)
}

// Init restores the persisted session. A cached profile for the same user
// is shown until the relay confirms the profile.
func (s *SessionStore) Init(ctx context.Context) {
	s.setLoading(true)
	defer s.setLoading(false)

	session, err := s.provider.GetSession(ctx)
	if err != nil || session == nil {
		if err != nil {
			s.logger.Warn("Failed to restore session", slog.Any("error", err))
		}

		return
	}

	s.mu.Lock()
	gen := s.signInLocked(session, s.cachedProfile(session.User.ID.String()))
	s.ignoreThrough = s.provider.Seq()
	s.mu.Unlock()
	s.notify()

	s.confirmProfile(ctx, gen, session.AccessToken, false)
}

// Close stops reacting to provider events and waits for background work.
// Later events never change state.
func (s *SessionStore) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()

	s.unsubscribe()
	s.background.Wait()
}

// Login signs in with an email or a phone number.
func (s *SessionStore) Login(ctx context.Context, identifier, password string) AuthResult {
	if !strings.Contains(identifier, "@") {
		return s.LoginWithPhone(ctx, identifier, password)
	}
	if !s.submitting.CompareAndSwap(false, true) {
		return failed(msgBusy)
	}
	defer s.submitting.Store(false)

	s.setLoading(true)
	defer s.setLoading(false)

	// The relay login answers with the profile in the same round trip.
	res := s.relay.Login(ctx, dto.LoginRequest{Email: strings.TrimSpace(identifier), Password: password})
	if !res.IsOk() {
		return failed(res.Err().Message)
	}
	out := res.Value()
	s.provider.SetSession(out.Session)

	s.mu.Lock()
	gen := s.signInLocked(out.Session, nil)
	s.ignoreThrough = s.provider.Seq()
	s.mu.Unlock()
	s.notify()

	if out.Profile != nil {
		s.confirm(gen, out.Profile)
	} else {
		s.confirmProfileAsync(gen, out.Session.AccessToken)
	}

	return AuthResult{Success: true, Message: successMessage(res.Message(), "Login successful!")}
}

// LoginWithPhone signs in with a phone and waits for the relay profile, so
// an admin never lands on a shopper view.
func (s *SessionStore) LoginWithPhone(ctx context.Context, phone, password string) AuthResult {
	if !s.submitting.CompareAndSwap(false, true) {
		return failed(msgBusy)
	}
	defer s.submitting.Store(false)

	s.setLoading(true)
	defer s.setLoading(false)

	out, err := s.provider.SignInWithPassword(ctx, provider.Credentials{Phone: phone, Password: password})
	if err != nil {
		return failed(providerMessage(err, "Login failed"))
	}

	s.mu.Lock()
	gen := s.signInLocked(out.Session, nil)
	s.ignoreThrough = s.provider.Seq()
	s.mu.Unlock()
	s.notify()

	s.confirmProfile(ctx, gen, out.Session.AccessToken, true)

	return AuthResult{Success: true, Message: "Login successful!"}
}

// Signup registers and signs in. Input is checked before any network call.
func (s *SessionStore) Signup(ctx context.Context, in SignupInput) AuthResult {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	switch {
	case in.Name == "":
		return failed("Name is required")
	case in.Email == "" && in.Phone == "":
		return failed("Please provide an email or phone number")
	case len(in.Password) < minPasswordLength:
		return failed(msgPasswordTooWeak)
	}

	if !s.submitting.CompareAndSwap(false, true) {
		return failed(msgBusy)
	}
	defer s.submitting.Store(false)

	s.setLoading(true)
	defer s.setLoading(false)

	out, err := s.provider.SignUp(ctx, dto.SignupRequest{Name: in.Name, Email: in.Email, Phone: in.Phone, Password: in.Password})
	if err != nil {
		return failed(providerMessage(err, "Signup failed"))
	}

	s.adoptAsync(out)

	return AuthResult{Success: true, Message: "Account created!"}
}

func (s *SessionStore) SendOTP(ctx context.Context, phone string) AuthResult {
	if err := s.provider.SignInWithOTP(ctx, phone); err != nil {
		return failed(providerMessage(err, "Failed to send OTP"))
	}

	return AuthResult{Success: true, Message: "OTP sent!"}
}

func (s *SessionStore) VerifyOTP(ctx context.Context, phone, code string) AuthResult {
	out, err := s.provider.VerifyOTP(ctx, phone, code)
	if err != nil {
		return failed(providerMessage(err, "Verification failed"))
	}

	s.adoptAsync(out)

	return AuthResult{Success: true, Message: "Verified!"}
}

func (s *SessionStore) ForgotPassword(ctx context.Context, email string) AuthResult {
	if err := s.provider.ResetPasswordForEmail(ctx, email); err != nil {
		return failed(providerMessage(err, "Failed to send reset email"))
	}

	return AuthResult{Success: true, Message: "Reset email sent!"}
}

// ResetPassword completes a recovery with the token from the reset email.
func (s *SessionStore) ResetPassword(ctx context.Context, recoveryToken, password string) AuthResult {
	if len(password) < minPasswordLength {
		return failed(msgPasswordTooWeak)
	}
	if err := s.provider.ConfirmRecovery(ctx, recoveryToken, password); err != nil {
		return failed(providerMessage(err, "Reset failed"))
	}

	return AuthResult{Success: true, Message: "Password reset!"}
}

func (s *SessionStore) ChangePassword(ctx context.Context, current, next string) AuthResult {
	if !s.Authenticated() {
		return failed(msgNotSignedIn)
	}
	if len(next) < minPasswordLength {
		return failed(msgPasswordTooWeak)
	}
	if err := s.provider.UpdateUser(ctx, provider.UserAttributes{CurrentPassword: current, Password: next}); err != nil {
		return failed(providerMessage(err, "Change failed"))
	}

	return AuthResult{Success: true, Message: "Password changed!"}
}

// Logout clears the identity at once, then signs out of every session on
// the relay and purges the provider's local keys. It never fails.
func (s *SessionStore) Logout(ctx context.Context) {
	s.mu.Lock()
	s.signOutLocked()
	s.ignoreThrough = s.provider.Seq()
	s.mu.Unlock()
	s.notify()

	if err := s.provider.SignOut(ctx, provider.ScopeGlobal); err != nil {
		s.logger.Warn("Sign out failed, local session cleared anyway", slog.Any("error", err))
	}

	s.mu.Lock()
	s.ignoreThrough = s.provider.Seq()
	s.mu.Unlock()

	n, err := s.local.DeleteByPrefix(provider.KeyPrefix)
	if err != nil {
		s.logger.Warn("Failed to purge auth keys", slog.Any("error", err))
	}
	if err := s.local.Delete(ProfileKey); err != nil {
		s.logger.Warn("Failed to drop cached profile", slog.Any("error", err))
	}
	s.logger.Debug("Signed out", slog.Int("purged_keys", n))
}

// UpdateProfile writes a partial profile for the signed-in user and merges
// it into local state.
func (s *SessionStore) UpdateProfile(ctx context.Context, patch dto.UpdateProfileRequest) AuthResult {
	s.mu.Lock()
	user, gen := s.state.User, s.generation
	s.mu.Unlock()
	if user == nil {
		return failed(msgNotSignedIn)
	}

	token, ok := s.AccessToken(ctx)
	if !ok {
		return failed(msgNotSignedIn)
	}

	res := s.relay.UpdateProfile(ctx, token, patch)
	if !res.IsOk() {
		return failed(res.Err().Message)
	}

	s.mu.Lock()
	if gen != s.generation || s.state.Profile == nil {
		s.mu.Unlock()

		return AuthResult{Success: true, Message: "Profile updated!"}
	}
	merged := *s.state.Profile
	if patch.Name != nil {
		merged.Name = *patch.Name
	}
	if patch.Phone != nil {
		merged.Phone = *patch.Phone
	}
	if patch.Address != nil {
		merged.Address = *patch.Address
	}
	s.state.Profile = &merged
	if s.state.Phase == PhaseConfirmedProfile {
		s.cacheProfile(user.ID.String(), &merged)
	}
	s.mu.Unlock()
	s.notify()

	return AuthResult{Success: true, Message: "Profile updated!"}
}

// RefreshProfile re-reads the profile from the relay, falling back to the
// synthesized profile when that fails.
func (s *SessionStore) RefreshProfile(ctx context.Context) {
	s.mu.Lock()
	session, gen := s.state.Session, s.generation
	s.mu.Unlock()
	if session == nil {
		return
	}

	s.confirmProfile(ctx, gen, session.AccessToken, true)
}

// handleAuthChange reconciles provider events with explicit operations.
func (s *SessionStore) handleAuthChange(change provider.StateChange) {
	s.mu.Lock()
	if s.closed || change.Seq <= s.ignoreThrough {
		s.mu.Unlock()

		return
	}

	switch change.Event {
	case provider.EventSignedOut:
		if s.state.Phase == PhaseAnonymous {
			s.mu.Unlock()

			return
		}
		s.signOutLocked()
		s.mu.Unlock()
		s.notify()

	case provider.EventSignedIn:
		session := change.Session
		if session == nil || session.User == nil {
			s.mu.Unlock()

			return
		}
		if s.state.User != nil && s.state.User.ID == session.User.ID {
			// Same identity: keep whatever profile we have.
			s.state.Session = session
			s.state.User = session.User
			s.mu.Unlock()
			s.notify()

			return
		}
		gen := s.signInLocked(session, nil)
		s.mu.Unlock()
		s.notify()
		s.confirmProfileAsync(gen, session.AccessToken)

	case provider.EventTokenRefreshed:
		session := change.Session
		if s.state.Phase == PhaseAnonymous || session == nil || session.User == nil || s.state.User.ID != session.User.ID {
			s.mu.Unlock()

			return
		}
		s.state.Session = session
		s.state.User = session.User
		recheck := s.state.Phase != PhaseConfirmedProfile && !s.reconfirmed
		if recheck {
			s.reconfirmed = true
		}
		gen := s.generation
		s.mu.Unlock()
		s.notify()

		if recheck {
			s.confirmProfileAsync(gen, session.AccessToken)
		}

	default:
		s.mu.Unlock()
	}
}

// adoptAsync takes a fresh sign-in and confirms its profile in the
// background unless the relay already sent one.
func (s *SessionStore) adoptAsync(out *dto.AuthResponse) {
	s.mu.Lock()
	gen := s.signInLocked(out.Session, nil)
	s.ignoreThrough = s.provider.Seq()
	s.mu.Unlock()
	s.notify()

	if out.Profile != nil {
		s.confirm(gen, out.Profile)

		return
	}
	s.confirmProfileAsync(gen, out.Session.AccessToken)
}

// signInLocked starts a new identity in the provisional phase.
func (s *SessionStore) signInLocked(session *dto.Session, provisional *dto.Profile) uint64 {
	s.generation++
	s.reconfirmed = false
	if provisional == nil {
		provisional = SynthesizeProfile(session.User)
	}
	s.state = SessionState{
		Phase:     PhaseProvisionalProfile,
		User:      session.User,
		Session:   session,
		Profile:   provisional,
		IsLoading: s.state.IsLoading,
	}

	return s.generation
}

func (s *SessionStore) signOutLocked() {
	s.generation++
	s.reconfirmed = false
	s.state = SessionState{IsLoading: s.state.IsLoading}
}

// confirm moves a provisional session to the confirmed phase, unless the
// identity changed meanwhile.
func (s *SessionStore) confirm(gen uint64, profile *dto.Profile) {
	s.mu.Lock()
	if s.closed || gen != s.generation || s.state.Phase == PhaseAnonymous || s.state.User.ID != profile.ID {
		s.mu.Unlock()

		return
	}
	s.state.Phase = PhaseConfirmedProfile
	s.state.Profile = profile
	s.cacheProfile(profile.ID.String(), profile)
	s.mu.Unlock()
	s.notify()
}

// confirmProfile fetches the relay profile. On failure the provisional
// profile stays, or is reset to the synthesized one when fallback is set.
func (s *SessionStore) confirmProfile(ctx context.Context, gen uint64, token string, fallback bool) {
	profile, err := s.fetchProfile(ctx, token)
	if err == nil {
		s.confirm(gen, profile)

		return
	}

	s.logger.Info("Profile fetch failed, keeping fallback profile", slog.Any("error", err))
	if !fallback {
		return
	}

	s.mu.Lock()
	if gen != s.generation || s.state.User == nil {
		s.mu.Unlock()

		return
	}
	s.state.Phase = PhaseProvisionalProfile
	s.state.Profile = SynthesizeProfile(s.state.User)
	s.mu.Unlock()
	s.notify()
}

func (s *SessionStore) confirmProfileAsync(gen uint64, token string) {
	s.background.Add(1)
	go func() {
		defer s.background.Done()
		s.confirmProfile(context.Background(), gen, token, false)
	}()
}

func (s *SessionStore) fetchProfile(ctx context.Context, token string) (*dto.Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, s.profileTimeout)
	defer cancel()

	res := s.relay.GetProfile(ctx, token)
	if !res.IsOk() {
		return nil, res.Err()
	}

	return res.Value(), nil
}

type cachedProfile struct {
	UserID  string       `json:"user_id"`
	Profile *dto.Profile `json:"profile"`
}

// cacheProfile overwrites the snapshot wholesale.
func (s *SessionStore) cacheProfile(userID string, profile *dto.Profile) {
	raw, err := json.Marshal(cachedProfile{UserID: userID, Profile: profile})
	if err == nil {
		err = s.local.Put(ProfileKey, raw)
	}
	if err != nil {
		s.logger.Warn("Failed to cache profile", slog.Any("error", err))
	}
}

// cachedProfile returns the snapshot when it belongs to userID.
func (s *SessionStore) cachedProfile(userID string) *dto.Profile {
	raw, err := s.local.Get(ProfileKey)
	if err != nil {
		if !errors.Is(err, localstore.ErrKeyNotFound) {
			s.logger.Warn("Failed to read cached profile", slog.Any("error", err))
		}

		return nil
	}

	var cached cachedProfile
	if err := json.Unmarshal(raw, &cached); err != nil || cached.UserID != userID || cached.Profile == nil {
		return nil
	}

	return cached.Profile
}

func (s *SessionStore) setLoading(loading bool) {
	s.mu.Lock()
	s.state.IsLoading = loading
	s.mu.Unlock()
	s.notify()
}

func (s *SessionStore) notify() {
	s.publish(s.State())
}

// SynthesizeProfile derives a shopper profile from the auth user for when
// the relay profile is not available.
func SynthesizeProfile(user *dto.User) *dto.Profile {
	if user == nil {
		return nil
	}

	name := user.UserMetadata.Name
	if name == "" {
		name, _, _ = strings.Cut(user.Email, "@")
	}
	if name == "" {
		name = "User"
	}
	phone := user.Phone
	if phone == "" {
		phone = user.UserMetadata.Phone
	}

	return &dto.Profile{
		ID:    user.ID,
		Name:  name,
		Email: user.Email,
		Phone: phone,
		Role:  "user",
	}
}

func providerMessage(err error, fallback string) string {
	var perr *provider.Error
	if errors.As(err, &perr) && perr.Message != "" {
		return perr.Message
	}

	return fallback
}

func successMessage(relayMessage, fallback string) string {
	if relayMessage != "" {
		return relayMessage
	}

	return fallback
}
