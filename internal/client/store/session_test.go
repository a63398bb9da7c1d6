package store

import (
	"encoding/json"
	"testing"
	"time"

	"starmobiles/internal/client/localstore"
	"starmobiles/internal/client/provider"
	"starmobiles/internal/delivery/api/dto"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func adminProfile() *dto.Profile {
	return &dto.Profile{ID: testUserID, Name: "Asha Rao", Email: testEmail, Phone: "+919876543210", Role: "admin", Address: "MG Road, Pune"}
}

func TestSessionStore_Login_InvalidCredentials(t *testing.T) {
	f := newFakeRelay(t)
	sf := f.storefront(localstore.NewMemoryStore())

	res := sf.Session.Login(t.Context(), testEmail, "wrongpass")
	assert.Equal(t, AuthResult{Success: false, Message: "Invalid credentials"}, res)

	state := sf.Session.State()
	assert.Nil(t, state.User)
	assert.Nil(t, state.Session)
	assert.Equal(t, PhaseAnonymous, state.Phase)
	assert.False(t, state.IsLoading)
}

func TestSessionStore_Login_RefusesWhileInFlight(t *testing.T) {
	f := newFakeRelay(t)
	sf := f.storefront(localstore.NewMemoryStore())
	entered, release := f.hold("POST /auth/login")

	first := make(chan AuthResult, 1)
	go func() { first <- sf.Session.Login(t.Context(), testEmail, testPassword) }()
	waitFor(t, entered)

	for _, identifier := range []string{testEmail, "9876543210"} {
		res := sf.Session.Login(t.Context(), identifier, testPassword)
		assert.False(t, res.Success, identifier)
		assert.Equal(t, "Please wait for the current request to finish", res.Message, identifier)
	}
	assert.EqualValues(t, 1, f.hits.Load())

	release()
	res := <-first
	assert.True(t, res.Success, res.Message)
}

func TestSessionStore_Login_ProfileInResponse(t *testing.T) {
	f := newFakeRelay(t)
	f.loginProfile = adminProfile()
	local := localstore.NewMemoryStore()
	sf := f.storefront(local)

	res := sf.Session.Login(t.Context(), testEmail, testPassword)
	require.True(t, res.Success)

	state := sf.Session.State()
	assert.Equal(t, PhaseConfirmedProfile, state.Phase)
	assert.True(t, state.IsAdmin())
	assert.Equal(t, testToken, state.Session.AccessToken)

	raw, err := local.Get(ProfileKey)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"role":"admin"`)
}

func TestSessionStore_Login_ConfirmsProfileInBackground(t *testing.T) {
	f := newFakeRelay(t)
	f.profile = adminProfile()
	f.profileGate = make(chan struct{})
	sf := f.storefront(localstore.NewMemoryStore())

	res := sf.Session.Login(t.Context(), testEmail, testPassword)
	require.True(t, res.Success)

	// Provisional until the relay answers.
	state := sf.Session.State()
	assert.Equal(t, PhaseProvisionalProfile, state.Phase)
	assert.Equal(t, "Asha", state.Profile.Name)
	assert.False(t, state.IsAdmin())

	close(f.profileGate)
	assert.Eventually(t, func() bool {
		return sf.Session.State().Phase == PhaseConfirmedProfile
	}, 2*time.Second, 10*time.Millisecond)
	assert.True(t, sf.Session.State().IsAdmin())
}

func TestSessionStore_LoginWithPhone_FallsBackToSynthesizedProfile(t *testing.T) {
	f := newFakeRelay(t)
	sf := f.storefront(localstore.NewMemoryStore())

	res := sf.Session.Login(t.Context(), "9876543210", testPassword)
	require.True(t, res.Success)
	assert.Equal(t, "Login successful!", res.Message)

	state := sf.Session.State()
	assert.True(t, state.IsAuthenticated())
	assert.Equal(t, PhaseProvisionalProfile, state.Phase)
	assert.Equal(t, "user", state.Profile.Role)
	assert.Equal(t, "Asha", state.Profile.Name)
}

func TestSessionStore_Signup_ChecksInputLocally(t *testing.T) {
	tests := []struct {
		name  string
		input SignupInput
		want  string
	}{
		{name: "no contact", input: SignupInput{Name: "Asha", Password: "secret1"}, want: "Please provide an email or phone number"},
		{name: "short password", input: SignupInput{Name: "Asha", Email: testEmail, Password: "12345"}, want: msgPasswordTooWeak},
		{name: "no name", input: SignupInput{Phone: "9876543210", Password: "secret1"}, want: "Name is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFakeRelay(t)
			sf := f.storefront(localstore.NewMemoryStore())

			res := sf.Session.Signup(t.Context(), tt.input)
			assert.False(t, res.Success)
			assert.Equal(t, tt.want, res.Message)
			assert.Zero(t, f.hits.Load())
		})
	}
}

func TestSessionStore_Logout_PurgesProviderKeys(t *testing.T) {
	f := newFakeRelay(t)
	f.loginProfile = adminProfile()
	local := localstore.NewMemoryStore()
	sf := f.storefront(local)

	require.True(t, sf.Session.Login(t.Context(), testEmail, testPassword).Success)
	require.NoError(t, local.Put(provider.KeyPrefix+"code-verifier", []byte("v")))
	require.NoError(t, local.Put(provider.KeyPrefix+"user", []byte("u")))
	require.NoError(t, local.Put("theme", []byte("dark")))

	keys, err := local.Keys()
	require.NoError(t, err)
	require.Len(t, keys, 5)

	sf.Session.Logout(t.Context())

	keys, err = local.Keys()
	require.NoError(t, err)
	assert.Equal(t, []string{"theme"}, keys)
	assert.False(t, sf.Session.State().IsAuthenticated())
}

func TestSessionStore_Logout_WhenRelayIsDown(t *testing.T) {
	f := newFakeRelay(t)
	sf := f.signedIn(t)
	f.srv.Close()

	sf.Session.Logout(t.Context())

	assert.Equal(t, PhaseAnonymous, sf.Session.State().Phase)
	_, ok := sf.Session.AccessToken(t.Context())
	assert.False(t, ok)
}

func TestSessionStore_Init_ReloadsCachedProfile(t *testing.T) {
	f := newFakeRelay(t)
	local := localstore.NewMemoryStore()

	raw, err := json.Marshal(testSession())
	require.NoError(t, err)
	require.NoError(t, local.Put(provider.SessionKey, raw))

	cached := adminProfile()
	raw, err = json.Marshal(cachedProfile{UserID: testUserID.String(), Profile: cached})
	require.NoError(t, err)
	require.NoError(t, local.Put(ProfileKey, raw))

	// The relay has no profile, so the cached one is what Init shows.
	sf := f.storefront(local)
	sf.Init(t.Context())

	state := sf.Session.State()
	assert.True(t, state.IsAuthenticated())
	assert.Equal(t, PhaseProvisionalProfile, state.Phase)
	assert.Equal(t, cached, state.Profile)
}

func TestSessionStore_CachedProfile_IgnoresOtherUser(t *testing.T) {
	f := newFakeRelay(t)
	sf := f.storefront(localstore.NewMemoryStore())
	profile := adminProfile()

	sf.Session.cacheProfile(testUserID.String(), profile)

	assert.Equal(t, profile, sf.Session.cachedProfile(testUserID.String()))
	assert.Nil(t, sf.Session.cachedProfile(uuid.NewString()))
}

func TestSessionStore_SignedInEventKeepsConfirmedProfile(t *testing.T) {
	f := newFakeRelay(t)
	f.loginProfile = adminProfile()
	sf := f.storefront(localstore.NewMemoryStore())
	require.True(t, sf.Session.Login(t.Context(), testEmail, testPassword).Success)

	fresh := testSession()
	fresh.AccessToken = "a2"
	sf.Session.handleAuthChange(provider.StateChange{Seq: 100, Event: provider.EventSignedIn, Session: fresh})

	state := sf.Session.State()
	assert.Equal(t, PhaseConfirmedProfile, state.Phase)
	assert.True(t, state.IsAdmin())
	assert.Equal(t, "a2", state.Session.AccessToken)
}

func TestSessionStore_TokenRefreshReconfirmsOnce(t *testing.T) {
	f := newFakeRelay(t)
	sf := f.storefront(localstore.NewMemoryStore())
	require.True(t, sf.Session.LoginWithPhone(t.Context(), "9876543210", testPassword).Success)
	require.Equal(t, PhaseProvisionalProfile, sf.Session.State().Phase)

	f.mu.Lock()
	f.profile = adminProfile()
	f.mu.Unlock()

	sf.Session.handleAuthChange(provider.StateChange{Seq: 100, Event: provider.EventTokenRefreshed, Session: testSession()})
	assert.Eventually(t, func() bool {
		return sf.Session.State().IsAdmin()
	}, 2*time.Second, 10*time.Millisecond)

	sf.Session.mu.Lock()
	assert.True(t, sf.Session.reconfirmed)
	sf.Session.mu.Unlock()
}

func TestSessionStore_EventsAfterLogoutAreIgnored(t *testing.T) {
	f := newFakeRelay(t)
	sf := f.signedIn(t)

	sf.Session.Logout(t.Context())
	seq := sf.provider.Seq()

	// A sign-in queued before the logout must not bring the user back.
	sf.Session.handleAuthChange(provider.StateChange{Seq: seq, Event: provider.EventSignedIn, Session: testSession()})
	assert.False(t, sf.Session.State().IsAuthenticated())
}

func TestSessionStore_EventsAfterCloseAreIgnored(t *testing.T) {
	f := newFakeRelay(t)
	sf := f.storefront(localstore.NewMemoryStore())
	sf.Session.Close()

	sf.Session.handleAuthChange(provider.StateChange{Seq: 100, Event: provider.EventSignedIn, Session: testSession()})
	assert.Equal(t, PhaseAnonymous, sf.Session.State().Phase)
}

func TestSessionStore_StaleProfileIsDropped(t *testing.T) {
	f := newFakeRelay(t)
	f.profile = adminProfile()
	f.profileGate = make(chan struct{})
	sf := f.storefront(localstore.NewMemoryStore())

	require.True(t, sf.Session.Login(t.Context(), testEmail, testPassword).Success)
	sf.Session.Logout(t.Context())
	close(f.profileGate)
	sf.Session.Close()

	state := sf.Session.State()
	assert.Equal(t, PhaseAnonymous, state.Phase)
	assert.Nil(t, state.Profile)
}

func TestSessionStore_UpdateProfile(t *testing.T) {
	f := newFakeRelay(t)
	f.loginProfile = adminProfile()
	f.profile = adminProfile()
	sf := f.storefront(localstore.NewMemoryStore())

	address := "Koregaon Park, Pune"
	assert.Equal(t, msgNotSignedIn, sf.Session.UpdateProfile(t.Context(), dto.UpdateProfileRequest{Address: &address}).Message)

	require.True(t, sf.Session.Login(t.Context(), testEmail, testPassword).Success)
	res := sf.Session.UpdateProfile(t.Context(), dto.UpdateProfileRequest{Address: &address})
	require.True(t, res.Success)

	profile := sf.Session.State().Profile
	assert.Equal(t, address, profile.Address)
	assert.Equal(t, "Asha Rao", profile.Name)
}

func TestSynthesizeProfile(t *testing.T) {
	id := uuid.New()

	p := SynthesizeProfile(&dto.User{ID: id, Email: "ravi.k@example.com"})
	assert.Equal(t, "ravi.k", p.Name)
	assert.Equal(t, "user", p.Role)

	p = SynthesizeProfile(&dto.User{ID: id, UserMetadata: dto.UserMetadata{Phone: "+919812345678"}})
	assert.Equal(t, "User", p.Name)
	assert.Equal(t, "+919812345678", p.Phone)

	assert.Nil(t, SynthesizeProfile(nil))
}
