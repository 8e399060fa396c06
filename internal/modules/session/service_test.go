package session

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vitalmart/storefront/internal/pkg/apiclient"
	"github.com/vitalmart/storefront/internal/pkg/bus"
	"github.com/vitalmart/storefront/internal/pkg/kvstore"
)

// makeToken builds an unsigned three-segment token carrying the given claims.
func makeToken(t *testing.T, claims map[string]any) string {
	t.Helper()
	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"HS256","typ":"JWT"}`))
	payload, err := json.Marshal(claims)
	require.NoError(t, err)
	return header + "." + base64.RawURLEncoding.EncodeToString(payload) + ".sig"
}

func newTestService(t *testing.T, backend http.Handler) (*Service, *bus.Bus, kvstore.Store) {
	t.Helper()
	store := kvstore.NewMemStore()
	b := bus.New()

	var api *apiclient.Client
	if backend != nil {
		srv := httptest.NewServer(backend)
		t.Cleanup(srv.Close)
		var err error
		api, err = apiclient.New(srv.URL, func() string { return StoredToken(context.Background(), store) }, nil)
		require.NoError(t, err)
	} else {
		var err error
		api, err = apiclient.New("http://backend.invalid", nil, nil)
		require.NoError(t, err)
	}

	svc := NewService(store, api, b, nil)
	t.Cleanup(svc.Close)
	return svc, b, store
}

func setStoredToken(t *testing.T, store kvstore.Store, token string) {
	t.Helper()
	require.NoError(t, store.Set(context.Background(), tokenKey, token))
}

func TestUserIDClaimResolution(t *testing.T) {
	ctx := context.Background()

	cases := []struct {
		name   string
		claims map[string]any
		want   *int64
	}{
		{"userId field", map[string]any{"userId": 101}, ptr(int64(101))},
		{"user_id field", map[string]any{"user_id": 7}, ptr(int64(7))},
		{"numeric sub", map[string]any{"sub": 33}, ptr(int64(33))},
		{"numeric string sub", map[string]any{"sub": "42"}, ptr(int64(42))},
		{"email sub", map[string]any{"sub": "john@example.com"}, nil},
		{"userId wins over sub", map[string]any{"userId": 1, "sub": 2}, ptr(int64(1))},
		{"no identity claims", map[string]any{"name": "John"}, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, _, store := newTestService(t, nil)
			setStoredToken(t, store, makeToken(t, tc.claims))
			assert.Equal(t, tc.want, svc.UserID(ctx))
		})
	}
}

func TestUserIDAbsentOrMalformedToken(t *testing.T) {
	ctx := context.Background()

	svc, _, store := newTestService(t, nil)
	assert.Nil(t, svc.UserID(ctx))

	setStoredToken(t, store, "not-a-token")
	assert.Nil(t, svc.UserID(ctx))
}

func TestIsLoggedInWithoutExpiryClaim(t *testing.T) {
	ctx := context.Background()
	svc, _, store := newTestService(t, nil)
	setStoredToken(t, store, makeToken(t, map[string]any{"userId": 5}))

	assert.True(t, svc.IsLoggedIn(ctx))
	assert.NotEmpty(t, svc.Token(ctx))
}

func TestExpiredTokenSelfHeals(t *testing.T) {
	ctx := context.Background()
	svc, b, store := newTestService(t, nil)

	var events []bus.SessionEvent
	b.SubscribeSession(func(ev bus.SessionEvent) { events = append(events, ev) })

	past := time.Now().Add(-time.Hour).Unix()
	setStoredToken(t, store, makeToken(t, map[string]any{"userId": 5, "exp": past}))

	assert.False(t, svc.IsLoggedIn(ctx))
	// the read cleared the expired credential
	assert.Empty(t, svc.Token(ctx))
	require.Len(t, events, 1)
	assert.Nil(t, events[0].Token)
}

func TestMalformedTokenIsNotASession(t *testing.T) {
	ctx := context.Background()
	svc, _, store := newTestService(t, nil)
	setStoredToken(t, store, "just.garbage")
	assert.False(t, svc.IsLoggedIn(ctx))
}

func TestLoginStoresTokenAndBroadcasts(t *testing.T) {
	ctx := context.Background()
	token := makeToken(t, map[string]any{"userId": 9, "exp": time.Now().Add(time.Hour).Unix()})

	backend := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/auth/login", r.URL.Path)
		var req LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); assert.NoError(t, err) {
			assert.Equal(t, "john@example.com", req.Email)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"accessToken": token, "tokenType": "Bearer", "expiresInMs": 3600000,
		})
	})

	svc, b, _ := newTestService(t, backend)

	var events []bus.SessionEvent
	b.SubscribeSession(func(ev bus.SessionEvent) { events = append(events, ev) })

	got, err := svc.Login(ctx, "john@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, token, got)
	assert.Equal(t, token, svc.Token(ctx))
	assert.True(t, svc.IsLoggedIn(ctx))
	require.Equal(t, int64(9), *svc.UserID(ctx))

	require.Len(t, events, 1)
	require.NotNil(t, events[0].Token)
	assert.Equal(t, token, *events[0].Token)
}

func TestLoginFailureLeavesStateUnchanged(t *testing.T) {
	ctx := context.Background()
	backend := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"Invalid credentials"}`))
	})

	svc, b, _ := newTestService(t, backend)
	var events int
	b.SubscribeSession(func(bus.SessionEvent) { events++ })

	_, err := svc.Login(ctx, "john@example.com", "wrong")
	require.Error(t, err)
	apiErr, ok := apiclient.AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, "Invalid credentials", apiErr.Message)

	assert.Empty(t, svc.Token(ctx))
	assert.Zero(t, events)
}

func TestLoginWithAlreadyExpiredTokenRemovesImmediately(t *testing.T) {
	ctx := context.Background()
	expired := makeToken(t, map[string]any{"userId": 9, "exp": time.Now().Add(-time.Minute).Unix()})

	backend := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"accessToken": expired, "tokenType": "Bearer"})
	})

	svc, b, _ := newTestService(t, backend)
	var events []bus.SessionEvent
	b.SubscribeSession(func(ev bus.SessionEvent) { events = append(events, ev) })

	_, err := svc.Login(ctx, "john@example.com", "secret")
	require.NoError(t, err)

	// set broadcast followed by the immediate expiry removal
	require.Len(t, events, 2)
	assert.NotNil(t, events[0].Token)
	assert.Nil(t, events[1].Token)
	assert.Empty(t, svc.Token(ctx))
}

func TestExpiryWatcherFires(t *testing.T) {
	ctx := context.Background()
	soon := time.Now().Add(150 * time.Millisecond)
	token := makeToken(t, map[string]any{"userId": 9, "exp": soon.Unix()})

	svc, _, store := newTestService(t, nil)
	setStoredToken(t, store, token)
	svc.watchExpiry(ctx, token)

	// numeric exp has second granularity, so allow for rounding down
	assert.Eventually(t, func() bool { return svc.Token(ctx) == "" }, 3*time.Second, 25*time.Millisecond)
}

func TestRemoveTokenBroadcastsNil(t *testing.T) {
	ctx := context.Background()
	svc, b, store := newTestService(t, nil)
	setStoredToken(t, store, makeToken(t, map[string]any{"userId": 5}))

	var events []bus.SessionEvent
	b.SubscribeSession(func(ev bus.SessionEvent) { events = append(events, ev) })

	svc.RemoveToken(ctx)
	assert.Empty(t, svc.Token(ctx))
	require.Len(t, events, 1)
	assert.Nil(t, events[0].Token)
}

func TestRegisterClassifiesDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	cases := []struct {
		name   string
		status int
		body   string
	}{
		{"plain text 200", http.StatusOK, "Email already in use"},
		{"mixed case", http.StatusOK, "EMAIL ALREADY IN USE"},
		{"json object 200", http.StatusOK, `{"message":"Email already in use"}`},
		{"error status", http.StatusBadRequest, `{"message":"email already in use"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			backend := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/api/auth/register", r.URL.Path)
				w.WriteHeader(tc.status)
				w.Write([]byte(tc.body))
			})
			svc, _, _ := newTestService(t, backend)
			_, err := svc.Register(ctx, "John", "john@example.com", "secret")
			assert.ErrorIs(t, err, ErrEmailInUse)
		})
	}
}

func TestRegisterSuccessMessages(t *testing.T) {
	ctx := context.Background()
	cases := []struct {
		name string
		body string
		want string
	}{
		{"plain text", "User registered", "User registered"},
		{"json string", `"User registered"`, "User registered"},
		{"json object", `{"message":"Welcome aboard"}`, "Welcome aboard"},
		{"empty body", "", "Account created. Please login."},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			backend := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, tc.body)
			})
			svc, _, _ := newTestService(t, backend)
			msg, err := svc.Register(ctx, "John", "john@example.com", "secret")
			require.NoError(t, err)
			assert.Equal(t, tc.want, msg)
		})
	}
}

func TestInfoSnapshot(t *testing.T) {
	ctx := context.Background()
	svc, _, store := newTestService(t, nil)

	assert.False(t, svc.Info(ctx).LoggedIn)

	exp := time.Now().Add(time.Hour)
	setStoredToken(t, store, makeToken(t, map[string]any{"userId": 12, "exp": exp.Unix()}))
	info := svc.Info(ctx)
	assert.True(t, info.LoggedIn)
	require.NotNil(t, info.UserID)
	assert.Equal(t, int64(12), *info.UserID)
	assert.Equal(t, "Bearer", info.TokenType)
	require.NotNil(t, info.ExpiresAt)
	assert.WithinDuration(t, exp, *info.ExpiresAt, time.Second)
}

func ptr[T any](v T) *T { return &v }
