package session

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/vitalmart/storefront/internal/pkg/apiclient"
	"github.com/vitalmart/storefront/internal/pkg/bus"
	"github.com/vitalmart/storefront/internal/pkg/kvstore"
	"go.uber.org/zap"
)

// Storage keys for the persisted credential.
const (
	tokenKey         = "auth_token"
	tokenTypeKey     = "auth_token_type"
	defaultTokenType = "Bearer"
)

// emailInUsePattern classifies a registration response message as a
// duplicate-address failure, whatever status code carried it.
var emailInUsePattern = regexp.MustCompile(`(?i)email already`)

// Service owns the credential: it stores the token, derives identity from it,
// watches expiry, and broadcasts session transitions.
type Service struct {
	store kvstore.Store
	api   *apiclient.Client
	bus   *bus.Bus
	log   *zap.Logger

	mu    sync.Mutex
	timer *time.Timer
	now   func() time.Time
}

// NewService wires the session manager.
func NewService(store kvstore.Store, api *apiclient.Client, b *bus.Bus, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store: store,
		api:   api,
		bus:   b,
		log:   logger,
		now:   time.Now,
	}
}

// StoredToken reads the raw persisted token without any validity check. The
// API client uses this as its bearer source.
func StoredToken(ctx context.Context, store kvstore.Store) string {
	v, _, _ := store.Get(ctx, tokenKey)
	return v
}

// Login authenticates against the backend and, on success, stores the
// returned credential, starts the expiry watch, and broadcasts the
// transition. Session state is unchanged on failure.
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	var res loginResponse
	err := s.api.PostJSON(ctx, "/api/auth/login", LoginRequest{Email: email, Password: password}, &res)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(res.AccessToken) == "" {
		return "", fmt.Errorf("login response carried no access token")
	}
	tokenType := res.TokenType
	if strings.TrimSpace(tokenType) == "" {
		tokenType = defaultTokenType
	}
	if err := s.setToken(ctx, res.AccessToken, tokenType); err != nil {
		return "", err
	}
	s.log.Info("session established", zap.String("email", email))
	return res.AccessToken, nil
}

// Register creates an account. The backend response may be a bare string or
// an object with a message field; a message matching "email already in use"
// is a failure regardless of HTTP status. Register never mutates session
// state.
func (s *Service) Register(ctx context.Context, name, email, password string) (string, error) {
	raw, err := s.api.Do(ctx, "POST", "/api/auth/register", nil,
		RegisterRequest{Name: name, Email: email, Password: password})
	if err != nil {
		if apiErr, ok := apiclient.AsAPIError(err); ok && emailInUsePattern.MatchString(apiErr.Message) {
			return apiErr.Message, ErrEmailInUse
		}
		return "", err
	}

	msg := registrationMessage(raw)
	if emailInUsePattern.MatchString(msg) {
		return msg, ErrEmailInUse
	}
	return msg, nil
}

// registrationMessage copes with the backend's loose response shape: a JSON
// object with message/msg, a JSON string, or plain text.
func registrationMessage(raw []byte) string {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" {
		return "Account created. Please login."
	}
	var obj struct {
		Message string `json:"message"`
		Msg     string `json:"msg"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil {
		if obj.Message != "" {
			return obj.Message
		}
		if obj.Msg != "" {
			return obj.Msg
		}
	}
	var str string
	if err := json.Unmarshal(raw, &str); err == nil && strings.TrimSpace(str) != "" {
		return str
	}
	return trimmed
}

// Token returns the stored credential without validating it; it may already
// be expired.
func (s *Service) Token(ctx context.Context) string {
	return StoredToken(ctx, s.store)
}

// TokenType returns the stored token type, defaulting to Bearer.
func (s *Service) TokenType(ctx context.Context) string {
	v, ok, _ := s.store.Get(ctx, tokenTypeKey)
	if !ok || strings.TrimSpace(v) == "" {
		return defaultTokenType
	}
	return v
}

// IsLoggedIn reports whether a usable session exists. A token without an exp
// claim never expires. An expired token is removed here as a side effect, so
// a later Token() call reads empty.
func (s *Service) IsLoggedIn(ctx context.Context) bool {
	tok := s.Token(ctx)
	if tok == "" {
		return false
	}
	claims, err := decodeClaims(tok)
	if err != nil {
		return false
	}
	exp := tokenExpiry(claims)
	if exp == nil {
		return true
	}
	if exp.After(s.now()) {
		return true
	}
	s.log.Debug("stored token expired, clearing session")
	s.RemoveToken(ctx)
	return false
}

// UserID derives the numeric identity from the token, or nil when the token
// is absent, malformed, or carries no numeric identity claim.
func (s *Service) UserID(ctx context.Context) *int64 {
	tok := s.Token(ctx)
	if tok == "" {
		return nil
	}
	claims, err := decodeClaims(tok)
	if err != nil {
		return nil
	}
	return tokenUserID(claims)
}

// Info returns the current session snapshot.
func (s *Service) Info(ctx context.Context) Info {
	if !s.IsLoggedIn(ctx) {
		return Info{}
	}
	info := Info{
		LoggedIn:  true,
		UserID:    s.UserID(ctx),
		TokenType: s.TokenType(ctx),
	}
	if claims, err := decodeClaims(s.Token(ctx)); err == nil {
		info.ExpiresAt = tokenExpiry(claims)
	}
	return info
}

// RemoveToken clears the stored credential, cancels any pending expiry
// removal, and broadcasts the logged-out transition.
func (s *Service) RemoveToken(ctx context.Context) {
	s.mu.Lock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.mu.Unlock()

	_ = s.store.Delete(ctx, tokenKey)
	_ = s.store.Delete(ctx, tokenTypeKey)
	s.bus.PublishSession(bus.SessionEvent{Token: nil})
}

func (s *Service) setToken(ctx context.Context, token, tokenType string) error {
	if err := s.store.Set(ctx, tokenKey, token); err != nil {
		return fmt.Errorf("persist token: %w", err)
	}
	if err := s.store.Set(ctx, tokenTypeKey, tokenType); err != nil {
		return fmt.Errorf("persist token type: %w", err)
	}
	s.bus.PublishSession(bus.SessionEvent{Token: &token})
	s.watchExpiry(ctx, token)
	return nil
}

// watchExpiry schedules exactly one deferred removal at the token's expiry
// deadline, replacing any previously scheduled one. A deadline already in the
// past removes the token immediately.
func (s *Service) watchExpiry(ctx context.Context, token string) {
	var remaining time.Duration
	hasExpiry := false
	if claims, err := decodeClaims(token); err == nil {
		if exp := tokenExpiry(claims); exp != nil {
			remaining = exp.Sub(s.now())
			hasExpiry = true
		}
	}

	s.mu.Lock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	if hasExpiry && remaining > 0 {
		s.timer = time.AfterFunc(remaining, func() {
			s.log.Info("session expired")
			s.RemoveToken(context.Background())
		})
	}
	s.mu.Unlock()

	if hasExpiry && remaining <= 0 {
		s.RemoveToken(ctx)
	}
}

// Close cancels the pending expiry timer, if any.
func (s *Service) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}
