package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"folio/internal/domain/models"
	"folio/internal/lib/logger/sl"
	"folio/internal/storage/prefstore"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultLanguage is the site's default display language; the English
// variants of a project fall back to it when absent.
const DefaultLanguage = "es"

// LoginClient performs the credential exchange against the backend.
type LoginClient interface {
	Login(ctx context.Context, username, password string) (string, *models.User, error)
}

// SessionService holds the current authentication credential. Token
// changes are the sole signal gating admin-only actions, and the durable
// store and the in-memory value always move together so a reload can
// never observe a half-logged-in state.
type SessionService struct {
	log    *slog.Logger
	prefs  prefstore.Store
	client LoginClient

	mu      sync.RWMutex
	session models.Session
}

func NewSessionService(log *slog.Logger, prefs prefstore.Store, client LoginClient) *SessionService {
	return &SessionService{
		log:    log,
		prefs:  prefs,
		client: client,
	}
}

// Restore loads a previously stored token into memory. Called once at
// startup; a missing key just means "not logged in".
func (s *SessionService) Restore(ctx context.Context) error {
	const op = "session_service.SessionService.Restore"

	token, err := s.prefs.Get(ctx, prefstore.KeyAdminToken)
	if err != nil {
		if errors.Is(err, prefstore.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	s.session.Token = token
	s.mu.Unlock()

	return nil
}

// Login exchanges credentials for a token and stores it durably and in
// memory. Any failure leaves the prior session untouched.
func (s *SessionService) Login(ctx context.Context, username, password string) (string, error) {
	const op = "session_service.SessionService.Login"

	log := s.log.With(
		slog.String("op", op),
		slog.String("username", username),
	)

	log.Info("attempting to login")

	token, user, err := s.client.Login(ctx, username, password)
	if err != nil {
		log.Warn("login failed", sl.Err(err))

		return "", fmt.Errorf("%s: %w", op, err)
	}

	if err := s.prefs.Set(ctx, prefstore.KeyAdminToken, token); err != nil {
		log.Error("failed to persist token", sl.Err(err))

		return "", fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	s.session = models.Session{Token: token, User: user}
	s.mu.Unlock()

	log.Info("logged in")

	return token, nil
}

// Logout clears the durable and in-memory token and user. Idempotent and
// always succeeds: a storage hiccup is logged, not surfaced, because the
// user is leaving either way.
func (s *SessionService) Logout(ctx context.Context) {
	const op = "session_service.SessionService.Logout"

	if err := s.prefs.Delete(ctx, prefstore.KeyAdminToken); err != nil {
		s.log.Error("failed to clear stored token",
			slog.String("op", op), sl.Err(err))
	}

	s.mu.Lock()
	s.session = models.Session{}
	s.mu.Unlock()
}

// Token returns the current bearer token, or empty when there is none or
// the stored JWT has expired. Expiry is read without verifying the
// signature; verification is the backend's job.
func (s *SessionService) Token() string {
	s.mu.RLock()
	token := s.session.Token
	s.mu.RUnlock()

	if token == "" || tokenExpired(token) {
		return ""
	}
	return token
}

func (s *SessionService) IsAuthenticated() bool {
	return s.Token() != ""
}

func (s *SessionService) User() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.User
}

// Language returns the preferred display-language code.
func (s *SessionService) Language(ctx context.Context) string {
	lang, err := s.prefs.Get(ctx, prefstore.KeyLanguage)
	if err != nil || lang == "" {
		return DefaultLanguage
	}
	return lang
}

func (s *SessionService) SetLanguage(ctx context.Context, lang string) error {
	const op = "session_service.SessionService.SetLanguage"

	if err := s.prefs.Set(ctx, prefstore.KeyLanguage, lang); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// tokenExpired inspects an unverified JWT "exp" claim. Opaque non-JWT
// tokens never expire client-side.
func tokenExpired(token string) bool {
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return false
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return false
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(time.Now())
}
