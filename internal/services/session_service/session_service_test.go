package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"testing"
	"time"

	"folio/internal/domain/models"
	"folio/internal/storage/prefstore"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockLoginClient struct {
	mock.Mock
}

func (m *MockLoginClient) Login(ctx context.Context, username, password string) (string, *models.User, error) {
	args := m.Called(ctx, username, password)

	var user *models.User
	if u := args.Get(1); u != nil {
		user = u.(*models.User)
	}
	return args.String(0), user, args.Error(2)
}

// memPrefs is an in-memory prefstore.Store for tests.
type memPrefs struct {
	mu     sync.Mutex
	data   map[string]string
	setErr error
	delErr error
}

func newMemPrefs() *memPrefs {
	return &memPrefs{data: map[string]string{}}
}

func (m *memPrefs) Get(ctx context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	value, ok := m.data[key]
	if !ok {
		return "", prefstore.ErrNotFound
	}
	return value, nil
}

func (m *memPrefs) Set(ctx context.Context, key, value string) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *memPrefs) Delete(ctx context.Context, key string) error {
	if m.delErr != nil {
		return m.delErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "admin",
		"exp": exp.Unix(),
	})
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	return signed
}

func TestSessionService_Login(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name        string
		mockSetup   func(*MockLoginClient, *memPrefs)
		wantError   bool
		expectedErr string
	}{
		{
			name: "successful login",
			mockSetup: func(client *MockLoginClient, prefs *memPrefs) {
				client.On("Login", ctx, "admin", "secret").
					Return("tok123", &models.User{Username: "admin"}, nil).Once()
			},
		},
		{
			name: "backend rejects credentials",
			mockSetup: func(client *MockLoginClient, prefs *memPrefs) {
				client.On("Login", ctx, "admin", "secret").
					Return("", nil, errors.New("invalid credentials")).Once()
			},
			wantError:   true,
			expectedErr: "invalid credentials",
		},
		{
			name: "storage failure surfaces",
			mockSetup: func(client *MockLoginClient, prefs *memPrefs) {
				client.On("Login", ctx, "admin", "secret").
					Return("tok123", nil, nil).Once()
				prefs.setErr = errors.New("disk full")
			},
			wantError:   true,
			expectedErr: "disk full",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := new(MockLoginClient)
			prefs := newMemPrefs()
			tt.mockSetup(client, prefs)

			svc := NewSessionService(slog.Default(), prefs, client)

			token, err := svc.Login(ctx, "admin", "secret")

			if tt.wantError {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectedErr)
				assert.False(t, svc.IsAuthenticated())
			} else {
				assert.NoError(t, err)
				assert.Equal(t, "tok123", token)
				assert.Equal(t, "tok123", svc.Token())

				stored, err := prefs.Get(ctx, prefstore.KeyAdminToken)
				assert.NoError(t, err)
				assert.Equal(t, "tok123", stored)
			}

			client.AssertExpectations(t)
		})
	}
}

func TestSessionService_LoginFailureKeepsPriorSession(t *testing.T) {
	ctx := context.Background()
	client := new(MockLoginClient)
	prefs := newMemPrefs()
	svc := NewSessionService(slog.Default(), prefs, client)

	client.On("Login", ctx, "admin", "old").Return("tok-old", nil, nil).Once()
	client.On("Login", ctx, "admin", "bad").Return("", nil, errors.New("invalid credentials")).Once()

	_, err := svc.Login(ctx, "admin", "old")
	require.NoError(t, err)

	_, err = svc.Login(ctx, "admin", "bad")
	assert.Error(t, err)

	assert.Equal(t, "tok-old", svc.Token())
	client.AssertExpectations(t)
}

func TestSessionService_Restore(t *testing.T) {
	ctx := context.Background()

	t.Run("stored token restored", func(t *testing.T) {
		prefs := newMemPrefs()
		prefs.data[prefstore.KeyAdminToken] = "tok123"

		svc := NewSessionService(slog.Default(), prefs, new(MockLoginClient))

		require.NoError(t, svc.Restore(ctx))
		assert.Equal(t, "tok123", svc.Token())
	})

	t.Run("no stored token is not an error", func(t *testing.T) {
		svc := NewSessionService(slog.Default(), newMemPrefs(), new(MockLoginClient))

		require.NoError(t, svc.Restore(ctx))
		assert.False(t, svc.IsAuthenticated())
	})

	t.Run("wrapped not-found from the store still means not logged in", func(t *testing.T) {
		svc := NewSessionService(slog.Default(), wrappingPrefs{}, new(MockLoginClient))

		require.NoError(t, svc.Restore(ctx))
		assert.False(t, svc.IsAuthenticated())
	})
}

// wrappingPrefs answers every read with the not-found sentinel wrapped in
// an operation prefix, the way a store implementation reports it.
type wrappingPrefs struct{}

func (wrappingPrefs) Get(ctx context.Context, key string) (string, error) {
	return "", fmt.Errorf("prefstore.RedisStore.Get: %w", prefstore.ErrNotFound)
}

func (wrappingPrefs) Set(ctx context.Context, key, value string) error { return nil }

func (wrappingPrefs) Delete(ctx context.Context, key string) error { return nil }

func TestSessionService_Logout(t *testing.T) {
	ctx := context.Background()
	client := new(MockLoginClient)
	prefs := newMemPrefs()
	svc := NewSessionService(slog.Default(), prefs, client)

	client.On("Login", ctx, "admin", "secret").Return("tok123", nil, nil).Once()
	_, err := svc.Login(ctx, "admin", "secret")
	require.NoError(t, err)

	svc.Logout(ctx)

	assert.False(t, svc.IsAuthenticated())
	_, err = prefs.Get(ctx, prefstore.KeyAdminToken)
	assert.ErrorIs(t, err, prefstore.ErrNotFound)

	// idempotent
	svc.Logout(ctx)
	assert.False(t, svc.IsAuthenticated())
}

func TestSessionService_LogoutSurvivesStorageFailure(t *testing.T) {
	ctx := context.Background()
	prefs := newMemPrefs()
	prefs.data[prefstore.KeyAdminToken] = "tok123"
	prefs.delErr = errors.New("store down")

	svc := NewSessionService(slog.Default(), prefs, new(MockLoginClient))
	require.NoError(t, svc.Restore(ctx))

	svc.Logout(ctx)

	assert.False(t, svc.IsAuthenticated())
}

func TestSessionService_Token_Expiry(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name  string
		token string
		empty bool
	}{
		{name: "opaque token never expires", token: "opaque-token"},
		{name: "live jwt passes", token: signedToken(t, time.Now().Add(time.Hour))},
		{name: "expired jwt yields empty", token: signedToken(t, time.Now().Add(-time.Hour)), empty: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prefs := newMemPrefs()
			prefs.data[prefstore.KeyAdminToken] = tt.token

			svc := NewSessionService(slog.Default(), prefs, new(MockLoginClient))
			require.NoError(t, svc.Restore(ctx))

			if tt.empty {
				assert.Equal(t, "", svc.Token())
				assert.False(t, svc.IsAuthenticated())
			} else {
				assert.Equal(t, tt.token, svc.Token())
				assert.True(t, svc.IsAuthenticated())
			}
		})
	}
}

func TestSessionService_Language(t *testing.T) {
	ctx := context.Background()
	prefs := newMemPrefs()
	svc := NewSessionService(slog.Default(), prefs, new(MockLoginClient))

	assert.Equal(t, DefaultLanguage, svc.Language(ctx))

	require.NoError(t, svc.SetLanguage(ctx, "en"))
	assert.Equal(t, "en", svc.Language(ctx))
}
