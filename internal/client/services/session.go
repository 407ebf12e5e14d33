package services

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/taskmaster-app/taskmaster-cli/internal/client/api"
	"github.com/taskmaster-app/taskmaster-cli/internal/client/models"
	"github.com/taskmaster-app/taskmaster-cli/internal/client/storage"
	"github.com/taskmaster-app/taskmaster-cli/internal/client/token"
	"github.com/taskmaster-app/taskmaster-cli/internal/common"
	"github.com/taskmaster-app/taskmaster-cli/internal/dbx"
	"github.com/taskmaster-app/taskmaster-cli/internal/logging"
)

// SessionService owns the credential pair and the derived session identity.
//
// Contract:
//   - Login: authenticate against the token endpoint and persist the pair.
//   - Register: create an account; does not establish a session.
//   - Logout: clear stored credentials and the session user; no network call.
//   - Restore: rehydrate the session from storage at process start.
//   - Current: the session user, or nil; always exactly the decoded contents
//     of the currently stored access token.
//   - AccessToken: the raw access token for outbound requests ("" when
//     logged out).
//
// All methods must honor context cancellation/timeouts.
type SessionService interface {
	Login(ctx context.Context, username, password string) (*models.SessionUser, error)
	Register(ctx context.Context, reg api.Registration) error
	Logout(ctx context.Context) error
	Restore(ctx context.Context) (*models.SessionUser, error)
	Current() *models.SessionUser
	AccessToken() string
}

// sessionService is the concrete SessionService backed by a remote Client
// and a local SQL database holding the credential pair.
type sessionService struct {
	client api.Client
	db     *sql.DB
	log    logging.Logger
	now    func() time.Time

	mu      sync.RWMutex
	current *models.SessionUser
	access  string
	refresh string
}

// NewSessionService constructs a SessionService bound to the given API
// client and local database.
func NewSessionService(client api.Client, db *sql.DB, log logging.Logger) SessionService {
	return &sessionService{client: client, db: db, log: log, now: time.Now}
}

func (s *sessionService) credsRepo() storage.Repository {
	return storage.NewSQLiteRepository(s.db)
}

// Login exchanges the credentials for a token pair, persists both tokens in
// one transaction, and publishes the identity decoded from the access token.
// Rejected credentials surface as common.ErrUnauthorized with no retry.
func (s *sessionService) Login(ctx context.Context, username, password string) (*models.SessionUser, error) {
	pair, err := s.client.ObtainToken(ctx, username, password)
	if err != nil {
		return nil, fmt.Errorf("obtain token: %w", err)
	}

	user, err := token.Decode(pair.Access)
	if err != nil {
		return nil, fmt.Errorf("decode access token: %w", err)
	}

	if err := s.saveTokenPair(ctx, pair); err != nil {
		return nil, fmt.Errorf("persist credentials: %w", err)
	}

	s.mu.Lock()
	s.current = user
	s.access = pair.Access
	s.refresh = pair.Refresh
	s.mu.Unlock()

	s.log.Info(ctx, "login successful", "user", user.Username, "user_id", user.UserID)
	return user, nil
}

// saveTokenPair writes both credential entries together; a partial pair is
// never left behind.
func (s *sessionService) saveTokenPair(ctx context.Context, pair *models.TokenPair) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := storage.NewSQLiteRepository(tx)
		if err := repo.Set(ctx, common.AccessTokenKey, pair.Access); err != nil {
			return err
		}
		return repo.Set(ctx, common.RefreshTokenKey, pair.Refresh)
	})
}

// Register forwards the registration fields to the server. Validation
// failures (duplicate username, malformed email) come back as
// *api.ValidationError for inline display.
func (s *sessionService) Register(ctx context.Context, reg api.Registration) error {
	return s.client.Register(ctx, reg)
}

// Logout clears the stored credential pair and the published session user.
// It performs no network call. The in-memory session is cleared even when
// the storage wipe fails.
func (s *sessionService) Logout(ctx context.Context) error {
	s.mu.Lock()
	s.current = nil
	s.access = ""
	s.refresh = ""
	s.mu.Unlock()

	if err := s.credsRepo().Clear(ctx); err != nil {
		return fmt.Errorf("clear credentials: %w", err)
	}
	return nil
}

// Restore runs once at process start. A missing token means no session. A
// token that fails to decode is treated as no session: storage is cleared
// and the anomaly logged, not raised. An expired token likewise clears
// storage. A valid token rehydrates the session without a network call.
func (s *sessionService) Restore(ctx context.Context) (*models.SessionUser, error) {
	repo := s.credsRepo()

	access, err := repo.Get(ctx, common.AccessTokenKey)
	if err != nil {
		return nil, fmt.Errorf("read stored token: %w", err)
	}
	if access == "" {
		return nil, nil
	}

	user, err := token.Decode(access)
	if err != nil {
		s.log.Warn(ctx, "stored token is malformed, clearing credentials", "error", err)
		if clearErr := repo.Clear(ctx); clearErr != nil {
			return nil, fmt.Errorf("clear credentials: %w", clearErr)
		}
		return nil, nil
	}

	if user.Expired(s.now()) {
		s.log.Info(ctx, "stored token expired, clearing credentials", "expired_at", user.ExpiresAt)
		if err := repo.Clear(ctx); err != nil {
			return nil, fmt.Errorf("clear credentials: %w", err)
		}
		return nil, nil
	}

	refresh, err := repo.Get(ctx, common.RefreshTokenKey)
	if err != nil {
		return nil, fmt.Errorf("read stored token: %w", err)
	}

	s.mu.Lock()
	s.current = user
	s.access = access
	s.refresh = refresh
	s.mu.Unlock()

	s.log.Info(ctx, "session restored", "user", user.Username, "user_id", user.UserID)
	return user, nil
}

func (s *sessionService) Current() *models.SessionUser {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

func (s *sessionService) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.access
}
