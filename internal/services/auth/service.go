package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/mcoot/kapal-registry/internal/model"
	"github.com/mcoot/kapal-registry/internal/services/token"
	"github.com/mcoot/kapal-registry/internal/storage"
)

// Errors
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidInput       = errors.New("username and password are required")
	ErrUsernameExists     = errors.New("username already exists")
	ErrPasswordTooLong    = errors.New("password is longer than 72 bytes")
)

// MaxPasswordBytes is the longest password bcrypt will hash
const MaxPasswordBytes = 72

// dummyPassword is hashed once and compared against when a login names an
// unknown user, so unknown users and wrong passwords cost the same
const dummyPassword = "kapal-registry-unknown-user"

// Service handles user registration and login
type Service struct {
	storage storage.Storage
	hasher  Hasher
	tokens  token.Codec
	logger  *slog.Logger

	dummyOnce sync.Once
	dummyHash string
}

// New creates a new AuthService
func New(storage storage.Storage, hasher Hasher, tokens token.Codec, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		hasher:  hasher,
		tokens:  tokens,
		logger:  logger.With(slog.String("component", "auth")),
	}
}

// Register creates a user account and returns its ID. An empty role
// registers a regular user.
func (s *Service) Register(ctx context.Context, username, password string, role model.Role) (model.UserID, error) {
	if strings.TrimSpace(username) == "" || password == "" {
		return 0, ErrInvalidInput
	}
	if len(password) > MaxPasswordBytes {
		return 0, ErrPasswordTooLong
	}
	if role == "" {
		role = model.RoleUser
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return 0, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Username:     username,
		PasswordHash: hash,
		Role:         role,
	}
	if err := s.storage.CreateUser(ctx, user); err != nil {
		if errors.Is(err, model.ErrUsernameTaken) {
			return 0, ErrUsernameExists
		}
		return 0, fmt.Errorf("create user: %w", err)
	}

	s.logger.Info("user registered",
		slog.Int64("user_id", int64(user.ID)),
		slog.String("role", string(user.Role)))
	return user.ID, nil
}

// Login verifies credentials and issues a session token. Unknown usernames
// and wrong passwords both return ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, username, password string) (string, error) {
	if username == "" || password == "" {
		return "", ErrInvalidCredentials
	}

	user, err := s.storage.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			_ = s.hasher.Compare(s.unknownUserHash(), password)
			return "", ErrInvalidCredentials
		}
		return "", fmt.Errorf("lookup user: %w", err)
	}

	if err := s.hasher.Compare(user.PasswordHash, password); err != nil {
		return "", ErrInvalidCredentials
	}

	tok, err := s.tokens.Sign(token.Claims{UserID: user.ID, Role: user.Role})
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return tok, nil
}

func (s *Service) unknownUserHash() string {
	s.dummyOnce.Do(func() {
		hash, err := s.hasher.Hash(dummyPassword)
		if err != nil {
			s.logger.Warn("could not prepare dummy hash", slog.String("error", err.Error()))
			return
		}
		s.dummyHash = hash
	})
	return s.dummyHash
}
