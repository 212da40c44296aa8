package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/notewise/notewise/internal/model"
	appErr "github.com/notewise/notewise/internal/pkg/errors"
	"github.com/notewise/notewise/internal/pkg/jwt"
	"github.com/notewise/notewise/internal/pkg/password"
)

type UserStore interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, userID string) (*model.User, error)
	GetByGuestID(ctx context.Context, guestID string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
}

type AuthService struct {
	users  UserStore
	secret []byte
	ttl    time.Duration
}

func NewAuthService(users UserStore, secret string, ttl time.Duration) *AuthService {
	return &AuthService{users: users, secret: []byte(secret), ttl: ttl}
}

// CreateGuest creates an anonymous user keyed by a fresh guest id. No
// password, no email; the token is the only handle on the account.
func (s *AuthService) CreateGuest(ctx context.Context) (*model.User, string, error) {
	now := time.Now().UnixMilli()
	user := &model.User{
		ID:          uuid.NewString(),
		GuestID:     uuid.NewString(),
		DisplayName: "Guest User",
		IsGuest:     true,
		Ctime:       now,
		Mtime:       now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, "", err
	}
	token, err := jwt.GenerateToken(user.ID, "", s.secret, s.ttl)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *AuthService) Register(ctx context.Context, email, plainPassword, displayName string) (*model.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, "", fmt.Errorf("%w: a valid email is required", appErr.ErrInvalid)
	}
	if len(plainPassword) < 8 {
		return nil, "", fmt.Errorf("%w: password must be at least 8 characters", appErr.ErrInvalid)
	}
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, "", fmt.Errorf("%w: email already registered", appErr.ErrConflict)
	} else if !appErr.IsNotFound(err) {
		return nil, "", err
	}
	hash, err := password.Hash(plainPassword)
	if err != nil {
		return nil, "", err
	}
	if strings.TrimSpace(displayName) == "" {
		displayName = email[:strings.Index(email, "@")]
	}
	now := time.Now().UnixMilli()
	user := &model.User{
		ID:           uuid.NewString(),
		Email:        email,
		DisplayName:  strings.TrimSpace(displayName),
		PasswordHash: hash,
		IsGuest:      false,
		Ctime:        now,
		Mtime:        now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, "", err
	}
	token, err := jwt.GenerateToken(user.ID, user.Email, s.secret, s.ttl)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *AuthService) Login(ctx context.Context, email, plainPassword string) (*model.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if appErr.IsNotFound(err) {
			return nil, "", fmt.Errorf("%w: invalid email or password", appErr.ErrUnauthorized)
		}
		return nil, "", err
	}
	if err := password.Compare(user.PasswordHash, plainPassword); err != nil {
		return nil, "", fmt.Errorf("%w: invalid email or password", appErr.ErrUnauthorized)
	}
	token, err := jwt.GenerateToken(user.ID, user.Email, s.secret, s.ttl)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *AuthService) GetUser(ctx context.Context, userID string) (*model.User, error) {
	return s.users.GetByID(ctx, userID)
}

// ParseToken validates a bearer token and returns its claims.
func (s *AuthService) ParseToken(token string) (*jwt.Claims, error) {
	claims, err := jwt.ParseToken(token, s.secret)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", appErr.ErrUnauthorized, err)
	}
	return claims, nil
}
