package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/monambengouta/we-settle/internal/auth"
	"github.com/monambengouta/we-settle/internal/models"
	"github.com/monambengouta/we-settle/pkg/crypto"
	apperrors "github.com/monambengouta/we-settle/pkg/errors"
)

// loginTokenTTL bounds the short-lived session token issued on password login,
// as opposed to the long-lived inscription bearer tokens.
const loginTokenTTL = time.Hour

// ErrUserNotFound indicates the requested user does not exist.
var ErrUserNotFound = apperrors.New("USER_NOT_FOUND", "User not found", http.StatusNotFound)

// LoginResult couples the authenticated user with a freshly issued access token.
type LoginResult struct {
	User        *models.User `json:"user"`
	AccessToken string       `json:"access_token"`
}

// UserService exposes the pass-through user operations: lookup and password login.
type UserService struct {
	db     *gorm.DB
	tokens *auth.TokenService
}

// NewUserService constructs a UserService instance.
func NewUserService(db *gorm.DB, tokens *auth.TokenService) (*UserService, error) {
	if db == nil {
		return nil, errors.New("user service: db is required")
	}
	if tokens == nil {
		return nil, errors.New("user service: token service is required")
	}
	return &UserService{db: db, tokens: tokens}, nil
}

// GetByID loads a user by identifier.
func (s *UserService) GetByID(ctx context.Context, id string) (*models.User, error) {
	ctx = ensureContext(ctx)

	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperrors.NewBadRequest("user id is required")
	}

	var user models.User
	err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("user service: get user: %w", err)
	}
	return &user, nil
}

// Login checks the email/password pair and issues a short-lived access token.
func (s *UserService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	ctx = ensureContext(ctx)

	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, apperrors.NewBadRequest("email and password are required")
	}

	var user models.User
	err := s.db.WithContext(ctx).First(&user, "email = ?", email).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("user service: load user: %w", err)
	}

	if !crypto.VerifyPassword(user.Password, password) {
		return nil, apperrors.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(auth.IssueTokenInput{
		UserID:    user.ID,
		ExpiresIn: loginTokenTTL,
	})
	if err != nil {
		return nil, fmt.Errorf("user service: issue login token: %w", err)
	}

	return &LoginResult{User: &user, AccessToken: token}, nil
}
