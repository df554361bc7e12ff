package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/monambengouta/we-settle/internal/auth"
	"github.com/monambengouta/we-settle/internal/database/testutil"
	"github.com/monambengouta/we-settle/internal/models"
	"github.com/monambengouta/we-settle/pkg/crypto"
	apperrors "github.com/monambengouta/we-settle/pkg/errors"
)

func TestUserGetByID(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	svc := newUserTestService(t, db)

	user := seedUser(t, db, "john@mail.com", "password123")

	found, err := svc.GetByID(context.Background(), user.ID)
	require.NoError(t, err)
	require.Equal(t, user.Email, found.Email)

	_, err = svc.GetByID(context.Background(), "missing-id")
	require.ErrorIs(t, err, ErrUserNotFound)

	_, err = svc.GetByID(context.Background(), "  ")
	require.Error(t, err)
}

func TestLoginSuccess(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	svc := newUserTestService(t, db)

	user := seedUser(t, db, "john@mail.com", "password123")

	result, err := svc.Login(context.Background(), "John@Mail.com", "password123")
	require.NoError(t, err)
	require.Equal(t, user.ID, result.User.ID)
	require.NotEmpty(t, result.AccessToken)

	claims, err := svc.tokens.Verify(result.AccessToken)
	require.NoError(t, err)
	require.Equal(t, user.ID, claims.UserID)
	require.Empty(t, claims.InscriptionID)
	require.True(t, claims.ExpiresAt.Time.Sub(claims.IssuedAt.Time) == loginTokenTTL)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	svc := newUserTestService(t, db)

	seedUser(t, db, "john@mail.com", "password123")

	_, err := svc.Login(context.Background(), "john@mail.com", "wrong-password")
	require.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	// Unknown accounts get the same answer as bad passwords.
	_, err = svc.Login(context.Background(), "nobody@mail.com", "password123")
	require.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), "", "")
	require.Error(t, err)
	require.NotErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func newUserTestService(t *testing.T, db *gorm.DB) *UserService {
	t.Helper()

	tokens, err := auth.NewTokenService(auth.TokenConfig{
		Secret:   "test-secret",
		Issuer:   "we-settle",
		Audience: "we-settle-api",
		TokenTTL: time.Hour,
	})
	require.NoError(t, err)

	svc, err := NewUserService(db, tokens)
	require.NoError(t, err)
	return svc
}

func seedUser(t *testing.T, db *gorm.DB, email, password string) *models.User {
	t.Helper()

	hash, err := crypto.HashPassword(password)
	require.NoError(t, err)

	user := models.User{
		Email:     email,
		Password:  hash,
		FirstName: "John",
		LastName:  "Doe",
	}
	require.NoError(t, db.Create(&user).Error)
	return &user
}
