package services

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/qnaboard/internal/app/models/dto"
	"github.com/yigit/qnaboard/internal/app/repositories/inmemory"
	"github.com/yigit/qnaboard/internal/pkg/apperrors"
	"github.com/yigit/qnaboard/internal/pkg/auth"
)

func newAuthService(t *testing.T) (*AuthService, *auth.JWTService) {
	t.Helper()
	jwtService := auth.NewJWTService(auth.JWTConfig{
		SecretKey:      "test-secret",
		AccessTokenExp: time.Hour,
		TokenIssuer:    "qnaboard-test",
	})
	repos := inmemory.NewStore().Repositories()
	return NewAuthService(repos.UserRepository, jwtService, zerolog.Nop()), jwtService
}

func TestAuthService_RegisterAndLogin(t *testing.T) {
	svc, jwtService := newAuthService(t)
	ctx := context.Background()

	token, err := svc.Register(ctx, &dto.RegisterRequest{Email: " Alice@X.io ", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, "Bearer", token.TokenType)

	claims, err := jwtService.ValidateToken(token.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "alice@x.io", claims.Email)

	login, err := svc.Login(ctx, &dto.LoginRequest{Email: "ALICE@x.io", Password: "secret123"})
	require.NoError(t, err)
	assert.NotEmpty(t, login.AccessToken)

	_, err = svc.Login(ctx, &dto.LoginRequest{Email: "alice@x.io", Password: "wrong1234"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	_, err = svc.Login(ctx, &dto.LoginRequest{Email: "ghost@x.io", Password: "secret123"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	_, err = svc.Register(ctx, &dto.RegisterRequest{Email: "alice@x.io", Password: "secret123"})
	assert.ErrorIs(t, err, apperrors.ErrEmailAlreadyExists)
}

func TestAuthService_PasswordRules(t *testing.T) {
	svc, _ := newAuthService(t)

	for _, pw := range []string{"short1", "lettersonly", "12345678"} {
		_, err := svc.Register(context.Background(), &dto.RegisterRequest{Email: "a@x.io", Password: pw})
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed, pw)
	}
}
