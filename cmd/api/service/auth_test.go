package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sucupira/processmap/common/apperr"
	"github.com/sucupira/processmap/common/auth"
)

func newAuthFixture() (*fixture, *AuthService) {
	f := newFixture()
	issuer := auth.NewTokenIssuer("segredo-de-teste", time.Minute)
	svc := NewAuthService(f.usuarios, issuer, 4, testLogger())
	return f, svc
}

func TestSignupAndLogin(t *testing.T) {
	_, svc := newAuthFixture()
	ctx := context.Background()

	u, err := svc.Signup(ctx, SignupInput{Nome: "Ana", Email: "Ana@Example.com", Senha: "secreta"})
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", u.Email)
	assert.NotEqual(t, "secreta", u.SenhaHash)

	result, err := svc.Login(ctx, "ana@example.com", "secreta")
	require.NoError(t, err)
	assert.Equal(t, "bearer", result.TokenType)
	assert.NotEmpty(t, result.AccessToken)
	assert.Equal(t, u.ID, result.Usuario.ID)
}

func TestSignupValidation(t *testing.T) {
	_, svc := newAuthFixture()
	ctx := context.Background()

	_, err := svc.Signup(ctx, SignupInput{Nome: "Ana", Email: "sem-arroba", Senha: "secreta"})
	assert.ErrorIs(t, err, apperr.ErrInvalidArgument)

	_, err = svc.Signup(ctx, SignupInput{Nome: "", Email: "a@b.com", Senha: "secreta"})
	assert.ErrorIs(t, err, apperr.ErrInvalidArgument)

	_, err = svc.Signup(ctx, SignupInput{Nome: "Ana", Email: "a@b.com", Senha: "curta"})
	assert.ErrorIs(t, err, apperr.ErrInvalidArgument)
}

func TestSignupDuplicateEmailConflicts(t *testing.T) {
	_, svc := newAuthFixture()
	ctx := context.Background()

	_, err := svc.Signup(ctx, SignupInput{Nome: "Ana", Email: "ana@example.com", Senha: "secreta"})
	require.NoError(t, err)

	_, err = svc.Signup(ctx, SignupInput{Nome: "Outra", Email: "ANA@example.com", Senha: "secreta"})
	assert.ErrorIs(t, err, apperr.ErrConflict)
}

func TestLoginBadCredentials(t *testing.T) {
	_, svc := newAuthFixture()
	ctx := context.Background()

	_, err := svc.Signup(ctx, SignupInput{Nome: "Ana", Email: "ana@example.com", Senha: "secreta"})
	require.NoError(t, err)

	_, err = svc.Login(ctx, "ana@example.com", "errada")
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)

	_, err = svc.Login(ctx, "ninguem@example.com", "secreta")
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)
}

func TestIssuedTokenRoundTrips(t *testing.T) {
	_, svc := newAuthFixture()
	ctx := context.Background()

	u, err := svc.Signup(ctx, SignupInput{Nome: "Ana", Email: "ana@example.com", Senha: "secreta"})
	require.NoError(t, err)

	result, err := svc.Login(ctx, "ana@example.com", "secreta")
	require.NoError(t, err)

	issuer := auth.NewTokenIssuer("segredo-de-teste", time.Minute)
	claims, err := issuer.Verify(result.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.UserID)
	assert.Equal(t, "ana@example.com", claims.Email)
}
