package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/sucupira/processmap/common/apperr"
	"github.com/sucupira/processmap/common/auth"
	"github.com/sucupira/processmap/common/logger"
	"github.com/sucupira/processmap/common/models"
)

// AuthService handles signup, login and user listing
type AuthService struct {
	usuarios   UsuarioStore
	issuer     *auth.TokenIssuer
	bcryptCost int
	log        *logger.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(usuarios UsuarioStore, issuer *auth.TokenIssuer, bcryptCost int, log *logger.Logger) *AuthService {
	return &AuthService{usuarios: usuarios, issuer: issuer, bcryptCost: bcryptCost, log: log}
}

// SignupInput carries a new account request
type SignupInput struct {
	Nome  string `json:"nome"`
	Email string `json:"email"`
	Senha string `json:"senha"`
}

// LoginResult is the token envelope returned on successful login
type LoginResult struct {
	AccessToken string          `json:"access_token"`
	TokenType   string          `json:"token_type"`
	Usuario     *models.Usuario `json:"usuario"`
}

// Signup registers a new user. Emails are unique, stored lowercase.
func (s *AuthService) Signup(ctx context.Context, in SignupInput) (*models.Usuario, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, apperr.InvalidArgument("valid email is required")
	}
	if strings.TrimSpace(in.Nome) == "" {
		return nil, apperr.InvalidArgument("nome is required")
	}
	if len(in.Senha) < 6 {
		return nil, apperr.InvalidArgument("senha must be at least 6 characters")
	}

	exists, err := s.usuarios.EmailExists(ctx, nil, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("email %s already registered: %w", email, apperr.ErrConflict)
	}

	hash, err := auth.HashPassword(in.Senha, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	u := &models.Usuario{Nome: in.Nome, Email: email, SenhaHash: hash}
	if err := s.usuarios.Create(ctx, nil, u); err != nil {
		return nil, err
	}

	s.log.Info("registered user", "user_id", u.ID)
	return u, nil
}

// Login verifies credentials and issues an access token. A bad email and a
// bad password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, senha string) (*LoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	u, err := s.usuarios.GetByEmail(ctx, nil, email)
	if err != nil {
		return nil, fmt.Errorf("invalid credentials: %w", apperr.ErrUnauthorized)
	}
	if !auth.VerifyPassword(senha, u.SenhaHash) {
		return nil, fmt.Errorf("invalid credentials: %w", apperr.ErrUnauthorized)
	}

	token, err := s.issuer.Issue(u.ID, u.Email)
	if err != nil {
		return nil, err
	}

	return &LoginResult{AccessToken: token, TokenType: "bearer", Usuario: u}, nil
}

// ListUsuarios returns all registered users
func (s *AuthService) ListUsuarios(ctx context.Context) ([]*models.Usuario, error) {
	return s.usuarios.List(ctx, nil)
}
