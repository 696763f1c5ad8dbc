package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/sucupira/processmap/common/apperr"
	"github.com/sucupira/processmap/common/db"
	"github.com/sucupira/processmap/common/models"
)

// UsuarioRepository handles database operations for users
type UsuarioRepository struct {
	db *db.DB
}

// NewUsuarioRepository creates a new user repository
func NewUsuarioRepository(db *db.DB) *UsuarioRepository {
	return &UsuarioRepository{db: db}
}

// Create inserts a new user
func (r *UsuarioRepository) Create(ctx context.Context, q db.Querier, u *models.Usuario) error {
	query := `INSERT INTO usuarios (nome, email, senha_hash) VALUES ($1, $2, $3) RETURNING id`

	err := querierOr(q, r.db).QueryRow(ctx, query, u.Nome, u.Email, u.SenhaHash).Scan(&u.ID)
	if err != nil {
		return wrapStorage("create usuario", err)
	}
	return nil
}

// GetByEmail fetches a user by email, or NotFound
func (r *UsuarioRepository) GetByEmail(ctx context.Context, q db.Querier, email string) (*models.Usuario, error) {
	query := `SELECT id, nome, email, senha_hash FROM usuarios WHERE email = $1`

	u := &models.Usuario{}
	err := querierOr(q, r.db).QueryRow(ctx, query, email).Scan(&u.ID, &u.Nome, &u.Email, &u.SenhaHash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFoundKey("usuario", email)
		}
		return nil, wrapStorage("get usuario by email", err)
	}
	return u, nil
}

// List returns all users
func (r *UsuarioRepository) List(ctx context.Context, q db.Querier) ([]*models.Usuario, error) {
	query := `SELECT id, nome, email, senha_hash FROM usuarios ORDER BY id ASC`

	rows, err := querierOr(q, r.db).Query(ctx, query)
	if err != nil {
		return nil, wrapStorage("list usuarios", err)
	}
	defer rows.Close()

	var out []*models.Usuario
	for rows.Next() {
		u := &models.Usuario{}
		if err := rows.Scan(&u.ID, &u.Nome, &u.Email, &u.SenhaHash); err != nil {
			return nil, fmt.Errorf("scan usuario: %w", err)
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate usuarios: %w", err)
	}
	return out, nil
}

// EmailExists reports whether an email is already registered
func (r *UsuarioRepository) EmailExists(ctx context.Context, q db.Querier, email string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM usuarios WHERE email = $1)`

	var exists bool
	if err := querierOr(q, r.db).QueryRow(ctx, query, email).Scan(&exists); err != nil {
		return false, wrapStorage("check usuario email", err)
	}
	return exists, nil
}
