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

// MacroProcessoRepository handles database operations for macro-processes
// and their associations with root processes
type MacroProcessoRepository struct {
	db *db.DB
}

// NewMacroProcessoRepository creates a new macro-process repository
func NewMacroProcessoRepository(db *db.DB) *MacroProcessoRepository {
	return &MacroProcessoRepository{db: db}
}

// Get fetches a macro-process by id, or NotFound
func (r *MacroProcessoRepository) Get(ctx context.Context, q db.Querier, id int64) (*models.MacroProcesso, error) {
	query := `SELECT id, titulo, data_publicacao, data_criacao FROM macro_processos WHERE id = $1`

	m := &models.MacroProcesso{}
	err := querierOr(q, r.db).QueryRow(ctx, query, id).Scan(&m.ID, &m.Titulo, &m.DataPublicacao, &m.DataCriacao)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("macro_processo", id)
		}
		return nil, wrapStorage("get macro_processo", err)
	}
	return m, nil
}

// Create inserts a new macro-process
func (r *MacroProcessoRepository) Create(ctx context.Context, q db.Querier, m *models.MacroProcesso) error {
	query := `
		INSERT INTO macro_processos (titulo, data_publicacao)
		VALUES ($1, $2)
		RETURNING id, data_criacao
	`

	err := querierOr(q, r.db).QueryRow(ctx, query, m.Titulo, m.DataPublicacao).Scan(&m.ID, &m.DataCriacao)
	if err != nil {
		return wrapStorage("create macro_processo", err)
	}
	return nil
}

// List returns all macro-processes in stable id order
func (r *MacroProcessoRepository) List(ctx context.Context, q db.Querier) ([]*models.MacroProcesso, error) {
	query := `SELECT id, titulo, data_publicacao, data_criacao FROM macro_processos ORDER BY id ASC`

	rows, err := querierOr(q, r.db).Query(ctx, query)
	if err != nil {
		return nil, wrapStorage("list macro_processos", err)
	}
	defer rows.Close()

	var out []*models.MacroProcesso
	for rows.Next() {
		m := &models.MacroProcesso{}
		if err := rows.Scan(&m.ID, &m.Titulo, &m.DataPublicacao, &m.DataCriacao); err != nil {
			return nil, fmt.Errorf("scan macro_processo: %w", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate macro_processos: %w", err)
	}
	return out, nil
}

// Delete removes a macro-process row
func (r *MacroProcessoRepository) Delete(ctx context.Context, q db.Querier, id int64) error {
	tag, err := querierOr(q, r.db).Exec(ctx, `DELETE FROM macro_processos WHERE id = $1`, id)
	if err != nil {
		return wrapStorage("delete macro_processo", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("macro_processo", id)
	}
	return nil
}

// SearchByTitle is the broad ILIKE prefilter over titulo
func (r *MacroProcessoRepository) SearchByTitle(ctx context.Context, q db.Querier, patterns []string, limit int) ([]*models.MacroProcesso, error) {
	if len(patterns) == 0 {
		return nil, nil
	}

	args := []any{}
	where := ilikeClause([]string{"titulo"}, patterns, &args)
	args = append(args, limit)

	query := fmt.Sprintf(
		`SELECT id, titulo, data_publicacao, data_criacao FROM macro_processos WHERE %s LIMIT $%d`,
		where, len(args),
	)

	rows, err := querierOr(q, r.db).Query(ctx, query, args...)
	if err != nil {
		return nil, wrapStorage("search macro_processos", err)
	}
	defer rows.Close()

	var out []*models.MacroProcesso
	for rows.Next() {
		m := &models.MacroProcesso{}
		if err := rows.Scan(&m.ID, &m.Titulo, &m.DataPublicacao, &m.DataCriacao); err != nil {
			return nil, fmt.Errorf("scan macro_processo: %w", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate macro_processos: %w", err)
	}
	return out, nil
}
