package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/sucupira/processmap/common/apperr"
	"github.com/sucupira/processmap/common/db"
	"github.com/sucupira/processmap/common/models"
)

const processoColumns = `id, id_pai, id_area, ordem, titulo, data_publicacao, data_criacao`

// ProcessoRepository handles database operations for processes
type ProcessoRepository struct {
	db *db.DB
}

// NewProcessoRepository creates a new process repository
func NewProcessoRepository(db *db.DB) *ProcessoRepository {
	return &ProcessoRepository{db: db}
}

func scanProcesso(row pgx.Row) (*models.Processo, error) {
	p := &models.Processo{}
	err := row.Scan(&p.ID, &p.IDPai, &p.IDArea, &p.Ordem, &p.Titulo, &p.DataPublicacao, &p.DataCriacao)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func collectProcessos(rows pgx.Rows) ([]*models.Processo, error) {
	defer rows.Close()

	var out []*models.Processo
	for rows.Next() {
		p, err := scanProcesso(rows)
		if err != nil {
			return nil, fmt.Errorf("scan processo: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate processos: %w", err)
	}
	return out, nil
}

// Get fetches a process by id, or NotFound
func (r *ProcessoRepository) Get(ctx context.Context, q db.Querier, id int64) (*models.Processo, error) {
	query := `SELECT ` + processoColumns + ` FROM processos WHERE id = $1`

	p, err := scanProcesso(querierOr(q, r.db).QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("processo", id)
		}
		return nil, wrapStorage("get processo", err)
	}
	return p, nil
}

// Create inserts a new process and fills in its id and creation timestamp
func (r *ProcessoRepository) Create(ctx context.Context, q db.Querier, p *models.Processo) error {
	query := `
		INSERT INTO processos (id_pai, id_area, ordem, titulo, data_publicacao)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, data_criacao
	`

	err := querierOr(q, r.db).QueryRow(ctx, query,
		p.IDPai,
		p.IDArea,
		p.Ordem,
		p.Titulo,
		p.DataPublicacao,
	).Scan(&p.ID, &p.DataCriacao)

	if err != nil {
		return wrapStorage("create processo", err)
	}

	return nil
}

// ListChildren returns the direct children of a parent, ordered by ordem
// (nulls as 0), ties broken by ascending id.
func (r *ProcessoRepository) ListChildren(ctx context.Context, q db.Querier, parentID int64) ([]*models.Processo, error) {
	query := `
		SELECT ` + processoColumns + `
		FROM processos
		WHERE id_pai = $1
		ORDER BY COALESCE(ordem, 0) ASC, id ASC
	`

	rows, err := querierOr(q, r.db).Query(ctx, query, parentID)
	if err != nil {
		return nil, wrapStorage("list children", err)
	}
	return collectProcessos(rows)
}

// ListRoots returns processes without a parent, ordered like ListChildren
func (r *ProcessoRepository) ListRoots(ctx context.Context, q db.Querier) ([]*models.Processo, error) {
	query := `
		SELECT ` + processoColumns + `
		FROM processos
		WHERE id_pai IS NULL
		ORDER BY COALESCE(ordem, 0) ASC, id ASC
	`

	rows, err := querierOr(q, r.db).Query(ctx, query)
	if err != nil {
		return nil, wrapStorage("list roots", err)
	}
	return collectProcessos(rows)
}

// ListAll returns every process. The hierarchy builder fetches the whole
// forest once and assembles it in memory instead of walking with point
// queries per level.
func (r *ProcessoRepository) ListAll(ctx context.Context, q db.Querier) ([]*models.Processo, error) {
	query := `SELECT ` + processoColumns + ` FROM processos ORDER BY COALESCE(ordem, 0) ASC, id ASC`

	rows, err := querierOr(q, r.db).Query(ctx, query)
	if err != nil {
		return nil, wrapStorage("list processos", err)
	}
	return collectProcessos(rows)
}

// Update applies a sparse patch; only non-nil fields are written
func (r *ProcessoRepository) Update(ctx context.Context, q db.Querier, id int64, patch models.ProcessoPatch) error {
	sets := []string{}
	args := []any{id}

	add := func(col string, val any) {
		args = append(args, val)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	if patch.IDPai != nil {
		add("id_pai", *patch.IDPai)
	}
	if patch.IDArea != nil {
		add("id_area", *patch.IDArea)
	}
	if patch.Ordem != nil {
		add("ordem", *patch.Ordem)
	}
	if patch.Titulo != nil {
		add("titulo", *patch.Titulo)
	}
	if patch.DataPublicacao != nil {
		add("data_publicacao", *patch.DataPublicacao)
	}

	if len(sets) == 0 {
		return nil
	}

	query := fmt.Sprintf(`UPDATE processos SET %s WHERE id = $1`, strings.Join(sets, ", "))

	tag, err := querierOr(q, r.db).Exec(ctx, query, args...)
	if err != nil {
		return wrapStorage("update processo", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("processo", id)
	}
	return nil
}

// SetParent rewrites the parent link and sibling order in one statement
func (r *ProcessoRepository) SetParent(ctx context.Context, q db.Querier, id int64, parentID *int64, ordem *int) error {
	query := `UPDATE processos SET id_pai = $2, ordem = $3 WHERE id = $1`

	tag, err := querierOr(q, r.db).Exec(ctx, query, id, parentID, ordem)
	if err != nil {
		return wrapStorage("set processo parent", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("processo", id)
	}
	return nil
}

// Delete removes a single process row
func (r *ProcessoRepository) Delete(ctx context.Context, q db.Querier, id int64) error {
	tag, err := querierOr(q, r.db).Exec(ctx, `DELETE FROM processos WHERE id = $1`, id)
	if err != nil {
		return wrapStorage("delete processo", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("processo", id)
	}
	return nil
}

// SearchByTitle is the broad ILIKE prefilter over titulo for the ranking engine
func (r *ProcessoRepository) SearchByTitle(ctx context.Context, q db.Querier, patterns []string, limit int) ([]*models.Processo, error) {
	if len(patterns) == 0 {
		return nil, nil
	}

	args := []any{}
	where := ilikeClause([]string{"titulo"}, patterns, &args)
	args = append(args, limit)

	query := fmt.Sprintf(
		`SELECT `+processoColumns+` FROM processos WHERE %s LIMIT $%d`,
		where, len(args),
	)

	rows, err := querierOr(q, r.db).Query(ctx, query, args...)
	if err != nil {
		return nil, wrapStorage("search processos", err)
	}
	return collectProcessos(rows)
}
