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

// AreaRepository handles database operations for areas
type AreaRepository struct {
	db *db.DB
}

// NewAreaRepository creates a new area repository
func NewAreaRepository(db *db.DB) *AreaRepository {
	return &AreaRepository{db: db}
}

// Get fetches an area by id, or NotFound
func (r *AreaRepository) Get(ctx context.Context, q db.Querier, id int64) (*models.Area, error) {
	query := `SELECT id, nome_area, sigla, tipo FROM areas WHERE id = $1`

	a := &models.Area{}
	err := querierOr(q, r.db).QueryRow(ctx, query, id).Scan(&a.ID, &a.NomeArea, &a.Sigla, &a.Tipo)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("area", id)
		}
		return nil, wrapStorage("get area", err)
	}
	return a, nil
}

// Create inserts a new area
func (r *AreaRepository) Create(ctx context.Context, q db.Querier, a *models.Area) error {
	query := `INSERT INTO areas (nome_area, sigla, tipo) VALUES ($1, $2, $3) RETURNING id`

	err := querierOr(q, r.db).QueryRow(ctx, query, a.NomeArea, a.Sigla, a.Tipo).Scan(&a.ID)
	if err != nil {
		return wrapStorage("create area", err)
	}
	return nil
}

// List returns all areas
func (r *AreaRepository) List(ctx context.Context, q db.Querier) ([]*models.Area, error) {
	query := `SELECT id, nome_area, sigla, tipo FROM areas ORDER BY id ASC`

	rows, err := querierOr(q, r.db).Query(ctx, query)
	if err != nil {
		return nil, wrapStorage("list areas", err)
	}
	return collectAreas(rows)
}

// Delete removes an area row
func (r *AreaRepository) Delete(ctx context.Context, q db.Querier, id int64) error {
	tag, err := querierOr(q, r.db).Exec(ctx, `DELETE FROM areas WHERE id = $1`, id)
	if err != nil {
		return wrapStorage("delete area", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("area", id)
	}
	return nil
}

// Search is the broad ILIKE prefilter over nome_area and sigla
func (r *AreaRepository) Search(ctx context.Context, q db.Querier, patterns []string, limit int) ([]*models.Area, error) {
	if len(patterns) == 0 {
		return nil, nil
	}

	args := []any{}
	where := ilikeClause([]string{"nome_area", "sigla"}, patterns, &args)
	args = append(args, limit)

	query := fmt.Sprintf(
		`SELECT id, nome_area, sigla, tipo FROM areas WHERE %s LIMIT $%d`,
		where, len(args),
	)

	rows, err := querierOr(q, r.db).Query(ctx, query, args...)
	if err != nil {
		return nil, wrapStorage("search areas", err)
	}
	return collectAreas(rows)
}

func collectAreas(rows pgx.Rows) ([]*models.Area, error) {
	defer rows.Close()

	var out []*models.Area
	for rows.Next() {
		a := &models.Area{}
		if err := rows.Scan(&a.ID, &a.NomeArea, &a.Sigla, &a.Tipo); err != nil {
			return nil, fmt.Errorf("scan area: %w", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate areas: %w", err)
	}
	return out, nil
}
