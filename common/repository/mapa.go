package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/sucupira/processmap/common/apperr"
	"github.com/sucupira/processmap/common/db"
	"github.com/sucupira/processmap/common/models"
)

const mapaColumns = `id, id_proc, titulo, status, xml, data_criacao, data_modificacao`

// MapaRepository handles database operations for diagrams
type MapaRepository struct {
	db *db.DB
}

// NewMapaRepository creates a new diagram repository
func NewMapaRepository(db *db.DB) *MapaRepository {
	return &MapaRepository{db: db}
}

func scanMapa(row pgx.Row) (*models.Mapa, error) {
	m := &models.Mapa{}
	err := row.Scan(&m.ID, &m.IDProc, &m.Titulo, &m.Status, &m.XML, &m.DataCriacao, &m.DataModificacao)
	if err != nil {
		return nil, err
	}
	return m, nil
}

func collectMapas(rows pgx.Rows) ([]*models.Mapa, error) {
	defer rows.Close()

	var out []*models.Mapa
	for rows.Next() {
		m, err := scanMapa(rows)
		if err != nil {
			return nil, fmt.Errorf("scan mapa: %w", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate mapas: %w", err)
	}
	return out, nil
}

// Get fetches a diagram by id, or NotFound. A miss is a miss: no default
// body is fabricated on read.
func (r *MapaRepository) Get(ctx context.Context, q db.Querier, id int64) (*models.Mapa, error) {
	query := `SELECT ` + mapaColumns + ` FROM mapas WHERE id = $1`

	m, err := scanMapa(querierOr(q, r.db).QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("mapa", id)
		}
		return nil, wrapStorage("get mapa", err)
	}
	return m, nil
}

// Create inserts a new diagram
func (r *MapaRepository) Create(ctx context.Context, q db.Querier, m *models.Mapa) error {
	query := `
		INSERT INTO mapas (id_proc, titulo, status, xml)
		VALUES ($1, $2, $3, $4)
		RETURNING id, data_criacao, data_modificacao
	`

	err := querierOr(q, r.db).QueryRow(ctx, query, m.IDProc, m.Titulo, m.Status, m.XML).
		Scan(&m.ID, &m.DataCriacao, &m.DataModificacao)
	if err != nil {
		return wrapStorage("create mapa", err)
	}
	return nil
}

// ListByProcesso returns the diagrams owned by a process
func (r *MapaRepository) ListByProcesso(ctx context.Context, q db.Querier, processoID int64) ([]*models.Mapa, error) {
	query := `SELECT ` + mapaColumns + ` FROM mapas WHERE id_proc = $1 ORDER BY id ASC`

	rows, err := querierOr(q, r.db).Query(ctx, query, processoID)
	if err != nil {
		return nil, wrapStorage("list mapas by processo", err)
	}
	return collectMapas(rows)
}

// ListAll returns every diagram; the hierarchy builder attaches them to
// their owning nodes in memory.
func (r *MapaRepository) ListAll(ctx context.Context, q db.Querier) ([]*models.Mapa, error) {
	query := `SELECT ` + mapaColumns + ` FROM mapas ORDER BY id_proc ASC, id ASC`

	rows, err := querierOr(q, r.db).Query(ctx, query)
	if err != nil {
		return nil, wrapStorage("list mapas", err)
	}
	return collectMapas(rows)
}

// SaveXML replaces the diagram body and bumps the modification timestamp
func (r *MapaRepository) SaveXML(ctx context.Context, q db.Querier, id int64, xml string) error {
	query := `UPDATE mapas SET xml = $2, data_modificacao = NOW() WHERE id = $1`

	tag, err := querierOr(q, r.db).Exec(ctx, query, id, xml)
	if err != nil {
		return wrapStorage("save mapa xml", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("mapa", id)
	}
	return nil
}

// SetStatus updates the lifecycle status and bumps the modification timestamp
func (r *MapaRepository) SetStatus(ctx context.Context, q db.Querier, id int64, status models.MapaStatus) error {
	query := `UPDATE mapas SET status = $2, data_modificacao = NOW() WHERE id = $1`

	tag, err := querierOr(q, r.db).Exec(ctx, query, id, status)
	if err != nil {
		return wrapStorage("set mapa status", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("mapa", id)
	}
	return nil
}

// SetProcesso reassigns the owning process
func (r *MapaRepository) SetProcesso(ctx context.Context, q db.Querier, id, processoID int64) error {
	query := `UPDATE mapas SET id_proc = $2, data_modificacao = NOW() WHERE id = $1`

	tag, err := querierOr(q, r.db).Exec(ctx, query, id, processoID)
	if err != nil {
		return wrapStorage("move mapa", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("mapa", id)
	}
	return nil
}

// SetTitulo renames the diagram and bumps the modification timestamp
func (r *MapaRepository) SetTitulo(ctx context.Context, q db.Querier, id int64, titulo string) error {
	query := `UPDATE mapas SET titulo = $2, data_modificacao = NOW() WHERE id = $1`

	tag, err := querierOr(q, r.db).Exec(ctx, query, id, titulo)
	if err != nil {
		return wrapStorage("rename mapa", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("mapa", id)
	}
	return nil
}

// Delete removes a diagram row
func (r *MapaRepository) Delete(ctx context.Context, q db.Querier, id int64) error {
	tag, err := querierOr(q, r.db).Exec(ctx, `DELETE FROM mapas WHERE id = $1`, id)
	if err != nil {
		return wrapStorage("delete mapa", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("mapa", id)
	}
	return nil
}

// DeleteByProcesso removes all diagrams owned by a process and returns
// their ids so the caller can cascade onto metadata.
func (r *MapaRepository) DeleteByProcesso(ctx context.Context, q db.Querier, processoID int64) ([]int64, error) {
	query := `DELETE FROM mapas WHERE id_proc = $1 RETURNING id`

	rows, err := querierOr(q, r.db).Query(ctx, query, processoID)
	if err != nil {
		return nil, wrapStorage("delete mapas by processo", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan deleted mapa id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate deleted mapa ids: %w", err)
	}
	return ids, nil
}

// SearchByText is the broad ILIKE prefilter over titulo and status
func (r *MapaRepository) SearchByText(ctx context.Context, q db.Querier, patterns []string, limit int) ([]*models.Mapa, error) {
	if len(patterns) == 0 {
		return nil, nil
	}

	args := []any{}
	where := ilikeClause([]string{"titulo", "status"}, patterns, &args)
	args = append(args, limit)

	query := fmt.Sprintf(
		`SELECT `+mapaColumns+` FROM mapas WHERE %s LIMIT $%d`,
		where, len(args),
	)

	rows, err := querierOr(q, r.db).Query(ctx, query, args...)
	if err != nil {
		return nil, wrapStorage("search mapas", err)
	}
	return collectMapas(rows)
}

// ProcessoComStatus is one row of the dashboard join between a process and
// its diagram.
type ProcessoComStatus struct {
	ProcessoID      int64             `json:"id"`
	Titulo          string            `json:"titulo"`
	Status          models.MapaStatus `json:"status"`
	DataModificacao time.Time         `json:"data_modificacao"`
}

// CountByStatus aggregates process counts per diagram status
func (r *MapaRepository) CountByStatus(ctx context.Context, q db.Querier) (map[models.MapaStatus]int64, error) {
	query := `
		SELECT m.status, COUNT(p.id)
		FROM mapas m
		JOIN processos p ON m.id_proc = p.id
		GROUP BY m.status
	`

	rows, err := querierOr(q, r.db).Query(ctx, query)
	if err != nil {
		return nil, wrapStorage("count mapas by status", err)
	}
	defer rows.Close()

	counts := make(map[models.MapaStatus]int64)
	for rows.Next() {
		var status models.MapaStatus
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("scan status count: %w", err)
		}
		counts[status] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate status counts: %w", err)
	}
	return counts, nil
}

// RecentByModification returns the most recently modified processes joined
// with their diagram status, optionally filtered by status.
func (r *MapaRepository) RecentByModification(ctx context.Context, q db.Querier, status models.MapaStatus, limit int) ([]*ProcessoComStatus, error) {
	query := `
		SELECT p.id, p.titulo, m.status, m.data_modificacao
		FROM processos p
		JOIN mapas m ON p.id = m.id_proc
	`
	args := []any{}
	if status != "" {
		args = append(args, status)
		query += ` WHERE m.status = $1`
	}
	args = append(args, limit)
	query += fmt.Sprintf(` ORDER BY m.data_modificacao DESC LIMIT $%d`, len(args))

	rows, err := querierOr(q, r.db).Query(ctx, query, args...)
	if err != nil {
		return nil, wrapStorage("recent processos", err)
	}
	defer rows.Close()

	var out []*ProcessoComStatus
	for rows.Next() {
		rec := &ProcessoComStatus{}
		if err := rows.Scan(&rec.ProcessoID, &rec.Titulo, &rec.Status, &rec.DataModificacao); err != nil {
			return nil, fmt.Errorf("scan recent processo: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate recent processos: %w", err)
	}
	return out, nil
}

// CountWithStatus counts processes that own a diagram, optionally filtered
func (r *MapaRepository) CountWithStatus(ctx context.Context, q db.Querier, status models.MapaStatus) (int64, error) {
	query := `SELECT COUNT(p.id) FROM processos p JOIN mapas m ON p.id = m.id_proc`
	args := []any{}
	if status != "" {
		args = append(args, status)
		query += ` WHERE m.status = $1`
	}

	var count int64
	if err := querierOr(q, r.db).QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, wrapStorage("count processos with status", err)
	}
	return count, nil
}
