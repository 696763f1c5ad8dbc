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

const metadadosColumns = `id, id_mapa, id_atividade, nome, lgpd, dados`

// MetadadosRepository handles database operations for metadata records
type MetadadosRepository struct {
	db *db.DB
}

// NewMetadadosRepository creates a new metadata repository
func NewMetadadosRepository(db *db.DB) *MetadadosRepository {
	return &MetadadosRepository{db: db}
}

func scanMetadados(row pgx.Row) (*models.Metadados, error) {
	m := &models.Metadados{}
	err := row.Scan(&m.ID, &m.IDMapa, &m.IDAtividade, &m.Nome, &m.LGPD, &m.Dados)
	if err != nil {
		return nil, err
	}
	return m, nil
}

func collectMetadados(rows pgx.Rows) ([]*models.Metadados, error) {
	defer rows.Close()

	var out []*models.Metadados
	for rows.Next() {
		m, err := scanMetadados(rows)
		if err != nil {
			return nil, fmt.Errorf("scan metadados: %w", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate metadados: %w", err)
	}
	return out, nil
}

// Get fetches a metadata record by surrogate id, or NotFound
func (r *MetadadosRepository) Get(ctx context.Context, q db.Querier, id int64) (*models.Metadados, error) {
	query := `SELECT ` + metadadosColumns + ` FROM metadados WHERE id = $1`

	m, err := scanMetadados(querierOr(q, r.db).QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("metadados", id)
		}
		return nil, wrapStorage("get metadados", err)
	}
	return m, nil
}

// UpsertByKey inserts or replaces a record by its natural key in a single
// atomic statement. Two concurrent upserts on the same key cannot produce
// two rows: the unique constraint serializes them. The surrogate id is
// preserved on replace.
func (r *MetadadosRepository) UpsertByKey(ctx context.Context, q db.Querier, m *models.Metadados) error {
	query := `
		INSERT INTO metadados (id_mapa, id_atividade, nome, lgpd, dados)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id_mapa, id_atividade, nome)
		DO UPDATE SET lgpd = EXCLUDED.lgpd, dados = EXCLUDED.dados
		RETURNING id
	`

	err := querierOr(q, r.db).QueryRow(ctx, query,
		m.IDMapa, m.IDAtividade, m.Nome, m.LGPD, m.Dados,
	).Scan(&m.ID)
	if err != nil {
		return wrapStorage("upsert metadados", err)
	}
	return nil
}

// Update applies a sparse patch by surrogate id
func (r *MetadadosRepository) Update(ctx context.Context, q db.Querier, id int64, patch models.MetadadosPatch) error {
	sets := []string{}
	args := []any{id}

	add := func(col string, val any) {
		args = append(args, val)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	if patch.IDAtividade != nil {
		add("id_atividade", *patch.IDAtividade)
	}
	if patch.Nome != nil {
		add("nome", *patch.Nome)
	}
	if patch.LGPD != nil {
		add("lgpd", *patch.LGPD)
	}
	if patch.Dados != nil {
		add("dados", *patch.Dados)
	}

	if len(sets) == 0 {
		return nil
	}

	query := fmt.Sprintf(`UPDATE metadados SET %s WHERE id = $1`, strings.Join(sets, ", "))

	tag, err := querierOr(q, r.db).Exec(ctx, query, args...)
	if err != nil {
		return wrapStorage("update metadados", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("metadados", id)
	}
	return nil
}

// ListByKey returns the records of one (diagram, activity) pair
func (r *MetadadosRepository) ListByKey(ctx context.Context, q db.Querier, idMapa int64, idAtividade string) ([]*models.Metadados, error) {
	query := `
		SELECT ` + metadadosColumns + `
		FROM metadados
		WHERE id_mapa = $1 AND id_atividade = $2
		ORDER BY id ASC
	`

	rows, err := querierOr(q, r.db).Query(ctx, query, idMapa, idAtividade)
	if err != nil {
		return nil, wrapStorage("list metadados by key", err)
	}
	return collectMetadados(rows)
}

// ListAll returns every metadata record
func (r *MetadadosRepository) ListAll(ctx context.Context, q db.Querier) ([]*models.Metadados, error) {
	query := `SELECT ` + metadadosColumns + ` FROM metadados ORDER BY id ASC`

	rows, err := querierOr(q, r.db).Query(ctx, query)
	if err != nil {
		return nil, wrapStorage("list metadados", err)
	}
	return collectMetadados(rows)
}

// Delete removes a metadata record
func (r *MetadadosRepository) Delete(ctx context.Context, q db.Querier, id int64) error {
	tag, err := querierOr(q, r.db).Exec(ctx, `DELETE FROM metadados WHERE id = $1`, id)
	if err != nil {
		return wrapStorage("delete metadados", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("metadados", id)
	}
	return nil
}

// DeleteByMapas removes all records owned by the given diagrams
func (r *MetadadosRepository) DeleteByMapas(ctx context.Context, q db.Querier, mapaIDs []int64) error {
	if len(mapaIDs) == 0 {
		return nil
	}
	_, err := querierOr(q, r.db).Exec(ctx,
		`DELETE FROM metadados WHERE id_mapa = ANY($1)`, mapaIDs)
	if err != nil {
		return wrapStorage("delete metadados by mapas", err)
	}
	return nil
}

// Search is the broad ILIKE prefilter over nome, lgpd and id_atividade.
// With includePayload the serialized dados list is matched too, which backs
// the payload-restricted search.
func (r *MetadadosRepository) Search(ctx context.Context, q db.Querier, patterns []string, limit int, includePayload bool) ([]*models.Metadados, error) {
	if len(patterns) == 0 {
		return nil, nil
	}

	columns := []string{"nome", "lgpd", "id_atividade"}
	if includePayload {
		columns = append(columns, "dados::text")
	}

	args := []any{}
	where := ilikeClause(columns, patterns, &args)
	args = append(args, limit)

	query := fmt.Sprintf(
		`SELECT `+metadadosColumns+` FROM metadados WHERE %s LIMIT $%d`,
		where, len(args),
	)

	rows, err := querierOr(q, r.db).Query(ctx, query, args...)
	if err != nil {
		return nil, wrapStorage("search metadados", err)
	}
	return collectMetadados(rows)
}
