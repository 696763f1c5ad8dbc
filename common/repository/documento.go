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

// DocumentoRepository handles database operations for documents
type DocumentoRepository struct {
	db *db.DB
}

// NewDocumentoRepository creates a new document repository
func NewDocumentoRepository(db *db.DB) *DocumentoRepository {
	return &DocumentoRepository{db: db}
}

// Get fetches a document by id, or NotFound
func (r *DocumentoRepository) Get(ctx context.Context, q db.Querier, id int64) (*models.Documento, error) {
	query := `SELECT id, id_proc, nome_documento, link FROM documentos WHERE id = $1`

	d := &models.Documento{}
	err := querierOr(q, r.db).QueryRow(ctx, query, id).Scan(&d.ID, &d.IDProc, &d.NomeDocumento, &d.Link)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("documento", id)
		}
		return nil, wrapStorage("get documento", err)
	}
	return d, nil
}

// Create inserts a new document
func (r *DocumentoRepository) Create(ctx context.Context, q db.Querier, d *models.Documento) error {
	query := `INSERT INTO documentos (id_proc, nome_documento, link) VALUES ($1, $2, $3) RETURNING id`

	err := querierOr(q, r.db).QueryRow(ctx, query, d.IDProc, d.NomeDocumento, d.Link).Scan(&d.ID)
	if err != nil {
		return wrapStorage("create documento", err)
	}
	return nil
}

// ListByProcesso returns the documents linked to a process
func (r *DocumentoRepository) ListByProcesso(ctx context.Context, q db.Querier, processoID int64) ([]*models.Documento, error) {
	query := `SELECT id, id_proc, nome_documento, link FROM documentos WHERE id_proc = $1 ORDER BY id ASC`

	rows, err := querierOr(q, r.db).Query(ctx, query, processoID)
	if err != nil {
		return nil, wrapStorage("list documentos", err)
	}
	return collectDocumentos(rows)
}

// Delete removes a document row
func (r *DocumentoRepository) Delete(ctx context.Context, q db.Querier, id int64) error {
	tag, err := querierOr(q, r.db).Exec(ctx, `DELETE FROM documentos WHERE id = $1`, id)
	if err != nil {
		return wrapStorage("delete documento", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("documento", id)
	}
	return nil
}

// DeleteByProcesso drops all documents linked to a process
func (r *DocumentoRepository) DeleteByProcesso(ctx context.Context, q db.Querier, processoID int64) error {
	_, err := querierOr(q, r.db).Exec(ctx, `DELETE FROM documentos WHERE id_proc = $1`, processoID)
	if err != nil {
		return wrapStorage("delete documentos by processo", err)
	}
	return nil
}

// Search is the broad ILIKE prefilter over nome_documento and link
func (r *DocumentoRepository) Search(ctx context.Context, q db.Querier, patterns []string, limit int) ([]*models.Documento, error) {
	if len(patterns) == 0 {
		return nil, nil
	}

	args := []any{}
	where := ilikeClause([]string{"nome_documento", "link"}, patterns, &args)
	args = append(args, limit)

	query := fmt.Sprintf(
		`SELECT id, id_proc, nome_documento, link FROM documentos WHERE %s LIMIT $%d`,
		where, len(args),
	)

	rows, err := querierOr(q, r.db).Query(ctx, query, args...)
	if err != nil {
		return nil, wrapStorage("search documentos", err)
	}
	return collectDocumentos(rows)
}

func collectDocumentos(rows pgx.Rows) ([]*models.Documento, error) {
	defer rows.Close()

	var out []*models.Documento
	for rows.Next() {
		d := &models.Documento{}
		if err := rows.Scan(&d.ID, &d.IDProc, &d.NomeDocumento, &d.Link); err != nil {
			return nil, fmt.Errorf("scan documento: %w", err)
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate documentos: %w", err)
	}
	return out, nil
}
