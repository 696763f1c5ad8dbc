package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/sucupira/processmap/common/db"
	"github.com/sucupira/processmap/common/models"
)

// AssociacaoRepository handles the macro-process/process link table
type AssociacaoRepository struct {
	db *db.DB
}

// NewAssociacaoRepository creates a new association repository
func NewAssociacaoRepository(db *db.DB) *AssociacaoRepository {
	return &AssociacaoRepository{db: db}
}

// GetByProcesso returns the association owning a process, or nil when the
// process is not grouped under any macro-process.
func (r *AssociacaoRepository) GetByProcesso(ctx context.Context, q db.Querier, processoID int64) (*models.Associacao, error) {
	query := `
		SELECT id, macro_processo_id, processo_id, ordem
		FROM macro_processo_processo
		WHERE processo_id = $1
	`

	a := &models.Associacao{}
	err := querierOr(q, r.db).QueryRow(ctx, query, processoID).Scan(&a.ID, &a.MacroProcessoID, &a.ProcessoID, &a.Ordem)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrapStorage("get associacao", err)
	}
	return a, nil
}

// Upsert places a process under a macro-process, replacing any previous
// association in one atomic statement. The UNIQUE(processo_id) constraint
// guarantees at most one association per process.
func (r *AssociacaoRepository) Upsert(ctx context.Context, q db.Querier, a *models.Associacao) error {
	query := `
		INSERT INTO macro_processo_processo (macro_processo_id, processo_id, ordem)
		VALUES ($1, $2, $3)
		ON CONFLICT (processo_id)
		DO UPDATE SET macro_processo_id = EXCLUDED.macro_processo_id, ordem = EXCLUDED.ordem
		RETURNING id
	`

	err := querierOr(q, r.db).QueryRow(ctx, query, a.MacroProcessoID, a.ProcessoID, a.Ordem).Scan(&a.ID)
	if err != nil {
		return wrapStorage("upsert associacao", err)
	}
	return nil
}

// DeleteByProcesso drops the association of a process, if any
func (r *AssociacaoRepository) DeleteByProcesso(ctx context.Context, q db.Querier, processoID int64) error {
	_, err := querierOr(q, r.db).Exec(ctx,
		`DELETE FROM macro_processo_processo WHERE processo_id = $1`, processoID)
	if err != nil {
		return wrapStorage("delete associacao", err)
	}
	return nil
}

// DeleteByMacro drops every association of a macro-process
func (r *AssociacaoRepository) DeleteByMacro(ctx context.Context, q db.Querier, macroID int64) error {
	_, err := querierOr(q, r.db).Exec(ctx,
		`DELETE FROM macro_processo_processo WHERE macro_processo_id = $1`, macroID)
	if err != nil {
		return wrapStorage("delete associacoes by macro", err)
	}
	return nil
}

// ListByMacro returns a macro-process's associations ordered by ordem
// (nulls as 0), ties broken by ascending id.
func (r *AssociacaoRepository) ListByMacro(ctx context.Context, q db.Querier, macroID int64) ([]*models.Associacao, error) {
	query := `
		SELECT id, macro_processo_id, processo_id, ordem
		FROM macro_processo_processo
		WHERE macro_processo_id = $1
		ORDER BY COALESCE(ordem, 0) ASC, id ASC
	`

	rows, err := querierOr(q, r.db).Query(ctx, query, macroID)
	if err != nil {
		return nil, wrapStorage("list associacoes", err)
	}
	return collectAssociacoes(rows)
}

// ListAll returns every association, ordered for the hierarchy builder
func (r *AssociacaoRepository) ListAll(ctx context.Context, q db.Querier) ([]*models.Associacao, error) {
	query := `
		SELECT id, macro_processo_id, processo_id, ordem
		FROM macro_processo_processo
		ORDER BY macro_processo_id ASC, COALESCE(ordem, 0) ASC, id ASC
	`

	rows, err := querierOr(q, r.db).Query(ctx, query)
	if err != nil {
		return nil, wrapStorage("list associacoes", err)
	}
	return collectAssociacoes(rows)
}

func collectAssociacoes(rows pgx.Rows) ([]*models.Associacao, error) {
	defer rows.Close()

	var out []*models.Associacao
	for rows.Next() {
		a := &models.Associacao{}
		if err := rows.Scan(&a.ID, &a.MacroProcessoID, &a.ProcessoID, &a.Ordem); err != nil {
			return nil, fmt.Errorf("scan associacao: %w", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate associacoes: %w", err)
	}
	return out, nil
}
