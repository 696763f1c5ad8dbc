package repository

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/sucupira/processmap/common/apperr"
	"github.com/sucupira/processmap/common/db"
)

// uniqueViolation is the Postgres error code raised when a storage
// constraint fires, e.g. two concurrent upserts racing on a natural key.
const uniqueViolation = "23505"

// wrapStorage converts a backing-store error into the domain error kinds:
// unique-constraint violations become Conflict, everything else a
// StorageFailure. Never returns nil for a non-nil err.
func wrapStorage(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("%s: %v: %w", op, err, apperr.ErrConflict)
	}
	return apperr.Storage(op, err)
}

// ilikeClause builds "(col1 ILIKE $n OR col2 ILIKE $n OR ...)" for every
// pattern across every column, appending the pattern arguments to args.
// The OR-of-everything shape is the broad prefilter the ranking engine
// narrows down in memory.
func ilikeClause(columns []string, patterns []string, args *[]any) string {
	var parts []string
	for _, pattern := range patterns {
		*args = append(*args, pattern)
		n := len(*args)
		for _, col := range columns {
			parts = append(parts, fmt.Sprintf("%s ILIKE $%d", col, n))
		}
	}
	return "(" + strings.Join(parts, " OR ") + ")"
}

// querierOr returns q when non-nil, otherwise the repository's pool.
// Services pass a transaction when an operation must be atomic.
func querierOr(q db.Querier, fallback db.Querier) db.Querier {
	if q != nil {
		return q
	}
	return fallback
}
