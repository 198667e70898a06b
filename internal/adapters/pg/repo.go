package pg

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/robertarktes/arenalink/internal/domain"
	"github.com/robertarktes/arenalink/internal/observability"
)

const (
	SerializationFailureCode = "40001"
	UniqueViolationCode      = "23505"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

// WithTx runs fn in a SERIALIZABLE transaction and commits when fn returns nil.
func (r *Repository) WithTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	start := time.Now()
	defer func() { observability.DBTxDuration.Observe(time.Since(start).Seconds()) }()

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return errors.Wrap(err, "begin tx")
	}
	defer tx.Rollback(ctx)

	if err := fn(tx); err != nil {
		return mapErr(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return mapErr(errors.Wrap(err, "commit tx"))
	}
	return nil
}

// mapErr translates driver errors into domain sentinels, keeping the
// original error as context.
func mapErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return errors.Mark(err, domain.ErrNotFound)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case SerializationFailureCode:
			return errors.Mark(err, domain.ErrSerializationFailure)
		case UniqueViolationCode:
			return errors.Mark(err, domain.ErrConflict)
		}
	}
	return err
}

// updateSQL builds "UPDATE table SET c1 = $2, ... WHERE id = $1 RETURNING cols".
func updateSQL(table, id string, fields []domain.Field, touch bool, returning string) (string, []any) {
	sets := make([]string, 0, len(fields)+1)
	args := make([]any, 0, len(fields)+1)
	args = append(args, id)
	for _, f := range fields {
		args = append(args, f.Value)
		sets = append(sets, f.Column+" = $"+strconv.Itoa(len(args)))
	}
	if touch {
		sets = append(sets, "updated_at = now()")
	}
	return "UPDATE " + table + " SET " + strings.Join(sets, ", ") + " WHERE id = $1 RETURNING " + returning, args
}
