package pgsql

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/p-karari/hms-sub002/internal/apperrors"
)

// Postgres SQLSTATE codes the ledger reacts to.
const (
	pgUniqueViolation      = "23505"
	pgCheckViolation       = "23514"
	pgForeignKeyViolation  = "23503"
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
	pgStringTooLong        = "22001"
	pgNumericOutOfRange    = "22003"

	billCorrelationIDConstraint = "bills_correlation_id_key"
)

type txCtxKey struct{}

// queryable is satisfied by both *pgxpool.Pool and pgx.Tx.
type queryable interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// BaseRepository provides common functionality for all repositories
type BaseRepository struct {
	Pool *pgxpool.Pool
}

func txFromContext(ctx context.Context) pgx.Tx {
	tx, _ := ctx.Value(txCtxKey{}).(pgx.Tx)
	return tx
}

// conn returns the transaction carried by ctx, or the pool outside a unit of work.
func (r *BaseRepository) conn(ctx context.Context) queryable {
	if tx := txFromContext(ctx); tx != nil {
		return tx
	}
	return r.Pool
}

// WithTx runs fn inside a read-committed transaction carried by the context.
func (r *BaseRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if txFromContext(ctx) != nil {
		return fn(ctx)
	}

	tx, err := r.Pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return apperrors.NewAppError(http.StatusInternalServerError, "failed to begin transaction", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = r.Rollback(ctx, tx)
			panic(p)
		}
	}()

	if err := fn(context.WithValue(ctx, txCtxKey{}, tx)); err != nil {
		_ = r.Rollback(ctx, tx)
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return mapPgError(err, "failed to commit transaction")
	}
	return nil
}

// Rollback rolls back a transaction
func (r *BaseRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	if err := tx.Rollback(context.WithoutCancel(ctx)); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return apperrors.NewAppError(http.StatusInternalServerError, "failed to rollback transaction", err)
	}
	return nil
}

// requireTx guards operations whose locking semantics only hold inside a transaction.
func requireTx(ctx context.Context, op string) error {
	if txFromContext(ctx) == nil {
		return apperrors.NewAppError(http.StatusInternalServerError, op+" must run inside a transaction", nil)
	}
	return nil
}

// mapPgError translates driver errors into the application error taxonomy.
func mapPgError(err error, msg string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewNotFoundError(msg)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			if pgErr.ConstraintName == billCorrelationIDConstraint {
				return apperrors.NewAppError(http.StatusConflict, msg, apperrors.ErrDuplicateCorrelationID)
			}
			return apperrors.NewAppError(http.StatusConflict, msg, fmt.Errorf("%w: %s", apperrors.ErrConflict, pgErr.ConstraintName))
		case pgSerializationFailure, pgDeadlockDetected:
			return apperrors.NewAppError(http.StatusConflict, msg, fmt.Errorf("%w: %s", apperrors.ErrConflict, pgErr.Message))
		case pgCheckViolation:
			return apperrors.NewAppError(http.StatusBadRequest, msg, fmt.Errorf("%w: %s", apperrors.ErrValidation, pgErr.ConstraintName))
		case pgStringTooLong, pgNumericOutOfRange:
			return apperrors.NewAppError(http.StatusBadRequest, msg, fmt.Errorf("%w: %s", apperrors.ErrValidation, pgErr.Message))
		case pgForeignKeyViolation:
			return apperrors.NewAppError(http.StatusNotFound, msg, fmt.Errorf("%w: %s", apperrors.ErrNotFound, pgErr.ConstraintName))
		}
	}
	return apperrors.NewAppError(http.StatusInternalServerError, msg, err)
}

// expectOneRow maps an UPDATE that touched no row to the given sentinel.
func expectOneRow(tag pgconn.CommandTag, notMatched func() error) error {
	if tag.RowsAffected() == 0 {
		return notMatched()
	}
	return nil
}
