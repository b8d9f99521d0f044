package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/p-karari/hms-sub002/internal/apperrors"
	"github.com/p-karari/hms-sub002/internal/core/domain"
	portsrepo "github.com/p-karari/hms-sub002/internal/core/ports/repositories"
	"github.com/p-karari/hms-sub002/internal/middleware"
)

// DefaultMaxAttempts bounds how often a unit of work is replayed after a conflict.
const DefaultMaxAttempts uint = 5

// BaseService provides common functionality for all ledger services
type BaseService struct {
	Repo        portsrepo.LedgerRepositoryWithTx
	Identity    portsrepo.IdentityResolver
	Cache       portsrepo.BillListingCache
	MaxAttempts uint
	Now         func() time.Time

	settlement *settlementEngine
}

// ServiceOption configures optional BaseService dependencies.
type ServiceOption func(*BaseService)

// WithBillListingCache enables caching of active patient bill listings.
func WithBillListingCache(cache portsrepo.BillListingCache) ServiceOption {
	return func(s *BaseService) {
		s.Cache = cache
	}
}

// WithMaxAttempts overrides DefaultMaxAttempts.
func WithMaxAttempts(n uint) ServiceOption {
	return func(s *BaseService) {
		if n > 0 {
			s.MaxAttempts = n
		}
	}
}

// WithClock overrides the time source used for audit stamps.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *BaseService) {
		if now != nil {
			s.Now = now
		}
	}
}

func newBaseService(repo portsrepo.LedgerRepositoryWithTx, identity portsrepo.IdentityResolver, receipts portsrepo.ReceiptNumberGenerator, opts ...ServiceOption) BaseService {
	s := BaseService{
		Repo:        repo,
		Identity:    identity,
		MaxAttempts: DefaultMaxAttempts,
		Now:         func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(&s)
	}
	s.settlement = &settlementEngine{repo: repo, receipts: receipts}
	return s
}

// GetLogger gets the logger from context or returns a default one
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	return middleware.GetLoggerFromCtx(ctx)
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	args := make([]any, 0, len(keyvals)+1)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	s.GetLogger(ctx).Error(msg, args...)
}

// logFailure logs expected client errors at warn level and everything else at error level.
func (s *BaseService) logFailure(ctx context.Context, err error, msg string, keyvals ...any) {
	if errors.Is(err, apperrors.ErrValidation) || errors.Is(err, apperrors.ErrNotFound) || errors.Is(err, apperrors.ErrUnauthorized) {
		args := append([]any{slog.String("error", err.Error())}, keyvals...)
		s.GetLogger(ctx).Warn(msg, args...)
		return
	}
	s.LogError(ctx, err, msg, keyvals...)
}

// resolveActor maps the session user handle to the internal user id stamped on rows.
func (s *BaseService) resolveActor(ctx context.Context, actorHandle string) (*domain.UserRef, error) {
	if strings.TrimSpace(actorHandle) == "" {
		return nil, fmt.Errorf("%w: acting user is required", apperrors.ErrUnauthorized)
	}
	user, err := s.Identity.ResolveUser(ctx, actorHandle)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: acting user %q is unknown", apperrors.ErrUnauthorized, actorHandle)
		}
		return nil, fmt.Errorf("failed to resolve acting user: %w", err)
	}
	return user, nil
}

// runInTx executes fn as one unit of work. Conflicts detected while writing
// derived state replay the whole unit of work with bounded backoff; any other
// error is returned unchanged after rollback.
func (s *BaseService) runInTx(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	attempt := 0
	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		attempt++
		err := s.Repo.WithTx(ctx, fn)
		if err == nil {
			return struct{}{}, nil
		}
		if isRetryableConflict(err) {
			s.GetLogger(ctx).Warn("Ledger conflict detected, replaying unit of work",
				slog.String("operation", op),
				slog.Int("attempt", attempt),
				slog.String("error", err.Error()))
			return struct{}{}, err
		}
		return struct{}{}, backoff.Permanent(err)
	}, backoff.WithBackOff(newConflictBackOff()), backoff.WithMaxTries(s.MaxAttempts))

	var permanent *backoff.PermanentError
	if errors.As(err, &permanent) {
		return permanent.Unwrap()
	}
	return err
}

func isRetryableConflict(err error) bool {
	return errors.Is(err, apperrors.ErrConflict) && !errors.Is(err, apperrors.ErrDuplicateCorrelationID)
}

func newConflictBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 5 * time.Millisecond
	b.MaxInterval = 200 * time.Millisecond
	return b
}

// lockActiveBill takes the bill row lock and rejects voided bills.
func (s *BaseService) lockActiveBill(ctx context.Context, billID int64) (*domain.Bill, error) {
	bill, err := s.Repo.LockBill(ctx, billID)
	if err != nil {
		return nil, err
	}
	if bill.IsVoided() {
		return nil, fmt.Errorf("%w: bill %d is voided", apperrors.ErrNotFound, billID)
	}
	return bill, nil
}

// invalidatePatient drops the cached bill listing of a patient. Cache failures
// are logged and do not fail the already committed operation.
func (s *BaseService) invalidatePatient(ctx context.Context, patientID int64) {
	if s.Cache == nil {
		return
	}
	if err := s.Cache.InvalidatePatient(ctx, patientID); err != nil {
		s.GetLogger(ctx).Warn("Failed to invalidate bill listing cache",
			slog.Int64("patient_id", patientID),
			slog.String("error", err.Error()))
	}
}

func validationError(err error) error {
	return fmt.Errorf("%w: %w", apperrors.ErrValidation, err)
}
