package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/shopspring/decimal"

	customError "github.com/segyhp/loan-engine/pkg/errors"
)

// BalanceCache caches computed outstanding balances.
type BalanceCache interface {
	Get(ctx context.Context, loanID int64) (decimal.Decimal, bool, error)

	// Version must be read before the balance is computed and handed back to Set.
	Version(ctx context.Context, loanID int64) (int64, error)

	// Set drops the write if the loan was invalidated after version was read
	Set(ctx context.Context, loanID int64, amount decimal.Decimal, version int64) error

	Invalidate(ctx context.Context, loanID int64) error
}

// DocumentStore persists uploaded documents outside the database.
type DocumentStore interface {
	Store(ctx context.Context, folder, fileName string, data []byte) (string, error)
	Delete(ctx context.Context, path string) error
}

const (
	folderApplicationForms = "application_forms"
	folderCollateral       = "collateral"
)

type actorKey struct{}

// WithActor returns a context carrying the authenticated user id.
func WithActor(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, actorKey{}, userID)
}

// ActorFromContext returns the authenticated user id set by WithActor.
func ActorFromContext(ctx context.Context) (int64, error) {
	id, ok := ctx.Value(actorKey{}).(int64)
	if !ok || id <= 0 {
		return 0, customError.ErrUnauthenticatedRequest
	}
	return id, nil
}

// normalizeError leaves business errors untouched and turns anything else
// coming out of the store into a database error.
func normalizeError(err error) error {
	if err == nil {
		return nil
	}
	var be *customError.BusinessError
	if errors.As(err, &be) || errors.Is(err, customError.ErrUnauthenticatedRequest) {
		return err
	}
	return customError.WrapDatabaseError(err)
}

// logFailure records errors whose cause is hidden from the caller.
func logFailure(logger *slog.Logger, op string, err error, attrs ...any) {
	switch customError.KindOf(err) {
	case customError.KindConsistency, customError.KindStorage, customError.KindInternal:
		if errors.Is(err, customError.ErrUnauthenticatedRequest) {
			return
		}
		logger.Error(op+" failed", append(attrs, slog.String("error", err.Error()))...)
	}
}
