package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

// versionTTL outlives any read-compute-write window by a wide margin.
const versionTTL = 24 * time.Hour

var errStaleVersion = errors.New("outstanding version moved")

// OutstandingCache keeps the last computed outstanding balance per loan.
//
// Every invalidation bumps a per-loan version. Writers read the version before
// computing a balance and Set only stores the balance if the version is unchanged,
// so a balance computed before a repayment cannot land after its invalidation.
type OutstandingCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewOutstandingCache(client *redis.Client, ttl time.Duration) *OutstandingCache {
	return &OutstandingCache{client: client, ttl: ttl}
}

// The hash tag keeps both keys of a loan in one cluster slot for WATCH.
func outstandingKey(loanID int64) string {
	return fmt.Sprintf("{loan:%d}:outstanding", loanID)
}

func versionKey(loanID int64) string {
	return fmt.Sprintf("{loan:%d}:outstanding:version", loanID)
}

type stringGetter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func readVersion(ctx context.Context, r stringGetter, loanID int64) (int64, error) {
	raw, err := r.Get(ctx, versionKey(loanID)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return strconv.ParseInt(raw, 10, 64)
}

// Get returns the cached balance. The bool is false on a cache miss.
func (c *OutstandingCache) Get(ctx context.Context, loanID int64) (decimal.Decimal, bool, error) {
	raw, err := c.client.Get(ctx, outstandingKey(loanID)).Result()
	if errors.Is(err, redis.Nil) {
		return decimal.Zero, false, nil
	}
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("get outstanding for loan %d: %w", loanID, err)
	}

	amount, err := decimal.NewFromString(raw)
	if err != nil {
		// a corrupt value is treated as a miss and overwritten by the next Set
		return decimal.Zero, false, nil
	}
	return amount, true, nil
}

// Version returns the loan's invalidation counter, zero if it was never invalidated.
func (c *OutstandingCache) Version(ctx context.Context, loanID int64) (int64, error) {
	v, err := readVersion(ctx, c.client, loanID)
	if err != nil {
		return 0, fmt.Errorf("get outstanding version for loan %d: %w", loanID, err)
	}
	return v, nil
}

// Set stores amount if the loan has not been invalidated since version was read.
// A stale write is dropped silently.
func (c *OutstandingCache) Set(ctx context.Context, loanID int64, amount decimal.Decimal, version int64) error {
	err := c.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := readVersion(ctx, tx, loanID)
		if err != nil {
			return err
		}
		if current != version {
			return errStaleVersion
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, outstandingKey(loanID), amount.StringFixed(2), c.ttl)
			return nil
		})
		return err
	}, versionKey(loanID))

	if errors.Is(err, errStaleVersion) || errors.Is(err, redis.TxFailedErr) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("set outstanding for loan %d: %w", loanID, err)
	}
	return nil
}

func (c *OutstandingCache) Invalidate(ctx context.Context, loanID int64) error {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, versionKey(loanID))
		pipe.Expire(ctx, versionKey(loanID), versionTTL)
		pipe.Del(ctx, outstandingKey(loanID))
		return nil
	})
	if err != nil {
		return fmt.Errorf("invalidate outstanding for loan %d: %w", loanID, err)
	}
	return nil
}
