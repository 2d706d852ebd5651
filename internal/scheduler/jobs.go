package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/segyhp/loan-engine/internal/domain"
)

const jobTimeout = 5 * time.Minute

type LedgerAuditor interface {
	AuditLedger(ctx context.Context) (*domain.LedgerAudit, error)
}

type CacheWarmer interface {
	WarmOutstandingCache(ctx context.Context) (int, error)
}

// Jobs holds the periodic maintenance work run by the scheduler process.
type Jobs struct {
	auditor LedgerAuditor
	warmer  CacheWarmer
	logger  *slog.Logger
}

func NewJobs(auditor LedgerAuditor, warmer CacheWarmer, logger *slog.Logger) *Jobs {
	return &Jobs{auditor: auditor, warmer: warmer, logger: logger}
}

// New returns a cron with second-level specs in loc. Overlapping runs of the
// same job are skipped.
func New(loc *time.Location, logger *slog.Logger) *cron.Cron {
	cronLogger := cron.PrintfLogger(slog.NewLogLogger(logger.Handler(), slog.LevelInfo))
	return cron.New(
		cron.WithSeconds(),
		cron.WithLocation(loc),
		cron.WithLogger(cronLogger),
		cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
	)
}

// Register schedules the audit and cache warm-up jobs on c.
func (j *Jobs) Register(c *cron.Cron, auditSpec, warmupSpec string) error {
	if _, err := c.AddFunc(auditSpec, func() { j.run("ledger_audit", j.Audit) }); err != nil {
		return fmt.Errorf("schedule ledger audit: %w", err)
	}
	if _, err := c.AddFunc(warmupSpec, func() { j.run("cache_warmup", j.WarmCache) }); err != nil {
		return fmt.Errorf("schedule cache warm-up: %w", err)
	}
	return nil
}

func (j *Jobs) run(name string, job func(context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	start := time.Now()
	if err := job(ctx); err != nil {
		j.logger.Error("job failed", slog.String("job", name), slog.String("error", err.Error()))
		return
	}
	j.logger.Info("job finished", slog.String("job", name), slog.Duration("duration", time.Since(start)))
}

// Audit checks every journal entry. The auditor logs each unbalanced entry;
// the job only fails with the count.
func (j *Jobs) Audit(ctx context.Context) error {
	audit, err := j.auditor.AuditLedger(ctx)
	if err != nil {
		return err
	}
	if len(audit.Unbalanced) > 0 {
		return fmt.Errorf("%d of %d journal entries do not balance", len(audit.Unbalanced), audit.EntriesChecked)
	}
	return nil
}

// WarmCache refreshes the cached outstanding balance of every disbursed loan.
func (j *Jobs) WarmCache(ctx context.Context) error {
	warmed, err := j.warmer.WarmOutstandingCache(ctx)
	if err != nil {
		return err
	}
	j.logger.Debug("outstanding cache warmed", slog.Int("loans", warmed))
	return nil
}
