package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/segyhp/loan-engine/internal/domain"
	"github.com/segyhp/loan-engine/internal/repository"
)

// LedgerService reads the journal and audits its balance.
type LedgerService struct {
	Store  repository.UnitOfWork
	logger *slog.Logger
	now    func() time.Time
}

func NewLedgerService(store repository.UnitOfWork, logger *slog.Logger) *LedgerService {
	return &LedgerService{Store: store, logger: logger, now: time.Now}
}

func (s *LedgerService) GetJournalEntry(ctx context.Context, id int64) (*domain.JournalEntry, error) {
	entry, err := s.Store.Repositories().Journals.GetByID(ctx, id)
	if err != nil {
		return nil, normalizeError(err)
	}
	return entry, nil
}

func (s *LedgerService) ListJournalEntriesByTransaction(ctx context.Context, transactionID int64) ([]*domain.JournalEntry, error) {
	entries, err := s.Store.Repositories().Journals.ListByTransaction(ctx, transactionID)
	if err != nil {
		return nil, normalizeError(err)
	}
	return entries, nil
}

// AuditLedger recomputes every entry's totals and reports those that do not
// balance or have fewer than two lines.
func (s *LedgerService) AuditLedger(ctx context.Context) (*domain.LedgerAudit, error) {
	balances, err := s.Store.Repositories().Journals.Balances(ctx)
	if err != nil {
		return nil, normalizeError(err)
	}

	audit := &domain.LedgerAudit{
		EntriesChecked: len(balances),
		Unbalanced:     []domain.JournalBalance{},
		CheckedAt:      s.now(),
	}
	for _, b := range balances {
		if !b.TotalDebit.Equal(b.TotalCredit) || b.LineCount < 2 {
			audit.Unbalanced = append(audit.Unbalanced, b)
			s.logger.Error("unbalanced journal entry",
				slog.Int64("journal_entry_id", b.JournalEntryID),
				slog.String("reference", b.ReferenceNumber),
				slog.String("debit", b.TotalDebit.StringFixed(2)),
				slog.String("credit", b.TotalCredit.StringFixed(2)),
				slog.Int("lines", b.LineCount),
			)
		}
	}

	s.logger.Info("ledger audit finished",
		slog.Int("entries_checked", audit.EntriesChecked),
		slog.Int("unbalanced", len(audit.Unbalanced)),
	)
	return audit, nil
}
