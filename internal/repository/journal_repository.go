package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/segyhp/loan-engine/internal/domain"
	customError "github.com/segyhp/loan-engine/pkg/errors"
)

type journalRepository struct {
	db sqlx.ExtContext
}

func NewJournalRepository(db sqlx.ExtContext) JournalRepository {
	return &journalRepository{db: db}
}

func (r *journalRepository) CreateEntry(ctx context.Context, entry *domain.JournalEntry) error {
	query := `
		INSERT INTO journal_entries (entry_date, reference_number, description, transaction_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	err := r.db.QueryRowxContext(ctx, query,
		entry.EntryDate,
		entry.ReferenceNumber,
		entry.Description,
		entry.TransactionID,
	).Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return customError.Conflict(fmt.Sprintf("reference %s already posted", entry.ReferenceNumber), err)
		}
		return fmt.Errorf("insert journal entry: %w", err)
	}

	lineQuery := `
		INSERT INTO journal_entry_lines (journal_entry_id, account_id, debit, credit)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	for i := range entry.Lines {
		line := &entry.Lines[i]
		line.JournalEntryID = entry.ID
		if err := r.db.QueryRowxContext(ctx, lineQuery, line.JournalEntryID, line.AccountID, line.Debit, line.Credit).
			Scan(&line.ID); err != nil {
			return fmt.Errorf("insert journal line for entry %d: %w", entry.ID, err)
		}
	}

	return nil
}

func (r *journalRepository) GetByID(ctx context.Context, id int64) (*domain.JournalEntry, error) {
	query := `
		SELECT id, entry_date, reference_number, description, transaction_id, created_at
		FROM journal_entries
		WHERE id = $1
	`

	var entry domain.JournalEntry
	if err := sqlx.GetContext(ctx, r.db, &entry, query, id); err != nil {
		if isNoRows(err) {
			return nil, customError.NotFound(fmt.Sprintf("Journal entry with ID %d not found", id), customError.ErrJournalEntryNotFound)
		}
		return nil, fmt.Errorf("get journal entry %d: %w", id, err)
	}

	if err := r.loadLines(ctx, []*domain.JournalEntry{&entry}); err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *journalRepository) ListByTransaction(ctx context.Context, transactionID int64) ([]*domain.JournalEntry, error) {
	query := `
		SELECT id, entry_date, reference_number, description, transaction_id, created_at
		FROM journal_entries
		WHERE transaction_id = $1
		ORDER BY id
	`

	entries := []*domain.JournalEntry{}
	if err := sqlx.SelectContext(ctx, r.db, &entries, query, transactionID); err != nil {
		return nil, fmt.Errorf("list journal entries for transaction %d: %w", transactionID, err)
	}

	if err := r.loadLines(ctx, entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *journalRepository) loadLines(ctx context.Context, entries []*domain.JournalEntry) error {
	if len(entries) == 0 {
		return nil
	}

	byID := make(map[int64]*domain.JournalEntry, len(entries))
	ids := make([]int64, 0, len(entries))
	for _, e := range entries {
		byID[e.ID] = e
		ids = append(ids, e.ID)
	}

	query, args, err := sqlx.In(`
		SELECT id, journal_entry_id, account_id, debit, credit
		FROM journal_entry_lines
		WHERE journal_entry_id IN (?)
		ORDER BY id`, ids)
	if err != nil {
		return fmt.Errorf("build journal line lookup: %w", err)
	}

	var lines []domain.JournalLine
	if err := sqlx.SelectContext(ctx, r.db, &lines, r.db.Rebind(query), args...); err != nil {
		return fmt.Errorf("list journal lines: %w", err)
	}

	for _, l := range lines {
		if e, ok := byID[l.JournalEntryID]; ok {
			e.Lines = append(e.Lines, l)
		}
	}
	return nil
}

func (r *journalRepository) Balances(ctx context.Context) ([]domain.JournalBalance, error) {
	query := `
		SELECT je.id AS journal_entry_id, je.reference_number,
			COALESCE(SUM(l.debit), 0) AS total_debit,
			COALESCE(SUM(l.credit), 0) AS total_credit,
			COUNT(l.id) AS line_count
		FROM journal_entries je
		LEFT JOIN journal_entry_lines l ON l.journal_entry_id = je.id
		GROUP BY je.id, je.reference_number
		ORDER BY je.id
	`

	var balances []domain.JournalBalance
	if err := sqlx.SelectContext(ctx, r.db, &balances, query); err != nil {
		return nil, fmt.Errorf("sum journal entries: %w", err)
	}

	return balances, nil
}
