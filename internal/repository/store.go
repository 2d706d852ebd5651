package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const uniqueViolation = "23505"

type store struct {
	db *sqlx.DB
}

// NewStore returns a UnitOfWork backed by db.
func NewStore(db *sqlx.DB) UnitOfWork {
	return &store{db: db}
}

func newRepositories(q sqlx.ExtContext) *Repositories {
	return &Repositories{
		Loans:        NewLoanRepository(q),
		Approvals:    NewApprovalRepository(q),
		Accounts:     NewAccountRepository(q),
		Journals:     NewJournalRepository(q),
		Transactions: NewTransactionRepository(q),
		Repayments:   NewRepaymentRepository(q),
		Savings:      NewSavingRepository(q),
		Customers:    NewCustomerDirectory(q),
		PaymentTypes: NewPaymentTypeDirectory(q),
	}
}

func (s *store) Repositories() *Repositories {
	return newRepositories(s.db)
}

func (s *store) WithinTx(ctx context.Context, fn func(ctx context.Context, repos *Repositories) error) error {
	tx, err := s.db.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(ctx, newRepositories(tx)); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
