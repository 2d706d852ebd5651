package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/segyhp/loan-engine/internal/domain"
	customError "github.com/segyhp/loan-engine/pkg/errors"
)

type transactionRepository struct {
	db sqlx.ExtContext
}

func NewTransactionRepository(db sqlx.ExtContext) TransactionRepository {
	return &transactionRepository{db: db}
}

func (r *transactionRepository) Create(ctx context.Context, txn *domain.Transaction) error {
	query := `
		INSERT INTO transactions (customer_id, user_id, loan_id, savings_id, amount, type, payment_type_id,
			transaction_reference, description)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at
	`

	err := r.db.QueryRowxContext(ctx, query,
		txn.CustomerID,
		txn.UserID,
		txn.LoanID,
		txn.SavingsID,
		txn.Amount,
		txn.Type,
		nullableID(txn.PaymentTypeID),
		txn.TransactionReference,
		txn.Description,
	).Scan(&txn.ID, &txn.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return customError.Conflict(fmt.Sprintf("transaction reference %s already used", txn.TransactionReference), err)
		}
		return fmt.Errorf("insert %s transaction: %w", txn.Type, err)
	}

	return nil
}

func (r *transactionRepository) ListByLoan(ctx context.Context, loanID int64) ([]*domain.Transaction, error) {
	query := `
		SELECT id, customer_id, user_id, loan_id, savings_id, amount, type, COALESCE(payment_type_id, 0) AS payment_type_id,
			transaction_reference, description, created_at
		FROM transactions
		WHERE loan_id = $1
		ORDER BY id
	`

	txns := []*domain.Transaction{}
	if err := sqlx.SelectContext(ctx, r.db, &txns, query, loanID); err != nil {
		return nil, fmt.Errorf("list transactions for loan %d: %w", loanID, err)
	}

	return txns, nil
}

func (r *transactionRepository) ExistsForLoan(ctx context.Context, loanID int64, txnType domain.TransactionType) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM transactions WHERE loan_id = $1 AND type = $2)`

	var exists bool
	if err := sqlx.GetContext(ctx, r.db, &exists, query, loanID, txnType); err != nil {
		return false, fmt.Errorf("check %s transactions for loan %d: %w", txnType, loanID, err)
	}

	return exists, nil
}

// nullableID stores an unset reference as NULL.
func nullableID(id int64) *int64 {
	if id == 0 {
		return nil
	}
	return &id
}
