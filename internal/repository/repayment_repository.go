package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/segyhp/loan-engine/internal/domain"
)

type repaymentRepository struct {
	db sqlx.ExtContext
}

func NewRepaymentRepository(db sqlx.ExtContext) RepaymentRepository {
	return &repaymentRepository{db: db}
}

func (r *repaymentRepository) Create(ctx context.Context, repayment *domain.Repayment) error {
	query := `
		INSERT INTO repayments (loan_id, user_id, amount_paid, interest_paid, payment_date,
			balance_before, balance_after, transaction_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`

	err := r.db.QueryRowxContext(ctx, query,
		repayment.LoanID,
		repayment.UserID,
		repayment.AmountPaid,
		repayment.InterestPaid,
		repayment.PaymentDate,
		repayment.BalanceBefore,
		repayment.BalanceAfter,
		repayment.TransactionID,
	).Scan(&repayment.ID, &repayment.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert repayment for loan %d: %w", repayment.LoanID, err)
	}

	return nil
}

func (r *repaymentRepository) ListByLoan(ctx context.Context, loanID int64) ([]*domain.Repayment, error) {
	query := `
		SELECT id, loan_id, user_id, amount_paid, interest_paid, payment_date,
			balance_before, balance_after, transaction_id, created_at
		FROM repayments
		WHERE loan_id = $1
		ORDER BY payment_date, id
	`

	repayments := []*domain.Repayment{}
	if err := sqlx.SelectContext(ctx, r.db, &repayments, query, loanID); err != nil {
		return nil, fmt.Errorf("list repayments for loan %d: %w", loanID, err)
	}

	return repayments, nil
}

func (r *repaymentRepository) Totals(ctx context.Context, loanID int64) (domain.RepaymentTotals, error) {
	query := `
		SELECT COALESCE(SUM(amount_paid), 0) AS amount_paid, COALESCE(SUM(interest_paid), 0) AS interest_paid
		FROM repayments
		WHERE loan_id = $1
	`

	var totals domain.RepaymentTotals
	if err := sqlx.GetContext(ctx, r.db, &totals, query, loanID); err != nil {
		return domain.RepaymentTotals{}, fmt.Errorf("sum repayments for loan %d: %w", loanID, err)
	}

	return totals, nil
}
