package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/segyhp/loan-engine/internal/domain"
	customError "github.com/segyhp/loan-engine/pkg/errors"
)

const loanColumns = `id, customer_id, loan_type, loan_amount, loan_duration, interest_rate, interest_amount,
	monthly_repayment, total_repayment, stage, status, facilitybranch_id, user_id,
	application_form, submit_remarks, remarks, created_at, updated_at`

type loanRepository struct {
	db sqlx.ExtContext
}

func NewLoanRepository(db sqlx.ExtContext) LoanRepository {
	return &loanRepository{db: db}
}

func (r *loanRepository) Create(ctx context.Context, loan *domain.Loan) error {
	query := `
		INSERT INTO loans (customer_id, loan_type, loan_amount, loan_duration, interest_rate, interest_amount,
			monthly_repayment, total_repayment, stage, status, facilitybranch_id, user_id, application_form)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRowxContext(ctx, query,
		loan.CustomerID,
		loan.LoanType,
		loan.LoanAmount,
		loan.LoanDuration,
		loan.InterestRate,
		loan.InterestAmount,
		loan.MonthlyRepayment,
		loan.TotalRepayment,
		loan.Stage,
		loan.Status,
		loan.FacilityBranchID,
		loan.UserID,
		loan.ApplicationForm,
	).Scan(&loan.ID, &loan.CreatedAt, &loan.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return customError.Conflict(
				fmt.Sprintf("customer %d already has an active loan", loan.CustomerID), customError.ErrActiveLoanExists)
		}
		return fmt.Errorf("insert loan: %w", err)
	}

	return nil
}

func (r *loanRepository) GetByID(ctx context.Context, id int64) (*domain.Loan, error) {
	return r.get(ctx, `SELECT `+loanColumns+` FROM loans WHERE id = $1`, id)
}

func (r *loanRepository) GetByIDForUpdate(ctx context.Context, id int64) (*domain.Loan, error) {
	return r.get(ctx, `SELECT `+loanColumns+` FROM loans WHERE id = $1 FOR UPDATE`, id)
}

func (r *loanRepository) get(ctx context.Context, query string, id int64) (*domain.Loan, error) {
	var loan domain.Loan
	if err := sqlx.GetContext(ctx, r.db, &loan, query, id); err != nil {
		if isNoRows(err) {
			return nil, customError.WrapLoanNotFound(id)
		}
		return nil, fmt.Errorf("get loan %d: %w", id, err)
	}

	return &loan, nil
}

func (r *loanRepository) Update(ctx context.Context, loan *domain.Loan) error {
	query := `
		UPDATE loans
		SET stage = $2, status = $3, application_form = $4, submit_remarks = $5, remarks = $6, updated_at = $7
		WHERE id = $1
	`

	loan.UpdatedAt = time.Now()
	result, err := r.db.ExecContext(ctx, query,
		loan.ID,
		loan.Stage,
		loan.Status,
		loan.ApplicationForm,
		loan.SubmitRemarks,
		loan.Remarks,
		loan.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update loan %d: %w", loan.ID, err)
	}

	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return customError.WrapLoanNotFound(loan.ID)
	}

	return nil
}

func (r *loanRepository) HasOpenLoan(ctx context.Context, customerID int64) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM loans WHERE customer_id = $1 AND status <> $2)`

	var exists bool
	if err := sqlx.GetContext(ctx, r.db, &exists, query, customerID, domain.LoanStatusRepaid); err != nil {
		return false, fmt.Errorf("check open loans for customer %d: %w", customerID, err)
	}

	return exists, nil
}

func (r *loanRepository) ListOutstanding(ctx context.Context) ([]*domain.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans WHERE stage >= $1 AND status <> $2 ORDER BY id`

	var loans []*domain.Loan
	if err := sqlx.SelectContext(ctx, r.db, &loans, query, domain.StageDisbursed, domain.LoanStatusRepaid); err != nil {
		return nil, fmt.Errorf("list outstanding loans: %w", err)
	}

	return loans, nil
}

func (r *loanRepository) AddGuarantor(ctx context.Context, guarantor *domain.LoanGuarantor) error {
	query := `
		INSERT INTO loan_guarantors (loan_id, guarantor_id, collateral)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	err := r.db.QueryRowxContext(ctx, query,
		guarantor.LoanID,
		guarantor.GuarantorID,
		guarantor.Collateral,
	).Scan(&guarantor.ID, &guarantor.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return customError.Conflict(
				fmt.Sprintf("guarantor %d is already attached to loan %d", guarantor.GuarantorID, guarantor.LoanID), err)
		}
		return fmt.Errorf("insert guarantor: %w", err)
	}

	return nil
}

func (r *loanRepository) GetGuarantors(ctx context.Context, loanID int64) ([]*domain.LoanGuarantor, error) {
	query := `
		SELECT id, loan_id, guarantor_id, collateral, created_at
		FROM loan_guarantors
		WHERE loan_id = $1
		ORDER BY id
	`

	guarantors := []*domain.LoanGuarantor{}
	if err := sqlx.SelectContext(ctx, r.db, &guarantors, query, loanID); err != nil {
		return nil, fmt.Errorf("list guarantors for loan %d: %w", loanID, err)
	}

	return guarantors, nil
}
