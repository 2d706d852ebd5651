package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/segyhp/loan-engine/internal/domain"
)

type approvalRepository struct {
	db sqlx.ExtContext
}

func NewApprovalRepository(db sqlx.ExtContext) ApprovalRepository {
	return &approvalRepository{db: db}
}

func (r *approvalRepository) Create(ctx context.Context, approval *domain.Approval) error {
	query := `
		INSERT INTO approvals (loan_id, stage, status)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRowxContext(ctx, query, approval.LoanID, approval.Stage, approval.Status).
		Scan(&approval.ID, &approval.CreatedAt, &approval.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert approval for loan %d: %w", approval.LoanID, err)
	}

	return nil
}

func (r *approvalRepository) GetPendingForUpdate(ctx context.Context, loanID int64, stage domain.Stage) ([]*domain.Approval, error) {
	query := `
		SELECT id, loan_id, stage, status, approved_by, remarks, created_at, updated_at
		FROM approvals
		WHERE loan_id = $1 AND stage = $2 AND status = $3
		ORDER BY id
		FOR UPDATE
	`

	var approvals []*domain.Approval
	if err := sqlx.SelectContext(ctx, r.db, &approvals, query, loanID, stage, domain.ApprovalPending); err != nil {
		return nil, fmt.Errorf("lock pending approvals for loan %d: %w", loanID, err)
	}

	return approvals, nil
}

func (r *approvalRepository) Update(ctx context.Context, approval *domain.Approval) error {
	query := `
		UPDATE approvals
		SET status = $2, approved_by = $3, remarks = $4, updated_at = $5
		WHERE id = $1
	`

	approval.UpdatedAt = time.Now()
	_, err := r.db.ExecContext(ctx, query,
		approval.ID,
		approval.Status,
		approval.ApprovedBy,
		approval.Remarks,
		approval.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update approval %d: %w", approval.ID, err)
	}

	return nil
}

func (r *approvalRepository) ListByLoan(ctx context.Context, loanID int64) ([]*domain.Approval, error) {
	query := `
		SELECT id, loan_id, stage, status, approved_by, remarks, created_at, updated_at
		FROM approvals
		WHERE loan_id = $1
		ORDER BY stage, id
	`

	approvals := []*domain.Approval{}
	if err := sqlx.SelectContext(ctx, r.db, &approvals, query, loanID); err != nil {
		return nil, fmt.Errorf("list approvals for loan %d: %w", loanID, err)
	}

	return approvals, nil
}
