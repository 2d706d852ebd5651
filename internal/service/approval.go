package service

import (
	"context"
	"fmt"

	"github.com/segyhp/loan-engine/internal/domain"
	"github.com/segyhp/loan-engine/internal/repository"
	customError "github.com/segyhp/loan-engine/pkg/errors"
)

// openApproval starts review at stage. A loan moved back and resubmitted keeps
// its earlier pending row, so at most one pending approval exists per stage.
func openApproval(ctx context.Context, repos *repository.Repositories, loanID int64, stage domain.Stage) (*domain.Approval, error) {
	if !domain.IsReviewStage(stage) {
		return nil, customError.Consistency(customError.ErrCodeApprovalMissing,
			fmt.Sprintf("no approval can be opened for loan %d at %s", loanID, stage), customError.ErrInvalidStage)
	}
	pending, err := repos.Approvals.GetPendingForUpdate(ctx, loanID, stage)
	if err != nil {
		return nil, err
	}
	if len(pending) > 0 {
		return pending[0], nil
	}

	approval := &domain.Approval{
		LoanID: loanID,
		Stage:  stage,
		Status: domain.ApprovalPending,
	}
	if err := repos.Approvals.Create(ctx, approval); err != nil {
		return nil, err
	}
	return approval, nil
}

// closeApproval marks the single pending approval at stage as approved.
// Anything other than exactly one locked pending row aborts the unit of work.
func closeApproval(ctx context.Context, repos *repository.Repositories, loanID int64, stage domain.Stage, approverID int64, remarks string) (*domain.Approval, error) {
	pending, err := repos.Approvals.GetPendingForUpdate(ctx, loanID, stage)
	if err != nil {
		return nil, err
	}
	if len(pending) != 1 {
		return nil, customError.WrapApprovalNotFound(loanID, int(stage))
	}

	approval := pending[0]
	approval.Status = domain.ApprovalApproved
	approval.ApprovedBy = &approverID
	if remarks != "" {
		approval.Remarks = &remarks
	}
	if err := repos.Approvals.Update(ctx, approval); err != nil {
		return nil, err
	}
	return approval, nil
}
