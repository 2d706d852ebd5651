package domain

import "time"

// ApprovalStatus is the state of a single review-stage approval.
type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
)

// Approval tracks one review stage for one loan.
type Approval struct {
	ID         int64          `json:"id" db:"id"`
	LoanID     int64          `json:"loan_id" db:"loan_id"`
	Stage      Stage          `json:"stage" db:"stage"`
	Status     ApprovalStatus `json:"status" db:"status"`
	ApprovedBy *int64         `json:"approved_by,omitempty" db:"approved_by"`
	Remarks    *string        `json:"remarks,omitempty" db:"remarks"`
	CreatedAt  time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at" db:"updated_at"`
}
