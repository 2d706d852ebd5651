package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Stage is a loan's position in its lifecycle.
type Stage int

const (
	StageApplication       Stage = 1
	StageDocumentation     Stage = 2
	StageSubmitted         Stage = 3
	StageLoanOfficerReview Stage = 4
	StageManagerReview     Stage = 5
	StageCommitteeReview   Stage = 6
	StageApproved          Stage = 7
	StageDisbursed         Stage = 8
	StageReserved          Stage = 9
	StageRepaid            Stage = 10
)

var stageNames = map[Stage]string{
	StageApplication:       "Application",
	StageDocumentation:     "Documentation",
	StageSubmitted:         "Submitted",
	StageLoanOfficerReview: "LoanOfficerReview",
	StageManagerReview:     "ManagerReview",
	StageCommitteeReview:   "CommitteeReview",
	StageApproved:          "Approved",
	StageDisbursed:         "Disbursed",
	StageReserved:          "Reserved",
	StageRepaid:            "Repaid",
}

func (s Stage) String() string {
	if name, ok := stageNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Stage(%d)", int(s))
}

// Valid reports whether s is one of the defined stages.
func (s Stage) Valid() bool {
	_, ok := stageNames[s]
	return ok
}

// reviewTransitions is the hand-off between review levels driven by Approve.
var reviewTransitions = map[Stage]Stage{
	StageLoanOfficerReview: StageManagerReview,
	StageManagerReview:     StageCommitteeReview,
	StageCommitteeReview:   StageApproved,
}

// disbursementTransitions extends the review table with the money-moving step.
var disbursementTransitions = map[Stage]Stage{
	StageLoanOfficerReview: StageManagerReview,
	StageManagerReview:     StageCommitteeReview,
	StageCommitteeReview:   StageApproved,
	StageApproved:          StageDisbursed,
}

// NextReviewStage returns the stage that follows an approval at s.
func NextReviewStage(s Stage) (Stage, bool) {
	next, ok := reviewTransitions[s]
	return next, ok
}

// NextDisbursementStage returns the stage a disbursement at s moves the loan to.
func NextDisbursementStage(s Stage) (Stage, bool) {
	next, ok := disbursementTransitions[s]
	return next, ok
}

// IsReviewStage reports whether an approval record can be pending at s.
func IsReviewStage(s Stage) bool {
	return s >= StageLoanOfficerReview && s <= StageApproved
}

// PreviousStage returns the stage Back moves to. Stage 1 is the floor.
func PreviousStage(s Stage) Stage {
	if s <= StageApplication {
		return StageApplication
	}
	return s - 1
}

// Loan status values, kept independent from Stage.
const (
	LoanStatusOpen   = "open"
	LoanStatusRepaid = "repaid"
)

// Loan represents a loan entity
type Loan struct {
	ID               int64           `json:"id" db:"id"`
	CustomerID       int64           `json:"customer_id" db:"customer_id"`
	LoanType         int64           `json:"loan_type" db:"loan_type"`
	LoanAmount       decimal.Decimal `json:"loan_amount" db:"loan_amount"`
	LoanDuration     int             `json:"loan_duration" db:"loan_duration"`
	InterestRate     decimal.Decimal `json:"interest_rate" db:"interest_rate"`
	InterestAmount   decimal.Decimal `json:"interest_amount" db:"interest_amount"`
	MonthlyRepayment decimal.Decimal `json:"monthly_repayment" db:"monthly_repayment"`
	TotalRepayment   decimal.Decimal `json:"total_repayment" db:"total_repayment"`
	Stage            Stage           `json:"stage" db:"stage"`
	Status           string          `json:"status" db:"status"`
	FacilityBranchID int64           `json:"facilitybranch_id" db:"facilitybranch_id"`
	UserID           int64           `json:"user_id" db:"user_id"`
	ApplicationForm  *string         `json:"application_form,omitempty" db:"application_form"`
	SubmitRemarks    *string         `json:"submit_remarks,omitempty" db:"submit_remarks"`
	Remarks          *string         `json:"remarks,omitempty" db:"remarks"`
	CreatedAt        time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at" db:"updated_at"`
}

// IsRepaid reports whether the loan has been paid off.
func (l *Loan) IsRepaid() bool {
	return l.Status == LoanStatusRepaid
}

// LoanGuarantor joins a loan to a guarantor, optionally with a collateral document.
type LoanGuarantor struct {
	ID          int64     `json:"id" db:"id"`
	LoanID      int64     `json:"loan_id" db:"loan_id"`
	GuarantorID int64     `json:"guarantor_id" db:"guarantor_id"`
	Collateral  *string   `json:"collateral,omitempty" db:"collateral"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// LoanDetails is a loan with its related records.
type LoanDetails struct {
	Loan       *Loan            `json:"loan"`
	Guarantors []*LoanGuarantor `json:"guarantors"`
	Approvals  []*Approval      `json:"approvals"`
	Repayments []*Repayment     `json:"repayments"`
}

type OutstandingResponse struct {
	LoanID      int64           `json:"loan_id"`
	Outstanding decimal.Decimal `json:"outstanding"`
}
