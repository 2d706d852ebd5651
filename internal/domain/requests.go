package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Document is an uploaded file waiting to be stored.
type Document struct {
	FileName string
	Data     []byte
}

type CreateLoanRequest struct {
	CustomerID       int64           `json:"customer_id" validate:"required,gt=0"`
	LoanType         int64           `json:"loan_type" validate:"required,gt=0"`
	LoanAmount       decimal.Decimal `json:"loan_amount" validate:"required,decimal_gt=0,money"`
	LoanDuration     int             `json:"loan_duration" validate:"required,gt=0,lte=360"`
	InterestRate     decimal.Decimal `json:"interest_rate" validate:"required,decimal_gte=0,decimal_lte=100,decimal_scale=4"`
	FacilityBranchID int64           `json:"facilitybranch_id" validate:"required,gt=0"`
	ApplicationForm  *Document       `json:"-"`
}

type GuarantorInput struct {
	GuarantorID int64     `json:"guarantor_id" validate:"required,gt=0"`
	Collateral  *Document `json:"-"`
}

// NextRequest carries the input of the application wizard step for the loan's
// current stage: an optional replacement form at stage 1, guarantors at
// stage 2, submission remarks at stage 3.
type NextRequest struct {
	ApplicationForm *Document        `json:"-"`
	Guarantors      []GuarantorInput `json:"guarantors" validate:"omitempty,dive"`
	SubmitRemarks   string           `json:"submit_remarks" validate:"max=1000"`
}

type ApproveRequest struct {
	Remarks string `json:"remarks" validate:"max=1000"`
}

type DisburseRequest struct {
	PaymentTypeID int64  `json:"payment_type_id" validate:"required,gt=0"`
	Remarks       string `json:"remarks" validate:"max=1000"`
}

type RepaymentRequest struct {
	Amount        decimal.Decimal `json:"amount" validate:"required,decimal_gt=0,money"`
	PaymentTypeID int64           `json:"payment_type_id" validate:"required,gt=0"`
	PaymentDate   *time.Time      `json:"payment_date"`
}

type SavingsRequest struct {
	CustomerID    int64           `json:"customer_id" validate:"required,gt=0"`
	Amount        decimal.Decimal `json:"amount" validate:"required,decimal_gt=0,money"`
	PaymentTypeID int64           `json:"payment_type_id" validate:"required,gt=0"`
	Description   string          `json:"description" validate:"max=255"`
}

type SalePaymentRequest struct {
	OrderReference string          `json:"order_reference" validate:"required,max=64"`
	CustomerID     int64           `json:"customer_id" validate:"required,gt=0"`
	Total          decimal.Decimal `json:"total" validate:"required,decimal_gt=0,money"`
	AmountPaid     decimal.Decimal `json:"amount_paid" validate:"decimal_gte=0,money"`
	PaymentTypeID  int64           `json:"payment_type_id" validate:"omitempty,gt=0"`
}

type CreateAccountRequest struct {
	AccountName string      `json:"account_name" validate:"required,max=255"`
	AccountCode string      `json:"account_code" validate:"required,max=32"`
	AccountType AccountType `json:"account_type" validate:"required,oneof=asset liability equity revenue expense"`
	Description *string     `json:"description" validate:"omitempty,max=1000"`
}

type MappingRequest struct {
	CustomerLoanCode         int64  `json:"customer_loan_code" validate:"required,gt=0"`
	CustomerLoanInterestCode int64  `json:"customer_loan_interest_code" validate:"required,gt=0"`
	CustomerDepositCode      int64  `json:"customer_deposit_code" validate:"required,gt=0"`
	SalesRevenueCode         *int64 `json:"sales_revenue_code" validate:"omitempty,gt=0"`
	AccountsReceivableCode   *int64 `json:"accounts_receivable_code" validate:"omitempty,gt=0"`
}

// RepaymentAllocation splits an incoming payment. InterestDue + PrincipalPayment
// always equals the incoming amount.
type RepaymentAllocation struct {
	InterestDue      decimal.Decimal `json:"interest_due"`
	PrincipalPayment decimal.Decimal `json:"principal_payment"`
}

type DisbursementResult struct {
	Loan               *Loan         `json:"loan"`
	Transaction        *Transaction  `json:"transaction"`
	JournalEntry       *JournalEntry `json:"journal_entry"`
	DepositTransaction *Transaction  `json:"deposit_transaction,omitempty"`
	DepositEntry       *JournalEntry `json:"deposit_journal_entry,omitempty"`
	Saving             *Saving       `json:"saving,omitempty"`
}

type RepaymentResult struct {
	Loan         *Loan               `json:"loan"`
	Repayment    *Repayment          `json:"repayment"`
	Transaction  *Transaction        `json:"transaction"`
	JournalEntry *JournalEntry       `json:"journal_entry"`
	Allocation   RepaymentAllocation `json:"allocation"`
}

type SavingsResult struct {
	Saving       *Saving       `json:"saving"`
	Transaction  *Transaction  `json:"transaction"`
	JournalEntry *JournalEntry `json:"journal_entry"`
}

// SaleMode is derived from how much of an order was paid up front.
type SaleMode string

const (
	SaleCash    SaleMode = "cash"
	SalePartial SaleMode = "partial"
	SaleCredit  SaleMode = "credit"
)

type SalePaymentResult struct {
	Mode         SaleMode      `json:"mode"`
	Transaction  *Transaction  `json:"transaction"`
	JournalEntry *JournalEntry `json:"journal_entry"`
}

// LedgerAudit reports journal entries whose lines do not balance.
type LedgerAudit struct {
	EntriesChecked int              `json:"entries_checked"`
	Unbalanced     []JournalBalance `json:"unbalanced"`
	CheckedAt      time.Time        `json:"checked_at"`
}
