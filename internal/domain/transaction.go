package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType is the business event a Transaction records.
type TransactionType string

const (
	TransactionDisbursement TransactionType = "Disbursement"
	TransactionDeposit      TransactionType = "Deposit"
	TransactionWithdrawal   TransactionType = "Withdrawal"
	TransactionLoanPayment  TransactionType = "LoanPayment"
	TransactionSalePayment  TransactionType = "SalePayment"
)

// Transaction is a money-moving business event. It originates at most one JournalEntry.
type Transaction struct {
	ID                   int64           `json:"id" db:"id"`
	CustomerID           int64           `json:"customer_id" db:"customer_id"`
	UserID               int64           `json:"user_id" db:"user_id"`
	LoanID               *int64          `json:"loan_id,omitempty" db:"loan_id"`
	SavingsID            *int64          `json:"savings_id,omitempty" db:"savings_id"`
	Amount               decimal.Decimal `json:"amount" db:"amount"`
	Type                 TransactionType `json:"type" db:"type"`
	PaymentTypeID        int64           `json:"payment_type_id" db:"payment_type_id"`
	TransactionReference string          `json:"transaction_reference" db:"transaction_reference"`
	Description          string          `json:"description" db:"description"`
	CreatedAt            time.Time       `json:"created_at" db:"created_at"`
}

// Repayment records one payment against a loan.
// BalanceAfter is always BalanceBefore minus AmountPaid.
type Repayment struct {
	ID            int64           `json:"id" db:"id"`
	LoanID        int64           `json:"loan_id" db:"loan_id"`
	UserID        int64           `json:"user_id" db:"user_id"`
	AmountPaid    decimal.Decimal `json:"amount_paid" db:"amount_paid"`
	InterestPaid  decimal.Decimal `json:"interest_paid" db:"interest_paid"`
	PaymentDate   time.Time       `json:"payment_date" db:"payment_date"`
	BalanceBefore decimal.Decimal `json:"balance_before" db:"balance_before"`
	BalanceAfter  decimal.Decimal `json:"balance_after" db:"balance_after"`
	TransactionID int64           `json:"transaction_id" db:"transaction_id"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
}

// RepaymentTotals aggregates a loan's repayments.
type RepaymentTotals struct {
	AmountPaid   decimal.Decimal `db:"amount_paid"`
	InterestPaid decimal.Decimal `db:"interest_paid"`
}

// Saving is a customer's deposit account. Balance never goes negative.
type Saving struct {
	ID         int64           `json:"id" db:"id"`
	CustomerID int64           `json:"customer_id" db:"customer_id"`
	Balance    decimal.Decimal `json:"balance" db:"balance"`
	CreatedAt  time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at" db:"updated_at"`
}
