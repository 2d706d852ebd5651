package domain

import "time"

// AccountType is the accounting category of a chart-of-account entry.
type AccountType string

const (
	AccountAsset     AccountType = "asset"
	AccountLiability AccountType = "liability"
	AccountEquity    AccountType = "equity"
	AccountRevenue   AccountType = "revenue"
	AccountExpense   AccountType = "expense"
)

// Valid reports whether t is a known account type.
func (t AccountType) Valid() bool {
	switch t {
	case AccountAsset, AccountLiability, AccountEquity, AccountRevenue, AccountExpense:
		return true
	}
	return false
}

// ChartOfAccount is one ledger account.
type ChartOfAccount struct {
	ID          int64       `json:"id" db:"id"`
	AccountName string      `json:"account_name" db:"account_name"`
	AccountCode string      `json:"account_code" db:"account_code"`
	AccountType AccountType `json:"account_type" db:"account_type"`
	Description *string     `json:"description,omitempty" db:"description"`
	IsActive    bool        `json:"is_active" db:"is_active"`
	CreatedAt   time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at" db:"updated_at"`
}

// ChartOfAccountMapping is the singleton row binding posting roles to accounts.
// Each *Code field holds a ChartOfAccount id.
type ChartOfAccountMapping struct {
	ID                       int64     `json:"id" db:"id"`
	CustomerLoanCode         int64     `json:"customer_loan_code" db:"customer_loan_code"`
	CustomerLoanInterestCode int64     `json:"customer_loan_interest_code" db:"customer_loan_interest_code"`
	CustomerDepositCode      int64     `json:"customer_deposit_code" db:"customer_deposit_code"`
	SalesRevenueCode         *int64    `json:"sales_revenue_code,omitempty" db:"sales_revenue_code"`
	AccountsReceivableCode   *int64    `json:"accounts_receivable_code,omitempty" db:"accounts_receivable_code"`
	CreatedAt                time.Time `json:"created_at" db:"created_at"`
	UpdatedAt                time.Time `json:"updated_at" db:"updated_at"`
}

// AccountIDs lists every account the mapping references.
func (m *ChartOfAccountMapping) AccountIDs() []int64 {
	ids := []int64{m.CustomerLoanCode, m.CustomerLoanInterestCode, m.CustomerDepositCode}
	if m.SalesRevenueCode != nil {
		ids = append(ids, *m.SalesRevenueCode)
	}
	if m.AccountsReceivableCode != nil {
		ids = append(ids, *m.AccountsReceivableCode)
	}
	return ids
}
