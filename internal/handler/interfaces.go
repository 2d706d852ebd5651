package handler

import (
	"context"

	"github.com/segyhp/loan-engine/internal/domain"
)

// LoanService is the loan workflow used by LoanHandler.
type LoanService interface {
	CreateLoan(ctx context.Context, req *domain.CreateLoanRequest) (*domain.Loan, error)
	Next(ctx context.Context, loanID int64, req *domain.NextRequest) (*domain.Loan, error)
	Back(ctx context.Context, loanID int64) (*domain.Loan, error)
	Approve(ctx context.Context, loanID int64, req *domain.ApproveRequest) (*domain.Loan, error)
	Disburse(ctx context.Context, loanID int64, req *domain.DisburseRequest) (*domain.DisbursementResult, error)
	Repay(ctx context.Context, loanID int64, req *domain.RepaymentRequest) (*domain.RepaymentResult, error)
	GetLoan(ctx context.Context, loanID int64) (*domain.LoanDetails, error)
	GetOutstanding(ctx context.Context, loanID int64) (*domain.OutstandingResponse, error)
	ListApprovals(ctx context.Context, loanID int64) ([]*domain.Approval, error)
}

type SavingsService interface {
	Deposit(ctx context.Context, req *domain.SavingsRequest) (*domain.SavingsResult, error)
	Withdraw(ctx context.Context, req *domain.SavingsRequest) (*domain.SavingsResult, error)
	GetSaving(ctx context.Context, customerID int64) (*domain.Saving, error)
}

type SaleService interface {
	PostSalePayment(ctx context.Context, req *domain.SalePaymentRequest) (*domain.SalePaymentResult, error)
}

type AccountService interface {
	CreateAccount(ctx context.Context, req *domain.CreateAccountRequest) (*domain.ChartOfAccount, error)
	GetAccount(ctx context.Context, id int64) (*domain.ChartOfAccount, error)
	ListAccounts(ctx context.Context, activeOnly bool) ([]*domain.ChartOfAccount, error)
	SetAccountActive(ctx context.Context, id int64, active bool) (*domain.ChartOfAccount, error)
	CreateMapping(ctx context.Context, req *domain.MappingRequest) (*domain.ChartOfAccountMapping, error)
	UpdateMapping(ctx context.Context, req *domain.MappingRequest) (*domain.ChartOfAccountMapping, error)
	GetMapping(ctx context.Context) (*domain.ChartOfAccountMapping, error)
}

type LedgerService interface {
	GetJournalEntry(ctx context.Context, id int64) (*domain.JournalEntry, error)
	ListJournalEntriesByTransaction(ctx context.Context, transactionID int64) ([]*domain.JournalEntry, error)
	AuditLedger(ctx context.Context) (*domain.LedgerAudit, error)
}
