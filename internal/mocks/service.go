package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/segyhp/loan-engine/internal/domain"
)

type MockLoanService struct {
	mock.Mock
}

func (m *MockLoanService) CreateLoan(ctx context.Context, req *domain.CreateLoanRequest) (*domain.Loan, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Loan), args.Error(1)
}

func (m *MockLoanService) Next(ctx context.Context, loanID int64, req *domain.NextRequest) (*domain.Loan, error) {
	args := m.Called(ctx, loanID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Loan), args.Error(1)
}

func (m *MockLoanService) Back(ctx context.Context, loanID int64) (*domain.Loan, error) {
	args := m.Called(ctx, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Loan), args.Error(1)
}

func (m *MockLoanService) Approve(ctx context.Context, loanID int64, req *domain.ApproveRequest) (*domain.Loan, error) {
	args := m.Called(ctx, loanID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Loan), args.Error(1)
}

func (m *MockLoanService) Disburse(ctx context.Context, loanID int64, req *domain.DisburseRequest) (*domain.DisbursementResult, error) {
	args := m.Called(ctx, loanID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DisbursementResult), args.Error(1)
}

func (m *MockLoanService) Repay(ctx context.Context, loanID int64, req *domain.RepaymentRequest) (*domain.RepaymentResult, error) {
	args := m.Called(ctx, loanID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RepaymentResult), args.Error(1)
}

func (m *MockLoanService) GetLoan(ctx context.Context, loanID int64) (*domain.LoanDetails, error) {
	args := m.Called(ctx, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LoanDetails), args.Error(1)
}

func (m *MockLoanService) GetOutstanding(ctx context.Context, loanID int64) (*domain.OutstandingResponse, error) {
	args := m.Called(ctx, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.OutstandingResponse), args.Error(1)
}

func (m *MockLoanService) ListApprovals(ctx context.Context, loanID int64) ([]*domain.Approval, error) {
	args := m.Called(ctx, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Approval), args.Error(1)
}

type MockSavingsService struct {
	mock.Mock
}

func (m *MockSavingsService) Deposit(ctx context.Context, req *domain.SavingsRequest) (*domain.SavingsResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SavingsResult), args.Error(1)
}

func (m *MockSavingsService) Withdraw(ctx context.Context, req *domain.SavingsRequest) (*domain.SavingsResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SavingsResult), args.Error(1)
}

func (m *MockSavingsService) GetSaving(ctx context.Context, customerID int64) (*domain.Saving, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Saving), args.Error(1)
}

type MockSaleService struct {
	mock.Mock
}

func (m *MockSaleService) PostSalePayment(ctx context.Context, req *domain.SalePaymentRequest) (*domain.SalePaymentResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SalePaymentResult), args.Error(1)
}

type MockAccountService struct {
	mock.Mock
}

func (m *MockAccountService) CreateAccount(ctx context.Context, req *domain.CreateAccountRequest) (*domain.ChartOfAccount, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ChartOfAccount), args.Error(1)
}

func (m *MockAccountService) GetAccount(ctx context.Context, id int64) (*domain.ChartOfAccount, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ChartOfAccount), args.Error(1)
}

func (m *MockAccountService) ListAccounts(ctx context.Context, activeOnly bool) ([]*domain.ChartOfAccount, error) {
	args := m.Called(ctx, activeOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ChartOfAccount), args.Error(1)
}

func (m *MockAccountService) SetAccountActive(ctx context.Context, id int64, active bool) (*domain.ChartOfAccount, error) {
	args := m.Called(ctx, id, active)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ChartOfAccount), args.Error(1)
}

func (m *MockAccountService) CreateMapping(ctx context.Context, req *domain.MappingRequest) (*domain.ChartOfAccountMapping, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ChartOfAccountMapping), args.Error(1)
}

func (m *MockAccountService) UpdateMapping(ctx context.Context, req *domain.MappingRequest) (*domain.ChartOfAccountMapping, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ChartOfAccountMapping), args.Error(1)
}

func (m *MockAccountService) GetMapping(ctx context.Context) (*domain.ChartOfAccountMapping, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ChartOfAccountMapping), args.Error(1)
}

type MockLedgerService struct {
	mock.Mock
}

func (m *MockLedgerService) GetJournalEntry(ctx context.Context, id int64) (*domain.JournalEntry, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockLedgerService) ListJournalEntriesByTransaction(ctx context.Context, transactionID int64) ([]*domain.JournalEntry, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.JournalEntry), args.Error(1)
}

func (m *MockLedgerService) AuditLedger(ctx context.Context) (*domain.LedgerAudit, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LedgerAudit), args.Error(1)
}
