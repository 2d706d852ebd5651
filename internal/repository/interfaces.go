package repository

import (
	"context"

	"github.com/segyhp/loan-engine/internal/domain"
)

// LoanRepository defines the interface for loan data operations
type LoanRepository interface {
	// Create inserts a loan and fills in its generated id and timestamps
	Create(ctx context.Context, loan *domain.Loan) error

	// GetByID retrieves a loan by id
	GetByID(ctx context.Context, id int64) (*domain.Loan, error)

	// GetByIDForUpdate retrieves a loan and row-locks it until the surrounding transaction ends
	GetByIDForUpdate(ctx context.Context, id int64) (*domain.Loan, error)

	// Update persists the mutable columns of a loan
	Update(ctx context.Context, loan *domain.Loan) error

	// HasOpenLoan reports whether the customer holds a loan that is not repaid
	HasOpenLoan(ctx context.Context, customerID int64) (bool, error)

	// ListOutstanding returns disbursed loans that are not repaid
	ListOutstanding(ctx context.Context) ([]*domain.Loan, error)

	// AddGuarantor attaches a guarantor to a loan
	AddGuarantor(ctx context.Context, guarantor *domain.LoanGuarantor) error

	// GetGuarantors lists the guarantors of a loan
	GetGuarantors(ctx context.Context, loanID int64) ([]*domain.LoanGuarantor, error)
}

// ApprovalRepository defines the interface for approval records
type ApprovalRepository interface {
	Create(ctx context.Context, approval *domain.Approval) error

	// GetPendingForUpdate returns every pending approval for (loan, stage), row-locked
	GetPendingForUpdate(ctx context.Context, loanID int64, stage domain.Stage) ([]*domain.Approval, error)

	Update(ctx context.Context, approval *domain.Approval) error

	ListByLoan(ctx context.Context, loanID int64) ([]*domain.Approval, error)
}

// AccountRepository defines chart-of-account and mapping persistence
type AccountRepository interface {
	Create(ctx context.Context, account *domain.ChartOfAccount) error
	GetByID(ctx context.Context, id int64) (*domain.ChartOfAccount, error)
	GetByIDs(ctx context.Context, ids []int64) (map[int64]*domain.ChartOfAccount, error)
	List(ctx context.Context, activeOnly bool) ([]*domain.ChartOfAccount, error)
	SetActive(ctx context.Context, id int64, active bool) error

	// GetMapping returns the singleton mapping row
	GetMapping(ctx context.Context) (*domain.ChartOfAccountMapping, error)

	// CreateMapping inserts the singleton row; a second row is rejected by the schema
	CreateMapping(ctx context.Context, mapping *domain.ChartOfAccountMapping) error

	UpdateMapping(ctx context.Context, mapping *domain.ChartOfAccountMapping) error
}

// JournalRepository defines append-only ledger persistence
type JournalRepository interface {
	// CreateEntry inserts the entry and all of its lines
	CreateEntry(ctx context.Context, entry *domain.JournalEntry) error

	// GetByID returns an entry with its lines
	GetByID(ctx context.Context, id int64) (*domain.JournalEntry, error)

	// ListByTransaction returns entries (with lines) originated by a transaction
	ListByTransaction(ctx context.Context, transactionID int64) ([]*domain.JournalEntry, error)

	// Balances sums debit and credit for every entry
	Balances(ctx context.Context) ([]domain.JournalBalance, error)
}

// TransactionRepository defines business transaction persistence
type TransactionRepository interface {
	Create(ctx context.Context, txn *domain.Transaction) error
	ListByLoan(ctx context.Context, loanID int64) ([]*domain.Transaction, error)

	// ExistsForLoan reports whether the loan has a transaction of the given type
	ExistsForLoan(ctx context.Context, loanID int64, txnType domain.TransactionType) (bool, error)
}

// RepaymentRepository defines repayment persistence
type RepaymentRepository interface {
	Create(ctx context.Context, repayment *domain.Repayment) error
	ListByLoan(ctx context.Context, loanID int64) ([]*domain.Repayment, error)

	// Totals sums amount_paid and interest_paid for a loan
	Totals(ctx context.Context, loanID int64) (domain.RepaymentTotals, error)
}

// SavingRepository defines customer savings persistence
type SavingRepository interface {
	GetByCustomer(ctx context.Context, customerID int64) (*domain.Saving, error)
	GetByCustomerForUpdate(ctx context.Context, customerID int64) (*domain.Saving, error)
	Create(ctx context.Context, saving *domain.Saving) error
	UpdateBalance(ctx context.Context, saving *domain.Saving) error
}

// CustomerDirectory looks up customers owned by the customer registry
type CustomerDirectory interface {
	GetCustomer(ctx context.Context, id int64) (*domain.Customer, error)
}

// PaymentTypeDirectory looks up payment channels and their ledger accounts
type PaymentTypeDirectory interface {
	GetPaymentType(ctx context.Context, id int64) (*domain.PaymentType, error)
}

// Repositories groups every repository bound to the same connection or transaction.
type Repositories struct {
	Loans        LoanRepository
	Approvals    ApprovalRepository
	Accounts     AccountRepository
	Journals     JournalRepository
	Transactions TransactionRepository
	Repayments   RepaymentRepository
	Savings      SavingRepository
	Customers    CustomerDirectory
	PaymentTypes PaymentTypeDirectory
}

// UnitOfWork runs business operations against the store.
type UnitOfWork interface {
	// Repositories returns repositories outside of any transaction, for reads
	Repositories() *Repositories

	// WithinTx runs fn inside one database transaction. Any error returned by fn
	// rolls back every write made through the repositories it was given.
	WithinTx(ctx context.Context, fn func(ctx context.Context, repos *Repositories) error) error
}
