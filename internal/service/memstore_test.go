package service

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/segyhp/loan-engine/internal/domain"
	"github.com/segyhp/loan-engine/internal/repository"
	customError "github.com/segyhp/loan-engine/pkg/errors"
)

// memStore is an in-memory UnitOfWork. Transactions are serialized by txMu,
// which plays the part of the row locks, and a failed transaction restores the
// snapshot taken when it began.
type memStore struct {
	txMu     sync.Mutex
	mu       sync.Mutex
	data     *memData
	failures map[string]error
}

type memData struct {
	seq          int64
	loans        map[int64]domain.Loan
	guarantors   []domain.LoanGuarantor
	approvals    []domain.Approval
	accounts     map[int64]domain.ChartOfAccount
	mapping      *domain.ChartOfAccountMapping
	entries      []domain.JournalEntry
	transactions []domain.Transaction
	repayments   []domain.Repayment
	savings      map[int64]domain.Saving
	customers    map[int64]domain.Customer
	paymentTypes map[int64]domain.PaymentType
}

func newMemStore() *memStore {
	return &memStore{
		data: &memData{
			seq:          100,
			loans:        map[int64]domain.Loan{},
			accounts:     map[int64]domain.ChartOfAccount{},
			savings:      map[int64]domain.Saving{},
			customers:    map[int64]domain.Customer{},
			paymentTypes: map[int64]domain.PaymentType{},
		},
		failures: map[string]error{},
	}
}

func (d *memData) clone() *memData {
	c := *d
	c.loans = maps.Clone(d.loans)
	c.guarantors = slices.Clone(d.guarantors)
	c.approvals = slices.Clone(d.approvals)
	c.accounts = maps.Clone(d.accounts)
	c.entries = slices.Clone(d.entries)
	c.transactions = slices.Clone(d.transactions)
	c.repayments = slices.Clone(d.repayments)
	c.savings = maps.Clone(d.savings)
	c.customers = maps.Clone(d.customers)
	c.paymentTypes = maps.Clone(d.paymentTypes)
	if d.mapping != nil {
		m := *d.mapping
		c.mapping = &m
	}
	return &c
}

func (s *memStore) Repositories() *repository.Repositories {
	return &repository.Repositories{
		Loans:        memLoans{s},
		Approvals:    memApprovals{s},
		Accounts:     memAccounts{s},
		Journals:     memJournals{s},
		Transactions: memTransactions{s},
		Repayments:   memRepayments{s},
		Savings:      memSavings{s},
		Customers:    memCustomers{s},
		PaymentTypes: memPaymentTypes{s},
	}
}

func (s *memStore) WithinTx(ctx context.Context, fn func(ctx context.Context, repos *repository.Repositories) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	snapshot := s.data.clone()
	s.mu.Unlock()

	if err := fn(ctx, s.Repositories()); err != nil {
		s.mu.Lock()
		s.data = snapshot
		s.mu.Unlock()
		return err
	}
	return nil
}

// failOn makes the named repository operation return err.
func (s *memStore) failOn(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[op] = err
}

// lock takes the data mutex and reports an injected failure for op.
func (s *memStore) lock(op string) error {
	s.mu.Lock()
	return s.failures[op]
}

func (s *memStore) next() int64 {
	s.data.seq++
	return s.data.seq
}

// test helpers

func (s *memStore) loan(id int64) domain.Loan {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.loans[id]
}

func (s *memStore) putLoan(l domain.Loan) domain.Loan {
	s.mu.Lock()
	defer s.mu.Unlock()
	if l.ID == 0 {
		l.ID = s.next()
	}
	if l.Status == "" {
		l.Status = domain.LoanStatusOpen
	}
	s.data.loans[l.ID] = l
	if domain.IsReviewStage(l.Stage) {
		s.data.approvals = append(s.data.approvals, domain.Approval{
			ID: s.next(), LoanID: l.ID, Stage: l.Stage, Status: domain.ApprovalPending,
		})
	}
	return l
}

func (s *memStore) approvalsOf(loanID int64) []domain.Approval {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Approval
	for _, a := range s.data.approvals {
		if a.LoanID == loanID {
			out = append(out, a)
		}
	}
	return out
}

func (s *memStore) transactionsOf(kind domain.TransactionType) []domain.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Transaction
	for _, t := range s.data.transactions {
		if t.Type == kind {
			out = append(out, t)
		}
	}
	return out
}

func (s *memStore) journalEntries() []domain.JournalEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.data.entries)
}

func (s *memStore) repaymentsOf(loanID int64) []domain.Repayment {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Repayment
	for _, r := range s.data.repayments {
		if r.LoanID == loanID {
			out = append(out, r)
		}
	}
	return out
}

func (s *memStore) saving(customerID int64) (domain.Saving, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sv, ok := s.data.savings[customerID]
	return sv, ok
}

// loans

type memLoans struct{ s *memStore }

func (r memLoans) Create(ctx context.Context, loan *domain.Loan) error {
	defer r.s.mu.Unlock()
	if err := r.s.lock("Loans.Create"); err != nil {
		return err
	}
	for _, l := range r.s.data.loans {
		if l.CustomerID == loan.CustomerID && l.Status != domain.LoanStatusRepaid {
			return customError.Conflict("active loan exists", customError.ErrActiveLoanExists)
		}
	}
	loan.ID = r.s.next()
	loan.CreatedAt, loan.UpdatedAt = time.Now(), time.Now()
	r.s.data.loans[loan.ID] = *loan
	return nil
}

func (r memLoans) GetByID(ctx context.Context, id int64) (*domain.Loan, error) {
	defer r.s.mu.Unlock()
	if err := r.s.lock("Loans.GetByID"); err != nil {
		return nil, err
	}
	l, ok := r.s.data.loans[id]
	if !ok {
		return nil, customError.WrapLoanNotFound(id)
	}
	return &l, nil
}

func (r memLoans) GetByIDForUpdate(ctx context.Context, id int64) (*domain.Loan, error) {
	return r.GetByID(ctx, id)
}

func (r memLoans) Update(ctx context.Context, loan *domain.Loan) error {
	defer r.s.mu.Unlock()
	if err := r.s.lock("Loans.Update"); err != nil {
		return err
	}
	if _, ok := r.s.data.loans[loan.ID]; !ok {
		return customError.WrapLoanNotFound(loan.ID)
	}
	loan.UpdatedAt = time.Now()
	r.s.data.loans[loan.ID] = *loan
	return nil
}

func (r memLoans) HasOpenLoan(ctx context.Context, customerID int64) (bool, error) {
	defer r.s.mu.Unlock()
	if err := r.s.lock("Loans.HasOpenLoan"); err != nil {
		return false, err
	}
	for _, l := range r.s.data.loans {
		if l.CustomerID == customerID && l.Status != domain.LoanStatusRepaid {
			return true, nil
		}
	}
	return false, nil
}

func (r memLoans) ListOutstanding(ctx context.Context) ([]*domain.Loan, error) {
	defer r.s.mu.Unlock()
	if err := r.s.lock("Loans.ListOutstanding"); err != nil {
		return nil, err
	}
	var out []*domain.Loan
	for _, l := range r.s.data.loans {
		if l.Stage >= domain.StageDisbursed && l.Status != domain.LoanStatusRepaid {
			l := l
			out = append(out, &l)
		}
	}
	slices.SortFunc(out, func(a, b *domain.Loan) int { return int(a.ID - b.ID) })
	return out, nil
}

func (r memLoans) AddGuarantor(ctx context.Context, g *domain.LoanGuarantor) error {
	defer r.s.mu.Unlock()
	if err := r.s.lock("Loans.AddGuarantor"); err != nil {
		return err
	}
	for _, existing := range r.s.data.guarantors {
		if existing.LoanID == g.LoanID && existing.GuarantorID == g.GuarantorID {
			return customError.Conflict("guarantor already attached", nil)
		}
	}
	g.ID = r.s.next()
	g.CreatedAt = time.Now()
	r.s.data.guarantors = append(r.s.data.guarantors, *g)
	return nil
}

func (r memLoans) GetGuarantors(ctx context.Context, loanID int64) ([]*domain.LoanGuarantor, error) {
	defer r.s.mu.Unlock()
	if err := r.s.lock("Loans.GetGuarantors"); err != nil {
		return nil, err
	}
	out := []*domain.LoanGuarantor{}
	for _, g := range r.s.data.guarantors {
		if g.LoanID == loanID {
			g := g
			out = append(out, &g)
		}
	}
	return out, nil
}

// approvals

type memApprovals struct{ s *memStore }

func (r memApprovals) Create(ctx context.Context, a *domain.Approval) error {
	defer r.s.mu.Unlock()
	if err := r.s.lock("Approvals.Create"); err != nil {
		return err
	}
	a.ID = r.s.next()
	a.CreatedAt, a.UpdatedAt = time.Now(), time.Now()
	r.s.data.approvals = append(r.s.data.approvals, *a)
	return nil
}

func (r memApprovals) GetPendingForUpdate(ctx context.Context, loanID int64, stage domain.Stage) ([]*domain.Approval, error) {
	defer r.s.mu.Unlock()
	if err := r.s.lock("Approvals.GetPendingForUpdate"); err != nil {
		return nil, err
	}
	var out []*domain.Approval
	for _, a := range r.s.data.approvals {
		if a.LoanID == loanID && a.Stage == stage && a.Status == domain.ApprovalPending {
			a := a
			out = append(out, &a)
		}
	}
	return out, nil
}

func (r memApprovals) Update(ctx context.Context, a *domain.Approval) error {
	defer r.s.mu.Unlock()
	if err := r.s.lock("Approvals.Update"); err != nil {
		return err
	}
	for i := range r.s.data.approvals {
		if r.s.data.approvals[i].ID == a.ID {
			a.UpdatedAt = time.Now()
			r.s.data.approvals[i] = *a
			return nil
		}
	}
	return fmt.Errorf("approval %d not found", a.ID)
}

func (r memApprovals) ListByLoan(ctx context.Context, loanID int64) ([]*domain.Approval, error) {
	defer r.s.mu.Unlock()
	if err := r.s.lock("Approvals.ListByLoan"); err != nil {
		return nil, err
	}
	out := []*domain.Approval{}
	for _, a := range r.s.data.approvals {
		if a.LoanID == loanID {
			a := a
			out = append(out, &a)
		}
	}
	return out, nil
}

// accounts and mapping

type memAccounts struct{ s *memStore }

func (r memAccounts) Create(ctx context.Context, a *domain.ChartOfAccount) error {
	defer r.s.mu.Unlock()
	if err := r.s.lock("Accounts.Create"); err != nil {
		return err
	}
	for _, existing := range r.s.data.accounts {
		if existing.AccountCode == a.AccountCode {
			return customError.Conflict("duplicate code", customError.ErrDuplicateAccountCode)
		}
	}
	a.ID = r.s.next()
	a.CreatedAt, a.UpdatedAt = time.Now(), time.Now()
	r.s.data.accounts[a.ID] = *a
	return nil
}

func (r memAccounts) GetByID(ctx context.Context, id int64) (*domain.ChartOfAccount, error) {
	defer r.s.mu.Unlock()
	if err := r.s.lock("Accounts.GetByID"); err != nil {
		return nil, err
	}
	a, ok := r.s.data.accounts[id]
	if !ok {
		return nil, customError.NotFound("account not found", customError.ErrAccountNotFound)
	}
	return &a, nil
}

func (r memAccounts) GetByIDs(ctx context.Context, ids []int64) (map[int64]*domain.ChartOfAccount, error) {
	defer r.s.mu.Unlock()
	if err := r.s.lock("Accounts.GetByIDs"); err != nil {
		return nil, err
	}
	out := map[int64]*domain.ChartOfAccount{}
	for _, id := range ids {
		if a, ok := r.s.data.accounts[id]; ok {
			a := a
			out[id] = &a
		}
	}
	return out, nil
}

func (r memAccounts) List(ctx context.Context, activeOnly bool) ([]*domain.ChartOfAccount, error) {
	defer r.s.mu.Unlock()
	if err := r.s.lock("Accounts.List"); err != nil {
		return nil, err
	}
	out := []*domain.ChartOfAccount{}
	for _, a := range r.s.data.accounts {
		if activeOnly && !a.IsActive {
			continue
		}
		a := a
		out = append(out, &a)
	}
	slices.SortFunc(out, func(a, b *domain.ChartOfAccount) int {
		if a.AccountCode < b.AccountCode {
			return -1
		}
		if a.AccountCode > b.AccountCode {
			return 1
		}
		return 0
	})
	return out, nil
}

func (r memAccounts) SetActive(ctx context.Context, id int64, active bool) error {
	defer r.s.mu.Unlock()
	if err := r.s.lock("Accounts.SetActive"); err != nil {
		return err
	}
	a, ok := r.s.data.accounts[id]
	if !ok {
		return customError.NotFound("account not found", customError.ErrAccountNotFound)
	}
	a.IsActive = active
	r.s.data.accounts[id] = a
	return nil
}

func (r memAccounts) GetMapping(ctx context.Context) (*domain.ChartOfAccountMapping, error) {
	defer r.s.mu.Unlock()
	if err := r.s.lock("Accounts.GetMapping"); err != nil {
		return nil, err
	}
	if r.s.data.mapping == nil {
		return nil, customError.NotFound("mapping not configured", customError.ErrMappingNotFound)
	}
	m := *r.s.data.mapping
	return &m, nil
}

func (r memAccounts) CreateMapping(ctx context.Context, m *domain.ChartOfAccountMapping) error {
	defer r.s.mu.Unlock()
	if err := r.s.lock("Accounts.CreateMapping"); err != nil {
		return err
	}
	if r.s.data.mapping != nil {
		return customError.Conflict("mapping exists", customError.ErrMappingAlreadyExists)
	}
	m.ID = r.s.next()
	stored := *m
	r.s.data.mapping = &stored
	return nil
}

func (r memAccounts) UpdateMapping(ctx context.Context, m *domain.ChartOfAccountMapping) error {
	defer r.s.mu.Unlock()
	if err := r.s.lock("Accounts.UpdateMapping"); err != nil {
		return err
	}
	if r.s.data.mapping == nil {
		return customError.NotFound("mapping not configured", customError.ErrMappingNotFound)
	}
	stored := *m
	r.s.data.mapping = &stored
	return nil
}

// journal

type memJournals struct{ s *memStore }

func (r memJournals) CreateEntry(ctx context.Context, e *domain.JournalEntry) error {
	defer r.s.mu.Unlock()
	if err := r.s.lock("Journals.CreateEntry"); err != nil {
		return err
	}
	e.ID = r.s.next()
	e.CreatedAt = time.Now()
	for i := range e.Lines {
		e.Lines[i].ID = r.s.next()
		e.Lines[i].JournalEntryID = e.ID
	}
	stored := *e
	stored.Lines = slices.Clone(e.Lines)
	r.s.data.entries = append(r.s.data.entries, stored)
	return nil
}

func (r memJournals) GetByID(ctx context.Context, id int64) (*domain.JournalEntry, error) {
	defer r.s.mu.Unlock()
	if err := r.s.lock("Journals.GetByID"); err != nil {
		return nil, err
	}
	for _, e := range r.s.data.entries {
		if e.ID == id {
			e.Lines = slices.Clone(e.Lines)
			return &e, nil
		}
	}
	return nil, customError.NotFound("journal entry not found", customError.ErrJournalEntryNotFound)
}

func (r memJournals) ListByTransaction(ctx context.Context, transactionID int64) ([]*domain.JournalEntry, error) {
	defer r.s.mu.Unlock()
	if err := r.s.lock("Journals.ListByTransaction"); err != nil {
		return nil, err
	}
	out := []*domain.JournalEntry{}
	for _, e := range r.s.data.entries {
		if e.TransactionID != nil && *e.TransactionID == transactionID {
			e := e
			e.Lines = slices.Clone(e.Lines)
			out = append(out, &e)
		}
	}
	return out, nil
}

func (r memJournals) Balances(ctx context.Context) ([]domain.JournalBalance, error) {
	defer r.s.mu.Unlock()
	if err := r.s.lock("Journals.Balances"); err != nil {
		return nil, err
	}
	var out []domain.JournalBalance
	for _, e := range r.s.data.entries {
		d, c := domain.Totals(e.Lines)
		out = append(out, domain.JournalBalance{
			JournalEntryID:  e.ID,
			ReferenceNumber: e.ReferenceNumber,
			TotalDebit:      d,
			TotalCredit:     c,
			LineCount:       len(e.Lines),
		})
	}
	return out, nil
}

// transactions, repayments, savings

type memTransactions struct{ s *memStore }

func (r memTransactions) Create(ctx context.Context, t *domain.Transaction) error {
	defer r.s.mu.Unlock()
	if err := r.s.lock("Transactions.Create"); err != nil {
		return err
	}
	t.ID = r.s.next()
	t.CreatedAt = time.Now()
	r.s.data.transactions = append(r.s.data.transactions, *t)
	return nil
}

func (r memTransactions) ExistsForLoan(ctx context.Context, loanID int64, txnType domain.TransactionType) (bool, error) {
	defer r.s.mu.Unlock()
	if err := r.s.lock("Transactions.ExistsForLoan"); err != nil {
		return false, err
	}
	for _, t := range r.s.data.transactions {
		if t.LoanID != nil && *t.LoanID == loanID && t.Type == txnType {
			return true, nil
		}
	}
	return false, nil
}

func (r memTransactions) ListByLoan(ctx context.Context, loanID int64) ([]*domain.Transaction, error) {
	defer r.s.mu.Unlock()
	if err := r.s.lock("Transactions.ListByLoan"); err != nil {
		return nil, err
	}
	out := []*domain.Transaction{}
	for _, t := range r.s.data.transactions {
		if t.LoanID != nil && *t.LoanID == loanID {
			t := t
			out = append(out, &t)
		}
	}
	return out, nil
}

type memRepayments struct{ s *memStore }

func (r memRepayments) Create(ctx context.Context, rp *domain.Repayment) error {
	defer r.s.mu.Unlock()
	if err := r.s.lock("Repayments.Create"); err != nil {
		return err
	}
	rp.ID = r.s.next()
	rp.CreatedAt = time.Now()
	r.s.data.repayments = append(r.s.data.repayments, *rp)
	return nil
}

func (r memRepayments) ListByLoan(ctx context.Context, loanID int64) ([]*domain.Repayment, error) {
	defer r.s.mu.Unlock()
	if err := r.s.lock("Repayments.ListByLoan"); err != nil {
		return nil, err
	}
	out := []*domain.Repayment{}
	for _, rp := range r.s.data.repayments {
		if rp.LoanID == loanID {
			rp := rp
			out = append(out, &rp)
		}
	}
	return out, nil
}

func (r memRepayments) Totals(ctx context.Context, loanID int64) (domain.RepaymentTotals, error) {
	defer r.s.mu.Unlock()
	if err := r.s.lock("Repayments.Totals"); err != nil {
		return domain.RepaymentTotals{}, err
	}
	totals := domain.RepaymentTotals{AmountPaid: decimal.Zero, InterestPaid: decimal.Zero}
	for _, rp := range r.s.data.repayments {
		if rp.LoanID == loanID {
			totals.AmountPaid = totals.AmountPaid.Add(rp.AmountPaid)
			totals.InterestPaid = totals.InterestPaid.Add(rp.InterestPaid)
		}
	}
	return totals, nil
}

type memSavings struct{ s *memStore }

func (r memSavings) GetByCustomer(ctx context.Context, customerID int64) (*domain.Saving, error) {
	defer r.s.mu.Unlock()
	if err := r.s.lock("Savings.GetByCustomer"); err != nil {
		return nil, err
	}
	sv, ok := r.s.data.savings[customerID]
	if !ok {
		return nil, customError.NotFound("no savings", customError.ErrSavingNotFound)
	}
	return &sv, nil
}

func (r memSavings) GetByCustomerForUpdate(ctx context.Context, customerID int64) (*domain.Saving, error) {
	return r.GetByCustomer(ctx, customerID)
}

func (r memSavings) Create(ctx context.Context, sv *domain.Saving) error {
	defer r.s.mu.Unlock()
	if err := r.s.lock("Savings.Create"); err != nil {
		return err
	}
	if _, ok := r.s.data.savings[sv.CustomerID]; ok {
		return customError.Conflict("savings exist", nil)
	}
	sv.ID = r.s.next()
	r.s.data.savings[sv.CustomerID] = *sv
	return nil
}

func (r memSavings) UpdateBalance(ctx context.Context, sv *domain.Saving) error {
	defer r.s.mu.Unlock()
	if err := r.s.lock("Savings.UpdateBalance"); err != nil {
		return err
	}
	r.s.data.savings[sv.CustomerID] = *sv
	return nil
}

// collaborators

type memCustomers struct{ s *memStore }

func (r memCustomers) GetCustomer(ctx context.Context, id int64) (*domain.Customer, error) {
	defer r.s.mu.Unlock()
	if err := r.s.lock("Customers.GetCustomer"); err != nil {
		return nil, err
	}
	c, ok := r.s.data.customers[id]
	if !ok {
		return nil, customError.NotFound("customer not found", customError.ErrCustomerNotFound)
	}
	return &c, nil
}

type memPaymentTypes struct{ s *memStore }

func (r memPaymentTypes) GetPaymentType(ctx context.Context, id int64) (*domain.PaymentType, error) {
	defer r.s.mu.Unlock()
	if err := r.s.lock("PaymentTypes.GetPaymentType"); err != nil {
		return nil, err
	}
	pt, ok := r.s.data.paymentTypes[id]
	if !ok {
		return nil, customError.NotFound("payment type not found", customError.ErrPaymentTypeNotFound)
	}
	return &pt, nil
}

// Seeded ids.
const (
	acctReceivable int64 = 1
	acctInterest   int64 = 2
	acctDeposits   int64 = 3
	acctCash       int64 = 4
	acctRevenue    int64 = 5
	acctAR         int64 = 6

	customerAda     int64 = 7
	customerCompany int64 = 8

	paymentCash    int64 = 1
	paymentSavings int64 = 2

	testUserID int64 = 42
)

// seedLedger loads a chart of accounts, the mapping, two customers and two
// payment types.
func seedLedger(s *memStore) *memStore {
	s.mu.Lock()
	defer s.mu.Unlock()

	accounts := []domain.ChartOfAccount{
		{ID: acctReceivable, AccountName: "Loans Receivable", AccountCode: "1200", AccountType: domain.AccountAsset},
		{ID: acctInterest, AccountName: "Interest Income", AccountCode: "4100", AccountType: domain.AccountRevenue},
		{ID: acctDeposits, AccountName: "Customer Deposits", AccountCode: "2100", AccountType: domain.AccountLiability},
		{ID: acctCash, AccountName: "Cash", AccountCode: "1000", AccountType: domain.AccountAsset},
		{ID: acctRevenue, AccountName: "Sales Revenue", AccountCode: "4000", AccountType: domain.AccountRevenue},
		{ID: acctAR, AccountName: "Accounts Receivable", AccountCode: "1100", AccountType: domain.AccountAsset},
	}
	for _, a := range accounts {
		a.IsActive = true
		s.data.accounts[a.ID] = a
	}

	revenue, ar := acctRevenue, acctAR
	s.data.mapping = &domain.ChartOfAccountMapping{
		ID:                       1,
		CustomerLoanCode:         acctReceivable,
		CustomerLoanInterestCode: acctInterest,
		CustomerDepositCode:      acctDeposits,
		SalesRevenueCode:         &revenue,
		AccountsReceivableCode:   &ar,
	}

	first, surname, company := "Ada", "Obi", "Obi Traders Ltd"
	s.data.customers[customerAda] = domain.Customer{
		ID: customerAda, CustomerType: domain.CustomerIndividual, FirstName: &first, Surname: &surname,
	}
	s.data.customers[customerCompany] = domain.Customer{
		ID: customerCompany, CustomerType: domain.CustomerCompany, CompanyName: &company,
	}

	s.data.paymentTypes[paymentCash] = domain.PaymentType{ID: paymentCash, Name: "Cash", ChartOfAccountID: acctCash}
	s.data.paymentTypes[paymentSavings] = domain.PaymentType{ID: paymentSavings, Name: "Savings", ChartOfAccountID: acctDeposits}
	return s
}

func (s *memStore) dropMapping() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.mapping = nil
}

func (s *memStore) putSaving(customerID int64, balance decimal.Decimal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.savings[customerID] = domain.Saving{ID: s.next(), CustomerID: customerID, Balance: balance}
}

func (s *memStore) putJournalEntry(e domain.JournalEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e.ID = s.next()
	s.data.entries = append(s.data.entries, e)
}

func testActor() context.Context {
	return WithActor(context.Background(), testUserID)
}

func (s *memStore) clearApprovals(loanID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.approvals = slices.DeleteFunc(s.data.approvals, func(a domain.Approval) bool { return a.LoanID == loanID })
}

func (s *memStore) setAccountActive(id int64, active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a := s.data.accounts[id]
	a.IsActive = active
	s.data.accounts[id] = a
}
