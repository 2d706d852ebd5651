package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/segyhp/loan-engine/internal/domain"
	"github.com/segyhp/loan-engine/internal/repository"
	customError "github.com/segyhp/loan-engine/pkg/errors"
	"github.com/segyhp/loan-engine/pkg/utils"
)

// LoanService drives a loan through its stages and posts the money-moving ones.
type LoanService struct {
	Store     repository.UnitOfWork
	Documents DocumentStore
	Cache     BalanceCache
	validate  *validator.Validate
	logger    *slog.Logger
	now       func() time.Time
}

func NewLoanService(
	store repository.UnitOfWork,
	documents DocumentStore,
	cache BalanceCache,
	logger *slog.Logger,
) *LoanService {
	return &LoanService{
		Store:     store,
		Documents: documents,
		Cache:     cache,
		validate:  domain.NewValidator(),
		logger:    logger,
		now:       time.Now,
	}
}

// CreateLoan opens an application at stage 1. The application form is stored
// first and removed again if the loan cannot be saved.
func (s *LoanService) CreateLoan(ctx context.Context, req *domain.CreateLoanRequest) (*domain.Loan, error) {
	userID, err := ActorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if err := domain.ValidateStruct(s.validate, req); err != nil {
		return nil, err
	}

	repos := s.Store.Repositories()
	if _, err := repos.Customers.GetCustomer(ctx, req.CustomerID); err != nil {
		return nil, normalizeError(err)
	}
	open, err := repos.Loans.HasOpenLoan(ctx, req.CustomerID)
	if err != nil {
		return nil, normalizeError(err)
	}
	if open {
		return nil, customError.Conflict(
			fmt.Sprintf("customer %d already has an active loan", req.CustomerID), customError.ErrActiveLoanExists)
	}

	terms := utils.CalculateLoanTerms(req.LoanAmount, req.InterestRate, req.LoanDuration)
	loan := &domain.Loan{
		CustomerID:       req.CustomerID,
		LoanType:         req.LoanType,
		LoanAmount:       req.LoanAmount,
		LoanDuration:     req.LoanDuration,
		InterestRate:     req.InterestRate,
		InterestAmount:   terms.InterestAmount,
		MonthlyRepayment: terms.MonthlyRepayment,
		TotalRepayment:   terms.TotalRepayment,
		Stage:            domain.StageApplication,
		Status:           domain.LoanStatusOpen,
		FacilityBranchID: req.FacilityBranchID,
		UserID:           userID,
	}

	var uploaded []string
	if req.ApplicationForm != nil {
		path, err := s.Documents.Store(ctx, folderApplicationForms, req.ApplicationForm.FileName, req.ApplicationForm.Data)
		if err != nil {
			logFailure(s.logger, "store application form", err, slog.Int64("customer_id", req.CustomerID))
			return nil, err
		}
		uploaded = append(uploaded, path)
		loan.ApplicationForm = &path
	}

	err = s.Store.WithinTx(ctx, func(ctx context.Context, repos *repository.Repositories) error {
		return repos.Loans.Create(ctx, loan)
	})
	if err != nil {
		s.discardUploads(ctx, uploaded...)
		err = normalizeError(err)
		logFailure(s.logger, "create loan", err, slog.Int64("customer_id", req.CustomerID))
		return nil, err
	}

	s.logger.Info("loan application created",
		slog.Int64("loan_id", loan.ID),
		slog.Int64("customer_id", loan.CustomerID),
		slog.String("total_repayment", loan.TotalRepayment.StringFixed(2)),
	)
	return loan, nil
}

// Next runs the wizard step for the loan's current stage.
func (s *LoanService) Next(ctx context.Context, loanID int64, req *domain.NextRequest) (*domain.Loan, error) {
	if req == nil {
		req = &domain.NextRequest{}
	}
	if _, err := ActorFromContext(ctx); err != nil {
		return nil, err
	}
	if err := domain.ValidateStruct(s.validate, req); err != nil {
		return nil, err
	}

	loan, err := s.Store.Repositories().Loans.GetByID(ctx, loanID)
	if err != nil {
		return nil, normalizeError(err)
	}

	switch loan.Stage {
	case domain.StageApplication:
		return s.completeApplication(ctx, loanID, req.ApplicationForm)
	case domain.StageDocumentation:
		return s.Documentation(ctx, loanID, req.Guarantors)
	case domain.StageSubmitted:
		return s.Submit(ctx, loanID, req.SubmitRemarks)
	}
	return nil, customError.WrapInvalidStage(loanID, int(loan.Stage), "advance")
}

// completeApplication moves 1 -> 2, optionally replacing the application form.
func (s *LoanService) completeApplication(ctx context.Context, loanID int64, form *domain.Document) (*domain.Loan, error) {
	var uploaded []string
	if form != nil {
		path, err := s.Documents.Store(ctx, folderApplicationForms, form.FileName, form.Data)
		if err != nil {
			logFailure(s.logger, "store application form", err, slog.Int64("loan_id", loanID))
			return nil, err
		}
		uploaded = append(uploaded, path)
	}

	var replaced string
	loan, err := s.advance(ctx, loanID, domain.StageApplication, "complete application", uploaded,
		func(ctx context.Context, repos *repository.Repositories, loan *domain.Loan) error {
			if len(uploaded) > 0 {
				if loan.ApplicationForm != nil {
					replaced = *loan.ApplicationForm
				}
				loan.ApplicationForm = &uploaded[0]
			}
			return nil
		})
	if err != nil {
		return nil, err
	}

	s.discardUploads(ctx, replaced)
	return loan, nil
}

// Documentation attaches guarantors and moves 2 -> 3.
func (s *LoanService) Documentation(ctx context.Context, loanID int64, guarantors []domain.GuarantorInput) (*domain.Loan, error) {
	if len(guarantors) == 0 {
		e := customError.ValidationFields(map[string]string{"guarantors": "at least one guarantor is required"})
		e.Err = customError.ErrNoGuarantors
		return nil, e
	}

	collateral := make([]*string, len(guarantors))
	var uploaded []string
	for i, g := range guarantors {
		if g.Collateral == nil {
			continue
		}
		path, err := s.Documents.Store(ctx, folderCollateral, g.Collateral.FileName, g.Collateral.Data)
		if err != nil {
			s.discardUploads(ctx, uploaded...)
			logFailure(s.logger, "store collateral", err, slog.Int64("loan_id", loanID))
			return nil, err
		}
		uploaded = append(uploaded, path)
		collateral[i] = &path
	}

	return s.advance(ctx, loanID, domain.StageDocumentation, "attach guarantors", uploaded,
		func(ctx context.Context, repos *repository.Repositories, loan *domain.Loan) error {
			for i, g := range guarantors {
				err := repos.Loans.AddGuarantor(ctx, &domain.LoanGuarantor{
					LoanID:      loan.ID,
					GuarantorID: g.GuarantorID,
					Collateral:  collateral[i],
				})
				if err != nil {
					return err
				}
			}
			return nil
		})
}

// Submit records the submission remarks, moves 3 -> 4 and opens the first review.
func (s *LoanService) Submit(ctx context.Context, loanID int64, remarks string) (*domain.Loan, error) {
	return s.advance(ctx, loanID, domain.StageSubmitted, "submit", nil,
		func(ctx context.Context, repos *repository.Repositories, loan *domain.Loan) error {
			if remarks != "" {
				loan.SubmitRemarks = &remarks
			}
			_, err := openApproval(ctx, repos, loan.ID, domain.StageLoanOfficerReview)
			return err
		})
}

// advance locks the loan, checks it is still at from, applies fn and moves it one stage on.
// Files in uploaded are deleted if the unit of work fails.
func (s *LoanService) advance(
	ctx context.Context,
	loanID int64,
	from domain.Stage,
	op string,
	uploaded []string,
	fn func(ctx context.Context, repos *repository.Repositories, loan *domain.Loan) error,
) (*domain.Loan, error) {
	var loan *domain.Loan
	err := s.Store.WithinTx(ctx, func(ctx context.Context, repos *repository.Repositories) error {
		var err error
		loan, err = lockLoan(ctx, repos, loanID)
		if err != nil {
			return err
		}
		if loan.Stage != from {
			return customError.WrapInvalidStage(loanID, int(loan.Stage), op)
		}
		if err := fn(ctx, repos, loan); err != nil {
			return err
		}
		loan.Stage = from + 1
		return repos.Loans.Update(ctx, loan)
	})
	if err != nil {
		s.discardUploads(ctx, uploaded...)
		err = normalizeError(err)
		logFailure(s.logger, op, err, slog.Int64("loan_id", loanID))
		return nil, err
	}

	s.logger.Info("loan stage changed",
		slog.Int64("loan_id", loanID),
		slog.String("from", from.String()),
		slog.String("to", loan.Stage.String()),
	)
	return loan, nil
}

// Back steps the loan one stage back. Stage 1 is left untouched.
func (s *LoanService) Back(ctx context.Context, loanID int64) (*domain.Loan, error) {
	if _, err := ActorFromContext(ctx); err != nil {
		return nil, err
	}

	var loan *domain.Loan
	err := s.Store.WithinTx(ctx, func(ctx context.Context, repos *repository.Repositories) error {
		var err error
		loan, err = lockLoan(ctx, repos, loanID)
		if err != nil {
			return err
		}
		prev := domain.PreviousStage(loan.Stage)
		if prev == loan.Stage {
			return nil
		}
		loan.Stage = prev
		return repos.Loans.Update(ctx, loan)
	})
	if err != nil {
		err = normalizeError(err)
		logFailure(s.logger, "move loan back", err, slog.Int64("loan_id", loanID))
		return nil, err
	}
	return loan, nil
}

// Approve closes the pending review at the loan's stage and hands it to the next level.
func (s *LoanService) Approve(ctx context.Context, loanID int64, req *domain.ApproveRequest) (*domain.Loan, error) {
	if req == nil {
		req = &domain.ApproveRequest{}
	}
	userID, err := ActorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if err := domain.ValidateStruct(s.validate, req); err != nil {
		return nil, err
	}

	var loan *domain.Loan
	var from domain.Stage
	err = s.Store.WithinTx(ctx, func(ctx context.Context, repos *repository.Repositories) error {
		var err error
		loan, err = lockLoan(ctx, repos, loanID)
		if err != nil {
			return err
		}
		from = loan.Stage

		next, ok := domain.NextReviewStage(loan.Stage)
		if !ok {
			return customError.WrapInvalidStage(loanID, int(loan.Stage), "approve")
		}
		if _, err := closeApproval(ctx, repos, loan.ID, loan.Stage, userID, req.Remarks); err != nil {
			return err
		}

		loan.Stage = next
		if req.Remarks != "" {
			loan.Remarks = &req.Remarks
		}
		if err := repos.Loans.Update(ctx, loan); err != nil {
			return err
		}
		_, err = openApproval(ctx, repos, loan.ID, next)
		return err
	})
	if err != nil {
		err = normalizeError(err)
		logFailure(s.logger, "approve loan", err, slog.Int64("loan_id", loanID))
		return nil, err
	}

	s.logger.Info("loan approved",
		slog.Int64("loan_id", loanID),
		slog.Int64("approved_by", userID),
		slog.String("from", from.String()),
		slog.String("to", loan.Stage.String()),
	)
	return loan, nil
}

// Disburse releases the principal of an approved loan and posts it to the ledger.
// When the payment type routes to the customer deposit account the money lands
// in the customer's savings, which is recorded as a second deposit posting.
func (s *LoanService) Disburse(ctx context.Context, loanID int64, req *domain.DisburseRequest) (*domain.DisbursementResult, error) {
	userID, err := ActorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if err := domain.ValidateStruct(s.validate, req); err != nil {
		return nil, err
	}

	paymentType, err := s.Store.Repositories().PaymentTypes.GetPaymentType(ctx, req.PaymentTypeID)
	if err != nil {
		return nil, normalizeError(err)
	}

	result := &domain.DisbursementResult{}
	err = s.Store.WithinTx(ctx, func(ctx context.Context, repos *repository.Repositories) error {
		loan, err := lockLoan(ctx, repos, loanID)
		if err != nil {
			return err
		}
		if loan.Stage < domain.StageApproved {
			return customError.WrapInvalidStage(loanID, int(loan.Stage), "disburse")
		}
		if !loan.LoanAmount.IsPositive() {
			return customError.WrapInvalidAmount(loan.LoanAmount.StringFixed(2))
		}
		next, ok := domain.NextDisbursementStage(loan.Stage)
		if !ok {
			return customError.WrapInvalidStage(loanID, int(loan.Stage), "disburse")
		}
		// Back can walk a disbursed loan down to the review stages again.
		disbursed, err := repos.Transactions.ExistsForLoan(ctx, loan.ID, domain.TransactionDisbursement)
		if err != nil {
			return err
		}
		if disbursed {
			return customError.PreconditionFailed(fmt.Sprintf("Loan %d has already been disbursed", loanID))
		}

		mapping, err := loadMapping(ctx, repos)
		if err != nil {
			return err
		}
		if _, err := closeApproval(ctx, repos, loan.ID, loan.Stage, userID, req.Remarks); err != nil {
			return err
		}

		loan.Stage = next
		if req.Remarks != "" {
			loan.Remarks = &req.Remarks
		}
		if err := repos.Loans.Update(ctx, loan); err != nil {
			return err
		}

		description, err := describeCustomer(ctx, repos, loan.CustomerID)
		if err != nil {
			return err
		}
		entryDate := s.now()

		txn := &domain.Transaction{
			CustomerID:           loan.CustomerID,
			UserID:               userID,
			LoanID:               &loan.ID,
			Amount:               loan.LoanAmount,
			Type:                 domain.TransactionDisbursement,
			PaymentTypeID:        paymentType.ID,
			TransactionReference: utils.NewReference(domain.PrefixTransaction),
			Description:          description,
		}
		if err := repos.Transactions.Create(ctx, txn); err != nil {
			return err
		}

		entry, err := postJournalEntry(ctx, repos, posting{
			Prefix:        domain.PrefixDisbursement,
			Description:   description,
			TransactionID: txn.ID,
			EntryDate:     entryDate,
			Lines:         disbursementLines(mapping.CustomerLoanCode, paymentType.ChartOfAccountID, loan.LoanAmount),
		})
		if err != nil {
			return err
		}

		result.Loan, result.Transaction, result.JournalEntry = loan, txn, entry

		if paymentType.ChartOfAccountID != mapping.CustomerDepositCode {
			return nil
		}

		// The disbursement credited the deposit account and the deposit debits it
		// back. Net: receivable up, savings balance up, cash untouched.
		saving, err := lockOrCreateSaving(ctx, repos, loan.CustomerID)
		if err != nil {
			return err
		}
		saving.Balance = saving.Balance.Add(loan.LoanAmount)
		if err := repos.Savings.UpdateBalance(ctx, saving); err != nil {
			return err
		}

		deposit := &domain.Transaction{
			CustomerID:           loan.CustomerID,
			UserID:               userID,
			LoanID:               &loan.ID,
			SavingsID:            &saving.ID,
			Amount:               loan.LoanAmount,
			Type:                 domain.TransactionDeposit,
			PaymentTypeID:        paymentType.ID,
			TransactionReference: utils.NewReference(domain.PrefixTransaction),
			Description:          description,
		}
		if err := repos.Transactions.Create(ctx, deposit); err != nil {
			return err
		}

		depositEntry, err := postJournalEntry(ctx, repos, posting{
			Prefix:        domain.PrefixTransaction,
			Description:   description,
			TransactionID: deposit.ID,
			EntryDate:     entryDate,
			Lines:         depositLines(paymentType.ChartOfAccountID, mapping.CustomerDepositCode, loan.LoanAmount),
		})
		if err != nil {
			return err
		}

		result.Saving, result.DepositTransaction, result.DepositEntry = saving, deposit, depositEntry
		return nil
	})
	if err != nil {
		err = normalizeError(err)
		logFailure(s.logger, "disburse loan", err,
			slog.Int64("loan_id", loanID), slog.Int64("payment_type_id", req.PaymentTypeID))
		return nil, err
	}

	s.logger.Info("loan disbursed",
		slog.Int64("loan_id", loanID),
		slog.String("amount", result.Transaction.Amount.StringFixed(2)),
		slog.String("reference", result.JournalEntry.ReferenceNumber),
		slog.Bool("to_savings", result.Saving != nil),
	)
	return result, nil
}

// Repay applies a payment to a disbursed loan, interest first, and posts it.
func (s *LoanService) Repay(ctx context.Context, loanID int64, req *domain.RepaymentRequest) (*domain.RepaymentResult, error) {
	userID, err := ActorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if err := domain.ValidateStruct(s.validate, req); err != nil {
		return nil, err
	}

	repos := s.Store.Repositories()
	paymentType, err := repos.PaymentTypes.GetPaymentType(ctx, req.PaymentTypeID)
	if err != nil {
		return nil, normalizeError(err)
	}

	// Reject obvious overpayments before opening a transaction.
	loan, err := repos.Loans.GetByID(ctx, loanID)
	if err != nil {
		return nil, normalizeError(err)
	}
	if err := checkRepayable(ctx, repos, loan); err != nil {
		return nil, normalizeError(err)
	}
	totals, err := repos.Repayments.Totals(ctx, loanID)
	if err != nil {
		return nil, normalizeError(err)
	}
	if outstanding := CalculateOutstandingBalance(loan, totals); req.Amount.GreaterThan(outstanding) {
		return nil, customError.WrapAmountExceedsBalance(req.Amount.StringFixed(2), outstanding.StringFixed(2))
	}

	paymentDate := s.now()
	if req.PaymentDate != nil {
		paymentDate = *req.PaymentDate
	}

	result := &domain.RepaymentResult{}
	err = s.Store.WithinTx(ctx, func(ctx context.Context, repos *repository.Repositories) error {
		loan, err := lockLoan(ctx, repos, loanID)
		if err != nil {
			return err
		}
		if err := checkRepayable(ctx, repos, loan); err != nil {
			return err
		}

		totals, err := repos.Repayments.Totals(ctx, loanID)
		if err != nil {
			return err
		}
		outstanding := CalculateOutstandingBalance(loan, totals)
		if req.Amount.GreaterThan(outstanding) {
			return customError.WrapAmountExceedsBalance(req.Amount.StringFixed(2), outstanding.StringFixed(2))
		}

		mapping, err := loadMapping(ctx, repos)
		if err != nil {
			return err
		}
		alloc := AllocateRepayment(loan, totals, req.Amount)

		description, err := describeCustomer(ctx, repos, loan.CustomerID)
		if err != nil {
			return err
		}

		txn := &domain.Transaction{
			CustomerID:           loan.CustomerID,
			UserID:               userID,
			LoanID:               &loan.ID,
			Amount:               req.Amount,
			Type:                 domain.TransactionLoanPayment,
			PaymentTypeID:        paymentType.ID,
			TransactionReference: utils.NewReference(domain.PrefixTransaction),
			Description:          description,
		}
		if err := repos.Transactions.Create(ctx, txn); err != nil {
			return err
		}

		entry, err := postJournalEntry(ctx, repos, posting{
			Prefix:        domain.PrefixTransaction,
			Description:   description,
			TransactionID: txn.ID,
			EntryDate:     paymentDate,
			Lines: repaymentLines(paymentType.ChartOfAccountID, mapping.CustomerLoanInterestCode,
				mapping.CustomerLoanCode, req.Amount, alloc),
		})
		if err != nil {
			return err
		}

		repayment := &domain.Repayment{
			LoanID:        loan.ID,
			UserID:        userID,
			AmountPaid:    req.Amount,
			InterestPaid:  alloc.InterestDue,
			PaymentDate:   paymentDate,
			BalanceBefore: outstanding,
			BalanceAfter:  outstanding.Sub(req.Amount),
			TransactionID: txn.ID,
		}
		if err := repos.Repayments.Create(ctx, repayment); err != nil {
			return err
		}

		if repayment.BalanceAfter.IsZero() {
			loan.Status = domain.LoanStatusRepaid
			if err := repos.Loans.Update(ctx, loan); err != nil {
				return err
			}
		}

		result.Loan, result.Repayment, result.Transaction, result.JournalEntry, result.Allocation =
			loan, repayment, txn, entry, alloc
		return nil
	})
	if err != nil {
		err = normalizeError(err)
		logFailure(s.logger, "repay loan", err, slog.Int64("loan_id", loanID))
		return nil, err
	}

	s.invalidateOutstanding(ctx, loanID)
	s.logger.Info("loan repayment posted",
		slog.Int64("loan_id", loanID),
		slog.String("amount", req.Amount.StringFixed(2)),
		slog.String("interest", result.Allocation.InterestDue.StringFixed(2)),
		slog.String("balance_after", result.Repayment.BalanceAfter.StringFixed(2)),
	)
	return result, nil
}

// checkRepayable accepts loans at or past Disbursed, and loans moved back
// below it after their principal was released.
func checkRepayable(ctx context.Context, repos *repository.Repositories, loan *domain.Loan) error {
	if loan.Stage >= domain.StageDisbursed {
		return nil
	}
	disbursed, err := repos.Transactions.ExistsForLoan(ctx, loan.ID, domain.TransactionDisbursement)
	if err != nil {
		return err
	}
	if !disbursed {
		return customError.WrapInvalidStage(loan.ID, int(loan.Stage), "repay")
	}
	return nil
}

// GetLoan returns a loan with its guarantors, approvals and repayments.
func (s *LoanService) GetLoan(ctx context.Context, loanID int64) (*domain.LoanDetails, error) {
	repos := s.Store.Repositories()

	loan, err := repos.Loans.GetByID(ctx, loanID)
	if err != nil {
		return nil, normalizeError(err)
	}
	guarantors, err := repos.Loans.GetGuarantors(ctx, loanID)
	if err != nil {
		return nil, normalizeError(err)
	}
	approvals, err := repos.Approvals.ListByLoan(ctx, loanID)
	if err != nil {
		return nil, normalizeError(err)
	}
	repayments, err := repos.Repayments.ListByLoan(ctx, loanID)
	if err != nil {
		return nil, normalizeError(err)
	}

	return &domain.LoanDetails{
		Loan:       loan,
		Guarantors: guarantors,
		Approvals:  approvals,
		Repayments: repayments,
	}, nil
}

// ListApprovals returns every approval recorded for a loan.
func (s *LoanService) ListApprovals(ctx context.Context, loanID int64) ([]*domain.Approval, error) {
	repos := s.Store.Repositories()
	if _, err := repos.Loans.GetByID(ctx, loanID); err != nil {
		return nil, normalizeError(err)
	}
	approvals, err := repos.Approvals.ListByLoan(ctx, loanID)
	if err != nil {
		return nil, normalizeError(err)
	}
	return approvals, nil
}

// GetOutstanding returns the loan's outstanding balance, served from cache when possible.
func (s *LoanService) GetOutstanding(ctx context.Context, loanID int64) (*domain.OutstandingResponse, error) {
	cacheable, version := false, int64(0)
	if s.Cache != nil {
		amount, ok, err := s.Cache.Get(ctx, loanID)
		if err == nil && ok {
			return &domain.OutstandingResponse{LoanID: loanID, Outstanding: amount}, nil
		}
		if err == nil {
			version, err = s.Cache.Version(ctx, loanID)
		}
		if err != nil {
			s.logger.Warn("outstanding cache read failed", slog.Int64("loan_id", loanID), slog.String("error", err.Error()))
		}
		cacheable = err == nil
	}

	outstanding, err := s.computeOutstanding(ctx, s.Store.Repositories(), loanID)
	if err != nil {
		return nil, normalizeError(err)
	}

	if cacheable {
		if err := s.Cache.Set(ctx, loanID, outstanding, version); err != nil {
			s.logger.Warn("outstanding cache write failed", slog.Int64("loan_id", loanID), slog.String("error", err.Error()))
		}
	}
	return &domain.OutstandingResponse{LoanID: loanID, Outstanding: outstanding}, nil
}

func (s *LoanService) computeOutstanding(ctx context.Context, repos *repository.Repositories, loanID int64) (decimal.Decimal, error) {
	loan, err := repos.Loans.GetByID(ctx, loanID)
	if err != nil {
		return decimal.Zero, err
	}
	totals, err := repos.Repayments.Totals(ctx, loanID)
	if err != nil {
		return decimal.Zero, err
	}
	return CalculateOutstandingBalance(loan, totals), nil
}

// WarmOutstandingCache recomputes the cached balance of every disbursed, unpaid loan.
func (s *LoanService) WarmOutstandingCache(ctx context.Context) (int, error) {
	if s.Cache == nil {
		return 0, nil
	}

	repos := s.Store.Repositories()
	loans, err := repos.Loans.ListOutstanding(ctx)
	if err != nil {
		return 0, normalizeError(err)
	}

	warmed := 0
	for _, loan := range loans {
		version, err := s.Cache.Version(ctx, loan.ID)
		if err != nil {
			return warmed, customError.WrapCacheError(err)
		}
		totals, err := repos.Repayments.Totals(ctx, loan.ID)
		if err != nil {
			return warmed, normalizeError(err)
		}
		if err := s.Cache.Set(ctx, loan.ID, CalculateOutstandingBalance(loan, totals), version); err != nil {
			return warmed, customError.WrapCacheError(err)
		}
		warmed++
	}
	return warmed, nil
}

func (s *LoanService) invalidateOutstanding(ctx context.Context, loanID int64) {
	if s.Cache == nil {
		return
	}
	if err := s.Cache.Invalidate(context.WithoutCancel(ctx), loanID); err != nil {
		s.logger.Warn("outstanding cache invalidation failed", slog.Int64("loan_id", loanID), slog.String("error", err.Error()))
	}
}

// discardUploads removes files written for a unit of work that did not commit.
func (s *LoanService) discardUploads(ctx context.Context, paths ...string) {
	ctx = context.WithoutCancel(ctx)
	for _, p := range paths {
		if p == "" {
			continue
		}
		if err := s.Documents.Delete(ctx, p); err != nil {
			s.logger.Error("orphaned upload left behind", slog.String("path", p), slog.String("error", err.Error()))
		}
	}
}

// lockLoan row-locks a loan and rejects rows whose stage is not one we know.
func lockLoan(ctx context.Context, repos *repository.Repositories, loanID int64) (*domain.Loan, error) {
	loan, err := repos.Loans.GetByIDForUpdate(ctx, loanID)
	if err != nil {
		return nil, err
	}
	if !loan.Stage.Valid() {
		return nil, customError.Consistency(customError.ErrCodeInvalidStage,
			fmt.Sprintf("loan %d is at unknown stage %d", loanID, int(loan.Stage)), customError.ErrInvalidStage)
	}
	return loan, nil
}

// lockOrCreateSaving returns the customer's savings row locked for update,
// creating an empty one on first use.
func lockOrCreateSaving(ctx context.Context, repos *repository.Repositories, customerID int64) (*domain.Saving, error) {
	saving, err := repos.Savings.GetByCustomerForUpdate(ctx, customerID)
	if err == nil {
		return saving, nil
	}
	if !customError.IsKind(err, customError.KindNotFound) {
		return nil, err
	}

	saving = &domain.Saving{CustomerID: customerID, Balance: decimal.Zero}
	if err := repos.Savings.Create(ctx, saving); err != nil {
		return nil, err
	}
	return saving, nil
}
