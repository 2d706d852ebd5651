package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/segyhp/loan-engine/internal/domain"
	"github.com/segyhp/loan-engine/internal/repository"
	customError "github.com/segyhp/loan-engine/pkg/errors"
	"github.com/segyhp/loan-engine/pkg/utils"
)

// SavingsService moves money in and out of customer savings.
type SavingsService struct {
	Store    repository.UnitOfWork
	validate *validator.Validate
	logger   *slog.Logger
	now      func() time.Time
}

func NewSavingsService(store repository.UnitOfWork, logger *slog.Logger) *SavingsService {
	return &SavingsService{
		Store:    store,
		validate: domain.NewValidator(),
		logger:   logger,
		now:      time.Now,
	}
}

// Deposit credits the customer's savings, creating the account on first deposit.
func (s *SavingsService) Deposit(ctx context.Context, req *domain.SavingsRequest) (*domain.SavingsResult, error) {
	return s.move(ctx, req, domain.TransactionDeposit)
}

// Withdraw debits the customer's savings. The balance never goes negative.
func (s *SavingsService) Withdraw(ctx context.Context, req *domain.SavingsRequest) (*domain.SavingsResult, error) {
	return s.move(ctx, req, domain.TransactionWithdrawal)
}

func (s *SavingsService) move(ctx context.Context, req *domain.SavingsRequest, kind domain.TransactionType) (*domain.SavingsResult, error) {
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
	paymentType, err := repos.PaymentTypes.GetPaymentType(ctx, req.PaymentTypeID)
	if err != nil {
		return nil, normalizeError(err)
	}

	if kind == domain.TransactionWithdrawal {
		saving, err := repos.Savings.GetByCustomer(ctx, req.CustomerID)
		if err != nil {
			return nil, normalizeError(err)
		}
		if req.Amount.GreaterThan(saving.Balance) {
			return nil, customError.WrapInsufficientSavings(req.Amount.StringFixed(2), saving.Balance.StringFixed(2))
		}
	}

	result := &domain.SavingsResult{}
	err = s.Store.WithinTx(ctx, func(ctx context.Context, repos *repository.Repositories) error {
		mapping, err := loadMapping(ctx, repos)
		if err != nil {
			return err
		}
		if paymentType.ChartOfAccountID == mapping.CustomerDepositCode {
			return customError.ValidationFields(map[string]string{
				"payment_type_id": "payment type posts to the customer deposit account",
			})
		}

		var saving *domain.Saving
		var lines []domain.JournalLine
		switch kind {
		case domain.TransactionDeposit:
			if saving, err = lockOrCreateSaving(ctx, repos, req.CustomerID); err != nil {
				return err
			}
			saving.Balance = saving.Balance.Add(req.Amount)
			lines = depositLines(paymentType.ChartOfAccountID, mapping.CustomerDepositCode, req.Amount)
		default:
			if saving, err = repos.Savings.GetByCustomerForUpdate(ctx, req.CustomerID); err != nil {
				return err
			}
			if req.Amount.GreaterThan(saving.Balance) {
				return customError.WrapInsufficientSavings(req.Amount.StringFixed(2), saving.Balance.StringFixed(2))
			}
			saving.Balance = saving.Balance.Sub(req.Amount)
			lines = withdrawalLines(paymentType.ChartOfAccountID, mapping.CustomerDepositCode, req.Amount)
		}
		if err := repos.Savings.UpdateBalance(ctx, saving); err != nil {
			return err
		}

		description := req.Description
		if description == "" {
			if description, err = describeCustomer(ctx, repos, req.CustomerID); err != nil {
				return err
			}
		}

		txn := &domain.Transaction{
			CustomerID:           req.CustomerID,
			UserID:               userID,
			SavingsID:            &saving.ID,
			Amount:               req.Amount,
			Type:                 kind,
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
			EntryDate:     s.now(),
			Lines:         lines,
		})
		if err != nil {
			return err
		}

		result.Saving, result.Transaction, result.JournalEntry = saving, txn, entry
		return nil
	})
	if err != nil {
		err = normalizeError(err)
		logFailure(s.logger, "savings "+string(kind), err, slog.Int64("customer_id", req.CustomerID))
		return nil, err
	}

	s.logger.Info("savings updated",
		slog.Int64("customer_id", req.CustomerID),
		slog.String("type", string(kind)),
		slog.String("amount", req.Amount.StringFixed(2)),
		slog.String("balance", result.Saving.Balance.StringFixed(2)),
	)
	return result, nil
}

// GetSaving returns the savings account of a customer.
func (s *SavingsService) GetSaving(ctx context.Context, customerID int64) (*domain.Saving, error) {
	saving, err := s.Store.Repositories().Savings.GetByCustomer(ctx, customerID)
	if err != nil {
		return nil, normalizeError(err)
	}
	return saving, nil
}
