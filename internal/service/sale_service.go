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

// SaleService posts order payments from the billing counter.
type SaleService struct {
	Store    repository.UnitOfWork
	validate *validator.Validate
	logger   *slog.Logger
	now      func() time.Time
}

func NewSaleService(store repository.UnitOfWork, logger *slog.Logger) *SaleService {
	return &SaleService{
		Store:    store,
		validate: domain.NewValidator(),
		logger:   logger,
		now:      time.Now,
	}
}

// SaleModeFor derives the payment mode from the amount paid up front.
func SaleModeFor(total, paid decimal.Decimal) domain.SaleMode {
	switch {
	case paid.IsZero():
		return domain.SaleCredit
	case paid.LessThan(total):
		return domain.SalePartial
	}
	return domain.SaleCash
}

// PostSalePayment books a sale: cash received, the unpaid rest as receivable,
// and revenue for the full order total.
func (s *SaleService) PostSalePayment(ctx context.Context, req *domain.SalePaymentRequest) (*domain.SalePaymentResult, error) {
	userID, err := ActorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if err := domain.ValidateStruct(s.validate, req); err != nil {
		return nil, err
	}
	if req.AmountPaid.GreaterThan(req.Total) {
		return nil, customError.ValidationFields(map[string]string{
			"amount_paid": fmt.Sprintf("must not exceed total %s", req.Total.StringFixed(2)),
		})
	}
	if req.AmountPaid.IsPositive() && req.PaymentTypeID == 0 {
		return nil, customError.ValidationFields(map[string]string{
			"payment_type_id": "is required when an amount is paid",
		})
	}

	repos := s.Store.Repositories()
	if _, err := repos.Customers.GetCustomer(ctx, req.CustomerID); err != nil {
		return nil, normalizeError(err)
	}
	var cashAccount int64
	if req.PaymentTypeID != 0 {
		paymentType, err := repos.PaymentTypes.GetPaymentType(ctx, req.PaymentTypeID)
		if err != nil {
			return nil, normalizeError(err)
		}
		cashAccount = paymentType.ChartOfAccountID
	}

	mode := SaleModeFor(req.Total, req.AmountPaid)
	result := &domain.SalePaymentResult{Mode: mode}
	err = s.Store.WithinTx(ctx, func(ctx context.Context, repos *repository.Repositories) error {
		mapping, err := loadMapping(ctx, repos)
		if err != nil {
			return err
		}
		if mapping.SalesRevenueCode == nil {
			return customError.WrapMappingMissing(fmt.Errorf("sales revenue account is not mapped"))
		}
		var receivableAccount int64
		if mode != domain.SaleCash {
			if mapping.AccountsReceivableCode == nil {
				return customError.WrapMappingMissing(fmt.Errorf("accounts receivable account is not mapped"))
			}
			receivableAccount = *mapping.AccountsReceivableCode
		}

		customer, err := describeCustomer(ctx, repos, req.CustomerID)
		if err != nil {
			return err
		}
		description := fmt.Sprintf("Order %s - %s", req.OrderReference, customer)

		txn := &domain.Transaction{
			CustomerID:           req.CustomerID,
			UserID:               userID,
			Amount:               req.Total,
			Type:                 domain.TransactionSalePayment,
			PaymentTypeID:        req.PaymentTypeID,
			TransactionReference: utils.NewReference(domain.PrefixSale),
			Description:          description,
		}
		if err := repos.Transactions.Create(ctx, txn); err != nil {
			return err
		}

		entry, err := postJournalEntry(ctx, repos, posting{
			Prefix:        domain.PrefixSale,
			Description:   description,
			TransactionID: txn.ID,
			EntryDate:     s.now(),
			Lines:         saleLines(cashAccount, receivableAccount, *mapping.SalesRevenueCode, req.Total, req.AmountPaid),
		})
		if err != nil {
			return err
		}

		result.Transaction, result.JournalEntry = txn, entry
		return nil
	})
	if err != nil {
		err = normalizeError(err)
		logFailure(s.logger, "post sale payment", err, slog.String("order_reference", req.OrderReference))
		return nil, err
	}

	s.logger.Info("sale payment posted",
		slog.String("order_reference", req.OrderReference),
		slog.String("mode", string(mode)),
		slog.String("reference", result.JournalEntry.ReferenceNumber),
	)
	return result, nil
}
