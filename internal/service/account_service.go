package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-playground/validator/v10"

	"github.com/segyhp/loan-engine/internal/domain"
	"github.com/segyhp/loan-engine/internal/repository"
	customError "github.com/segyhp/loan-engine/pkg/errors"
)

// AccountService administers the chart of accounts and its posting mapping.
type AccountService struct {
	Store    repository.UnitOfWork
	validate *validator.Validate
	logger   *slog.Logger
}

func NewAccountService(store repository.UnitOfWork, logger *slog.Logger) *AccountService {
	return &AccountService{
		Store:    store,
		validate: domain.NewValidator(),
		logger:   logger,
	}
}

func (s *AccountService) CreateAccount(ctx context.Context, req *domain.CreateAccountRequest) (*domain.ChartOfAccount, error) {
	if err := domain.ValidateStruct(s.validate, req); err != nil {
		return nil, err
	}

	account := &domain.ChartOfAccount{
		AccountName: req.AccountName,
		AccountCode: req.AccountCode,
		AccountType: req.AccountType,
		Description: req.Description,
		IsActive:    true,
	}
	if err := s.Store.Repositories().Accounts.Create(ctx, account); err != nil {
		return nil, normalizeError(err)
	}

	s.logger.Info("account created", slog.String("code", account.AccountCode), slog.String("type", string(account.AccountType)))
	return account, nil
}

func (s *AccountService) GetAccount(ctx context.Context, id int64) (*domain.ChartOfAccount, error) {
	account, err := s.Store.Repositories().Accounts.GetByID(ctx, id)
	if err != nil {
		return nil, normalizeError(err)
	}
	return account, nil
}

func (s *AccountService) ListAccounts(ctx context.Context, activeOnly bool) ([]*domain.ChartOfAccount, error) {
	accounts, err := s.Store.Repositories().Accounts.List(ctx, activeOnly)
	if err != nil {
		return nil, normalizeError(err)
	}
	return accounts, nil
}

// SetAccountActive toggles an account. Accounts used by the mapping cannot be deactivated.
func (s *AccountService) SetAccountActive(ctx context.Context, id int64, active bool) (*domain.ChartOfAccount, error) {
	var account *domain.ChartOfAccount
	err := s.Store.WithinTx(ctx, func(ctx context.Context, repos *repository.Repositories) error {
		var err error
		if account, err = repos.Accounts.GetByID(ctx, id); err != nil {
			return err
		}

		if !active {
			mapping, err := repos.Accounts.GetMapping(ctx)
			if err != nil && !customError.IsKind(err, customError.KindNotFound) {
				return err
			}
			if mapping != nil {
				for _, mapped := range mapping.AccountIDs() {
					if mapped == id {
						return customError.Conflict(
							fmt.Sprintf("account %s is used by the account mapping", account.AccountCode), nil)
					}
				}
			}
		}

		if err := repos.Accounts.SetActive(ctx, id, active); err != nil {
			return err
		}
		account.IsActive = active
		return nil
	})
	if err != nil {
		return nil, normalizeError(err)
	}
	return account, nil
}

// CreateMapping stores the singleton mapping. It fails once a mapping exists.
func (s *AccountService) CreateMapping(ctx context.Context, req *domain.MappingRequest) (*domain.ChartOfAccountMapping, error) {
	if err := domain.ValidateStruct(s.validate, req); err != nil {
		return nil, err
	}

	mapping := mappingFromRequest(req)
	err := s.Store.WithinTx(ctx, func(ctx context.Context, repos *repository.Repositories) error {
		existing, err := repos.Accounts.GetMapping(ctx)
		if err != nil && !customError.IsKind(err, customError.KindNotFound) {
			return err
		}
		if existing != nil {
			return customError.Conflict("chart of account mapping already exists; update it instead",
				customError.ErrMappingAlreadyExists)
		}
		if err := checkMappedAccounts(ctx, repos, req); err != nil {
			return err
		}
		return repos.Accounts.CreateMapping(ctx, mapping)
	})
	if err != nil {
		return nil, normalizeError(err)
	}

	s.logger.Info("account mapping created", slog.Int64("mapping_id", mapping.ID))
	return mapping, nil
}

// UpdateMapping replaces the account ids on the singleton mapping.
func (s *AccountService) UpdateMapping(ctx context.Context, req *domain.MappingRequest) (*domain.ChartOfAccountMapping, error) {
	if err := domain.ValidateStruct(s.validate, req); err != nil {
		return nil, err
	}

	var mapping *domain.ChartOfAccountMapping
	err := s.Store.WithinTx(ctx, func(ctx context.Context, repos *repository.Repositories) error {
		existing, err := repos.Accounts.GetMapping(ctx)
		if err != nil {
			return err
		}
		if err := checkMappedAccounts(ctx, repos, req); err != nil {
			return err
		}

		mapping = mappingFromRequest(req)
		mapping.ID = existing.ID
		mapping.CreatedAt = existing.CreatedAt
		return repos.Accounts.UpdateMapping(ctx, mapping)
	})
	if err != nil {
		return nil, normalizeError(err)
	}

	s.logger.Info("account mapping updated", slog.Int64("mapping_id", mapping.ID))
	return mapping, nil
}

func (s *AccountService) GetMapping(ctx context.Context) (*domain.ChartOfAccountMapping, error) {
	mapping, err := s.Store.Repositories().Accounts.GetMapping(ctx)
	if err != nil {
		return nil, normalizeError(err)
	}
	return mapping, nil
}

func mappingFromRequest(req *domain.MappingRequest) *domain.ChartOfAccountMapping {
	return &domain.ChartOfAccountMapping{
		CustomerLoanCode:         req.CustomerLoanCode,
		CustomerLoanInterestCode: req.CustomerLoanInterestCode,
		CustomerDepositCode:      req.CustomerDepositCode,
		SalesRevenueCode:         req.SalesRevenueCode,
		AccountsReceivableCode:   req.AccountsReceivableCode,
	}
}

// checkMappedAccounts requires every referenced account to exist and be active.
func checkMappedAccounts(ctx context.Context, repos *repository.Repositories, req *domain.MappingRequest) error {
	fields := map[string]*int64{
		"customer_loan_code":          &req.CustomerLoanCode,
		"customer_loan_interest_code": &req.CustomerLoanInterestCode,
		"customer_deposit_code":       &req.CustomerDepositCode,
		"sales_revenue_code":          req.SalesRevenueCode,
		"accounts_receivable_code":    req.AccountsReceivableCode,
	}

	ids := make([]int64, 0, len(fields))
	for _, id := range fields {
		if id != nil {
			ids = append(ids, *id)
		}
	}
	accounts, err := repos.Accounts.GetByIDs(ctx, ids)
	if err != nil {
		return err
	}

	problems := map[string]string{}
	for name, id := range fields {
		if id == nil {
			continue
		}
		account, ok := accounts[*id]
		switch {
		case !ok:
			problems[name] = fmt.Sprintf("account %d does not exist", *id)
		case !account.IsActive:
			problems[name] = fmt.Sprintf("account %s is inactive", account.AccountCode)
		}
	}
	if len(problems) > 0 {
		return customError.ValidationFields(problems)
	}
	return nil
}
