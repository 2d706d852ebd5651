package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/segyhp/loan-engine/internal/domain"
	customError "github.com/segyhp/loan-engine/pkg/errors"
)

const (
	accountColumns = `id, account_name, account_code, account_type, description, is_active, created_at, updated_at`
	mappingColumns = `id, customer_loan_code, customer_loan_interest_code, customer_deposit_code,
	sales_revenue_code, accounts_receivable_code, created_at, updated_at`
)

type accountRepository struct {
	db sqlx.ExtContext
}

func NewAccountRepository(db sqlx.ExtContext) AccountRepository {
	return &accountRepository{db: db}
}

func (r *accountRepository) Create(ctx context.Context, account *domain.ChartOfAccount) error {
	query := `
		INSERT INTO chart_of_accounts (account_name, account_code, account_type, description, is_active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRowxContext(ctx, query,
		account.AccountName,
		account.AccountCode,
		account.AccountType,
		account.Description,
		account.IsActive,
	).Scan(&account.ID, &account.CreatedAt, &account.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return customError.Conflict(
				fmt.Sprintf("account code %s already exists", account.AccountCode), customError.ErrDuplicateAccountCode)
		}
		return fmt.Errorf("insert account: %w", err)
	}

	return nil
}

func (r *accountRepository) GetByID(ctx context.Context, id int64) (*domain.ChartOfAccount, error) {
	var account domain.ChartOfAccount
	err := sqlx.GetContext(ctx, r.db, &account, `SELECT `+accountColumns+` FROM chart_of_accounts WHERE id = $1`, id)
	if err != nil {
		if isNoRows(err) {
			return nil, customError.NotFound(fmt.Sprintf("Account with ID %d not found", id), customError.ErrAccountNotFound)
		}
		return nil, fmt.Errorf("get account %d: %w", id, err)
	}

	return &account, nil
}

func (r *accountRepository) GetByIDs(ctx context.Context, ids []int64) (map[int64]*domain.ChartOfAccount, error) {
	accounts := make(map[int64]*domain.ChartOfAccount, len(ids))
	if len(ids) == 0 {
		return accounts, nil
	}

	query, args, err := sqlx.In(`SELECT `+accountColumns+` FROM chart_of_accounts WHERE id IN (?)`, ids)
	if err != nil {
		return nil, fmt.Errorf("build account lookup: %w", err)
	}

	var rows []*domain.ChartOfAccount
	if err := sqlx.SelectContext(ctx, r.db, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("get accounts: %w", err)
	}

	for _, a := range rows {
		accounts[a.ID] = a
	}
	return accounts, nil
}

func (r *accountRepository) List(ctx context.Context, activeOnly bool) ([]*domain.ChartOfAccount, error) {
	query := `SELECT ` + accountColumns + ` FROM chart_of_accounts`
	if activeOnly {
		query += ` WHERE is_active`
	}
	query += ` ORDER BY account_code`

	accounts := []*domain.ChartOfAccount{}
	if err := sqlx.SelectContext(ctx, r.db, &accounts, query); err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}

	return accounts, nil
}

func (r *accountRepository) SetActive(ctx context.Context, id int64, active bool) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE chart_of_accounts SET is_active = $2, updated_at = $3 WHERE id = $1`,
		id, active, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("update account %d: %w", id, err)
	}

	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return customError.NotFound(fmt.Sprintf("Account with ID %d not found", id), customError.ErrAccountNotFound)
	}

	return nil
}

func (r *accountRepository) GetMapping(ctx context.Context) (*domain.ChartOfAccountMapping, error) {
	var mapping domain.ChartOfAccountMapping
	err := sqlx.GetContext(ctx, r.db, &mapping, `SELECT `+mappingColumns+` FROM chart_of_account_mappings LIMIT 1`)
	if err != nil {
		if isNoRows(err) {
			return nil, customError.NotFound("chart of account mapping is not configured", customError.ErrMappingNotFound)
		}
		return nil, fmt.Errorf("get account mapping: %w", err)
	}

	return &mapping, nil
}

func (r *accountRepository) CreateMapping(ctx context.Context, mapping *domain.ChartOfAccountMapping) error {
	query := `
		INSERT INTO chart_of_account_mappings (customer_loan_code, customer_loan_interest_code, customer_deposit_code,
			sales_revenue_code, accounts_receivable_code)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRowxContext(ctx, query,
		mapping.CustomerLoanCode,
		mapping.CustomerLoanInterestCode,
		mapping.CustomerDepositCode,
		mapping.SalesRevenueCode,
		mapping.AccountsReceivableCode,
	).Scan(&mapping.ID, &mapping.CreatedAt, &mapping.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return customError.Conflict("chart of account mapping already exists", customError.ErrMappingAlreadyExists)
		}
		return fmt.Errorf("insert account mapping: %w", err)
	}

	return nil
}

func (r *accountRepository) UpdateMapping(ctx context.Context, mapping *domain.ChartOfAccountMapping) error {
	query := `
		UPDATE chart_of_account_mappings
		SET customer_loan_code = $2, customer_loan_interest_code = $3, customer_deposit_code = $4,
			sales_revenue_code = $5, accounts_receivable_code = $6, updated_at = $7
		WHERE id = $1
	`

	mapping.UpdatedAt = time.Now()
	result, err := r.db.ExecContext(ctx, query,
		mapping.ID,
		mapping.CustomerLoanCode,
		mapping.CustomerLoanInterestCode,
		mapping.CustomerDepositCode,
		mapping.SalesRevenueCode,
		mapping.AccountsReceivableCode,
		mapping.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update account mapping: %w", err)
	}

	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return customError.NotFound("chart of account mapping is not configured", customError.ErrMappingNotFound)
	}

	return nil
}
