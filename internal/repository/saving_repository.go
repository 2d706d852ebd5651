package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/segyhp/loan-engine/internal/domain"
	customError "github.com/segyhp/loan-engine/pkg/errors"
)

type savingRepository struct {
	db sqlx.ExtContext
}

func NewSavingRepository(db sqlx.ExtContext) SavingRepository {
	return &savingRepository{db: db}
}

func (r *savingRepository) GetByCustomer(ctx context.Context, customerID int64) (*domain.Saving, error) {
	return r.get(ctx, `SELECT id, customer_id, balance, created_at, updated_at FROM savings WHERE customer_id = $1`, customerID)
}

func (r *savingRepository) GetByCustomerForUpdate(ctx context.Context, customerID int64) (*domain.Saving, error) {
	return r.get(ctx, `SELECT id, customer_id, balance, created_at, updated_at FROM savings WHERE customer_id = $1 FOR UPDATE`, customerID)
}

func (r *savingRepository) get(ctx context.Context, query string, customerID int64) (*domain.Saving, error) {
	var saving domain.Saving
	if err := sqlx.GetContext(ctx, r.db, &saving, query, customerID); err != nil {
		if isNoRows(err) {
			return nil, customError.NotFound(fmt.Sprintf("No savings for customer %d", customerID), customError.ErrSavingNotFound)
		}
		return nil, fmt.Errorf("get savings for customer %d: %w", customerID, err)
	}

	return &saving, nil
}

func (r *savingRepository) Create(ctx context.Context, saving *domain.Saving) error {
	query := `
		INSERT INTO savings (customer_id, balance)
		VALUES ($1, $2)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRowxContext(ctx, query, saving.CustomerID, saving.Balance).
		Scan(&saving.ID, &saving.CreatedAt, &saving.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return customError.Conflict(fmt.Sprintf("savings for customer %d already exist", saving.CustomerID), err)
		}
		return fmt.Errorf("insert savings for customer %d: %w", saving.CustomerID, err)
	}

	return nil
}

func (r *savingRepository) UpdateBalance(ctx context.Context, saving *domain.Saving) error {
	saving.UpdatedAt = time.Now()
	_, err := r.db.ExecContext(ctx,
		`UPDATE savings SET balance = $2, updated_at = $3 WHERE id = $1`,
		saving.ID, saving.Balance, saving.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update savings %d: %w", saving.ID, err)
	}

	return nil
}
