package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/segyhp/loan-engine/internal/domain"
	customError "github.com/segyhp/loan-engine/pkg/errors"
)

type customerDirectory struct {
	db sqlx.ExtContext
}

// NewCustomerDirectory reads the customers table maintained by the customer registry.
func NewCustomerDirectory(db sqlx.ExtContext) CustomerDirectory {
	return &customerDirectory{db: db}
}

func (d *customerDirectory) GetCustomer(ctx context.Context, id int64) (*domain.Customer, error) {
	query := `SELECT id, customer_type, first_name, surname, company_name FROM customers WHERE id = $1`

	var customer domain.Customer
	if err := sqlx.GetContext(ctx, d.db, &customer, query, id); err != nil {
		if isNoRows(err) {
			return nil, customError.NotFound(fmt.Sprintf("Customer with ID %d not found", id), customError.ErrCustomerNotFound)
		}
		return nil, fmt.Errorf("get customer %d: %w", id, err)
	}

	return &customer, nil
}

type paymentTypeDirectory struct {
	db sqlx.ExtContext
}

func NewPaymentTypeDirectory(db sqlx.ExtContext) PaymentTypeDirectory {
	return &paymentTypeDirectory{db: db}
}

func (d *paymentTypeDirectory) GetPaymentType(ctx context.Context, id int64) (*domain.PaymentType, error) {
	query := `SELECT id, name, chart_of_account_id FROM payment_types WHERE id = $1`

	var paymentType domain.PaymentType
	if err := sqlx.GetContext(ctx, d.db, &paymentType, query, id); err != nil {
		if isNoRows(err) {
			return nil, customError.NotFound(fmt.Sprintf("Payment type with ID %d not found", id), customError.ErrPaymentTypeNotFound)
		}
		return nil, fmt.Errorf("get payment type %d: %w", id, err)
	}

	return &paymentType, nil
}
