package mocks

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

type MockBalanceCache struct {
	mock.Mock
}

func (m *MockBalanceCache) Get(ctx context.Context, loanID int64) (decimal.Decimal, bool, error) {
	args := m.Called(ctx, loanID)
	return args.Get(0).(decimal.Decimal), args.Bool(1), args.Error(2)
}

func (m *MockBalanceCache) Version(ctx context.Context, loanID int64) (int64, error) {
	args := m.Called(ctx, loanID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockBalanceCache) Set(ctx context.Context, loanID int64, amount decimal.Decimal, version int64) error {
	args := m.Called(ctx, loanID, amount, version)
	return args.Error(0)
}

func (m *MockBalanceCache) Invalidate(ctx context.Context, loanID int64) error {
	args := m.Called(ctx, loanID)
	return args.Error(0)
}

type MockDocumentStore struct {
	mock.Mock
}

func (m *MockDocumentStore) Store(ctx context.Context, folder, fileName string, data []byte) (string, error) {
	args := m.Called(ctx, folder, fileName, data)
	return args.String(0), args.Error(1)
}

func (m *MockDocumentStore) Delete(ctx context.Context, path string) error {
	args := m.Called(ctx, path)
	return args.Error(0)
}
