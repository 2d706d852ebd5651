package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/segyhp/loan-engine/internal/domain"
	"github.com/segyhp/loan-engine/internal/repository"
	customError "github.com/segyhp/loan-engine/pkg/errors"
)

func TestValidateLines(t *testing.T) {
	tests := []struct {
		name    string
		lines   []domain.JournalLine
		wantErr error
	}{
		{
			name: "balanced",
			lines: []domain.JournalLine{
				domain.DebitLine(1, dec("50000")),
				domain.CreditLine(2, dec("20000")),
				domain.CreditLine(3, dec("30000")),
			},
		},
		{
			name:    "single line",
			lines:   []domain.JournalLine{domain.DebitLine(1, dec("10"))},
			wantErr: customError.ErrJournalLineInvalid,
		},
		{
			name: "unbalanced",
			lines: []domain.JournalLine{
				domain.DebitLine(1, dec("10")),
				domain.CreditLine(2, dec("9")),
			},
			wantErr: customError.ErrJournalUnbalanced,
		},
		{
			name: "both sides on one line",
			lines: []domain.JournalLine{
				{AccountID: 1, Debit: dec("10"), Credit: dec("10")},
				domain.CreditLine(2, dec("0")),
			},
			wantErr: customError.ErrJournalLineInvalid,
		},
		{
			name: "negative amount",
			lines: []domain.JournalLine{
				domain.DebitLine(1, dec("-10")),
				domain.CreditLine(2, dec("-10")),
			},
			wantErr: customError.ErrJournalLineInvalid,
		},
		{
			name: "sub-cent amount",
			lines: []domain.JournalLine{
				domain.DebitLine(1, dec("10.001")),
				domain.CreditLine(2, dec("10.001")),
			},
			wantErr: customError.ErrJournalLineInvalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateLines(tt.lines)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
			assert.True(t, customError.IsKind(err, customError.KindConsistency))
		})
	}
}

func TestRepaymentLines_DropsZeroSides(t *testing.T) {
	lines := repaymentLines(4, 2, 1, dec("500"), domain.RepaymentAllocation{
		InterestDue:      decimal.Zero,
		PrincipalPayment: dec("500"),
	})

	require.Len(t, lines, 2)
	assert.Equal(t, int64(4), lines[0].AccountID)
	assert.Equal(t, int64(1), lines[1].AccountID)
	assert.NoError(t, validateLines(lines))
}

func TestLineBuilders_AlwaysBalance(t *testing.T) {
	amount := dec("1234.56")
	sets := map[string][]domain.JournalLine{
		"disbursement": disbursementLines(1, 4, amount),
		"deposit":      depositLines(4, 3, amount),
		"withdrawal":   withdrawalLines(4, 3, amount),
		"sale partial": saleLines(4, 6, 5, amount, dec("200")),
		"sale credit":  saleLines(0, 6, 5, amount, decimal.Zero),
		"repayment": repaymentLines(4, 2, 1, amount, domain.RepaymentAllocation{
			InterestDue: dec("234.56"), PrincipalPayment: dec("1000"),
		}),
	}

	for name, lines := range sets {
		t.Run(name, func(t *testing.T) {
			assert.NoError(t, validateLines(lines))
		})
	}
}

func TestPostJournalEntry_UnknownAccount(t *testing.T) {
	store := seedLedger(newMemStore())

	err := store.WithinTx(context.Background(), func(ctx context.Context, repos *repository.Repositories) error {
		_, err := postJournalEntry(ctx, repos, posting{
			Prefix: domain.PrefixTransaction,
			Lines:  disbursementLines(acctReceivable, 404, dec("10")),
		})
		return err
	})

	assert.True(t, customError.IsKind(err, customError.KindConsistency))
	assert.ErrorIs(t, err, customError.ErrAccountNotFound)
	assert.Empty(t, store.journalEntries())
}

func TestDescribeCustomer(t *testing.T) {
	store := seedLedger(newMemStore())
	repos := store.Repositories()
	ctx := context.Background()

	got, err := describeCustomer(ctx, repos, customerAda)
	require.NoError(t, err)
	assert.Equal(t, "Ada Obi", got)

	got, err = describeCustomer(ctx, repos, customerCompany)
	require.NoError(t, err)
	assert.Equal(t, "Obi Traders Ltd", got)

	got, err = describeCustomer(ctx, repos, 55)
	require.NoError(t, err)
	assert.Equal(t, "Customer 55", got)
}
