package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/segyhp/loan-engine/internal/domain"
	"github.com/segyhp/loan-engine/internal/repository"
	customError "github.com/segyhp/loan-engine/pkg/errors"
	"github.com/segyhp/loan-engine/pkg/utils"
)

// posting is one balanced journal entry waiting to be written.
type posting struct {
	Prefix        string
	Description   string
	TransactionID int64
	EntryDate     time.Time
	Lines         []domain.JournalLine
}

// lineSet accumulates journal lines, dropping zero amounts.
type lineSet []domain.JournalLine

func (s lineSet) debit(accountID int64, amount decimal.Decimal) lineSet {
	if !amount.IsPositive() {
		return s
	}
	return append(s, domain.DebitLine(accountID, amount))
}

func (s lineSet) credit(accountID int64, amount decimal.Decimal) lineSet {
	if !amount.IsPositive() {
		return s
	}
	return append(s, domain.CreditLine(accountID, amount))
}

// disbursementLines moves principal out of the lender: receivable up, cash or deposit down.
func disbursementLines(receivableAccount, fundingAccount int64, amount decimal.Decimal) []domain.JournalLine {
	return lineSet{}.
		debit(receivableAccount, amount).
		credit(fundingAccount, amount)
}

// repaymentLines debits the full payment and credits interest before principal.
func repaymentLines(cashAccount, interestAccount, receivableAccount int64, amount decimal.Decimal, alloc domain.RepaymentAllocation) []domain.JournalLine {
	return lineSet{}.
		debit(cashAccount, amount).
		credit(interestAccount, alloc.InterestDue).
		credit(receivableAccount, alloc.PrincipalPayment)
}

func depositLines(cashAccount, depositAccount int64, amount decimal.Decimal) []domain.JournalLine {
	return lineSet{}.
		debit(cashAccount, amount).
		credit(depositAccount, amount)
}

func withdrawalLines(cashAccount, depositAccount int64, amount decimal.Decimal) []domain.JournalLine {
	return lineSet{}.
		debit(depositAccount, amount).
		credit(cashAccount, amount)
}

// saleLines books revenue for the full order, split between cash received and receivable.
func saleLines(cashAccount, receivableAccount, revenueAccount int64, total, paid decimal.Decimal) []domain.JournalLine {
	return lineSet{}.
		debit(cashAccount, paid).
		debit(receivableAccount, total.Sub(paid)).
		credit(revenueAccount, total)
}

// validateLines enforces the shape of a journal entry before anything is written.
func validateLines(lines []domain.JournalLine) error {
	if len(lines) < 2 {
		return customError.Consistency(customError.ErrCodeJournalUnbalanced,
			fmt.Sprintf("journal entry needs at least two lines, got %d", len(lines)), customError.ErrJournalLineInvalid)
	}

	for i, l := range lines {
		if l.Debit.IsNegative() || l.Credit.IsNegative() || l.Debit.IsPositive() == l.Credit.IsPositive() {
			return customError.Consistency(customError.ErrCodeJournalUnbalanced,
				fmt.Sprintf("line %d on account %d must carry exactly one positive side", i, l.AccountID),
				customError.ErrJournalLineInvalid)
		}
		if !utils.HasMoneyScale(l.Debit) || !utils.HasMoneyScale(l.Credit) {
			return customError.Consistency(customError.ErrCodeJournalUnbalanced,
				fmt.Sprintf("line %d on account %d exceeds money scale", i, l.AccountID),
				customError.ErrJournalLineInvalid)
		}
	}

	debits, credits := domain.Totals(lines)
	if !debits.Equal(credits) {
		return customError.WrapJournalUnbalanced(debits.String(), credits.String())
	}
	return nil
}

// ensurePostable checks every account on the lines exists and is active.
func ensurePostable(ctx context.Context, repos *repository.Repositories, lines []domain.JournalLine) error {
	ids := make([]int64, 0, len(lines))
	seen := make(map[int64]bool, len(lines))
	for _, l := range lines {
		if !seen[l.AccountID] {
			seen[l.AccountID] = true
			ids = append(ids, l.AccountID)
		}
	}

	accounts, err := repos.Accounts.GetByIDs(ctx, ids)
	if err != nil {
		return err
	}
	for _, id := range ids {
		account, ok := accounts[id]
		if !ok {
			return customError.Consistency(customError.ErrCodeMappingMissing,
				fmt.Sprintf("posting account %d does not exist", id), customError.ErrAccountNotFound)
		}
		if !account.IsActive {
			return customError.Consistency(customError.ErrCodeMappingMissing,
				fmt.Sprintf("posting account %s is inactive", account.AccountCode), customError.ErrAccountInactive)
		}
	}
	return nil
}

// postJournalEntry writes one balanced entry through repos. It never opens its
// own transaction; the caller's unit of work owns commit and rollback.
func postJournalEntry(ctx context.Context, repos *repository.Repositories, p posting) (*domain.JournalEntry, error) {
	if err := validateLines(p.Lines); err != nil {
		return nil, err
	}
	if err := ensurePostable(ctx, repos, p.Lines); err != nil {
		return nil, err
	}

	txID := p.TransactionID
	entry := &domain.JournalEntry{
		EntryDate:       p.EntryDate,
		ReferenceNumber: utils.NewReference(p.Prefix),
		Description:     p.Description,
		TransactionID:   &txID,
		Lines:           p.Lines,
	}
	if err := repos.Journals.CreateEntry(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// loadMapping reads the account mapping; a missing row is a consistency failure for postings.
func loadMapping(ctx context.Context, repos *repository.Repositories) (*domain.ChartOfAccountMapping, error) {
	mapping, err := repos.Accounts.GetMapping(ctx)
	if err != nil {
		if customError.IsKind(err, customError.KindNotFound) {
			return nil, customError.WrapMappingMissing(err)
		}
		return nil, err
	}
	return mapping, nil
}

// describeCustomer builds the journal description for a customer.
func describeCustomer(ctx context.Context, repos *repository.Repositories, customerID int64) (string, error) {
	customer, err := repos.Customers.GetCustomer(ctx, customerID)
	if err != nil {
		if customError.IsKind(err, customError.KindNotFound) {
			return (&domain.Customer{ID: customerID}).DisplayName(), nil
		}
		return "", err
	}
	return customer.DisplayName(), nil
}
