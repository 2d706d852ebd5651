package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Reference number prefixes per posting event.
const (
	PrefixDisbursement = "DISB"
	PrefixTransaction  = "TRANS"
	PrefixSale         = "SALE"
)

// JournalEntry is one balanced, append-only accounting event.
type JournalEntry struct {
	ID              int64         `json:"id" db:"id"`
	EntryDate       time.Time     `json:"entry_date" db:"entry_date"`
	ReferenceNumber string        `json:"reference_number" db:"reference_number"`
	Description     string        `json:"description" db:"description"`
	TransactionID   *int64        `json:"transaction_id,omitempty" db:"transaction_id"`
	CreatedAt       time.Time     `json:"created_at" db:"created_at"`
	Lines           []JournalLine `json:"lines,omitempty" db:"-"`
}

// JournalLine debits or credits one account. Exactly one side is non-zero.
type JournalLine struct {
	ID             int64           `json:"id" db:"id"`
	JournalEntryID int64           `json:"journal_entry_id" db:"journal_entry_id"`
	AccountID      int64           `json:"account_id" db:"account_id"`
	Debit          decimal.Decimal `json:"debit" db:"debit"`
	Credit         decimal.Decimal `json:"credit" db:"credit"`
}

// DebitLine builds a debit line.
func DebitLine(accountID int64, amount decimal.Decimal) JournalLine {
	return JournalLine{AccountID: accountID, Debit: amount, Credit: decimal.Zero}
}

// CreditLine builds a credit line.
func CreditLine(accountID int64, amount decimal.Decimal) JournalLine {
	return JournalLine{AccountID: accountID, Debit: decimal.Zero, Credit: amount}
}

// Totals sums the debit and credit sides of lines.
func Totals(lines []JournalLine) (debits, credits decimal.Decimal) {
	debits, credits = decimal.Zero, decimal.Zero
	for _, l := range lines {
		debits = debits.Add(l.Debit)
		credits = credits.Add(l.Credit)
	}
	return debits, credits
}

// IsBalanced reports whether the entry's debits equal its credits.
func (j *JournalEntry) IsBalanced() bool {
	d, c := Totals(j.Lines)
	return d.Equal(c)
}

// JournalBalance is the per-entry sum used by the ledger audit.
type JournalBalance struct {
	JournalEntryID  int64           `json:"journal_entry_id" db:"journal_entry_id"`
	ReferenceNumber string          `json:"reference_number" db:"reference_number"`
	TotalDebit      decimal.Decimal `json:"total_debit" db:"total_debit"`
	TotalCredit     decimal.Decimal `json:"total_credit" db:"total_credit"`
	LineCount       int             `json:"line_count" db:"line_count"`
}
