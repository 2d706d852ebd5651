package utils

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MoneyScale is the number of decimal places kept for every monetary value.
const MoneyScale = 2

var (
	hundred      = decimal.NewFromInt(100)
	monthsInYear = decimal.NewFromInt(12)
)

// RoundMoney rounds to the monetary scale.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(MoneyScale)
}

// HasMoneyScale reports whether d carries no more than two decimal places.
func HasMoneyScale(d decimal.Decimal) bool {
	return d.Equal(d.Truncate(MoneyScale))
}

// LoanTerms holds the amounts derived from a loan's principal, rate and duration.
type LoanTerms struct {
	InterestAmount   decimal.Decimal
	TotalRepayment   decimal.Decimal
	MonthlyRepayment decimal.Decimal
}

// CalculateLoanTerms computes flat interest on the principal.
// Formula: interest = principal * (annualRatePercent / 100) * (months / 12)
// The total is principal + interest and the monthly repayment is total / months.
func CalculateLoanTerms(principal, annualRatePercent decimal.Decimal, months int) LoanTerms {
	if months <= 0 {
		return LoanTerms{}
	}
	n := decimal.NewFromInt(int64(months))
	interest := RoundMoney(principal.Mul(annualRatePercent).Div(hundred).Mul(n).Div(monthsInYear))
	total := principal.Add(interest)
	return LoanTerms{
		InterestAmount:   interest,
		TotalRepayment:   total,
		MonthlyRepayment: RoundMoney(total.Div(n)),
	}
}

// NewReference returns a unique human-readable reference such as DISB-8F3A2C1D9B04.
func NewReference(prefix string) string {
	token := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return fmt.Sprintf("%s-%s", prefix, token[:16])
}

// MinDecimal returns the smaller of a and b.
func MinDecimal(a, b decimal.Decimal) decimal.Decimal {
	if a.LessThan(b) {
		return a
	}
	return b
}

// MaxDecimal returns the larger of a and b.
func MaxDecimal(a, b decimal.Decimal) decimal.Decimal {
	if a.GreaterThan(b) {
		return a
	}
	return b
}
