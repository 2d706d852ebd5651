package service

import (
	"github.com/shopspring/decimal"

	"github.com/segyhp/loan-engine/internal/domain"
	"github.com/segyhp/loan-engine/pkg/utils"
)

// CalculateOutstandingBalance is the total repayment obligation less everything paid so far.
func CalculateOutstandingBalance(loan *domain.Loan, paid domain.RepaymentTotals) decimal.Decimal {
	return loan.TotalRepayment.Sub(paid.AmountPaid)
}

// AllocateRepayment splits amount between outstanding interest and principal.
// Interest is settled first; the two parts always add up to amount.
func AllocateRepayment(loan *domain.Loan, paid domain.RepaymentTotals, amount decimal.Decimal) domain.RepaymentAllocation {
	interestRemaining := utils.MaxDecimal(loan.InterestAmount.Sub(paid.InterestPaid), decimal.Zero)
	interestDue := utils.MaxDecimal(utils.MinDecimal(interestRemaining, amount), decimal.Zero)

	return domain.RepaymentAllocation{
		InterestDue:      interestDue,
		PrincipalPayment: amount.Sub(interestDue),
	}
}
