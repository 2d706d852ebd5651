package domain

import "fmt"

// Customer types as stored by the customer registry.
const (
	CustomerIndividual = "individual"
	CustomerCompany    = "company"
	CustomerGroup      = "group"
)

// Customer is the subset of the customer registry the ledger needs.
type Customer struct {
	ID           int64   `json:"id" db:"id"`
	CustomerType string  `json:"customer_type" db:"customer_type"`
	FirstName    *string `json:"first_name,omitempty" db:"first_name"`
	Surname      *string `json:"surname,omitempty" db:"surname"`
	CompanyName  *string `json:"company_name,omitempty" db:"company_name"`
}

// DisplayName is the description used on journal entries.
func (c *Customer) DisplayName() string {
	switch c.CustomerType {
	case CustomerIndividual:
		if c.FirstName != nil || c.Surname != nil {
			return fmt.Sprintf("%s %s", deref(c.FirstName), deref(c.Surname))
		}
	case CustomerCompany, CustomerGroup:
		if c.CompanyName != nil && *c.CompanyName != "" {
			return *c.CompanyName
		}
	}
	return fmt.Sprintf("Customer %d", c.ID)
}

// PaymentType maps a payment channel (cash, bank, savings) to its ledger account.
type PaymentType struct {
	ID               int64  `json:"id" db:"id"`
	Name             string `json:"name" db:"name"`
	ChartOfAccountID int64  `json:"chart_of_account_id" db:"chart_of_account_id"`
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
