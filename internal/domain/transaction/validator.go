package transaction

import "github.com/shopspring/decimal"

// Validator is a single business rule over a transaction. Validators are
// independent predicates combined with CompositeValidator.
type Validator interface {
	Validate(t *Transaction) bool
}

// SameAccountValidator rejects transfers where source and destination are the
// same account.
type SameAccountValidator struct{}

func (SameAccountValidator) Validate(t *Transaction) bool {
	return t.AccountID != t.DestinationAccountID
}

// Domestic and international ceilings are reusable policy units for callers
// that need currency-tier limits. They are not part of the default creation
// chain.

var (
	domesticCeiling      = decimal.NewFromInt(100000)
	internationalCeiling = decimal.NewFromInt(5000)
)

// DomesticValidator accepts NGN transactions at or under the domestic ceiling.
type DomesticValidator struct{}

func (DomesticValidator) Validate(t *Transaction) bool {
	return t.Currency == CurrencyNGN && t.Amount.LessThanOrEqual(domesticCeiling)
}

// InternationalValidator accepts non-NGN transactions at or under the
// international ceiling.
type InternationalValidator struct{}

func (InternationalValidator) Validate(t *Transaction) bool {
	return t.Currency != CurrencyNGN && t.Amount.LessThanOrEqual(internationalCeiling)
}

// CompositeValidator combines validators with logical AND, short-circuiting on
// the first failure.
type CompositeValidator struct {
	validators []Validator
}

func NewCompositeValidator(validators ...Validator) *CompositeValidator {
	return &CompositeValidator{validators: validators}
}

func (c *CompositeValidator) Validate(t *Transaction) bool {
	for _, v := range c.validators {
		if !v.Validate(t) {
			return false
		}
	}
	return true
}
