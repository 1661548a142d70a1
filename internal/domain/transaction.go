package domain

import (
	"github.com/shopspring/decimal"
)

// Validation messages carried by InvalidTransaction.
const (
	MsgNegativeAmount       = "Negative amounts are not allowed"
	MsgDuplicateTransaction = "Duplicate transaction"
)

func init() {
	// Amounts travel as JSON numbers, not quoted strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// Expense is a raw, dated spend as supplied by the user
type Expense struct {
	Date   string          `json:"date" yaml:"date"`
	Amount decimal.Decimal `json:"amount" yaml:"amount"`
}

// Transaction is an expense enriched with its round-up ceiling and remanent.
// Later stages replace Remanent by building a new value; Amount and Ceiling
// never change once enriched.
type Transaction struct {
	Date     string          `json:"date" yaml:"date"`
	Amount   decimal.Decimal `json:"amount" yaml:"amount"`
	Ceiling  decimal.Decimal `json:"ceiling" yaml:"ceiling"`
	Remanent decimal.Decimal `json:"remanent" yaml:"remanent"`
}

// WithRemanent returns a copy of the transaction carrying a new remanent
func (t Transaction) WithRemanent(remanent decimal.Decimal) Transaction {
	t.Remanent = remanent
	return t
}

// InvalidTransaction is a transaction rejected by validation together with the reason.
type InvalidTransaction struct {
	Date     string           `json:"date" yaml:"date"`
	Amount   decimal.Decimal  `json:"amount" yaml:"amount"`
	Ceiling  *decimal.Decimal `json:"ceiling,omitempty" yaml:"ceiling,omitempty"`
	Remanent *decimal.Decimal `json:"remanent,omitempty" yaml:"remanent,omitempty"`
	Message  string           `json:"message" yaml:"message"`
}

// NewInvalidTransaction builds a rejected record from the transaction that failed
func NewInvalidTransaction(t Transaction, message string) InvalidTransaction {
	ceiling := t.Ceiling
	remanent := t.Remanent
	return InvalidTransaction{
		Date:     t.Date,
		Amount:   t.Amount,
		Ceiling:  &ceiling,
		Remanent: &remanent,
		Message:  message,
	}
}

// FilteredTransaction is a valid transaction tagged with K period membership
type FilteredTransaction struct {
	Date      string          `json:"date" yaml:"date"`
	Amount    decimal.Decimal `json:"amount" yaml:"amount"`
	Ceiling   decimal.Decimal `json:"ceiling" yaml:"ceiling"`
	Remanent  decimal.Decimal `json:"remanent" yaml:"remanent"`
	InKPeriod bool            `json:"inKPeriod" yaml:"in_k_period"`
}

// ValidationResult partitions transactions into accepted and rejected sets
type ValidationResult struct {
	Valid   []Transaction        `json:"valid"`
	Invalid []InvalidTransaction `json:"invalid"`
}

// FilterResult is the outcome of the full temporal filter pipeline
type FilterResult struct {
	Valid   []FilteredTransaction `json:"valid"`
	Invalid []InvalidTransaction  `json:"invalid"`
}
