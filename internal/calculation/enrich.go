package calculation

import (
	"github.com/rgehrsitz/roundup/internal/domain"
	"github.com/shopspring/decimal"
)

// Enricher rounds expenses up to the configured ceiling multiple
type Enricher struct {
	Multiple decimal.Decimal
}

// NewEnricher creates an enricher for the given ceiling multiple (e.g. 100)
func NewEnricher(multiple decimal.Decimal) *Enricher {
	return &Enricher{Multiple: multiple}
}

// Ceiling returns the smallest multiple of e.Multiple that is >= amount,
// exact at any precision.
func (e *Enricher) Ceiling(amount decimal.Decimal) decimal.Decimal {
	_, rem := amount.QuoRem(e.Multiple, 0)
	switch {
	case rem.IsZero():
		return amount
	case rem.IsPositive():
		return amount.Sub(rem).Add(e.Multiple)
	default:
		return amount.Sub(rem)
	}
}

// Enrich converts a raw expense into a transaction. It never rejects input;
// negative amounts are left for validation to catch.
func (e *Enricher) Enrich(expense domain.Expense) domain.Transaction {
	ceiling := e.Ceiling(expense.Amount)
	return domain.Transaction{
		Date:     expense.Date,
		Amount:   expense.Amount,
		Ceiling:  ceiling,
		Remanent: ceiling.Sub(expense.Amount),
	}
}

// EnrichAll enriches a batch, preserving input order
func (e *Enricher) EnrichAll(expenses []domain.Expense) []domain.Transaction {
	transactions := make([]domain.Transaction, 0, len(expenses))
	for _, expense := range expenses {
		transactions = append(transactions, e.Enrich(expense))
	}
	return transactions
}
