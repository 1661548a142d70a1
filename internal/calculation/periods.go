package calculation

import (
	"fmt"
	"sort"
	"time"

	"github.com/rgehrsitz/roundup/internal/domain"
	"github.com/shopspring/decimal"
)

// remanentRule decides a transaction's new remanent given its parsed date.
// It returns false to leave the transaction untouched.
type remanentRule func(txn domain.Transaction, at time.Time) (decimal.Decimal, bool)

// applyTransform is the shared fold behind the Q and P rules: parse each date
// once, ask the rule, and replace the transaction only when the rule fires.
func applyTransform(transactions []domain.Transaction, rule remanentRule) ([]domain.Transaction, error) {
	result := make([]domain.Transaction, 0, len(transactions))
	for _, txn := range transactions {
		at, err := domain.ParseTimestamp("transaction date", txn.Date)
		if err != nil {
			return nil, err
		}
		if remanent, ok := rule(txn, at); ok {
			result = append(result, txn.WithRemanent(remanent))
			continue
		}
		result = append(result, txn)
	}
	return result, nil
}

type parsedQPeriod struct {
	span  domain.Span
	fixed decimal.Decimal
}

type parsedPPeriod struct {
	span  domain.Span
	extra decimal.Decimal
}

// ApplyQ replaces the remanent of every covered transaction with the Q period's
// fixed amount. When several periods cover a date, the latest start wins; ties
// on start go to the period listed first.
func ApplyQ(transactions []domain.Transaction, qPeriods []domain.QPeriod) ([]domain.Transaction, error) {
	if len(qPeriods) == 0 {
		return transactions, nil
	}

	parsed := make([]parsedQPeriod, 0, len(qPeriods))
	for i, q := range qPeriods {
		span, err := domain.NewSpan(q.Period)
		if err != nil {
			return nil, fmt.Errorf("q period %d: %w", i, err)
		}
		parsed = append(parsed, parsedQPeriod{span: span, fixed: q.Fixed})
	}

	// Must be stable: equal starts keep input order so first-listed wins.
	sort.SliceStable(parsed, func(i, j int) bool {
		return parsed[i].span.Start.After(parsed[j].span.Start)
	})

	return applyTransform(transactions, func(_ domain.Transaction, at time.Time) (decimal.Decimal, bool) {
		for _, q := range parsed {
			if q.span.Contains(at) {
				return q.fixed, true
			}
		}
		return decimal.Decimal{}, false
	})
}

// ApplyP adds the sum of every covering P period's extra to the current
// remanent. A zero (or negative) total leaves the transaction untouched.
func ApplyP(transactions []domain.Transaction, pPeriods []domain.PPeriod) ([]domain.Transaction, error) {
	if len(pPeriods) == 0 {
		return transactions, nil
	}

	parsed := make([]parsedPPeriod, 0, len(pPeriods))
	for i, p := range pPeriods {
		span, err := domain.NewSpan(p.Period)
		if err != nil {
			return nil, fmt.Errorf("p period %d: %w", i, err)
		}
		parsed = append(parsed, parsedPPeriod{span: span, extra: p.Extra})
	}

	return applyTransform(transactions, func(txn domain.Transaction, at time.Time) (decimal.Decimal, bool) {
		totalExtra := decimal.Zero
		for _, p := range parsed {
			if p.span.Contains(at) {
				totalExtra = totalExtra.Add(p.extra)
			}
		}
		if totalExtra.LessThanOrEqual(decimal.Zero) {
			return decimal.Decimal{}, false
		}
		return txn.Remanent.Add(totalExtra), true
	})
}

// ApplyPeriods applies Q overrides and then P additions
func ApplyPeriods(transactions []domain.Transaction, qPeriods []domain.QPeriod, pPeriods []domain.PPeriod) ([]domain.Transaction, error) {
	adjusted, err := ApplyQ(transactions, qPeriods)
	if err != nil {
		return nil, err
	}
	return ApplyP(adjusted, pPeriods)
}
