package calculation

import (
	"context"
	"fmt"
	"time"

	"github.com/rgehrsitz/roundup/internal/domain"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

func parseTransactionDates(transactions []domain.Transaction) ([]time.Time, error) {
	dates := make([]time.Time, len(transactions))
	for i, txn := range transactions {
		at, err := domain.ParseTimestamp("transaction date", txn.Date)
		if err != nil {
			return nil, err
		}
		dates[i] = at
	}
	return dates, nil
}

func parseKSpans(kPeriods []domain.KPeriod) ([]domain.Span, error) {
	spans := make([]domain.Span, len(kPeriods))
	for i, k := range kPeriods {
		span, err := domain.NewSpan(k.Period)
		if err != nil {
			return nil, fmt.Errorf("k period %d: %w", i, err)
		}
		spans[i] = span
	}
	return spans, nil
}

func sumWithin(span domain.Span, transactions []domain.Transaction, dates []time.Time) decimal.Decimal {
	total := decimal.Zero
	for i, at := range dates {
		if span.Contains(at) {
			total = total.Add(transactions[i].Remanent)
		}
	}
	return total
}

// GroupByK sums remanents per K period, one result per period in input order.
// A transaction counts toward every period that contains it.
func GroupByK(transactions []domain.Transaction, kPeriods []domain.KPeriod) ([]domain.KPeriodSum, error) {
	dates, err := parseTransactionDates(transactions)
	if err != nil {
		return nil, err
	}
	spans, err := parseKSpans(kPeriods)
	if err != nil {
		return nil, err
	}

	sums := make([]domain.KPeriodSum, len(kPeriods))
	for i, k := range kPeriods {
		sums[i] = domain.KPeriodSum{Period: k, Amount: sumWithin(spans[i], transactions, dates)}
	}
	return sums, nil
}

// GroupByKConcurrent computes the same result as GroupByK, fanning the K
// periods out across at most workers goroutines.
func GroupByKConcurrent(ctx context.Context, transactions []domain.Transaction, kPeriods []domain.KPeriod, workers int) ([]domain.KPeriodSum, error) {
	dates, err := parseTransactionDates(transactions)
	if err != nil {
		return nil, err
	}
	spans, err := parseKSpans(kPeriods)
	if err != nil {
		return nil, err
	}
	if workers < 1 {
		workers = 1
	}

	sums := make([]domain.KPeriodSum, len(kPeriods))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range kPeriods {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			sums[i] = domain.KPeriodSum{Period: kPeriods[i], Amount: sumWithin(spans[i], transactions, dates)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return sums, nil
}

// MarkMembership tags each transaction with whether its date falls inside any K period
func MarkMembership(transactions []domain.Transaction, kPeriods []domain.KPeriod) ([]domain.FilteredTransaction, error) {
	dates, err := parseTransactionDates(transactions)
	if err != nil {
		return nil, err
	}
	spans, err := parseKSpans(kPeriods)
	if err != nil {
		return nil, err
	}

	filtered := make([]domain.FilteredTransaction, len(transactions))
	for i, txn := range transactions {
		inK := false
		for _, span := range spans {
			if span.Contains(dates[i]) {
				inK = true
				break
			}
		}
		filtered[i] = domain.FilteredTransaction{
			Date:      txn.Date,
			Amount:    txn.Amount,
			Ceiling:   txn.Ceiling,
			Remanent:  txn.Remanent,
			InKPeriod: inK,
		}
	}
	return filtered, nil
}
