package calculation

import (
	"strings"

	"github.com/rgehrsitz/roundup/internal/domain"
	"github.com/shopspring/decimal"
)

// Validate partitions transactions into valid and invalid sets in a single
// left-to-right pass. Rules, first match wins:
//  1. negative amount
//  2. date already accepted earlier in the input
//
// The pass is order-sensitive: the first occurrence of a date is kept. Dates
// are compared as parsed instants, so "2023-01-01 9:00:00" duplicates
// "2023-01-01 09:00:00".
func Validate(transactions []domain.Transaction) domain.ValidationResult {
	result := domain.ValidationResult{
		Valid:   make([]domain.Transaction, 0, len(transactions)),
		Invalid: []domain.InvalidTransaction{},
	}
	seenDates := make(map[string]struct{}, len(transactions))

	for _, txn := range transactions {
		if txn.Amount.LessThan(decimal.Zero) {
			result.Invalid = append(result.Invalid, domain.NewInvalidTransaction(txn, domain.MsgNegativeAmount))
			continue
		}

		key := dateKey(txn.Date)
		if _, seen := seenDates[key]; seen {
			result.Invalid = append(result.Invalid, domain.NewInvalidTransaction(txn, domain.MsgDuplicateTransaction))
			continue
		}

		seenDates[key] = struct{}{}
		result.Valid = append(result.Valid, txn)
	}

	return result
}

// dateKey canonicalises a date for duplicate detection. Unparseable dates fall
// back to the trimmed string and fail later in the pipeline.
func dateKey(date string) string {
	at, err := domain.ParseTimestamp("transaction date", date)
	if err != nil {
		return strings.TrimSpace(date)
	}
	return domain.FormatTimestamp(at)
}
