package calculation

import (
	"testing"

	"github.com/rgehrsitz/roundup/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func txn(date, amount, ceiling, remanent string) domain.Transaction {
	return domain.Transaction{Date: date, Amount: d(amount), Ceiling: d(ceiling), Remanent: d(remanent)}
}

func TestValidate_NegativeAmount(t *testing.T) {
	txns := []domain.Transaction{
		txn("2023-01-01 10:00:00", "2000", "2000", "0"),
		txn("2023-01-02 10:00:00", "3500", "3500", "0"),
		txn("2023-01-03 10:00:00", "1500", "1500", "0"),
		txn("2023-01-04 10:00:00", "-250", "-200", "50"),
	}

	result := Validate(txns)

	require.Len(t, result.Valid, 3)
	require.Len(t, result.Invalid, 1)
	assert.Equal(t, domain.MsgNegativeAmount, result.Invalid[0].Message)
	assert.Equal(t, "2023-01-04 10:00:00", result.Invalid[0].Date)
	require.NotNil(t, result.Invalid[0].Remanent)
	assert.True(t, d("50").Equal(*result.Invalid[0].Remanent))
}

func TestValidate_DuplicateKeepsFirstOccurrence(t *testing.T) {
	txns := []domain.Transaction{
		txn("2023-05-05 12:00:00", "150", "200", "50"),
		txn("2023-05-06 12:00:00", "310", "400", "90"),
		txn("2023-05-05 12:00:00", "999", "1000", "1"),
		txn(" 2023-05-05 12:00:00 ", "10", "100", "90"),
	}

	result := Validate(txns)

	require.Len(t, result.Valid, 2)
	assert.True(t, d("150").Equal(result.Valid[0].Amount), "first occurrence must be the one kept")
	require.Len(t, result.Invalid, 2)
	for _, inv := range result.Invalid {
		assert.Equal(t, domain.MsgDuplicateTransaction, inv.Message)
	}
}

func TestValidate_EquivalentDatesAreDuplicates(t *testing.T) {
	tests := []struct {
		name   string
		first  string
		second string
		dup    bool
	}{
		{"surrounding whitespace", "2023-01-01 10:00:00", " 2023-01-01 10:00:00 ", true},
		{"single-digit hour", "2023-01-01 09:00:00", "2023-01-01 9:00:00", true},
		{"tab padded", "\t2023-01-01 10:00:00", "2023-01-01 10:00:00\n", true},
		{"one second apart", "2023-01-01 10:00:00", "2023-01-01 10:00:01", false},
		{"unparseable but equal", "not a date", " not a date", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Validate([]domain.Transaction{
				txn(tt.first, "100", "100", "0"),
				txn(tt.second, "200", "200", "0"),
			})

			if tt.dup {
				require.Len(t, result.Valid, 1)
				assert.Equal(t, tt.first, result.Valid[0].Date)
				require.Len(t, result.Invalid, 1)
				assert.Equal(t, domain.MsgDuplicateTransaction, result.Invalid[0].Message)
				assert.Equal(t, tt.second, result.Invalid[0].Date)
			} else {
				assert.Len(t, result.Valid, 2)
				assert.Empty(t, result.Invalid)
			}
		})
	}
}

func TestValidate_NegativeCheckedBeforeDuplicate(t *testing.T) {
	txns := []domain.Transaction{
		txn("2023-05-05 12:00:00", "-5", "0", "5"),
		txn("2023-05-05 12:00:00", "150", "200", "50"),
	}

	result := Validate(txns)

	// A rejected negative does not claim its date.
	require.Len(t, result.Valid, 1)
	assert.True(t, d("150").Equal(result.Valid[0].Amount))
	require.Len(t, result.Invalid, 1)
	assert.Equal(t, domain.MsgNegativeAmount, result.Invalid[0].Message)
}

func TestValidate_DuplicateCount(t *testing.T) {
	dates := []string{"a", "b", "a", "c", "b", "a"}
	txns := make([]domain.Transaction, len(dates))
	for i, date := range dates {
		txns[i] = domain.Transaction{Date: date, Amount: decimal.NewFromInt(int64(i + 1))}
	}

	result := Validate(txns)

	assert.Len(t, result.Valid, 3)
	assert.Len(t, result.Invalid, 3)
}

func TestValidate_Empty(t *testing.T) {
	result := Validate(nil)

	assert.NotNil(t, result.Valid)
	assert.NotNil(t, result.Invalid)
	assert.Empty(t, result.Valid)
	assert.Empty(t, result.Invalid)
}
