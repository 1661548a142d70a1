package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rgehrsitz/roundup/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func sampleTransactions() []domain.Transaction {
	return []domain.Transaction{
		{Date: "2023-02-28 15:49:20", Amount: d("375"), Ceiling: d("400"), Remanent: d("25")},
		{Date: "2023-07-01 21:59:00", Amount: d("620"), Ceiling: d("700"), Remanent: d("80")},
	}
}

func sampleValidation() domain.ValidationResult {
	negative := domain.Transaction{Date: "2023-12-18 08:09:45", Amount: d("-10"), Ceiling: d("0"), Remanent: d("10")}
	return domain.ValidationResult{
		Valid:   sampleTransactions(),
		Invalid: []domain.InvalidTransaction{domain.NewInvalidTransaction(negative, domain.MsgNegativeAmount)},
	}
}

func sampleReport() *domain.ReturnsReport {
	return &domain.ReturnsReport{
		Strategy:               "nps",
		TotalTransactionAmount: d("1725"),
		TotalCeiling:           d("1900"),
		SavingsByDates: []domain.SavingsByDate{
			{Start: "2023-01-01 00:00:00", End: "2023-12-31 23:59:59", Amount: d("145"), Profit: d("86.88"), TaxBenefit: decimal.Zero},
		},
	}
}

func TestNewFormatter(t *testing.T) {
	for _, name := range []string{"table", "json", "csv", " JSON "} {
		f, err := NewFormatter(name)
		require.NoError(t, err, name)
		assert.Equal(t, strings.ToLower(strings.TrimSpace(name)), f.Name())
	}

	_, err := NewFormatter("html")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "csv, json, table")
	assert.Equal(t, []string{"csv", "json", "table"}, Formats())
}

func TestTableFormatter(t *testing.T) {
	tf := &TableFormatter{}

	var buf bytes.Buffer
	require.NoError(t, tf.Transactions(&buf, sampleTransactions()))
	out := buf.String()
	assert.Contains(t, out, "TRANSACTIONS")
	assert.Contains(t, out, "2023-02-28 15:49:20")
	assert.Contains(t, out, "400.00")
	assert.Contains(t, out, "2 transaction(s)")

	buf.Reset()
	require.NoError(t, tf.Validation(&buf, sampleValidation()))
	out = buf.String()
	assert.Contains(t, out, "VALID (2)")
	assert.Contains(t, out, "INVALID (1)")
	assert.Contains(t, out, domain.MsgNegativeAmount)

	buf.Reset()
	require.NoError(t, tf.Filter(&buf, domain.FilterResult{
		Valid: []domain.FilteredTransaction{{Date: "2023-07-01 21:59:00", Amount: d("620"), Ceiling: d("700"), Remanent: d("0"), InKPeriod: true}},
	}))
	assert.Contains(t, buf.String(), "in k")

	buf.Reset()
	require.NoError(t, tf.Returns(&buf, sampleReport()))
	out = buf.String()
	assert.Contains(t, out, "RETURNS PROJECTION (NPS)")
	assert.Contains(t, out, "1725.00")
	assert.Contains(t, out, "86.88")
	assert.NotContains(t, out, "Marginal Tax Rate")

	report := sampleReport()
	rate := d("0.15")
	report.MarginalTaxRate = &rate
	buf.Reset()
	require.NoError(t, tf.Returns(&buf, report))
	assert.Contains(t, buf.String(), "Marginal Tax Rate:        15.00%")
}

func TestJSONFormatter_MatchesAPIShape(t *testing.T) {
	jf := &JSONFormatter{}

	var buf bytes.Buffer
	require.NoError(t, jf.Returns(&buf, sampleReport()))

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, 1725.0, decoded["totalTransactionAmount"])
	assert.Equal(t, 1900.0, decoded["totalCeiling"])
	assert.NotContains(t, decoded, "Strategy")
	savings := decoded["savingsByDates"].([]interface{})
	require.Len(t, savings, 1)
	first := savings[0].(map[string]interface{})
	assert.Equal(t, 86.88, first["profit"])
	assert.Equal(t, 0.0, first["taxBenefit"])

	buf.Reset()
	require.NoError(t, jf.Transactions(&buf, nil))
	assert.Equal(t, "[]\n", buf.String())

	buf.Reset()
	require.NoError(t, jf.Validation(&buf, sampleValidation()))
	assert.Contains(t, buf.String(), `"message":"Negative amounts are not allowed"`)
}

func TestJSONFormatter_Pretty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&JSONFormatter{Pretty: true}).Transactions(&buf, sampleTransactions()))
	assert.Contains(t, buf.String(), "\n  {")
}

func TestCSVFormatter(t *testing.T) {
	cf := &CSVFormatter{}

	var buf bytes.Buffer
	require.NoError(t, cf.Transactions(&buf, sampleTransactions()))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "date,amount,ceiling,remanent", lines[0])
	assert.Equal(t, "2023-02-28 15:49:20,375.00,400.00,25.00", lines[1])

	buf.Reset()
	require.NoError(t, cf.Validation(&buf, sampleValidation()))
	lines = strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "status,date,amount,ceiling,remanent,message", lines[0])
	assert.Equal(t, "invalid,2023-12-18 08:09:45,-10.00,0.00,10.00,Negative amounts are not allowed", lines[3])

	buf.Reset()
	require.NoError(t, cf.Filter(&buf, domain.FilterResult{
		Valid: []domain.FilteredTransaction{{Date: "2023-07-01 21:59:00", Amount: d("620"), Ceiling: d("700"), Remanent: d("0"), InKPeriod: true}},
	}))
	lines = strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "valid,2023-07-01 21:59:00,620.00,700.00,0.00,true,", lines[1])

	buf.Reset()
	require.NoError(t, cf.Returns(&buf, sampleReport()))
	lines = strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "strategy,start,end,amount,profit,tax_benefit", lines[0])
	assert.Equal(t, "nps,2023-01-01 00:00:00,2023-12-31 23:59:59,145.00,86.88,0.00", lines[1])
}

func TestCSVFormatter_Delimiter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&CSVFormatter{Delimiter: ';'}).Transactions(&buf, sampleTransactions()[:1]))
	assert.True(t, strings.HasPrefix(buf.String(), "date;amount;ceiling;remanent\n"))
}
