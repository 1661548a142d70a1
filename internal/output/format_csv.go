package output

import (
	"encoding/csv"
	"io"

	"github.com/gocarina/gocsv"
	"github.com/rgehrsitz/roundup/internal/domain"
)

type transactionRow struct {
	Date     string `csv:"date"`
	Amount   string `csv:"amount"`
	Ceiling  string `csv:"ceiling"`
	Remanent string `csv:"remanent"`
}

type validationRow struct {
	Status   string `csv:"status"`
	Date     string `csv:"date"`
	Amount   string `csv:"amount"`
	Ceiling  string `csv:"ceiling"`
	Remanent string `csv:"remanent"`
	Message  string `csv:"message"`
}

type filterRow struct {
	Status    string `csv:"status"`
	Date      string `csv:"date"`
	Amount    string `csv:"amount"`
	Ceiling   string `csv:"ceiling"`
	Remanent  string `csv:"remanent"`
	InKPeriod bool   `csv:"in_k_period"`
	Message   string `csv:"message"`
}

type savingsRow struct {
	Strategy   string `csv:"strategy"`
	Start      string `csv:"start"`
	End        string `csv:"end"`
	Amount     string `csv:"amount"`
	Profit     string `csv:"profit"`
	TaxBenefit string `csv:"tax_benefit"`
}

// CSVFormatter formats results as CSV, one row per record
type CSVFormatter struct {
	Delimiter rune // defaults to ','
}

func (cf *CSVFormatter) Name() string { return "csv" }

func (cf *CSVFormatter) marshal(w io.Writer, rows interface{}) error {
	writer := csv.NewWriter(w)
	if cf.Delimiter != 0 {
		writer.Comma = cf.Delimiter
	}
	return gocsv.MarshalCSV(rows, gocsv.NewSafeCSVWriter(writer))
}

func (cf *CSVFormatter) Transactions(w io.Writer, txns []domain.Transaction) error {
	rows := make([]transactionRow, 0, len(txns))
	for _, t := range txns {
		rows = append(rows, transactionRow{
			Date:     t.Date,
			Amount:   FormatAmount(t.Amount),
			Ceiling:  FormatAmount(t.Ceiling),
			Remanent: FormatAmount(t.Remanent),
		})
	}
	return cf.marshal(w, rows)
}

func (cf *CSVFormatter) Validation(w io.Writer, result domain.ValidationResult) error {
	rows := make([]validationRow, 0, len(result.Valid)+len(result.Invalid))
	for _, t := range result.Valid {
		rows = append(rows, validationRow{
			Status:   "valid",
			Date:     t.Date,
			Amount:   FormatAmount(t.Amount),
			Ceiling:  FormatAmount(t.Ceiling),
			Remanent: FormatAmount(t.Remanent),
		})
	}
	for _, t := range result.Invalid {
		rows = append(rows, validationRow{
			Status:   "invalid",
			Date:     t.Date,
			Amount:   FormatAmount(t.Amount),
			Ceiling:  optionalAmount(t.Ceiling),
			Remanent: optionalAmount(t.Remanent),
			Message:  t.Message,
		})
	}
	return cf.marshal(w, rows)
}

func (cf *CSVFormatter) Filter(w io.Writer, result domain.FilterResult) error {
	rows := make([]filterRow, 0, len(result.Valid)+len(result.Invalid))
	for _, t := range result.Valid {
		rows = append(rows, filterRow{
			Status:    "valid",
			Date:      t.Date,
			Amount:    FormatAmount(t.Amount),
			Ceiling:   FormatAmount(t.Ceiling),
			Remanent:  FormatAmount(t.Remanent),
			InKPeriod: t.InKPeriod,
		})
	}
	for _, t := range result.Invalid {
		rows = append(rows, filterRow{
			Status:   "invalid",
			Date:     t.Date,
			Amount:   FormatAmount(t.Amount),
			Ceiling:  optionalAmount(t.Ceiling),
			Remanent: optionalAmount(t.Remanent),
			Message:  t.Message,
		})
	}
	return cf.marshal(w, rows)
}

func (cf *CSVFormatter) Returns(w io.Writer, report *domain.ReturnsReport) error {
	rows := make([]savingsRow, 0, len(report.SavingsByDates))
	for _, s := range report.SavingsByDates {
		rows = append(rows, savingsRow{
			Strategy:   report.Strategy,
			Start:      s.Start,
			End:        s.End,
			Amount:     FormatAmount(s.Amount),
			Profit:     FormatAmount(s.Profit),
			TaxBenefit: FormatAmount(s.TaxBenefit),
		})
	}
	return cf.marshal(w, rows)
}
