package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/rgehrsitz/roundup/internal/domain"
	"github.com/shopspring/decimal"
)

const (
	dateWidth   = 19
	amountWidth = 12
	lineWidth   = 80
)

// TableFormatter formats results as console tables
type TableFormatter struct{}

func (tf *TableFormatter) Name() string { return "table" }

func (tf *TableFormatter) Transactions(w io.Writer, txns []domain.Transaction) error {
	var sb strings.Builder
	sb.WriteString("TRANSACTIONS\n")
	sb.WriteString(strings.Repeat("=", lineWidth) + "\n")
	tf.transactionHeader(&sb)
	for _, t := range txns {
		tf.transactionRow(&sb, t.Date, FormatAmount(t.Amount), FormatAmount(t.Ceiling), FormatAmount(t.Remanent), "")
	}
	sb.WriteString(strings.Repeat("=", lineWidth) + "\n")
	sb.WriteString(fmt.Sprintf("%d transaction(s)\n", len(txns)))
	_, err := io.WriteString(w, sb.String())
	return err
}

func (tf *TableFormatter) Validation(w io.Writer, result domain.ValidationResult) error {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("VALID (%d)\n", len(result.Valid)))
	sb.WriteString(strings.Repeat("=", lineWidth) + "\n")
	tf.transactionHeader(&sb)
	for _, t := range result.Valid {
		tf.transactionRow(&sb, t.Date, FormatAmount(t.Amount), FormatAmount(t.Ceiling), FormatAmount(t.Remanent), "")
	}
	sb.WriteString("\n")
	tf.invalidSection(&sb, result.Invalid)
	_, err := io.WriteString(w, sb.String())
	return err
}

func (tf *TableFormatter) Filter(w io.Writer, result domain.FilterResult) error {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("VALID (%d)\n", len(result.Valid)))
	sb.WriteString(strings.Repeat("=", lineWidth) + "\n")
	tf.transactionHeader(&sb)
	for _, t := range result.Valid {
		marker := ""
		if t.InKPeriod {
			marker = "in k"
		}
		tf.transactionRow(&sb, t.Date, FormatAmount(t.Amount), FormatAmount(t.Ceiling), FormatAmount(t.Remanent), marker)
	}
	sb.WriteString("\n")
	tf.invalidSection(&sb, result.Invalid)
	_, err := io.WriteString(w, sb.String())
	return err
}

func (tf *TableFormatter) Returns(w io.Writer, report *domain.ReturnsReport) error {
	var sb strings.Builder
	title := "RETURNS PROJECTION"
	if report.Strategy != "" {
		title += " (" + strings.ToUpper(report.Strategy) + ")"
	}
	sb.WriteString(title + "\n")
	sb.WriteString(strings.Repeat("=", lineWidth) + "\n")
	sb.WriteString(fmt.Sprintf("Total Transaction Amount: %s\n", FormatAmount(report.TotalTransactionAmount)))
	sb.WriteString(fmt.Sprintf("Total Ceiling:            %s\n", FormatAmount(report.TotalCeiling)))
	if report.MarginalTaxRate != nil {
		sb.WriteString(fmt.Sprintf("Marginal Tax Rate:        %s%%\n", FormatAmount(report.MarginalTaxRate.Mul(decimal.NewFromInt(100)))))
	}
	sb.WriteString("\n")

	sb.WriteString(fmt.Sprintf("%-*s %-*s %*s %*s %*s\n",
		dateWidth, "Start",
		dateWidth, "End",
		amountWidth, "Invested",
		amountWidth, "Profit",
		amountWidth, "Tax Benefit"))
	sb.WriteString(strings.Repeat("-", lineWidth) + "\n")
	for _, s := range report.SavingsByDates {
		sb.WriteString(fmt.Sprintf("%-*s %-*s %*s %*s %*s\n",
			dateWidth, s.Start,
			dateWidth, s.End,
			amountWidth, FormatAmount(s.Amount),
			amountWidth, FormatAmount(s.Profit),
			amountWidth, FormatAmount(s.TaxBenefit)))
	}
	sb.WriteString(strings.Repeat("=", lineWidth) + "\n")
	_, err := io.WriteString(w, sb.String())
	return err
}

func (tf *TableFormatter) transactionHeader(sb *strings.Builder) {
	sb.WriteString(fmt.Sprintf("%-*s %*s %*s %*s %s\n",
		dateWidth, "Date",
		amountWidth, "Amount",
		amountWidth, "Ceiling",
		amountWidth, "Remanent",
		""))
	sb.WriteString(strings.Repeat("-", lineWidth) + "\n")
}

func (tf *TableFormatter) transactionRow(sb *strings.Builder, date, amount, ceiling, remanent, note string) {
	line := fmt.Sprintf("%-*s %*s %*s %*s %s", dateWidth, date, amountWidth, amount, amountWidth, ceiling, amountWidth, remanent, note)
	sb.WriteString(strings.TrimRight(line, " ") + "\n")
}

func (tf *TableFormatter) invalidSection(sb *strings.Builder, invalid []domain.InvalidTransaction) {
	sb.WriteString(fmt.Sprintf("INVALID (%d)\n", len(invalid)))
	sb.WriteString(strings.Repeat("=", lineWidth) + "\n")
	for _, t := range invalid {
		sb.WriteString(fmt.Sprintf("%-*s %*s  %s\n", dateWidth, t.Date, amountWidth, FormatAmount(t.Amount), t.Message))
	}
}
