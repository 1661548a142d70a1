// Package importer reads raw expenses from CSV exports.
package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/rgehrsitz/roundup/internal/domain"
	"github.com/rgehrsitz/roundup/internal/logging"
	"github.com/shopspring/decimal"
)

// expenseRow maps the CSV columns; amounts stay strings until validated
type expenseRow struct {
	Date   string `csv:"date"`
	Amount string `csv:"amount"`
}

// ParseError reports a CSV cell that could not be converted
type ParseError struct {
	Row   int
	Field string
	Value string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("row %d: failed to parse %s='%s': %v", e.Row, e.Field, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// CSVImporter reads "date,amount" files into expenses
type CSVImporter struct {
	Delimiter rune
	logger    logging.Logger
}

// NewCSVImporter creates an importer for comma separated files
func NewCSVImporter(logger logging.Logger) *CSVImporter {
	if logger == nil {
		logger = logging.NopLogger{}
	}
	return &CSVImporter{Delimiter: ',', logger: logger}
}

// ReadFile reads expenses from a CSV file
func (ci *CSVImporter) ReadFile(path string) ([]domain.Expense, error) {
	log := ci.logger.WithField(logging.FieldInputFile, path)
	log.Info("Reading expense CSV")

	file, err := os.Open(path)
	if err != nil {
		log.WithError(err).Error("Failed to open CSV file")
		return nil, fmt.Errorf("error opening CSV file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			log.WithError(err).Warn("Failed to close file")
		}
	}()

	return ci.Read(file)
}

// Read reads expenses from r. The header row must name the date and amount columns.
func (ci *CSVImporter) Read(r io.Reader) ([]domain.Expense, error) {
	reader := csv.NewReader(r)
	reader.Comma = ci.Delimiter
	reader.TrimLeadingSpace = true

	var rows []expenseRow
	if err := gocsv.UnmarshalCSV(reader, &rows); err != nil {
		return nil, fmt.Errorf("error parsing CSV data: %w", err)
	}

	expenses := make([]domain.Expense, 0, len(rows))
	for i, row := range rows {
		// Row numbers are 1-based and skip the header.
		line := i + 2
		date := strings.TrimSpace(row.Date)
		if date == "" {
			return nil, &ParseError{Row: line, Field: "date", Value: row.Date, Err: fmt.Errorf("empty value")}
		}
		if _, err := domain.ParseTimestamp("date", date); err != nil {
			return nil, &ParseError{Row: line, Field: "date", Value: row.Date, Err: err}
		}
		amount, err := decimal.NewFromString(strings.TrimSpace(row.Amount))
		if err != nil {
			return nil, &ParseError{Row: line, Field: "amount", Value: row.Amount, Err: err}
		}
		expenses = append(expenses, domain.Expense{Date: date, Amount: amount})
	}

	ci.logger.Info("Successfully read expenses", logging.F(logging.FieldCount, len(expenses)))
	return expenses, nil
}
