// Package output renders engine results as console tables, JSON or CSV.
package output

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/rgehrsitz/roundup/internal/domain"
	"github.com/shopspring/decimal"
)

// Formatter renders each kind of engine result
type Formatter interface {
	Name() string
	Transactions(w io.Writer, txns []domain.Transaction) error
	Validation(w io.Writer, result domain.ValidationResult) error
	Filter(w io.Writer, result domain.FilterResult) error
	Returns(w io.Writer, report *domain.ReturnsReport) error
}

var formatters = map[string]func() Formatter{
	"table": func() Formatter { return &TableFormatter{} },
	"json":  func() Formatter { return &JSONFormatter{Pretty: true} },
	"csv":   func() Formatter { return &CSVFormatter{} },
}

// Formats returns the supported output format names
func Formats() []string {
	names := make([]string, 0, len(formatters))
	for name := range formatters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewFormatter returns the formatter registered under name
func NewFormatter(name string) (Formatter, error) {
	factory, ok := formatters[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("unsupported format: %s (available: %s)", name, strings.Join(Formats(), ", "))
	}
	return factory(), nil
}

// FormatAmount formats a monetary amount with two decimals
func FormatAmount(amount decimal.Decimal) string {
	return amount.StringFixed(2)
}

func optionalAmount(amount *decimal.Decimal) string {
	if amount == nil {
		return ""
	}
	return FormatAmount(*amount)
}
