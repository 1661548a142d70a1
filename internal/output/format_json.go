package output

import (
	"encoding/json"
	"io"

	"github.com/rgehrsitz/roundup/internal/domain"
)

// JSONFormatter formats results with the same shapes the HTTP API returns
type JSONFormatter struct {
	Pretty bool // If true, format with indentation
}

func (jf *JSONFormatter) Name() string { return "json" }

func (jf *JSONFormatter) encode(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	if jf.Pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}

func (jf *JSONFormatter) Transactions(w io.Writer, txns []domain.Transaction) error {
	if txns == nil {
		txns = []domain.Transaction{}
	}
	return jf.encode(w, txns)
}

func (jf *JSONFormatter) Validation(w io.Writer, result domain.ValidationResult) error {
	return jf.encode(w, result)
}

func (jf *JSONFormatter) Filter(w io.Writer, result domain.FilterResult) error {
	return jf.encode(w, result)
}

func (jf *JSONFormatter) Returns(w io.Writer, report *domain.ReturnsReport) error {
	return jf.encode(w, report)
}
