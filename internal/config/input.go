package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/rgehrsitz/roundup/internal/domain"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// InputParser handles parsing of request files. JSON is accepted too since
// it is a subset of YAML.
type InputParser struct{}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	return &InputParser{}
}

func (ip *InputParser) decodeFile(filename string, out interface{}) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse %s: %w", filename, err)
	}
	return nil
}

// LoadExpenses loads a bare list of expenses
func (ip *InputParser) LoadExpenses(filename string) ([]domain.Expense, error) {
	var expenses []domain.Expense
	if err := ip.decodeFile(filename, &expenses); err != nil {
		return nil, err
	}
	if err := ip.validateExpenses(expenses); err != nil {
		return nil, fmt.Errorf("input validation failed: %w", err)
	}
	return expenses, nil
}

// LoadValidatorRequest loads already-enriched transactions plus wage
func (ip *InputParser) LoadValidatorRequest(filename string) (*domain.ValidatorRequest, error) {
	var req domain.ValidatorRequest
	if err := ip.decodeFile(filename, &req); err != nil {
		return nil, err
	}
	if err := ip.ValidateValidatorRequest(&req); err != nil {
		return nil, fmt.Errorf("input validation failed: %w", err)
	}
	return &req, nil
}

// LoadFilterRequest loads a filter request
func (ip *InputParser) LoadFilterRequest(filename string) (*domain.FilterRequest, error) {
	var req domain.FilterRequest
	if err := ip.decodeFile(filename, &req); err != nil {
		return nil, err
	}
	if err := ip.ValidateFilterRequest(&req); err != nil {
		return nil, fmt.Errorf("input validation failed: %w", err)
	}
	return &req, nil
}

// LoadReturnsRequest loads a returns request
func (ip *InputParser) LoadReturnsRequest(filename string) (*domain.ReturnsRequest, error) {
	var req domain.ReturnsRequest
	if err := ip.decodeFile(filename, &req); err != nil {
		return nil, err
	}
	if err := ip.ValidateReturnsRequest(&req); err != nil {
		return nil, fmt.Errorf("input validation failed: %w", err)
	}
	return &req, nil
}

// ValidateValidatorRequest checks wage and transaction dates
func (ip *InputParser) ValidateValidatorRequest(req *domain.ValidatorRequest) error {
	if err := validateNonNegative("wage", req.Wage); err != nil {
		return err
	}
	for i, t := range req.Transactions {
		if strings.TrimSpace(t.Date) == "" {
			return &ValidationError{Field: fmt.Sprintf("transactions[%d].date", i), Message: "is required"}
		}
	}
	return nil
}

// ValidateFilterRequest checks wage, periods and expenses
func (ip *InputParser) ValidateFilterRequest(req *domain.FilterRequest) error {
	if err := validateNonNegative("wage", req.Wage); err != nil {
		return err
	}
	if err := ip.validatePeriods(req.Q, req.P, req.K); err != nil {
		return err
	}
	return ip.validateExpenses(req.Transactions)
}

// ValidateReturnsRequest checks age, wage, inflation, periods and expenses
func (ip *InputParser) ValidateReturnsRequest(req *domain.ReturnsRequest) error {
	if req.Age < 0 {
		return &ValidationError{Field: "age", Message: fmt.Sprintf("cannot be negative, got %d", req.Age)}
	}
	if err := validateNonNegative("wage", req.Wage); err != nil {
		return err
	}
	if err := validateNonNegative("inflation", req.Inflation); err != nil {
		return err
	}
	if err := ip.validatePeriods(req.Q, req.P, req.K); err != nil {
		return err
	}
	return ip.validateExpenses(req.Transactions)
}

func (ip *InputParser) validateExpenses(expenses []domain.Expense) error {
	for i, e := range expenses {
		if strings.TrimSpace(e.Date) == "" {
			return &ValidationError{Field: fmt.Sprintf("transactions[%d].date", i), Message: "is required"}
		}
	}
	return nil
}

func (ip *InputParser) validatePeriods(q []domain.QPeriod, p []domain.PPeriod, k []domain.KPeriod) error {
	check := func(kind string, i int, period domain.Period) error {
		if strings.TrimSpace(period.Start) == "" || strings.TrimSpace(period.End) == "" {
			return &ValidationError{Field: fmt.Sprintf("%s[%d]", kind, i), Message: "start and end are required"}
		}
		return nil
	}
	for i, period := range q {
		if err := check("q", i, period.Period); err != nil {
			return err
		}
	}
	for i, period := range p {
		if err := check("p", i, period.Period); err != nil {
			return err
		}
	}
	for i, period := range k {
		if err := check("k", i, period.Period); err != nil {
			return err
		}
	}
	return nil
}

func validateNonNegative(field string, value decimal.Decimal) error {
	if value.LessThan(decimal.Zero) {
		return &ValidationError{Field: field, Message: fmt.Sprintf("cannot be negative, got %s", value)}
	}
	return nil
}

// LoadRules overlays a YAML rules file on the default rules. Keys absent from
// the file keep their default values; a tax_slabs list replaces the whole table.
func LoadRules(filename string) (*domain.Rules, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read rules file %s: %w", filename, err)
	}

	rules := domain.DefaultRules()
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return nil, fmt.Errorf("failed to parse rules file %s: %w", filename, err)
	}
	if err := rules.Validate(); err != nil {
		return nil, &ValidationError{Field: "rules", Message: err.Error()}
	}
	return &rules, nil
}
