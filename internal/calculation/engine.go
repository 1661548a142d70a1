package calculation

import (
	"context"
	"fmt"

	"github.com/rgehrsitz/roundup/internal/domain"
	"github.com/rgehrsitz/roundup/internal/logging"
	"github.com/rgehrsitz/roundup/internal/strategy"
	"github.com/shopspring/decimal"
)

// CalculationEngine orchestrates the round-up pipeline:
// enrich → validate → Q → P → group → project
type CalculationEngine struct {
	Rules     domain.Rules
	Registry  *strategy.Registry
	Enricher  *Enricher
	Projector *ReturnsProjector
	Logger    logging.Logger
	Workers   int // upper bound on goroutines used for K grouping
}

// NewCalculationEngine creates an engine with the default rules
func NewCalculationEngine() *CalculationEngine {
	return NewCalculationEngineWithRules(domain.DefaultRules())
}

// NewCalculationEngineWithRules creates an engine with configurable rules
func NewCalculationEngineWithRules(rules domain.Rules) *CalculationEngine {
	return &CalculationEngine{
		Rules:     rules,
		Registry:  strategy.NewRegistry(rules),
		Enricher:  NewEnricher(rules.CeilingMultiple),
		Projector: NewReturnsProjector(rules),
		Logger:    logging.NopLogger{},
		Workers:   1,
	}
}

// SetLogger sets the logger for the calculation engine
func (ce *CalculationEngine) SetLogger(logger logging.Logger) {
	if logger == nil {
		ce.Logger = logging.NopLogger{}
	} else {
		ce.Logger = logger
	}
}

// SetWorkers bounds the concurrency of K grouping; values below 1 mean sequential
func (ce *CalculationEngine) SetWorkers(workers int) {
	if workers < 1 {
		workers = 1
	}
	ce.Workers = workers
}

// Parse enriches raw expenses with ceiling and remanent
func (ce *CalculationEngine) Parse(expenses []domain.Expense) []domain.Transaction {
	transactions := ce.Enricher.EnrichAll(expenses)
	ce.Logger.Debug("parsed expenses",
		logging.F(logging.FieldOperation, "parse"),
		logging.F(logging.FieldCount, len(transactions)))
	return transactions
}

// Validate splits already-enriched transactions into valid and invalid sets
func (ce *CalculationEngine) Validate(transactions []domain.Transaction) domain.ValidationResult {
	result := Validate(transactions)
	ce.Logger.Info("validation complete",
		logging.F(logging.FieldOperation, "validate"),
		logging.F(logging.FieldValid, len(result.Valid)),
		logging.F(logging.FieldInvalid, len(result.Invalid)))
	return result
}

// run is the shared front half of Filter and Returns: parse, validate, then Q and P
func (ce *CalculationEngine) run(expenses []domain.Expense, q []domain.QPeriod, p []domain.PPeriod) ([]domain.Transaction, []domain.InvalidTransaction, error) {
	validation := ce.Validate(ce.Parse(expenses))

	adjusted, err := ApplyPeriods(validation.Valid, q, p)
	if err != nil {
		return nil, nil, fmt.Errorf("applying periods: %w", err)
	}
	ce.Logger.Debug("applied period rules",
		logging.F(logging.FieldPeriods, len(q)+len(p)),
		logging.F(logging.FieldCount, len(adjusted)))
	return adjusted, validation.Invalid, nil
}

// Filter runs the full temporal pipeline and tags each valid transaction with K membership
func (ce *CalculationEngine) Filter(req domain.FilterRequest) (domain.FilterResult, error) {
	adjusted, invalid, err := ce.run(req.Transactions, req.Q, req.P)
	if err != nil {
		return domain.FilterResult{}, err
	}

	filtered, err := MarkMembership(adjusted, req.K)
	if err != nil {
		return domain.FilterResult{}, fmt.Errorf("marking k membership: %w", err)
	}
	return domain.FilterResult{Valid: filtered, Invalid: invalid}, nil
}

// Returns projects savings for every K period under the named strategy
func (ce *CalculationEngine) Returns(ctx context.Context, strategyID string, req domain.ReturnsRequest) (*domain.ReturnsReport, error) {
	s, err := ce.Registry.Get(strategyID)
	if err != nil {
		return nil, err
	}

	adjusted, _, err := ce.run(req.Transactions, req.Q, req.P)
	if err != nil {
		return nil, err
	}

	totalAmount := decimal.Zero
	totalCeiling := decimal.Zero
	for _, txn := range adjusted {
		totalAmount = totalAmount.Add(txn.Amount)
		totalCeiling = totalCeiling.Add(txn.Ceiling)
	}

	sums, err := GroupByKConcurrent(ctx, adjusted, req.K, ce.Workers)
	if err != nil {
		return nil, fmt.Errorf("grouping by k: %w", err)
	}

	savings := ce.Projector.Project(sums, s, req.Age, req.Inflation, req.AnnualIncome())
	ce.Logger.Info("returns projected",
		logging.F(logging.FieldOperation, "returns"),
		logging.F(logging.FieldStrategy, s.ID()),
		logging.F(logging.FieldRate, s.AnnualRate().String()),
		logging.F(logging.FieldYears, ce.Projector.InvestmentYears(req.Age)),
		logging.F(logging.FieldPeriods, len(sums)))

	report := &domain.ReturnsReport{
		Strategy:               s.ID(),
		TotalTransactionAmount: totalAmount,
		TotalCeiling:           totalCeiling,
		SavingsByDates:         savings,
	}
	if rater, ok := s.(strategy.MarginalRater); ok {
		rate := rater.MarginalRate(req.AnnualIncome())
		report.MarginalTaxRate = &rate
	}
	return report, nil
}
