package strategy

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rgehrsitz/roundup/internal/domain"
)

// StrategyFactory creates a strategy from the configured rules
type StrategyFactory func(rules domain.Rules) InvestmentStrategy

// UnknownStrategyError is returned when an identifier has no registered strategy
type UnknownStrategyError struct {
	ID        string
	Available []string
}

func (e *UnknownStrategyError) Error() string {
	return fmt.Sprintf("unknown strategy '%s'. Available: %s", e.ID, strings.Join(e.Available, ", "))
}

// Registry maps strategy identifiers to factories.
// It is populated inside NewRegistry and never written afterwards, so lookups
// are safe from any number of goroutines without locking.
type Registry struct {
	rules     domain.Rules
	factories map[string]StrategyFactory
	ids       []string
}

// NewRegistry creates a registry with all built-in strategies registered.
func NewRegistry(rules domain.Rules) *Registry {
	return newRegistry(rules, map[string]StrategyFactory{
		IDNPS:   func(r domain.Rules) InvestmentStrategy { return NewNPSStrategy(r) },
		IDIndex: func(r domain.Rules) InvestmentStrategy { return NewIndexStrategy(r) },
	})
}

func newRegistry(rules domain.Rules, factories map[string]StrategyFactory) *Registry {
	registry := &Registry{
		rules:     rules,
		factories: make(map[string]StrategyFactory, len(factories)),
	}
	for id, factory := range factories {
		registry.factories[id] = factory
		registry.ids = append(registry.ids, id)
	}
	sort.Strings(registry.ids)
	return registry
}

// Get creates the strategy registered under id
func (r *Registry) Get(id string) (InvestmentStrategy, error) {
	factory, exists := r.factories[strings.ToLower(strings.TrimSpace(id))]
	if !exists {
		return nil, &UnknownStrategyError{ID: id, Available: r.Available()}
	}
	return factory(r.rules), nil
}

// Available returns the registered identifiers in sorted order
func (r *Registry) Available() []string {
	ids := make([]string, len(r.ids))
	copy(ids, r.ids)
	return ids
}
