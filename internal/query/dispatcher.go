package query

import (
	"strings"

	"insights-chat/internal/dataset"
	"insights-chat/internal/models"
)

// Rule pairs a keyword predicate with the routine it selects. Predicates
// receive the lowercased query.
type Rule struct {
	Name    string
	Matches func(q string) bool
	Run     Routine
}

// DefaultRules is the dispatch table in priority order. "trend" appears in
// both the revenue-over-time and growth rules, so the order matters.
var DefaultRules = []Rule{
	{
		Name:    RouteRevenueByRegion,
		Matches: allOf("revenue", "region"),
		Run:     RevenueByRegion,
	},
	{
		Name: RouteRevenueOverTime,
		Matches: func(q string) bool {
			return contains(q, "revenue") && anyOf("trend", "time", "month")(q)
		},
		Run: RevenueOverTime,
	},
	{
		Name:    RouteCustomersByRegion,
		Matches: allOf("customer", "region"),
		Run:     CustomersByRegion,
	},
	{
		Name:    RouteRevenuePerCustomer,
		Matches: allOf("revenue", "per", "customer"),
		Run:     RevenuePerCustomer,
	},
	{
		Name: RouteGrowthAnalysis,
		Matches: func(q string) bool {
			return anyOf("growth", "trend")(q) || allOf("compare", "month")(q)
		},
		Run: GrowthAnalysis,
	},
}

type Dispatcher struct {
	dataset *dataset.Dataset
	rules   []Rule
}

func NewDispatcher(ds *dataset.Dataset) *Dispatcher {
	return NewDispatcherWithRules(ds, DefaultRules)
}

func NewDispatcherWithRules(ds *dataset.Dataset, rules []Rule) *Dispatcher {
	return &Dispatcher{
		dataset: ds,
		rules:   append([]Rule(nil), rules...),
	}
}

func (d *Dispatcher) Dataset() *dataset.Dataset {
	return d.dataset
}

// Rules returns rule names in the order they are tried.
func (d *Dispatcher) Rules() []string {
	names := make([]string, 0, len(d.rules))
	for _, r := range d.rules {
		names = append(names, r.Name)
	}
	return names
}

// Match returns the name of the first rule the query satisfies, or
// RouteFallback.
func (d *Dispatcher) Match(query string) string {
	if rule, ok := d.match(query); ok {
		return rule.Name
	}
	return RouteFallback
}

// Dispatch answers the query with the first matching routine. It never
// fails: unmatched queries get the fallback response.
func (d *Dispatcher) Dispatch(query string) models.QueryResponse {
	rule, ok := d.match(query)
	if !ok {
		return fallback()
	}
	return rule.Run(d.dataset)
}

func (d *Dispatcher) match(query string) (Rule, bool) {
	q := strings.ToLower(query)
	for _, rule := range d.rules {
		if rule.Matches(q) {
			return rule, true
		}
	}
	return Rule{}, false
}

func contains(q, keyword string) bool {
	return strings.Contains(q, keyword)
}

func allOf(keywords ...string) func(string) bool {
	return func(q string) bool {
		for _, k := range keywords {
			if !contains(q, k) {
				return false
			}
		}
		return true
	}
}

func anyOf(keywords ...string) func(string) bool {
	return func(q string) bool {
		for _, k := range keywords {
			if contains(q, k) {
				return true
			}
		}
		return false
	}
}
