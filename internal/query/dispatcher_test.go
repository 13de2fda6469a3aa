package query

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"insights-chat/internal/dataset"
	"insights-chat/internal/models"
)

func TestDispatcher_Match(t *testing.T) {
	d := NewDispatcher(dataset.Sample())

	tests := []struct {
		query string
		want  string
	}{
		{"Show me revenue by region", RouteRevenueByRegion},
		{"REVENUE for each REGION please", RouteRevenueByRegion},
		{"which region brings the most revenue?", RouteRevenueByRegion},
		{"What is our revenue trend by month?", RouteRevenueOverTime},
		{"How has our revenue trended over time?", RouteRevenueOverTime},
		{"monthly revenue", RouteRevenueOverTime},
		{"What's the distribution of customers by region?", RouteCustomersByRegion},
		{"revenue per customer", RouteRevenuePerCustomer},
		// "region" wins before the per-customer rule is reached
		{"What's our revenue per customer by region?", RouteRevenueByRegion},
		{"Show me growth analysis from January to May", RouteGrowthAnalysis},
		{"what is the trend?", RouteGrowthAnalysis},
		{"compare month to month", RouteGrowthAnalysis},
		{"customers over time", RouteFallback},
		{"compare regions", RouteFallback},
		{"asdf qwerty", RouteFallback},
		{"", RouteFallback},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			assert.Equal(t, tt.want, d.Match(tt.query))
		})
	}
}

func TestDispatcher_RulesOrder(t *testing.T) {
	d := NewDispatcher(dataset.Sample())

	assert.Equal(t, []string{
		RouteRevenueByRegion,
		RouteRevenueOverTime,
		RouteCustomersByRegion,
		RouteRevenuePerCustomer,
		RouteGrowthAnalysis,
	}, d.Rules())
}

func TestDispatcher_RevenueAndRegionAlwaysRoutesToRegionBreakdown(t *testing.T) {
	d := NewDispatcher(dataset.Sample())

	queries := []string{
		"revenue region",
		"Region REVENUE",
		"what was the growth in revenue per region over time?",
		"xxrevenuexx yyregionyy",
	}

	for _, q := range queries {
		resp := d.Dispatch(q)

		assert.Equal(t, models.ChartBar, resp.Chart, q)
		if assert.NotNil(t, resp.Table, q) {
			assert.Equal(t, []string{"Region", "Total Revenue"}, resp.Table.Headers, q)
			assert.Len(t, resp.Table.Rows, 4, q)
		}
		assert.ElementsMatch(t, []string{"North", "South", "East", "West"}, labels(resp.Series), q)
	}
}

func TestDispatcher_Fallback(t *testing.T) {
	d := NewDispatcher(dataset.Sample())

	resp := d.Dispatch("asdf qwerty")

	assert.Equal(t, FallbackAnswer, resp.Answer)
	assert.Equal(t, FallbackError, resp.Error)
	assert.True(t, resp.Failed())
	assert.Nil(t, resp.Series)
	assert.Nil(t, resp.Table)
	assert.Empty(t, resp.Chart)
	assert.False(t, resp.HasChart())
}

func TestDispatcher_TrendPriority(t *testing.T) {
	d := NewDispatcher(dataset.Sample())

	resp := d.Dispatch("What is our revenue trend by month?")

	assert.Equal(t, RouteRevenueOverTime, resp.Route)
	assert.Equal(t, models.ChartLine, resp.Chart)
}

func TestDispatcher_CustomRules(t *testing.T) {
	called := false
	d := NewDispatcherWithRules(dataset.Sample(), []Rule{{
		Name:    "area_demo",
		Matches: allOf("area"),
		Run: func(ds *dataset.Dataset) models.QueryResponse {
			called = true
			return models.QueryResponse{Answer: "ok", Chart: models.ChartArea, Route: "area_demo"}
		},
	}})

	assert.Equal(t, RouteFallback, d.Match("revenue by region"))

	resp := d.Dispatch("AREA chart")
	assert.True(t, called)
	assert.Equal(t, models.ChartArea, resp.Chart)
}

func TestDispatcher_SubstituteDataset(t *testing.T) {
	ds := dataset.New([]models.DataRecord{
		{Period: "Q1", Revenue: 10, Customers: 1, Region: "Mars"},
		{Period: "Q1", Revenue: 30, Customers: 1, Region: "Venus"},
	})
	d := NewDispatcher(ds)

	resp := d.Dispatch("revenue by region")

	assert.Contains(t, resp.Answer, "The Venus region has the highest total revenue at $30.")
	assert.Len(t, resp.Table.Rows, 2)
}
