package query

import (
	"cmp"
	"fmt"
	"slices"

	"insights-chat/internal/dataset"
	"insights-chat/internal/models"
)

const (
	RouteRevenueByRegion    = "revenue_by_region"
	RouteRevenueOverTime    = "revenue_over_time"
	RouteCustomersByRegion  = "customers_by_region"
	RouteRevenuePerCustomer = "revenue_per_customer"
	RouteGrowthAnalysis     = "growth_analysis"
	RouteFallback           = "fallback"
)

const (
	FallbackAnswer = "I couldn't find specific data matching your query. Please try rephrasing your question or asking about revenue by region, revenue trends over time, customers by region, revenue per customer, or growth analysis."
	FallbackError  = "No matching data pattern found"

	noDataAnswer = "I couldn't find any records to analyze for that question."
	noDataError  = "No data available for this query"

	allRegions = "All"
)

// Routine computes one canned analysis over a dataset.
type Routine func(ds *dataset.Dataset) models.QueryResponse

type regionTotals struct {
	region    string
	revenue   float64
	customers int
}

// totalsByRegion sums every region in first-appearance order.
func totalsByRegion(ds *dataset.Dataset) []regionTotals {
	regions := ds.Regions()
	totals := make([]regionTotals, 0, len(regions))
	for _, region := range regions {
		t := regionTotals{region: region}
		for _, rec := range ds.ByRegion(region) {
			t.revenue += rec.Revenue
			t.customers += rec.Customers
		}
		totals = append(totals, t)
	}
	return totals
}

// RevenueByRegion sums revenue per region, sorted highest first.
func RevenueByRegion(ds *dataset.Dataset) models.QueryResponse {
	totals := totalsByRegion(ds)
	if len(totals) == 0 {
		return noData(RouteRevenueByRegion)
	}

	slices.SortStableFunc(totals, func(a, b regionTotals) int {
		return cmp.Compare(b.revenue, a.revenue)
	})

	series := make([]models.AggregatedPoint, 0, len(totals))
	rows := make([][]any, 0, len(totals))
	for _, t := range totals {
		series = append(series, models.AggregatedPoint{
			Label:   t.region,
			Revenue: t.revenue,
			Region:  t.region,
		})
		rows = append(rows, []any{t.region, FormatCurrency(t.revenue)})
	}

	top := totals[0]
	return models.QueryResponse{
		Answer: fmt.Sprintf("Here's the revenue breakdown by region. The %s region has the highest total revenue at %s.",
			top.region, FormatCurrency(top.revenue)),
		Series: series,
		Chart:  models.ChartBar,
		Table: &models.TableView{
			Headers: []string{"Region", "Total Revenue"},
			Rows:    rows,
		},
		Route: RouteRevenueByRegion,
	}
}

// RevenueOverTime sums revenue and customers per period across all regions.
// The series stays in period order so it can be drawn as a line.
func RevenueOverTime(ds *dataset.Dataset) models.QueryResponse {
	periods := ds.Periods()
	if len(periods) == 0 {
		return noData(RouteRevenueOverTime)
	}

	series := make([]models.AggregatedPoint, 0, len(periods))
	rows := make([][]any, 0, len(periods))
	for _, period := range periods {
		var revenue float64
		var customers int
		for _, rec := range ds.ByPeriod(period) {
			revenue += rec.Revenue
			customers += rec.Customers
		}
		series = append(series, models.AggregatedPoint{
			Label:     period,
			Revenue:   revenue,
			Customers: float64(customers),
			Region:    allRegions,
		})
		rows = append(rows, []any{period, FormatCurrency(revenue), customers})
	}

	direction := "a downward"
	if series[0].Revenue < series[len(series)-1].Revenue {
		direction = "an upward"
	}

	peak := series[0]
	for _, p := range series[1:] {
		if p.Revenue > peak.Revenue {
			peak = p
		}
	}

	return models.QueryResponse{
		Answer: fmt.Sprintf("Revenue is showing %s trend over time. The highest revenue was in %s at %s.",
			direction, peak.Label, FormatCurrency(peak.Revenue)),
		Series: series,
		Chart:  models.ChartLine,
		Table: &models.TableView{
			Headers: []string{"Month", "Total Revenue", "Total Customers"},
			Rows:    rows,
		},
		Route: RouteRevenueOverTime,
	}
}

// CustomersByRegion sums customers per region, sorted highest first.
func CustomersByRegion(ds *dataset.Dataset) models.QueryResponse {
	totals := totalsByRegion(ds)
	if len(totals) == 0 {
		return noData(RouteCustomersByRegion)
	}

	slices.SortStableFunc(totals, func(a, b regionTotals) int {
		return cmp.Compare(b.customers, a.customers)
	})

	series := make([]models.AggregatedPoint, 0, len(totals))
	rows := make([][]any, 0, len(totals))
	for _, t := range totals {
		series = append(series, models.AggregatedPoint{
			Label:     t.region,
			Customers: float64(t.customers),
			Region:    t.region,
		})
		rows = append(rows, []any{t.region, t.customers})
	}

	top := totals[0]
	return models.QueryResponse{
		Answer: fmt.Sprintf("Customer distribution varies by region. The %s region has the highest number of customers at %s.",
			top.region, FormatCount(top.customers)),
		Series: series,
		Chart:  models.ChartPie,
		Table: &models.TableView{
			Headers: []string{"Region", "Total Customers"},
			Rows:    rows,
		},
		Route: RouteCustomersByRegion,
	}
}

// RevenuePerCustomer divides total revenue by total customers per region.
// A region with zero customers yields +Inf (or NaN with zero revenue) and
// that value is carried into the answer and table as is.
func RevenuePerCustomer(ds *dataset.Dataset) models.QueryResponse {
	totals := totalsByRegion(ds)
	if len(totals) == 0 {
		return noData(RouteRevenuePerCustomer)
	}

	type ratio struct {
		regionTotals
		perCustomer float64
	}

	ratios := make([]ratio, 0, len(totals))
	for _, t := range totals {
		ratios = append(ratios, ratio{
			regionTotals: t,
			perCustomer:  t.revenue / float64(t.customers),
		})
	}

	slices.SortStableFunc(ratios, func(a, b ratio) int {
		return cmp.Compare(b.perCustomer, a.perCustomer)
	})

	series := make([]models.AggregatedPoint, 0, len(ratios))
	rows := make([][]any, 0, len(ratios))
	for _, r := range ratios {
		series = append(series, models.AggregatedPoint{
			Label:     r.region,
			Revenue:   r.perCustomer,
			Customers: float64(r.customers),
			Region:    r.region,
		})
		rows = append(rows, []any{r.region, FormatCurrency(r.perCustomer), r.customers})
	}

	top := ratios[0]
	return models.QueryResponse{
		Answer: fmt.Sprintf("Revenue per customer analysis shows that the %s region has the highest revenue per customer at %s.",
			top.region, FormatCurrency(top.perCustomer)),
		Series: series,
		Chart:  models.ChartBar,
		Table: &models.TableView{
			Headers: []string{"Region", "Revenue per Customer", "Total Customers"},
			Rows:    rows,
		},
		Route: RouteRevenuePerCustomer,
	}
}

// GrowthAnalysis compares each region's first and last period. Regions
// missing either endpoint are left out.
func GrowthAnalysis(ds *dataset.Dataset) models.QueryResponse {
	periods := ds.Periods()
	if len(periods) == 0 {
		return noData(RouteGrowthAnalysis)
	}
	firstPeriod, lastPeriod := periods[0], periods[len(periods)-1]

	type growth struct {
		region    string
		revenue   float64
		customers float64
	}

	var growths []growth
	for _, region := range ds.Regions() {
		first, ok := ds.Lookup(region, firstPeriod)
		if !ok {
			continue
		}
		last, ok := ds.Lookup(region, lastPeriod)
		if !ok {
			continue
		}

		growths = append(growths, growth{
			region:    region,
			revenue:   RoundTo2((last.Revenue - first.Revenue) / first.Revenue * 100),
			customers: RoundTo2(float64(last.Customers-first.Customers) / float64(first.Customers) * 100),
		})
	}
	if len(growths) == 0 {
		return noData(RouteGrowthAnalysis)
	}

	series := make([]models.AggregatedPoint, 0, len(growths))
	rows := make([][]any, 0, len(growths))
	topRevenue, topCustomers := growths[0], growths[0]
	for _, g := range growths {
		series = append(series, models.AggregatedPoint{
			Label:     g.region,
			Revenue:   g.revenue,
			Customers: g.customers,
			Region:    g.region,
		})
		rows = append(rows, []any{g.region, FormatPercent(g.revenue), FormatPercent(g.customers)})

		if g.revenue > topRevenue.revenue {
			topRevenue = g
		}
		if g.customers > topCustomers.customers {
			topCustomers = g
		}
	}

	return models.QueryResponse{
		Answer: fmt.Sprintf("Growth analysis from %s to %s shows that the %s region had the highest revenue growth at %s. For customer growth, the %s region led with %s increase.",
			periodName(firstPeriod), periodName(lastPeriod),
			topRevenue.region, FormatPercent(topRevenue.revenue),
			topCustomers.region, FormatPercent(topCustomers.customers)),
		Series: series,
		Chart:  models.ChartBar,
		Table: &models.TableView{
			Headers: []string{"Region", "Revenue Growth", "Customer Growth"},
			Rows:    rows,
		},
		Route: RouteGrowthAnalysis,
	}
}

func fallback() models.QueryResponse {
	return models.QueryResponse{
		Answer: FallbackAnswer,
		Error:  FallbackError,
		Route:  RouteFallback,
	}
}

func noData(route string) models.QueryResponse {
	return models.QueryResponse{
		Answer: noDataAnswer,
		Error:  noDataError,
		Route:  route,
	}
}

var monthNames = map[string]string{
	"Jan": "January",
	"Feb": "February",
	"Mar": "March",
	"Apr": "April",
	"May": "May",
	"Jun": "June",
	"Jul": "July",
	"Aug": "August",
	"Sep": "September",
	"Oct": "October",
	"Nov": "November",
	"Dec": "December",
}

func periodName(period string) string {
	if name, ok := monthNames[period]; ok {
		return name
	}
	return period
}
