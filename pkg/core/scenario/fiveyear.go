package scenario

import (
	"fmt"
	"math"
	"strings"
)

const (
	projectionYears = 5
	annualInflation = 0.03
)

// YearBucket is one year of the rolled-up cash-flow ledger
type YearBucket struct {
	Year            int     `json:"year"` // 1-based
	InflationFactor float64 `json:"inflation_factor"`
	Revenue         float64 `json:"revenue"`
	Cost            float64 `json:"cost"`
	Profit          float64 `json:"profit"`
	CashFlow        float64 `json:"cash_flow"`
	ROI             float64 `json:"roi"`
}

// FiveYearProjection is the yearly rollup with cumulative totals
type FiveYearProjection struct {
	ScenarioID         string       `json:"scenario_id"`
	Years              []YearBucket `json:"years"`
	CumulativeRevenue  float64      `json:"cumulative_revenue"`
	CumulativeCost     float64      `json:"cumulative_cost"`
	CumulativeProfit   float64      `json:"cumulative_profit"`
	CumulativeCashFlow float64      `json:"cumulative_cash_flow"`
	CumulativeROI      float64      `json:"cumulative_roi"`
}

// FiveYear buckets the monthly ledger into years 1-5 (months 0-11 are year 1)
// and compounds 3% per year on each bucket. Months past year 5 are ignored.
func FiveYear(s *Scenario) FiveYearProjection {
	out := FiveYearProjection{
		ScenarioID: s.ID,
		Years:      make([]YearBucket, projectionYears),
	}

	for y := range out.Years {
		out.Years[y] = YearBucket{Year: y + 1, InflationFactor: math.Pow(1+annualInflation, float64(y))}
	}

	for m, e := range s.Projection.CashFlow {
		y := m / 12
		if y >= projectionYears {
			break
		}
		b := &out.Years[y]
		b.Revenue += e.TotalInflow
		b.Cost += e.TotalOutflow
		b.CashFlow += e.NetCashFlow
	}

	for y := range out.Years {
		b := &out.Years[y]
		b.Revenue *= b.InflationFactor
		b.Cost *= b.InflationFactor
		b.CashFlow *= b.InflationFactor
		b.Profit = b.Revenue - b.Cost
		if b.Cost > 0 {
			b.ROI = b.Profit / b.Cost * 100
		}

		out.CumulativeRevenue += b.Revenue
		out.CumulativeCost += b.Cost
		out.CumulativeProfit += b.Profit
		out.CumulativeCashFlow += b.CashFlow
	}

	if out.CumulativeCost > 0 {
		out.CumulativeROI = out.CumulativeProfit / out.CumulativeCost * 100
	}
	return out
}

// Markdown renders the yearly buckets and totals as a table. money formats currency cells.
func (p FiveYearProjection) Markdown(money func(float64) string) string {
	var b strings.Builder
	b.WriteString("| Year | Revenue | Cost | Profit | Cash flow | ROI |\n|---|---|---|---|---|---|\n")
	for _, y := range p.Years {
		fmt.Fprintf(&b, "| %d | %s | %s | %s | %s | %.2f%% |\n",
			y.Year, money(y.Revenue), money(y.Cost), money(y.Profit), money(y.CashFlow), y.ROI)
	}
	fmt.Fprintf(&b, "| Total | %s | %s | %s | %s | %.2f%% |\n",
		money(p.CumulativeRevenue), money(p.CumulativeCost), money(p.CumulativeProfit),
		money(p.CumulativeCashFlow), p.CumulativeROI)
	return b.String()
}
