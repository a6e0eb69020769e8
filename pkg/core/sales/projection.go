package sales

import (
	"math"
	"time"
)

// MonthlySale is one row of the sales ledger
type MonthlySale struct {
	Month               int       `json:"month"`
	Date                time.Time `json:"date"`
	UnitsSold           int       `json:"units_sold"`
	UnitPrice           float64   `json:"unit_price"`
	ReservationRevenue  float64   `json:"reservation_revenue"`
	DownPaymentRevenue  float64   `json:"down_payment_revenue"`
	InstallmentRevenue  float64   `json:"installment_revenue"`
	MonthlyRevenue      float64   `json:"monthly_revenue"`
	CumulativeUnitsSold int       `json:"cumulative_units_sold"`
	CumulativeRevenue   float64   `json:"cumulative_revenue"`
	AbsorptionRate      float64   `json:"absorption_rate"` // % of total units
}

// Inflows are the cash receipts of a month
type Inflows struct {
	Reservations float64 `json:"reservations"`
	DownPayments float64 `json:"down_payments"`
	Installments float64 `json:"installments"`
}

// Outflows are the cash disbursements of a month
type Outflows struct {
	Construction float64 `json:"construction"`
	Indirect     float64 `json:"indirect"`
}

// CashFlowEntry is one row of the cash-flow ledger
type CashFlowEntry struct {
	Month              int       `json:"month"`
	Date               time.Time `json:"date"`
	Inflows            Inflows   `json:"inflows"`
	Outflows           Outflows  `json:"outflows"`
	TotalInflow        float64   `json:"total_inflow"`
	TotalOutflow       float64   `json:"total_outflow"`
	NetCashFlow        float64   `json:"net_cash_flow"`
	CumulativeCashFlow float64   `json:"cumulative_cash_flow"`
}

// Metrics summarize a projection
type Metrics struct {
	TotalRevenue          float64    `json:"total_revenue"`
	AverageAbsorptionRate float64    `json:"average_absorption_rate"`
	SalesDuration         int        `json:"sales_duration"` // index of the sell-out month, or the full duration
	BreakEvenMonth        *int       `json:"break_even_month"`
	BreakEvenDate         *time.Time `json:"break_even_date"`
}

// Projection is the output of GenerateProjection
type Projection struct {
	MonthlySales []MonthlySale   `json:"monthly_sales"`
	CashFlow     []CashFlowEntry `json:"cash_flow"`
	Metrics      Metrics         `json:"metrics"`
}

// NetCashFlows extracts the net flow series
func (p Projection) NetCashFlows() []float64 {
	out := make([]float64, len(p.CashFlow))
	for i, e := range p.CashFlow {
		out[i] = e.NetCashFlow
	}
	return out
}

// GenerateProjection runs the month loop. The cost curves are coerced to the
// project duration first (cycled when shorter, truncated when longer).
func GenerateProjection(cfg Config, constructionCurve, indirectCurve []float64) (Projection, error) {
	if err := cfg.Validate(); err != nil {
		return Projection{}, err
	}

	months := cfg.ProjectDuration
	construction := NormalizeLength(constructionCurve, months)
	indirect := NormalizeLength(indirectCurve, months)

	sales := make([]MonthlySale, 0, months)
	flows := make([]CashFlowEntry, 0, months)

	installmentShare := cfg.InstallmentPct() / 100
	var (
		cumUnits    int
		cumRevenue  float64
		cumCash     float64
		breakEven   *int
		breakEvenAt *time.Time
	)

	for m := 0; m < months; m++ {
		date := AddMonths(cfg.SalesStartDate, m)

		// 1. Units, capped by remaining inventory
		units := cfg.SalesVelocity
		if remaining := cfg.TotalUnits - cumUnits; units > remaining {
			units = remaining
		}

		// 2. Price escalation
		price := cfg.UnitPrice * math.Pow(1+cfg.PriceIncreaseRate/100, float64(m)/12)

		// 3. Up-front payments
		gross := float64(units) * price
		reservation := gross * cfg.ReservationFeePct / 100
		downPayment := gross * cfg.DownPaymentPct / 100

		// 4. Installments from the trailing window of earlier sales
		installment := 0.0
		if cfg.InstallmentMonths > 0 {
			start := m - cfg.InstallmentMonths
			if start < 0 {
				start = 0
			}
			for _, prev := range sales[start:m] {
				installment += float64(prev.UnitsSold) * prev.UnitPrice * installmentShare / float64(cfg.InstallmentMonths)
			}
		}

		// 5. Ledger row
		revenue := reservation + downPayment + installment
		cumUnits += units
		cumRevenue += revenue
		absorption := 0.0
		if cfg.TotalUnits > 0 {
			absorption = float64(cumUnits) / float64(cfg.TotalUnits) * 100
		}

		sales = append(sales, MonthlySale{
			Month:               m,
			Date:                date,
			UnitsSold:           units,
			UnitPrice:           price,
			ReservationRevenue:  reservation,
			DownPaymentRevenue:  downPayment,
			InstallmentRevenue:  installment,
			MonthlyRevenue:      revenue,
			CumulativeUnitsSold: cumUnits,
			CumulativeRevenue:   cumRevenue,
			AbsorptionRate:      absorption,
		})

		// 6. Cash flow
		in := Inflows{Reservations: reservation, DownPayments: downPayment, Installments: installment}
		out := Outflows{Construction: construction[m], Indirect: indirect[m]}
		totalIn := in.Reservations + in.DownPayments + in.Installments
		totalOut := out.Construction + out.Indirect
		net := totalIn - totalOut
		cumCash += net

		flows = append(flows, CashFlowEntry{
			Month:              m,
			Date:               date,
			Inflows:            in,
			Outflows:           out,
			TotalInflow:        totalIn,
			TotalOutflow:       totalOut,
			NetCashFlow:        net,
			CumulativeCashFlow: cumCash,
		})

		// 7. First break-even only
		if breakEven == nil && m > 0 && cumCash >= 0 {
			month, at := m, date
			breakEven, breakEvenAt = &month, &at
		}
	}

	return Projection{
		MonthlySales: sales,
		CashFlow:     flows,
		Metrics:      summarize(cfg, sales, breakEven, breakEvenAt),
	}, nil
}

func summarize(cfg Config, sales []MonthlySale, breakEven *int, breakEvenAt *time.Time) Metrics {
	metrics := Metrics{
		SalesDuration:  cfg.ProjectDuration,
		BreakEvenMonth: breakEven,
		BreakEvenDate:  breakEvenAt,
	}
	if len(sales) == 0 {
		return metrics
	}

	last := sales[len(sales)-1]
	metrics.TotalRevenue = last.CumulativeRevenue
	metrics.AverageAbsorptionRate = last.AbsorptionRate / float64(len(sales))

	if cfg.TotalUnits > 0 {
		for _, s := range sales {
			if s.CumulativeUnitsSold >= cfg.TotalUnits {
				metrics.SalesDuration = s.Month
				break
			}
		}
	}
	return metrics
}

// NormalizeLength cycles values when shorter than n and truncates when longer.
// An empty input yields n zeros.
func NormalizeLength(values []float64, n int) []float64 {
	if n <= 0 {
		return []float64{}
	}
	out := make([]float64, n)
	if len(values) == 0 {
		return out
	}
	for i := range out {
		out[i] = values[i%len(values)]
	}
	return out
}

// AddMonths adds calendar months, normalizing overflowing days like time.AddDate
func AddMonths(t time.Time, months int) time.Time {
	return t.AddDate(0, months, 0)
}
