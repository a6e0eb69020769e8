package kpi

import (
	"encoding/json"
	"math"
)

// Simplifying ratios used where the engine has no appraisal model
const (
	FixedCostShare        = 0.40
	VariableCostShare     = 0.60
	PropertyValueMultiple = 10.0
)

const (
	irrInitialGuess  = 0.10
	irrMaxIterations = 1000
	irrTolerance     = 1e-7
)

// KPIs are the financial performance indicators of one project.
// Percentages are 0-100; NPV and per-area values are currency units.
type KPIs struct {
	ROI                      float64 `json:"roi"`
	IRR                      float64 `json:"irr"`            // monthly, %
	AnnualizedIRR            float64 `json:"annualized_irr"` // %
	IRRConverged             bool    `json:"irr_converged"`
	NPV                      float64 `json:"npv"`
	PaybackPeriod            float64 `json:"payback_period"` // months, +Inf when never recovered
	ProfitMargin             float64 `json:"profit_margin"`
	CostPerArea              float64 `json:"cost_per_area"`
	RevenuePerArea           float64 `json:"revenue_per_area"`
	ProfitPerArea            float64 `json:"profit_per_area"`
	DebtServiceCoverageRatio float64 `json:"debt_service_coverage_ratio"`
	BreakEvenOccupancy       float64 `json:"break_even_occupancy"`
	CapRate                  float64 `json:"cap_rate"`
}

// MarshalJSON writes a never-recovered payback as null
func (k KPIs) MarshalJSON() ([]byte, error) {
	type alias KPIs
	return json.Marshal(struct {
		alias
		PaybackPeriod *float64 `json:"payback_period"`
	}{alias: alias(k), PaybackPeriod: FiniteOrNil(k.PaybackPeriod)})
}

// UnmarshalJSON reads a null payback back as +Inf
func (k *KPIs) UnmarshalJSON(data []byte) error {
	type alias KPIs
	aux := struct {
		*alias
		PaybackPeriod *float64 `json:"payback_period"`
	}{alias: (*alias)(k)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	k.PaybackPeriod = math.Inf(1)
	if aux.PaybackPeriod != nil {
		k.PaybackPeriod = *aux.PaybackPeriod
	}
	return nil
}

// FiniteOrNil returns nil for NaN and infinities
func FiniteOrNil(v float64) *float64 {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return nil
	}
	return &v
}

// Input aggregates everything CalculateAll needs
type Input struct {
	TotalRevenue      float64
	TotalCost         float64
	InitialInvestment float64
	CashFlows         []float64 // monthly net flows after the initial investment
	DiscountRate      float64   // annual %
	Area              float64
	AnnualDebtService float64
	OperatingIncome   float64
}

// IRRResult is the Newton-Raphson outcome. Rate is per period as a decimal.
type IRRResult struct {
	Rate       float64
	Iterations int
	Converged  bool
}

// ROI = (revenue - cost) / cost * 100
func ROI(totalRevenue, totalCost float64) float64 {
	if totalCost == 0 {
		return 0
	}
	return (totalRevenue - totalCost) / totalCost * 100
}

// IRR solves NPV(rate) = 0 over [-initialInvestment, cashFlows...] by Newton-Raphson.
// When the derivative vanishes or the cap is hit the last guess is returned with Converged=false.
func IRR(initialInvestment float64, cashFlows []float64) IRRResult {
	flows := make([]float64, 0, len(cashFlows)+1)
	flows = append(flows, -initialInvestment)
	flows = append(flows, cashFlows...)

	rate := irrInitialGuess
	for i := 0; i < irrMaxIterations; i++ {
		npv, deriv := npvAndDerivative(flows, rate)

		if math.Abs(npv) < irrTolerance {
			return IRRResult{Rate: rate, Iterations: i, Converged: true}
		}
		if deriv == 0 {
			return IRRResult{Rate: rate, Iterations: i}
		}

		next := rate - npv/deriv
		if math.IsNaN(next) || math.IsInf(next, 0) {
			return IRRResult{Rate: rate, Iterations: i}
		}
		rate = next
	}

	return IRRResult{Rate: rate, Iterations: irrMaxIterations}
}

func npvAndDerivative(flows []float64, rate float64) (float64, float64) {
	var npv, deriv float64
	base := 1 + rate
	for t, cf := range flows {
		discount := math.Pow(base, float64(t))
		npv += cf / discount
		deriv -= float64(t) * cf / (discount * base)
	}
	return npv, deriv
}

// NPV discounts monthly flows at annualRate/12, the first flow one period out
func NPV(cashFlows []float64, annualRate, initialInvestment float64) float64 {
	monthly := annualRate / 100 / 12
	pv := 0.0
	for i, cf := range cashFlows {
		pv += cf / math.Pow(1+monthly, float64(i+1))
	}
	return pv - initialInvestment
}

// PaybackPeriod returns the fractional month at which the running balance,
// starting at -initialInvestment, first reaches zero. +Inf if it never does.
func PaybackPeriod(cashFlows []float64, initialInvestment float64) float64 {
	cumulative := -initialInvestment
	if cumulative >= 0 {
		return 0
	}

	for i, cf := range cashFlows {
		prev := cumulative
		cumulative += cf
		if cumulative >= 0 {
			// cf > 0 here since prev < 0 <= cumulative
			return float64(i) + (-prev)/cf
		}
	}
	return math.Inf(1)
}

// CalculateAll composes every KPI
func CalculateAll(in Input) KPIs {
	profit := in.TotalRevenue - in.TotalCost
	irr := IRR(in.InitialInvestment, in.CashFlows)

	k := KPIs{
		ROI:           ROI(in.TotalRevenue, in.TotalCost),
		IRR:           irr.Rate * 100,
		AnnualizedIRR: (math.Pow(1+irr.Rate, 12) - 1) * 100,
		IRRConverged:  irr.Converged,
		NPV:           NPV(in.CashFlows, in.DiscountRate, in.InitialInvestment),
		PaybackPeriod: PaybackPeriod(in.CashFlows, in.InitialInvestment),
	}

	if in.TotalRevenue > 0 {
		k.ProfitMargin = profit / in.TotalRevenue * 100
	}

	if in.Area > 0 {
		k.CostPerArea = in.TotalCost / in.Area
		k.RevenuePerArea = in.TotalRevenue / in.Area
		k.ProfitPerArea = profit / in.Area
	}

	if in.AnnualDebtService > 0 {
		k.DebtServiceCoverageRatio = in.OperatingIncome / in.AnnualDebtService
	}

	k.BreakEvenOccupancy = BreakEvenOccupancy(in.TotalRevenue, in.TotalCost)
	k.CapRate = CapRate(in.OperatingIncome, in.TotalRevenue)

	return k
}

// BreakEvenOccupancy splits cost 40/60 into fixed and variable and returns
// fixed / contribution margin * 100
func BreakEvenOccupancy(totalRevenue, totalCost float64) float64 {
	fixed := totalCost * FixedCostShare
	variable := totalCost * VariableCostShare
	contribution := totalRevenue - variable
	if contribution <= 0 {
		return 0
	}
	return fixed / contribution * 100
}

// CapRate = NOI / (revenue * 10) * 100
func CapRate(netOperatingIncome, totalRevenue float64) float64 {
	propertyValue := totalRevenue * PropertyValueMultiple
	if propertyValue <= 0 {
		return 0
	}
	return netOperatingIncome / propertyValue * 100
}
