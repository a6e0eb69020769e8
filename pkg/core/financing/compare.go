package financing

import (
	"fmt"
)

// SchemeSummary is the cost profile of one scheme
type SchemeSummary struct {
	SchemeID       string  `json:"scheme_id"`
	Type           Type    `json:"type"`
	Payment        float64 `json:"payment"` // per period of the scheme's frequency
	MonthlyPayment float64 `json:"monthly_payment"`
	Periods        int     `json:"periods"`
	TotalInterest  float64 `json:"total_interest"`
	TotalCost      float64 `json:"total_cost"` // payments + origination fee
}

// Comparison ranks schemes by monthly payment, interest and total cost
type Comparison struct {
	Schemes             []SchemeSummary `json:"schemes"`
	LowestPayment       string          `json:"lowest_payment"`
	LowestTotalInterest string          `json:"lowest_total_interest"`
	LowestTotalCost     string          `json:"lowest_total_cost"`
}

// Summarize walks the amortization table of a scheme
func Summarize(s Scheme) (SchemeSummary, error) {
	table, err := AmortizationTable(s)
	if err != nil {
		return SchemeSummary{}, fmt.Errorf("scheme %s: %w", s.ID, err)
	}

	var payments, interest float64
	for _, e := range table {
		payments += e.Payment
		interest += e.Interest
	}

	payment := 0.0
	if len(table) > 0 {
		payment = table[0].Payment
	}

	return SchemeSummary{
		SchemeID:       s.ID,
		Type:           s.Type,
		Payment:        payment,
		MonthlyPayment: payment * float64(s.PeriodsPerYear()) / 12,
		Periods:        len(table),
		TotalInterest:  interest,
		TotalCost:      payments + s.OriginationFee,
	}, nil
}

// CompareSchemes summarizes every scheme and picks the minimum per metric.
// Ties keep the earlier scheme.
func CompareSchemes(schemes []Scheme) (Comparison, error) {
	if len(schemes) == 0 {
		return Comparison{}, ErrNoSchemes
	}

	res := Comparison{Schemes: make([]SchemeSummary, 0, len(schemes))}
	for _, s := range schemes {
		summary, err := Summarize(s)
		if err != nil {
			return Comparison{}, err
		}
		res.Schemes = append(res.Schemes, summary)
	}

	best := res.Schemes[0]
	res.LowestPayment, res.LowestTotalInterest, res.LowestTotalCost = best.SchemeID, best.SchemeID, best.SchemeID
	minPayment, minInterest, minCost := best.MonthlyPayment, best.TotalInterest, best.TotalCost

	for _, s := range res.Schemes[1:] {
		if s.MonthlyPayment < minPayment {
			minPayment, res.LowestPayment = s.MonthlyPayment, s.SchemeID
		}
		if s.TotalInterest < minInterest {
			minInterest, res.LowestTotalInterest = s.TotalInterest, s.SchemeID
		}
		if s.TotalCost < minCost {
			minCost, res.LowestTotalCost = s.TotalCost, s.SchemeID
		}
	}

	return res, nil
}
