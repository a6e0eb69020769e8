package scenario

import (
	"encoding/json"
	"sort"

	"realestate_valuation/pkg/core/kpi"
)

// Summary is the headline view of one scenario
type Summary struct {
	ScenarioID     string  `json:"scenario_id"`
	Name           string  `json:"name"`
	Type           Type    `json:"type"`
	TotalCost      float64 `json:"total_cost"`
	TotalRevenue   float64 `json:"total_revenue"`
	Profit         float64 `json:"profit"`
	ROI            float64 `json:"roi"`
	IRR            float64 `json:"irr"`
	NPV            float64 `json:"npv"`
	PaybackPeriod  float64 `json:"payback_period"`
	ProfitMargin   float64 `json:"profit_margin"`
	BreakEvenMonth *int    `json:"break_even_month"`
}

// MarshalJSON writes a never-recovered payback as null
func (s Summary) MarshalJSON() ([]byte, error) {
	type alias Summary
	return json.Marshal(struct {
		alias
		PaybackPeriod *float64 `json:"payback_period"`
	}{alias: alias(s), PaybackPeriod: kpi.FiniteOrNil(s.PaybackPeriod)})
}

// RankEntry is one position in a KPI ranking
type RankEntry struct {
	ScenarioID string  `json:"scenario_id"`
	Name       string  `json:"name"`
	Value      float64 `json:"value"`
}

// MarshalJSON writes infinite values as null
func (r RankEntry) MarshalJSON() ([]byte, error) {
	type alias RankEntry
	return json.Marshal(struct {
		alias
		Value *float64 `json:"value"`
	}{alias: alias(r), Value: kpi.FiniteOrNil(r.Value)})
}

// Rankings orders scenarios per KPI: payback ascending, the rest descending
type Rankings struct {
	ROI           []RankEntry `json:"roi"`
	IRR           []RankEntry `json:"irr"`
	NPV           []RankEntry `json:"npv"`
	PaybackPeriod []RankEntry `json:"payback_period"`
	ProfitMargin  []RankEntry `json:"profit_margin"`
}

// BestPicks are the scenario ids at the head of each ranking
type BestPicks struct {
	HighestROI     string `json:"highest_roi"`
	HighestIRR     string `json:"highest_irr"`
	HighestNPV     string `json:"highest_npv"`
	FastestPayback string `json:"fastest_payback"`
	HighestMargin  string `json:"highest_margin"`
}

// Comparison is the result of Compare
type Comparison struct {
	Summaries []Summary `json:"summaries"`
	Rankings  Rankings  `json:"rankings"`
	Best      BestPicks `json:"best"`
}

// Compare summarizes and ranks scenarios. Ties keep input order. Nil entries are skipped.
func Compare(scenarios []*Scenario) Comparison {
	summaries := make([]Summary, 0, len(scenarios))
	for _, s := range scenarios {
		if s == nil {
			continue
		}
		summaries = append(summaries, Summarize(s))
	}

	rankings := Rankings{
		ROI:           rank(summaries, func(s Summary) float64 { return s.ROI }, false),
		IRR:           rank(summaries, func(s Summary) float64 { return s.IRR }, false),
		NPV:           rank(summaries, func(s Summary) float64 { return s.NPV }, false),
		PaybackPeriod: rank(summaries, func(s Summary) float64 { return s.PaybackPeriod }, true),
		ProfitMargin:  rank(summaries, func(s Summary) float64 { return s.ProfitMargin }, false),
	}

	return Comparison{
		Summaries: summaries,
		Rankings:  rankings,
		Best: BestPicks{
			HighestROI:     head(rankings.ROI),
			HighestIRR:     head(rankings.IRR),
			HighestNPV:     head(rankings.NPV),
			FastestPayback: head(rankings.PaybackPeriod),
			HighestMargin:  head(rankings.ProfitMargin),
		},
	}
}

// Summarize extracts the headline figures of a scenario
func Summarize(s *Scenario) Summary {
	revenue := s.Projection.Metrics.TotalRevenue
	return Summary{
		ScenarioID:     s.ID,
		Name:           s.Name,
		Type:           s.Type,
		TotalCost:      s.Budget.TotalCost,
		TotalRevenue:   revenue,
		Profit:         revenue - s.Budget.TotalCost,
		ROI:            s.KPIs.ROI,
		IRR:            s.KPIs.IRR,
		NPV:            s.KPIs.NPV,
		PaybackPeriod:  s.KPIs.PaybackPeriod,
		ProfitMargin:   s.KPIs.ProfitMargin,
		BreakEvenMonth: s.Projection.Metrics.BreakEvenMonth,
	}
}

func rank(summaries []Summary, value func(Summary) float64, ascending bool) []RankEntry {
	entries := make([]RankEntry, len(summaries))
	for i, s := range summaries {
		entries[i] = RankEntry{ScenarioID: s.ScenarioID, Name: s.Name, Value: value(s)}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if ascending {
			return entries[i].Value < entries[j].Value
		}
		return entries[i].Value > entries[j].Value
	})
	return entries
}

func head(entries []RankEntry) string {
	if len(entries) == 0 {
		return ""
	}
	return entries[0].ScenarioID
}
