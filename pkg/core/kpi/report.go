package kpi

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const daysPerMonth = 30

// Report holds display strings for every KPI
type Report struct {
	ROI                      string `json:"roi"`
	IRR                      string `json:"irr"`
	AnnualizedIRR            string `json:"annualized_irr"`
	NPV                      string `json:"npv"`
	PaybackPeriod            string `json:"payback_period"`
	ProfitMargin             string `json:"profit_margin"`
	CostPerArea              string `json:"cost_per_area"`
	RevenuePerArea           string `json:"revenue_per_area"`
	ProfitPerArea            string `json:"profit_per_area"`
	DebtServiceCoverageRatio string `json:"debt_service_coverage_ratio"`
	BreakEvenOccupancy       string `json:"break_even_occupancy"`
	CapRate                  string `json:"cap_rate"`
}

// Formatter renders numbers for one locale
type Formatter struct {
	printer *message.Printer
}

// NewFormatter builds a formatter for a BCP 47 tag; unparsable tags fall back to English
func NewFormatter(locale string) *Formatter {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.English
	}
	return &Formatter{printer: message.NewPrinter(tag)}
}

// round2 rounds half away from zero to cents
func round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

// Percent formats v as "12.34%"
func (f *Formatter) Percent(v float64) string {
	return fmt.Sprintf("%.2f%%", round2(v))
}

// Currency formats v with locale digit grouping and two decimals
func (f *Formatter) Currency(v float64) string {
	return f.printer.Sprintf("$%.2f", round2(v))
}

// Payback formats months as "N months and D days", or "does not recover" for +Inf
func (f *Formatter) Payback(months float64) string {
	if math.IsInf(months, 1) || math.IsNaN(months) {
		return "does not recover"
	}
	whole := math.Floor(months)
	days := int(math.Round((months - whole) * daysPerMonth))
	if days == daysPerMonth {
		whole++
		days = 0
	}
	return fmt.Sprintf("%d months and %d days", int(whole), days)
}

// Generate formats every KPI
func (f *Formatter) Generate(k KPIs) Report {
	return Report{
		ROI:                      f.Percent(k.ROI),
		IRR:                      f.Percent(k.IRR),
		AnnualizedIRR:            f.Percent(k.AnnualizedIRR),
		NPV:                      f.Currency(k.NPV),
		PaybackPeriod:            f.Payback(k.PaybackPeriod),
		ProfitMargin:             f.Percent(k.ProfitMargin),
		CostPerArea:              f.Currency(k.CostPerArea),
		RevenuePerArea:           f.Currency(k.RevenuePerArea),
		ProfitPerArea:            f.Currency(k.ProfitPerArea),
		DebtServiceCoverageRatio: fmt.Sprintf("%.2fx", round2(k.DebtServiceCoverageRatio)),
		BreakEvenOccupancy:       f.Percent(k.BreakEvenOccupancy),
		CapRate:                  f.Percent(k.CapRate),
	}
}

// GenerateReport formats KPIs with English grouping
func GenerateReport(k KPIs) Report {
	return NewFormatter("en").Generate(k)
}

// Markdown renders the report as a two-column table
func (r Report) Markdown(title string) string {
	rows := [][2]string{
		{"ROI", r.ROI},
		{"IRR (monthly)", r.IRR},
		{"IRR (annualized)", r.AnnualizedIRR},
		{"NPV", r.NPV},
		{"Payback period", r.PaybackPeriod},
		{"Profit margin", r.ProfitMargin},
		{"Cost per area", r.CostPerArea},
		{"Revenue per area", r.RevenuePerArea},
		{"Profit per area", r.ProfitPerArea},
		{"Debt service coverage", r.DebtServiceCoverageRatio},
		{"Break-even occupancy", r.BreakEvenOccupancy},
		{"Cap rate", r.CapRate},
	}

	var b strings.Builder
	if title != "" {
		b.WriteString("## " + title + "\n\n")
	}
	b.WriteString("| KPI | Value |\n|---|---|\n")
	for _, row := range rows {
		b.WriteString("| " + row[0] + " | " + row[1] + " |\n")
	}
	return b.String()
}
