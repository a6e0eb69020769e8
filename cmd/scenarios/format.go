package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"realestate_valuation/pkg/core/cost"
	"realestate_valuation/pkg/core/financing"
	"realestate_valuation/pkg/core/kpi"
	"realestate_valuation/pkg/core/scenario"
)

var money = kpi.NewFormatter("en")

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printScenario(sc *scenario.Scenario) {
	title := fmt.Sprintf("Scenario: %s (%s)", sc.Name, sc.Type)
	fmt.Println(title)
	fmt.Println(underline(title))
	fmt.Println()

	fmt.Printf("  Total cost:             %s\n", money.Currency(sc.Budget.TotalCost))
	fmt.Printf("  Total revenue:          %s\n", money.Currency(sc.Projection.Metrics.TotalRevenue))
	fmt.Printf("  Sell-out month:         %d\n", sc.Projection.Metrics.SalesDuration)
	if be := sc.Projection.Metrics.BreakEvenMonth; be != nil {
		fmt.Printf("  Break-even month:       %d (%s)\n", *be, sc.Projection.Metrics.BreakEvenDate.Format("2006-01"))
	} else {
		fmt.Printf("  Break-even month:       not reached\n")
	}
	fmt.Printf("  Construction estimate:  %d weeks (%d months)\n", sc.ConstructionWeeks, sc.ConstructionMonths)
	fmt.Printf("  Loan:                   %s at %.2f%% over %d years\n",
		money.Currency(sc.Financing.LoanAmount), sc.Financing.InterestRate, sc.Financing.TermYears)
	fmt.Printf("  Transaction taxes:      %s (%s)\n", money.Currency(sc.Taxes.Total), sc.Taxes.Region)
	fmt.Printf("  Annual maintenance:     %s\n", money.Currency(sc.Maintenance.AnnualMaintenance))
	fmt.Println()

	r := money.Generate(sc.KPIs)
	fmt.Println("KPIs")
	fmt.Println("----")
	fmt.Printf("  ROI:                    %s\n", r.ROI)
	fmt.Printf("  IRR (monthly):          %s\n", r.IRR)
	fmt.Printf("  IRR (annualized):       %s\n", r.AnnualizedIRR)
	if !sc.KPIs.IRRConverged {
		fmt.Printf("    (estimate, did not converge)\n")
	}
	fmt.Printf("  NPV:                    %s\n", r.NPV)
	fmt.Printf("  Payback:                %s\n", r.PaybackPeriod)
	fmt.Printf("  Profit margin:          %s\n", r.ProfitMargin)
	fmt.Printf("  Cost per area:          %s\n", r.CostPerArea)
	fmt.Printf("  Revenue per area:       %s\n", r.RevenuePerArea)
	fmt.Printf("  DSCR:                   %s\n", r.DebtServiceCoverageRatio)
	fmt.Printf("  Break-even occupancy:   %s\n", r.BreakEvenOccupancy)
	fmt.Printf("  Cap rate:               %s\n", r.CapRate)
}

func printComparison(cmp scenario.Comparison) {
	fmt.Println("Scenario Comparison")
	fmt.Println("===================")
	fmt.Println()
	fmt.Printf("%-20s %18s %18s %10s %10s %22s\n", "Scenario", "Cost", "Revenue", "ROI", "IRR", "Payback")
	for _, s := range cmp.Summaries {
		fmt.Printf("%-20s %18s %18s %10s %10s %22s\n",
			truncate(s.Name, 20), money.Currency(s.TotalCost), money.Currency(s.TotalRevenue),
			money.Percent(s.ROI), money.Percent(s.IRR), money.Payback(s.PaybackPeriod))
	}
	fmt.Println()

	names := make(map[string]string, len(cmp.Summaries))
	for _, s := range cmp.Summaries {
		names[s.ScenarioID] = s.Name
	}
	fmt.Println("Best")
	fmt.Println("----")
	fmt.Printf("  Highest ROI:     %s\n", names[cmp.Best.HighestROI])
	fmt.Printf("  Highest IRR:     %s\n", names[cmp.Best.HighestIRR])
	fmt.Printf("  Highest NPV:     %s\n", names[cmp.Best.HighestNPV])
	fmt.Printf("  Fastest payback: %s\n", names[cmp.Best.FastestPayback])
	fmt.Printf("  Highest margin:  %s\n", names[cmp.Best.HighestMargin])
}

func printBudget(b cost.Budget) {
	title := "Budget"
	if b.ProjectName != "" {
		title += ": " + b.ProjectName
	}
	fmt.Println(title)
	fmt.Println(underline(title))
	fmt.Println()

	fmt.Println("Direct costs")
	for _, c := range b.DirectCosts {
		fmt.Printf("  %-22s %18s  %s\n", c.Type, money.Currency(c.Amount), c.Description)
	}
	fmt.Printf("  %-22s %18s\n", "total", money.Currency(b.TotalDirectCost))
	fmt.Println()

	fmt.Println("Indirect costs")
	for _, c := range b.IndirectCosts {
		fmt.Printf("  %-22s %18s  %5.2f%%\n", c.Type, money.Currency(c.Amount), c.Percentage)
	}
	fmt.Printf("  %-22s %18s\n", "total", money.Currency(b.TotalIndirectCost))
	fmt.Println()

	fmt.Printf("  Total cost:        %s\n", money.Currency(b.TotalCost))
	fmt.Printf("  Cost per area:     %s\n", money.Currency(b.CostPerArea))
	fmt.Printf("  Location factor:   %.2f\n", b.LocationFactor)
	fmt.Printf("  Inflation factor:  %.2f\n", b.InflationFactor)
}

func printAmortization(s financing.Scheme, table []financing.AmortizationEntry, limit int) {
	fmt.Printf("%s: %s loan at %.2f%% for %d years, %s payments\n",
		s.Type, money.Currency(s.LoanAmount), s.InterestRate, s.TermYears, s.Frequency)
	fmt.Println()
	fmt.Printf("%8s %16s %16s %16s %18s\n", "Period", "Payment", "Principal", "Interest", "Balance")

	shown := table
	if limit > 0 && limit < len(table) {
		shown = table[:limit]
	}
	for _, e := range shown {
		fmt.Printf("%8d %16s %16s %16s %18s\n", e.Period,
			money.Currency(e.Payment), money.Currency(e.Principal), money.Currency(e.Interest), money.Currency(e.Balance))
	}
	if len(shown) < len(table) {
		fmt.Printf("  ... %d more periods\n", len(table)-len(shown))
	}
}

func printTaxes(t financing.TaxesAndFees) {
	fmt.Printf("Taxes and fees on %s (%s)\n", money.Currency(t.PropertyValue), t.Region)
	fmt.Printf("  Property tax:      %s\n", money.Currency(t.PropertyTax))
	fmt.Printf("  Transfer tax:      %s\n", money.Currency(t.TransferTax))
	fmt.Printf("  VAT:               %s\n", money.Currency(t.VAT))
	fmt.Printf("  Notary fees:       %s\n", money.Currency(t.NotaryFees))
	fmt.Printf("  Registration fees: %s\n", money.Currency(t.RegistrationFees))
	fmt.Printf("  Total:             %s\n", money.Currency(t.Total))
}

func underline(s string) string {
	return strings.Repeat("=", len(s))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "~"
}
