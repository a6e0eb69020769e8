package scenario

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"reflect"
	"strings"
	"testing"
	"time"

	"realestate_valuation/pkg/core/config"
	"realestate_valuation/pkg/core/construction"
	"realestate_valuation/pkg/core/cost"
	"realestate_valuation/pkg/core/financing"
	"realestate_valuation/pkg/core/kpi"
	"realestate_valuation/pkg/core/sales"
)

var fixedNow = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

func newTestSimulator() *Simulator {
	sim := NewSimulator(config.DefaultSettings())
	sim.SetClock(func() time.Time { return fixedNow })
	return sim
}

func baseConfig() Config {
	return Config{
		Name:        "Base",
		Type:        TypeCustom,
		ProjectID:   "tower-a",
		ProjectName: "Tower A",
		Area:        1000,
		System:      construction.DefaultSystem(),
		Quality:     construction.QualityStandard,
		Financing: FinancingConfig{
			Type:  financing.TypeConstructionLoan,
			Terms: financing.DefaultTerms(),
		},
		Sales: sales.Config{
			TotalUnits:        20,
			UnitPrice:         120000,
			SalesStartDate:    time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
			SalesVelocity:     2,
			PriceIncreaseRate: 5,
			ReservationFeePct: 10,
			DownPaymentPct:    20,
			InstallmentMonths: 12,
			ProjectDuration:   24,
		},
		DiscountRate: 12,
	}
}

func TestSimulateEndToEnd(t *testing.T) {
	sc, err := newTestSimulator().Simulate(baseConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// 1,208,000 direct + 29.5% indirect; a 30.5% indirect total would give 1,576,440
	if math.Abs(sc.Budget.TotalCost-1564360) > 0.0001 {
		t.Errorf("Expected total cost 1564360, got %f", sc.Budget.TotalCost)
	}
	if math.Abs(sc.Budget.CostPerArea-1564.36) > 0.0001 {
		t.Errorf("Expected cost per area 1564.36, got %f", sc.Budget.CostPerArea)
	}

	// financing sized on total cost with default terms
	if math.Abs(sc.Financing.LoanAmount-1564360*0.8) > 0.0001 {
		t.Errorf("Expected loan 1251488, got %f", sc.Financing.LoanAmount)
	}
	if sc.FinancingSummary.Periods != 240 {
		t.Errorf("Expected 240 periods, got %d", sc.FinancingSummary.Periods)
	}

	if len(sc.Projection.CashFlow) != 24 {
		t.Fatalf("Expected 24 months of cash flow, got %d", len(sc.Projection.CashFlow))
	}

	var construct, indirect float64
	for _, e := range sc.Projection.CashFlow {
		construct += e.Outflows.Construction
		indirect += e.Outflows.Indirect
	}
	if math.Abs(construct-sc.Budget.TotalDirectCost) > 1e-6 {
		t.Errorf("Expected construction outflows %f, got %f", sc.Budget.TotalDirectCost, construct)
	}
	if math.Abs(indirect-sc.Budget.TotalIndirectCost) > 1e-6 {
		t.Errorf("Expected indirect outflows %f, got %f", sc.Budget.TotalIndirectCost, indirect)
	}

	wantROI := kpi.ROI(sc.Projection.Metrics.TotalRevenue, sc.Budget.TotalCost)
	if math.Abs(sc.KPIs.ROI-wantROI) > 0.0001 {
		t.Errorf("Expected ROI %f, got %f", wantROI, sc.KPIs.ROI)
	}
	wantDSCR := sc.Projection.Metrics.TotalRevenue * OperatingMargin / (sc.Financing.LoanAmount * DebtServiceRate)
	if math.Abs(sc.KPIs.DebtServiceCoverageRatio-wantDSCR) > 0.0001 {
		t.Errorf("Expected DSCR %f, got %f", wantDSCR, sc.KPIs.DebtServiceCoverageRatio)
	}

	if sc.ConstructionWeeks != 20 || sc.ConstructionMonths != 5 {
		t.Errorf("Expected 20 weeks / 5 months, got %d / %d", sc.ConstructionWeeks, sc.ConstructionMonths)
	}
	if !sc.CreatedAt.Equal(fixedNow) || !sc.Budget.CreatedAt.Equal(fixedNow) {
		t.Errorf("Expected timestamps from the clock, got %v", sc.CreatedAt)
	}
	if sc.ID == "" {
		t.Error("Expected an assigned id")
	}
}

func TestSimulateLandIsNotSpread(t *testing.T) {
	cfg := baseConfig()
	cfg.LandCost = 300000
	sc, err := newTestSimulator().Simulate(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var construct float64
	for _, e := range sc.Projection.CashFlow {
		construct += e.Outflows.Construction
	}
	if math.Abs(construct-(sc.Budget.TotalDirectCost-300000)) > 1e-6 {
		t.Errorf("Expected land excluded from construction curve, got %f", construct)
	}

	// initial investment = land + 30% of direct cost
	want := kpi.NPV(sc.Projection.NetCashFlows(), 12, 300000+sc.Budget.TotalDirectCost*EquityShareOfDirect)
	if math.Abs(sc.KPIs.NPV-want) > 1e-6 {
		t.Errorf("Expected NPV %f, got %f", want, sc.KPIs.NPV)
	}
}

func TestSimulateDeterministic(t *testing.T) {
	sim := newTestSimulator()
	a, err := sim.Simulate(baseConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := sim.Simulate(baseConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !reflect.DeepEqual(a.Budget, b.Budget) {
		t.Error("Expected identical budgets")
	}
	if !reflect.DeepEqual(a.KPIs, b.KPIs) {
		t.Errorf("Expected identical KPIs, got %+v and %+v", a.KPIs, b.KPIs)
	}
	if !reflect.DeepEqual(a.Projection, b.Projection) {
		t.Error("Expected identical projections")
	}
}

func TestSimulateDefaults(t *testing.T) {
	cfg := baseConfig()
	cfg.System = construction.System{}
	cfg.Quality = ""
	cfg.Financing = FinancingConfig{}
	cfg.DiscountRate = 0
	cfg.Sales.SalesStartDate = time.Time{}

	sc, err := newTestSimulator().Simulate(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sc.System != construction.DefaultSystem() {
		t.Errorf("Expected default system, got %+v", sc.System)
	}
	if sc.Materials.Quality != construction.QualityStandard {
		t.Errorf("Expected standard quality, got %s", sc.Materials.Quality)
	}
	if sc.Financing.InterestRate != 8.5 || sc.Financing.Type != financing.TypeConstructionLoan {
		t.Errorf("Expected default financing, got %+v", sc.Financing)
	}
	if sc.DiscountRate != 12 {
		t.Errorf("Expected settings discount rate 12, got %f", sc.DiscountRate)
	}
	if sc.Taxes.Region != financing.RegionDefault {
		t.Errorf("Expected default region, got %s", sc.Taxes.Region)
	}
	start := sc.SalesConfig.SalesStartDate
	if start.Year() != 2025 || start.Month() != time.March || start.Day() != 1 {
		t.Errorf("Expected sales to start 2025-03-01, got %v", start)
	}
}

func TestSimulatePreconditions(t *testing.T) {
	sim := newTestSimulator()

	cfg := baseConfig()
	cfg.Financing.Terms.InterestRate = 0
	if _, err := sim.Simulate(cfg); !errors.Is(err, financing.ErrNonPositiveRate) {
		t.Errorf("Expected ErrNonPositiveRate, got %v", err)
	}

	cfg = baseConfig()
	cfg.Sales.ReservationFeePct = 50
	cfg.Sales.DownPaymentPct = 60
	if _, err := sim.Simulate(cfg); !errors.Is(err, sales.ErrPercentagesExceed100) {
		t.Errorf("Expected ErrPercentagesExceed100, got %v", err)
	}

	cfg = baseConfig()
	cfg.Quality = "gold"
	if _, err := sim.Simulate(cfg); !errors.Is(err, construction.ErrUnknownVariant) {
		t.Errorf("Expected ErrUnknownVariant for quality, got %v", err)
	}

	cfg = baseConfig()
	cfg.Type = "speculative"
	if _, err := sim.Simulate(cfg); !errors.Is(err, construction.ErrUnknownVariant) {
		t.Errorf("Expected ErrUnknownVariant for type, got %v", err)
	}

	cfg = baseConfig()
	cfg.Area = -10
	if _, err := sim.Simulate(cfg); err == nil {
		t.Error("Expected validation error for negative area")
	}
}

func TestCreatePredefined(t *testing.T) {
	base := baseConfig()
	base.Name = ""
	base.IndirectOverrides = map[cost.IndirectCostType]float64{cost.IndirectMarketing: 4}

	opt := CreatePredefined(TypeOptimistic, base)
	if opt.Sales.SalesVelocity != 8 || opt.Sales.ProjectDuration != 24 || opt.Sales.PriceIncreaseRate != 8 {
		t.Errorf("Expected optimistic sales overrides, got %+v", opt.Sales)
	}
	if opt.Financing.Terms.InterestRate != 7.5 || opt.Financing.Terms.DownPaymentPct != 30 {
		t.Errorf("Expected optimistic financing overrides, got %+v", opt.Financing.Terms)
	}
	if opt.LocationFactor != 0.95 || opt.DiscountRate != 10 {
		t.Errorf("Expected optimistic factors, got %f / %f", opt.LocationFactor, opt.DiscountRate)
	}
	if opt.Name != "Optimistic" || opt.Type != TypeOptimistic || opt.ID == "" {
		t.Errorf("Unexpected identity %q %q %q", opt.ID, opt.Name, opt.Type)
	}
	// untouched fields survive
	if opt.Sales.UnitPrice != base.Sales.UnitPrice || opt.Area != base.Area {
		t.Error("Expected base values to be kept")
	}

	opt.IndirectOverrides[cost.IndirectMarketing] = 9
	if base.IndirectOverrides[cost.IndirectMarketing] != 4 {
		t.Error("Expected overrides map to be copied")
	}

	pes := CreatePredefined(TypePessimistic, base)
	if pes.Sales.SalesVelocity != 3 || pes.Financing.Terms.InterestRate != 10 || pes.LocationFactor != 1.1 {
		t.Errorf("Expected pessimistic overrides, got %+v", pes)
	}

	custom := CreatePredefined(TypeCustom, base)
	if custom.Sales != base.Sales || custom.Financing != base.Financing || custom.DiscountRate != base.DiscountRate {
		t.Error("Expected custom to apply no overrides")
	}

	base.ID = "fixed"
	if got := CreatePredefined(TypeRealistic, base).ID; got != "fixed" {
		t.Errorf("Expected caller id to be kept, got %s", got)
	}
}

func TestCreatePredefinedFillsDefaultTerms(t *testing.T) {
	base := baseConfig()
	base.Financing = FinancingConfig{}

	realistic := CreatePredefined(TypeRealistic, base)
	if realistic.Financing.Terms.TermYears != 20 || realistic.Financing.Terms.OriginationFeePct != 1.5 {
		t.Errorf("Expected default terms under overrides, got %+v", realistic.Financing.Terms)
	}
}

func TestSimulateAllKeepsOrder(t *testing.T) {
	cfgs := PredefinedSet(baseConfig())
	results, err := newTestSimulator().SimulateAll(context.Background(), cfgs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("Expected 3 scenarios, got %d", len(results))
	}
	for i, sc := range results {
		if sc.ID != cfgs[i].ID || sc.Type != cfgs[i].Type {
			t.Errorf("index %d: expected %s, got %s", i, cfgs[i].Type, sc.Type)
		}
	}
	if len(results[0].Projection.CashFlow) != 24 || len(results[2].Projection.CashFlow) != 48 {
		t.Error("Expected durations from the profiles")
	}
}

func TestSimulateAllFailure(t *testing.T) {
	cfgs := PredefinedSet(baseConfig())
	cfgs[1].Financing.Terms.TermYears = 0

	results, err := newTestSimulator().SimulateAll(context.Background(), cfgs)
	if !errors.Is(err, financing.ErrNonPositiveTerm) {
		t.Errorf("Expected ErrNonPositiveTerm, got %v", err)
	}
	if results != nil {
		t.Error("Expected no results on failure")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := newTestSimulator().SimulateAll(ctx, PredefinedSet(baseConfig())); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestCompareRankings(t *testing.T) {
	scenarios := []*Scenario{
		{ID: "a", Name: "A", KPIs: kpi.KPIs{ROI: 10, IRR: 1.0, NPV: 500, PaybackPeriod: math.Inf(1), ProfitMargin: 8}},
		{ID: "b", Name: "B", KPIs: kpi.KPIs{ROI: 25, IRR: 0.5, NPV: 900, PaybackPeriod: 18, ProfitMargin: 20}},
		{ID: "c", Name: "C", KPIs: kpi.KPIs{ROI: 15, IRR: 2.0, NPV: -100, PaybackPeriod: 12.5, ProfitMargin: 13}},
		nil,
	}

	cmp := Compare(scenarios)
	if len(cmp.Summaries) != 3 {
		t.Fatalf("Expected 3 summaries, got %d", len(cmp.Summaries))
	}

	order := func(entries []RankEntry) string {
		ids := make([]string, len(entries))
		for i, e := range entries {
			ids[i] = e.ScenarioID
		}
		return strings.Join(ids, ",")
	}

	cases := []struct {
		name    string
		entries []RankEntry
		want    string
		best    string
	}{
		{"roi", cmp.Rankings.ROI, "b,c,a", cmp.Best.HighestROI},
		{"irr", cmp.Rankings.IRR, "c,a,b", cmp.Best.HighestIRR},
		{"npv", cmp.Rankings.NPV, "b,a,c", cmp.Best.HighestNPV},
		{"payback", cmp.Rankings.PaybackPeriod, "c,b,a", cmp.Best.FastestPayback},
		{"margin", cmp.Rankings.ProfitMargin, "b,c,a", cmp.Best.HighestMargin},
	}
	for _, c := range cases {
		if got := order(c.entries); got != c.want {
			t.Errorf("%s: expected order %s, got %s", c.name, c.want, got)
		}
		if c.best != c.entries[0].ScenarioID {
			t.Errorf("%s: best pick %s is not the ranking head %s", c.name, c.best, c.entries[0].ScenarioID)
		}
	}

	data, err := json.Marshal(cmp)
	if err != nil {
		t.Fatalf("unexpected marshal error: %v", err)
	}
	if !strings.Contains(string(data), `"payback_period":null`) {
		t.Errorf("Expected null payback in JSON, got %s", data)
	}
}

func TestCompareEmpty(t *testing.T) {
	cmp := Compare(nil)
	if len(cmp.Summaries) != 0 || cmp.Best.HighestROI != "" {
		t.Errorf("Expected empty comparison, got %+v", cmp)
	}
}

func TestFiveYear(t *testing.T) {
	flows := make([]sales.CashFlowEntry, 72)
	for i := range flows {
		flows[i] = sales.CashFlowEntry{Month: i, TotalInflow: 100, TotalOutflow: 50, NetCashFlow: 50}
	}
	sc := &Scenario{ID: "x", Projection: sales.Projection{CashFlow: flows}}

	fy := FiveYear(sc)
	if len(fy.Years) != 5 {
		t.Fatalf("Expected 5 years, got %d", len(fy.Years))
	}

	if math.Abs(fy.Years[0].Revenue-1200) > 0.0001 {
		t.Errorf("year 1: expected revenue 1200, got %f", fy.Years[0].Revenue)
	}
	if math.Abs(fy.Years[1].Revenue-1236) > 0.0001 {
		t.Errorf("year 2: expected revenue 1236, got %f", fy.Years[1].Revenue)
	}
	for _, y := range fy.Years {
		if math.Abs(y.ROI-100) > 0.0001 {
			t.Errorf("year %d: expected ROI 100, got %f", y.Year, y.ROI)
		}
	}

	// months 60-71 are outside the window
	wantRevenue := 1200 * (1 + 1.03 + math.Pow(1.03, 2) + math.Pow(1.03, 3) + math.Pow(1.03, 4))
	if math.Abs(fy.CumulativeRevenue-wantRevenue) > 0.0001 {
		t.Errorf("Expected cumulative revenue %f, got %f", wantRevenue, fy.CumulativeRevenue)
	}
	if math.Abs(fy.CumulativeProfit-wantRevenue/2) > 0.0001 || math.Abs(fy.CumulativeCashFlow-wantRevenue/2) > 0.0001 {
		t.Errorf("Expected cumulative profit %f, got %f", wantRevenue/2, fy.CumulativeProfit)
	}
	if math.Abs(fy.CumulativeROI-100) > 0.0001 {
		t.Errorf("Expected cumulative ROI 100, got %f", fy.CumulativeROI)
	}
}

func TestFiveYearShortLedger(t *testing.T) {
	sc := &Scenario{Projection: sales.Projection{CashFlow: []sales.CashFlowEntry{
		{TotalInflow: 0, TotalOutflow: 1000, NetCashFlow: -1000},
	}}}
	fy := FiveYear(sc)
	if fy.Years[0].ROI != -100 {
		t.Errorf("year 1: expected ROI -100, got %f", fy.Years[0].ROI)
	}
	if fy.Years[4].Revenue != 0 || fy.Years[4].ROI != 0 {
		t.Errorf("year 5: expected empty bucket, got %+v", fy.Years[4])
	}
}

func TestBudgetAndFinancingOnly(t *testing.T) {
	sim := newTestSimulator()
	cfg := baseConfig()
	cfg.Region = financing.RegionCapital

	budget, err := sim.Budget(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(budget.TotalCost-1564360) > 0.0001 {
		t.Errorf("Expected total cost 1564360, got %f", budget.TotalCost)
	}

	scheme, err := sim.Financing(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(scheme.TotalAmount-budget.TotalCost) > 0.0001 {
		t.Errorf("Expected scheme on total cost, got %f", scheme.TotalAmount)
	}
	if sim.Region(cfg) != financing.RegionCapital || sim.Region(baseConfig()) != financing.RegionDefault {
		t.Error("Unexpected region resolution")
	}

	cfg.System.Roofing = "thatch"
	if _, err := sim.Budget(cfg); !errors.Is(err, construction.ErrUnknownVariant) {
		t.Errorf("Expected ErrUnknownVariant, got %v", err)
	}
}

func TestFiveYearMarkdown(t *testing.T) {
	sc := &Scenario{Projection: sales.Projection{CashFlow: []sales.CashFlowEntry{
		{TotalInflow: 200, TotalOutflow: 100, NetCashFlow: 100},
	}}}
	md := FiveYear(sc).Markdown(kpi.NewFormatter("en").Currency)
	if !strings.Contains(md, "| 1 | $200.00 | $100.00 | $100.00 | $100.00 | 100.00% |") {
		t.Errorf("Expected year 1 row, got %q", md)
	}
	if !strings.Contains(md, "| Total |") {
		t.Errorf("Expected totals row, got %q", md)
	}
}
