package sales

import (
	"errors"
	"math"
	"testing"
	"time"
)

func baseConfig() Config {
	return Config{
		TotalUnits:        50,
		UnitPrice:         100000,
		SalesStartDate:    time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		SalesVelocity:     4,
		PriceIncreaseRate: 6,
		ReservationFeePct: 5,
		DownPaymentPct:    25,
		InstallmentMonths: 12,
		ProjectDuration:   24,
	}
}

func TestDistributeCostsLinear(t *testing.T) {
	curve, err := DistributeCosts(120, 3, PatternLinear)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []float64{40, 40, 40}
	for i := range want {
		if curve[i] != want[i] {
			t.Errorf("month %d: expected %f, got %f", i, want[i], curve[i])
		}
	}
}

func TestDistributeCostsSumPreserved(t *testing.T) {
	patterns := []Pattern{PatternLinear, PatternFrontloaded, PatternBackloaded, PatternBell}
	for _, p := range patterns {
		for _, months := range []int{1, 7, 24, 37} {
			curve, err := DistributeCosts(1234567.89, months, p)
			if err != nil {
				t.Fatalf("%s: unexpected error: %v", p, err)
			}
			sum := 0.0
			for _, v := range curve {
				sum += v
			}
			if math.Abs(sum-1234567.89) > 1e-6 {
				t.Errorf("%s/%d: expected sum 1234567.89, got %f", p, months, sum)
			}
		}
	}
}

func TestDistributeCostsShapes(t *testing.T) {
	front, _ := DistributeCosts(100, 10, PatternFrontloaded)
	if front[0] <= front[9] {
		t.Errorf("frontloaded: expected first > last, got %f <= %f", front[0], front[9])
	}

	back, _ := DistributeCosts(100, 10, PatternBackloaded)
	if back[0] >= back[9] {
		t.Errorf("backloaded: expected first < last, got %f >= %f", back[0], back[9])
	}

	bell, _ := DistributeCosts(100, 11, PatternBell)
	if bell[5] <= bell[0] || bell[5] <= bell[10] {
		t.Errorf("bell: expected peak mid-schedule, got %v", bell)
	}
	if math.Abs(bell[0]-bell[10]) > 1e-9 {
		t.Errorf("bell: expected symmetric tails, got %f and %f", bell[0], bell[10])
	}
}

func TestDistributeCostsEdgeCases(t *testing.T) {
	curve, err := DistributeCosts(100, 0, PatternLinear)
	if err != nil || len(curve) != 0 {
		t.Errorf("Expected empty curve, got %v (%v)", curve, err)
	}
	if _, err := DistributeCosts(100, 3, "spiky"); err == nil {
		t.Error("Expected error for unknown pattern")
	}
}

func TestNormalizeLength(t *testing.T) {
	got := NormalizeLength([]float64{1, 2}, 5)
	want := []float64{1, 2, 1, 2, 1}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("cycle: index %d expected %f, got %f", i, want[i], got[i])
		}
	}

	got = NormalizeLength([]float64{1, 2, 3, 4}, 2)
	if len(got) != 2 || got[1] != 2 {
		t.Errorf("truncate: got %v", got)
	}

	got = NormalizeLength(nil, 3)
	if len(got) != 3 || got[0] != 0 {
		t.Errorf("empty: got %v", got)
	}
}

func TestAddMonths(t *testing.T) {
	start := time.Date(2025, 11, 15, 0, 0, 0, 0, time.UTC)
	got := AddMonths(start, 3)
	if got.Year() != 2026 || got.Month() != time.February || got.Day() != 15 {
		t.Errorf("Expected 2026-02-15, got %v", got)
	}
}

func TestGenerateProjectionConservation(t *testing.T) {
	cfg := baseConfig()
	p, err := GenerateProjection(cfg, []float64{150000}, []float64{20000})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(p.MonthlySales) != cfg.ProjectDuration || len(p.CashFlow) != cfg.ProjectDuration {
		t.Fatalf("Expected %d months, got %d / %d", cfg.ProjectDuration, len(p.MonthlySales), len(p.CashFlow))
	}

	prev := 0
	for _, s := range p.MonthlySales {
		if s.CumulativeUnitsSold < prev {
			t.Errorf("month %d: cumulative units decreased", s.Month)
		}
		if s.CumulativeUnitsSold > cfg.TotalUnits {
			t.Errorf("month %d: cumulative units %d exceed total", s.Month, s.CumulativeUnitsSold)
		}
		prev = s.CumulativeUnitsSold
	}

	// 50 units at 4/month: 12 full months + 2 units in month 12
	if p.MonthlySales[12].UnitsSold != 2 {
		t.Errorf("Expected 2 units in month 12, got %d", p.MonthlySales[12].UnitsSold)
	}
	// sell-out happens in month index 12
	if p.Metrics.SalesDuration != 12 {
		t.Errorf("Expected sales duration 12, got %d", p.Metrics.SalesDuration)
	}
}

func TestGenerateProjectionCashFlowAccumulation(t *testing.T) {
	p, err := GenerateProjection(baseConfig(), []float64{150000, 90000, 30000}, []float64{20000})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if p.CashFlow[0].CumulativeCashFlow != p.CashFlow[0].NetCashFlow {
		t.Error("month 0 cumulative must equal its net flow")
	}
	for m := 1; m < len(p.CashFlow); m++ {
		if p.CashFlow[m].CumulativeCashFlow != p.CashFlow[m-1].CumulativeCashFlow+p.CashFlow[m].NetCashFlow {
			t.Errorf("month %d: cumulative does not accumulate exactly", m)
		}
	}
}

func TestGenerateProjectionRevenue(t *testing.T) {
	cfg := baseConfig()
	cfg.PriceIncreaseRate = 0
	cfg.InstallmentMonths = 2
	cfg.ProjectDuration = 3
	p, err := GenerateProjection(cfg, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// month 0: 4 units * 100000 * 30% up front, no installments yet
	m0 := p.MonthlySales[0]
	if math.Abs(m0.MonthlyRevenue-120000) > 0.0001 {
		t.Errorf("month 0: expected revenue 120000, got %f", m0.MonthlyRevenue)
	}
	// month 1: up front 120000 + installments from month 0 (400000 * 70% / 2 = 140000)
	m1 := p.MonthlySales[1]
	if math.Abs(m1.InstallmentRevenue-140000) > 0.0001 {
		t.Errorf("month 1: expected installments 140000, got %f", m1.InstallmentRevenue)
	}
	// month 2: installments from months 0 and 1
	m2 := p.MonthlySales[2]
	if math.Abs(m2.InstallmentRevenue-280000) > 0.0001 {
		t.Errorf("month 2: expected installments 280000, got %f", m2.InstallmentRevenue)
	}
	if math.Abs(p.Metrics.TotalRevenue-(120000+260000+400000)) > 0.0001 {
		t.Errorf("Expected total revenue 780000, got %f", p.Metrics.TotalRevenue)
	}
	// 12/50 = 24% absorption over 3 months
	if math.Abs(p.Metrics.AverageAbsorptionRate-8) > 0.0001 {
		t.Errorf("Expected average absorption 8, got %f", p.Metrics.AverageAbsorptionRate)
	}
}

func TestGenerateProjectionPriceEscalation(t *testing.T) {
	cfg := baseConfig()
	cfg.PriceIncreaseRate = 12
	p, _ := GenerateProjection(cfg, nil, nil)

	if math.Abs(p.MonthlySales[12].UnitPrice-112000) > 0.001 {
		t.Errorf("Expected month 12 price 112000, got %f", p.MonthlySales[12].UnitPrice)
	}
}

func TestGenerateProjectionBreakEven(t *testing.T) {
	cfg := baseConfig()
	construction, _ := DistributeCosts(3000000, cfg.ProjectDuration, PatternFrontloaded)
	p, err := GenerateProjection(cfg, construction, []float64{20000})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Metrics.BreakEvenMonth == nil {
		t.Fatal("Expected a break-even month")
	}

	be := *p.Metrics.BreakEvenMonth
	if be == 0 {
		t.Error("break-even cannot be month 0")
	}
	if p.CashFlow[be].CumulativeCashFlow < 0 {
		t.Errorf("month %d: cumulative %f is negative", be, p.CashFlow[be].CumulativeCashFlow)
	}
	for m := 1; m < be; m++ {
		if p.CashFlow[m].CumulativeCashFlow >= 0 {
			t.Errorf("month %d already broke even before %d", m, be)
		}
	}
	if !p.Metrics.BreakEvenDate.Equal(p.CashFlow[be].Date) {
		t.Errorf("break-even date %v does not match ledger %v", p.Metrics.BreakEvenDate, p.CashFlow[be].Date)
	}

	if p.CashFlow[0].CumulativeCashFlow >= 0 {
		t.Errorf("Expected negative opening month, got %f", p.CashFlow[0].CumulativeCashFlow)
	}

	again, _ := GenerateProjection(cfg, construction, []float64{20000})
	if *again.Metrics.BreakEvenMonth != be {
		t.Errorf("Expected deterministic break-even %d, got %d", be, *again.Metrics.BreakEvenMonth)
	}
}

func TestGenerateProjectionNeverBreaksEven(t *testing.T) {
	p, _ := GenerateProjection(baseConfig(), []float64{1e9}, nil)
	if p.Metrics.BreakEvenMonth != nil || p.Metrics.BreakEvenDate != nil {
		t.Errorf("Expected no break-even, got %+v", p.Metrics)
	}
}

func TestGenerateProjectionZeroUnits(t *testing.T) {
	cfg := baseConfig()
	cfg.TotalUnits = 0
	p, err := GenerateProjection(cfg, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Metrics.TotalRevenue != 0 || p.Metrics.AverageAbsorptionRate != 0 {
		t.Errorf("Expected zero metrics, got %+v", p.Metrics)
	}
	if p.Metrics.SalesDuration != cfg.ProjectDuration {
		t.Errorf("Expected full duration, got %d", p.Metrics.SalesDuration)
	}
}

func TestGenerateProjectionPreconditions(t *testing.T) {
	cfg := baseConfig()
	cfg.ReservationFeePct = 40
	cfg.DownPaymentPct = 70
	if _, err := GenerateProjection(cfg, nil, nil); !errors.Is(err, ErrPercentagesExceed100) {
		t.Errorf("Expected ErrPercentagesExceed100, got %v", err)
	}

	cfg = baseConfig()
	cfg.ProjectDuration = 0
	if _, err := GenerateProjection(cfg, nil, nil); err == nil {
		t.Error("Expected validation error for zero duration")
	}
}
