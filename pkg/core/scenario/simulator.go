package scenario

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"realestate_valuation/pkg/core/config"
	"realestate_valuation/pkg/core/construction"
	"realestate_valuation/pkg/core/cost"
	"realestate_valuation/pkg/core/financing"
	"realestate_valuation/pkg/core/kpi"
	"realestate_valuation/pkg/core/sales"
)

// Simplifying ratios applied when deriving KPI inputs from a simulation
const (
	EquityShareOfDirect = 0.30 // initial investment = land + 30% of direct cost
	DebtServiceRate     = 0.08 // annual debt service = loan * 8%
	OperatingMargin     = 0.70 // operating income = revenue * 70%
)

// Curve shapes used to spread the budget over the project duration
const (
	ConstructionPattern = sales.PatternBell
	IndirectPattern     = sales.PatternLinear
)

// MaintenanceSummary carries the materials lifecycle figures of a scenario
type MaintenanceSummary struct {
	AnnualMaintenance float64 `json:"annual_maintenance"`
	PerArea           float64 `json:"per_area"`
	AverageLifespan   float64 `json:"average_lifespan_years"`
}

// Scenario is the full result of one simulation. Build a new one to recompute.
type Scenario struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Type        Type   `json:"type"`
	Description string `json:"description"`

	System       construction.System         `json:"system"`
	Materials    construction.MaterialPreset `json:"materials"`
	SalesConfig  sales.Config                `json:"sales_config"`
	DiscountRate float64                     `json:"discount_rate"`

	Financing        financing.Scheme        `json:"financing"`
	FinancingSummary financing.SchemeSummary `json:"financing_summary"`
	Taxes            financing.TaxesAndFees  `json:"taxes"`
	Budget           cost.Budget             `json:"budget"`
	Projection       sales.Projection        `json:"projection"`
	KPIs             kpi.KPIs                `json:"kpis"`

	ConstructionWeeks  int                `json:"construction_weeks"`
	ConstructionMonths int                `json:"construction_months"`
	Maintenance        MaintenanceSummary `json:"maintenance"`

	CreatedAt time.Time `json:"created_at"`
}

// Simulator runs scenarios. It holds only defaults and is safe for concurrent use.
type Simulator struct {
	log          *logrus.Entry
	workers      int
	discountRate float64
	region       financing.Region
	now          func() time.Time
}

// NewSimulator creates a simulator using the worker count, default discount
// rate and default region from settings.
func NewSimulator(settings config.Settings) *Simulator {
	workers := settings.Workers
	if workers < 1 {
		workers = 1
	}
	return &Simulator{
		log:          config.ModuleLogger("scenario"),
		workers:      workers,
		discountRate: settings.DiscountRate,
		region:       financing.Region(settings.DefaultRegion),
		now:          time.Now,
	}
}

// SetClock replaces the time source used for timestamps (e.g., for testing).
func (s *Simulator) SetClock(now func() time.Time) {
	s.now = now
}

type resolved struct {
	system       construction.System
	preset       construction.MaterialPreset
	sales        sales.Config
	discountRate float64
	region       financing.Region
}

// resolve validates cfg and fills the defaults for empty fields
func (s *Simulator) resolve(cfg Config, asOf time.Time) (resolved, error) {
	if err := cfg.Validate(); err != nil {
		return resolved{}, err
	}

	r := resolved{
		system:       cfg.System,
		sales:        cfg.Sales,
		discountRate: cfg.DiscountRate,
		region:       cfg.Region,
	}

	if r.system == (construction.System{}) {
		r.system = construction.DefaultSystem()
	}
	if err := r.system.Validate(); err != nil {
		return resolved{}, fmt.Errorf("scenario %q: %w", cfg.Name, err)
	}

	quality := cfg.Quality
	if quality == "" {
		quality = construction.QualityStandard
	}
	preset, err := construction.Preset(quality)
	if err != nil {
		return resolved{}, fmt.Errorf("scenario %q: %w", cfg.Name, err)
	}
	r.preset = preset

	if r.sales.SalesStartDate.IsZero() {
		r.sales.SalesStartDate = time.Date(asOf.Year(), asOf.Month(), 1, 0, 0, 0, 0, asOf.Location())
	}
	if r.discountRate == 0 {
		r.discountRate = s.discountRate
	}
	if r.region == "" {
		r.region = s.region
	}
	return r, nil
}

func budgetFor(cfg Config, r resolved, asOf time.Time) cost.Budget {
	return cost.CalculateBudget(cost.BudgetInput{
		ProjectID:         cfg.ProjectID,
		ProjectName:       cfg.ProjectName,
		Area:              cfg.Area,
		System:            r.system,
		Materials:         r.preset,
		LandCost:          cfg.LandCost,
		LocationFactor:    cfg.LocationFactor,
		YearOffset:        cfg.YearOffset,
		IndirectOverrides: cfg.IndirectOverrides,
		AsOf:              asOf,
	})
}

// Budget runs only the cost engine for cfg
func (s *Simulator) Budget(cfg Config) (cost.Budget, error) {
	asOf := s.now()
	r, err := s.resolve(cfg, asOf)
	if err != nil {
		return cost.Budget{}, err
	}
	return budgetFor(cfg, r, asOf), nil
}

// Financing sizes the configured scheme on the budget's total cost
func (s *Simulator) Financing(cfg Config) (financing.Scheme, error) {
	budget, err := s.Budget(cfg)
	if err != nil {
		return financing.Scheme{}, err
	}
	return financing.NewScheme(cfg.Financing.resolvedType(), budget.TotalCost, cfg.Financing.resolvedTerms()), nil
}

// Region returns the tax region a config resolves to
func (s *Simulator) Region(cfg Config) financing.Region {
	if cfg.Region == "" {
		return s.region
	}
	return cfg.Region
}

// Simulate runs budget, financing, cost distribution, sales projection and
// KPIs for one config.
func (s *Simulator) Simulate(cfg Config) (*Scenario, error) {
	asOf := s.now()
	r, err := s.resolve(cfg, asOf)
	if err != nil {
		return nil, err
	}
	log := s.log.WithFields(logrus.Fields{"scenario": cfg.Name, "type": cfg.Type})
	system, preset, salesCfg := r.system, r.preset, r.sales

	// 1. Budget
	budget := budgetFor(cfg, r, asOf)
	log.WithFields(logrus.Fields{
		"total_cost":    budget.TotalCost,
		"cost_per_area": budget.CostPerArea,
	}).Debug("budget calculated")

	// 2. Financing on total cost
	scheme := financing.NewScheme(cfg.Financing.resolvedType(), budget.TotalCost, cfg.Financing.resolvedTerms())
	schemeSummary, err := financing.Summarize(scheme)
	if err != nil {
		return nil, fmt.Errorf("scenario %q: %w", cfg.Name, err)
	}

	// 3. Spread costs over the project duration
	months := salesCfg.ProjectDuration
	constructionCurve, err := sales.DistributeCosts(budget.TotalDirectCost-cfg.LandCost, months, ConstructionPattern)
	if err != nil {
		return nil, fmt.Errorf("scenario %q: %w", cfg.Name, err)
	}
	indirectCurve, err := sales.DistributeCosts(budget.TotalIndirectCost, months, IndirectPattern)
	if err != nil {
		return nil, fmt.Errorf("scenario %q: %w", cfg.Name, err)
	}

	// 4. Sales and cash flow
	projection, err := sales.GenerateProjection(salesCfg, constructionCurve, indirectCurve)
	if err != nil {
		return nil, fmt.Errorf("scenario %q: %w", cfg.Name, err)
	}
	log.WithFields(logrus.Fields{
		"total_revenue":  projection.Metrics.TotalRevenue,
		"sales_duration": projection.Metrics.SalesDuration,
	}).Debug("sales projected")

	// 5. KPIs
	revenue := projection.Metrics.TotalRevenue
	kpis := kpi.CalculateAll(kpi.Input{
		TotalRevenue:      revenue,
		TotalCost:         budget.TotalCost,
		InitialInvestment: cfg.LandCost + budget.TotalDirectCost*EquityShareOfDirect,
		CashFlows:         projection.NetCashFlows(),
		DiscountRate:      r.discountRate,
		Area:              cfg.Area,
		AnnualDebtService: scheme.LoanAmount * DebtServiceRate,
		OperatingIncome:   revenue * OperatingMargin,
	})
	if !kpis.IRRConverged {
		log.WithField("irr", kpis.IRR).Warn("IRR did not converge; reporting last estimate")
	}

	id := cfg.ID
	if id == "" {
		id = uuid.New().String()
	}

	return &Scenario{
		ID:               id,
		Name:             cfg.Name,
		Type:             cfg.Type,
		Description:      cfg.Description,
		System:           system,
		Materials:        preset,
		SalesConfig:      salesCfg,
		DiscountRate:     r.discountRate,
		Financing:        scheme,
		FinancingSummary: schemeSummary,
		Taxes:            financing.CalculateTaxesAndFees(budget.TotalCost, r.region),
		Budget:           budget,
		Projection:       projection,
		KPIs:             kpis,

		ConstructionWeeks:  system.EstimatedDurationWeeks(cfg.Area),
		ConstructionMonths: system.EstimatedDurationMonths(cfg.Area),
		Maintenance: MaintenanceSummary{
			AnnualMaintenance: preset.AnnualMaintenance(cfg.Area),
			PerArea:           preset.AverageMaintenancePerArea(),
			AverageLifespan:   preset.AverageLifespan(),
		},

		CreatedAt: asOf,
	}, nil
}

// SimulateAll runs configs on a bounded worker pool. Results keep the input
// order; the first failure cancels the remaining work.
func (s *Simulator) SimulateAll(ctx context.Context, cfgs []Config) ([]*Scenario, error) {
	results := make([]*Scenario, len(cfgs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	for i, cfg := range cfgs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			sc, err := s.Simulate(cfg)
			if err != nil {
				return err
			}
			results[i] = sc
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		config.LogError(config.GetLogger(), "scenario", "SimulateAll", "simulation failed", len(cfgs), err)
		return nil, err
	}
	return results, nil
}
