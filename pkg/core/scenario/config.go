package scenario

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"realestate_valuation/pkg/core/construction"
	"realestate_valuation/pkg/core/cost"
	"realestate_valuation/pkg/core/financing"
	"realestate_valuation/pkg/core/sales"
	"realestate_valuation/pkg/core/utils"
)

// Type is the risk profile of a scenario
type Type string

const (
	TypeOptimistic  Type = "optimistic"
	TypeRealistic   Type = "realistic"
	TypePessimistic Type = "pessimistic"
	TypeCustom      Type = "custom"
)

// Types lists the profiles in display order
var Types = []Type{TypeOptimistic, TypeRealistic, TypePessimistic, TypeCustom}

// FinancingConfig selects the scheme built on the budget's total cost.
// All-zero Terms mean financing.DefaultTerms().
type FinancingConfig struct {
	Type  financing.Type  `json:"type" yaml:"type"`
	Terms financing.Terms `json:"terms" yaml:"terms"`
}

// Config is everything needed to simulate one scenario
type Config struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Type        Type   `json:"type" yaml:"type"`
	Description string `json:"description" yaml:"description"`

	ProjectID   string `json:"project_id" yaml:"project_id"`
	ProjectName string `json:"project_name" yaml:"project_name"`

	Area              float64                           `json:"area" yaml:"area" validate:"gte=0"`
	System            construction.System               `json:"system" yaml:"system"`
	Quality           construction.QualityLevel         `json:"quality" yaml:"quality"`
	LandCost          float64                           `json:"land_cost" yaml:"land_cost"`
	LocationFactor    float64                           `json:"location_factor" yaml:"location_factor" validate:"gte=0"`
	YearOffset        int                               `json:"year_offset" yaml:"year_offset" validate:"gte=0"`
	IndirectOverrides map[cost.IndirectCostType]float64 `json:"indirect_overrides,omitempty" yaml:"indirect_overrides"`

	Financing FinancingConfig `json:"financing" yaml:"financing"`
	Sales     sales.Config    `json:"sales" yaml:"sales"`

	DiscountRate float64          `json:"discount_rate" yaml:"discount_rate"` // annual %, 0 uses the simulator default
	Region       financing.Region `json:"region" yaml:"region"`
}

// overrides are the knobs a predefined profile sets
type overrides struct {
	SalesVelocity     int
	PriceIncreaseRate float64
	ProjectDuration   int
	InterestRate      float64
	DownPaymentPct    float64
	LocationFactor    float64
	DiscountRate      float64
}

var predefined = map[Type]overrides{
	TypeOptimistic: {
		SalesVelocity:     8,
		PriceIncreaseRate: 8,
		ProjectDuration:   24,
		InterestRate:      7.5,
		DownPaymentPct:    30,
		LocationFactor:    0.95,
		DiscountRate:      10,
	},
	TypeRealistic: {
		SalesVelocity:     5,
		PriceIncreaseRate: 5,
		ProjectDuration:   36,
		InterestRate:      8.5,
		DownPaymentPct:    20,
		LocationFactor:    1.0,
		DiscountRate:      12,
	},
	TypePessimistic: {
		SalesVelocity:     3,
		PriceIncreaseRate: 2,
		ProjectDuration:   48,
		InterestRate:      10,
		DownPaymentPct:    15,
		LocationFactor:    1.1,
		DiscountRate:      15,
	},
}

// CreatePredefined lays a profile's fixed overrides over base. Custom (and any
// type without a profile) keeps base as is. An empty ID gets a fresh uuid.
func CreatePredefined(typ Type, base Config) Config {
	cfg := base
	cfg.Type = typ
	if base.IndirectOverrides != nil {
		cfg.IndirectOverrides = make(map[cost.IndirectCostType]float64, len(base.IndirectOverrides))
		for k, v := range base.IndirectOverrides {
			cfg.IndirectOverrides[k] = v
		}
	}

	if o, ok := predefined[typ]; ok {
		cfg.Financing.Terms = cfg.Financing.resolvedTerms()

		cfg.Sales.SalesVelocity = o.SalesVelocity
		cfg.Sales.PriceIncreaseRate = o.PriceIncreaseRate
		cfg.Sales.ProjectDuration = o.ProjectDuration
		cfg.Financing.Terms.InterestRate = o.InterestRate
		cfg.Financing.Terms.DownPaymentPct = o.DownPaymentPct
		cfg.LocationFactor = o.LocationFactor
		cfg.DiscountRate = o.DiscountRate
	}

	if cfg.Name == "" {
		cfg.Name = displayName(typ)
	}
	if cfg.ID == "" {
		cfg.ID = uuid.New().String()
	}
	return cfg
}

// PredefinedSet builds the optimistic, realistic and pessimistic variants of base
func PredefinedSet(base Config) []Config {
	out := make([]Config, 0, 3)
	for _, typ := range []Type{TypeOptimistic, TypeRealistic, TypePessimistic} {
		b := base
		b.ID, b.Name = "", ""
		out = append(out, CreatePredefined(typ, b))
	}
	return out
}

func displayName(typ Type) string {
	if typ == "" {
		return "Custom"
	}
	return strings.ToUpper(string(typ[:1])) + string(typ[1:])
}

func (f FinancingConfig) resolvedTerms() financing.Terms {
	if f.Terms == (financing.Terms{}) {
		return financing.DefaultTerms()
	}
	return f.Terms
}

func (f FinancingConfig) resolvedType() financing.Type {
	if f.Type == "" {
		return financing.TypeConstructionLoan
	}
	return f.Type
}

// Validate checks the enum fields and struct bounds. Sales and financing
// preconditions are checked where they are used.
func (c Config) Validate() error {
	if err := utils.ValidateStruct(c); err != nil {
		return fmt.Errorf("scenario %q: %w", c.Name, err)
	}
	switch c.Type {
	case "", TypeOptimistic, TypeRealistic, TypePessimistic, TypeCustom:
	default:
		return fmt.Errorf("%w: scenario type %q", construction.ErrUnknownVariant, c.Type)
	}
	return nil
}
