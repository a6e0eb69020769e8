package cost

import (
	"time"

	"realestate_valuation/pkg/core/construction"
)

// DirectCostType identifies a cost tied 1:1 to the physical build
type DirectCostType string

const (
	DirectLand         DirectCostType = "land"
	DirectConstruction DirectCostType = "construction"
	DirectMaterials    DirectCostType = "materials"
	DirectLabor        DirectCostType = "labor"
	DirectEquipment    DirectCostType = "equipment"
	DirectPermits      DirectCostType = "permits"
)

// IndirectCostType identifies a cost expressed as a percentage of total direct cost
type IndirectCostType string

const (
	IndirectDesign            IndirectCostType = "design"
	IndirectEngineering       IndirectCostType = "engineering"
	IndirectProjectManagement IndirectCostType = "project_management"
	IndirectSupervision       IndirectCostType = "supervision"
	IndirectLegal             IndirectCostType = "legal"
	IndirectMarketing         IndirectCostType = "marketing"
	IndirectFinancing         IndirectCostType = "financing"
	IndirectInsurance         IndirectCostType = "insurance"
	IndirectTaxes             IndirectCostType = "taxes"
	IndirectContingency       IndirectCostType = "contingency"
)

// Ratios of adjusted construction cost
const (
	LaborRatio     = 0.40
	EquipmentRatio = 0.15
	PermitsRatio   = 0.05
)

// IndirectCostTypes lists the indirect categories in budget order
var IndirectCostTypes = []IndirectCostType{
	IndirectDesign, IndirectEngineering, IndirectProjectManagement, IndirectSupervision,
	IndirectLegal, IndirectMarketing, IndirectFinancing, IndirectInsurance,
	IndirectTaxes, IndirectContingency,
}

var defaultIndirectPercentages = map[IndirectCostType]float64{
	IndirectDesign:            3.0,
	IndirectEngineering:       2.5,
	IndirectProjectManagement: 5.0,
	IndirectSupervision:       4.0,
	IndirectLegal:             1.5,
	IndirectMarketing:         2.0,
	IndirectFinancing:         3.5,
	IndirectInsurance:         1.0,
	IndirectTaxes:             2.0,
	IndirectContingency:       5.0,
}

// cost escalation keyed by years from today
var inflationFactors = map[int]float64{
	0: 1.00,
	1: 1.03,
	2: 1.06,
	3: 1.09,
	4: 1.12,
	5: 1.15,
}

// DefaultIndirectPercentage returns the default percentage for an indirect category
func DefaultIndirectPercentage(t IndirectCostType) float64 {
	return defaultIndirectPercentages[t]
}

// DefaultIndirectPercentages returns a copy of the default table
func DefaultIndirectPercentages() map[IndirectCostType]float64 {
	out := make(map[IndirectCostType]float64, len(defaultIndirectPercentages))
	for k, v := range defaultIndirectPercentages {
		out[k] = v
	}
	return out
}

// InflationFactor resolves a year offset; offsets outside the table are 1.0
func InflationFactor(yearOffset int) float64 {
	if f, ok := inflationFactors[yearOffset]; ok {
		return f
	}
	return 1.0
}

// DirectCost is one direct budget line
type DirectCost struct {
	Type        DirectCostType `json:"type"`
	Description string         `json:"description"`
	Amount      float64        `json:"amount"`
}

// IndirectCost is one indirect budget line
type IndirectCost struct {
	Type        IndirectCostType `json:"type"`
	Description string           `json:"description"`
	Percentage  float64          `json:"percentage"`
	Amount      float64          `json:"amount"`
}

// Budget is the complete cost breakdown for one project
type Budget struct {
	ProjectID         string         `json:"project_id"`
	ProjectName       string         `json:"project_name"`
	TotalArea         float64        `json:"total_area"`
	DirectCosts       []DirectCost   `json:"direct_costs"`
	IndirectCosts     []IndirectCost `json:"indirect_costs"`
	TotalDirectCost   float64        `json:"total_direct_cost"`
	TotalIndirectCost float64        `json:"total_indirect_cost"`
	TotalCost         float64        `json:"total_cost"`
	CostPerArea       float64        `json:"cost_per_area"`
	LocationFactor    float64        `json:"location_factor"`
	InflationFactor   float64        `json:"inflation_factor"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
}

// Direct returns the amount of a direct line (0 when absent)
func (b Budget) Direct(t DirectCostType) float64 {
	for _, c := range b.DirectCosts {
		if c.Type == t {
			return c.Amount
		}
	}
	return 0
}

// Indirect returns the amount of an indirect line (0 when absent)
func (b Budget) Indirect(t IndirectCostType) float64 {
	for _, c := range b.IndirectCosts {
		if c.Type == t {
			return c.Amount
		}
	}
	return 0
}

// BudgetInput encapsulates all inputs for CalculateBudget
type BudgetInput struct {
	ProjectID      string
	ProjectName    string
	Area           float64
	System         construction.System
	Materials      construction.MaterialPreset
	LandCost       float64
	LocationFactor float64 // 0 means 1.0
	YearOffset     int

	// Percentages (0-100) replacing the defaults per category
	IndirectOverrides map[IndirectCostType]float64

	// Timestamp for CreatedAt/UpdatedAt; zero means now
	AsOf time.Time
}

// CalculateBudget builds the direct and indirect breakdown and totals.
// Inputs are not validated; negative values propagate into the totals.
func CalculateBudget(input BudgetInput) Budget {
	locationFactor := input.LocationFactor
	if locationFactor == 0 {
		locationFactor = 1.0
	}
	inflation := InflationFactor(input.YearOffset)

	// 1. Adjusted construction and materials
	construct := input.System.BaseCostPerArea() * input.Area * locationFactor * inflation
	materials := construction.MaterialsCost(input.Materials, input.Area) * locationFactor * inflation

	// 2. Derived direct costs
	labor := construct * LaborRatio
	equipment := construct * EquipmentRatio
	permits := construct * PermitsRatio

	direct := []DirectCost{
		{Type: DirectLand, Description: "Land acquisition", Amount: input.LandCost},
		{Type: DirectConstruction, Description: "Structure, enclosure, roofing and MEP", Amount: construct},
		{Type: DirectMaterials, Description: "Finishes (" + string(input.Materials.Quality) + ")", Amount: materials},
		{Type: DirectLabor, Description: "Labor", Amount: labor},
		{Type: DirectEquipment, Description: "Equipment", Amount: equipment},
		{Type: DirectPermits, Description: "Permits and licenses", Amount: permits},
	}

	totalDirect := 0.0
	for _, c := range direct {
		totalDirect += c.Amount
	}

	// 3. Indirect costs as a percentage of total direct
	indirect := make([]IndirectCost, 0, len(IndirectCostTypes))
	totalIndirect := 0.0
	for _, t := range IndirectCostTypes {
		pct := defaultIndirectPercentages[t]
		if override, ok := input.IndirectOverrides[t]; ok {
			pct = override
		}
		amount := totalDirect * pct / 100
		indirect = append(indirect, IndirectCost{
			Type:        t,
			Description: indirectDescriptions[t],
			Percentage:  pct,
			Amount:      amount,
		})
		totalIndirect += amount
	}

	// 4. Totals
	total := totalDirect + totalIndirect
	perArea := 0.0
	if input.Area > 0 {
		perArea = total / input.Area
	}

	asOf := input.AsOf
	if asOf.IsZero() {
		asOf = time.Now()
	}

	return Budget{
		ProjectID:         input.ProjectID,
		ProjectName:       input.ProjectName,
		TotalArea:         input.Area,
		DirectCosts:       direct,
		IndirectCosts:     indirect,
		TotalDirectCost:   totalDirect,
		TotalIndirectCost: totalIndirect,
		TotalCost:         total,
		CostPerArea:       perArea,
		LocationFactor:    locationFactor,
		InflationFactor:   inflation,
		CreatedAt:         asOf,
		UpdatedAt:         asOf,
	}
}

var indirectDescriptions = map[IndirectCostType]string{
	IndirectDesign:            "Architectural design",
	IndirectEngineering:       "Structural and MEP engineering",
	IndirectProjectManagement: "Project management",
	IndirectSupervision:       "Site supervision",
	IndirectLegal:             "Legal and notary",
	IndirectMarketing:         "Marketing and sales",
	IndirectFinancing:         "Financing costs",
	IndirectInsurance:         "Insurance",
	IndirectTaxes:             "Taxes",
	IndirectContingency:       "Contingency",
}
