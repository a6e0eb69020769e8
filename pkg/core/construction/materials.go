package construction

import (
	"errors"
	"fmt"
)

// ErrUnknownVariant is returned when a selection has no entry in the static tables
var ErrUnknownVariant = errors.New("unknown construction variant")

// BaseMaterialCostPerArea is the material cost per unit area at multiplier 1.0
const BaseMaterialCostPerArea = 200.0

// QualityLevel drives the material cost multiplier
type QualityLevel string

const (
	QualityBasic    QualityLevel = "basic"
	QualityStandard QualityLevel = "standard"
	QualityPremium  QualityLevel = "premium"
	QualityLuxury   QualityLevel = "luxury"
	QualityEco      QualityLevel = "eco"
)

// MaterialCategory is one finish or installation category
type MaterialCategory string

const (
	CategoryFlooring   MaterialCategory = "flooring"
	CategoryWalls      MaterialCategory = "walls"
	CategoryCeilings   MaterialCategory = "ceilings"
	CategoryDoors      MaterialCategory = "doors"
	CategoryWindows    MaterialCategory = "windows"
	CategoryKitchen    MaterialCategory = "kitchen"
	CategoryBathroom   MaterialCategory = "bathroom"
	CategoryLighting   MaterialCategory = "lighting"
	CategoryHVAC       MaterialCategory = "hvac"
	CategoryPlumbing   MaterialCategory = "plumbing"
	CategoryElectrical MaterialCategory = "electrical"
	CategoryExterior   MaterialCategory = "exterior"
)

// Categories lists every material category in presentation order
var Categories = []MaterialCategory{
	CategoryFlooring, CategoryWalls, CategoryCeilings, CategoryDoors,
	CategoryWindows, CategoryKitchen, CategoryBathroom, CategoryLighting,
	CategoryHVAC, CategoryPlumbing, CategoryElectrical, CategoryExterior,
}

// Material is the chosen product for one category
type Material struct {
	Name              string           `json:"name"`
	Category          MaterialCategory `json:"category"`
	UnitCost          float64          `json:"unit_cost"`
	DurabilityYears   float64          `json:"durability_years"`
	AnnualMaintenance float64          `json:"annual_maintenance"` // per unit area
}

// MaterialPreset bundles one material per category under a quality level
type MaterialPreset struct {
	Quality        QualityLevel                  `json:"quality"`
	CostMultiplier float64                       `json:"cost_multiplier"`
	Materials      map[MaterialCategory]Material `json:"materials"`
}

type qualityProfile struct {
	costMultiplier    float64
	durabilityFactor  float64
	maintenanceFactor float64
	nameSuffix        string
}

var qualityProfiles = map[QualityLevel]qualityProfile{
	QualityBasic:    {costMultiplier: 0.7, durabilityFactor: 0.7, maintenanceFactor: 1.3, nameSuffix: "economy"},
	QualityStandard: {costMultiplier: 1.0, durabilityFactor: 1.0, maintenanceFactor: 1.0, nameSuffix: "standard"},
	QualityPremium:  {costMultiplier: 1.5, durabilityFactor: 1.3, maintenanceFactor: 0.8, nameSuffix: "premium"},
	QualityLuxury:   {costMultiplier: 2.2, durabilityFactor: 1.5, maintenanceFactor: 0.9, nameSuffix: "luxury"},
	QualityEco:      {costMultiplier: 1.3, durabilityFactor: 1.2, maintenanceFactor: 0.7, nameSuffix: "eco-certified"},
}

// standard-grade reference materials, scaled by the quality profile
var referenceMaterials = map[MaterialCategory]Material{
	CategoryFlooring:   {Name: "ceramic tile", UnitCost: 25, DurabilityYears: 20, AnnualMaintenance: 0.8},
	CategoryWalls:      {Name: "painted plaster", UnitCost: 12, DurabilityYears: 15, AnnualMaintenance: 0.5},
	CategoryCeilings:   {Name: "gypsum board", UnitCost: 10, DurabilityYears: 20, AnnualMaintenance: 0.3},
	CategoryDoors:      {Name: "solid core door", UnitCost: 15, DurabilityYears: 25, AnnualMaintenance: 0.4},
	CategoryWindows:    {Name: "aluminum double glazing", UnitCost: 20, DurabilityYears: 30, AnnualMaintenance: 0.5},
	CategoryKitchen:    {Name: "laminate cabinetry", UnitCost: 30, DurabilityYears: 15, AnnualMaintenance: 1.0},
	CategoryBathroom:   {Name: "vitreous fixtures", UnitCost: 25, DurabilityYears: 20, AnnualMaintenance: 0.9},
	CategoryLighting:   {Name: "led fixtures", UnitCost: 8, DurabilityYears: 12, AnnualMaintenance: 0.3},
	CategoryHVAC:       {Name: "split units", UnitCost: 20, DurabilityYears: 15, AnnualMaintenance: 1.2},
	CategoryPlumbing:   {Name: "pvc and copper", UnitCost: 12, DurabilityYears: 30, AnnualMaintenance: 0.6},
	CategoryElectrical: {Name: "copper wiring", UnitCost: 10, DurabilityYears: 30, AnnualMaintenance: 0.4},
	CategoryExterior:   {Name: "cement render", UnitCost: 13, DurabilityYears: 20, AnnualMaintenance: 0.7},
}

// Preset builds the material preset for a quality level
func Preset(level QualityLevel) (MaterialPreset, error) {
	profile, ok := qualityProfiles[level]
	if !ok {
		return MaterialPreset{}, fmt.Errorf("%w: quality %q", ErrUnknownVariant, level)
	}

	materials := make(map[MaterialCategory]Material, len(referenceMaterials))
	for category, ref := range referenceMaterials {
		materials[category] = Material{
			Name:              ref.Name + " (" + profile.nameSuffix + ")",
			Category:          category,
			UnitCost:          ref.UnitCost * profile.costMultiplier,
			DurabilityYears:   ref.DurabilityYears * profile.durabilityFactor,
			AnnualMaintenance: ref.AnnualMaintenance * profile.maintenanceFactor,
		}
	}

	return MaterialPreset{
		Quality:        level,
		CostMultiplier: profile.costMultiplier,
		Materials:      materials,
	}, nil
}

// MaterialsCost = 200 * multiplier * area
func MaterialsCost(preset MaterialPreset, area float64) float64 {
	return BaseMaterialCostPerArea * preset.CostMultiplier * area
}

// AverageMaintenancePerArea is the mean annual maintenance across categories
func (p MaterialPreset) AverageMaintenancePerArea() float64 {
	if len(p.Materials) == 0 {
		return 0
	}
	total := 0.0
	for _, category := range Categories {
		total += p.Materials[category].AnnualMaintenance
	}
	return total / float64(len(p.Materials))
}

// AnnualMaintenance estimates the yearly upkeep for the whole area
func (p MaterialPreset) AnnualMaintenance(area float64) float64 {
	return p.AverageMaintenancePerArea() * area
}

// AverageLifespan is the mean durability in years across categories
func (p MaterialPreset) AverageLifespan() float64 {
	if len(p.Materials) == 0 {
		return 0
	}
	total := 0.0
	for _, category := range Categories {
		total += p.Materials[category].DurabilityYears
	}
	return total / float64(len(p.Materials))
}
