package construction

import (
	"fmt"
	"math"
)

// StructuralType selects the load-bearing system
type StructuralType string

const (
	StructuralConcreteFrame   StructuralType = "concrete_frame"
	StructuralSteelFrame      StructuralType = "steel_frame"
	StructuralWoodFrame       StructuralType = "wood_frame"
	StructuralMasonry         StructuralType = "load_bearing_masonry"
	StructuralPrecast         StructuralType = "precast_concrete"
	StructuralConfinedMasonry StructuralType = "confined_masonry"
)

// EnclosureType selects the exterior wall system
type EnclosureType string

const (
	EnclosureBrick         EnclosureType = "brick"
	EnclosureConcreteBlock EnclosureType = "concrete_block"
	EnclosureCurtainWall   EnclosureType = "curtain_wall"
	EnclosureLightFrame    EnclosureType = "light_frame"
	EnclosurePrecastPanel  EnclosureType = "precast_panel"
)

// RoofingType selects the roof system
type RoofingType string

const (
	RoofingConcreteSlab RoofingType = "concrete_slab"
	RoofingMetalDeck    RoofingType = "metal_deck"
	RoofingClayTile     RoofingType = "clay_tile"
	RoofingGreen        RoofingType = "green_roof"
	RoofingMembrane     RoofingType = "membrane"
)

// MEPType selects the mechanical, electrical and plumbing package
type MEPType string

const (
	MEPBasic          MEPType = "basic"
	MEPStandard       MEPType = "standard"
	MEPHighEfficiency MEPType = "high_efficiency"
	MEPSmart          MEPType = "smart"
	MEPSustainable    MEPType = "sustainable"
)

// ComponentSpec is the per-area cost and schedule impact of one system choice
type ComponentSpec struct {
	CostPerArea        float64 `json:"cost_per_area"`
	DurationMultiplier float64 `json:"duration_multiplier"`
}

// areaPerWeek is the floor area a crew completes in one week at multiplier 1.0
const areaPerWeek = 50.0

var structuralSpecs = map[StructuralType]ComponentSpec{
	StructuralConcreteFrame:   {CostPerArea: 250, DurationMultiplier: 1.0},
	StructuralSteelFrame:      {CostPerArea: 300, DurationMultiplier: 0.8},
	StructuralWoodFrame:       {CostPerArea: 180, DurationMultiplier: 0.7},
	StructuralMasonry:         {CostPerArea: 200, DurationMultiplier: 1.1},
	StructuralPrecast:         {CostPerArea: 270, DurationMultiplier: 0.75},
	StructuralConfinedMasonry: {CostPerArea: 190, DurationMultiplier: 1.05},
}

var enclosureSpecs = map[EnclosureType]ComponentSpec{
	EnclosureBrick:         {CostPerArea: 80, DurationMultiplier: 1.0},
	EnclosureConcreteBlock: {CostPerArea: 60, DurationMultiplier: 0.9},
	EnclosureCurtainWall:   {CostPerArea: 220, DurationMultiplier: 0.8},
	EnclosureLightFrame:    {CostPerArea: 70, DurationMultiplier: 0.7},
	EnclosurePrecastPanel:  {CostPerArea: 110, DurationMultiplier: 0.75},
}

var roofingSpecs = map[RoofingType]ComponentSpec{
	RoofingConcreteSlab: {CostPerArea: 150, DurationMultiplier: 1.0},
	RoofingMetalDeck:    {CostPerArea: 90, DurationMultiplier: 0.7},
	RoofingClayTile:     {CostPerArea: 120, DurationMultiplier: 1.1},
	RoofingGreen:        {CostPerArea: 200, DurationMultiplier: 1.2},
	RoofingMembrane:     {CostPerArea: 100, DurationMultiplier: 0.8},
}

var mepSpecs = map[MEPType]ComponentSpec{
	MEPBasic:          {CostPerArea: 100, DurationMultiplier: 0.9},
	MEPStandard:       {CostPerArea: 150, DurationMultiplier: 1.0},
	MEPHighEfficiency: {CostPerArea: 220, DurationMultiplier: 1.15},
	MEPSmart:          {CostPerArea: 280, DurationMultiplier: 1.2},
	MEPSustainable:    {CostPerArea: 250, DurationMultiplier: 1.1},
}

// System is one choice per construction category
type System struct {
	Structural StructuralType `json:"structural" yaml:"structural"`
	Enclosure  EnclosureType  `json:"enclosure" yaml:"enclosure"`
	Roofing    RoofingType    `json:"roofing" yaml:"roofing"`
	MEP        MEPType        `json:"mep" yaml:"mep"`
}

// DefaultSystem returns a conventional reinforced-concrete build
func DefaultSystem() System {
	return System{
		Structural: StructuralConcreteFrame,
		Enclosure:  EnclosureBrick,
		Roofing:    RoofingConcreteSlab,
		MEP:        MEPStandard,
	}
}

// Validate reports the first variant that has no table entry
func (s System) Validate() error {
	if _, ok := structuralSpecs[s.Structural]; !ok {
		return fmt.Errorf("%w: structural %q", ErrUnknownVariant, s.Structural)
	}
	if _, ok := enclosureSpecs[s.Enclosure]; !ok {
		return fmt.Errorf("%w: enclosure %q", ErrUnknownVariant, s.Enclosure)
	}
	if _, ok := roofingSpecs[s.Roofing]; !ok {
		return fmt.Errorf("%w: roofing %q", ErrUnknownVariant, s.Roofing)
	}
	if _, ok := mepSpecs[s.MEP]; !ok {
		return fmt.Errorf("%w: mep %q", ErrUnknownVariant, s.MEP)
	}
	return nil
}

// Components returns the four specs in structural, enclosure, roofing, MEP order.
// Unknown variants contribute a zero spec.
func (s System) Components() [4]ComponentSpec {
	return [4]ComponentSpec{
		structuralSpecs[s.Structural],
		enclosureSpecs[s.Enclosure],
		roofingSpecs[s.Roofing],
		mepSpecs[s.MEP],
	}
}

// BaseCostPerArea sums the per-area cost of the four components
func (s System) BaseCostPerArea() float64 {
	total := 0.0
	for _, c := range s.Components() {
		total += c.CostPerArea
	}
	return total
}

// AverageDurationMultiplier is the mean schedule multiplier across the four components
func (s System) AverageDurationMultiplier() float64 {
	total := 0.0
	for _, c := range s.Components() {
		total += c.DurationMultiplier
	}
	return total / 4
}

// EstimatedDurationWeeks = ceil(area / 50 * mean multiplier)
func (s System) EstimatedDurationWeeks(area float64) int {
	if area <= 0 {
		return 0
	}
	return int(math.Ceil(area / areaPerWeek * s.AverageDurationMultiplier()))
}

// EstimatedDurationMonths converts the week estimate using an average month of 52/12 weeks
func (s System) EstimatedDurationMonths(area float64) int {
	weeks := s.EstimatedDurationWeeks(area)
	return int(math.Ceil(float64(weeks) * 12 / 52))
}

// LookupStructural returns the table entry for a structural variant
func LookupStructural(t StructuralType) (ComponentSpec, bool) {
	spec, ok := structuralSpecs[t]
	return spec, ok
}

// LookupEnclosure returns the table entry for an enclosure variant
func LookupEnclosure(t EnclosureType) (ComponentSpec, bool) {
	spec, ok := enclosureSpecs[t]
	return spec, ok
}

// LookupRoofing returns the table entry for a roofing variant
func LookupRoofing(t RoofingType) (ComponentSpec, bool) {
	spec, ok := roofingSpecs[t]
	return spec, ok
}

// LookupMEP returns the table entry for an MEP variant
func LookupMEP(t MEPType) (ComponentSpec, bool) {
	spec, ok := mepSpecs[t]
	return spec, ok
}
