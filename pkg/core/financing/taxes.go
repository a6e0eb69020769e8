package financing

import (
	"github.com/shopspring/decimal"
)

// Region selects a regional tax model
type Region string

const (
	RegionDefault  Region = "default"
	RegionCapital  Region = "capital"
	RegionUrban    Region = "urban"
	RegionSuburban Region = "suburban"
	RegionRural    Region = "rural"
	RegionCoastal  Region = "coastal"
)

// TaxModel holds the one-time transaction rates (percent of property value)
type TaxModel struct {
	PropertyTaxRate  float64 `json:"property_tax_rate"`
	TransferTaxRate  float64 `json:"transfer_tax_rate"`
	VATRate          float64 `json:"vat_rate"`
	NotaryFeeRate    float64 `json:"notary_fee_rate"`
	RegistrationRate float64 `json:"registration_rate"`
}

// illustrative rates, not a statement of any jurisdiction's tax law
var taxModels = map[Region]TaxModel{
	RegionDefault:  {PropertyTaxRate: 0.9, TransferTaxRate: 3.0, VATRate: 12.0, NotaryFeeRate: 1.0, RegistrationRate: 0.3},
	RegionCapital:  {PropertyTaxRate: 1.2, TransferTaxRate: 4.0, VATRate: 12.0, NotaryFeeRate: 1.5, RegistrationRate: 0.5},
	RegionUrban:    {PropertyTaxRate: 1.0, TransferTaxRate: 3.5, VATRate: 12.0, NotaryFeeRate: 1.2, RegistrationRate: 0.4},
	RegionSuburban: {PropertyTaxRate: 0.8, TransferTaxRate: 3.0, VATRate: 12.0, NotaryFeeRate: 1.0, RegistrationRate: 0.3},
	RegionRural:    {PropertyTaxRate: 0.5, TransferTaxRate: 2.0, VATRate: 10.0, NotaryFeeRate: 0.8, RegistrationRate: 0.2},
	RegionCoastal:  {PropertyTaxRate: 1.1, TransferTaxRate: 3.5, VATRate: 12.0, NotaryFeeRate: 1.2, RegistrationRate: 0.4},
}

// TaxesAndFees are the one-time charges on a property transaction, rounded to cents
type TaxesAndFees struct {
	Region           Region  `json:"region"`
	PropertyValue    float64 `json:"property_value"`
	PropertyTax      float64 `json:"property_tax"`
	TransferTax      float64 `json:"transfer_tax"`
	VAT              float64 `json:"vat"`
	NotaryFees       float64 `json:"notary_fees"`
	RegistrationFees float64 `json:"registration_fees"`
	Total            float64 `json:"total"`
}

// LookupTaxModel returns the model for a region and whether it was found
func LookupTaxModel(region Region) (TaxModel, bool) {
	m, ok := taxModels[region]
	return m, ok
}

// CalculateTaxesAndFees applies the region's rates; unknown regions use RegionDefault
func CalculateTaxesAndFees(propertyValue float64, region Region) TaxesAndFees {
	model, ok := taxModels[region]
	if !ok {
		region = RegionDefault
		model = taxModels[RegionDefault]
	}

	value := decimal.NewFromFloat(propertyValue)
	hundred := decimal.NewFromInt(100)
	apply := func(rate float64) decimal.Decimal {
		return value.Mul(decimal.NewFromFloat(rate)).DivRound(hundred, 4).Round(2)
	}

	propertyTax := apply(model.PropertyTaxRate)
	transferTax := apply(model.TransferTaxRate)
	vat := apply(model.VATRate)
	notary := apply(model.NotaryFeeRate)
	registration := apply(model.RegistrationRate)
	total := propertyTax.Add(transferTax).Add(vat).Add(notary).Add(registration)

	return TaxesAndFees{
		Region:           region,
		PropertyValue:    propertyValue,
		PropertyTax:      propertyTax.InexactFloat64(),
		TransferTax:      transferTax.InexactFloat64(),
		VAT:              vat.InexactFloat64(),
		NotaryFees:       notary.InexactFloat64(),
		RegistrationFees: registration.InexactFloat64(),
		Total:            total.InexactFloat64(),
	}
}
