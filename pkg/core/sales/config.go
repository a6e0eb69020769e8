package sales

import (
	"errors"
	"fmt"
	"time"

	"realestate_valuation/pkg/core/utils"
)

// ErrPercentagesExceed100 flags a payment split whose implied installment share would be negative
var ErrPercentagesExceed100 = errors.New("reservation fee and down payment exceed 100%")

// Config drives the monthly sales ledger. Percentages are 0-100.
type Config struct {
	TotalUnits        int       `json:"total_units" yaml:"total_units" validate:"gte=0"`
	UnitPrice         float64   `json:"unit_price" yaml:"unit_price" validate:"gte=0"`
	SalesStartDate    time.Time `json:"sales_start_date" yaml:"sales_start_date"`
	SalesVelocity     int       `json:"sales_velocity" yaml:"sales_velocity" validate:"gte=0"` // units per month
	PriceIncreaseRate float64   `json:"price_increase_rate" yaml:"price_increase_rate"`        // annual
	ReservationFeePct float64   `json:"reservation_fee_pct" yaml:"reservation_fee_pct" validate:"gte=0,lte=100"`
	DownPaymentPct    float64   `json:"down_payment_pct" yaml:"down_payment_pct" validate:"gte=0,lte=100"`
	InstallmentMonths int       `json:"installment_months" yaml:"installment_months" validate:"gte=0"`
	ProjectDuration   int       `json:"project_duration" yaml:"project_duration" validate:"gte=1"` // months
}

// InstallmentPct is the share left after reservation and down payment
func (c Config) InstallmentPct() float64 {
	return 100 - c.ReservationFeePct - c.DownPaymentPct
}

// Validate checks field bounds and that the payment split does not exceed 100%
func (c Config) Validate() error {
	if err := utils.ValidateStruct(c); err != nil {
		return fmt.Errorf("sales config: %w", err)
	}
	if c.ReservationFeePct+c.DownPaymentPct > 100 {
		return fmt.Errorf("%w: %.2f + %.2f", ErrPercentagesExceed100, c.ReservationFeePct, c.DownPaymentPct)
	}
	return nil
}
