package financing

import (
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"
)

var (
	ErrNonPositiveRate = errors.New("interest rate must be greater than zero")
	ErrNonPositiveTerm = errors.New("term must be at least one period")
	ErrNoSchemes       = errors.New("no financing schemes to compare")
)

// Type is the kind of financing arrangement
type Type string

const (
	TypeTraditionalMortgage Type = "traditional_mortgage"
	TypeConstructionLoan    Type = "construction_loan"
	TypeDeveloperFinancing  Type = "developer_financing"
	TypeInvestorEquity      Type = "investor_equity"
	TypeMixed               Type = "mixed"
)

// Frequency is how often payments are made
type Frequency string

const (
	FrequencyMonthly   Frequency = "monthly"
	FrequencyQuarterly Frequency = "quarterly"
	FrequencyAnnually  Frequency = "annually"
)

// PeriodsPerYear returns 12, 4 or 1; unknown frequencies are treated as monthly
func (f Frequency) PeriodsPerYear() int {
	switch f {
	case FrequencyQuarterly:
		return 4
	case FrequencyAnnually:
		return 1
	default:
		return 12
	}
}

// Terms are the caller-tunable parameters of a scheme. Percentages are 0-100.
type Terms struct {
	DownPaymentPct    float64   `json:"down_payment_pct" yaml:"down_payment_pct"`
	InterestRate      float64   `json:"interest_rate" yaml:"interest_rate"`
	TermYears         int       `json:"term_years" yaml:"term_years"`
	Frequency         Frequency `json:"frequency" yaml:"frequency"`
	OriginationFeePct float64   `json:"origination_fee_pct" yaml:"origination_fee_pct"`
}

// DefaultTerms: 20% down, 8.5% annual, 20 years, monthly, 1.5% origination
func DefaultTerms() Terms {
	return Terms{
		DownPaymentPct:    20,
		InterestRate:      8.5,
		TermYears:         20,
		Frequency:         FrequencyMonthly,
		OriginationFeePct: 1.5,
	}
}

// Scheme is a financing arrangement sized against a total amount
type Scheme struct {
	ID                string    `json:"id"`
	Type              Type      `json:"type"`
	TotalAmount       float64   `json:"total_amount"`
	LoanAmount        float64   `json:"loan_amount"`
	DownPaymentPct    float64   `json:"down_payment_pct"`
	DownPayment       float64   `json:"down_payment"`
	InterestRate      float64   `json:"interest_rate"`
	TermYears         int       `json:"term_years"`
	Frequency         Frequency `json:"payment_frequency"`
	OriginationFeePct float64   `json:"origination_fee_pct"`
	OriginationFee    float64   `json:"origination_fee"`
}

// AmortizationEntry is one payment period
type AmortizationEntry struct {
	Period    int     `json:"period"`
	Payment   float64 `json:"payment"`
	Principal float64 `json:"principal"`
	Interest  float64 `json:"interest"`
	Balance   float64 `json:"balance"`
}

// NewScheme sizes the loan as totalAmount * (1 - downPaymentPct/100). No validation is done here.
func NewScheme(typ Type, totalAmount float64, terms Terms) Scheme {
	downPayment := totalAmount * terms.DownPaymentPct / 100
	loan := totalAmount - downPayment
	frequency := terms.Frequency
	if frequency == "" {
		frequency = FrequencyMonthly
	}

	return Scheme{
		ID:                uuid.New().String(),
		Type:              typ,
		TotalAmount:       totalAmount,
		LoanAmount:        loan,
		DownPaymentPct:    terms.DownPaymentPct,
		DownPayment:       downPayment,
		InterestRate:      terms.InterestRate,
		TermYears:         terms.TermYears,
		Frequency:         frequency,
		OriginationFeePct: terms.OriginationFeePct,
		OriginationFee:    loan * terms.OriginationFeePct / 100,
	}
}

// PeriodsPerYear of the scheme's payment frequency
func (s Scheme) PeriodsPerYear() int {
	return s.Frequency.PeriodsPerYear()
}

// PeriodicRate is annualRate/100/periodsPerYear
func (s Scheme) PeriodicRate() float64 {
	return s.InterestRate / 100 / float64(s.PeriodsPerYear())
}

// TotalPeriods is term * periods per year
func (s Scheme) TotalPeriods() int {
	return s.TermYears * s.PeriodsPerYear()
}

func (s Scheme) checkPreconditions() error {
	if s.InterestRate <= 0 {
		return fmt.Errorf("%w: got %.4f", ErrNonPositiveRate, s.InterestRate)
	}
	if s.TotalPeriods() <= 0 {
		return fmt.Errorf("%w: %d years", ErrNonPositiveTerm, s.TermYears)
	}
	return nil
}

// PeriodicPayment is the fixed annuity payment P*r / (1 - (1+r)^-n)
func PeriodicPayment(s Scheme) (float64, error) {
	if err := s.checkPreconditions(); err != nil {
		return 0, err
	}
	r := s.PeriodicRate()
	n := float64(s.TotalPeriods())
	return s.LoanAmount * r / (1 - math.Pow(1+r, -n)), nil
}

// balanceEpsilon absorbs float residue on the final period
const balanceEpsilon = 1e-6

// AmortizationTable builds the payment schedule. It stops early once the balance reaches zero.
func AmortizationTable(s Scheme) ([]AmortizationEntry, error) {
	payment, err := PeriodicPayment(s)
	if err != nil {
		return nil, err
	}

	r := s.PeriodicRate()
	periods := s.TotalPeriods()
	entries := make([]AmortizationEntry, 0, periods)
	balance := s.LoanAmount

	for p := 1; p <= periods; p++ {
		interest := balance * r
		principal := payment - interest
		balance -= principal

		if math.Abs(balance) < balanceEpsilon {
			balance = 0
		}

		entries = append(entries, AmortizationEntry{
			Period:    p,
			Payment:   payment,
			Principal: principal,
			Interest:  interest,
			Balance:   balance,
		})

		if balance <= 0 {
			break
		}
	}

	return entries, nil
}
