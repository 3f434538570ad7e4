package domain

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// ServiceDefinition is an immutable catalog entry.
type ServiceDefinition struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	SupportLevel SupportLevel    `json:"support_level"`
	BasePrice    decimal.Decimal `json:"base_price"`
	MinimumTime  int             `json:"minimum_time"` // minutes
	Category     string          `json:"category"`
	Includes     []string        `json:"includes"`
}

// PricingFactors is built fresh for every quote and never persisted.
type PricingFactors struct {
	SupportLevel      SupportLevel `json:"support_level"`
	TimeOfDay         TimeOfDay    `json:"time_of_day"`
	Urgency           Urgency      `json:"urgency"`
	EstimatedDuration int          `json:"estimated_duration"` // minutes
	Distance          *float64     `json:"distance,omitempty"` // miles
	IsOutOfTown       bool         `json:"is_out_of_town"`
	TrafficFactor     float64      `json:"traffic_factor"`
	DemandMultiplier  float64      `json:"demand_multiplier"`
	DayOfWeek         DayOfWeek    `json:"day_of_week"`
}

type AdjustmentKey string

const (
	AdjustmentTimeOfDay AdjustmentKey = "timeOfDay"
	AdjustmentUrgency   AdjustmentKey = "urgency"
	AdjustmentWeekend   AdjustmentKey = "weekend"
	AdjustmentDistance  AdjustmentKey = "distance"
	AdjustmentDuration  AdjustmentKey = "duration"
)

// PriceCalculation is the itemized result of a quote. FinalPrice equals
// BasePrice plus every adjustment, rounded to the cent.
type PriceCalculation struct {
	BasePrice   decimal.Decimal
	Adjustments map[AdjustmentKey]decimal.Decimal
	FinalPrice  decimal.Decimal
	Breakdown   []string
}

// MarshalJSON renders every amount with exactly two decimal places. Map keys
// are emitted sorted, so identical calculations encode to identical bytes.
func (c PriceCalculation) MarshalJSON() ([]byte, error) {
	adjustments := make(map[AdjustmentKey]string, len(c.Adjustments))
	for k, v := range c.Adjustments {
		adjustments[k] = v.StringFixed(2)
	}
	return json.Marshal(struct {
		BasePrice   string                   `json:"base_price"`
		Adjustments map[AdjustmentKey]string `json:"adjustments"`
		FinalPrice  string                   `json:"final_price"`
		Breakdown   []string                 `json:"breakdown"`
	}{
		BasePrice:   c.BasePrice.StringFixed(2),
		Adjustments: adjustments,
		FinalPrice:  c.FinalPrice.StringFixed(2),
		Breakdown:   c.Breakdown,
	})
}

// AdjustmentTotal sums the adjustments.
func (c PriceCalculation) AdjustmentTotal() decimal.Decimal {
	total := decimal.Zero
	for _, v := range c.Adjustments {
		total = total.Add(v)
	}
	return total
}

type DemandLevel string

const (
	DemandLow      DemandLevel = "Low"
	DemandMedium   DemandLevel = "Medium"
	DemandHigh     DemandLevel = "High"
	DemandVeryHigh DemandLevel = "Very High"
)

// Insight compares a quote with the cheapest situation for the same service.
type Insight struct {
	CurrentPrice     decimal.Decimal `json:"current_price"`
	BestCasePrice    decimal.Decimal `json:"best_case_price"`
	PotentialSavings decimal.Decimal `json:"potential_savings"`
	DemandLevel      DemandLevel     `json:"demand_level"`
	PeakTraffic      bool            `json:"peak_traffic"`
	// Avoidable lists the surcharges that the best case does not pay.
	Avoidable []AdjustmentKey `json:"avoidable"`
}

// Quote bundles everything computed for one pricing request.
type Quote struct {
	Service     ServiceDefinition `json:"service"`
	Factors     PricingFactors    `json:"factors"`
	Calculation PriceCalculation  `json:"calculation"`
	Insight     Insight           `json:"insight"`
	QuotedAt    time.Time         `json:"quoted_at"`
}

func (i Insight) MarshalJSON() ([]byte, error) {
	avoidable := i.Avoidable
	if avoidable == nil {
		avoidable = []AdjustmentKey{}
	}
	return json.Marshal(struct {
		CurrentPrice     string          `json:"current_price"`
		BestCasePrice    string          `json:"best_case_price"`
		PotentialSavings string          `json:"potential_savings"`
		DemandLevel      DemandLevel     `json:"demand_level"`
		PeakTraffic      bool            `json:"peak_traffic"`
		Avoidable        []AdjustmentKey `json:"avoidable"`
	}{
		CurrentPrice:     i.CurrentPrice.StringFixed(2),
		BestCasePrice:    i.BestCasePrice.StringFixed(2),
		PotentialSavings: i.PotentialSavings.StringFixed(2),
		DemandLevel:      i.DemandLevel,
		PeakTraffic:      i.PeakTraffic,
		Avoidable:        avoidable,
	})
}
