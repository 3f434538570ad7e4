// Package optimizer re-prices a quote under the cheapest situation for the
// same service and reports the difference. It never changes a quote.
package optimizer

import (
	"sort"

	"github.com/railzwaylabs/supportdesk/internal/pricing/domain"
	"github.com/railzwaylabs/supportdesk/internal/pricing/quote"
)

// BestCase replaces every surcharge-driving factor with its cheapest value:
// a morning weekday slot, low urgency, no billable distance and no time past
// the service minimum. Demand and traffic signals are left untouched.
func BestCase(svc domain.ServiceDefinition, f domain.PricingFactors) domain.PricingFactors {
	best := f
	best.TimeOfDay = domain.TimeOfDayMorning
	best.DayOfWeek = domain.DayOfWeekWeekday
	best.Urgency = domain.UrgencyLow
	best.Distance = nil
	best.IsOutOfTown = false
	best.EstimatedDuration = max(svc.MinimumTime, 0)
	return best
}

// Analyze prices f and its best case and reports the savings between them.
func Analyze(svc domain.ServiceDefinition, f domain.PricingFactors) (domain.Insight, error) {
	current, err := quote.Calculate(svc, f)
	if err != nil {
		return domain.Insight{}, err
	}
	return AnalyzeCalculation(svc, f, current)
}

// AnalyzeCalculation is Analyze for callers that already priced f.
func AnalyzeCalculation(svc domain.ServiceDefinition, f domain.PricingFactors, current domain.PriceCalculation) (domain.Insight, error) {
	reference, err := quote.Calculate(svc, BestCase(svc, f))
	if err != nil {
		return domain.Insight{}, err
	}

	avoidable := make([]domain.AdjustmentKey, 0, len(current.Adjustments))
	for key := range current.Adjustments {
		if _, ok := reference.Adjustments[key]; !ok {
			avoidable = append(avoidable, key)
		}
	}
	sort.Slice(avoidable, func(i, j int) bool { return avoidable[i] < avoidable[j] })

	return domain.Insight{
		CurrentPrice:     current.FinalPrice,
		BestCasePrice:    reference.FinalPrice,
		PotentialSavings: current.FinalPrice.Sub(reference.FinalPrice),
		DemandLevel:      DemandLevelFor(f.DemandMultiplier),
		PeakTraffic:      f.TrafficFactor > 1.0,
		Avoidable:        avoidable,
	}, nil
}

func DemandLevelFor(multiplier float64) domain.DemandLevel {
	switch {
	case multiplier >= 1.3:
		return domain.DemandVeryHigh
	case multiplier >= 1.2:
		return domain.DemandHigh
	case multiplier >= 1.1:
		return domain.DemandMedium
	default:
		return domain.DemandLow
	}
}
