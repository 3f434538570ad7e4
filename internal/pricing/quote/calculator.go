// Package quote holds the pure price calculation for a single support session.
package quote

import (
	"fmt"
	"math"

	"github.com/railzwaylabs/supportdesk/internal/pricing/domain"
	"github.com/railzwaylabs/supportdesk/pkg/apperror"
	"github.com/shopspring/decimal"
)

var (
	one = decimal.NewFromInt(1)

	timeOfDayMultipliers = [...]decimal.Decimal{
		domain.TimeOfDayMorning:   decimal.RequireFromString("1.0"),
		domain.TimeOfDayMidday:    decimal.RequireFromString("1.1"),
		domain.TimeOfDayAfternoon: decimal.RequireFromString("1.0"),
		domain.TimeOfDayEvening:   decimal.RequireFromString("1.2"),
		domain.TimeOfDayMidnight:  decimal.RequireFromString("1.5"),
	}

	urgencyMultipliers = [...]decimal.Decimal{
		domain.UrgencyLow:    decimal.RequireFromString("1.0"),
		domain.UrgencyMedium: decimal.RequireFromString("1.2"),
		domain.UrgencyHigh:   decimal.RequireFromString("1.5"),
		domain.UrgencyUrgent: decimal.RequireFromString("2.0"),
	}

	weekendRate       = decimal.RequireFromString("0.3")
	freeMiles         = decimal.NewFromInt(10)
	localMileRate     = decimal.RequireFromString("2.5")
	outOfTownMileRate = decimal.RequireFromString("3.0")
)

var (
	_ = [1]struct{}{}[len(timeOfDayMultipliers)-domain.NumTimesOfDay]
	_ = [1]struct{}{}[len(urgencyMultipliers)-domain.NumUrgencies]
)

// TimeOfDayMultiplier returns the surcharge multiplier of a bucket.
func TimeOfDayMultiplier(t domain.TimeOfDay) decimal.Decimal {
	return timeOfDayMultipliers[t]
}

func UrgencyMultiplier(u domain.Urgency) decimal.Decimal {
	return urgencyMultipliers[u]
}

// Calculate prices one session. It only ever surcharges: every adjustment is
// non-negative. Adjustments are kept unrounded and summed as is; only the
// final total is rounded to the cent.
func Calculate(svc domain.ServiceDefinition, f domain.PricingFactors) (domain.PriceCalculation, error) {
	if err := validate(svc, f); err != nil {
		return domain.PriceCalculation{}, err
	}

	base := svc.BasePrice
	calc := domain.PriceCalculation{
		BasePrice:   base,
		Adjustments: make(map[domain.AdjustmentKey]decimal.Decimal),
		Breakdown:   []string{fmt.Sprintf("Base price: $%s", base.String())},
	}
	total := base

	add := func(key domain.AdjustmentKey, amount decimal.Decimal, line string) {
		calc.Adjustments[key] = amount
		calc.Breakdown = append(calc.Breakdown, line+amount.StringFixed(2))
		total = total.Add(amount)
	}

	if m := TimeOfDayMultiplier(f.TimeOfDay); !m.Equal(one) {
		add(domain.AdjustmentTimeOfDay, base.Mul(m.Sub(one)),
			fmt.Sprintf("%s surcharge: +$", f.TimeOfDay))
	}

	if m := UrgencyMultiplier(f.Urgency); !m.Equal(one) {
		add(domain.AdjustmentUrgency, base.Mul(m.Sub(one)),
			fmt.Sprintf("%s priority: +$", f.Urgency))
	}

	if f.DayOfWeek == domain.DayOfWeekWeekend {
		add(domain.AdjustmentWeekend, base.Mul(weekendRate), "Weekend surcharge: +$")
	}

	if f.Distance != nil {
		distance := decimal.NewFromFloat(*f.Distance)
		if distance.GreaterThan(freeMiles) {
			extraMiles := distance.Sub(freeMiles)
			rate := localMileRate
			if f.IsOutOfTown {
				rate = outOfTownMileRate
			}
			add(domain.AdjustmentDistance, extraMiles.Mul(rate),
				fmt.Sprintf("Distance (%s miles): +$", extraMiles.String()))
		}
	}

	// A service without a minimum time has no hourly rate to extend.
	if svc.MinimumTime > 0 && f.EstimatedDuration > svc.MinimumTime {
		extraMinutes := f.EstimatedDuration - svc.MinimumTime
		// hourlyRate = base / (minimumTime/60); adj = extraMinutes/60 * hourlyRate.
		amount := base.Mul(decimal.NewFromInt(int64(extraMinutes))).
			Div(decimal.NewFromInt(int64(svc.MinimumTime)))
		add(domain.AdjustmentDuration, amount,
			fmt.Sprintf("Extended time (%d min): +$", extraMinutes))
	}

	calc.FinalPrice = total.Round(2)
	return calc, nil
}

func validate(svc domain.ServiceDefinition, f domain.PricingFactors) error {
	switch {
	case !svc.BasePrice.IsPositive():
		return apperror.InvalidInput("base_price", "must be greater than zero")
	case svc.MinimumTime < 0:
		return apperror.InvalidInput("minimum_time", "must not be negative")
	case f.EstimatedDuration < 0:
		return apperror.InvalidInput("estimated_duration", "must not be negative")
	case !f.TimeOfDay.Valid():
		return apperror.InvalidInput("time_of_day", "unknown bucket")
	case !f.Urgency.Valid():
		return apperror.InvalidInput("urgency", "unknown urgency")
	case !f.DayOfWeek.Valid():
		return apperror.InvalidInput("day_of_week", "unknown day of week")
	case f.Distance != nil && (math.IsNaN(*f.Distance) || math.IsInf(*f.Distance, 0)):
		return apperror.InvalidInput("distance", "must be a finite number")
	}
	return nil
}
