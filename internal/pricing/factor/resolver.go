// Package factor turns a clock reading, or a simulated time-of-day bucket,
// plus the request parameters into PricingFactors. Every input maps to a
// value; there are no error paths.
package factor

import (
	"time"

	"github.com/railzwaylabs/supportdesk/internal/pricing/domain"
)

// Request carries the caller-supplied part of the factors.
type Request struct {
	SupportLevel      domain.SupportLevel
	Urgency           domain.Urgency
	EstimatedDuration int
	Distance          *float64
	IsOutOfTown       bool
}

var representativeHours = [...]int{
	domain.TimeOfDayMorning:   9,
	domain.TimeOfDayMidday:    13,
	domain.TimeOfDayAfternoon: 15,
	domain.TimeOfDayEvening:   19,
	domain.TimeOfDayMidnight:  23,
}

var _ = [1]struct{}{}[len(representativeHours)-domain.NumTimesOfDay]

// Resolve derives the factors from a wall-clock reading. The caller is
// responsible for converting at into the pricing time zone.
func Resolve(at time.Time, req Request) domain.PricingFactors {
	return build(at.Hour(), BucketForHour(at.Hour()), at.Weekday(), req)
}

// ResolveSimulated derives the factors for a directly chosen bucket, using the
// bucket's representative hour for the demand and traffic signals.
func ResolveSimulated(bucket domain.TimeOfDay, day time.Weekday, req Request) domain.PricingFactors {
	return build(RepresentativeHour(bucket), bucket, day, req)
}

func build(hour int, bucket domain.TimeOfDay, day time.Weekday, req Request) domain.PricingFactors {
	return domain.PricingFactors{
		SupportLevel:      req.SupportLevel,
		TimeOfDay:         bucket,
		Urgency:           req.Urgency,
		EstimatedDuration: req.EstimatedDuration,
		Distance:          req.Distance,
		IsOutOfTown:       req.IsOutOfTown,
		TrafficFactor:     TrafficFactor(hour),
		DemandMultiplier:  DemandMultiplier(hour),
		DayOfWeek:         DayOfWeekFor(day),
	}
}

// BucketForHour maps a 24h hour onto its bucket; lower bounds are inclusive.
func BucketForHour(hour int) domain.TimeOfDay {
	switch {
	case hour >= 6 && hour < 12:
		return domain.TimeOfDayMorning
	case hour >= 12 && hour < 14:
		return domain.TimeOfDayMidday
	case hour >= 14 && hour < 18:
		return domain.TimeOfDayAfternoon
	case hour >= 18 && hour < 22:
		return domain.TimeOfDayEvening
	default:
		return domain.TimeOfDayMidnight
	}
}

// RepresentativeHour returns the hour used when a bucket is chosen directly.
// Unknown buckets fall back to the midnight hour.
func RepresentativeHour(bucket domain.TimeOfDay) int {
	if !bucket.Valid() {
		return representativeHours[domain.TimeOfDayMidnight]
	}
	return representativeHours[bucket]
}

// DemandMultiplier is 1.2 during business hours (09:00 through 17:59).
func DemandMultiplier(hour int) float64 {
	if hour >= 9 && hour <= 17 {
		return 1.2
	}
	return 1.0
}

// TrafficFactor is 1.3 during the morning and evening rush.
func TrafficFactor(hour int) float64 {
	if (hour >= 7 && hour <= 9) || (hour >= 17 && hour <= 19) {
		return 1.3
	}
	return 1.0
}

func DayOfWeekFor(day time.Weekday) domain.DayOfWeek {
	if day == time.Sunday || day == time.Saturday {
		return domain.DayOfWeekWeekend
	}
	return domain.DayOfWeekWeekday
}
