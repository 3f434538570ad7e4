package domain

import (
	"fmt"
	"strings"

	"github.com/railzwaylabs/supportdesk/pkg/apperror"
)

// Enumerations are small unsigned integers so lookup tables can be fixed
// arrays sized by the count constant. Each names table carries a compile-time
// guard against drifting from its count.

type SupportLevel uint8

const (
	SupportLevelBasic SupportLevel = iota
	SupportLevelIntermediate
	SupportLevelAdvanced
	SupportLevelExpert

	NumSupportLevels = int(iota)
)

var supportLevelNames = [...]string{
	SupportLevelBasic:        "basic",
	SupportLevelIntermediate: "intermediate",
	SupportLevelAdvanced:     "advanced",
	SupportLevelExpert:       "expert",
}

var _ = [1]struct{}{}[len(supportLevelNames)-NumSupportLevels]

type TimeOfDay uint8

const (
	TimeOfDayMorning TimeOfDay = iota
	TimeOfDayMidday
	TimeOfDayAfternoon
	TimeOfDayEvening
	TimeOfDayMidnight

	NumTimesOfDay = int(iota)
)

var timeOfDayNames = [...]string{
	TimeOfDayMorning:   "morning",
	TimeOfDayMidday:    "midday",
	TimeOfDayAfternoon: "afternoon",
	TimeOfDayEvening:   "evening",
	TimeOfDayMidnight:  "midnight",
}

var _ = [1]struct{}{}[len(timeOfDayNames)-NumTimesOfDay]

type Urgency uint8

const (
	UrgencyLow Urgency = iota
	UrgencyMedium
	UrgencyHigh
	UrgencyUrgent

	NumUrgencies = int(iota)
)

var urgencyNames = [...]string{
	UrgencyLow:    "low",
	UrgencyMedium: "medium",
	UrgencyHigh:   "high",
	UrgencyUrgent: "urgent",
}

var _ = [1]struct{}{}[len(urgencyNames)-NumUrgencies]

type DayOfWeek uint8

const (
	DayOfWeekWeekday DayOfWeek = iota
	DayOfWeekWeekend

	NumDaysOfWeek = int(iota)
)

var dayOfWeekNames = [...]string{
	DayOfWeekWeekday: "weekday",
	DayOfWeekWeekend: "weekend",
}

var _ = [1]struct{}{}[len(dayOfWeekNames)-NumDaysOfWeek]

func (l SupportLevel) Valid() bool { return int(l) < NumSupportLevels }
func (t TimeOfDay) Valid() bool    { return int(t) < NumTimesOfDay }
func (u Urgency) Valid() bool      { return int(u) < NumUrgencies }
func (d DayOfWeek) Valid() bool    { return int(d) < NumDaysOfWeek }

func (l SupportLevel) String() string { return enumName(supportLevelNames[:], "SupportLevel", int(l)) }
func (t TimeOfDay) String() string    { return enumName(timeOfDayNames[:], "TimeOfDay", int(t)) }
func (u Urgency) String() string      { return enumName(urgencyNames[:], "Urgency", int(u)) }
func (d DayOfWeek) String() string    { return enumName(dayOfWeekNames[:], "DayOfWeek", int(d)) }

func ParseSupportLevel(s string) (SupportLevel, error) {
	return parseEnum[SupportLevel](supportLevelNames[:], "support_level", s)
}

func ParseTimeOfDay(s string) (TimeOfDay, error) {
	return parseEnum[TimeOfDay](timeOfDayNames[:], "time_of_day", s)
}

func ParseUrgency(s string) (Urgency, error) {
	return parseEnum[Urgency](urgencyNames[:], "urgency", s)
}

func ParseDayOfWeek(s string) (DayOfWeek, error) {
	return parseEnum[DayOfWeek](dayOfWeekNames[:], "day_of_week", s)
}

// AllTimesOfDay lists the buckets in clock order.
func AllTimesOfDay() []TimeOfDay {
	out := make([]TimeOfDay, NumTimesOfDay)
	for i := range out {
		out[i] = TimeOfDay(i)
	}
	return out
}

func AllUrgencies() []Urgency {
	out := make([]Urgency, NumUrgencies)
	for i := range out {
		out[i] = Urgency(i)
	}
	return out
}

func (l SupportLevel) MarshalText() ([]byte, error) { return marshalEnum(l.Valid(), l.String()) }
func (t TimeOfDay) MarshalText() ([]byte, error)    { return marshalEnum(t.Valid(), t.String()) }
func (u Urgency) MarshalText() ([]byte, error)      { return marshalEnum(u.Valid(), u.String()) }
func (d DayOfWeek) MarshalText() ([]byte, error)    { return marshalEnum(d.Valid(), d.String()) }

func (l *SupportLevel) UnmarshalText(b []byte) (err error) {
	*l, err = ParseSupportLevel(string(b))
	return err
}

func (t *TimeOfDay) UnmarshalText(b []byte) (err error) {
	*t, err = ParseTimeOfDay(string(b))
	return err
}

func (u *Urgency) UnmarshalText(b []byte) (err error) {
	*u, err = ParseUrgency(string(b))
	return err
}

func (d *DayOfWeek) UnmarshalText(b []byte) (err error) {
	*d, err = ParseDayOfWeek(string(b))
	return err
}

func enumName(names []string, kind string, v int) string {
	if v < len(names) {
		return names[v]
	}
	return fmt.Sprintf("%s(%d)", kind, v)
}

func marshalEnum(valid bool, name string) ([]byte, error) {
	if !valid {
		return nil, fmt.Errorf("cannot marshal %s", name)
	}
	return []byte(name), nil
}

func parseEnum[T ~uint8](names []string, field, s string) (T, error) {
	value := strings.ToLower(strings.TrimSpace(s))
	for i, name := range names {
		if name == value {
			return T(i), nil
		}
	}
	return 0, apperror.Validation(field, fmt.Sprintf("unknown value %q", s))
}
