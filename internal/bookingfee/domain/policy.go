package domain

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/railzwaylabs/supportdesk/pkg/apperror"
	"github.com/shopspring/decimal"
)

// Timeline is the customer's requested scheduling lead time. Only today and
// asap are same-day; every other value books at the future-day rate.
type Timeline string

const (
	TimelineToday    Timeline = "today"
	TimelineASAP     Timeline = "asap"
	TimelineTomorrow Timeline = "tomorrow"
	TimelineThisWeek Timeline = "this_week"
	TimelineFlexible Timeline = "flexible"
)

func (t Timeline) SameDay() bool {
	return t == TimelineToday || t == TimelineASAP
}

var ErrInvalidTimeline = apperror.Validation("timeline", "must not be empty")

type Settings struct {
	SameDayFee   decimal.Decimal
	FutureDayFee decimal.Decimal
}

func (s Settings) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		SameDayFee   string `json:"same_day_fee"`
		FutureDayFee string `json:"future_day_fee"`
	}{s.SameDayFee.StringFixed(2), s.FutureDayFee.StringFixed(2)})
}

type Fee struct {
	Timeline Timeline
	Amount   decimal.Decimal
	SameDay  bool
}

func (f Fee) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Timeline Timeline `json:"timeline"`
		Fee      string   `json:"fee"`
		SameDay  bool     `json:"same_day"`
	}{f.Timeline, f.Amount.StringFixed(2), f.SameDay})
}

func (f Fee) String() string {
	return fmt.Sprintf("%s: $%s", f.Timeline, f.Amount.StringFixed(2))
}

type Policy interface {
	Settings(ctx context.Context) Settings
	Fee(ctx context.Context, timeline Timeline) (Fee, error)
	Replace(settings Settings) error
}
