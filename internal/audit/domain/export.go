package domain

import (
	"context"
	"slices"
	"strings"
	"time"
)

type ExportFormat string

const (
	ExportFormatCSV  ExportFormat = "csv"
	ExportFormatJSON ExportFormat = "json"
)

// RuleKind names the rule family an audit entry targets.
type RuleKind string

const (
	RuleKindPrice      RuleKind = "price_rule"
	RuleKindCommission RuleKind = "commission_rule"
)

func RuleKinds() []RuleKind {
	return []RuleKind{RuleKindPrice, RuleKindCommission}
}

// ParseRuleKinds splits a comma separated list. Unknown kinds are returned
// as ok=false together with the offending value.
func ParseRuleKinds(raw string) ([]RuleKind, string, bool) {
	var kinds []RuleKind
	for _, part := range strings.Split(raw, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part == "" {
			continue
		}
		kind := RuleKind(part)
		if !slices.Contains(RuleKinds(), kind) {
			return nil, part, false
		}
		kinds = append(kinds, kind)
	}
	return kinds, "", true
}

// ExportRequest selects entries created in [From, To). Empty Kinds and
// Actions mean no filter on that column.
type ExportRequest struct {
	From    time.Time
	To      time.Time
	Format  ExportFormat
	Kinds   []RuleKind
	Actions []string
}

type ExportResult struct {
	Data     []byte
	Checksum string
	Format   ExportFormat
	Count    int
}

type ExportService interface {
	Export(ctx context.Context, req ExportRequest) (*ExportResult, error)
}
