// Package document renders a quote as a one-page PDF the customer can keep.
package document

import (
	"errors"
	"fmt"
	"strings"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/railzwaylabs/supportdesk/internal/pricing/domain"
)

var (
	titleStyle   = props.Text{Size: 16, Style: fontstyle.Bold, Align: align.Center}
	headingStyle = props.Text{Size: 11, Style: fontstyle.Bold, Top: 2}
	bodyStyle    = props.Text{Size: 10}
	amountStyle  = props.Text{Size: 10, Align: align.Right}
)

// Render lays out the service, the breakdown lines and the savings insight.
// The breakdown is printed exactly as calculated.
func Render(q *domain.Quote) ([]byte, error) {
	if q == nil {
		return nil, errors.New("quote is required")
	}

	cfg := config.NewBuilder().
		WithLeftMargin(15).
		WithTopMargin(15).
		WithRightMargin(15).
		Build()
	m := maroto.New(cfg)

	m.AddRow(12, text.NewCol(12, "Support Session Quote", titleStyle))
	m.AddRow(6, text.NewCol(12, "Quoted at "+q.QuotedAt.Format("2006-01-02 15:04 MST"), props.Text{Size: 9, Align: align.Center}))

	m.AddRow(8, text.NewCol(12, "Service", headingStyle))
	m.AddRow(6,
		text.NewCol(8, fmt.Sprintf("%s (%s)", q.Service.Name, q.Service.SupportLevel), bodyStyle),
		text.NewCol(4, fmt.Sprintf("%d min minimum", q.Service.MinimumTime), amountStyle),
	)
	if len(q.Service.Includes) > 0 {
		m.AddRow(6, text.NewCol(12, "Includes: "+strings.Join(q.Service.Includes, ", "), props.Text{Size: 9}))
	}

	m.AddRow(8, text.NewCol(12, "Conditions", headingStyle))
	m.AddRow(6, text.NewCol(12, fmt.Sprintf("%s, %s urgency, %s, %d min",
		q.Factors.TimeOfDay, q.Factors.Urgency, q.Factors.DayOfWeek, q.Factors.EstimatedDuration), bodyStyle))

	m.AddRow(8, text.NewCol(12, "Breakdown", headingStyle))
	for _, line := range q.Calculation.Breakdown {
		label, amount := splitLine(line)
		m.AddRow(6, text.NewCol(8, label, bodyStyle), text.NewCol(4, amount, amountStyle))
	}
	m.AddRow(9,
		text.NewCol(8, "Total", props.Text{Size: 12, Style: fontstyle.Bold, Top: 2}),
		text.NewCol(4, "$"+q.Calculation.FinalPrice.StringFixed(2), props.Text{Size: 12, Style: fontstyle.Bold, Align: align.Right, Top: 2}),
	)

	if q.Insight.PotentialSavings.IsPositive() {
		m.AddRow(8, text.NewCol(12, "Ways to save", headingStyle))
		m.AddRow(6, text.NewCol(12, fmt.Sprintf("Booking at the best time would cost $%s, saving $%s.",
			q.Insight.BestCasePrice.StringFixed(2), q.Insight.PotentialSavings.StringFixed(2)), bodyStyle))
	}
	m.AddRow(6, text.NewCol(12, fmt.Sprintf("Current demand: %s", q.Insight.DemandLevel), props.Text{Size: 9}))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("generate quote pdf: %w", err)
	}
	return doc.GetBytes(), nil
}

// splitLine separates "label: +$amount" so amounts line up in one column.
func splitLine(line string) (string, string) {
	label, amount, found := strings.Cut(line, ": ")
	if !found {
		return line, ""
	}
	return label, amount
}
