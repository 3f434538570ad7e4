package observability

import (
	"errors"
	"testing"

	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func counterValue(t *testing.T, m *Metrics, name string, labels map[string]string) float64 {
	t.Helper()

	families, err := m.Registry.Gather()
	require.NoError(t, err)

	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, metric := range mf.GetMetric() {
			if matchLabels(metric, labels) {
				return metric.GetCounter().GetValue()
			}
		}
	}
	return 0
}

func matchLabels(metric *dto.Metric, labels map[string]string) bool {
	if len(metric.GetLabel()) != len(labels) {
		return false
	}
	for _, lp := range metric.GetLabel() {
		if labels[lp.GetName()] != lp.GetValue() {
			return false
		}
	}
	return true
}

func TestRecordRuleWrite(t *testing.T) {
	m := NewMetrics()

	m.RecordRuleWrite("price_rule", "create", nil)
	m.RecordRuleWrite("price_rule", "create", nil)
	m.RecordRuleWrite("price_rule", "create", errors.New("boom"))

	assert.Equal(t, 2.0, counterValue(t, m, "supportdesk_rule_writes_total", map[string]string{
		"kind": "price_rule", "op": "create", "result": "ok",
	}))
	assert.Equal(t, 1.0, counterValue(t, m, "supportdesk_rule_writes_total", map[string]string{
		"kind": "price_rule", "op": "create", "result": "error",
	}))
}

func TestRecordQuote(t *testing.T) {
	m := NewMetrics()
	m.RecordQuote("midnight", "low")

	assert.Equal(t, 1.0, counterValue(t, m, "supportdesk_quotes_total", map[string]string{
		"time_of_day": "midnight", "urgency": "low",
	}))
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordRuleWrite("commission_rule", "delete", nil)
		m.RecordQuote("evening", "urgent")
	})
}
