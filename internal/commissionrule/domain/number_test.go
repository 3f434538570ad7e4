package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumberInputAcceptsNumbersAndStrings(t *testing.T) {
	var req CreateRequest
	require.NoError(t, json.Unmarshal([]byte(`{
		"commission_rate": 12.5,
		"min_amount": " 10 ",
		"max_amount": ""
	}`), &req))

	rate, ok, err := req.CommissionRate.Decimal()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "12.5", rate.String())

	minAmount, ok, err := req.MinAmount.Decimal()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "10", minAmount.String())

	_, ok, err = req.MaxAmount.Decimal()
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestNumberInputNullAndGarbage(t *testing.T) {
	var req UpdateRequest
	require.NoError(t, json.Unmarshal([]byte(`{"min_amount": null, "commission_rate": "ten", "max_amount": true}`), &req))

	require.NotNil(t, req.MinAmount)
	_, ok, err := req.MinAmount.Decimal()
	assert.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = req.CommissionRate.Decimal()
	assert.True(t, ok)
	assert.Error(t, err)

	_, ok, err = req.MaxAmount.Decimal()
	assert.True(t, ok)
	assert.Error(t, err)
}
