package filter_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nurpe/freight-desk/internal/filter"
	"github.com/nurpe/freight-desk/internal/model"
)

func sampleOrders() []model.Order {
	return []model.Order{
		{OrderNumber: "101", OrderType: model.OrderTypeExport, ShipmentType: model.ShipmentTypeLCL, Status: model.OrderStatusActive},
		{OrderNumber: "202", OrderType: model.OrderTypeImport, ShipmentType: model.ShipmentTypeFCL, Status: model.OrderStatusPending},
		{OrderNumber: "ABC-310", OrderType: model.OrderTypeExport, ShipmentType: model.ShipmentTypeAirFreight, Status: model.OrderStatusActive},
	}
}

func numbers(orders []model.Order) []string {
	result := make([]string, 0, len(orders))
	for _, o := range orders {
		result = append(result, o.OrderNumber.String())
	}
	return result
}

func TestOrders_EmptyInput(t *testing.T) {
	got := filter.Orders(nil, filter.Criteria{})
	require.NotNil(t, got)
	assert.Empty(t, got)

	got = filter.Orders([]model.Order{}, filter.Criteria{Search: "1", OrderType: "export"})
	assert.Empty(t, got)
}

func TestOrders_Criteria(t *testing.T) {
	tests := []struct {
		name     string
		criteria filter.Criteria
		expected []string
	}{
		{
			name:     "no criteria passes everything through",
			criteria: filter.Criteria{},
			expected: []string{"101", "202", "ABC-310"},
		},
		{
			name:     "search and order type are ANDed",
			criteria: filter.Criteria{Search: "1", OrderType: "export"},
			expected: []string{"101", "ABC-310"},
		},
		{
			name:     "search is a substring match, not a prefix match",
			criteria: filter.Criteria{Search: "02"},
			expected: []string{"202"},
		},
		{
			name:     "search is case-insensitive",
			criteria: filter.Criteria{Search: "abc"},
			expected: []string{"ABC-310"},
		},
		{
			name:     "categorical filters are case-insensitive exact matches",
			criteria: filter.Criteria{ShipmentType: "AIRFREIGHT"},
			expected: []string{"ABC-310"},
		},
		{
			name:     "categorical filters do not substring match",
			criteria: filter.Criteria{ShipmentType: "air"},
			expected: []string{},
		},
		{
			name:     "status filter",
			criteria: filter.Criteria{Status: "pending"},
			expected: []string{"202"},
		},
		{
			name:     "whitespace-only criteria are ignored",
			criteria: filter.Criteria{Search: "  ", OrderType: " "},
			expected: []string{"101", "202", "ABC-310"},
		},
		{
			name:     "conflicting criteria match nothing",
			criteria: filter.Criteria{OrderType: "import", ShipmentType: "lcl"},
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := filter.Orders(sampleOrders(), tt.criteria)
			assert.Equal(t, tt.expected, numbers(got))
		})
	}
}

func TestOrders_NumericOrderNumberFromJSON(t *testing.T) {
	var orders []model.Order
	payload := `[
		{"orderNumber": 101, "orderType": "export", "shipmentType": "lcl"},
		{"orderNumber": "202", "orderType": "import", "shipmentType": "fcl"}
	]`
	require.NoError(t, json.Unmarshal([]byte(payload), &orders))

	got := filter.Orders(orders, filter.Criteria{Search: "1", OrderType: "export"})
	require.Len(t, got, 1)
	assert.Equal(t, model.OrderNumber("101"), got[0].OrderNumber)
}

func TestOrders_MissingFieldsAreNonMatches(t *testing.T) {
	orders := []model.Order{
		{OrderNumber: "500"},
		{OrderNumber: "", OrderType: model.OrderTypeExport},
		{OrderNumber: "501", OrderType: model.OrderTypeExport},
	}

	assert.Equal(t, []string{"501"}, numbers(filter.Orders(orders, filter.Criteria{OrderType: "export", Search: "5"})))
	assert.Equal(t, []string{"500", "", "501"}, numbers(filter.Orders(orders, filter.Criteria{})))
}

func TestOrders_DoesNotAliasInput(t *testing.T) {
	orders := sampleOrders()
	got := filter.Orders(orders, filter.Criteria{})
	got[0].OrderNumber = "changed"

	assert.Equal(t, model.OrderNumber("101"), orders[0].OrderNumber)
}

func TestCriteria_IsEmpty(t *testing.T) {
	assert.True(t, filter.Criteria{}.IsEmpty())
	assert.True(t, filter.Criteria{Search: " "}.IsEmpty())
	assert.False(t, filter.Criteria{Status: "active"}.IsEmpty())
}
