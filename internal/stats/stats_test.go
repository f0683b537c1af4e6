package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nurpe/freight-desk/internal/model"
)

func price(v float64) *float64 { return &v }

func TestSummarize(t *testing.T) {
	orders := []model.Order{
		{OrderNumber: "1", OrderType: model.OrderTypeExport, ShipmentType: model.ShipmentTypeFCL, Status: model.OrderStatusActive},
		{OrderNumber: "2", OrderType: model.OrderTypeImport, ShipmentType: model.ShipmentTypeFCL, Status: model.OrderStatusCompleted},
		{OrderNumber: "3", OrderType: model.OrderTypeExport, ShipmentType: model.ShipmentTypeAirFreight, Status: model.OrderStatusActive},
	}
	quotes := map[string][]model.Quote{
		"1": {
			{Agent: "Globex", TotalFreight: price(1000)},
			{Agent: "Initech", TotalFreight: price(800)},
		},
		"2": {
			{Agent: "Globex", TotalFreight: price(600), Selected: true},
			{Agent: "Initech"},
		},
		"99": {
			{Agent: "Ghost", TotalFreight: price(1)},
		},
	}

	summary := Summarize(orders, quotes)

	assert.Equal(t, 3, summary.TotalOrders)
	assert.Equal(t, 4, summary.TotalQuotes)
	assert.InDelta(t, 4.0/3.0, summary.QuotesPerOrder, 0.0001)
	assert.Equal(t, 1, summary.UnquotedOrders)
	assert.Equal(t, 1, summary.SelectedQuotes)

	assert.Equal(t, []Count{{Key: "active", Count: 2}, {Key: "completed", Count: 1}}, summary.ByStatus)
	assert.Equal(t, []Count{{Key: "export", Count: 2}, {Key: "import", Count: 1}}, summary.ByOrderType)
	assert.Equal(t, []Count{{Key: "fcl", Count: 2}, {Key: "airFreight", Count: 1}}, summary.ByShipmentType)

	require.Len(t, summary.Agents, 2)
	globex := summary.Agents[0]
	assert.Equal(t, "Globex", globex.Agent)
	assert.Equal(t, 2, globex.Quotes)
	assert.Equal(t, 1, globex.Wins)
	require.NotNil(t, globex.AverageTotal)
	assert.InDelta(t, 800, *globex.AverageTotal, 0.0001)
	assert.InDelta(t, 600, *globex.BestTotal, 0.0001)

	initech := summary.Agents[1]
	assert.Equal(t, "Initech", initech.Agent)
	assert.Equal(t, 0, initech.Wins)
	assert.InDelta(t, 800, *initech.AverageTotal, 0.0001)
}

func TestSummarize_Empty(t *testing.T) {
	summary := Summarize(nil, nil)
	assert.Zero(t, summary.TotalOrders)
	assert.Zero(t, summary.QuotesPerOrder)
	assert.NotNil(t, summary.ByStatus)
	assert.NotNil(t, summary.Agents)
	assert.Empty(t, summary.Agents)
}

func TestSummarize_AgentWithoutPrices(t *testing.T) {
	orders := []model.Order{{OrderNumber: "1", Status: model.OrderStatusActive}}
	quotes := map[string][]model.Quote{"1": {{Agent: "Umbrella"}}}

	summary := Summarize(orders, quotes)
	require.Len(t, summary.Agents, 1)
	assert.Nil(t, summary.Agents[0].AverageTotal)
	assert.Nil(t, summary.Agents[0].BestTotal)
}

func TestSummarize_Ordering(t *testing.T) {
	orders := []model.Order{
		{OrderNumber: "1", ShipmentType: model.ShipmentTypeLCL, Status: model.OrderStatusPending},
		{OrderNumber: "2", ShipmentType: model.ShipmentTypeFCL, Status: model.OrderStatusActive},
	}
	quotes := map[string][]model.Quote{
		"1": {{Agent: "Umbrella"}, {Agent: "Acme"}},
		"2": {{Agent: "Zenith"}, {Agent: "Zenith"}, {Agent: "Hooli", Selected: true}},
	}

	summary := Summarize(orders, quotes)

	names := make([]string, 0, len(summary.Agents))
	for _, agent := range summary.Agents {
		names = append(names, agent.Agent)
	}
	assert.Equal(t, []string{"Hooli", "Zenith", "Acme", "Umbrella"}, names)
	assert.Equal(t, []Count{{Key: "active", Count: 1}, {Key: "pending", Count: 1}}, summary.ByStatus)
	assert.Equal(t, []Count{{Key: "fcl", Count: 1}, {Key: "lcl", Count: 1}}, summary.ByShipmentType)
}
