// Package stats turns orders and their quotes into chart-ready aggregates.
package stats

import (
	"cmp"
	"slices"

	"github.com/nurpe/freight-desk/internal/model"
)

type Count struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

type AgentStats struct {
	Agent        string   `json:"agent"`
	Quotes       int      `json:"quotes"`
	Wins         int      `json:"wins"`
	AverageTotal *float64 `json:"averageTotalFreight,omitempty"`
	BestTotal    *float64 `json:"bestTotalFreight,omitempty"`
}

type Summary struct {
	TotalOrders    int          `json:"totalOrders"`
	TotalQuotes    int          `json:"totalQuotes"`
	QuotesPerOrder float64      `json:"quotesPerOrder"`
	UnquotedOrders int          `json:"unquotedOrders"`
	SelectedQuotes int          `json:"selectedQuotes"`
	ByStatus       []Count      `json:"byStatus"`
	ByOrderType    []Count      `json:"byOrderType"`
	ByShipmentType []Count      `json:"byShipmentType"`
	Agents         []AgentStats `json:"agents"`
}

type priced struct {
	count int
	sum   float64
}

// Summarize aggregates orders and the quotes keyed by order number. Quotes
// whose order is not in the list are ignored.
func Summarize(orders []model.Order, quotes map[string][]model.Quote) Summary {
	summary := Summary{
		TotalOrders:    len(orders),
		ByStatus:       []Count{},
		ByOrderType:    []Count{},
		ByShipmentType: []Count{},
		Agents:         []AgentStats{},
	}

	byStatus := map[string]int{}
	byOrderType := map[string]int{}
	byShipment := map[string]int{}
	agents := map[string]*AgentStats{}
	totals := map[string]*priced{}

	for _, order := range orders {
		byStatus[string(order.Status)]++
		byOrderType[string(order.OrderType)]++
		byShipment[string(order.ShipmentType)]++

		orderQuotes := quotes[order.OrderNumber.String()]
		if len(orderQuotes) == 0 {
			summary.UnquotedOrders++
			continue
		}
		for _, q := range orderQuotes {
			summary.TotalQuotes++
			agent := agents[q.Agent]
			if agent == nil {
				agent = &AgentStats{Agent: q.Agent}
				agents[q.Agent] = agent
				totals[q.Agent] = &priced{}
			}
			agent.Quotes++
			if q.Selected {
				agent.Wins++
				summary.SelectedQuotes++
			}
			if q.TotalFreight != nil {
				value := *q.TotalFreight
				totals[q.Agent].count++
				totals[q.Agent].sum += value
				if agent.BestTotal == nil || value < *agent.BestTotal {
					best := value
					agent.BestTotal = &best
				}
			}
		}
	}

	if summary.TotalOrders > 0 {
		summary.QuotesPerOrder = float64(summary.TotalQuotes) / float64(summary.TotalOrders)
	}
	summary.ByStatus = counts(byStatus)
	summary.ByOrderType = counts(byOrderType)
	summary.ByShipmentType = counts(byShipment)

	for name, agent := range agents {
		if t := totals[name]; t.count > 0 {
			avg := t.sum / float64(t.count)
			agent.AverageTotal = &avg
		}
		summary.Agents = append(summary.Agents, *agent)
	}
	slices.SortFunc(summary.Agents, func(a, b AgentStats) int {
		return cmpOr(
			cmp.Compare(b.Wins, a.Wins),
			cmp.Compare(b.Quotes, a.Quotes),
			cmp.Compare(a.Agent, b.Agent),
		)
	})

	return summary
}

func counts(m map[string]int) []Count {
	out := make([]Count, 0, len(m))
	for key, n := range m {
		out = append(out, Count{Key: key, Count: n})
	}
	slices.SortFunc(out, func(a, b Count) int {
		return cmpOr(cmp.Compare(b.Count, a.Count), cmp.Compare(a.Key, b.Key))
	})
	return out
}

// cmpOr returns the first non-zero argument, like cmp.Or (Go 1.22+).
func cmpOr(vals ...int) int {
	for _, v := range vals {
		if v != 0 {
			return v
		}
	}
	return 0
}
