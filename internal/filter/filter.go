// Package filter narrows an in-memory order list by a free-text search on the
// order number and by categorical criteria.
package filter

import (
	"strings"

	"github.com/nurpe/freight-desk/internal/model"
)

// Criteria is ANDed; empty fields impose no constraint.
type Criteria struct {
	Search       string
	OrderType    string
	ShipmentType string
	Status       string
}

func (c Criteria) IsEmpty() bool {
	return strings.TrimSpace(c.Search) == "" &&
		strings.TrimSpace(c.OrderType) == "" &&
		strings.TrimSpace(c.ShipmentType) == "" &&
		strings.TrimSpace(c.Status) == ""
}

// Orders returns the orders matching c in input order. The input slice is
// never modified and the result never aliases it.
func Orders(orders []model.Order, c Criteria) []model.Order {
	search := strings.ToLower(strings.TrimSpace(c.Search))
	orderType := strings.TrimSpace(c.OrderType)
	shipmentType := strings.TrimSpace(c.ShipmentType)
	status := strings.TrimSpace(c.Status)

	result := make([]model.Order, 0, len(orders))
	for _, order := range orders {
		if search != "" && !strings.Contains(strings.ToLower(order.OrderNumber.String()), search) {
			continue
		}
		if !equalFold(string(order.OrderType), orderType) {
			continue
		}
		if !equalFold(string(order.ShipmentType), shipmentType) {
			continue
		}
		if !equalFold(string(order.Status), status) {
			continue
		}
		result = append(result, order)
	}
	return result
}

// equalFold treats an empty want as pass-through and an empty field as a
// non-match for any non-empty want.
func equalFold(field, want string) bool {
	if want == "" {
		return true
	}
	if field == "" {
		return false
	}
	return strings.EqualFold(field, want)
}
