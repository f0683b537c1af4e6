package model

import (
	"time"

	"github.com/google/uuid"
)

// Quote is one freight agent's price offer against an order. Pricing fields
// depend on the shipment type, so every one of them is optional.
type Quote struct {
	ID                 uuid.UUID   `json:"orderQuoteId"`
	OrderNumber        OrderNumber `json:"orderNumber"`
	Agent              string      `json:"agent"`
	CreatedUser        string      `json:"createdUser"`
	Carrier            string      `json:"carrier,omitempty"`
	Routing            string      `json:"routing,omitempty"`
	TransitTime        string      `json:"transitTime,omitempty"`
	ValidityTime       *time.Time  `json:"validityTime,omitempty"`
	NetFreight         *float64    `json:"netFreight,omitempty"`
	AWB                *float64    `json:"awb,omitempty"`
	HAWB               *float64    `json:"hawb,omitempty"`
	DTHC               *float64    `json:"dthc,omitempty"`
	OriginCharges      *float64    `json:"originCharges,omitempty"`
	DestinationCharges *float64    `json:"destinationCharges,omitempty"`
	TotalFreight       *float64    `json:"totalFreight,omitempty"`
	Selected           bool        `json:"selected"`
	CreatedAt          time.Time   `json:"createdAt"`
}
