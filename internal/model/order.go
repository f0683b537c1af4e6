package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type OrderType string

const (
	OrderTypeExport OrderType = "export"
	OrderTypeImport OrderType = "import"
)

type ShipmentType string

const (
	ShipmentTypeAirFreight ShipmentType = "airFreight"
	ShipmentTypeLCL        ShipmentType = "lcl"
	ShipmentTypeFCL        ShipmentType = "fcl"
)

type OrderStatus string

const (
	OrderStatusActive    OrderStatus = "active"
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// ParseOrderStatus matches raw against the known statuses ignoring case.
func ParseOrderStatus(raw string) (OrderStatus, bool) {
	status := OrderStatus(strings.ToLower(strings.TrimSpace(raw)))
	switch status {
	case OrderStatusActive, OrderStatusPending, OrderStatusCompleted, OrderStatusCancelled:
		return status, true
	}
	return "", false
}

// Closed reports whether the backend no longer accepts transitions for the order.
func (s OrderStatus) Closed() bool {
	return s == OrderStatusCompleted || s == OrderStatusCancelled
}

type CargoType string

const (
	CargoTypeLoose      CargoType = "LooseCargo"
	CargoTypePalletized CargoType = "PalletizedCargo"
)

// OrderNumber is the tenant-unique order identifier. The backend emits it
// either as a JSON string or a JSON number; both decode to the same text.
type OrderNumber string

func (n OrderNumber) String() string {
	return string(n)
}

func (n *OrderNumber) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*n = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*n = OrderNumber(strings.TrimSpace(s))
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return fmt.Errorf("order number: %w", err)
	}
	*n = OrderNumber(num.String())
	return nil
}

type Order struct {
	ID                uuid.UUID    `json:"id"`
	OrderNumber       OrderNumber  `json:"orderNumber"`
	OrderType         OrderType    `json:"orderType"`
	ShipmentType      ShipmentType `json:"shipmentType"`
	From              string       `json:"from"`
	To                string       `json:"to"`
	ShipmentReadyDate *time.Time   `json:"shipmentReadyDate,omitempty"`
	TargetDate        *time.Time   `json:"targetDate,omitempty"`
	DueDate           int          `json:"dueDate"`
	CargoType         CargoType    `json:"cargoType,omitempty"`
	Commodity         string       `json:"commodity,omitempty"`
	Incoterms         string       `json:"incoterms,omitempty"`
	GrossWeight       *float64     `json:"grossWeight,omitempty"`
	ChargeableWeight  *float64     `json:"chargeableWeight,omitempty"`
	CBM               *float64     `json:"cbm,omitempty"`
	NoOfPallets       *int         `json:"noOfPallets,omitempty"`
	ContainerType     string       `json:"containerType,omitempty"`
	NoOfContainers    *int         `json:"noOfContainers,omitempty"`
	Status            OrderStatus  `json:"status"`
	DaysRemaining     *int         `json:"daysRemaining,omitempty"`
	QuotationCount    int          `json:"quotationCount"`
	CreatedBy         string       `json:"createdBy,omitempty"`
	CreatedAt         time.Time    `json:"createdAt"`
}

// OrderRef is what the backend answers with after accepting an order.
type OrderRef struct {
	OrderNumber OrderNumber `json:"orderNumber"`
	Status      OrderStatus `json:"status"`
}
