package form

import (
	"strings"
	"time"

	"github.com/nurpe/freight-desk/internal/model"
)

type FieldKind string

const (
	KindText   FieldKind = "text"
	KindNumber FieldKind = "number"
	KindDate   FieldKind = "date"
	KindSelect FieldKind = "select"
)

// Field describes one input of a parameterized form.
type Field struct {
	Name    string    `json:"name"`
	Label   string    `json:"label"`
	Kind    FieldKind `json:"kind"`
	Options []string  `json:"options,omitempty"`
}

// Schema is the field list and rule table of one form variant.
type Schema struct {
	Name   string
	Fields []Field
	Rules  []FieldRule
	Checks []CrossRule
}

// Validate runs required rules first, then cross-field checks on the fields
// that passed.
func (s Schema) Validate(data Data) Errors {
	return Check(data, s.Checks, Validate(data, s.Rules))
}

// Registry builds every form variant. Rules that depend on the current date
// read it from now.
type Registry struct {
	now    func() time.Time
	orders map[variantKey]Schema
	quotes map[model.ShipmentType]Schema
}

type variantKey struct {
	orderType    model.OrderType
	shipmentType model.ShipmentType
}

func NewRegistry(now func() time.Time) *Registry {
	if now == nil {
		now = time.Now
	}
	r := &Registry{
		now:    now,
		orders: make(map[variantKey]Schema),
		quotes: make(map[model.ShipmentType]Schema),
	}
	for _, orderType := range []model.OrderType{model.OrderTypeExport, model.OrderTypeImport} {
		for _, shipmentType := range []model.ShipmentType{model.ShipmentTypeAirFreight, model.ShipmentTypeLCL, model.ShipmentTypeFCL} {
			r.orders[variantKey{orderType, shipmentType}] = r.orderSchema(orderType, shipmentType)
		}
	}
	for _, shipmentType := range []model.ShipmentType{model.ShipmentTypeAirFreight, model.ShipmentTypeLCL, model.ShipmentTypeFCL} {
		r.quotes[shipmentType] = r.quoteSchema(shipmentType)
	}
	return r
}

// Order returns the order form of a variant. Lookup is case-insensitive.
func (r *Registry) Order(orderType, shipmentType string) (Schema, bool) {
	ot, ok := ParseOrderType(orderType)
	if !ok {
		return Schema{}, false
	}
	st, ok := ParseShipmentType(shipmentType)
	if !ok {
		return Schema{}, false
	}
	s, ok := r.orders[variantKey{ot, st}]
	return s, ok
}

// Quote returns the quote submission form for a shipment type.
func (r *Registry) Quote(shipmentType model.ShipmentType) (Schema, bool) {
	s, ok := r.quotes[shipmentType]
	return s, ok
}

func ParseOrderType(raw string) (model.OrderType, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "export":
		return model.OrderTypeExport, true
	case "import":
		return model.OrderTypeImport, true
	}
	return "", false
}

func ParseShipmentType(raw string) (model.ShipmentType, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "airfreight", "air":
		return model.ShipmentTypeAirFreight, true
	case "lcl":
		return model.ShipmentTypeLCL, true
	case "fcl":
		return model.ShipmentTypeFCL, true
	}
	return "", false
}
