package form

import (
	"fmt"
	"math"
	"time"

	"github.com/nurpe/freight-desk/internal/model"
)

var (
	incoterms      = []string{"EXW", "FCA", "FOB", "CFR", "CIF", "CPT", "CIP", "DAP", "DDP"}
	cargoTypes     = []string{string(model.CargoTypeLoose), string(model.CargoTypePalletized)}
	containerTypes = []string{"20GP", "40GP", "40HC", "20RF", "40RF"}
)

type fieldSpec struct {
	field   Field
	message string
	when    func(Data) bool
}

func required(name, label string, kind FieldKind, options ...string) fieldSpec {
	return fieldSpec{
		field:   Field{Name: name, Label: label, Kind: kind, Options: options},
		message: label + " is required",
	}
}

func (s fieldSpec) onlyWhen(cond func(Data) bool) fieldSpec {
	s.when = cond
	return s
}

func optional(name, label string, kind FieldKind) fieldSpec {
	return fieldSpec{field: Field{Name: name, Label: label, Kind: kind}}
}

// maxDueDays bounds the quotation window so the derived due date stays a
// representable calendar date.
const maxDueDays = 365

var routeFields = []fieldSpec{
	required("from", "Origin", KindText),
	required("to", "Destination", KindText),
	required("shipmentReadyDate", "Shipment ready date", KindDate),
	required("targetDate", "Target delivery date", KindDate),
	required("dueDate", "Days to respond", KindNumber),
	required("commodity", "Commodity", KindText),
	required("incoterms", "Incoterms", KindSelect, incoterms...),
}

var orderTypeFields = map[model.OrderType][]fieldSpec{
	model.OrderTypeExport: {
		required("pickupAddress", "Pickup address", KindText).onlyWhen(Equals("incoterms", "EXW")),
	},
	model.OrderTypeImport: {
		required("supplierName", "Supplier name", KindText),
		required("deliveryAddress", "Delivery address", KindText),
		required("pickupAddress", "Pickup address", KindText).onlyWhen(Equals("incoterms", "EXW")),
	},
}

var isPalletized = Equals("cargoType", string(model.CargoTypePalletized))
var isLoose = Equals("cargoType", string(model.CargoTypeLoose))

func isReefer(data Data) bool {
	switch Text(data, "containerType") {
	case "20RF", "40RF":
		return true
	}
	return false
}

var shipmentTypeFields = map[model.ShipmentType][]fieldSpec{
	model.ShipmentTypeAirFreight: {
		required("cargoType", "Cargo type", KindSelect, cargoTypes...),
		required("noOfPallets", "Number of pallets", KindNumber).onlyWhen(isPalletized),
		required("noOfPackages", "Number of packages", KindNumber).onlyWhen(isLoose),
		required("grossWeight", "Gross weight", KindNumber),
		required("chargeableWeight", "Chargeable weight", KindNumber),
		required("cbm", "Volume (CBM)", KindNumber),
	},
	model.ShipmentTypeLCL: {
		required("cargoType", "Cargo type", KindSelect, cargoTypes...),
		required("noOfPallets", "Number of pallets", KindNumber).onlyWhen(isPalletized),
		required("noOfPackages", "Number of packages", KindNumber).onlyWhen(isLoose),
		required("grossWeight", "Gross weight", KindNumber),
		required("cbm", "Volume (CBM)", KindNumber),
	},
	model.ShipmentTypeFCL: {
		required("containerType", "Container type", KindSelect, containerTypes...),
		required("noOfContainers", "Number of containers", KindNumber),
		required("weightPerContainer", "Weight per container", KindNumber),
		required("temperature", "Temperature setting", KindText).onlyWhen(isReefer),
	},
}

var quoteCommonFields = []fieldSpec{
	required("carrier", "Carrier", KindText),
	required("transitTime", "Transit time", KindText),
	required("validityTime", "Validity date", KindDate),
	required("totalFreight", "Total freight", KindNumber),
	optional("remarks", "Remarks", KindText),
}

var quoteShipmentFields = map[model.ShipmentType][]fieldSpec{
	model.ShipmentTypeAirFreight: {
		required("netFreight", "Net freight", KindNumber),
		required("awb", "AWB fee", KindNumber),
		optional("hawb", "HAWB fee", KindNumber),
		optional("dthc", "DTHC", KindNumber),
	},
	model.ShipmentTypeLCL: {
		required("netFreight", "Net freight", KindNumber),
		required("dthc", "DTHC", KindNumber),
		optional("originCharges", "Origin charges", KindNumber),
		optional("destinationCharges", "Destination charges", KindNumber),
	},
	model.ShipmentTypeFCL: {
		required("netFreight", "Net freight", KindNumber),
		required("dthc", "DTHC", KindNumber),
		required("routing", "Routing", KindText),
		optional("originCharges", "Origin charges", KindNumber),
		optional("destinationCharges", "Destination charges", KindNumber),
	},
}

func build(name string, groups ...[]fieldSpec) Schema {
	s := Schema{Name: name}
	for _, group := range groups {
		for _, sp := range group {
			s.Fields = append(s.Fields, sp.field)
			if sp.message == "" {
				continue
			}
			s.Rules = append(s.Rules, FieldRule{
				Field:     sp.field.Name,
				Required:  true,
				Condition: sp.when,
				Message:   sp.message,
			})
		}
	}
	return s
}

func (r *Registry) orderSchema(orderType model.OrderType, shipmentType model.ShipmentType) Schema {
	s := build(string(orderType)+"-"+string(shipmentType),
		routeFields, orderTypeFields[orderType], shipmentTypeFields[shipmentType])

	s.Checks = append(s.Checks, dateFormatChecks(s.Fields)...)
	s.Checks = append(s.Checks,
		CrossRule{Field: "shipmentReadyDate", Invalid: r.beforeToday("shipmentReadyDate"), Message: "Shipment ready date cannot be in the past"},
		CrossRule{Field: "dueDate", Invalid: above("dueDate", maxDueDays), Message: fmt.Sprintf("Days to respond cannot exceed %d", maxDueDays)},
		CrossRule{Field: "dueDate", Invalid: r.dueNotBeforeReady, Message: "Quotation due date must be before the shipment ready date"},
		CrossRule{Field: "targetDate", Invalid: dateBefore("targetDate", "shipmentReadyDate"), Message: "Target delivery date cannot be before the shipment ready date"},
	)
	for _, f := range s.Fields {
		if f.Kind != KindNumber {
			continue
		}
		s.Checks = append(s.Checks, CrossRule{Field: f.Name, Invalid: positive(f.Name), Message: f.Label + " must be greater than zero"})
	}
	for _, count := range []string{"dueDate", "noOfPallets", "noOfPackages", "noOfContainers"} {
		s.Checks = append(s.Checks, CrossRule{Field: count, Invalid: fractional(count), Message: "Must be a whole number"})
	}
	if shipmentType == model.ShipmentTypeAirFreight {
		s.Checks = append(s.Checks, CrossRule{
			Field:   "chargeableWeight",
			Invalid: numberBelow("chargeableWeight", "grossWeight"),
			Message: "Chargeable weight cannot be below the gross weight",
		})
	}
	return s
}

func (r *Registry) quoteSchema(shipmentType model.ShipmentType) Schema {
	s := build("quote-"+string(shipmentType), quoteCommonFields, quoteShipmentFields[shipmentType])
	s.Checks = append(s.Checks, dateFormatChecks(s.Fields)...)
	s.Checks = append(s.Checks,
		CrossRule{Field: "validityTime", Invalid: r.beforeToday("validityTime"), Message: "Validity date cannot be in the past"},
		CrossRule{Field: "totalFreight", Invalid: numberBelow("totalFreight", "netFreight"), Message: "Total freight cannot be below the net freight"},
	)
	for _, f := range s.Fields {
		if f.Kind != KindNumber {
			continue
		}
		s.Checks = append(s.Checks, CrossRule{Field: f.Name, Invalid: negative(f.Name), Message: f.Label + " cannot be negative"})
	}
	return s
}

func dateFormatChecks(fields []Field) []CrossRule {
	var checks []CrossRule
	for _, f := range fields {
		if f.Kind != KindDate {
			continue
		}
		name := f.Name
		checks = append(checks, CrossRule{
			Field: name,
			Invalid: func(data Data) bool {
				if IsEmpty(data[name]) {
					return false
				}
				_, ok := Date(data, name)
				return !ok
			},
			Message: "Must be a valid date (YYYY-MM-DD)",
		})
	}
	return checks
}

func (r *Registry) today() time.Time {
	return dateOnly(r.now())
}

func (r *Registry) beforeToday(field string) func(Data) bool {
	return func(data Data) bool {
		d, ok := Date(data, field)
		if !ok {
			return false
		}
		return dateOnly(d).Before(r.today())
	}
}

// dueNotBeforeReady derives the quotation due date as today plus dueDate days.
func (r *Registry) dueNotBeforeReady(data Data) bool {
	days, ok := Number(data, "dueDate")
	if !ok || !(days > 0 && days <= maxDueDays) {
		return false
	}
	ready, ok := Date(data, "shipmentReadyDate")
	if !ok {
		return false
	}
	due := r.today().AddDate(0, 0, int(days))
	return !due.Before(dateOnly(ready))
}

func dateBefore(field, other string) func(Data) bool {
	return func(data Data) bool {
		a, ok := Date(data, field)
		if !ok {
			return false
		}
		b, ok := Date(data, other)
		if !ok {
			return false
		}
		return dateOnly(a).Before(dateOnly(b))
	}
}

func numberBelow(field, other string) func(Data) bool {
	return func(data Data) bool {
		a, ok := Number(data, field)
		if !ok {
			return false
		}
		b, ok := Number(data, other)
		if !ok {
			return false
		}
		return a < b
	}
}

func above(field string, limit float64) func(Data) bool {
	return func(data Data) bool {
		v, ok := Number(data, field)
		return ok && v > limit
	}
}

func positive(field string) func(Data) bool {
	return func(data Data) bool {
		v, ok := Number(data, field)
		if !ok {
			return !IsEmpty(data[field])
		}
		return v <= 0
	}
}

func negative(field string) func(Data) bool {
	return func(data Data) bool {
		v, ok := Number(data, field)
		if !ok {
			return !IsEmpty(data[field])
		}
		return v < 0
	}
}

func fractional(field string) func(Data) bool {
	return func(data Data) bool {
		v, ok := Number(data, field)
		return ok && v != math.Trunc(v)
	}
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
