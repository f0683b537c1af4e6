package form_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nurpe/freight-desk/internal/form"
	"github.com/nurpe/freight-desk/internal/model"
)

func fixedNow() time.Time {
	return time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
}

func exportAirForm() form.Data {
	return form.Data{
		"from":              "Colombo",
		"to":                "Frankfurt",
		"shipmentReadyDate": "2026-03-20",
		"targetDate":        "2026-03-25",
		"dueDate":           5.0,
		"commodity":         "Tea",
		"incoterms":         "FOB",
		"cargoType":         "PalletizedCargo",
		"noOfPallets":       4.0,
		"grossWeight":       800.0,
		"chargeableWeight":  950.0,
		"cbm":               3.2,
	}
}

func airQuoteForm() form.Data {
	return form.Data{
		"carrier":      "EK",
		"transitTime":  "3 days",
		"validityTime": "2026-03-10",
		"totalFreight": 2100.0,
		"netFreight":   1800.0,
		"awb":          35.0,
	}
}

func TestRegistry_AllVariants(t *testing.T) {
	registry := form.NewRegistry(fixedNow)

	for _, orderType := range []string{"export", "import"} {
		for _, shipmentType := range []string{"airFreight", "lcl", "fcl"} {
			s, ok := registry.Order(orderType, shipmentType)
			require.True(t, ok, "%s/%s", orderType, shipmentType)
			assert.Equal(t, orderType+"-"+shipmentType, s.Name)
			assert.NotEmpty(t, s.Fields)
			assert.NotEmpty(t, s.Rules)
		}
	}

	_, ok := registry.Order("EXPORT", "AirFreight")
	assert.True(t, ok, "lookup is case-insensitive")
	_, ok = registry.Order("domestic", "lcl")
	assert.False(t, ok)
	_, ok = registry.Order("export", "rail")
	assert.False(t, ok)

	for _, st := range []model.ShipmentType{model.ShipmentTypeAirFreight, model.ShipmentTypeLCL, model.ShipmentTypeFCL} {
		_, ok := registry.Quote(st)
		assert.True(t, ok)
	}
}

func TestRegistry_VariantsDifferInRequiredFields(t *testing.T) {
	registry := form.NewRegistry(fixedNow)
	exportAir, _ := registry.Order("export", "airFreight")
	importFCL, _ := registry.Order("import", "fcl")

	exportErrs := exportAir.Validate(form.Data{})
	importErrs := importFCL.Validate(form.Data{})

	assert.Contains(t, exportErrs, "chargeableWeight")
	assert.NotContains(t, exportErrs, "containerType")
	assert.NotContains(t, exportErrs, "supplierName")

	assert.Contains(t, importErrs, "containerType")
	assert.Contains(t, importErrs, "supplierName")
	assert.Contains(t, importErrs, "deliveryAddress")
	assert.NotContains(t, importErrs, "chargeableWeight")
	assert.Equal(t, "Origin is required", importErrs["from"])
}

func TestSchema_ExportAirFreight(t *testing.T) {
	registry := form.NewRegistry(fixedNow)
	schema, ok := registry.Order("export", "airFreight")
	require.True(t, ok)

	tests := []struct {
		name     string
		mutate   func(form.Data)
		expected form.Errors
	}{
		{
			name:     "complete form is valid",
			mutate:   func(form.Data) {},
			expected: form.Errors{},
		},
		{
			name:     "palletized cargo needs a pallet count",
			mutate:   func(d form.Data) { delete(d, "noOfPallets") },
			expected: form.Errors{"noOfPallets": "Number of pallets is required"},
		},
		{
			name: "loose cargo needs a package count instead",
			mutate: func(d form.Data) {
				d["cargoType"] = "LooseCargo"
				delete(d, "noOfPallets")
			},
			expected: form.Errors{"noOfPackages": "Number of packages is required"},
		},
		{
			name:     "EXW needs a pickup address",
			mutate:   func(d form.Data) { d["incoterms"] = "EXW" },
			expected: form.Errors{"pickupAddress": "Pickup address is required"},
		},
		{
			name:     "due date must fall before the ready date",
			mutate:   func(d form.Data) { d["dueDate"] = 19.0 },
			expected: form.Errors{"dueDate": "Quotation due date must be before the shipment ready date"},
		},
		{
			name:     "due date given as a numeric string",
			mutate:   func(d form.Data) { d["dueDate"] = "25" },
			expected: form.Errors{"dueDate": "Quotation due date must be before the shipment ready date"},
		},
		{
			name:     "due window beyond a year",
			mutate:   func(d form.Data) { d["dueDate"] = 1e300 },
			expected: form.Errors{"dueDate": "Days to respond cannot exceed 365"},
		},
		{
			name:     "due window at the limit is checked against the ready date",
			mutate:   func(d form.Data) { d["dueDate"] = 365.0 },
			expected: form.Errors{"dueDate": "Quotation due date must be before the shipment ready date"},
		},
		{
			name:     "target date cannot precede the ready date",
			mutate:   func(d form.Data) { d["targetDate"] = "2026-03-19" },
			expected: form.Errors{"targetDate": "Target delivery date cannot be before the shipment ready date"},
		},
		{
			name:     "chargeable weight cannot be below gross weight",
			mutate:   func(d form.Data) { d["chargeableWeight"] = 700.0 },
			expected: form.Errors{"chargeableWeight": "Chargeable weight cannot be below the gross weight"},
		},
		{
			name:     "negative weight",
			mutate:   func(d form.Data) { d["grossWeight"] = -1.0; d["chargeableWeight"] = 1.0 },
			expected: form.Errors{"grossWeight": "Gross weight must be greater than zero"},
		},
		{
			name:     "pallet count must be whole",
			mutate:   func(d form.Data) { d["noOfPallets"] = 2.5 },
			expected: form.Errors{"noOfPallets": "Must be a whole number"},
		},
		{
			name:     "unparseable date",
			mutate:   func(d form.Data) { d["targetDate"] = "25/03/2026" },
			expected: form.Errors{"targetDate": "Must be a valid date (YYYY-MM-DD)"},
		},
		{
			name: "date rules skip missing operands",
			mutate: func(d form.Data) {
				delete(d, "shipmentReadyDate")
				d["dueDate"] = 90.0
			},
			expected: form.Errors{"shipmentReadyDate": "Shipment ready date is required"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := exportAirForm()
			tt.mutate(data)
			assert.Equal(t, tt.expected, schema.Validate(data))
		})
	}
}

func TestSchema_ReadyDateInThePast(t *testing.T) {
	registry := form.NewRegistry(fixedNow)
	schema, _ := registry.Order("export", "airFreight")

	data := exportAirForm()
	data["shipmentReadyDate"] = "2026-02-20"
	data["targetDate"] = "2026-02-25"

	errs := schema.Validate(data)
	assert.Equal(t, "Shipment ready date cannot be in the past", errs["shipmentReadyDate"])
	assert.Contains(t, errs, "dueDate")
}

func TestSchema_ImportFCLReefer(t *testing.T) {
	registry := form.NewRegistry(fixedNow)
	schema, _ := registry.Order("import", "fcl")

	data := form.Data{
		"from":               "Shanghai",
		"to":                 "Hamburg",
		"shipmentReadyDate":  "2026-04-01",
		"targetDate":         "2026-05-01",
		"dueDate":            7.0,
		"commodity":          "Frozen fish",
		"incoterms":          "FOB",
		"supplierName":       "Ocean Foods",
		"deliveryAddress":    "Hafenstrasse 1",
		"containerType":      "40RF",
		"noOfContainers":     2.0,
		"weightPerContainer": 24000.0,
	}
	assert.Equal(t, form.Errors{"temperature": "Temperature setting is required"}, schema.Validate(data))

	data["temperature"] = "-18C"
	assert.Empty(t, schema.Validate(data))

	data["containerType"] = "40HC"
	delete(data, "temperature")
	assert.Empty(t, schema.Validate(data))
}

func TestSchema_Quote(t *testing.T) {
	registry := form.NewRegistry(fixedNow)
	schema, ok := registry.Quote(model.ShipmentTypeAirFreight)
	require.True(t, ok)

	assert.Empty(t, schema.Validate(airQuoteForm()))

	data := airQuoteForm()
	data["totalFreight"] = 1000.0
	assert.Equal(t, form.Errors{"totalFreight": "Total freight cannot be below the net freight"}, schema.Validate(data))

	data = airQuoteForm()
	data["validityTime"] = "2026-02-28"
	assert.Equal(t, form.Errors{"validityTime": "Validity date cannot be in the past"}, schema.Validate(data))

	data = airQuoteForm()
	data["hawb"] = -5.0
	assert.Equal(t, form.Errors{"hawb": "HAWB fee cannot be negative"}, schema.Validate(data))

	data = airQuoteForm()
	delete(data, "awb")
	assert.Equal(t, form.Errors{"awb": "AWB fee is required"}, schema.Validate(data))

	fcl, _ := registry.Quote(model.ShipmentTypeFCL)
	errs := fcl.Validate(airQuoteForm())
	assert.Equal(t, "Routing is required", errs["routing"])
	assert.Equal(t, "DTHC is required", errs["dthc"])
}

func TestSchema_FieldsDescribeTheForm(t *testing.T) {
	registry := form.NewRegistry(fixedNow)
	schema, _ := registry.Order("export", "lcl")

	byName := map[string]form.Field{}
	for _, f := range schema.Fields {
		byName[f.Name] = f
	}
	require.Contains(t, byName, "cargoType")
	assert.Equal(t, form.KindSelect, byName["cargoType"].Kind)
	assert.Equal(t, []string{"LooseCargo", "PalletizedCargo"}, byName["cargoType"].Options)
	assert.Equal(t, form.KindDate, byName["shipmentReadyDate"].Kind)
}

func TestParseTypes(t *testing.T) {
	ot, ok := form.ParseOrderType(" Import ")
	assert.True(t, ok)
	assert.Equal(t, model.OrderTypeImport, ot)

	st, ok := form.ParseShipmentType("AIRFREIGHT")
	assert.True(t, ok)
	assert.Equal(t, model.ShipmentTypeAirFreight, st)

	_, ok = form.ParseShipmentType("")
	assert.False(t, ok)
}
