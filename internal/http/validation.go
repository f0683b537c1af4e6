package http

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/nurpe/freight-desk/internal/filter"
	"github.com/nurpe/freight-desk/internal/form"
	"github.com/nurpe/freight-desk/internal/model"
)

// RegisterValidators adds the domain tags used by request DTOs to gin's
// validator engine.
func RegisterValidators() error {
	engine, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("unexpected gin validator engine")
	}
	if err := engine.RegisterValidation("order_type", func(fl validator.FieldLevel) bool {
		_, ok := form.ParseOrderType(fl.Field().String())
		return ok
	}); err != nil {
		return err
	}
	if err := engine.RegisterValidation("shipment_type", func(fl validator.FieldLevel) bool {
		_, ok := form.ParseShipmentType(fl.Field().String())
		return ok
	}); err != nil {
		return err
	}
	return engine.RegisterValidation("order_status", func(fl validator.FieldLevel) bool {
		_, ok := model.ParseOrderStatus(fl.Field().String())
		return ok
	})
}

type orderCriteriaRequest struct {
	Search       string `json:"search" form:"search" binding:"max=100"`
	OrderType    string `json:"orderType" form:"orderType" binding:"omitempty,order_type"`
	ShipmentType string `json:"shipmentType" form:"shipmentType" binding:"omitempty,shipment_type"`
	Status       string `json:"status" form:"status" binding:"omitempty,order_status"`
}

// criteria maps accepted aliases onto the canonical values the filter
// compares against.
func (r orderCriteriaRequest) criteria() filter.Criteria {
	c := filter.Criteria{Search: r.Search}
	if ot, ok := form.ParseOrderType(r.OrderType); ok {
		c.OrderType = string(ot)
	}
	if st, ok := form.ParseShipmentType(r.ShipmentType); ok {
		c.ShipmentType = string(st)
	}
	if status, ok := model.ParseOrderStatus(r.Status); ok {
		c.Status = string(status)
	}
	return c
}

type exportHistoryRequest struct {
	Limit int `form:"limit" binding:"omitempty,min=1,max=100"`
}

type createOrderRequest struct {
	OrderType    string    `json:"orderType" binding:"required,order_type"`
	ShipmentType string    `json:"shipmentType" binding:"required,shipment_type"`
	Data         form.Data `json:"data" binding:"required"`
}

type gateRequest struct {
	Token        string   `json:"token"`
	View         string   `json:"view" binding:"required_without=AllowedRoles"`
	AllowedRoles []string `json:"allowedRoles" binding:"required_without=View"`
}

// bindingErrors turns validator failures into a field -> message map keyed
// by the JSON field name.
func bindingErrors(err error) map[string]string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[toJSONFieldName(fe.Field())] = formatValidationError(fe)
	}
	return fields
}

func formatValidationError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", toJSONFieldName(fe.Field()))
	case "required_without":
		return fmt.Sprintf("%s is required when %s is missing", toJSONFieldName(fe.Field()), toJSONFieldName(fe.Param()))
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("Must be at most %s characters", fe.Param())
		}
		return fmt.Sprintf("Must be at most %s", fe.Param())
	case "min":
		return fmt.Sprintf("Must be at least %s", fe.Param())
	case "order_type":
		return "Must be one of: export, import"
	case "shipment_type":
		return "Must be one of: airFreight, lcl, fcl"
	case "order_status":
		return "Must be one of: active, pending, completed, cancelled"
	default:
		return "Invalid value"
	}
}

func toJSONFieldName(field string) string {
	if field == "" {
		return field
	}
	return strings.ToLower(field[:1]) + field[1:]
}
