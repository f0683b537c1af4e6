package service

import (
	"fmt"
	"strings"

	"github.com/nurpe/freight-desk/internal/form"
)

// quoteFormKind selects the quote form in place of an order type.
const quoteFormKind = "quote"

// FormService exposes the form variants so clients can render fields and
// pre-validate input without submitting it.
type FormService struct {
	forms    *form.Registry
	observer ValidationObserver
}

func NewFormService(forms *form.Registry, observer ValidationObserver) *FormService {
	return &FormService{forms: forms, observer: observer}
}

// Schema resolves an order form for (orderType, shipmentType), or the quote
// form when kind is "quote".
func (s *FormService) Schema(kind, shipmentType string) (form.Schema, error) {
	if strings.EqualFold(strings.TrimSpace(kind), quoteFormKind) {
		st, ok := form.ParseShipmentType(shipmentType)
		if !ok {
			return form.Schema{}, fmt.Errorf("%w: unknown shipment type %q", ErrInvalidInput, shipmentType)
		}
		schema, _ := s.forms.Quote(st)
		return schema, nil
	}
	schema, ok := s.forms.Order(kind, shipmentType)
	if !ok {
		return form.Schema{}, fmt.Errorf("%w: unknown order form %s/%s", ErrInvalidInput, kind, shipmentType)
	}
	return schema, nil
}

// Validate returns the field error map; an empty map means the data would be
// accepted.
func (s *FormService) Validate(kind, shipmentType string, data form.Data) (form.Errors, error) {
	schema, err := s.Schema(kind, shipmentType)
	if err != nil {
		return nil, err
	}
	errs := schema.Validate(data)
	if s.observer != nil {
		s.observer.ObserveValidation(schema.Name, errs.Valid())
	}
	return errs, nil
}
