// Package form validates order and quote form submissions against
// declarative rule tables.
package form

import (
	"encoding/json"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// Data is the submitted form state keyed by field name. Values are strings,
// numbers or booleans as decoded from JSON.
type Data map[string]any

// FieldRule is a required or conditionally-required field.
type FieldRule struct {
	Field     string
	Required  bool
	Condition func(Data) bool
	Message   string
}

// CrossRule is a whole-form check; Invalid returns true when the form is
// invalid and must return false while any operand is missing.
type CrossRule struct {
	Field   string
	Invalid func(Data) bool
	Message string
}

// Errors maps a field name to its first failing message.
type Errors map[string]string

func (e Errors) Valid() bool {
	return len(e) == 0
}

// Validate applies required-field rules. The first failing rule per field
// wins, in table order.
func Validate(data Data, rules []FieldRule) Errors {
	errs := Errors{}
	for _, rule := range rules {
		if !rule.Required || rule.Field == "" {
			continue
		}
		if _, done := errs[rule.Field]; done {
			continue
		}
		if !IsEmpty(data[rule.Field]) {
			continue
		}
		if rule.Condition != nil && !safeCall(rule.Condition, data) {
			continue
		}
		errs[rule.Field] = rule.Message
	}
	return errs
}

// Check applies cross-field rules, skipping fields that already failed in errs.
func Check(data Data, checks []CrossRule, errs Errors) Errors {
	if errs == nil {
		errs = Errors{}
	}
	for _, check := range checks {
		if check.Invalid == nil || check.Field == "" {
			continue
		}
		if _, done := errs[check.Field]; done {
			continue
		}
		if safeCall(check.Invalid, data) {
			errs[check.Field] = check.Message
		}
	}
	return errs
}

// safeCall treats a panicking predicate as false so a broken rule cannot take
// the whole validation down.
func safeCall(fn func(Data) bool, data Data) (result bool) {
	defer func() {
		if recover() != nil {
			result = false
		}
	}()
	return fn(data)
}

// IsEmpty reports whether a form value counts as not filled in: nil, blank
// strings, zero numbers, false and zero times.
func IsEmpty(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(v) == ""
	case json.Number:
		f, err := v.Float64()
		return err != nil || f == 0
	case bool:
		return !v
	case time.Time:
		return v.IsZero()
	case float64:
		return v == 0
	case int:
		return v == 0
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return true
		}
		return IsEmpty(rv.Elem().Interface())
	case reflect.Slice, reflect.Map:
		return rv.Len() == 0
	}
	return rv.IsZero()
}

// Number reads a numeric field given as a number or a numeric string.
func Number(data Data, field string) (float64, bool) {
	switch v := data[field].(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f, err == nil
	}
	return 0, false
}

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// Date reads a date field given as a time.Time or one of the accepted layouts.
func Date(data Data, field string) (time.Time, bool) {
	switch v := data[field].(type) {
	case time.Time:
		return v, !v.IsZero()
	case string:
		raw := strings.TrimSpace(v)
		if raw == "" {
			return time.Time{}, false
		}
		for _, layout := range dateLayouts {
			if parsed, err := time.Parse(layout, raw); err == nil {
				return parsed, true
			}
		}
	}
	return time.Time{}, false
}

// Text reads a string field, trimmed.
func Text(data Data, field string) string {
	if v, ok := data[field].(string); ok {
		return strings.TrimSpace(v)
	}
	return ""
}

// Equals builds a Condition matching a string field exactly.
func Equals(field, want string) func(Data) bool {
	return func(data Data) bool {
		return Text(data, field) == want
	}
}
