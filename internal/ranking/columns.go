package ranking

import (
	"strings"
	"time"

	"github.com/nurpe/freight-desk/internal/model"
)

type kind int

const (
	kindNumber kind = iota
	kindText
	kindTime
)

type value struct {
	kind kind
	num  float64
	text string
	at   time.Time
}

type column struct {
	key     string
	kind    kind
	extract func(model.Quote) (value, bool)
}

func numberColumn(key string, get func(model.Quote) *float64) column {
	return column{key: key, kind: kindNumber, extract: func(q model.Quote) (value, bool) {
		v := get(q)
		if v == nil {
			return value{}, false
		}
		return value{kind: kindNumber, num: *v}, true
	}}
}

func textColumn(key string, get func(model.Quote) string) column {
	return column{key: key, kind: kindText, extract: func(q model.Quote) (value, bool) {
		v := strings.TrimSpace(get(q))
		if v == "" {
			return value{}, false
		}
		return value{kind: kindText, text: v}, true
	}}
}

func timeColumn(key string, get func(model.Quote) *time.Time) column {
	return column{key: key, kind: kindTime, extract: func(q model.Quote) (value, bool) {
		v := get(q)
		if v == nil || v.IsZero() {
			return value{}, false
		}
		return value{kind: kindTime, at: *v}, true
	}}
}

var columns = []column{
	numberColumn("totalFreight", func(q model.Quote) *float64 { return q.TotalFreight }),
	numberColumn("netFreight", func(q model.Quote) *float64 { return q.NetFreight }),
	numberColumn("awb", func(q model.Quote) *float64 { return q.AWB }),
	numberColumn("hawb", func(q model.Quote) *float64 { return q.HAWB }),
	numberColumn("dthc", func(q model.Quote) *float64 { return q.DTHC }),
	numberColumn("originCharges", func(q model.Quote) *float64 { return q.OriginCharges }),
	numberColumn("destinationCharges", func(q model.Quote) *float64 { return q.DestinationCharges }),
	textColumn("agent", func(q model.Quote) string { return q.Agent }),
	textColumn("createdUser", func(q model.Quote) string { return q.CreatedUser }),
	textColumn("carrier", func(q model.Quote) string { return q.Carrier }),
	textColumn("routing", func(q model.Quote) string { return q.Routing }),
	textColumn("transitTime", func(q model.Quote) string { return q.TransitTime }),
	timeColumn("validityTime", func(q model.Quote) *time.Time { return q.ValidityTime }),
}

var columnIndex = func() map[string]column {
	index := make(map[string]column, len(columns))
	for _, c := range columns {
		index[c.key] = c
	}
	return index
}()

func lookup(key string) (column, bool) {
	c, ok := columnIndex[strings.TrimSpace(key)]
	return c, ok
}

// Columns lists the sortable column keys in display order.
func Columns() []string {
	keys := make([]string, 0, len(columns))
	for _, c := range columns {
		keys = append(keys, c.key)
	}
	return keys
}

// IsPriceField reports whether key names a numeric pricing column, i.e. one
// that can rank quotes for Cheapest.
func IsPriceField(key string) bool {
	c, ok := lookup(key)
	return ok && c.kind == kindNumber
}

// Price returns the numeric value of a pricing column.
func Price(q model.Quote, field string) (float64, bool) {
	c, ok := lookup(field)
	if !ok || c.kind != kindNumber {
		return 0, false
	}
	v, ok := c.extract(q)
	if !ok {
		return 0, false
	}
	return v.num, true
}

func compare(a, b value) int {
	switch a.kind {
	case kindNumber:
		return compareOrdered(a.num, b.num)
	case kindTime:
		return a.at.Compare(b.at)
	default:
		return compareOrdered(a.text, b.text)
	}
}

func compareOrdered[T float64 | string](a, b T) int {
	if a < b {
		return -1
	}
	if a > b {
		return 1
	}
	return 0
}
