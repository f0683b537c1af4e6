// Package ranking finds the cheapest freight quote and orders quote tables by
// column with an ascending/descending toggle.
package ranking

import (
	"slices"
	"strings"

	"github.com/nurpe/freight-desk/internal/model"
)

type Direction string

const (
	Ascending  Direction = "ascending"
	Descending Direction = "descending"
)

// ParseDirection maps anything other than "descending"/"desc" to Ascending.
func ParseDirection(raw string) Direction {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "descending", "desc":
		return Descending
	default:
		return Ascending
	}
}

// SortState is the column-header state of a quote table.
type SortState struct {
	Key       string    `json:"key"`
	Direction Direction `json:"direction"`
}

// Toggle applies a header click on key: the same key flips the direction,
// any other key starts over ascending. An unset direction counts as ascending.
func (s SortState) Toggle(key string) SortState {
	if key == s.Key && s.Key != "" {
		if s.Direction == Descending {
			return SortState{Key: key, Direction: Ascending}
		}
		return SortState{Key: key, Direction: Descending}
	}
	return SortState{Key: key, Direction: Ascending}
}

// Cheapest returns the quote with the minimum value of field. Quotes without
// the field are skipped; on ties the earliest quote wins.
func Cheapest(quotes []model.Quote, field string) (model.Quote, bool) {
	var (
		best   model.Quote
		lowest float64
		found  bool
	)
	for _, q := range quotes {
		v, ok := Price(q, field)
		if !ok {
			continue
		}
		if !found || v < lowest {
			best, lowest, found = q, v, true
		}
	}
	return best, found
}

// SortBy returns a sorted copy of quotes. The sort is stable and quotes
// missing the key are placed last in either direction. Unknown keys return
// the copy in input order.
func SortBy(quotes []model.Quote, key string, direction Direction) []model.Quote {
	result := slices.Clone(quotes)
	if result == nil {
		result = []model.Quote{}
	}
	col, ok := lookup(key)
	if !ok {
		return result
	}

	slices.SortStableFunc(result, func(a, b model.Quote) int {
		av, aok := col.extract(a)
		bv, bok := col.extract(b)
		switch {
		case !aok && !bok:
			return 0
		case !aok:
			return 1
		case !bok:
			return -1
		}
		cmp := compare(av, bv)
		if direction == Descending {
			return -cmp
		}
		return cmp
	})
	return result
}

// Row is one rendered line of a ranked quote table.
type Row struct {
	Quote    model.Quote `json:"quote"`
	Cheapest bool        `json:"cheapest"`
}

// Result is a ranked quote table.
type Result struct {
	RankField     string    `json:"rankField"`
	CheapestValue *float64  `json:"cheapestValue,omitempty"`
	Sort          SortState `json:"sort"`
	Rows          []Row     `json:"rows"`
}

// Rank sorts quotes by state and marks every row whose rankField value equals
// the cheapest value. An empty state key keeps input order.
func Rank(quotes []model.Quote, rankField string, state SortState) Result {
	result := Result{RankField: rankField, Sort: state}

	var cheapestValue float64
	cheapest, ok := Cheapest(quotes, rankField)
	if ok {
		cheapestValue, _ = Price(cheapest, rankField)
		result.CheapestValue = &cheapestValue
	}

	sorted := SortBy(quotes, state.Key, state.Direction)
	result.Rows = make([]Row, 0, len(sorted))
	for _, q := range sorted {
		row := Row{Quote: q}
		if ok {
			if v, has := Price(q, rankField); has && v == cheapestValue {
				row.Cheapest = true
			}
		}
		result.Rows = append(result.Rows, row)
	}
	return result
}
