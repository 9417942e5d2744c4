// Package orderquery runs the search, status filter and sort applied to an
// order snapshot before it is listed. It never talks to the store: callers
// fetch a fresh snapshot and run the whole pipeline on every request.
package orderquery

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"yourrest-api/models"
)

var ErrUnknownSelector = errors.New("unknown sort/filter selector")

// Selector is the single sort-or-filter choice. Picking a status filter
// leaves the snapshot in store order; picking a sort applies no filter.
type Selector string

const (
	MostRecent    Selector = "mostRecent"
	Oldest        Selector = "last"
	HighestPrice  Selector = "highestPrice"
	LowestPrice   Selector = "lowestPrice"
	OnlyPending   Selector = "pending"
	OnlyProgress  Selector = "inProgress"
	OnlyDelivered Selector = "delivered"
	OnlyCancelled Selector = "cancelled"
)

var statusFilters = map[Selector]models.OrderStatus{
	OnlyPending:   models.StatusPending,
	OnlyProgress:  models.StatusInProgress,
	OnlyDelivered: models.StatusDelivered,
	OnlyCancelled: models.StatusCancelled,
}

// Selectors lists every accepted selector value in menu order.
var Selectors = []Selector{
	MostRecent, Oldest, HighestPrice, LowestPrice,
	OnlyDelivered, OnlyPending, OnlyProgress, OnlyCancelled,
}

// ParseSelector maps a raw query value to a Selector; empty means MostRecent.
func ParseSelector(raw string) (Selector, error) {
	if raw == "" {
		return MostRecent, nil
	}
	s := Selector(raw)
	if slices.Contains(Selectors, s) {
		return s, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownSelector, raw)
}

// StatusFilter returns the status a filter selector restricts to.
func (s Selector) StatusFilter() (models.OrderStatus, bool) {
	st, ok := statusFilters[s]
	return st, ok
}

type Params struct {
	Query    string
	Selector Selector
}

// Apply returns a new slice; the input snapshot is left untouched.
func Apply(orders []models.Order, p Params) []models.Order {
	out := Search(orders, p.Query)

	if status, ok := p.Selector.StatusFilter(); ok {
		return filterStatus(out, status)
	}

	switch p.Selector {
	case Oldest:
		slices.SortStableFunc(out, func(a, b models.Order) int { return a.CreatedAt.Compare(b.CreatedAt) })
	case HighestPrice:
		slices.SortStableFunc(out, func(a, b models.Order) int { return b.Price.Cmp(a.Price) })
	case LowestPrice:
		slices.SortStableFunc(out, func(a, b models.Order) int { return a.Price.Cmp(b.Price) })
	default:
		slices.SortStableFunc(out, func(a, b models.Order) int { return b.CreatedAt.Compare(a.CreatedAt) })
	}
	return out
}

// Search keeps orders where the lowercased query is a substring of the id,
// customer name, item name, price or formatted creation time.
func Search(orders []models.Order, query string) []models.Order {
	if strings.TrimSpace(query) == "" {
		return slices.Clone(orders)
	}
	q := strings.ToLower(query)
	out := make([]models.Order, 0, len(orders))
	for _, o := range orders {
		if Matches(o, q) {
			out = append(out, o)
		}
	}
	return out
}

// Matches expects q already lowercased.
func Matches(o models.Order, q string) bool {
	for _, field := range []string{o.ID, o.Name, o.Item, o.Price.String(), o.CreatedTime} {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}

func filterStatus(orders []models.Order, status models.OrderStatus) []models.Order {
	out := orders[:0]
	for _, o := range orders {
		if o.Status == status {
			out = append(out, o)
		}
	}
	return out
}

// Summary counts orders per status.
func Summary(orders []models.Order) map[models.OrderStatus]int {
	summary := map[models.OrderStatus]int{}
	for _, o := range orders {
		summary[o.Status]++
	}
	return summary
}
