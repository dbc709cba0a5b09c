package orders

import "strings"

// Filter selects which orders the console shows.
type Filter string

const FilterAll Filter = "All"

// Filters lists the filter controls in display order.
var Filters = []Filter{FilterAll, Filter(StatusPending), Filter(StatusSuccess), Filter(StatusDispatch)}

// ParseFilter matches s case-insensitively; anything unknown means All.
func ParseFilter(s string) Filter {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, string(FilterAll)) {
		return FilterAll
	}
	if st, err := ParseStatus(s); err == nil {
		return Filter(st)
	}
	return FilterAll
}

func (f Filter) IsAll() bool { return strings.EqualFold(string(f), string(FilterAll)) }

// Label capitalizes the first letter for the filter buttons.
func (f Filter) Label() string {
	if f == "" {
		return ""
	}
	return strings.ToUpper(string(f[:1])) + string(f[1:])
}

// Visible returns the orders matching f. For All the input slice is
// returned as is; otherwise a new slice in store order.
func Visible(list []Order, f Filter) []Order {
	if f == "" || f.IsAll() {
		return list
	}
	want := Status(f).Normalize()
	out := make([]Order, 0, len(list))
	for _, o := range list {
		if o.NormalizedStatus() == want {
			out = append(out, o)
		}
	}
	return out
}

// Counts holds per-filter totals over the full, unfiltered order list.
type Counts struct {
	All      int `json:"all"`
	Pending  int `json:"pending"`
	Dispatch int `json:"dispatch"`
	Success  int `json:"success"`
}

func (c Counts) For(f Filter) int {
	if f.IsAll() {
		return c.All
	}
	switch Status(f).Normalize() {
	case StatusPending:
		return c.Pending
	case StatusDispatch:
		return c.Dispatch
	case StatusSuccess:
		return c.Success
	}
	return 0
}

func CountByStatus(list []Order) Counts {
	c := Counts{All: len(list)}
	for _, o := range list {
		switch o.NormalizedStatus() {
		case StatusPending:
			c.Pending++
		case StatusDispatch:
			c.Dispatch++
		case StatusSuccess:
			c.Success++
		}
	}
	return c
}
