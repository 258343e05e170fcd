package product

import "github.com/go-faster/errors"

// Filter selects the subset of a product snapshot shown in a view.
type Filter string

const (
	FilterAll          Filter = "All"
	FilterAvailable    Filter = Filter(StatusAvailable)
	FilterNotAvailable Filter = Filter(StatusNotAvailable)
)

// ParseFilter validates a raw filter key.
func ParseFilter(s string) (Filter, error) {
	switch Filter(s) {
	case FilterAll, FilterAvailable, FilterNotAvailable:
		return Filter(s), nil
	}
	return "", errors.Errorf("unknown filter %q", s)
}

// FilterByStatus returns the products matching the filter, preserving
// relative order. FilterAll returns the input unchanged.
func FilterByStatus(products []Product, f Filter) []Product {
	if f == FilterAll {
		return products
	}
	out := make([]Product, 0, len(products))
	for _, p := range products {
		if p.Status == Status(f) {
			out = append(out, p)
		}
	}
	return out
}
