package pagination

import (
	"errors"
	"fmt"
	"strings"
)

// Sort orders.
const (
	SortOrderAsc  = "asc"
	SortOrderDesc = "desc"
)

// sortPartsMax is the maximum number of parts in a sort string (field:order).
const sortPartsMax = 2

// Validation errors.
var (
	ErrInvalidSortOrder     = errors.New("sort order must be 'asc' or 'desc'")
	ErrInvalidSortFormat    = errors.New("invalid sort format: use 'field' or 'field:order' (e.g., 'score:desc')")
	ErrEmptySortField       = errors.New("sort field cannot be empty")
	ErrInvalidSortField     = errors.New("invalid sort field")
	ErrMixedPaginationModes = errors.New("page and offset parameters are mutually exclusive")
)

// Params holds the CLI windowing and sorting flags.
type Params struct {
	// Limit caps the number of results in offset mode. Zero means no cap.
	Limit int

	// Offset skips results in offset mode.
	Offset int

	// Page is 1-based; zero disables page mode.
	Page int

	// PageSize is the page length in page mode.
	PageSize int

	// Sort is "field" or "field:order". Empty keeps input order.
	Sort string
}

// Validate checks bounds and that at most one windowing mode is in use.
func (p Params) Validate() error {
	if p.Limit < 0 {
		return errors.New("limit cannot be negative")
	}
	if p.Offset < 0 {
		return errors.New("offset cannot be negative")
	}
	if p.Page < 0 {
		return errors.New("page cannot be negative")
	}
	if p.PageSize < 0 {
		return errors.New("page-size cannot be negative")
	}
	if p.Page > 0 && p.Offset > 0 {
		return ErrMixedPaginationModes
	}
	if p.Page == 0 && p.PageSize > 0 {
		return errors.New("page must be specified when using page-size")
	}
	if p.PageSize == 0 && p.Page > 0 {
		return errors.New("page-size must be specified when using page")
	}
	if p.Sort != "" {
		field, _, err := ParseSort(p.Sort)
		if err != nil {
			return err
		}
		if !IsValidField(field) {
			return fmt.Errorf("%w: %q (valid: %s)", ErrInvalidSortField, field, strings.Join(ValidFields(), ", "))
		}
	}
	return nil
}

// IsEnabled reports whether any windowing flag is set.
func (p Params) IsEnabled() bool {
	return p.Limit > 0 || p.Offset > 0 || p.Page > 0
}

// Window returns the [start, end) bounds of the selected results out of total.
func (p Params) Window(total int) (int, int) {
	start, size := p.Offset, p.Limit
	if p.Page > 0 {
		start, size = (p.Page-1)*p.PageSize, p.PageSize
	}
	start = min(start, total)
	end := total
	if size > 0 {
		end = min(start+size, total)
	}
	return start, end
}

// ParseSort parses "field" or "field:order". A bare field sorts descending,
// since callers usually want the strongest candidates first.
//
//nolint:nonamedreturns // Named returns improve readability for this multi-value function.
func ParseSort(sortStr string) (field, order string, err error) {
	parts := strings.Split(sortStr, ":")
	switch len(parts) {
	case 1:
		field = strings.TrimSpace(parts[0])
		order = SortOrderDesc
	case sortPartsMax:
		field = strings.TrimSpace(parts[0])
		order = strings.ToLower(strings.TrimSpace(parts[1]))
	default:
		return "", "", fmt.Errorf("%w: %q", ErrInvalidSortFormat, sortStr)
	}

	if field == "" {
		return "", "", ErrEmptySortField
	}
	if order != SortOrderAsc && order != SortOrderDesc {
		return "", "", fmt.Errorf("%w: got %q", ErrInvalidSortOrder, order)
	}
	return field, order, nil
}
