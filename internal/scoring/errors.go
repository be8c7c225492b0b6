package scoring

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

type constError string

func (e constError) Error() string { return string(e) }

// ErrInvalidParams is returned by Params.Validate.
const ErrInvalidParams = constError("invalid scoring parameters")

// UnknownCategoryError reports a waste type with no market entry.
type UnknownCategoryError struct {
	Category string
	Known    []string
}

func (e *UnknownCategoryError) Error() string {
	if len(e.Known) == 0 {
		return fmt.Sprintf("unknown waste category %q", e.Category)
	}
	return fmt.Sprintf("unknown waste category %q (known: %s)", e.Category, strings.Join(e.Known, ", "))
}

// InvalidQuantityError reports a quantity that is non-numeric, non-finite or
// outside [MinQuantityKg, MaxQuantityKg].
type InvalidQuantityError struct {
	Input  string
	Reason string
}

func (e *InvalidQuantityError) Error() string {
	return fmt.Sprintf("invalid quantity %q: %s", e.Input, e.Reason)
}

// ValidateQuantity checks a quantity in kilograms.
func ValidateQuantity(kg float64) error {
	switch {
	case math.IsNaN(kg) || math.IsInf(kg, 0):
		return &InvalidQuantityError{Input: strconv.FormatFloat(kg, 'g', -1, 64), Reason: "must be a finite number"}
	case kg < MinQuantityKg:
		return &InvalidQuantityError{
			Input:  strconv.FormatFloat(kg, 'g', -1, 64),
			Reason: fmt.Sprintf("must be at least %g kg", MinQuantityKg),
		}
	case kg > MaxQuantityKg:
		return &InvalidQuantityError{
			Input:  strconv.FormatFloat(kg, 'g', -1, 64),
			Reason: fmt.Sprintf("must be at most %g kg", MaxQuantityKg),
		}
	}
	return nil
}

// ParseQuantity parses user-supplied text as a quantity in kilograms.
func ParseQuantity(s string) (float64, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return 0, &InvalidQuantityError{Input: s, Reason: "is required"}
	}
	kg, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return 0, &InvalidQuantityError{Input: s, Reason: "not a number"}
	}
	if err := ValidateQuantity(kg); err != nil {
		return 0, err
	}
	return kg, nil
}
