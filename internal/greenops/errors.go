package greenops

// constError is an immutable error type for sentinel errors.
type constError string

func (e constError) Error() string { return string(e) }

var (
	// ErrNegativeValue is returned for a negative CO2 amount.
	ErrNegativeValue = constError("negative carbon value")

	// ErrCalculationOverflow is returned when an input or result is NaN or Inf.
	ErrCalculationOverflow = constError("calculation overflow")
)
