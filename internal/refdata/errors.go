package refdata

import "fmt"

type constError string

func (e constError) Error() string { return string(e) }

var (
	// ErrUnsupportedFormat is returned for files that are neither CSV/TSV nor XLSX.
	ErrUnsupportedFormat = constError("unsupported reference file format")

	// ErrMissingColumn is returned when a required market column is absent.
	ErrMissingColumn = constError("required column missing")

	// ErrNoUsableRows is returned when cleaning leaves the table empty.
	ErrNoUsableRows = constError("no usable rows after cleaning")

	// ErrNotLoaded is returned by Store.Snapshot before the first successful load.
	ErrNotLoaded = constError("reference data not loaded")
)

// Table names used in DataLoadError.
const (
	TableMarket  = "market"
	TableCountry = "country"
)

// DataLoadError reports that a reference table could not be loaded. It is
// fatal: callers must stop before computing anything.
type DataLoadError struct {
	Table string
	Path  string
	Err   error
}

func (e *DataLoadError) Error() string {
	return fmt.Sprintf("loading %s data from %q: %v", e.Table, e.Path, e.Err)
}

func (e *DataLoadError) Unwrap() error { return e.Err }
