// Package pagination sorts and windows batch assessment results for the CLI.
//
// It holds the --sort, --limit, --offset, --page and --page-size flag values,
// validates them, and applies them to a slice of engine.BatchItem. Page-based
// and offset-based windows are mutually exclusive.
package pagination
