package engine

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rshade/regenesis/internal/engine/batch"
	"github.com/rshade/regenesis/internal/logging"
	"github.com/rshade/regenesis/internal/refdata"
	"github.com/rshade/regenesis/internal/scoring"
)

// MaxBatchRequests caps a single batch run.
const MaxBatchRequests = 10000

type constError string

func (e constError) Error() string { return string(e) }

// ErrBatchTooLarge is returned when a batch exceeds MaxBatchRequests.
const ErrBatchTooLarge = constError("batch too large")

// BatchOptions tunes AssessBatch.
type BatchOptions struct {
	// Concurrency is the number of batches in flight; zero uses the default.
	Concurrency int

	// OnProgress, when set, is called after each batch of requests finishes.
	OnProgress batch.ProgressCallback
}

// BatchItem is the outcome of one request in a batch. Exactly one of
// Assessment and Error is set.
type BatchItem struct {
	Index      int         `json:"index"`
	Request    Request     `json:"request"`
	Assessment *Assessment `json:"assessment,omitempty"`
	Error      string      `json:"error,omitempty"`

	err error
}

// Err returns the underlying error for a failed item.
func (b BatchItem) Err() error { return b.err }

// BatchSummary counts the outcomes of a batch.
type BatchSummary struct {
	Total     int `json:"total"`
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
}

// Summarize counts successes and failures in items.
func Summarize(items []BatchItem) BatchSummary {
	s := BatchSummary{Total: len(items)}
	for _, it := range items {
		if it.err != nil || it.Error != "" {
			s.Failed++
		} else {
			s.Succeeded++
		}
	}
	return s
}

// AssessBatch assesses every request concurrently. A failing request is
// reported in its BatchItem and does not stop the batch. Results keep input
// order.
func (e *Engine) AssessBatch(ctx context.Context, reqs []Request, opts BatchOptions) ([]BatchItem, error) {
	if len(reqs) > MaxBatchRequests {
		return nil, fmt.Errorf("%w: %d requests, limit %d", ErrBatchTooLarge, len(reqs), MaxBatchRequests)
	}
	log := logging.FromContext(ctx)
	start := time.Now()

	proc := batch.NewProcessorWithDefaults[Request, *Assessment]()
	if opts.Concurrency > 0 {
		var err error
		proc, err = batch.NewProcessor[Request, *Assessment](batch.DefaultBatchSize, opts.Concurrency)
		if err != nil {
			return nil, err
		}
	}
	if opts.OnProgress != nil {
		proc.WithProgressCallback(opts.OnProgress)
	}
	outcomes, err := proc.Map(ctx, reqs, e.Assess)
	if err != nil {
		return nil, err
	}

	items := make([]BatchItem, len(outcomes))
	for i, o := range outcomes {
		items[i] = BatchItem{Index: o.Index, Request: reqs[o.Index], Assessment: o.Value, err: o.Err}
		if o.Err != nil {
			items[i].Assessment = nil
			items[i].Error = o.Err.Error()
		}
	}

	summary := Summarize(items)
	log.Info().
		Ctx(ctx).
		Str("component", "engine").
		Str("operation", "assess_batch").
		Int("total", summary.Total).
		Int("batch_size", proc.BatchSize()).
		Int("failed", summary.Failed).
		Int64("duration_ms", time.Since(start).Milliseconds()).
		Msg("batch assessment complete")
	return items, nil
}

// ReadRequests reads batch requests from a .csv, .tsv or .xlsx file with a
// header row. waste_type and quantity_kg are required columns; country,
// scenario and weeks are optional. Header matching ignores case and
// surrounding space. Blank lines are skipped.
func ReadRequests(path string) ([]Request, error) {
	rows, err := refdata.ReadRows(path)
	if err != nil {
		return nil, fmt.Errorf("reading batch file %s: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("batch file %s: %w", path, refdata.ErrNoUsableRows)
	}

	cols := make(map[string]int)
	for i, h := range rows[0] {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, required := range []string{"waste_type", "quantity_kg"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("batch file %s: %w: %s", path, refdata.ErrMissingColumn, required)
		}
	}

	get := func(row []string, name string) string {
		i, ok := cols[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var (
		reqs []Request
		errs []error
	)
	for n, row := range rows[1:] {
		line := n + 2
		if isBlankRow(row) {
			continue
		}
		qty, qerr := scoring.ParseQuantity(get(row, "quantity_kg"))
		if qerr != nil {
			errs = append(errs, fmt.Errorf("line %d: %w", line, qerr))
			continue
		}
		req := Request{
			WasteType:  get(row, "waste_type"),
			QuantityKg: qty,
			Country:    get(row, "country"),
			Scenario:   get(row, "scenario"),
		}
		if w := get(row, "weeks"); w != "" {
			weeks, werr := strconv.Atoi(w)
			if werr != nil {
				errs = append(errs, fmt.Errorf("line %d: weeks %q is not an integer", line, w))
				continue
			}
			req.Weeks = weeks
		}
		reqs = append(reqs, req)
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	if len(reqs) == 0 {
		return nil, fmt.Errorf("batch file %s: %w", path, refdata.ErrNoUsableRows)
	}
	return reqs, nil
}

func isBlankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
