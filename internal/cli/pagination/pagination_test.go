package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/regenesis/internal/engine"
	"github.com/rshade/regenesis/internal/impact"
	"github.com/rshade/regenesis/internal/scoring"
)

func TestParams_Validate(t *testing.T) {
	tests := []struct {
		name    string
		params  Params
		wantErr error
		errMsg  string
	}{
		{name: "zero value", params: Params{}},
		{name: "offset mode", params: Params{Limit: 10, Offset: 20}},
		{name: "page mode", params: Params{Page: 2, PageSize: 10}},
		{name: "sort field only", params: Params{Sort: "score"}},
		{name: "negative limit", params: Params{Limit: -1}, errMsg: "limit cannot be negative"},
		{name: "negative offset", params: Params{Offset: -1}, errMsg: "offset cannot be negative"},
		{name: "negative page", params: Params{Page: -1}, errMsg: "page cannot be negative"},
		{name: "negative page-size", params: Params{PageSize: -1}, errMsg: "page-size cannot be negative"},
		{name: "mixed modes", params: Params{Page: 1, PageSize: 5, Offset: 10}, wantErr: ErrMixedPaginationModes},
		{name: "page-size without page", params: Params{PageSize: 5}, errMsg: "page must be specified"},
		{name: "page without page-size", params: Params{Page: 2}, errMsg: "page-size must be specified"},
		{name: "unknown sort field", params: Params{Sort: "savings"}, wantErr: ErrInvalidSortField},
		{name: "bad sort order", params: Params{Sort: "score:up"}, wantErr: ErrInvalidSortOrder},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.params.Validate()
			switch {
			case tt.wantErr != nil:
				require.ErrorIs(t, err, tt.wantErr)
			case tt.errMsg != "":
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
			default:
				assert.NoError(t, err)
			}
		})
	}
}

func TestParseSort(t *testing.T) {
	tests := []struct {
		in        string
		wantField string
		wantOrder string
		wantErr   error
	}{
		{"score", "score", SortOrderDesc, nil},
		{"score:asc", "score", SortOrderAsc, nil},
		{" country : DESC ", "country", SortOrderDesc, nil},
		{"a:b:c", "", "", ErrInvalidSortFormat},
		{":asc", "", "", ErrEmptySortField},
		{"score:sideways", "", "", ErrInvalidSortOrder},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			field, order, err := ParseSort(tt.in)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantField, field)
			assert.Equal(t, tt.wantOrder, order)
		})
	}
}

func TestParams_Window(t *testing.T) {
	tests := []struct {
		name      string
		params    Params
		total     int
		wantStart int
		wantEnd   int
	}{
		{"no window", Params{}, 7, 0, 7},
		{"limit", Params{Limit: 3}, 7, 0, 3},
		{"offset and limit", Params{Offset: 5, Limit: 3}, 7, 5, 7},
		{"offset past end", Params{Offset: 10}, 7, 7, 7},
		{"second page", Params{Page: 2, PageSize: 3}, 7, 3, 6},
		{"last partial page", Params{Page: 3, PageSize: 3}, 7, 6, 7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := tt.params.Window(tt.total)
			assert.Equal(t, tt.wantStart, start)
			assert.Equal(t, tt.wantEnd, end)
		})
	}
}

func TestNewMeta(t *testing.T) {
	m := NewMeta(Params{Page: 2, PageSize: 3}, 7)
	assert.Equal(t, Meta{CurrentPage: 2, PageSize: 3, TotalPages: 3, TotalItems: 7, HasPrevious: true, HasNext: true}, m)

	m = NewMeta(Params{Offset: 4, Limit: 2}, 5)
	assert.Equal(t, 3, m.CurrentPage)
	assert.False(t, m.HasNext)

	m = NewMeta(Params{}, 4)
	assert.Equal(t, 1, m.TotalPages)
	assert.False(t, m.HasPrevious)
}

func item(index int, wasteType string, score, revenue float64) engine.BatchItem {
	return engine.BatchItem{
		Index: index,
		Assessment: &engine.Assessment{
			Feasibility: scoring.Result{WasteType: wasteType, FeasibilityScore: score, QuantityKg: float64(100 * (index + 1))},
			Impact:      impact.Estimate{MonthlyRevenue: revenue},
		},
	}
}

func indexes(items []engine.BatchItem) []int {
	out := make([]int, len(items))
	for i, it := range items {
		out[i] = it.Index
	}
	return out
}

func TestSort(t *testing.T) {
	items := []engine.BatchItem{
		item(0, "PET", 33.6, 500),
		{Index: 1, Error: "unknown waste category"},
		item(2, "HDPE", 90, 100),
		item(3, "LDPE", 10, 900),
	}

	assert.Equal(t, []int{2, 0, 3, 1}, indexes(Sort(items, FieldScore, SortOrderDesc)))
	assert.Equal(t, []int{3, 0, 2, 1}, indexes(Sort(items, FieldScore, SortOrderAsc)))
	assert.Equal(t, []int{3, 0, 2, 1}, indexes(Sort(items, FieldRevenue, SortOrderDesc)))
	assert.Equal(t, []int{2, 3, 0, 1}, indexes(Sort(items, FieldWasteType, SortOrderAsc)))
	assert.Equal(t, []int{0, 1, 2, 3}, indexes(Sort(items, "bogus", SortOrderAsc)))

	t.Run("input is not modified", func(t *testing.T) {
		assert.Equal(t, []int{0, 1, 2, 3}, indexes(items))
	})
}

func TestApply(t *testing.T) {
	items := []engine.BatchItem{
		item(0, "PET", 33.6, 500),
		item(1, "HDPE", 90, 100),
		item(2, "LDPE", 10, 900),
	}

	got := Apply(items, Params{Sort: "score", Limit: 2})
	assert.Equal(t, []int{1, 0}, indexes(got))

	got = Apply(items, Params{Page: 2, PageSize: 2})
	assert.Equal(t, []int{2}, indexes(got))
}
