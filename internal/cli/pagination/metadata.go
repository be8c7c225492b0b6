package pagination

// Meta describes the window applied to a result set.
type Meta struct {
	CurrentPage int  `json:"current_page"`
	PageSize    int  `json:"page_size"`
	TotalPages  int  `json:"total_pages"`
	TotalItems  int  `json:"total_items"`
	HasPrevious bool `json:"has_previous"`
	HasNext     bool `json:"has_next"`
}

// NewMeta builds window metadata for totalCount results.
func NewMeta(params Params, totalCount int) Meta {
	pageSize := params.PageSize
	if pageSize == 0 && params.Limit > 0 {
		pageSize = params.Limit
	}
	if pageSize == 0 {
		pageSize = totalCount
	}

	currentPage := params.Page
	if currentPage == 0 && params.Offset > 0 && pageSize > 0 {
		currentPage = (params.Offset / pageSize) + 1
	}
	if currentPage == 0 {
		currentPage = 1
	}

	totalPages := 0
	if pageSize > 0 {
		totalPages = (totalCount + pageSize - 1) / pageSize
	}

	return Meta{
		CurrentPage: currentPage,
		PageSize:    pageSize,
		TotalPages:  totalPages,
		TotalItems:  totalCount,
		HasPrevious: currentPage > 1,
		HasNext:     currentPage < totalPages,
	}
}
