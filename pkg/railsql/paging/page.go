package paging

// Page is an offset-paginated slice of rows together with totals. Count and
// fetch run as separate statements, so totals are a snapshot, not a
// guarantee.
type Page[T any] struct {
	Items      []T   `json:"items"`
	TotalCount int64 `json:"total_count"`
	PageNumber int   `json:"page_number"`
	PageSize   int   `json:"page_size"`
	TotalPages int64 `json:"total_pages"`
}

// NewPage builds a Page. TotalPages is the ceiling of totalCount over
// pageSize and zero when totalCount is zero. Items beyond pageSize are
// dropped.
func NewPage[T any](items []T, totalCount int64, pageNumber, pageSize int) Page[T] {
	var totalPages int64
	if totalCount > 0 && pageSize > 0 {
		totalPages = (totalCount + int64(pageSize) - 1) / int64(pageSize)
	}

	if pageSize > 0 && len(items) > pageSize {
		items = items[:pageSize]
	}

	return Page[T]{
		Items:      items,
		TotalCount: totalCount,
		PageNumber: pageNumber,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}
}

// CursorPage is a keyset-paginated slice of rows. NextCursor is set only
// while HasMore is true.
type CursorPage[T any] struct {
	Items      []T    `json:"items"`
	NextCursor string `json:"next_cursor,omitempty"`
	HasMore    bool   `json:"has_more"`
}

// NewCursorPage builds a CursorPage from rows fetched by a statement limited
// to pageSize. A full page signals that more rows may follow; next is the
// resume position of the last row and is encoded only in that case.
func NewCursorPage[T any](items []T, pageSize int, next Cursor) CursorPage[T] {
	page := CursorPage[T]{Items: items}
	if pageSize > 0 && len(items) >= pageSize {
		page.HasMore = true
		page.NextCursor = EncodeCursor(next)
	}

	return page
}

// Slice is a pagination envelope without totals or cursors.
type Slice[T any] struct {
	Items   []T  `json:"items"`
	HasMore bool `json:"has_more"`
}

// NewSlice builds a Slice from rows fetched with one extra row beyond
// pageSize. The extra row only proves that another page exists and is
// dropped from the result.
func NewSlice[T any](items []T, pageSize int) Slice[T] {
	if pageSize > 0 && len(items) > pageSize {
		return Slice[T]{Items: items[:pageSize], HasMore: true}
	}

	return Slice[T]{Items: items}
}
