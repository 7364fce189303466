package paging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPageTotals(t *testing.T) {
	tests := []struct {
		name       string
		totalCount int64
		pageSize   int
		expected   int64
	}{
		{name: "zero rows zero pages", totalCount: 0, pageSize: 10, expected: 0},
		{name: "exact multiple", totalCount: 30, pageSize: 10, expected: 3},
		{name: "remainder rounds up", totalCount: 31, pageSize: 10, expected: 4},
		{name: "single row", totalCount: 1, pageSize: 10, expected: 1},
		{name: "page size one", totalCount: 7, pageSize: 1, expected: 7},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			page := NewPage([]int{}, tc.totalCount, 1, tc.pageSize)

			assert.Equal(t, tc.expected, page.TotalPages)
			assert.Equal(t, tc.totalCount, page.TotalCount)
		})
	}
}

func TestNewPageTrimsOverflow(t *testing.T) {
	page := NewPage([]string{"a", "b", "c", "d"}, 4, 1, 3)

	assert.Equal(t, []string{"a", "b", "c"}, page.Items)
	assert.Equal(t, 1, page.PageNumber)
	assert.Equal(t, 3, page.PageSize)
}

func TestNewCursorPage(t *testing.T) {
	next := Cursor{Key: IntKey(30), ID: "c"}

	t.Run("full page has more", func(t *testing.T) {
		page := NewCursorPage([]string{"a", "b", "c"}, 3, next)

		assert.True(t, page.HasMore)
		require.NotEmpty(t, page.NextCursor)

		decoded, ok := DecodeCursor(page.NextCursor)
		require.True(t, ok)
		assert.Equal(t, next, decoded)
	})

	t.Run("short page is final", func(t *testing.T) {
		page := NewCursorPage([]string{"a", "b"}, 3, next)

		assert.False(t, page.HasMore)
		assert.Empty(t, page.NextCursor)
		assert.Equal(t, []string{"a", "b"}, page.Items)
	})

	t.Run("empty page is final", func(t *testing.T) {
		page := NewCursorPage([]string{}, 3, Cursor{})

		assert.False(t, page.HasMore)
		assert.Empty(t, page.NextCursor)
	})
}

func TestNewSlice(t *testing.T) {
	t.Run("extra row dropped", func(t *testing.T) {
		slice := NewSlice([]int{1, 2, 3, 4}, 3)

		assert.Equal(t, []int{1, 2, 3}, slice.Items)
		assert.True(t, slice.HasMore)
	})

	t.Run("exact page is final", func(t *testing.T) {
		slice := NewSlice([]int{1, 2, 3}, 3)

		assert.Equal(t, []int{1, 2, 3}, slice.Items)
		assert.False(t, slice.HasMore)
	})

	t.Run("empty", func(t *testing.T) {
		slice := NewSlice([]int{}, 3)

		assert.Empty(t, slice.Items)
		assert.False(t, slice.HasMore)
	})
}
