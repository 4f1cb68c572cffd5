package table

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sodiqltd/stockboard/internal/domain/models"
)

func records(n int) []models.StockItem {
	out := make([]models.StockItem, n)
	for i := range out {
		out[i] = models.StockItem{ID: fmt.Sprintf("r%d", i), Name: fmt.Sprintf("Item %d", i)}
	}
	return out
}

func TestFilterByNameCaseInsensitiveSubstring(t *testing.T) {
	items := []models.StockItem{
		{ID: "r1", Name: "Widget A"},
		{ID: "r2", Name: "Gadget B"},
	}

	got := FilterByName(items, "wid")
	require.Len(t, got, 1)
	assert.Equal(t, "Widget A", got[0].Name)

	got = FilterByName(items, "WIDGET")
	require.Len(t, got, 1)

	assert.Empty(t, FilterByName(items, "nothing"))
}

func TestFilterByNameEmptyQueryPreservesOrder(t *testing.T) {
	items := records(7)
	got := FilterByName(items, "")
	assert.Equal(t, items, got)
}

func TestFilterByNameIdempotent(t *testing.T) {
	items := records(30)
	for _, q := range []string{"", "item", "Item 1", "2"} {
		once := FilterByName(items, q)
		twice := FilterByName(once, q)
		assert.Equal(t, once, twice, "query %q", q)
	}
}

func TestPageSliceLengthsSumToTotal(t *testing.T) {
	for _, tc := range []struct{ total, pageSize int }{
		{25, 10}, {30, 10}, {1, 10}, {9, 3}, {10, 1}, {0, 10},
	} {
		items := records(tc.total)
		totalPages := TotalPages(tc.total, tc.pageSize)

		sum := 0
		for p := 1; p <= totalPages; p++ {
			sum += len(PageSlice(items, p, tc.pageSize))
		}
		assert.Equal(t, tc.total, sum, "total=%d pageSize=%d", tc.total, tc.pageSize)
	}
}

func TestPageWindowBounds(t *testing.T) {
	items := records(25)

	page1 := PageSlice(items, 1, 10)
	require.Len(t, page1, 10)
	assert.Equal(t, "r0", page1[0].ID)
	assert.Equal(t, "r9", page1[9].ID)

	page3 := PageSlice(items, 3, 10)
	require.Len(t, page3, 5)
	assert.Equal(t, "r20", page3[0].ID)

	assert.Equal(t, 3, TotalPages(25, 10))
	assert.Empty(t, PageSlice(items, 4, 10))
}

func TestTotalPagesEmptyList(t *testing.T) {
	assert.Equal(t, 0, TotalPages(0, 10))
	assert.Equal(t, 1, ClampPage(1, 0))
	assert.Equal(t, 1, ClampPage(5, 0))
}

func TestClampPage(t *testing.T) {
	assert.Equal(t, 3, ClampPage(5, 3))
	assert.Equal(t, 2, ClampPage(2, 3))
	assert.Equal(t, 1, ClampPage(0, 3))
	assert.Equal(t, 1, ClampPage(-2, 3))
}
