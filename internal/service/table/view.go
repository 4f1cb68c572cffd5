package table

import (
	"math"
	"strings"

	"github.com/sodiqltd/stockboard/internal/domain/models"
)

// FilterByName returns the stable, order-preserving subsequence of items
// whose name contains query as a case-insensitive substring. An empty query
// returns the list unchanged.
func FilterByName(items []models.StockItem, query string) []models.StockItem {
	if query == "" {
		return items
	}

	needle := strings.ToLower(query)
	out := make([]models.StockItem, 0, len(items))
	for _, item := range items {
		if strings.Contains(strings.ToLower(item.Name), needle) {
			out = append(out, item)
		}
	}
	return out
}

// TotalPages reports how many pages the list spans; 0 for an empty list.
func TotalPages(total, pageSize int) int {
	if pageSize <= 0 || total <= 0 {
		return 0
	}
	return int(math.Ceil(float64(total) / float64(pageSize)))
}

// ClampPage keeps the current page inside [1, max(1, totalPages)]. It must be
// applied on every derived read so a shrinking filter result can never strand
// the user on an empty page.
func ClampPage(page, totalPages int) int {
	if page > totalPages {
		page = totalPages
	}
	if page < 1 {
		page = 1
	}
	return page
}

// PageSlice returns the contiguous window of items for the given page.
func PageSlice(items []models.StockItem, page, pageSize int) []models.StockItem {
	if pageSize <= 0 || page < 1 {
		return nil
	}

	start := (page - 1) * pageSize
	if start >= len(items) {
		return nil
	}
	end := start + pageSize
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
