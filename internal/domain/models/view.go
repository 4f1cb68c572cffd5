package models

// Notice is a transient, non-blocking message surfaced to the user after a
// failed load or mutation.
type Notice struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

// NoticeError is the level used for load and mutation failures.
const NoticeError = "error"

// RowView is the per-row view model handed to rendering collaborators. A nil
// Item marks a placeholder row padding the page up to its fixed size.
type RowView struct {
	Item          *StockItem `json:"item"`
	Editing       bool       `json:"editing"`
	EditField     Field      `json:"edit_field,omitempty"`
	Draft         *StockItem `json:"draft,omitempty"`
	Busy          bool       `json:"busy"`
	PendingDelete bool       `json:"pending_delete"`
}

// PaginationSummary describes the search-aware paging state.
type PaginationSummary struct {
	Page       int `json:"page"`
	TotalPages int `json:"total_pages"`
	TotalItems int `json:"total_items"`
	PageSize   int `json:"page_size"`
}

// TableView is the full view state for one table session at one instant.
// Notices are drained into the view that reports them.
type TableView struct {
	Loading    bool              `json:"loading"`
	Searching  bool              `json:"searching"`
	SearchText string            `json:"search_text"`
	AddOpen    bool              `json:"add_open"`
	Rows       []RowView         `json:"rows"`
	Pagination PaginationSummary `json:"pagination"`
	Notices    []Notice          `json:"notices,omitempty"`
}
