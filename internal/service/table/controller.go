// Package table implements the inventory table controller: one Controller per
// open dashboard session coordinates the record store, search filtering, the
// page window, the inline edit session and remote mutations so renderers can
// never observe an inconsistent view.
package table

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/sodiqltd/stockboard/internal/domain/models"
	"github.com/sodiqltd/stockboard/internal/store"
)

// Mutator sequences remote stock mutations and is the only path out of the
// controller to the network.
type Mutator interface {
	List(ctx context.Context) ([]models.StockItem, error)
	Create(ctx context.Context, input models.CreateStockInput) (*models.StockItem, error)
	Update(ctx context.Context, id string, req models.UpdateStockRequest) error
	Delete(ctx context.Context, id string) error
}

var (
	// ErrNoEditSession is returned by draft operations outside an edit.
	ErrNoEditSession = errors.New("no edit session in progress")

	// ErrSaveInFlight rejects edits while a commit is awaiting the remote
	// service; the affected row renders busy instead.
	ErrSaveInFlight = errors.New("a save is already in flight")

	// ErrNoPendingDelete is returned when confirming without a target.
	ErrNoPendingDelete = errors.New("no delete awaiting confirmation")

	// ErrInvalidPage is returned for out-of-range page requests.
	ErrInvalidPage = errors.New("page out of range")
)

// Edit session phases. The single phase value plus one draft slot makes
// "at most one row editable" structural: Editing(B) cannot coexist with
// Saving(A).
type phase int

const (
	phaseViewing phase = iota
	phaseEditing
	phaseSaving
)

const failedSaveNotice = "Failed to save changes. Please try again."

// Controller owns all mutable state of one table session.
type Controller struct {
	mu  sync.Mutex
	log *zap.Logger

	store *store.Store
	mut   Mutator

	searchText string
	page       int
	pageSize   int
	loading    bool

	phase     phase
	editRowID string
	editField models.Field
	draft     *models.StockItem

	pendingDelete string
	addOpen       bool
	notices       []models.Notice
}

// NewController builds a controller around an empty store. Call Load once to
// populate it from the remote list endpoint.
func NewController(mut Mutator, pageSize int, log *zap.Logger) *Controller {
	if log == nil {
		log = zap.NewNop()
	}
	if pageSize <= 0 {
		pageSize = 10
	}
	return &Controller{
		log:      log,
		store:    store.New(),
		mut:      mut,
		page:     1,
		pageSize: pageSize,
	}
}

// Load performs the one initial fetch. A failed load leaves the store empty
// and the session usable; it is not retried automatically.
func (c *Controller) Load(ctx context.Context) error {
	c.mu.Lock()
	c.loading = true
	c.mu.Unlock()

	items, err := c.mut.List(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.loading = false
	if err != nil {
		c.log.Error("initial stock fetch failed", zap.Error(err))
		c.notify("Unable to load stock items.")
		return err
	}
	if lerr := c.store.Load(items); lerr != nil {
		if errors.Is(lerr, store.ErrClosed) {
			return nil
		}
		c.log.Error("loading fetched records failed", zap.Error(lerr))
		c.notify("Unable to load stock items.")
		return lerr
	}
	return nil
}

// SetSearch updates the search text. Page clamping against the new filtered
// length happens on the next view read.
func (c *Controller) SetSearch(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.searchText = text
}

// SetPage moves to the requested page if it is within the search-aware range.
func (c *Controller) SetPage(page int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	total := TotalPages(len(FilterByName(c.store.Items(), c.searchText)), c.pageSize)
	if total < 1 {
		total = 1
	}
	if page < 1 || page > total {
		return ErrInvalidPage
	}
	c.page = page
	return nil
}

// SetPageSize changes the window size and resets to the first page.
func (c *Controller) SetPageSize(size int) error {
	if size <= 0 {
		return errors.New("page size must be positive")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pageSize = size
	c.page = 1
	return nil
}

// BeginEdit opens an edit session on the given row, buffering a draft copy of
// the record. Beginning an edit on a different row discards any unsaved draft
// for the previous one; that transition is deliberate, the remote service is
// the source of truth and the abandoned draft was never persisted.
func (c *Controller) BeginEdit(id string, field models.Field) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.phase == phaseSaving {
		return ErrSaveInFlight
	}
	if field == "" {
		field = models.FieldName
	}
	if _, err := models.ParseField(string(field)); err != nil {
		return err
	}

	record, err := c.store.Get(id)
	if err != nil {
		return err
	}

	if c.phase == phaseEditing {
		if c.editRowID == id {
			// Same row: move focus, keep the buffered draft.
			c.editField = field
			return nil
		}
		c.log.Debug("discarding unsaved draft on row switch",
			zap.String("from", c.editRowID), zap.String("to", id))
	}

	draft := record
	c.phase = phaseEditing
	c.editRowID = id
	c.editField = field
	c.draft = &draft
	return nil
}

// UpdateField writes a raw input value into the draft, coercing numeric
// fields, and moves the focus marker to the field being typed.
func (c *Controller) UpdateField(field models.Field, raw string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.phase != phaseEditing || c.draft == nil {
		return ErrNoEditSession
	}
	if _, err := models.ParseField(string(field)); err != nil {
		return err
	}

	models.ApplyField(c.draft, field, raw)
	c.editField = field
	return nil
}

// CancelEdit discards the draft and returns the row to viewing.
func (c *Controller) CancelEdit() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.phase != phaseEditing {
		return ErrNoEditSession
	}
	c.clearEditSession()
	return nil
}

// Commit persists the draft remotely, then merges it into the store. While
// the call is in flight the row renders busy and further edits are rejected.
// On failure the draft is kept and the row returns to editing so the user can
// retry or cancel.
func (c *Controller) Commit(ctx context.Context) error {
	c.mu.Lock()
	if c.phase == phaseSaving {
		c.mu.Unlock()
		return ErrSaveInFlight
	}
	if c.phase != phaseEditing || c.draft == nil {
		c.mu.Unlock()
		return ErrNoEditSession
	}
	c.phase = phaseSaving
	rowID := c.editRowID
	draft := *c.draft
	c.mu.Unlock()

	err := c.mut.Update(ctx, rowID, models.UpdateRequestFrom(draft))

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.phase != phaseSaving || c.editRowID != rowID {
		// Session was torn down while the call was in flight; the
		// resolution is a no-op.
		return err
	}

	if err != nil {
		c.log.Warn("stock update failed", zap.String("stock_id", rowID), zap.Error(err))
		c.phase = phaseEditing
		c.notify(failedSaveNotice)
		return err
	}

	if rerr := c.store.Replace(rowID, draft); rerr != nil && !errors.Is(rerr, store.ErrClosed) {
		c.log.Error("confirmed update missing from store", zap.String("stock_id", rowID), zap.Error(rerr))
	}
	c.clearEditSession()
	return nil
}

// BeginDelete opens the delete confirmation for a row.
func (c *Controller) BeginDelete(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, err := c.store.Get(id); err != nil {
		return err
	}
	c.pendingDelete = id
	return nil
}

// CancelDelete dismisses the confirmation without mutating anything.
func (c *Controller) CancelDelete() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pendingDelete = ""
}

// ConfirmDelete performs the remote delete and removes the record only after
// the call succeeds. The confirmation closes either way.
func (c *Controller) ConfirmDelete(ctx context.Context) error {
	c.mu.Lock()
	id := c.pendingDelete
	if id == "" {
		c.mu.Unlock()
		return ErrNoPendingDelete
	}
	c.mu.Unlock()

	err := c.mut.Delete(ctx, id)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.pendingDelete = ""
	if err != nil {
		c.log.Warn("stock delete failed", zap.String("stock_id", id), zap.Error(err))
		c.notify("Failed to delete item. Please try again.")
		return err
	}
	if rerr := c.store.Remove(id); rerr != nil && !errors.Is(rerr, store.ErrClosed) {
		c.log.Error("confirmed delete missing from store", zap.String("stock_id", id), zap.Error(rerr))
	}
	return nil
}

// BeginCreate opens the add-item interaction.
func (c *Controller) BeginCreate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.addOpen = true
}

// SaveCreate persists a new record remotely and prepends the server-assigned
// result. On failure the add interaction stays open for retry.
func (c *Controller) SaveCreate(ctx context.Context, input models.CreateStockInput) error {
	created, err := c.mut.Create(ctx, input)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.log.Warn("stock create failed", zap.String("name", input.Name), zap.Error(err))
		c.notify("Failed to add item. Please try again.")
		return err
	}
	if ierr := c.store.Insert(*created); ierr != nil && !errors.Is(ierr, store.ErrClosed) {
		c.log.Error("inserting created record failed", zap.String("stock_id", created.ID), zap.Error(ierr))
	}
	c.addOpen = false
	return nil
}

// View assembles the current table view: search-aware filtering, page
// clamping, the window slice padded to the fixed page size, and any pending
// notices (drained). The clamped page is written back so a shrunken filter
// result immediately re-homes the session.
func (c *Controller) View() models.TableView {
	c.mu.Lock()
	defer c.mu.Unlock()

	filtered := FilterByName(c.store.Items(), c.searchText)
	totalPages := TotalPages(len(filtered), c.pageSize)
	c.page = ClampPage(c.page, totalPages)
	window := PageSlice(filtered, c.page, c.pageSize)

	rows := make([]models.RowView, c.pageSize)
	for i := range rows {
		if i >= len(window) {
			continue // placeholder row
		}
		item := window[i]
		row := models.RowView{
			Item:          &item,
			Busy:          c.phase == phaseSaving && c.editRowID == item.ID,
			PendingDelete: c.pendingDelete == item.ID,
		}
		if c.phase == phaseEditing && c.editRowID == item.ID {
			draft := *c.draft
			row.Editing = true
			row.EditField = c.editField
			row.Draft = &draft
		}
		rows[i] = row
	}

	notices := c.notices
	c.notices = nil

	return models.TableView{
		Loading:    c.loading,
		Searching:  c.searchText != "",
		SearchText: c.searchText,
		AddOpen:    c.addOpen,
		Rows:       rows,
		Pagination: models.PaginationSummary{
			Page:       c.page,
			TotalPages: totalPages,
			TotalItems: len(filtered),
			PageSize:   c.pageSize,
		},
		Notices: notices,
	}
}

// Close tears the session down. In-flight mutation callbacks observing the
// closed store resolve as no-ops.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store.Close()
	c.clearEditSession()
	c.pendingDelete = ""
	c.notices = nil
}

func (c *Controller) clearEditSession() {
	c.phase = phaseViewing
	c.editRowID = ""
	c.editField = ""
	c.draft = nil
}

func (c *Controller) notify(message string) {
	c.notices = append(c.notices, models.Notice{Level: models.NoticeError, Message: message})
}
