package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sodiqltd/stockboard/internal/domain/models"
	"github.com/sodiqltd/stockboard/internal/service/table"
	"github.com/sodiqltd/stockboard/internal/store"
)

// TableHandler adapts table sessions to the JSON surface consumed by
// rendering collaborators. Every action responds with the refreshed view so
// renderers never have to derive state themselves.
type TableHandler struct {
	sessions *table.Manager
	logger   *zap.Logger
}

// NewTableHandler constructs the HTTP handler adapter.
func NewTableHandler(sessions *table.Manager, logger *zap.Logger) *TableHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TableHandler{sessions: sessions, logger: logger}
}

// CreateSession opens a table session and performs its initial load.
func (h *TableHandler) CreateSession(c *gin.Context) {
	id, ctrl := h.sessions.Create(c.Request.Context())
	c.JSON(http.StatusCreated, gin.H{"session_id": id, "view": ctrl.View()})
}

// View returns the current table view.
func (h *TableHandler) View(c *gin.Context) {
	ctrl, ok := h.controller(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, ctrl.View())
}

// Search updates the search text.
func (h *TableHandler) Search(c *gin.Context) {
	ctrl, ok := h.controller(c)
	if !ok {
		return
	}

	var req struct {
		Text string `json:"text"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	ctrl.SetSearch(req.Text)
	c.JSON(http.StatusOK, ctrl.View())
}

// ChangePage moves to another page.
func (h *TableHandler) ChangePage(c *gin.Context) {
	ctrl, ok := h.controller(c)
	if !ok {
		return
	}

	var req struct {
		Page int `json:"page" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	if err := ctrl.SetPage(req.Page); err != nil {
		h.actionError(c, err)
		return
	}
	c.JSON(http.StatusOK, ctrl.View())
}

// ChangePageSize changes the number of rows per page.
func (h *TableHandler) ChangePageSize(c *gin.Context) {
	ctrl, ok := h.controller(c)
	if !ok {
		return
	}

	var req struct {
		Size int `json:"size" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	if err := ctrl.SetPageSize(req.Size); err != nil {
		h.badRequest(c, err)
		return
	}
	c.JSON(http.StatusOK, ctrl.View())
}

// BeginEdit opens an inline edit session on one row.
func (h *TableHandler) BeginEdit(c *gin.Context) {
	ctrl, ok := h.controller(c)
	if !ok {
		return
	}

	var req struct {
		ID    string `json:"id" binding:"required"`
		Field string `json:"field"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	if err := ctrl.BeginEdit(req.ID, models.Field(req.Field)); err != nil {
		h.actionError(c, err)
		return
	}
	c.JSON(http.StatusOK, ctrl.View())
}

// EditField writes one raw input value into the draft.
func (h *TableHandler) EditField(c *gin.Context) {
	ctrl, ok := h.controller(c)
	if !ok {
		return
	}

	var req struct {
		Field string `json:"field" binding:"required"`
		Value string `json:"value"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	if err := ctrl.UpdateField(models.Field(req.Field), req.Value); err != nil {
		h.actionError(c, err)
		return
	}
	c.JSON(http.StatusOK, ctrl.View())
}

// Commit saves the draft remotely. Renderers map the Enter key inside any
// edit input to this call, matching the save button. A failed save is not an
// HTTP error: the table stays interactive and the notice rides in the view.
func (h *TableHandler) Commit(c *gin.Context) {
	ctrl, ok := h.controller(c)
	if !ok {
		return
	}

	if err := ctrl.Commit(c.Request.Context()); err != nil {
		if errors.Is(err, table.ErrNoEditSession) || errors.Is(err, table.ErrSaveInFlight) {
			h.actionError(c, err)
			return
		}
		h.logger.Warn("commit failed", zap.String("session_id", c.Param("id")), zap.Error(err))
	}
	c.JSON(http.StatusOK, ctrl.View())
}

// CancelEdit discards the draft.
func (h *TableHandler) CancelEdit(c *gin.Context) {
	ctrl, ok := h.controller(c)
	if !ok {
		return
	}

	if err := ctrl.CancelEdit(); err != nil {
		h.actionError(c, err)
		return
	}
	c.JSON(http.StatusOK, ctrl.View())
}

// BeginDelete opens the delete confirmation for a row.
func (h *TableHandler) BeginDelete(c *gin.Context) {
	ctrl, ok := h.controller(c)
	if !ok {
		return
	}

	var req struct {
		ID string `json:"id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	if err := ctrl.BeginDelete(req.ID); err != nil {
		h.actionError(c, err)
		return
	}
	c.JSON(http.StatusOK, ctrl.View())
}

// ConfirmDelete performs the remote delete. Like Commit, a remote failure
// surfaces as a notice, not an HTTP error.
func (h *TableHandler) ConfirmDelete(c *gin.Context) {
	ctrl, ok := h.controller(c)
	if !ok {
		return
	}

	if err := ctrl.ConfirmDelete(c.Request.Context()); err != nil {
		if errors.Is(err, table.ErrNoPendingDelete) {
			h.actionError(c, err)
			return
		}
		h.logger.Warn("delete failed", zap.String("session_id", c.Param("id")), zap.Error(err))
	}
	c.JSON(http.StatusOK, ctrl.View())
}

// CancelDelete dismisses the confirmation.
func (h *TableHandler) CancelDelete(c *gin.Context) {
	ctrl, ok := h.controller(c)
	if !ok {
		return
	}
	ctrl.CancelDelete()
	c.JSON(http.StatusOK, ctrl.View())
}

// BeginCreate opens the add-item interaction.
func (h *TableHandler) BeginCreate(c *gin.Context) {
	ctrl, ok := h.controller(c)
	if !ok {
		return
	}
	ctrl.BeginCreate()
	c.JSON(http.StatusOK, ctrl.View())
}

// CreateItem persists a new record and prepends the server-assigned result.
func (h *TableHandler) CreateItem(c *gin.Context) {
	ctrl, ok := h.controller(c)
	if !ok {
		return
	}

	var input models.CreateStockInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.badRequest(c, err)
		return
	}

	if err := ctrl.SaveCreate(c.Request.Context(), input); err != nil {
		h.logger.Warn("create failed", zap.String("session_id", c.Param("id")), zap.Error(err))
	}
	c.JSON(http.StatusOK, ctrl.View())
}

// CloseSession tears a session down.
func (h *TableHandler) CloseSession(c *gin.Context) {
	if err := h.sessions.Remove(c.Param("id")); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *TableHandler) controller(c *gin.Context) (*table.Controller, bool) {
	ctrl, err := h.sessions.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return nil, false
	}
	return ctrl, true
}

func (h *TableHandler) badRequest(c *gin.Context, err error) {
	h.logger.Warn("invalid request payload", zap.Error(err))
	c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
}

// actionError maps controller preconditions onto HTTP statuses.
func (h *TableHandler) actionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, table.ErrSaveInFlight),
		errors.Is(err, table.ErrNoEditSession),
		errors.Is(err, table.ErrNoPendingDelete):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	}
}
