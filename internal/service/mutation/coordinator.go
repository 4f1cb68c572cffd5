// Package mutation translates table intents into calls against the remote
// stock service, acquiring bearer credentials and recording outcomes. Remote
// failures are reported as errors and never propagate further than this
// boundary.
package mutation

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/sodiqltd/stockboard/internal/domain/models"
)

// StockAPI is the remote stock service surface the coordinator consumes.
type StockAPI interface {
	ListStocks(ctx context.Context) ([]models.StockItem, error)
	CreateStock(ctx context.Context, token string, input models.CreateStockInput) (*models.StockItem, error)
	UpdateStock(ctx context.Context, token string, id string, req models.UpdateStockRequest) error
	DeleteStock(ctx context.Context, token string, id string) error
}

// TokenProvider yields a current bearer credential for mutating calls.
type TokenProvider interface {
	AccessToken(ctx context.Context) (string, error)
}

// AuditSink records mutation outcomes for diagnostics.
type AuditSink interface {
	SaveMutationAudit(ctx context.Context, audit models.MutationAudit) error
}

// Coordinator implements the table controller's Mutator contract.
type Coordinator struct {
	api    StockAPI
	tokens TokenProvider
	audit  AuditSink // optional
	logger *zap.Logger
}

// NewCoordinator wires a coordinator. audit may be nil when no sink is
// configured.
func NewCoordinator(api StockAPI, tokens TokenProvider, audit AuditSink, logger *zap.Logger) *Coordinator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Coordinator{api: api, tokens: tokens, audit: audit, logger: logger}
}

// List fetches the full current record set.
func (c *Coordinator) List(ctx context.Context) ([]models.StockItem, error) {
	items, err := c.api.ListStocks(ctx)
	if err != nil {
		return nil, fmt.Errorf("list stocks: %w", err)
	}
	return items, nil
}

// Create persists a new record remotely and returns the server-assigned
// result.
func (c *Coordinator) Create(ctx context.Context, input models.CreateStockInput) (*models.StockItem, error) {
	token, err := c.tokens.AccessToken(ctx)
	if err != nil {
		err = fmt.Errorf("acquire token: %w", err)
		c.record(ctx, "create", "", err)
		return nil, err
	}

	created, err := c.api.CreateStock(ctx, token, input)
	if err != nil {
		err = fmt.Errorf("create stock: %w", err)
		c.record(ctx, "create", "", err)
		return nil, err
	}

	c.record(ctx, "create", created.ID, nil)
	return created, nil
}

// Update persists changed fields for an existing record.
func (c *Coordinator) Update(ctx context.Context, id string, req models.UpdateStockRequest) error {
	token, err := c.tokens.AccessToken(ctx)
	if err != nil {
		err = fmt.Errorf("acquire token: %w", err)
		c.record(ctx, "update", id, err)
		return err
	}

	if err := c.api.UpdateStock(ctx, token, id, req); err != nil {
		err = fmt.Errorf("update stock %s: %w", id, err)
		c.record(ctx, "update", id, err)
		return err
	}

	c.record(ctx, "update", id, nil)
	return nil
}

// Delete removes a record remotely.
func (c *Coordinator) Delete(ctx context.Context, id string) error {
	token, err := c.tokens.AccessToken(ctx)
	if err != nil {
		err = fmt.Errorf("acquire token: %w", err)
		c.record(ctx, "delete", id, err)
		return err
	}

	if err := c.api.DeleteStock(ctx, token, id); err != nil {
		err = fmt.Errorf("delete stock %s: %w", id, err)
		c.record(ctx, "delete", id, err)
		return err
	}

	c.record(ctx, "delete", id, nil)
	return nil
}

// record writes the audit entry best-effort; a failing sink never fails the
// mutation.
func (c *Coordinator) record(ctx context.Context, action, stockID string, outcome error) {
	if c.audit == nil {
		return
	}

	audit := models.MutationAudit{
		Action:     action,
		StockID:    stockID,
		Success:    outcome == nil,
		OccurredAt: time.Now().UTC(),
	}
	if outcome != nil {
		audit.Error = outcome.Error()
	}

	auditCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := c.audit.SaveMutationAudit(auditCtx, audit); err != nil {
		c.logger.Warn("failed to record mutation audit",
			zap.String("action", action), zap.String("stock_id", stockID), zap.Error(err))
	}
}
