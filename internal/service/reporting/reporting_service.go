package reporting

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/sodiqltd/stockboard/internal/domain/models"
	repo "github.com/sodiqltd/stockboard/internal/repository/sheets"
)

const (
	dateLayout    = "2006-01-02"
	snapshotRange = "Snapshots!A:E"
)

// Lister fetches the full current stock list; satisfied by the mutation
// coordinator.
type Lister interface {
	List(ctx context.Context) ([]models.StockItem, error)
}

// Snapshot summarizes the inventory at one point in time.
type Snapshot struct {
	Date            time.Time
	ItemCount       int
	TotalUnits      int
	ValueByCurrency map[string]float64
}

// Service appends daily inventory snapshots to a spreadsheet.
type Service struct {
	stocks Lister
	repo   repo.Repository
	logger *zap.Logger
}

// NewService wires a new reporting service instance.
func NewService(stocks Lister, repository repo.Repository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{stocks: stocks, repo: repository, logger: logger}
}

// BuildSnapshot aggregates the remote stock list into a snapshot.
func (s *Service) BuildSnapshot(ctx context.Context, now time.Time) (Snapshot, error) {
	items, err := s.stocks.List(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("load stock list: %w", err)
	}

	snap := Snapshot{
		Date:            now,
		ItemCount:       len(items),
		ValueByCurrency: make(map[string]float64),
	}
	for _, item := range items {
		snap.TotalUnits += item.Quantity
		snap.ValueByCurrency[item.CurrencyCode] += item.BuyingPrice * float64(item.Quantity)
	}
	return snap, nil
}

// WriteDailySnapshot builds today's snapshot and appends it as one sheet row.
func (s *Service) WriteDailySnapshot(ctx context.Context, now time.Time) error {
	snap, err := s.BuildSnapshot(ctx, now)
	if err != nil {
		return err
	}

	row := []interface{}{
		snap.Date.Format(dateLayout),
		snap.ItemCount,
		snap.TotalUnits,
		formatValues(snap.ValueByCurrency),
	}
	if err := s.repo.AppendRow(ctx, snapshotRange, row); err != nil {
		return fmt.Errorf("append snapshot row: %w", err)
	}

	s.logger.Info("daily inventory snapshot written",
		zap.Int("items", snap.ItemCount), zap.Int("units", snap.TotalUnits))
	return nil
}

// formatValues renders per-currency totals in a stable order, e.g.
// "NGN 1200.00; USD 35.50".
func formatValues(values map[string]float64) string {
	if len(values) == 0 {
		return "0"
	}

	currencies := make([]string, 0, len(values))
	for code := range values {
		currencies = append(currencies, code)
	}
	sort.Strings(currencies)

	parts := make([]string, 0, len(currencies))
	for _, code := range currencies {
		label := code
		if label == "" {
			label = "?"
		}
		parts = append(parts, fmt.Sprintf("%s %.2f", label, values[code]))
	}
	return strings.Join(parts, "; ")
}
