package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sodiqltd/stockboard/internal/domain/models"
)

func item(id, name string) models.StockItem {
	return models.StockItem{ID: id, Name: name, SKU: "SKU-" + id, BuyingPrice: 10, Quantity: 5, CurrencyCode: "NGN"}
}

func TestLoadNormalizesMissingSKU(t *testing.T) {
	s := New()
	require.NoError(t, s.Load([]models.StockItem{
		{ID: "r1", Name: "Widget A"},
		{ID: "r2", Name: "Gadget B", SKU: "GB-01"},
	}))

	got, err := s.Get("r1")
	require.NoError(t, err)
	assert.Equal(t, models.MissingSKU, got.SKU)

	got, err = s.Get("r2")
	require.NoError(t, err)
	assert.Equal(t, "GB-01", got.SKU)
}

func TestLoadRejectsDuplicateIDs(t *testing.T) {
	s := New()
	err := s.Load([]models.StockItem{item("r1", "a"), item("r1", "b")})
	require.ErrorIs(t, err, ErrDuplicateID)
}

func TestInsertPrepends(t *testing.T) {
	s := New()
	require.NoError(t, s.Load([]models.StockItem{item("r1", "first")}))
	require.NoError(t, s.Insert(item("r2", "second")))

	items := s.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "r2", items[0].ID)
	assert.Equal(t, "r1", items[1].ID)

	require.ErrorIs(t, s.Insert(item("r2", "again")), ErrDuplicateID)
}

func TestReplaceMergesEditableFieldsOnly(t *testing.T) {
	s := New()
	orig := item("r1", "Widget A")
	orig.DateCreated = "2024-01-01"
	orig.ProductID = "p-9"
	require.NoError(t, s.Load([]models.StockItem{orig}))

	draft := orig
	draft.Name = "Widget A+"
	draft.Quantity = 50
	draft.DateCreated = "tampered"
	require.NoError(t, s.Replace("r1", draft))

	got, err := s.Get("r1")
	require.NoError(t, err)
	assert.Equal(t, "Widget A+", got.Name)
	assert.Equal(t, 50, got.Quantity)
	assert.Equal(t, "2024-01-01", got.DateCreated)
	assert.Equal(t, "p-9", got.ProductID)

	require.ErrorIs(t, s.Replace("missing", draft), ErrNotFound)
}

func TestRemove(t *testing.T) {
	s := New()
	require.NoError(t, s.Load([]models.StockItem{item("r1", "a"), item("r2", "b")}))
	require.NoError(t, s.Remove("r1"))
	assert.Equal(t, 1, s.Len())
	require.ErrorIs(t, s.Remove("r1"), ErrNotFound)
}

func TestClosedStoreRejectsMutations(t *testing.T) {
	s := New()
	require.NoError(t, s.Load([]models.StockItem{item("r1", "a")}))
	s.Close()

	require.ErrorIs(t, s.Load(nil), ErrClosed)
	require.ErrorIs(t, s.Insert(item("r9", "x")), ErrClosed)
	require.ErrorIs(t, s.Replace("r1", item("r1", "y")), ErrClosed)
	require.ErrorIs(t, s.Remove("r1"), ErrClosed)
	assert.Equal(t, 0, s.Len())
}
