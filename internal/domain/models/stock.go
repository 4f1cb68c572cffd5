package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// MissingSKU is the sentinel shown for records whose source has no
// stock-keeping code.
const MissingSKU = "N/A"

// StockItem represents one inventory record as held by the remote stock
// service. Fields past CurrencyCode are provenance data the controller
// carries along untouched.
type StockItem struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	SKU          string  `json:"sku"`
	BuyingPrice  float64 `json:"buying_price"`
	Quantity     int     `json:"quantity"`
	CurrencyCode string  `json:"currency_code"`

	BuyingDate       string          `json:"buying_date,omitempty"`
	ProductID        string          `json:"product_id,omitempty"`
	Status           string          `json:"status,omitempty"`
	UserID           string          `json:"user_id,omitempty"`
	DateCreated      string          `json:"date_created,omitempty"`
	OriginalQuantity int             `json:"original_quantity,omitempty"`
	Supplier         json.RawMessage `json:"supplier,omitempty"`
	Timeslots        json.RawMessage `json:"timeslots,omitempty"`
}

// Normalize fills in the SKU sentinel when the source value is empty.
func (s *StockItem) Normalize() {
	if strings.TrimSpace(s.SKU) == "" {
		s.SKU = MissingSKU
	}
}

// Field identifies one editable column of a stock record.
type Field string

const (
	FieldName         Field = "name"
	FieldSKU          Field = "sku"
	FieldBuyingPrice  Field = "buying_price"
	FieldQuantity     Field = "quantity"
	FieldCurrencyCode Field = "currency_code"
)

// ParseField validates a raw field key coming from a renderer.
func ParseField(raw string) (Field, error) {
	switch f := Field(raw); f {
	case FieldName, FieldSKU, FieldBuyingPrice, FieldQuantity, FieldCurrencyCode:
		return f, nil
	}
	return "", fmt.Errorf("unknown editable field %q", raw)
}

// ApplyField writes a raw input value into the given field of item.
//
// Coercion rule: quantity and buying-price inputs parse as numbers; empty or
// non-numeric input coerces to 0. All other fields are stored as text.
func ApplyField(item *StockItem, field Field, raw string) {
	switch field {
	case FieldName:
		item.Name = raw
	case FieldSKU:
		item.SKU = raw
	case FieldBuyingPrice:
		item.BuyingPrice = coerceFloat(raw)
	case FieldQuantity:
		item.Quantity = coerceInt(raw)
	case FieldCurrencyCode:
		item.CurrencyCode = raw
	}
}

func coerceFloat(raw string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0
	}
	return v
}

func coerceInt(raw string) int {
	trimmed := strings.TrimSpace(raw)
	if v, err := strconv.Atoi(trimmed); err == nil {
		return v
	}
	// Inputs like "50." or "50.0" still count as numeric.
	if f, err := strconv.ParseFloat(trimmed, 64); err == nil {
		return int(f)
	}
	return 0
}

// CreateStockInput carries the user-entered fields for a new record. The
// server assigns the id.
type CreateStockInput struct {
	Name         string  `json:"name" binding:"required"`
	SKU          string  `json:"sku"`
	BuyingPrice  float64 `json:"buying_price"`
	Quantity     int     `json:"quantity"`
	CurrencyCode string  `json:"currency_code"`
}

// UpdateStockRequest is the partial field set the remote update endpoint
// accepts. The stock-keeping code is a local display concern and is not part
// of the remote contract.
type UpdateStockRequest struct {
	Name         string  `json:"name"`
	BuyingPrice  float64 `json:"buying_price"`
	Quantity     int     `json:"quantity"`
	CurrencyCode string  `json:"currency_code"`
}

// UpdateRequestFrom builds the remote update payload from an edit draft.
func UpdateRequestFrom(draft StockItem) UpdateStockRequest {
	return UpdateStockRequest{
		Name:         draft.Name,
		BuyingPrice:  draft.BuyingPrice,
		Quantity:     draft.Quantity,
		CurrencyCode: draft.CurrencyCode,
	}
}

// MutationAudit records the outcome of one remote mutation for diagnostics.
type MutationAudit struct {
	Action     string    `bson:"action" json:"action"`
	StockID    string    `bson:"stock_id" json:"stock_id"`
	Success    bool      `bson:"success" json:"success"`
	Error      string    `bson:"error,omitempty" json:"error,omitempty"`
	OccurredAt time.Time `bson:"occurred_at" json:"occurred_at"`
}
