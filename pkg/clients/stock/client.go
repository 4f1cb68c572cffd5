// Package stock is the resty-backed client for the remote stock service.
package stock

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/sodiqltd/stockboard/internal/config"
	"github.com/sodiqltd/stockboard/internal/domain/models"
)

// Client exposes the stock service operations used by the application.
type Client interface {
	ListStocks(ctx context.Context) ([]models.StockItem, error)
	CreateStock(ctx context.Context, token string, input models.CreateStockInput) (*models.StockItem, error)
	UpdateStock(ctx context.Context, token string, id string, req models.UpdateStockRequest) error
	DeleteStock(ctx context.Context, token string, id string) error
}

// APIClient is a resty-backed implementation of Client.
type APIClient struct {
	httpClient     *resty.Client
	organizationID string
}

// NewClient builds a stock API client using the provided configuration values.
func NewClient(cfg config.StockAPIConfig) *APIClient {
	restyClient := resty.New()
	restyClient.
		SetBaseURL(strings.TrimSuffix(cfg.BaseURL, "/")).
		SetHeader("Content-Type", "application/json").
		SetTimeout(15 * time.Second)

	return &APIClient{
		httpClient:     restyClient,
		organizationID: cfg.OrganizationID,
	}
}

// listResponse mirrors the list endpoint envelope.
type listResponse struct {
	Items []models.StockItem `json:"items"`
}

// apiError represents the stock service error payload.
type apiError struct {
	Error struct {
		Message string `json:"message"`
		Code    int    `json:"code"`
	} `json:"error"`
}

func (c *APIClient) ListStocks(ctx context.Context) ([]models.StockItem, error) {
	result := new(listResponse)
	apiErr := new(apiError)

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetQueryParam("organization_id", c.organizationID).
		SetResult(result).
		SetError(apiErr).
		Get("/stocks")
	if err != nil {
		return nil, fmt.Errorf("list stocks: %w", err)
	}
	if err := checkStatus(resp, apiErr); err != nil {
		return nil, err
	}

	return result.Items, nil
}

func (c *APIClient) CreateStock(ctx context.Context, token string, input models.CreateStockInput) (*models.StockItem, error) {
	result := new(models.StockItem)
	apiErr := new(apiError)

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetQueryParam("organization_id", c.organizationID).
		SetBody(input).
		SetResult(result).
		SetError(apiErr).
		Post("/stocks")
	if err != nil {
		return nil, fmt.Errorf("create stock: %w", err)
	}
	if err := checkStatus(resp, apiErr); err != nil {
		return nil, err
	}

	return result, nil
}

func (c *APIClient) UpdateStock(ctx context.Context, token string, id string, req models.UpdateStockRequest) error {
	apiErr := new(apiError)

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetBody(req).
		SetError(apiErr).
		Put(fmt.Sprintf("/stocks/%s", id))
	if err != nil {
		return fmt.Errorf("update stock %s: %w", id, err)
	}
	return checkStatus(resp, apiErr)
}

func (c *APIClient) DeleteStock(ctx context.Context, token string, id string) error {
	apiErr := new(apiError)

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetError(apiErr).
		Delete(fmt.Sprintf("/stocks/%s", id))
	if err != nil {
		return fmt.Errorf("delete stock %s: %w", id, err)
	}
	return checkStatus(resp, apiErr)
}

func checkStatus(resp *resty.Response, apiErr *apiError) error {
	if resp.StatusCode() < http.StatusBadRequest {
		return nil
	}

	message := ""
	code := resp.StatusCode()
	if apiErr != nil {
		message = apiErr.Error.Message
		if apiErr.Error.Code != 0 {
			code = apiErr.Error.Code
		}
	}
	return fmt.Errorf("stock api error: code=%d, message=%s", code, message)
}
