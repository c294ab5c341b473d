package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"foodorder-telegram/models"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ErrNotFound is matched by errors.Is for any 404 from the backend.
var ErrNotFound = errors.New("not found")

// APIError is a non-2xx response from the backend.
type APIError struct {
	Method     string
	Path       string
	StatusCode int
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s %s: unexpected status %d", e.Method, e.Path, e.StatusCode)
}

func (e *APIError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}

// FoodAPI is the backend consumed by the food details and order history screens.
type FoodAPI interface {
	GetFood(ctx context.Context, id int64) (*models.Food, error)
	GetFavorite(ctx context.Context, id int64) (*models.Food, error)
	CreateFavorite(ctx context.Context, food *models.Food) error
	DeleteFavorite(ctx context.Context, id int64) error
	CreateOrder(ctx context.Context, payload models.OrderPayload) error
	ListOrders(ctx context.Context) ([]models.Order, error)
}

// APIClient talks JSON over HTTP to the food backend.
type APIClient struct {
	baseURL string
	http    *http.Client
}

// NewAPIClient returns a client for baseURL. A nil httpClient means
// http.DefaultClient.
func NewAPIClient(baseURL string, httpClient *http.Client) *APIClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &APIClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
	}
}

func (c *APIClient) GetFood(ctx context.Context, id int64) (*models.Food, error) {
	var food models.Food
	if err := c.do(ctx, http.MethodGet, "/foods/"+strconv.FormatInt(id, 10), nil, &food); err != nil {
		return nil, err
	}
	return &food, nil
}

func (c *APIClient) GetFavorite(ctx context.Context, id int64) (*models.Food, error) {
	var food models.Food
	if err := c.do(ctx, http.MethodGet, "/favorites/"+strconv.FormatInt(id, 10), nil, &food); err != nil {
		return nil, err
	}
	return &food, nil
}

func (c *APIClient) CreateFavorite(ctx context.Context, food *models.Food) error {
	return c.do(ctx, http.MethodPost, "/favorites", food, nil)
}

func (c *APIClient) DeleteFavorite(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, "/favorites/"+strconv.FormatInt(id, 10), nil, nil)
}

func (c *APIClient) CreateOrder(ctx context.Context, payload models.OrderPayload) error {
	return c.do(ctx, http.MethodPost, "/orders", payload, nil)
}

func (c *APIClient) ListOrders(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	if err := c.do(ctx, http.MethodGet, "/orders", nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (c *APIClient) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	log := logrus.WithFields(logrus.Fields{
		"action":     "api_request",
		"request_id": requestID,
		"method":     method,
		"path":       path,
	})

	resp, err := c.http.Do(req)
	if err != nil {
		log.WithError(err).Debug("request failed")
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()
	log.WithField("status", resp.StatusCode).Debug("response received")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return &APIError{Method: method, Path: path, StatusCode: resp.StatusCode}
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}
