package console

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/wanderdesk/booking-api/internal/models"
)

// Client is the slice of the booking API the console drives.
type Client interface {
	ListBookings(ctx context.Context) ([]models.Booking, error)
	UpdateStatus(ctx context.Context, id uint, status string) (*models.Booking, error)
	GetPackage(ctx context.Context, id uint) (*models.Package, error)
}

// StatusError is a non-2xx response from the API.
type StatusError struct {
	Method string
	Path   string
	Code   int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: unexpected status %d", e.Method, e.Path, e.Code)
}

// HTTPClient talks to the booking API with an operator API key.
type HTTPClient struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func NewHTTPClient(baseURL, apiKey string) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *HTTPClient) ListBookings(ctx context.Context) ([]models.Booking, error) {
	var bookings []models.Booking
	if err := c.do(ctx, http.MethodGet, "/api/bookings", nil, &bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}

func (c *HTTPClient) UpdateStatus(ctx context.Context, id uint, status string) (*models.Booking, error) {
	body := map[string]string{"status": status}
	var b models.Booking
	if err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/api/bookings/%d/status", id), body, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

func (c *HTTPClient) GetPackage(ctx context.Context, id uint) (*models.Package, error) {
	var pkg models.Package
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/packages/%d", id), nil, &pkg); err != nil {
		return nil, err
	}
	return &pkg, nil
}

func (c *HTTPClient) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("X-API-KEY", c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &StatusError{Method: method, Path: path, Code: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}
