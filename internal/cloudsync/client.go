// Package cloudsync предоставляет клиент облачного хранилища резервных копий питомца.
package cloudsync

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrNotConfigured возвращается, если адрес облака не задан.
	ErrNotConfigured = errors.New("cloud sync client not configured")
	// ErrNoRecord возвращается, если в облаке нет записи с таким идентификатором.
	ErrNoRecord = errors.New("cloud record not found")
	// ErrRateLimited возвращается на 429; время ожидания возвращается отдельно.
	ErrRateLimited = errors.New("cloud sync rate limited")
)

const maxRecordSize = 1 << 20

// Client инкапсулирует HTTP-взаимодействие с облачным хранилищем.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient создаёт клиент для указанного адреса. token, если не пуст,
// передаётся в заголовке Authorization.
func NewClient(baseURL, token string) *Client {
	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if base != "" && !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		base = "http://" + base
	}
	return &Client{
		baseURL: base,
		token:   token,
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
}

func (c *Client) recordURL(recordID string) (string, error) {
	if c == nil || c.baseURL == "" {
		return "", ErrNotConfigured
	}
	if strings.TrimSpace(recordID) == "" {
		return "", fmt.Errorf("record id is required")
	}
	return fmt.Sprintf("%s/api/records/%s", c.baseURL, url.PathEscape(recordID)), nil
}

func (c *Client) do(req *http.Request) (*http.Response, error) {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	return resp, nil
}

// Upload сохраняет документ резервной копии под идентификатором recordID.
// На 429 возвращает ErrRateLimited и время из Retry-After.
func (c *Client) Upload(ctx context.Context, recordID string, doc []byte) (time.Duration, error) {
	u, err := c.recordURL(recordID)
	if err != nil {
		return 0, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, u, bytes.NewReader(doc))
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated, http.StatusNoContent:
		return 0, nil
	case http.StatusTooManyRequests:
		return parseRetryAfter(resp.Header.Get("Retry-After")), ErrRateLimited
	default:
		return 0, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}
}

// Download возвращает документ резервной копии. Отсутствие записи даёт ErrNoRecord.
func (c *Client) Download(ctx context.Context, recordID string) ([]byte, time.Duration, error) {
	u, err := c.recordURL(recordID)
	if err != nil {
		return nil, 0, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, 0, ErrNoRecord
	case http.StatusTooManyRequests:
		return nil, parseRetryAfter(resp.Header.Get("Retry-After")), ErrRateLimited
	default:
		return nil, 0, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxRecordSize))
	if err != nil {
		return nil, 0, fmt.Errorf("read response: %w", err)
	}
	return body, 0, nil
}

// parseRetryAfter понимает обе формы заголовка: секунды и HTTP-дату.
func parseRetryAfter(v string) time.Duration {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0
	}
	if seconds, err := strconv.Atoi(v); err == nil {
		if seconds < 0 {
			return 0
		}
		return time.Duration(seconds) * time.Second
	}
	if at, err := http.ParseTime(v); err == nil {
		if d := time.Until(at); d > 0 {
			return d
		}
	}
	return 0
}
