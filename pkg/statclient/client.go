package statclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/afisha-dev/afisha/internal/entity"
)

// Client — HTTP-клиент сервиса статистики. Таймаут ограничивает
// каждое обращение, чтобы медленная статистика не тянула за собой
// основной сервис.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// SaveHit отправляет запись о просмотре: POST /hit.
func (c *Client) SaveHit(ctx context.Context, hit *entity.EndpointHit) error {
	body, err := json.Marshal(hit)
	if err != nil {
		return fmt.Errorf("failed to encode hit: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/hit", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build hit request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", entity.ErrStatsUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: unexpected status %s", entity.ErrHitNotSaved, resp.Status)
	}

	return nil
}

// GetStats запрашивает агрегированные просмотры: GET /stats.
func (c *Client) GetStats(ctx context.Context, start, end time.Time, uris []string, unique bool) ([]*entity.ViewStats, error) {
	params := url.Values{}
	params.Set("start", start.Format(entity.EventTimeLayout))
	params.Set("end", end.Format(entity.EventTimeLayout))
	for _, uri := range uris {
		params.Add("uris", uri)
	}
	if unique {
		params.Set("unique", "true")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/stats?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build stats request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrStatsUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status %s", entity.ErrStatsUnavailable, resp.Status)
	}

	var stats []*entity.ViewStats
	if err := json.NewDecoder(resp.Body).Decode(&stats); err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrStatsResponse, err)
	}

	return stats, nil
}
