//go:build integration

package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/google/uuid"

	"github.com/leshachaplin/crashlog/internal/domain"
)

type HTTPClient interface {
	Do(*http.Request) (*http.Response, error)
}

type Client struct {
	url  string
	http HTTPClient
}

func NewClient(url string, httpClient HTTPClient) *Client {
	return &Client{
		url:  url,
		http: httpClient,
	}
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.url+path, body)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())

	return req, nil
}

func (c *Client) do(req *http.Request, expected int) (*http.Response, error) {
	res, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("could not send request: %w", err)
	}
	if res.StatusCode != expected {
		res.Body.Close()
		return nil, fmt.Errorf("unexpected status code: %d", res.StatusCode)
	}
	return res, nil
}

// SendReports posts events as newline delimited JSON.
func (c *Client) SendReports(ctx context.Context, events []domain.EventRequest) error {
	buf := &bytes.Buffer{}
	for _, event := range events {
		body, err := json.Marshal(event)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		buf.Write(body)
		buf.WriteString("\n")
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/v1/report", buf)
	if err != nil {
		return fmt.Errorf("could not create request: %w", err)
	}

	res, err := c.do(req, http.StatusAccepted)
	if err != nil {
		return err
	}
	return res.Body.Close()
}

func (c *Client) Compose(ctx context.Context, event domain.EventRequest) (domain.Report, error) {
	body, err := json.Marshal(event)
	if err != nil {
		return domain.Report{}, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/v1/report/compose?show_report_button=true", bytes.NewReader(body))
	if err != nil {
		return domain.Report{}, fmt.Errorf("could not create request: %w", err)
	}

	res, err := c.do(req, http.StatusOK)
	if err != nil {
		return domain.Report{}, err
	}
	defer res.Body.Close()

	var rep domain.Report
	if err = json.NewDecoder(res.Body).Decode(&rep); err != nil {
		return domain.Report{}, fmt.Errorf("failed to decode report: %w", err)
	}
	return rep, nil
}

func (c *Client) Reports(ctx context.Context, packageName string, limit int) ([]domain.Report, error) {
	path := fmt.Sprintf("/v1/report/%s?limit=%d", url.PathEscape(packageName), limit)
	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, fmt.Errorf("could not create request: %w", err)
	}

	res, err := c.do(req, http.StatusOK)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	var reports []domain.Report
	if err = json.NewDecoder(res.Body).Decode(&reports); err != nil {
		return nil, fmt.Errorf("failed to decode reports: %w", err)
	}
	return reports, nil
}
