package drafting

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/xavierca1/sdr-dashboard/internal/entity"
)

const DefaultURL = "http://localhost:8000/draftemail"

type Client struct {
	url  string
	http *http.Client
}

func NewClient(url string, timeout time.Duration) *Client {
	if url == "" {
		url = DefaultURL
	}
	return &Client{
		url:  url,
		http: &http.Client{Timeout: timeout},
	}
}

// Draft posts the full lead and returns the {subject, body, cta} reply as-is.
func (c *Client) Draft(ctx context.Context, lead entity.Lead) (entity.EmailDraft, error) {
	jsonBody, err := json.Marshal(lead)
	if err != nil {
		return entity.EmailDraft{}, fmt.Errorf("marshal lead: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(jsonBody))
	if err != nil {
		return entity.EmailDraft{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "SDRDashboard/1.0")

	resp, err := c.http.Do(req)
	if err != nil {
		return entity.EmailDraft{}, fmt.Errorf("drafting request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return entity.EmailDraft{}, fmt.Errorf("drafting service rejected lead %s (status %d): %s", lead.ID, resp.StatusCode, body)
	}

	var draft entity.EmailDraft
	if err := json.NewDecoder(resp.Body).Decode(&draft); err != nil {
		return entity.EmailDraft{}, fmt.Errorf("decode draft: %w", err)
	}
	return draft, nil
}
