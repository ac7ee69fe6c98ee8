package scoring

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"

	"github.com/xavierca1/sdr-dashboard/internal/entity"
)

const DefaultURL = "http://localhost:8000/providescore"

type Client struct {
	url  string
	http *http.Client
}

// NewClient builds a scoring client. A zero timeout means the call may wait forever.
func NewClient(url string, timeout time.Duration) *Client {
	if url == "" {
		url = DefaultURL
	}
	return &Client{
		url:  url,
		http: &http.Client{Timeout: timeout},
	}
}

// Score posts the full lead and maps the reply. Genuine scores below the
// low-intent threshold get the synthetic disqualifier; the server never sends it.
func (c *Client) Score(ctx context.Context, lead entity.Lead) (entity.Qualification, error) {
	jsonBody, err := json.Marshal(lead)
	if err != nil {
		return entity.Qualification{}, fmt.Errorf("marshal lead: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(jsonBody))
	if err != nil {
		return entity.Qualification{}, err
	}
	setHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return entity.Qualification{}, fmt.Errorf("scoring request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return entity.Qualification{}, fmt.Errorf("scoring service rejected lead %s (status %d): %s", lead.ID, resp.StatusCode, body)
	}

	var response scoreResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return entity.Qualification{}, fmt.Errorf("decode scoring response: %w", err)
	}
	if response.Score == nil {
		return entity.Qualification{}, errors.New("scoring response has no score")
	}

	score := entity.ClampScore(int(math.Round(*response.Score)))
	q := entity.Qualification{
		Score:   score,
		Reasons: response.Reason,
	}
	if score < entity.LowIntentThreshold {
		q.Disqualifiers = []string{entity.LowIntentDisqualifier}
	}
	return q, nil
}

func setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "SDRDashboard/1.0")
}
