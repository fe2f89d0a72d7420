// Package remote scores windows with a classifier served over HTTP using
// the TensorFlow Serving REST predict API.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cwbudde/algo-pick/dsp/core"
	"github.com/cwbudde/algo-pick/dsp/frame"
	"github.com/cwbudde/algo-pick/score"
)

// DefaultTimeout bounds one predict call.
const DefaultTimeout = 60 * time.Second

type predictRequest struct {
	Instances [][][]float64 `json:"instances"`
}

type predictResponse struct {
	Predictions [][]float64 `json:"predictions"`
}

// Client is a score.Scorer backed by a predict endpoint.
type Client struct {
	endpoint string
	http     *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.http.Timeout = d
	}
}

// New returns a Client posting to <baseURL>/v1/models/<model>:predict.
func New(baseURL, model string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%w: remote: invalid model url %q", core.ErrConfiguration, baseURL)
	}
	if strings.TrimSpace(model) == "" {
		return nil, fmt.Errorf("%w: remote: empty model name", core.ErrConfiguration)
	}

	c := &Client{
		endpoint: strings.TrimRight(baseURL, "/") + "/v1/models/" + url.PathEscape(model) + ":predict",
		http:     &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c, nil
}

// Endpoint returns the predict URL.
func (c *Client) Endpoint() string { return c.endpoint }

// Score posts the windows of b as (window, feature, channel) instances and
// returns the predictions unchanged. Shape and range checks are left to
// score.Run.
func (c *Client) Score(ctx context.Context, b *frame.Batch) (score.Matrix, error) {
	body, err := json.Marshal(predictRequest{Instances: instances(b)})
	if err != nil {
		return nil, fmt.Errorf("remote: encode: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("remote: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("remote: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("remote: predict %s: %s", resp.Status, strings.TrimSpace(string(msg)))
	}

	var out predictResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("remote: decode: %w", err)
	}
	return score.Matrix(out.Predictions), nil
}

func instances(b *frame.Batch) [][][]float64 {
	out := make([][][]float64, b.Len())
	for i := range out {
		w := make([][]float64, b.Features())
		for s := range w {
			row := make([]float64, b.Channels())
			for c := range row {
				row[c] = b.At(i, s, c)
			}
			w[s] = row
		}
		out[i] = w
	}
	return out
}
