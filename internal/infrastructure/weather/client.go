package weather

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/doeshing/statusline-go/internal/version"
)

// ErrAPICode marks a well-formed response whose "code" field reports failure.
var ErrAPICode = errors.New("api error code")

// maxBodyBytes caps a single response; weather payloads are a few KB.
const maxBodyBytes = 1 << 20

// Getter performs one authenticated GET and returns a validated body.
type Getter interface {
	Get(ctx context.Context, url, credential string) ([]byte, error)
}

// Client talks to the weather API over HTTP.
type Client struct {
	httpClient *http.Client
	userAgent  string
}

// NewClient wraps httpClient (http.DefaultClient when nil). The transport
// negotiates gzip and decompresses transparently.
func NewClient(httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		httpClient: httpClient,
		userAgent:  "claude-statusline/" + version.Version,
	}
}

// Get fetches url. The body is trusted only when the status is 2xx, it parses
// as JSON and any "code" field equals "200".
func (c *Client) Get(ctx context.Context, url, credential string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if credential != "" {
		req.Header.Set("Authorization", "Bearer "+credential)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("weather api: %s", resp.Status)
	}

	var body bytes.Buffer
	if _, err := body.ReadFrom(io.LimitReader(resp.Body, maxBodyBytes)); err != nil {
		return nil, err
	}
	if err := validate(body.Bytes()); err != nil {
		return nil, err
	}
	return body.Bytes(), nil
}

func validate(body []byte) error {
	var envelope struct {
		Code *value `json:"code"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return fmt.Errorf("weather api: invalid json: %w", err)
	}
	if envelope.Code != nil && *envelope.Code != "200" {
		return fmt.Errorf("%w %s", ErrAPICode, *envelope.Code)
	}
	return nil
}
