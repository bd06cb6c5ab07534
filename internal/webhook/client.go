package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/jimdaga/team-pulse/internal/llm"
)

// Client handles communication with the n8n webhook for briefing generation
type Client struct {
	baseURL    string
	secret     string
	httpClient *http.Client
}

var _ llm.Provider = (*Client)(nil)

// NewClient creates a new webhook client with the given configuration
func NewClient(baseURL, secret string) *Client {
	return &Client{
		baseURL:    baseURL,
		secret:     secret,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// GenerateText posts the prompt to the n8n webhook and returns the generated
// text. Failures come back as *llm.Error; HTTP 429 is classified as rate limited.
func (c *Client) GenerateText(ctx context.Context, prompt string) (string, error) {
	jsonData, err := json.Marshal(GenerateRequest{Prompt: prompt})
	if err != nil {
		return "", llm.Wrap(llm.KindOther, fmt.Errorf("failed to marshal request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/generate", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", llm.Wrap(llm.KindOther, fmt.Errorf("failed to create request: %w", err))
	}

	req.Header.Set("X-N8N-SECRET", c.secret)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", llm.Wrap(llm.KindOther, fmt.Errorf("failed to execute request: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", llm.Wrap(llm.ClassifyStatus(resp.StatusCode),
			fmt.Errorf("webhook returned status %d: %s", resp.StatusCode, string(body)))
	}

	var out GenerateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", llm.Wrap(llm.KindOther, fmt.Errorf("failed to decode response: %w", err))
	}
	if out.Text == "" {
		return "", llm.Wrap(llm.KindOther, errors.New("webhook returned empty text"))
	}

	return out.Text, nil
}
