package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultLineAPIBase = "https://api.line.me"

// LineClient pushes text messages to LINE users through the Messaging
// API push endpoint.
type LineClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewLineClient constructs a client. baseURL is overridable for tests;
// empty means the production endpoint.
func NewLineClient(baseURL, token string) *LineClient {
	if baseURL == "" {
		baseURL = defaultLineAPIBase
	}
	return &LineClient{
		baseURL:    baseURL,
		token:      token,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

type linePushRequest struct {
	To       string        `json:"to"`
	Messages []lineMessage `json:"messages"`
}

type lineMessage struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// SendText pushes a single text message to the recipient's chat.
func (c *LineClient) SendText(ctx context.Context, to, text string) error {
	body, err := json.Marshal(linePushRequest{
		To:       to,
		Messages: []lineMessage{{Type: "text", Text: text}},
	})
	if err != nil {
		return fmt.Errorf("encode push: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/v2/bot/message/push", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build push request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("push message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("push message: status %d: %s", resp.StatusCode, msg)
	}
	return nil
}
