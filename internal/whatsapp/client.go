package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// SendError carries the provider's error payload so callers can decide
// whether a failure is worth retrying. The client itself never retries.
type SendError struct {
	StatusCode int
	Body       string
}

func (e *SendError) Error() string {
	return fmt.Sprintf("whatsapp api error (status %d): %s", e.StatusCode, e.Body)
}

// Client is a thin wrapper around the WhatsApp Business Cloud API: one
// network call per invocation, no retry, no state.
type Client struct {
	apiURL        string
	phoneNumberID string
	accessToken   string
	http          *http.Client
}

func NewClient(apiURL, phoneNumberID, accessToken string) *Client {
	return &Client{
		apiURL:        apiURL,
		phoneNumberID: phoneNumberID,
		accessToken:   accessToken,
		http:          &http.Client{Timeout: 15 * time.Second},
	}
}

type sendResponse struct {
	Messages []struct {
		ID string `json:"id"`
	} `json:"messages"`
}

// Send delivers one message and returns the provider-assigned message id.
func (c *Client) Send(ctx context.Context, to string, content Content) (string, error) {
	body, err := c.post(ctx, content.payload(to))
	if err != nil {
		return "", err
	}

	var resp sendResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("decode send response: %w", err)
	}
	if len(resp.Messages) == 0 || resp.Messages[0].ID == "" {
		return "", fmt.Errorf("send response carried no message id")
	}
	return resp.Messages[0].ID, nil
}

// MarkAsRead tells the provider a received message was read. Best-effort;
// callers ignore the error beyond logging.
func (c *Client) MarkAsRead(ctx context.Context, messageID string) error {
	_, err := c.post(ctx, map[string]interface{}{
		"messaging_product": "whatsapp",
		"status":            "read",
		"message_id":        messageID,
	})
	return err
}

func (c *Client) post(ctx context.Context, payload map[string]interface{}) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/%s/messages", c.apiURL, c.phoneNumberID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("whatsapp request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &SendError{StatusCode: resp.StatusCode, Body: string(body)}
	}
	return body, nil
}
