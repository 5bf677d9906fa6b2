// Package ollama is an HTTP client for a local Ollama LLM server.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"voice-assistant/internal/infra"
)

type Client struct {
	baseURL    string
	endpoint   string
	model      string
	httpClient *http.Client
}

func NewClient(host string, port int, endpoint, model string) *Client {
	return NewClientWithURL(fmt.Sprintf("http://%s:%d", host, port), endpoint, model)
}

func NewClientWithURL(baseURL, endpoint, model string) *Client {
	if endpoint == "" {
		endpoint = "/api/chat"
	}
	if model == "" {
		model = "llama2"
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		endpoint:   endpoint,
		model:      model,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string    `json:"model"`
	Messages []message `json:"messages"`
	Stream   bool      `json:"stream"`
}

type chatResponse struct {
	Message message `json:"message"`
}

// Reply sends one user message and returns the model's answer.
func (c *Client) Reply(ctx context.Context, text string) (string, error) {
	reqBody := chatRequest{
		Model:    c.model,
		Messages: []message{{Role: "user", Content: text}},
		Stream:   false,
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	var result chatResponse
	retryErr := infra.WithRetry(ctx, infra.DefaultRetryConfig(), func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+c.endpoint, bytes.NewReader(bodyBytes))
		if err != nil {
			return fmt.Errorf("creating request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("sending request: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			respBody, _ := io.ReadAll(resp.Body)
			if infra.IsRetryableHTTPStatus(resp.StatusCode) {
				return fmt.Errorf("ollama error %d: %s (retryable)", resp.StatusCode, string(respBody))
			}
			return fmt.Errorf("ollama error %d: %s", resp.StatusCode, string(respBody))
		}

		if err = json.NewDecoder(resp.Body).Decode(&result); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}

		return nil
	})

	if retryErr != nil {
		return "", retryErr
	}

	reply := strings.TrimSpace(result.Message.Content)
	if reply == "" {
		return "", fmt.Errorf("empty reply from ollama")
	}
	return reply, nil
}

// Reachable reports whether the Ollama server answers its model listing
// endpoint.
func (c *Client) Reachable(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/tags", nil)
	if err != nil {
		return false
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode == http.StatusOK
}
