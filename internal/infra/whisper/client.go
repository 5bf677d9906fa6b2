// Package whisper is a client for a local whisper.cpp server
// (whisper-server exposes batch transcription at POST /inference).
package whisper

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"voice-assistant/internal/infra"
)

type Client struct {
	baseURL    string
	model      string
	language   string
	httpClient *http.Client
}

func NewClient(serverURL, model, language string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(serverURL, "/"),
		model:      model,
		language:   language,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

type inferenceResponse struct {
	Text string `json:"text"`
}

func (c *Client) Transcribe(ctx context.Context, wav []byte) (string, error) {
	var result inferenceResponse

	retryErr := infra.WithRetry(ctx, infra.DefaultRetryConfig(), func() error {
		body := &bytes.Buffer{}
		writer := multipart.NewWriter(body)

		part, err := writer.CreateFormFile("file", "audio.wav")
		if err != nil {
			return fmt.Errorf("creating form file: %w", err)
		}
		if _, err = part.Write(wav); err != nil {
			return fmt.Errorf("writing audio: %w", err)
		}

		if c.model != "" {
			if err = writer.WriteField("model", c.model); err != nil {
				return fmt.Errorf("writing model field: %w", err)
			}
		}
		if c.language != "" {
			if err = writer.WriteField("language", c.language); err != nil {
				return fmt.Errorf("writing language field: %w", err)
			}
		}

		if err = writer.Close(); err != nil {
			return fmt.Errorf("closing writer: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/inference", body)
		if err != nil {
			return fmt.Errorf("creating request: %w", err)
		}
		req.Header.Set("Content-Type", writer.FormDataContentType())

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("sending request: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			respBody, _ := io.ReadAll(resp.Body)
			if infra.IsRetryableHTTPStatus(resp.StatusCode) {
				return fmt.Errorf("whisper server error %d: %s (retryable)", resp.StatusCode, string(respBody))
			}
			return fmt.Errorf("whisper server error %d: %s", resp.StatusCode, string(respBody))
		}

		if err = json.NewDecoder(resp.Body).Decode(&result); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}

		return nil
	})

	if retryErr != nil {
		return "", retryErr
	}

	return strings.TrimSpace(result.Text), nil
}
