package translation

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// LibreTranslate calls the /translate endpoint of a LibreTranslate server.
type LibreTranslate struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewLibreTranslate creates a client for baseURL. A zero timeout uses
// DefaultCallTimeout.
func NewLibreTranslate(baseURL, apiKey string, timeout time.Duration) *LibreTranslate {
	if timeout <= 0 {
		timeout = DefaultCallTimeout
	}
	return &LibreTranslate{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
	}
}

type libreRequest struct {
	Q      string `json:"q"`
	Source string `json:"source"`
	Target string `json:"target"`
	Format string `json:"format"`
	APIKey string `json:"api_key,omitempty"`
}

type libreResponse struct {
	TranslatedText string `json:"translatedText"`
	Error          string `json:"error"`
}

// Translate implements Translator.
func (l *LibreTranslate) Translate(ctx context.Context, text, source, target string) (string, error) {
	if !needsTranslation(text) {
		return text, nil
	}

	body, err := json.Marshal(libreRequest{
		Q:      text,
		Source: source,
		Target: target,
		Format: "text",
		APIKey: l.apiKey,
	})
	if err != nil {
		return "", fmt.Errorf("marshal: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, l.baseURL+"/translate", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := l.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("libretranslate call: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}

	var result libreResponse
	if resp.StatusCode != http.StatusOK {
		if json.Unmarshal(respBody, &result) == nil && result.Error != "" {
			return "", fmt.Errorf("libretranslate error (status %d): %s", resp.StatusCode, result.Error)
		}
		return "", fmt.Errorf("libretranslate error (status %d): %s", resp.StatusCode, string(respBody))
	}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", fmt.Errorf("libretranslate decode: %w", err)
	}
	if result.TranslatedText == "" {
		return "", errors.New("libretranslate: empty translation")
	}
	return result.TranslatedText, nil
}
