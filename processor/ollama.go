package processor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const DefaultOllamaURL = "http://127.0.0.1:11434"

type OllamaConfig struct {
	URL   string
	Model string
}

// Ollama talks to a local ollama server over its chat API.
type Ollama struct {
	client *http.Client
	cfg    OllamaConfig
}

func NewOllama(cfg OllamaConfig) *Ollama {
	if cfg.URL == "" {
		cfg.URL = DefaultOllamaURL
	}
	if cfg.Model == "" {
		cfg.Model = "llama3.2"
	}
	return &Ollama{
		client: &http.Client{Timeout: 60 * time.Second},
		cfg:    cfg,
	}
}

func (o *Ollama) Name() string { return "ollama" }

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
}

type chatResponse struct {
	Message chatMessage `json:"message"`
}

func (o *Ollama) Process(ctx context.Context, text string, mode Mode, template string) (string, error) {
	if mode == ModeNone || strings.TrimSpace(text) == "" {
		return text, nil
	}
	prompt := promptFor(mode, template)
	if prompt == "" {
		return text, nil
	}

	reqBody, err := json.Marshal(chatRequest{
		Model: o.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: prompt},
			{Role: "user", Content: text},
		},
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", o.cfg.URL+"/api/chat", bytes.NewReader(reqBody))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("ollama request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ollama error %d: %s", resp.StatusCode, string(respBody))
	}

	var cResp chatResponse
	if err := json.Unmarshal(respBody, &cResp); err != nil {
		return "", fmt.Errorf("ollama response parse error: %w", err)
	}
	out := strings.TrimSpace(cResp.Message.Content)
	if out == "" {
		return "", fmt.Errorf("ollama returned empty rewrite")
	}
	return out, nil
}
