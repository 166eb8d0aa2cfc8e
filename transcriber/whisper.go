package transcriber

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"hushtype/encoder"
)

// DefaultURL points at a local whisper-server speaking the OpenAI
// transcription API.
const DefaultURL = "http://127.0.0.1:8178/v1/audio/transcriptions"

type WhisperConfig struct {
	URL    string
	APIKey string
	Model  string
	Format string // "flac" or "wav", flac by default
}

// Whisper is an HTTP client for whisper-compatible transcription servers.
type Whisper struct {
	client *http.Client
	cfg    WhisperConfig
}

func NewWhisper(cfg WhisperConfig) *Whisper {
	if cfg.URL == "" {
		cfg.URL = DefaultURL
	}
	if cfg.Format == "" {
		cfg.Format = "flac"
	}
	return &Whisper{
		client: &http.Client{Timeout: 2 * time.Minute},
		cfg:    cfg,
	}
}

func (w *Whisper) Name() string { return "whisper" }

type whisperResponse struct {
	Text     string  `json:"text"`
	Language string  `json:"language"`
	Duration float64 `json:"duration"`
}

func (w *Whisper) Transcribe(ctx context.Context, samples []float32, language string) (*Result, error) {
	if len(samples) == 0 {
		return nil, ErrNoAudio
	}

	var audioData []byte
	var err error
	if w.cfg.Format == "wav" {
		audioData, err = encoder.EncodeWav(samples)
	} else {
		audioData, err = encoder.EncodeFlac(samples)
	}
	if err != nil {
		return nil, fmt.Errorf("encoding audio: %w", err)
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", "audio."+w.cfg.Format)
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(audioData); err != nil {
		return nil, err
	}

	if w.cfg.Model != "" {
		writer.WriteField("model", w.cfg.Model)
	}
	writer.WriteField("response_format", "verbose_json")
	if language != "" && language != "auto" {
		writer.WriteField("language", language)
	}
	writer.Close()

	req, err := http.NewRequestWithContext(ctx, "POST", w.cfg.URL, &body)
	if err != nil {
		return nil, err
	}
	if w.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+w.cfg.APIKey)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	start := time.Now()
	resp, err := w.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("transcription request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("transcription API error %d: %s", resp.StatusCode, string(respBody))
	}

	var wResp whisperResponse
	if err := json.Unmarshal(respBody, &wResp); err != nil {
		return nil, fmt.Errorf("transcription response parse error: %w", err)
	}

	return &Result{
		Text:              wResp.Text,
		DetectedLanguage:  wResp.Language,
		AudioDuration:     time.Duration(float64(len(samples)) / encoder.SampleRate * float64(time.Second)),
		InferenceDuration: time.Since(start),
	}, nil
}
