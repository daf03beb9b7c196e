package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"ovozpay/pkg/config"

	"go.uber.org/zap"
)

// SpeechService transcribes voice messages through a Whisper-compatible
// transcription endpoint.
type SpeechService struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
	logger     *zap.Logger
}

func NewSpeechService(cfg *config.SpeechConfig, logger *zap.Logger) *SpeechService {
	return &SpeechService{
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger,
	}
}

// Transcribe sends the audio to the transcription API and returns the
// recognized text. Language is a BCP-47 hint ("ru", "uz", "en"); empty
// lets the model detect it.
func (s *SpeechService) Transcribe(ctx context.Context, audio io.Reader, fileName, language string) (string, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	if err := writer.WriteField("model", s.model); err != nil {
		return "", fmt.Errorf("failed to write model field: %w", err)
	}
	if language != "" {
		if err := writer.WriteField("language", language); err != nil {
			return "", fmt.Errorf("failed to write language field: %w", err)
		}
	}

	part, err := writer.CreateFormFile("file", fileName)
	if err != nil {
		return "", fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, audio); err != nil {
		return "", fmt.Errorf("failed to copy audio data: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.baseURL+"/audio/transcriptions", &body)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("transcription request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("transcription API returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var result struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", fmt.Errorf("failed to parse transcription response: %w", err)
	}

	text := strings.TrimSpace(result.Text)
	if text == "" {
		return "", fmt.Errorf("no speech recognized")
	}

	s.logger.Info("Voice message transcribed",
		zap.String("language", language),
		zap.Int("text_length", len(text)),
	)
	return text, nil
}
