package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"ovozpay/pkg/config"

	"go.uber.org/zap"
)

// ReceiptAnalysis is the structured result a vision model extracts from a
// receipt photo.
type ReceiptAnalysis struct {
	Amount      float64 `json:"amount"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
}

// VisionService extracts transaction data from receipt photos through an
// OpenAI-compatible chat completions endpoint.
type VisionService struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
	logger     *zap.Logger
}

func NewVisionService(cfg *config.VisionConfig, logger *zap.Logger) *VisionService {
	return &VisionService{
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger,
	}
}

type chatMessage struct {
	Role    string        `json:"role"`
	Content []contentPart `json:"content"`
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

const receiptPrompt = `Проанализируй фото чека и верни JSON строго вида:
{"amount": <итоговая сумма числом>, "category": "<категория расхода>", "description": "<краткое описание покупки>"}
Если сумма не видна, поставь amount равным 0. Отвечай только JSON без пояснений.`

// AnalyzeReceipt sends the photo to the vision model and parses the
// extracted amount, category and description.
func (s *VisionService) AnalyzeReceipt(ctx context.Context, imageData []byte, mimeType string) (*ReceiptAnalysis, error) {
	if mimeType == "" {
		mimeType = "image/jpeg"
	}
	dataURL := fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(imageData))

	reqBody := map[string]interface{}{
		"model": s.model,
		"messages": []chatMessage{
			{
				Role: "user",
				Content: []contentPart{
					{Type: "text", Text: receiptPrompt},
					{Type: "image_url", ImageURL: &imageURL{URL: dataURL}},
				},
			},
		},
		"temperature": 0.1,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.baseURL+"/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("vision request failed: %w", err)
	}
	defer resp.Body.Close()

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("vision API returned status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to parse vision response: %w", err)
	}
	if len(result.Choices) == 0 {
		return nil, fmt.Errorf("vision API returned no choices")
	}

	analysis, err := parseReceiptContent(result.Choices[0].Message.Content)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Receipt analyzed",
		zap.Float64("amount", analysis.Amount),
		zap.String("category", analysis.Category),
	)
	return analysis, nil
}

// parseReceiptContent pulls the JSON object out of a model reply that may
// wrap it in markdown fences or surrounding prose.
func parseReceiptContent(content string) (*ReceiptAnalysis, error) {
	jsonStr := strings.TrimSpace(content)
	jsonStr = strings.TrimPrefix(jsonStr, "```json")
	jsonStr = strings.TrimPrefix(jsonStr, "```")
	jsonStr = strings.TrimSuffix(jsonStr, "```")
	jsonStr = strings.TrimSpace(jsonStr)

	start := strings.Index(jsonStr, "{")
	end := strings.LastIndex(jsonStr, "}")
	if start == -1 || end == -1 || end < start {
		return nil, fmt.Errorf("invalid response format: %s", content)
	}
	jsonStr = jsonStr[start : end+1]

	var analysis ReceiptAnalysis
	if err := json.Unmarshal([]byte(jsonStr), &analysis); err != nil {
		return nil, fmt.Errorf("failed to parse receipt JSON: %w, content: %s", err, content)
	}
	if analysis.Amount < 0 {
		return nil, fmt.Errorf("receipt amount is negative: %f", analysis.Amount)
	}
	return &analysis, nil
}
