package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ovozpay/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestParseReceiptContentPlainJSON(t *testing.T) {
	got, err := parseReceiptContent(`{"amount": 125000, "category": "Продукты", "description": "Korzinka"}`)
	require.NoError(t, err)
	assert.Equal(t, 125000.0, got.Amount)
	assert.Equal(t, "Продукты", got.Category)
	assert.Equal(t, "Korzinka", got.Description)
}

func TestParseReceiptContentMarkdownFence(t *testing.T) {
	content := "```json\n{\"amount\": 48000, \"category\": \"Кафе\", \"description\": \"обед\"}\n```"
	got, err := parseReceiptContent(content)
	require.NoError(t, err)
	assert.Equal(t, 48000.0, got.Amount)
}

func TestParseReceiptContentSurroundingProse(t *testing.T) {
	content := `Вот данные чека: {"amount": 9900, "category": "Транспорт", "description": "такси"} — надеюсь, помог!`
	got, err := parseReceiptContent(content)
	require.NoError(t, err)
	assert.Equal(t, 9900.0, got.Amount)
	assert.Equal(t, "Транспорт", got.Category)
}

func TestParseReceiptContentRejectsGarbage(t *testing.T) {
	_, err := parseReceiptContent("не смог распознать чек")
	assert.Error(t, err)

	_, err = parseReceiptContent(`{"amount": -5, "category": "x", "description": "y"}`)
	assert.Error(t, err)
}

func TestAnalyzeReceiptReportsGatewayStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("<html><body>502 Bad Gateway</body></html>"))
	}))
	defer srv.Close()

	svc := NewVisionService(&config.VisionConfig{
		BaseURL: srv.URL,
		APIKey:  "test-key",
		Model:   "test-model",
		Timeout: 5 * time.Second,
	}, zap.NewNop())

	_, err := svc.AnalyzeReceipt(context.Background(), []byte{0xFF, 0xD8}, "image/jpeg")
	require.Error(t, err)
	// A non-JSON error page must surface as the HTTP status, not a parse error.
	assert.Contains(t, err.Error(), "status 502")
}

func TestAnalyzeReceiptParsesChatReply(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"{\"amount\": 125000, \"category\": \"Продукты\", \"description\": \"Korzinka\"}"}}]}`))
	}))
	defer srv.Close()

	svc := NewVisionService(&config.VisionConfig{
		BaseURL: srv.URL,
		APIKey:  "test-key",
		Model:   "test-model",
		Timeout: 5 * time.Second,
	}, zap.NewNop())

	got, err := svc.AnalyzeReceipt(context.Background(), []byte{0xFF, 0xD8}, "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, 125000.0, got.Amount)
	assert.Equal(t, "Продукты", got.Category)
}
