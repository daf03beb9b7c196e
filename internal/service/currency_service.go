package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"ovozpay/pkg/config"

	"go.uber.org/zap"
)

// CurrencyService fetches official exchange rates from the Central Bank of
// Uzbekistan and caches them in memory. All rates are quoted against UZS.
type CurrencyService struct {
	endpoint   string
	cacheTTL   time.Duration
	httpClient *http.Client
	logger     *zap.Logger

	mu        sync.RWMutex
	rates     map[string]float64
	fetchedAt time.Time
}

func NewCurrencyService(cfg *config.CurrencyConfig, logger *zap.Logger) *CurrencyService {
	return &CurrencyService{
		endpoint:   cfg.CBUEndpoint,
		cacheTTL:   cfg.CacheTTL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		logger:     logger,
		rates:      make(map[string]float64),
	}
}

type cbuRate struct {
	Ccy  string `json:"Ccy"`
	Rate string `json:"Rate"`
}

// GetRate returns how many UZS one unit of the given currency costs.
func (s *CurrencyService) GetRate(ctx context.Context, code string) (float64, error) {
	code = strings.ToUpper(code)
	if code == "UZS" {
		return 1, nil
	}

	if rate, ok := s.cachedRate(code); ok {
		return rate, nil
	}

	if err := s.refresh(ctx); err != nil {
		return 0, err
	}

	rate, ok := s.cachedRate(code)
	if !ok {
		return 0, fmt.Errorf("unknown currency code: %s", code)
	}
	return rate, nil
}

// Convert converts an amount between two currencies through the UZS base.
func (s *CurrencyService) Convert(ctx context.Context, amount float64, from, to string) (float64, error) {
	fromRate, err := s.GetRate(ctx, from)
	if err != nil {
		return 0, err
	}
	toRate, err := s.GetRate(ctx, to)
	if err != nil {
		return 0, err
	}
	return amount * fromRate / toRate, nil
}

func (s *CurrencyService) cachedRate(code string) (float64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if time.Since(s.fetchedAt) > s.cacheTTL {
		return 0, false
	}
	rate, ok := s.rates[code]
	return rate, ok
}

func (s *CurrencyService) refresh(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, "GET", s.endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("rates request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("rates API returned status %d", resp.StatusCode)
	}

	var entries []cbuRate
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return fmt.Errorf("failed to parse rates response: %w", err)
	}

	rates := make(map[string]float64, len(entries))
	for _, e := range entries {
		rate, err := strconv.ParseFloat(strings.ReplaceAll(e.Rate, ",", "."), 64)
		if err != nil || rate <= 0 {
			continue
		}
		rates[strings.ToUpper(e.Ccy)] = rate
	}
	if len(rates) == 0 {
		return fmt.Errorf("rates response contained no usable rates")
	}

	s.mu.Lock()
	s.rates = rates
	s.fetchedAt = time.Now()
	s.mu.Unlock()

	s.logger.Info("Exchange rates refreshed", zap.Int("currencies", len(rates)))
	return nil
}
