package service

import (
	"context"
	"strings"

	"cryptovibe/internal/llm"
)

const (
	defaultAsset      = "BTC"
	defaultIndicators = "Ichimoku Cloud, RSI, MACD"
)

// TradingPair is a market the chart and the analysts know about.
type TradingPair struct {
	Code   string `json:"code"`
	Label  string `json:"label"`
	Symbol string `json:"symbol"`
}

// TradingPairs lists the supported markets; the first is the default.
var TradingPairs = []TradingPair{
	{Code: "BTCUSDT", Label: "BTC/USDT", Symbol: "BINANCE:BTCUSDT"},
	{Code: "SOLUSDT", Label: "SOL/USDT", Symbol: "BINANCE:SOLUSDT"},
	{Code: "ZECUSDT", Label: "ZEC/USDT", Symbol: "BINANCE:ZECUSDT"},
}

// FindPair returns the pair with code, falling back to BTCUSDT.
func FindPair(code string) TradingPair {
	code = strings.ToUpper(strings.TrimSpace(code))
	for _, p := range TradingPairs {
		if p.Code == code {
			return p
		}
	}
	return TradingPairs[0]
}

// GrokAnalyzer and GeminiAnalyzer are satisfied by the llm clients.
type GrokAnalyzer interface {
	Analyze(ctx context.Context, r llm.GrokRequest) (string, error)
}

type GeminiAnalyzer interface {
	Analyze(ctx context.Context, r llm.GeminiRequest) (string, error)
}

// MarketAnalysisInput is a public analysis request. Asset wins over Pair
// when both are given.
type MarketAnalysisInput struct {
	Prompt     string
	Asset      string
	Pair       string
	Indicators string
}

// RiskAnalysisInput is a signed-in risk analysis request.
type RiskAnalysisInput struct {
	Prompt            string
	SelectedText      string
	IncludeScreenshot bool
}

// AnalysisService proxies questions to the hosted models.
type AnalysisService interface {
	MarketAnalysis(ctx context.Context, in MarketAnalysisInput) (string, error)
	RiskAnalysis(ctx context.Context, in RiskAnalysisInput) (string, error)
}

type analysisService struct {
	grok   GrokAnalyzer
	gemini GeminiAnalyzer
}

// NewAnalysisService creates an analysis service.
func NewAnalysisService(grok GrokAnalyzer, gemini GeminiAnalyzer) AnalysisService {
	return &analysisService{grok: grok, gemini: gemini}
}

func (s *analysisService) MarketAnalysis(ctx context.Context, in MarketAnalysisInput) (string, error) {
	asset := strings.TrimSpace(in.Asset)
	if asset == "" && strings.TrimSpace(in.Pair) != "" {
		asset = FindPair(in.Pair).Label
	}
	if asset == "" {
		asset = defaultAsset
	}
	indicators := strings.TrimSpace(in.Indicators)
	if indicators == "" {
		indicators = defaultIndicators
	}

	return s.gemini.Analyze(ctx, llm.GeminiRequest{
		Prompt:     in.Prompt,
		Asset:      asset,
		Indicators: indicators,
	})
}

func (s *analysisService) RiskAnalysis(ctx context.Context, in RiskAnalysisInput) (string, error) {
	return s.grok.Analyze(ctx, llm.GrokRequest{
		Prompt:            in.Prompt,
		SelectedText:      in.SelectedText,
		IncludeScreenshot: in.IncludeScreenshot,
	})
}
