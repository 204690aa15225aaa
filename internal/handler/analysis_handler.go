package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"cryptovibe/internal/service"
)

// AnalysisHandler proxies market and risk questions to the hosted models.
type AnalysisHandler struct {
	analysisService service.AnalysisService
}

// NewAnalysisHandler creates a new analysis handler.
func NewAnalysisHandler(analysisService service.AnalysisService) *AnalysisHandler {
	return &AnalysisHandler{analysisService: analysisService}
}

// GeminiRequest is a public market analysis request.
type GeminiRequest struct {
	Prompt     string `json:"prompt" validate:"max=4000"`
	Asset      string `json:"asset,omitempty" validate:"max=20"`
	Pair       string `json:"pair,omitempty" validate:"max=20"`
	Indicators string `json:"indicators,omitempty" validate:"max=500"`
}

// GrokRequest is a risk analysis request from a signed-in user.
type GrokRequest struct {
	Prompt            string `json:"prompt" validate:"required,max=4000"`
	SelectedText      string `json:"selected_text,omitempty" validate:"max=8000"`
	IncludeScreenshot bool   `json:"include_screenshot,omitempty"`
}

// AnalysisResponse carries the model's answer.
type AnalysisResponse struct {
	Response string `json:"response"`
}

// Pairs godoc
// @Summary Supported trading pairs
// @Tags market
// @Produce json
// @Success 200 {array} service.TradingPair
// @Router /market/pairs [get]
func (h *AnalysisHandler) Pairs(c echo.Context) error {
	return c.JSON(http.StatusOK, service.TradingPairs)
}

// Gemini godoc
// @Summary Market analysis
// @Description Technical analysis of an asset from Gemini. Without an API key a demo answer is returned.
// @Tags ai
// @Accept json
// @Produce json
// @Param request body GeminiRequest true "Analysis request"
// @Success 200 {object} AnalysisResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 429 {object} map[string]interface{}
// @Failure 502 {object} errors.ErrorResponse
// @Router /ai/gemini [post]
func (h *AnalysisHandler) Gemini(c echo.Context) error {
	var req GeminiRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	answer, err := h.analysisService.MarketAnalysis(c.Request().Context(), service.MarketAnalysisInput{
		Prompt:     req.Prompt,
		Asset:      req.Asset,
		Pair:       req.Pair,
		Indicators: req.Indicators,
	})
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, AnalysisResponse{Response: answer})
}

// Grok godoc
// @Summary Risk analysis
// @Description Risk-focused answer from Grok about selected text or the current chart.
// @Tags ai
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body GrokRequest true "Analysis request"
// @Success 200 {object} AnalysisResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 502 {object} errors.ErrorResponse
// @Router /ai/grok [post]
func (h *AnalysisHandler) Grok(c echo.Context) error {
	var req GrokRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	answer, err := h.analysisService.RiskAnalysis(c.Request().Context(), service.RiskAnalysisInput{
		Prompt:            req.Prompt,
		SelectedText:      req.SelectedText,
		IncludeScreenshot: req.IncludeScreenshot,
	})
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, AnalysisResponse{Response: answer})
}
