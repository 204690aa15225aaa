package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "cryptovibe/internal/errors"
	"cryptovibe/internal/model"
	"cryptovibe/internal/service"
)

func TestAnalysisHandler_Gemini(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		setupMock  func(*MockAnalysisService)
		wantStatus int
		wantBody   string
	}{
		{
			name: "answer",
			body: `{"prompt":"trend?","asset":"SOLUSDT"}`,
			setupMock: func(m *MockAnalysisService) {
				m.On("MarketAnalysis", mock.Anything, service.MarketAnalysisInput{Prompt: "trend?", Asset: "SOLUSDT"}).
					Return("Bullish above the cloud.", nil)
			},
			wantStatus: http.StatusOK,
			wantBody:   `{"response":"Bullish above the cloud."}`,
		},
		{
			name: "provider down",
			body: `{"prompt":"trend?"}`,
			setupMock: func(m *MockAnalysisService) {
				m.On("MarketAnalysis", mock.Anything, mock.Anything).
					Return("", fmt.Errorf("gemini: %w: provider error: 500", apperrors.ErrProviderUnavailable))
			},
			wantStatus: http.StatusBadGateway,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockAnalysisService)
			tt.setupMock(svc)
			h := NewAnalysisHandler(svc)

			c, rec := newContext(newEcho(), http.MethodPost, "/api/ai/gemini", tt.body, nil)
			err := h.Gemini(c)

			if tt.wantStatus == http.StatusOK {
				require.NoError(t, err)
				assert.JSONEq(t, tt.wantBody, rec.Body.String())
			} else {
				requireHTTPError(t, err, tt.wantStatus, "PROVIDER_UNAVAILABLE")
			}
			svc.AssertExpectations(t)
		})
	}
}

func TestAnalysisHandler_ProviderErrorBody(t *testing.T) {
	svc := new(MockAnalysisService)
	svc.On("RiskAnalysis", mock.Anything, mock.Anything).
		Return("", fmt.Errorf("grok: %w: network error", apperrors.ErrProviderUnavailable))
	h := NewAnalysisHandler(svc)

	e := newEcho()
	c, rec := newContext(e, http.MethodPost, "/api/ai/grok", `{"prompt":"risk?"}`, &model.User{ID: uuid.New()})
	e.HTTPErrorHandler(h.Grok(c), c)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body["error"], "network error")
}

func TestAnalysisHandler_Grok(t *testing.T) {
	svc := new(MockAnalysisService)
	svc.On("RiskAnalysis", mock.Anything, service.RiskAnalysisInput{
		Prompt: "risk?", SelectedText: "SOL breaks out", IncludeScreenshot: true,
	}).Return("Size down.", nil).Once()
	h := NewAnalysisHandler(svc)

	c, rec := newContext(newEcho(), http.MethodPost, "/api/ai/grok",
		`{"prompt":"risk?","selected_text":"SOL breaks out","include_screenshot":true}`, &model.User{ID: uuid.New()})
	require.NoError(t, h.Grok(c))
	assert.JSONEq(t, `{"response":"Size down."}`, rec.Body.String())

	c, _ = newContext(newEcho(), http.MethodPost, "/api/ai/grok", `{"selected_text":"x"}`, nil)
	requireHTTPError(t, h.Grok(c), http.StatusBadRequest, "INVALID_REQUEST")
	svc.AssertExpectations(t)
}

func TestAnalysisHandler_Pairs(t *testing.T) {
	h := NewAnalysisHandler(new(MockAnalysisService))
	c, rec := newContext(newEcho(), http.MethodGet, "/api/market/pairs", "", nil)
	require.NoError(t, h.Pairs(c))

	var pairs []service.TradingPair
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &pairs))
	require.Len(t, pairs, 3)
	assert.Equal(t, "BTCUSDT", pairs[0].Code)
}

func TestNFTHandler_Holder(t *testing.T) {
	owner := "9xQeWvG816bUx9EPjHmaT23yvVM2ZWbrrpZb9PusVFin"
	mint := "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"

	svc := new(MockNFTService)
	svc.On("CheckHolder", mock.Anything, owner, mint).
		Return(&service.HolderStatus{Owner: owner, Mint: mint, Holder: true}, nil).Once()
	svc.On("CheckHolder", mock.Anything, "bad", mint).
		Return(nil, fmt.Errorf("%w: invalid owner address", apperrors.ErrInvalidInput)).Once()
	h := NewNFTHandler(svc)

	c, rec := newContext(newEcho(), http.MethodGet, "/api/nft/holder?owner="+owner+"&mint="+mint, "", nil)
	require.NoError(t, h.Holder(c))
	var got service.HolderStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.True(t, got.Holder)

	c, _ = newContext(newEcho(), http.MethodGet, "/api/nft/holder?owner=bad&mint="+mint, "", nil)
	requireHTTPError(t, h.Holder(c), http.StatusBadRequest, "INVALID_INPUT")

	c, _ = newContext(newEcho(), http.MethodGet, "/api/nft/holder?owner="+owner, "", nil)
	requireHTTPError(t, h.Holder(c), http.StatusBadRequest, "INVALID_REQUEST")

	svc.AssertExpectations(t)
}
