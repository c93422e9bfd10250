package dto

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		name     string
		code     string
		expected int
	}{
		{"not found", ErrCodeNotFound, http.StatusNotFound},
		{"already exists", ErrCodeAlreadyExists, http.StatusConflict},
		{"invalid input", ErrCodeInvalidInput, http.StatusBadRequest},
		{"unknown path", ErrCodeUnknownPath, http.StatusBadRequest},
		{"invalid value", ErrCodeInvalidValue, http.StatusBadRequest},
		{"invalid state", ErrCodeInvalidState, http.StatusUnprocessableEntity},
		{"invalid document", ErrCodeInvalidDocument, http.StatusUnprocessableEntity},
		{"render failed", ErrCodeRenderFailed, http.StatusBadGateway},
		{"render timeout", ErrCodeRenderTimeout, http.StatusGatewayTimeout},
		{"storage unavailable", ErrCodeStorageUnavailable, http.StatusServiceUnavailable},
		{"storage quota", ErrCodeStorageQuota, http.StatusInsufficientStorage},
		{"rate limited", ErrCodeRateLimited, http.StatusTooManyRequests},
		{"unknown code falls back to 500", "ERR_SOMETHING_NEW", http.StatusInternalServerError},
		{"empty code falls back to 500", "", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetHTTPStatus(tt.code))
		})
	}
}

func TestNormalizeErrorCode(t *testing.T) {
	tests := []struct {
		name     string
		code     string
		expected string
	}{
		{"not found", "NOT_FOUND", ErrCodeNotFound},
		{"unknown path", "UNKNOWN_PATH", ErrCodeUnknownPath},
		{"invalid value", "INVALID_VALUE", ErrCodeInvalidValue},
		{"invalid document", "INVALID_DOCUMENT", ErrCodeInvalidDocument},
		{"render timeout", "RENDER_TIMEOUT", ErrCodeRenderTimeout},
		{"storage quota", "STORAGE_QUOTA_EXCEEDED", ErrCodeStorageQuota},
		{"field validation maps to invalid input", "INVALID_CURRENCY", ErrCodeInvalidInput},
		{"line item validation maps to invalid input", "INVALID_LINE_ITEM", ErrCodeInvalidInput},
		{"already normalized passes through", ErrCodeConflict, ErrCodeConflict},
		{"unknown code passes through", "SOMETHING_ODD", "SOMETHING_ODD"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeErrorCode(tt.code))
		})
	}
}

func TestNormalizedCodesResolveToMappedStatus(t *testing.T) {
	// Every domain code in the mapping must land on a known HTTP status,
	// never the 500 fallback.
	for domainCode, httpCode := range DomainErrorCodeMapping {
		_, ok := ErrorCodeHTTPStatus[httpCode]
		assert.True(t, ok, "domain code %s maps to unmapped HTTP code %s", domainCode, httpCode)
	}
}

func TestNewErrorResponseWithRequestID(t *testing.T) {
	requestID := "req-12345"
	resp := NewErrorResponseWithRequestID(ErrCodeNotFound, "Resource not found", requestID)

	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeNotFound, resp.Error.Code)
	assert.Equal(t, "Resource not found", resp.Error.Message)
	assert.Equal(t, requestID, resp.Error.RequestID)
}

func TestNewValidationErrorResponse(t *testing.T) {
	requestID := "req-67890"
	details := []ValidationDetail{
		{Field: "name", Message: "Name is required"},
		{Field: "currency", Message: "Currency must be a 3-letter code"},
	}
	resp := NewValidationErrorResponse("Request validation failed", requestID, details)

	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeValidation, resp.Error.Code)
	assert.Equal(t, requestID, resp.Error.RequestID)
	assert.Len(t, resp.Error.Details, 2)
	assert.Equal(t, "currency", resp.Error.Details[1].Field)
}

func TestErrorResponseJSONShape(t *testing.T) {
	resp := NewErrorResponseWithRequestID(ErrCodeNotFound, "Document not found", "req-test-123")

	raw, err := json.Marshal(resp)
	require.NoError(t, err)

	var decoded Response
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.False(t, decoded.Success)
	require.NotNil(t, decoded.Error)
	assert.Equal(t, ErrCodeNotFound, decoded.Error.Code)
	assert.Equal(t, "req-test-123", decoded.Error.RequestID)
	assert.Empty(t, decoded.Error.Details)
}
