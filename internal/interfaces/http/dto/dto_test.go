package dto

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/amazonstore/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		code     string
		expected int
	}{
		{ErrCodeInternal, http.StatusInternalServerError},
		{ErrCodeValidation, http.StatusBadRequest},
		{ErrCodeNotFound, http.StatusNotFound},
		{ErrCodeAlreadyExists, http.StatusConflict},
		{ErrCodeInvalidJSON, http.StatusBadRequest},
		{ErrCodeUnavailable, http.StatusServiceUnavailable},
		{"UNKNOWN_CODE", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetHTTPStatus(tt.code))
		})
	}
}

func TestNormalizeErrorCode(t *testing.T) {
	assert.Equal(t, ErrCodeNotFound, NormalizeErrorCode("NOT_FOUND"))
	assert.Equal(t, ErrCodeAlreadyExists, NormalizeErrorCode("ALREADY_EXISTS"))
	assert.Equal(t, ErrCodeValidation, NormalizeErrorCode("INVALID_BRAND"))
	assert.Equal(t, ErrCodeInvalidInput, NormalizeErrorCode("INVALID_INPUT"))
	assert.Equal(t, ErrCodeConflict, NormalizeErrorCode(ErrCodeConflict))
}

func TestNewPaginatedResponse(t *testing.T) {
	page := shared.NewPaginated([]string{"a", "b"}, 42, 3, 20)
	resp := NewPaginatedResponse(page)

	assert.True(t, resp.Success)
	assert.Equal(t, []string{"a", "b"}, resp.Data)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, int64(42), resp.Meta.Total)
	assert.Equal(t, 3, resp.Meta.Page)
	assert.Equal(t, 3, resp.Meta.TotalPages)
}

func TestErrorResponses_JSON(t *testing.T) {
	raw, err := json.Marshal(NewValidationErrorResponse("Request validation failed", "req-1",
		[]ValidationDetail{{Field: "name", Message: "This field is required"}}))
	require.NoError(t, err)

	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, false, body["success"])
	errInfo := body["error"].(map[string]any)
	assert.Equal(t, ErrCodeValidation, errInfo["code"])
	assert.Equal(t, "req-1", errInfo["request_id"])
	assert.Len(t, errInfo["details"], 1)
	assert.NotContains(t, body, "data")
}

func TestListRequest_ToFilter(t *testing.T) {
	f := ListRequest{}.ToFilter(nil)
	assert.Equal(t, 1, f.Page)
	assert.Equal(t, shared.DefaultPageSize, f.PageSize)

	f = ListRequest{Page: "4", PageSize: 50, Search: "echo"}.ToFilter(map[string]string{"brand": "Amazon"})
	assert.Equal(t, 4, f.Page)
	assert.Equal(t, 50, f.PageSize)
	assert.Equal(t, "echo", f.Search)
	assert.Equal(t, "Amazon", f.Filters["brand"])

	f = ListRequest{Page: "last"}.ToFilter(nil)
	assert.Equal(t, 1, f.Page)

	f = ListRequest{Page: "999"}.ToFilter(nil)
	assert.Equal(t, 999, f.Page)

	f = ListRequest{Sort: "total_amount", Order: "desc"}.ToFilter(nil)
	assert.Equal(t, "total_amount", f.OrderBy)
	assert.Equal(t, "desc", f.OrderDir)
}
