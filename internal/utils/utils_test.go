package utils

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ATRAX_BACK-END/internal/apperrors"
	"ATRAX_BACK-END/internal/dto"
)

func TestParseDate(t *testing.T) {
	got, dateOnly, err := ParseDate("2024-03-05")
	require.NoError(t, err)
	assert.True(t, dateOnly)
	assert.Equal(t, time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), got)

	got, dateOnly, err = ParseDate("2024-03-05T10:30:00+02:00")
	require.NoError(t, err)
	assert.False(t, dateOnly)
	assert.Equal(t, time.Date(2024, 3, 5, 8, 30, 0, 0, time.UTC), got)

	_, _, err = ParseDate("next tuesday")
	assert.Error(t, err)
}

func TestParseDate_ZonelessIsUTC(t *testing.T) {
	tests := map[string]time.Time{
		"2024-06-01T18:00":        time.Date(2024, 6, 1, 18, 0, 0, 0, time.UTC),
		"2024-06-01T18:00:30":     time.Date(2024, 6, 1, 18, 0, 30, 0, time.UTC),
		"2024-06-01T18:00:30.250": time.Date(2024, 6, 1, 18, 0, 30, 250000000, time.UTC),
	}
	for in, want := range tests {
		t.Run(in, func(t *testing.T) {
			got, dateOnly, err := ParseDate(in)
			require.NoError(t, err)
			assert.False(t, dateOnly)
			assert.Equal(t, want, got)
		})
	}
}

func TestEndOfDay(t *testing.T) {
	got := EndOfDay(time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2024, 12, 31, 23, 59, 59, 999999999, time.UTC), got)
}

func TestFormatTimestamp(t *testing.T) {
	assert.Equal(t, "", FormatTimestamp(time.Time{}))
	assert.Equal(t, "2024-01-02T03:04:05Z", FormatTimestamp(time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)))
}

func TestUserIDContext(t *testing.T) {
	_, ok := GetUserIDFromContext(context.Background())
	assert.False(t, ok)

	id := uuid.New()
	got, ok := GetUserIDFromContext(WithUserID(context.Background(), id))
	assert.True(t, ok)
	assert.Equal(t, id, got)
}

func TestWriteAppError_HidesInternalDetail(t *testing.T) {
	logger, hook := logtest.NewNullLogger()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/events", nil)

	WriteAppError(rec, req, logger, errors.New("pq: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var body dto.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "INTERNAL", body.Code)
	assert.NotContains(t, body.Message, "connection refused")

	require.Len(t, hook.Entries, 1)
	assert.Equal(t, logrus.ErrorLevel, hook.LastEntry().Level)
}

func TestWriteAppError_CodedError(t *testing.T) {
	logger, hook := logtest.NewNullLogger()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/events/x", nil)

	WriteAppError(rec, req, logger, apperrors.NotFound("No event with id x"))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"message":"No event with id x","code":"NOT_FOUND"}`, rec.Body.String())
	assert.Empty(t, hook.Entries)
}

func TestDecodeJSONRequest(t *testing.T) {
	var dst struct {
		N int `json:"n"`
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"n": "x"}`))
	require.Error(t, DecodeJSONRequest(rec, req, &dst))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `VALIDATION_ERROR`)

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"n": 3}`))
	require.NoError(t, DecodeJSONRequest(rec, req, &dst))
	assert.Equal(t, 3, dst.N)
}
