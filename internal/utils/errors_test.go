package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jackc/pgconn"
	"github.com/stretchr/testify/require"
)

func TestHandleAppError_WritesStatusAndCode(t *testing.T) {
	rec := httptest.NewRecorder()
	HandleAppError(rec, NotFound("Unit not found"))

	require.Equal(t, http.StatusNotFound, rec.Code)
	var body ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	require.Equal(t, ErrCodeNotFound, body.Code)
	require.Equal(t, "Unit not found", body.Message)
}

func TestHandleAppError_HidesUnexpectedErrors(t *testing.T) {
	rec := httptest.NewRecorder()
	HandleAppError(rec, errors.New("connection reset by peer"))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	var body ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	require.Equal(t, ErrCodeInternal, body.Code)
	require.NotContains(t, body.Message, "connection reset")
}

func TestPersistenceError_UniqueViolation(t *testing.T) {
	err := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})
	appErr := PersistenceError("Failed to create vehicle", err)
	require.Equal(t, http.StatusConflict, appErr.StatusCode)
	require.Equal(t, ErrCodeConflict, appErr.Code)

	appErr = PersistenceError("Failed to create vehicle", errors.New("boom"))
	require.Equal(t, http.StatusInternalServerError, appErr.StatusCode)
}

func TestRespondWithJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondWithJSON(rec, http.StatusCreated, map[string]string{"status": "OK"})

	require.Equal(t, http.StatusCreated, rec.Code)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	require.JSONEq(t, `{"status":"OK"}`, rec.Body.String())
}

func TestIsForeignKeyViolation(t *testing.T) {
	require.True(t, IsForeignKeyViolation(fmt.Errorf("delete: %w", &pgconn.PgError{Code: "23503"})))
	require.False(t, IsForeignKeyViolation(&pgconn.PgError{Code: "23505"}))
	require.False(t, IsForeignKeyViolation(errors.New("boom")))
}

func TestNewBWSSecretsClient_RequiresCredentials(t *testing.T) {
	_, err := NewBWSSecretsClient(" ", "org")
	require.ErrorContains(t, err, "access token")
	_, err = NewBWSSecretsClient("0.token", "")
	require.ErrorContains(t, err, "organization id")
}
