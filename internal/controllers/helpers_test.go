package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nconnect/society-backend/internal/dtos"
	"github.com/nconnect/society-backend/internal/middleware"
	"github.com/nconnect/society-backend/internal/utils"
)

type errorBody struct {
	Code    string                       `json:"code"`
	Message string                       `json:"message"`
	Details []dtos.ValidationErrorDetail `json:"details"`
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var body errorBody
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body
}

func withCaller(r *http.Request, id uuid.UUID) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), middleware.ContextKeyUserID, id.String()))
}

func TestDecode(t *testing.T) {
	d := newRequestDecoder()

	t.Run("normalizes before validating", func(t *testing.T) {
		body := `{"vehicle_number":"mh 12-ab 1234","vehicle_type":"car"}`
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
		rec := httptest.NewRecorder()

		var req dtos.CreateVehicleRequest
		require.True(t, d.decode(rec, r, &req))
		assert.Equal(t, "MH12AB1234", req.VehicleNumber)
	})

	t.Run("validation errors carry details", func(t *testing.T) {
		body := `{"vehicle_number":"ABC","vehicle_type":"boat"}`
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
		rec := httptest.NewRecorder()

		var req dtos.CreateVehicleRequest
		require.False(t, d.decode(rec, r, &req))
		require.Equal(t, http.StatusBadRequest, rec.Code)

		resp := decodeError(t, rec)
		assert.Equal(t, utils.ErrCodeValidation, resp.Code)
		codes := map[string]string{}
		for _, det := range resp.Details {
			codes[det.Field] = det.Code
		}
		assert.Equal(t, "validation_vehicle_number", codes["VehicleNumber"])
		assert.Equal(t, "validation_oneof", codes["VehicleType"])
	})

	t.Run("empty body falls through to validation", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/", http.NoBody)
		rec := httptest.NewRecorder()

		var req dtos.CreateVehicleRequest
		require.False(t, d.decode(rec, r, &req))
		resp := decodeError(t, rec)
		assert.Equal(t, utils.ErrCodeValidation, resp.Code)
		assert.NotEmpty(t, resp.Details)
	})

	t.Run("malformed JSON", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"vehicle_number":`))
		rec := httptest.NewRecorder()

		var req dtos.CreateVehicleRequest
		require.False(t, d.decode(rec, r, &req))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, utils.ErrCodeInvalidPayload, decodeError(t, rec).Code)
	})
}

func TestCallerAndID(t *testing.T) {
	caller := uuid.New()
	id := uuid.New()

	t.Run("missing caller", func(t *testing.T) {
		r := mux.SetURLVars(httptest.NewRequest(http.MethodGet, "/", nil), map[string]string{"id": id.String()})
		_, _, err := callerAndID(r)
		var appErr *utils.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, http.StatusUnauthorized, appErr.StatusCode)
	})

	t.Run("bad path id", func(t *testing.T) {
		r := mux.SetURLVars(httptest.NewRequest(http.MethodGet, "/", nil), map[string]string{"id": "42"})
		_, _, err := callerAndID(withCaller(r, caller))
		var appErr *utils.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, http.StatusBadRequest, appErr.StatusCode)
		assert.Equal(t, utils.ErrCodeInvalidPayload, appErr.Code)
	})

	t.Run("ok", func(t *testing.T) {
		r := mux.SetURLVars(httptest.NewRequest(http.MethodGet, "/", nil), map[string]string{"id": id.String()})
		gotCaller, gotID, err := callerAndID(withCaller(r, caller))
		require.NoError(t, err)
		assert.Equal(t, caller, gotCaller)
		assert.Equal(t, id, gotID)
	})
}

func TestQueryParams(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/?floor=3&occupied=true&unit_id=nope&year=twenty", nil)

	floor, err := queryInt(r, "floor")
	require.NoError(t, err)
	require.NotNil(t, floor)
	assert.Equal(t, 3, *floor)

	occupied, err := queryBool(r, "occupied")
	require.NoError(t, err)
	assert.True(t, *occupied)

	missing, err := queryInt(r, "month")
	require.NoError(t, err)
	assert.Nil(t, missing)

	_, err = queryUUID(r, "unit_id")
	assert.Error(t, err)

	_, err = queryInt(r, "year")
	var appErr *utils.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "Invalid query parameter 'year'", appErr.Message)
}
