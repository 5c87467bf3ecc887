package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/nconnect/society-backend/internal/dtos"
	"github.com/nconnect/society-backend/internal/middleware"
	"github.com/nconnect/society-backend/internal/utils"
)

// requestDecoder is embedded by every controller that accepts a JSON body.
type requestDecoder struct {
	validate *validator.Validate
}

func newRequestDecoder() requestDecoder {
	return requestDecoder{validate: dtos.NewValidator()}
}

// decode reads the JSON body into dst and validates it. On failure the
// error response has already been written and false is returned.
func (d requestDecoder) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	// An empty body decodes to the zero request; validation decides.
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid JSON payload", nil, err)
		return false
	}
	if n, ok := dst.(interface{ Normalize() }); ok {
		n.Normalize()
	}
	if err := d.validate.Struct(dst); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeValidation, "Validation failed", formatValidationErrors(validationErrs))
		} else {
			utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeValidation, "Validation error", nil, err)
		}
		return false
	}
	return true
}

// formatValidationErrors converts validator errors into a user-friendly format.
func formatValidationErrors(errs validator.ValidationErrors) []dtos.ValidationErrorDetail {
	details := make([]dtos.ValidationErrorDetail, 0, len(errs))
	for _, err := range errs {
		var message string
		switch err.Tag() {
		case "required", "required_with":
			message = fmt.Sprintf("Field '%s' is required", err.Field())
		case "email":
			message = fmt.Sprintf("Field '%s' must be a valid email address", err.Field())
		case "min":
			message = fmt.Sprintf("Field '%s' must be at least %s in length", err.Field(), err.Param())
		case "max":
			message = fmt.Sprintf("Field '%s' must not exceed %s in length", err.Field(), err.Param())
		case "oneof":
			message = fmt.Sprintf("Field '%s' must be one of [%s]", err.Field(), err.Param())
		case "vehicle_number":
			message = fmt.Sprintf("Field '%s' must look like MH12AB1234", err.Field())
		case "society_password":
			message = fmt.Sprintf("Field '%s' must be at least 8 characters with upper, lower, digit and special characters", err.Field())
		case "phone10":
			message = fmt.Sprintf("Field '%s' must be a 10-digit phone number", err.Field())
		case "datetime":
			message = fmt.Sprintf("Field '%s' must match the format %s", err.Field(), err.Param())
		default:
			message = fmt.Sprintf("Field validation for '%s' failed on the '%s' tag", err.Field(), err.Tag())
		}
		details = append(details, dtos.ValidationErrorDetail{
			Field:   err.Field(),
			Message: message,
			Code:    "validation_" + err.Tag(),
		})
	}
	return details
}

func getCallerID(r *http.Request) (uuid.UUID, error) {
	ctxUserID := r.Context().Value(middleware.ContextKeyUserID)
	if ctxUserID == nil {
		return uuid.Nil, &utils.AppError{StatusCode: http.StatusUnauthorized, Code: utils.ErrCodeUnauthorized, Message: "Missing userID in context"}
	}
	userID, err := uuid.Parse(ctxUserID.(string))
	if err != nil {
		return uuid.Nil, &utils.AppError{StatusCode: http.StatusUnauthorized, Code: utils.ErrCodeUnauthorized, Message: "Invalid userID format", Err: err}
	}
	return userID, nil
}

// pathID parses the {id} route variable.
func pathID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		return uuid.Nil, &utils.AppError{StatusCode: http.StatusBadRequest, Code: utils.ErrCodeInvalidPayload, Message: "Invalid id in path", Err: err}
	}
	return id, nil
}

// callerAndID is the prologue of every handler that acts on /{id}.
func callerAndID(r *http.Request) (uuid.UUID, uuid.UUID, error) {
	callerID, err := getCallerID(r)
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	id, err := pathID(r)
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	return callerID, id, nil
}

func badQuery(param string, err error) *utils.AppError {
	return &utils.AppError{
		StatusCode: http.StatusBadRequest,
		Code:       utils.ErrCodeValidation,
		Message:    fmt.Sprintf("Invalid query parameter '%s'", param),
		Err:        err,
	}
}

func queryBool(r *http.Request, param string) (*bool, error) {
	raw := r.URL.Query().Get(param)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, badQuery(param, err)
	}
	return &v, nil
}

func queryInt(r *http.Request, param string) (*int, error) {
	raw := r.URL.Query().Get(param)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, badQuery(param, err)
	}
	return &v, nil
}

func queryUUID(r *http.Request, param string) (*uuid.UUID, error) {
	raw := r.URL.Query().Get(param)
	if raw == "" {
		return nil, nil
	}
	v, err := uuid.Parse(raw)
	if err != nil {
		return nil, badQuery(param, err)
	}
	return &v, nil
}
