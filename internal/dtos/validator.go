package dtos

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/nconnect/society-backend/internal/utils"
)

var (
	vehicleNumberRe = regexp.MustCompile(`^[A-Z]{2}[0-9]{2}[A-Z]{1,2}[0-9]{4}$`)
	phone10Re       = regexp.MustCompile(`^[0-9]{10}$`)
)

// NewValidator returns a validator with the society-specific tags
// registered: vehicle_number, society_password and phone10.
func NewValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("vehicle_number", func(fl validator.FieldLevel) bool {
		return vehicleNumberRe.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("society_password", func(fl validator.FieldLevel) bool {
		return len(utils.PasswordPolicyViolations(fl.Field().String(), "")) == 0
	})
	_ = v.RegisterValidation("phone10", func(fl validator.FieldLevel) bool {
		return phone10Re.MatchString(fl.Field().String())
	})
	return v
}

// NormalizeVehicleNumber upper-cases a registration number and strips
// spaces and dashes, e.g. "mh 12-ab 1234" becomes "MH12AB1234".
func NormalizeVehicleNumber(s string) string {
	s = strings.ToUpper(s)
	return strings.Map(func(r rune) rune {
		if r == ' ' || r == '-' {
			return -1
		}
		return r
	}, s)
}
