package dtos

import (
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nconnect/society-backend/internal/models"
)

func failedTags(t *testing.T, err error) map[string]string {
	t.Helper()
	out := map[string]string{}
	if err == nil {
		return out
	}
	var verrs validator.ValidationErrors
	require.True(t, errors.As(err, &verrs), "unexpected error type %T", err)
	for _, fe := range verrs {
		out[fe.Field()] = fe.Tag()
	}
	return out
}

func TestNormalizeVehicleNumber(t *testing.T) {
	assert.Equal(t, "MH12AB1234", NormalizeVehicleNumber("mh 12-ab 1234"))
	assert.Equal(t, "KA01A0001", NormalizeVehicleNumber("KA01A0001"))
}

func TestVehicleNumberTag(t *testing.T) {
	v := NewValidator()

	req := CreateVehicleRequest{VehicleNumber: "mh 12 ab 1234", VehicleType: "car"}
	req.Normalize()
	assert.NoError(t, v.Struct(req))

	for _, bad := range []string{"MH1AB1234", "M12AB1234", "MH12ABC1234", "MH12AB123"} {
		req := CreateVehicleRequest{VehicleNumber: bad, VehicleType: "car"}
		assert.Equal(t, "vehicle_number", failedTags(t, v.Struct(req))["VehicleNumber"], bad)
	}
}

func TestSocietyPasswordTag(t *testing.T) {
	v := NewValidator()

	ok := ResetPasswordRequest{NewPassword: "Str0ng!Pass"}
	assert.NoError(t, v.Struct(ok))

	for _, bad := range []string{"short1!", "alllowercase1!", "ALLUPPER1!", "NoDigits!!", "NoSpecial12"} {
		req := ResetPasswordRequest{NewPassword: bad}
		assert.Equal(t, "society_password", failedTags(t, v.Struct(req))["NewPassword"], bad)
	}
}

func TestPhone10Tag(t *testing.T) {
	v := NewValidator()
	good := "9876543210"
	bad := "+91 98765"

	assert.NoError(t, v.Struct(UpdateProfileRequest{PhoneNumber: &good}))
	assert.Equal(t, "phone10", failedTags(t, v.Struct(UpdateProfileRequest{PhoneNumber: &bad}))["PhoneNumber"])
}

func TestProfilePasswordChangeNeedsCurrentPassword(t *testing.T) {
	v := NewValidator()
	pw := "Str0ng!Pass"
	assert.Equal(t, "required_with", failedTags(t, v.Struct(UpdateProfileRequest{NewPassword: &pw}))["CurrentPassword"])
}

func TestAssignUnitRequestRole(t *testing.T) {
	v := NewValidator()
	unit := uuid.New()

	assert.NoError(t, v.Struct(AssignUnitRequest{UnitID: unit, Role: "tenant"}))
	assert.Equal(t, "oneof", failedTags(t, v.Struct(AssignUnitRequest{UnitID: unit, Role: "landlord"}))["Role"])
	assert.Equal(t, "required", failedTags(t, v.Struct(AssignUnitRequest{Role: "owner"}))["UnitID"])
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate(nil)
	require.NoError(t, err)
	assert.Nil(t, d)

	s := "2024-02-29"
	d, err = ParseDate(&s)
	require.NoError(t, err)
	assert.Equal(t, 29, d.Day())

	bad := "29/02/2024"
	_, err = ParseDate(&bad)
	assert.Error(t, err)
}

func TestNewVoteSummary(t *testing.T) {
	alice, bob := uuid.New(), uuid.New()
	var votes models.Votes
	votes.ToggleUpvote(alice)
	votes.ToggleDownvote(bob)
	votes.ToggleUpvote(bob)

	s := NewVoteSummary(&votes, bob)
	assert.Equal(t, 2, s.Upvotes)
	assert.Equal(t, 0, s.Downvotes)
	assert.Equal(t, 2, s.Score)
	assert.Equal(t, "up", s.UserVote)

	assert.Empty(t, NewVoteSummary(&votes, uuid.New()).UserVote)
}
