package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCreateUserRequest_BlankFullName(t *testing.T) {
	req := CreateUserRequest{Email: "agent@homes.example", Password: "Secret123", FullName: "    ", Role: RoleAgent}
	err := req.Validate()
	assert.ErrorContains(t, err, "full name is required")

	req.FullName = " Jo Agent "
	assert.NoError(t, req.Validate())
}

func TestUpdateProfileRequest_BlankFullName(t *testing.T) {
	blank := "   "
	assert.Error(t, UpdateProfileRequest{FullName: &blank}.Validate())

	name := " Jo "
	assert.NoError(t, UpdateProfileRequest{FullName: &name}.Validate())
	assert.Equal(t, " Jo ", name)
}
