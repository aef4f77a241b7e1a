package services

import (
	"errors"
	"testing"

	"github.com/fenilmodi00/ipo-companion/models"
	"github.com/fenilmodi00/ipo-companion/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestValidator_ReportsEveryViolation(t *testing.T) {
	err := NewRequestValidator().Validate("SessionService", "Login", models.Credentials{})

	var serviceErr *shared.ServiceError
	require.True(t, errors.As(err, &serviceErr))
	assert.Equal(t, shared.ErrorCategoryValidation, serviceErr.Category)
	assert.Equal(t, "Login", serviceErr.Operation)

	violations, ok := serviceErr.Details.([]FieldViolation)
	require.True(t, ok)
	assert.Equal(t, []FieldViolation{
		{Field: "username", Message: "username is required"},
		{Field: "password", Message: "password is required"},
	}, violations)
}

func TestRequestValidator_Accepts(t *testing.T) {
	err := NewRequestValidator().Validate("SessionService", "Login", models.Credentials{Username: "asha", Password: "pw"})
	assert.NoError(t, err)
}

func TestRequestValidator_MaxLength(t *testing.T) {
	long := make([]byte, 101)
	for i := range long {
		long[i] = 'a'
	}

	err := NewRequestValidator().Validate("SessionService", "Login", models.Credentials{Username: string(long), Password: "pw"})
	var serviceErr *shared.ServiceError
	require.True(t, errors.As(err, &serviceErr))
	assert.Equal(t, "username must be at most 100 characters", serviceErr.Message)
}
