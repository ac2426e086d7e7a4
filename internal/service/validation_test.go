package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/medidiet/backend/internal/apperrors"
	"github.com/pageza/medidiet/backend/internal/models"
)

func TestValidateProfile(t *testing.T) {
	ok := []models.HealthProfile{
		{Age: 0, BloodPressure: -1, BloodSugar: 1},
		{Age: 150, Gender: 9},
		{Age: 45, Gender: 1, BloodPressure: 1, Symptoms: "not json"},
	}
	for _, p := range ok {
		p := p
		assert.NoError(t, ValidateProfile(&p))
	}

	err := ValidateProfile(&models.HealthProfile{Age: 200})
	appErr, isApp := apperrors.As(err)
	require.True(t, isApp)
	assert.Equal(t, apperrors.CodeValidationFailed, appErr.Code)
	assert.Equal(t, "age", appErr.Metadata["field"])
	assert.Contains(t, appErr.Details, "between 0 and 150")

	err = ValidateProfile(&models.HealthProfile{BloodSugar: 3})
	appErr, _ = apperrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, "bloodSugar", appErr.Metadata["field"])
}
