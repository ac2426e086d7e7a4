package service

import (
	"errors"
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/pageza/medidiet/backend/internal/apperrors"
	"github.com/pageza/medidiet/backend/internal/models"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func profileValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// fieldNames maps struct fields onto their wire names.
var fieldNames = map[string]string{
	"Age":           "age",
	"BloodPressure": "bloodPressure",
	"BloodSugar":    "bloodSugar",
}

// ValidateProfile rejects out-of-range input before any remote call. Unknown
// gender codes are accepted; see NormalizeHealthInfo.
func ValidateProfile(profile *models.HealthProfile) error {
	if profile == nil {
		return apperrors.NewValidationError("profile", "health profile is required")
	}

	err := profileValidator().Struct(profile)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return apperrors.NewValidationError("profile", err.Error())
	}

	first := fieldErrs[0]
	field, ok := fieldNames[first.StructField()]
	if !ok {
		field = first.Field()
	}
	return apperrors.NewValidationError(field, describeFieldError(field, first))
}

func describeFieldError(field string, fe validator.FieldError) string {
	switch fe.Tag() {
	case "gte", "lte":
		return fmt.Sprintf("%s must be between 0 and 150", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of -1, 0, 1", field)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
