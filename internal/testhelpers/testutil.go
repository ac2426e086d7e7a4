package testhelpers

import (
	"context"
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/pageza/medidiet/backend/internal/models"
)

// CreateTestUser inserts an account with a bcrypt-hashed password.
// MinCost keeps the suite fast.
func CreateTestUser(t *testing.T, db *gorm.DB, nickname, password string, status int) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	user := &models.User{
		Nickname: nickname,
		Password: string(hash),
		Status:   status,
	}
	if err := db.WithContext(context.Background()).Create(user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	return user
}

// RandomProfile returns a profile with valid field ranges and random content.
func RandomProfile(faker *gofakeit.Faker) *models.HealthProfile {
	symptoms := make([]string, faker.Number(0, 3))
	for i := range symptoms {
		symptoms[i] = faker.Word()
	}
	diseases := make([]string, faker.Number(0, 2))
	for i := range diseases {
		diseases[i] = faker.Word()
	}

	return &models.HealthProfile{
		UserID:        int64(faker.Number(1, 10000)),
		Age:           faker.Number(0, 150),
		Gender:        faker.Number(0, 1),
		BloodPressure: faker.Number(-1, 1),
		BloodSugar:    faker.Number(-1, 1),
		Symptoms:      models.NewTagList(symptoms...),
		Diseases:      models.NewTagList(diseases...),
	}
}

// SampleProfile is the profile used by end-to-end scenarios.
func SampleProfile() *models.HealthProfile {
	return &models.HealthProfile{
		UserID:        1,
		Age:           45,
		Gender:        models.GenderMale,
		BloodPressure: models.VitalHigh,
		BloodSugar:    models.VitalNormal,
		Symptoms:      models.NewTagList("insomnia"),
		Diseases:      models.NewTagList(),
	}
}
