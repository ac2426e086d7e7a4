package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/pageza/medidiet/backend/internal/models"
)

// RecommendationRepository writes health profiles and recipes. Both tables
// are insert-only.
type RecommendationRepository struct {
	db *gorm.DB
}

func NewRecommendationRepository(db *gorm.DB) *RecommendationRepository {
	return &RecommendationRepository{db: db}
}

// InsertHealthProfile stores profile and populates its ProfileID.
func (r *RecommendationRepository) InsertHealthProfile(ctx context.Context, profile *models.HealthProfile) error {
	if err := r.db.WithContext(ctx).Create(profile).Error; err != nil {
		return fmt.Errorf("failed to insert health profile: %w", err)
	}
	return nil
}

// InsertRecipe stores diet and populates its ID.
func (r *RecommendationRepository) InsertRecipe(ctx context.Context, diet *models.MedicinalDiet) error {
	if err := r.db.WithContext(ctx).Create(diet).Error; err != nil {
		return fmt.Errorf("failed to insert recipe: %w", err)
	}
	return nil
}

// SaveRecommendation inserts the profile and its recipe in one transaction,
// so a failure leaves neither row behind.
func (r *RecommendationRepository) SaveRecommendation(ctx context.Context, profile *models.HealthProfile, diet *models.MedicinalDiet) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := &RecommendationRepository{db: tx}
		if err := txRepo.InsertHealthProfile(ctx, profile); err != nil {
			return err
		}
		return txRepo.InsertRecipe(ctx, diet)
	})
}

// GetRecipe loads one recipe by id.
func (r *RecommendationRepository) GetRecipe(ctx context.Context, id int64) (*models.MedicinalDiet, error) {
	var diet models.MedicinalDiet
	err := r.db.WithContext(ctx).First(&diet, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get recipe: %w", err)
	}
	return &diet, nil
}
