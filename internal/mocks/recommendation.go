package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/pageza/medidiet/backend/internal/models"
	"github.com/pageza/medidiet/backend/internal/service"
)

// MockLLMGateway is a mock implementation of service.LLMGateway
type MockLLMGateway struct {
	mock.Mock
}

var _ service.LLMGateway = (*MockLLMGateway)(nil)

func (m *MockLLMGateway) Complete(ctx context.Context, req service.ChatRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

// MockRecommendationStore is a mock implementation of service.RecommendationStore
type MockRecommendationStore struct {
	mock.Mock
}

func (m *MockRecommendationStore) SaveRecommendation(ctx context.Context, profile *models.HealthProfile, diet *models.MedicinalDiet) error {
	args := m.Called(ctx, profile, diet)
	return args.Error(0)
}

// MockResponseArchive is a mock implementation of service.ResponseArchive
type MockResponseArchive struct {
	mock.Mock
}

func (m *MockResponseArchive) Archive(ctx context.Context, key string, body []byte) error {
	args := m.Called(ctx, key, body)
	return args.Error(0)
}

// MockRecommendationService is a mock implementation of service.IRecommendationService
type MockRecommendationService struct {
	mock.Mock
}

var _ service.IRecommendationService = (*MockRecommendationService)(nil)

func (m *MockRecommendationService) Recommend(ctx context.Context, profile *models.HealthProfile) (*models.MedicinalDiet, error) {
	args := m.Called(ctx, profile)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MedicinalDiet), args.Error(1)
}
