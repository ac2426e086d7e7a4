package service

import (
	"context"
	"time"

	"github.com/pageza/medidiet/backend/internal/models"
	"github.com/pageza/medidiet/backend/internal/types"
)

// LLMGateway is the remote model: messages in, reply text out.
type LLMGateway interface {
	Complete(ctx context.Context, req ChatRequest) (string, error)
}

// RecommendationStore persists a profile and its recipe atomically.
type RecommendationStore interface {
	SaveRecommendation(ctx context.Context, profile *models.HealthProfile, diet *models.MedicinalDiet) error
}

// UserStore looks up login accounts.
type UserStore interface {
	FindByNickname(ctx context.Context, nickname string) (*models.User, error)
}

// ResponseArchive keeps raw model replies that failed validation.
type ResponseArchive interface {
	Archive(ctx context.Context, key string, body []byte) error
}

// TokenStore tracks revoked token ids until they would have expired anyway.
type TokenStore interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// IRecommendationService defines the recommendation flow used by handlers.
type IRecommendationService interface {
	Recommend(ctx context.Context, profile *models.HealthProfile) (*models.MedicinalDiet, error)
}

// IAuthService defines login and token handling used by handlers and middleware.
type IAuthService interface {
	Login(ctx context.Context, nickname, password string) (*LoginResult, error)
	ValidateToken(ctx context.Context, token string) (*types.TokenClaims, error)
	Logout(ctx context.Context, claims *types.TokenClaims) error
}
