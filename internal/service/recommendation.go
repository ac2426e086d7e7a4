package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pageza/medidiet/backend/internal/apperrors"
	"github.com/pageza/medidiet/backend/internal/metrics"
	"github.com/pageza/medidiet/backend/internal/models"
)

const (
	MaxMethodRunes   = 500
	MaxNameRunes     = 255
	TruncationMarker = "..."

	archiveTimeout      = 5 * time.Second
	maxLoggedReplyBytes = 2048
)

// RecommendationConfig holds the fixed sampling parameters.
type RecommendationConfig struct {
	Model       string
	Temperature float64
	MaxTokens   int
	Locale      Locale
	Location    *time.Location
}

// RecommendationService turns a health profile into a persisted recipe.
type RecommendationService struct {
	cfg     RecommendationConfig
	llm     LLMGateway
	store   RecommendationStore
	archive ResponseArchive
	now     func() time.Time
	logger  *zap.Logger
	metrics *metrics.Metrics
}

var _ IRecommendationService = (*RecommendationService)(nil)

type RecommendationOption func(*RecommendationService)

// WithArchive keeps replies that fail validation.
func WithArchive(archive ResponseArchive) RecommendationOption {
	return func(s *RecommendationService) { s.archive = archive }
}

func WithLogger(logger *zap.Logger) RecommendationOption {
	return func(s *RecommendationService) { s.logger = logger }
}

func WithMetrics(m *metrics.Metrics) RecommendationOption {
	return func(s *RecommendationService) { s.metrics = m }
}

func WithClock(now func() time.Time) RecommendationOption {
	return func(s *RecommendationService) { s.now = now }
}

func NewRecommendationService(cfg RecommendationConfig, llm LLMGateway, store RecommendationStore, opts ...RecommendationOption) *RecommendationService {
	if cfg.Locale.Code == "" {
		cfg.Locale = LocaleEN
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	s := &RecommendationService{
		cfg:    cfg,
		llm:    llm,
		store:  store,
		now:    time.Now,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Recommend validates the profile, asks the model for a recipe and persists
// the profile together with the recipe. Nothing is written unless the reply
// validates.
func (s *RecommendationService) Recommend(ctx context.Context, profile *models.HealthProfile) (*models.MedicinalDiet, error) {
	if err := ValidateProfile(profile); err != nil {
		s.metrics.IncRecommendation("invalid_input")
		return nil, err
	}

	info := NormalizeHealthInfo(profile, s.cfg.Locale)
	req := ChatRequest{
		Model:       s.cfg.Model,
		Messages:    BuildMessages(info, s.cfg.Locale),
		Temperature: s.cfg.Temperature,
		MaxTokens:   s.cfg.MaxTokens,
	}

	raw, err := s.llm.Complete(ctx, req)
	if err != nil {
		s.metrics.IncRecommendation("gateway_error")
		return nil, fmt.Errorf("failed to generate recipe: %w", err)
	}

	recipe, err := ParseRecipe(raw)
	if err != nil {
		s.metrics.IncRecommendation("invalid_response")
		redacted := s.redact(raw)
		s.logger.Warn("llm reply failed validation",
			zap.Int64("user_id", profile.UserID),
			zap.Int("reply_length", len(raw)),
			zap.String("reply", truncateBytes(redacted, maxLoggedReplyBytes)),
			zap.Error(err),
		)
		s.archiveReply(ctx, redacted)
		return nil, fmt.Errorf("failed to parse recipe: %w", err)
	}

	now := s.now().In(s.cfg.Location)
	if profile.CreatedTime.IsZero() {
		profile.CreatedTime = now
	}
	diet := ToMedicinalDiet(recipe, s.cfg.Locale, now)

	if err := s.store.SaveRecommendation(ctx, profile, diet); err != nil {
		s.metrics.IncRecommendation("storage_error")
		return nil, apperrors.NewDatabaseError("save recommendation", err)
	}

	s.metrics.IncRecommendation("success")
	s.logger.Info("recommendation saved",
		zap.Int64("user_id", profile.UserID),
		zap.Int64("profile_id", profile.ProfileID),
		zap.Int64("recipe_id", diet.ID),
	)
	return diet, nil
}

// ToMedicinalDiet maps a validated recipe onto its persisted form.
func ToMedicinalDiet(recipe *GeneratedRecipe, loc Locale, now time.Time) *models.MedicinalDiet {
	return &models.MedicinalDiet{
		Name:        capRunes(strings.TrimSpace(recipe.Name), MaxNameRunes),
		Intro:       loc.Intro,
		Ingredients: strings.Join(recipe.Ingredients, loc.ListDelimiter),
		Method:      JoinSteps(recipe.Steps),
		Effect:      recipe.Reason,
		Type:        models.MedicinalDietTypeGenerated,
		CreateTime:  now,
		IsValid:     models.DietValid,
	}
}

// JoinSteps joins steps with newlines. Results longer than MaxMethodRunes are
// cut to that length and end with TruncationMarker.
func JoinSteps(steps []string) string {
	method := strings.Join(steps, "\n")
	runes := []rune(method)
	if len(runes) <= MaxMethodRunes {
		return method
	}
	return string(runes[:MaxMethodRunes]) + TruncationMarker
}

// capRunes keeps at most n runes of s.
func capRunes(s string, n int) string {
	if runes := []rune(s); len(runes) > n {
		return string(runes[:n])
	}
	return s
}

type redactor interface {
	Redact(string) string
}

func (s *RecommendationService) redact(raw string) string {
	if r, ok := s.llm.(redactor); ok {
		return r.Redact(raw)
	}
	return raw
}

// archiveReply stores an already redacted reply. Failures are logged only.
func (s *RecommendationService) archiveReply(ctx context.Context, raw string) {
	if s.archive == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), archiveTimeout)
	defer cancel()

	key := fmt.Sprintf("%s/%s.txt", s.now().UTC().Format("2006/01/02"), uuid.NewString())
	if err := s.archive.Archive(ctx, key, []byte(raw)); err != nil {
		s.logger.Warn("failed to archive llm reply", zap.String("key", key), zap.Error(err))
		return
	}
	s.logger.Info("archived invalid llm reply", zap.String("key", key))
}

// IsRateLimited reports whether err came from a 429 at the provider.
func IsRateLimited(err error) bool {
	var gwErr *GatewayError
	return errors.As(err, &gwErr) && gwErr.IsRateLimited()
}
