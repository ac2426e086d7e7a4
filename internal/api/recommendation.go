package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pageza/medidiet/backend/internal/apperrors"
	"github.com/pageza/medidiet/backend/internal/middleware"
	"github.com/pageza/medidiet/backend/internal/models"
	"github.com/pageza/medidiet/backend/internal/repository"
	"github.com/pageza/medidiet/backend/internal/service"
)

// RecipeReader loads stored recipes.
type RecipeReader interface {
	GetRecipe(ctx context.Context, id int64) (*models.MedicinalDiet, error)
}

type RecommendationHandler struct {
	recommendations service.IRecommendationService
	recipes         RecipeReader
	tokens          middleware.TokenValidator
	requireToken    bool
}

// NewRecommendationHandler protects its routes with tokens when tokens is
// non-nil.
func NewRecommendationHandler(recommendations service.IRecommendationService, recipes RecipeReader, tokens middleware.TokenValidator) *RecommendationHandler {
	return &RecommendationHandler{
		recommendations: recommendations,
		recipes:         recipes,
		tokens:          tokens,
		requireToken:    tokens != nil,
	}
}

func (h *RecommendationHandler) RegisterRoutes(router *gin.RouterGroup) {
	diet := router.Group("/medicinal-diet")
	if h.requireToken {
		diet.Use(middleware.AuthMiddleware(h.tokens))
	}
	{
		diet.POST("/recommend", h.Recommend)
		diet.GET("/:id", h.GetRecipe)
	}
}

// Recommend generates, stores and returns one recipe for the submitted
// health profile.
func (h *RecommendationHandler) Recommend(c *gin.Context) {
	var profile models.HealthProfile
	if err := c.ShouldBindJSON(&profile); err != nil {
		respondError(c, apperrors.NewBadRequestError("Invalid health profile: "+err.Error()))
		return
	}

	// Server-assigned columns.
	profile.ProfileID = 0
	profile.CreatedTime = time.Time{}
	if userID, ok := c.Get(middleware.ContextKeyUserID); ok {
		if id, ok := userID.(int64); ok {
			profile.UserID = id
		}
	}

	diet, err := h.recommendations.Recommend(c.Request.Context(), &profile)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, diet)
}

func (h *RecommendationHandler) GetRecipe(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		respondError(c, apperrors.NewValidationError("id", "id must be a positive integer"))
		return
	}

	diet, err := h.recipes.GetRecipe(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			respondError(c, apperrors.NewNotFoundError("Recipe"))
			return
		}
		respondError(c, apperrors.NewDatabaseError("load recipe", err))
		return
	}

	c.JSON(http.StatusOK, diet)
}
