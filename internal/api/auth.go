package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/medidiet/backend/internal/apperrors"
	"github.com/pageza/medidiet/backend/internal/middleware"
	"github.com/pageza/medidiet/backend/internal/service"
	"github.com/pageza/medidiet/backend/internal/types"
)

type AuthHandler struct {
	authService service.IAuthService
}

func NewAuthHandler(authService service.IAuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) RegisterRoutes(router *gin.RouterGroup) {
	user := router.Group("/user")
	{
		user.POST("/login", h.Login)
		user.POST("/logout", middleware.AuthMiddleware(h.authService), h.Logout)
	}
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req types.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.NewValidationError("nickname", "nickname and password are required"))
		return
	}

	result, err := h.authService.Login(c.Request.Context(), req.Nickname, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, types.LoginResponse{
		Token:     result.Token,
		UserID:    result.UserID,
		Nickname:  result.Nickname,
		ExpiresAt: result.ExpiresAt,
	})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	claims, ok := middleware.ClaimsFromContext(c)
	if !ok {
		respondError(c, apperrors.NewUnauthorizedError(""))
		return
	}

	if err := h.authService.Logout(c.Request.Context(), claims); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
