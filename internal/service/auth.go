package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/pageza/medidiet/backend/config"
	"github.com/pageza/medidiet/backend/internal/apperrors"
	"github.com/pageza/medidiet/backend/internal/metrics"
	"github.com/pageza/medidiet/backend/internal/models"
	"github.com/pageza/medidiet/backend/internal/repository"
	"github.com/pageza/medidiet/backend/internal/types"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenRevoked = errors.New("token has been revoked")
)

// LoginResult is returned by a successful login.
type LoginResult struct {
	Token     string
	UserID    int64
	Nickname  string
	ExpiresAt time.Time
}

type AuthService struct {
	users      UserStore
	tokens     TokenStore
	jwtSecret  []byte
	issuer     string
	expiration time.Duration
	now        func() time.Time
	logger     *zap.Logger
	metrics    *metrics.Metrics
}

var _ IAuthService = (*AuthService)(nil)

func NewAuthService(cfg config.JWTConfig, users UserStore, tokens TokenStore, logger *zap.Logger, m *metrics.Metrics) *AuthService {
	if tokens == nil {
		tokens = NewMemoryTokenStore()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	expiration := cfg.Expiration
	if expiration <= 0 {
		expiration = 24 * time.Hour
	}
	return &AuthService{
		users:      users,
		tokens:     tokens,
		jwtSecret:  []byte(cfg.Secret),
		issuer:     cfg.Issuer,
		expiration: expiration,
		now:        time.Now,
		logger:     logger,
		metrics:    m,
	}
}

// Login checks a nickname/password pair and issues a signed token.
func (s *AuthService) Login(ctx context.Context, nickname, password string) (*LoginResult, error) {
	nickname = strings.TrimSpace(nickname)
	if nickname == "" || password == "" {
		s.metrics.IncLogin("invalid_input")
		return nil, apperrors.NewValidationError("nickname", "nickname and password are required")
	}

	user, err := s.users.FindByNickname(ctx, nickname)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// Spend the same time as a real comparison.
			_ = bcrypt.CompareHashAndPassword(dummyHash(), []byte(password))
			s.metrics.IncLogin("invalid_credentials")
			return nil, apperrors.NewInvalidCredentialsError()
		}
		s.metrics.IncLogin("error")
		return nil, apperrors.NewDatabaseError("find user", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		s.metrics.IncLogin("invalid_credentials")
		return nil, apperrors.NewInvalidCredentialsError()
	}
	if !user.Active() {
		s.metrics.IncLogin("disabled")
		return nil, apperrors.NewAccountDisabledError()
	}

	token, expiresAt, err := s.GenerateToken(user)
	if err != nil {
		s.metrics.IncLogin("error")
		return nil, apperrors.NewInternalError(err)
	}

	s.metrics.IncLogin("success")
	s.logger.Info("user logged in", zap.Int64("user_id", user.UserID))
	return &LoginResult{
		Token:     token,
		UserID:    user.UserID,
		Nickname:  user.Nickname,
		ExpiresAt: expiresAt,
	}, nil
}

// GenerateToken signs an HS256 token carrying user_id and nickname.
func (s *AuthService) GenerateToken(user *models.User) (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(s.expiration)
	claims := &types.TokenClaims{
		UserID:   user.UserID,
		Nickname: user.Nickname,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    s.issuer,
			Subject:   fmt.Sprintf("%d", user.UserID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// ValidateToken verifies signature, expiry, issuer and revocation.
func (s *AuthService) ValidateToken(ctx context.Context, tokenString string) (*types.TokenClaims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	}
	if s.issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.issuer))
	}

	claims := &types.TokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	}, opts...)
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.UserID == 0 || claims.ID == "" {
		return nil, fmt.Errorf("%w: missing claims", ErrInvalidToken)
	}

	revoked, err := s.tokens.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, ErrTokenRevoked
	}
	return claims, nil
}

// Logout revokes the token until its natural expiry.
func (s *AuthService) Logout(ctx context.Context, claims *types.TokenClaims) error {
	if claims == nil || claims.ID == "" {
		return ErrInvalidToken
	}
	ttl := s.expiration
	if claims.ExpiresAt != nil {
		ttl = claims.ExpiresAt.Time.Sub(s.now())
	}
	if err := s.tokens.Revoke(ctx, claims.ID, ttl); err != nil {
		return err
	}
	s.logger.Info("user logged out", zap.Int64("user_id", claims.UserID))
	return nil
}

// HashPassword returns the bcrypt hash stored in t_user.password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

var (
	dummyHashOnce  sync.Once
	dummyHashValue []byte
)

func dummyHash() []byte {
	dummyHashOnce.Do(func() {
		dummyHashValue, _ = bcrypt.GenerateFromPassword([]byte("medidiet-dummy-password"), bcrypt.DefaultCost)
	})
	return dummyHashValue
}
