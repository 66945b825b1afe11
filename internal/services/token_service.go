package services

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/h4ks-com/palay/internal/models"
	"github.com/h4ks-com/palay/internal/repository"
)

var (
	ErrInvalidToken  = errors.New("invalid token")
	ErrExpiredToken  = errors.New("token expired")
	ErrTokenNotFound = newError(KindNotFound, "token not found")
)

type TokenClaims struct {
	Username string      `json:"username"`
	UserID   uint        `json:"uid"`
	Role     models.Role `json:"role"`
	jwt.RegisteredClaims
}

type TokenService struct {
	tokenRepo *repository.TokenRepository
	userRepo  *repository.UserRepository
	jwtSecret string
}

func NewTokenService(tokenRepo *repository.TokenRepository, userRepo *repository.UserRepository, jwtSecret string) *TokenService {
	return &TokenService{
		tokenRepo: tokenRepo,
		userRepo:  userRepo,
		jwtSecret: jwtSecret,
	}
}

const maxTokenLifetime = 365 * 24 * time.Hour

func (s *TokenService) GenerateToken(username, name string, expiresIn time.Duration) (string, *models.APIToken, error) {
	if expiresIn <= 0 || expiresIn > maxTokenLifetime {
		return "", nil, ErrTokenLifetime
	}

	user, err := s.userRepo.FindByUsername(username)
	if err != nil {
		return "", nil, err
	}
	if user == nil {
		return "", nil, ErrUserNotFound
	}

	expiresAt := time.Now().Add(expiresIn)
	claims := TokenClaims{
		Username: user.Username,
		UserID:   user.ID,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "palay",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", nil, err
	}

	apiToken := &models.APIToken{
		UserID:    user.ID,
		Name:      name,
		Token:     tokenString,
		ExpiresAt: expiresAt,
	}

	if err := s.tokenRepo.Create(apiToken); err != nil {
		return "", nil, err
	}

	return tokenString, apiToken, nil
}

// ValidateToken checks the signature and that the token has not been
// revoked. The user is reloaded so role changes apply immediately.
func (s *TokenService) ValidateToken(tokenString string) (*models.User, error) {
	token, err := jwt.ParseWithClaims(tokenString, &TokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(s.jwtSecret), nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	if _, ok := token.Claims.(*TokenClaims); !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	dbToken, err := s.tokenRepo.FindByToken(tokenString)
	if err != nil {
		return nil, err
	}
	if dbToken == nil {
		return nil, ErrInvalidToken
	}

	if err := s.tokenRepo.Touch(dbToken.ID, time.Now()); err != nil {
		return nil, err
	}

	return &dbToken.User, nil
}

func (s *TokenService) ListUserTokens(userID uint) ([]models.APIToken, error) {
	return s.tokenRepo.FindByUserID(userID)
}

func (s *TokenService) DeleteToken(tokenID, userID uint) error {
	affected, err := s.tokenRepo.Delete(tokenID, userID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrTokenNotFound
	}
	return nil
}

func (s *TokenService) PurgeExpired() (int64, error) {
	return s.tokenRepo.DeleteExpired()
}
