package usecase

import (
	"context"

	"giftcard-fulfillment/internal/pkg/config"
	"giftcard-fulfillment/internal/pkg/jwt"

	"golang.org/x/crypto/bcrypt"
)

// AuthUseCase guards the admin surface: a single operator account whose
// bcrypt hash lives in configuration.
type AuthUseCase interface {
	Login(ctx context.Context, user, password string) (string, error)
}

type authUseCaseImpl struct {
	cfg config.AdminConfig
	jwt *jwt.Service
}

func NewAuthUseCase(cfg config.AdminConfig, jwtService *jwt.Service) AuthUseCase {
	return &authUseCaseImpl{cfg: cfg, jwt: jwtService}
}

func (a *authUseCaseImpl) Login(_ context.Context, user, password string) (string, error) {
	if user != a.cfg.User {
		return "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(a.cfg.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	return a.jwt.GenerateToken(user)
}
