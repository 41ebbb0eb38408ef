package service

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/formforge/backend/internal/entity"
	"github.com/formforge/backend/internal/modules/user/dto"
	repository "github.com/formforge/backend/internal/modules/user/repository"
	"github.com/formforge/backend/pkg/apperror"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthService interface {
	Register(ctx context.Context, input dto.RegisterInput) (*dto.AuthResponse, error)
	Login(ctx context.Context, input dto.LoginInput) (*dto.AuthResponse, error)
	ChangePassword(ctx context.Context, userID uuid.UUID, input dto.ChangePasswordInput) error
}

type authService struct {
	repo     repository.UserRepository
	secret   string
	tokenTTL time.Duration
}

func NewAuthService(repo repository.UserRepository, secret string, tokenTTL time.Duration) AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 7 * 24 * time.Hour
	}
	return &authService{
		repo:     repo,
		secret:   secret,
		tokenTTL: tokenTTL,
	}
}

func (s *authService) Register(ctx context.Context, input dto.RegisterInput) (*dto.AuthResponse, error) {
	// Uniqueness is checked before insert so the caller gets a clean 400
	// instead of a surfaced constraint violation.
	exists, err := s.repo.ExistsByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperror.New(http.StatusBadRequest, "user with this email already exists", apperror.ErrInvalidInput)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &entity.User{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: string(hash),
		IsActive:     true,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	return s.buildAuthResponse(user)
}

func (s *authService) Login(ctx context.Context, input dto.LoginInput) (*dto.AuthResponse, error) {
	user, err := s.repo.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, invalidCredentials()
		}
		return nil, err
	}

	if !user.IsActive {
		return nil, apperror.New(http.StatusUnauthorized, "account is deactivated", apperror.ErrUnauthorized)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, invalidCredentials()
	}

	if err := s.repo.TouchLastLogin(ctx, user.ID); err != nil {
		return nil, err
	}
	now := time.Now()
	user.LastLogin = &now

	return s.buildAuthResponse(user)
}

// ChangePassword verifies the current password before rehashing. A wrong
// current password is a 401, not the masked credentials error: the caller is
// already authenticated.
func (s *authService) ChangePassword(ctx context.Context, userID uuid.UUID, input dto.ChangePasswordInput) error {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.ErrNotFound
		}
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.CurrentPassword)); err != nil {
		return apperror.New(http.StatusUnauthorized, "current password is incorrect", apperror.ErrUnauthorized)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.PasswordHash = string(hash)

	return s.repo.Update(ctx, user)
}

func (s *authService) buildAuthResponse(user *entity.User) (*dto.AuthResponse, error) {
	expiresAt := time.Now().Add(s.tokenTTL)
	claims := jwt.RegisteredClaims{
		Subject:   user.ID.String(),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.secret))
	if err != nil {
		return nil, err
	}

	return &dto.AuthResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int64(time.Until(expiresAt).Seconds()),
		User:        dto.NewUserProfile(user),
	}, nil
}

func invalidCredentials() error {
	return apperror.New(http.StatusUnauthorized, "invalid email or password", apperror.ErrUnauthorized)
}
