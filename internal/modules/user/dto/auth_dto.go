package dto

import (
	"io"
	"time"

	"github.com/formforge/backend/internal/entity"
)

type RegisterInput struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type ChangePasswordInput struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=6"`
}

type AuthResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	ExpiresIn   int64        `json:"expires_in"`
	User        *UserProfile `json:"user"`
}

// UserProfile is the public projection of a user; the password hash never
// leaves the service layer.
type UserProfile struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	AvatarURL *string    `json:"avatar_url,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	LastLogin *time.Time `json:"last_login,omitempty"`
}

func NewUserProfile(u *entity.User) *UserProfile {
	return &UserProfile{
		ID:        u.ID.String(),
		Name:      u.Name,
		Email:     u.Email,
		AvatarURL: u.AvatarURL,
		CreatedAt: u.CreatedAt,
		LastLogin: u.LastLogin,
	}
}

type UpdateProfileInput struct {
	Name   *string
	Avatar *AvatarFile
}

// AvatarFile carries an uploaded avatar image.
type AvatarFile struct {
	Reader   io.Reader
	FileName string
}
