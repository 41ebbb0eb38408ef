package http

import (
	"net/http"

	"github.com/formforge/backend/internal/modules/user/dto"
	"github.com/formforge/backend/internal/modules/user/service"
	"github.com/formforge/backend/pkg/response"
	"github.com/formforge/backend/pkg/validator"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService    service.AuthService
	profileService service.ProfileService
}

func NewAuthHandler(authService service.AuthService, profileService service.ProfileService) *AuthHandler {
	return &AuthHandler{
		authService:    authService,
		profileService: profileService,
	}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var input dto.RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	resp, err := h.authService.Register(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	setAuthCookie(c, resp)
	c.JSON(http.StatusCreated, resp)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var input dto.LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	resp, err := h.authService.Login(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	setAuthCookie(c, resp)
	c.JSON(http.StatusOK, resp)
}

// Logout clears the token cookie. The bearer token itself stays valid until
// it expires; there is no server-side revocation list.
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie("token", "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

func (h *AuthHandler) ChangePassword(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var input dto.ChangePasswordInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	if err := h.authService.ChangePassword(c.Request.Context(), userID, input); err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password changed successfully"})
}

func (h *AuthHandler) Me(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	profile, err := h.profileService.Me(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var input dto.UpdateProfileInput
	if name := c.PostForm("name"); name != "" {
		input.Name = &name
	}

	if fileHeader, err := c.FormFile("avatar"); err == nil {
		file, err := fileHeader.Open()
		if err != nil {
			response.Error(c, err)
			return
		}
		defer file.Close()
		input.Avatar = &dto.AvatarFile{Reader: file, FileName: fileHeader.Filename}
	}

	profile, err := h.profileService.UpdateProfile(c.Request.Context(), userID, input)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// setAuthCookie mirrors the SPA's expectation of an httpOnly token cookie in
// addition to the JSON access token.
func setAuthCookie(c *gin.Context, resp *dto.AuthResponse) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie("token", resp.AccessToken, int(resp.ExpiresIn), "/", "", false, true)
}
