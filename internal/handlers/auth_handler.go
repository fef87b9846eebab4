package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"mailauth/internal/models"
	"mailauth/internal/services"
)

type AuthHandler struct {
	accounts services.AccountService
}

func NewAuthHandler(accounts services.AccountService) *AuthHandler {
	return &AuthHandler{accounts: accounts}
}

// @Summary      Sign up
// @Description  Creates an unverified account and emails a verification link
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        signup  body      models.SignupRequest  true  "Signup data"
// @Success      200     {object}  map[string]string
// @Failure      400     {object}  map[string]string
// @Router       /api/auth/signup [post]
func (h *AuthHandler) Signup(c *gin.Context) {
	var req models.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	log.Printf("[auth][signup] attempt username=%q email=%q", req.Username, req.Email)

	if err := h.accounts.Signup(c.Request.Context(), req.Username, req.Email, req.Password); err != nil {
		switch {
		case errors.Is(err, services.ErrEmailUnreachable):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Email domain does not exist or cannot receive emails."})
		case errors.Is(err, services.ErrAccountExists):
			c.JSON(http.StatusBadRequest, gin.H{"error": "User already exists. Please login."})
		default:
			log.Printf("[auth][signup] failed for %q: %v", req.Email, err)
			c.JSON(http.StatusBadRequest, gin.H{"error": "Signup failed. Please try again later."})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Signup successful. Please check your email for verification."})
}

// @Summary      Verify email
// @Description  Confirms email ownership using the token from the verification link
// @Tags         Auth
// @Produce      json
// @Param        token  query     string  true  "Verification token"
// @Success      200    {object}  map[string]string
// @Failure      400    {object}  map[string]string
// @Router       /api/auth/verify-email [get]
func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	token := c.Query("token")
	if err := h.accounts.VerifyEmail(c.Request.Context(), token); err != nil {
		if errors.Is(err, services.ErrInvalidToken) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid token. Email verification failed."})
			return
		}
		log.Printf("[auth][verify] failed: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email verification failed."})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Email verification successful."})
}

// @Summary      Log in
// @Description  Checks username and password; the account must be verified
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        login  body      models.LoginRequest  true  "Login data"
// @Success      200    {object}  map[string]string
// @Failure      400    {object}  map[string]string
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.accounts.Login(c.Request.Context(), req.Username, req.Password); err != nil {
		switch {
		case errors.Is(err, services.ErrAccountNotFound):
			c.JSON(http.StatusBadRequest, gin.H{"error": "User does not exist. Please signup."})
		case errors.Is(err, services.ErrNotVerified):
			c.JSON(http.StatusBadRequest, gin.H{"error": "User is not verified. Please verify."})
		case errors.Is(err, services.ErrWrongPassword):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Password is incorrect. Please try again."})
		default:
			log.Printf("[auth][login] failed for %q: %v", req.Username, err)
			c.JSON(http.StatusBadRequest, gin.H{"error": "Login failed. Please try again later."})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Login successful."})
}

// @Summary      Request password reset
// @Description  Emails a reset link; the response does not reveal whether the address is registered
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        reset  body      models.ResetRequest  true  "Account email"
// @Success      200    {object}  map[string]string
// @Failure      400    {object}  map[string]string
// @Router       /api/auth/reset-password [post]
func (h *AuthHandler) ResetPasswordRequest(c *gin.Context) {
	var req models.ResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.accounts.RequestPasswordReset(c.Request.Context(), req.Email); err != nil {
		log.Printf("[auth][reset-request] failed for %q: %v", req.Email, err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Password reset failed. Please try again later."})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "If the account exists, a reset link has been sent."})
}

// @Summary      Reset password form
// @Description  Validates the token from the reset link and renders the form
// @Tags         Auth
// @Produce      html
// @Param        token  query  string  true  "Reset token"
// @Success      200
// @Failure      400  {object}  map[string]string
// @Router       /api/auth/reset-page [get]
func (h *AuthHandler) ResetPage(c *gin.Context) {
	token := c.Query("token")
	if err := h.accounts.ValidateResetToken(token); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired reset link."})
		return
	}
	renderResetPage(c, token)
}

// @Summary      Confirm password reset
// @Description  Sets a new password using a valid reset token
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        reset  body      models.ResetConfirmRequest  true  "Token and new password"
// @Success      200    {object}  map[string]string
// @Failure      400    {object}  map[string]string
// @Router       /api/auth/reset [post]
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req models.ResetConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.accounts.ResetPassword(c.Request.Context(), req.Token, req.Password); err != nil {
		if errors.Is(err, services.ErrInvalidToken) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid token. Password reset failed."})
			return
		}
		log.Printf("[auth][reset] failed: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Password reset failed. Please try again later."})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password reset successful."})
}
