package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/megumiii12/athlete/internal/middleware"
	"github.com/megumiii12/athlete/internal/service"
)

type registerRequest struct {
	Username string  `json:"username" binding:"required"`
	Email    string  `json:"email" binding:"required,email"`
	Password string  `json:"password" binding:"required,min=8"`
	Gender   *string `json:"gender"`
	Age      *int    `json:"age" binding:"omitempty,gte=0"`
}

func (h HandlerSet) RegisterUser(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_body"})
		return
	}

	user, err := h.auth.Register(c.Request.Context(), service.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Gender:   req.Gender,
		Age:      req.Age,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailTaken):
			c.JSON(http.StatusBadRequest, gin.H{"error": "email_taken"})
		case errors.Is(err, service.ErrMissingFields):
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_body"})
		default:
			h.log.Error().Err(err).Msg("register failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "user": user})
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h HandlerSet) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_body"})
		return
	}

	user, token, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid_credentials"})
			return
		}
		h.log.Error().Err(err).Msg("login failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
		return
	}

	h.setSessionCookie(c, token, int(h.cfg.Security.SessionTTL.Seconds()))

	c.JSON(http.StatusOK, gin.H{"success": true, "token": token, "user": user})
}

// Logout only clears the client's cookie. The server keeps no revoked
// state; the row ages out at its fixed expiry.
func (h HandlerSet) Logout(c *gin.Context) {
	h.setSessionCookie(c, "", -1)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

type resetPasswordRequest struct {
	Email       string `json:"email" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8"`
}

func (h HandlerSet) ResetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_body"})
		return
	}

	ok, err := h.auth.ResetPassword(c.Request.Context(), req.Email, req.NewPassword)
	if err != nil {
		if errors.Is(err, service.ErrMissingFields) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_body"})
			return
		}
		h.log.Error().Err(err).Msg("password reset failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": ok})
}

// Verify re-reads the profile rather than echoing the session's copy,
// so a client polling it sees account edits without re-logging in.
func (h HandlerSet) Verify(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing_token"})
		return
	}

	profile, err := h.auth.Profile(c.Request.Context(), user.ID)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid_token"})
			return
		}
		h.log.Error().Err(err).Int("user_id", user.ID).Msg("profile lookup failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "user": profile})
}

func (h HandlerSet) setSessionCookie(c *gin.Context, token string, maxAge int) {
	secure := h.cfg.Environment == "production"
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cfg.Security.SessionCookie, token, maxAge, "/", "", secure, true)
}
