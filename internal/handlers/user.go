package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"social-service/internal/apperr"
	"social-service/internal/auth"
	"social-service/internal/repositories"
	"social-service/internal/telemetry"
)

// UserHandler manages account endpoints.
type UserHandler struct {
	users     repositories.UserRepository
	jwtSecret string
	audit     *telemetry.AuditEmitter
}

// NewUserHandler builds a UserHandler.
func NewUserHandler(users repositories.UserRepository, jwtSecret string, audit *telemetry.AuditEmitter) *UserHandler {
	return &UserHandler{users: users, jwtSecret: jwtSecret, audit: audit}
}

// SignUp registers an account and returns an access token.
func (h *UserHandler) SignUp(c *gin.Context) {
	var req struct {
		Name            string `json:"name"`
		Email           string `json:"email"`
		Password        string `json:"password"`
		ConfirmPassword string `json:"confirmPassword"`
		Description     string `json:"description"`
		Avatar          string `json:"avatar"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperr.Validationf("invalid input"))
		return
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		respondError(c, apperr.Validationf("invalid input"))
		return
	}
	if req.Password != req.ConfirmPassword {
		respondError(c, apperr.Validationf("password does not match"))
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	user, err := h.users.Create(c.Request.Context(), req.Name, req.Email, hash, req.Description, req.Avatar)
	if errors.Is(err, repositories.ErrEmailTaken) {
		respondError(c, apperr.Conflictf("email already exists, try another one"))
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}

	token, err := auth.IssueToken(h.jwtSecret, user.ID, user.Name)
	if err != nil {
		respondError(c, err)
		return
	}

	h.emitAudit(c, "INFO", "user registered")
	c.JSON(http.StatusCreated, gin.H{"accessToken": token})
}

// SignIn exchanges credentials for an access token.
func (h *UserHandler) SignIn(c *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" || req.Password == "" {
		respondError(c, apperr.Validationf("invalid input"))
		return
	}

	user, err := h.users.GetByEmail(c.Request.Context(), req.Email)
	if errors.Is(err, repositories.ErrUserNotFound) {
		respondError(c, apperr.Authf("email is not correct"))
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}

	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		h.emitAudit(c, "ERROR", "wrong credential")
		respondError(c, apperr.Authf("password is not correct"))
		return
	}

	token, err := auth.IssueToken(h.jwtSecret, user.ID, user.Name)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"accessToken": token})
}

// GetMe returns the caller's account.
func (h *UserHandler) GetMe(c *gin.Context) {
	userID := c.GetInt("userID")
	user, err := h.users.GetByID(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// ChangeMe updates the caller's profile fields.
func (h *UserHandler) ChangeMe(c *gin.Context) {
	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Avatar      string `json:"avatar"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperr.Validationf("invalid input"))
		return
	}

	userID := c.GetInt("userID")
	user, err := h.users.UpdateProfile(c.Request.Context(), userID, req.Name, req.Description, req.Avatar)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// ChangePassword rotates the caller's credential after verifying the current
// one and the confirmation.
func (h *UserHandler) ChangePassword(c *gin.Context) {
	var req struct {
		Password        string `json:"password"`
		NewPassword     string `json:"newPassword"`
		ConfirmPassword string `json:"confirmPassword"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperr.Validationf("invalid input"))
		return
	}
	if req.Password == "" || req.NewPassword == "" || req.ConfirmPassword == "" {
		respondError(c, apperr.Validationf("invalid input"))
		return
	}
	if req.NewPassword != req.ConfirmPassword {
		respondError(c, apperr.Validationf("your confirm password does not match"))
		return
	}

	userID := c.GetInt("userID")
	user, err := h.users.GetByID(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		respondError(c, apperr.Authf("your password is not correct"))
		return
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := h.users.UpdatePassword(c.Request.Context(), userID, hash); err != nil {
		respondError(c, err)
		return
	}

	h.emitAudit(c, "INFO", "password changed")
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// GetUserInfo returns another user's account sans credential and saved list.
func (h *UserHandler) GetUserInfo(c *gin.Context) {
	targetID, err := pathID(c, "userId")
	if err != nil {
		respondError(c, err)
		return
	}

	user, err := h.users.GetByID(c.Request.Context(), targetID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"_id":         user.ID,
		"name":        user.Name,
		"email":       user.Email,
		"description": user.Description,
		"avatar":      user.Avatar,
		"createdAt":   user.CreatedAt,
	})
}

func (h *UserHandler) emitAudit(c *gin.Context, level, text string) {
	if h.audit == nil {
		return
	}
	h.audit.Emit(c.Request.Context(), level, text, requestIDFromContext(c), userIDFromContext(c))
}
