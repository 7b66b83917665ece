package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"social-service/internal/auth"
	"social-service/internal/models"
	"social-service/internal/repositories"
)

// AuthMiddleware validates the Authorization header and stores the caller's
// user id on the request context.
func AuthMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "request is denied, please log in"})
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header"})
			return
		}

		userID, err := auth.ParseToken(jwtSecret, parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set("userID", userID)
		c.Next()
	}
}

// elevated reports whether the caller's stored role grants the admin
// override accepted by ownership checks.
func elevated(c *gin.Context, users repositories.UserRepository, userID int) bool {
	user, err := users.GetByID(c.Request.Context(), userID)
	if err != nil {
		return false
	}
	return user.Role == models.RoleAdmin
}

// RequirePostOwner allows the request through when the target post is owned
// by the caller, or when the caller is elevated. The body is buffered so the
// handler can bind it again.
func RequirePostOwner(posts repositories.PostRepository, users repositories.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			ID int `json:"_id" binding:"required"`
		}
		if err := c.ShouldBindBodyWith(&req, binding.JSON); err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "missing post id"})
			return
		}

		userID := c.GetInt("userID")
		_, err := posts.GetByIDAndCreator(c.Request.Context(), req.ID, userID)
		if err != nil && !errors.Is(err, repositories.ErrPostNotFound) {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "ownership check failed"})
			return
		}
		if err == nil || elevated(c, users, userID) {
			c.Next()
			return
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "you are not the post owner"})
	}
}

// RequireCommentOwner mirrors RequirePostOwner for comments.
func RequireCommentOwner(comments repositories.CommentRepository, users repositories.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			ID int `json:"_id" binding:"required"`
		}
		if err := c.ShouldBindBodyWith(&req, binding.JSON); err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "missing comment id"})
			return
		}

		userID := c.GetInt("userID")
		_, err := comments.GetByIDAndUser(c.Request.Context(), req.ID, userID)
		if err != nil && !errors.Is(err, repositories.ErrCommentNotFound) {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "ownership check failed"})
			return
		}
		if err == nil || elevated(c, users, userID) {
			c.Next()
			return
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "you are not the comment owner"})
	}
}

// CORS allows browser clients from any origin, matching the public API shape.
func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Request-Id, X-Device-Id")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
