package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"social-service/internal/auth"
	"social-service/internal/mocks"
	"social-service/internal/models"
	"social-service/internal/repositories"
)

const testSecret = "test-secret"

func setupAuthRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", AuthMiddleware(testSecret), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"userID": c.GetInt("userID")})
	})
	return r
}

func TestAuthMiddlewareMissingHeader(t *testing.T) {
	router := setupAuthRouter()

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddlewareMalformedHeader(t *testing.T) {
	router := setupAuthRouter()

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "token-without-scheme")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddlewareOversizedToken(t *testing.T) {
	router := setupAuthRouter()

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+strings.Repeat("a", 600))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddlewareValidToken(t *testing.T) {
	router := setupAuthRouter()

	token, err := auth.IssueToken(testSecret, 7, "alice")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"userID":7}`, rec.Body.String())
}

func setupOwnerRouter(posts repositories.PostRepository, users repositories.UserRepository) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("userID", 1)
		c.Next()
	})
	r.DELETE("/post", RequirePostOwner(posts, users), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	return r
}

func TestRequirePostOwnerAllowsOwner(t *testing.T) {
	postRepo := new(mocks.PostRepositoryMock)
	userRepo := new(mocks.UserRepositoryMock)
	router := setupOwnerRouter(postRepo, userRepo)

	postRepo.On("GetByIDAndCreator", mock.Anything, 5, 1).
		Return(models.Post{ID: 5, CreatorID: 1}, nil).Once()

	req := httptest.NewRequest(http.MethodDelete, "/post", bytes.NewBufferString(`{"_id":5}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	userRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	postRepo.AssertExpectations(t)
}

func TestRequirePostOwnerRejectsNonOwner(t *testing.T) {
	postRepo := new(mocks.PostRepositoryMock)
	userRepo := new(mocks.UserRepositoryMock)
	router := setupOwnerRouter(postRepo, userRepo)

	postRepo.On("GetByIDAndCreator", mock.Anything, 5, 1).
		Return(models.Post{}, repositories.ErrPostNotFound).Once()
	userRepo.On("GetByID", mock.Anything, 1).
		Return(models.User{ID: 1, Role: "user"}, nil).Once()

	req := httptest.NewRequest(http.MethodDelete, "/post", bytes.NewBufferString(`{"_id":5}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusForbidden, rec.Code)
	postRepo.AssertExpectations(t)
	userRepo.AssertExpectations(t)
}

func TestRequirePostOwnerAdminOverride(t *testing.T) {
	postRepo := new(mocks.PostRepositoryMock)
	userRepo := new(mocks.UserRepositoryMock)
	router := setupOwnerRouter(postRepo, userRepo)

	postRepo.On("GetByIDAndCreator", mock.Anything, 5, 1).
		Return(models.Post{}, repositories.ErrPostNotFound).Once()
	userRepo.On("GetByID", mock.Anything, 1).
		Return(models.User{ID: 1, Role: models.RoleAdmin}, nil).Once()

	req := httptest.NewRequest(http.MethodDelete, "/post", bytes.NewBufferString(`{"_id":5}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	postRepo.AssertExpectations(t)
	userRepo.AssertExpectations(t)
}

func TestRequireCommentOwnerRejectsNonOwner(t *testing.T) {
	commentRepo := new(mocks.CommentRepositoryMock)
	userRepo := new(mocks.UserRepositoryMock)
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("userID", 1)
		c.Next()
	})
	r.DELETE("/comment", RequireCommentOwner(commentRepo, userRepo), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	commentRepo.On("GetByIDAndUser", mock.Anything, 3, 1).
		Return(models.Comment{}, repositories.ErrCommentNotFound).Once()
	userRepo.On("GetByID", mock.Anything, 1).
		Return(models.User{ID: 1, Role: "user"}, nil).Once()

	req := httptest.NewRequest(http.MethodDelete, "/comment", bytes.NewBufferString(`{"_id":3}`))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusForbidden, rec.Code)
	commentRepo.AssertExpectations(t)
	userRepo.AssertExpectations(t)
}

func TestCORSPreflight(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CORS())
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/x", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
