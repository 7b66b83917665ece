package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
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

func setupUserRouter(handler *UserHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("userID", 1)
		c.Next()
	})
	r.POST("/user/signUp", handler.SignUp)
	r.POST("/user/signIn", handler.SignIn)
	r.GET("/user/getMe", handler.GetMe)
	r.PUT("/user/changeMe", handler.ChangeMe)
	r.PUT("/user/changePassword", handler.ChangePassword)
	r.GET("/user/:userId", handler.GetUserInfo)
	return r
}

func TestSignUpSuccess(t *testing.T) {
	userRepo := new(mocks.UserRepositoryMock)
	handler := NewUserHandler(userRepo, testSecret, nil)
	router := setupUserRouter(handler)

	userRepo.On("Create", mock.Anything, "alice", "alice@example.com", mock.Anything, "hi", "").
		Return(models.User{ID: 4, Name: "alice", Email: "alice@example.com"}, nil).Once()

	body := bytes.NewBufferString(`{"name":"alice","email":"alice@example.com","password":"secret12","confirmPassword":"secret12","description":"hi"}`)
	req := httptest.NewRequest(http.MethodPost, "/user/signUp", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	var resp map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.NotEmpty(t, resp["accessToken"])

	userID, err := auth.ParseToken(testSecret, resp["accessToken"])
	require.NoError(t, err)
	assert.Equal(t, 4, userID)
	userRepo.AssertExpectations(t)
}

func TestSignUpPasswordMismatch(t *testing.T) {
	userRepo := new(mocks.UserRepositoryMock)
	handler := NewUserHandler(userRepo, testSecret, nil)
	router := setupUserRouter(handler)

	body := bytes.NewBufferString(`{"name":"alice","email":"alice@example.com","password":"secret12","confirmPassword":"other"}`)
	req := httptest.NewRequest(http.MethodPost, "/user/signUp", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	userRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSignUpDuplicateEmail(t *testing.T) {
	userRepo := new(mocks.UserRepositoryMock)
	handler := NewUserHandler(userRepo, testSecret, nil)
	router := setupUserRouter(handler)

	userRepo.On("Create", mock.Anything, "alice", "alice@example.com", mock.Anything, "", "").
		Return(models.User{}, repositories.ErrEmailTaken).Once()

	body := bytes.NewBufferString(`{"name":"alice","email":"alice@example.com","password":"secret12","confirmPassword":"secret12"}`)
	req := httptest.NewRequest(http.MethodPost, "/user/signUp", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusConflict, rec.Code)
	userRepo.AssertExpectations(t)
}

func TestSignInSuccess(t *testing.T) {
	userRepo := new(mocks.UserRepositoryMock)
	handler := NewUserHandler(userRepo, testSecret, nil)
	router := setupUserRouter(handler)

	hash, err := auth.HashPassword("secret12")
	require.NoError(t, err)
	userRepo.On("GetByEmail", mock.Anything, "alice@example.com").
		Return(models.User{ID: 4, Name: "alice", PasswordHash: hash}, nil).Once()

	body := bytes.NewBufferString(`{"email":"alice@example.com","password":"secret12"}`)
	req := httptest.NewRequest(http.MethodPost, "/user/signIn", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.NotEmpty(t, resp["accessToken"])
	userRepo.AssertExpectations(t)
}

func TestSignInWrongPassword(t *testing.T) {
	userRepo := new(mocks.UserRepositoryMock)
	handler := NewUserHandler(userRepo, testSecret, nil)
	router := setupUserRouter(handler)

	hash, err := auth.HashPassword("secret12")
	require.NoError(t, err)
	userRepo.On("GetByEmail", mock.Anything, "alice@example.com").
		Return(models.User{ID: 4, PasswordHash: hash}, nil).Once()

	body := bytes.NewBufferString(`{"email":"alice@example.com","password":"wrong"}`)
	req := httptest.NewRequest(http.MethodPost, "/user/signIn", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	userRepo.AssertExpectations(t)
}

func TestSignInUnknownEmail(t *testing.T) {
	userRepo := new(mocks.UserRepositoryMock)
	handler := NewUserHandler(userRepo, testSecret, nil)
	router := setupUserRouter(handler)

	userRepo.On("GetByEmail", mock.Anything, "nobody@example.com").
		Return(models.User{}, repositories.ErrUserNotFound).Once()

	body := bytes.NewBufferString(`{"email":"nobody@example.com","password":"secret12"}`)
	req := httptest.NewRequest(http.MethodPost, "/user/signIn", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	userRepo.AssertExpectations(t)
}

func TestGetMeOmitsCredential(t *testing.T) {
	userRepo := new(mocks.UserRepositoryMock)
	handler := NewUserHandler(userRepo, testSecret, nil)
	router := setupUserRouter(handler)

	userRepo.On("GetByID", mock.Anything, 1).
		Return(models.User{ID: 1, Name: "me", Email: "me@example.com", PasswordHash: "x"}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/user/getMe", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "me", resp["name"])
	assert.NotContains(t, resp, "passwordHash")
	assert.NotContains(t, resp, "password")
	userRepo.AssertExpectations(t)
}

func TestChangeMeUpdatesCallerOnly(t *testing.T) {
	userRepo := new(mocks.UserRepositoryMock)
	handler := NewUserHandler(userRepo, testSecret, nil)
	router := setupUserRouter(handler)

	userRepo.On("UpdateProfile", mock.Anything, 1, "new name", "bio", "pic.png").
		Return(models.User{ID: 1, Name: "new name"}, nil).Once()

	body := bytes.NewBufferString(`{"name":"new name","description":"bio","avatar":"pic.png"}`)
	req := httptest.NewRequest(http.MethodPut, "/user/changeMe", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	userRepo.AssertExpectations(t)
}

func TestChangePasswordWrongCurrent(t *testing.T) {
	userRepo := new(mocks.UserRepositoryMock)
	handler := NewUserHandler(userRepo, testSecret, nil)
	router := setupUserRouter(handler)

	hash, err := auth.HashPassword("current1")
	require.NoError(t, err)
	userRepo.On("GetByID", mock.Anything, 1).
		Return(models.User{ID: 1, PasswordHash: hash}, nil).Once()

	body := bytes.NewBufferString(`{"password":"wrong","newPassword":"next1234","confirmPassword":"next1234"}`)
	req := httptest.NewRequest(http.MethodPut, "/user/changePassword", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	userRepo.AssertNotCalled(t, "UpdatePassword", mock.Anything, mock.Anything, mock.Anything)
	userRepo.AssertExpectations(t)
}

func TestGetUserInfoPublicShape(t *testing.T) {
	userRepo := new(mocks.UserRepositoryMock)
	handler := NewUserHandler(userRepo, testSecret, nil)
	router := setupUserRouter(handler)

	userRepo.On("GetByID", mock.Anything, 9).
		Return(models.User{ID: 9, Name: "bob", Email: "bob@example.com", PasswordHash: "x"}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/user/9", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, float64(9), resp["_id"])
	assert.NotContains(t, resp, "savedPosts")
	assert.NotContains(t, resp, "passwordHash")
	userRepo.AssertExpectations(t)
}
