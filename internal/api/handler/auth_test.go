package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/canvascore/qr_go_server/config"
	"github.com/canvascore/qr_go_server/internal/model/dto"
	"github.com/canvascore/qr_go_server/internal/pkg/response"
	"github.com/canvascore/qr_go_server/internal/repository"
	"github.com/canvascore/qr_go_server/internal/service"
	"github.com/canvascore/qr_go_server/internal/store"
	"github.com/canvascore/qr_go_server/internal/testutil"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func setupAuthHandler(t *testing.T) (*AuthHandler, *store.Store) {
	t.Helper()

	s := testutil.SetupTestStore(t)
	userRepo := repository.NewUserRepository(s)

	cfg := &config.Config{
		JWT: config.JWTConfig{
			Secret:      "test-secret-key",
			ExpireHours: 24,
		},
	}

	authService := service.NewAuthService(userRepo, cfg)
	return NewAuthHandler(authService), s
}

func performRequest(r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		jsonBytes, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(jsonBytes)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func parseResponse(t *testing.T, w *httptest.ResponseRecorder) response.Response {
	var resp response.Response
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err)
	return resp
}

func TestAuthHandler_Register_Success(t *testing.T) {
	handler, _ := setupAuthHandler(t)

	router := gin.New()
	router.POST("/signup", handler.Register)

	req := dto.RegisterRequest{
		Username:     "testuser",
		Name:         "Test User",
		Email:        "test@example.com",
		MobileNumber: "+8613800138000",
		Password:     "password123",
	}

	w := performRequest(router, "POST", "/signup", req)
	resp := parseResponse(t, w)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, response.CodeSuccess, resp.Code)

	data := resp.Data.(map[string]interface{})
	assert.NotEmpty(t, data["token"])
	user := data["user"].(map[string]interface{})
	assert.Equal(t, "testuser", user["username"])
}

func TestAuthHandler_Register_MissingFields(t *testing.T) {
	handler, _ := setupAuthHandler(t)

	router := gin.New()
	router.POST("/signup", handler.Register)

	w := performRequest(router, "POST", "/signup", dto.RegisterRequest{
		Username: "testuser",
	})
	resp := parseResponse(t, w)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, response.CodeParamError, resp.Code)
}

func TestAuthHandler_Register_InvalidFields(t *testing.T) {
	handler, _ := setupAuthHandler(t)

	router := gin.New()
	router.POST("/signup", handler.Register)

	w := performRequest(router, "POST", "/signup", dto.RegisterRequest{
		Username:     "x",
		Name:         "Test",
		Email:        "not-an-email",
		MobileNumber: "12345",
		Password:     "1",
	})
	resp := parseResponse(t, w)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, response.CodeParamError, resp.Code)

	// 字段级错误随响应返回
	fields := resp.Data.(map[string]interface{})
	assert.Contains(t, fields, "username")
	assert.Contains(t, fields, "password")
}

func TestAuthHandler_Register_DuplicateEmail(t *testing.T) {
	handler, s := setupAuthHandler(t)

	testutil.TestUser(t, s, testutil.WithEmail("taken@example.com"))

	router := gin.New()
	router.POST("/signup", handler.Register)

	w := performRequest(router, "POST", "/signup", dto.RegisterRequest{
		Username:     "testuser",
		Name:         "Test User",
		Email:        "taken@example.com",
		MobileNumber: "+8613800138000",
		Password:     "password123",
	})
	resp := parseResponse(t, w)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, response.CodeConflict, resp.Code)
}

func TestAuthHandler_Login_Success(t *testing.T) {
	handler, s := setupAuthHandler(t)

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)
	testutil.TestUser(t, s,
		testutil.WithEmail("login@example.com"),
		testutil.WithPasswordHash(string(hash)),
	)

	router := gin.New()
	router.POST("/login", handler.Login)

	w := performRequest(router, "POST", "/login", dto.LoginRequest{
		Email:    "login@example.com",
		Password: "password123",
	})
	resp := parseResponse(t, w)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, response.CodeSuccess, resp.Code)
}

func TestAuthHandler_Login_WrongPassword(t *testing.T) {
	handler, s := setupAuthHandler(t)

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)
	testutil.TestUser(t, s,
		testutil.WithEmail("login@example.com"),
		testutil.WithPasswordHash(string(hash)),
	)

	router := gin.New()
	router.POST("/login", handler.Login)

	w := performRequest(router, "POST", "/login", dto.LoginRequest{
		Email:    "login@example.com",
		Password: "wrong",
	})
	resp := parseResponse(t, w)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, response.CodeAuthFailed, resp.Code)
}

func TestAuthHandler_Login_UnknownEmail(t *testing.T) {
	handler, _ := setupAuthHandler(t)

	router := gin.New()
	router.POST("/login", handler.Login)

	w := performRequest(router, "POST", "/login", dto.LoginRequest{
		Email:    "nobody@example.com",
		Password: "whatever",
	})
	resp := parseResponse(t, w)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, response.CodeAuthFailed, resp.Code)
}
