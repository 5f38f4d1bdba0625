package auth_test

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/sopra-fs21-group-4/sopra-server/auth"
	"github.com/sopra-fs21-group-4/sopra-server/domain"
)

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Signup(ctx context.Context, username, password string) (string, error) {
	args := m.Called(ctx, username, password)
	return args.String(0), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, username, password string) (string, error) {
	args := m.Called(ctx, username, password)
	return args.String(0), args.Error(1)
}

func (m *MockAuthService) VerifyToken(token string) (string, error) {
	args := m.Called(token)
	return args.String(0), args.Error(1)
}

func (m *MockAuthService) Refresh(token string) (string, error) {
	args := m.Called(token)
	return args.String(0), args.Error(1)
}

func TestSignupHandler(t *testing.T) {
	t.Parallel()
	gin.SetMode(gin.TestMode)

	exErr := errors.New("example error")

	testCases := []struct {
		description   string
		body          string
		setupMocks    func(m *MockAuthService)
		expectedCode  int
		expectedBody  string
		expectedToken string
	}{
		{
			description: "normal success",
			body:        `{"username":"oussama", "password":"pass1234"}`,
			setupMocks: func(m *MockAuthService) {
				m.On("Signup", mock.Anything, "oussama", "pass1234").Return("tokenhaha", nil)
			},
			expectedCode:  http.StatusCreated,
			expectedToken: "tokenhaha",
		},
		{
			description: "username already exists",
			body:        `{"username":"oussama", "password":"pass1234"}`,
			setupMocks: func(m *MockAuthService) {
				m.On("Signup", mock.Anything, "oussama", "pass1234").Return("", domain.ErrDuplicateUsername)
			},
			expectedCode: http.StatusConflict,
			expectedBody: auth.ErrUsernameAlreadyExistsStr,
		},
		{
			description: "weak password",
			body:        `{"username":"oussama", "password":"123"}`,
			setupMocks: func(m *MockAuthService) {
				m.On("Signup", mock.Anything, "oussama", "123").Return("", auth.ErrWeakPassword)
			},
			expectedCode: http.StatusBadRequest,
			expectedBody: auth.ErrWeakPassword.Error(),
		},
		{
			description: "invalid username format",
			body:        `{"username":"bad format", "password":"pass1234"}`,
			setupMocks: func(m *MockAuthService) {
				m.On("Signup", mock.Anything, "bad format", "pass1234").Return("", auth.ErrInvalidUsernameFormat)
			},
			expectedCode: http.StatusBadRequest,
			expectedBody: auth.ErrInvalidUsernameFormat.Error(),
		},
		{
			description:  "non json request",
			body:         `{`,
			setupMocks:   func(m *MockAuthService) {},
			expectedCode: http.StatusBadRequest,
			expectedBody: auth.ErrInvalidRequestFormatStr,
		},
		{
			description: "database failure",
			body:        `{"username":"oussama", "password":"pass1234"}`,
			setupMocks: func(m *MockAuthService) {
				m.On("Signup", mock.Anything, "oussama", "pass1234").
					Return("", errors.Join(domain.UnexpectedDatabaseError, exErr))
			},
			expectedCode: http.StatusInternalServerError,
			expectedBody: auth.ErrUnknownStr,
		},
		{
			description: "timeout error",
			body:        `{"username":"oussama", "password":"pass1234"}`,
			setupMocks: func(m *MockAuthService) {
				m.On("Signup", mock.Anything, "oussama", "pass1234").Return("", context.DeadlineExceeded)
			},
			expectedCode: http.StatusGatewayTimeout,
			expectedBody: auth.ErrServerTimeoutStr,
		},
		{
			description: "client closed request",
			body:        `{"username":"oussama", "password":"pass1234"}`,
			setupMocks: func(m *MockAuthService) {
				m.On("Signup", mock.Anything, "oussama", "pass1234").Return("", context.Canceled)
			},
			expectedCode: 499,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.description, func(t *testing.T) {
			t.Parallel()
			mockService := new(MockAuthService)
			tc.setupMocks(mockService)

			authHandler := auth.NewAuthHandler(mockService, 197*time.Second)
			server := gin.New()
			server.POST("/signup", authHandler.SignupHandler)

			req := httptest.NewRequest(http.MethodPost, "/signup", bytes.NewBufferString(tc.body))
			req.Header.Set("Content-Type", "application/json")
			res := httptest.NewRecorder()
			server.ServeHTTP(res, req)

			cookies := res.Result().Cookies()
			token := ""
			if len(cookies) > 0 {
				assert.Equal(t, "token", cookies[0].Name)
				assert.Equal(t, "/", cookies[0].Path)
				assert.Equal(t, 197, cookies[0].MaxAge)
				token = cookies[0].Value
			}

			assert.Equal(t, tc.expectedCode, res.Code)
			assert.Equal(t, tc.expectedBody, res.Body.String())
			assert.Equal(t, tc.expectedToken, token)
			mockService.AssertExpectations(t)
		})
	}
}

func TestLoginHandler(t *testing.T) {
	t.Parallel()
	gin.SetMode(gin.TestMode)

	testCases := []struct {
		description   string
		body          string
		setupMocks    func(m *MockAuthService)
		expectedCode  int
		expectedBody  string
		expectedToken string
	}{
		{
			description: "normal success",
			body:        `{"username":"oussama", "password":"pass1234"}`,
			setupMocks: func(m *MockAuthService) {
				m.On("Login", mock.Anything, "oussama", "pass1234").Return("tokenhaha", nil)
			},
			expectedCode:  http.StatusOK,
			expectedToken: "tokenhaha",
		},
		{
			description: "wrong password",
			body:        `{"username":"oussama", "password":"wrong"}`,
			setupMocks: func(m *MockAuthService) {
				m.On("Login", mock.Anything, "oussama", "wrong").Return("", auth.ErrIncorrectPassword)
			},
			expectedCode: http.StatusUnauthorized,
			expectedBody: auth.ErrInvalidCredentialsStr,
		},
		{
			description: "unknown user looks like wrong password",
			body:        `{"username":"ghost", "password":"pass1234"}`,
			setupMocks: func(m *MockAuthService) {
				m.On("Login", mock.Anything, "ghost", "pass1234").Return("", domain.ErrUserNotFound)
			},
			expectedCode: http.StatusUnauthorized,
			expectedBody: auth.ErrInvalidCredentialsStr,
		},
		{
			description:  "non json request",
			body:         `{`,
			setupMocks:   func(m *MockAuthService) {},
			expectedCode: http.StatusBadRequest,
			expectedBody: auth.ErrInvalidRequestFormatStr,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.description, func(t *testing.T) {
			t.Parallel()
			mockService := new(MockAuthService)
			tc.setupMocks(mockService)

			authHandler := auth.NewAuthHandler(mockService, time.Minute)
			server := gin.New()
			server.POST("/login", authHandler.LoginHandler)

			req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewBufferString(tc.body))
			req.Header.Set("Content-Type", "application/json")
			res := httptest.NewRecorder()
			server.ServeHTTP(res, req)

			cookies := res.Result().Cookies()
			token := ""
			if len(cookies) > 0 {
				token = cookies[0].Value
			}

			assert.Equal(t, tc.expectedCode, res.Code)
			assert.Equal(t, tc.expectedBody, res.Body.String())
			assert.Equal(t, tc.expectedToken, token)
			mockService.AssertExpectations(t)
		})
	}
}

func TestRequireAuthMiddleware(t *testing.T) {
	t.Parallel()
	gin.SetMode(gin.TestMode)

	serve := func(t *testing.T, service auth.AuthService, withCookie string) *httptest.ResponseRecorder {
		t.Helper()
		authHandler := auth.NewAuthHandler(service, time.Minute)
		server := gin.New()
		server.GET("/protected", authHandler.RequireAuthMiddleware(0), func(c *gin.Context) {
			c.String(http.StatusOK, c.GetString("id"))
		})

		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		if withCookie != "" {
			req.AddCookie(&http.Cookie{Name: "token", Value: withCookie})
		}
		res := httptest.NewRecorder()
		server.ServeHTTP(res, req)
		return res
	}

	t.Run("missing cookie", func(t *testing.T) {
		t.Parallel()
		res := serve(t, new(MockAuthService), "")
		assert.Equal(t, http.StatusUnauthorized, res.Code)
		assert.Equal(t, auth.ErrMissingTokenStr, res.Body.String())
	})

	t.Run("valid token", func(t *testing.T) {
		t.Parallel()
		mockService := new(MockAuthService)
		mockService.On("VerifyToken", "goodtoken").Return("user-123", nil)
		res := serve(t, mockService, "goodtoken")
		assert.Equal(t, http.StatusOK, res.Code)
		assert.Equal(t, "user-123", res.Body.String())
	})

	t.Run("expired token", func(t *testing.T) {
		t.Parallel()
		mockService := new(MockAuthService)
		mockService.On("VerifyToken", "oldtoken").Return("", domain.ErrExpiredToken)
		res := serve(t, mockService, "oldtoken")
		assert.Equal(t, http.StatusUnauthorized, res.Code)
		assert.Equal(t, auth.ErrExpiredTokenStr, res.Body.String())
	})

	t.Run("forged token", func(t *testing.T) {
		t.Parallel()
		mockService := new(MockAuthService)
		mockService.On("VerifyToken", "forged").Return("", domain.ErrInvalidTokenSignature)
		res := serve(t, mockService, "forged")
		assert.Equal(t, http.StatusInternalServerError, res.Code)
		assert.Empty(t, res.Body.String())
	})
}

func TestRefreshSessionHandler(t *testing.T) {
	t.Parallel()
	gin.SetMode(gin.TestMode)

	t.Run("refreshed", func(t *testing.T) {
		t.Parallel()
		mockService := new(MockAuthService)
		mockService.On("Refresh", "oldtoken").Return("freshtoken", nil)

		authHandler := auth.NewAuthHandler(mockService, time.Minute)
		server := gin.New()
		server.POST("/refresh", authHandler.RefreshSessionHandler)

		req := httptest.NewRequest(http.MethodPost, "/refresh", nil)
		req.AddCookie(&http.Cookie{Name: "token", Value: "oldtoken"})
		res := httptest.NewRecorder()
		server.ServeHTTP(res, req)

		assert.Equal(t, http.StatusOK, res.Code)
		cookies := res.Result().Cookies()
		if assert.NotEmpty(t, cookies) {
			assert.Equal(t, "freshtoken", cookies[0].Value)
		}
	})

	t.Run("expired", func(t *testing.T) {
		t.Parallel()
		mockService := new(MockAuthService)
		mockService.On("Refresh", "oldtoken").Return("", domain.ErrExpiredToken)

		authHandler := auth.NewAuthHandler(mockService, time.Minute)
		server := gin.New()
		server.POST("/refresh", authHandler.RefreshSessionHandler)

		req := httptest.NewRequest(http.MethodPost, "/refresh", nil)
		req.AddCookie(&http.Cookie{Name: "token", Value: "oldtoken"})
		res := httptest.NewRecorder()
		server.ServeHTTP(res, req)

		assert.Equal(t, http.StatusUnauthorized, res.Code)
	})
}
