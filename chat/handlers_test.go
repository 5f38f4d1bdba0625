package chat

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sopra-fs21-group-4/sopra-server/domain"
)

type MockUserGetter struct {
	mock.Mock
}

func (m *MockUserGetter) GetUserById(ctx context.Context, id string) (domain.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.User), args.Error(1)
}

func newChatRouter(svc *Service, users UserGetter, userId string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := NewHandler(svc, users)
	router := gin.New()
	router.Use(func(c *gin.Context) { c.Set("id", userId) })
	router.POST("/channels/:channelid/messages", handler.PostMessageHandler)
	router.GET("/channels/:channelid/messages", handler.GetMessagesHandler)
	return router
}

func TestPostMessageHandler(t *testing.T) {
	users := &MockUserGetter{}
	users.On("GetUserById", mock.Anything, "u-a").Return(domain.User{Id: "u-a", Username: "ann"}, nil)

	svc := NewService()
	channelId := svc.Create()
	router := newChatRouter(svc, users, "u-a")

	t.Run("Created", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/channels/"+channelId+"/messages", bytes.NewBufferString(`{"text":"hello"}`))
		req.Header.Set("Content-Type", "application/json")
		res := httptest.NewRecorder()
		router.ServeHTTP(res, req)

		assert.Equal(t, http.StatusCreated, res.Code)
		assert.Contains(t, res.Body.String(), `"username":"ann"`)
	})

	t.Run("Empty Text", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/channels/"+channelId+"/messages", bytes.NewBufferString(`{"text":""}`))
		req.Header.Set("Content-Type", "application/json")
		res := httptest.NewRecorder()
		router.ServeHTTP(res, req)

		assert.Equal(t, http.StatusBadRequest, res.Code)
	})

	t.Run("Unknown Channel", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/channels/nope/messages", bytes.NewBufferString(`{"text":"hello"}`))
		req.Header.Set("Content-Type", "application/json")
		res := httptest.NewRecorder()
		router.ServeHTTP(res, req)

		assert.Equal(t, http.StatusNotFound, res.Code)
		assert.Contains(t, res.Body.String(), "channel-not-found")
	})

	t.Run("Rate Limited", func(t *testing.T) {
		// exhaust the burst directly, the handler surfaces 429
		for i := 0; i < 5; i++ {
			svc.Post(channelId, "u-b", "bob", "spam")
		}
		usersB := &MockUserGetter{}
		usersB.On("GetUserById", mock.Anything, "u-b").Return(domain.User{Id: "u-b", Username: "bob"}, nil)
		routerB := newChatRouter(svc, usersB, "u-b")

		req := httptest.NewRequest(http.MethodPost, "/channels/"+channelId+"/messages", bytes.NewBufferString(`{"text":"more spam"}`))
		req.Header.Set("Content-Type", "application/json")
		res := httptest.NewRecorder()
		routerB.ServeHTTP(res, req)

		assert.Equal(t, http.StatusTooManyRequests, res.Code)
		assert.Contains(t, res.Body.String(), "too-many-messages")
	})

	t.Run("Unknown User", func(t *testing.T) {
		usersGone := &MockUserGetter{}
		usersGone.On("GetUserById", mock.Anything, "u-ghost").Return(domain.User{}, domain.ErrUserNotFound)
		routerGone := newChatRouter(svc, usersGone, "u-ghost")

		req := httptest.NewRequest(http.MethodPost, "/channels/"+channelId+"/messages", bytes.NewBufferString(`{"text":"boo"}`))
		req.Header.Set("Content-Type", "application/json")
		res := httptest.NewRecorder()
		routerGone.ServeHTTP(res, req)

		assert.Equal(t, http.StatusUnauthorized, res.Code)
	})
}

func TestGetMessagesHandler(t *testing.T) {
	users := &MockUserGetter{}
	svc := NewService()
	channelId := svc.Create()
	_, err := svc.Post(channelId, "u-a", "ann", "first")
	require.NoError(t, err)
	_, err = svc.Post(channelId, "u-a", "ann", "second")
	require.NoError(t, err)

	router := newChatRouter(svc, users, "u-a")

	t.Run("All", func(t *testing.T) {
		res := httptest.NewRecorder()
		router.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/channels/"+channelId+"/messages", nil))

		assert.Equal(t, http.StatusOK, res.Code)
		assert.Contains(t, res.Body.String(), "first")
		assert.Contains(t, res.Body.String(), "second")
	})

	t.Run("After Cursor", func(t *testing.T) {
		res := httptest.NewRecorder()
		router.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/channels/"+channelId+"/messages?after=1", nil))

		assert.Equal(t, http.StatusOK, res.Code)
		assert.NotContains(t, res.Body.String(), "first")
		assert.Contains(t, res.Body.String(), "second")
	})

	t.Run("Unknown Channel", func(t *testing.T) {
		res := httptest.NewRecorder()
		router.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/channels/nope/messages", nil))

		assert.Equal(t, http.StatusNotFound, res.Code)
	})
}
