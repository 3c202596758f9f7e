package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/iomp-platform/iomp-api/internal/middleware"
	"github.com/iomp-platform/iomp-api/internal/models"
	"github.com/iomp-platform/iomp-api/internal/service"
)

// chatDepsStub satisfies every read dependency of the chat service.
type chatDepsStub struct {
	turns []models.ChatMessage
}

func (s *chatDepsStub) Create(_ context.Context, turn *models.ChatMessage) error {
	s.turns = append(s.turns, *turn)
	return nil
}

func (s *chatDepsStub) ListRecent(_ context.Context, _ string, _ int) ([]models.ChatMessage, error) {
	return s.turns, nil
}

func (s *chatDepsStub) FindByID(_ context.Context, id string) (*models.User, error) {
	return &models.User{ID: id, Name: "Alice", Role: models.RoleStudent}, nil
}

func (s *chatDepsStub) SummaryForUser(_ context.Context, _ string) (*models.AttendanceSummary, error) {
	return &models.AttendanceSummary{Present: 8, Total: 10, Percent: 80}, nil
}

func (s *chatDepsStub) ListByStudent(_ context.Context, _ string, _ int) ([]models.Classroom, error) {
	return nil, nil
}

func (s *chatDepsStub) ListUpcoming(_ context.Context, _ time.Time, _ int) ([]models.Event, error) {
	return nil, nil
}

func (s *chatDepsStub) ListRegisteredEvents(_ context.Context, _ string) ([]models.Event, error) {
	return nil, nil
}

// announcementStub avoids the method-name clash with the chat repository.
type announcementStub struct{}

func (announcementStub) ListRecent(_ context.Context, _ int) ([]models.Announcement, error) {
	return nil, nil
}

func newChatRouter(deps *chatDepsStub) *gin.Engine {
	gin.SetMode(gin.TestMode)
	svc := service.NewChatService(deps, deps, deps, deps, deps, announcementStub{}, nil, nil, time.Minute, nil, zap.NewNop())
	h := NewChatHandler(svc)

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "user-1", Role: models.RoleStudent})
		c.Next()
	})
	router.POST("/chat", h.Ask)
	router.GET("/chat/history", h.History)
	return router
}

func TestChatHandlerAsk(t *testing.T) {
	deps := &chatDepsStub{}
	router := newChatRouter(deps)

	payload := []byte(`{"message":"how is my attendance?"}`)
	req := httptest.NewRequest(http.MethodPost, "/chat", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)

	var body struct {
		Success bool   `json:"success"`
		Reply   string `json:"reply"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	require.True(t, body.Success)
	require.Contains(t, body.Reply, "80%")
	require.Len(t, deps.turns, 1)
}

func TestChatHandlerAskEmptyMessage(t *testing.T) {
	router := newChatRouter(&chatDepsStub{})

	req := httptest.NewRequest(http.MethodPost, "/chat", bytes.NewReader([]byte(`{"message":"   "}`)))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	require.Equal(t, http.StatusBadRequest, resp.Code)
	require.Contains(t, resp.Body.String(), "Message is required")
}

func TestChatHandlerHistory(t *testing.T) {
	deps := &chatDepsStub{turns: []models.ChatMessage{{
		ID: "turn-1", UserID: "user-1", Message: "hi", Response: "hello",
	}}}
	router := newChatRouter(deps)

	req := httptest.NewRequest(http.MethodGet, "/chat/history", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	require.Contains(t, resp.Body.String(), `"history"`)
	require.Contains(t, resp.Body.String(), "turn-1")
}
