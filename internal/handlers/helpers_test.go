package handlers_test

import (
	"StudySync/internal/chat"
	"StudySync/internal/config"
	"StudySync/internal/handlers"
	"StudySync/internal/middleware"
	"StudySync/internal/repo/memory"
	"StudySync/internal/service"
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testServer struct {
	router http.Handler
	cfg    *config.Config
	store  *memory.Storage
	users  *service.UserService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	cfg := &config.Config{AuthSecret: "test-secret", CORSOrigins: []string{"http://localhost:5173"}}
	logger := zap.NewNop().Sugar()
	middleware.SetLogger(logger)

	store := memory.New()
	users := service.NewUserService(store)
	h := handlers.NewHandler(handlers.Services{
		Users:     users,
		Documents: service.NewDocumentService(store, users, logger),
		Decks:     service.NewDeckService(store, users, logger),
		Threads:   service.NewThreadService(store, users),
		Chat:      service.NewChatService(chat.NewMatcher(nil)),
	}, logger, cfg)
	return &testServer{router: h.Router, cfg: cfg, store: store, users: users}
}

// do выполняет запрос; userID != "" добавляет cookie сессии.
func (s *testServer) do(t *testing.T, method, path, body, userID string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if userID != "" {
		addAuth(t, req, userID, s.cfg.AuthSecret)
	}
	rr := httptest.NewRecorder()
	s.router.ServeHTTP(rr, req)
	return rr
}

// register создаёт пользователя через API и возвращает его id.
func (s *testServer) register(t *testing.T, username string) string {
	t.Helper()
	rr := s.do(t, http.MethodPost, "/api/register",
		`{"username":"`+username+`","email":"`+username+`@example.com","password":"secret"}`, "")
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var user struct {
		ID string `json:"id"`
	}
	decode(t, rr, &user)
	require.NotEmpty(t, user.ID)
	return user.ID
}

func addAuth(t *testing.T, req *http.Request, userID, secret string) {
	t.Helper()
	rr := httptest.NewRecorder()
	require.NoError(t, middleware.SetLoginCookie(rr, userID, secret))
	for _, c := range rr.Result().Cookies() {
		req.AddCookie(c)
	}
}

func decode(t *testing.T, rr *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), v), rr.Body.String())
}

func errorText(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error string `json:"error"`
	}
	decode(t, rr, &body)
	return body.Error
}
