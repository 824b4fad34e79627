package handlers_test

import (
	"StudySync/internal/handlers"
	"StudySync/internal/middleware"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister_SetsCookieAndHidesPassword(t *testing.T) {
	s := newTestServer(t)

	rr := s.do(t, http.MethodPost, "/api/register", `{"username":"alex","email":"alex@example.com","password":"pw"}`, "")
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	assert.NotContains(t, rr.Body.String(), "password")

	var found bool
	for _, c := range rr.Result().Cookies() {
		if c.Name == middleware.CookieName && c.Value != "" {
			found = true
		}
	}
	assert.True(t, found, "auth cookie expected")
}

func TestRegister_Errors(t *testing.T) {
	s := newTestServer(t)
	s.register(t, "alex")

	rr := s.do(t, http.MethodPost, "/api/register", `{"username":"alex","email":"other@example.com","password":"pw"}`, "")
	assert.Equal(t, http.StatusConflict, rr.Code)

	rr = s.do(t, http.MethodPost, "/api/register", `{"username":"bob","email":"not-an-email","password":"pw"}`, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = s.do(t, http.MethodPost, "/api/register", `{"username":`, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestLogin(t *testing.T) {
	s := newTestServer(t)
	s.register(t, "alex")

	rr := s.do(t, http.MethodPost, "/api/login", `{"username":"alex","password":"secret"}`, "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.NotEmpty(t, rr.Result().Cookies())

	rr = s.do(t, http.MethodPost, "/api/login", `{"username":"alex","password":"wrong"}`, "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = s.do(t, http.MethodPost, "/api/login", `{"username":"nobody","password":"secret"}`, "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestCurrentUser(t *testing.T) {
	s := newTestServer(t)
	id := s.register(t, "alex")

	rr := s.do(t, http.MethodGet, "/api/user", "", "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, "Unauthorized", errorText(t, rr))

	rr = s.do(t, http.MethodGet, "/api/user", "", id)
	require.Equal(t, http.StatusOK, rr.Code)
	var user struct {
		Username string `json:"username"`
		XP       int    `json:"xp"`
		Avatar   string `json:"avatar"`
	}
	decode(t, rr, &user)
	assert.Equal(t, "alex", user.Username)
	assert.Equal(t, 0, user.XP)
	assert.NotEmpty(t, user.Avatar)

	// токен пользователя, которого нет в хранилище
	rr = s.do(t, http.MethodGet, "/api/user", "", "00000000-0000-0000-0000-000000000000")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestLogout_ClearsCookie(t *testing.T) {
	s := newTestServer(t)

	rr := s.do(t, http.MethodPost, "/api/logout", "", "")
	require.Equal(t, http.StatusOK, rr.Code)
	cookies := rr.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, middleware.CookieName, cookies[0].Name)
	assert.Empty(t, cookies[0].Value)
}

func TestLeaderboard(t *testing.T) {
	s := newTestServer(t)
	a := s.register(t, "alex")
	b := s.register(t, "bea")
	_, err := s.users.AddXP(t.Context(), b, 40)
	require.NoError(t, err)

	rr := s.do(t, http.MethodGet, "/api/leaderboard?limit=1", "", a)
	require.Equal(t, http.StatusOK, rr.Code)
	// адреса почты других пользователей не раскрываются
	assert.NotContains(t, rr.Body.String(), "email")
	assert.NotContains(t, rr.Body.String(), "@example.com")
	var users []handlers.LeaderboardEntry
	decode(t, rr, &users)
	require.Len(t, users, 1)
	assert.Equal(t, b, users[0].ID)
	assert.Equal(t, "bea", users[0].Username)
	assert.Equal(t, 40, users[0].XP)

	rr = s.do(t, http.MethodGet, "/api/leaderboard?limit=x", "", a)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
