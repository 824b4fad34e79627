package handlers

import (
	"StudySync/internal/config"
	"StudySync/internal/middleware"
	"StudySync/internal/model"
	"StudySync/internal/service"
	"fmt"
	"net/http"
	"strconv"

	"go.uber.org/zap"
)

type UserHandler struct {
	UserService *service.UserService
	Logger      *zap.SugaredLogger
	Config      *config.Config
}

func NewUserHandler(userService *service.UserService, logger *zap.SugaredLogger, cfg *config.Config) *UserHandler {
	return &UserHandler{UserService: userService, Logger: logger, Config: cfg}
}

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Register регистрирует пользователя и сразу авторизует его cookie.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, h.Logger, "Register", err)
		return
	}

	user, err := h.UserService.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		writeError(w, r, h.Logger, "Register", err)
		return
	}
	h.login(w, r, user, http.StatusCreated)
}

// Login проверяет пароль и выставляет cookie сессии.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, h.Logger, "Login", err)
		return
	}

	user, err := h.UserService.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, r, h.Logger, "Login", err)
		return
	}
	h.login(w, r, user, http.StatusOK)
}

func (h *UserHandler) login(w http.ResponseWriter, r *http.Request, user *model.User, status int) {
	if err := middleware.SetLoginCookie(w, user.ID, h.Config.AuthSecret); err != nil {
		writeError(w, r, h.Logger, "Login", fmt.Errorf("set cookie: %w", err))
		return
	}
	h.Logger.Infow("User logged in", "user_id", user.ID, "username", user.Username)
	writeJSON(w, status, user)
}

// Logout удаляет cookie сессии.
func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	middleware.ClearLoginCookie(w)
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// Current возвращает текущего пользователя.
func (h *UserHandler) Current(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())
	user, err := h.UserService.Get(r.Context(), userID)
	if err != nil {
		writeError(w, r, h.Logger, "Current", err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// LeaderboardEntry — публичная часть профиля в таблице лидеров.
type LeaderboardEntry struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
	XP       int    `json:"xp"`
}

// Leaderboard возвращает пользователей с наибольшим XP, ?limit=N.
func (h *UserHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeErrorMessage(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = n
	}

	users, err := h.UserService.Leaderboard(r.Context(), limit)
	if err != nil {
		writeError(w, r, h.Logger, "Leaderboard", err)
		return
	}
	entries := make([]LeaderboardEntry, 0, len(users))
	for _, u := range users {
		entries = append(entries, LeaderboardEntry{ID: u.ID, Username: u.Username, Avatar: u.Avatar, XP: u.XP})
	}
	writeJSON(w, http.StatusOK, entries)
}
