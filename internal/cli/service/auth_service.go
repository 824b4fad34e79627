package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"StudySync/internal/cli/api"
	clirepo "StudySync/internal/cli/repo"
)

// Ошибки входа, понятные пользователю CLI.
var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrNotLoggedIn        = errors.New("not logged in")
)

// AuthService описывает юзкейс-уровень аутентификации для CLI.
type AuthService interface {
	// Register создаёт аккаунт и сразу сохраняет сессию.
	Register(ctx context.Context, username, email, password string) error

	// Login логирование пользователя.
	Login(ctx context.Context, username, password string) error

	// Logout очищает локальный контекст аутентификации.
	Logout(ctx context.Context) error

	// CurrentUser возвращает имя текущего пользователя, если он установлен.
	CurrentUser() (string, error)
}

// Session — то, что сервис хранит локально между запусками.
type Session interface {
	clirepo.TokenStore
	clirepo.UserContextStore
}

// RemoteAuth — AuthService поверх HTTP API и локального хранилища сессии.
type RemoteAuth struct {
	baseURL string
	store   Session
}

var _ AuthService = (*RemoteAuth)(nil)

func NewRemoteAuth(baseURL string, store Session) *RemoteAuth {
	return &RemoteAuth{baseURL: baseURL, store: store}
}

func (a *RemoteAuth) Register(ctx context.Context, username, email, password string) error {
	payload := map[string]string{"username": username, "email": email, "password": password}
	resp, err := api.NewClient(a.baseURL, "").PostJSON(ctx, "/api/register", payload, nil)
	if api.StatusCode(err) == http.StatusConflict {
		return ErrUsernameTaken
	}
	if err != nil {
		return err
	}
	return a.persist(resp, username)
}

func (a *RemoteAuth) Login(ctx context.Context, username, password string) error {
	payload := map[string]string{"username": username, "password": password}
	resp, err := api.NewClient(a.baseURL, "").PostJSON(ctx, "/api/login", payload, nil)
	if api.StatusCode(err) == http.StatusUnauthorized {
		return ErrInvalidCredentials
	}
	if err != nil {
		return err
	}
	return a.persist(resp, username)
}

func (a *RemoteAuth) persist(resp *http.Response, username string) error {
	token, err := api.TokenFromResponse(resp)
	if err != nil {
		return err
	}
	if err := a.store.Save(token); err != nil {
		return fmt.Errorf("saving auth: %w", err)
	}
	return a.store.SaveUsername(username)
}

// Logout сообщает серверу о выходе и удаляет локальную сессию даже если сервер недоступен.
func (a *RemoteAuth) Logout(ctx context.Context) error {
	token, _ := a.store.Load()
	_, serverErr := api.NewClient(a.baseURL, token).PostJSON(ctx, "/api/logout", struct{}{}, nil)
	if err := a.store.Clear(); err != nil {
		return err
	}
	return serverErr
}

func (a *RemoteAuth) CurrentUser() (string, error) {
	if _, err := a.store.Load(); err != nil {
		return "", ErrNotLoggedIn
	}
	name, err := a.store.LoadUsername()
	if err != nil {
		return "", ErrNotLoggedIn
	}
	return name, nil
}
