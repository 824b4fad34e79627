package fs

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	clirepo "StudySync/internal/cli/repo"
)

// AppDir — подкаталог пользовательского конфига для клиента.
const AppDir = "StudySync"

// AuthFSStore — файловое хранилище токена и контекста пользователя для CLI.
// Пустой Dir означает <UserConfigDir>/StudySync.
type AuthFSStore struct {
	Dir string
}

var (
	_ clirepo.TokenStore       = AuthFSStore{}
	_ clirepo.UserContextStore = AuthFSStore{}
)

func (s AuthFSStore) configDir() (string, error) {
	p := s.Dir
	if p == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return "", err
		}
		p = filepath.Join(dir, AppDir)
	}
	if err := os.MkdirAll(p, 0o700); err != nil {
		return "", err
	}
	return p, nil
}

func (s AuthFSStore) path(name string) (string, error) {
	dir, err := s.configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name), nil
}

func (s AuthFSStore) write(name, value string) error {
	p, err := s.path(name)
	if err != nil {
		return err
	}
	return os.WriteFile(p, []byte(value), 0o600)
}

// read возвращает содержимое файла без завершающих пробелов и переводов строк.
func (s AuthFSStore) read(name string) (string, error) {
	p, err := s.path(name)
	if err != nil {
		return "", err
	}
	b, err := os.ReadFile(p)
	if err != nil {
		return "", err
	}
	v := strings.TrimRight(string(b), " \t\r\n")
	if v == "" {
		return "", errors.New("empty " + name + " file")
	}
	return v, nil
}

// Save сохраняет auth‑токен в файл.
func (s AuthFSStore) Save(token string) error {
	return s.write("auth_token", token)
}

// Load читает auth‑токен из файла.
func (s AuthFSStore) Load() (string, error) {
	return s.read("auth_token")
}

// Clear удаляет сохранённый токен и имя пользователя. Отсутствие файлов не ошибка.
func (s AuthFSStore) Clear() error {
	for _, name := range []string{"auth_token", "last_login"} {
		p, err := s.path(name)
		if err != nil {
			return err
		}
		if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
	}
	return nil
}

// SaveUsername сохраняет имя пользователя последнего входа.
func (s AuthFSStore) SaveUsername(username string) error {
	if username == "" {
		return errors.New("empty username")
	}
	return s.write("last_login", username)
}

// LoadUsername читает имя пользователя последнего входа.
func (s AuthFSStore) LoadUsername() (string, error) {
	return s.read("last_login")
}
