package commands

import (
	"StudySync/internal/cli/api"
	fsrepo "StudySync/internal/cli/repo/fs"
	"StudySync/internal/cli/service"
	"StudySync/internal/config"
	"bufio"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"
)

func authStore(cfg *config.Config) fsrepo.AuthFSStore {
	return fsrepo.AuthFSStore{Dir: cfg.ClientConfigDir}
}

func authService(cfg *config.Config) service.AuthService {
	return service.NewRemoteAuth(cfg.ServerURL, authStore(cfg))
}

// apiClient — клиент API с сохранённой сессией, если она есть.
func apiClient(cfg *config.Config) *api.Client {
	token, _ := authStore(cfg).Load()
	return api.NewClient(cfg.ServerURL, token)
}

// readPassword запрашивает пароль без эха, если stdin — терминал.
var readPassword = func(prompt string) (string, error) {
	fmt.Fprint(Out, prompt)
	if f, ok := In.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(Out)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
	line, err := bufio.NewReader(In).ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
