package commands

import (
	"StudySync/internal/config"
	"context"
	"fmt"
)

type logoutCmd struct{}

func (logoutCmd) Name() string        { return "logout" }
func (logoutCmd) Description() string { return "Forget the stored session" }
func (logoutCmd) Usage() string       { return "logout" }

// Run удаляет локальную сессию; недоступный сервер не мешает выходу.
func (logoutCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	if err := authService(cfg).Logout(ctx); err != nil {
		fmt.Fprintf(Out, "warning: server logout failed: %v\n", err)
	}
	fmt.Fprintln(Out, "Logged out")
	return nil
}

func init() { Register(sectionAccount, logoutCmd{}) }
