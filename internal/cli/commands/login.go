package commands

import (
	"StudySync/internal/config"
	"context"
	"fmt"
)

type loginCmd struct{}

func (loginCmd) Name() string        { return "login" }
func (loginCmd) Description() string { return "Login and store auth cookie" }
func (loginCmd) Usage() string       { return "login <username> [password]" }

func (loginCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return ErrUsage
	}
	username := args[0]
	var password string
	if len(args) == 2 {
		password = args[1]
	} else {
		p, err := readPassword("Password: ")
		if err != nil {
			return err
		}
		password = p
	}

	if err := authService(cfg).Login(ctx, username, password); err != nil {
		return err
	}
	fmt.Fprintln(Out, "Logged in successfully")
	return nil
}

func init() { Register(sectionAccount, loginCmd{}, "signin") }
