package commands

import (
	"StudySync/internal/config"
	"context"
	"fmt"
)

type registerCmd struct{}

func (registerCmd) Name() string        { return "register" }
func (registerCmd) Description() string { return "Create an account and log in" }
func (registerCmd) Usage() string       { return "register <username> <email> [password]" }

func (registerCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) < 2 || len(args) > 3 {
		return ErrUsage
	}
	username, email := args[0], args[1]
	var password string
	if len(args) == 3 {
		password = args[2]
	} else {
		p, err := readPassword("Password: ")
		if err != nil {
			return err
		}
		password = p
	}

	if err := authService(cfg).Register(ctx, username, email, password); err != nil {
		return err
	}
	fmt.Fprintf(Out, "Registered as %s\n", username)
	return nil
}

func init() { Register(sectionAccount, registerCmd{}, "signup") }
