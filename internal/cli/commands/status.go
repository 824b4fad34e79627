package commands

import (
	"StudySync/internal/config"
	"context"
	"fmt"
)

type statusResponse struct {
	Available bool   `json:"available"`
	Message   string `json:"message"`
}

type currentUser struct {
	Username string `json:"username"`
	XP       int    `json:"xp"`
}

type statusCmd struct{}

func (statusCmd) Name() string        { return "status" }
func (statusCmd) Description() string { return "Show assistant and session status" }
func (statusCmd) Usage() string       { return "status" }

func (statusCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	client := apiClient(cfg)

	var st statusResponse
	if _, err := client.GetJSON(ctx, "/api/chat/status", &st); err != nil {
		return err
	}
	fmt.Fprintln(Out, "Assistant:", st.Message)

	if client.Token == "" {
		fmt.Fprintln(Out, "Session: not logged in")
		return nil
	}
	var u currentUser
	if _, err := client.GetJSON(ctx, "/api/user", &u); err != nil {
		fmt.Fprintf(Out, "Session: invalid (%v)\n", err)
		return nil
	}
	fmt.Fprintf(Out, "Session: %s (%d XP)\n", u.Username, u.XP)
	return nil
}

func init() { Register(sectionAccount, statusCmd{}, "whoami") }
