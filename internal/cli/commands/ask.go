package commands

import (
	"StudySync/internal/cli/api"
	"StudySync/internal/config"
	"context"
	"fmt"
	"strings"
)

type askCmd struct{}

func (askCmd) Name() string        { return "ask" }
func (askCmd) Description() string { return "Ask the server assistant one question" }
func (askCmd) Usage() string       { return "ask <question...>" }

func (askCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	question := strings.TrimSpace(strings.Join(args, " "))
	if question == "" {
		return ErrUsage
	}
	reply, err := api.RemoteResponder{Client: apiClient(cfg)}.Respond(ctx, question)
	if err != nil {
		return err
	}
	fmt.Fprintln(Out, reply)
	return nil
}

func init() { Register(sectionStudy, askCmd{}) }
