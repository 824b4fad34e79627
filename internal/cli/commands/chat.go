package commands

import (
	"StudySync/internal/chat"
	"StudySync/internal/cli/api"
	"StudySync/internal/config"
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
)

type chatCmd struct{}

func (chatCmd) Name() string        { return "chat" }
func (chatCmd) Description() string { return "Talk to the study assistant (/clear, /quit)" }
func (chatCmd) Usage() string       { return "chat [--remote]" }

func (chatCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("chat", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	remote := fs.Bool("remote", false, "answer through the server instead of the offline table")
	if err := fs.Parse(args); err != nil || fs.NArg() != 0 {
		return ErrUsage
	}

	var (
		welcome   string
		responder chat.Responder
	)
	if *remote {
		welcome = chat.DefaultTable().Welcome()
		responder = api.RemoteResponder{Client: apiClient(cfg)}
	} else {
		quick := chat.QuickTable()
		welcome = quick.Welcome()
		responder = chat.NewMatcher(quick)
	}
	return runChat(ctx, chat.NewSession(welcome, responder), In)
}

// runChat — цикл чтения сообщений до /quit, конца ввода или отмены контекста.
func runChat(ctx context.Context, session *chat.Session, in io.Reader) error {
	printLast(session)

	sc := bufio.NewScanner(in)
	for {
		fmt.Fprint(Out, "> ")
		if !sc.Scan() {
			fmt.Fprintln(Out)
			return sc.Err()
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		line := strings.TrimSpace(sc.Text())
		switch line {
		case "":
			continue
		case "/quit", "/exit":
			return nil
		case "/clear":
			session.Clear()
			printLast(session)
			continue
		}

		reply, err := session.Submit(ctx, line)
		switch {
		case errors.Is(err, chat.ErrEmptyMessage):
			continue
		case err != nil:
			fmt.Fprintf(Out, "Assistant is unavailable: %v\n", err)
			continue
		}
		fmt.Fprintf(Out, "Assistant: %s\n", reply.Content)
	}
}

func printLast(session *chat.Session) {
	msgs := session.Messages()
	fmt.Fprintf(Out, "Assistant: %s\n", msgs[len(msgs)-1].Content)
}

func init() { Register(sectionStudy, chatCmd{}) }
