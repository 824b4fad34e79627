package commands

import (
	"StudySync/internal/cli/api"
	"StudySync/internal/cli/service"
	"StudySync/internal/config"
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"slices"
)

// Коды выхода sscli.
const (
	exitOK          = 0
	exitFailure     = 1
	exitUsage       = 2
	exitInterrupted = 130 // 128 + SIGINT
)

// Dispatch выполняет команду из args и возвращает код выхода процесса.
func Dispatch(ctx context.Context, cfg *config.Config, args []string) int {
	if slices.ContainsFunc(os.Args[1:], isHelpFlag) {
		fmt.Fprint(Out, FormatGlobalUsage())
		return exitOK
	}
	if !flag.Parsed() {
		flag.Parse()
	}

	if len(args) == 0 {
		fmt.Fprint(Out, FormatGlobalUsage())
		return exitUsage
	}
	if args[0] == "help" {
		return help(args[1:])
	}

	c, ok := Lookup(args[0])
	if !ok {
		return unknown(args[0])
	}
	return report(c, c.Run(ctx, cfg, args[1:]))
}

func isHelpFlag(a string) bool { return a == "--help" || a == "-h" }

// help обрабатывает "sscli help [command]".
func help(args []string) int {
	if len(args) == 0 {
		fmt.Fprint(Out, FormatGlobalUsage())
		return exitOK
	}
	c, ok := Lookup(args[0])
	if !ok {
		return unknown(args[0])
	}
	fmt.Fprint(Out, commandUsage(c))
	fmt.Fprintf(Out, "  %s\n", c.Description())
	return exitOK
}

func unknown(name string) int {
	fmt.Fprintf(Out, "Unknown command: %s\n\n", name)
	fmt.Fprint(Out, FormatGlobalUsage())
	return exitUsage
}

// report печатает итог команды и переводит ошибку в код выхода.
func report(c Command, err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, ErrUsage):
		fmt.Fprint(Out, commandUsage(c))
		return exitUsage
	case errors.Is(err, context.Canceled):
		fmt.Fprintln(Out, "interrupted")
		return exitInterrupted
	case errors.Is(err, service.ErrNotLoggedIn), api.StatusCode(err) == http.StatusUnauthorized:
		fmt.Fprintf(Out, "%s: session expired or missing, run: sscli login <username>\n", c.Name())
		return exitFailure
	default:
		fmt.Fprintf(Out, "%s error: %v\n", c.Name(), err)
		return exitFailure
	}
}
