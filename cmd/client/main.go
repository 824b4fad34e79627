package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"

	"StudySync/internal/cli/commands"
	"StudySync/internal/config"
)

// Задаются через -ldflags "-X main.version=... -X main.buildDate=...".
var (
	version   = ""
	buildDate = ""
)

func main() {
	cfg := config.NewConfig()

	if cfg.Version {
		writeVersion(os.Stdout, cfg)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := commands.Dispatch(ctx, cfg, flag.Args())
	stop()
	os.Exit(code)
}

// writeVersion печатает версию клиента; без ldflags берёт данные из сборки модуля.
func writeVersion(w io.Writer, cfg *config.Config) {
	v, built := version, buildDate
	if info, ok := debug.ReadBuildInfo(); ok {
		if v == "" {
			v = info.Main.Version
		}
		for _, s := range info.Settings {
			if built == "" && s.Key == "vcs.time" {
				built = s.Value
			}
		}
	}
	if v == "" {
		v = "(devel)"
	}
	if built == "" {
		built = "unknown"
	}
	fmt.Fprintf(w, "sscli %s (built %s)\nserver: %s\n", v, built, cfg.ServerURL)
}
