package commands

import (
	"StudySync/internal/config"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"text/tabwriter"
)

// ErrUsage — команда получила неверные аргументы, нужно показать её usage.
var ErrUsage = errors.New("usage")

// Command — подкоманда sscli.
type Command interface {
	// Name — имя, которое набирает пользователь, например "login".
	Name() string
	// Description — строка для справки.
	Description() string
	// Usage — аргументы после имени программы, например "login <username> [password]".
	Usage() string
	Run(ctx context.Context, cfg *config.Config, args []string) error
}

// Разделы справки в порядке вывода.
const (
	sectionAccount = "Account"
	sectionStudy   = "Study"
	sectionOther   = "Other"
)

var sectionOrder = []string{sectionAccount, sectionStudy, sectionOther}

type entry struct {
	cmd     Command
	section string
	aliases []string
}

var (
	registry = map[string]*entry{}
	// aliases отображает синоним на основное имя команды
	aliases = map[string]string{}
)

// Out — writer для вывода CLI, в тестах подменяется.
var Out io.Writer = os.Stdout

// In — источник ввода для интерактивных команд.
var In io.Reader = os.Stdin

// Register добавляет команду в раздел справки вместе с синонимами.
// Вызывается из init() файла команды; повторная регистрация заменяет прежнюю.
func Register(section string, cmd Command, alias ...string) {
	name := strings.ToLower(cmd.Name())
	if old, ok := registry[name]; ok {
		for _, a := range old.aliases {
			delete(aliases, a)
		}
	}
	registry[name] = &entry{cmd: cmd, section: section, aliases: alias}
	for _, a := range alias {
		aliases[strings.ToLower(a)] = name
	}
}

// Lookup ищет команду по имени или синониму без учёта регистра.
func Lookup(name string) (Command, bool) {
	name = strings.ToLower(name)
	if target, ok := aliases[name]; ok {
		name = target
	}
	e, ok := registry[name]
	if !ok {
		return nil, false
	}
	return e.cmd, true
}

func sorted(section string) []*entry {
	var list []*entry
	for _, e := range registry {
		if e.section == section {
			list = append(list, e)
		}
	}
	slices.SortFunc(list, func(a, b *entry) int { return strings.Compare(a.cmd.Name(), b.cmd.Name()) })
	return list
}

// commandUsage — строка "Usage:" для одной команды.
func commandUsage(c Command) string {
	line := "Usage: sscli " + c.Usage()
	if e := registry[strings.ToLower(c.Name())]; e != nil && len(e.aliases) > 0 {
		line += fmt.Sprintf(" (aliases: %s)", strings.Join(e.aliases, ", "))
	}
	return line + "\n"
}

// FormatGlobalUsage собирает общую справку: команды по разделам и
// переменные окружения клиента.
func FormatGlobalUsage() string {
	var b strings.Builder
	b.WriteString("StudySync CLI\n\n")
	b.WriteString("Usage:\n  sscli [--base-url <host:port>] [--https] [--config-dir <dir>] <command> [args]\n")

	tw := tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)
	for _, section := range sectionOrder {
		list := sorted(section)
		if len(list) == 0 {
			continue
		}
		fmt.Fprintf(tw, "\n%s commands:\n", section)
		for _, e := range list {
			fmt.Fprintf(tw, "  %s\t%s\n", e.cmd.Usage(), e.cmd.Description())
		}
	}
	fmt.Fprint(tw, "\nEnvironment:\n")
	fmt.Fprint(tw, "  BASE_URL\tserver address host:port (default localhost:5000)\n")
	fmt.Fprint(tw, "  ENABLE_HTTPS\tuse https scheme\n")
	fmt.Fprint(tw, "  CLIENT_CONFIG_DIR\twhere the session cookie is kept\n")
	_ = tw.Flush()
	return b.String()
}
