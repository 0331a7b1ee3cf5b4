package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/dmitrijs2005/timecapsule/internal/client/services"
	"github.com/dmitrijs2005/timecapsule/internal/common"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// command is one REPL verb.
type command struct {
	usage string
	help  string
	run   func(ctx context.Context, args []string) error
}

// runREPL starts a simple read–eval–print loop.
//
// It reads a line from reader, parses the first token as the command, and
// dispatches to cmds. "help" lists the commands, "exit" and "quit" leave the
// loop, as does EOF or a cancelled context. A failing command prints a
// user-facing message and the loop continues; a panicking command is
// recovered and reported as a generic failure.
func runREPL(ctx context.Context, cmds map[string]command, statusFn func() string, reader *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			return
		}
		printlnFn(fmt.Sprintf("capsule %s> ", statusFn()))

		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		name, args := parts[0], parts[1:]

		switch name {
		case "help":
			printHelp(cmds)
			continue
		case "exit", "quit":
			printlnFn("Bye!")
			return
		}

		cmd, ok := cmds[name]
		if !ok {
			printlnFn("Unknown command:", name)
			continue
		}
		if err := execute(ctx, cmd, args); err != nil {
			printlnFn("Error:", message(err))
		}
	}
}

func execute(ctx context.Context, cmd command, args []string) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("%w: %v", common.ErrorInternal, p)
		}
	}()
	return cmd.run(ctx, args)
}

// message is services.Message plus the REPL's own usage errors.
func message(err error) string {
	var ue *usageError
	if errors.As(err, &ue) {
		return ue.Error()
	}
	return services.Message(err)
}

func printHelp(cmds map[string]command) {
	names := make([]string, 0, len(cmds))
	for n := range cmds {
		names = append(names, n)
	}
	sort.Strings(names)

	printlnFn("Available commands:")
	for _, n := range names {
		c := cmds[n]
		printlnFn(fmt.Sprintf("  %-28s %s", c.usage, c.help))
	}
	printlnFn(fmt.Sprintf("  %-28s %s", "exit | quit", "leave the program"))
}
