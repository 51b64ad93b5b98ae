package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/chzyer/readline"
	"github.com/flynn-archive/go-shlex"
	metricsconfig "github.com/nspcc-dev/segstore/cmd/segstore/config/metrics"
	"github.com/nspcc-dev/segstore/cmd/segstore/internal/common"
	httputil "github.com/nspcc-dev/segstore/pkg/util/http"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var errExit = errors.New("exit")

type shellCommand struct {
	usage string
	args  int // -1 for any positive number
	run   func(env *common.Env, w io.Writer, args []string) error
}

var shellCommands = map[string]shellCommand{
	"write": {"write <path> <content>", 2, func(env *common.Env, _ io.Writer, args []string) error {
		return env.Service.Write(args[0], []byte(args[1]))
	}},
	"append": {"append <path> <content>", 2, func(env *common.Env, _ io.Writer, args []string) error {
		return env.Service.Append(args[0], []byte(args[1]))
	}},
	"read": {"read <path>", 1, func(env *common.Env, w io.Writer, args []string) error {
		obj, err := env.Service.Read(args[0])
		if err != nil {
			return err
		}
		if !obj.HasContent() {
			fmt.Fprintf(w, "%s has no content\n", obj.Path())
			return nil
		}
		fmt.Fprintf(w, "%s\n", obj.Content())
		return nil
	}},
	"touch": {"touch <path>", 1, func(env *common.Env, _ io.Writer, args []string) error {
		_, err := env.Service.Create(args[0])
		return err
	}},
	"rm": {"rm <path>...", -1, func(env *common.Env, _ io.Writer, args []string) error {
		for i := range args {
			if err := env.Service.Delete(args[i]); err != nil {
				return err
			}
		}
		return nil
	}},
	"mv": {"mv <old path> <new path>", 2, func(env *common.Env, _ io.Writer, args []string) error {
		return env.Service.Move(args[0], args[1])
	}},
	"ls": {"ls", 0, func(env *common.Env, w io.Writer, _ []string) error {
		recs, err := collectRecords(env.Store)
		if err != nil {
			return err
		}
		printRecords(w, recs)
		return nil
	}},
	"holes": {"holes", 0, func(env *common.Env, w io.Writer, _ []string) error {
		printHoles(w, env.Store.Holes())
		return nil
	}},
	"metrics": {"metrics", 0, func(env *common.Env, w io.Writer, _ []string) error {
		return printMetrics(w, env.Service.Metrics())
	}},
	"compact": {"compact", 0, func(env *common.Env, w io.Writer, _ []string) error {
		res, err := env.Service.Compact()
		if err != nil {
			return err
		}
		printCompactRes(w, res)
		return nil
	}},
	"check": {"check", 0, func(env *common.Env, w io.Writer, _ []string) error {
		res, err := env.Store.Check(context.Background())
		if err != nil {
			return err
		}
		printCheckRes(w, res)
		return nil
	}},
}

func newShellCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Start interactive shell",
		Long:  "Start interactive shell keeping storage open between commands. Type 'help' for the list of commands.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withStorage(cmd, false, runShell)
		},
	}
}

func runShell(env *common.Env) error {
	if env.Registry != nil {
		srv := httputil.New(metricsconfig.Address(env.Config), promhttp.HandlerFor(env.Registry, promhttp.HandlerOpts{}))

		go func() {
			env.Log.Info("serving metrics", zap.String("address", srv.Address()))
			if err := srv.Serve(); err != nil {
				env.Log.Error("metrics server failure", zap.Error(err))
			}
		}()

		defer func() {
			if err := srv.Shutdown(); err != nil {
				env.Log.Debug("metrics server shutdown", zap.Error(err))
			}
		}()
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		AutoComplete:    shellCompleter(),
	})
	if err != nil {
		return fmt.Errorf("init readline: %w", err)
	}
	defer rl.Close()

	for {
		line, err := rl.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) {
				if line == "" {
					return nil
				}
				continue
			}
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		err = runShellLine(env, rl.Stdout(), line)
		if errors.Is(err, errExit) {
			return nil
		}
		if err != nil {
			fmt.Fprintln(rl.Stderr(), "Error:", err)
		}
	}
}

// runShellLine executes single shell command line. errExit is returned on
// exit request.
func runShellLine(env *common.Env, w io.Writer, line string) error {
	args, err := shlex.Split(line)
	if err != nil {
		return fmt.Errorf("parse command line: %w", err)
	}
	if len(args) == 0 {
		return nil
	}

	switch args[0] {
	case "exit", "quit":
		return errExit
	case "help":
		printShellHelp(w)
		return nil
	}

	c, ok := shellCommands[args[0]]
	if !ok {
		return fmt.Errorf("unknown command %q, type 'help' for the list of commands", args[0])
	}

	args = args[1:]
	if (c.args < 0 && len(args) == 0) || (c.args >= 0 && len(args) != c.args) {
		return fmt.Errorf("usage: %s", c.usage)
	}

	return c.run(env, w, args)
}

func shellCommandNames() []string {
	names := make([]string, 0, len(shellCommands)+2)
	for name := range shellCommands {
		names = append(names, name)
	}
	names = append(names, "help", "exit")
	slices.Sort(names)
	return names
}

func printShellHelp(w io.Writer) {
	for _, name := range shellCommandNames() {
		if c, ok := shellCommands[name]; ok {
			fmt.Fprintf(w, "  %s\n", c.usage)
		} else {
			fmt.Fprintf(w, "  %s\n", name)
		}
	}
}

func shellCompleter() *readline.PrefixCompleter {
	names := shellCommandNames()
	items := make([]readline.PrefixCompleterInterface, len(names))
	for i := range names {
		items[i] = readline.PcItem(names[i])
	}
	return readline.NewPrefixCompleter(items...)
}
