package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/rubiojr/cdelta/transform"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"
)

// defaultTransformation is used when neither a flag nor the config file
// names one.
const defaultTransformation = "reduce-array-dim"

// exitNoInstance tells a reduction driver that the counter ran past the
// last instance.
const exitNoInstance = 255

// Execute runs the cdelta CLI with the given version string.
// Import transformations via blank imports before calling this function
// so they register via init().
func Execute(version string) {
	os.Exit(run(context.Background(), version, os.Args, os.Stdout, os.Stderr))
}

// run executes the CLI and returns the process exit code.
func run(ctx context.Context, version string, args []string, stdout, stderr io.Writer) int {
	cmd := newCommand(version, stdout, stderr)
	if err := cmd.Run(ctx, args); err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitCode(err)
	}
	return 0
}

func exitCode(err error) int {
	if errors.Is(err, transform.ErrNoInstance) {
		return exitNoInstance
	}
	return 1
}

func newCommand(version string, stdout, stderr io.Writer) *cli.Command {
	return &cli.Command{
		Name:                   "cdelta",
		Usage:                  "Apply one source-to-source reduction step to a C file",
		Version:                version,
		ArgsUsage:              "<file.c>",
		UseShortOptionHandling: true,
		Writer:                 stdout,
		ErrWriter:              stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "transformation",
				Aliases: []string{"t"},
				Usage:   "Transformation to apply (see `cdelta list`)",
				Value:   defaultTransformation,
				Sources: cli.EnvVars("CDELTA_TRANSFORMATION"),
			},
			&cli.IntFlag{
				Name:    "counter",
				Aliases: []string{"c"},
				Usage:   "1-based instance to transform",
				Value:   1,
				Sources: cli.EnvVars("CDELTA_COUNTER"),
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write the result to this file instead of stdout",
			},
			&cli.BoolFlag{
				Name:    "query-instances",
				Aliases: []string{"q"},
				Usage:   "Print the number of instances and exit",
			},
			&cli.BoolFlag{
				Name:    "diff",
				Aliases: []string{"d"},
				Usage:   "Print a unified diff instead of the transformed file",
			},
			&cli.BoolFlag{
				Name:    "no-color",
				Aliases: []string{"C"},
				Usage:   "Disable ANSI color output",
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level: trace, debug, info, warn or error",
				Value:   "warn",
				Sources: cli.EnvVars("CDELTA_LOG_LEVEL"),
			},
			&cli.StringFlag{
				Name:    "config",
				Usage:   "YAML file with default settings",
				Sources: cli.EnvVars("CDELTA_CONFIG"),
			},
		},
		Action: reduceAction,
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List the available transformations",
				Action: listAction,
			},
			{
				Name:      "query",
				Usage:     "Print the number of instances in a C file",
				ArgsUsage: "<file.c>",
				Action:    queryAction,
			},
		},
	}
}

// settings is the effective configuration of one invocation after flags,
// environment and config file are merged.
type settings struct {
	transformation string
	counter        int
	logger         *slog.Logger
	color          bool
}

func loadSettings(cmd *cli.Command) (*settings, error) {
	cfg := &Config{}
	if path := cmd.String("config"); path != "" {
		var err error
		if cfg, err = LoadConfig(path); err != nil {
			return nil, err
		}
	}

	s := &settings{
		transformation: cmd.String("transformation"),
		counter:        cmd.Int("counter"),
	}
	if !cmd.IsSet("transformation") && cfg.Transformation != "" {
		s.transformation = cfg.Transformation
	}
	if !cmd.IsSet("counter") && cfg.Counter != 0 {
		s.counter = cfg.Counter
	}

	levelName := cmd.String("log-level")
	if !cmd.IsSet("log-level") && cfg.LogLevel != "" {
		levelName = cfg.LogLevel
	}
	level, err := parseLevel(levelName)
	if err != nil {
		return nil, err
	}
	s.logger = newLogger(cmd.Root().ErrWriter, level)

	// Colors need a terminal on stdout, and NO_COLOR, --no-color or
	// color: false in the config turn them off.
	s.color = isTerminal(cmd.Root().Writer)
	if cmd.Bool("no-color") || os.Getenv("NO_COLOR") != "" {
		s.color = false
	} else if cfg.Color != nil && !*cfg.Color {
		s.color = false
	}
	return s, nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func parseLevel(name string) (slog.Level, error) {
	if strings.EqualFold(name, "trace") {
		return transform.LevelTrace, nil
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(name)); err != nil {
		return 0, fmt.Errorf("invalid log level %q", name)
	}
	return level, nil
}

func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey && len(groups) == 0 {
				return slog.Attr{}
			}
			if a.Key == slog.LevelKey && a.Value.Any() == transform.LevelTrace {
				return slog.String(slog.LevelKey, "TRACE")
			}
			return a
		},
	}))
}

func readInput(cmd *cli.Command, usage string) (string, []byte, error) {
	if cmd.NArg() < 1 {
		return "", nil, fmt.Errorf("usage: %s", usage)
	}
	name := cmd.Args().First()
	src, err := os.ReadFile(name)
	if err != nil {
		return "", nil, fmt.Errorf("reading input: %w", err)
	}
	return name, src, nil
}

func reduceAction(ctx context.Context, cmd *cli.Command) error {
	name, src, err := readInput(cmd, "cdelta [flags] <file.c>")
	if err != nil {
		return err
	}
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	if cmd.Bool("query-instances") {
		return printInstances(ctx, cmd, s, name, src)
	}

	res, err := transform.Run(ctx, s.transformation, name, src, transform.Options{
		Counter: s.counter,
		Logger:  s.logger,
	})
	if err != nil {
		return err
	}

	out := res.Output
	if cmd.Bool("diff") {
		diff, err := unifiedDiff(name, src, res.Output)
		if err != nil {
			return err
		}
		if s.color && cmd.String("output") == "" {
			diff = colorize(diff)
		}
		out = []byte(diff)
	}

	if path := cmd.String("output"); path != "" {
		if err := os.WriteFile(path, out, 0644); err != nil {
			return fmt.Errorf("writing output: %w", err)
		}
		return nil
	}
	_, err = cmd.Root().Writer.Write(out)
	return err
}

func queryAction(ctx context.Context, cmd *cli.Command) error {
	name, src, err := readInput(cmd, "cdelta query [flags] <file.c>")
	if err != nil {
		return err
	}
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	return printInstances(ctx, cmd, s, name, src)
}

func printInstances(ctx context.Context, cmd *cli.Command, s *settings, name string, src []byte) error {
	n, err := transform.Query(ctx, s.transformation, name, src, transform.Options{Logger: s.logger})
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.Root().Writer, "Available transformation instances: %d\n", n)
	return nil
}

func listAction(ctx context.Context, cmd *cli.Command) error {
	w := cmd.Root().Writer
	for _, name := range transform.Names() {
		t, _ := transform.Get(name)
		desc, _, _ := strings.Cut(t.Description(), "\n")
		fmt.Fprintf(w, "%-20s %s\n", name, desc)
	}
	return nil
}
