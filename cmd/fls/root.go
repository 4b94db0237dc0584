package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fls/internal/clock"
	"fls/internal/config"
	"fls/internal/errors"
	"fls/internal/filter"
	"fls/internal/fsys"
	"fls/internal/idmap"
	"fls/internal/listing"
	"fls/internal/log"
	"fls/internal/output"
	"fls/internal/style"
	"fls/internal/watch"

	"github.com/spf13/cobra"
)

// clearScreen moves the cursor home and clears the terminal.
const clearScreen = "\x1b[H\x1b[2J"

// app is one invocation of the command.
type app struct {
	stdout io.Writer
	stderr io.Writer
	flags  flags
	code   int
}

// execute runs the command line and returns the process exit code.
func execute(args []string, stdout, stderr io.Writer) int {
	a := &app{stdout: stdout, stderr: stderr}
	cmd := a.rootCmd()
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(stderr, "fls: %v\n", err)
		if a.code == errors.ExitOK {
			a.code = errors.ExitUsage
		}
	}
	return a.code
}

func (a *app) rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "fls [flags] [path...]",
		Short:         "List directory contents",
		Long:          `fls lists directory contents, sorted naturally and laid out in as many columns as the terminal allows.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd.Context(), args)
		},
	}
	cmd.SetOut(a.stdout)
	cmd.SetErr(a.stderr)
	cmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		a.code = errors.ExitUsage
		return err
	})

	helpTemplate := drawBanner() + "\n\n" + cmd.UsageTemplate()
	cmd.SetUsageTemplate(helpTemplate)
	cmd.SetHelpTemplate(helpTemplate)

	a.flags.register(cmd.Flags())
	return cmd
}

// settings is everything resolved once at startup.
type settings struct {
	opts     config.Options
	cfg      *config.Config
	table    *style.Table
	filter   *filter.Filter
	ids      *idmap.Map
	terminal bool
}

func (a *app) run(ctx context.Context, args []string) error {
	if a.flags.initConfig {
		return a.initConfig()
	}
	s, err := a.resolve()
	if err != nil {
		a.code = errors.CodeOf(err)
		if a.code == errors.ExitFailure {
			a.code = errors.ExitUsage
		}
		return err
	}
	defer log.Close()

	a.code = a.list(s, args).Code()
	if !a.flags.watch {
		return nil
	}
	if err := a.watch(ctx, s, args); err != nil {
		a.code = errors.CodeOf(err)
		return err
	}
	return nil
}

// initConfig writes the default settings to the config location.
func (a *app) initConfig() error {
	path := a.flags.configFile
	if path == "" {
		p, err := config.Path()
		if err != nil {
			a.code = errors.ExitFailure
			return errors.Wrap(err, "cannot locate config file")
		}
		path = p
	}
	if _, err := os.Stat(path); err == nil {
		a.code = errors.ExitFailure
		return errors.Newf("config file %s already exists", path)
	}
	if err := config.SaveConfig(config.New(), path); err != nil {
		a.code = errors.ExitFailure
		return errors.Wrapf(err, "cannot write config file %s", path)
	}
	fmt.Fprintf(a.stdout, "wrote %s\n", path)
	return nil
}

// resolve loads the config file, applies the flags on top and builds the
// run-wide collaborators.
func (a *app) resolve() (*settings, error) {
	f := &a.flags

	var cfg *config.Config
	var err error
	if f.configFile != "" {
		cfg, err = config.LoadConfigFile(f.configFile)
	} else {
		cfg, err = config.LoadConfig()
	}
	if err != nil {
		return nil, err
	}

	log.Configure(logOptions(cfg, a.stderr)...)
	log.SetDebug(f.debug)

	width, terminal := a.terminal()
	opts := config.DefaultOptions(width)
	cfg.Apply(&opts)
	f.apply(&opts, terminal, width)

	colorSetting := cfg.Color
	if f.color != "" {
		colorSetting = f.color
	}
	mode, err := config.ParseColorMode(colorSetting)
	if err != nil {
		return nil, errors.NewConfigError("invalid argument", "--color", errors.InvalidArgument, err)
	}
	opts.Color = config.ResolveColor(mode, terminal)

	table, err := style.NewTable(cfg.Extensions)
	if err != nil {
		return nil, errors.NewConfigError("invalid configuration", "extensions", errors.InvalidConfig, err)
	}

	flt, err := filter.New(opts.ShowAll, append(cfg.Hide, f.hide...), append(cfg.Ignore, f.ignore...), cfg.GitIgnore || f.gitignore)
	if err != nil {
		return nil, err
	}

	ids := idmap.Empty()
	if opts.Display == config.Long && !opts.NumericIDs && (opts.PrintOwner || opts.PrintGroup) {
		ids = idmap.Load(cfg.PasswdFile, cfg.GroupFile)
	}

	log.LogWithFields(
		log.F("display", opts.Display.String()),
		log.F("width", opts.TerminalWidth),
		log.F("color", opts.Color),
		log.F("needs_details", opts.NeedsDetails()),
	).Debug("resolved options")

	return &settings{opts: opts, cfg: cfg, table: table, filter: flt, ids: ids, terminal: terminal}, nil
}

func logOptions(cfg *config.Config, stderr io.Writer) []log.Option {
	level := cfg.LogLevel
	if level == "" {
		level = "warn"
	}
	opts := []log.Option{log.WithOutput(stderr), log.WithLevel(level)}
	if cfg.LogFormat == "json" {
		opts = append(opts, log.WithJSON())
	}
	if cfg.LogFile != "" {
		opts = append(opts, log.WithFile(cfg.LogFile))
	}
	return opts
}

// terminal reports the width of standard output and whether it is a
// terminal at all.
func (a *app) terminal() (int, bool) {
	const fallbackWidth = 80
	f, ok := a.stdout.(*os.File)
	if !ok {
		return fallbackWidth, false
	}
	width, err := fsys.TerminalWidth(int(f.Fd()))
	if err != nil {
		log.LogWithError(err).Debug("standard output is not a terminal")
		return fallbackWidth, false
	}
	return width, true
}

// list performs one complete listing.
func (a *app) list(s *settings, args []string) *errors.ExitStatus {
	opts := s.opts
	w := output.NewWriter(a.stdout, opts.Color)
	rep := listing.NewReporter(w, a.stderr)
	classifier := style.NewClassifier(s.table, &opts)
	renderer := output.NewRenderer(w, &opts, classifier, s.ids, clock.New(s.cfg.Location(), time.Now()), rep)
	return listing.New(&opts, renderer, s.filter, rep).Run(args)
}

// watch re-lists whenever one of the listed directories changes, until
// interrupted.
func (a *app) watch(ctx context.Context, s *settings, args []string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	paths := args
	if len(paths) == 0 {
		paths = []string{"."}
	}
	var dirs []string
	for _, p := range paths {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			dirs = append(dirs, p)
		}
	}
	if len(dirs) == 0 {
		return errors.NewConfigError("nothing to watch", "--watch", errors.InvalidArgument, nil)
	}

	return watch.Run(ctx, dirs, watch.DefaultDebounce, func() {
		if s.terminal {
			io.WriteString(a.stdout, clearScreen)
		}
		a.code = a.list(s, args).Code()
	})
}
