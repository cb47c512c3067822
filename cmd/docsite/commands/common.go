package commands

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/docsite/internal/config"
	"git.home.luguber.info/inful/docsite/internal/logfields"
	"git.home.luguber.info/inful/docsite/internal/repository"
)

// DefaultConfigPath is used when --config is not given. A missing file at
// this path means "use the built-in defaults".
const DefaultConfigPath = "docsite.yaml"

// Environment overrides for the configured logging section.
const (
	LogLevelEnv  = "DOCSITE_LOG_LEVEL"
	LogFormatEnv = "DOCSITE_LOG_FORMAT"
)

// Global carries state shared by all commands.
type Global struct {
	Logger *slog.Logger
	Out    io.Writer
	Err    io.Writer
}

// NewGlobal returns a Global writing to the process streams.
func NewGlobal() *Global {
	return &Global{Logger: slog.Default(), Out: os.Stdout, Err: os.Stderr}
}

// CLI definition & global flags.
type CLI struct {
	Config           string           `short:"c" help:"Configuration file path (.yaml, .yml or .toml)" default:"docsite.yaml"`
	Verbose          bool             `short:"v" help:"Enable verbose logging"`
	Version          kong.VersionFlag `name:"version" help:"Show version and exit"`
	DetectRepository bool             `name:"detect-repository" help:"Fill repository settings that still hold defaults from the local git checkout"`

	Publish PublishCmd `cmd:"" default:"1" help:"Copy the pre-built artifact into the static directory (default)"`
	Check   CheckCmd   `cmd:"" help:"Verify that pages referencing the artifact will find it"`
	Watch   WatchCmd   `cmd:"" help:"Republish whenever the artifact changes"`
	Inspect InspectCmd `cmd:"" help:"Show the artifact's title, size and the resources it loads"`
	History HistoryCmd `cmd:"" help:"List recent publish runs"`
	Conf    ConfigCmd  `cmd:"" name:"config" help:"Validate or render the site configuration"`
	Init    InitCmd    `cmd:"" help:"Initialize a new configuration file"`
}

// AfterApply runs after flag parsing; it sets up logging from the flag and
// the environment. The configuration file may refine it later.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	slog.SetDefault(newLogger(os.Stderr, c.flagLevel(""), c.flagFormat(config.LogFormatText)))
	return nil
}

// flagLevel resolves the level: --verbose, then DOCSITE_LOG_LEVEL, then configured.
func (c *CLI) flagLevel(configured config.LogLevel) slog.Level {
	if c.Verbose {
		return slog.LevelDebug
	}
	if env := strings.TrimSpace(os.Getenv(LogLevelEnv)); env != "" {
		return slogLevel(config.NormalizeLogLevel(env))
	}
	return slogLevel(configured)
}

// flagFormat resolves the handler format: DOCSITE_LOG_FORMAT, then configured.
func (c *CLI) flagFormat(configured config.LogFormat) config.LogFormat {
	if env := strings.TrimSpace(os.Getenv(LogFormatEnv)); env != "" {
		return config.NormalizeLogFormat(env)
	}
	return configured
}

func slogLevel(l config.LogLevel) slog.Level {
	switch l {
	case config.LogLevelDebug:
		return slog.LevelDebug
	case config.LogLevelWarn:
		return slog.LevelWarn
	case config.LogLevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func newLogger(w io.Writer, level slog.Level, format config.LogFormat) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	if format == config.LogFormatJSON {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// BaseDir is the directory relative paths in the configuration resolve against:
// the configuration file's directory.
func (c *CLI) BaseDir() string {
	if c.Config == "" {
		return "."
	}
	return filepath.Dir(c.Config)
}

// Resolve makes p absolute against BaseDir unless it already is.
func (c *CLI) Resolve(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.BaseDir(), p)
}

// LoadConfig loads the configuration file, falling back to the defaults when
// the default path does not exist. It reconfigures g.Logger from the
// monitoring section and applies --detect-repository.
func (c *CLI) LoadConfig(g *Global) (*config.Config, error) {
	var cfg *config.Config
	if c.usingDefaultPath() && !exists(c.Config) {
		g.Logger.Debug("No configuration file, using defaults", logfields.Config(c.Config))
		cfg = config.Default()
	} else {
		loaded, err := config.Load(c.Config)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	g.Logger = newLogger(g.errWriter(), c.flagLevel(cfg.Monitoring.Logging.Level), c.flagFormat(cfg.Monitoring.Logging.Format))
	slog.SetDefault(g.Logger)

	if c.DetectRepository {
		info, err := repository.Detect(c.BaseDir())
		if err != nil {
			return nil, err
		}
		if changed := info.Apply(&cfg.Repository); len(changed) > 0 {
			g.Logger.Info("Repository settings detected from git",
				slog.Any("fields", changed),
				slog.String("remote", info.RemoteURL))
		}
		if err := config.Validate(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

func (c *CLI) usingDefaultPath() bool {
	return c.Config == DefaultConfigPath
}

func (g *Global) errWriter() io.Writer {
	if g.Err != nil {
		return g.Err
	}
	return os.Stderr
}

func (g *Global) out() io.Writer {
	if g.Out != nil {
		return g.Out
	}
	return os.Stdout
}

// exists reports whether p can be stat'ed. Any stat failure, not only
// "not exist", counts as absent.
func exists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
