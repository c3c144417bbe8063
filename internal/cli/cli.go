// Package cli implements the cascade command-line interface.
//
// # Commands
//
//   - run: open the example gallery in the terminal
//   - simulate: step the offset calculator headless and print offsets per frame
//   - graph: print the cell dependency graph as DOT or SVG
//   - config: print the effective configuration
//   - record: drive the Measure example headless and save an asciicast
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context. The run command owns the terminal, so it
// logs to a file instead of stderr.
package cli

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/odvcencio/cascade/config"
)

// appName is the application name used for directories and display.
const appName = "cascade"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// SetVersion sets the version information displayed by --version.
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	// Out receives command output. Defaults to stdout.
	Out io.Writer

	configPath string
	verbose    bool
}

// New creates a new CLI instance that logs to w.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Out:    os.Stdout,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Cascade animates an accordion whose offsets derive from measured heights",
		Long:         `Cascade demonstrates a cascading offset calculator: collapsible sections whose vertical offsets are derived cells over a reactive graph, animated toward heights measured from rendered content.`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if c.verbose {
				c.SetLogLevel(LogDebug)
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}
	root.SetVersionTemplate("cascade {{.Version}}\ncommit: " + commit + "\nbuilt: " + date + "\n")
	root.SetOut(c.Out)

	flags := root.PersistentFlags()
	flags.StringVarP(&c.configPath, "config", "c", "", "config file (.toml, .yaml or .yml)")
	flags.BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(c.runCommand())
	root.AddCommand(c.simulateCommand())
	root.AddCommand(c.graphCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.recordCommand())
	return root
}

// loadConfig reads --config, or the defaults when it is not set. The
// config's log level applies unless --verbose was given.
func (c *CLI) loadConfig() (config.Config, error) {
	cfg, err := config.LoadOptional(c.configPath)
	if err != nil {
		return cfg, err
	}
	if !c.verbose && cfg.LogLevel != "" {
		if level, err := log.ParseLevel(cfg.LogLevel); err == nil {
			c.SetLogLevel(level)
		} else {
			c.Logger.Warn("ignoring log level", "value", cfg.LogLevel, "err", err)
		}
	}
	if c.configPath != "" {
		c.Logger.Debug("config loaded", "path", c.configPath, "sections", len(cfg.Sections))
	}
	return cfg, nil
}

// stateDir returns the state directory using the XDG standard (~/.local/state/cascade/).
func stateDir() (string, error) {
	if stateHome := os.Getenv("XDG_STATE_HOME"); stateHome != "" {
		return filepath.Join(stateHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "state", appName), nil
}
