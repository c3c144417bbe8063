package cli

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/odvcencio/cascade/backend/tcell"
	"github.com/odvcencio/cascade/config"
	"github.com/odvcencio/cascade/content"
	"github.com/odvcencio/cascade/runtime"
	"github.com/odvcencio/cascade/terminal"
	"github.com/odvcencio/cascade/widgets"
)

const (
	// slowFrame is the render time above which a frame is logged.
	slowFrame = 8 * time.Millisecond
	statusTTL = 4 * time.Second
)

func (c *CLI) runCommand() *cobra.Command {
	var logFile string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Open the example gallery in the terminal",
		Long: `Open the example gallery. Pick "Measure" to toggle sections whose offsets
follow their animated heights. Logs go to a file since the terminal is taken.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !isTerminal(os.Stdin) {
				return errors.New("run needs an interactive terminal; use simulate or record instead")
			}
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if logFile != "" {
				cfg.LogFile = logFile
			}
			return c.runGallery(cmd.Context(), cfg)
		},
	}
	cmd.Flags().StringVar(&logFile, "log-file", "", "log file (default $XDG_STATE_HOME/cascade/cascade.log)")
	return cmd
}

func (c *CLI) runGallery(ctx context.Context, cfg config.Config) error {
	path, err := logFilePath(cfg.LogFile)
	if err != nil {
		return err
	}
	logger, closeLog, err := openFileLogger(path, c.Logger.GetLevel())
	if err != nil {
		return err
	}
	defer closeLog()
	loggerFromContext(ctx).Debug("logging to file", "path", path)

	be, err := tcell.New()
	if err != nil {
		return err
	}

	measure := func() (runtime.Widget, error) {
		view, err := newMeasureView(cfg, logger)
		if err != nil {
			return nil, err
		}
		return widgets.NewExampleScreen("Measure", view), nil
	}

	app := runtime.NewApp(runtime.AppConfig{
		Backend:  be,
		Root:     widgets.NewGallery(widgets.GalleryExamples(measure)),
		TickRate: cfg.TickInterval(),
		Logger:   logger,
		KeyHandler: runtime.KeyHandlerFunc(func(app *runtime.App, msg runtime.KeyMsg) bool {
			if msg.Key == terminal.KeyCtrlC {
				app.ExecuteCommand(runtime.Quit{})
				return true
			}
			return false
		}),
		CommandHandler: func(cmd runtime.Command) bool {
			_, ok := cmd.(runtime.Notify)
			return ok
		},
		RenderObserver: runtime.RenderObserverFunc(func(stats runtime.RenderStats) {
			if stats.RenderDuration > slowFrame {
				logger.Debug("slow frame",
					"frame", stats.Frame,
					"render", stats.RenderDuration,
					"flush", stats.FlushDuration,
					"dirty", stats.DirtyCells)
			}
		}),
	})

	logger.Info("gallery started", "sections", len(cfg.Sections), "tick", cfg.TickInterval())
	if err := app.Run(ctx); err != nil && ctx.Err() == nil {
		logger.Error("gallery stopped", "err", err)
		return err
	}
	logger.Info("gallery closed")
	return nil
}

// newMeasureView builds the accordion of the Measure example from cfg.
func newMeasureView(cfg config.Config, logger *log.Logger) (*widgets.AccordionView, error) {
	return widgets.NewAccordionView(widgets.AccordionOptions{
		Sections:         buildSections(cfg),
		Margin:           rows(cfg.Margin),
		ExpandDuration:   cfg.ExpandDuration.Duration,
		CollapseDuration: cfg.CollapseDuration.Duration,
		Curve:            cfg.CurveFunc(),
		StatusTTL:        statusTTL,
		Logger:           logger,
	})
}

// buildSections turns configured sections into accordion sections. A
// Markdown body is rendered; an empty body gets random blocks seeded by
// cfg.Seed and the section index, so every run shows the same content.
func buildSections(cfg config.Config) []widgets.AccordionSection {
	sections := make([]widgets.AccordionSection, len(cfg.Sections))
	for i, s := range cfg.Sections {
		section := widgets.AccordionSection{
			Title:        s.Title,
			HeaderHeight: rows(cfg.SectionHeader(i)),
		}
		if s.Body != "" {
			body := []byte(s.Body)
			section.Lines = func(width int) []string {
				return content.Markdown(body, width)
			}
		} else {
			rng := rand.New(rand.NewPCG(cfg.Seed, uint64(i)))
			blocks := content.Random(rng, content.DefaultRandomOptions())
			section.Lines = func(width int) []string {
				return content.BlockLines(blocks, width)
			}
		}
		sections[i] = section
	}
	return sections
}

func rows(v float64) int {
	return int(math.Round(v))
}
