package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/odvcencio/cascade/agent"
	"github.com/odvcencio/cascade/config"
	"github.com/odvcencio/cascade/runtime"
	"github.com/odvcencio/cascade/terminal"
	"github.com/odvcencio/cascade/widgets"
)

// recordStep is one scripted input of the Measure demo.
type recordStep struct {
	name  string
	input func(*agent.Agent)
}

// measureScript opens Measure, walks the sections and closes them again.
func measureScript(sections int) []recordStep {
	press := func(k terminal.Key) func(*agent.Agent) {
		return func(a *agent.Agent) { a.Press(k) }
	}
	typeText := func(s string) func(*agent.Agent) {
		return func(a *agent.Agent) { a.Type(s) }
	}
	steps := []recordStep{{"open measure", press(terminal.KeyEnter)}}
	for i := range sections {
		if i > 0 {
			steps = append(steps, recordStep{"next section", typeText("j")})
		}
		steps = append(steps, recordStep{fmt.Sprintf("toggle section %d", i), typeText(" ")})
	}
	return append(steps,
		recordStep{"collapse all", typeText("c")},
		recordStep{"expand all", typeText("a")},
		recordStep{"back to gallery", press(terminal.KeyEscape)},
	)
}

func (c *CLI) recordCommand() *cobra.Command {
	var (
		out    string
		width  int
		height int
		pause  time.Duration
	)

	cmd := &cobra.Command{
		Use:   "record",
		Short: "Record the Measure example as an asciicast",
		Long: `Run the gallery headless, drive the Measure example through a fixed script
and write every frame to an asciicast v2 file for asciinema or agg.`,
		Example: `  cascade record --out measure.cast
  agg --theme monokai measure.cast measure.gif`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("create %s: %w", out, err)
			}
			defer f.Close()

			cast := agent.NewCast(f, agent.CastOptions{Title: "cascade: Measure"})
			rec := recording{cfg: cfg, width: width, height: height, pause: pause}
			if err := rec.run(cmd.Context(), cast, loggerFromContext(cmd.Context())); err != nil {
				return err
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("close %s: %w", out, err)
			}
			printSuccess(c.Out, "Recorded %d frames", cast.Frames())
			printFile(c.Out, out)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&out, "out", "o", "measure.cast", "output file")
	flags.IntVar(&width, "width", 80, "terminal width")
	flags.IntVar(&height, "height", 24, "terminal height")
	flags.DurationVar(&pause, "pause", 700*time.Millisecond, "time between scripted inputs")
	return cmd
}

// recording drives the gallery on a simulation backend.
type recording struct {
	cfg    config.Config
	width  int
	height int
	pause  time.Duration
}

func (r recording) run(ctx context.Context, cast *agent.Cast, logger *log.Logger) error {
	ag := agent.New(agent.Config{Width: r.width, Height: r.height, Cast: cast})
	measure := func() (runtime.Widget, error) {
		view, err := newMeasureView(r.cfg, logger)
		if err != nil {
			return nil, err
		}
		return widgets.NewExampleScreen("Measure", view), nil
	}
	app := runtime.NewApp(runtime.AppConfig{
		Backend:        ag.Backend(),
		Root:           widgets.NewGallery(widgets.GalleryExamples(measure)),
		TickRate:       r.cfg.TickInterval(),
		RenderObserver: ag,
		Logger:         logger,
	})
	ag.SetApp(app)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	if err := ag.WaitForText(widgets.GalleryTitle); err != nil {
		cancel()
		<-done
		return err
	}
	for _, step := range measureScript(len(r.cfg.Sections)) {
		logger.Debug("record step", "step", step.name)
		step.input(ag)
		select {
		case <-time.After(r.pause):
		case err := <-done:
			if err == nil {
				err = context.Canceled
			}
			return fmt.Errorf("app stopped during %q: %w", step.name, err)
		}
	}
	ag.Type("q")

	select {
	case err := <-done:
		if err != nil {
			return err
		}
	case <-time.After(5 * time.Second):
		cancel()
		<-done
		return fmt.Errorf("app did not quit: %w", agent.ErrTimeout)
	}
	return cast.Err()
}
