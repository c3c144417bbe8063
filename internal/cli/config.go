package cli

import (
	"fmt"
	"io"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/spf13/cobra"
)

func (c *CLI) configCommand() *cobra.Command {
	var plain bool

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Long: `Print the configuration cascade would run with, defaults included, as
TOML. Save the output and pass it back with --config to start from it.
Colors are only used when writing to a terminal.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			src, err := cfg.TOML()
			if err != nil {
				return fmt.Errorf("encode config: %w", err)
			}
			if plain || !isTerminal(c.Out) {
				_, err := c.Out.Write(src)
				return err
			}
			return highlightTOML(c.Out, string(src))
		},
	}
	cmd.Flags().BoolVar(&plain, "plain", false, "print without syntax highlighting")
	return cmd
}

// highlightTOML writes src with terminal colors.
func highlightTOML(w io.Writer, src string) error {
	if err := quick.Highlight(w, src, "toml", "terminal256", "monokai"); err != nil {
		return fmt.Errorf("highlight config: %w", err)
	}
	return nil
}
