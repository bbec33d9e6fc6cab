package cli

import (
	"fmt"
	"os"
	"strings"

	"markfold/internal/tui"

	"github.com/spf13/cobra"
)

func newPreviewCmd(app *App) *cobra.Command {
	var width int

	cmd := &cobra.Command{
		Use:   "preview <file>",
		Short: "Render a markdown file to the terminal and exit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := os.ReadFile(args[0])
			if err != nil {
				return writeErr(cmd, fmt.Errorf("read %s: %w", args[0], err))
			}
			if app.Theme != "" {
				os.Setenv("MARKFOLD_TUI_THEME", app.Theme)
			}
			md := strings.ReplaceAll(string(b), "\r\n", "\n")
			fmt.Fprint(cmd.OutOrStdout(), tui.RenderPreview(md, width))
			return nil
		},
	}

	cmd.Flags().IntVar(&width, "width", 80, "Wrap width for rendered output")
	return cmd
}
