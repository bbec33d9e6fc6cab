package cli

import (
	"fmt"
	"os"
	"strings"

	"markfold/internal/format"
	"markfold/internal/tui"

	"github.com/spf13/cobra"
)

type App struct {
	Theme      string
	PrettyJSON bool
	Format     string
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "markfold [file]",
		Short:        "Dual-surface markdown editor + cursor-context CLI",
		SilenceUsage: true,
		Args:         cobra.MaximumNArgs(1),
		Example: strings.TrimSpace(`
  # Open a file in the interactive editor
  markfold notes.md

  # Render a file to the terminal and exit
  markfold preview notes.md

  # Inspect what the editor would offer at an offset
  markfold context notes.md --offset 42
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// A bare file argument opens the editor.
			if len(args) == 1 {
				return runEdit(app, args[0])
			}
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().StringVar(&app.Theme, "theme", envOr("MARKFOLD_THEME", ""), "Force a theme (light|dark; default: auto-detect)")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr("MARKFOLD_FORMAT", "json"), "Output format (json|edn)")

	cmd.AddCommand(newEditCmd(app))
	cmd.AddCommand(newPreviewCmd(app))
	cmd.AddCommand(newContextCmd(app))
	cmd.AddCommand(newDocsCmd(app))
	cmd.AddCommand(newVersionCmd(app))

	return cmd
}

func runEdit(app *App, path string) error {
	if app.Theme != "" {
		// The TUI reads its theme preference from the environment.
		os.Setenv("MARKFOLD_TUI_THEME", app.Theme)
	}
	return tui.Run(path)
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, app.Format, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
