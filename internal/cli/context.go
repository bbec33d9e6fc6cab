package cli

import (
	"fmt"
	"os"
	"strings"

	"markfold/internal/cursor"
	"markfold/internal/doc"
	"markfold/internal/intent"

	"github.com/spf13/cobra"
)

// contextResult is the payload of `markfold context`: the cursor snapshot's
// surface and range plus the resolved intent.
type contextResult struct {
	Surface cursor.Surface `json:"surface"`
	From    int            `json:"from"`
	To      int            `json:"to"`
	Intent  intent.Intent  `json:"intent"`
}

func newContextCmd(app *App) *cobra.Command {
	var (
		offset  int
		to      int
		surface string
	)

	cmd := &cobra.Command{
		Use:   "context <file>",
		Short: "Resolve the contextual intent at an offset",
		Long: strings.TrimSpace(`
Resolve what the editor would offer at a cursor position without opening it.

Offsets are rune offsets on the plain surface, or tree positions on the
rich surface. Pass --to for a selection; it defaults to --offset.
`),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := os.ReadFile(args[0])
			if err != nil {
				return writeErr(cmd, fmt.Errorf("read %s: %w", args[0], err))
			}
			text := strings.ReplaceAll(string(b), "\r\n", "\n")

			if !cmd.Flags().Changed("to") {
				to = offset
			}

			var ctx cursor.Context
			switch surface {
			case "plain":
				ctx = cursor.FromPlain(doc.NewBuffer(text), offset, to)
			case "rich":
				ctx = cursor.FromRich(doc.ParseTree(text), offset, to)
			default:
				return writeErr(cmd, fmt.Errorf("unknown surface: %s (want plain|rich)", surface))
			}

			return writeOut(cmd, app, contextResult{
				Surface: ctx.Surface,
				From:    offset,
				To:      to,
				Intent:  intent.Resolve(ctx),
			})
		},
	}

	cmd.Flags().IntVar(&offset, "offset", 0, "Cursor offset")
	cmd.Flags().IntVar(&to, "to", 0, "Selection end (default: --offset)")
	cmd.Flags().StringVar(&surface, "surface", "plain", "Surface to resolve on (plain|rich)")
	return cmd
}
