package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/prize-raffle/pkg/core/services"
)

// ReplayCmd creates the replay command
func ReplayCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "replay <draw_id>",
		Short: "Re-run a recorded draw with its seed and compare the winners",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			drawID := args[0]
			file, _ := cmd.Flags().GetString("file")

			app.Logger.Debug("replay command", zap.String("draw_id", drawID), zap.String("file", file))

			if app.Database == nil {
				return ErrNoHistory
			}

			wb, _, release, err := app.OpenWorkbook(file, "")
			if err != nil {
				return err
			}
			defer release()

			result, err := services.ReplayDraw(app.Ctx, wb, app.Database, app.Cfg, app.Logger, drawID)
			if err != nil {
				return err
			}

			printReplay(cmd.OutOrStdout(), result)
			return nil
		},
	}

	cmd.Flags().StringP("file", "f", "", "Local .xlsx workbook to replay against (default: the configured Google spreadsheet)")

	return cmd
}

func printReplay(w io.Writer, result *services.ReplayResult) {
	draw := result.Recorded.Draw
	fmt.Fprintf(w, "\nReplay of draw %s (seed %s)\n", draw.ID, draw.Seed)
	fmt.Fprintf(w, "Recorded awards: %d   Replayed awards: %d\n", len(result.Recorded.Awards), len(result.Replay.Results))

	if result.Matches {
		fmt.Fprintf(w, "\n%s✓ The replay matches the recorded draw%s\n\n", colorGreen, colorReset)
		return
	}

	fmt.Fprintf(w, "\n%s✗ The replay differs from the recorded draw (%d differences)%s\n", colorRed, len(result.Differences), colorReset)
	for _, diff := range result.Differences {
		fmt.Fprintf(w, "  - %s\n", diff)
	}
	fmt.Fprintf(w, "\n%sThe workbook has probably changed since the draw.%s\n\n", colorDim, colorReset)
}
