package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/prize-raffle/pkg/core/services"
)

// DrawCmd creates the draw command
func DrawCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "draw",
		Short: "Draw the raffle and write the winners back to the workbook",
		Long: `Allocate the inventory to the entries by choice rank, breaking ties at random.

Without --file the Google spreadsheet from the config is read and updated in place.
With --file the local workbook is read and the results are written to --out
(default <file>_results.xlsx).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			file, _ := cmd.Flags().GetString("file")
			out, _ := cmd.Flags().GetString("out")
			seed, _ := cmd.Flags().GetString("seed")
			dryRun, _ := cmd.Flags().GetBool("dry-run")
			force, _ := cmd.Flags().GetBool("force")

			app.Logger.Debug("draw command",
				zap.String("file", file),
				zap.String("out", out),
				zap.String("seed", seed),
				zap.Bool("dry_run", dryRun),
				zap.Bool("force", force))

			wb, source, release, err := app.OpenWorkbook(file, out)
			if err != nil {
				return err
			}
			defer release()

			result, err := services.DrawRaffle(app.Ctx, wb, app.Database, app.Cfg, app.Logger, services.DrawOptions{
				Seed:   seed,
				DryRun: dryRun,
				Force:  force,
				Source: source,
			})
			if err != nil {
				return err
			}

			printDraw(cmd.OutOrStdout(), result)
			return nil
		},
	}

	cmd.Flags().StringP("file", "f", "", "Local .xlsx workbook to draw from (default: the configured Google spreadsheet)")
	cmd.Flags().StringP("out", "o", "", "Where to write the results when using --file")
	cmd.Flags().String("seed", "", "Seed for random decisions (default: a fresh random seed)")
	cmd.Flags().Bool("dry-run", false, "Draw and report without writing the workbook or recording the draw")
	cmd.Flags().Bool("force", false, "Draw even if the current raffle round was already drawn")

	return cmd
}

func printDraw(w io.Writer, result *services.DrawResult) {
	outcome := result.Outcome

	if result.DryRun {
		fmt.Fprintf(w, "\n%sDry run: nothing was written%s\n", colorYellow, colorReset)
	} else {
		fmt.Fprintf(w, "\n%s✓ Raffle drawn!%s\n", colorGreen, colorReset)
	}
	fmt.Fprintf(w, "\nEntries: %d   Prizes: %d   Winners: %d\n", len(result.Entries), outcome.Residual.Len(), len(outcome.Winners))
	if result.Draw.Round != "" {
		fmt.Fprintf(w, "Round:   %s\n", result.Draw.Round)
	}
	fmt.Fprintf(w, "Seed:    %s\n", result.Draw.Seed)
	if result.Recorded {
		fmt.Fprintf(w, "Draw ID: %s\n", result.Draw.ID)
	}

	names := make([]string, 0, len(outcome.Winners)+len(outcome.Unallocated))
	for _, award := range outcome.Winners {
		names = append(names, award.Entry.Name)
	}
	for _, entry := range outcome.Unallocated {
		names = append(names, entry.Name)
	}
	width := nameWidth(names, 10)

	if len(outcome.Winners) > 0 {
		fmt.Fprintf(w, "\nWinners:\n")
		fmt.Fprintf(w, "  %-*s%-8s%s\n", width, "Name", "Choice", "Prize")
		fmt.Fprintf(w, "  %s\n", strings.Repeat("-", width+8+10))
		for _, award := range outcome.Winners {
			fmt.Fprintf(w, "  %-*s%-8s%s\n", width, award.Entry.Name, ordinal(award.Rank), award.Prize)
		}
	} else {
		fmt.Fprintf(w, "\nNo prizes were awarded.\n")
	}

	if len(outcome.Unallocated) > 0 {
		fmt.Fprintf(w, "\n%sNo prize (%d):%s\n", colorDim, len(outcome.Unallocated), colorReset)
		for _, entry := range outcome.Unallocated {
			fmt.Fprintf(w, "  %s\n", entry.Name)
		}
	}

	fmt.Fprintf(w, "\nLeftover stock:\n")
	for _, prize := range outcome.Residual.Prizes() {
		count := outcome.Residual.Count(prize)
		if count == 0 {
			fmt.Fprintf(w, "  %s%-*s%d%s\n", colorDim, width, prize, count, colorReset)
			continue
		}
		fmt.Fprintf(w, "  %-*s%d\n", width, prize, count)
	}
	fmt.Fprintln(w)
}
