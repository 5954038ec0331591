package commands

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/prize-raffle/pkg/core/services"
)

// HistoryCmd creates the history command
func HistoryCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history <count>",
		Short: "Show the most recent recorded draws",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			count, err := strconv.Atoi(args[0])
			if err != nil || count < 1 {
				return fmt.Errorf("count must be a positive integer, got: %s", args[0])
			}

			app.Logger.Debug("history command", zap.Int("count", count))

			if app.Database == nil {
				return ErrNoHistory
			}

			result, err := services.ViewHistory(app.Ctx, app.Database, app.Logger, count)
			if err != nil {
				return err
			}

			printHistory(cmd.OutOrStdout(), result)
			return nil
		},
	}

	return cmd
}

func printHistory(w io.Writer, result *services.HistoryResult) {
	if len(result.Draws) == 0 {
		fmt.Fprintf(w, "\nNo draws recorded yet.\n\n")
		return
	}

	fmt.Fprintf(w, "\nRecorded draws (latest %d)\n", len(result.Draws))

	for _, summary := range result.Draws {
		draw := summary.Draw
		fmt.Fprintf(w, "\n%s%s%s  %s\n", colorGreen, draw.ID, colorReset, draw.DrawnAt.Local().Format("Mon 02 Jan 2006 15:04"))
		if draw.Round != "" {
			fmt.Fprintf(w, "  Round:   %s\n", draw.Round)
		}
		fmt.Fprintf(w, "  Source:  %s\n", draw.Source)
		fmt.Fprintf(w, "  Seed:    %s\n", draw.Seed)
		fmt.Fprintf(w, "  Entries: %d   Awards: %d\n", draw.EntryCount, draw.AwardCount)

		if len(summary.Awards) > 0 {
			names := make([]string, 0, len(summary.Awards))
			for _, a := range summary.Awards {
				names = append(names, a.EntryName)
			}
			width := nameWidth(names, 10)

			fmt.Fprintln(w, "  Awards:")
			for _, a := range summary.Awards {
				fmt.Fprintf(w, "    %-*s%-8s%s\n", width, a.EntryName, ordinal(a.Rank), a.Prize)
			}
		}

		if len(summary.Leftovers) > 0 {
			fmt.Fprintln(w, "  Stock:")
			for _, l := range summary.Leftovers {
				fmt.Fprintf(w, "    %s %d -> %d\n", l.Prize, l.InitialCount, l.RemainingCount)
			}
		}
	}
	fmt.Fprintln(w)
}
