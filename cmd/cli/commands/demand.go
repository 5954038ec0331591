package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/prize-raffle/pkg/core/services"
)

// DemandCmd creates the demand command
func DemandCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "demand",
		Short: "Show how many entries chose each prize at each rank, without drawing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			file, _ := cmd.Flags().GetString("file")

			app.Logger.Debug("demand command", zap.String("file", file))

			wb, _, release, err := app.OpenWorkbook(file, "")
			if err != nil {
				return err
			}
			defer release()

			result, err := services.ViewDemand(app.Ctx, wb, app.Cfg, app.Logger)
			if err != nil {
				return err
			}

			printDemand(cmd.OutOrStdout(), result)
			return nil
		},
	}

	cmd.Flags().StringP("file", "f", "", "Local .xlsx workbook to read (default: the configured Google spreadsheet)")

	return cmd
}

func printDemand(w io.Writer, result *services.DemandResult) {
	fmt.Fprintf(w, "\nPrize demand (%d entries, %d prizes in stock)\n\n", result.EntryCount, result.TotalStock)

	names := make([]string, 0, len(result.Prizes))
	for _, p := range result.Prizes {
		names = append(names, p.Prize)
	}
	width := nameWidth(names, 12)

	fmt.Fprintf(w, "%-*s%-8s%-6s%-6s%-6s%s\n", width, "Prize", "Stock", "1st", "2nd", "3rd", "Short")
	fmt.Fprintln(w, strings.Repeat("-", width+8+6*3+5))
	for _, p := range result.Prizes {
		line := fmt.Sprintf("%-*s%-8d%-6d%-6d%-6d", width, p.Prize, p.Count, p.ByRank[0], p.ByRank[1], p.ByRank[2])
		if shortfall := p.FirstChoiceShortfall(); shortfall > 0 {
			fmt.Fprintf(w, "%s%s%d%s\n", line, colorRed, shortfall, colorReset)
		} else {
			fmt.Fprintf(w, "%s0\n", line)
		}
	}

	if len(result.UnknownChoices) > 0 {
		fmt.Fprintf(w, "\n%sChoices naming no stocked prize:%s\n", colorYellow, colorReset)
		for _, u := range result.UnknownChoices {
			fmt.Fprintf(w, "  %s (%d)\n", u.Prize, u.Count)
		}
	}
	fmt.Fprintln(w)
}
