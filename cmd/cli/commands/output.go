package commands

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorGreen  = "\033[32m"
	colorRed    = "\033[31m"
	colorYellow = "\033[33m"
	colorDim    = "\033[2m"
)

// ordinal labels a 1-based choice rank
func ordinal(rank int) string {
	switch rank {
	case 1:
		return "1st"
	case 2:
		return "2nd"
	case 3:
		return "3rd"
	default:
		return "-"
	}
}

// nameWidth returns the column width needed for the longest name, at least minWidth
func nameWidth(names []string, minWidth int) int {
	width := minWidth
	for _, name := range names {
		if len(name) > width {
			width = len(name)
		}
	}
	return width + 2
}
