package model

// Entry represents one row of the responses sheet
type Entry struct {
	// Row is the 1-based sheet row the entry was read from
	Row     int
	Name    string
	Choices []string // Ranked prize choices; empty string if left blank
}

// Prize represents one row of the inventory sheet
type Prize struct {
	Row   int
	Name  string
	Count int
}

// Result is a winner line to write back into the responses sheet
type Result struct {
	Row   int
	Prize string
	Rank  int
}

// Leftover is a residual count to write back into the inventory sheet
type Leftover struct {
	Row   int
	Prize string
	Count int
}
