package db

import "time"

// Draw is one committed run of the raffle
type Draw struct {
	ID         string    `ssql_header:"id" ssql_type:"uuid"`
	Round      string    `ssql_header:"round" ssql_type:"text"`  // Schedule occurrence (YYYY-MM-DD), empty without a schedule
	Source     string    `ssql_header:"source" ssql_type:"text"` // Spreadsheet ID or input file path
	Seed       string    `ssql_header:"seed" ssql_type:"text"`
	DrawnAt    time.Time `ssql_header:"drawn_at" ssql_type:"timestamp"`
	EntryCount int       `ssql_header:"entry_count" ssql_type:"int"`
	AwardCount int       `ssql_header:"award_count" ssql_type:"int"`
}

// Award is a prize won in a draw
type Award struct {
	ID        string `ssql_header:"id" ssql_type:"uuid"`
	DrawID    string `ssql_header:"draw_id" ssql_type:"uuid"`
	EntryName string `ssql_header:"entry_name" ssql_type:"text"`
	EntryRow  int    `ssql_header:"entry_row" ssql_type:"int"`
	Prize     string `ssql_header:"prize" ssql_type:"text"`
	Rank      int    `ssql_header:"rank" ssql_type:"int"`
}

// Leftover is the stock of one prize before and after a draw
type Leftover struct {
	ID             string `ssql_header:"id" ssql_type:"uuid"`
	DrawID         string `ssql_header:"draw_id" ssql_type:"uuid"`
	Prize          string `ssql_header:"prize" ssql_type:"text"`
	InitialCount   int    `ssql_header:"initial_count" ssql_type:"int"`
	RemainingCount int    `ssql_header:"remaining_count" ssql_type:"int"`
}

// Models lists every model stored in the database, in table creation order
func Models() []interface{} {
	return []interface{}{Draw{}, Award{}, Leftover{}}
}
