package services

import (
	"context"

	"github.com/jakechorley/prize-raffle/pkg/db"
	"github.com/jakechorley/prize-raffle/pkg/workbook/workbooktest"
)

// mockDB implements a test double for db.Database
type mockDB struct {
	draws     []db.Draw
	awards    []db.Award
	leftovers []db.Leftover

	getDrawsErr     error
	insertDrawErr   error
	insertAwardsErr error
}

var _ db.Database = (*mockDB)(nil)

func (m *mockDB) GetDraws(ctx context.Context) ([]db.Draw, error) {
	if m.getDrawsErr != nil {
		return nil, m.getDrawsErr
	}
	return m.draws, nil
}

func (m *mockDB) InsertDraw(ctx context.Context, draw *db.Draw) error {
	if m.insertDrawErr != nil {
		return m.insertDrawErr
	}
	m.draws = append(m.draws, *draw)
	return nil
}

func (m *mockDB) GetAwards(ctx context.Context, drawID string) ([]db.Award, error) {
	var awards []db.Award
	for _, a := range m.awards {
		if a.DrawID == drawID {
			awards = append(awards, a)
		}
	}
	return awards, nil
}

func (m *mockDB) InsertAwards(ctx context.Context, awards []db.Award) error {
	if m.insertAwardsErr != nil {
		return m.insertAwardsErr
	}
	m.awards = append(m.awards, awards...)
	return nil
}

func (m *mockDB) GetLeftovers(ctx context.Context, drawID string) ([]db.Leftover, error) {
	var leftovers []db.Leftover
	for _, l := range m.leftovers {
		if l.DrawID == drawID {
			leftovers = append(leftovers, l)
		}
	}
	return leftovers, nil
}

func (m *mockDB) InsertLeftovers(ctx context.Context, leftovers []db.Leftover) error {
	m.leftovers = append(m.leftovers, leftovers...)
	return nil
}

const (
	responsesTab = "Form Responses 1"
	inventoryTab = "Inventory"
)

// raffleWorkbook builds a workbook in the default layout.
// Each response is name followed by up to three choices; each prize is name, count.
func raffleWorkbook(responses [][]string, prizes [][]string) *workbooktest.Memory {
	responseRows := [][]string{{"Timestamp", "Name", "Choice 1", "Choice 2", "Choice 3"}}
	for _, r := range responses {
		responseRows = append(responseRows, append([]string{"2025-12-01 10:00"}, r...))
	}

	inventoryRows := [][]string{{"", "Prize", "Count"}}
	for _, p := range prizes {
		inventoryRows = append(inventoryRows, append([]string{""}, p...))
	}

	return workbooktest.New(map[string][][]string{
		responsesTab: responseRows,
		inventoryTab: inventoryRows,
	})
}
