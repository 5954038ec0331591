package services

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/jakechorley/prize-raffle/internal/config"
	"github.com/jakechorley/prize-raffle/pkg/core/allocator"
	"github.com/jakechorley/prize-raffle/pkg/workbook"
)

// PrizeDemand is how many entries named a prize at each choice rank
type PrizeDemand struct {
	Prize  string
	Count  int
	ByRank [allocator.MaxChoices]int
}

// FirstChoiceShortfall is how many first choices cannot be met from stock
func (d PrizeDemand) FirstChoiceShortfall() int {
	return max(d.ByRank[0]-d.Count, 0)
}

// UnknownChoice is a choice naming no prize in the inventory
type UnknownChoice struct {
	Prize string
	Count int
}

// DemandResult summarises the raffle input without drawing
type DemandResult struct {
	Prizes         []PrizeDemand // inventory order
	EntryCount     int
	TotalStock     int
	UnknownChoices []UnknownChoice // sorted by prize name
}

// ViewDemand reads the workbook and counts how many entries want each prize at each rank
func ViewDemand(ctx context.Context, wb workbook.Workbook, cfg *config.Config, logger *zap.Logger) (*DemandResult, error) {
	logger.Debug("Starting viewDemand")

	if err := workbook.RequireSheets(ctx, wb, cfg.Layout); err != nil {
		return nil, err
	}

	prizes, err := workbook.ReadInventory(ctx, wb, cfg.Layout)
	if err != nil {
		return nil, fmt.Errorf("failed to read inventory: %w", err)
	}

	entries, err := workbook.ReadEntries(ctx, wb, cfg.Layout)
	if err != nil {
		return nil, fmt.Errorf("failed to read entries: %w", err)
	}

	inventory, err := buildInventory(prizes, logger)
	if err != nil {
		return nil, err
	}

	demand := make(map[string]*PrizeDemand, inventory.Len())
	result := &DemandResult{
		Prizes:     make([]PrizeDemand, 0, inventory.Len()),
		EntryCount: len(entries),
		TotalStock: inventory.Total(),
	}
	for _, prize := range inventory.Prizes() {
		demand[prize] = &PrizeDemand{Prize: prize, Count: inventory.Count(prize)}
	}

	unknown := map[string]int{}
	for _, entry := range buildEntries(entries) {
		for rank, choice := range entry.Choices {
			if choice == "" {
				continue
			}
			if d, ok := demand[choice]; ok {
				d.ByRank[rank]++
			} else {
				unknown[choice]++
			}
		}
	}

	for _, prize := range inventory.Prizes() {
		result.Prizes = append(result.Prizes, *demand[prize])
	}

	for prize, count := range unknown {
		result.UnknownChoices = append(result.UnknownChoices, UnknownChoice{Prize: prize, Count: count})
	}
	sort.Slice(result.UnknownChoices, func(i, j int) bool {
		return result.UnknownChoices[i].Prize < result.UnknownChoices[j].Prize
	})

	logger.Debug("Demand computed",
		zap.Int("prizes", len(result.Prizes)),
		zap.Int("entries", result.EntryCount),
		zap.Int("unknown_choices", len(result.UnknownChoices)))

	return result, nil
}
