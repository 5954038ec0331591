package allocator

// allocator holds the mutable state of a single allocation run
type allocator struct {
	rng Rand

	// pool holds entries that have not won yet, in input order
	pool []Entry

	inventory *Inventory
	outcome   *Outcome
}

// Allocate distributes the inventory among the entries.
//
// Ranks are the outer loop and prizes the inner loop: every prize's first-choice
// demand is settled before any second-choice demand is looked at, and second
// before third. Within a (rank, prize) step, if demand exceeds stock the winners
// are drawn uniformly at random without replacement.
//
// The given inventory is not modified; the remaining stock is returned in
// Outcome.Residual. A nil rng uses an unseeded source.
func Allocate(entries []Entry, inventory *Inventory, rng Rand) *Outcome {
	if rng == nil {
		rng = NewRand("")
	}
	if inventory == nil {
		inventory = NewInventory()
	}

	a := &allocator{
		rng:       rng,
		pool:      make([]Entry, len(entries)),
		inventory: inventory.Clone(),
		outcome: &Outcome{
			Winners: []Award{},
			Cells:   []Cell{},
		},
	}
	copy(a.pool, entries)

	prizes := a.inventory.Prizes()
	for rank := 0; rank < MaxChoices; rank++ {
		for _, prize := range prizes {
			a.allocateCell(rank, prize)
		}
	}

	a.outcome.Unallocated = a.pool
	a.outcome.Residual = a.inventory
	return a.outcome
}

// allocateCell settles the demand for one prize at one rank
func (a *allocator) allocateCell(rank int, prize string) {
	candidates := a.candidates(rank, prize)
	available := a.inventory.Count(prize)

	cell := Cell{
		Rank:       rank + 1,
		Prize:      prize,
		Candidates: len(candidates),
		Available:  available,
	}

	if len(candidates) == 0 || available <= 0 {
		a.outcome.Cells = append(a.outcome.Cells, cell)
		return
	}

	selected := a.draw(candidates, min(available, len(candidates)))

	won := make(map[int]bool, len(selected))
	for _, poolIdx := range selected {
		won[poolIdx] = true
		a.inventory.take(prize)
		a.outcome.Winners = append(a.outcome.Winners, Award{
			Entry: a.pool[poolIdx],
			Prize: prize,
			Rank:  rank + 1,
		})
	}
	cell.Awarded = len(selected)
	a.outcome.Cells = append(a.outcome.Cells, cell)

	// Rebuild the pool without the winners
	remaining := make([]Entry, 0, len(a.pool)-len(selected))
	for i, entry := range a.pool {
		if !won[i] {
			remaining = append(remaining, entry)
		}
	}
	a.pool = remaining
}

// candidates returns the pool indices of entries whose choice at rank is prize
func (a *allocator) candidates(rank int, prize string) []int {
	indices := []int{}
	for i, entry := range a.pool {
		if entry.Choices[rank] == prize {
			indices = append(indices, i)
		}
	}
	return indices
}

// draw picks k of the candidates uniformly without replacement, in draw order.
// It runs a partial Fisher-Yates shuffle over a copy of the candidates.
func (a *allocator) draw(candidates []int, k int) []int {
	shuffled := make([]int, len(candidates))
	copy(shuffled, candidates)

	for i := 0; i < k; i++ {
		j := i + a.rng.IntN(len(shuffled)-i)
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}

	return shuffled[:k]
}
