package allocator

import "errors"

// MaxChoices is the number of ranked preferences an entry can hold
const MaxChoices = 3

var (
	// ErrNegativeCount is returned when a prize is stocked with a negative count
	ErrNegativeCount = errors.New("prize count must not be negative")

	// ErrEmptyPrize is returned when a prize has no name
	ErrEmptyPrize = errors.New("prize name must not be empty")
)

// Entry represents one participant's ranked prize preferences
type Entry struct {
	// ID is an opaque identifier carried through unchanged (e.g. the source sheet row)
	ID string

	// Name of the participant. Not required to be unique.
	Name string

	// Choices holds the preferred prizes by rank (index 0 = first choice)
	// An empty string means no preference at that rank
	Choices [MaxChoices]string
}

// Award records that an entry won a prize
type Award struct {
	Entry Entry

	// Prize is the prize that was won
	Prize string

	// Rank is the 1-based preference rank at which the prize was won
	Rank int
}

// Cell traces the outcome of one (rank, prize) step of the allocation
type Cell struct {
	// Rank is 1-based
	Rank       int
	Prize      string
	Candidates int

	// Available is the prize count before this step
	Available int
	Awarded   int
}

// Skipped reports whether the step awarded nothing
func (c Cell) Skipped() bool {
	return c.Awarded == 0
}

// Outcome is the result of an allocation run
type Outcome struct {
	// Winners in selection order: rank-major, then prize order, then draw order
	Winners []Award

	// Unallocated entries in their original order
	Unallocated []Entry

	// Residual is the inventory left after all awards
	Residual *Inventory

	// Cells has one trace record for every (rank, prize) pair visited
	Cells []Cell
}

// AwardedCount returns how many units of a prize were awarded
func (o *Outcome) AwardedCount(prize string) int {
	count := 0
	for _, award := range o.Winners {
		if award.Prize == prize {
			count++
		}
	}
	return count
}

// Inventory is an insertion-ordered mapping of prize to remaining count
type Inventory struct {
	order  []string
	counts map[string]int
}

// NewInventory creates an empty inventory
func NewInventory() *Inventory {
	return &Inventory{
		order:  []string{},
		counts: make(map[string]int),
	}
}

// Add stocks a prize. Adding an existing prize replaces its count but keeps its position.
func (inv *Inventory) Add(prize string, count int) error {
	if prize == "" {
		return ErrEmptyPrize
	}
	if count < 0 {
		return ErrNegativeCount
	}
	if _, exists := inv.counts[prize]; !exists {
		inv.order = append(inv.order, prize)
	}
	inv.counts[prize] = count
	return nil
}

// Prizes returns the prize names in insertion order
func (inv *Inventory) Prizes() []string {
	prizes := make([]string, len(inv.order))
	copy(prizes, inv.order)
	return prizes
}

// Count returns the remaining count for a prize (0 for unknown prizes)
func (inv *Inventory) Count(prize string) int {
	return inv.counts[prize]
}

// Has reports whether the prize is stocked (even with a zero count)
func (inv *Inventory) Has(prize string) bool {
	_, ok := inv.counts[prize]
	return ok
}

// Len returns the number of distinct prizes
func (inv *Inventory) Len() int {
	return len(inv.order)
}

// Total returns the sum of all counts
func (inv *Inventory) Total() int {
	total := 0
	for _, prize := range inv.order {
		total += inv.counts[prize]
	}
	return total
}

// Clone returns an independent copy of the inventory
func (inv *Inventory) Clone() *Inventory {
	clone := &Inventory{
		order:  make([]string, len(inv.order)),
		counts: make(map[string]int, len(inv.counts)),
	}
	copy(clone.order, inv.order)
	for prize, count := range inv.counts {
		clone.counts[prize] = count
	}
	return clone
}

// take removes one unit of a prize. Callers check the count first.
func (inv *Inventory) take(prize string) {
	if inv.counts[prize] > 0 {
		inv.counts[prize]--
	}
}
