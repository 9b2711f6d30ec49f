package game

import (
	game_constants "Tombola/constants/game"
	"encoding/json"
	"fmt"
	"sort"
)

// Cell is one filled position of a card. Number never changes once the card
// is generated; Marked is only flipped by the engine.
type Cell struct {
	Number int  `json:"number"`
	Marked bool `json:"marked"`
}

// Card is a 3x9 tombola sheet holding 15 numbers. Rows and Numbers point to
// the same cells, so marking through one is visible through the other.
type Card struct {
	Rows    [game_constants.CardRows][game_constants.CardColumns]*Cell
	Numbers []*Cell // ascending
}

// wire shape: { numbers: [{number, marked}], rows: [[cell|null x9] x3] }
type cardJSON struct {
	Numbers []*Cell                                                    `json:"numbers"`
	Rows    [game_constants.CardRows][game_constants.CardColumns]*Cell `json:"rows"`
}

func (c *Card) MarshalJSON() ([]byte, error) {
	return json.Marshal(cardJSON{Numbers: c.Numbers, Rows: c.Rows})
}

func (c *Card) UnmarshalJSON(data []byte) error {
	var raw cardJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	c.Rows = raw.Rows
	c.Numbers = c.Numbers[:0]
	for r := range c.Rows {
		for col := range c.Rows[r] {
			if c.Rows[r][col] != nil {
				c.Numbers = append(c.Numbers, c.Rows[r][col])
			}
		}
	}
	sortCells(c.Numbers)
	return nil
}

// ColumnRange returns the inclusive number range of a card column.
func ColumnRange(col int) (lo, hi int) {
	switch col {
	case 0:
		return 1, 9
	case game_constants.CardColumns - 1:
		return 80, game_constants.MaxNumber
	default:
		return col * 10, col*10 + 9
	}
}

// ColumnOf returns the column a number belongs to.
func ColumnOf(number int) int {
	if number >= game_constants.MaxNumber {
		return game_constants.CardColumns - 1
	}
	return number / 10
}

// Find returns the cell holding number, or nil.
func (c *Card) Find(number int) *Cell {
	if number < 1 || number > game_constants.MaxNumber {
		return nil
	}
	col := ColumnOf(number)
	for r := range c.Rows {
		if cell := c.Rows[r][col]; cell != nil && cell.Number == number {
			return cell
		}
	}
	return nil
}

// Mark marks the cell holding number.
func (c *Card) Mark(number int) error {
	cell := c.Find(number)
	if cell == nil {
		return ErrNumberNotOnCard
	}
	if cell.Marked {
		return ErrAlreadyMarked
	}
	cell.Marked = true
	return nil
}

// RowMarked counts the marked cells of row r.
func (c *Card) RowMarked(r int) int {
	n := 0
	for _, cell := range c.Rows[r] {
		if cell != nil && cell.Marked {
			n++
		}
	}
	return n
}

// MarkedCount counts the marked cells of the whole card.
func (c *Card) MarkedCount() int {
	n := 0
	for _, cell := range c.Numbers {
		if cell.Marked {
			n++
		}
	}
	return n
}

func (c *Card) clearMarks() {
	for _, cell := range c.Numbers {
		cell.Marked = false
	}
}

// Clone deep copies the card. Notifications carry clones so the transport
// never reads cells the engine is still mutating.
func (c *Card) Clone() *Card {
	out := &Card{Numbers: make([]*Cell, 0, len(c.Numbers))}
	for r := range c.Rows {
		for col := range c.Rows[r] {
			if cell := c.Rows[r][col]; cell != nil {
				cp := *cell
				out.Rows[r][col] = &cp
				out.Numbers = append(out.Numbers, &cp)
			}
		}
	}
	sortCells(out.Numbers)
	return out
}

// Validate checks every card invariant.
func (c *Card) Validate() error {
	seen := make(map[int]bool, game_constants.CellsPerCard)
	total := 0
	for r := range c.Rows {
		inRow := 0
		for col, cell := range c.Rows[r] {
			if cell == nil {
				continue
			}
			inRow++
			lo, hi := ColumnRange(col)
			if cell.Number < lo || cell.Number > hi {
				return fmt.Errorf("%w: %d outside column %d", ErrCardInvariant, cell.Number, col)
			}
			if seen[cell.Number] {
				return fmt.Errorf("%w: duplicate number %d", ErrCardInvariant, cell.Number)
			}
			seen[cell.Number] = true
		}
		if inRow != game_constants.CellsPerRow {
			return fmt.Errorf("%w: row %d has %d numbers", ErrCardInvariant, r, inRow)
		}
		total += inRow
	}
	if total != game_constants.CellsPerCard || len(c.Numbers) != game_constants.CellsPerCard {
		return fmt.Errorf("%w: card has %d numbers", ErrCardInvariant, total)
	}
	for col := 0; col < game_constants.CardColumns; col++ {
		prev, filled := 0, 0
		for r := range c.Rows {
			cell := c.Rows[r][col]
			if cell == nil {
				continue
			}
			filled++
			if cell.Number <= prev {
				return fmt.Errorf("%w: column %d not increasing", ErrCardInvariant, col)
			}
			prev = cell.Number
		}
		if filled < game_constants.MinPerColumn || filled > game_constants.MaxPerColumn {
			return fmt.Errorf("%w: column %d has %d numbers", ErrCardInvariant, col, filled)
		}
	}
	return nil
}

// GenerateCard builds one valid card. An error means the generator broke an
// invariant, which is a bug and must not reach a player.
func GenerateCard(rng Rand) (*Card, error) {
	caps := columnCapacities(rng)

	// Pick the rows of each column, then balance them to five per row.
	var occupied [game_constants.CardRows][game_constants.CardColumns]bool
	rows := make([]int, game_constants.CardRows)
	for col, n := range caps {
		for i := range rows {
			rows[i] = i
		}
		rng.Shuffle(len(rows), func(i, j int) { rows[i], rows[j] = rows[j], rows[i] })
		for _, r := range rows[:n] {
			occupied[r][col] = true
		}
	}
	if err := balanceRows(&occupied, rng); err != nil {
		return nil, err
	}

	card := &Card{Numbers: make([]*Cell, 0, game_constants.CellsPerCard)}
	for col, n := range caps {
		numbers := drawColumn(rng, col, n)
		i := 0
		for r := 0; r < game_constants.CardRows; r++ {
			if !occupied[r][col] {
				continue
			}
			cell := &Cell{Number: numbers[i]}
			i++
			card.Rows[r][col] = cell
			card.Numbers = append(card.Numbers, cell)
		}
	}
	sortCells(card.Numbers)

	if err := card.Validate(); err != nil {
		return nil, err
	}
	return card, nil
}

// columnCapacities spreads 15 numbers over 9 columns, 1 to 3 each.
func columnCapacities(rng Rand) [game_constants.CardColumns]int {
	var caps [game_constants.CardColumns]int
	for i := range caps {
		caps[i] = game_constants.MinPerColumn
	}
	extra := game_constants.CellsPerCard - game_constants.CardColumns*game_constants.MinPerColumn
	open := make([]int, 0, game_constants.CardColumns)
	for ; extra > 0; extra-- {
		open = open[:0]
		for col, n := range caps {
			if n < game_constants.MaxPerColumn {
				open = append(open, col)
			}
		}
		caps[open[rng.IntN(len(open))]]++
	}
	return caps
}

// balanceRows moves cells, keeping their column, from rows holding more than
// five cells to rows holding fewer.
func balanceRows(occupied *[game_constants.CardRows][game_constants.CardColumns]bool, rng Rand) error {
	for moves := 0; ; moves++ {
		short, long := -1, -1
		var counts [game_constants.CardRows]int
		for r := range occupied {
			for _, filled := range occupied[r] {
				if filled {
					counts[r]++
				}
			}
			if counts[r] < game_constants.CellsPerRow && short < 0 {
				short = r
			}
			if counts[r] > game_constants.CellsPerRow && long < 0 {
				long = r
			}
		}
		if short < 0 && long < 0 {
			return nil
		}
		if short < 0 || long < 0 || moves >= game_constants.RebalanceCap {
			return fmt.Errorf("%w: unbalanced rows %v", ErrCardInvariant, counts)
		}

		start := rng.IntN(game_constants.CardColumns)
		moved := false
		for i := 0; i < game_constants.CardColumns; i++ {
			col := (start + i) % game_constants.CardColumns
			if occupied[long][col] && !occupied[short][col] {
				occupied[long][col] = false
				occupied[short][col] = true
				moved = true
				break
			}
		}
		if !moved {
			return fmt.Errorf("%w: no donor column for row %d", ErrCardInvariant, short)
		}
	}
}

// drawColumn picks n distinct numbers of a column, ascending.
func drawColumn(rng Rand, col, n int) []int {
	lo, hi := ColumnRange(col)
	pool := make([]int, 0, hi-lo+1)
	for v := lo; v <= hi; v++ {
		pool = append(pool, v)
	}
	rng.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	picked := append([]int(nil), pool[:n]...)
	sort.Ints(picked)
	return picked
}

func sortCells(cells []*Cell) {
	sort.Slice(cells, func(i, j int) bool { return cells[i].Number < cells[j].Number })
}
