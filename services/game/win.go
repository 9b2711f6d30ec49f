package game

import (
	game_constants "Tombola/constants/game"
	"time"
)

type WinType string

const (
	Ambo     WinType = "ambo"
	Terna    WinType = "terna"
	Quaterna WinType = "quaterna"
	Cinquina WinType = "cinquina"
	Tombola  WinType = "tombola"
)

// rowWins maps the marked count of a row to its prize.
var rowWins = map[int]WinType{
	2: Ambo,
	3: Terna,
	4: Quaterna,
	5: Cinquina,
}

type WinRecord struct {
	Type       WinType   `json:"type"`
	PlayerID   string    `json:"playerId"`
	PlayerName string    `json:"playerName"`
	CardIndex  int       `json:"cardIndex"`
	RowIndex   *int      `json:"rowIndex,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

type winKey struct {
	Type WinType
	Row  int // -1 when the row is not part of the key
}

// winRegistry remembers which prizes a room already awarded.
type winRegistry struct {
	scope   string
	claimed map[winKey]struct{}
	history []WinRecord
}

func newWinRegistry(scope string) *winRegistry {
	if scope != game_constants.DedupByType {
		scope = game_constants.DedupByTypeAndRow
	}
	return &winRegistry{scope: scope, claimed: make(map[winKey]struct{})}
}

func (w *winRegistry) key(t WinType, row int) winKey {
	if t == Tombola || w.scope == game_constants.DedupByType {
		return winKey{Type: t, Row: -1}
	}
	return winKey{Type: t, Row: row}
}

// claim records rec unless its key was already awarded.
func (w *winRegistry) claim(rec WinRecord) bool {
	row := -1
	if rec.RowIndex != nil {
		row = *rec.RowIndex
	}
	k := w.key(rec.Type, row)
	if _, ok := w.claimed[k]; ok {
		return false
	}
	w.claimed[k] = struct{}{}
	w.history = append(w.history, rec)
	return true
}

func (w *winRegistry) reset() {
	w.claimed = make(map[winKey]struct{})
	w.history = nil
}

func (w *winRegistry) tombolaClaimed() bool {
	_, ok := w.claimed[winKey{Type: Tombola, Row: -1}]
	return ok
}

// historyCopy returns the awarded prizes in order. Never nil.
func (w *winRegistry) historyCopy() []WinRecord {
	out := make([]WinRecord, len(w.history))
	copy(out, w.history)
	return out
}

// scanPlayer looks for new prizes on the cards of p, card by card and row by
// row, and records them. Cards are only read.
func scanPlayer(reg *winRegistry, p *Player, now time.Time) []WinRecord {
	var found []WinRecord
	for ci, card := range p.Cards {
		for r := 0; r < game_constants.CardRows; r++ {
			t, ok := rowWins[card.RowMarked(r)]
			if !ok {
				continue
			}
			row := r
			rec := WinRecord{
				Type:       t,
				PlayerID:   p.ID,
				PlayerName: p.Name,
				CardIndex:  ci,
				RowIndex:   &row,
				Timestamp:  now,
			}
			if reg.claim(rec) {
				found = append(found, rec)
			}
		}
		if card.MarkedCount() == game_constants.CellsPerCard {
			rec := WinRecord{
				Type:       Tombola,
				PlayerID:   p.ID,
				PlayerName: p.Name,
				CardIndex:  ci,
				Timestamp:  now,
			}
			if reg.claim(rec) {
				found = append(found, rec)
			}
		}
	}
	return found
}
