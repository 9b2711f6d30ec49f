package game

import (
	"sync"
	"time"
)

// Player is a seat in a room, identified by the connection that joined.
type Player struct {
	ID          string
	Name        string
	Cards       []*Card
	MarkedCount int
	JoinedAt    time.Time
}

func (p *Player) recount() {
	n := 0
	for _, c := range p.Cards {
		n += c.MarkedCount()
	}
	p.MarkedCount = n
}

// markAll marks number on every card of p and reports whether any cell changed.
func (p *Player) markAll(number int) bool {
	changed := false
	for _, c := range p.Cards {
		if cell := c.Find(number); cell != nil && !cell.Marked {
			cell.Marked = true
			changed = true
		}
	}
	return changed
}

func (p *Player) info() PlayerInfo {
	return PlayerInfo{ID: p.ID, Name: p.Name, CardCount: len(p.Cards), MarkedCount: p.MarkedCount}
}

func (p *Player) cardsCopy() []*Card {
	out := make([]*Card, len(p.Cards))
	for i, c := range p.Cards {
		out[i] = c.Clone()
	}
	return out
}

// Room is the state of one game. Every field is guarded by mu.
type Room struct {
	mu sync.Mutex

	Code       string
	Name       string
	MaxPlayers int
	CreatedAt  time.Time
	LastActive time.Time
	Active     bool

	adminConn string
	players   map[string]*Player
	order     []string // player ids in join order
	draws     *extraction
	wins      *winRegistry
	finished  bool
	closed    bool // evicted, the registry no longer knows it
}

func newRoom(code, name string, maxPlayers int, rng Rand, dedup string, now time.Time) *Room {
	return &Room{
		Code:       code,
		Name:       name,
		MaxPlayers: maxPlayers,
		CreatedAt:  now,
		LastActive: now,
		Active:     true,
		players:    make(map[string]*Player),
		draws:      newExtraction(rng),
		wins:       newWinRegistry(dedup),
	}
}

func (r *Room) addPlayer(p *Player) {
	r.players[p.ID] = p
	r.order = append(r.order, p.ID)
}

func (r *Room) removePlayer(id string) (*Player, bool) {
	p, ok := r.players[id]
	if !ok {
		return nil, false
	}
	delete(r.players, id)
	for i, pid := range r.order {
		if pid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return p, true
}

// seated returns the players in join order.
func (r *Room) seated() []*Player {
	out := make([]*Player, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.players[id])
	}
	return out
}

func (r *Room) roster() []PlayerInfo {
	out := make([]PlayerInfo, 0, len(r.order))
	for _, p := range r.seated() {
		out = append(out, p.info())
	}
	return out
}

// resetGame clears draws, marks and prizes. Cards and players stay.
func (r *Room) resetGame(rng Rand) {
	r.draws.reset(rng)
	r.wins.reset()
	r.finished = false
	for _, p := range r.players {
		for _, c := range p.Cards {
			c.clearMarks()
		}
		p.MarkedCount = 0
	}
}

func (r *Room) summary() *RoomSummary {
	return &RoomSummary{
		Code:       r.Code,
		Name:       r.Name,
		Players:    len(r.players),
		MaxPlayers: r.MaxPlayers,
		DrawnCount: len(r.draws.drawn),
		LastDrawn:  r.draws.last(),
		Active:     r.Active,
		Finished:   r.finished,
		CreatedAt:  r.CreatedAt,
		LastActive: r.LastActive,
	}
}
