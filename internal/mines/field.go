package mines

import (
	"fmt"
	"hash/maphash"
	"iter"
	"math/rand/v2"
	"slices"

	"github.com/zyedidia/generic/mapset"
)

type Outcome int8

const (
	Revealed Outcome = iota
	HitMine
)

// Reveal describes the effect of a single [Field.Uncover] call.
type Reveal struct {
	Outcome  Outcome
	Revealed []Position // newly uncovered, in visit order
	Won      bool
}

// Field is the grid of tiles of a single round. Tiles are stored column
// first: tiles[col][row].
type Field struct {
	width, height int
	mineCount     int
	tiles         [][]Tile
	placed        bool
	flagged       mapset.Set[Position]
	revealed      int
	rnd           *rand.Rand
}

func NewRand() *rand.Rand {
	return rand.New(rand.NewPCG(
		new(maphash.Hash).Sum64(), new(maphash.Hash).Sum64(),
	))
}

// NewField creates a covered field. Mines are not placed until the first
// [Field.Uncover] (or an explicit placement call). A nil rnd is replaced
// with a randomly seeded source.
func NewField(width, height, mineCount int, rnd *rand.Rand) (*Field, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: size %dx%d", ErrBadParams, width, height)
	}
	if mineCount < 0 || mineCount >= width*height {
		return nil, fmt.Errorf(
			"%w: %d mines do not fit %dx%d", ErrBadParams, mineCount, width, height,
		)
	}
	if rnd == nil {
		rnd = NewRand()
	}
	f := &Field{
		width:     width,
		height:    height,
		mineCount: mineCount,
		rnd:       rnd,
	}
	f.Reset()
	return f, nil
}

// Reset covers every tile and forgets the mine layout.
func (f *Field) Reset() {
	f.tiles = make([][]Tile, f.width)
	for col := range f.width {
		f.tiles[col] = make([]Tile, f.height)
		for row := range f.height {
			f.tiles[col][row] = Tile{Pos: Pos(col, row), State: Hidden}
		}
	}
	f.placed = false
	f.flagged = mapset.New[Position]()
	f.revealed = 0
}

func (f *Field) Width() int { return f.width }
func (f *Field) Height() int { return f.height }
func (f *Field) MineCount() int { return f.mineCount }
func (f *Field) MinesPlaced() bool { return f.placed }
func (f *Field) RevealedCount() int { return f.revealed }
func (f *Field) FlagCount() int { return f.flagged.Size() }

// Won reports whether every non-mine tile has been uncovered.
func (f *Field) Won() bool {
	return f.revealed == f.width*f.height-f.mineCount
}

func (f *Field) InBounds(p Position) bool {
	return 0 <= p.Col && p.Col < f.width && 0 <= p.Row && p.Row < f.height
}

// panics [AssertionError]
func (f *Field) tile(p Position) *Tile {
	if !f.InBounds(p) {
		panic(AssertionError{fmt.Sprintf("tile %v outside %dx%d field", p, f.width, f.height)})
	}
	return &f.tiles[p.Col][p.Row]
}

// At returns a copy of the tile at p. Addressing a position outside the
// field is a programming error and panics.
func (f *Field) At(p Position) Tile {
	return *f.tile(p)
}

// Flags lists flagged positions, column first. After a loss it still
// holds the flags placed during play.
func (f *Field) Flags() []Position {
	flags := make([]Position, 0, f.flagged.Size())
	f.flagged.Each(func(p Position) {
		flags = append(flags, p)
	})
	slices.SortFunc(flags, comparePositions)
	return flags
}

func (f *Field) around(p Position) iter.Seq[Position] {
	return func(yield func(Position) bool) {
		for dc := -1; dc <= 1; dc++ {
			for dr := -1; dr <= 1; dr++ {
				q := Pos(p.Col+dc, p.Row+dr)
				if (dc != 0 || dr != 0) && f.InBounds(q) {
					if !yield(q) {
						return
					}
				}
			}
		}
	}
}

// PlaceMines picks mineCount distinct positions other than exclude,
// uniformly at random. Once mines are placed it does nothing.
func (f *Field) PlaceMines(exclude Position) error {
	if !f.InBounds(exclude) {
		return ErrOutOfBounds
	}
	if f.placed {
		return nil
	}

	candidates := make([]Position, 0, f.width*f.height-1)
	for col := range f.width {
		for row := range f.height {
			if p := Pos(col, row); p != exclude {
				candidates = append(candidates, p)
			}
		}
	}

	/*
	 * Partial Fisher-Yates: pick one, then move the last live
	 * candidate into its slot.
	 */
	k := len(candidates)
	for range f.mineCount {
		i := f.rnd.IntN(k)
		f.tile(candidates[i]).mine = true
		k--
		candidates[i] = candidates[k]
	}

	f.placed = true
	return nil
}

// PlaceMinesAt installs a fixed layout instead of a random one. Like
// [Field.PlaceMines] it does nothing once mines are placed.
func (f *Field) PlaceMinesAt(layout []Position) error {
	if f.placed {
		return nil
	}
	if len(layout) != f.mineCount {
		return fmt.Errorf("%w: want %d mines, got %d", ErrBadLayout, f.mineCount, len(layout))
	}
	seen := mapset.New[Position]()
	for _, p := range layout {
		if !f.InBounds(p) {
			return fmt.Errorf("%w: mine %v out of bounds", ErrBadLayout, p)
		}
		if seen.Has(p) {
			return fmt.Errorf("%w: duplicate mine %v", ErrBadLayout, p)
		}
		seen.Put(p)
	}
	for _, p := range layout {
		f.tile(p).mine = true
	}
	f.placed = true
	return nil
}

func (f *Field) CountAdjacentMines(p Position) int {
	f.tile(p)
	n := 0
	for q := range f.around(p) {
		if f.tile(q).mine {
			n++
		}
	}
	return n
}

// Uncover opens a hidden tile, placing mines first if this is the opening
// move. Zero tiles flood outward breadth first; the flood stops at (and
// still opens) tiles that have adjacent mines.
func (f *Field) Uncover(p Position) (Reveal, error) {
	if !f.InBounds(p) {
		return Reveal{}, ErrOutOfBounds
	}
	t := f.tile(p)
	if t.State != Hidden {
		return Reveal{}, fmt.Errorf("%w: tile %v is not hidden", ErrInvalidOperation, p)
	}
	if err := f.PlaceMines(p); err != nil {
		return Reveal{}, err
	}

	if t.mine {
		t.State = ExplodedMine
		return Reveal{Outcome: HitMine}, nil
	}

	revealed := f.flood(p)
	return Reveal{Outcome: Revealed, Revealed: revealed, Won: f.Won()}, nil
}

func (f *Field) flood(start Position) []Position {
	var (
		revealed []Position
		queue    = []Position{start}
		visited  = mapset.Of(start)
	)
	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]

		n := f.CountAdjacentMines(p)
		f.tile(p).State = Uncovered(n)
		f.revealed++
		revealed = append(revealed, p)
		if n != 0 {
			continue
		}

		// tiles are queued at most once
		for q := range f.around(p) {
			if visited.Has(q) || f.tile(q).State != Hidden {
				continue
			}
			visited.Put(q)
			queue = append(queue, q)
		}
	}
	return revealed
}

func (f *Field) ToggleFlag(p Position) error {
	if !f.InBounds(p) {
		return ErrOutOfBounds
	}
	t := f.tile(p)
	switch t.State {
	case Hidden:
		t.State = Flagged
		f.flagged.Put(p)
	case Flagged:
		t.State = Hidden
		f.flagged.Remove(p)
	default:
		return fmt.Errorf("%w: tile %v cannot be flagged", ErrInvalidOperation, p)
	}
	return nil
}

// ChordCandidates reports whether the flags around p add up to
// requiredFlags, and which hidden neighbours a chord would open.
func (f *Field) ChordCandidates(p Position, requiredFlags int) (eligible bool, targets []Position) {
	if !f.InBounds(p) {
		return false, nil
	}
	flags := 0
	for q := range f.around(p) {
		switch f.tile(q).State {
		case Flagged:
			flags++
		case Hidden:
			targets = append(targets, q)
		}
	}
	return flags == requiredFlags, targets
}

// RevealAllMines shows every mine that is still covered. The mine that
// ended the game keeps its exploded state. Flags stay counted so the mine
// counter freezes where the game ended.
func (f *Field) RevealAllMines() {
	for col := range f.tiles {
		for row := range f.tiles[col] {
			t := &f.tiles[col][row]
			if t.mine && (t.State == Hidden || t.State == Flagged) {
				t.State = RevealedMine
			}
		}
	}
}

func (f *Field) MarkIncorrectFlags() {
	for col := range f.tiles {
		for row := range f.tiles[col] {
			t := &f.tiles[col][row]
			if !t.mine && t.State == Flagged {
				t.State = IncorrectFlag
			}
		}
	}
}

// Grid copies the visible state of every tile.
func (f *Field) Grid() Grid {
	g := make(Grid, f.width)
	for col := range f.tiles {
		g[col] = make([]TileState, f.height)
		for row, t := range f.tiles[col] {
			g[col][row] = t.State
		}
	}
	return g
}
