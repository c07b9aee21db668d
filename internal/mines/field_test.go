package mines

import (
	"math/rand/v2"
	"os"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	Log.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
	})
	// Log.SetLevel(logrus.DebugLevel)
	os.Exit(m.Run())
}

func newTestField(t *testing.T, width, height int, layout ...Position) *Field {
	t.Helper()
	f, err := NewField(width, height, len(layout), rand.New(rand.NewPCG(1, 2)))
	require.NoError(t, err)
	require.NoError(t, f.PlaceMinesAt(layout))
	return f
}

func countMines(f *Field) int {
	n := 0
	for col := range f.Width() {
		for row := range f.Height() {
			if f.At(Pos(col, row)).IsMine() {
				n++
			}
		}
	}
	return n
}

func TestNewFieldRejectsBadParams(t *testing.T) {
	tests := []struct {
		name                     string
		width, height, mineCount int
	}{
		{"zero width", 0, 9, 1},
		{"negative height", 9, -1, 1},
		{"negative mines", 9, 9, -1},
		{"no free tile", 3, 3, 9},
		{"too many mines", 3, 3, 12},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := NewField(test.width, test.height, test.mineCount, nil)
			assert.ErrorIs(t, err, ErrBadParams)
		})
	}
}

func TestFirstUncoverIsNeverAMine(t *testing.T) {
	start := Pos(4, 4)
	for seed := range uint64(200) {
		f, err := NewField(9, 9, 10, rand.New(rand.NewPCG(seed, 2)))
		require.NoError(t, err)
		require.False(t, f.MinesPlaced())

		reveal, err := f.Uncover(start)
		require.NoError(t, err)

		assert.True(t, f.MinesPlaced())
		assert.Equal(t, Revealed, reveal.Outcome)
		assert.False(t, f.At(start).IsMine(), "seed %d", seed)
		assert.Equal(t, 10, countMines(f), "seed %d", seed)
	}
}

func TestFirstUncoverEveryStartingTile(t *testing.T) {
	if testing.Short() {
		t.Skip()
	}

	t.Parallel()

	for _, d := range Difficulties {
		t.Run(d.String(), func(t *testing.T) {
			t.Parallel()
			width, height, mineCount := d.Params().Unpack()
			r := rand.New(rand.NewPCG(1, 2))
			for col := range width {
				for row := range height {
					f, err := NewField(width, height, mineCount, r)
					require.NoError(t, err)
					_, err = f.Uncover(Pos(col, row))
					require.NoError(t, err)
					assert.False(t, f.At(Pos(col, row)).IsMine())
					assert.Equal(t, mineCount, countMines(f))
				}
			}
		})
	}
}

func TestPlaceMinesIsOneShot(t *testing.T) {
	f, err := NewField(9, 9, 10, rand.New(rand.NewPCG(1, 2)))
	require.NoError(t, err)

	require.NoError(t, f.PlaceMines(Pos(0, 0)))
	first := make(map[Position]bool)
	for col := range 9 {
		for row := range 9 {
			first[Pos(col, row)] = f.At(Pos(col, row)).IsMine()
		}
	}

	require.NoError(t, f.PlaceMines(Pos(8, 8)))
	require.NoError(t, f.PlaceMinesAt([]Position{Pos(1, 1)}))
	for p, mine := range first {
		assert.Equal(t, mine, f.At(p).IsMine(), "tile %v", p)
	}
	assert.Equal(t, 10, countMines(f))
}

func TestPlaceMinesOutOfBounds(t *testing.T) {
	f, err := NewField(9, 9, 10, nil)
	require.NoError(t, err)
	assert.ErrorIs(t, f.PlaceMines(Pos(9, 0)), ErrOutOfBounds)
	assert.False(t, f.MinesPlaced())
}

func TestPlaceMinesAtValidatesLayout(t *testing.T) {
	tests := []struct {
		name   string
		layout []Position
	}{
		{"too few", []Position{Pos(0, 0)}},
		{"duplicate", []Position{Pos(0, 0), Pos(0, 0)}},
		{"out of bounds", []Position{Pos(0, 0), Pos(3, 0)}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			f, err := NewField(3, 3, 2, nil)
			require.NoError(t, err)
			assert.ErrorIs(t, f.PlaceMinesAt(test.layout), ErrBadLayout)
			assert.False(t, f.MinesPlaced())
			assert.Zero(t, countMines(f))
		})
	}
}

func TestCountAdjacentMines(t *testing.T) {
	f := newTestField(t, 4, 3, Pos(0, 0), Pos(1, 0), Pos(3, 2))

	tests := []struct {
		pos  Position
		want int
	}{
		{Pos(0, 1), 2},
		{Pos(1, 1), 2},
		{Pos(2, 1), 2},
		{Pos(2, 0), 1},
		{Pos(3, 0), 0},
		{Pos(0, 2), 0},
		{Pos(0, 0), 1},
	}
	for _, test := range tests {
		assert.Equal(t, test.want, f.CountAdjacentMines(test.pos), "tile %v", test.pos)
	}
}

func TestUncoverNumberedTileDoesNotExpand(t *testing.T) {
	f := newTestField(t, 5, 5, Pos(0, 0))

	reveal, err := f.Uncover(Pos(1, 1))
	require.NoError(t, err)

	assert.Equal(t, []Position{Pos(1, 1)}, reveal.Revealed)
	assert.Equal(t, Uncovered(1), f.At(Pos(1, 1)).State)
	assert.Equal(t, 1, f.RevealedCount())
	for q := range f.around(Pos(1, 1)) {
		assert.Equal(t, Hidden, f.At(q).State, "tile %v", q)
	}
}

func TestUncoverFloodStopsAtNumbers(t *testing.T) {
	// a wall of mines down column 2
	f := newTestField(t, 5, 5, Pos(2, 0), Pos(2, 1), Pos(2, 2), Pos(2, 3), Pos(2, 4))

	reveal, err := f.Uncover(Pos(0, 0))
	require.NoError(t, err)

	assert.Equal(t, Pos(0, 0), reveal.Revealed[0])
	assert.Len(t, reveal.Revealed, 10)
	assert.Equal(t, 10, f.RevealedCount())
	assert.False(t, reveal.Won)

	for row := range 5 {
		assert.Equal(t, Uncovered(0), f.At(Pos(0, row)).State)
	}
	wantBorder := []int{2, 3, 3, 3, 2}
	for row, want := range wantBorder {
		assert.Equal(t, Uncovered(want), f.At(Pos(1, row)).State)
	}
	for col := 2; col < 5; col++ {
		for row := range 5 {
			assert.Equal(t, Hidden, f.At(Pos(col, row)).State, "tile %d:%d", col, row)
		}
	}
}

func TestUncoverFloodVisitsEachTileOnce(t *testing.T) {
	f := newTestField(t, 9, 9, Pos(8, 8))

	reveal, err := f.Uncover(Pos(0, 0))
	require.NoError(t, err)

	seen := make(map[Position]bool)
	for _, p := range reveal.Revealed {
		assert.False(t, seen[p], "tile %v revealed twice", p)
		seen[p] = true
	}
	assert.Len(t, reveal.Revealed, 80)
	assert.True(t, reveal.Won)
	assert.True(t, f.Won())
}

func TestUncoverMine(t *testing.T) {
	f := newTestField(t, 3, 3, Pos(1, 1))

	reveal, err := f.Uncover(Pos(1, 1))
	require.NoError(t, err)

	assert.Equal(t, HitMine, reveal.Outcome)
	assert.Empty(t, reveal.Revealed)
	assert.Equal(t, ExplodedMine, f.At(Pos(1, 1)).State)
	assert.Zero(t, f.RevealedCount())
}

func TestUncoverRejectsInvalidTargets(t *testing.T) {
	f := newTestField(t, 3, 3, Pos(0, 0))

	_, err := f.Uncover(Pos(3, 3))
	assert.ErrorIs(t, err, ErrOutOfBounds)
	assert.ErrorIs(t, err, ErrInvalidOperation)

	_, err = f.Uncover(Pos(1, 1))
	require.NoError(t, err)
	_, err = f.Uncover(Pos(1, 1))
	assert.ErrorIs(t, err, ErrInvalidOperation)
	assert.Equal(t, 1, f.RevealedCount())

	require.NoError(t, f.ToggleFlag(Pos(0, 2)))
	_, err = f.Uncover(Pos(0, 2))
	assert.ErrorIs(t, err, ErrInvalidOperation)
	assert.Equal(t, Flagged, f.At(Pos(0, 2)).State)
}

func TestToggleFlag(t *testing.T) {
	f := newTestField(t, 3, 3, Pos(0, 0))

	require.NoError(t, f.ToggleFlag(Pos(1, 1)))
	assert.Equal(t, Flagged, f.At(Pos(1, 1)).State)
	assert.Equal(t, []Position{Pos(1, 1)}, f.Flags())

	require.NoError(t, f.ToggleFlag(Pos(1, 1)))
	assert.Equal(t, Hidden, f.At(Pos(1, 1)).State)
	assert.Empty(t, f.Flags())
	assert.Zero(t, f.FlagCount())

	_, err := f.Uncover(Pos(2, 2))
	require.NoError(t, err)
	assert.ErrorIs(t, f.ToggleFlag(Pos(2, 2)), ErrInvalidOperation)
	assert.ErrorIs(t, f.ToggleFlag(Pos(-1, 0)), ErrOutOfBounds)
}

func TestFlagsMayExceedMines(t *testing.T) {
	f := newTestField(t, 3, 3, Pos(0, 0))
	for _, p := range []Position{Pos(0, 1), Pos(1, 1), Pos(2, 2)} {
		require.NoError(t, f.ToggleFlag(p))
	}
	assert.Equal(t, 3, f.FlagCount())
	assert.Equal(t, []Position{Pos(0, 1), Pos(1, 1), Pos(2, 2)}, f.Flags())
}

func TestChordCandidates(t *testing.T) {
	f := newTestField(t, 3, 3, Pos(0, 0), Pos(2, 0))

	_, err := f.Uncover(Pos(1, 1))
	require.NoError(t, err)
	require.NoError(t, f.ToggleFlag(Pos(0, 0)))

	eligible, targets := f.ChordCandidates(Pos(1, 1), 2)
	assert.False(t, eligible)
	assert.Len(t, targets, 7)

	require.NoError(t, f.ToggleFlag(Pos(2, 0)))
	eligible, targets = f.ChordCandidates(Pos(1, 1), 2)
	assert.True(t, eligible)
	assert.ElementsMatch(t, []Position{
		Pos(1, 0), Pos(0, 1), Pos(2, 1), Pos(0, 2), Pos(1, 2), Pos(2, 2),
	}, targets)

	eligible, targets = f.ChordCandidates(Pos(5, 5), 0)
	assert.False(t, eligible)
	assert.Nil(t, targets)
}

func TestRevealAllMinesAndIncorrectFlags(t *testing.T) {
	f := newTestField(t, 3, 3, Pos(0, 0), Pos(2, 2), Pos(2, 0))

	require.NoError(t, f.ToggleFlag(Pos(2, 2)))
	require.NoError(t, f.ToggleFlag(Pos(0, 2)))
	reveal, err := f.Uncover(Pos(0, 0))
	require.NoError(t, err)
	require.Equal(t, HitMine, reveal.Outcome)

	f.RevealAllMines()
	f.MarkIncorrectFlags()

	assert.Equal(t, ExplodedMine, f.At(Pos(0, 0)).State)
	assert.Equal(t, RevealedMine, f.At(Pos(2, 0)).State)
	assert.Equal(t, RevealedMine, f.At(Pos(2, 2)).State)
	assert.Equal(t, IncorrectFlag, f.At(Pos(0, 2)).State)
	assert.Equal(t, Hidden, f.At(Pos(1, 1)).State)
	assert.Equal(t, 2, f.FlagCount(), "flags stay counted after a loss")
	assert.Equal(t, []Position{Pos(0, 2), Pos(2, 2)}, f.Flags())
}

func TestAtPanicsOutOfBounds(t *testing.T) {
	f := newTestField(t, 3, 3, Pos(0, 0))
	assert.Panics(t, func() { f.At(Pos(3, 0)) })
	assert.Panics(t, func() { f.At(Pos(0, -1)) })
	assert.Panics(t, func() { f.CountAdjacentMines(Pos(-1, -1)) })
}

func TestReset(t *testing.T) {
	f := newTestField(t, 3, 3, Pos(0, 0))
	_, err := f.Uncover(Pos(2, 2))
	require.NoError(t, err)
	require.NoError(t, f.ToggleFlag(Pos(0, 0)))

	f.Reset()

	assert.False(t, f.MinesPlaced())
	assert.Zero(t, f.RevealedCount())
	assert.Zero(t, f.FlagCount())
	assert.Zero(t, countMines(f))
	for col := range 3 {
		for row := range 3 {
			assert.Equal(t, Hidden, f.At(Pos(col, row)).State)
		}
	}
}

// Random play must keep every uncovered count true to the layout, and the
// field is won exactly when all safe tiles are open.
func TestRandomPlayInvariants(t *testing.T) {
	for seed := range uint64(50) {
		r := rand.New(rand.NewPCG(seed, 2))
		f, err := NewField(9, 9, 10, r)
		require.NoError(t, err)

		for range 200 {
			p := Pos(r.IntN(9), r.IntN(9))
			if r.IntN(4) == 0 {
				_ = f.ToggleFlag(p)
				continue
			}
			reveal, err := f.Uncover(p)
			if err != nil {
				continue
			}
			if reveal.Outcome == HitMine {
				break
			}

			for col := range 9 {
				for row := range 9 {
					q := Pos(col, row)
					if n, ok := f.At(q).State.Count(); ok {
						require.False(t, f.At(q).IsMine())
						require.Equal(t, f.CountAdjacentMines(q), n, "seed %d tile %v", seed, q)
					}
				}
			}
			require.Equal(t, f.RevealedCount() == 81-10, f.Won())
			require.Equal(t, f.Won(), reveal.Won)
			if reveal.Won {
				break
			}
		}
	}
}
