package universe

import (
	"errors"
	"testing"
)

//emptyUniverse returns the all dead width x height universe
func emptyUniverse(width uint32, height uint32) *Universe {
	u := New()
	u.SetWidth(width)
	u.SetHeight(height)
	return u
}

func aliveSet(u *Universe) map[Coord]bool {
	alive := map[Coord]bool{}
	for i, c := range u.GetCells() {
		if c == Alive {
			r, col, _ := u.RowCol(i)
			alive[Coord{r, col}] = true
		}
	}
	return alive
}

func assertAlive(t *testing.T, u *Universe, expected []Coord) {
	t.Helper()
	alive := aliveSet(u)
	if len(alive) != len(expected) {
		t.Fatalf("alive cells: %v, expected %v", len(alive), len(expected))
	}
	for _, c := range expected {
		if !alive[c] {
			t.Fatalf("cell %v is dead, expected alive\n%s", c, u.Render())
		}
	}
}

func TestNew_Seed(t *testing.T) {
	u := New()
	if u.Width() != 64 || u.Height() != 64 {
		t.Fatalf("dimension %vx%v, expected 64x64", u.Width(), u.Height())
	}
	cells := u.GetCells()
	if len(cells) != 64*64 {
		t.Fatalf("cells: %v, expected %v", len(cells), 64*64)
	}
	for _, i := range []int{0, 1, 2, 6, 7, 8, 9, 14, 15, 21, 63} {
		expected := Dead
		if i%2 == 0 || i%7 == 0 {
			expected = Alive
		}
		if cells[i] != expected {
			t.Errorf("cell %v is %v, expected %v", i, cells[i], expected)
		}
	}
	if cells[1] != Dead || cells[7] != Alive || cells[63] != Alive {
		t.Errorf("unexpected seed at the sample indexes")
	}
}

func TestResize_Clears(t *testing.T) {
	u := New()
	if err := u.ToggleCell(3, 3); err != nil {
		t.Fatal(err)
	}
	u.SetWidth(10)
	if l := len(u.GetCells()); l != 10*64 {
		t.Fatalf("cells after SetWidth: %v, expected %v", l, 10*64)
	}
	if n := u.LiveCells(); n != 0 {
		t.Fatalf("live cells after SetWidth: %v, expected 0", n)
	}

	if err := u.SetCells(Coord{1, 1}, Coord{2, 2}); err != nil {
		t.Fatal(err)
	}
	u.SetHeight(7)
	if l := len(u.GetCells()); l != 10*7 {
		t.Fatalf("cells after SetHeight: %v, expected %v", l, 10*7)
	}
	if n := u.LiveCells(); n != 0 {
		t.Fatalf("live cells after SetHeight: %v, expected 0", n)
	}
}

func TestKillAll(t *testing.T) {
	u := New()
	u.KillAll()
	if n := u.LiveCells(); n != 0 {
		t.Fatalf("live cells: %v, expected 0", n)
	}
	if l := len(u.GetCells()); l != 64*64 {
		t.Fatalf("cells: %v, expected %v", l, 64*64)
	}
}

func TestLiveNeighborCount_Toroidal(t *testing.T) {
	u := emptyUniverse(3, 3)
	if err := u.SetCells(Coord{0, 0}); err != nil {
		t.Fatal(err)
	}
	//on the 3x3 torus every cell touches every other one
	for _, c := range []Coord{{2, 2}, {1, 1}, {0, 2}, {2, 0}} {
		n, err := u.LiveNeighborCount(c.Row, c.Col)
		if err != nil {
			t.Fatal(err)
		}
		if n != 1 {
			t.Errorf("neighbours of %v: %v, expected 1", c, n)
		}
	}
	if n, _ := u.LiveNeighborCount(0, 0); n != 0 {
		t.Errorf("the cell counts itself: %v", n)
	}

	u = emptyUniverse(5, 5)
	if err := u.SetCells(Coord{0, 0}); err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		c        Coord
		expected uint8
	}{
		{Coord{4, 4}, 1},
		{Coord{4, 0}, 1},
		{Coord{0, 4}, 1},
		{Coord{1, 1}, 1},
		{Coord{2, 2}, 0},
		{Coord{3, 3}, 0},
		{Coord{0, 2}, 0},
	}
	for _, tt := range tests {
		n, err := u.LiveNeighborCount(tt.c.Row, tt.c.Col)
		if err != nil {
			t.Fatal(err)
		}
		if n != tt.expected {
			t.Errorf("neighbours of %v: %v, expected %v", tt.c, n, tt.expected)
		}
	}
}

func TestLiveNeighborCount_Errors(t *testing.T) {
	u := emptyUniverse(5, 5)
	if _, err := u.LiveNeighborCount(5, 0); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("expected ErrIndexOutOfRange, got %v", err)
	}
	u.SetWidth(0)
	if _, err := u.LiveNeighborCount(0, 0); !errors.Is(err, ErrEmptyUniverse) {
		t.Errorf("expected ErrEmptyUniverse, got %v", err)
	}
}

func TestTick_Rules(t *testing.T) {
	tests := []struct {
		cell      Cell
		neighbors uint8
		expected  Cell
	}{
		{Alive, 0, Dead},
		{Alive, 1, Dead},
		{Alive, 2, Alive},
		{Alive, 3, Alive},
		{Alive, 4, Dead},
		{Alive, 8, Dead},
		{Dead, 2, Dead},
		{Dead, 3, Alive},
		{Dead, 4, Dead},
		{Dead, 0, Dead},
	}
	for _, tt := range tests {
		if got := nextState(tt.cell, tt.neighbors); got != tt.expected {
			t.Errorf("%v with %v neighbours became %v, expected %v", tt.cell, tt.neighbors, got, tt.expected)
		}
	}
}

func TestTick_L(t *testing.T) {
	u := emptyUniverse(3, 3)
	if err := u.SetCells(Coord{0, 0}, Coord{0, 1}, Coord{1, 0}); err != nil {
		t.Fatal(err)
	}
	//each alive cell has 2 neighbours and each dead one has 3 on the 3x3 torus
	st, err := u.Tick()
	if err != nil {
		t.Fatal(err)
	}
	for i, c := range u.GetCells() {
		if c != Alive {
			t.Fatalf("cell %v is dead after the first tick\n%s", i, u.Render())
		}
	}
	if st.LiveCells != 9 || !st.Changed {
		t.Errorf("unexpected stats %+v", st)
	}

	//8 neighbours for everyone
	st, err = u.Tick()
	if err != nil {
		t.Fatal(err)
	}
	if n := u.LiveCells(); n != 0 {
		t.Fatalf("live cells after the second tick: %v, expected 0", n)
	}
	if st.LiveCells != 0 {
		t.Errorf("unexpected stats %+v", st)
	}
}

func TestTick_Simultaneous(t *testing.T) {
	//the in-place update would kill the blinker on its first row
	u := emptyUniverse(5, 5)
	if err := u.SetCells(Coord{1, 2}, Coord{2, 2}, Coord{3, 2}); err != nil {
		t.Fatal(err)
	}
	if _, err := u.Tick(); err != nil {
		t.Fatal(err)
	}
	assertAlive(t, u, []Coord{{2, 1}, {2, 2}, {2, 3}})
	if _, err := u.Tick(); err != nil {
		t.Fatal(err)
	}
	assertAlive(t, u, []Coord{{1, 2}, {2, 2}, {3, 2}})
}

func TestTick_StillLife(t *testing.T) {
	u := emptyUniverse(6, 6)
	if err := u.SetCells(Coord{1, 1}, Coord{1, 2}, Coord{2, 1}, Coord{2, 2}); err != nil {
		t.Fatal(err)
	}
	st, err := u.Tick()
	if err != nil {
		t.Fatal(err)
	}
	if st.Changed || st.LiveCells != 4 {
		t.Errorf("unexpected stats for the block %+v", st)
	}
}

func TestTick_Empty(t *testing.T) {
	u := New()
	u.SetHeight(0)
	if _, err := u.Tick(); !errors.Is(err, ErrEmptyUniverse) {
		t.Fatalf("expected ErrEmptyUniverse, got %v", err)
	}
}

func TestAddPulsar(t *testing.T) {
	//the seeded grid has live and dead cells inside the box
	u := New()
	if err := u.AddPulsar(20, 30); err != nil {
		t.Fatal(err)
	}
	expected := map[Coord]bool{}
	for _, c := range Pulsar.Alive {
		expected[Coord{14 + c.Row, 24 + c.Col}] = true
	}
	alive := 0
	for r := uint32(14); r <= 26; r++ {
		for c := uint32(24); c <= 36; c++ {
			i, _ := u.Index(r, c)
			cell := u.GetCells()[i]
			if cell == Alive {
				alive++
			}
			if (cell == Alive) != expected[Coord{r, c}] {
				t.Fatalf("cell (%v,%v) is %v\n%s", r, c, cell, u.Render())
			}
		}
	}
	if alive != 48 {
		t.Fatalf("alive cells in the box: %v, expected 48", alive)
	}
	//outside the box the seed is kept
	if i, _ := u.Index(0, 0); u.GetCells()[i] != Alive {
		t.Errorf("cell outside the pulsar box changed")
	}
}

func TestPulsar_Table(t *testing.T) {
	if len(Pulsar.Alive) != 48 {
		t.Fatalf("pulsar cells: %v, expected 48", len(Pulsar.Alive))
	}
	inRange := func(v uint32, set ...uint32) bool {
		for _, s := range set {
			if v == s {
				return true
			}
		}
		return false
	}
	for _, c := range Pulsar.Alive {
		switch {
		case inRange(c.Row, 1, 6, 11):
			t.Errorf("%v is in an empty row", c)
		case inRange(c.Row, 0, 5, 7, 12):
			if !inRange(c.Col, 2, 3, 4, 8, 9, 10) {
				t.Errorf("%v is not in a bar", c)
			}
		default:
			if !inRange(c.Col, 0, 5, 7, 12) {
				t.Errorf("%v is not in a column bar", c)
			}
		}
	}
}

func TestPulsar_Period(t *testing.T) {
	u := emptyUniverse(32, 32)
	if err := u.AddPulsar(16, 16); err != nil {
		t.Fatal(err)
	}
	start := u.GetCells()
	for i := 1; i <= 3; i++ {
		if _, err := u.Tick(); err != nil {
			t.Fatal(err)
		}
		same := true
		for j, c := range u.GetCells() {
			if c != start[j] {
				same = false
				break
			}
		}
		if same != (i == 3) {
			t.Fatalf("generation %v equals the start: %v\n%s", i, same, u.Render())
		}
	}
}

func TestAddPulsar_OutOfRange(t *testing.T) {
	tests := []Coord{{5, 20}, {20, 5}, {58, 20}, {20, 58}, {0, 0}}
	for _, c := range tests {
		u := New()
		before := u.GetCells()
		if err := u.AddPulsar(c.Row, c.Col); !errors.Is(err, ErrIndexOutOfRange) {
			t.Errorf("anchor %v: expected ErrIndexOutOfRange, got %v", c, err)
		}
		for i, cell := range u.GetCells() {
			if cell != before[i] {
				t.Fatalf("anchor %v: cell %v changed", c, i)
			}
		}
	}
	u := New()
	if err := u.AddPulsar(57, 57); err != nil {
		t.Errorf("anchor at the last valid position: %v", err)
	}
	if err := u.AddPulsar(6, 6); err != nil {
		t.Errorf("anchor at the first valid position: %v", err)
	}
}

func TestAddSpaceship(t *testing.T) {
	u := emptyUniverse(10, 10)
	if err := u.AddSpaceship(2, 3); err != nil {
		t.Fatal(err)
	}
	assertAlive(t, u, []Coord{{3, 5}, {4, 6}, {5, 4}, {5, 5}, {5, 6}})
}

func TestAddSpaceship_KeepsOtherCells(t *testing.T) {
	u := New()
	before := u.GetCells()
	if err := u.AddSpaceship(0, 0); err != nil {
		t.Fatal(err)
	}
	stamped := map[int]bool{}
	for _, c := range []Coord{{1, 2}, {2, 3}, {3, 1}, {3, 2}, {3, 3}} {
		i, _ := u.Index(c.Row, c.Col)
		stamped[i] = true
	}
	for i, c := range u.GetCells() {
		if stamped[i] {
			if c != Alive {
				t.Errorf("cell %v is dead", i)
			}
		} else if c != before[i] {
			t.Errorf("cell %v changed", i)
		}
	}
}

func TestAddSpaceship_OutOfRange(t *testing.T) {
	u := emptyUniverse(10, 10)
	for _, c := range []Coord{{7, 0}, {0, 7}, {10, 10}} {
		if err := u.AddSpaceship(c.Row, c.Col); !errors.Is(err, ErrIndexOutOfRange) {
			t.Errorf("anchor %v: expected ErrIndexOutOfRange, got %v", c, err)
		}
	}
	if n := u.LiveCells(); n != 0 {
		t.Fatalf("live cells after the rejected stamps: %v", n)
	}
	if err := u.AddSpaceship(6, 6); err != nil {
		t.Errorf("anchor at the last valid position: %v", err)
	}
}

func TestSpaceship_Glides(t *testing.T) {
	u := emptyUniverse(8, 8)
	if err := u.AddSpaceship(0, 0); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 4; i++ {
		if _, err := u.Tick(); err != nil {
			t.Fatal(err)
		}
	}
	assertAlive(t, u, []Coord{{2, 3}, {3, 4}, {4, 2}, {4, 3}, {4, 4}})
}

func TestSetCells_Atomic(t *testing.T) {
	u := emptyUniverse(4, 4)
	err := u.SetCells(Coord{0, 0}, Coord{1, 1}, Coord{4, 0})
	if !errors.Is(err, ErrIndexOutOfRange) {
		t.Fatalf("expected ErrIndexOutOfRange, got %v", err)
	}
	if n := u.LiveCells(); n != 0 {
		t.Fatalf("live cells: %v, expected 0", n)
	}
	if err := u.SetCells(Coord{0, 0}, Coord{0, 0}, Coord{3, 3}); err != nil {
		t.Fatal(err)
	}
	assertAlive(t, u, []Coord{{0, 0}, {3, 3}})
}

func TestToggleCell(t *testing.T) {
	u := New()
	before := u.GetCells()
	i, _ := u.Index(5, 9)
	if err := u.ToggleCell(5, 9); err != nil {
		t.Fatal(err)
	}
	if u.GetCells()[i] == before[i] {
		t.Fatalf("cell %v did not change", i)
	}
	if err := u.ToggleCell(5, 9); err != nil {
		t.Fatal(err)
	}
	for j, c := range u.GetCells() {
		if c != before[j] {
			t.Fatalf("cell %v differs after the second toggle", j)
		}
	}
	if err := u.ToggleCell(64, 0); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("expected ErrIndexOutOfRange, got %v", err)
	}
}

func TestIndexRowCol(t *testing.T) {
	u := emptyUniverse(7, 3)
	i, err := u.Index(2, 5)
	if err != nil || i != 19 {
		t.Fatalf("index: %v, %v, expected 19", i, err)
	}
	r, c, err := u.RowCol(19)
	if err != nil || r != 2 || c != 5 {
		t.Fatalf("row col: %v, %v, %v", r, c, err)
	}
	if _, _, err := u.RowCol(21); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("expected ErrIndexOutOfRange, got %v", err)
	}
	if _, err := u.Index(0, 7); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("expected ErrIndexOutOfRange, got %v", err)
	}
}

func TestCells_View(t *testing.T) {
	u := emptyUniverse(3, 2)
	if err := u.SetCells(Coord{1, 2}); err != nil {
		t.Fatal(err)
	}
	v := u.Cells()
	if !v.Valid() {
		t.Fatal("fresh view is invalid")
	}
	if v.Len() != 6 || v.Width() != 3 || v.Height() != 2 {
		t.Fatalf("view %vx%v with %v cells", v.Width(), v.Height(), v.Len())
	}
	if v.Cell(1, 2) != Alive || v.At(5) != Alive || v.At(0) != Dead {
		t.Fatal("view does not match the cells")
	}
	dst := make([]Cell, 6)
	if n := v.CopyTo(dst); n != 6 || dst[5] != Alive {
		t.Fatalf("copied %v cells", n)
	}
	if _, err := u.Tick(); err != nil {
		t.Fatal(err)
	}
	if v.Valid() {
		t.Fatal("view is valid after the tick")
	}
	if !u.Cells().Valid() {
		t.Fatal("new view is invalid")
	}
}

func TestRender(t *testing.T) {
	u := emptyUniverse(2, 2)
	if err := u.ToggleCell(0, 1); err != nil {
		t.Fatal(err)
	}
	if s := u.Render(); s != "◻◼\n◻◻\n" {
		t.Fatalf("render: %q", s)
	}
	if s := u.RenderWith(".", "#"); s != ".#\n..\n" {
		t.Fatalf("render: %q", s)
	}
	u.SetWidth(0)
	if s := u.Render(); s != "" {
		t.Fatalf("render of the empty grid: %q", s)
	}
}

func TestPresets(t *testing.T) {
	u := emptyUniverse(20, 20)
	for name, p := range Presets {
		if name != p.Name {
			t.Errorf("preset %v is registered as %v", p.Name, name)
		}
		u.KillAll()
		if err := u.Stamp(p, 10, 10); err != nil {
			t.Fatalf("%v: %v", name, err)
		}
		if n := u.LiveCells(); n != len(p.Alive) {
			t.Errorf("%v: live cells %v, expected %v", name, n, len(p.Alive))
		}
	}
}
