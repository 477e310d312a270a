package universe

import (
	"errors"
	"fmt"
	"strings"
)

//default dimensions of a new universe
const (
	DefWidth  = 64
	DefHeight = 64
)

//glyphs used by Render
const (
	DeadGlyph  = "◻"
	AliveGlyph = "◼"
)

var (
	//ErrIndexOutOfRange is returned when a row or column is outside the grid
	ErrIndexOutOfRange = errors.New("index out of range")
	//ErrEmptyUniverse is returned when the grid has a zero dimension and the operation needs neighbours
	ErrEmptyUniverse = errors.New("universe has a zero dimension")
)

//Universe is the toroidal Life grid
//cells are stored row-major, cells[row*width+col] is the state at (row, col)
//the universe is not safe for concurrent use, it should be owned by one goroutine
type Universe struct {
	width  uint32
	height uint32
	cells  []Cell
	epoch  uint64 //incremented on every mutation, invalidates borrowed views
}

//TickStats describes the generation produced by Tick
type TickStats struct {
	LiveCells int
	Changed   bool
}

//New creates the 64x64 universe settled with the default seed
func New() *Universe {
	return NewSized(DefWidth, DefHeight)
}

//NewSized creates the width x height universe settled with the default seed
func NewSized(width uint32, height uint32) *Universe {
	u := &Universe{width: width, height: height}
	u.Seed()
	return u
}

//Seed settles the universe with the deterministic default pattern:
//the cell with linear index i is alive if i%2 == 0 or i%7 == 0
func (u *Universe) Seed() {
	u.cells = make([]Cell, u.size())
	for i := range u.cells {
		if i%2 == 0 || i%7 == 0 {
			u.cells[i] = Alive
		}
	}
	u.epoch++
}

func (u *Universe) Width() uint32 {
	return u.width
}

func (u *Universe) Height() uint32 {
	return u.height
}

//SetWidth changes the width, all cells become dead
func (u *Universe) SetWidth(width uint32) {
	u.width = width
	u.KillAll()
}

//SetHeight changes the height, all cells become dead
func (u *Universe) SetHeight(height uint32) {
	u.height = height
	u.KillAll()
}

//KillAll reallocates the cells at the current dimensions, all dead
func (u *Universe) KillAll() {
	u.cells = make([]Cell, u.size())
	u.epoch++
}

//GetCells returns a copy of the cells in row-major order
func (u *Universe) GetCells() []Cell {
	cc := make([]Cell, len(u.cells))
	copy(cc, u.cells)
	return cc
}

//Cells returns the read-only view over the cell buffer without copying
//the view is valid until the next mutating call
func (u *Universe) Cells() View {
	return View{u: u, cells: u.cells, epoch: u.epoch, width: u.width, height: u.height}
}

//LiveCells returns the number of alive cells
func (u *Universe) LiveCells() int {
	n := 0
	for _, c := range u.cells {
		n += int(c)
	}
	return n
}

//Index returns the linear index of the cell at row, col
func (u *Universe) Index(row uint32, col uint32) (int, error) {
	if err := u.check(row, col); err != nil {
		return 0, err
	}
	return u.index(row, col), nil
}

//RowCol returns the row and column of the linear index
func (u *Universe) RowCol(index int) (row uint32, col uint32, err error) {
	if index < 0 || index >= len(u.cells) {
		return 0, 0, fmt.Errorf("index %d of %d cells: %w", index, len(u.cells), ErrIndexOutOfRange)
	}
	return uint32(index / int(u.width)), uint32(index % int(u.width)), nil
}

//SetCells makes the cells alive
//all coordinates are checked first, nothing is written if one of them is outside the grid
func (u *Universe) SetCells(cc ...Coord) error {
	for _, c := range cc {
		if err := u.check(c.Row, c.Col); err != nil {
			return err
		}
	}
	u.setCells(cc)
	u.epoch++
	return nil
}

//ToggleCell flips the state of the cell at row, col
func (u *Universe) ToggleCell(row uint32, col uint32) error {
	if err := u.check(row, col); err != nil {
		return err
	}
	u.cells[u.index(row, col)].Toggle()
	u.epoch++
	return nil
}

//AddPulsar stamps the pulsar centred at row, col
//the pulsar box is cleared first, so the anchor must be at least 6 cells away from every edge
func (u *Universe) AddPulsar(row uint32, col uint32) error {
	return u.Stamp(Pulsar, row, col)
}

//AddSpaceship makes the five spaceship cells alive relative to row, col
//other cells are not changed
func (u *Universe) AddSpaceship(row uint32, col uint32) error {
	cc, err := Spaceship.At(row, col)
	if err != nil {
		return err
	}
	return u.SetCells(cc...)
}

//LiveNeighborCount returns the number of alive cells among the 8 toroidal neighbours of row, col
func (u *Universe) LiveNeighborCount(row uint32, col uint32) (uint8, error) {
	if u.width == 0 || u.height == 0 {
		return 0, ErrEmptyUniverse
	}
	if err := u.check(row, col); err != nil {
		return 0, err
	}
	return u.liveNeighborCount(row, col), nil
}

//Tick calculates the next generation
//all cells are calculated to a new buffer from the current state, then the buffer replaces the cells
func (u *Universe) Tick() (st TickStats, err error) {
	if u.width == 0 || u.height == 0 {
		return st, ErrEmptyUniverse
	}
	next := make([]Cell, len(u.cells))
	for row := uint32(0); row < u.height; row++ {
		for col := uint32(0); col < u.width; col++ {
			idx := u.index(row, col)
			cell := u.cells[idx]
			nextCell := nextState(cell, u.liveNeighborCount(row, col))
			next[idx] = nextCell
			st.LiveCells += int(nextCell)
			st.Changed = st.Changed || nextCell != cell
		}
	}
	u.cells = next
	u.epoch++
	return st, nil
}

//Render returns the text snapshot, one line per row
func (u *Universe) Render() string {
	return u.RenderWith(DeadGlyph, AliveGlyph)
}

//RenderWith renders the grid with the given glyphs
func (u *Universe) RenderWith(dead string, alive string) string {
	return RenderCells(u.cells, u.width, dead, alive)
}

//RenderCells renders the row-major cells of the width wide grid, one line per row
func RenderCells(cells []Cell, width uint32, dead string, alive string) string {
	if width == 0 {
		return ""
	}
	var b strings.Builder
	w := int(width)
	for start := 0; start+w <= len(cells); start += w {
		for _, c := range cells[start : start+w] {
			if c == Alive {
				b.WriteString(alive)
			} else {
				b.WriteString(dead)
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func (u *Universe) String() string {
	return u.Render()
}

//nextState applies the B3/S23 rule
func nextState(cell Cell, liveNeighbors uint8) Cell {
	switch {
	case cell == Alive && liveNeighbors < 2:
		return Dead
	case cell == Alive && (liveNeighbors == 2 || liveNeighbors == 3):
		return Alive
	case cell == Alive && liveNeighbors > 3:
		return Dead
	case cell == Dead && liveNeighbors == 3:
		return Alive
	}
	return cell
}

func (u *Universe) liveNeighborCount(row uint32, col uint32) uint8 {
	var count uint8
	h, w := uint64(u.height), uint64(u.width)
	for _, dr := range [3]uint64{h - 1, 0, 1} {
		for _, dc := range [3]uint64{w - 1, 0, 1} {
			if dr == 0 && dc == 0 {
				continue
			}
			nr := (uint64(row) + dr) % h
			nc := (uint64(col) + dc) % w
			count += uint8(u.cells[u.index(uint32(nr), uint32(nc))])
		}
	}
	return count
}

func (u *Universe) setCells(cc []Coord) {
	for _, c := range cc {
		u.cells[u.index(c.Row, c.Col)].Birth()
	}
}

func (u *Universe) check(row uint32, col uint32) error {
	if row >= u.height || col >= u.width {
		return fmt.Errorf("cell (%d,%d) outside the %dx%d grid: %w", row, col, u.width, u.height, ErrIndexOutOfRange)
	}
	return nil
}

func (u *Universe) index(row uint32, col uint32) int {
	return int(row)*int(u.width) + int(col)
}

func (u *Universe) size() int {
	return int(u.width) * int(u.height)
}
