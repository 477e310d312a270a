package universe

import "fmt"

//Pattern is a fixed preset which can be stamped on the universe
//Alive lists the live cells as offsets from the top-left corner of the Height x Width box
//Origin is the anchor position inside the box, the cell the caller points to
//ClearBox kills every cell of the box before the live cells are placed
type Pattern struct {
	Name     string
	Descr    string
	Height   uint32
	Width    uint32
	Origin   Coord
	ClearBox bool
	Alive    []Coord
}

var (
	//Pulsar is the period 3 oscillator, anchored at its centre
	Pulsar = Pattern{
		Name:     "pulsar",
		Descr:    "period 3 oscillator in a 13x13 box",
		Height:   13,
		Width:    13,
		Origin:   Coord{6, 6},
		ClearBox: true,
		Alive: []Coord{
			{0, 2}, {0, 3}, {0, 4}, {0, 8}, {0, 9}, {0, 10},
			{2, 0}, {2, 5}, {2, 7}, {2, 12},
			{3, 0}, {3, 5}, {3, 7}, {3, 12},
			{4, 0}, {4, 5}, {4, 7}, {4, 12},
			{5, 2}, {5, 3}, {5, 4}, {5, 8}, {5, 9}, {5, 10},
			{7, 2}, {7, 3}, {7, 4}, {7, 8}, {7, 9}, {7, 10},
			{8, 0}, {8, 5}, {8, 7}, {8, 12},
			{9, 0}, {9, 5}, {9, 7}, {9, 12},
			{10, 0}, {10, 5}, {10, 7}, {10, 12},
			{12, 2}, {12, 3}, {12, 4}, {12, 8}, {12, 9}, {12, 10},
		},
	}

	//Spaceship is the five cell glider, anchored at the top-left corner of its box
	Spaceship = Pattern{
		Name:   "spaceship",
		Descr:  "five cell glider",
		Height: 4,
		Width:  4,
		Alive: []Coord{
			{1, 2},
			{2, 3},
			{3, 1}, {3, 2}, {3, 3},
		},
	}

	//Presets holds the built-in patterns by name
	Presets = map[string]Pattern{
		Pulsar.Name:    Pulsar,
		Spaceship.Name: Spaceship,
	}
)

//At returns the absolute coordinates of the live cells when the pattern is anchored at row, col
//the bounds of the universe are not checked here
func (p Pattern) At(row uint32, col uint32) ([]Coord, error) {
	if row < p.Origin.Row || col < p.Origin.Col {
		return nil, fmt.Errorf("%s anchored at (%d,%d) starts before the grid origin: %w", p.Name, row, col, ErrIndexOutOfRange)
	}
	top, left := row-p.Origin.Row, col-p.Origin.Col
	cc := make([]Coord, len(p.Alive))
	for i, c := range p.Alive {
		cc[i] = Coord{top + c.Row, left + c.Col}
	}
	return cc, nil
}

//Stamp places the pattern anchored at row, col
//the whole box must fit inside the grid, nothing is written otherwise
func (u *Universe) Stamp(p Pattern, row uint32, col uint32) error {
	cc, err := p.At(row, col)
	if err != nil {
		return err
	}
	top, left := row-p.Origin.Row, col-p.Origin.Col
	if uint64(top)+uint64(p.Height) > uint64(u.height) || uint64(left)+uint64(p.Width) > uint64(u.width) {
		return fmt.Errorf("%s anchored at (%d,%d) does not fit the %dx%d grid: %w", p.Name, row, col, u.width, u.height, ErrIndexOutOfRange)
	}
	if p.ClearBox {
		for r := top; r < top+p.Height; r++ {
			start := u.index(r, left)
			for i := start; i < start+int(p.Width); i++ {
				u.cells[i].Kill()
			}
		}
	}
	u.setCells(cc)
	u.epoch++
	return nil
}
