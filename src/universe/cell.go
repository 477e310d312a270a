package universe

//Cell is the state of one grid position
//Alive is 1 and Dead is 0 so the neighbour counting can sum the cells
type Cell uint8

const (
	Dead  Cell = 0
	Alive Cell = 1
)

//Toggle flips the cell state
func (c *Cell) Toggle() {
	if *c == Alive {
		*c = Dead
	} else {
		*c = Alive
	}
}

//Birth makes the cell alive
func (c *Cell) Birth() {
	*c = Alive
}

//Kill makes the cell dead
func (c *Cell) Kill() {
	*c = Dead
}

func (c Cell) String() string {
	if c == Alive {
		return "Alive"
	}
	return "Dead"
}

//Coord is the (row, col) position of a cell
type Coord struct {
	Row uint32
	Col uint32
}
