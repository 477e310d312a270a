package universe

//View is the borrowed read-only access to the universe cells
//it shares the buffer with the universe, so it is valid until the next mutating call
//the data read through an invalid view is undefined
type View struct {
	u      *Universe
	cells  []Cell
	epoch  uint64
	width  uint32
	height uint32
}

//Valid reports whether the universe was not mutated since the view was taken
func (v View) Valid() bool {
	return v.u != nil && v.u.epoch == v.epoch
}

func (v View) Width() uint32 {
	return v.width
}

func (v View) Height() uint32 {
	return v.height
}

//Len returns the number of cells
func (v View) Len() int {
	return len(v.cells)
}

//At returns the cell with linear index i
func (v View) At(i int) Cell {
	return v.cells[i]
}

//Cell returns the cell at row, col
func (v View) Cell(row uint32, col uint32) Cell {
	return v.cells[int(row)*int(v.width)+int(col)]
}

//CopyTo copies the cells to dst, returns the number of copied cells
func (v View) CopyTo(dst []Cell) int {
	return copy(dst, v.cells)
}
