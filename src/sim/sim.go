package sim

import (
	"errors"
	"log"
	"sort"
	"time"

	"toruslife/src/universe"
)

//Controller is the interface to the running simulation, used by the viewers
type Controller interface {
	Status() Status
	Options() Options
	Snapshot() (Frame, error)
	StateCh() chan Status
	RegisterViewer(v Viewer) error
	Settle(cc ...universe.Coord) error
	Toggle(row uint32, col uint32) error
	AddPulsar(row uint32, col uint32) error
	AddSpaceship(row uint32, col uint32) error
	Resize(width uint32, height uint32) error
	Run()
	Stop()
	Step()
	Clear()
	Reset()
	Close()
}

//Options represents the simulation's configurable options
type Options struct {
	Width           int
	Height          int
	Interval        time.Duration
	MaxSteps        int
	MaxSkippedTicks int
	Seed            string      //initial population, SeedDefault, SeedEmpty or a preset name
	Logger          *log.Logger //rejected commands are logged here
}

//Status represents the status of the simulation at concrete moment
type Status struct {
	Generation    int
	RunningMode   RunningState
	LiveCells     int
	IterationTime time.Duration
}

//Frame is the consistent copy of the universe and the status
type Frame struct {
	Width  uint32
	Height uint32
	Cells  []universe.Cell
	Status Status
}

//Cell returns the cell at row, col
func (f Frame) Cell(row uint32, col uint32) universe.Cell {
	return f.Cells[int(row)*int(f.Width)+int(col)]
}

//Viewer is the interface to any Viewer - the object who can display simulation data or control the simulation
type Viewer interface {
	Refresh(f Frame)
	Register(c Controller)
	Start()
}

//The simulation running status at the concrete moment
type RunningState int

const (
	RunningStateManual RunningState = iota
	RunningStateStep
	RunningStateRun
	RunningStateFinished
)

func (r RunningState) String() string {
	switch r {
	case RunningStateManual:
		return "manual"
	case RunningStateStep:
		return "step"
	case RunningStateRun:
		return "run"
	case RunningStateFinished:
		return "finished"
	}
	return "unknown"
}

//seeds
const (
	SeedDefault = "default"
	SeedEmpty   = "empty"
)

//default options
const (
	DefSimulationInterval = time.Millisecond * 100
	DefMaxSteps           = 1000
	DefWidth              = universe.DefWidth
	DefHeight             = universe.DefHeight
	DefMaxSkippedTicks    = 5
)

var DefaultOptions = Options{
	Width:           DefWidth,
	Height:          DefHeight,
	Interval:        DefSimulationInterval,
	MaxSteps:        DefMaxSteps,
	MaxSkippedTicks: DefMaxSkippedTicks,
	Seed:            SeedDefault,
}

var (
	//ErrClosed is returned by the commands sent after Close
	ErrClosed = errors.New("simulation is closed")
	//ErrUnknownSeed is returned when Options.Seed is not a known seed
	ErrUnknownSeed = errors.New("unknown seed")
	//ErrInvalidDimension is returned for the zero or negative dimensions
	ErrInvalidDimension = errors.New("invalid dimension")
)

//Seeds returns the names of the accepted seeds
func Seeds() []string {
	seeds := []string{SeedDefault, SeedEmpty}
	for name := range universe.Presets {
		seeds = append(seeds, name)
	}
	sort.Strings(seeds[2:])
	return seeds
}
