package sim

import (
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"toruslife/src/universe"
)

//Simulation drives the universe
//implements Controller interface
//the universe is owned by the main loop goroutine, every command is executed there one by one
type Simulation struct {
	options Options
	u       *universe.Universe
	state   struct {
		Status
		runID int //identifies the current run cycle
		sync.Mutex
	}
	stateCh   chan Status
	views     []Viewer
	controlCh chan func()
	closeCh   chan struct{}
	done      chan struct{}
	closeOnce sync.Once
	log       *log.Logger
}

//New creates the Simulation instance and starts its main loop
func New(o *Options, stateCh chan Status) (*Simulation, error) {
	if o == nil {
		o = &DefaultOptions
	}
	if o.Width <= 0 || o.Height <= 0 {
		return nil, fmt.Errorf("%v x %v: %w", o.Width, o.Height, ErrInvalidDimension)
	}
	s := Simulation{
		options:   *o,
		controlCh: make(chan func(), 1),
		closeCh:   make(chan struct{}),
		done:      make(chan struct{}),
		stateCh:   stateCh,
		log:       o.Logger,
	}
	if s.options.Seed == "" {
		s.options.Seed = SeedDefault
	}
	if s.log == nil {
		s.log = log.New(os.Stderr, "toruslife: ", log.LstdFlags)
	}

	s.u = universe.NewSized(uint32(o.Width), uint32(o.Height))
	if err := s.seed(); err != nil {
		return nil, err
	}
	s.state.LiveCells = s.u.LiveCells()
	go s.mainLoop()
	return &s, nil
}

//Settle makes the cells alive, returns when applied
func (s *Simulation) Settle(cc ...universe.Coord) error {
	return s.mutate(func() error {
		return s.u.SetCells(cc...)
	})
}

//Toggle inverses the cell state at row, col, returns when applied
func (s *Simulation) Toggle(row uint32, col uint32) error {
	return s.mutate(func() error {
		return s.u.ToggleCell(row, col)
	})
}

//AddPulsar stamps the pulsar centred at row, col, returns when applied
func (s *Simulation) AddPulsar(row uint32, col uint32) error {
	return s.mutate(func() error {
		return s.u.AddPulsar(row, col)
	})
}

//AddSpaceship stamps the spaceship at row, col, returns when applied
func (s *Simulation) AddSpaceship(row uint32, col uint32) error {
	return s.mutate(func() error {
		return s.u.AddSpaceship(row, col)
	})
}

//Resize changes the universe dimension, kills all cells and resets the counters
//the running simulation is stopped, the manual mode is written to the stateCh
func (s *Simulation) Resize(width uint32, height uint32) error {
	if width == 0 || height == 0 {
		return fmt.Errorf("%v x %v: %w", width, height, ErrInvalidDimension)
	}
	return s.mutate(func() error {
		s.u.SetWidth(width)
		s.u.SetHeight(height)
		s.state.Lock()
		s.options.Width = int(width)
		s.options.Height = int(height)
		s.state.Unlock()
		s.resetCounters()
		s.switchRunningState(RunningStateManual)
		return nil
	})
}

//RegisterViewer registers the viewer - the simulation will call the viewer when the state is changed
func (s *Simulation) RegisterViewer(v Viewer) error {
	return s.exec(func() error {
		s.views = append(s.views, v)
		v.Register(s)
		v.Refresh(s.frame())
		return nil
	})
}

//Snapshot returns the copy of the universe and the status
func (s *Simulation) Snapshot() (f Frame, err error) {
	err = s.exec(func() error {
		f = s.frame()
		return nil
	})
	return
}

//StateCh returns the channel with the simulation's status updates
func (s *Simulation) StateCh() chan Status {
	return s.stateCh
}

//Status returns current simulation status represented by Status struct
func (s *Simulation) Status() Status {
	s.state.Lock()
	defer s.state.Unlock()
	return s.state.Status
}

//Options returns current simulation configuration represented by Options struct
func (s *Simulation) Options() Options {
	s.state.Lock()
	defer s.state.Unlock()
	return s.options
}

//Run starts the simulation, returns immediately
func (s *Simulation) Run() {
	s.send(s.run)
}

//Stop stops the simulation, returns immediately
//the Status struct will be written the stateCh on finish
func (s *Simulation) Stop() {
	s.send(s.stop)
}

//Step does one generation, returns immediately
//the Status struct will be written to the stateCh on start and on finish
func (s *Simulation) Step() {
	s.send(s.step)
}

//Clear kills all cells and resets all counters, returns immediately
//the Status struct will be written to the stateCh on finish
func (s *Simulation) Clear() {
	s.send(s.clear)
}

//Reset settles the universe with the configured seed again and resets all counters, returns immediately
//the Status struct will be written to the stateCh on finish
func (s *Simulation) Reset() {
	s.send(s.reset)
}

//Close stops the main loop, returns immediately
//the commands sent after Close are discarded
func (s *Simulation) Close() {
	s.closeOnce.Do(func() {
		close(s.closeCh)
	})
}

//mainLoop - the main cycle, should start as a goroutine
//waits for command and executes
func (s *Simulation) mainLoop() {
	defer close(s.done)
	for {
		select {
		case cmd := <-s.controlCh:
			cmd()
		case <-s.closeCh:
			return
		}
	}
}

//send puts the command to the main loop, reports false if the simulation is closed
func (s *Simulation) send(cmd func()) bool {
	select {
	case s.controlCh <- cmd:
		return true
	case <-s.done:
		return false
	}
}

//exec executes the command in the main loop and waits for the result
func (s *Simulation) exec(cmd func() error) error {
	errCh := make(chan error, 1)
	ok := s.send(func() {
		errCh <- cmd()
	})
	if !ok {
		return ErrClosed
	}
	select {
	case err := <-errCh:
		return err
	case <-s.done:
		return ErrClosed
	}
}

//mutate executes the command changing the universe
//the live cells counter and the views are refreshed if the command succeeded
func (s *Simulation) mutate(cmd func() error) error {
	return s.exec(func() error {
		if err := cmd(); err != nil {
			return err
		}
		s.state.Lock()
		s.state.LiveCells = s.u.LiveCells()
		s.state.Unlock()
		s.refreshView()
		return nil
	})
}

//seed populates the universe according to the options
func (s *Simulation) seed() error {
	switch s.options.Seed {
	case SeedDefault:
		s.u.Seed()
		return nil
	case SeedEmpty:
		s.u.KillAll()
		return nil
	}
	p, ok := universe.Presets[s.options.Seed]
	if !ok {
		return fmt.Errorf("%q: %w", s.options.Seed, ErrUnknownSeed)
	}
	s.u.KillAll()
	//centre the pattern box
	h, w := s.u.Height(), s.u.Width()
	if h < p.Height || w < p.Width {
		return fmt.Errorf("%v does not fit %v x %v: %w", p.Name, w, h, universe.ErrIndexOutOfRange)
	}
	return s.u.Stamp(p, (h-p.Height)/2+p.Origin.Row, (w-p.Width)/2+p.Origin.Col)
}

func (s *Simulation) mode() RunningState {
	s.state.Lock()
	defer s.state.Unlock()
	return s.state.RunningMode
}

//runMode returns the running mode and whether the run cycle id is still the current one
func (s *Simulation) runMode(id int) (RunningState, bool) {
	s.state.Lock()
	defer s.state.Unlock()
	return s.state.RunningMode, s.state.runID == id
}

//switchRunningState switch the state of the simulation to RunningState
//also writes the new state to the stateCh to signal upper control software
func (s *Simulation) switchRunningState(to RunningState) {
	s.state.Lock()
	s.state.RunningMode = to
	st := s.state.Status
	s.state.Unlock()
	if s.stateCh != nil {
		s.stateCh <- st
	}
}

//run starts the simulation cycle
//simulation will stop on Stop() calling or when the boundary conditions are reached
func (s *Simulation) run() {
	if s.mode() == RunningStateRun {
		return
	}
	s.state.Lock()
	s.state.runID++
	id := s.state.runID
	s.state.Unlock()
	s.switchRunningState(RunningStateRun)
	go func() {
		skipped := 0
		//busy holds the token while the dispatched tick is not finished
		busy := make(chan struct{}, 1)
		for {
			mode, current := s.runMode(id)
			if !current || (mode != RunningStateRun && mode != RunningStateStep) {
				break
			}
			if skipped > s.options.MaxSkippedTicks {
				s.log.Printf("simulation finished, %v ticks skipped", skipped)
				s.send(func() {
					if _, current := s.runMode(id); current {
						s.switchRunningState(RunningStateFinished)
					}
				})
				break
			}
			select {
			case busy <- struct{}{}:
				skipped = 0
				ok := s.send(func() {
					if mode, current := s.runMode(id); current && mode == RunningStateRun {
						s.step()
					}
					<-busy
				})
				if !ok {
					return
				}
			default:
				//the previous tick is still calculating
				skipped++
			}
			if s.options.Interval > 0 {
				select {
				case <-time.After(s.options.Interval):
				case <-s.done:
					return
				}
				continue
			}
			//without the interval the next tick waits for the previous one
			select {
			case busy <- struct{}{}:
				<-busy
			case <-s.done:
				return
			}
		}
	}()
}

//stop stops the simulation cycle
func (s *Simulation) stop() {
	if s.mode() == RunningStateRun {
		s.switchRunningState(RunningStateManual)
	}
}

//step calculates the next generation
func (s *Simulation) step() {
	finished := false
	rm := s.mode()
	if rm == RunningStateFinished {
		rm = RunningStateManual
	}
	defer func() {
		if finished {
			s.switchRunningState(RunningStateFinished)
		} else {
			s.switchRunningState(rm)
		}
		s.refreshView()
	}()

	maxSteps := s.options.MaxSteps
	if maxSteps != 0 && s.Status().Generation >= maxSteps {
		finished = true
		return
	}
	s.switchRunningState(RunningStateStep)
	start := time.Now()
	st, err := s.u.Tick()
	if err != nil {
		s.log.Printf("tick: %v", err)
		finished = true
		return
	}
	s.state.Lock()
	s.state.Generation++
	s.state.LiveCells = st.LiveCells
	s.state.IterationTime = time.Since(start)
	generation := s.state.Generation
	s.state.Unlock()
	if st.LiveCells == 0 || !st.Changed || (maxSteps != 0 && generation >= maxSteps) {
		finished = true
	}
}

//clear kills all cells, reset all counters
func (s *Simulation) clear() {
	s.u.KillAll()
	s.resetCounters()
	s.switchRunningState(RunningStateManual)
	s.refreshView()
}

//reset settles the universe with the seed again, reset all counters
func (s *Simulation) reset() {
	if err := s.seed(); err != nil {
		s.log.Printf("reset: %v", err)
	}
	s.resetCounters()
	s.switchRunningState(RunningStateManual)
	s.refreshView()
}

func (s *Simulation) resetCounters() {
	s.state.Lock()
	s.state.Generation = 0
	s.state.LiveCells = s.u.LiveCells()
	s.state.IterationTime = 0
	s.state.RunningMode = RunningStateManual
	s.state.Unlock()
}

//frame copies the universe state, must be called from the main loop
func (s *Simulation) frame() Frame {
	return Frame{
		Width:  s.u.Width(),
		Height: s.u.Height(),
		Cells:  s.u.GetCells(),
		Status: s.Status(),
	}
}

//refreshView calls Refresh event for all registered views
func (s *Simulation) refreshView() {
	if len(s.views) == 0 {
		return
	}
	f := s.frame()
	for _, v := range s.views {
		v.Refresh(f)
	}
}
