package view

import (
	"fmt"
	"io"
	"sort"
	"time"

	"toruslife/src/sim"
	"toruslife/src/universe"
)

//ConsoleOut is the non-interactive viewer, prints the progress and the final report
//implements sim.Viewer interface
type ConsoleOut struct {
	c         sim.Controller
	w         io.Writer
	printGrid bool
	startTime time.Time
}

//NewConsoleOut creates the viewer writing to w
//the final grid is printed by Report if printGrid is set
func NewConsoleOut(w io.Writer, printGrid bool) *ConsoleOut {
	return &ConsoleOut{w: w, printGrid: printGrid}
}

func (c *ConsoleOut) Refresh(f sim.Frame) {
	st := f.Status
	if st.RunningMode == sim.RunningStateRun && st.Generation != 0 && st.Generation%10 == 0 {
		fmt.Fprintf(c.w, "  Generations done: %v\n", st.Generation)
	}
}

func (c *ConsoleOut) Register(ctrl sim.Controller) {
	c.c = ctrl
	o := c.c.Options()
	fmt.Fprintln(c.w, "Running configuration:")
	c.printHashData(map[string]interface{}{
		"Dimension":      fmt.Sprintf("%v x %v", o.Width, o.Height),
		"Interval":       o.Interval,
		"Max iterations": fmt.Sprintf("%v steps", o.MaxSteps),
		"Seed":           o.Seed,
	})
}

func (c *ConsoleOut) Start() {
	c.startTime = time.Now()
	fmt.Fprintln(c.w, "\nSimulation started...")
}

//Report prints the final status of the frame
func (c *ConsoleOut) Report(f sim.Frame) {
	totalTime := time.Since(c.startTime).Round(time.Millisecond)
	fmt.Fprintln(c.w, "\nFinished:")
	c.printHashData(map[string]interface{}{
		"Last generation": f.Status.Generation,
		"Total time":      totalTime,
		"Live cells":      f.Status.LiveCells,
	})
	if c.printGrid {
		fmt.Fprint(c.w, universe.RenderCells(f.Cells, f.Width, universe.DeadGlyph, universe.AliveGlyph))
	}
}

func (c *ConsoleOut) printHashData(d map[string]interface{}) {
	propNames := make([]string, 0, len(d))
	for k := range d {
		propNames = append(propNames, k)
	}
	sort.Strings(propNames)
	for _, propName := range propNames {
		fmt.Fprintf(c.w, "  %s: %v\n", propName, d[propName])
	}
}
