package view

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/jroimartin/gocui"
	"github.com/logrusorgru/aurora"

	"toruslife/src/sim"
	"toruslife/src/universe"
)

const fieldView = "battlefield"

//fieldCanvas is the part of the gocui view the field is drawn on
type fieldCanvas interface {
	io.Writer
	Clear()
	Size() (x, y int)
}

//cursorView is the part of the gocui view the cursor position is taken from
type cursorView interface {
	Cursor() (x, y int)
	Origin() (x, y int)
}

type keyBindings struct {
	key      interface{}
	name     string
	descr    string
	handler  func(v *gocui.View) error
	viewName string
}

//ConsoleUI is the interactive terminal viewer
//implements sim.Viewer interface
type ConsoleUI struct {
	c          sim.Controller
	g          *gocui.Gui
	k          []keyBindings
	log        *log.Logger
	liveFiller string
	deadFiller string
	frame      struct {
		sim.Frame
		sync.Mutex
	}
}

var (
	runningStateDescr = map[sim.RunningState]string{
		sim.RunningStateManual:   aurora.Colorize("waiting", aurora.BlueFg).String(),
		sim.RunningStateStep:     "do the step",
		sim.RunningStateRun:      aurora.Colorize("running", aurora.CyanFg).String(),
		sim.RunningStateFinished: aurora.Colorize("finished", aurora.RedFg).String(),
	}
)

//NewViewTerminal creates the terminal viewer, the rejected commands are written to the logger
func NewViewTerminal(logger *log.Logger) *ConsoleUI {

	var err error
	t := ConsoleUI{
		log:        logger,
		liveFiller: aurora.Green("█").BgBrightGreen().String(),
		deadFiller: "░",
	}

	t.g, err = gocui.NewGui(gocui.OutputNormal)
	if err != nil {
		log.Panicln(err)
	}

	t.g.Mouse = true
	t.k = []keyBindings{
		{gocui.KeyCtrlC,
			"^C",
			"Exit",
			t.cmdQuit,
			""},
		{'n',
			"N",
			"Next step",
			t.cmdNextRound,
			""},
		{'r',
			"R",
			"Run",
			t.cmdRun,
			""},
		{'s',
			"S",
			"Stop",
			t.cmdStop,
			""},
		{'c',
			"C",
			"Kill all",
			t.cmdClear,
			""},
		{'w',
			"W",
			"Reset",
			t.cmdReset,
			""},
		{'p',
			"P",
			"Pulsar at cursor",
			t.cmdPulsar,
			""},
		{'g',
			"G",
			"Spaceship at cursor",
			t.cmdSpaceship,
			""},
		{gocui.MouseLeft,
			"MOUSE",
			"Toggle the cell",
			t.cmdMouseClick,
			fieldView},
	}
	t.g.SetManagerFunc(t.layout)

	t.initKeyBindings(t.k)

	return &t
}

func (t *ConsoleUI) initKeyBindings(k []keyBindings) {
	for _, kb := range k {
		h := kb.handler
		if err := t.g.SetKeybinding(kb.viewName, kb.key, gocui.ModNone, func(gui *gocui.Gui, view *gocui.View) error { return h(view) }); err != nil {
			log.Panicln(err)
		}
	}
}

func (t *ConsoleUI) Register(c sim.Controller) {
	t.c = c
}

func (t *ConsoleUI) Start() {
	if err := t.g.MainLoop(); err != nil && err != gocui.ErrQuit {
		log.Panicln(err)
	}
	t.g.Close()
}

//Refresh is called from the simulation loop, the drawing is passed to the gui loop
func (t *ConsoleUI) Refresh(f sim.Frame) {
	t.frame.Lock()
	t.frame.Frame = f
	t.frame.Unlock()
	t.renderField()
	t.renderConfiguration()
	t.renderStatus()
}

func (t *ConsoleUI) lastFrame() sim.Frame {
	t.frame.Lock()
	defer t.frame.Unlock()
	return t.frame.Frame
}

func (t *ConsoleUI) renderField() {
	t.g.Update(func(g *gocui.Gui) error {
		v, e := g.View(fieldView)
		if e != nil {
			//the view is not created yet or deleted by the layout
			return nil
		}
		t.drawField(v)
		return nil
	})
}

//drawField draws the last frame cropped to the current canvas size
//must be called from the gui loop
func (t *ConsoleUI) drawField(v fieldCanvas) {
	//the entire field is redrawing at once now
	v.Clear()
	maxW, maxH := v.Size()
	_, _ = fmt.Fprint(v, fieldText(t.lastFrame(), maxW, maxH, t.liveFiller, t.deadFiller))
}

//fieldText renders the frame cropped to the maxW x maxH view
//the last visible line is replaced with the warning if the frame does not fit
func fieldText(f sim.Frame, maxW int, maxH int, liveFiller string, deadFiller string) string {
	crop := int(f.Width) > maxW || int(f.Height) > maxH

	var b bytes.Buffer
	for row := 0; row < int(f.Height); row++ {
		//discard the data outside the view area
		if row >= maxH {
			break
		}
		//line feed char
		if row != 0 {
			b.WriteByte(10)
		}
		if crop && row == (maxH-1) {
			b.WriteString(aurora.Red("The field size is larger than the viewing area").BgBlack().String())
			break
		}
		for col := 0; col < int(f.Width) && col < maxW; col++ {
			if f.Cell(uint32(row), uint32(col)) == universe.Alive {
				b.WriteString(liveFiller)
			} else {
				b.WriteString(deadFiller)
			}
		}
	}
	return b.String()
}

func (t *ConsoleUI) renderStatus() {
	s := t.lastFrame().Status
	t.g.Update(func(g *gocui.Gui) error {
		if v, e := g.View("status"); e == nil {
			v.Clear()
			_, _ = fmt.Fprintln(v, t.renderProp("Generation", "%v", s.Generation))
			_, _ = fmt.Fprintln(v, t.renderProp("Live Cells", "%v", s.LiveCells))
			_, _ = fmt.Fprintln(v, t.renderProp("Evaluation time", "%v", s.IterationTime.Round(time.Microsecond)))
			_, _ = fmt.Fprintln(v, t.renderProp("Mode", "%v", runningStateDescr[s.RunningMode]))
		}
		return nil
	})
}

func (t *ConsoleUI) renderConfiguration() {
	//it needs to call Update when calls from goroutine
	t.g.Update(func(g *gocui.Gui) error {
		c := t.c.Options()
		if v, e := g.View("configuration"); e == nil {
			v.Clear()
			_, _ = fmt.Fprintln(v, t.renderProp("Dimension", "%v x %v", c.Width, c.Height))
			_, _ = fmt.Fprintln(v, t.renderProp("Interval", "%v", c.Interval))
			_, _ = fmt.Fprintln(v, t.renderProp("Iterations", "%v steps", c.MaxSteps))
			_, _ = fmt.Fprintln(v, t.renderProp("Seed", "%v", c.Seed))
		}
		return nil
	})
}

func (t *ConsoleUI) renderProp(name string, valueformat string, values ...interface{}) string {
	return fmt.Sprintf(" "+aurora.Colorize(name, aurora.GreenFg).String()+": "+valueformat, values...)
}

func (t *ConsoleUI) layout(g *gocui.Gui) error {

	maxX, maxY := g.Size()
	leftColumnWidth := 28
	minWindowHeight := 20

	if maxY < minWindowHeight {
		if _, err := t.headerLayout(g, maxY, "Terminal height too small"); err != nil {
			if err != gocui.ErrUnknownView {
				return err
			}
		}
		_ = g.DeleteView("configuration")
		_ = g.DeleteView("status")
		_ = g.DeleteView(fieldView)
		return nil

	}
	if _, err := t.headerLayout(g, 3, "Conway's Game of Life on a torus"); err != nil {
		if err != gocui.ErrUnknownView {
			return err
		}
	}

	if v, err := g.SetView("configuration", 0, 3, leftColumnWidth, 3+(maxY-5-3)/2); err != nil {
		if err != gocui.ErrUnknownView || v == nil {
			return err
		}
		v.Title = "Configuration"
		v.Frame = true
		t.renderConfiguration()
	}

	if v, err := g.SetView("status", 0, 3+(maxY-5-3)/2+1, leftColumnWidth, maxY-5); err != nil {
		if err != gocui.ErrUnknownView || v == nil {
			return err
		}
		v.Title = "Status"
		v.Frame = true
		t.renderStatus()
	}

	v, err := g.SetView(fieldView, leftColumnWidth+1, 3, maxX-1, maxY-5)
	if err != nil {
		if err != gocui.ErrUnknownView || v == nil {
			return err
		}
		v.Title = "Universe"
		v.Frame = true
	}
	//the layout runs in the gui loop, so the field is drawn directly on each pass
	t.drawField(v)

	if v, err := g.SetView("help", -1, maxY-5, maxX, maxY-3); err != nil {
		if err != gocui.ErrUnknownView || v == nil {
			return err
		}
		v.Frame = false
		b := bytes.Buffer{}
		b.WriteString("KEYBINDINGS: ")
		for i, k := range t.k {
			if i != 0 {
				b.WriteString(", ")
			}
			b.WriteString(aurora.Green(k.name).String())
			b.WriteString(": ")
			b.WriteString(k.descr)
		}
		_, _ = fmt.Fprintln(v, b.String())
	}

	return nil
}

func (t *ConsoleUI) headerLayout(g *gocui.Gui, height int, text string) (v *gocui.View, err error) {
	maxX, _ := g.Size()
	if v, err = g.SetView("header", -1, -1, maxX+1, height); err != nil {
		if err == gocui.ErrUnknownView && v != nil {
			v.Frame = false
			v.BgColor = gocui.ColorCyan
			v.FgColor = gocui.ColorBlack
		}
	}
	if v != nil {
		v.Clear()
		if maxX < len(text) {
			panic(fmt.Sprintf("Terminal width is too small: %v", maxX))
		}
		_, _ = fmt.Fprintln(v, strings.Repeat("\n", height/2+1)+strings.Repeat(" ", (maxX-len(text))/2)+text)
	}
	return
}

//fieldCell converts the cursor and the origin of the field view to the cell position
func fieldCell(cx int, cy int, ox int, oy int) (row uint32, col uint32, err error) {
	r, c := oy+cy, ox+cx
	if r < 0 || c < 0 {
		return 0, 0, fmt.Errorf("cursor at (%d,%d): %w", r, c, universe.ErrIndexOutOfRange)
	}
	return uint32(r), uint32(c), nil
}

//applyAt calls the command for the cell under the cursor of v
func (t *ConsoleUI) applyAt(name string, v cursorView, cmd func(row uint32, col uint32) error) error {
	cx, cy := v.Cursor()
	ox, oy := v.Origin()
	row, col, err := fieldCell(cx, cy, ox, oy)
	if err != nil {
		return t.report(name, err)
	}
	return t.report(name, cmd(row, col))
}

//report logs the rejected command, the gui keeps running
func (t *ConsoleUI) report(cmd string, err error) error {
	if err != nil && t.log != nil {
		t.log.Printf("%s: %v", cmd, err)
	}
	return nil
}

func (t *ConsoleUI) cmdQuit(_ *gocui.View) error {
	return gocui.ErrQuit
}

func (t *ConsoleUI) cmdNextRound(_ *gocui.View) error {
	t.c.Step()
	return nil
}

func (t *ConsoleUI) cmdRun(_ *gocui.View) error {
	t.c.Run()
	return nil
}

func (t *ConsoleUI) cmdStop(_ *gocui.View) error {
	t.c.Stop()
	return nil
}

func (t *ConsoleUI) cmdClear(_ *gocui.View) error {
	t.c.Clear()
	return nil
}

func (t *ConsoleUI) cmdReset(_ *gocui.View) error {
	t.c.Reset()
	return nil
}

func (t *ConsoleUI) cmdPulsar(_ *gocui.View) error {
	v, err := t.g.View(fieldView)
	if err != nil {
		return t.report("pulsar", err)
	}
	return t.applyAt("pulsar", v, t.c.AddPulsar)
}

func (t *ConsoleUI) cmdSpaceship(_ *gocui.View) error {
	v, err := t.g.View(fieldView)
	if err != nil {
		return t.report("spaceship", err)
	}
	return t.applyAt("spaceship", v, t.c.AddSpaceship)
}

func (t *ConsoleUI) cmdMouseClick(v *gocui.View) error {
	return t.applyAt("toggle", v, t.c.Toggle)
}
