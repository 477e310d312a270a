package main

import (
	"io/ioutil"
	"log"
	"os"
	"strings"

	"github.com/integrii/flaggy"

	"toruslife/src/sim"
	"toruslife/src/view"
)

type EnvOptions struct {
	interactive bool
	printGrid   bool
	logFile     string
}

func main() {
	eo, so := initOptions()

	logger, closeLog := newLogger(eo)
	defer closeLog()
	so.Logger = logger

	var stateCh chan sim.Status

	if !eo.interactive {
		stateCh = make(chan sim.Status, 10) //the buffered channel to getting the simulation status
	}

	s, err := sim.New(so, stateCh)
	if err != nil {
		logger.Fatalln(err)
	}

	if eo.interactive {
		v := view.NewViewTerminal(logger)
		if err := s.RegisterViewer(v); err != nil {
			logger.Fatalln(err)
		}
		v.Start()
		s.Close()
		return
	}

	v := view.NewConsoleOut(os.Stdout, eo.printGrid)
	if err := s.RegisterViewer(v); err != nil {
		logger.Fatalln(err)
	}
	v.Start()
	s.Run()
	for {
		st := <-stateCh
		if st.RunningMode == sim.RunningStateFinished {
			break
		}
	}
	f, err := s.Snapshot()
	if err != nil {
		logger.Fatalln(err)
	}
	v.Report(f)
	s.Close()
}

//newLogger returns the logger for the rejected commands
//the terminal ui owns the screen, so it logs to the file only
func newLogger(eo *EnvOptions) (*log.Logger, func()) {
	if eo.logFile != "" {
		f, err := os.OpenFile(eo.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			log.Fatalln(err)
		}
		return log.New(f, "toruslife: ", log.LstdFlags), func() { _ = f.Close() }
	}
	if eo.interactive {
		return log.New(ioutil.Discard, "", 0), func() {}
	}
	return log.New(os.Stderr, "toruslife: ", log.LstdFlags), func() {}
}

func initOptions() (eo *EnvOptions, so *sim.Options) {

	o := sim.DefaultOptions
	so = &o
	eo = &EnvOptions{}
	seeds := sim.Seeds()
	flaggy.SetName("toruslife")
	flaggy.SetDescription("Conway's Game of Life on a toroidal grid")
	flaggy.DefaultParser.ShowHelpOnUnexpected = true
	flaggy.Int(&so.Width, "x", "width", "Width of a simulation field")
	flaggy.Int(&so.Height, "y", "height", "Height of a simulation field")
	flaggy.Duration(&so.Interval, "i", "interval", "Simulation speed (interval between the steps) in format the number with 'ms' suffix, for example 150ms")
	flaggy.Int(&so.MaxSteps, "s", "maxSteps", "Limit the simulation to maxSteps, 0 is unlimited")
	flaggy.Int(&so.MaxSkippedTicks, "k", "skipped", "Finish the simulation after skipping so many ticks")
	flaggy.String(&so.Seed, "e", "seed", "Initial population ["+strings.Join(seeds, "|")+"]")
	flaggy.Bool(&eo.interactive, "n", "interactive", "Start interactive mode")
	flaggy.Bool(&eo.printGrid, "p", "print", "Print the final grid")
	flaggy.String(&eo.logFile, "l", "logFile", "Write the log to the file")

	flaggy.Parse()

	known := false
	for _, seed := range seeds {
		known = known || seed == so.Seed
	}
	if !known {
		flaggy.ShowHelpAndExit("unknown seed")
	}
	if so.Width <= 0 || so.Height <= 0 {
		flaggy.ShowHelpAndExit("the field dimension should be positive")
	}

	if !eo.interactive {
		flaggy.ShowHelp("")
	}

	return
}
