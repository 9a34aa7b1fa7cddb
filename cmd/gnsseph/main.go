// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2026.10.18
//

package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	m "github.com/mkhts/gnsseph"
	"golang.org/x/exp/slices"
)

func main() {

	// Parse command line arguments
	args, err := parseArgs()
	if err != nil {
		m.PrintE(err)
		flag.Usage()
		os.Exit(1)
	}

	// Run the main application
	if err := runApplication(args); err != nil {
		m.PrintE(err)
		os.Exit(1)
	}
}

// Main application processing
func runApplication(args cmdOpt) error {

	// Load navigation file
	nav, err := readNav(args.navFn)
	if err != nil {
		return fmt.Errorf("failed to read navigation file: %w", err)
	}
	if m.DBG_ >= 1 {
		m.PrintA("--- nav data (%s)---\n", filepath.Base(args.navFn))
		m.PrintA("%s", nav)
	}

	// Prepare output file
	out, err := prepareOutput(args)
	if err != nil {
		return fmt.Errorf("failed to prepare output: %w", err)
	}
	defer closeOutput(out)

	// Print header
	if !args.noHeader {
		printHeader(out, os.Args[0], args)
	}

	// Process epochs
	return processEpochs(args, *nav, out)
}

// Read navigation file
func readNav(fn string) (*m.Nav, error) {
	f, err := os.Open(fn)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return m.ReadNav(f)
}

// Prepare output file
func prepareOutput(args cmdOpt) (io.WriteCloser, error) {

	// Use stdout if no output file is specified
	if len(args.outFn) == 0 {
		return &nopCloser{os.Stdout}, nil
	}

	// Create output file
	f, err := os.Create(args.outFn)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, nil
}

// Close output file
func closeOutput(out io.WriteCloser) {
	if out != nil {
		out.Close()
	}
}

// Process epochs from ts to te (both included) every ti seconds
func processEpochs(args cmdOpt, nav m.Nav, out io.Writer) error {
	store := m.NewNavStore()
	ts := *m.NewGTime(args.ts)
	te := *m.NewGTime(args.te)
	if te.Less(ts, false) {
		return fmt.Errorf("end epoch is before start epoch")
	}
	sats := selectSats(args, nav)
	if len(sats) == 0 {
		return fmt.Errorf("no satellites to process")
	}
	for t := ts; t.LessOrEqual(te, true); t = t.Add(float64(args.ti)) {
		if n := store.Load(nav, t, sats); n > 0 {
			m.PrintD(1, "%d ephemerides published at week%d %.1fs\n", n, t.Week, t.Sec)
		}
		processSingleEpoch(args, t, store, sats, out)
	}
	return nil
}

// Satellites of the selected systems, without excluded ones
func selectSats(args cmdOpt, nav m.Nav) []m.SatType {
	sats := []m.SatType{}
	for _, s := range nav.Sats() {
		if len(args.sats) > 0 && !slices.Contains(args.sats, s) {
			continue
		}
		if len(args.sys) > 0 && !args.sys.Contains(s.Sys()) {
			continue
		}
		if slices.Contains(args.exSats, s) {
			continue
		}
		sats = append(sats, s)
	}
	return sats
}

// Result for one satellite at one epoch
type satResult struct {
	sat m.SatType
	eph *m.KeplerEphe
	st  m.NavState
	ok  bool
}

// Propagate every satellite at t concurrently and print in satellite order
func processSingleEpoch(args cmdOpt, t m.GTime, store *m.NavStore, sats []m.SatType, out io.Writer) {
	res := make([]satResult, len(sats))
	var wg sync.WaitGroup
	for i, sat := range sats {
		wg.Add(1)
		go func(i int, sat m.SatType) {
			defer wg.Done()
			res[i] = propagateSat(args, t, store, sat)
		}(i, sat)
	}
	wg.Wait()

	for _, r := range res {
		if r.ok {
			printState(out, t, r, args)
		}
	}
}

// Propagate one satellite using its current ephemeris
func propagateSat(args cmdOpt, t m.GTime, store *m.NavStore, sat m.SatType) satResult {
	r := satResult{sat: sat}
	eph, ok := store.Current(sat)
	if !ok {
		if m.DBG_ >= 2 {
			m.PrintB(t, "%s: no ephemeris\n", sat)
		}
		return r
	}
	if len(args.params) > 0 {
		cp := *eph // never touch the published record
		if err := cp.UpdateParams(args.params); err != nil {
			m.PrintE(err)
			return r
		}
		eph = &cp
	}
	if err := eph.Validate(); err != nil {
		m.PrintD(1, "%s\n", err.Error())
		return r
	}
	if !eph.Healthy() && !args.unhealthy {
		m.PrintD(2, "%s: unhealthy (svh=%d)\n", sat, eph.Health)
		return r
	}
	prop := m.PropagatorFor(sat)
	r.eph = eph
	r.st = prop.NavStates(eph, t.Sec, args.accel)
	r.ok = true
	return r
}

// nopCloser wraps stdout
type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }

// Structure to hold command line argument information
type cmdOpt struct {
	navFn     string
	outFn     string
	ts, te    time.Time
	ti        int
	noHeader  bool
	sys       m.SysVar
	sats      m.SatVar
	exSats    m.SatVar
	accel     bool
	unhealthy bool
	params    m.ParamVar
	rcvPos    *m.PosXYZ
}

// Parse command line arguments
func parseArgs() (a cmdOpt, err error) {
	flag.Usage = func() {
		m.PrintA(`
[Usage]
	%s [Options] nav_file.nav

[Options]
`, filepath.Base(os.Args[0]))
		flag.PrintDefaults()
	}
	now := time.Now().UTC().Truncate(time.Second)
	flag.Var(&a.sys, "sys", "Satellite systems to compute. G(GPS), J(QZSS), E(Galileo), C(Beidou). Comma-separated without spaces. Default: all")
	flag.Var(&a.sats, "sat", "Satellites to compute, comma-separated like G01,E11. Default: all in the navigation file")
	flag.Var(&a.exSats, "ex", "List of satellites to exclude. Comma-separated satellite names without spaces like C02,E14.")
	var ts_, te_ m.TimeStr
	flag.TextVar(&ts_, "ts", m.NewTimeStr(now), "Start epoch (GPST). Enclose in quotes like -ts \"2023/01/01 00:00:00\"")
	flag.TextVar(&te_, "te", m.NewTimeStr(time.Time{}), "End epoch (GPST). This epoch is also included. Default: same as -ts")
	flag.IntVar(&a.ti, "ti", 30, "Calculation interval [s]")
	flag.BoolVar(&a.accel, "a", false, "Also compute acceleration and clock drift rate")
	flag.BoolVar(&a.unhealthy, "u", false, "Also compute unhealthy satellites")
	flag.Var(&a.params, "set", "Override an ephemeris parameter for every satellite, like -set toe=345600. Repeatable.")
	var rcvLLH m.PosLLH
	flag.Var(&rcvLLH, "l", "Receiver latitude/longitude/ellipsoidal height for azimuth, elevation and range. Enclose in quotes like -l \"35.73101206 139.7396917 80.33\"")
	flag.StringVar(&a.outFn, "o", "", "Output file path. If not specified, output to stdout.")
	flag.BoolVar(&a.noHeader, "nh", false, "Do not output header section.")
	var dbg int
	flag.IntVar(&dbg, "x", 0, "Debug information display. Specify level value. 0(OFF), 1(display), 2(detailed display), 3(more detailed), 4(most detailed)")
	flag.Parse()
	if flag.NArg() != 1 {
		return a, fmt.Errorf("exactly one navigation file must be given")
	}
	a.navFn = flag.Arg(0)
	a.ts = time.Time(ts_)
	a.te = time.Time(te_)
	if a.te.IsZero() {
		a.te = a.ts
	}
	if a.ti <= 0 {
		return a, fmt.Errorf("calculation interval must be positive (ti=%d)", a.ti)
	}
	for name := range a.params {
		if _, err := (&m.KeplerEphe{}).Param(name); err != nil {
			return a, err
		}
	}
	if rcvLLH != (m.PosLLH{}) {
		xyz := rcvLLH.ToXYZ()
		a.rcvPos = &xyz
	}
	m.DBG_ = dbg
	return
}

// Print header
func printHeader(out io.Writer, cmd string, args cmdOpt) {
	fmt.Fprintf(out, "%% program   : %s\n", filepath.Base(cmd))
	fmt.Fprintf(out, "%% inp file  : %s\n", args.navFn)
	fmt.Fprintf(out, "%% start     : %s (GPST)\n", args.ts.Format("2006/01/02 15:04:05"))
	fmt.Fprintf(out, "%% end       : %s (GPST)\n", args.te.Format("2006/01/02 15:04:05"))
	if len(args.params) > 0 {
		fmt.Fprintf(out, "%% override  : %s\n", args.params.String())
	}
	if args.rcvPos != nil {
		llh := args.rcvPos.ToLLH()
		fmt.Fprintf(out, "%% rcv pos   : %s\n", llh.String())
	}
	fmt.Fprintf(out, "%%  GPST                 sat  iode            x(m)            y(m)            z(m)        vx(m/s)        vy(m/s)        vz(m/s)       clk_bias(s)      clk_drift(s/s)")
	if args.accel {
		fmt.Fprintf(out, "     ax(m/s^2)     ay(m/s^2)     az(m/s^2)  clk_drate(s/s^2)")
	}
	if args.rcvPos != nil {
		fmt.Fprintf(out, "   az(deg)   el(deg)        range(m)  rrate(m/s)")
	}
	fmt.Fprintf(out, "\n")
}

// Output one satellite state
func printState(out io.Writer, t m.GTime, r satResult, args cmdOpt) {
	tStr := t.ToTime().UTC().Format("2006/01/02 15:04:05.000")
	st := r.st
	fmt.Fprintf(out, "%s %s %5d %15.3f %15.3f %15.3f %14.6f %14.6f %14.6f %17.12e %19.12e",
		tStr, r.sat, r.eph.Iode, st.Pos.X, st.Pos.Y, st.Pos.Z, st.Vel.X, st.Vel.Y, st.Vel.Z, st.Clk[0], st.Clk[1])
	if args.accel {
		fmt.Fprintf(out, " %13.6e %13.6e %13.6e %17.9e", st.Acc.X, st.Acc.Y, st.Acc.Z, st.Clk[2])
	}
	if args.rcvPos != nil {
		sat := m.FromVec(st.Pos)
		az, el := args.rcvPos.LookAngles(sat)
		fmt.Fprintf(out, " %9.3f %9.3f %15.3f %11.4f",
			m.ToDeg(az), m.ToDeg(el), args.rcvPos.Range(sat), args.rcvPos.RangeRate(sat, st.Vel))
	}
	fmt.Fprintf(out, "\n")
}
