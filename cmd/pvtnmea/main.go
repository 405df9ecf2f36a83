// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2026.10.19
//

package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	flag "github.com/spf13/pflag"

	m "github.com/mkhts/pvtnmea"
)

func main() {

	// Parse command line arguments
	args, err := parseArgs(os.Args[1:])
	if err != nil {
		m.PrintE(err)
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

	epochs, err := readEpochs(args.inFn)
	if err != nil {
		return fmt.Errorf("failed to load input file: %w", err)
	}
	m.PrintD(1, "%d epochs loaded from %s\n", len(epochs), args.inFn)

	out, err := openOutput(&args.cfg.Output)
	if err != nil {
		return fmt.Errorf("failed to prepare output: %w", err)
	}
	defer closeOutput(out)

	return processEpochs(args, epochs, out)
}

// Close output
func closeOutput(out io.WriteCloser) {
	if out != nil {
		out.Close()
	}
}

// Process epochs
func processEpochs(args cmdOpt, epochs []Epoch, out io.Writer) error {
	var buf []byte
	for i := range epochs {
		e := &epochs[i]
		if err := processSingleEpoch(args, e, &buf, out); err != nil {
			m.PrintB(*m.NewGTimeMs(e.Week, e.Ms), "Error processing epoch: %s\n", err.Error())
			continue
		}
	}
	return nil
}

// Process single epoch
func processSingleEpoch(args cmdOpt, e *Epoch, buf *[]byte, out io.Writer) error {

	// Filter epochs
	if !shouldProcessEpoch(e, args) {
		return nil
	}

	sol, err := e.ToPvtSol()
	if err != nil {
		return fmt.Errorf("invalid epoch: %w", err)
	}

	info := m.NewNmeaInfo(sol, args.utcParam)
	printSummary(info)

	*buf = m.AppendNmea((*buf)[:0], info, &args.pvtCfg, args.mask)
	if _, err := out.Write(*buf); err != nil {
		return fmt.Errorf("failed to write NMEA: %w", err)
	}
	return nil
}

// Filter epochs
func shouldProcessEpoch(e *Epoch, args cmdOpt) bool {
	t := m.NewGTimeMs(e.Week, e.Ms)

	// Skip epochs before processing start time
	if t.Before(args.ts, true) {
		return false
	}

	// Stop after processing end time
	if t.After(args.te, true) {
		return false
	}
	return true
}

// Epoch summary at info level
func printSummary(info *m.NmeaInfo) {
	m.PrintA("%s\n", epochSummary(info))
}

func epochSummary(info *m.NmeaInfo) string {
	if !info.IsValid() {
		return info.Time.String() + " no position"
	}
	utm, mgrs := "-", "-"
	if u, err := info.PosLLH.ToUTM(); err == nil {
		utm = m.UTMString(u)
	} else {
		m.PrintD(1, "%v\n", err)
	}
	if g, err := info.PosLLH.ToMGRS(5); err == nil {
		mgrs = g
	} else {
		m.PrintD(1, "%v\n", err)
	}
	return fmt.Sprintf("%s %13.9f %14.9f %10.4f utm=(%s) mgrs=%s ns=%d pdop=%.2f hdop=%.2f vdop=%.2f",
		info.Time.String(), m.ToDeg(info.PosLLH.Lat), m.ToDeg(info.PosLLH.Lon), info.PosLLH.Hei,
		utm, mgrs, info.SatCount(), info.Dop[m.PDOP], info.Dop[m.HDOP], info.Dop[m.VDOP])
}

// Structure to hold command line argument information
type cmdOpt struct {
	cfgFn    string
	inFn     string
	ts, te   time.Time
	cfg      Config
	pvtCfg   m.PvtConfig
	mask     m.NmeaMask
	utcParam *m.UtcParam
}

// Parse command line arguments
func parseArgs(argv []string) (a cmdOpt, err error) {
	fs := flag.NewFlagSet(filepath.Base(os.Args[0]), flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `
[Usage]
	%s [Options] --input epochs.yaml

[Options]
`, fs.Name())
		fs.PrintDefaults()
	}
	var sys m.SysVar
	var sentences, outFn string
	var dbg int
	ts_ := m.NewTimeStr(time.Time{})
	te_ := m.NewTimeStr(time.Now().UTC())
	fs.StringVarP(&a.cfgFn, "config", "c", "", "Config file (YAML). Defaults are used if omitted.")
	fs.StringVarP(&a.inFn, "input", "i", "", "Epoch file (YAML). Read from stdin if omitted or \"-\".")
	fs.VarP(&sys, "systems", "s", "Satellite systems used for positioning. G(GPS), C(Beidou), E(Galileo), R(Glonass). Comma-separated like G,E. Overrides systems.use.")
	fs.StringVarP(&sentences, "sentences", "n", "", "NMEA sentences to output like GGA,RMC or ALL. Overrides nmea.sentences.")
	fs.StringVarP(&outFn, "out", "o", "", "Output NMEA file path. Overrides the output section of the config.")
	fs.Var(ts_, "ts", "Start epoch like --ts \"2023/01/01 00:00:00\"")
	fs.Var(te_, "te", "End epoch like --te \"2023/01/02 00:00:00\". This epoch is also included.")
	fs.IntVarP(&dbg, "debug", "x", 0, "Debug information display. Specify level value. 0(OFF), 1(display), 2(detailed display), 3(most detailed)")
	if err = fs.Parse(argv); err != nil {
		return a, err
	}
	if fs.NArg() > 0 {
		fs.Usage()
		return a, fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}
	m.SetDebugLevel(dbg)

	a.cfg, err = LoadConfig(a.cfgFn)
	if err != nil {
		return a, fmt.Errorf("failed to load config: %w", err)
	}

	// Flags override the config file
	if fs.Changed("systems") {
		a.cfg.Systems.Use = sys.String()
	}
	if sentences != "" {
		a.cfg.Nmea.Sentences = strings.Split(sentences, ",")
	}
	if outFn != "" {
		a.cfg.Output = OutputConfig{Type: outFile, Path: outFn}
	}
	if err = a.cfg.validate(); err != nil {
		return a, fmt.Errorf("invalid options: %w", err)
	}

	a.ts = time.Time(*ts_)
	a.te = time.Time(*te_)
	if a.pvtCfg.UseSys, err = a.cfg.UseMask(); err != nil {
		return a, fmt.Errorf("invalid systems: %w", err)
	}
	if a.pvtCfg.EnableSys, err = a.cfg.EnableMask(); err != nil {
		return a, fmt.Errorf("invalid enabled systems: %w", err)
	}
	if a.mask, err = a.cfg.SentenceMask(); err != nil {
		return a, fmt.Errorf("invalid sentences: %w", err)
	}
	a.utcParam = a.cfg.UtcParam()
	m.PrintD(1, "use=%s enable=%s sentences=%s output=%s\n", a.pvtCfg.UseSys, a.pvtCfg.EnableSys, a.mask, a.cfg.Output.Type)
	return
}
