// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// rqstat aggregates concurrent data structure benchmark results and
// draws comparison charts from them.
//
// Usage:
//
//	rqstat [flags] inputs...
//
// Inputs are CSV results of the JVM harness, or free-text logs of the
// C++ harness (-format log) and of the JVM memory runs (-format
// jvmmem). A path may carry its own format prefix, as in
// "log:run1.txt". If no inputs are given, rqstat reads stdin.
//
// rqstat prints a diagnostics summary of keys with an unexpected
// number of trials or with trials that ran too long, then draws every
// chart of the catalogue for which there is data.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gonum.org/v1/plot"

	"github.com/rqbench/rqstat/chart"
	"github.com/rqbench/rqstat/chartspec"
	"github.com/rqbench/rqstat/expkey"
	"github.com/rqbench/rqstat/internal/texttab"
	"github.com/rqbench/rqstat/report"
	"github.com/rqbench/rqstat/series"
	"github.com/rqbench/rqstat/store"
	"github.com/rqbench/rqstat/trialfmt"
	"github.com/rqbench/rqstat/trialstat"
)

var (
	flagFormat     = flag.String("format", "csv", "default input `format`: csv, log or jvmmem")
	flagDupes      = flag.String("dupes", "replace", "`policy` for keys found in several files: replace, combine or reject")
	flagKeepWarmup = flag.Bool("keep-warmup", false, "do not discard the first half of each key's trials")
	flagThreads    = flag.Int("threads", 0, "thread count of free-text logs that do not print one")
	flagMaxKey     = flag.Int("maxkey", 0, "key range of free-text logs that do not print one")

	flagTrials  = flag.Int("trials", 0, "expected trials per key (0 uses 10, or 20 for 2000000000-key runs)")
	flagMaxTime = flag.Float64("maxtime", trialstat.DefaultMaxElapsed, "flag trials that ran longer than `seconds` (negative disables)")

	flagCharts = flag.String("charts", "", "read the chart catalogue from YAML `file` instead of the built-in one")
	flagAuto   = flag.Bool("auto", false, "draw charts discovered from the data instead of the catalogue's")
	flagSelect = flag.String("select", "*", "draw only charts whose name matches `pattern`")
	flagPNG    = flag.String("png", "", "write PNG charts into `dir`")
	flagSVG    = flag.String("svg", "", "write SVG charts into `dir`")
	flagCSV    = flag.String("csv", "", "write the aggregate table and chart series as CSV into `dir`")
	flagHTML   = flag.String("html", "", "write an HTML report to `file`")
	flagDump   = flag.Bool("dump", false, "print the aggregate table to stdout")

	flagDB       = flag.String("db", "", "save the aggregate table to `driver:dsn` (sqlite3 or mysql)")
	flagSnapshot = flag.String("snapshot", "latest", "snapshot `name` used with -db")
	flagFromDB   = flag.Bool("from-db", false, "read the aggregate table from -db instead of input files")
	flagList     = flag.Bool("list", false, "print the snapshot names stored in -db and exit")

	flagVerbose = flag.Bool("v", false, "log debug messages")
)

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(), `Usage: rqstat [flags] inputs...

rqstat reads concurrent data structure benchmark results, aggregates
them per experiment, reports suspicious keys and draws comparison
charts. If no inputs are provided, it reads from stdin.

`)
	flag.PrintDefaults()
}

func main() {
	flag.Usage = usage
	flag.Parse()

	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *flagVerbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	cat := chartspec.Default()
	if *flagCharts != "" {
		var err error
		if cat, err = chartspec.Load(*flagCharts); err != nil {
			log.Fatal().Err(err).Msg("loading chart catalogue")
		}
	}
	if _, err := path.Match(*flagSelect, ""); err != nil {
		log.Fatal().Err(err).Msg("bad -select pattern")
	}

	ctx := context.Background()
	var db *store.DB
	if *flagDB != "" {
		driver, dsn, err := splitDB(*flagDB)
		if err != nil {
			log.Fatal().Err(err).Msg("bad -db")
		}
		if db, err = store.OpenSQL(driver, dsn); err != nil {
			log.Fatal().Err(err).Msg("opening database")
		}
		defer db.Close()
	} else if *flagFromDB || *flagList {
		log.Fatal().Msg("-from-db and -list require -db")
	}
	if *flagList {
		if err := listSnapshots(ctx, db, os.Stdout); err != nil {
			log.Fatal().Err(err).Msg("listing snapshots")
		}
		return
	}

	failed := false
	var tab *trialstat.Table
	if *flagFromDB {
		var err error
		if tab, err = db.LoadTable(ctx, *flagSnapshot); err != nil {
			log.Fatal().Err(err).Msg("loading snapshot")
		}
	} else {
		var err error
		tab, err = readFiles(flag.Args())
		if err != nil {
			failed = true
			var merr *multierror.Error
			if errors.As(err, &merr) {
				for _, e := range merr.Errors {
					log.Error().Err(e).Msg("input")
				}
			} else {
				log.Error().Err(err).Msg("input")
			}
		}
		for _, k := range tab.Dropped() {
			log.Warn().Stringer("key", k).Msg("mean is zero; dropped")
		}
	}
	log.Info().Int("keys", tab.Len()).Msg("aggregated")

	diags := tab.Diagnose(diagnoseOptions())
	if len(diags) > 0 {
		printDiagnostics(diags)
	}

	if db != nil && !*flagFromDB {
		if err := db.SaveTable(ctx, *flagSnapshot, tab); err != nil {
			log.Fatal().Err(err).Msg("saving snapshot")
		}
		log.Info().Str("snapshot", *flagSnapshot).Msg("saved aggregate table")
	}

	if *flagDump {
		if err := report.Dump(os.Stdout, tab); err != nil {
			log.Fatal().Err(err).Msg("writing table")
		}
	}
	if *flagCSV != "" {
		if err := writeFile(filepath.Join(*flagCSV, "table.csv"), func(f *os.File) error {
			return report.CSV(f, tab)
		}); err != nil {
			log.Fatal().Err(err).Msg("writing CSV")
		}
	}

	charts := cat.Expanded()
	if *flagAuto {
		charts = chartspec.Auto(tab.Keys())
	}
	page := &report.Page{Title: "rqstat", Diagnostics: diags, Stats: tab}
	for i := range charts {
		ch := &charts[i]
		if ok, _ := path.Match(*flagSelect, ch.Name); !ok {
			continue
		}
		sec, err := drawChart(cat, ch, tab)
		if err != nil {
			log.Error().Err(err).Str("chart", ch.Name).Msg("drawing chart")
			failed = true
			continue
		}
		if sec != nil {
			page.Charts = append(page.Charts, *sec)
		}
	}

	for i := range cat.Overheads {
		o := &cat.Overheads[i]
		rows := o.Rows(tab)
		page.Overheads = append(page.Overheads, report.OverheadTable{Name: o.Name, Rows: rows})
		printOverheads(o.Name, rows)
	}

	if *flagHTML != "" {
		if err := writeFile(*flagHTML, func(f *os.File) error {
			return report.HTML(f, page)
		}); err != nil {
			log.Fatal().Err(err).Msg("writing HTML report")
		}
	}

	if failed {
		os.Exit(1)
	}
}

func readFiles(paths []string) (*trialstat.Table, error) {
	format, err := trialfmt.ParseFormat(*flagFormat)
	if err != nil {
		log.Fatal().Err(err).Msg("bad -format")
	}
	dupes, err := trialstat.ParseDupePolicy(*flagDupes)
	if err != nil {
		log.Fatal().Err(err).Msg("bad -dupes")
	}
	b := trialstat.NewBuilder(&trialstat.BuilderOptions{
		Dupes:      dupes,
		KeepWarmup: *flagKeepWarmup,
		Warn:       warn,
	})
	files := &trialfmt.Files{
		Paths:      paths,
		Format:     format,
		AllowStdin: true,
		Defaults:   trialfmt.Defaults{Threads: *flagThreads, MaxKey: *flagMaxKey},
	}
	defer files.Close()
	err = b.AddFiles(files)
	return b.Table(), err
}

func warn(format string, args ...interface{}) {
	log.Warn().Msg(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func diagnoseOptions() trialstat.Options {
	opts := trialstat.Options{MaxElapsed: *flagMaxTime}
	if *flagTrials > 0 {
		n := *flagTrials
		opts.ExpectTrials = func(expkey.Key) int { return n }
	}
	return opts
}

func printDiagnostics(diags []trialstat.Diagnostic) {
	var tab texttab.Table
	tab.Row().Cell("key", texttab.Heading).Cell("problem", texttab.Heading).Cell("detail", texttab.Heading)
	for _, d := range diags {
		tab.Row().Cell(d.Key.String()).Cell(d.Kind.String(), texttab.Warning)
		switch d.Kind {
		case trialstat.KindTrialCount:
			tab.Cellf("%d trials, want %d", d.Count, d.Want)
		case trialstat.KindLongRun:
			tab.Cellf("%.2fs", d.Elapsed)
		}
	}
	fmt.Fprintf(os.Stderr, "%d suspicious keys:\n", len(diags))
	tab.Format(os.Stderr)
}

func printOverheads(name string, rows []chartspec.OverheadRow) {
	var tab texttab.Table
	tab.Row().Cell("workload", texttab.Heading).Cell("threads", texttab.Heading, texttab.Right).
		Cell("pair", texttab.Heading).Cell("overhead", texttab.Heading, texttab.Right)
	n := 0
	for _, r := range rows {
		if !r.OK {
			continue
		}
		n++
		tab.Row().Cell(r.Workload).Cellf("%d", r.Threads).Cell(r.Pair).Cell(fmt.Sprintf("%.2f%%", r.Percent), texttab.Right)
	}
	if n == 0 {
		log.Debug().Str("table", name).Msg("no overhead data")
		return
	}
	fmt.Printf("%s:\n", name)
	tab.Format(os.Stdout)
}

// drawChart assembles chart ch from tab and writes its images and
// series. It returns nil if there is no data for ch.
func drawChart(cat *chartspec.Catalogue, ch *chartspec.Chart, tab *trialstat.Table) (*report.Section, error) {
	sec := &report.Section{Name: ch.Name, Title: cat.Title(ch)}
	var (
		p        *plot.Plot
		err      error
		writeCSV func(f *os.File) error
	)
	switch ch.Kind {
	case chartspec.Line:
		res := series.Assemble(tab, cat.LineSpec(ch))
		note(sec, ch, res.Omitted, res.Excluded)
		if len(res.Series) == 0 {
			log.Warn().Str("chart", ch.Name).Msg("no data; skipped")
			return nil, nil
		}
		fig, err := chart.NewFigure(cat, ch, res)
		if err != nil {
			return nil, err
		}
		if n := fig.Hidden(); n > 0 {
			log.Warn().Str("chart", ch.Name).Int("points", n).Msg("values at or below zero left off the log axes")
		}
		if p, err = chart.Line(fig); err != nil {
			return nil, err
		}
		writeCSV = func(f *os.File) error { return report.SeriesCSV(f, ch.Axis.String(), res) }
	case chartspec.Bars:
		res := series.Normalize(tab, cat.BarSpec(ch))
		note(sec, ch, res.Omitted, nil)
		if len(res.Series) == 0 {
			log.Warn().Str("chart", ch.Name).Msg("no data; skipped")
			return nil, nil
		}
		if p, err = chart.Bars(chart.NewBarFigure(cat, ch, res)); err != nil {
			return nil, err
		}
		writeCSV = func(f *os.File) error { return report.BarsCSV(f, res) }
	default:
		return nil, fmt.Errorf("unknown chart kind %v", ch.Kind)
	}

	for _, out := range []struct{ dir, ext string }{{*flagPNG, ".png"}, {*flagSVG, ".svg"}} {
		if out.dir == "" {
			continue
		}
		file := filepath.Join(out.dir, ch.Name+out.ext)
		if err := chart.Save(p, file, chart.DefaultWidth, chart.DefaultHeight); err != nil {
			return nil, err
		}
		log.Debug().Str("file", file).Msg("wrote chart")
		if sec.Image == "" && *flagHTML != "" {
			sec.Image = relPath(*flagHTML, file)
		}
	}
	if *flagCSV != "" {
		if err := writeFile(filepath.Join(*flagCSV, ch.Name+".csv"), writeCSV); err != nil {
			return nil, err
		}
	}
	return sec, nil
}

func note(sec *report.Section, ch *chartspec.Chart, omitted []series.Omission, excluded []string) {
	for _, o := range omitted {
		log.Warn().Str("chart", ch.Name).Str("algorithm", o.Algorithm).Stringer("missing", o.Missing).Msg("omitted")
		sec.Omitted = append(sec.Omitted, o.String())
	}
	for _, alg := range excluded {
		log.Debug().Str("chart", ch.Name).Str("algorithm", alg).Msg("excluded")
	}
	sec.Excluded = excluded
}

// relPath returns the path of target relative to the directory of
// file, or target itself if there is none.
func relPath(file, target string) string {
	rel, err := filepath.Rel(filepath.Dir(file), target)
	if err != nil {
		return filepath.ToSlash(target)
	}
	return filepath.ToSlash(rel)
}

// writeFile creates path and its directory and calls write with it.
func writeFile(path string, write func(f *os.File) error) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o777); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return write(f)
}

// listSnapshots prints the snapshot names of db, newest first.
func listSnapshots(ctx context.Context, db *store.DB, w io.Writer) error {
	names, err := db.Snapshots(ctx)
	if err != nil {
		return err
	}
	for _, name := range names {
		fmt.Fprintln(w, name)
	}
	return nil
}

// splitDB splits a "driver:dsn" database argument.
func splitDB(s string) (driver, dsn string, err error) {
	driver, dsn, ok := strings.Cut(s, ":")
	if !ok || driver == "" || dsn == "" {
		return "", "", fmt.Errorf("%q is not of the form driver:dsn", s)
	}
	return driver, dsn, nil
}
