// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// rqfilter reads benchmark trials from input files, selects them by
// algorithm, thread count and operation ratio, and writes the selected
// trials to stdout as canonical CSV. If no inputs are provided, it
// reads from stdin.
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rqbench/rqstat/expkey"
	"github.com/rqbench/rqstat/trialfmt"
)

var (
	flagFormat  = flag.String("format", "csv", "default input `format`: csv, log or jvmmem")
	flagAlg     = flag.String("alg", "", "keep only these comma-separated `algorithms`")
	flagThreads = flag.String("threads", "", "keep only these comma-separated thread `counts`")
	flagRatio   = flag.String("ratio", "", "keep only these comma-separated `ratios`, as in 50i-50d-0rq")
)

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(), `Usage: rqfilter [flags] [inputs...]

rqfilter reads benchmark trials from input files, filters them, and
writes the selected trials to stdout as canonical CSV. If no inputs are
provided, it reads from stdin. Free-text logs carry no trials and
produce no output.

`)
	flag.PrintDefaults()
}

// A filter selects trials. Empty fields select everything.
type filter struct {
	algs    map[string]bool
	threads map[int]bool
	ratios  map[expkey.Ratio]bool
}

func parseFilter(algs, threads, ratios string) (*filter, error) {
	f := new(filter)
	for _, a := range fields(algs) {
		if f.algs == nil {
			f.algs = make(map[string]bool)
		}
		f.algs[a] = true
	}
	for _, s := range fields(threads) {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("bad thread count %q", s)
		}
		if f.threads == nil {
			f.threads = make(map[int]bool)
		}
		f.threads[n] = true
	}
	for _, s := range fields(ratios) {
		r, err := expkey.ParseRatio(s)
		if err != nil {
			return nil, err
		}
		if f.ratios == nil {
			f.ratios = make(map[expkey.Ratio]bool)
		}
		f.ratios[r] = true
	}
	return f, nil
}

func fields(s string) []string {
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

func (f *filter) match(t *trialfmt.Trial) bool {
	if f.algs != nil && !f.algs[t.Algorithm] {
		return false
	}
	if f.threads != nil && !f.threads[t.Threads] {
		return false
	}
	if f.ratios != nil && !f.ratios[t.Ratio] {
		return false
	}
	return true
}

func main() {
	flag.Usage = usage
	flag.Parse()
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	format, err := trialfmt.ParseFormat(*flagFormat)
	if err != nil {
		log.Fatal().Err(err).Msg("bad -format")
	}
	sel, err := parseFilter(*flagAlg, *flagThreads, *flagRatio)
	if err != nil {
		log.Fatal().Err(err).Msg("bad filter")
	}

	var errs *multierror.Error
	writer := trialfmt.NewWriter(os.Stdout)
	files := trialfmt.Files{Paths: flag.Args(), Format: format, AllowStdin: true}
	defer files.Close()
	for files.Scan() {
		switch rec := files.Result().(type) {
		case *trialfmt.SyntaxError:
			// Non-fatal parse error. Warn but keep going.
			log.Warn().Err(rec).Msg("skipped")
		case *trialfmt.MalformedInputError:
			errs = multierror.Append(errs, rec)
		case *trialfmt.Trial:
			if !sel.match(rec) {
				continue
			}
			if err := writer.Write(rec); err != nil {
				log.Fatal().Err(err).Msg("writing output")
			}
		}
	}
	if err := files.Err(); err != nil {
		errs = multierror.Append(errs, err)
	}
	if err := errs.ErrorOrNil(); err != nil {
		for _, e := range errs.Errors {
			log.Error().Err(e).Msg("input")
		}
		os.Exit(1)
	}
}
