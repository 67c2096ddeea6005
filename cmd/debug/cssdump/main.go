// cssdump parses stylesheet and writes its node tree, as seen by filter,
// into <file>-dump.txt. With -filter the tree after filtering is added.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"colorsonly/css"
	"colorsonly/filter"
)

func main() {
	doFilter := flag.Bool("filter", false, "also dump tree after filtering")
	inverse := flag.Bool("inverse", false, "filter removes colors instead of keeping them")
	withoutGrey := flag.Bool("without-grey", false, "filter drops grey colors")
	withoutMonochrome := flag.Bool("without-monochrome", false, "filter drops black, white and grey colors")
	verbose := flag.Bool("verbose", false, "print debug log to stderr")
	overwrite := flag.Bool("overwrite", false, "overwrite existing output")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: cssdump [-filter] [-inverse] [-without-grey] [-without-monochrome] [-verbose] [-overwrite] <file.css> [outdir]\n\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() < 1 || flag.NArg() > 2 {
		flag.Usage()
		os.Exit(2)
	}

	defer func(startedAt time.Time) {
		fmt.Fprintf(os.Stderr, "\nExecution time: %s\n", time.Since(startedAt))
	}(time.Now())

	in := flag.Arg(0)
	outDir := filepath.Dir(in)
	if flag.NArg() == 2 {
		outDir = flag.Arg(1)
	}

	log := zap.NewNop()
	if *verbose {
		var err error
		if log, err = zap.NewDevelopment(); err != nil {
			fmt.Fprintf(os.Stderr, "unable to create logger: %v\n", err)
			os.Exit(1)
		}
	}

	opts := filter.Options{Inverse: *inverse, WithoutGrey: *withoutGrey, WithoutMonochrome: *withoutMonochrome}
	if err := run(in, outDir, *doFilter, opts, *overwrite, log); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func run(in, outDir string, doFilter bool, opts filter.Options, overwrite bool, log *zap.Logger) error {
	data, err := os.ReadFile(in)
	if err != nil {
		return fmt.Errorf("unable to read input: %w", err)
	}

	base := strings.TrimSuffix(filepath.Base(in), filepath.Ext(in))
	out := filepath.Join(outDir, base+"-dump.txt")
	if _, err := os.Stat(out); err == nil && !overwrite {
		return fmt.Errorf("output already exists: %s", out)
	}

	sheet := css.NewParser(log).Parse(data, in)

	var sb strings.Builder
	sb.WriteString(sheet.Dump())
	if doFilter {
		filter.New(opts, log).Apply(sheet)
		fmt.Fprintf(&sb, "\n--- filtered (%s) ---\n", opts.Mode())
		sb.WriteString(sheet.Dump())
		sb.WriteString("\n--- result ---\n")
		sb.WriteString(sheet.String())
	}

	if err := os.WriteFile(out, []byte(sb.String()), 0644); err != nil {
		return fmt.Errorf("unable to write output: %w", err)
	}
	fmt.Fprintf(os.Stderr, "Dumped %s to %s\n", in, out)
	return nil
}
