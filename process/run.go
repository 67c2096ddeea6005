// Package process implements "filter" command: it finds stylesheets in
// files, directories and archives, filters them and writes results out.
package process

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime/debug"
	"slices"
	"strings"
	"time"

	"github.com/maruel/natural"
	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"

	"colorsonly/archive"
	"colorsonly/common"
	"colorsonly/css"
	"colorsonly/filter"
	"colorsonly/state"
)

// StdIO is the source name which makes filter read stdin and write stdout.
const StdIO = "-"

// job is everything needed to turn one stylesheet into another.
type job struct {
	style  common.OutputStyle
	parser *css.Parser
	filter *filter.Filter
	// number of processed stylesheets, keeps report entries unique
	seq int
}

func (j *job) next() int {
	j.seq++
	return j.seq
}

func newJob(opts filter.Options, style common.OutputStyle, log *zap.Logger) *job {
	return &job{
		style:  style,
		parser: css.NewParser(log),
		filter: filter.New(opts, log),
	}
}

// Run is "filter" command action.
func Run(ctx context.Context, cmd *cli.Command) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("process")

	src := cmd.Args().Get(0)
	if len(src) == 0 {
		return errors.New("no input source has been specified")
	}
	if src != StdIO {
		if src, err = filepath.Abs(src); err != nil {
			return err
		}
	}

	dst := cmd.Args().Get(1)
	if len(dst) == 0 {
		if dst, err = os.Getwd(); err != nil {
			return fmt.Errorf("unable to get working directory: %w", err)
		}
	}
	if dst, err = filepath.Abs(dst); err != nil {
		return err
	}
	if cmd.Args().Len() > 2 {
		log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[2:]))
	}

	// command line flags win over configuration
	opts := filter.Options{
		Inverse:           env.Cfg.Filter.Inverse,
		WithoutGrey:       env.Cfg.Filter.WithoutGrey,
		WithoutMonochrome: env.Cfg.Filter.WithoutMonochrome,
	}
	if cmd.IsSet("inverse") {
		opts.Inverse = cmd.Bool("inverse")
	}
	if cmd.IsSet("without-grey") {
		opts.WithoutGrey = cmd.Bool("without-grey")
	}
	if cmd.IsSet("without-monochrome") {
		opts.WithoutMonochrome = cmd.Bool("without-monochrome")
	}
	if opts.Inverse && (opts.WithoutGrey || opts.WithoutMonochrome) {
		log.Warn("Grey options have no effect when removing colors")
	}

	style := env.Cfg.Output.Style
	if cmd.IsSet("style") {
		if style, err = common.ParseOutputStyle(cmd.String("style")); err != nil {
			log.Warn("Unknown output style requested, using configured one", zap.Error(err), zap.Stringer("style", env.Cfg.Output.Style))
			style = env.Cfg.Output.Style
		}
	}

	env.NoDirs, env.Overwrite = cmd.Bool("nodirs"), cmd.Bool("overwrite")

	cs := env.Cfg.Input.Charset
	if cmd.IsSet("charset") {
		cs = cmd.String("charset")
	}
	if env.Charset = lookupEncoding(cs, log); env.Charset != nil {
		log.Debug("Forcefully converting all input from", zap.String("charset", cs))
	}

	// Since zip "standard" does not define file name encoding we may need to
	// force archaic code page for old archives
	cp := env.Cfg.Input.ZipCodePage
	if cmd.IsSet("force-zip-cp") {
		cp = cmd.String("force-zip-cp")
	}
	if env.CodePage = lookupEncoding(cp, log); env.CodePage != nil {
		log.Debug("Forcefully converting all non UTF-8 file names in archives", zap.String("charset", cp))
	}

	j := newJob(opts, style, env.Log)

	log.Info("Processing starting",
		zap.String("source", src), zap.String("destination", dst),
		zap.Stringer("mode", opts.Mode()), zap.Stringer("style", style))
	defer func(start time.Time) {
		log.Info("Processing completed", zap.Duration("elapsed", time.Since(start)))
	}(time.Now())

	if src == StdIO {
		return processStream(ctx, os.Stdin, os.Stdout, j, log)
	}
	return process(ctx, src, dst, j, log)
}

func lookupEncoding(name string, log *zap.Logger) encoding.Encoding {
	if len(name) == 0 {
		return nil
	}
	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil || enc == nil {
		log.Warn("Unknown or unsupported character set specification. Ignoring...", zap.String("charset", name), zap.Error(err))
		return nil
	}
	return enc
}

// process determines the input type (directory, archive, or single file) and
// processes accordingly. Path inside archive could follow archive name.
func process(ctx context.Context, src, dst string, j *job, log *zap.Logger) error {
	var head, tail string
	for head = src; len(head) != 0; head, tail = filepath.Split(head) {
		if err := ctx.Err(); err != nil {
			return err
		}

		head = strings.TrimSuffix(head, string(filepath.Separator))

		fi, err := os.Stat(head)
		if err != nil {
			// does not exists - probably path in archive
			continue
		}

		if fi.Mode().IsDir() {
			if len(tail) != 0 {
				// directory cannot have tail - it would be simple file
				return fmt.Errorf("input source was not found (%s) => (%s)", head, strings.TrimPrefix(src, head))
			}
			storeSource(ctx, head, log)
			if err := processDir(ctx, head, dst, j, log); err != nil {
				return fmt.Errorf("unable to process directory: %w", err)
			}
			break
		}

		if !fi.Mode().IsRegular() {
			return fmt.Errorf("unexpected path mode for (%s) => (%s)", head, strings.TrimPrefix(src, head))
		}

		isArchive, err := isArchiveFile(head)
		if err != nil {
			// checking format - but cannot open target file
			return fmt.Errorf("unable to check archive type: %w", err)
		}
		if isArchive {
			storeSource(ctx, head, log)
			// we need to look inside to see if path makes sense
			inner := strings.TrimPrefix(strings.TrimPrefix(src, head), string(filepath.Separator))
			if err := processArchive(ctx, head, filepath.ToSlash(inner), "", dst, j, log); err != nil {
				return fmt.Errorf("unable to process archive: %w", err)
			}
			break
		}

		if len(tail) == 0 && archive.IsStylesheet(head) {
			storeSource(ctx, head, log)
			if err := processFile(ctx, head, filepath.Base(head), dst, j, log); err != nil {
				log.Error("Unable to process file", zap.String("file", head), zap.Error(err))
			}
			break
		}
		return fmt.Errorf("input was not recognized as stylesheet (%s)", head)
	}
	if len(head) == 0 {
		return fmt.Errorf("input source was not found (%s)", src)
	}
	return nil
}

func storeSource(ctx context.Context, path string, log *zap.Logger) {
	env := state.EnvFromContext(ctx)
	if env.Rpt == nil {
		return
	}
	if err := env.Rpt.StoreSource(path); err != nil {
		log.Warn("Unable to store source in report", zap.String("path", path), zap.Error(err))
	}
}

// processDir walks directory tree in natural order finding stylesheets and
// archives and processes them.
func processDir(ctx context.Context, dir, dst string, j *job, log *zap.Logger) (err error) {
	var paths []string
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err != nil {
			log.Warn("Skipping path", zap.String("path", path), zap.Error(err))
			return nil
		}
		if d.Type().IsRegular() {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return err
	}
	slices.SortStableFunc(paths, func(a, b string) int {
		switch {
		case natural.Less(a, b):
			return -1
		case natural.Less(b, a):
			return 1
		}
		return 0
	})

	count := 0
	defer func() {
		if err == nil && count == 0 {
			log.Debug("Nothing to process", zap.String("dir", dir))
		}
	}()

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return err
		}

		rel := strings.TrimPrefix(strings.TrimPrefix(path, dir), string(filepath.Separator))

		if archive.IsStylesheet(path) {
			count++
			if err := processFile(ctx, path, rel, dst, j, log); err != nil {
				log.Error("Unable to process file", zap.String("file", path), zap.Error(err))
			}
			continue
		}

		isArchive, err := isArchiveFile(path)
		if err != nil {
			log.Warn("Skipping file", zap.String("file", path), zap.Error(err))
			continue
		}
		if !isArchive {
			log.Debug("Skipping file, not recognized as stylesheet or archive", zap.String("file", path))
			continue
		}
		count++
		if err := processArchive(ctx, path, "", filepath.Dir(rel), dst, j, log); err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			log.Error("Unable to process archive", zap.String("file", path), zap.Error(err))
		}
	}
	return nil
}

// processArchive walks all stylesheets inside archive under "pathIn" and
// processes them. "pathOut" is prepended to the output location.
func processArchive(ctx context.Context, path, pathIn, pathOut, dst string, j *job, log *zap.Logger) (err error) {
	count := 0
	defer func() {
		if err == nil && count == 0 {
			log.Debug("Nothing to process", zap.String("archive", path))
		}
	}()

	cp := state.EnvFromContext(ctx).CodePage

	return archive.Walk(path, pathIn, archive.IsStylesheet, func(arc string, f *zip.File) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		count++

		pathInArchive := f.FileHeader.Name
		if cp != nil && f.FileHeader.NonUTF8 {
			// forcing zip file name encoding
			if n, err := cp.NewDecoder().String(pathInArchive); err == nil {
				pathInArchive = n
			} else {
				n, _ = ianaindex.IANA.Name(cp)
				log.Warn("Unable to convert archive name from specified encoding",
					zap.String("charset", n), zap.String("path", pathInArchive), zap.Error(err))
			}
		}

		r, err := f.Open()
		if err != nil {
			log.Error("Unable to process file in archive",
				zap.String("archive", arc), zap.String("file", f.FileHeader.Name), zap.Error(err))
			return nil
		}
		defer r.Close()

		if err := processReader(ctx, r, filepath.Join(pathOut, filepath.FromSlash(pathInArchive)), dst, j, log); err != nil {
			log.Error("Unable to process file in archive",
				zap.String("archive", arc), zap.String("file", f.FileHeader.Name), zap.Error(err))
		}
		return nil
	})
}

func processFile(ctx context.Context, path, src, dst string, j *job, log *zap.Logger) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return processReader(ctx, file, src, dst, j, log)
}

// processReader processes single stylesheet. "src" is part of the source path
// (always including file name) relative to the original path. "dst" is the
// destination directory where the result should be written.
func processReader(ctx context.Context, r io.Reader, src, dst string, j *job, log *zap.Logger) (rerr error) {
	env := state.EnvFromContext(ctx)

	var outputName string

	log.Debug("Filtering starting", zap.String("from", src))
	defer func(start time.Time) {
		// one bad stylesheet should not stop the whole run
		if r := recover(); r != nil {
			log.Error("Filtering ended with panic",
				zap.Any("panic", r), zap.Duration("elapsed", time.Since(start)), zap.String("to", outputName), zap.ByteString("stack", debug.Stack()))
			rerr = fmt.Errorf("filtering panic: %v", r)
		} else if rerr == nil {
			log.Info("Filtering completed", zap.String("from", src), zap.String("to", outputName), zap.Duration("elapsed", time.Since(start)))
		}
	}(time.Now())

	id := j.next()
	sheet, err := filterStylesheet(ctx, r, src, id, j, log)
	if err != nil {
		return err
	}

	outputName = buildOutputPath(src, dst, j.filter.Options().Mode(), j.style, env)

	// Check if output file already exists
	if _, err := os.Stat(outputName); err == nil {
		if !env.Overwrite {
			return fmt.Errorf("output file already exists: %s", outputName)
		}
		log.Warn("Overwriting existing file", zap.String("file", outputName))
	} else if !os.IsNotExist(err) {
		return err
	} else if err := os.MkdirAll(filepath.Dir(outputName), 0755); err != nil {
		return fmt.Errorf("unable to create output directory: %w", err)
	}

	out, err := os.Create(outputName)
	if err != nil {
		return fmt.Errorf("unable to create output file: %w", err)
	}
	if err := render(sheet, j.style, out); err != nil {
		out.Close()
		return fmt.Errorf("unable to write output: %w", err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("unable to write output: %w", err)
	}

	env.Rpt.Job(id, src).Result(outputName)
	return nil
}

// processStream filters single stylesheet from r to w.
func processStream(ctx context.Context, r io.Reader, w io.Writer, j *job, log *zap.Logger) error {
	sheet, err := filterStylesheet(ctx, r, StdIO, j.next(), j, log)
	if err != nil {
		return err
	}
	if err := render(sheet, j.style, w); err != nil {
		return fmt.Errorf("unable to write output: %w", err)
	}
	return nil
}

// filterStylesheet reads and decodes stylesheet, parses and filters it. When
// debug report is requested input from stdin and tree of the result are
// stored in its job section "id".
func filterStylesheet(ctx context.Context, r io.Reader, src string, id int, j *job, log *zap.Logger) (*css.Stylesheet, error) {
	env := state.EnvFromContext(ctx)

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("unable to read stylesheet (%s): %w", src, err)
	}
	rj := env.Rpt.Job(id, src)
	if src == StdIO {
		rj.Input(data)
	}

	data, from, err := decodeInput(data, env.Charset, log)
	if err != nil {
		return nil, fmt.Errorf("unable to decode stylesheet (%s): %w", src, err)
	}

	sheet := j.parser.Parse(data, src)
	for _, w := range sheet.Warnings {
		log.Warn("Stylesheet problem", zap.String("source", src), zap.String("details", w))
	}
	if len(from) > 0 {
		log.Debug("Stylesheet converted to UTF-8", zap.String("source", src), zap.String("from", from))
	}

	j.filter.Apply(sheet)

	if rj != nil {
		rj.Tree(sheet.Dump())
	}
	return sheet, nil
}

func render(sheet *css.Stylesheet, style common.OutputStyle, w io.Writer) error {
	switch style {
	case common.OutputStylePretty:
		_, err := sheet.WriteTo(w)
		return err
	case common.OutputStyleCompact:
		text := sheet.Compact()
		if len(text) == 0 {
			return nil
		}
		_, err := io.WriteString(w, text+"\n")
		return err
	case common.OutputStyleMinified:
		return sheet.Minify(w)
	default:
		// this should never happen
		panic("unsupported output style requested")
	}
}
