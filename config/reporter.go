package config

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"maps"
	"os"
	"path"
	"path/filepath"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/maruel/natural"
	"go.uber.org/multierr"

	"colorsonly/misc"
)

type ReporterConfig struct {
	Destination string `yaml:"destination" sanitize:"path_clean,assure_dir_exists_for_file" validate:"required,filepath"`
}

// Prepare creates debug report archive. When destination is not writable
// report goes to temporary directory, see Name.
func (conf *ReporterConfig) Prepare() (*Report, error) {
	f, err := os.Create(conf.Destination)
	if err != nil {
		if f, err = os.CreateTemp("", misc.GetAppName()+"-report.*.zip"); err != nil {
			return nil, fmt.Errorf("unable to create report: %w", err)
		}
	}
	return &Report{
		file:  f,
		arc:   zip.NewWriter(f),
		names: make(map[string]int),
		run:   make(map[string]string),
		late:  make(map[string]string),
		jobs:  make(map[int]*Job),
	}, nil
}

// Report is a debug archive. Sources, trees and results are written into it
// while processing goes on, so later changes on disk do not affect it. Files
// which are still growing (logs) are picked up on Close. MANIFEST lists
// everything grouped by filtering job.
//
// All methods are safe to call on nil Report, which means no report was
// requested. Not to be used concurrently.
type Report struct {
	file  *os.File
	arc   *zip.Writer
	names map[string]int    // entry name -> times requested
	run   map[string]string // manifest lines of entries outside of jobs
	late  map[string]string // entry name -> path, stored on Close
	jobs  map[int]*Job
	err   error
}

// Job groups report entries of one filtered stylesheet under "jobs/NNN/".
type Job struct {
	r      *Report
	id     int
	source string
	output string
	lines  []string
}

// Name returns name of underlying file.
func (r *Report) Name() string {
	if r == nil || r.file == nil {
		return ""
	}
	if n, err := filepath.Abs(r.file.Name()); err == nil {
		return n
	}
	return r.file.Name()
}

// Store registers file to be put in the archive on Close under requested
// name. Use it for files which are still being written.
func (r *Report) Store(name, path string) {
	if r == nil {
		return
	}
	if p, err := filepath.Abs(path); err == nil {
		path = p
	}
	r.late[name] = path
}

// StoreData puts data into the archive under requested name.
func (r *Report) StoreData(name string, data []byte) {
	if r == nil {
		return
	}
	stored, err := r.write(name, time.Now(), bytes.NewReader(data))
	r.note(stored, sizeOf(data), err)
}

// StoreSource puts snapshot of source file or directory into the archive
// under "source/".
func (r *Report) StoreSource(src string) error {
	if r == nil {
		return nil
	}
	src, err := filepath.Abs(src)
	if err != nil {
		return err
	}
	info, err := os.Stat(src)
	if err != nil {
		return err
	}
	root := "source/" + filepath.Base(src)
	if !info.IsDir() {
		stored, err := r.writeFile(root, src)
		r.note(stored, src, err)
		return err
	}

	return filepath.WalkDir(src, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			// ignore directories, links, sockets, etc.
			return nil
		}
		rel, err := filepath.Rel(src, p)
		if err != nil {
			return err
		}
		stored, err := r.writeFile(path.Join(root, filepath.ToSlash(rel)), p)
		r.note(stored, p, err)
		return err
	})
}

// Job returns report section of filtering job, creating it on first use.
func (r *Report) Job(id int, source string) *Job {
	if r == nil {
		return nil
	}
	j, ok := r.jobs[id]
	if !ok {
		j = &Job{r: r, id: id, source: source}
		r.jobs[id] = j
	}
	return j
}

// Input stores stylesheet as it was read, for sources which cannot be
// snapshotted otherwise (stdin).
func (j *Job) Input(data []byte) {
	j.data("input.css", data)
}

// Tree stores text dump of the filtered stylesheet.
func (j *Job) Tree(dump string) {
	j.data("tree.txt", []byte(dump))
}

// Result stores copy of the written output file.
func (j *Job) Result(output string) {
	if j == nil {
		return
	}
	j.output = output
	stored, err := j.r.writeFile(j.prefix()+"result"+filepath.Ext(output), output)
	j.note(stored, output, err)
}

func (j *Job) prefix() string {
	return fmt.Sprintf("jobs/%03d/", j.id)
}

func (j *Job) data(name string, data []byte) {
	if j == nil {
		return
	}
	stored, err := j.r.write(j.prefix()+name, time.Now(), bytes.NewReader(data))
	j.note(stored, sizeOf(data), err)
}

func (j *Job) note(name, origin string, err error) {
	if err != nil {
		j.r.err = multierr.Append(j.r.err, fmt.Errorf("unable to store %s in report: %w", name, err))
		return
	}
	j.lines = append(j.lines, manifestLine(name, origin))
}

func (r *Report) note(name, origin string, err error) {
	if err != nil {
		r.err = multierr.Append(r.err, fmt.Errorf("unable to store %s in report: %w", name, err))
		return
	}
	r.run[name] = manifestLine(name, origin)
}

// unique versions repeated entry names: "a.css", "a-1.css", "a-2.css"...
func (r *Report) unique(name string) string {
	n := r.names[name]
	r.names[name] = n + 1
	if n == 0 {
		return name
	}
	ext := path.Ext(name)
	return fmt.Sprintf("%s-%d%s", strings.TrimSuffix(name, ext), n, ext)
}

func (r *Report) write(name string, t time.Time, src io.Reader) (string, error) {
	name = r.unique(name)
	w, err := r.arc.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Deflate, Modified: t})
	if err != nil {
		return name, err
	}
	_, err = io.Copy(w, src)
	return name, err
}

func (r *Report) writeFile(name, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return name, err
	}
	defer f.Close()

	t := time.Now()
	if info, err := f.Stat(); err == nil {
		t = info.ModTime()
	}
	return r.write(name, t, f)
}

// Close picks up late files, writes MANIFEST and finalizes the archive.
func (r *Report) Close() (err error) {
	if r == nil || r.file == nil {
		return nil
	}
	defer func() {
		err = multierr.Append(err, r.file.Close())
		r.file = nil
	}()

	names := slices.Collect(maps.Keys(r.late))
	sort.Sort(natural.StringSlice(names))
	for _, name := range names {
		p := r.late[name]
		if _, err := os.Stat(p); err != nil {
			// absent files are ignored
			continue
		}
		stored, werr := r.writeFile(name, p)
		r.note(stored, p, werr)
	}

	if _, err := r.write("MANIFEST", time.Now(), r.manifest()); err != nil {
		r.err = multierr.Append(r.err, err)
	}
	return multierr.Append(r.err, r.arc.Close())
}

// manifest lists run wide entries in natural order followed by jobs in
// processing order.
func (r *Report) manifest() io.Reader {
	buf := new(bytes.Buffer)

	names := slices.Collect(maps.Keys(r.run))
	sort.Sort(natural.StringSlice(names))
	for _, name := range names {
		fmt.Fprintln(buf, r.run[name])
	}

	for _, id := range slices.Sorted(maps.Keys(r.jobs)) {
		j := r.jobs[id]
		output := j.output
		if len(output) == 0 {
			output = "<not written>"
		}
		fmt.Fprintf(buf, "\njob %03d: %s -> %s\n", j.id, j.source, output)
		for _, l := range j.lines {
			fmt.Fprintf(buf, "\t%s\n", l)
		}
	}
	return buf
}

func manifestLine(name, origin string) string {
	return fmt.Sprintf("%s\t%s\t%s", time.Now().UTC().Format(time.UnixDate), name, origin)
}

func sizeOf(data []byte) string {
	return fmt.Sprintf("<%d bytes>", len(data))
}
