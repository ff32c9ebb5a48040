package pix2gba

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/bodgit/pix2gba/config"
	"github.com/pkg/errors"
)

// UnitError is the reason one unit failed.
type UnitError struct {
	Unit string
	Err  error
}

func (e *UnitError) Error() string {
	return e.Unit + ": " + e.Err.Error()
}

func (e *UnitError) Unwrap() error {
	return e.Err
}

// Report is the outcome of a build or clean. A unit failing doesn't stop
// the others.
type Report struct {
	Total     int
	Succeeded int
	Failed    []*UnitError
	Files     int // files written or removed
}

func (r *Report) add(name string, files int, err error) {
	r.Total++
	if err != nil {
		r.Failed = append(r.Failed, &UnitError{Unit: name, Err: err})
		return
	}
	r.Succeeded++
	r.Files += files
}

// Err returns an error summarizing any failures.
func (r *Report) Err() error {
	if len(r.Failed) == 0 {
		return nil
	}
	return fmt.Errorf("%d of %d units failed", len(r.Failed), r.Total)
}

func (r *Report) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d units, %d succeeded, %d failed\n", r.Total, r.Succeeded, len(r.Failed))
	for _, f := range r.Failed {
		fmt.Fprintf(&b, "\t%s\n", f)
	}
	return b.String()
}

type job struct {
	config *config.Config
	unit   config.Unit
	name   string
	err    error // the unit was rejected before conversion
}

type result struct {
	name  string
	files int
	err   error
}

func unitName(c *config.Config, u config.Unit) string {
	rel, err := filepath.Rel(c.Dir, u.Image)
	if err != nil {
		rel = u.Name
	}
	return filepath.Join(c.Dir, strings.TrimSuffix(rel, filepath.Ext(rel)))
}

// loadJobs turns a build root into jobs. Anything wrong with the build file
// becomes failed jobs rather than an error.
func loadJobs(dir string) []job {
	c, err := config.Load(dir)
	if err != nil {
		var ge *config.GeneralError
		if !errors.As(err, &ge) {
			return []job{{name: filepath.Join(dir, config.Filename), err: err}}
		}
		jobs := make([]job, ge.Units)
		for i := range jobs {
			jobs[i] = job{name: fmt.Sprintf("%s unit %d", ge.File, i), err: err}
		}
		return jobs
	}

	jobs := make([]job, 0, len(c.Units)+len(c.Errors))
	for _, ue := range c.Errors {
		name := fmt.Sprintf("%s unit %d", c.File, ue.Index)
		if ue.Name != "" {
			name += " (" + ue.Name + ")"
		}
		jobs = append(jobs, job{name: name, err: ue.Err})
	}
	for _, u := range c.Units {
		jobs = append(jobs, job{config: c, unit: u, name: unitName(c, u)})
	}
	return jobs
}

func (b *Builder) findUnits(ctx context.Context, base string) (<-chan job, <-chan error, error) {
	dirs, err := config.Discover(base)
	if err != nil {
		return nil, nil, err
	}

	out := make(chan job)
	errc := make(chan error, 1)
	go func() {
		defer close(out)
		defer close(errc)
		for _, dir := range dirs {
			b.logger.Printf("Found build root %s\n", dir)
			for _, j := range loadJobs(dir) {
				select {
				case out <- j:
				case <-ctx.Done():
					errc <- errors.New("build cancelled")
					return
				}
			}
		}
	}()
	return out, errc, nil
}

func (b *Builder) buildUnit(j job) result {
	if j.err != nil {
		return result{name: j.name, err: j.err}
	}

	a, err := b.Convert(NewSettings(j.config.General, j.unit))
	if err != nil {
		return result{name: j.name, err: err}
	}

	files, err := b.Write(a, NewOutput(j.config.General, j.unit))
	if err != nil {
		return result{name: j.name, err: err}
	}

	return result{name: j.name, files: len(files)}
}

func (b *Builder) cleanUnit(j job) result {
	if j.err != nil {
		return result{name: j.name, err: j.err}
	}

	n, err := removeFiles(j.config.Outputs(j.unit))
	if err != nil {
		return result{name: j.name, err: err}
	}
	b.logger.Printf("%s: removed %d files\n", j.name, n)

	return result{name: j.name, files: n}
}

func (b *Builder) unitWorker(ctx context.Context, in <-chan job, out chan<- result, wg *sync.WaitGroup, f func(job) result) (<-chan error, error) {
	errc := make(chan error, 1)
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer close(errc)
		for j := range in {
			select {
			case out <- f(j):
			case <-ctx.Done():
				errc <- errors.New("build cancelled")
				return
			}
		}
	}()
	return errc, nil
}

func waitForPipeline(errs ...<-chan error) error {
	errc := mergeErrors(errs...)
	for err := range errc {
		if err != nil {
			return err
		}
	}
	return nil
}

func mergeErrors(cs ...<-chan error) <-chan error {
	var wg sync.WaitGroup
	out := make(chan error, len(cs))
	wg.Add(len(cs))
	for _, c := range cs {
		go func(c <-chan error) {
			for n := range c {
				out <- n
			}
			wg.Done()
		}(c)
	}
	go func() {
		wg.Wait()
		close(out)
	}()
	return out
}

func (b *Builder) run(ctx context.Context, path string, f func(job) result) (*Report, error) {
	dir, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	var errcList []<-chan error

	jobs, errc, err := b.findUnits(ctx, dir)
	if err != nil {
		return nil, err
	}
	errcList = append(errcList, errc)

	results := make(chan result)
	var wg sync.WaitGroup
	for i := 0; i < b.jobs; i++ {
		errc, err := b.unitWorker(ctx, jobs, results, &wg, f)
		if err != nil {
			return nil, err
		}
		errcList = append(errcList, errc)
	}

	report := new(Report)
	go func() {
		wg.Wait()
		close(results)
	}()
	for r := range results {
		report.add(r.name, r.files, r.err)
	}
	sort.Slice(report.Failed, func(i, j int) bool { return report.Failed[i].Unit < report.Failed[j].Unit })

	return report, waitForPipeline(errcList...)
}

// Build converts every unit in every build root under path.
func (b *Builder) Build(ctx context.Context, path string) (*Report, error) {
	return b.run(ctx, path, b.buildUnit)
}

// Clean removes the output of every unit in every build root under path.
func (b *Builder) Clean(ctx context.Context, path string) (*Report, error) {
	return b.run(ctx, path, b.cleanUnit)
}
