package grabber

import (
	"context"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/tanq16/galgrab/internal/output"
	"github.com/tanq16/galgrab/internal/utils"
)

// Options configures a Grabber.
type Options struct {
	// Workers is the number of concurrent downloads. It must be positive.
	Workers int

	// Client performs the GET requests.
	// Default: a utils.HTTPClient with default settings
	Client utils.HTTPDoer

	// Output receives the progress bar.
	// Default: os.Stdout
	Output io.Writer

	// Interval is how often the progress bar is refreshed.
	// Default: 500ms
	Interval time.Duration
}

// Grabber downloads a list of URLs into a directory with a fixed pool of workers.
// A Grabber runs once; build a new one for every list.
type Grabber struct {
	jobs     []Job
	workers  int
	queue    *Queue
	client   utils.HTTPDoer
	out      io.Writer
	interval time.Duration
	create   createFunc
	writeMu  sync.Mutex
	used     atomic.Bool
}

// New computes the destination names for urls under directory and fills the job queue:
// every real job first, then one stop sentinel per worker.
func New(urls []string, directory string, opts Options) (*Grabber, error) {
	if opts.Workers <= 0 {
		return nil, &ConfigurationError{Workers: opts.Workers}
	}
	if opts.Client == nil {
		opts.Client = utils.NewHTTPClient(utils.HTTPClientConfig{HighThreadMode: opts.Workers > 5})
	}
	g := &Grabber{
		jobs:     buildJobs(urls, directory),
		workers:  opts.Workers,
		queue:    NewQueue(),
		client:   opts.Client,
		out:      opts.Output,
		interval: opts.Interval,
		create:   createFile,
	}
	for _, job := range g.jobs {
		g.queue.Enqueue(job)
	}
	for range g.workers {
		g.queue.Enqueue(stopJob())
	}
	return g, nil
}

// Jobs returns the planned jobs in queue order.
func (g *Grabber) Jobs() []Job {
	jobs := make([]Job, len(g.jobs))
	copy(jobs, g.jobs)
	return jobs
}

// Grab runs the workers and the progress watcher and blocks until every job has been
// attempted, every worker has stopped and the watcher has drawn its final bar. Per-job
// failures never abort the run; they are reported in the returned Report.
func (g *Grabber) Grab(ctx context.Context) (*Report, error) {
	if !g.used.CompareAndSwap(false, true) {
		return nil, ErrAlreadyGrabbed
	}
	log := utils.GetLogger("grabber").With().Str("run", uuid.NewString()).Logger()
	log.Info().Int("jobs", len(g.jobs)).Int("workers", g.workers).Msg("Starting grab")
	start := time.Now()

	results := newResultSet(len(g.jobs))
	watcher := output.NewWatcher(g.out, len(g.jobs), g.queue.Len, g.interval)

	var wg sync.WaitGroup
	wg.Add(g.workers + 1)
	for i := range g.workers {
		w := &worker{
			queue:   g.queue,
			client:  g.client,
			writeMu: &g.writeMu,
			create:  g.create,
			results: results,
			log:     log.With().Int("worker", i+1).Logger(),
		}
		go func() {
			defer wg.Done()
			w.run(ctx)
		}()
	}
	go func() {
		defer wg.Done()
		watcher.Run()
	}()

	g.queue.Wait()
	wg.Wait()

	report := results.report(time.Since(start))
	log.Info().
		Int("succeeded", report.Succeeded()).
		Int("skipped", report.Skipped()).
		Int("failed", report.Failed()).
		Dur("elapsed", report.Elapsed).
		Msg("Grab finished")
	return report, nil
}
