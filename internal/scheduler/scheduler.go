package scheduler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/tanq16/galgrab/internal/gallery"
	"github.com/tanq16/galgrab/internal/grabber"
	"github.com/tanq16/galgrab/internal/output"
	"github.com/tanq16/galgrab/internal/utils"
)

// Run processes gallery jobs one after another so that only one progress bar is live at a
// time. A gallery that fails to resolve or scrape does not stop the remaining ones.
func Run(ctx context.Context, jobs []utils.GalleryJob, out io.Writer) error {
	if out == nil {
		out = os.Stdout
	}
	log := utils.GetLogger("scheduler")
	var errs []error
	for i, job := range jobs {
		if len(jobs) > 1 {
			fmt.Fprintln(out, output.FHeader(fmt.Sprintf("[%d/%d] %s", i+1, len(jobs), job.URL)))
		}
		if err := processJob(ctx, job, out); err != nil {
			log.Error().Err(err).Str("gallery", job.URL).Str("id", job.ID).Msg("Gallery failed")
			errs = append(errs, fmt.Errorf("%s: %w", job.URL, err))
		}
	}
	return errors.Join(errs...)
}

func processJob(ctx context.Context, job utils.GalleryJob, out io.Writer) error {
	log := utils.GetLogger("scheduler").With().Str("gallery", job.URL).Logger()
	start := time.Now()

	g, err := gallery.Resolve(job.URL, job.Directory)
	if err != nil {
		output.PrintFailure(out, job.URL, err)
		return err
	}
	if job.ImagePattern != "" {
		g.ImagePattern = job.ImagePattern
	}
	if err := g.EnsureDirectory(); err != nil {
		output.PrintFailure(out, job.URL, err)
		return err
	}

	workers := job.Workers
	if workers == 0 {
		workers = utils.DefaultWorkers
	}
	cfg := job.HTTPClientConfig
	cfg.HighThreadMode = workers > 5
	client := utils.NewHTTPClient(cfg)

	links, err := g.ImageLinks(ctx, client)
	if err != nil {
		output.PrintFailure(out, job.URL, err)
		return err
	}
	log.Debug().Str("directory", g.Directory).Int("images", len(links)).Msg("Gallery resolved")

	grab, err := grabber.New(links, g.Directory, grabber.Options{
		Workers: workers,
		Client:  client,
		Output:  out,
	})
	if err != nil {
		output.PrintFailure(out, job.URL, err)
		return err
	}
	report, err := grab.Grab(ctx)
	if err != nil {
		return err
	}

	summary := output.Summary{
		Name:      g.Name,
		Total:     len(report.Outcomes),
		Succeeded: report.Succeeded(),
		Skipped:   report.Skipped(),
		Failed:    report.Failed(),
		Bytes:     report.Bytes(),
		Elapsed:   time.Since(start),
	}
	for _, o := range report.Problems() {
		summary.Errors = append(summary.Errors, output.ErrorReport{Subject: o.Job.SourceURL, Error: o.Err, Time: o.Finished})
	}
	output.PrintSummary(out, summary)

	if n := len(summary.Errors); n > 0 {
		return fmt.Errorf("%d of %d downloads did not succeed", n, summary.Total)
	}
	return nil
}
