package grabber

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"runtime/debug"
	"sync"

	"github.com/rs/zerolog"
	"github.com/tanq16/galgrab/internal/utils"
)

type createFunc func(name string) (io.WriteCloser, error)

func createFile(name string) (io.WriteCloser, error) {
	return os.Create(name)
}

type worker struct {
	queue   *Queue
	client  utils.HTTPDoer
	writeMu *sync.Mutex
	create  createFunc
	results *resultSet
	log     zerolog.Logger
}

// run drains the queue until it receives a stop sentinel. Every dequeued item is
// acknowledged exactly once, whatever happened while processing it.
func (w *worker) run(ctx context.Context) {
	w.log.Debug().Msg("Worker started")
	for {
		job := w.queue.Dequeue()
		if job.IsStop() {
			w.queue.Ack()
			w.log.Debug().Msg("Worker received stop")
			return
		}
		outcome := w.process(ctx, job)
		w.results.record(outcome)
		w.queue.Ack()
	}
}

func (w *worker) process(ctx context.Context, job Job) (out Outcome) {
	logger := w.log.With().Int("job", job.Index).Str("url", job.SourceURL).Logger()
	defer func() {
		if r := recover(); r != nil {
			logger.Warn().Str("panic", fmt.Sprintf("%v", r)).Msg("Job panicked")
			logger.Debug().Bytes("stack", debug.Stack()).Msg("Job panic stack trace")
			out = Outcome{Job: job, Status: StatusFailed, Err: fmt.Errorf("panic while downloading %s: %v", job.SourceURL, r)}
		}
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, job.SourceURL, nil)
	if err != nil {
		logger.Warn().Err(err).Msg("Invalid request")
		return Outcome{Job: job, Status: StatusFailed, Err: fmt.Errorf("error creating GET request: %w", err)}
	}
	resp, err := w.client.Do(req)
	if err != nil {
		logger.Warn().Err(err).Msg("Request failed")
		return Outcome{Job: job, Status: StatusFailed, Err: fmt.Errorf("error executing GET request: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logger.Warn().Int("statusCode", resp.StatusCode).Msg("Skipping job")
		return Outcome{
			Job:        job,
			Status:     StatusSkipped,
			StatusCode: resp.StatusCode,
			Err:        &StatusError{URL: job.SourceURL, StatusCode: resp.StatusCode},
		}
	}

	written, err := w.save(job.DestinationPath, resp.Body)
	if err != nil {
		logger.Warn().Err(err).Str("output", job.DestinationPath).Msg("Write failed")
		return Outcome{Job: job, Status: StatusFailed, StatusCode: resp.StatusCode, Err: err}
	}
	logger.Debug().Str("output", job.DestinationPath).Int64("bytes", written).Msg("Download completed")
	return Outcome{Job: job, Status: StatusSuccess, StatusCode: resp.StatusCode, Bytes: written}
}

// save streams body into a new file at name while holding the shared write lock, so at most
// one worker touches the disk at a time. A failed copy removes the partial file.
func (w *worker) save(name string, body io.Reader) (int64, error) {
	w.writeMu.Lock()
	defer w.writeMu.Unlock()
	f, err := w.create(name)
	if err != nil {
		return 0, fmt.Errorf("error creating output file: %w", err)
	}
	buffer := make([]byte, utils.DefaultBufferSize)
	written, copyErr := io.CopyBuffer(f, body, buffer)
	closeErr := f.Close()
	if copyErr == nil && closeErr != nil {
		copyErr = fmt.Errorf("error closing output file: %w", closeErr)
	} else if copyErr != nil {
		copyErr = fmt.Errorf("error writing to output file: %w", copyErr)
	}
	if copyErr != nil {
		os.Remove(name)
		return 0, copyErr
	}
	return written, nil
}
