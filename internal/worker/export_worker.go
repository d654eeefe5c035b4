package worker

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"shareit/internal/models"
)

// ReportRenderer produces a report file for a booking period.
type ReportRenderer interface {
	WriteBookingsReport(ctx context.Context, from, to time.Time) (string, error)
}

type exportJob struct {
	From time.Time
	To   time.Time
}

// ExportWorker consumes report export jobs from an in-memory queue and
// renders them with retries.
type ExportWorker struct {
	renderer    ReportRenderer
	retryPolicy RetryPolicy
	queue       chan exportJob
	logger      *zerolog.Logger
}

func NewExportWorker(renderer ReportRenderer, retry RetryPolicy, logger *zerolog.Logger) *ExportWorker {
	if retry.MaxRetries == 0 {
		retry.MaxRetries = 5
	}
	if retry.InitialDelay == 0 {
		retry.InitialDelay = 2 * time.Second
	}
	if retry.MaxDelay == 0 {
		retry.MaxDelay = time.Minute
	}
	if retry.BackoffFactor == 0 {
		retry.BackoffFactor = 2
	}

	return &ExportWorker{
		renderer:    renderer,
		retryPolicy: retry,
		queue:       make(chan exportJob, models.ExportQueueSize),
		logger:      logger,
	}
}

// EnqueueExport schedules a report covering [from, to]. Returns an error
// when the queue is full rather than blocking the caller.
func (w *ExportWorker) EnqueueExport(_ context.Context, from, to time.Time) error {
	if to.Before(from) {
		return errors.New("export period end is before start")
	}

	select {
	case w.queue <- exportJob{From: from, To: to}:
		return nil
	default:
		return errors.New("export queue is full")
	}
}

// RunSchedule enqueues a report for the elapsed interval on every tick.
// An unparsable schedule logs a warning and disables periodic exports.
func (w *ExportWorker) RunSchedule(ctx context.Context, schedule string) {
	interval, err := time.ParseDuration(schedule)
	if err != nil || interval <= 0 {
		w.logger.Warn().Err(err).Str("schedule", schedule).Msg("invalid export schedule, periodic exports disabled")
		return
	}
	w.logger.Info().Str("schedule", schedule).Msg("periodic exports started")

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			to := time.Now()
			if err := w.EnqueueExport(ctx, to.Add(-interval), to); err != nil {
				w.logger.Error().Err(err).Msg("periodic export enqueue failed")
			}
		}
	}
}

// Start launches the main loop; stops when ctx is done.
func (w *ExportWorker) Start(ctx context.Context) {
	w.logger.Info().Msg("export worker started")
	defer w.logger.Info().Msg("export worker stopped")

	for {
		select {
		case <-ctx.Done():
			return
		case job := <-w.queue:
			w.process(ctx, job)
		}
	}
}

func (w *ExportWorker) process(ctx context.Context, job exportJob) {
	for attempt := 1; ; attempt++ {
		path, err := w.renderer.WriteBookingsReport(ctx, job.From, job.To)
		if err == nil {
			w.logger.Info().Str("file_path", path).Msg("export job completed")
			return
		}
		if attempt >= w.retryPolicy.MaxRetries {
			w.logger.Error().Err(err).
				Time("from", job.From).
				Time("to", job.To).
				Msg("export job failed, giving up")
			return
		}

		delay := w.retryPolicy.NextDelay(attempt)
		w.logger.Warn().Err(err).Int("attempt", attempt).Dur("retry_in", delay).Msg("export job failed, retrying")

		select {
		case <-ctx.Done():
			return
		case <-time.After(delay):
		}
	}
}
