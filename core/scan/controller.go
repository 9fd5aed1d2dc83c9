// Package scan drives a remote scan from submission to a terminal state.
package scan

import (
	"context"
	"fmt"
	"iter"
	"time"

	"github.com/sprawl-dev/sprawl/internal/contract"
	"github.com/sprawl-dev/sprawl/schema"
)

// JobHandle identifies a submitted scan.
type JobHandle struct {
	ScanID       int64
	RepositoryID int64
	Status       schema.ScanStatus
}

// Controller submits scans and observes them until they reach a terminal state.
// It holds no per-scan state, so one controller may serve many observations.
type Controller struct {
	client   contract.ScannerClient
	interval time.Duration
}

// Option configures a Controller.
type Option func(*Controller)

// WithPollInterval overrides the status polling cadence.
func WithPollInterval(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.interval = d
		}
	}
}

// NewController creates a controller polling every schema.DefaultPollInterval.
func NewController(client contract.ScannerClient, opts ...Option) *Controller {
	c := &Controller{client: client, interval: schema.DefaultPollInterval}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// PollInterval returns the configured polling cadence.
func (c *Controller) PollInterval() time.Duration {
	return c.interval
}

// Submit asks the scanner service to start a scan of the repository.
func (c *Controller) Submit(ctx context.Context, repositoryID int64) (JobHandle, error) {
	resp, err := c.client.StartScan(ctx, repositoryID)
	if err != nil {
		return JobHandle{}, &TransportError{Op: "submit", ID: repositoryID, Err: err}
	}
	return JobHandle{ScanID: resp.ScanID, RepositoryID: repositoryID, Status: resp.Status}, nil
}

// Observe returns the sequence of status snapshots of a scan. The first poll
// happens one interval after iteration starts and the next interval is only
// armed once the previous poll has returned, so polls never overlap.
//
// The sequence ends after the terminal snapshot has been yielded, after the
// first poll error (yielded as a *TransportError), when the consumer stops
// iterating, or when ctx is done. Once ctx is done nothing more is yielded.
func (c *Controller) Observe(ctx context.Context, scanID int64) iter.Seq2[schema.ScanJob, error] {
	return func(yield func(schema.ScanJob, error) bool) {
		timer := time.NewTimer(c.interval)
		defer timer.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-timer.C:
			}

			job, err := c.client.GetScanStatus(ctx, scanID)
			if ctx.Err() != nil {
				return
			}
			if err != nil {
				yield(schema.ScanJob{}, &TransportError{Op: "poll", ID: scanID, Err: err})
				return
			}
			if !job.Status.IsValid() {
				yield(job, fmt.Errorf("%w %q for scan %d", ErrUnexpectedStatus, job.Status, scanID))
				return
			}
			if !yield(job, nil) || job.Status.IsTerminal() {
				return
			}
			timer.Reset(c.interval)
		}
	}
}

// FetchCompleted checks the status of a scan once and retrieves its records
// only if it is COMPLETED. A FAILED scan returns a *ScanFailedError and a
// PENDING or RUNNING scan a *NotCompletedError; results are not fetched then.
func (c *Controller) FetchCompleted(ctx context.Context, scanID int64) (schema.ScanJob, schema.ScanResults, error) {
	job, err := c.client.GetScanStatus(ctx, scanID)
	if err != nil {
		return schema.ScanJob{}, schema.ScanResults{}, &TransportError{Op: "poll", ID: scanID, Err: err}
	}
	switch job.Status {
	case schema.CompletedStatus:
		results, err := c.FetchResults(ctx, scanID)
		return job, results, err
	case schema.FailedStatus:
		return job, schema.ScanResults{}, &ScanFailedError{Job: job}
	case schema.PendingStatus, schema.RunningStatus:
		return job, schema.ScanResults{}, &NotCompletedError{Job: job}
	default:
		return job, schema.ScanResults{}, fmt.Errorf("%w %q for scan %d", ErrUnexpectedStatus, job.Status, scanID)
	}
}

// FetchResults retrieves the records of a completed scan. Callers must have
// observed the scan as COMPLETED.
func (c *Controller) FetchResults(ctx context.Context, scanID int64) (schema.ScanResults, error) {
	results, err := c.client.GetScanResults(ctx, scanID)
	if err != nil {
		return schema.ScanResults{}, &ResultsFetchError{ScanID: scanID, Err: err}
	}
	return results, nil
}

// Await observes a scan to its end. Every snapshot is passed to onSnapshot
// (which may be nil) before the next poll. A COMPLETED scan has its results
// fetched exactly once; a FAILED scan returns a *ScanFailedError. If ctx is
// done first, ctx.Err() is returned.
func (c *Controller) Await(ctx context.Context, scanID int64, onSnapshot func(schema.ScanJob)) (schema.ScanJob, schema.ScanResults, error) {
	var last schema.ScanJob
	for job, err := range c.Observe(ctx, scanID) {
		if err != nil {
			return last, schema.ScanResults{}, err
		}
		last = job
		if onSnapshot != nil {
			onSnapshot(job)
		}
	}

	switch last.Status {
	case schema.CompletedStatus:
		if err := ctx.Err(); err != nil {
			return last, schema.ScanResults{}, err
		}
		results, err := c.FetchResults(ctx, scanID)
		return last, results, err
	case schema.FailedStatus:
		return last, schema.ScanResults{}, &ScanFailedError{Job: last}
	default:
		if err := ctx.Err(); err != nil {
			return last, schema.ScanResults{}, err
		}
		return last, schema.ScanResults{}, fmt.Errorf("observation of scan %d ended before a terminal state", scanID)
	}
}
