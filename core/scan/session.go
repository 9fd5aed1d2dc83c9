package scan

import (
	"context"
	"fmt"
	"sync"

	"github.com/sprawl-dev/sprawl/core/report"
	"github.com/sprawl-dev/sprawl/internal/contract"
	"github.com/sprawl-dev/sprawl/schema"
)

// State is a point-in-time view of a session.
type State struct {
	RepositoryID int64
	Job          *schema.ScanJob
	Report       *schema.ScanReport
	Err          error
	Active       bool // an observation is in flight
}

// Session owns the single current scan of a selected repository: its latest
// snapshot and, once completed, its derived report. Starting a new scan or
// selecting another repository cancels the observation in flight and clears
// everything derived from it.
type Session struct {
	ctrl  *Controller
	repos contract.RepositoryClient
	auth  contract.Authorizer
	opts  report.Options

	// OnSnapshot, when set, receives every snapshot of the current scan. It is
	// called with the session lock held and must not call back into the Session.
	OnSnapshot func(schema.ScanJob)

	mu     sync.Mutex
	state  State
	cancel context.CancelFunc
	gen    uint64
}

// NewSession creates a session. repos may be nil when Resume is not used.
func NewSession(ctrl *Controller, repos contract.RepositoryClient, auth contract.Authorizer, opts report.Options) *Session {
	return &Session{ctrl: ctrl, repos: repos, auth: auth, opts: opts}
}

// Run submits a new scan of the repository and follows it to a report.
func (s *Session) Run(ctx context.Context, repositoryID int64) (schema.ScanReport, error) {
	if !s.auth.Authorized() {
		return schema.ScanReport{}, ErrUnauthorized
	}
	runCtx, gen := s.begin(ctx, repositoryID)

	handle, err := s.ctrl.Submit(runCtx, repositoryID)
	if err != nil {
		return s.finish(gen, schema.ScanReport{}, err)
	}
	return s.follow(runCtx, gen, handle.ScanID)
}

// Resume picks up the latest scan of the repository: a completed scan is
// reported directly, an in-progress scan is followed, a failed scan is an error.
func (s *Session) Resume(ctx context.Context, repositoryID int64) (schema.ScanReport, error) {
	if !s.auth.Authorized() {
		return schema.ScanReport{}, ErrUnauthorized
	}
	if s.repos == nil {
		return schema.ScanReport{}, fmt.Errorf("resume requires a repository client")
	}
	runCtx, gen := s.begin(ctx, repositoryID)

	detail, err := s.repos.GetRepository(runCtx, repositoryID)
	if err != nil {
		return s.finish(gen, schema.ScanReport{}, fmt.Errorf("load repository %d: %w", repositoryID, err))
	}
	latest, ok := LatestScan(detail.Scans)
	if !ok {
		return s.finish(gen, schema.ScanReport{}, fmt.Errorf("%w: repository %d", ErrNoScans, repositoryID))
	}
	s.publish(gen, latest)

	switch latest.Status {
	case schema.CompletedStatus:
		results, err := s.ctrl.FetchResults(runCtx, latest.ID)
		if err != nil {
			return s.finish(gen, schema.ScanReport{}, err)
		}
		return s.finish(gen, s.build(latest, results), nil)
	case schema.FailedStatus:
		return s.finish(gen, schema.ScanReport{}, &ScanFailedError{Job: latest})
	case schema.PendingStatus, schema.RunningStatus:
		return s.follow(runCtx, gen, latest.ID)
	default:
		return s.finish(gen, schema.ScanReport{}, fmt.Errorf("%w %q for scan %d", ErrUnexpectedStatus, latest.Status, latest.ID))
	}
}

// Select switches the session to another repository, cancelling any
// observation in flight and discarding the previous scan's state.
func (s *Session) Select(repositoryID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reset()
	s.state.RepositoryID = repositoryID
}

// Close cancels any observation in flight and clears the state.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reset()
}

// State returns a copy of the current state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.state
	if st.Job != nil {
		job := *st.Job
		st.Job = &job
	}
	return st
}

// follow observes a scan and turns its results into a report.
func (s *Session) follow(ctx context.Context, gen uint64, scanID int64) (schema.ScanReport, error) {
	last, results, err := s.ctrl.Await(ctx, scanID, func(job schema.ScanJob) {
		s.publish(gen, job)
	})
	if err != nil {
		return s.finish(gen, schema.ScanReport{}, err)
	}
	return s.finish(gen, s.build(last, results), nil)
}

// build derives the report for a completed job.
func (s *Session) build(job schema.ScanJob, results schema.ScanResults) schema.ScanReport {
	r := report.Build(results, s.opts)
	r.Job = &job
	return r
}

// begin starts a new generation, cancelling the previous one.
func (s *Session) begin(ctx context.Context, repositoryID int64) (context.Context, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reset()
	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.state = State{RepositoryID: repositoryID, Active: true}
	return runCtx, s.gen
}

// publish records a snapshot if gen is still current.
func (s *Session) publish(gen uint64, job schema.ScanJob) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		return
	}
	s.state.Job = &job
	if s.OnSnapshot != nil {
		s.OnSnapshot(job)
	}
}

// finish records the outcome of generation gen and releases its context.
func (s *Session) finish(gen uint64, r schema.ScanReport, err error) (schema.ScanReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen == s.gen {
		s.state.Active = false
		s.state.Err = err
		if err == nil {
			s.state.Report = &r
		}
		if s.cancel != nil {
			s.cancel()
			s.cancel = nil
		}
	}
	return r, err
}

// reset must be called with the lock held.
func (s *Session) reset() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.gen++
	s.state = State{}
}

// LatestScan returns the most recently created scan.
func LatestScan(scans []schema.ScanJob) (schema.ScanJob, bool) {
	if len(scans) == 0 {
		return schema.ScanJob{}, false
	}
	latest := scans[0]
	for _, sc := range scans[1:] {
		if sc.CreatedAt.After(latest.CreatedAt) {
			latest = sc
		}
	}
	return latest, true
}
