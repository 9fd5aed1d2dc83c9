package scan

import (
	"errors"
	"fmt"

	"github.com/sprawl-dev/sprawl/schema"
)

// Sentinel errors of the scan lifecycle.
var (
	ErrScanFailed       = errors.New("scan failed")
	ErrUnauthorized     = errors.New("not authorized to use the scanner service")
	ErrUnexpectedStatus = errors.New("unexpected scan status")
	ErrNoScans          = errors.New("repository has no scans")
	ErrNotCompleted     = errors.New("scan has not completed")
)

// TransportError reports that the scanner service could not be reached
// while submitting or polling a scan.
type TransportError struct {
	Op  string // "submit" or "poll"
	ID  int64  // repository id for submit, scan id for poll
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %d: %v", e.Op, e.ID, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ScanFailedError reports that the scanner service finished a scan as FAILED.
type ScanFailedError struct {
	Job schema.ScanJob
}

func (e *ScanFailedError) Error() string {
	return fmt.Sprintf("scan %d failed", e.Job.ID)
}

// Is matches ErrScanFailed.
func (e *ScanFailedError) Is(target error) bool { return target == ErrScanFailed }

// NotCompletedError reports that results were requested for a scan that is
// still PENDING or RUNNING.
type NotCompletedError struct {
	Job schema.ScanJob
}

func (e *NotCompletedError) Error() string {
	return fmt.Sprintf("scan %d is %s", e.Job.ID, e.Job.Status)
}

// Is matches ErrNotCompleted.
func (e *NotCompletedError) Is(target error) bool { return target == ErrNotCompleted }

// ResultsFetchError reports that a completed scan's results could not be retrieved.
type ResultsFetchError struct {
	ScanID int64
	Err    error
}

func (e *ResultsFetchError) Error() string {
	return fmt.Sprintf("fetch results of scan %d: %v", e.ScanID, e.Err)
}

func (e *ResultsFetchError) Unwrap() error { return e.Err }
