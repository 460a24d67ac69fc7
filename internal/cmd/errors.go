package cmd

import (
	"errors"
	"fmt"
	"time"

	kargov1alpha1 "github.com/vpittamp/backstage-app/apis/kargo/v1alpha1"
)

var (
	// ErrInvalidVersion is returned when a release version does not parse as
	// a strict MAJOR.MINOR.PATCH semantic version.
	ErrInvalidVersion = errors.New("invalid version")
	// ErrQueryFailed is returned when a read against the cluster failed for
	// reasons other than the target being absent.
	ErrQueryFailed = errors.New("query failed")
	// ErrResourceNotFound is returned when a named resource does not exist.
	ErrResourceNotFound = errors.New("resource not found")
	// ErrStageNotFound is returned when the stage to wait on does not exist.
	ErrStageNotFound = errors.New("stage not found")
	// ErrMissingStage is returned when waiting for promotion was requested
	// without a stage name. Checked before any polling begins.
	ErrMissingStage = errors.New("stage name required to wait for promotion")
	// ErrNoWarehouses is returned when waiting for promotion was requested
	// but no warehouse subscribes to the repository: no freight will ever be
	// minted, so polling would only burn the deadline.
	ErrNoWarehouses = errors.New("no warehouse subscribes to the repository")
	// ErrInterrupted is returned when the process was asked to stop while
	// waiting on the cluster.
	ErrInterrupted = errors.New("interrupted")
)

// FreightTimeoutError is returned when no freight referencing the pushed
// image appeared before the deadline.
type FreightTimeoutError struct {
	RepoURL string
	Tag     string
	Elapsed time.Duration
	Timeout time.Duration
}

func (e *FreightTimeoutError) Error() string {
	return fmt.Sprintf(
		"no freight references %s:%s after %s (timeout %s)",
		e.RepoURL, e.Tag, e.Elapsed.Truncate(time.Millisecond), e.Timeout,
	)
}

func (e *FreightTimeoutError) Unwrap() error { return errFreightTimeout }

var errFreightTimeout = errors.New("timed out waiting for freight")

// IsFreightTimeout reports whether err is a freight wait timeout.
func IsFreightTimeout(err error) bool {
	return errors.Is(err, errFreightTimeout)
}

// PromotionTimeoutError is returned when the stage did not converge on the
// located freight before the deadline. LastStatus carries the stage status
// from the final poll so callers can surface it for diagnosis.
type PromotionTimeoutError struct {
	Stage      string
	Freight    string
	Elapsed    time.Duration
	Timeout    time.Duration
	LastStatus *kargov1alpha1.StageStatus
}

func (e *PromotionTimeoutError) Error() string {
	return fmt.Sprintf(
		"stage %s did not converge on freight %s after %s (timeout %s)",
		e.Stage, e.Freight, e.Elapsed.Truncate(time.Millisecond), e.Timeout,
	)
}

func (e *PromotionTimeoutError) Unwrap() error { return errPromotionTimeout }

var errPromotionTimeout = errors.New("timed out waiting for promotion")

// IsPromotionTimeout reports whether err is a promotion wait timeout.
func IsPromotionTimeout(err error) bool {
	return errors.Is(err, errPromotionTimeout)
}
