package core

import (
	"errors"
	"fmt"
)

var (
	// ErrNoUpdateAvailable is returned by the orchestrator when nothing newer than the
	// current version is published. It is a normal outcome, not a fault.
	ErrNoUpdateAvailable = errors.New("no newer version available")

	// ErrNoCandidates indicates a strict scan found no links matching the pattern.
	ErrNoCandidates = errors.New("no files found at listing with given pattern")

	// ErrInvalidOptions indicates missing or malformed caller input.
	ErrInvalidOptions = errors.New("invalid options")
)

// ScanError reports a listing page that could not be fetched or yielded no candidates
type ScanError struct {
	URL string
	Err error
}

func (e *ScanError) Error() string {
	return fmt.Sprintf("scan %s: %v", e.URL, e.Err)
}

func (e *ScanError) Unwrap() error { return e.Err }

// TransferError reports a failed asset download
type TransferError struct {
	URL string
	Err error
}

func (e *TransferError) Error() string {
	return fmt.Sprintf("download %s: %v", e.URL, e.Err)
}

func (e *TransferError) Unwrap() error { return e.Err }

// ExtractionError wraps a failure raised by an Unpacker
type ExtractionError struct {
	Archive string
	Err     error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extract %s: %v", e.Archive, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// ReplacementError reports a filesystem failure while swapping the application.
// It is always raised before the process is replaced or terminated.
type ReplacementError struct {
	Op   string
	Path string
	Err  error
}

func (e *ReplacementError) Error() string {
	return fmt.Sprintf("replace: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *ReplacementError) Unwrap() error { return e.Err }

// ExitCode maps an error from the update pipeline to a CLI exit code
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var (
		scanErr     *ScanError
		transferErr *TransferError
		extractErr  *ExtractionError
		replaceErr  *ReplacementError
	)

	switch {
	case errors.Is(err, ErrInvalidOptions):
		return ExitInvalidArgs
	case errors.As(err, &scanErr):
		return ExitScanFailed
	case errors.As(err, &transferErr):
		return ExitNetwork
	case errors.As(err, &extractErr):
		return ExitExtraction
	case errors.As(err, &replaceErr):
		return ExitReplacement
	default:
		return ExitGeneral
	}
}
