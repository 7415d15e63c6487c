package fetchlib

import (
	"errors"
	"fmt"
)

var (
	// ErrEngineBusy is returned when Run or DropQueued is called while a run is in progress.
	ErrEngineBusy = errors.New("fetchlib: engine is already running")
	// ErrUnsupportedOption is returned by Options.Set for keys outside the Option enumeration.
	ErrUnsupportedOption = errors.New("fetchlib: unsupported option")
	// ErrInvalidOptionValue is returned by Options.Set when the value has the wrong type.
	ErrInvalidOptionValue = errors.New("fetchlib: invalid option value")
	// ErrWaitUnsupported is returned by Multi.Wait implementations that cannot block on readiness.
	ErrWaitUnsupported = errors.New("fetchlib: readiness wait not supported")
	// ErrMultiClosed is returned when a closed multiplexing context is used.
	ErrMultiClosed = errors.New("fetchlib: multi handle closed")
	// ErrHandleInUse is returned when a handle is added to a context twice.
	ErrHandleInUse = errors.New("fetchlib: handle already added")
	// ErrUnknownHandle is returned when removing a handle that was never added.
	ErrUnknownHandle = errors.New("fetchlib: handle not added")
)

// TransferError describes a transfer that did not complete successfully.
type TransferError struct {
	URL  string     // normalized URL of the transfer
	Code ResultCode // transport result code
	Err  error      // underlying error, may be nil
}

func (e *TransferError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fetch %s: %s: %v", e.URL, e.Code, e.Err)
	}
	return fmt.Sprintf("fetch %s: %s", e.URL, e.Code)
}

func (e *TransferError) Unwrap() error {
	return e.Err
}
