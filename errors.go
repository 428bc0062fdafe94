package logpuzzle

import (
	"errors"
	"fmt"
)

// Error classes returned by this package.
// Every typed error below matches its class with errors.Is.
var (
	// ErrFileAccess is returned when the log file is missing or unreadable.
	ErrFileAccess = errors.New("cannot access log file")

	// ErrDirectoryCreation is returned when the destination directory
	// cannot be created or is not a directory.
	ErrDirectoryCreation = errors.New("cannot create destination directory")

	// ErrFetch is returned when a single image could not be fetched.
	ErrFetch = errors.New("cannot fetch image")
)

// FileAccessError reports a log file that could not be read.
type FileAccessError struct {
	Path string
	Err  error
}

func (e *FileAccessError) Error() string {
	return fmt.Sprintf("%v %q: %v", ErrFileAccess, e.Path, e.Err)
}

func (e *FileAccessError) Unwrap() error { return e.Err }

func (e *FileAccessError) Is(target error) bool { return target == ErrFileAccess }

// DirectoryCreationError reports a destination directory that could not be prepared.
type DirectoryCreationError struct {
	Dir string
	Err error
}

func (e *DirectoryCreationError) Error() string {
	return fmt.Sprintf("%v %q: %v", ErrDirectoryCreation, e.Dir, e.Err)
}

func (e *DirectoryCreationError) Unwrap() error { return e.Err }

func (e *DirectoryCreationError) Is(target error) bool { return target == ErrDirectoryCreation }

// FetchError reports the image at list position Index that failed to download.
type FetchError struct {
	Index int
	URL   string
	Err   error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("%v #%d (%s): %v", ErrFetch, e.Index, e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

func (e *FetchError) Is(target error) bool { return target == ErrFetch }
