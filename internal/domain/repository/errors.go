package repository

import "fmt"

// FetchError reports a failed external-source call. The scheduler
// aborts a refresh cycle on the first one; on-demand activity fetches
// propagate it to the caller unchanged.
type FetchError struct {
	Source string
	Ref    string
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("%s: fetch %s: %v", e.Source, e.Ref, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// NewFetchError wraps err with the source name and the reference
// (symbol, activity id) that was being fetched.
func NewFetchError(source, ref string, err error) *FetchError {
	return &FetchError{Source: source, Ref: ref, Err: err}
}
