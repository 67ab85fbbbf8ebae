package ticker

import "fmt"

// FetchError reports a transport failure or an unexpected HTTP status.
type FetchError struct {
	URL    string
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("fetch %s: unexpected status %d", e.URL, e.Status)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// ParseError reports a malformed ticker document. Label is empty when the
// document as a whole could not be decoded.
type ParseError struct {
	Label string
	Err   error
}

func (e *ParseError) Error() string {
	if e.Label == "" {
		return fmt.Sprintf("parse ticker: %v", e.Err)
	}
	return fmt.Sprintf("parse ticker entry %q: %v", e.Label, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
