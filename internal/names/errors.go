package names

import "fmt"

// MissingDataError reports an empty or malformed name list.
type MissingDataError struct {
	List   string
	Reason string
}

func (e *MissingDataError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("name list %s is empty", e.List)
	}
	return fmt.Sprintf("name list %s: %s", e.List, e.Reason)
}

// InsufficientCombinationsError reports a request for more people than the
// first-name by last-name product can supply.
type InsufficientCombinationsError struct {
	Requested int
	Available int
}

func (e *InsufficientCombinationsError) Error() string {
	return fmt.Sprintf("requested %d names but only %d first/last combinations exist; add more names",
		e.Requested, e.Available)
}

// FetchError reports a failed request to the name directory.
type FetchError struct {
	Group      string
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fetching %s names from %s: %v", e.Group, e.URL, e.Err)
	}
	return fmt.Sprintf("fetching %s names from %s: unexpected status %d", e.Group, e.URL, e.StatusCode)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
