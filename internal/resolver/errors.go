package resolver

import "fmt"

// PageUnreachableError is reported when a page or manifest could not be
// fetched. It ends the crawl branch of that page only.
type PageUnreachableError struct {
	URL string
	Err error
}

func (e *PageUnreachableError) Error() string {
	return fmt.Sprintf("page %s unreachable: %v", e.URL, e.Err)
}

func (e *PageUnreachableError) Unwrap() error {
	return e.Err
}
