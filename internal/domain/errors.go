package domain

import "fmt"

// EmptyResponseError indicates the upstream returned no content where a body
// was required.
type EmptyResponseError struct {
	Endpoint string
}

func (e EmptyResponseError) Error() string {
	return fmt.Sprintf("empty response from %s", e.Endpoint)
}

// ParseError indicates a response body that could not be decoded.
type ParseError struct {
	Endpoint string
	Err      error
}

func (e ParseError) Error() string {
	return fmt.Sprintf("parse response from %s: %v", e.Endpoint, e.Err)
}

func (e ParseError) Unwrap() error {
	return e.Err
}

// PageFetchError indicates a mid-pagination failure. It aborts the whole
// category fetch; the orchestrator skips the category rather than retrying.
type PageFetchError struct {
	Page     int
	Endpoint string
	Err      error
}

func (e PageFetchError) Error() string {
	return fmt.Sprintf("fetch page %d from %s: %v", e.Page, e.Endpoint, e.Err)
}

func (e PageFetchError) Unwrap() error {
	return e.Err
}

// BatchMappingError indicates the batch SKU response referenced a SKU number
// with no owning product in the request mapping. The whole batch is failed,
// not just the record.
type BatchMappingError struct {
	SkuNumber string
}

func (e BatchMappingError) Error() string {
	return fmt.Sprintf("sku %s has no owning product in batch mapping", e.SkuNumber)
}
