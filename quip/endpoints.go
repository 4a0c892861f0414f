package quip

import (
	"fmt"
	"net/url"

	"github.com/google/go-querystring/query"
)

// getFolderEndpoint returns the API endpoint for one folder's listing:
// https://quip.com/dev/automation/documentation/current#operation/getFolder
func (a *API) getFolderEndpoint(folderID string) (*url.URL, error) {
	if folderID == "" {
		return nil, fmt.Errorf("quip: please provide ID to get folder")
	}

	return a.resolveEndpoint(fmt.Sprintf("/1/folders/%s", folderID))
}

// getThreadsEndpoint returns the batch thread-metadata endpoint:
// https://quip.com/dev/automation/documentation/current#operation/getThreads
func (a *API) getThreadsEndpoint(opts ThreadsQuery) (*url.URL, error) {
	if len(opts.IDs) < 1 {
		return nil, fmt.Errorf("quip: please provide IDs to get threads")
	}

	ep, err := a.resolveEndpoint("/1/threads/")
	if err != nil {
		return nil, fmt.Errorf("quip: couldn't resolve endpoint: %w", err)
	}

	v, err := query.Values(opts)
	if err != nil {
		return nil, fmt.Errorf("quip: couldn't encode query params: %w", err)
	}
	ep.RawQuery = v.Encode()

	return ep, nil
}

// getExportDOCXEndpoint returns the endpoint that renders one thread to a
// Word document:
// https://quip.com/dev/automation/documentation/current#operation/exportThreadToDOCX
func (a *API) getExportDOCXEndpoint(threadID string) (*url.URL, error) {
	if threadID == "" {
		return nil, fmt.Errorf("quip: please provide ID to export thread")
	}

	return a.resolveEndpoint(fmt.Sprintf("/1/threads/%s/export/docx", threadID))
}

// getCurrentUserEndpoint returns the endpoint to query the authenticated
// user.  Handy as a cheap does-this-token-work check.
func (a *API) getCurrentUserEndpoint() (*url.URL, error) {
	return a.resolveEndpoint("/1/users/current")
}

// Do a bit of error checking on endpoint format, and return it relative to the base URI.
func (a *API) resolveEndpoint(endpoint string) (*url.URL, error) {
	baseUri := a.BaseURI

	ref, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("quip: failed to parse endpoint ref: %w", err)
	}

	return baseUri.ResolveReference(ref), nil
}
