package quip

// ThreadsQuery defines the query parameters for the batch thread-metadata
// endpoint: https://quip.com/dev/automation/documentation/current#operation/getThreads
type ThreadsQuery struct {
	// IDs of the threads to look up; up to 100 per request.
	IDs []string `url:"ids,comma"`
}
