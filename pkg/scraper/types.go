package scraper

import "context"

// Success is the payload of a finished scrape job
type Success struct {
	Message    string
	TotalLeads int
	Filename   string
	// DownloadPath is /download/{filename} with the filename inserted verbatim.
	DownloadPath string
	// DownloadURL is DownloadPath resolved against the client's base URL.
	DownloadURL string
}

type submissionIDKey struct{}

// WithSubmissionID attaches a submission ID to ctx. The client sends it as
// the X-Request-ID header.
func WithSubmissionID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, submissionIDKey{}, id)
}

// SubmissionIDFromContext returns the submission ID stored in ctx, if any.
func SubmissionIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(submissionIDKey{}).(string)
	return id
}
