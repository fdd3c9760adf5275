package client

import (
	"context"
	"io"
	"time"
)

// Info provides metadata about the client
type Info interface {
	Name() string
	Version() string
}

// Recognizer dispatches single-shot calls through the endpoint catalog.
type Recognizer interface {
	Invoke(ctx context.Context, endpoint string, src Source, params Options) (*Response, error)
	Send(ctx context.Context, req Request) (*Response, error)
	Endpoints() []Endpoint
	Lookup(endpoint string) (Endpoint, error)
}

// JobRunner drives the submit/poll protocol of long-running families.
type JobRunner interface {
	Family(name string) (Family, error)
	Families() []Family
	SubmitJob(ctx context.Context, family Family, src Source, params Options) (*Job, error)
	PollJob(ctx context.Context, family Family, job *Job) (*PollOutcome, error)
	WaitForJob(ctx context.Context, family Family, job *Job, opts WaitOptions) (*Response, error)
	RunJob(ctx context.Context, family Family, src Source, params Options, opts WaitOptions) (*Response, error)
}

// TableRecognizer wraps table recognition submit and poll into blocking calls.
type TableRecognizer interface {
	TableRecognizeToJSON(ctx context.Context, src Source, timeout time.Duration) (*Response, error)
	TableRecognizeToExcelURL(ctx context.Context, src Source, timeout time.Duration) (*Response, error)
	GetTableResult(ctx context.Context, requestID string, resultType ResultType) (*Response, error)
}

// Downloader handles result file downloads
type Downloader interface {
	DownloadFile(ctx context.Context, url string) ([]byte, error)
	DownloadFileTo(ctx context.Context, url string, dst io.Writer) error
}

// Client combines all recognition operations
type Client interface {
	Info
	Recognizer
	JobRunner
	TableRecognizer
	Downloader
}
