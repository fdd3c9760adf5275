package client

import (
	"context"
	"time"
)

// TableRecognizeToJSON submits a table image and blocks until the JSON rendering is ready.
// Polling uses the client interval (2s unless WithPollInterval is set); timeout bounds the wait after submission.
func (c *client) TableRecognizeToJSON(ctx context.Context, src Source, timeout time.Duration) (*Response, error) {
	return c.recognizeTable(ctx, src, ResultTypeJSON, timeout)
}

// TableRecognizeToExcelURL submits a table image and blocks until the Excel download link is ready.
func (c *client) TableRecognizeToExcelURL(ctx context.Context, src Source, timeout time.Duration) (*Response, error) {
	return c.recognizeTable(ctx, src, ResultTypeExcel, timeout)
}

func (c *client) recognizeTable(ctx context.Context, src Source, resultType ResultType, timeout time.Duration) (*Response, error) {
	family, err := c.Family(FamilyTableRecognition)
	if err != nil {
		return nil, err
	}
	return c.RunJob(ctx, family, src, nil, WaitOptions{
		Timeout:    timeout,
		ResultType: resultType,
	})
}

// GetTableResult issues a single status request for a table job.
func (c *client) GetTableResult(ctx context.Context, requestID string, resultType ResultType) (*Response, error) {
	if requestID == "" {
		return nil, ErrEmptyRequestID
	}
	family, err := c.Family(FamilyTableRecognition)
	if err != nil {
		return nil, err
	}
	outcome, err := c.PollJob(ctx, family, &Job{Family: family.Name, RequestID: requestID, ResultType: resultType})
	if err != nil {
		return nil, err
	}
	return outcome.Response, nil
}
