package client

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"
)

// Family returns the registered job family.
func (c *client) Family(name string) (Family, error) {
	family, ok := c.families[name]
	if !ok {
		return Family{}, fmt.Errorf("%w: %s", ErrUnknownFamily, name)
	}
	return family, nil
}

// Families lists the registered job families sorted by name.
func (c *client) Families() []Family {
	out := make([]Family, 0, len(c.families))
	for _, f := range c.families {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// SubmitJob sends the submission request and extracts the task identifier.
func (c *client) SubmitJob(ctx context.Context, family Family, src Source, params Options) (*Job, error) {
	resp, err := c.Invoke(ctx, family.Submit, src, params)
	if err != nil {
		c.metrics.RecordJob(family.Name, JobFailed.String(), 0)
		return nil, err
	}

	id := resp.Get(family.IDPath)
	if !id.Exists() || id.String() == "" {
		c.metrics.RecordJob(family.Name, JobFailed.String(), 0)
		return nil, &ProtocolError{Operation: family.Submit, Path: family.IDPath, Detail: "task identifier missing"}
	}

	job := &Job{
		Family:      family.Name,
		RequestID:   id.String(),
		ResultType:  family.DefaultResultType,
		SubmittedAt: time.Now(),
		Submit:      resp,
	}

	c.logger.Debug("job submitted",
		zap.String("family", family.Name),
		zap.String("request_id", job.RequestID),
		zap.String("log_id", resp.LogID()))

	return job, nil
}

// PollJob issues one status request for job.
func (c *client) PollJob(ctx context.Context, family Family, job *Job) (*PollOutcome, error) {
	if job == nil || job.RequestID == "" {
		return nil, ErrEmptyRequestID
	}

	params := Options{family.IDField: job.RequestID}
	if family.ResultTypeField != "" {
		resultType := job.ResultType
		if resultType == "" {
			resultType = family.DefaultResultType
		}
		if resultType != "" {
			params[family.ResultTypeField] = string(resultType)
		}
	}

	resp, err := c.Invoke(ctx, family.Poll, Source{}, params)
	if err != nil {
		c.metrics.RecordPoll(family.Name, JobFailed.String())
		return nil, err
	}

	state, status, err := family.Status.evaluate(family.Poll, resp)
	c.metrics.RecordPoll(family.Name, state.String())
	if err != nil {
		return nil, err
	}

	return &PollOutcome{State: state, Status: status, Response: resp}, nil
}

// WaitForJob polls job at a fixed interval until it finishes, fails, or opts.Timeout elapses.
func (c *client) WaitForJob(ctx context.Context, family Family, job *Job, opts WaitOptions) (*Response, error) {
	if job == nil || job.RequestID == "" {
		return nil, ErrEmptyRequestID
	}
	if opts.ResultType != "" {
		job.ResultType = opts.ResultType
	}

	interval := opts.Interval
	if interval <= 0 {
		interval = c.pollInterval
	}

	start := time.Now()
	outcome, polls, err := pollUntilDone(ctx, family.Name, opts.Timeout, interval,
		func(ctx context.Context) (*PollOutcome, error) {
			return c.PollJob(ctx, family, job)
		},
		func(o *PollOutcome) (bool, error) {
			c.logger.Debug("job poll",
				zap.String("family", family.Name),
				zap.String("request_id", job.RequestID),
				zap.Stringer("state", o.State),
				zap.Int64("status", o.Status))
			return o.State == JobFinished, nil
		},
	)
	elapsed := time.Since(start)

	if err != nil {
		var timeoutErr *TimeoutError
		state := JobFailed
		if errors.As(err, &timeoutErr) {
			timeoutErr.RequestID = job.RequestID
			state = JobTimedOut
		}
		c.metrics.RecordJob(family.Name, state.String(), elapsed)
		c.logger.Warn("job wait ended",
			zap.String("family", family.Name),
			zap.String("request_id", job.RequestID),
			zap.Stringer("state", state),
			zap.Int("polls", polls),
			zap.Error(err))
		return nil, err
	}

	c.metrics.RecordJob(family.Name, JobFinished.String(), elapsed)
	c.logger.Info("job finished",
		zap.String("family", family.Name),
		zap.String("request_id", job.RequestID),
		zap.Int("polls", polls),
		zap.Duration("elapsed", elapsed))

	return outcome.Response, nil
}

// RunJob submits then waits. A submit failure returns before any poll is issued.
func (c *client) RunJob(ctx context.Context, family Family, src Source, params Options, opts WaitOptions) (*Response, error) {
	job, err := c.SubmitJob(ctx, family, src, params)
	if err != nil {
		return nil, err
	}
	return c.WaitForJob(ctx, family, job, opts)
}
