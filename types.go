package client

import (
	"fmt"
	"time"

	"github.com/tidwall/gjson"
)

// JobState enumerates the lifecycle of an async job.
type JobState int

const (
	JobSubmitting JobState = iota
	JobPolling
	JobFinished
	JobFailed
	JobTimedOut
)

func (s JobState) String() string {
	switch s {
	case JobSubmitting:
		return "submitting"
	case JobPolling:
		return "polling"
	case JobFinished:
		return "finished"
	case JobFailed:
		return "failed"
	case JobTimedOut:
		return "timed_out"
	default:
		return fmt.Sprintf("JobState(%d)", int(s))
	}
}

// Terminal reports whether no further poll can change the state.
func (s JobState) Terminal() bool {
	return s == JobFinished || s == JobFailed || s == JobTimedOut
}

// StatusRule names where a family reports completion in its poll response.
type StatusRule struct {
	// Path is a gjson path, e.g. "result.ret_code".
	Path string
	// Finished is compared by exact equality; any other value means the job is still pending.
	Finished int64
	// PresenceOnly marks families that signal completion by the field appearing at all.
	PresenceOnly bool
}

// evaluate derives the job state from a poll response.
func (r StatusRule) evaluate(operation string, resp *Response) (JobState, int64, error) {
	value := resp.Get(r.Path)

	if r.PresenceOnly {
		if value.Exists() && value.Type != gjson.Null {
			return JobFinished, value.Int(), nil
		}
		return JobPolling, 0, nil
	}

	if !value.Exists() {
		return JobFailed, 0, &ProtocolError{Operation: operation, Path: r.Path, Detail: "status field missing"}
	}
	if value.Type != gjson.Number {
		return JobFailed, 0, &ProtocolError{Operation: operation, Path: r.Path, Detail: fmt.Sprintf("status is not an integer: %s", value.Raw)}
	}

	status := value.Int()
	if status == r.Finished {
		return JobFinished, status, nil
	}
	// unknown codes are treated as pending
	return JobPolling, status, nil
}

// Family parameterizes the submit/poll protocol for one group of long-running endpoints.
type Family struct {
	Name string
	// Submit and Poll are catalog endpoint names.
	Submit string
	Poll   string

	// IDPath locates the task identifier in the submit response.
	IDPath string
	// IDField carries the task identifier in poll requests.
	IDField string

	// ResultTypeField is empty for families without a result rendering selector.
	ResultTypeField   string
	DefaultResultType ResultType

	Status StatusRule
}

// Job is an accepted submission, owned by the caller that created it.
type Job struct {
	Family      string
	RequestID   string
	ResultType  ResultType
	SubmittedAt time.Time
	Submit      *Response
}

// PollOutcome is the result of a single poll.
type PollOutcome struct {
	State    JobState
	Status   int64
	Response *Response
}

// WaitOptions bounds a blocking wait. A zero Timeout expires before a second poll is issued.
type WaitOptions struct {
	Timeout  time.Duration
	Interval time.Duration
	// ResultType overrides the family default for families that support it.
	ResultType ResultType
}

// DefaultWaitOptions returns the processing timeout and poll interval used by the sync wrappers.
func DefaultWaitOptions() WaitOptions {
	return WaitOptions{Timeout: ProcessingTimeout, Interval: DefaultPollInterval}
}

// Built-in job families.
const (
	FamilyTableRecognition = "table"
	FamilyLongVideoCensor  = "long_video"
	FamilyAsyncVoiceCensor = "async_voice"
)

func defaultFamilies() map[string]Family {
	return map[string]Family{
		FamilyTableRecognition: {
			Name:              FamilyTableRecognition,
			Submit:            "table_recognize",
			Poll:              "table_result_get",
			IDPath:            "result.0.request_id",
			IDField:           FieldRequestID,
			ResultTypeField:   FieldResultType,
			DefaultResultType: ResultTypeJSON,
			Status:            StatusRule{Path: "result.ret_code", Finished: AsyncTaskStatusFinished},
		},
		FamilyLongVideoCensor: {
			Name:    FamilyLongVideoCensor,
			Submit:  "long_video_submit",
			Poll:    "long_video_pull",
			IDPath:  FieldTaskID,
			IDField: FieldTaskID,
			Status:  StatusRule{Path: "conclusionType", PresenceOnly: true},
		},
		FamilyAsyncVoiceCensor: {
			Name:    FamilyAsyncVoiceCensor,
			Submit:  "async_voice_submit",
			Poll:    "async_voice_pull",
			IDPath:  FieldTaskID,
			IDField: FieldTaskID,
			Status:  StatusRule{Path: "data", PresenceOnly: true},
		},
	}
}
