package main

import (
	"errors"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	client "github.com/hsn0918/aip-client"
)

type jobOptions struct {
	family     string
	requestID  string
	resultType string
	filePath   string
	url        string
	rawParams  []string
	timeout    time.Duration
	interval   time.Duration
	output     string

	opts *cliOptions
}

func newJobCmd(opts *cliOptions) *cobra.Command {
	jo := &jobOptions{opts: opts}

	cmd := &cobra.Command{
		Use:   "job",
		Short: "Drive the submit/poll protocol of a long-running job family",
	}

	cmd.PersistentFlags().StringVar(&jo.family, "family", client.FamilyTableRecognition, "Job family: table|long_video|async_voice")
	cmd.PersistentFlags().StringVar(&jo.resultType, "result-type", "", "Result rendering for families that support it")
	cmd.PersistentFlags().StringVarP(&jo.output, "output", "o", "", "Optional path to save the response JSON")
	_ = cmd.RegisterFlagCompletionFunc("family", completeFamilies)

	cmd.AddCommand(jo.submitCmd())
	cmd.AddCommand(jo.pollCmd())
	cmd.AddCommand(jo.waitCmd())

	return cmd
}

func (o *jobOptions) submitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit a job and print its request id",
		RunE: func(cmd *cobra.Command, args []string) error {
			cli, family, err := o.resolve()
			if err != nil {
				return o.opts.failLog.fail(o.family, err)
			}

			src, err := buildSource(o.filePath, o.url, false, 0)
			if err != nil {
				return o.opts.failLog.fail(o.family, err)
			}
			params, err := parseParams(o.rawParams)
			if err != nil {
				return o.opts.failLog.fail(o.family, err)
			}

			job, err := cli.SubmitJob(cmd.Context(), family, src, params)
			if err != nil {
				return o.opts.failLog.fail(o.family, err)
			}
			o.opts.logger.Info("job submitted",
				zap.String("family", family.Name),
				zap.String("request_id", job.RequestID))

			return writeJSON(cmd.OutOrStdout(), map[string]string{
				"family":     job.Family,
				"request_id": job.RequestID,
			})
		},
	}
	cmd.Flags().StringVarP(&o.filePath, "file", "f", "", "Local file to submit")
	cmd.Flags().StringVar(&o.url, "url", "", "Remote media URL to submit")
	cmd.Flags().StringArrayVar(&o.rawParams, "param", nil, "Extra request parameter as key=value or key:=json (repeatable)")
	return cmd
}

func (o *jobOptions) pollCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "poll",
		Short: "Issue a single status request for a job",
		RunE: func(cmd *cobra.Command, args []string) error {
			cli, family, err := o.resolve()
			if err != nil {
				return o.opts.failLog.fail(o.requestID, err)
			}
			job, err := o.job(family)
			if err != nil {
				return o.opts.failLog.fail(o.requestID, err)
			}

			outcome, err := cli.PollJob(cmd.Context(), family, job)
			if err != nil {
				return o.opts.failLog.fail(o.requestID, err)
			}
			o.opts.logger.Info("job polled",
				zap.String("family", family.Name),
				zap.String("request_id", job.RequestID),
				zap.Stringer("state", outcome.State),
				zap.Int64("status", outcome.Status))

			return writeResult(cmd, o.output, outcome.Response)
		},
	}
	cmd.Flags().StringVar(&o.requestID, "request-id", "", "Request id returned by submit")
	return cmd
}

func (o *jobOptions) waitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wait",
		Short: "Poll a job until it finishes or the timeout elapses",
		RunE: func(cmd *cobra.Command, args []string) error {
			cli, family, err := o.resolve()
			if err != nil {
				return o.opts.failLog.fail(o.requestID, err)
			}
			job, err := o.job(family)
			if err != nil {
				return o.opts.failLog.fail(o.requestID, err)
			}

			timeout := o.timeout
			if timeout <= 0 {
				timeout = o.opts.cfg.ProcessingTimeout
			}

			resp, err := cli.WaitForJob(cmd.Context(), family, job, client.WaitOptions{
				Timeout:  timeout,
				Interval: o.interval,
			})
			if err != nil {
				return o.opts.failLog.fail(o.requestID, err)
			}
			return writeResult(cmd, o.output, resp)
		},
	}
	cmd.Flags().StringVar(&o.requestID, "request-id", "", "Request id returned by submit")
	cmd.Flags().DurationVar(&o.timeout, "timeout", 0, "Maximum wait (defaults to --processing-timeout)")
	cmd.Flags().DurationVar(&o.interval, "interval", 0, "Polling interval (defaults to poll_interval from config)")
	return cmd
}

func (o *jobOptions) resolve() (client.Client, client.Family, error) {
	cli, err := buildClient(o.opts)
	if err != nil {
		return nil, client.Family{}, err
	}
	family, err := cli.Family(o.family)
	if err != nil {
		return nil, client.Family{}, err
	}
	return cli, family, nil
}

func (o *jobOptions) job(family client.Family) (*client.Job, error) {
	if o.requestID == "" {
		return nil, errors.New("flag --request-id is required")
	}
	job := &client.Job{Family: family.Name, RequestID: o.requestID}
	if o.resultType != "" {
		kind, err := parseResultType(o.resultType)
		if err != nil {
			return nil, err
		}
		job.ResultType = kind
	}
	return job, nil
}
