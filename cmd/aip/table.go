package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	client "github.com/hsn0918/aip-client"
)

// tableResultPath holds the JSON rendering or the Excel link once a table job finishes.
const tableResultPath = "result.result_data"

func newTableCmd(opts *cliOptions) *cobra.Command {
	to := &tableOptions{
		opts: opts,
	}

	cmd := &cobra.Command{
		Use:   "table",
		Short: "Submit a table image and wait for the recognized result",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := to.complete(); err != nil {
				return to.opts.failLog.fail(to.filePath, err)
			}
			return to.run(cmd)
		},
		ValidArgsFunction: positionalAlwaysFlags,
	}

	to.addFlags(cmd)

	return cmd
}

type tableOptions struct {
	filePath   string
	resultType string
	timeout    time.Duration
	interval   time.Duration
	output     string
	download   string

	kind client.ResultType
	opts *cliOptions
}

func (o *tableOptions) addFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.filePath, "file", "f", "", "Table image to recognize")
	cmd.Flags().StringVar(&o.resultType, "result-type", string(client.ResultTypeJSON), "Result rendering: json|excel")
	cmd.Flags().DurationVar(&o.timeout, "timeout", 0, "Maximum wait after submission (defaults to --processing-timeout)")
	cmd.Flags().DurationVar(&o.interval, "interval", 0, "Polling interval for the job status (defaults to poll_interval from config)")
	cmd.Flags().StringVarP(&o.output, "output", "o", "", "Optional path to save the result JSON")
	cmd.Flags().StringVar(&o.download, "download", "", "Download the Excel result to this file, or into this directory as <request_id>.xls (requires --result-type excel)")
}

func (o *tableOptions) complete() error {
	if o.filePath == "" {
		return errors.New("flag --file is required")
	}

	kind, err := parseResultType(o.resultType)
	if err != nil {
		return err
	}
	o.kind = kind

	if o.download != "" && kind != client.ResultTypeExcel {
		return errors.New("--download requires --result-type excel")
	}
	if o.timeout <= 0 {
		o.timeout = o.opts.cfg.ProcessingTimeout
	}
	return nil
}

func (o *tableOptions) run(cmd *cobra.Command) error {
	cli, err := buildClient(o.opts)
	if err != nil {
		return o.opts.failLog.fail(o.filePath, err)
	}

	family, err := cli.Family(client.FamilyTableRecognition)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	logger := o.opts.logger.With(zap.String("file", o.filePath))

	job, err := cli.SubmitJob(ctx, family, client.FileSource(o.filePath), nil)
	if err != nil {
		logger.Error("table submit failed", zap.String("trace-id", traceIDOf(err)), zap.Error(err))
		return o.opts.failLog.fail(o.filePath, err)
	}
	logger.Info("table job submitted", zap.String("request_id", job.RequestID))

	resp, err := cli.WaitForJob(ctx, family, job, client.WaitOptions{
		Timeout:    o.timeout,
		Interval:   o.interval,
		ResultType: o.kind,
	})
	if err != nil {
		logger.Error("table job failed", zap.String("request_id", job.RequestID), zap.Error(err))
		return o.opts.failLog.fail(o.filePath, err)
	}

	logger.Info("table job finished",
		zap.String("request_id", job.RequestID),
		zap.String("log-id", logIDOf(resp)))

	if err := writeResult(cmd, o.output, resp); err != nil {
		return o.opts.failLog.fail(o.filePath, err)
	}

	if o.download == "" {
		return nil
	}

	link := resp.Get(tableResultPath).String()
	if link == "" {
		err := fmt.Errorf("table job %s returned no download link", job.RequestID)
		return o.opts.failLog.fail(o.filePath, err)
	}
	target := resolveDownloadPath(o.download, link, job.RequestID)
	if err := downloadToFile(ctx, cli, link, target); err != nil {
		return o.opts.failLog.fail(o.filePath, err)
	}
	logger.Info("downloaded table result", zap.String("path", target))
	return nil
}
