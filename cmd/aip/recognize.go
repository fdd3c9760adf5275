package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	client "github.com/hsn0918/aip-client"
)

func newRecognizeCmd(opts *cliOptions) *cobra.Command {
	ro := &recognizeOptions{
		opts: opts,
	}

	cmd := &cobra.Command{
		Use:   "recognize <endpoint>",
		Short: "Call a recognition endpoint with a file, a directory of files or a URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ro.endpoint = args[0]
			if err := ro.complete(); err != nil {
				return ro.opts.failLog.fail(ro.target(), err)
			}
			return ro.run(cmd)
		},
	}

	cmd.ValidArgsFunction = completeEndpoints
	ro.addFlags(cmd)

	return cmd
}

type recognizeOptions struct {
	endpoint    string
	filePath    string
	inputPath   string
	url         string
	pdf         bool
	page        int
	rawParams   []string
	output      string
	outputDir   string
	concurrency int

	params client.Options
	files  []string
	opts   *cliOptions
}

func (o *recognizeOptions) addFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.filePath, "file", "f", "", "Image or PDF file to recognize")
	cmd.Flags().StringVarP(&o.inputPath, "path", "p", "", "File or directory of images to recognize in batch")
	cmd.Flags().StringVar(&o.url, "url", "", "Remote image URL to recognize")
	cmd.Flags().BoolVar(&o.pdf, "pdf", false, "Treat --file as a PDF document")
	cmd.Flags().IntVar(&o.page, "page", 0, "PDF page to recognize (1-based)")
	cmd.Flags().StringArrayVar(&o.rawParams, "param", nil, "Extra request parameter as key=value or key:=json (repeatable)")
	cmd.Flags().StringVarP(&o.output, "output", "o", "", "Optional path to save the result JSON")
	cmd.Flags().StringVar(&o.outputDir, "output-dir", "", "Directory to store JSON results when recognizing multiple files")
	cmd.Flags().IntVar(&o.concurrency, "concurrency", 3, "Number of concurrent requests when using --path")
}

func (o *recognizeOptions) target() string {
	switch {
	case o.filePath != "":
		return o.filePath
	case o.inputPath != "":
		return o.inputPath
	case o.url != "":
		return o.url
	default:
		return o.endpoint
	}
}

func (o *recognizeOptions) complete() error {
	inputs := 0
	for _, v := range []string{o.filePath, o.inputPath, o.url} {
		if v != "" {
			inputs++
		}
	}
	if inputs > 1 {
		return errors.New("flags --file, --path and --url are mutually exclusive")
	}

	if o.concurrency <= 0 {
		o.concurrency = 3
	}

	params, err := parseParams(o.rawParams)
	if err != nil {
		return err
	}
	o.params = params

	if o.inputPath != "" {
		files, err := collectInputFiles(o.inputPath)
		if err != nil {
			return err
		}
		if len(files) == 0 {
			return fmt.Errorf("no supported files found in %s", o.inputPath)
		}
		o.files = files
	}

	return nil
}

func (o *recognizeOptions) run(cmd *cobra.Command) error {
	cli, err := buildClient(o.opts)
	if err != nil {
		return o.opts.failLog.fail(o.target(), err)
	}
	if _, err := cli.Lookup(o.endpoint); err != nil {
		return o.opts.failLog.fail(o.endpoint, err)
	}

	ctx := cmd.Context()

	if len(o.files) == 0 {
		src, err := buildSource(o.filePath, o.url, o.pdf, o.page)
		if err != nil {
			return o.opts.failLog.fail(o.target(), err)
		}
		return o.recognizeOne(ctx, cmd, cli, o.target(), src, o.output)
	}

	if len(o.files) == 1 && o.outputDir == "" {
		src, err := buildSource(o.files[0], "", o.pdf, o.page)
		if err != nil {
			return o.opts.failLog.fail(o.files[0], err)
		}
		return o.recognizeOne(ctx, cmd, cli, o.files[0], src, o.output)
	}

	return o.runBatch(ctx, cmd, cli)
}

func (o *recognizeOptions) recognizeOne(ctx context.Context, cmd *cobra.Command, cli client.Client, label string, src client.Source, output string) error {
	logger := o.opts.logger.With(zap.String("endpoint", o.endpoint), zap.String("target", label))

	resp, err := cli.Invoke(ctx, o.endpoint, src, o.params)
	if err != nil {
		logger.Error("recognition failed", zap.String("trace-id", traceIDOf(err)), zap.Error(err))
		return o.opts.failLog.fail(label, err)
	}

	logger.Info("recognition success", zap.String("log-id", logIDOf(resp)))

	if err := writeResult(cmd, output, resp); err != nil {
		return o.opts.failLog.fail(label, err)
	}
	if output != "" {
		logger.Info("saved result", zap.String("path", output))
	}
	return nil
}

func (o *recognizeOptions) runBatch(ctx context.Context, cmd *cobra.Command, cli client.Client) error {
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(o.concurrency)

	var (
		errs []error
		mu   sync.Mutex
	)

	for _, file := range o.files {
		eg.Go(func() error {
			output := ""
			if o.outputDir != "" {
				output = filepath.Join(o.outputDir, changeExt(filepath.Base(file), ".json"))
			}

			src, err := buildSource(file, "", o.pdf, o.page)
			if err == nil {
				err = o.recognizeOne(ctx, cmd, cli, file, src, output)
			} else {
				err = o.opts.failLog.fail(file, err)
			}
			if err != nil {
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}
			return nil
		})
	}

	if err := eg.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	if len(errs) > 0 {
		return fmt.Errorf("batch completed with %d errors, first: %w", len(errs), errs[0])
	}

	return nil
}
