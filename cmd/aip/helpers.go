package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	client "github.com/hsn0918/aip-client"
)

func buildClient(opts *cliOptions) (client.Client, error) {
	cfg := opts.cfg
	if !cfg.HasCredentials() {
		return nil, errors.New("credentials are required (flags --api-key/--secret-key, --access-token or AIP_API_KEY / AIP_SECRET_KEY)")
	}

	options := []client.Option{
		client.WithBaseURL(cfg.BaseURL),
		client.WithTimeout(cfg.Timeout),
		client.WithProcessingTimeout(cfg.ProcessingTimeout),
		client.WithPollInterval(cfg.PollInterval),
		client.WithRetry(cfg.Retry),
		client.WithRateLimit(cfg.QPS, cfg.Burst),
		client.WithLogger(opts.logger),
		client.WithMetrics(opts.collector),
	}
	if cfg.AccessToken != "" {
		options = append(options, client.WithAccessToken(cfg.AccessToken))
	} else {
		options = append(options, client.WithCredentials(cfg.APIKey, cfg.SecretKey))
	}
	return client.NewClient(options...), nil
}

func newLogger(w io.Writer, level, format string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "ts"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var encoder zapcore.Encoder
	switch format {
	case "json":
		encoder = zapcore.NewJSONEncoder(encCfg)
	case "", "console":
		encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encCfg)
	default:
		return nil, fmt.Errorf("unsupported log format: %s", format)
	}

	core := zapcore.NewCore(encoder, zapcore.Lock(zapcore.AddSync(w)), lvl)
	return zap.New(core), nil
}

// parseParams turns key=value pairs into request options. key:=value takes a raw JSON value.
func parseParams(pairs []string) (client.Options, error) {
	params := client.Options{}
	for _, pair := range pairs {
		if key, raw, ok := strings.Cut(pair, ":="); ok && key != "" && !strings.Contains(key, "=") {
			if !gjson.Valid(raw) {
				return nil, fmt.Errorf("param %s: invalid JSON value %q", key, raw)
			}
			params[key] = json.RawMessage(raw)
			continue
		}

		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("param %q must be key=value", pair)
		}
		params[key] = value
	}
	return params, nil
}

func parseResultType(value string) (client.ResultType, error) {
	switch strings.ToLower(value) {
	case "", string(client.ResultTypeJSON):
		return client.ResultTypeJSON, nil
	case string(client.ResultTypeExcel), "xls", "xlsx":
		return client.ResultTypeExcel, nil
	default:
		return "", fmt.Errorf("unsupported result type: %s", value)
	}
}

// buildSource maps the mutually exclusive input flags onto a client.Source.
func buildSource(file, rawURL string, pdf bool, page int) (client.Source, error) {
	if file != "" && rawURL != "" {
		return client.Source{}, client.ErrMultipleSources
	}

	var src client.Source
	switch {
	case file != "" && (pdf || isPDF(file)):
		src = client.PDFFileSource(file, page)
	case file != "":
		src = client.FileSource(file)
	case rawURL != "":
		src = client.URLSource(rawURL)
	}
	return src, src.Validate()
}

func isPDF(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".pdf")
}

var imageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".bmp":  true,
	".tif":  true,
	".tiff": true,
	".pdf":  true,
}

func isSupportedInput(name string) bool {
	return imageExts[strings.ToLower(filepath.Ext(name))]
}

func collectInputFiles(p string) ([]string, error) {
	info, err := os.Stat(p)
	if err != nil {
		return nil, fmt.Errorf("stat path: %w", err)
	}

	if info.Mode().IsRegular() {
		if isSupportedInput(p) {
			return []string{p}, nil
		}
		return nil, fmt.Errorf("file is not a supported image or pdf: %s", p)
	}

	if !info.IsDir() {
		return nil, fmt.Errorf("path is neither file nor directory: %s", p)
	}

	entries, err := os.ReadDir(p)
	if err != nil {
		return nil, fmt.Errorf("read dir: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if isSupportedInput(entry.Name()) {
			files = append(files, filepath.Join(p, entry.Name()))
		}
	}

	return files, nil
}

func changeExt(name, ext string) string {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	return base + ext
}

// writeResult writes resp to path, or pretty-prints it to the command output when path is empty.
func writeResult(cmd *cobra.Command, path string, resp *client.Response) error {
	var content []byte
	if raw := resp.Raw(); len(raw) > 0 {
		var buf bytes.Buffer
		if err := json.Indent(&buf, raw, "", "  "); err != nil {
			return fmt.Errorf("format result: %w", err)
		}
		buf.WriteByte('\n')
		content = buf.Bytes()
	}

	if path == "" {
		_, err := cmd.OutOrStdout().Write(content)
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	return nil
}

func writeJSON(w io.Writer, data any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	return nil
}

func defaultDownloadName(urlStr, id string) string {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return id + ".xls"
	}

	ext := path.Ext(parsed.Path)
	if ext == "" {
		ext = ".xls"
	}

	return id + ext
}

// resolveDownloadPath names the file after the request id when target is a directory.
func resolveDownloadPath(target, downloadURL, id string) string {
	if strings.HasSuffix(target, string(os.PathSeparator)) || strings.HasSuffix(target, "/") {
		return filepath.Join(target, defaultDownloadName(downloadURL, id))
	}
	if info, err := os.Stat(target); err == nil && info.IsDir() {
		return filepath.Join(target, defaultDownloadName(downloadURL, id))
	}
	return target
}

func downloadToFile(ctx context.Context, cli client.Client, downloadURL, targetPath string) error {
	dir := filepath.Dir(targetPath)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create download dir: %w", err)
		}
	}

	file, err := os.Create(targetPath)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}
	defer file.Close()

	if err := cli.DownloadFileTo(ctx, downloadURL, file); err != nil {
		return err
	}

	return nil
}

// traceIDOf extracts the most useful correlation id from an error chain.
func traceIDOf(err error) string {
	var remote *client.RemoteError
	if errors.As(err, &remote) {
		if remote.LogID != "" {
			return remote.LogID
		}
		if remote.Response != nil {
			return remote.Response.TraceID
		}
	}

	var transport *client.TransportError
	if errors.As(err, &transport) {
		return transport.TraceID
	}

	return ""
}

func logIDOf(resp *client.Response) string {
	if resp == nil {
		return ""
	}
	if id := resp.LogID(); id != "" {
		return id
	}
	return resp.TraceID
}
