package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := execute(context.Background(), &cliOptions{}, args, &stdout, &stderr)
	return stdout.String(), err
}

func respond(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = io.WriteString(w, body)
}

func TestRecognizeCommand_URL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/2.0/ocr/v1/general_basic", r.URL.Path)
		assert.Equal(t, "tok", r.URL.Query().Get("access_token"))
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "https://example.com/a.png", r.PostForm.Get("url"))
		assert.Equal(t, "ENG", r.PostForm.Get("language_type"))
		respond(w, `{"log_id":77,"words_result":[{"words":"hi"}]}`)
	}))
	defer srv.Close()

	out, err := runCLI(t, "recognize", "general_basic",
		"--url", "https://example.com/a.png",
		"--param", "language_type=ENG",
		"--access-token", "tok",
		"--base-url", srv.URL,
		"--fail-log", "")
	require.NoError(t, err)
	assert.JSONEq(t, `{"log_id":77,"words_result":[{"words":"hi"}]}`, out)
}

func TestRecognizeCommand_BatchWritesFailLog(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.png", "b.png", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(name), 0o600))
	}

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		require.NoError(t, r.ParseForm())
		if r.PostForm.Get("image") == "Yi5wbmc=" { // b.png
			respond(w, `{"error_code":216201,"error_msg":"image format error","log_id":5}`)
			return
		}
		respond(w, `{"log_id":6,"words_result":[]}`)
	}))
	defer srv.Close()

	outDir := filepath.Join(t.TempDir(), "out")
	failLog := filepath.Join(t.TempDir(), "fail.log")

	_, err := runCLI(t, "recognize", "general_basic",
		"--path", dir,
		"--output-dir", outDir,
		"--concurrency", "2",
		"--access-token", "tok",
		"--base-url", srv.URL,
		"--fail-log", failLog)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "batch completed with 1 errors")
	assert.Equal(t, int32(2), calls.Load())

	assert.FileExists(t, filepath.Join(outDir, "a.json"))
	assert.NoFileExists(t, filepath.Join(outDir, "b.json"))

	logged, err := os.ReadFile(failLog)
	require.NoError(t, err)
	assert.Contains(t, string(logged), "trace-id=5")
	assert.Contains(t, string(logged), "b.png")
	assert.Contains(t, string(logged), "error_code 216201")
}

func TestRecognizeCommand_RequiresCredentials(t *testing.T) {
	t.Setenv("AIP_API_KEY", "")
	t.Setenv("AIP_SECRET_KEY", "")
	t.Setenv("AIP_ACCESS_TOKEN", "")

	_, err := runCLI(t, "recognize", "general_basic", "--url", "https://example.com/a.png", "--fail-log", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "credentials are required")
}

func TestFailedCommandStopsMetricsServer(t *testing.T) {
	t.Setenv("AIP_API_KEY", "")
	t.Setenv("AIP_SECRET_KEY", "")
	t.Setenv("AIP_ACCESS_TOKEN", "")

	opts := &cliOptions{}
	var stdout, stderr bytes.Buffer
	err := execute(context.Background(), opts, []string{
		"recognize", "general_basic",
		"--url", "https://example.com/a.png",
		"--metrics-addr", "127.0.0.1:0",
		"--fail-log", "",
	}, &stdout, &stderr)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "credentials are required")

	require.NotNil(t, opts.server)
	assert.ErrorIs(t, opts.server.ListenAndServe(), http.ErrServerClosed)
}

func TestTableCommand_DownloadsExcel(t *testing.T) {
	img := filepath.Join(t.TempDir(), "table.png")
	require.NoError(t, os.WriteFile(img, []byte("table"), 0o600))

	var srv *httptest.Server
	var polls atomic.Int32
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/rest/2.0/solution/v1/form_ocr/request":
			respond(w, `{"log_id":1,"result":[{"request_id":"req-1"}]}`)
		case "/rest/2.0/solution/v1/form_ocr/get_request_result":
			require.NoError(t, r.ParseForm())
			assert.Equal(t, "req-1", r.PostForm.Get("request_id"))
			assert.Equal(t, "excel", r.PostForm.Get("result_type"))
			if polls.Add(1) < 2 {
				respond(w, `{"log_id":2,"result":{"ret_code":1}}`)
				return
			}
			respond(w, `{"log_id":3,"result":{"ret_code":3,"result_data":"`+srv.URL+`/files/req-1.xls"}}`)
		case "/files/req-1.xls":
			_, _ = io.WriteString(w, "excel-bytes")
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	download := filepath.Join(t.TempDir(), "result.xls")
	out, err := runCLI(t, "table",
		"--file", img,
		"--result-type", "excel",
		"--interval", "10ms",
		"--timeout", "5s",
		"--download", download,
		"--access-token", "tok",
		"--base-url", srv.URL,
		"--fail-log", "")
	require.NoError(t, err)
	assert.Contains(t, out, "ret_code")

	data, err := os.ReadFile(download)
	require.NoError(t, err)
	assert.Equal(t, "excel-bytes", string(data))
}

func TestTableCommand_DownloadIntoDirectory(t *testing.T) {
	img := filepath.Join(t.TempDir(), "table.png")
	require.NoError(t, os.WriteFile(img, []byte("table"), 0o600))

	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/rest/2.0/solution/v1/form_ocr/request":
			respond(w, `{"log_id":1,"result":[{"request_id":"req-9"}]}`)
		case "/rest/2.0/solution/v1/form_ocr/get_request_result":
			respond(w, `{"log_id":3,"result":{"ret_code":3,"result_data":"`+srv.URL+`/files/table.xls"}}`)
		case "/files/table.xls":
			_, _ = io.WriteString(w, "excel-bytes")
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	dir := t.TempDir()
	_, err := runCLI(t, "table",
		"--file", img,
		"--result-type", "excel",
		"--download", dir,
		"--access-token", "tok",
		"--base-url", srv.URL,
		"--fail-log", "")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "req-9.xls"))
	require.NoError(t, err)
	assert.Equal(t, "excel-bytes", string(data))
}

func TestJobSubmitCommand(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "https://example.com/v.mp4", r.PostForm.Get("url"))
		assert.Equal(t, "ext-1", r.PostForm.Get("extId"))
		respond(w, `{"log_id":1,"taskId":"task-7"}`)
	}))
	defer srv.Close()

	out, err := runCLI(t, "job", "submit",
		"--family", "long_video",
		"--url", "https://example.com/v.mp4",
		"--param", "extId=ext-1",
		"--access-token", "tok",
		"--base-url", srv.URL,
		"--fail-log", "")
	require.NoError(t, err)

	var got map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, map[string]string{"family": "long_video", "request_id": "task-7"}, got)
}

func TestJobWaitCommand_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respond(w, `{"log_id":2,"result":{"ret_code":1}}`)
	}))
	defer srv.Close()

	_, err := runCLI(t, "job", "wait",
		"--request-id", "req-1",
		"--timeout", "50ms",
		"--interval", "10ms",
		"--access-token", "tok",
		"--base-url", srv.URL,
		"--fail-log", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeded")
}

func TestJobWaitCommand_ConfiguredInterval(t *testing.T) {
	t.Setenv("AIP_POLL_INTERVAL", "10ms")

	var polls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if polls.Add(1) < 3 {
			respond(w, `{"log_id":2,"result":{"ret_code":1}}`)
			return
		}
		respond(w, `{"log_id":3,"result":{"ret_code":3,"result_data":"{}"}}`)
	}))
	defer srv.Close()

	out, err := runCLI(t, "job", "wait",
		"--request-id", "req-1",
		"--timeout", "1s",
		"--access-token", "tok",
		"--base-url", srv.URL,
		"--fail-log", "")
	require.NoError(t, err)
	assert.Contains(t, out, "ret_code")
	assert.Equal(t, int32(3), polls.Load())
}

func TestEndpointsCommand(t *testing.T) {
	out, err := runCLI(t, "endpoints", "--fail-log", "")
	require.NoError(t, err)
	assert.Contains(t, out, "general_basic")
	assert.Contains(t, out, "table_result_get")

	out, err = runCLI(t, "endpoints", "--families", "--fail-log", "")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Len(t, lines, 4)
	assert.Contains(t, out, "result.ret_code == 3")
	assert.Contains(t, out, "conclusionType (present)")
}
