package cmd

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"medocr/internal/acquire"
	"medocr/internal/config"
	"medocr/internal/dialog"
	"medocr/internal/intake"
	"medocr/internal/submit"
)

func TestNoticeFor(t *testing.T) {
	validation := submit.Validate("", nil, "")
	refused := &submit.SubmitError{
		Op:   "send",
		Kind: submit.ErrTransport,
		Err: &url.Error{Op: "Post", URL: "http://localhost:8000/process", Err: &net.OpError{
			Op: "dial", Err: os.NewSyscallError("connect", syscall.ECONNREFUSED),
		}},
	}

	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "validation", err: validation, want: "please fill in all required fields"},
		{name: "busy", err: submit.ErrBusy, want: "already in progress"},
		{name: "refused", err: refused, want: "cannot reach the processing backend at http://localhost:8000/process"},
		{name: "deadline", err: &submit.SubmitError{Op: "send", Kind: submit.ErrTransport, Err: context.DeadlineExceeded}, want: "did not answer in time"},
		{name: "malformed", err: &submit.SubmitError{Op: "decode", Kind: submit.ErrMalformedResponse, Err: errors.New("bad")}, want: "unexpected response"},
		{name: "other", err: errors.New("boom"), want: "submission failed: boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := noticeFor(tt.err, "http://localhost:8000/process")
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestNoticeForValidationListsEveryProblem(t *testing.T) {
	err := noticeFor(submit.Validate("", nil, ""), "")

	assert.Contains(t, err.Error(), submit.ErrMissingIdentifier.Error())
	assert.Contains(t, err.Error(), submit.ErrNoFiles.Error())
}

func TestChooseHost(t *testing.T) {
	host, native, err := chooseHost([]string{"a.png"}, "", nil)
	require.NoError(t, err)
	assert.IsType(t, dialog.Preset{}, host)
	assert.False(t, native)

	_, native, err = chooseHost([]string{"a.png"}, "/exports", nil)
	require.NoError(t, err)
	assert.True(t, native)

	term := &dialog.Terminal{}
	host, native, err = chooseHost(nil, "", term)
	require.NoError(t, err)
	assert.Same(t, term, host)
	assert.False(t, native)
	assert.Equal(t, acquire.ModeUpload, acquire.Resolve(acquire.ModeAuto, native))

	host, native, err = chooseHost(nil, "/exports", term)
	require.NoError(t, err)
	assert.True(t, native)
	folder, err := host.OpenFolder(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "/exports", folder)
}

func TestAcquireInputsPathsModeAsksForFolder(t *testing.T) {
	acq, err := acquire.New(acquire.ModePaths, dialog.Preset{Files: []string{"/scans/a.png"}, Folder: "/exports"})
	require.NoError(t, err)

	require.NoError(t, acquireInputs(context.Background(), acq, nil))

	assert.Equal(t, []string{"/scans/a.png"}, acq.Selection().Paths())
	assert.Equal(t, intake.OutputLocation("/exports"), acq.OutputLocation())
}

func TestProcessCommandUploadsAndRenders(t *testing.T) {
	var gotPatient string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err == nil {
			gotPatient = r.FormValue("patient_id")
		}
		_, _ = io.WriteString(w, `{"processed_files":1,"total_records":3,"files_failed":[{"filename":"b.png","error":"No text extracted"}]}`)
	}))
	defer srv.Close()

	appConfig = &config.Config{AcquisitionMode: acquire.ModeAuto}
	scan := filepath.Join(t.TempDir(), "a.png")
	require.NoError(t, os.WriteFile(scan, []byte("png"), 0644))

	var out bytes.Buffer
	processCmd.SetOut(&out)
	t.Cleanup(func() { processCmd.SetOut(nil) })

	// The backend port is fixed, so point the endpoint at the test server directly.
	controllerEndpoint = func(*config.Config) string { return srv.URL + submit.ProcessPath }
	t.Cleanup(func() { controllerEndpoint = defaultEndpoint })

	require.NoError(t, processCmd.Flags().Set("patient", "P123"))
	t.Cleanup(func() { _ = processCmd.Flags().Set("patient", "") })
	require.NoError(t, runProcess(processCmd, []string{scan}))

	assert.Equal(t, "P123", gotPatient)
	assert.Contains(t, out.String(), "Records Created: 3")
	assert.Contains(t, out.String(), "CSV Files: None")
	assert.Contains(t, out.String(), "b.png — No text extracted")
}
