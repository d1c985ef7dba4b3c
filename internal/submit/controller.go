// Package submit sends an operator's selection to the document-processing
// backend and keeps the outcome.
//
// The Controller is a small state machine:
//
//	Idle -> Submitting -> Succeeded | Failed
//
// Submitting is left exactly once per accepted call, and at most one
// submission is in flight at a time. Preconditions are checked before the
// controller enters Submitting, so an invalid call never touches the network.
//
// The request body depends on the selection variant. In-memory files are sent
// as multipart form data; path references are sent as JSON together with the
// output folder, and the backend reads the files itself.
package submit

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"medocr/internal/intake"
	"medocr/internal/logger"
)

// The backend always listens on this port and path.
const (
	BackendPort = 8000
	ProcessPath = "/process"
)

// Endpoint returns the processing URL for host.
func Endpoint(host string) string {
	return fmt.Sprintf("http://%s:%d%s", host, BackendPort, ProcessPath)
}

// State is the controller's workflow state.
type State int

const (
	StateIdle State = iota
	StateSubmitting
	// StateSucceeded is idle with a result.
	StateSucceeded
	// StateFailed is idle with an error. The previous result, if any, is kept.
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateSubmitting:
		return "submitting"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	default:
		return "idle"
	}
}

// Options configures a Controller.
type Options struct {
	// Endpoint is the full processing URL. Defaults to Endpoint("localhost").
	Endpoint string

	// Client performs the request. Defaults to a client without timeout.
	Client *http.Client

	// Timeout bounds a single submission. Zero means no limit beyond the
	// transport's own.
	Timeout time.Duration

	// OnTransition, if set, is called after every state change.
	OnTransition func(from, to State)
}

// Controller owns the in-flight request and the last successful result.
type Controller struct {
	endpoint     string
	client       *http.Client
	timeout      time.Duration
	onTransition func(from, to State)

	mu      sync.Mutex
	state   State
	result  *intake.Result
	lastErr error

	log zerolog.Logger
}

// NewController creates a controller in the Idle state.
func NewController(opts Options) *Controller {
	if opts.Endpoint == "" {
		opts.Endpoint = Endpoint("localhost")
	}
	if opts.Client == nil {
		opts.Client = &http.Client{}
	}
	return &Controller{
		endpoint:     opts.Endpoint,
		client:       opts.Client,
		timeout:      opts.Timeout,
		onTransition: opts.OnTransition,
		log:          logger.WithComponent("submit"),
	}
}

// State returns the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Result returns the last successful result, or nil.
func (c *Controller) Result() *intake.Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.result
}

// Err returns the error of the last settled submission, or nil if it
// succeeded.
func (c *Controller) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// Submit validates the inputs, sends them to the backend and stores the
// outcome. Validation failures and ErrBusy leave the state unchanged.
// Per-file failures inside a successful response are part of the result,
// not errors.
func (c *Controller) Submit(ctx context.Context, id intake.Identifier, sel intake.Selection, out intake.OutputLocation) (*intake.Result, error) {
	if err := Validate(id, sel, out); err != nil {
		c.log.Warn().Err(err).Msg("Submission rejected before sending")
		return nil, err
	}
	if !c.begin() {
		c.log.Warn().Msg("Submission ignored, another one is in flight")
		return nil, ErrBusy
	}

	submissionID := uuid.NewString()
	log := logger.WithSubmission("submit", submissionID)
	if !id.Conventional() {
		log.Warn().
			Str("identifier", id.String()).
			Msg("Identifier is not a conventional patient ID; the backend may reject it")
	}

	result, err := c.send(ctx, submissionID, id, sel, out, log)
	c.settle(result, err)
	return result, err
}

// Validate checks every precondition and reports all violations at once.
func Validate(id intake.Identifier, sel intake.Selection, out intake.OutputLocation) error {
	var errs []error
	if id.Empty() {
		errs = append(errs, &ValidationError{Field: "patient_id", Err: ErrMissingIdentifier})
	}
	switch sel.Kind() {
	case intake.KindNone:
		errs = append(errs, &ValidationError{Field: "files", Err: ErrNoFiles})
	case intake.KindMixed:
		errs = append(errs, &ValidationError{Field: "files", Err: ErrMixedSelection})
	case intake.KindPath:
		if !out.Present() {
			errs = append(errs, &ValidationError{Field: "output_folder", Err: ErrMissingOutputLocation})
		}
	}
	return errors.Join(errs...)
}

func (c *Controller) begin() bool {
	c.mu.Lock()
	if c.state == StateSubmitting {
		c.mu.Unlock()
		return false
	}
	from := c.state
	c.state = StateSubmitting
	c.mu.Unlock()

	c.notify(from, StateSubmitting)
	return true
}

func (c *Controller) settle(result *intake.Result, err error) {
	c.mu.Lock()
	to := StateSucceeded
	if err != nil {
		to = StateFailed
	} else {
		c.result = result
	}
	c.lastErr = err
	c.state = to
	c.mu.Unlock()

	c.notify(StateSubmitting, to)
}

func (c *Controller) notify(from, to State) {
	if c.onTransition != nil {
		c.onTransition(from, to)
	}
}

func (c *Controller) send(ctx context.Context, submissionID string, id intake.Identifier, sel intake.Selection, out intake.OutputLocation, log zerolog.Logger) (*intake.Result, error) {
	p, err := buildPayload(id, sel, out)
	if err != nil {
		log.Error().Err(err).Msg("Failed to build request")
		return nil, transportError("build", 0, err)
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(p.body))
	if err != nil {
		return nil, transportError("build", 0, err)
	}
	req.Header.Set("Content-Type", p.contentType)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", submissionID)

	log.Info().
		Str("endpoint", c.endpoint).
		Str("variant", sel.Kind().String()).
		Int("files", len(sel)).
		Int("bytes", len(p.body)).
		Msg("Submitting documents")

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		log.Error().Err(err).Dur("elapsed", time.Since(start)).Msg("Backend request failed")
		return nil, transportError("send", 0, err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("Failed to close response body")
		}
	}()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Error().Err(err).Int("status", resp.StatusCode).Msg("Failed to read response body")
		return nil, transportError("read", resp.StatusCode, err)
	}

	log.Info().
		Int("status", resp.StatusCode).
		Int("bytes", len(raw)).
		Dur("elapsed", time.Since(start)).
		Msg("Backend responded")

	if resp.StatusCode/100 != 2 {
		return nil, transportError("status", resp.StatusCode, fmt.Errorf("%s: %s", resp.Status, statusDetail(raw)))
	}

	result, err := decodeResult(resp.StatusCode, raw)
	if err != nil {
		log.Error().Err(err).Msg("Backend response rejected")
		return nil, err
	}

	log.Info().
		Int("processed_files", result.ProcessedFiles).
		Int("total_records", result.TotalRecords).
		Int("files_failed", len(result.FilesFailed)).
		Msg("Submission completed")
	return result, nil
}
