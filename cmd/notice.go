package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"syscall"

	"medocr/internal/logger"
	"medocr/internal/submit"
)

// noticeFor turns a submission error into the message shown to the operator.
func noticeFor(err error, endpoint string) error {
	log := logger.WithComponent("process")
	log.Error().Err(err).Msg("Submission failed")

	switch {
	case errors.Is(err, submit.ErrValidation):
		return fmt.Errorf("please fill in all required fields:\n  %s", strings.ReplaceAll(err.Error(), "\n", "\n  "))
	case errors.Is(err, submit.ErrBusy):
		return fmt.Errorf("a submission is already in progress, wait for it to finish")
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("the backend did not answer in time. Try again or raise --timeout / SUBMIT_TIMEOUT")
	case errors.Is(err, context.Canceled):
		return fmt.Errorf("submission was canceled")
	case errors.Is(err, syscall.ECONNREFUSED):
		return fmt.Errorf("cannot reach the processing backend at %s. Check that it is running and BACKEND_HOST is correct", endpoint)
	case errors.Is(err, submit.ErrBackendRejected):
		return fmt.Errorf("the backend rejected the submission: %w", err)
	case errors.Is(err, submit.ErrMalformedResponse):
		return fmt.Errorf("the backend returned an unexpected response: %w", err)
	case errors.Is(err, submit.ErrTransport):
		return fmt.Errorf("processing request failed: %w", err)
	default:
		return fmt.Errorf("submission failed: %w", err)
	}
}
