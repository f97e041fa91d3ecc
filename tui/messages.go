package tui

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/a-h/jsonapi"
	"github.com/a-h/summarizer/client"
	"github.com/a-h/summarizer/models"
	"github.com/a-h/summarizer/summarize"
)

type submittedMsg struct {
	ticket  summarize.Ticket
	summary models.Summary
}

type submitFailedMsg struct {
	ticket summarize.Ticket
	err    error
}

type historyLoadedMsg struct {
	generation uint64
	items      []models.Summary
}

type historyFailedMsg struct {
	generation uint64
	err        error
}

type deletedMsg struct {
	id  int64
	err error
}

// errorMessage turns an error into text for the status line.
func errorMessage(err error) string {
	var ve *summarize.ValidationError
	if errors.As(err, &ve) {
		return ve.Message
	}
	var pe *summarize.PendingError
	if errors.As(err, &pe) {
		return "The summary is still being generated, try again shortly."
	}
	if errors.Is(err, summarize.ErrIncomplete) {
		return "The server accepted the request but did not return a summary."
	}
	var ise jsonapi.InvalidStatusError
	if errors.As(err, &ise) {
		return fmt.Sprintf("The server responded with %d %s.", ise.Status, http.StatusText(ise.Status))
	}
	if client.IsShapeError(err) {
		return "The server sent an unexpected response."
	}
	if errors.Is(err, context.Canceled) {
		return "Cancelled."
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "The request timed out."
	}
	return err.Error()
}
