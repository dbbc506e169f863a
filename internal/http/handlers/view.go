package handlers

import (
	"log/slog"

	"github.com/oneexim/portal/internal/api"
)

// ViewState is the rendering contract shared by every resource screen.
type ViewState int

const (
	// ViewEmpty shows the screen's explicit empty message. Fetch failures
	// also land here: the screen degrades to empty rather than crashing or
	// fabricating data.
	ViewEmpty ViewState = iota
	ViewPopulated
	// ViewNotFound is the distinct state for a lookup by identifier that
	// the backend does not know. Never conflated with empty.
	ViewNotFound
)

// ListView parameterizes the collection screens: one fetch result, one
// state, one set of rows.
type ListView[T any] struct {
	Items []T
	State ViewState
}

// NewListView folds a fetch result into the render contract. Errors are
// logged and the view falls back to its empty state.
func NewListView[T any](items []T, err error, log *slog.Logger, what string) ListView[T] {
	if err != nil {
		log.Error("fetch "+what, "error", err)
		return ListView[T]{State: ViewEmpty}
	}
	if len(items) == 0 {
		return ListView[T]{State: ViewEmpty}
	}
	return ListView[T]{Items: items, State: ViewPopulated}
}

// Empty reports whether the template should render the empty message.
func (v ListView[T]) Empty() bool { return v.State != ViewPopulated }

// detailState classifies a lookup-by-ID result. A backend 404 is the
// canonical not-found; any other failure renders the same display after
// being logged by the caller.
func detailState(err error) ViewState {
	if err == nil {
		return ViewPopulated
	}
	if !api.IsNotFound(err) {
		slog.Debug("detail fetch failed, rendering not found", "error", err)
	}
	return ViewNotFound
}
