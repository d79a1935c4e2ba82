package workbench

import (
	"github.com/tphakala/go-audio-workbench/internal/config"
	"github.com/tphakala/go-audio-workbench/internal/filter"
	"github.com/tphakala/go-audio-workbench/internal/store"
	"github.com/tphakala/go-audio-workbench/internal/transform"
	"github.com/tphakala/go-audio-workbench/internal/wavio"
)

// Errors returned by the workbench.
var (
	// ErrNotFound indicates an artifact file does not exist.
	ErrNotFound = wavio.ErrNotFound

	// ErrDecode indicates unreadable or corrupt audio data.
	ErrDecode = wavio.ErrDecode

	// ErrInvalidSignal indicates a signal that cannot be written (for
	// example a non-positive sample rate).
	ErrInvalidSignal = wavio.ErrInvalidSignal

	// ErrInvalidCutoff indicates a cutoff outside (0, Nyquist) or a band whose
	// low edge is not below its high edge.
	ErrInvalidCutoff = filter.ErrInvalidCutoff

	// ErrInvalidOrder indicates a Butterworth order below 1.
	ErrInvalidOrder = filter.ErrInvalidOrder

	// ErrUnstableFilter indicates filtering produced NaN or Inf samples.
	ErrUnstableFilter = filter.ErrUnstableFilter

	// ErrInvalidFactor indicates a negative or non-finite gain.
	ErrInvalidFactor = transform.ErrInvalidFactor

	// ErrInvalidShift indicates a NaN or infinite time shift.
	ErrInvalidShift = transform.ErrInvalidShift

	// ErrUnknownSlot indicates an artifact name other than input or output.
	ErrUnknownSlot = store.ErrUnknownSlot

	// ErrInvalidConfig indicates invalid workbench configuration, whether
	// passed to New or loaded from settings.
	ErrInvalidConfig = config.ErrInvalidConfig
)
