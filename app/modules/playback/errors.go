package playback

import "errors"

var (
	// ErrBusy rejects a play request while a transition is in flight. At
	// most one animation runs at a time; callers may retry after the join.
	ErrBusy = errors.New("playback: transition already in flight")

	// ErrEmptySequence is returned when a loaded sequence flattens to zero
	// steps.
	ErrEmptySequence = errors.New("playback: sequence has no playable steps")

	// ErrNotLoaded is returned when a step command arrives in edit mode.
	ErrNotLoaded = errors.New("playback: no sequence loaded")

	// ErrAtStart is returned by PlayPrev on the first step.
	ErrAtStart = errors.New("playback: already at first step")
)
