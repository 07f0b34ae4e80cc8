// Package binding detects whether a host executable has been bound to an
// application, and recovers the bound path from its marker region.
package binding

import (
	apperrors "github.com/provide-io/flavor/go/apphost/pkg/apphost/errors"
)

// State is the outcome of classifying a marker region.
type State int

const (
	StateEnabled   State = iota // Bound; Path holds the application path
	StateDisabled               // Placeholder still present
	StateMalformed              // Content does not fit the region
)

func (s State) String() string {
	switch s {
	case StateEnabled:
		return "enabled"
	case StateDisabled:
		return "disabled"
	case StateMalformed:
		return "malformed"
	default:
		return "unknown"
	}
}

// Result is a classified marker region.
type Result struct {
	State State
	Path  string
	// Length is the measured string length of the region, capped at Capacity.
	Length int
}

// Err returns nil for an enabled result and the matching sentinel otherwise.
func (r Result) Err() error {
	switch r.State {
	case StateEnabled:
		return nil
	case StateDisabled:
		return apperrors.ErrNotBound
	default:
		return apperrors.ErrBindingTooLong
	}
}

// Classify decides whether src still holds the placeholder. It reads src on
// every call and keeps no state.
func Classify(src Source) Result {
	n := StringLength(src, Capacity)
	if n > MaxPathLen {
		return Result{State: StateMalformed, Length: n}
	}

	hiLen, loLen := len(PlaceholderHi), len(PlaceholderLo)
	if n >= hiLen+loLen &&
		CompareRange(src, Text(PlaceholderHi), hiLen) &&
		CompareRange(Slice(src, hiLen), Text(PlaceholderLo), loLen) {
		return Result{State: StateDisabled, Length: n}
	}

	// Shorter content cannot be the placeholder. It is returned as bound and
	// left to path validation downstream.
	path := make([]byte, n)
	CopyRange(path, src, n)
	return Result{State: StateEnabled, Path: string(path), Length: n}
}

// Resolve classifies the marker region of the running executable and returns
// the bound application path.
func Resolve() (string, error) {
	r := Classify(Image())
	if err := r.Err(); err != nil {
		return "", err
	}
	return r.Path, nil
}
