package recurrence

import "time"

// Exception adjusts a single occurrence of a series. Target is the
// original candidate instant and is the exception's identity: lookups are
// always keyed by it, never by the post-override start, which keeps
// applying an overlay idempotent.
//
// Cancel omits the occurrence entirely. Otherwise the exception is an
// override: NewStart (when set) retimes the occurrence, and the caller may
// carry replacement descriptive fields alongside keyed by the same target.
type Exception struct {
	Target   time.Time
	Cancel   bool
	NewStart *time.Time
}

// Overlay is a series' exception set, keyed by original candidate instant.
type Overlay map[int64]Exception

// NewOverlay builds an overlay from entries in write order; a later entry
// for the same target replaces the earlier one (last write wins).
func NewOverlay(entries []Exception) Overlay {
	o := make(Overlay, len(entries))
	for _, e := range entries {
		o[e.Target.UnixNano()] = e
	}
	return o
}

func (o Overlay) at(t time.Time) (Exception, bool) {
	e, ok := o[t.UnixNano()]
	return e, ok
}

// Occurrence is one effective occurrence after overlay application.
// Original is the raw candidate instant the occurrence derives from;
// it differs from Start only for retimed overrides.
type Occurrence struct {
	Start      time.Time
	Original   time.Time
	Overridden bool
}
