package session

import "errors"

// Sentinel errors the session itself originates, distinct from the
// component-level sentinels in internal/kb (spec.md §7).
var (
	ErrNoParserConfigured = errors.New("session: Load directive requires a Parser")
	ErrUnknownTheory      = errors.New("session: unload references an unknown theory")
)
