package parking

import (
	"regexp"
	"strings"
)

var (
	nonAlnum   = regexp.MustCompile(`[^A-Z0-9]`)
	dashRepeat = regexp.MustCompile(`-+`)
)

// NormalizePlate canonicalizes a plate for lookups: trimmed, every
// character outside A-Z and 0-9 becomes a dash, runs of dashes collapse,
// and the result is lower case. "ab 12..c" becomes "ab-12-c".
func NormalizePlate(plate string) string {
	s := strings.ToUpper(strings.TrimSpace(plate))
	s = nonAlnum.ReplaceAllString(s, "-")
	s = dashRepeat.ReplaceAllString(s, "-")
	return strings.ToLower(s)
}

// LatestActive returns the non-exited session with the greatest session
// id. Ties keep the first one seen. ok is false when every session has
// exited or the list is empty.
func LatestActive(sessions []Session) (Session, bool) {
	var (
		best  Session
		found bool
	)
	for _, s := range sessions {
		if s.Exited() {
			continue
		}
		if !found || s.SessionID > best.SessionID {
			best = s
			found = true
		}
	}
	return best, found
}

// LatestForPlate returns the session with the greatest id whose plate
// matches plate after normalization.
func LatestForPlate(sessions []Session, plate string) (Session, bool) {
	want := NormalizePlate(plate)
	if want == "" {
		return Session{}, false
	}
	var (
		best  Session
		found bool
	)
	for _, s := range sessions {
		if NormalizePlate(s.Plate) != want {
			continue
		}
		if !found || s.SessionID > best.SessionID {
			best = s
			found = true
		}
	}
	return best, found
}
