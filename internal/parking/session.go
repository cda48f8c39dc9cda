package parking

import "strings"

// Session status values reported by the backend. Other strings are kept
// as-is.
const (
	StatusEntering = "entering"
	StatusParked   = "parked"
	StatusExited   = "exited"
)

// StatusEmpty is the status given to a spot with no session.
const StatusEmpty = "empty"

// Session is one vehicle visit as reported by the backend.
type Session struct {
	SessionID    int    `json:"session_id"`
	Plate        string `json:"plate"`
	Status       string `json:"status"`
	Spot         *int   `json:"spot,omitempty"`
	PreviousSpot *int   `json:"previous_spot,omitempty"`

	EntryTime string `json:"entry_time,omitempty"`
	ParkTime  string `json:"park_time,omitempty"`
	ExitTime  string `json:"exit_time,omitempty"`
}

// Exited reports whether the session has left the lot.
func (s Session) Exited() bool {
	return s.Status == StatusExited
}

// DisplaySpot returns the spot to show when locating a car: the previous
// spot once exited, otherwise the current spot falling back to the
// previous one.
func (s Session) DisplaySpot() *int {
	if s.Exited() {
		return s.PreviousSpot
	}
	if s.Spot != nil {
		return s.Spot
	}
	return s.PreviousSpot
}

// DisplayStatus returns a human label for a session status.
func DisplayStatus(status string) string {
	if status == "" {
		return "Unknown"
	}
	switch strings.ToLower(status) {
	case StatusEntering:
		return "Entering"
	case StatusParked:
		return "Parked"
	case StatusExited:
		return "Exited"
	}
	return status
}

// IntPtr returns a pointer to v.
func IntPtr(v int) *int {
	return &v
}

// CloneSessions returns a deep copy of sessions.
func CloneSessions(sessions []Session) []Session {
	if sessions == nil {
		return nil
	}
	out := make([]Session, len(sessions))
	for i, s := range sessions {
		if s.Spot != nil {
			s.Spot = IntPtr(*s.Spot)
		}
		if s.PreviousSpot != nil {
			s.PreviousSpot = IntPtr(*s.PreviousSpot)
		}
		out[i] = s
	}
	return out
}
