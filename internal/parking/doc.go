// Package parking models parking sessions and derives lot occupancy.
//
// Sessions are owned by the backend. The dashboard keeps a read-only copy
// in a SessionCache, replaced wholesale on every refresh or scene response,
// and recomputes the spot grid and statistics from it on demand:
//
//	sessions ──DeriveSpots(total)──▶ []Spot ──DeriveStats──▶ Stats
//
// Derivation is pure: the same inputs always give the same grid.
package parking
