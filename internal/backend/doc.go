// Package backend is the HTTP client for the parking backend.
//
// The backend owns sessions and the plate whitelist. Every response is
// wrapped in a {"data": ..., "status": bool} envelope. Scene triggers return
// either the updated session list or a denial payload:
//
//	POST /scene/{id} → {"data": {"db": [...]}}
//	                 | {"data": {"error": "...", "plate": "...", "message": "..."}}
//
// A denial is a successful outcome, reported through SceneResult.Denial.
// Network failures wrap ErrTransport and unusable payloads wrap
// ErrMalformed; callers treat both the same way and keep their cached state.
package backend
