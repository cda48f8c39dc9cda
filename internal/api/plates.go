package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/nerrad567/intellipark-core/internal/parking"
)

// PlateLookupResponse is the find-my-car view of a session.
type PlateLookupResponse struct {
	Session       parking.Session `json:"session"`
	Spot          *int            `json:"display_spot"`
	DisplayStatus string          `json:"display_status"`
}

// AllowedRequest is the body of POST /allowed.
type AllowedRequest struct {
	Plate string `json:"plate"`
}

// handleLatestForPlate proxies the latest session lookup for a plate.
func (s *Server) handleLatestForPlate(w http.ResponseWriter, r *http.Request) {
	plate := chi.URLParam(r, "plate")
	if strings.Trim(parking.NormalizePlate(plate), "-") == "" {
		writeBadRequest(w, "plate must contain letters or digits")
		return
	}
	sess, err := s.backend.LatestForPlate(r.Context(), plate)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if sess == nil {
		writeNotFound(w, "no session for plate")
		return
	}
	writeJSON(w, http.StatusOK, PlateLookupResponse{
		Session:       *sess,
		Spot:          sess.DisplaySpot(),
		DisplayStatus: parking.DisplayStatus(sess.Status),
	})
}

func (s *Server) handleListAllowed(w http.ResponseWriter, r *http.Request) {
	list, err := s.backend.AllowedList(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"allowed": list,
		"count":   len(list),
	})
}

func (s *Server) handleAddAllowed(w http.ResponseWriter, r *http.Request) {
	var req AllowedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	plate := strings.TrimSpace(req.Plate)
	if plate == "" {
		writeBadRequest(w, "plate is required")
		return
	}
	if err := s.backend.AllowedAdd(r.Context(), plate); err != nil {
		writeDomainError(w, err)
		return
	}
	s.logger.Info("plate added to whitelist", "plate", plate)
	writeJSON(w, http.StatusCreated, AllowedRequest{Plate: plate})
}

func (s *Server) handleRemoveAllowed(w http.ResponseWriter, r *http.Request) {
	plate := strings.TrimSpace(chi.URLParam(r, "plate"))
	if plate == "" {
		writeBadRequest(w, "plate is required")
		return
	}
	if err := s.backend.AllowedRemove(r.Context(), plate); err != nil {
		writeDomainError(w, err)
		return
	}
	s.logger.Info("plate removed from whitelist", "plate", plate)
	w.WriteHeader(http.StatusNoContent)
}
