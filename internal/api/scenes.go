package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/nerrad567/intellipark-core/internal/scene"
)

// refreshTimeout bounds a manual session refresh.
const refreshTimeout = 15 * time.Second

// SceneResponse is one catalog entry with its gate mode.
type SceneResponse struct {
	scene.Entry
	Mode string `json:"mode"`
}

// TriggerResponse acknowledges an accepted trigger.
type TriggerResponse struct {
	TriggerID string `json:"trigger_id"`
	SceneID   string `json:"scene_id"`
	Status    string `json:"status"`
}

func toSceneResponse(e scene.Entry) SceneResponse {
	return SceneResponse{Entry: e, Mode: string(e.Scene.Mode())}
}

// handleListScenes returns the configured scenes in catalog order.
func (s *Server) handleListScenes(w http.ResponseWriter, _ *http.Request) {
	entries := s.scenes.Catalog().List()
	out := make([]SceneResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, toSceneResponse(e))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"scenes": out,
		"count":  len(out),
	})
}

func (s *Server) handleGetScene(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	e, ok := s.scenes.Catalog().Get(id)
	if !ok {
		writeDomainError(w, scene.ErrSceneNotFound)
		return
	}
	writeJSON(w, http.StatusOK, toSceneResponse(e))
}

// handleTriggerScene starts a scene and returns before the backend answers.
// Progress is pushed over the WebSocket and visible in /gate.
func (s *Server) handleTriggerScene(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	triggerID, err := s.scenes.Trigger(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, TriggerResponse{
		TriggerID: triggerID,
		SceneID:   id,
		Status:    "accepted",
	})
}

func (s *Server) handleDashboard(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.scenes.Status())
}

func (s *Server) handleLot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.scenes.Lot())
}

func (s *Server) handleGate(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.scenes.Gate())
}

// handleRefreshSessions reloads sessions from the backend. On failure the
// cached layout is kept and 502 is returned.
func (s *Server) handleRefreshSessions(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), refreshTimeout)
	defer cancel()

	if err := s.scenes.Refresh(ctx); err != nil {
		s.logger.Warn("manual refresh failed", "error", err)
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.scenes.Lot())
}
