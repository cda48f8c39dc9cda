package backend

import (
	"encoding/json"

	"github.com/nerrad567/intellipark-core/internal/parking"
)

// envelope is the common response wrapper.
type envelope struct {
	Data   json.RawMessage `json:"data"`
	Status *bool           `json:"status,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// Denial describes a vehicle the backend refused.
type Denial struct {
	Error   string `json:"error"`
	Plate   string `json:"plate,omitempty"`
	Message string `json:"message,omitempty"`
}

// Text returns the message to show for the denial.
func (d Denial) Text() string {
	if d.Message != "" {
		return d.Message
	}
	return d.Error
}

// SceneResult is the outcome of a scene trigger. Exactly one of Sessions
// and Denial is set.
type SceneResult struct {
	Sessions []parking.Session
	Denial   *Denial
}

// scenePayload covers both shapes of the scene response data.
type scenePayload struct {
	DB      *[]parking.Session `json:"db"`
	Error   string             `json:"error"`
	Plate   string             `json:"plate"`
	Message string             `json:"message"`
}

// AllowedCar is one whitelist entry.
type AllowedCar struct {
	Plate string `json:"plate"`
}

type platePayload struct {
	Plate string `json:"plate"`
}
