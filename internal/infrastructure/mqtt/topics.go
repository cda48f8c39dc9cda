package mqtt

import "strings"

// DefaultPrefix is used when no topic prefix is configured.
const DefaultPrefix = "intellipark"

// Topics builds IntelliPark topic names under a prefix.
type Topics struct {
	Prefix string
}

func (t Topics) root() string {
	if t.Prefix == "" {
		return DefaultPrefix
	}
	return strings.TrimRight(t.Prefix, "/")
}

// GateState is the retained gate snapshot topic.
func (t Topics) GateState() string {
	return t.root() + "/gate/state"
}

// LotStats is the retained occupancy topic.
func (t Topics) LotStats() string {
	return t.root() + "/lot/stats"
}

// SceneEvents carries scene outcomes and denials.
func (t Topics) SceneEvents() string {
	return t.root() + "/scene/events"
}

// SystemStatus is the retained online/offline topic, also used as LWT.
func (t Topics) SystemStatus() string {
	return t.root() + "/system/status"
}

// SceneCommand is the trigger topic for one scene.
func (t Topics) SceneCommand(sceneID string) string {
	return t.root() + "/command/scene/" + sceneID
}

// AllSceneCommands matches every scene trigger topic.
func (t Topics) AllSceneCommands() string {
	return t.root() + "/command/scene/+"
}

// ParseSceneCommand extracts the scene id from a trigger topic.
func (t Topics) ParseSceneCommand(topic string) (string, bool) {
	id, ok := strings.CutPrefix(topic, t.root()+"/command/scene/")
	if !ok || id == "" || strings.Contains(id, "/") {
		return "", false
	}
	return id, true
}
