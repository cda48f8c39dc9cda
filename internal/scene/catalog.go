package scene

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/nerrad567/intellipark-core/internal/gate"
)

// Scene is the static media configuration of one scenario. Any image may
// be absent.
type Scene struct {
	Entry     *string `json:"entry"`
	LotBefore *string `json:"lot_before"`
	LotAfter  *string `json:"lot_after"`
	Exit      *string `json:"exit"`
	Type      string  `json:"type"`
}

// Mode returns the gate mode for the scene.
func (s Scene) Mode() gate.Mode {
	return gate.ModeFromType(s.Type)
}

// Entry is a catalog item.
type Entry struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Scene Scene  `json:"scene"`
}

// Catalog is the immutable set of configured scenes.
type Catalog struct {
	byID  map[string]Entry
	order []string
}

// NewCatalog builds a catalog. Scene types must be "entry", "exit" or
// empty (treated as entry).
func NewCatalog(entries []Entry) (*Catalog, error) {
	c := &Catalog{byID: make(map[string]Entry, len(entries))}
	for _, e := range entries {
		if e.ID == "" {
			return nil, fmt.Errorf("%w: empty id", ErrInvalidScene)
		}
		if _, dup := c.byID[e.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate id %q", ErrInvalidScene, e.ID)
		}
		switch e.Scene.Type {
		case "", string(gate.ModeEntry), string(gate.ModeExit):
		default:
			return nil, fmt.Errorf("%w: scene %s: unknown type %q", ErrInvalidScene, e.ID, e.Scene.Type)
		}
		if e.Label == "" {
			e.Label = defaultLabel(e.ID, e.Scene.Mode())
		}
		c.byID[e.ID] = e
		c.order = append(c.order, e.ID)
	}
	sort.Slice(c.order, func(i, j int) bool { return lessID(c.order[i], c.order[j]) })
	return c, nil
}

// Get returns the entry for id.
func (c *Catalog) Get(id string) (Entry, bool) {
	e, ok := c.byID[id]
	return e, ok
}

// List returns all entries ordered by id, numerically where possible.
func (c *Catalog) List() []Entry {
	out := make([]Entry, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.byID[id])
	}
	return out
}

// Len returns the number of scenes.
func (c *Catalog) Len() int {
	return len(c.order)
}

func defaultLabel(id string, mode gate.Mode) string {
	if mode == gate.ModeExit {
		return "Scene " + id + " exit"
	}
	return "Scene " + id + " entry"
}

func lessID(a, b string) bool {
	na, errA := strconv.Atoi(a)
	nb, errB := strconv.Atoi(b)
	switch {
	case errA == nil && errB == nil:
		return na < nb
	case errA == nil:
		return true
	case errB == nil:
		return false
	}
	return a < b
}
