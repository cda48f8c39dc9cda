package parking

import (
	"sync"
	"testing"
	"time"
)

func TestSessionCacheReplace(t *testing.T) {
	c := NewSessionCache()
	if c.Version() != 0 {
		t.Fatalf("new cache version = %d", c.Version())
	}
	if got := c.Sessions(); len(got) != 0 {
		t.Fatalf("new cache has %d sessions", len(got))
	}

	at := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	in := []Session{{SessionID: 1, Plate: "A", Status: StatusParked, Spot: IntPtr(1)}}
	v := c.Replace(in, SourceRefresh, at)
	if v != 1 {
		t.Errorf("Replace() version = %d, want 1", v)
	}

	// Mutating the input or output must not change the cache.
	*in[0].Spot = 4
	out := c.Sessions()
	out[0].Plate = "changed"

	st := c.State()
	if *st.Sessions[0].Spot != 1 || st.Sessions[0].Plate != "A" {
		t.Errorf("cache contents changed: %+v", st.Sessions[0])
	}
	if st.Source != SourceRefresh || !st.UpdatedAt.Equal(at) {
		t.Errorf("State() meta = %s %s", st.Source, st.UpdatedAt)
	}

	c.Replace(nil, SourceScene, at)
	if got := c.State(); got.Sessions == nil || len(got.Sessions) != 0 {
		t.Errorf("Replace(nil) should leave an empty list, got %#v", got.Sessions)
	}
}

func TestSessionCacheConcurrent(t *testing.T) {
	c := NewSessionCache()
	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			c.Replace([]Session{{SessionID: i}}, SourceRefresh, time.Now())
		}()
		go func() {
			defer wg.Done()
			_ = DeriveStats(DeriveSpots(4, c.Sessions()))
		}()
	}
	wg.Wait()
	if c.Version() != 20 {
		t.Errorf("Version() = %d, want 20", c.Version())
	}
}
