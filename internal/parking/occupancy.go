package parking

// Spot is one numbered bay in the derived grid.
type Spot struct {
	Spot     int    `json:"spot"`
	Occupied bool   `json:"occupied"`
	Plate    string `json:"plate"`
	Status   string `json:"status"`
}

// Stats aggregates a spot grid.
type Stats struct {
	Total int `json:"total"`
	Taken int `json:"taken"`
	Empty int `json:"empty"`
}

// Full reports whether every spot of a non-empty lot is taken.
func (s Stats) Full() bool {
	return s.Total > 0 && s.Empty == 0
}

// DeriveSpots builds the spot grid for a lot of total spots.
//
// Sessions that have a spot and are not exited occupy that spot; when two
// sessions claim the same spot the later one in the slice wins. The grid
// grows beyond total when an occupied spot number exceeds it, and a
// negative total is treated as zero. Spot numbers below 1 cannot be placed
// and are ignored.
func DeriveSpots(total int, sessions []Session) []Spot {
	occupied := make(map[int]Session)
	highest := 0
	for _, s := range sessions {
		if s.Spot == nil || s.Exited() {
			continue
		}
		n := *s.Spot
		if n < 1 {
			continue
		}
		occupied[n] = s
		if n > highest {
			highest = n
		}
	}

	count := max(total, highest, 0)
	spots := make([]Spot, count)
	for i := range spots {
		num := i + 1
		spot := Spot{Spot: num, Status: StatusEmpty}
		if s, ok := occupied[num]; ok {
			spot.Occupied = true
			spot.Plate = s.Plate
			if s.Status != "" {
				spot.Status = s.Status
			}
		}
		spots[i] = spot
	}
	return spots
}

// DeriveStats counts taken and empty spots.
func DeriveStats(spots []Spot) Stats {
	taken := 0
	for _, s := range spots {
		if s.Occupied {
			taken++
		}
	}
	return Stats{
		Total: len(spots),
		Taken: taken,
		Empty: len(spots) - taken,
	}
}
