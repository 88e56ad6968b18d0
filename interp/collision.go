package interp

// movement is one droplet's claim on a destination cell for the coming
// tick, taken from the tick-start snapshot before any effect is committed.
type movement struct {
	id   DropletID
	dest Coordinate
}

// resolveCollisions groups planned destinations and returns the ids of
// every droplet whose destination is claimed more than once. All claimants
// of a contested cell are destroyed, not just a pair, and their planned
// side effects are discarded wholesale. Droplets that stay in place this
// tick make no claim and never collide.
func resolveCollisions(moves []movement) map[DropletID]bool {
	claims := make(map[Coordinate][]DropletID, len(moves))
	for _, m := range moves {
		claims[m.dest] = append(claims[m.dest], m.id)
	}

	doomed := make(map[DropletID]bool)
	for _, ids := range claims {
		if len(ids) < 2 {
			continue
		}
		for _, id := range ids {
			doomed[id] = true
		}
	}
	return doomed
}
