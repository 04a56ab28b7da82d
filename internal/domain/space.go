package domain

import "time"

type SpaceState string

const (
	SpaceFree     SpaceState = "Libre"
	SpaceOccupied SpaceState = "Ocupado"
)

// NormalizeSpaceState maps legacy inputs onto the two-state model.
// The old API wrote "Reservado" on entry but only ever checked for
// "Libre", so anything reserved is treated as occupied.
func NormalizeSpaceState(s string) (SpaceState, bool) {
	switch s {
	case string(SpaceFree):
		return SpaceFree, true
	case string(SpaceOccupied), "Reservado":
		return SpaceOccupied, true
	}
	return "", false
}

// Space is a single parking slot with a human-readable number.
type Space struct {
	ID        string
	Number    string
	State     SpaceState
	CreatedAt time.Time
}

func (s Space) Available() bool {
	return s.State == SpaceFree
}
