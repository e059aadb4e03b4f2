package model

// ViewModel pairs a Profile with its most recent activity for rendering.
// It is rebuilt on every lookup and never mutated afterwards.
type ViewModel struct {
	Profile        Profile         `json:"profile"`
	RecentActivity []ActivityEvent `json:"recentActivity"`
}

// NewViewModel keeps at most limit events, in the order given. The events are
// copied so the ViewModel never shares a backing array with the caller.
func NewViewModel(profile Profile, events []ActivityEvent, limit int) ViewModel {
	if limit < 0 {
		limit = 0
	}
	n := min(len(events), limit)

	recent := make([]ActivityEvent, n)
	copy(recent, events[:n])

	return ViewModel{
		Profile:        profile,
		RecentActivity: recent,
	}
}
