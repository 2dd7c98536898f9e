package ws

// Room groups the live connections of one named study room together
// with the timer state they share. Rooms exist only while they have
// members; the registry creates one on first join and drops it, timer
// included, when the last member leaves.
//
// Members are kept in join order. Targeted relay picks the first
// matching peer id, so with duplicate ids the earliest joiner wins.
type Room struct {
	members []Peer
	timer   TimerState
}

func newRoom() *Room {
	return &Room{timer: TimerState{IsRunning: false, TimeLeft: defaultTimerSeconds}}
}

// snapshot is a point-in-time copy of the member list so a fanout can
// iterate it while joins and removals mutate the live slice
func (r *Room) snapshot() []Peer {
	out := make([]Peer, len(r.members))
	copy(out, r.members)
	return out
}

func (r *Room) remove(p Peer) (string, bool) {
	for i, m := range r.members {
		if m == p {
			r.members = append(r.members[:i], r.members[i+1:]...)
			return m.ID(), true
		}
	}
	return "", false
}
