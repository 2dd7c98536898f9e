package ws

import "sync"

// Registry is the single owner of all shared mutable room state.
// Every member-list and timer read or write goes through it under one
// lock, which is what upholds the snapshot discipline: the live
// member slice is never exposed, only copies.
//
// No ambient global; the hub holds an instance so tests can build
// isolated registries.
type Registry struct {
	mu    sync.Mutex
	rooms map[string]*Room
}

func NewRegistry() *Registry {
	return &Registry{rooms: map[string]*Room{}}
}

// Join adds p to the named room, creating the room with default timer
// state on first join. Returns the timer snapshot for the joiner and
// the member count after the join.
func (reg *Registry) Join(name string, p Peer) (TimerState, int) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	rm := reg.rooms[name]
	if rm == nil {
		rm = newRoom()
		reg.rooms[name] = rm
	}
	rm.members = append(rm.members, p)
	return rm.timer, len(rm.members)
}

// Remove takes p out of the named room and deletes the room, timer
// included, if it became empty. Safe to call twice: the second call
// is a no-op reporting false. Returns the removed member's claimed
// peer id.
func (reg *Registry) Remove(name string, p Peer) (string, bool) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	rm := reg.rooms[name]
	if rm == nil {
		return "", false
	}
	id, ok := rm.remove(p)
	if ok && len(rm.members) == 0 {
		delete(reg.rooms, name)
	}
	return id, ok
}

// Snapshot returns a point-in-time copy of the room's members in join
// order, or nil if the room does not exist.
func (reg *Registry) Snapshot(name string) []Peer {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	rm := reg.rooms[name]
	if rm == nil {
		return nil
	}
	return rm.snapshot()
}

// MemberCount reports the room's current size; ok is false when the
// room does not exist (it was emptied and torn down).
func (reg *Registry) MemberCount(name string) (int, bool) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	rm := reg.rooms[name]
	if rm == nil {
		return 0, false
	}
	return len(rm.members), true
}

// Timer reads the room's current timer state; ok is false when the
// room does not exist.
func (reg *Registry) Timer(name string) (TimerState, bool) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	rm := reg.rooms[name]
	if rm == nil {
		return TimerState{}, false
	}
	return rm.timer, true
}

// ApplyTimer mutates the room's timer state for a recognized action
// and returns the resulting state. Unrecognized actions leave the
// state untouched (the raw message is still broadcast by the caller).
func (reg *Registry) ApplyTimer(name, action string, d TimerData) (TimerState, bool) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	rm := reg.rooms[name]
	if rm == nil {
		return TimerState{}, false
	}
	switch action {
	case "start":
		rm.timer = TimerState{IsRunning: true, TimeLeft: intOr(d.Duration, defaultTimerSeconds)}
	case "pause":
		rm.timer = TimerState{IsRunning: false, TimeLeft: intOr(d.TimeLeft, 0)}
	case "resume":
		rm.timer = TimerState{IsRunning: true, TimeLeft: intOr(d.TimeLeft, 0)}
	case "reset":
		rm.timer = TimerState{IsRunning: false, TimeLeft: defaultTimerSeconds}
	}
	return rm.timer, true
}

// Stats reports total rooms and connected members, for metrics
func (reg *Registry) Stats() (rooms, members int) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	rooms = len(reg.rooms)
	for _, rm := range reg.rooms {
		members += len(rm.members)
	}
	return rooms, members
}

func intOr(v *int, def int) int {
	if v != nil {
		return *v
	}
	return def
}
