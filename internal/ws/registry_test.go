package ws

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_RoomLifecycle(t *testing.T) {
	reg := NewRegistry()
	p1 := &mockPeer{id: "p1"}
	p2 := &mockPeer{id: "p2"}

	timer, count := reg.Join("r1", p1)
	assert.Equal(t, TimerState{IsRunning: false, TimeLeft: 1500}, timer)
	assert.Equal(t, 1, count)

	_, count = reg.Join("r1", p2)
	assert.Equal(t, 2, count)

	dur := 600
	reg.ApplyTimer("r1", "start", TimerData{Duration: &dur})

	rooms, members := reg.Stats()
	assert.Equal(t, 1, rooms)
	assert.Equal(t, 2, members)

	id, ok := reg.Remove("r1", p1)
	require.True(t, ok)
	assert.Equal(t, "p1", id)
	rooms, _ = reg.Stats()
	assert.Equal(t, 1, rooms, "room survives while a member remains")

	_, ok = reg.Remove("r1", p2)
	require.True(t, ok)
	rooms, members = reg.Stats()
	assert.Equal(t, 0, rooms, "empty room is torn down with its last member")
	assert.Equal(t, 0, members)

	// Timer state did not survive the empty-room gap
	timer, _ = reg.Join("r1", p1)
	assert.Equal(t, TimerState{IsRunning: false, TimeLeft: 1500}, timer)
}

func TestRegistry_IdempotentRemove(t *testing.T) {
	reg := NewRegistry()
	p1 := &mockPeer{id: "p1"}
	p2 := &mockPeer{id: "p2"}
	reg.Join("r1", p1)
	reg.Join("r1", p2)

	_, ok := reg.Remove("r1", p1)
	require.True(t, ok)

	_, ok = reg.Remove("r1", p1)
	assert.False(t, ok, "second removal is a no-op")

	count, exists := reg.MemberCount("r1")
	require.True(t, exists)
	assert.Equal(t, 1, count, "membership is never double-decremented")

	// Removing from a room that never existed is also safe
	_, ok = reg.Remove("ghost", p1)
	assert.False(t, ok)
}

func TestRegistry_SnapshotIsolation(t *testing.T) {
	reg := NewRegistry()
	p1 := &mockPeer{id: "p1"}
	p2 := &mockPeer{id: "p2"}
	reg.Join("r1", p1)
	reg.Join("r1", p2)

	snap := reg.Snapshot("r1")
	require.Len(t, snap, 2)

	// Joins and removals after the snapshot do not affect it
	reg.Join("r1", &mockPeer{id: "p3"})
	reg.Remove("r1", p1)
	assert.Len(t, snap, 2)
	assert.Same(t, p1, snap[0].(*mockPeer))
	assert.Same(t, p2, snap[1].(*mockPeer))

	assert.Nil(t, reg.Snapshot("ghost"))
}

func TestRegistry_JoinOrderPreserved(t *testing.T) {
	reg := NewRegistry()
	// Duplicate peer ids are accepted; order stays join order, so a
	// targeted relay always finds the earliest joiner first
	a := &mockPeer{id: "dup"}
	b := &mockPeer{id: "dup"}
	c := &mockPeer{id: "other"}
	reg.Join("r1", a)
	reg.Join("r1", b)
	reg.Join("r1", c)

	snap := reg.Snapshot("r1")
	require.Len(t, snap, 3)
	assert.Same(t, a, snap[0].(*mockPeer))
	assert.Same(t, b, snap[1].(*mockPeer))
	assert.Same(t, c, snap[2].(*mockPeer))
}

func TestRegistry_TimerTransitions(t *testing.T) {
	intp := func(v int) *int { return &v }

	steps := []struct {
		action string
		data   TimerData
		want   TimerState
	}{
		{"start", TimerData{Duration: intp(600)}, TimerState{IsRunning: true, TimeLeft: 600}},
		{"pause", TimerData{TimeLeft: intp(550)}, TimerState{IsRunning: false, TimeLeft: 550}},
		{"resume", TimerData{TimeLeft: intp(550)}, TimerState{IsRunning: true, TimeLeft: 550}},
		{"reset", TimerData{}, TimerState{IsRunning: false, TimeLeft: 1500}},
	}

	reg := NewRegistry()
	reg.Join("r1", &mockPeer{id: "p1"})

	for _, st := range steps {
		got, ok := reg.ApplyTimer("r1", st.action, st.data)
		require.True(t, ok)
		assert.Equal(t, st.want, got, "after %s", st.action)
	}
}

func TestRegistry_TimerDefaults(t *testing.T) {
	tests := []struct {
		name   string
		action string
		data   TimerData
		want   TimerState
	}{
		{"start without duration", "start", TimerData{}, TimerState{IsRunning: true, TimeLeft: 1500}},
		{"pause without remaining", "pause", TimerData{}, TimerState{IsRunning: false, TimeLeft: 0}},
		{"resume without remaining", "resume", TimerData{}, TimerState{IsRunning: true, TimeLeft: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := NewRegistry()
			reg.Join("r1", &mockPeer{id: "p1"})

			got, ok := reg.ApplyTimer("r1", tt.action, tt.data)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRegistry_UnknownTimerActionLeavesStateAlone(t *testing.T) {
	reg := NewRegistry()
	reg.Join("r1", &mockPeer{id: "p1"})

	dur := 600
	reg.ApplyTimer("r1", "start", TimerData{Duration: &dur})

	got, ok := reg.ApplyTimer("r1", "shuffle", TimerData{})
	require.True(t, ok)
	assert.Equal(t, TimerState{IsRunning: true, TimeLeft: 600}, got)

	_, ok = reg.ApplyTimer("ghost", "start", TimerData{})
	assert.False(t, ok)
}
