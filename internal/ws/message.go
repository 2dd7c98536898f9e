package ws

import "encoding/json"

// Message types the relay core produces or dispatches on. Anything
// else coming from a client is relayed verbatim.
const (
	TypeJoin      = "join"
	TypeChat      = "chat"
	TypeTimer     = "timer"
	TypeOffer     = "offer"
	TypeAnswer    = "answer"
	TypeCandidate = "candidate"
	TypeTimerSync = "timer-sync"
	TypeMembers   = "members"
	TypeNewPeer   = "new-peer"
	TypePeerLeft  = "peer-left"
)

// defaultTimerSeconds is the pomodoro default for fresh rooms (25 min)
const defaultTimerSeconds = 25 * 60

// TimerState is the shared countdown state of one room. Latest value
// wins; nothing is persisted across an empty-room gap.
type TimerState struct {
	IsRunning bool `json:"isRunning"`
	TimeLeft  int  `json:"timeLeft"`
}

// TimerData carries the optional values of a timer action. Pointers
// distinguish "absent" from an explicit zero.
type TimerData struct {
	Duration *int `json:"duration,omitempty"`
	TimeLeft *int `json:"timeLeft,omitempty"`
}

// Envelope is the decoded view of any inbound client message. Only
// the fields the dispatcher looks at are typed; Data stays raw so
// timer payloads can be echoed back untouched.
type Envelope struct {
	Type   string          `json:"type"`
	ID     string          `json:"id,omitempty"`
	To     string          `json:"to,omitempty"`
	Text   string          `json:"text,omitempty"`
	Sender string          `json:"sender,omitempty"`
	From   string          `json:"from,omitempty"`
	Action string          `json:"action,omitempty"`
	Data   json.RawMessage `json:"data,omitempty"`
}

type timerSyncMessage struct {
	Type string     `json:"type"`
	Data TimerState `json:"data"`
}

type membersMessage struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
}

type peerMessage struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

type chatMessage struct {
	Type   string `json:"type"`
	Text   string `json:"text"`
	Sender string `json:"sender"`
	From   string `json:"from"`
}

type timerMessage struct {
	Type   string          `json:"type"`
	Action string          `json:"action"`
	Data   json.RawMessage `json:"data"`
	From   string          `json:"from"`
}
