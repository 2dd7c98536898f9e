package store

import "time"

type User struct {
	ID        string
	Username  string
	CreatedAt time.Time
}

type Room struct {
	ID        string
	Name      string
	OwnerID   string
	CreatedAt time.Time
}

type Message struct {
	ID        string
	Content   string
	UserID    string
	RoomID    string
	Timestamp time.Time
}
