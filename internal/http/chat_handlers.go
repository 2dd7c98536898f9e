package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/Nkwor-Jane/pomodoro-study-app/internal/store"
	"github.com/Nkwor-Jane/pomodoro-study-app/pkg/auth"
)

// ChatStore is the slice of the store the chat API needs
type ChatStore interface {
	GetRoom(ctx context.Context, id string) (store.Room, error)
	CreateMessage(ctx context.Context, content, userID, roomID string) (store.Message, error)
	ListMessages(ctx context.Context, roomID string) ([]store.Message, error)
}

type ChatAPI struct{ DB ChatStore }

type sendMessageReq struct {
	Content string `json:"content"`
}

type messageResponse struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	UserID    string    `json:"userId"`
	RoomID    string    `json:"roomId"`
	Timestamp time.Time `json:"timestamp"`
}

// Send stores a message in a room's durable history
func (a *ChatAPI) Send(w http.ResponseWriter, r *http.Request) {
	roomID := r.PathValue("id")
	if roomID == "" {
		http.Error(w, "room id required", http.StatusBadRequest)
		return
	}

	var req sendMessageReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Content == "" {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}

	if _, err := a.DB.GetRoom(r.Context(), roomID); err != nil {
		http.Error(w, "room not found", http.StatusNotFound)
		return
	}

	uid := auth.UserID(r.Context())
	m, err := a.DB.CreateMessage(r.Context(), req.Content, uid, roomID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, messageResponse{ID: m.ID, Content: m.Content, UserID: m.UserID, RoomID: m.RoomID, Timestamp: m.Timestamp})
}

// History returns a room's messages in send order
func (a *ChatAPI) History(w http.ResponseWriter, r *http.Request) {
	roomID := r.PathValue("id")
	if roomID == "" {
		http.Error(w, "room id required", http.StatusBadRequest)
		return
	}

	if _, err := a.DB.GetRoom(r.Context(), roomID); err != nil {
		http.Error(w, "room not found", http.StatusNotFound)
		return
	}

	msgs, err := a.DB.ListMessages(r.Context(), roomID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	resp := make([]messageResponse, 0, len(msgs))
	for _, m := range msgs {
		resp = append(resp, messageResponse{ID: m.ID, Content: m.Content, UserID: m.UserID, RoomID: m.RoomID, Timestamp: m.Timestamp})
	}
	writeJSON(w, resp)
}
