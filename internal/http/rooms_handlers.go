package httpx

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/Nkwor-Jane/pomodoro-study-app/internal/store"
	"github.com/Nkwor-Jane/pomodoro-study-app/pkg/auth"
)

type RoomsAPI struct{ DB *store.Postgres }

type createRoomReq struct {
	Name string `json:"name"`
}

type roomResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	OwnerID   string    `json:"ownerId"`
	CreatedAt time.Time `json:"createdAt"`
}

// Create handles new study room creation for the authenticated user.
// This is durable metadata only; live membership is the relay's.
func (a *RoomsAPI) Create(w http.ResponseWriter, r *http.Request) {
	var req createRoomReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}

	uid := auth.UserID(r.Context())
	rm, err := a.DB.CreateRoom(r.Context(), req.Name, uid)
	if err != nil {
		http.Error(w, "room already exists", http.StatusConflict)
		return
	}

	writeJSON(w, roomResponse{ID: rm.ID, Name: rm.Name, OwnerID: rm.OwnerID, CreatedAt: rm.CreatedAt})
}

// List returns all rooms
func (a *RoomsAPI) List(w http.ResponseWriter, r *http.Request) {
	rooms, err := a.DB.ListRooms(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	resp := make([]roomResponse, 0, len(rooms))
	for _, rm := range rooms {
		resp = append(resp, roomResponse{ID: rm.ID, Name: rm.Name, OwnerID: rm.OwnerID, CreatedAt: rm.CreatedAt})
	}
	writeJSON(w, resp)
}
