package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nkwor-Jane/pomodoro-study-app/internal/store"
	"github.com/Nkwor-Jane/pomodoro-study-app/pkg/auth"
)

type stubChatStore struct {
	rooms    map[string]store.Room
	messages map[string][]store.Message
}

func newStubChatStore(roomIDs ...string) *stubChatStore {
	s := &stubChatStore{
		rooms:    make(map[string]store.Room),
		messages: make(map[string][]store.Message),
	}
	for _, id := range roomIDs {
		s.rooms[id] = store.Room{ID: id, Name: id}
	}
	return s
}

func (s *stubChatStore) GetRoom(_ context.Context, id string) (store.Room, error) {
	rm, ok := s.rooms[id]
	if !ok {
		return store.Room{}, errors.New("no rows in result set")
	}
	return rm, nil
}

func (s *stubChatStore) CreateMessage(_ context.Context, content, userID, roomID string) (store.Message, error) {
	m := store.Message{ID: "m1", Content: content, UserID: userID, RoomID: roomID, Timestamp: time.Now()}
	s.messages[roomID] = append(s.messages[roomID], m)
	return m, nil
}

func (s *stubChatStore) ListMessages(_ context.Context, roomID string) ([]store.Message, error) {
	return s.messages[roomID], nil
}

func chatRequest(method, roomID string, body string) *http.Request {
	req := httptest.NewRequest(method, "/api/rooms/"+roomID+"/messages", strings.NewReader(body))
	req.SetPathValue("id", roomID)
	return req.WithContext(auth.WithUser(req.Context(), "user-1"))
}

func TestChatAPI_HistoryUnknownRoom(t *testing.T) {
	api := &ChatAPI{DB: newStubChatStore("r1")}

	w := httptest.NewRecorder()
	api.History(w, chatRequest(http.MethodGet, "ghost", ""))

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestChatAPI_HistoryReturnsMessages(t *testing.T) {
	db := newStubChatStore("r1")
	api := &ChatAPI{DB: db}

	w := httptest.NewRecorder()
	api.Send(w, chatRequest(http.MethodPost, "r1", `{"content":"hello"}`))
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	api.History(w, chatRequest(http.MethodGet, "r1", ""))
	require.Equal(t, http.StatusOK, w.Code)

	var msgs []messageResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&msgs))
	require.Len(t, msgs, 1)
	assert.Equal(t, "hello", msgs[0].Content)
	assert.Equal(t, "user-1", msgs[0].UserID)
	assert.Equal(t, "r1", msgs[0].RoomID)
}

func TestChatAPI_HistoryEmptyRoomIsOK(t *testing.T) {
	api := &ChatAPI{DB: newStubChatStore("r1")}

	w := httptest.NewRecorder()
	api.History(w, chatRequest(http.MethodGet, "r1", ""))
	require.Equal(t, http.StatusOK, w.Code)

	var msgs []messageResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&msgs))
	assert.Empty(t, msgs)
}

func TestChatAPI_SendUnknownRoom(t *testing.T) {
	db := newStubChatStore("r1")
	api := &ChatAPI{DB: db}

	w := httptest.NewRecorder()
	api.Send(w, chatRequest(http.MethodPost, "ghost", `{"content":"hello"}`))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Empty(t, db.messages["ghost"])
}
