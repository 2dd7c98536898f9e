package httpx

import (
	"log/slog"
	"net/http"

	"github.com/Nkwor-Jane/pomodoro-study-app/internal/app"
	"github.com/Nkwor-Jane/pomodoro-study-app/internal/store"
	"github.com/Nkwor-Jane/pomodoro-study-app/internal/ws"
	"github.com/Nkwor-Jane/pomodoro-study-app/pkg/auth"
	"github.com/Nkwor-Jane/pomodoro-study-app/pkg/metrics"
)

// NewRouter wires up all HTTP routes, middleware, and handlers
func NewRouter(cfg app.Config, logger *slog.Logger, hub *ws.Hub, db *store.Postgres) http.Handler {
	mw := NewMiddleware(cfg)

	j := auth.New(cfg.JWTSecret)
	authAPI := &AuthAPI{DB: db, JWT: j}
	roomsAPI := &RoomsAPI{DB: db}
	chatAPI := &ChatAPI{DB: db}

	mux := http.NewServeMux()

	// Health / readiness / metrics
	mux.Handle("/healthz", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(200) }))
	mux.Handle("/readyz", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := db.Ping(r.Context()); err != nil {
			http.Error(w, "db unreachable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(200)
	}))
	mux.Handle("/metrics", metrics.Handler())

	// WebSocket relay, addressed by room name in the path
	mux.Handle("GET /ws/{room}", http.HandlerFunc(hub.ServeWS))

	// Auth endpoints
	mux.Handle("POST /api/auth/register", http.HandlerFunc(authAPI.Register))
	mux.Handle("POST /api/auth/login", http.HandlerFunc(authAPI.Login))
	mux.Handle("GET /api/auth/me", mw.Auth(http.HandlerFunc(authAPI.Me)))

	// Rooms + chat history (JWT-protected)
	mux.Handle("POST /api/rooms", mw.Auth(http.HandlerFunc(roomsAPI.Create)))
	mux.Handle("GET /api/rooms", mw.Auth(http.HandlerFunc(roomsAPI.List)))
	mux.Handle("POST /api/rooms/{id}/messages", mw.Auth(http.HandlerFunc(chatAPI.Send)))
	mux.Handle("GET /api/rooms/{id}/messages", mw.Auth(http.HandlerFunc(chatAPI.History)))

	// CORS + rate limit applied globally
	return mw.Wrap(mux)
}
