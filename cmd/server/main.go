package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/ugaemi/dragonboatrace-server/internal/api"
	"github.com/ugaemi/dragonboatrace-server/internal/config"
	"github.com/ugaemi/dragonboatrace-server/internal/handler"
	"github.com/ugaemi/dragonboatrace-server/internal/session"
	"github.com/ugaemi/dragonboatrace-server/internal/store"
	"github.com/ugaemi/dragonboatrace-server/internal/ws"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for development
	},
}

func main() {
	cfg, envErr := config.Load()
	setupLogger(cfg)
	if envErr != nil {
		slog.Warn("failed to load .env file", "error", envErr)
	}

	settings, err := cfg.Settings()
	if err != nil {
		slog.Error("invalid race settings", "error", err)
		os.Exit(1)
	}

	st, err := openStore(cfg)
	if err != nil {
		slog.Error("failed to open store", "error", err)
		os.Exit(1)
	}
	defer st.Close()

	hub := ws.NewHub()
	sm := session.NewManager(st, session.Options{
		Settings:     settings,
		TickInterval: cfg.TickInterval(),
	})
	router := handler.NewRouter(sm)

	hub.OnMessage = router.HandleMessage
	hub.OnDisconnect = router.HandleDisconnect

	go hub.Run()

	mux := api.NewRouter(st, sm)
	mux.Get("/ws", func(w http.ResponseWriter, r *http.Request) {
		handleWebSocket(hub, w, r)
	})

	addr := fmt.Sprintf(":%d", cfg.Port)
	slog.Info("server starting", "addr", addr, "players", settings.PlayerCount,
		"difficulty", settings.Difficulty, "length", settings.RaceLength)
	if err := http.ListenAndServe(addr, mux); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

// openStore connects to PostgreSQL when DATABASE_URL is set and falls back to
// memory otherwise.
func openStore(cfg *config.Config) (store.RaceStore, error) {
	if cfg.DatabaseURL == "" {
		slog.Warn("DATABASE_URL not set, saves and results are kept in memory")
		return store.NewMemoryStore(), nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	pg, err := store.NewPostgresStore(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	slog.Info("connected to database")
	return pg, nil
}

func handleWebSocket(hub *ws.Hub, w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("websocket upgrade failed", "error", err)
		return
	}

	client := ws.NewClient(uuid.New().String(), hub, conn)
	hub.Register <- client

	go client.WritePump()
	go client.ReadPump()
}

func setupLogger(cfg *config.Config) {
	var h slog.Handler
	opts := &slog.HandlerOptions{}

	switch cfg.LogLevel {
	case "debug":
		opts.Level = slog.LevelDebug
	case "warn":
		opts.Level = slog.LevelWarn
	case "error":
		opts.Level = slog.LevelError
	default:
		opts.Level = slog.LevelInfo
	}

	switch cfg.LogFormat {
	case "json":
		h = slog.NewJSONHandler(os.Stdout, opts)
	default:
		h = slog.NewTextHandler(os.Stdout, opts)
	}

	slog.SetDefault(slog.New(h))
}
