package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/dkovac/chatline/internal/config"
	"github.com/dkovac/chatline/internal/database"
	postgresrepo "github.com/dkovac/chatline/internal/repository/postgres"
	"github.com/dkovac/chatline/internal/service"
	"github.com/dkovac/chatline/internal/transport/http/handlers"
	"github.com/dkovac/chatline/internal/transport/http/middleware"
	"github.com/dkovac/chatline/internal/transport/ws"
)

func main() {
	cfg := config.Load()

	// Database
	pool, err := database.Connect(context.Background(), cfg.DatabaseURL())
	if err != nil {
		log.Fatal(err)
	}
	defer pool.Close()
	log.Println("Connected to database")

	// Repositories
	userRepo := postgresrepo.NewUserRepo(pool)
	messageRepo := postgresrepo.NewMessageRepo(pool)
	channelRepo := postgresrepo.NewChannelRepo(pool)

	// Services
	authService := service.NewAuthService(userRepo, cfg.JWTSecret)
	messageService := service.NewMessageService(messageRepo)
	channelService := service.NewChannelService(channelRepo, userRepo, messageRepo)

	// Real-time relay
	registry := ws.NewRegistry()
	router := ws.NewRouter(registry, userRepo, messageRepo, channelRepo)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	messageHandler := handlers.NewMessageHandler(messageService)
	channelHandler := handlers.NewChannelHandler(channelService)

	// Auth middleware
	auth := middleware.Auth(cfg.JWTSecret)

	// Routes
	mux := http.NewServeMux()

	// Public
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status": "ok"}`))
	})
	mux.HandleFunc("POST /api/v1/auth/signup", authHandler.Signup)
	mux.HandleFunc("POST /api/v1/auth/login", authHandler.Login)

	// Protected - Profile & contacts
	mux.Handle("POST /api/v1/auth/logout", auth(http.HandlerFunc(authHandler.Logout)))
	mux.Handle("GET /api/v1/auth/me", auth(http.HandlerFunc(authHandler.UserInfo)))
	mux.Handle("PATCH /api/v1/auth/profile", auth(http.HandlerFunc(authHandler.UpdateProfile)))
	mux.Handle("GET /api/v1/contacts/search", auth(http.HandlerFunc(authHandler.SearchContacts)))
	mux.Handle("GET /api/v1/contacts/dm", auth(http.HandlerFunc(authHandler.ListDMContacts)))

	// Protected - Direct messages
	mux.Handle("GET /api/v1/messages/{id}", auth(http.HandlerFunc(messageHandler.ListBetween)))
	mux.Handle("PATCH /api/v1/messages/{id}", auth(http.HandlerFunc(messageHandler.Edit)))
	mux.Handle("DELETE /api/v1/messages/{id}", auth(http.HandlerFunc(messageHandler.Delete)))

	// Protected - Channels
	mux.Handle("POST /api/v1/channels", auth(http.HandlerFunc(channelHandler.Create)))
	mux.Handle("GET /api/v1/channels", auth(http.HandlerFunc(channelHandler.List)))
	mux.Handle("GET /api/v1/channels/{id}", auth(http.HandlerFunc(channelHandler.Get)))
	mux.Handle("GET /api/v1/channels/{id}/messages", auth(http.HandlerFunc(channelHandler.ListMessages)))
	mux.Handle("POST /api/v1/channels/{id}/members", auth(http.HandlerFunc(channelHandler.AddMembers)))
	mux.Handle("GET /api/v1/channels/{id}/pins", auth(http.HandlerFunc(channelHandler.ListPinned)))
	mux.Handle("POST /api/v1/channels/{id}/pins/{mid}", auth(http.HandlerFunc(channelHandler.Pin)))
	mux.Handle("DELETE /api/v1/channels/{id}/pins/{mid}", auth(http.HandlerFunc(channelHandler.Unpin)))

	// WebSocket
	mux.HandleFunc("GET /ws", ws.ServeWS(registry, router, cfg.JWTSecret))

	// Start server with CORS
	addr := fmt.Sprintf(":%s", cfg.ServerPort)
	log.Printf("Starting server on %s", addr)
	log.Fatal(http.ListenAndServe(addr, middleware.CORS(cfg.Origin, mux)))
}
