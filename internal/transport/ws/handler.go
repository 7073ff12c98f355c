package ws

import (
	"log"
	"net/http"

	"github.com/dkovac/chatline/internal/token"
	"github.com/google/uuid"
	"nhooyr.io/websocket"
)

// ServeWS returns an HTTP handler that upgrades to WebSocket. Identity comes
// from a ?token=xxx JWT query param (WebSocket can't send headers). A missing
// or invalid token still gets a connection, just an unaddressable one: no
// presence entry, so it receives no broadcasts.
func ServeWS(registry *Registry, router *Router, jwtSecret string) http.HandlerFunc {
	secret := []byte(jwtSecret)
	return func(w http.ResponseWriter, r *http.Request) {
		userID := uuid.Nil
		if tokenStr := r.URL.Query().Get("token"); tokenStr != "" {
			id, err := token.ParseUserID(tokenStr, secret)
			if err != nil {
				log.Printf("ws: rejected handshake token: %v", err)
			} else {
				userID = id
			}
		}

		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			InsecureSkipVerify: true, // Allow any origin (dev mode)
		})
		if err != nil {
			log.Printf("ws: accept error: %v", err)
			return
		}

		client := NewClient(registry, router, conn, userID)
		if userID != uuid.Nil {
			registry.Register(userID, client)
			log.Printf("ws: user %s connected (%d total)", userID, registry.Len())
		} else {
			log.Printf("ws: connection without identity accepted")
		}

		go client.WritePump()
		go client.ReadPump()
	}
}
