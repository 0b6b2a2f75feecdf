package events

import (
	"net/http"

	ws "github.com/coder/websocket"

	"github.com/adforge/adforge/internal/auth"
)

// Handler returns an HTTP handler that upgrades the connection and
// subscribes it to the signed-in user's event stream. Mounted behind the
// auth middleware, so the user id is always present.
func Handler(hub *Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := auth.UserID(r.Context())
		if userID == "" {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		conn, err := ws.Accept(w, r, nil)
		if err != nil {
			hub.logger.Warn("websocket accept", "error", err)
			return
		}

		client := NewClient(hub, conn, userID)
		client.Run(r.Context())
	}
}
