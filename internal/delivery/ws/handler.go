package ws

import (
	"log/slog"
	"net/http"
	"strings"

	"karya-backend/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// NewHandler registers the realtime endpoint. The route must sit behind
// the auth middleware so the hub can key the socket by user id.
func NewHandler(r *gin.RouterGroup, hub *Hub, frontendURL string) {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(req *http.Request) bool {
			origin := req.Header.Get("Origin")
			if origin == "" {
				return true
			}
			return strings.EqualFold(strings.TrimRight(origin, "/"), frontendURL)
		},
	}

	r.GET("/ws", func(c *gin.Context) {
		userID := c.GetString(string(domain.KeyUserID))
		if userID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			slog.Warn("Websocket upgrade failed", "user_id", userID, "error", err)
			return
		}
		hub.serve(userID, conn)
	})
}
