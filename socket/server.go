package socket

import (
	"log"

	socketio "github.com/googollee/go-socket.io"

	"hyyq_server/models"
)

// NewSocketServer initializes the Socket.IO server. Clients emit "watch"
// with a match id to enter that match's room and receive participant and
// status events; "unwatch" leaves it.
func NewSocketServer() *socketio.Server {
	server := socketio.NewServer(nil)

	server.OnConnect("/", func(s socketio.Conn) error {
		log.Println("Socket connected:", s.ID())
		return nil
	})

	server.OnEvent("/", "watch", func(s socketio.Conn, matchID string) {
		if matchID == "" {
			return
		}
		s.Join(roomName(matchID))
	})

	server.OnEvent("/", "unwatch", func(s socketio.Conn, matchID string) {
		if matchID == "" {
			return
		}
		s.Leave(roomName(matchID))
	})

	server.OnError("/", func(s socketio.Conn, err error) {
		log.Println("Socket error:", err)
	})

	server.OnDisconnect("/", func(s socketio.Conn, reason string) {
		log.Println("Socket disconnected:", reason)
	})

	return server
}

// Broadcaster pushes match events into the match's room.
type Broadcaster struct {
	Server *socketio.Server
}

// MatchEvent broadcasts the updated match to everyone watching it.
func (b *Broadcaster) MatchEvent(event string, m *models.Match) {
	b.Server.BroadcastToRoom("/", roomName(m.MatchID), event, m)
}

func roomName(matchID string) string {
	return "match:" + matchID
}
