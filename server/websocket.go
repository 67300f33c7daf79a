package server

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"
)

// handleWebSocket answers {"type":"question"} messages one at a time, in
// the order they arrive.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.WithError(err).Warn("websocket upgrade failed")
		return
	}
	defer conn.Close()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.log.WithError(err).Warn("error reading message")
			}
			return
		}

		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			s.send(conn, "error", "invalid message")
			continue
		}
		if msg.Type != "question" {
			s.send(conn, "error", "unsupported message type")
			continue
		}

		reply := s.asker.Ask(r.Context(), msg.Content)
		if reply.Error != "" {
			s.send(conn, "error", reply.Error)
		} else {
			s.send(conn, "answer", reply.Answer)
		}
	}
}

func (s *Server) send(conn *websocket.Conn, msgType, content string) {
	if err := conn.WriteJSON(Message{Type: msgType, Content: content}); err != nil {
		s.log.WithError(err).Warn("error sending message")
	}
}
