package httpapi

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"
)

// wsFrame is the single frame shape used in both directions. Outbound
// frames carry type "console_output" with Message set; inbound frames
// carry type "user_input" with Input set.
type wsFrame struct {
	Type    string `json:"type"`
	Message string `json:"message,omitempty"`
	Input   string `json:"input,omitempty"`
}

var upgrader = websocket.Upgrader{
	// The HTTP surface is already open to any origin.
	CheckOrigin: func(*http.Request) bool { return true },
}

// handleWS upgrades the request and makes it the active console channel.
// The previous connection, if any, is closed; a pending clarification
// keeps waiting and can be answered from the new connection.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("websocket upgrade failed", "error", err)
		return
	}

	s.wsMu.Lock()
	old := s.conn
	s.conn = conn
	s.wsMu.Unlock()
	if old != nil {
		old.Close()
	}

	slog.Info("websocket client connected", "remote", r.RemoteAddr)
	go s.readFrames(conn)
}

// HasClient reports whether a websocket client is currently attached.
func (s *Server) HasClient() bool {
	s.wsMu.Lock()
	defer s.wsMu.Unlock()
	return s.conn != nil
}

// forwardConsole is the console sink: each line becomes one frame to the
// active client. With no client attached the line is dropped.
func (s *Server) forwardConsole(line string) {
	s.wsMu.Lock()
	defer s.wsMu.Unlock()
	if s.conn == nil {
		return
	}
	if err := s.conn.WriteJSON(wsFrame{Type: "console_output", Message: line}); err != nil {
		slog.Debug("websocket write failed", "error", err)
	}
}

// readFrames pumps inbound frames until the connection dies. user_input
// frames feed the agent's answer queue; anything else is ignored.
func (s *Server) readFrames(conn *websocket.Conn) {
	defer func() {
		s.wsMu.Lock()
		if s.conn == conn {
			s.conn = nil
		}
		s.wsMu.Unlock()
		conn.Close()
	}()

	for {
		mt, data, err := conn.ReadMessage()
		if err != nil {
			slog.Info("websocket client disconnected")
			return
		}
		if mt != websocket.TextMessage {
			continue
		}
		var frame wsFrame
		if err := json.Unmarshal(data, &frame); err != nil {
			slog.Debug("discarding malformed websocket frame", "error", err)
			continue
		}
		if frame.Type == "user_input" {
			s.agent.ProvideAnswer(frame.Input)
		}
	}
}
