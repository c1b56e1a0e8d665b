package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/AdityaMalani1302/cms/internal/chatbot"
	"github.com/AdityaMalani1302/cms/internal/types"
)

// handleWS serves the chat over a WebSocket. Each inbound text frame is a
// ProcessRequest body; the session id is fixed for the connection and comes
// from the sessionId query parameter or is generated.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	upgrader := websocket.Upgrader{CheckOrigin: s.checkOrigin}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	sessionID := strings.TrimSpace(r.URL.Query().Get("sessionId"))
	if sessionID == "" {
		sessionID = chatbot.NewSessionID()
	}
	if err := conn.WriteJSON(types.WSFrame{Type: "connected", SessionID: sessionID}); err != nil {
		s.logger.Warn("failed to send connected frame", zap.Error(err))
		return
	}

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Warn("websocket closed unexpectedly", zap.String("session_id", sessionID), zap.Error(err))
			}
			return
		}

		var req types.ProcessRequest
		if err := json.Unmarshal(data, &req); err != nil {
			if !s.writeFrame(conn, types.WSFrame{Type: "error", Error: "invalid message format", SessionID: sessionID}) {
				return
			}
			continue
		}
		if strings.TrimSpace(req.Message) == "" {
			if !s.writeFrame(conn, types.WSFrame{Type: "error", Error: "Missing message in request", SessionID: sessionID}) {
				return
			}
			continue
		}

		res, err := s.engine.Process(r.Context(), chatbot.Request{
			Message:   req.Message,
			SessionID: sessionID,
			UserID:    req.UserID,
			Context:   req.Context,
		})
		if err != nil {
			s.logger.Error("websocket message failed", zap.String("session_id", sessionID), zap.Error(err))
			if !s.writeFrame(conn, types.WSFrame{Type: "error", Error: apologyMessage, SessionID: sessionID}) {
				return
			}
			continue
		}
		resp := toProcessResponse(res)
		if !s.writeFrame(conn, types.WSFrame{Type: "reply", ProcessResponse: &resp, SessionID: sessionID}) {
			return
		}
	}
}

func (s *Server) writeFrame(conn *websocket.Conn, f types.WSFrame) bool {
	if err := conn.WriteJSON(f); err != nil {
		s.logger.Warn("failed to write websocket frame", zap.String("session_id", f.SessionID), zap.Error(err))
		return false
	}
	return true
}

// checkOrigin applies ALLOWED_ORIGINS to browser upgrades. Non-browser
// clients send no Origin and are let through.
func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	for _, o := range s.cfg.AllowedOrigins {
		if o == "*" || strings.EqualFold(o, origin) {
			return true
		}
	}
	return false
}
