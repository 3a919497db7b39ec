package web

import (
	"context"
	"errors"
	"net/http"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
)

// chatRequest is one inbound user turn on the chat websocket.
type chatRequest struct {
	Content string `json:"content"`
}

// chatResponse is one outbound frame: either an assistant turn or an error.
type chatResponse struct {
	Role    string `json:"role,omitempty"`
	Content string `json:"content,omitempty"`
	Error   string `json:"error,omitempty"`
}

// handleChatWebSocket runs the chat loop over one websocket connection. Each
// inbound frame is a user turn; the reply frame carries the assistant turn.
// Controller errors are reported in-band so the client can retry the turn
// without reconnecting.
func (s *Server) handleChatWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		s.logger.Error("websocket accept failed", "error", err)
		return
	}
	defer conn.CloseNow()

	ctx := r.Context()

	for {
		var req chatRequest
		if err := wsjson.Read(ctx, conn, &req); err != nil {
			if websocket.CloseStatus(err) == websocket.StatusNormalClosure ||
				errors.Is(err, context.Canceled) {
				return
			}

			s.logger.Debug("websocket read ended", "error", err)
			return
		}

		reply := s.chatTurn(ctx, req.Content)

		if err := wsjson.Write(ctx, conn, reply); err != nil {
			s.logger.Debug("websocket write failed", "error", err)
			return
		}
	}
}

func (s *Server) chatTurn(ctx context.Context, content string) chatResponse {
	reply, err := s.bot.Send(ctx, content)
	if err != nil {
		return chatResponse{Error: err.Error()}
	}

	return chatResponse{Role: reply.Role.String(), Content: reply.Text}
}
