package intake

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/iesm-tools/intake/internal/form"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// wsRequest is the incoming WebSocket message format.
type wsRequest struct {
	Type      string      `json:"type"`       // "verify", "answer", "submit" or "view"
	SessionID string      `json:"session_id"` // empty starts a new session
	Email     string      `json:"email,omitempty"`
	Patch     *form.Patch `json:"patch,omitempty"`
}

// wsResponse is the outgoing WebSocket message format.
type wsResponse struct {
	Type      string        `json:"type"` // "state", "payload" or "error"
	SessionID string        `json:"session_id"`
	View      *form.View    `json:"view,omitempty"`
	Payload   *form.Payload `json:"payload,omitempty"`
	Error     string        `json:"error,omitempty"`
	Problems  []string      `json:"problems,omitempty"`
}

// handleWebSocket runs the interactive answer channel: each message is one
// form interaction, each reply the re-derived form state.
func handleWebSocket(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("intake: websocket upgrade: %v", err)
			return
		}
		defer conn.Close()

		for {
			var req wsRequest
			if err := conn.ReadJSON(&req); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					log.Printf("intake: websocket read: %v", err)
				}
				return
			}

			ctx := r.Context()
			sessionID := req.SessionID
			if sessionID == "" {
				sess, err := svc.Create(ctx)
				if err != nil {
					sendWSError(conn, "", err)
					continue
				}
				sessionID = sess.ID
			}

			switch req.Type {
			case "verify":
				if _, err := svc.Verify(ctx, sessionID, req.Email); err != nil {
					sendWSError(conn, sessionID, err)
					continue
				}
				sendWSState(svc, conn, ctx, sessionID)

			case "answer":
				if req.Patch == nil {
					sendWSError(conn, sessionID, errors.New("answer message needs a patch"))
					continue
				}
				if _, err := svc.Apply(ctx, sessionID, *req.Patch); err != nil {
					sendWSError(conn, sessionID, err)
					continue
				}
				sendWSState(svc, conn, ctx, sessionID)

			case "submit":
				payload, err := svc.Submit(ctx, sessionID)
				if err != nil {
					sendWSError(conn, sessionID, err)
					continue
				}
				conn.WriteJSON(wsResponse{Type: "payload", SessionID: sessionID, Payload: payload})

			case "view":
				sendWSState(svc, conn, ctx, sessionID)

			default:
				sendWSError(conn, sessionID, errors.New("unknown message type: "+req.Type))
			}
		}
	}
}

func sendWSState(svc *Service, conn *websocket.Conn, ctx context.Context, sessionID string) {
	view, err := svc.View(ctx, sessionID)
	if err != nil {
		sendWSError(conn, sessionID, err)
		return
	}
	conn.WriteJSON(wsResponse{Type: "state", SessionID: sessionID, View: &view})
}

func sendWSError(conn *websocket.Conn, sessionID string, err error) {
	resp := wsResponse{Type: "error", SessionID: sessionID, Error: err.Error()}
	var ve *form.ValidationError
	if errors.As(err, &ve) {
		resp.Error = "validation failed"
		resp.Problems = ve.Problems
	}
	conn.WriteJSON(resp)
}
