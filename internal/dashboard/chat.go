package dashboard

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/ziadkadry99/cadena/internal/chess"
	"github.com/ziadkadry99/cadena/internal/prompt"
	"github.com/ziadkadry99/cadena/internal/storage"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// historyLimit is how many earlier turns a chess question is sent with.
const historyLimit = 6

// chatRequest is the incoming WebSocket message format.
type chatRequest struct {
	Type           string `json:"type"`            // "ask" (chess) or "chat" (offline model)
	ConversationID string `json:"conversation_id"` // empty for new conversations
	Name           string `json:"name,omitempty"`
	Link           string `json:"link,omitempty"`
	Content        string `json:"content"`
}

// chatResponse is the outgoing WebSocket message format.
type chatResponse struct {
	Type           string `json:"type"` // "token", "response" or "error"
	ConversationID string `json:"conversation_id"`
	Content        string `json:"content"`
}

func (d *Dashboard) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("dashboard: websocket upgrade: %v", err)
		return
	}
	defer conn.Close()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("dashboard: websocket read: %v", err)
			}
			return
		}

		var req chatRequest
		if err := json.Unmarshal(msg, &req); err != nil {
			d.sendError(conn, "", "invalid message format")
			continue
		}

		if req.Content == "" {
			d.sendError(conn, req.ConversationID, "content is required")
			continue
		}

		switch req.Type {
		case "ask":
			d.handleAskMessage(conn, r, req)
		case "chat":
			d.handleChatMessage(conn, r, req)
		default:
			d.sendError(conn, req.ConversationID, "unknown message type: "+req.Type)
		}
	}
}

func (d *Dashboard) handleAskMessage(conn *websocket.Conn, r *http.Request, req chatRequest) {
	if d.analyst == nil {
		d.sendError(conn, req.ConversationID, "tournament analysis not configured")
		return
	}
	if err := d.validator.Validate(chess.Details{Name: req.Name, Link: req.Link}); err != nil {
		d.sendError(conn, req.ConversationID, err.Error())
		return
	}

	ctx := r.Context()
	convID := req.ConversationID
	if convID == "" {
		conv, err := d.transcripts.CreateConversation(ctx, storage.KindChess, req.Name)
		if err != nil {
			d.sendError(conn, "", "failed to create conversation: "+err.Error())
			return
		}
		convID = conv.ID
	}

	history, err := d.transcripts.Recent(ctx, convID, historyLimit)
	if err != nil {
		d.sendError(conn, convID, "loading history: "+err.Error())
		return
	}
	if _, err := d.transcripts.Append(ctx, convID, storage.RoleUser, req.Content); err != nil {
		d.sendError(conn, convID, "saving message: "+err.Error())
		return
	}

	answer, err := d.analyst.Ask(ctx, chess.AskInput{
		Name:     req.Name,
		Link:     req.Link,
		Question: req.Content,
		History:  prompt.FromMessages(history),
	})
	if err != nil {
		d.sendError(conn, convID, "question failed: "+err.Error())
		return
	}

	if _, err := d.transcripts.Append(ctx, convID, storage.RoleAssistant, answer); err != nil {
		log.Printf("dashboard: saving answer: %v", err)
	}
	d.sendResponse(conn, chatResponse{Type: "response", ConversationID: convID, Content: answer})
}

func (d *Dashboard) handleChatMessage(conn *websocket.Conn, r *http.Request, req chatRequest) {
	if d.bot == nil || !d.bot.Session().Loaded() {
		d.sendError(conn, req.ConversationID, "no local model loaded")
		return
	}

	ctx := r.Context()
	convID := req.ConversationID
	if convID == "" {
		conv, err := d.bot.Conversation(ctx)
		if err != nil {
			d.sendError(conn, "", "failed to open conversation: "+err.Error())
			return
		}
		convID = conv.ID
	}

	reply, err := d.bot.Send(ctx, convID, req.Content, func(tok string) {
		d.sendResponse(conn, chatResponse{Type: "token", ConversationID: convID, Content: tok})
	})
	if err != nil {
		d.sendError(conn, convID, "generation failed: "+err.Error())
		return
	}
	d.sendResponse(conn, chatResponse{Type: "response", ConversationID: convID, Content: reply.Content})
}

func (d *Dashboard) sendResponse(conn *websocket.Conn, resp chatResponse) {
	if err := conn.WriteJSON(resp); err != nil {
		log.Printf("dashboard: websocket write: %v", err)
	}
}

func (d *Dashboard) sendError(conn *websocket.Conn, conversationID, message string) {
	resp := chatResponse{
		Type:           "error",
		ConversationID: conversationID,
		Content:        message,
	}
	if err := conn.WriteJSON(resp); err != nil {
		log.Printf("dashboard: websocket write error: %v", err)
	}
}
