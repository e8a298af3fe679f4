package http

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"dev-quiz-service/internal/app"
	"dev-quiz-service/internal/domain"
	"github.com/gorilla/websocket"
)

type WSHandler struct {
	service  *app.QuizService
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.QuizService) *WSHandler {
	return &WSHandler{
		service: service,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type answerPayload struct {
	Choice *int `json:"choice"`
}

type finishPayload struct {
	Force bool `json:"force"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// ServeWS upgrades HTTP requests to websockets and maps client actions onto
// quiz session operations. Every action is answered with the new state or an
// error. A session created by this connection is dropped when it closes.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("sessionId")

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	ctx := r.Context()
	owned := ""
	defer func() {
		if owned != "" {
			// The request context is already done once the client hangs up.
			if err := h.service.Abandon(context.Background(), owned); err != nil && !errors.Is(err, domain.ErrSessionNotFound) {
				log.Printf("ws abandon session %s: %v", owned, err)
			}
		}
	}()

	var view domain.SessionView
	if sessionID == "" {
		view, err = h.service.Start(ctx)
		if err == nil {
			owned = view.SessionID
		}
	} else {
		view, err = h.service.View(ctx, sessionID)
	}
	if err != nil {
		_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: err.Error()}})
		return
	}
	sessionID = view.SessionID
	if err := conn.WriteJSON(outboundMessage[domain.SessionView]{Type: "state", Payload: view}); err != nil {
		log.Printf("ws write error: %v", err)
		return
	}

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}

		view, err := h.dispatch(ctx, sessionID, inbound)
		if err != nil {
			if werr := conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: err.Error()}}); werr != nil {
				log.Printf("ws write error: %v", werr)
				return
			}
			continue
		}

		if view.SessionID != sessionID {
			// retry replaced the session
			if owned != "" {
				owned = view.SessionID
			}
			sessionID = view.SessionID
		}
		if err := conn.WriteJSON(outboundMessage[domain.SessionView]{Type: "state", Payload: view}); err != nil {
			log.Printf("ws write error: %v", err)
			return
		}
	}
}

func (h *WSHandler) dispatch(ctx context.Context, sessionID string, inbound inboundMessage) (domain.SessionView, error) {
	switch inbound.Type {
	case "view":
		return h.service.View(ctx, sessionID)
	case "answer":
		var payload answerPayload
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil || payload.Choice == nil {
			return domain.SessionView{}, errors.New("invalid answer payload")
		}
		return h.service.Answer(ctx, sessionID, *payload.Choice)
	case "next":
		return h.service.Next(ctx, sessionID)
	case "prev":
		return h.service.Prev(ctx, sessionID)
	case "finish":
		var payload finishPayload
		if len(inbound.Payload) > 0 {
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				return domain.SessionView{}, errors.New("invalid finish payload")
			}
		}
		return h.service.Finish(ctx, sessionID, payload.Force)
	case "retry":
		return h.service.Retry(ctx, sessionID)
	default:
		return domain.SessionView{}, errors.New("unsupported message type")
	}
}
