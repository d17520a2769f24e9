package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/coder/websocket"
)

// ServeWS runs the chat flow over a websocket. Frames carry the same JSON
// shapes as the HTTP endpoint; the connection closes after an end turn.
func (h *Handler) ServeWS(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		Error(w, http.StatusBadRequest, "user_id query parameter is required")
		return
	}

	opts := &websocket.AcceptOptions{}
	if h.cfg.IsDevelopment() {
		opts.InsecureSkipVerify = true
	} else if h.cfg.FrontendURL != "" {
		opts.OriginPatterns = []string{h.cfg.FrontendURL}
	}

	ws, err := websocket.Accept(w, r, opts)
	if err != nil {
		slog.Error("websocket accept failed", "user_id", userID, "error", err)
		return
	}
	defer func() {
		if closeErr := ws.Close(websocket.StatusNormalClosure, "session ended"); closeErr != nil {
			slog.Debug("websocket close error", "error", closeErr)
		}
	}()

	ctx := r.Context()
	for {
		_, data, err := ws.Read(ctx)
		if err != nil {
			if websocket.CloseStatus(err) == -1 && !errors.Is(err, context.Canceled) {
				slog.Debug("websocket read error", "user_id", userID, "error", err)
			}
			return
		}

		var req chatRequest
		if err := json.Unmarshal(data, &req); err != nil {
			h.writeWS(ctx, ws, map[string]string{"error": "invalid message frame"})
			continue
		}

		resp, err := h.chatTurn(ctx, userID, req)
		if err != nil {
			h.writeWS(ctx, ws, map[string]string{"error": err.Error()})
			continue
		}

		h.writeWS(ctx, ws, resp)
		if resp.End {
			return
		}
	}
}

func (h *Handler) writeWS(ctx context.Context, ws *websocket.Conn, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		slog.Error("failed to encode websocket frame", "error", err)
		return
	}
	if err := ws.Write(ctx, websocket.MessageText, data); err != nil {
		slog.Debug("websocket write error", "error", err)
	}
}
