package ws

import (
	"context"
	"net/http"
	"strconv"

	"github.com/coder/websocket"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	redisstore "github.com/gosuda/aicrm/internal/store/redis"
)

// Subscriber streams raw payloads published on a channel.
// *redisstore.PubSub satisfies this interface.
type Subscriber interface {
	Subscribe(ctx context.Context, channel string) (<-chan []byte, func(), error)
}

// Hub fans interaction events from pub/sub out to WebSocket clients.
type Hub struct {
	sub Subscriber
}

// NewHub creates a hub. A nil subscriber disables the live feed.
func NewHub(sub Subscriber) *Hub {
	return &Hub{sub: sub}
}

// ServeInteractions streams every created or updated interaction.
func (h *Hub) ServeInteractions(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, redisstore.InteractionsChannel())
}

// ServeInteraction streams events for the interaction in the {id} URL param.
func (h *Hub) ServeInteraction(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id < 1 {
		http.Error(w, "invalid interaction id", http.StatusBadRequest)
		return
	}
	h.serve(w, r, redisstore.InteractionChannel(id))
}

func (h *Hub) serve(w http.ResponseWriter, r *http.Request, channel string) {
	if h.sub == nil {
		http.Error(w, "live feed disabled", http.StatusNotImplemented)
		return
	}

	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("websocket accept")
		return
	}
	defer conn.CloseNow()

	// Clients only listen; CloseRead handles their close frames.
	ctx := conn.CloseRead(r.Context())

	messages, cleanup, err := h.sub.Subscribe(ctx, channel)
	if err != nil {
		log.Error().Err(err).Str("channel", channel).Msg("websocket subscribe")
		_ = conn.Close(websocket.StatusInternalError, "subscribe failed")
		return
	}
	defer cleanup()

	for {
		select {
		case <-ctx.Done():
			_ = conn.Close(websocket.StatusNormalClosure, "connection closed")
			return
		case msg, msgOK := <-messages:
			if !msgOK {
				_ = conn.Close(websocket.StatusNormalClosure, "channel closed")
				return
			}
			if writeErr := conn.Write(ctx, websocket.MessageText, msg); writeErr != nil {
				log.Debug().Err(writeErr).Msg("websocket write")
				return
			}
		}
	}
}
