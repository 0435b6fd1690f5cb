package httpapi

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// The demo frontend is served from another origin.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// tickerFrame is one websocket push for the scrolling ticker.
type tickerFrame struct {
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Tickers   any       `json:"tickers"`
}

// TickerWS streams perp tickers to the client on a fixed interval until
// the client disconnects or the request context ends.
func (h *Handlers) TickerWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()

	if h.metrics != nil {
		h.metrics.WSClients.Inc()
		defer h.metrics.WSClients.Dec()
	}

	interval := h.tickerInterval
	if interval <= 0 {
		interval = 2 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// Drain client frames so pings and close messages are processed.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	send := func() error {
		conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
		return conn.WriteJSON(tickerFrame{
			Type:      "tickers",
			Timestamp: time.Now().UTC(),
			Tickers:   h.market.Tickers(r.Context()),
		})
	}

	if err := send(); err != nil {
		return
	}
	for {
		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
			if err := send(); err != nil {
				return
			}
		}
	}
}
