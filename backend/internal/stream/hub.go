// Package stream broadcasts periodic quote snapshots over WebSocket. Quotes
// come straight from the static instrument catalog; this is a read-only feed
// and never mutates a price.
package stream

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/user/papertrade/backend/internal/catalog"
	"github.com/user/papertrade/backend/internal/models"
)

// Quote is one instrument's price snapshot on the wire.
type Quote struct {
	Symbol   string          `json:"symbol"`
	Exchange models.Exchange `json:"exchange"`
	Price    decimal.Decimal `json:"price"`
	Ts       int64           `json:"ts"` // unix milliseconds
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub manages connected clients and fans quote snapshots out to them.
type Hub struct {
	catalog  *catalog.Catalog
	logger   *zap.Logger
	interval time.Duration

	mu      sync.Mutex
	clients map[*client]struct{}
}

// NewHub creates a hub that snapshots the catalog every interval.
func NewHub(cat *catalog.Catalog, logger *zap.Logger, interval time.Duration) *Hub {
	return &Hub{
		catalog:  cat,
		logger:   logger,
		interval: interval,
		clients:  make(map[*client]struct{}),
	}
}

// Run broadcasts snapshots until the context is cancelled.
func (h *Hub) Run(ctx context.Context) {
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			h.broadcast(h.snapshot())
		}
	}
}

func (h *Hub) snapshot() []byte {
	now := time.Now().UnixMilli()
	instruments := h.catalog.ListAll()
	quotes := make([]Quote, 0, len(instruments))
	for _, inst := range instruments {
		quotes = append(quotes, Quote{
			Symbol:   inst.Symbol,
			Exchange: inst.Exchange,
			Price:    inst.LastTradedPrice,
			Ts:       now,
		})
	}
	msg, err := json.Marshal(quotes)
	if err != nil {
		h.logger.Error("marshal quote snapshot", zap.Error(err))
		return nil
	}
	return msg
}

func (h *Hub) broadcast(msg []byte) {
	if msg == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for cl := range h.clients {
		select {
		case cl.send <- msg:
		default:
			// Slow consumer: drop the connection rather than block the feed.
			close(cl.send)
			delete(h.clients, cl)
		}
	}
}

// Serve attaches a connection to the hub and blocks until it closes. An
// initial snapshot is sent immediately so clients need not wait a full tick.
func (h *Hub) Serve(conn *websocket.Conn) {
	cl := &client{conn: conn, send: make(chan []byte, 16)}
	if first := h.snapshot(); first != nil {
		cl.send <- first
	}

	h.mu.Lock()
	h.clients[cl] = struct{}{}
	h.mu.Unlock()
	h.logger.Info("quote stream client connected", zap.String("remote", conn.RemoteAddr().String()))

	go h.writePump(cl)

	// Read loop: quotes are one-way, so inbound messages are ignored, but the
	// read keeps the connection's close/ping handling alive.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	h.mu.Lock()
	if _, ok := h.clients[cl]; ok {
		close(cl.send)
		delete(h.clients, cl)
	}
	h.mu.Unlock()
	conn.Close()
	h.logger.Info("quote stream client disconnected", zap.String("remote", conn.RemoteAddr().String()))
}

func (h *Hub) writePump(cl *client) {
	for msg := range cl.send {
		if err := cl.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			cl.conn.Close()
			return
		}
	}
}
