package graph

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"nft-market-client/internal/observability"
)

// FeedConfig configures websocket feed behavior.
type FeedConfig struct {
	// ReconnectDelay is the initial delay before a reconnect attempt.
	ReconnectDelay time.Duration
	// MaxReconnectDelay caps the backoff between reconnect attempts.
	MaxReconnectDelay time.Duration
	// PingInterval is the interval for sending ping frames.
	PingInterval time.Duration
	// ReadTimeout is the timeout for reading messages.
	ReadTimeout time.Duration
	// WriteTimeout is the timeout for writing messages.
	WriteTimeout time.Duration

	// Metrics counts reconnects when set.
	Metrics *observability.Metrics
}

// DefaultFeedConfig returns the default feed configuration.
func DefaultFeedConfig() FeedConfig {
	return FeedConfig{
		ReconnectDelay:    1 * time.Second,
		MaxReconnectDelay: 30 * time.Second,
		PingInterval:      30 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      10 * time.Second,
	}
}

// OrderEvent is one order lifecycle notification from the indexer: a listing
// was created, sold, cancelled or expired. The feed observes only; order
// state is never mutated from this side.
type OrderEvent struct {
	Type            string `json:"type"`
	OrderID         string `json:"orderId"`
	NFTID           string `json:"nftId"`
	ContractAddress string `json:"contractAddress"`
	TokenID         string `json:"tokenId"`
	Price           string `json:"price"`
	Status          string `json:"status"`
	ExpiresAt       int64  `json:"expiresAt"`
}

// subscribeMsg is sent after every (re)connect.
type subscribeMsg struct {
	Type    string `json:"type"`
	Channel string `json:"channel"`
}

// OrdersFeed streams order events over a websocket connection with automatic
// reconnect and resubscription.
type OrdersFeed struct {
	endpoint string
	config   FeedConfig

	conn   *websocket.Conn
	connMu sync.Mutex
	closed atomic.Bool

	events chan OrderEvent
	done   chan struct{}
	wg     sync.WaitGroup
}

// NewOrdersFeed connects to the endpoint, subscribes to the orders channel
// and starts the reader and ping loops.
func NewOrdersFeed(ctx context.Context, endpoint string, config *FeedConfig) (*OrdersFeed, error) {
	cfg := DefaultFeedConfig()
	if config != nil {
		cfg = *config
	}

	f := &OrdersFeed{
		endpoint: endpoint,
		config:   cfg,
		events:   make(chan OrderEvent, 64),
		done:     make(chan struct{}),
	}

	if err := f.connect(ctx); err != nil {
		return nil, err
	}

	f.wg.Add(1)
	go f.readLoop()

	f.wg.Add(1)
	go f.pingLoop()

	return f, nil
}

// Events returns the order event stream. The channel closes when the feed is
// closed.
func (f *OrdersFeed) Events() <-chan OrderEvent {
	return f.events
}

// Close shuts the feed down and waits for its goroutines to exit.
func (f *OrdersFeed) Close() error {
	if !f.closed.CompareAndSwap(false, true) {
		return nil
	}
	close(f.done)

	f.connMu.Lock()
	if f.conn != nil {
		f.conn.Close()
	}
	f.connMu.Unlock()

	f.wg.Wait()
	close(f.events)
	return nil
}

// connect dials the endpoint and sends the subscription message.
func (f *OrdersFeed) connect(ctx context.Context) error {
	dialer := websocket.Dialer{
		HandshakeTimeout: 10 * time.Second,
	}

	conn, _, err := dialer.DialContext(ctx, f.endpoint, nil)
	if err != nil {
		return fmt.Errorf("websocket dial: %w", err)
	}

	sub := subscribeMsg{Type: "subscribe", Channel: "orders"}
	conn.SetWriteDeadline(time.Now().Add(f.config.WriteTimeout))
	if err := conn.WriteJSON(sub); err != nil {
		conn.Close()
		return fmt.Errorf("subscribe orders: %w", err)
	}

	f.connMu.Lock()
	f.conn = conn
	f.connMu.Unlock()
	return nil
}

// readLoop reads messages and reconnects with exponential backoff on error.
func (f *OrdersFeed) readLoop() {
	defer f.wg.Done()

	delay := f.config.ReconnectDelay

	for {
		select {
		case <-f.done:
			return
		default:
		}

		f.connMu.Lock()
		conn := f.conn
		f.connMu.Unlock()
		if conn == nil {
			return
		}

		conn.SetReadDeadline(time.Now().Add(f.config.ReadTimeout))
		_, message, err := conn.ReadMessage()
		if err != nil {
			if f.closed.Load() {
				return
			}
			// Reconnect with backoff, resubscribing on success
			select {
			case <-f.done:
				return
			case <-time.After(delay):
			}
			delay *= 2
			if delay > f.config.MaxReconnectDelay {
				delay = f.config.MaxReconnectDelay
			}
			if err := f.connect(context.Background()); err != nil {
				continue
			}
			if f.config.Metrics != nil {
				f.config.Metrics.FeedReconnects.Inc()
			}
			delay = f.config.ReconnectDelay
			continue
		}

		var ev OrderEvent
		if err := json.Unmarshal(message, &ev); err != nil {
			// Ignore frames that are not order events (acks, heartbeats)
			continue
		}
		if ev.OrderID == "" {
			continue
		}

		select {
		case f.events <- ev:
		case <-f.done:
			return
		}
	}
}

// pingLoop sends ping frames to keep the connection alive.
func (f *OrdersFeed) pingLoop() {
	defer f.wg.Done()

	ticker := time.NewTicker(f.config.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-f.done:
			return
		case <-ticker.C:
			f.connMu.Lock()
			conn := f.conn
			f.connMu.Unlock()
			if conn == nil {
				continue
			}
			conn.SetWriteDeadline(time.Now().Add(f.config.WriteTimeout))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil && f.closed.Load() {
				return
			}
		}
	}
}
