package graph

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nft-market-client/internal/observability"
)

// feedServer upgrades connections, checks the subscription handshake and
// pushes the given frames.
func feedServer(t *testing.T, frames []string) *httptest.Server {
	t.Helper()
	upgrader := websocket.Upgrader{}

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		var sub subscribeMsg
		if err := conn.ReadJSON(&sub); err != nil {
			return
		}
		if sub.Type != "subscribe" || sub.Channel != "orders" {
			t.Errorf("unexpected subscription %+v", sub)
			return
		}

		for _, frame := range frames {
			if err := conn.WriteMessage(websocket.TextMessage, []byte(frame)); err != nil {
				return
			}
		}

		// Keep the connection open until the client closes it
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func TestOrdersFeed_DeliversEvents(t *testing.T) {
	srv := feedServer(t, []string{
		`{"type": "order_created", "orderId": "order-1", "nftId": "0xccc-1", "price": "1000", "status": "open"}`,
	})
	defer srv.Close()

	feed, err := NewOrdersFeed(context.Background(), wsURL(srv), nil)
	require.NoError(t, err)
	defer feed.Close()

	select {
	case ev := <-feed.Events():
		assert.Equal(t, "order_created", ev.Type)
		assert.Equal(t, "order-1", ev.OrderID)
		assert.Equal(t, "1000", ev.Price)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for order event")
	}
}

func TestOrdersFeed_IgnoresNonOrderFrames(t *testing.T) {
	srv := feedServer(t, []string{
		`{"type": "ack"}`,
		`not json at all`,
		`{"type": "order_sold", "orderId": "order-2", "status": "sold"}`,
	})
	defer srv.Close()

	feed, err := NewOrdersFeed(context.Background(), wsURL(srv), nil)
	require.NoError(t, err)
	defer feed.Close()

	select {
	case ev := <-feed.Events():
		assert.Equal(t, "order-2", ev.OrderID, "ack and garbage frames must be skipped")
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for order event")
	}
}

func TestOrdersFeed_CloseClosesEvents(t *testing.T) {
	srv := feedServer(t, nil)
	defer srv.Close()

	feed, err := NewOrdersFeed(context.Background(), wsURL(srv), nil)
	require.NoError(t, err)

	require.NoError(t, feed.Close())
	require.NoError(t, feed.Close(), "double close must be safe")

	select {
	case _, open := <-feed.Events():
		assert.False(t, open, "events channel must close on Close")
	case <-time.After(time.Second):
		t.Fatal("events channel not closed")
	}
}

func TestOrdersFeed_ReconnectIsCounted(t *testing.T) {
	upgrader := websocket.Upgrader{}
	var mu sync.Mutex
	conns := 0

	// First connection is dropped right after the handshake; the second one
	// delivers an event.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		var sub subscribeMsg
		if err := conn.ReadJSON(&sub); err != nil {
			return
		}

		mu.Lock()
		conns++
		n := conns
		mu.Unlock()
		if n == 1 {
			return
		}

		conn.WriteMessage(websocket.TextMessage,
			[]byte(`{"type": "order_created", "orderId": "order-1", "status": "open"}`))
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer srv.Close()

	metrics := observability.NewMetrics("graphtest")
	cfg := DefaultFeedConfig()
	cfg.ReconnectDelay = 10 * time.Millisecond
	cfg.MaxReconnectDelay = 100 * time.Millisecond
	cfg.Metrics = metrics

	feed, err := NewOrdersFeed(context.Background(), wsURL(srv), &cfg)
	require.NoError(t, err)
	defer feed.Close()

	select {
	case ev := <-feed.Events():
		assert.Equal(t, "order-1", ev.OrderID)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for event after reconnect")
	}

	assert.GreaterOrEqual(t, testutil.ToFloat64(metrics.FeedReconnects), 1.0)
}

func TestOrdersFeed_DialFailure(t *testing.T) {
	_, err := NewOrdersFeed(context.Background(), "ws://127.0.0.1:1/nope", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "websocket dial")
}
