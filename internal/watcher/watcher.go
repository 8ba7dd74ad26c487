package watcher

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/hqnguyen-dev/poly-mirror-bot/pkg/types"
)

const (
	// Queue sized to absorb bursts; a full queue blocks the watcher rather
	// than dropping a mirrored-trade signal.
	queueSize = 1000

	reconnectDelay   = 5 * time.Second
	pingInterval     = 30 * time.Second
	handshakeTimeout = 10 * time.Second
)

// Logger is the logging surface the watcher needs
type Logger interface {
	Info(format string, args ...interface{})
	Warning(format string, args ...interface{})
	Error(format string, args ...interface{})
}

// Watcher maintains one websocket subscription per tracked wallet and fans
// decoded trades into a single bounded queue. Each wallet's connection
// reconnects independently and forever; one wallet's outage is invisible to
// the others except through reduced event volume.
type Watcher struct {
	wsURL   string
	wallets []string
	dialer  *websocket.Dialer
	log     Logger

	retryAfter time.Duration

	// OnReconnect, when set, is invoked each time a wallet's transport is
	// re-dialed after a failure.
	OnReconnect func(wallet string)
}

// New creates a watcher for the given wallets
func New(wsURL string, wallets []string, log Logger) *Watcher {
	dialer := &websocket.Dialer{HandshakeTimeout: handshakeTimeout}
	return &Watcher{
		wsURL:      wsURL,
		wallets:    wallets,
		dialer:     dialer,
		log:        log,
		retryAfter: reconnectDelay,
	}
}

// Start launches one goroutine per wallet and returns the shared trade
// queue. The channel is closed only after every watcher goroutine has
// observed ctx cancellation and exited.
func (w *Watcher) Start(ctx context.Context) <-chan types.Trade {
	trades := make(chan types.Trade, queueSize)

	var wg sync.WaitGroup
	for _, wallet := range w.wallets {
		wg.Add(1)
		go func(wallet string) {
			defer wg.Done()
			w.watchWallet(ctx, wallet, trades)
		}(wallet)
	}

	go func() {
		wg.Wait()
		close(trades)
	}()

	return trades
}

// watchWallet is the supervised reconnect loop for one wallet
func (w *Watcher) watchWallet(ctx context.Context, wallet string, trades chan<- types.Trade) {
	first := true
	for {
		if ctx.Err() != nil {
			return
		}
		if !first {
			if w.OnReconnect != nil {
				w.OnReconnect(wallet)
			}
		}
		first = false

		if err := w.connectAndWatch(ctx, wallet, trades); err != nil {
			w.logError("websocket error for %s: %v", wallet, err)
		} else {
			w.logInfo("websocket connection closed for %s", wallet)
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(w.retryAfter):
		}
	}
}

// connectAndWatch runs one connection lifetime: dial, subscribe, pump
// messages into the queue until the transport fails or ctx is cancelled.
func (w *Watcher) connectAndWatch(ctx context.Context, wallet string, trades chan<- types.Trade) error {
	conn, _, err := w.dialer.DialContext(ctx, w.wsURL, nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	sub := subscribeMessage{Type: "subscribe", Channel: "trades", Wallet: wallet}
	if err := conn.WriteJSON(sub); err != nil {
		return err
	}
	w.logInfo("subscribed to trades for wallet %s", wallet)

	// Writer side: keepalive pings plus an unblocking close on cancellation.
	done := make(chan struct{})
	defer close(done)
	go func() {
		ticker := time.NewTicker(pingInterval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ctx.Done():
				conn.Close() // unblocks ReadMessage
				return
			case <-ticker.C:
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					return
				}
			}
		}
	}()

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}

		trade, ok := parseTradeMessage(message, wallet)
		if !ok {
			continue
		}

		// Blocking send: backpressure over data loss.
		select {
		case trades <- trade:
		case <-ctx.Done():
			return nil
		}
	}
}

type subscribeMessage struct {
	Type    string `json:"type"`
	Channel string `json:"channel"`
	Wallet  string `json:"wallet"`
}

type tradeMessage struct {
	Type string `json:"type"`
	Data struct {
		EventID   string   `json:"event_id"`
		MarketID  string   `json:"market_id"`
		Side      string   `json:"side"`
		Shares    *float64 `json:"shares"`
		Price     *float64 `json:"price"`
		Timestamp *int64   `json:"timestamp"`
		TxHash    string   `json:"tx_hash"`
	} `json:"data"`
}

// parseTradeMessage decodes a feed message into a Trade. Messages that are
// not trade notifications, miss required fields, or carry non-positive
// shares or prices are discarded.
func parseTradeMessage(raw []byte, wallet string) (types.Trade, bool) {
	var msg tradeMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		return types.Trade{}, false
	}
	if msg.Type != "trade" {
		return types.Trade{}, false
	}

	d := msg.Data
	if d.EventID == "" || d.MarketID == "" || d.Shares == nil || d.Price == nil || d.Timestamp == nil {
		return types.Trade{}, false
	}
	if *d.Shares <= 0 || *d.Price <= 0 {
		return types.Trade{}, false
	}

	var side types.TradeSide
	switch d.Side {
	case string(types.SideBuy):
		side = types.SideBuy
	case string(types.SideSell):
		side = types.SideSell
	default:
		return types.Trade{}, false
	}

	return types.Trade{
		Wallet:    wallet,
		EventID:   d.EventID,
		MarketID:  d.MarketID,
		Side:      side,
		Shares:    *d.Shares,
		Price:     *d.Price,
		Timestamp: *d.Timestamp,
		TxHash:    d.TxHash,
	}, true
}

func (w *Watcher) logInfo(format string, args ...interface{}) {
	if w.log != nil {
		w.log.Info(format, args...)
	}
}

func (w *Watcher) logError(format string, args ...interface{}) {
	if w.log != nil {
		w.log.Error(format, args...)
	}
}
